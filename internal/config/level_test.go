package config

import "testing"

func TestLookupLevel(t *testing.T) {
	hard, err := LookupLevel(" Hard ")
	if err != nil {
		t.Fatalf("lookup hard: %v", err)
	}
	if !hard.Punctuation || !hard.Numbers || *hard.PunctuationRate != 1 || *hard.NumbersRate != 1 {
		t.Fatalf("unexpected hard preset: %+v", hard)
	}
	easy, err := LookupLevel("easy")
	if err != nil {
		t.Fatalf("lookup easy: %v", err)
	}
	if easy.Difficulty != "common" || easy.Punctuation || easy.Numbers || easy.NumbersRate != nil {
		t.Fatalf("unexpected easy preset: %+v", easy)
	}
	if _, err := LookupLevel("insane"); err == nil {
		t.Fatalf("expected unknown level error")
	}
}

func TestLevelNames(t *testing.T) {
	names := LevelNames()
	if len(names) != 3 || names[0] != "easy" || names[1] != "hard" || names[2] != "medium" {
		t.Fatalf("unexpected names: %v", names)
	}
}
