package wordlist

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestRegistryDedupesPreservingOrder(t *testing.T) {
	reg, err := NewRegistry(Pack{
		Name:  "Test",
		Code:  "xx",
		Words: []string{"one", " two ", "", "one", "three", "two", "  "},
	})
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	pack, err := reg.Lookup("xx")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	expected := []string{"one", "two", "three"}
	if len(pack.Words) != len(expected) {
		t.Fatalf("expected %d words, got %v", len(expected), pack.Words)
	}
	for i, word := range expected {
		if pack.Words[i] != word {
			t.Fatalf("expected %q at index %d, got %q", word, i, pack.Words[i])
		}
	}
	if pack.Direction != DirectionLTR {
		t.Fatalf("expected default direction ltr, got %q", pack.Direction)
	}
}

func TestRegistryUnknownLanguage(t *testing.T) {
	reg, err := NewRegistry()
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	if _, err := reg.Lookup("zz-ZZ"); !errors.Is(err, ErrUnknownLanguage) {
		t.Fatalf("expected ErrUnknownLanguage, got %v", err)
	}
}

func TestRegistryRejectsDuplicateCodes(t *testing.T) {
	reg, err := NewRegistry(Pack{Code: "xx", Words: []string{"a"}})
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	if err := reg.Register(Pack{Code: "xx", Words: []string{"b"}}); err == nil {
		t.Fatalf("expected duplicate code error")
	}
	if err := reg.Register(Pack{Name: "nameless"}); err == nil {
		t.Fatalf("expected missing code error")
	}
}

func TestBuiltinPacks(t *testing.T) {
	reg, err := Builtin()
	if err != nil {
		t.Fatalf("builtin: %v", err)
	}
	summaries := reg.List()
	if len(summaries) != 4 {
		t.Fatalf("expected 4 built-in packs, got %d", len(summaries))
	}
	if summaries[0].Code != DefaultLanguageCode {
		t.Fatalf("expected %s first, got %s", DefaultLanguageCode, summaries[0].Code)
	}
	for _, s := range summaries {
		pack, err := reg.Lookup(s.Code)
		if err != nil {
			t.Fatalf("lookup %s: %v", s.Code, err)
		}
		if len(pack.Words) < 16 {
			t.Fatalf("pack %s has only %d words", s.Code, len(pack.Words))
		}
		seen := map[string]bool{}
		for _, w := range pack.Words {
			if seen[w] {
				t.Fatalf("pack %s has duplicate %q", s.Code, w)
			}
			seen[w] = true
		}
	}

	// Registries are independent copies.
	if err := reg.Register(Pack{Code: "custom", Words: []string{"x"}}); err != nil {
		t.Fatalf("register custom: %v", err)
	}
	other, err := Builtin()
	if err != nil {
		t.Fatalf("builtin: %v", err)
	}
	if _, err := other.Lookup("custom"); !errors.Is(err, ErrUnknownLanguage) {
		t.Fatalf("expected custom pack to stay local, got %v", err)
	}
}

func TestLoadWords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xx.txt")
	if err := os.WriteFile(path, []byte("alpha\n\n  beta \ngamma\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	words, err := LoadWords(path)
	if err != nil {
		t.Fatalf("load words: %v", err)
	}
	if len(words) != 3 || words[1] != "beta" {
		t.Fatalf("unexpected words: %v", words)
	}

	empty := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(empty, []byte("\n  \n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadWords(empty); err == nil {
		t.Fatalf("expected error for empty word list")
	}
}
