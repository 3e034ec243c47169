package generator

import "testing"

func TestRNGMatchesKnownStream(t *testing.T) {
	rng := NewRNG("same-seed")
	expected := []float64{0.42831624625250697, 0.053841064684093, 0.9561180372256786}
	for i, want := range expected {
		if got := rng.Float64(); got != want {
			t.Fatalf("value %d: expected %v, got %v", i, want, got)
		}
	}

	intRNG := NewRNG(IntSeed(42))
	for i, want := range []float64{0.1682699858210981, 0.2886446751654148} {
		if got := intRNG.Float64(); got != want {
			t.Fatalf("int seed value %d: expected %v, got %v", i, want, got)
		}
	}
}

func TestHashSeed(t *testing.T) {
	tests := []struct {
		seed string
		want uint32
	}{
		{seed: "", want: 167010153},
		{seed: "lenuk-type", want: 440465560},
		{seed: "ção", want: 4039141267},
	}
	for _, tc := range tests {
		if got := hashSeed(tc.seed); got != tc.want {
			t.Fatalf("hashSeed(%q): expected %d, got %d", tc.seed, tc.want, got)
		}
	}
}

func TestRNGRange(t *testing.T) {
	rng := NewRNG("range")
	for i := 0; i < 10000; i++ {
		v := rng.Float64()
		if v < 0 || v >= 1 {
			t.Fatalf("value out of range: %v", v)
		}
		n := rng.Intn(3, 7)
		if n < 3 || n >= 7 {
			t.Fatalf("int out of range: %d", n)
		}
	}
	if got := rng.Intn(5, 5); got != 5 {
		t.Fatalf("expected empty range to return min, got %d", got)
	}
}
