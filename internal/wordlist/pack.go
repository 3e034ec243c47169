package wordlist

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownLanguage is returned when a language code has no registered pack.
// It signals a configuration bug rather than bad user input.
var ErrUnknownLanguage = errors.New("unknown language")

// Direction is the writing direction of a pack.
type Direction string

// DirectionLTR is the only direction the built-in packs use.
const DirectionLTR Direction = "ltr"

// Quote is an optional longer passage shipped with a pack.
type Quote struct {
	Text   string
	Source string
}

// Pack is an immutable language word pool. Words keep their source order;
// the most common words come first.
type Pack struct {
	Name      string
	Code      string
	Direction Direction
	Words     []string
	Bigrams   []string
	Quotes    []Quote
}

// Summary describes a pack without its word data.
type Summary struct {
	Name      string
	Code      string
	Direction Direction
}

// Registry is a lookup table of packs keyed by code. Build it once and share
// it read-only.
type Registry struct {
	order []string
	packs map[string]Pack
}

// NewRegistry normalises and registers the given packs.
func NewRegistry(packs ...Pack) (*Registry, error) {
	r := &Registry{packs: make(map[string]Pack, len(packs))}
	for _, pack := range packs {
		if err := r.Register(pack); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a pack. Codes must be unique and non-empty.
func (r *Registry) Register(pack Pack) error {
	code := strings.TrimSpace(pack.Code)
	if code == "" {
		return fmt.Errorf("pack %q has no code", pack.Name)
	}
	if _, ok := r.packs[code]; ok {
		return fmt.Errorf("pack %q already registered", code)
	}
	pack.Code = code
	if pack.Direction == "" {
		pack.Direction = DirectionLTR
	}
	pack.Words = dedupeWords(pack.Words)
	r.packs[code] = pack
	r.order = append(r.order, code)
	return nil
}

// Lookup returns the pack registered under code.
func (r *Registry) Lookup(code string) (Pack, error) {
	pack, ok := r.packs[code]
	if !ok {
		return Pack{}, fmt.Errorf("%w: %q", ErrUnknownLanguage, code)
	}
	return pack, nil
}

// List returns pack summaries in registration order.
func (r *Registry) List() []Summary {
	out := make([]Summary, 0, len(r.order))
	for _, code := range r.order {
		pack := r.packs[code]
		out = append(out, Summary{Name: pack.Name, Code: pack.Code, Direction: pack.Direction})
	}
	return out
}

func dedupeWords(words []string) []string {
	seen := make(map[string]struct{}, len(words))
	out := make([]string, 0, len(words))
	for _, raw := range words {
		word := strings.TrimSpace(raw)
		if word == "" {
			continue
		}
		if _, ok := seen[word]; ok {
			continue
		}
		seen[word] = struct{}{}
		out = append(out, word)
	}
	return out
}
