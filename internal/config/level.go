package config

import (
	"fmt"
	"sort"
	"strings"
)

// Level bundles the content settings behind a named difficulty.
type Level struct {
	Difficulty      string
	Punctuation     bool
	Numbers         bool
	PunctuationRate *float64
	NumbersRate     *float64
}

func rate(v float64) *float64 {
	return &v
}

var levels = map[string]Level{
	"easy":   {Difficulty: "common"},
	"medium": {Difficulty: "mixed", Numbers: true, NumbersRate: rate(1)},
	"hard":   {Difficulty: "mixed", Punctuation: true, Numbers: true, PunctuationRate: rate(1), NumbersRate: rate(1)},
}

// LookupLevel returns the preset for name.
func LookupLevel(name string) (Level, error) {
	level, ok := levels[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Level{}, fmt.Errorf("unknown level %q (use %s)", name, strings.Join(LevelNames(), ", "))
	}
	return level, nil
}

// LevelNames lists the preset names in sorted order.
func LevelNames() []string {
	names := make([]string, 0, len(levels))
	for name := range levels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
