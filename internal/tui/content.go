package tui

import (
	"strconv"
	"strings"

	"github.com/verte-zerg/lenuk/internal/generator"
	"github.com/verte-zerg/lenuk/internal/model"
)

// ContentSeed keys a prompt by the base seed, every setting that shapes the
// word list, and the regeneration count.
func ContentSeed(cfg model.Config, generation int) generator.Seed {
	base := cfg.Seed
	if base == "" {
		base = string(generator.DefaultSeed)
	}
	key := strings.Join([]string{
		base,
		cfg.Lang,
		cfg.Difficulty,
		strconv.Itoa(cfg.Duration),
		strconv.Itoa(cfg.Words),
	}, ":")
	return generator.ComposeSeed(generator.Seed(key), generation)
}

// BuildOptions maps practice settings onto generator options.
func BuildOptions(cfg model.Config, generation int) generator.BuildOptions {
	punctRate := cfg.PunctuationRate
	numbersRate := cfg.NumbersRate
	allowRepeat := cfg.AllowRepeat
	return generator.BuildOptions{
		LanguageCode:    cfg.Lang,
		Mode:            generator.Mode(cfg.Mode),
		WordCount:       cfg.Words,
		Duration:        cfg.Duration,
		Seed:            ContentSeed(cfg, generation),
		Punctuation:     cfg.Punctuation,
		Numbers:         cfg.Numbers,
		PunctuationRate: &punctRate,
		NumbersRate:     &numbersRate,
		AllowRepeat:     &allowRepeat,
		Difficulty:      generator.Difficulty(cfg.Difficulty),
	}
}
