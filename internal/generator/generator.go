// Package generator builds deterministic typing prompts.
package generator

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/verte-zerg/lenuk/internal/wordlist"
)

const (
	// DefaultPunctuationRate is used when ToggleOptions.PunctuationRate is nil.
	DefaultPunctuationRate = 0.12
	// DefaultNumbersRate is used when ToggleOptions.NumbersRate is nil.
	DefaultNumbersRate = 0.08
	// DefaultSeed is the base seed when the caller has none.
	DefaultSeed Seed = "lenuk-type"

	punctuationChars = ".,?!;:"

	minCommonPool      = 16
	commonPoolShare    = 0.6
	minTimeModeWords   = 40
	timeWordsPerSecond = 4.5
)

var punctuationSymbols = []string{".", ",", "?", "!", ";", ":"}

// PackSource resolves language packs by code.
type PackSource interface {
	Lookup(code string) (wordlist.Pack, error)
}

// Generator produces prompts from the packs of a PackSource.
type Generator struct {
	packs PackSource
}

// New returns a Generator reading packs from src.
func New(src PackSource) *Generator {
	return &Generator{packs: src}
}

// ComposeSeed derives the seed of the n-th regeneration from a base seed.
func ComposeSeed(base Seed, generation int) Seed {
	if base == "" {
		base = DefaultSeed
	}
	return Seed(string(base) + "::" + strconv.Itoa(generation))
}

// GenerateWordList draws words from the resolved pool. Unknown language codes
// return wordlist.ErrUnknownLanguage.
func (g *Generator) GenerateWordList(opts WordListOptions) (GeneratedWordList, error) {
	count := opts.Count
	if count <= 0 {
		return GeneratedWordList{Words: []string{}}, nil
	}
	pack, err := g.packs.Lookup(opts.LanguageCode)
	if err != nil {
		return GeneratedWordList{}, err
	}
	pool := difficultyPool(pack.Words, opts.Difficulty)
	if len(pool) == 0 {
		return GeneratedWordList{Words: []string{}}, nil
	}

	rng := NewRNG(opts.Seed)
	if opts.AllowRepeat != nil && !*opts.AllowRepeat {
		return GeneratedWordList{Words: pickUnique(pool, count, rng)}, nil
	}

	words := make([]string, 0, count)
	for i := 0; i < count; i++ {
		words = append(words, pool[rng.Intn(0, len(pool))])
	}
	return GeneratedWordList{Words: words}, nil
}

// ApplyToggles inserts number tokens and appends punctuation per word. The
// random stream is seeded from the options and the exact word sequence.
func ApplyToggles(words []string, opts ToggleOptions) ToggledTokenStream {
	punctRate := clampRate(opts.PunctuationRate, DefaultPunctuationRate)
	numbersRate := clampRate(opts.NumbersRate, DefaultNumbersRate)
	rng := NewRNG(toggleSeed(words, opts))
	tokens := make([]string, 0, len(words))

	for _, raw := range words {
		word := sanitizeWord(raw)
		if word == "" {
			continue
		}
		if opts.Numbers && rng.Float64() < numbersRate*0.5 {
			tokens = append(tokens, numberToken(rng))
		}
		token := word
		if opts.Punctuation && rng.Float64() < punctRate && !hasTrailingPunctuation(token) {
			token += punctuationSymbols[rng.Intn(0, len(punctuationSymbols))]
		}
		tokens = append(tokens, token)
		if opts.Numbers && rng.Float64() < numbersRate*0.5 {
			tokens = append(tokens, numberToken(rng))
		}
	}
	return ToggledTokenStream{Tokens: tokens}
}

// ToCharStream joins non-blank tokens with single spaces.
func ToCharStream(tokens []string) CharStream {
	kept := make([]string, 0, len(tokens))
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		kept = append(kept, token)
	}
	text := strings.Join(kept, " ")
	runes := []rune(text)
	chars := make([]string, len(runes))
	for i, r := range runes {
		chars[i] = string(r)
	}
	return CharStream{Chars: chars, Text: text}
}

// BuildTestContent generates words, applies toggles and flattens the result.
func (g *Generator) BuildTestContent(opts BuildOptions) (GeneratedTestContent, error) {
	target := TargetWordCount(opts.Mode, opts.WordCount, opts.Duration)
	list, err := g.GenerateWordList(WordListOptions{
		LanguageCode: opts.LanguageCode,
		Count:        target,
		Seed:         opts.Seed,
		AllowRepeat:  opts.AllowRepeat,
		Difficulty:   opts.Difficulty,
	})
	if err != nil {
		return GeneratedTestContent{}, err
	}
	stream := ApplyToggles(list.Words, ToggleOptions{
		Punctuation:     opts.Punctuation,
		Numbers:         opts.Numbers,
		PunctuationRate: opts.PunctuationRate,
		NumbersRate:     opts.NumbersRate,
		Seed:            opts.Seed,
	})
	chars := ToCharStream(stream.Tokens)

	return GeneratedTestContent{
		LanguageCode:    opts.LanguageCode,
		Mode:            opts.Mode,
		Seed:            opts.Seed,
		TargetWordCount: target,
		Words:           list.Words,
		Tokens:          stream.Tokens,
		Chars:           chars.Chars,
		Text:            chars.Text,
	}, nil
}

// TargetWordCount sizes the word list. Time mode overshoots on purpose so a
// fast typist does not run out of text before the clock does.
func TargetWordCount(mode Mode, wordCount, duration int) int {
	if mode == ModeWords {
		return max(1, wordCount)
	}
	return max(minTimeModeWords, int(math.Ceil(float64(duration)*timeWordsPerSecond)), wordCount)
}

func difficultyPool(words []string, difficulty Difficulty) []string {
	if difficulty != DifficultyCommon {
		return words
	}
	size := max(minCommonPool, min(len(words), int(math.Floor(float64(len(words))*commonPoolShare))))
	return words[:min(size, len(words))]
}

// pickUnique is a partial Fisher-Yates shuffle over a copy of pool.
func pickUnique(pool []string, count int, rng *RNG) []string {
	shuffled := append([]string(nil), pool...)
	limit := min(count, len(shuffled))
	out := make([]string, 0, limit)
	for i := 0; i < limit; i++ {
		j := rng.Intn(i, len(shuffled))
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		out = append(out, shuffled[i])
	}
	return out
}

func numberToken(rng *RNG) string {
	length := rng.Intn(1, 5)
	if length == 1 {
		return strconv.Itoa(rng.Intn(0, 10))
	}
	var b strings.Builder
	b.WriteString(strconv.Itoa(rng.Intn(1, 10)))
	for i := 1; i < length; i++ {
		b.WriteString(strconv.Itoa(rng.Intn(0, 10)))
	}
	return b.String()
}

func sanitizeWord(token string) string {
	token = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, token)
	return strings.Trim(token, punctuationChars)
}

func hasTrailingPunctuation(token string) bool {
	return token != "" && strings.ContainsRune(punctuationChars, rune(token[len(token)-1]))
}

func clampRate(value *float64, fallback float64) float64 {
	if value == nil || math.IsNaN(*value) || math.IsInf(*value, 0) {
		return fallback
	}
	return math.Min(1, math.Max(0, *value))
}

func toggleSeed(words []string, opts ToggleOptions) Seed {
	punct, numbers := "p0", "n0"
	if opts.Punctuation {
		punct = "p1"
	}
	if opts.Numbers {
		numbers = "n1"
	}
	punctRate, numbersRate := DefaultPunctuationRate, DefaultNumbersRate
	if opts.PunctuationRate != nil {
		punctRate = *opts.PunctuationRate
	}
	if opts.NumbersRate != nil {
		numbersRate = *opts.NumbersRate
	}
	return Seed(strings.Join([]string{
		"toggles",
		string(opts.Seed),
		punct,
		numbers,
		formatNumber(punctRate),
		formatNumber(numbersRate),
		strconv.Itoa(len(words)),
		strings.Join(words, "|"),
	}, "::"))
}

// formatNumber renders a float the way older seeds were keyed, so
// "0.12" stays "0.12" and 1 stays "1".
func formatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		return "0"
	}
	abs := math.Abs(v)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	s := strconv.FormatFloat(v, 'e', -1, 64)
	mantissa, exp, _ := strings.Cut(s, "e")
	sign := exp[:1]
	digits := strings.TrimLeft(exp[1:], "0")
	return mantissa + "e" + sign + digits
}
