package generator

// Difficulty selects the candidate pool of a language pack.
type Difficulty string

const (
	// DifficultyCommon restricts the pool to the most common prefix of a pack.
	DifficultyCommon Difficulty = "common"
	// DifficultyMixed uses the whole pack.
	DifficultyMixed Difficulty = "mixed"
)

// Mode is the kind of test the content is built for.
type Mode string

const (
	// ModeWords ends the test after a fixed number of words.
	ModeWords Mode = "words"
	// ModeTime ends the test when the duration runs out.
	ModeTime Mode = "time"
)

// WordListOptions configures GenerateWordList.
type WordListOptions struct {
	LanguageCode string
	Count        int
	Seed         Seed
	// AllowRepeat defaults to true when nil.
	AllowRepeat *bool
	Difficulty  Difficulty
}

// GeneratedWordList is an ordered draw from a language pool.
type GeneratedWordList struct {
	Words []string
}

// ToggleOptions configures ApplyToggles. Nil rates fall back to defaults.
type ToggleOptions struct {
	Punctuation     bool
	Numbers         bool
	PunctuationRate *float64
	NumbersRate     *float64
	Seed            Seed
}

// ToggledTokenStream holds words with punctuation and number tokens applied.
type ToggledTokenStream struct {
	Tokens []string
}

// CharStream is the typed prompt: Text split into runes.
type CharStream struct {
	Chars []string
	Text  string
}

// BuildOptions configures BuildTestContent.
type BuildOptions struct {
	LanguageCode    string
	Mode            Mode
	WordCount       int
	Duration        int
	Seed            Seed
	Punctuation     bool
	Numbers         bool
	PunctuationRate *float64
	NumbersRate     *float64
	AllowRepeat     *bool
	Difficulty      Difficulty
}

// GeneratedTestContent is everything produced for one prompt, plus the
// resolved inputs callers key caches on.
type GeneratedTestContent struct {
	LanguageCode    string
	Mode            Mode
	Seed            Seed
	TargetWordCount int
	Words           []string
	Tokens          []string
	Chars           []string
	Text            string
}
