// Package model defines shared data structures.
package model

import "time"

// Config defines practice settings.
type Config struct {
	Lang            string
	Mode            string
	Words           int
	Duration        int
	Punctuation     bool
	Numbers         bool
	PunctuationRate float64
	NumbersRate     float64
	Difficulty      string
	AllowRepeat     bool
	Seed            string
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Lang        string
	Mode        string
	Since       *time.Time
	Last        int
	CurveWindow int
}

// Result captures a finished typing run.
type Result struct {
	ID           string
	StartedAt    time.Time
	FinishedAt   time.Time
	Lang         string
	Mode         string
	Seed         string
	Duration     int
	Words        int
	Punctuation  bool
	Numbers      bool
	Difficulty   string
	WPM          float64
	RawWPM       float64
	Accuracy     float64
	Errors       int
	CorrectChars int
	TypedChars   int
	ElapsedMs    int64
}

// CharStats stores per-character outcomes for a run.
type CharStats struct {
	Char      string
	Correct   int
	Incorrect int
}

// CharAggregate aggregates character stats across runs.
type CharAggregate struct {
	Char      string
	Correct   int
	Incorrect int
}
