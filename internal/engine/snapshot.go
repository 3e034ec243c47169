package engine

import "math"

// Status is the outcome recorded for one prompt position.
type Status int8

const (
	// StatusUnset marks a position that has not been typed.
	StatusUnset Status = 0
	// StatusCorrect marks a position typed with the expected rune.
	StatusCorrect Status = 1
	// StatusIncorrect marks a position typed with any other rune.
	StatusIncorrect Status = -1
)

// Metrics are derived from counters and the clock on every refresh.
type Metrics struct {
	TimeLeft     float64
	Elapsed      float64
	WPM          float64
	RawWPM       float64
	Accuracy     float64
	Errors       int
	CorrectChars int
	TypedChars   int
	Progress     float64
	Started      bool
	Finished     bool
}

// Snapshot is an immutable view of an engine. Statuses is owned by the
// snapshot and never modified after it is handed out.
type Snapshot struct {
	Text     string
	Index    int
	Statuses []Status
	// StrokeVersion changes on keystrokes, backspaces and restarts only, so
	// consumers can tell typing progress apart from clock ticks.
	StrokeVersion uint64
	Metrics       Metrics
}

// Store is the observable side of an engine.
type Store interface {
	Subscribe(listener func()) (unsubscribe func())
	Snapshot() Snapshot
}

type counters struct {
	index    int
	errors   int
	correct  int
	typed    int
	textLen  int
	started  bool
	finished bool
}

func computeMetrics(c counters, duration int, elapsedSeconds float64) Metrics {
	elapsed := 0.0
	if c.started {
		elapsed = math.Min(float64(duration), elapsedSeconds)
	}
	minutes := math.Max(elapsed/60, 1.0/60)
	accuracy := 100.0
	if c.typed > 0 {
		accuracy = round1(float64(c.correct) / float64(c.typed) * 100)
	}
	progress := 0.0
	if c.textLen > 0 {
		progress = float64(c.index) / float64(c.textLen) * 100
	}
	return Metrics{
		TimeLeft:     math.Max(0, float64(duration)-elapsed),
		Elapsed:      elapsed,
		WPM:          finiteRound1(float64(c.correct) / 5 / minutes),
		RawWPM:       finiteRound1(float64(c.typed) / 5 / minutes),
		Accuracy:     accuracy,
		Errors:       c.errors,
		CorrectChars: c.correct,
		TypedChars:   c.typed,
		Progress:     progress,
		Started:      c.started,
		Finished:     c.finished,
	}
}

func finiteRound1(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return round1(v)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
