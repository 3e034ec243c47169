package stats

import (
	"math"
	"sort"
	"time"
	"unicode"

	"github.com/verte-zerg/lenuk/internal/engine"
	"github.com/verte-zerg/lenuk/internal/model"
)

// RunMeta describes how a run was configured.
type RunMeta struct {
	Lang        string
	Mode        string
	Seed        string
	Duration    int
	Words       int
	Punctuation bool
	Numbers     bool
	Difficulty  string
	StartedAt   time.Time
	FinishedAt  time.Time
}

// ResultFromSnapshot converts a finished snapshot into a storable result.
func ResultFromSnapshot(snap engine.Snapshot, meta RunMeta) model.Result {
	m := snap.Metrics
	return model.Result{
		StartedAt:    meta.StartedAt,
		FinishedAt:   meta.FinishedAt,
		Lang:         meta.Lang,
		Mode:         meta.Mode,
		Seed:         meta.Seed,
		Duration:     meta.Duration,
		Words:        meta.Words,
		Punctuation:  meta.Punctuation,
		Numbers:      meta.Numbers,
		Difficulty:   meta.Difficulty,
		WPM:          m.WPM,
		RawWPM:       m.RawWPM,
		Accuracy:     m.Accuracy,
		Errors:       m.Errors,
		CorrectChars: m.CorrectChars,
		TypedChars:   m.TypedChars,
		ElapsedMs:    int64(math.Round(m.Elapsed * 1000)),
	}
}

// CharStatsFromSnapshot tallies per-character outcomes over the typed part of
// the prompt. Whitespace is skipped.
func CharStatsFromSnapshot(snap engine.Snapshot) []model.CharStats {
	counts := map[string]*model.CharStats{}
	i := 0
	for _, r := range snap.Text {
		if i >= len(snap.Statuses) {
			break
		}
		status := snap.Statuses[i]
		i++
		if status == engine.StatusUnset || unicode.IsSpace(r) {
			continue
		}
		key := string(r)
		cs, ok := counts[key]
		if !ok {
			cs = &model.CharStats{Char: key}
			counts[key] = cs
		}
		if status == engine.StatusCorrect {
			cs.Correct++
		} else {
			cs.Incorrect++
		}
	}
	out := make([]model.CharStats, 0, len(counts))
	for _, cs := range counts {
		out = append(out, *cs)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Char < out[j].Char })
	return out
}
