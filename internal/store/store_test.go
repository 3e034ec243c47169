package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/lenuk/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "lenuk.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func testResult(i int, lang string, wpm float64) model.Result {
	start := time.Unix(1700000000, 0).Add(time.Duration(i) * time.Minute)
	return model.Result{
		StartedAt:    start,
		FinishedAt:   start.Add(30 * time.Second),
		Lang:         lang,
		Mode:         "time",
		Seed:         "lenuk-type::0",
		Duration:     30,
		Words:        25,
		Punctuation:  true,
		Difficulty:   "mixed",
		WPM:          wpm,
		RawWPM:       wpm + 5,
		Accuracy:     96.5,
		Errors:       3,
		CorrectChars: 120,
		TypedChars:   123,
		ElapsedMs:    30000,
	}
}

func TestInsertAndListResults(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	var ids []string
	for i, wpm := range []float64{40, 55.5, 48} {
		id, err := st.InsertResult(ctx, testResult(i, "en-US", wpm), []model.CharStats{
			{Char: "a", Correct: 5},
			{Char: "b", Correct: 4, Incorrect: 1},
		})
		if err != nil {
			t.Fatalf("insert result: %v", err)
		}
		if len(id) != 26 {
			t.Fatalf("expected ULID id, got %q", id)
		}
		ids = append(ids, id)
	}
	if _, err := st.InsertResult(ctx, testResult(5, "pt-CPLP", 70), nil); err != nil {
		t.Fatalf("insert result: %v", err)
	}

	results, err := st.ListResults(ctx, model.StatsConfig{Lang: "en-US"})
	if err != nil {
		t.Fatalf("list results: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, r := range results {
		if r.ID != ids[i] {
			t.Fatalf("expected oldest first, got %s at %d", r.ID, i)
		}
	}
	first := results[0]
	if !first.Punctuation || first.Numbers || first.Seed != "lenuk-type::0" || first.RawWPM != 45 {
		t.Fatalf("fields did not round-trip: %+v", first)
	}
	if !first.FinishedAt.Equal(time.Unix(1700000030, 0)) {
		t.Fatalf("unexpected finished time %v", first.FinishedAt)
	}

	since := time.Unix(1700000000, 0).Add(90 * time.Second)
	recent, err := st.ListResults(ctx, model.StatsConfig{Since: &since})
	if err != nil {
		t.Fatalf("list results: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("expected 3 results since cutoff, got %d", len(recent))
	}
}

func TestBestResult(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	if _, ok, err := st.BestResult(ctx, "en-US", "time", 30); err != nil || ok {
		t.Fatalf("expected no best result, got ok=%v err=%v", ok, err)
	}
	for i, wpm := range []float64{40, 62, 51} {
		if _, err := st.InsertResult(ctx, testResult(i, "en-US", wpm), nil); err != nil {
			t.Fatalf("insert result: %v", err)
		}
	}
	best, ok, err := st.BestResult(ctx, "en-US", "time", 30)
	if err != nil || !ok {
		t.Fatalf("best result: ok=%v err=%v", ok, err)
	}
	if best.WPM != 62 {
		t.Fatalf("expected best wpm 62, got %v", best.WPM)
	}
	if _, ok, _ := st.BestResult(ctx, "en-US", "time", 60); ok {
		t.Fatalf("expected duration to filter best result")
	}
}

func TestCharAggregates(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		id, err := st.InsertResult(ctx, testResult(i, "en-US", 50), []model.CharStats{
			{Char: "e", Correct: 3, Incorrect: i},
		})
		if err != nil {
			t.Fatalf("insert result: %v", err)
		}
		ids = append(ids, id)
	}

	weak, err := st.GetWeakChars(ctx, 2, "en-US")
	if err != nil {
		t.Fatalf("weak chars: %v", err)
	}
	if len(weak) != 1 || weak[0].Correct != 6 || weak[0].Incorrect != 3 {
		t.Fatalf("unexpected weak aggregates: %+v", weak)
	}

	all, err := st.ListCharAggregatesForResults(ctx, ids)
	if err != nil {
		t.Fatalf("char aggregates: %v", err)
	}
	if len(all) != 1 || all[0].Correct != 9 || all[0].Incorrect != 3 {
		t.Fatalf("unexpected aggregates: %+v", all)
	}
	if none, err := st.ListCharAggregatesForResults(ctx, nil); err != nil || none != nil {
		t.Fatalf("expected nil for no ids, got %v %v", none, err)
	}
}

func TestSubSecondFinishTimesOrderAndFilter(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	base := time.Unix(1700000000, 0)
	late := testResult(0, "en-US", 40)
	late.StartedAt = base
	late.FinishedAt = base.Add(20*time.Second + 500*time.Millisecond)
	early := testResult(0, "en-US", 60)
	early.StartedAt = base
	early.FinishedAt = base.Add(20 * time.Second)
	for _, r := range []model.Result{late, early} {
		if _, err := st.InsertResult(ctx, r, nil); err != nil {
			t.Fatalf("insert result: %v", err)
		}
	}

	all, err := st.ListResults(ctx, model.StatsConfig{})
	if err != nil {
		t.Fatalf("list results: %v", err)
	}
	if len(all) != 2 || !all[0].FinishedAt.Equal(early.FinishedAt) || !all[1].FinishedAt.Equal(late.FinishedAt) {
		t.Fatalf("expected oldest first, got %+v", all)
	}

	since := late.FinishedAt
	recent, err := st.ListResults(ctx, model.StatsConfig{Since: &since})
	if err != nil {
		t.Fatalf("list results: %v", err)
	}
	if len(recent) != 1 || recent[0].WPM != 40 {
		t.Fatalf("expected only the later result, got %+v", recent)
	}
}
