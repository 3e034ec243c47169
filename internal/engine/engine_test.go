package engine

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1700000000, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// newTestEngine returns an engine whose ticker never fires on its own.
func newTestEngine(t *testing.T, text string, duration int) (*Engine, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	e := New(text, duration, WithClock(clock.Now), WithTickInterval(time.Hour))
	t.Cleanup(e.Dispose)
	return e, clock
}

func forceTick(e *Engine) bool {
	e.mu.Lock()
	stop := e.stop
	e.mu.Unlock()
	return e.tick(stop)
}

func assertStatuses(t *testing.T, got []Status, want ...Status) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected statuses %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected statuses %v, got %v", want, got)
		}
	}
}

func TestNewEngineSnapshot(t *testing.T) {
	e, _ := newTestEngine(t, "abc", 30)
	s := e.Snapshot()
	if s.Text != "abc" || s.Index != 0 {
		t.Fatalf("unexpected snapshot: %+v", s)
	}
	assertStatuses(t, s.Statuses, StatusUnset, StatusUnset, StatusUnset)
	m := s.Metrics
	if m.Started || m.Finished || m.Errors != 0 || m.TypedChars != 0 || m.CorrectChars != 0 {
		t.Fatalf("unexpected metrics: %+v", m)
	}
	if m.Accuracy != 100 || m.TimeLeft != 30 || m.WPM != 0 || m.Progress != 0 {
		t.Fatalf("unexpected initial metrics: %+v", m)
	}
}

func TestHandleKeyTracksCorrectAndIncorrect(t *testing.T) {
	e, _ := newTestEngine(t, "ab", 30)
	e.HandleKey("a")
	e.HandleKey("x")

	s := e.Snapshot()
	if s.Index != 2 {
		t.Fatalf("expected index 2, got %d", s.Index)
	}
	assertStatuses(t, s.Statuses, StatusCorrect, StatusIncorrect)
	m := s.Metrics
	if m.TypedChars != 2 || m.CorrectChars != 1 || m.Errors != 1 || !m.Finished {
		t.Fatalf("unexpected metrics: %+v", m)
	}
	if m.Accuracy != 50 || m.Progress != 100 {
		t.Fatalf("unexpected accuracy/progress: %+v", m)
	}
}

func TestHandleBackspaceRollsBack(t *testing.T) {
	e, _ := newTestEngine(t, "abc", 30)
	e.HandleKey("a")
	e.HandleKey("x")
	e.HandleBackspace()

	s := e.Snapshot()
	if s.Index != 1 {
		t.Fatalf("expected index 1, got %d", s.Index)
	}
	assertStatuses(t, s.Statuses, StatusCorrect, StatusUnset, StatusUnset)
	m := s.Metrics
	if m.TypedChars != 1 || m.CorrectChars != 1 || m.Errors != 0 || m.Finished {
		t.Fatalf("unexpected metrics: %+v", m)
	}
	if m.CorrectChars+m.Errors != m.TypedChars {
		t.Fatalf("counter invariant broken: %+v", m)
	}
}

func TestHandleBackspaceCorrectSlot(t *testing.T) {
	e, _ := newTestEngine(t, "abc", 30)
	e.HandleKey("a")
	e.HandleBackspace()
	s := e.Snapshot()
	if s.Index != 0 || s.Metrics.TypedChars != 0 || s.Metrics.CorrectChars != 0 {
		t.Fatalf("unexpected snapshot: %+v", s)
	}
	if !s.Metrics.Started {
		t.Fatalf("backspace must not reset the clock")
	}
}

func TestBackspaceAtZeroIsIgnored(t *testing.T) {
	e, _ := newTestEngine(t, "abc", 30)
	before := e.Snapshot().StrokeVersion
	e.HandleBackspace()
	s := e.Snapshot()
	if s.Index != 0 || s.Metrics.TypedChars != 0 || s.StrokeVersion != before {
		t.Fatalf("unexpected snapshot: %+v", s)
	}
	assertStatuses(t, s.Statuses, StatusUnset, StatusUnset, StatusUnset)
}

func TestIgnoresInputAfterFinishing(t *testing.T) {
	e, _ := newTestEngine(t, "a", 30)
	e.HandleKey("a")
	finished := e.Snapshot()
	e.HandleKey("b")
	e.HandleBackspace()
	after := e.Snapshot()

	if !finished.Metrics.Finished || finished.Index != 1 {
		t.Fatalf("expected finished snapshot, got %+v", finished)
	}
	if after.Index != 1 || after.StrokeVersion != finished.StrokeVersion {
		t.Fatalf("expected no change after finish, got %+v", after)
	}
	assertStatuses(t, after.Statuses, StatusCorrect)
	if after.Metrics.TypedChars != 1 || after.Metrics.CorrectChars != 1 || after.Metrics.Errors != 0 {
		t.Fatalf("unexpected metrics: %+v", after.Metrics)
	}
}

func TestHandleKeyRejectsNonSingleRunes(t *testing.T) {
	e, _ := newTestEngine(t, "ab", 30)
	for _, key := range []string{"", "ab", "Shift"} {
		e.HandleKey(key)
	}
	s := e.Snapshot()
	if s.Index != 0 || s.Metrics.Started {
		t.Fatalf("expected invalid keys to be ignored, got %+v", s)
	}

	u, _ := newTestEngine(t, "ção", 30)
	u.HandleKey("ç")
	u.HandleKey("ã")
	if got := u.Snapshot(); got.Index != 2 || got.Metrics.CorrectChars != 2 {
		t.Fatalf("expected rune-wise comparison, got %+v", got)
	}
}

func TestEmptyTextNeverStarts(t *testing.T) {
	e, _ := newTestEngine(t, "", 30)
	e.HandleKey("a")
	s := e.Snapshot()
	if s.Metrics.Started || s.Metrics.Progress != 0 || s.Metrics.Accuracy != 100 {
		t.Fatalf("unexpected snapshot: %+v", s)
	}
}

func TestRestartResetsState(t *testing.T) {
	e, _ := newTestEngine(t, "ab", 30)
	e.HandleKey("a")
	e.HandleKey("b")
	if !e.Snapshot().Metrics.Finished {
		t.Fatalf("expected finished session")
	}
	before := e.Snapshot().StrokeVersion

	e.Restart(60)
	s := e.Snapshot()
	if s.Index != 0 || s.StrokeVersion <= before {
		t.Fatalf("unexpected snapshot: %+v", s)
	}
	assertStatuses(t, s.Statuses, StatusUnset, StatusUnset)
	m := s.Metrics
	if m.Finished || m.Started || m.TimeLeft != 60 || m.TypedChars != 0 || m.CorrectChars != 0 || m.Errors != 0 {
		t.Fatalf("unexpected metrics: %+v", m)
	}

	e.Restart()
	if got := e.Snapshot().Metrics.TimeLeft; got != 60 {
		t.Fatalf("expected duration to be kept, got %v", got)
	}
	e.Restart(0)
	if got := e.Snapshot().Metrics.TimeLeft; got != 60 {
		t.Fatalf("expected zero duration to be ignored, got %v", got)
	}
}

func TestSetTextRestarts(t *testing.T) {
	e, _ := newTestEngine(t, "ab", 15)
	e.HandleKey("a")
	e.SetText("xyz")
	s := e.Snapshot()
	if s.Text != "xyz" || s.Index != 0 || len(s.Statuses) != 3 || s.Metrics.Started {
		t.Fatalf("unexpected snapshot: %+v", s)
	}
	if s.Metrics.TimeLeft != 15 {
		t.Fatalf("expected duration kept, got %v", s.Metrics.TimeLeft)
	}
}

func TestSnapshotsAreImmutable(t *testing.T) {
	e, _ := newTestEngine(t, "abc", 30)
	e.HandleKey("a")
	first := e.Snapshot()
	e.HandleKey("x")
	e.HandleBackspace()
	e.HandleBackspace()
	if first.Statuses[0] != StatusCorrect || first.Index != 1 {
		t.Fatalf("earlier snapshot changed: %+v", first)
	}
}

func TestMetricsUseElapsedTime(t *testing.T) {
	e, clock := newTestEngine(t, "hello world and more", 60)
	for _, r := range "hello worl" {
		e.HandleKey(string(r))
	}
	clock.Advance(30 * time.Second)
	if !forceTick(e) {
		t.Fatalf("expected session to keep running")
	}
	m := e.Snapshot().Metrics
	if m.Elapsed != 30 || m.TimeLeft != 30 {
		t.Fatalf("unexpected time metrics: %+v", m)
	}
	// 10 correct chars = 2 words in half a minute.
	if m.WPM != 4 || m.RawWPM != 4 || m.Accuracy != 100 {
		t.Fatalf("unexpected speed metrics: %+v", m)
	}
	if m.Progress != 50 {
		t.Fatalf("expected 50%% progress, got %v", m.Progress)
	}
}

func TestMetricsFloorMinutes(t *testing.T) {
	e, _ := newTestEngine(t, "abcdef", 30)
	for _, r := range "abcde" {
		e.HandleKey(string(r))
	}
	// No time has passed: one second is the floor, so 1 word -> 60 wpm.
	if got := e.Snapshot().Metrics.WPM; got != 60 {
		t.Fatalf("expected floored wpm 60, got %v", got)
	}
}

func TestAccuracyRounding(t *testing.T) {
	e, _ := newTestEngine(t, "abcd", 30)
	e.HandleKey("a")
	e.HandleKey("x")
	e.HandleKey("c")
	if got := e.Snapshot().Metrics.Accuracy; got != 66.7 {
		t.Fatalf("expected 66.7, got %v", got)
	}
}

func TestTickFinishesOnTimeout(t *testing.T) {
	e, clock := newTestEngine(t, "abcdef", 5)
	e.HandleKey("a")
	ticks := e.Snapshot().StrokeVersion
	clock.Advance(2 * time.Second)
	forceTick(e)
	if got := e.Snapshot(); got.StrokeVersion != ticks || got.Metrics.Finished {
		t.Fatalf("tick must not count as a stroke: %+v", got)
	}
	clock.Advance(4 * time.Second)
	if forceTick(e) {
		t.Fatalf("expected session to stop after timeout")
	}
	s := e.Snapshot()
	if !s.Metrics.Finished || s.Metrics.TimeLeft != 0 || s.Metrics.Elapsed != 5 {
		t.Fatalf("unexpected finished metrics: %+v", s.Metrics)
	}
	e.HandleKey("b")
	if e.Snapshot().Index != 1 {
		t.Fatalf("expected input ignored after timeout")
	}
	if forceTick(e) {
		t.Fatalf("expected no ticks after finish")
	}
}

func TestSubscribeNotifiesAndUnsubscribes(t *testing.T) {
	e, _ := newTestEngine(t, "abc", 30)
	var calls atomic.Int32
	var seen []int
	unsubscribe := e.Subscribe(func() {
		calls.Add(1)
		// Reading the snapshot from a listener must not deadlock.
		seen = append(seen, e.Snapshot().Index)
	})
	e.HandleKey("a")
	e.HandleBackspace()
	e.Restart()
	if calls.Load() != 3 {
		t.Fatalf("expected 3 notifications, got %d", calls.Load())
	}
	if seen[0] != 1 || seen[1] != 0 {
		t.Fatalf("unexpected observed indexes: %v", seen)
	}
	unsubscribe()
	e.HandleKey("a")
	if calls.Load() != 3 {
		t.Fatalf("expected no notification after unsubscribe, got %d", calls.Load())
	}
}

func TestDisposeStopsEverything(t *testing.T) {
	e, _ := newTestEngine(t, "abc", 30)
	var calls atomic.Int32
	e.Subscribe(func() { calls.Add(1) })
	e.HandleKey("a")
	e.Dispose()
	e.HandleKey("b")
	e.Restart()
	e.SetText("new")
	e.Subscribe(func() { calls.Add(1) })()
	if calls.Load() != 1 {
		t.Fatalf("expected no notifications after dispose, got %d", calls.Load())
	}
	if forceTick(e) {
		t.Fatalf("expected no ticks after dispose")
	}
	if e.Snapshot().Index != 1 {
		t.Fatalf("expected state frozen after dispose")
	}
}

func TestDisposeFromListenerSkipsRemainingListeners(t *testing.T) {
	e, _ := newTestEngine(t, "abc", 30)
	var later atomic.Int32
	e.Subscribe(e.Dispose)
	e.Subscribe(func() { later.Add(1) })
	e.HandleKey("a")
	if later.Load() != 0 {
		t.Fatalf("expected no listener calls after dispose, got %d", later.Load())
	}
	e.HandleKey("b")
	if later.Load() != 0 || e.Snapshot().Index != 1 {
		t.Fatalf("expected engine frozen after dispose in listener")
	}
}

func TestTickerRefreshesRunningSession(t *testing.T) {
	e := New("abcdef", 30, WithTickInterval(5*time.Millisecond))
	t.Cleanup(e.Dispose)
	ticked := make(chan struct{}, 16)
	e.Subscribe(func() {
		select {
		case ticked <- struct{}{}:
		default:
		}
	})
	e.HandleKey("a")
	<-ticked // keystroke
	select {
	case <-ticked:
	case <-time.After(2 * time.Second):
		t.Fatalf("expected a tick notification")
	}
	if got := e.Snapshot().StrokeVersion; got != 1 {
		t.Fatalf("ticks must not bump stroke version, got %d", got)
	}
}

func TestRestartStopsTimer(t *testing.T) {
	e, _ := newTestEngine(t, "abc", 30)
	e.HandleKey("a")
	e.mu.Lock()
	old := e.stop
	e.mu.Unlock()
	e.Restart()
	select {
	case <-old:
	default:
		t.Fatalf("expected restart to stop the timer")
	}
	if e.tick(old) {
		t.Fatalf("stale tick must be ignored")
	}
}
