// Package engine implements the typing session state machine.
package engine

import (
	"sync"
	"time"
	"unicode/utf8"
)

// DefaultTickInterval is how often a running session refreshes its metrics.
const DefaultTickInterval = 100 * time.Millisecond

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithTickInterval changes the refresh cadence of a running session.
func WithTickInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.interval = d
		}
	}
}

type listenerEntry struct {
	id int
	fn func()
}

// Engine measures typing against a fixed prompt. It is safe for concurrent
// use; listeners run outside the engine lock, in registration order.
type Engine struct {
	mu       sync.Mutex
	now      func() time.Time
	interval time.Duration

	text      string
	runes     []rune
	duration  int
	statuses  []Status
	c         counters
	startedAt time.Time
	stroke    uint64

	stop      chan struct{}
	disposed  bool
	listeners []listenerEntry
	nextID    int

	snapshot Snapshot
}

var _ Store = (*Engine)(nil)

// New returns an idle engine for text with a duration in seconds.
func New(text string, duration int, opts ...Option) *Engine {
	e := &Engine{
		now:      time.Now,
		interval: DefaultTickInterval,
		duration: duration,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.setTextLocked(text)
	e.refreshLocked()
	return e
}

// Subscribe registers a listener called after every snapshot change.
func (e *Engine) Subscribe(listener func()) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.disposed || listener == nil {
		return func() {}
	}
	id := e.nextID
	e.nextID++
	e.listeners = append(e.listeners, listenerEntry{id: id, fn: listener})
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		for i, entry := range e.listeners {
			if entry.id == id {
				e.listeners = append(e.listeners[:i:i], e.listeners[i+1:]...)
				return
			}
		}
	}
}

// Snapshot returns the latest snapshot.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot
}

// SetText replaces the prompt and restarts with the current duration.
func (e *Engine) SetText(text string) {
	e.mu.Lock()
	if e.disposed {
		e.mu.Unlock()
		return
	}
	e.setTextLocked(text)
	e.restartLocked(0)
	e.unlockAndNotify()
}

// Restart returns to idle. A positive duration replaces the current one.
func (e *Engine) Restart(duration ...int) {
	e.mu.Lock()
	if e.disposed {
		e.mu.Unlock()
		return
	}
	next := 0
	if len(duration) > 0 {
		next = duration[0]
	}
	e.restartLocked(next)
	e.unlockAndNotify()
}

// HandleKey records one typed rune. Calls after finishing, at the end of the
// prompt, or with anything other than a single rune are ignored.
func (e *Engine) HandleKey(key string) {
	e.mu.Lock()
	if e.disposed || e.c.finished || utf8.RuneCountInString(key) != 1 || e.c.index >= len(e.runes) {
		e.mu.Unlock()
		return
	}
	e.startLocked()

	typed, _ := utf8.DecodeRuneInString(key)
	if typed == e.runes[e.c.index] {
		e.statuses[e.c.index] = StatusCorrect
		e.c.correct++
	} else {
		e.statuses[e.c.index] = StatusIncorrect
		e.c.errors++
	}
	e.c.index++
	e.c.typed++
	e.stroke++

	if e.c.index >= len(e.runes) {
		e.finishLocked()
	} else {
		e.refreshLocked()
	}
	e.unlockAndNotify()
}

// HandleBackspace un-types the previous position. It never restarts the
// clock and never reopens a finished session.
func (e *Engine) HandleBackspace() {
	e.mu.Lock()
	if e.disposed || e.c.finished || e.c.index == 0 {
		e.mu.Unlock()
		return
	}
	e.c.index--
	switch e.statuses[e.c.index] {
	case StatusCorrect:
		e.c.correct--
		e.c.typed--
	case StatusIncorrect:
		e.c.errors--
		e.c.typed--
	}
	e.statuses[e.c.index] = StatusUnset
	e.stroke++
	e.refreshLocked()
	e.unlockAndNotify()
}

// Dispose stops the clock and drops every listener. The engine emits nothing
// afterwards.
func (e *Engine) Dispose() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopTimerLocked()
	e.disposed = true
	e.listeners = nil
}

func (e *Engine) setTextLocked(text string) {
	e.text = text
	e.runes = []rune(text)
	e.statuses = make([]Status, len(e.runes))
	e.c.textLen = len(e.runes)
}

func (e *Engine) restartLocked(duration int) {
	e.stopTimerLocked()
	if duration > 0 {
		e.duration = duration
	}
	e.statuses = make([]Status, len(e.runes))
	e.c = counters{textLen: len(e.runes)}
	e.startedAt = time.Time{}
	e.stroke++
	e.refreshLocked()
}

func (e *Engine) startLocked() {
	if e.c.started {
		return
	}
	e.c.started = true
	e.startedAt = e.now()
	stop := make(chan struct{})
	e.stop = stop
	go e.run(stop)
}

func (e *Engine) run(stop <-chan struct{}) {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !e.tick(stop) {
				return
			}
		}
	}
}

// tick refreshes a running session and finishes it once the duration has
// elapsed. It reports whether the session is still running.
func (e *Engine) tick(stop <-chan struct{}) bool {
	e.mu.Lock()
	if e.disposed || e.c.finished || !e.c.started || stop == nil || e.stop != stop {
		e.mu.Unlock()
		return false
	}
	if e.elapsedLocked() >= float64(e.duration) {
		e.finishLocked()
	} else {
		e.refreshLocked()
	}
	running := !e.c.finished
	e.unlockAndNotify()
	return running
}

func (e *Engine) finishLocked() {
	e.c.finished = true
	e.stopTimerLocked()
	e.refreshLocked()
}

func (e *Engine) stopTimerLocked() {
	if e.stop != nil {
		close(e.stop)
		e.stop = nil
	}
}

func (e *Engine) elapsedLocked() float64 {
	if !e.c.started {
		return 0
	}
	return e.now().Sub(e.startedAt).Seconds()
}

func (e *Engine) refreshLocked() {
	statuses := make([]Status, len(e.statuses))
	copy(statuses, e.statuses)
	e.snapshot = Snapshot{
		Text:          e.text,
		Index:         e.c.index,
		Statuses:      statuses,
		StrokeVersion: e.stroke,
		Metrics:       computeMetrics(e.c, e.duration, e.elapsedLocked()),
	}
}

// unlockAndNotify releases the lock and then calls the listeners that were
// registered at the time of the change. A Dispose from inside a listener
// stops the remaining calls.
func (e *Engine) unlockAndNotify() {
	listeners := make([]func(), 0, len(e.listeners))
	for _, entry := range e.listeners {
		listeners = append(listeners, entry.fn)
	}
	e.mu.Unlock()
	for _, fn := range listeners {
		e.mu.Lock()
		disposed := e.disposed
		e.mu.Unlock()
		if disposed {
			return
		}
		fn()
	}
}
