package tui

import (
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/lenuk/internal/engine"
)

// replayTail keeps the final frame on screen briefly before live view returns.
const replayTail = 150 * time.Millisecond

type replayFrame struct {
	at       time.Duration
	index    int
	statuses []engine.Status
}

type replayRun struct {
	text   string
	frames []replayFrame
}

type frameKey struct {
	stroke  uint64
	index   int
	typed   int
	correct int
	errors  int
	length  int
}

// recorder captures one frame per distinct keystroke state of a prompt.
type recorder struct {
	text   string
	frames []replayFrame
	last   frameKey
	seen   bool
}

func keyOf(snap engine.Snapshot) frameKey {
	return frameKey{
		stroke:  snap.StrokeVersion,
		index:   snap.Index,
		typed:   snap.Metrics.TypedChars,
		correct: snap.Metrics.CorrectChars,
		errors:  snap.Metrics.Errors,
		length:  len(snap.Statuses),
	}
}

func frameOf(snap engine.Snapshot) replayFrame {
	return replayFrame{
		at:       time.Duration(math.Max(0, math.Round(snap.Metrics.Elapsed*1000))) * time.Millisecond,
		index:    snap.Index,
		statuses: snap.Statuses,
	}
}

// observe records snap if it differs from the previous frame. A prompt that
// has not started collapses to a single idle frame.
func (r *recorder) observe(snap engine.Snapshot) {
	if r.text != snap.Text {
		r.text = snap.Text
		r.frames = nil
		r.seen = false
	}
	key := keyOf(snap)
	if !snap.Metrics.Started {
		idle := frameOf(snap)
		idle.at = 0
		r.frames = []replayFrame{idle}
		r.last = key
		r.seen = true
		return
	}
	if r.seen && r.last == key {
		return
	}
	r.frames = append(r.frames, frameOf(snap))
	r.last = key
	r.seen = true
}

// finish closes the recording with the finished snapshot and returns a copy
// that later observations cannot touch.
func (r *recorder) finish(snap engine.Snapshot) replayRun {
	final := frameOf(snap)
	key := keyOf(snap)
	switch {
	case !r.seen || r.last != key:
		r.frames = append(r.frames, final)
		r.last = key
		r.seen = true
	case len(r.frames) == 0 || final.at > r.frames[len(r.frames)-1].at:
		r.frames = append(r.frames, final)
	}
	frames := make([]replayFrame, len(r.frames))
	copy(frames, r.frames)
	return replayRun{text: r.text, frames: frames}
}

type replayFrameMsg struct {
	token int
	frame int
}

type replayDoneMsg struct {
	token int
}

// nextReplayCmd schedules the frame after current, or the end of playback.
func nextReplayCmd(run replayRun, token, current int) tea.Cmd {
	if current+1 >= len(run.frames) {
		return tea.Tick(replayTail, func(time.Time) tea.Msg {
			return replayDoneMsg{token: token}
		})
	}
	delay := run.frames[current+1].at - run.frames[current].at
	if delay <= 0 {
		delay = time.Millisecond
	}
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return replayFrameMsg{token: token, frame: current + 1}
	})
}
