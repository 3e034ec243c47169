package engine

import "unicode/utf8"

// KeyEvent describes a raw key press independent of any UI toolkit.
type KeyEvent struct {
	Key              string
	Alt              bool
	Ctrl             bool
	Meta             bool
	DefaultPrevented bool
	IsComposing      bool
	// PreventDefault is called when the event is consumed. May be nil.
	PreventDefault func()
}

// KeyTarget is the part of an Engine driven by key presses.
type KeyTarget interface {
	Restart(duration ...int)
	HandleBackspace()
	HandleKey(key string)
}

// Key names recognised by DispatchTypingKey.
const (
	KeyEscape    = "Escape"
	KeyTab       = "Tab"
	KeyBackspace = "Backspace"
	KeyEnter     = "Enter"
)

// DispatchTypingKey routes ev to target and reports whether it was consumed.
// Modified, composing and already handled events are left alone, as is Tab.
func DispatchTypingKey(target KeyTarget, ev KeyEvent) bool {
	if ev.DefaultPrevented || ev.IsComposing {
		return false
	}
	if ev.Ctrl || ev.Meta || ev.Alt {
		return false
	}

	switch ev.Key {
	case KeyEscape:
		ev.preventDefault()
		target.Restart()
		return true
	case KeyTab:
		return false
	case KeyBackspace:
		ev.preventDefault()
		target.HandleBackspace()
		return true
	case KeyEnter:
		ev.preventDefault()
		target.HandleKey("\n")
		return true
	}

	if utf8.RuneCountInString(ev.Key) != 1 {
		return false
	}
	ev.preventDefault()
	target.HandleKey(ev.Key)
	return true
}

func (ev KeyEvent) preventDefault() {
	if ev.PreventDefault != nil {
		ev.PreventDefault()
	}
}
