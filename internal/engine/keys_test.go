package engine

import "testing"

type recordingTarget struct {
	restarts   int
	backspaces int
	keys       []string
}

func (r *recordingTarget) Restart(...int) { r.restarts++ }
func (r *recordingTarget) HandleBackspace() { r.backspaces++ }
func (r *recordingTarget) HandleKey(key string) { r.keys = append(r.keys, key) }

func keyEvent(key string, prevented *int) KeyEvent {
	return KeyEvent{
		Key:            key,
		PreventDefault: func() { *prevented++ },
	}
}

func TestDispatchFirstPrintableKey(t *testing.T) {
	e, _ := newTestEngine(t, "abc", 30)
	prevented := 0
	if !DispatchTypingKey(e, keyEvent("a", &prevented)) {
		t.Fatalf("expected key to be consumed")
	}
	if prevented != 1 {
		t.Fatalf("expected prevent default once, got %d", prevented)
	}
	s := e.Snapshot()
	if s.Index != 1 || !s.Metrics.Started || s.Metrics.TypedChars != 1 {
		t.Fatalf("unexpected snapshot: %+v", s)
	}
}

func TestDispatchBackspaceThroughEngine(t *testing.T) {
	e, _ := newTestEngine(t, "abc", 30)
	prevented := 0
	DispatchTypingKey(e, keyEvent("a", &prevented))
	if !DispatchTypingKey(e, keyEvent(KeyBackspace, &prevented)) {
		t.Fatalf("expected backspace to be consumed")
	}
	if prevented != 2 {
		t.Fatalf("expected prevent default twice, got %d", prevented)
	}
	s := e.Snapshot()
	if s.Index != 0 || s.Metrics.TypedChars != 0 {
		t.Fatalf("unexpected snapshot: %+v", s)
	}
}

func TestDispatchIgnoresModifiedShortcuts(t *testing.T) {
	e, _ := newTestEngine(t, "abc", 30)
	for _, mod := range []func(*KeyEvent){
		func(ev *KeyEvent) { ev.Ctrl = true },
		func(ev *KeyEvent) { ev.Alt = true },
		func(ev *KeyEvent) { ev.Meta = true },
	} {
		for _, key := range []string{"a", KeyEscape, KeyBackspace} {
			prevented := 0
			ev := keyEvent(key, &prevented)
			mod(&ev)
			if DispatchTypingKey(e, ev) {
				t.Fatalf("expected modified %q to be ignored", key)
			}
			if prevented != 0 {
				t.Fatalf("expected no prevent default for modified %q", key)
			}
		}
	}
	s := e.Snapshot()
	if s.Index != 0 || s.Metrics.Started {
		t.Fatalf("unexpected snapshot: %+v", s)
	}
}

func TestDispatchRouting(t *testing.T) {
	tests := []struct {
		name       string
		ev         KeyEvent
		consumed   bool
		restarts   int
		backspaces int
		keys       []string
	}{
		{name: "escape", ev: KeyEvent{Key: KeyEscape}, consumed: true, restarts: 1},
		{name: "backspace", ev: KeyEvent{Key: KeyBackspace}, consumed: true, backspaces: 1},
		{name: "enter", ev: KeyEvent{Key: KeyEnter}, consumed: true, keys: []string{"\n"}},
		{name: "printable", ev: KeyEvent{Key: "é"}, consumed: true, keys: []string{"é"}},
		{name: "space", ev: KeyEvent{Key: " "}, consumed: true, keys: []string{" "}},
		{name: "tab", ev: KeyEvent{Key: KeyTab}},
		{name: "named key", ev: KeyEvent{Key: "ArrowLeft"}},
		{name: "empty", ev: KeyEvent{Key: ""}},
		{name: "handled", ev: KeyEvent{Key: "a", DefaultPrevented: true}},
		{name: "composing", ev: KeyEvent{Key: "a", IsComposing: true}},
		{name: "composing escape", ev: KeyEvent{Key: KeyEscape, IsComposing: true}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			target := &recordingTarget{}
			if got := DispatchTypingKey(target, tc.ev); got != tc.consumed {
				t.Fatalf("expected consumed=%v, got %v", tc.consumed, got)
			}
			if target.restarts != tc.restarts || target.backspaces != tc.backspaces || len(target.keys) != len(tc.keys) {
				t.Fatalf("unexpected calls: %+v", target)
			}
			for i, key := range tc.keys {
				if target.keys[i] != key {
					t.Fatalf("expected key %q, got %q", key, target.keys[i])
				}
			}
		})
	}
}

func TestDispatchEscapeRestartsEngine(t *testing.T) {
	e, _ := newTestEngine(t, "abc", 30)
	prevented := 0
	DispatchTypingKey(e, keyEvent("a", &prevented))
	DispatchTypingKey(e, keyEvent(KeyEscape, &prevented))
	s := e.Snapshot()
	if s.Index != 0 || s.Metrics.Started || prevented != 2 {
		t.Fatalf("unexpected snapshot after escape: %+v", s)
	}
}
