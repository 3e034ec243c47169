// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"pkt.systems/pslog"

	"github.com/verte-zerg/lenuk/internal/engine"
	"github.com/verte-zerg/lenuk/internal/generator"
	"github.com/verte-zerg/lenuk/internal/model"
	"github.com/verte-zerg/lenuk/internal/stats"
)

// ResultStore persists finished runs.
type ResultStore interface {
	InsertResult(ctx context.Context, result model.Result, chars []model.CharStats) (string, error)
	BestResult(ctx context.Context, lang, mode string, duration int) (model.Result, bool, error)
}

type saveState int

const (
	saveIdle saveState = iota
	saveDone
	saveFailed
)

// changeMsg tells Update that the engine published a new snapshot.
type changeMsg struct{}

// Model implements the Bubble Tea typing UI.
type Model struct {
	ctx    context.Context
	config model.Config
	store  ResultStore
	gen    *generator.Generator
	now    func() time.Time

	engine      *engine.Engine
	unsubscribe func()
	changes     chan struct{}
	done        chan struct{}

	generation int
	content    generator.GeneratedTestContent
	snap       engine.Snapshot
	savedAt    uint64
	save       saveState

	best    model.Result
	hasBest bool

	rec         recorder
	lastRun     replayRun
	replaying   bool
	replayToken int
	replayView  replayFrame

	bar    progress.Model
	width  int
	height int
}

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	resultStyle      = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#F0F0F0")).
				Padding(0, 2).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#C89A3A"))
)

// NewModel builds the first prompt for cfg and starts an idle engine on it.
// The engine options are passed through, mainly for tests.
func NewModel(ctx context.Context, cfg model.Config, st ResultStore, gen *generator.Generator, opts ...engine.Option) (*Model, error) {
	m := &Model{
		ctx:     ctx,
		config:  cfg,
		store:   st,
		gen:     gen,
		now:     time.Now,
		changes: make(chan struct{}, 1),
		done:    make(chan struct{}),
		bar: progress.New(
			progress.WithSolidFill("#C89A3A"),
			progress.WithoutPercentage(),
			progress.WithWidth(40),
		),
	}
	content, err := m.build(0)
	if err != nil {
		return nil, err
	}
	m.content = content
	m.engine = engine.New(content.Text, cfg.Duration, opts...)
	m.unsubscribe = m.engine.Subscribe(m.signal)
	m.refresh()
	m.loadBest()
	return m, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.waitForChange()
}

// Close stops the engine and releases the change watcher.
func (m *Model) Close() {
	select {
	case <-m.done:
		return
	default:
	}
	close(m.done)
	m.unsubscribe()
	m.engine.Dispose()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = max(1, m.contentWidth())
		return m, nil
	case changeMsg:
		m.refresh()
		return m, m.waitForChange()
	case replayFrameMsg:
		if !m.replaying || msg.token != m.replayToken || msg.frame >= len(m.lastRun.frames) {
			return m, nil
		}
		m.replayView = m.lastRun.frames[msg.frame]
		return m, nextReplayCmd(m.lastRun, msg.token, msg.frame)
	case replayDoneMsg:
		if msg.token == m.replayToken {
			m.replaying = false
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.Close()
		return m, tea.Quit
	case tea.KeyCtrlR:
		return m, m.startReplay()
	case tea.KeyTab:
		m.stopReplay()
		m.next()
		return m, nil
	}
	if m.replaying {
		if msg.Type == tea.KeyEsc {
			m.stopReplay()
		}
		return m, nil
	}
	for _, ev := range keyEvents(msg) {
		engine.DispatchTypingKey(m.engine, ev)
	}
	m.refresh()
	return m, nil
}

// keyEvents translates a Bubble Tea key into engine key events. Pastes are
// dropped.
func keyEvents(msg tea.KeyMsg) []engine.KeyEvent {
	switch msg.Type {
	case tea.KeyRunes:
		if msg.Paste {
			return nil
		}
		events := make([]engine.KeyEvent, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			events = append(events, engine.KeyEvent{Key: string(r), Alt: msg.Alt})
		}
		return events
	case tea.KeySpace:
		return []engine.KeyEvent{{Key: " ", Alt: msg.Alt}}
	case tea.KeyBackspace:
		return []engine.KeyEvent{{Key: engine.KeyBackspace, Alt: msg.Alt}}
	case tea.KeyEnter:
		return []engine.KeyEvent{{Key: engine.KeyEnter, Alt: msg.Alt}}
	case tea.KeyEsc:
		return []engine.KeyEvent{{Key: engine.KeyEscape}}
	case tea.KeyTab:
		return []engine.KeyEvent{{Key: engine.KeyTab}}
	}
	return []engine.KeyEvent{{Key: msg.String(), Ctrl: true}}
}

// signal is the engine listener. It never blocks; one pending change is
// enough because refresh always reads the latest snapshot.
func (m *Model) signal() {
	select {
	case m.changes <- struct{}{}:
	default:
	}
}

func (m *Model) waitForChange() tea.Cmd {
	changes, done := m.changes, m.done
	return func() tea.Msg {
		select {
		case <-changes:
			return changeMsg{}
		case <-done:
			return nil
		}
	}
}

func (m *Model) build(generation int) (generator.GeneratedTestContent, error) {
	content, err := m.gen.BuildTestContent(BuildOptions(m.config, generation))
	if err != nil {
		return generator.GeneratedTestContent{}, err
	}
	if content.Text == "" {
		return generator.GeneratedTestContent{}, fmt.Errorf("language %q produced an empty prompt", m.config.Lang)
	}
	return content, nil
}

// next moves to the following generation of the prompt.
func (m *Model) next() {
	content, err := m.build(m.generation + 1)
	if err != nil {
		pslog.Ctx(m.ctx).With("err", err).Warn("prompt generation failed")
		return
	}
	m.generation++
	m.content = content
	m.engine.SetText(content.Text)
	m.refresh()
}

// refresh pulls the latest snapshot and saves the run the first time it is
// seen finished.
func (m *Model) refresh() {
	snap := m.engine.Snapshot()
	m.snap = snap
	m.rec.observe(snap)
	if !snap.Metrics.Started {
		m.save = saveIdle
		return
	}
	if snap.Metrics.Finished && snap.StrokeVersion != m.savedAt {
		m.savedAt = snap.StrokeVersion
		m.lastRun = m.rec.finish(snap)
		m.saveResult(snap)
	}
}

func (m *Model) saveResult(snap engine.Snapshot) {
	finishedAt := m.now()
	elapsed := time.Duration(snap.Metrics.Elapsed * float64(time.Second))
	result := stats.ResultFromSnapshot(snap, stats.RunMeta{
		Lang:        m.config.Lang,
		Mode:        m.config.Mode,
		Seed:        string(m.content.Seed),
		Duration:    m.config.Duration,
		Words:       len(m.content.Words),
		Punctuation: m.config.Punctuation,
		Numbers:     m.config.Numbers,
		Difficulty:  m.config.Difficulty,
		StartedAt:   finishedAt.Add(-elapsed),
		FinishedAt:  finishedAt,
	})
	log := pslog.Ctx(m.ctx)
	id, err := m.store.InsertResult(m.ctx, result, stats.CharStatsFromSnapshot(snap))
	if err != nil {
		m.save = saveFailed
		log.With("err", err).Error("result save failed")
		return
	}
	m.save = saveDone
	log.Debug("result saved", "id", id, "wpm", result.WPM, "accuracy", result.Accuracy)
	if !m.hasBest || result.WPM > m.best.WPM {
		result.ID = id
		m.best = result
		m.hasBest = true
	}
}

func (m *Model) loadBest() {
	best, ok, err := m.store.BestResult(m.ctx, m.config.Lang, m.config.Mode, m.config.Duration)
	if err != nil {
		pslog.Ctx(m.ctx).With("err", err).Warn("best result lookup failed")
		return
	}
	m.best, m.hasBest = best, ok
}

func (m *Model) startReplay() tea.Cmd {
	if !m.snap.Metrics.Finished || m.lastRun.text != m.snap.Text || len(m.lastRun.frames) == 0 {
		return nil
	}
	m.replayToken++
	m.replaying = true
	m.replayView = m.lastRun.frames[0]
	return nextReplayCmd(m.lastRun, m.replayToken, 0)
}

func (m *Model) stopReplay() {
	m.replaying = false
	m.replayToken++
}

// View implements tea.Model.
func (m *Model) View() string {
	target := []rune(m.snap.Text)
	if len(target) == 0 {
		return ""
	}
	index, statuses := m.snap.Index, m.snap.Statuses
	if m.replaying {
		index, statuses = m.replayView.index, m.replayView.statuses
	}
	cursorIndex := -1
	if m.replaying || (index < len(target) && !m.snap.Metrics.Finished) {
		cursorIndex = index
	}
	glyphs := styleGlyphs(target, statuses, cursorIndex)
	if m.width == 0 || m.height == 0 {
		return joinGlyphs(glyphs)
	}
	contentWidth := m.contentWidth()
	wrapped := wrapGlyphs(glyphs, contentWidth)
	parts := []string{m.bar.ViewAs(m.progress(index, len(target))), "", wrapped}
	if m.snap.Metrics.Finished && !m.replaying {
		parts = append(parts, "", resultStyle.Render(m.renderResult()))
	}
	content := lipgloss.NewStyle().Width(contentWidth).Render(strings.Join(parts, "\n"))
	footer := m.renderFooter()
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 1
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) contentWidth() int {
	return max(1, int(float64(m.width)*0.70))
}

func (m *Model) progress(index, length int) float64 {
	if length == 0 {
		return 0
	}
	return float64(index) / float64(length)
}

func (m *Model) renderResult() string {
	metrics := m.snap.Metrics
	return fmt.Sprintf("%.1f wpm  raw %.1f  acc %.1f%%  errors %d  time %.1fs",
		metrics.WPM, metrics.RawWPM, metrics.Accuracy, metrics.Errors, metrics.Elapsed)
}

func (m *Model) renderFooter() string {
	metrics := m.snap.Metrics
	segments := []string{
		fmt.Sprintf("%ds", int(math.Ceil(metrics.TimeLeft))),
		fmt.Sprintf("%.1f WPM", metrics.WPM),
		fmt.Sprintf("%.1f%%", metrics.Accuracy),
	}
	if m.hasBest {
		segments = append(segments, fmt.Sprintf("Best %.1f WPM · %.1f%%", m.best.WPM, m.best.Accuracy))
	}
	switch m.save {
	case saveDone:
		segments = append(segments, "saved")
	case saveFailed:
		segments = append(segments, "save failed")
	}
	switch {
	case m.replaying:
		segments = append(segments, "replaying · esc stop")
	case metrics.Finished:
		segments = append(segments, "tab next · esc retry · ctrl+r replay")
	default:
		segments = append(segments, "tab next · esc restart")
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}
