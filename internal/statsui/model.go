// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"pkt.systems/pslog"

	"github.com/verte-zerg/lenuk/internal/model"
	"github.com/verte-zerg/lenuk/internal/stats"
)

const (
	tabOverview = iota
	tabChars
	tabRuns
)

const (
	filterLang = iota
	filterMode
	filterSince
	filterLast
	filterWindow
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea stats UI.
type Model struct {
	ctx context.Context
	src stats.ResultSource
	cfg model.StatsConfig

	report stats.Report
	errMsg string

	tabs      []string
	activeTab int
	overview  viewport.Model
	charTable table.Model
	runTable  table.Model

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string
}

// NewModel constructs a stats UI model and loads the first report.
func NewModel(ctx context.Context, src stats.ResultSource, cfg model.StatsConfig) *Model {
	m := &Model{
		ctx:      ctx,
		src:      src,
		cfg:      cfg,
		tabs:     []string{"Overview", "Characters", "Runs"},
		overview: viewport.New(0, 0),
	}
	m.charTable = newTable(charColumns())
	m.runTable = newTable(runColumns())
	m.initInputs()
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderOverview()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "=":
			m.cfg.CurveWindow = nextWindow(m.cfg.CurveWindow)
			m.refreshReport()
			return m, nil
		case "-":
			m.cfg.CurveWindow = prevWindow(m.cfg.CurveWindow)
			m.refreshReport()
			return m, nil
		case "/":
			return m.startFilter()
		case "g", "home":
			m.gotoEdge(true)
			return m, nil
		case "G", "end":
			m.gotoEdge(false)
			return m, nil
		}
		var cmd tea.Cmd
		switch m.activeTab {
		case tabChars:
			m.charTable, cmd = m.charTable.Update(msg)
		case tabRuns:
			m.runTable, cmd = m.runTable.Update(msg)
		default:
			m.overview, cmd = m.overview.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fit(m.renderHeader(), m.width, headerHeight)
	body := fit(m.renderBody(), m.width, bodyHeight)
	footer := fit(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initInputs() {
	m.filterInputs = []textinput.Model{
		newFilterInput("Lang: "),
		newFilterInput("Mode (words/time): "),
		newFilterInput("Since (YYYY-MM-DD): "),
		newFilterInput("Last: "),
		newFilterInput("Window: "),
	}
	m.setInputsFromConfig()
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setInputsFromConfig() {
	m.filterInputs[filterLang].SetValue(m.cfg.Lang)
	m.filterInputs[filterMode].SetValue(m.cfg.Mode)
	since := ""
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format("2006-01-02")
	}
	m.filterInputs[filterSince].SetValue(since)
	last := ""
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	m.filterInputs[filterLast].SetValue(last)
	m.filterInputs[filterWindow].SetValue(strconv.Itoa(m.cfg.CurveWindow))
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	headerHeight = max(1, lipgloss.Height(activeNavStyle.Render("X"))) + 1
	footerHeight = 1
	if !m.filterMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = max(1, m.height-headerHeight-footerHeight)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.overview.Width = m.width
	m.overview.Height = bodyHeight
	for _, t := range []*table.Model{&m.charTable, &m.runTable} {
		t.SetWidth(m.width)
		t.SetHeight(max(1, bodyHeight-1))
	}
	for i := range m.filterInputs {
		promptWidth := lipgloss.Width(m.filterInputs[i].Prompt)
		m.filterInputs[i].Width = max(10, m.width-promptWidth-2)
	}
}

func (m *Model) moveTab(delta int) {
	m.activeTab = (m.activeTab + delta + len(m.tabs)) % len(m.tabs)
	m.charTable.Blur()
	m.runTable.Blur()
	switch m.activeTab {
	case tabChars:
		m.charTable.Focus()
	case tabRuns:
		m.runTable.Focus()
	}
}

func (m *Model) gotoEdge(top bool) {
	switch m.activeTab {
	case tabChars:
		if top {
			m.charTable.GotoTop()
		} else {
			m.charTable.GotoBottom()
		}
	case tabRuns:
		if top {
			m.runTable.GotoTop()
		} else {
			m.runTable.GotoBottom()
		}
	default:
		if top {
			m.overview.GotoTop()
		} else {
			m.overview.GotoBottom()
		}
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	return m.renderTabs() + "\n" + m.renderFilterSummary()
}

func (m *Model) renderFilterSummary() string {
	lang := orAny(m.cfg.Lang)
	mode := orAny(m.cfg.Mode)
	since := "any"
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format("2006-01-02")
	}
	last := "all"
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	summary := fmt.Sprintf("Settings: lang=%s  mode=%s  since=%s  last=%s  window=%d", lang, mode, since, last, m.cfg.CurveWindow)
	return headerStyle.Render(runewidth.Truncate(summary, max(m.width, 0), "..."))
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
	}
	help := headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Window: -/=  Settings: /  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) renderBody() string {
	if m.filterMode {
		lines := []string{"Settings (enter to apply, esc to cancel)"}
		for _, input := range m.filterInputs {
			lines = append(lines, input.View())
		}
		if m.filterError != "" {
			lines = append(lines, errorStyle.Render(m.filterError))
		}
		return strings.Join(lines, "\n")
	}
	switch m.activeTab {
	case tabChars:
		if len(m.report.CharAggsWindow) == 0 {
			return "No character stats found."
		}
		return tableMutedStyle.Render(m.charTable.View())
	case tabRuns:
		if len(m.report.Results) == 0 {
			return "No results found."
		}
		return tableMutedStyle.Render(m.runTable.View())
	}
	return m.overview.View()
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(m.ctx, m.src, m.cfg)
	if err != nil {
		pslog.Ctx(m.ctx).With("err", err).Warn("stats report failed")
		m.errMsg = err.Error()
		m.overview.SetContent("Failed to load stats.")
		return
	}
	m.errMsg = ""
	m.report = report
	m.charTable.SetRows(charRows(report.CharAggsWindow))
	m.runTable.SetRows(runRows(report.Results))
	m.runTable.GotoBottom()
	m.updateLayout()
	m.renderOverview()
}

func (m *Model) renderOverview() {
	if m.errMsg != "" {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.overview.SetContent(renderOverview(m.report.Results, m.cfg.CurveWindow, width))
}

func renderOverview(results []model.Result, window, width int) string {
	if len(results) == 0 {
		return "No results found."
	}
	cards := renderSummaryCards(results, width)
	var buf bytes.Buffer
	if err := stats.RenderHistory(&buf, results, window, width); err != nil {
		return fmt.Sprintf("Failed to render history: %v", err)
	}
	return strings.TrimRight(cards+"\n\n"+buf.String(), "\n")
}

func renderSummaryCards(results []model.Result, width int) string {
	s := stats.Summarize(results)
	cards := []string{
		metricCard("Runs", strconv.Itoa(s.Count)),
		metricCard("Avg WPM", fmt.Sprintf("%.1f", s.AvgWPM)),
		metricCard("Best WPM", fmt.Sprintf("%.1f", s.BestWPM)),
		metricCard("Avg Raw", fmt.Sprintf("%.1f", s.AvgRawWPM)),
		metricCard("Avg Acc", fmt.Sprintf("%.1f%%", s.AvgAccuracy)),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4])
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func newTable(columns []table.Column) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithHeight(1),
	)
	t.SetStyles(tableStyles())
	return t
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func charColumns() []table.Column {
	return []table.Column{
		{Title: "Char", Width: 7},
		{Title: "Accuracy", Width: 9},
		{Title: "Correct", Width: 7},
		{Title: "Incorrect", Width: 9},
		{Title: "Total", Width: 6},
	}
}

// charRows lists characters weakest first.
func charRows(aggs []model.CharAggregate) []table.Row {
	rows := make([]table.Row, 0, len(aggs))
	for _, agg := range stats.WeakestFirst(aggs) {
		rows = append(rows, table.Row{
			stats.CharLabel(agg.Char),
			fmt.Sprintf("%.2f%%", stats.CharAccuracy(agg)*100),
			strconv.Itoa(agg.Correct),
			strconv.Itoa(agg.Incorrect),
			strconv.Itoa(agg.Correct + agg.Incorrect),
		})
	}
	return rows
}

func runColumns() []table.Column {
	return []table.Column{
		{Title: "Finished", Width: 16},
		{Title: "Lang", Width: 8},
		{Title: "Mode", Width: 5},
		{Title: "Time", Width: 5},
		{Title: "WPM", Width: 6},
		{Title: "Raw", Width: 6},
		{Title: "Acc", Width: 6},
		{Title: "Errors", Width: 6},
	}
}

// runRows keeps the report order, oldest first, so the table ends on the
// latest run.
func runRows(results []model.Result) []table.Row {
	rows := make([]table.Row, 0, len(results))
	for _, r := range results {
		rows = append(rows, table.Row{
			r.FinishedAt.Local().Format("2006-01-02 15:04"),
			r.Lang,
			r.Mode,
			fmt.Sprintf("%ds", r.Duration),
			fmt.Sprintf("%.1f", r.WPM),
			fmt.Sprintf("%.1f", r.RawWPM),
			fmt.Sprintf("%.1f%%", r.Accuracy),
			strconv.Itoa(r.Errors),
		})
	}
	return rows
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.setInputsFromConfig()
	return m, m.setFilterIndex(0)
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		cfg, err := parseFilter(m.filterValues())
		if err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.cfg = cfg
		m.filterMode = false
		m.filterError = ""
		m.refreshReport()
		return m, nil
	case tea.KeyTab:
		return m, m.setFilterIndex(m.filterIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setFilterIndex(m.filterIndex - 1)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	count := len(m.filterInputs)
	m.filterIndex = (idx + count) % count
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == m.filterIndex {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) filterValues() []string {
	values := make([]string, len(m.filterInputs))
	for i, input := range m.filterInputs {
		values[i] = strings.TrimSpace(input.Value())
	}
	return values
}

// parseFilter turns the settings form, in filter index order, into a stats
// config.
func parseFilter(values []string) (model.StatsConfig, error) {
	cfg := model.StatsConfig{
		Lang: values[filterLang],
		Mode: values[filterMode],
	}
	if cfg.Mode != "" && cfg.Mode != "words" && cfg.Mode != "time" {
		return model.StatsConfig{}, fmt.Errorf("invalid mode (use words or time)")
	}
	if values[filterSince] != "" {
		parsed, err := time.ParseInLocation("2006-01-02", values[filterSince], time.Local)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid since date (expected YYYY-MM-DD)")
		}
		cfg.Since = &parsed
	}
	if values[filterLast] != "" {
		parsed, err := strconv.Atoi(values[filterLast])
		if err != nil || parsed < 0 {
			return model.StatsConfig{}, fmt.Errorf("invalid last value (use 0 or positive integer)")
		}
		cfg.Last = parsed
	}
	cfg.CurveWindow = 1
	if values[filterWindow] != "" {
		parsed, err := strconv.Atoi(values[filterWindow])
		if err != nil || parsed < 1 {
			return model.StatsConfig{}, fmt.Errorf("invalid window (use integer >= 1)")
		}
		cfg.CurveWindow = parsed
	}
	return cfg, nil
}

func orAny(value string) string {
	if value == "" {
		return "any"
	}
	return value
}

func nextWindow(n int) int {
	if n < 5 {
		return 5
	}
	return (n/5 + 1) * 5
}

func prevWindow(n int) int {
	if n <= 5 {
		return 1
	}
	if n%5 == 0 {
		return n - 5
	}
	return (n / 5) * 5
}

// fit clips s to height lines and pads it to a width by height block.
func fit(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	lines = lines[:min(len(lines), height)]
	return lipgloss.Place(width, height, lipgloss.Left, lipgloss.Top, strings.Join(lines, "\n"))
}
