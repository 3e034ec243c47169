// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/verte-zerg/lenuk/internal/model"
)

const (
	sparkChars          = " .:-=+*#%@"
	terminalWidthBackup = 80
)

// Summary aggregates a set of results.
type Summary struct {
	Count       int
	AvgWPM      float64
	BestWPM     float64
	AvgRawWPM   float64
	AvgAccuracy float64
}

// Summarize computes averages and the best WPM over results.
func Summarize(results []model.Result) Summary {
	if len(results) == 0 {
		return Summary{}
	}
	var s Summary
	for _, r := range results {
		s.AvgWPM += r.WPM
		s.AvgRawWPM += r.RawWPM
		s.AvgAccuracy += r.Accuracy
		if r.WPM > s.BestWPM {
			s.BestWPM = r.WPM
		}
	}
	count := float64(len(results))
	s.Count = len(results)
	s.AvgWPM /= count
	s.AvgRawWPM /= count
	s.AvgAccuracy /= count
	return s
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// TerminalWidth returns the width of the terminal behind fd, or a fallback
// when fd is not a terminal.
func TerminalWidth(fd int) int {
	if !term.IsTerminal(fd) {
		return terminalWidthBackup
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// RenderSummary prints a summary block for results.
func RenderSummary(w io.Writer, results []model.Result) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "No results found.")
		return err
	}
	s := Summarize(results)
	lines := []string{
		"Summary",
		fmt.Sprintf("Runs: %d", s.Count),
		fmt.Sprintf("Avg WPM: %.1f", s.AvgWPM),
		fmt.Sprintf("Best WPM: %.1f", s.BestWPM),
		fmt.Sprintf("Avg Raw WPM: %.1f", s.AvgRawWPM),
		fmt.Sprintf("Avg Accuracy: %.1f%%", s.AvgAccuracy),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderHistory prints WPM and accuracy sparklines smoothed over window and
// clipped to the most recent runs that fit in width.
func RenderHistory(w io.Writer, results []model.Result, window, width int) error {
	if len(results) == 0 {
		return nil
	}
	wpms := make([]float64, len(results))
	accs := make([]float64, len(results))
	for i, r := range results {
		wpms[i] = r.WPM
		accs[i] = r.Accuracy
	}
	wpms = MovingAverage(wpms, window)
	accs = MovingAverage(accs, window)

	const label = "Accuracy "
	span := max(1, width-len(label))
	if len(wpms) > span {
		wpms = wpms[len(wpms)-span:]
		accs = accs[len(accs)-span:]
	}
	lines := []string{
		"History",
		"WPM      " + Sparkline(wpms),
		label + Sparkline(accs),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCharTable prints per-character aggregates, weakest first.
func RenderCharTable(w io.Writer, aggs []model.CharAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No character stats found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Per-Character (Windowed)"); err != nil {
		return err
	}
	rows := make([][]string, 0, len(aggs))
	for _, agg := range WeakestFirst(aggs) {
		rows = append(rows, []string{
			CharLabel(agg.Char),
			fmt.Sprintf("%.2f%%", CharAccuracy(agg)*100),
			strconv.Itoa(agg.Correct),
			strconv.Itoa(agg.Incorrect),
		})
	}
	cols := []column{
		{header: "Char"},
		{header: "Accuracy", right: true},
		{header: "Correct", right: true},
		{header: "Incorrect", right: true},
	}
	for _, line := range formatTable(cols, rows) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// CharLabel names characters that do not print on their own.
func CharLabel(ch string) string {
	switch ch {
	case " ":
		return "<space>"
	case "\n":
		return "<enter>"
	}
	return ch
}
