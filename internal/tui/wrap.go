package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/lenuk/internal/engine"
)

// glyph is one rendered prompt position.
type glyph struct {
	text  string
	width int
	space bool
}

// styleGlyphs renders every prompt rune in the style of its status. The word
// under the cursor is highlighted; a negative cursor hides the cursor.
func styleGlyphs(prompt []rune, statuses []engine.Status, cursor int) []glyph {
	start, end := currentWord(prompt, cursor)
	out := make([]glyph, len(prompt))
	for i, r := range prompt {
		status := engine.StatusUnset
		if i < len(statuses) {
			status = statuses[i]
		}
		shown, style := r, pendingStyle
		switch status {
		case engine.StatusIncorrect:
			style = incorrectStyle
			if r == ' ' {
				shown = '•'
			}
		case engine.StatusCorrect:
			style = correctStyle
		default:
			if i >= start && i < end {
				style = currentWordStyle
			}
			if i == cursor {
				style = style.Underline(true)
			}
		}
		out[i] = glyph{
			text:  style.Render(string(shown)),
			width: runewidth.RuneWidth(shown),
			space: r == ' ',
		}
	}
	return out
}

// currentWord returns the bounds of the word under cursor. On a space it is
// the next word, past the end the last one.
func currentWord(prompt []rune, cursor int) (start, end int) {
	i := max(cursor, 0)
	for i < len(prompt) && prompt[i] == ' ' {
		i++
	}
	if i >= len(prompt) {
		i = len(prompt) - 1
		for i >= 0 && prompt[i] == ' ' {
			i--
		}
		if i < 0 {
			return 0, 0
		}
	}
	start, end = i, i
	for start > 0 && prompt[start-1] != ' ' {
		start--
	}
	for end < len(prompt) && prompt[end] != ' ' {
		end++
	}
	return start, end
}

func joinGlyphs(glyphs []glyph) string {
	var b strings.Builder
	for _, g := range glyphs {
		b.WriteString(g.text)
	}
	return b.String()
}

// wrapGlyphs breaks glyphs into lines at most width cells wide. Lines break
// at spaces, which are dropped at the break; a word wider than a line is
// split. A non-positive width disables wrapping.
func wrapGlyphs(glyphs []glyph, width int) string {
	if width <= 0 {
		return joinGlyphs(glyphs)
	}
	var out, line strings.Builder
	used := 0
	breakLine := func() {
		out.WriteString(line.String())
		out.WriteByte('\n')
		line.Reset()
		used = 0
	}

	for i := 0; i < len(glyphs); {
		if glyphs[i].space {
			if used+glyphs[i].width > width {
				breakLine()
			} else {
				line.WriteString(glyphs[i].text)
				used += glyphs[i].width
			}
			i++
			continue
		}
		j := i
		wordWidth := 0
		for j < len(glyphs) && !glyphs[j].space {
			wordWidth += glyphs[j].width
			j++
		}
		if used > 0 && used+wordWidth > width {
			breakLine()
		}
		for _, g := range glyphs[i:j] {
			if used > 0 && used+g.width > width {
				breakLine()
			}
			line.WriteString(g.text)
			used += g.width
		}
		i = j
	}
	out.WriteString(line.String())
	return out.String()
}
