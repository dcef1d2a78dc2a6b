// Package tui provides the Bubble Tea exercise interface.
package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

type glyph struct {
	r       rune
	width   int
	isSpace bool
}

func glyphsOf(text string) []glyph {
	out := make([]glyph, 0, len(text))
	for _, r := range text {
		out = append(out, glyph{r: r, width: runewidth.RuneWidth(r), isSpace: r == ' '})
	}
	return out
}

func glyphString(line []glyph) string {
	var b strings.Builder
	for _, g := range line {
		b.WriteRune(g.r)
	}
	return b.String()
}

// wrapText breaks text into lines of at most width display columns. Lines end
// at a space where possible; words longer than width are hard-broken.
func wrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}
	glyphs := glyphsOf(text)
	var lines []string
	line := make([]glyph, 0, len(glyphs))
	lineWidth := 0
	lastSpace := -1

	for i := 0; i < len(glyphs); {
		g := glyphs[i]
		if lineWidth+g.width > width && len(line) > 0 {
			if g.isSpace {
				lines = append(lines, glyphString(line))
				line = line[:0]
				lineWidth, lastSpace = 0, -1
				i++
				continue
			}
			if lastSpace >= 0 {
				lines = append(lines, glyphString(line[:lastSpace]))
				line = append([]glyph{}, line[lastSpace+1:]...)
			} else {
				lines = append(lines, glyphString(line))
				line = line[:0]
			}
			lineWidth = widthOf(line)
			lastSpace = lastSpaceIndex(line)
			continue
		}
		line = append(line, g)
		lineWidth += g.width
		if g.isSpace {
			lastSpace = len(line) - 1
		}
		i++
	}
	return append(lines, glyphString(line))
}

func widthOf(line []glyph) int {
	total := 0
	for _, g := range line {
		total += g.width
	}
	return total
}

func lastSpaceIndex(line []glyph) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}

// emphasize renders every occurrence of the phrases in line with style.
func emphasize(line string, phrases []string, style lipgloss.Style) string {
	for _, p := range phrases {
		if p != "" && strings.Contains(line, p) {
			line = strings.ReplaceAll(line, p, style.Render(p))
		}
	}
	return line
}

// paragraph wraps text and styles each line.
func paragraph(text string, width int, style lipgloss.Style, phrases []string) string {
	lines := wrapText(text, width)
	for i, line := range lines {
		lines[i] = emphasize(style.Render(line), phrases, emphStyle)
	}
	return strings.Join(lines, "\n")
}

func contentWidth(total int) int {
	w := int(float64(total) * 0.70)
	if w < 20 {
		w = min(total, 20)
	}
	if w < 1 {
		w = 1
	}
	return w
}
