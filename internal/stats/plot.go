package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Series is a named data series for plotting.
type Series struct {
	Name   string
	Values []float64
}

// PlotOptions sizes a plot. Zero values pick defaults; Color forces ANSI color.
type PlotOptions struct {
	Width  int
	Height int
	Color  bool
}

const (
	defaultPlotHeight = 10
	minPlotWidth      = 10
	fallbackTermWidth = 80
	axisTop           = "max"
	axisBottom        = "min"
	axisSeparator     = " │ "
	colorReset        = "\x1b[0m"
)

type dash struct {
	name   string
	period int
	on     int
}

var dashes = []dash{
	{name: "liền", period: 1, on: 1},
	{name: "nét đứt", period: 6, on: 3},
	{name: "chấm", period: 4, on: 1},
}

var palette = []string{"\x1b[36m", "\x1b[35m", "\x1b[33m", "\x1b[32m"}

func (d dash) draws(x int) bool {
	if d.period <= 1 {
		return true
	}
	if x < 0 {
		x = -x
	}
	return x%d.period < d.on
}

// canvas is a grid of braille cells, each holding 2x4 dots.
type canvas struct {
	cells [][]uint8
}

func newCanvas(width, height int) *canvas {
	cells := make([][]uint8, height)
	for y := range cells {
		cells[y] = make([]uint8, width)
	}
	return &canvas{cells: cells}
}

var dotBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

func (c *canvas) set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	cy, cx := y/4, x/2
	if cy >= len(c.cells) || cx >= len(c.cells[cy]) {
		return
	}
	c.cells[cy][cx] |= dotBits[x%2][y%4]
}

// line draws with Bresenham, skipping dots outside the dash pattern.
func (c *canvas) line(x0, y0, x1, y1 int, d dash) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := sign(x1-x0), sign(y1-y0)
	e := dx + dy
	for {
		if d.draws(x0) {
			c.set(x0, y0)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// PlotSeries renders a braille line chart, each series scaled to its own range.
func PlotSeries(w io.Writer, title string, series []Series, opts PlotOptions) error {
	kept := make([]Series, 0, len(series))
	for _, s := range series {
		if len(s.Values) > 0 {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	height := opts.Height
	if height <= 0 {
		height = defaultPlotHeight
	}
	width := opts.Width
	if width <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}
	useColor := shouldUseColor(w, opts.Color)

	layers := make([]*canvas, len(kept))
	ranges := make([][2]float64, len(kept))
	for i, s := range kept {
		values := resample(s.Values, width)
		lo, hi := minMax(values)
		if hi-lo < 1e-9 {
			lo--
			hi++
		}
		ranges[i] = [2]float64{lo, hi}
		layers[i] = newCanvas(width, height)
		d := dashes[i%len(dashes)]
		prevX, prevY := -1, -1
		for x, v := range values {
			px, py := x*2, dotRow(v, lo, hi, height*4)
			if prevX < 0 {
				prevX, prevY = px, py
			}
			layers[i].line(prevX, prevY, px, py, d)
			prevX, prevY = px, py
		}
	}

	lines := make([]string, 0, height+len(kept)+4)
	if title != "" {
		lines = append(lines, title)
	}
	for i, s := range kept {
		lines = append(lines, fmt.Sprintf("%s: %.2f .. %.2f", s.Name, ranges[i][0], ranges[i][1]))
	}
	labelWidth := runewidth.StringWidth(axisTop)
	for y := 0; y < height; y++ {
		label := ""
		switch y {
		case 0:
			label = axisTop
		case height - 1:
			label = axisBottom
		}
		var row strings.Builder
		row.WriteString(runewidth.FillLeft(label, labelWidth))
		row.WriteString(axisSeparator)
		for x := 0; x < width; x++ {
			var mask uint8
			owner := -1
			for i, layer := range layers {
				if m := layer.cells[y][x]; m != 0 {
					mask |= m
					if owner < 0 {
						owner = i
					}
				}
			}
			ch := rune(0x2800 + int(mask))
			if useColor && owner >= 0 {
				row.WriteString(palette[owner%len(palette)] + string(ch) + colorReset)
			} else {
				row.WriteRune(ch)
			}
		}
		lines = append(lines, row.String())
	}
	lines = append(lines, legend(kept, useColor), "")
	return writeLines(w, lines)
}

// PlotWidthFor returns the plot area width that fits totalWidth columns.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	width := totalWidth - runewidth.StringWidth(axisTop) - runewidth.StringWidth(axisSeparator)
	if width < minPlotWidth {
		return minPlotWidth
	}
	return width
}

func legend(series []Series, useColor bool) string {
	parts := make([]string, len(series))
	for i, s := range series {
		label := fmt.Sprintf("%c %s (%s)", rune(0x2801), s.Name, dashes[i%len(dashes)].name)
		if useColor {
			label = palette[i%len(palette)] + label + colorReset
		}
		parts[i] = label
	}
	return "Chú thích: " + strings.Join(parts, "  ")
}

// resample maps values onto width columns, averaging buckets when shrinking
// and interpolating linearly when stretching.
func resample(values []float64, width int) []float64 {
	n := len(values)
	out := make([]float64, width)
	switch {
	case n == width:
		copy(out, values)
	case n > width:
		for i := range out {
			start := i * n / width
			end := (i + 1) * n / width
			if end <= start {
				end = start + 1
			}
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
	case n == 1 || width == 1:
		for i := range out {
			out[i] = values[0]
		}
	default:
		for i := range out {
			pos := float64(i) * float64(n-1) / float64(width-1)
			idx := int(pos)
			if idx >= n-1 {
				out[i] = values[n-1]
				continue
			}
			frac := pos - float64(idx)
			out[i] = values[idx]*(1-frac) + values[idx+1]*frac
		}
	}
	return out
}

func dotRow(v, lo, hi float64, rows int) int {
	if rows <= 1 {
		return 0
	}
	pos := (v - lo) / (hi - lo)
	return clamp(int(math.Round((1-pos)*float64(rows-1))), 0, rows-1)
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallbackTermWidth
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
