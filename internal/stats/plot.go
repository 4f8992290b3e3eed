package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"
)

// Series is a named data series for trend plots.
type Series struct {
	Name   string
	Values []float64
}

const (
	defaultPlotHeight = 10
	minPlotWidth      = 10
	fallbackTermWidth = 80
	colorReset        = "\x1b[0m"
)

var plotColors = []string{
	"\x1b[36m", // cyan
	"\x1b[35m", // magenta
	"\x1b[33m", // yellow
	"\x1b[32m", // green
}

// PlotWidthFor converts a total terminal width into a usable plot
// width, leaving room for the axis gutter.
func PlotWidthFor(totalWidth int) int {
	w := totalWidth - 8
	if w < minPlotWidth {
		w = minPlotWidth
	}
	return w
}

func autoPlotWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		w = fallbackTermWidth
	}
	return PlotWidthFor(w)
}

// PlotSeries renders a braille trend plot. Each series is scaled to
// its own min/max, which are printed above the plot. Width <= 0 sizes
// the plot to the terminal; height <= 0 uses the default.
func PlotSeries(w io.Writer, title string, series []Series, width, height int, useColor bool) error {
	drawable := series[:0:0]
	for _, s := range series {
		if len(s.Values) > 0 {
			drawable = append(drawable, s)
		}
	}
	if len(drawable) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = autoPlotWidth()
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}

	grids := make([]brailleGrid, len(drawable))
	bounds := make([][2]float64, len(drawable))
	for i, s := range drawable {
		values := resample(s.Values, width)
		lo, hi := minMax(values)
		if math.Abs(hi-lo) < 1e-9 {
			lo--
			hi++
		}
		bounds[i] = [2]float64{lo, hi}
		grids[i] = newBrailleGrid(width, height)
		grids[i].plotValues(values, lo, hi)
	}

	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	for i, s := range drawable {
		label := fmt.Sprintf("%s: min=%.2f max=%.2f", s.Name, bounds[i][0], bounds[i][1])
		if useColor {
			label = plotColors[i%len(plotColors)] + label + colorReset
		}
		if _, err := fmt.Fprintln(w, label); err != nil {
			return err
		}
	}
	for y := 0; y < height; y++ {
		var row strings.Builder
		row.WriteString(fmt.Sprintf("%4s │ ", axisLabel(y, height)))
		for x := 0; x < width; x++ {
			mask, owner := composeCell(grids, x, y)
			ch := rune(0x2800 + int(mask))
			if useColor && owner >= 0 {
				row.WriteString(plotColors[owner%len(plotColors)])
				row.WriteRune(ch)
				row.WriteString(colorReset)
			} else {
				row.WriteRune(ch)
			}
		}
		if _, err := fmt.Fprintln(w, row.String()); err != nil {
			return err
		}
	}
	return nil
}

func axisLabel(y, height int) string {
	switch {
	case y == 0:
		return "100%"
	case height > 2 && y == height/2:
		return "50%"
	case y == height-1:
		return "0%"
	}
	return ""
}

// brailleGrid is a dot canvas with 2x4 dots per terminal cell.
type brailleGrid struct {
	cells  [][]uint8
	width  int
	height int
}

func newBrailleGrid(width, height int) brailleGrid {
	cells := make([][]uint8, height)
	for y := range cells {
		cells[y] = make([]uint8, width)
	}
	return brailleGrid{cells: cells, width: width, height: height}
}

func (g brailleGrid) plotValues(values []float64, lo, hi float64) {
	dotHeight := g.height * 4
	prevX, prevY := -1, -1
	for x, v := range values {
		pos := (v - lo) / (hi - lo)
		y := int(math.Round((1 - pos) * float64(dotHeight-1)))
		if y < 0 {
			y = 0
		}
		if y >= dotHeight {
			y = dotHeight - 1
		}
		px := x * 2
		if prevX >= 0 {
			g.line(prevX, prevY, px, y)
		} else {
			g.set(px, y)
		}
		prevX, prevY = px, y
	}
}

// line draws with Bresenham's algorithm in dot coordinates.
func (g brailleGrid) line(x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		g.set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			if x0 == x1 {
				return
			}
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			if y0 == y1 {
				return
			}
			err += dx
			y0 += sy
		}
	}
}

func (g brailleGrid) set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	cx, cy := x/2, y/4
	if cy >= g.height || cx >= g.width {
		return
	}
	g.cells[cy][cx] |= brailleDot(x%2, y%4)
}

func brailleDot(x, y int) uint8 {
	masks := [2][4]uint8{
		{0x01, 0x02, 0x04, 0x40},
		{0x08, 0x10, 0x20, 0x80},
	}
	return masks[x][y]
}

func composeCell(grids []brailleGrid, x, y int) (uint8, int) {
	var mask uint8
	owner := -1
	for i, g := range grids {
		m := g.cells[y][x]
		if m == 0 {
			continue
		}
		if owner == -1 {
			owner = i
		}
		mask |= m
	}
	return mask, owner
}

// resample stretches or averages values to exactly width points.
func resample(values []float64, width int) []float64 {
	if len(values) == 0 || width <= 0 {
		return nil
	}
	if len(values) == width {
		out := make([]float64, width)
		copy(out, values)
		return out
	}
	out := make([]float64, width)
	if len(values) > width {
		for i := 0; i < width; i++ {
			start := i * len(values) / width
			end := (i + 1) * len(values) / width
			if end <= start {
				end = start + 1
			}
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
		return out
	}
	if len(values) == 1 {
		for i := range out {
			out[i] = values[0]
		}
		return out
	}
	for i := 0; i < width; i++ {
		pos := float64(i) * float64(len(values)-1) / float64(width-1)
		idx := int(pos)
		if idx >= len(values)-1 {
			out[i] = values[len(values)-1]
			continue
		}
		frac := pos - float64(idx)
		out[i] = values[idx]*(1-frac) + values[idx+1]*frac
	}
	return out
}

func minMax(values []float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if math.IsInf(lo, 1) {
		lo, hi = 0, 0
	}
	return lo, hi
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
