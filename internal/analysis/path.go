package analysis

import (
	"math"
	"strings"

	"github.com/san-kum/verletsim/internal/verlet"
)

// Bounds returns the axis-aligned box around points, padded by pad times its
// size on every side. Degenerate extents are widened to 1.
func Bounds(points []verlet.Vec2, pad float64) (lo, hi verlet.Vec2) {
	lo = verlet.V(math.Inf(1), math.Inf(1))
	hi = verlet.V(math.Inf(-1), math.Inf(-1))
	for _, p := range points {
		lo = verlet.V(math.Min(lo.X, p.X), math.Min(lo.Y, p.Y))
		hi = verlet.V(math.Max(hi.X, p.X), math.Max(hi.Y, p.Y))
	}

	size := hi.Sub(lo)
	if size.X == 0 {
		size.X = 1
	}
	if size.Y == 0 {
		size.Y = 1
	}
	margin := size.Scale(pad)
	return lo.Sub(margin), hi.Add(margin)
}

// PathToASCII plots a trajectory onto a width x height character grid, with
// axes drawn where they cross the visible area.
func PathToASCII(points []verlet.Vec2, width, height int) string {
	if len(points) == 0 || width < 2 || height < 2 {
		return ""
	}

	lo, hi := Bounds(points, 0.1)
	span := hi.Sub(lo)
	col := func(x float64) int { return int((x - lo.X) / span.X * float64(width-1)) }
	row := func(y float64) int { return height - 1 - int((y-lo.Y)/span.Y*float64(height-1)) }

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}

	for _, p := range points {
		r, c := row(p.Y), col(p.X)
		if r >= 0 && r < height && c >= 0 && c < width {
			grid[r][c] = '•'
		}
	}

	if lo.X <= 0 && hi.X >= 0 {
		c := col(0)
		for r := 0; r < height; r++ {
			if grid[r][c] == ' ' {
				grid[r][c] = '│'
			}
		}
	}
	if lo.Y <= 0 && hi.Y >= 0 {
		r := row(0)
		for c := 0; c < width; c++ {
			if grid[r][c] == ' ' {
				grid[r][c] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, line := range grid {
		sb.WriteString(string(line))
		sb.WriteRune('\n')
	}
	return sb.String()
}
