package viz

import (
	"math"
	"strings"

	"github.com/san-kum/verletsim/internal/verlet"
)

const blank = 0x2800

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a Braille dot matrix. It is Width*2 by Height*4 sub-pixels.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

func (c *Canvas) Dots() (int, int) { return c.Width * 2, c.Height * 4 }

// cell returns the character holding sub-pixel (x, y) and its bit.
func (c *Canvas) cell(x, y int) (*rune, rune, bool) {
	if x < 0 || y < 0 {
		return nil, 0, false
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return nil, 0, false
	}
	return &c.Grid[row][col], rune(pixelMap[y%4][x%2]), true
}

// Set lights the sub-pixel at (x, y). Out of range is ignored.
func (c *Canvas) Set(x, y int) {
	if r, bit, ok := c.cell(x, y); ok {
		*r |= bit
	}
}

func (c *Canvas) Unset(x, y int) {
	if r, bit, ok := c.cell(x, y); ok {
		*r &^= bit
	}
}

func (c *Canvas) IsSet(x, y int) bool {
	r, bit, ok := c.cell(x, y)
	return ok && *r&bit != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawCircle outlines a circle with the midpoint algorithm. A radius below
// one sub-pixel draws a single dot.
func (c *Canvas) DrawCircle(cx, cy, r int) {
	if r <= 0 {
		c.Set(cx, cy)
		return
	}
	x, y, d := r, 0, 1-r
	for x >= y {
		for _, p := range [8][2]int{
			{x, y}, {y, x}, {-y, x}, {-x, y},
			{-x, -y}, {-y, -x}, {y, -x}, {x, -y},
		} {
			c.Set(cx+p[0], cy+p[1])
		}
		y++
		if d < 0 {
			d += 2*y + 1
		} else {
			x--
			d += 2*(y-x) + 1
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

// Viewport maps world coordinates onto a canvas: a square of half-width
// Extent around the origin, y up, aspect preserved.
type Viewport struct {
	Extent float64
	W, H   int
}

func NewViewport(c *Canvas, extent float64) Viewport {
	w, h := c.Dots()
	return Viewport{Extent: extent, W: w, H: h}
}

func (v Viewport) scale() float64 {
	return float64(min(v.W, v.H)) / (2 * v.Extent)
}

// ToScreen returns the sub-pixel for a world point.
func (v Viewport) ToScreen(p verlet.Vec2) (int, int) {
	s := v.scale()
	x := float64(v.W)/2 + p.X*s
	y := float64(v.H)/2 - p.Y*s
	return int(math.Round(x)), int(math.Round(y))
}

// ToWorld inverts ToScreen up to rounding.
func (v Viewport) ToWorld(x, y int) verlet.Vec2 {
	s := v.scale()
	return verlet.V((float64(x)-float64(v.W)/2)/s, (float64(v.H)/2-float64(y))/s)
}

// Length converts a world distance to sub-pixels.
func (v Viewport) Length(d float64) int {
	return int(math.Round(d * v.scale()))
}

// DrawWorld outlines every particle of w.
func DrawWorld(c *Canvas, v Viewport, w *verlet.World) {
	for _, p := range w.Particles() {
		x, y := v.ToScreen(p.Position)
		c.DrawCircle(x, y, v.Length(p.Radius))
	}
}

// DrawLinks draws every intact link of l as a line.
func DrawLinks(c *Canvas, v Viewport, w *verlet.World, l *verlet.Links) {
	if l == nil {
		return
	}
	for _, lk := range l.Active() {
		if lk.A >= w.Len() || lk.B >= w.Len() {
			continue
		}
		x0, y0 := v.ToScreen(w.Particle(lk.A).Position)
		x1, y1 := v.ToScreen(w.Particle(lk.B).Position)
		c.DrawLine(x0, y0, x1, y1)
	}
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
