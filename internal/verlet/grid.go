package verlet

import (
	"fmt"
	"math"
	"slices"
)

// DefaultMaxPerCell bounds how many particle indices a single grid cell holds.
const DefaultMaxPerCell = 256

// AccessGrid is a uniform spatial hash over a fixed world rectangle used as a
// collision broad-phase. It is rebuilt from scratch on every
// ResolveBroadPhase and owns only index lists, never particle data.
//
// Each cell holds at most MaxPerCell indices. Further insertions into a full
// cell are dropped without error and counted by Dropped; a particle dropped
// from every cell near its partner is not resolved against it that pass. Size cells so that local
// density stays under the cap.
type AccessGrid struct {
	originX, originY float64
	cellSize         float64
	cellsX, cellsY   int
	maxPerCell       int

	counts []int
	slots  []int

	dropped      int
	totalDropped int

	seen       []int
	candidates []int
}

type GridOption func(*AccessGrid)

func WithMaxPerCell(n int) GridOption {
	return func(g *AccessGrid) {
		if n > 0 {
			g.maxPerCell = n
		}
	}
}

func NewAccessGrid(cellsX, cellsY int, originX, originY, cellSize float64, opts ...GridOption) (*AccessGrid, error) {
	if cellsX <= 0 || cellsY <= 0 || !(cellSize > 0) || math.IsInf(cellSize, 0) {
		return nil, fmt.Errorf("%w: %dx%d cells of size %v", ErrInvalidGrid, cellsX, cellsY, cellSize)
	}
	g := &AccessGrid{
		originX:    originX,
		originY:    originY,
		cellSize:   cellSize,
		cellsX:     cellsX,
		cellsY:     cellsY,
		maxPerCell: DefaultMaxPerCell,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.counts = make([]int, cellsX*cellsY)
	g.slots = make([]int, cellsX*cellsY*g.maxPerCell)
	return g, nil
}

// GridCovering builds a grid whose cells cover the rectangle [minX,maxX]x[minY,maxY].
func GridCovering(minX, maxX, minY, maxY, cellSize float64, opts ...GridOption) (*AccessGrid, error) {
	if !(cellSize > 0) || maxX <= minX || maxY <= minY {
		return nil, fmt.Errorf("%w: rect [%v,%v]x[%v,%v] cell %v", ErrInvalidGrid, minX, maxX, minY, maxY, cellSize)
	}
	cx := int(math.Ceil((maxX - minX) / cellSize))
	cy := int(math.Ceil((maxY - minY) / cellSize))
	return NewAccessGrid(cx, cy, minX, minY, cellSize, opts...)
}

// SuggestCellSize returns twice the largest particle diameter.
func SuggestCellSize(maxRadius float64) float64 {
	return 4 * maxRadius
}

func (g *AccessGrid) Dims() (int, int)  { return g.cellsX, g.cellsY }
func (g *AccessGrid) CellSize() float64 { return g.cellSize }

func (g *AccessGrid) Origin() (float64, float64) { return g.originX, g.originY }

// Dropped counts insertions lost to full cells during the last Populate.
func (g *AccessGrid) Dropped() int { return g.dropped }

// TotalDropped counts overflowed insertions over the grid's lifetime.
func (g *AccessGrid) TotalDropped() int { return g.totalDropped }

func (g *AccessGrid) Clear() {
	clear(g.counts)
	g.dropped = 0
}

// CellOf returns the cell containing pos and whether it lies inside the grid.
func (g *AccessGrid) CellOf(pos Vec2) (int, int, bool) {
	cx, cy := g.coord(pos.X, g.originX, g.cellsX), g.coord(pos.Y, g.originY, g.cellsY)
	return cx, cy, cx >= 0 && cx < g.cellsX && cy >= 0 && cy < g.cellsY
}

// Cell returns the indices registered in cell (cx, cy). The slice aliases
// grid memory and is only valid until the next Clear.
func (g *AccessGrid) Cell(cx, cy int) []int {
	if cx < 0 || cx >= g.cellsX || cy < 0 || cy >= g.cellsY {
		return nil
	}
	c := cy*g.cellsX + cx
	base := c * g.maxPerCell
	return g.slots[base : base+g.counts[c]]
}

// coord maps a world coordinate to a cell coordinate, saturating at -1 and
// n so that far-away or non-finite positions never overflow int conversion.
func (g *AccessGrid) coord(v, origin float64, n int) int {
	f := math.Floor((v - origin) / g.cellSize)
	switch {
	case math.IsNaN(f), f < -1:
		return -1
	case f > float64(n):
		return n
	}
	return int(f)
}

// span returns the inclusive, in-bounds cell range overlapped by a circle.
func (g *AccessGrid) span(pos Vec2, r float64) (x0, x1, y0, y1 int, ok bool) {
	if !pos.IsValid() {
		return 0, 0, 0, 0, false
	}
	x0 = max(g.coord(pos.X-r, g.originX, g.cellsX), 0)
	x1 = min(g.coord(pos.X+r, g.originX, g.cellsX), g.cellsX-1)
	y0 = max(g.coord(pos.Y-r, g.originY, g.cellsY), 0)
	y1 = min(g.coord(pos.Y+r, g.originY, g.cellsY), g.cellsY-1)
	return x0, x1, y0, y1, x0 <= x1 && y0 <= y1
}

func (g *AccessGrid) append(cx, cy, idx int) {
	c := cy*g.cellsX + cx
	n := g.counts[c]
	if n >= g.maxPerCell {
		g.dropped++
		g.totalDropped++
		return
	}
	g.slots[c*g.maxPerCell+n] = idx
	g.counts[c] = n + 1
}

// Populate registers every particle in each in-bounds cell its bounding
// circle overlaps. A particle straddling a cell border is registered in all
// of those cells.
func (g *AccessGrid) Populate(w *World) {
	for i := range w.particles {
		p := &w.particles[i]
		x0, x1, y0, y1, ok := g.span(p.Position, p.Radius)
		if !ok {
			continue
		}
		for cy := y0; cy <= y1; cy++ {
			for cx := x0; cx <= x1; cx++ {
				g.append(cx, cy, i)
			}
		}
	}
}

// ResolveBroadPhase rebuilds the grid from w and resolves overlaps using the
// same pair rule and index order as World.ResolveCollisions. Candidates for a
// particle come from the cells its circle overlaps plus a one-cell halo, so
// pairs pushed into contact earlier in the same pass are still found.
// Particles entirely outside the grid collide with nothing.
func (g *AccessGrid) ResolveBroadPhase(w *World) {
	g.Clear()
	g.Populate(w)

	n := len(w.particles)
	if cap(g.seen) < n {
		g.seen = make([]int, n)
	}
	g.seen = g.seen[:n]
	clear(g.seen)

	for i := 0; i < n; i++ {
		p := &w.particles[i]
		x0, x1, y0, y1, ok := g.span(p.Position, p.Radius)
		if !ok {
			continue
		}

		mark := i + 1
		g.candidates = g.candidates[:0]
		for cy := y0 - 1; cy <= y1+1; cy++ {
			for cx := x0 - 1; cx <= x1+1; cx++ {
				for _, e := range g.Cell(cx, cy) {
					if e < i && g.seen[e] != mark {
						g.seen[e] = mark
						g.candidates = append(g.candidates, e)
					}
				}
			}
		}

		slices.Sort(g.candidates)
		for _, e := range g.candidates {
			w.resolvePair(i, e)
		}
	}
}
