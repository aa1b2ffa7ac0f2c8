package scene

import (
	"fmt"

	"github.com/san-kum/verletsim/internal/verlet"
)

// BuildRope spawns count particles from start, each offset from the last,
// and links every consecutive pair. It returns the index of the first one.
func BuildRope(w *verlet.World, l *verlet.Links, count int, start, offset verlet.Vec2, radius float64) (int, error) {
	first := w.Len()
	pos := start
	for i := 0; i < count; i++ {
		idx, err := w.Spawn(pos.X, pos.Y, radius)
		if err != nil {
			return first, fmt.Errorf("rope particle %d: %w", i, err)
		}
		if i != 0 {
			if _, err := l.Add(idx-1, idx); err != nil {
				return first, fmt.Errorf("rope link %d: %w", i, err)
			}
		}
		pos = pos.Add(offset)
	}
	return first, nil
}

// BuildCloth spawns an xcount by ycount lattice from start with the given
// separation along both axes. Particle (ix, iy) lands at first+ix*ycount+iy
// and is linked to its predecessor on each axis.
func BuildCloth(w *verlet.World, l *verlet.Links, xcount, ycount int, start verlet.Vec2, separation, radius float64) (int, error) {
	first := w.Len()
	for ix := 0; ix < xcount; ix++ {
		for iy := 0; iy < ycount; iy++ {
			idx, err := w.Spawn(start.X+float64(iy)*separation, start.Y+float64(ix)*separation, radius)
			if err != nil {
				return first, fmt.Errorf("cloth particle (%d,%d): %w", ix, iy, err)
			}
			if ix != 0 {
				if _, err := l.Add(idx, idx-ycount); err != nil {
					return first, err
				}
			}
			if iy != 0 {
				if _, err := l.Add(idx, idx-1); err != nil {
					return first, err
				}
			}
		}
	}
	return first, nil
}

// ClothLinkCount is the number of links BuildCloth adds.
func ClothLinkCount(xcount, ycount int) int {
	return (xcount-1)*ycount + xcount*(ycount-1)
}
