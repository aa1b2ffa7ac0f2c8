package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/verletsim/internal/scene"
	"github.com/san-kum/verletsim/internal/verlet"
)

// view maps the square of half-width extent around the origin onto the
// window, y up.
type view struct {
	cx, cy float32
	scale  float32
}

func newView(w, h int32, extent float64) view {
	return view{
		cx:    float32(w) / 2,
		cy:    float32(h) / 2,
		scale: float32(min(w, h)) / float32(2*extent),
	}
}

func (v view) toScreen(p verlet.Vec2) rl.Vector2 {
	return rl.NewVector2(v.cx+float32(p.X)*v.scale, v.cy-float32(p.Y)*v.scale)
}

func (v view) toWorld(s rl.Vector2) verlet.Vec2 {
	return verlet.V(float64((s.X-v.cx)/v.scale), float64((v.cy-s.Y)/v.scale))
}

func (v view) length(d float64) float32 { return float32(d) * v.scale }

func (a *App) drawScene() {
	w := a.Scene.World()

	a.drawBounds()
	if a.ShowGrid {
		a.drawGrid()
	}

	if l := a.Scene.Links(); l != nil {
		for _, lk := range l.Active() {
			if lk.A >= w.Len() || lk.B >= w.Len() {
				continue
			}
			rl.DrawLineV(a.view.toScreen(w.Particle(lk.A).Position), a.view.toScreen(w.Particle(lk.B).Position), ColTextDim)
		}
	}

	held := -1
	if h, ok := a.Scene.(interface{ Held() (int, bool) }); ok {
		held, _ = h.Held()
	}
	for i, p := range w.Particles() {
		col := ColAccent
		if i == held {
			col = ColSelect
		}
		rl.DrawCircleLinesV(a.view.toScreen(p.Position), a.view.length(p.Radius), col)
	}
}

func (a *App) drawBounds() {
	switch s := a.Scene.(type) {
	case *scene.Cloth:
		rl.DrawCircleLinesV(a.view.toScreen(verlet.V(0, 0)), a.view.length(a.Config.Cloth.Bound), ColGrid)
	case *scene.SoftBody, *scene.Stress:
		box := a.Config.SoftBody.Box
		if _, ok := s.(*scene.Stress); ok {
			box = a.Config.Stress.Box
		}
		tl := a.view.toScreen(verlet.V(-box, box))
		size := a.view.length(2 * box)
		rl.DrawRectangleLinesEx(rl.NewRectangle(tl.X, tl.Y, size, size), 1, ColGrid)
	}
}

// drawGrid outlines the broad phase cells of a stress scene.
func (a *App) drawGrid() {
	st, ok := a.Scene.(*scene.Stress)
	if !ok || st.Grid() == nil {
		return
	}
	g := st.Grid()
	nx, ny := g.Dims()
	ox, oy := g.Origin()
	cs := g.CellSize()

	for i := 0; i <= nx; i++ {
		x := ox + float64(i)*cs
		rl.DrawLineV(a.view.toScreen(verlet.V(x, oy)), a.view.toScreen(verlet.V(x, oy+float64(ny)*cs)), ColGrid)
	}
	for j := 0; j <= ny; j++ {
		y := oy + float64(j)*cs
		rl.DrawLineV(a.view.toScreen(verlet.V(ox, y)), a.view.toScreen(verlet.V(ox+float64(nx)*cs, y)), ColGrid)
	}
}
