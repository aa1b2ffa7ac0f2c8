package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/verletsim/internal/analysis"
	"github.com/san-kum/verletsim/internal/sim"
	"github.com/san-kum/verletsim/internal/verlet"
	"github.com/san-kum/verletsim/internal/viz"
)

const background = "#0a0a0a"

func header(sb *strings.Builder, w, h float64) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, w, h, w, h, background)
}

// FrameToSVG draws one recorded frame as circles in a size x size image
// showing the square of half-width extent around the origin, y up.
func FrameToSVG(frame sim.Frame, extent float64, size int) string {
	if extent <= 0 || size <= 0 {
		return ""
	}
	s := float64(size)
	scale := s / (2 * extent)

	var sb strings.Builder
	header(&sb, s, s)
	sb.WriteString(`<g fill="none" stroke="#00ff88" stroke-width="1">` + "\n")
	for _, p := range frame.Particles {
		cx := s/2 + p.Position.X*scale
		cy := s/2 - p.Position.Y*scale
		fmt.Fprintf(&sb, `<circle cx="%.2f" cy="%.2f" r="%.2f"/>`+"\n", cx, cy, p.Radius*scale)
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// PathToSVG draws a particle trajectory as a polyline fitted to the image.
func PathToSVG(points []verlet.Vec2, width, height int, stroke string) string {
	if len(points) < 2 || width <= 0 || height <= 0 {
		return ""
	}
	lo, hi := analysis.Bounds(points, 0.1)
	span := hi.Sub(lo)
	w, h := float64(width), float64(height)

	var sb strings.Builder
	header(&sb, w, h)
	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="`, stroke)
	for i, p := range points {
		x := (p.X - lo.X) / span.X * w
		y := h - (p.Y-lo.Y)/span.Y*h
		cmd := " L"
		if i == 0 {
			cmd = "M"
		}
		fmt.Fprintf(&sb, "%s%.1f,%.1f", cmd, x, y)
	}
	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

// CanvasToSVG renders every set Braille dot of canvas as a circle, scale
// pixels per dot.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}
	dw, dh := canvas.Dots()

	var sb strings.Builder
	header(&sb, float64(dw)*scale, float64(dh)*scale)
	sb.WriteString(`<g fill="#00ff00">` + "\n")
	for y := 0; y < dh; y++ {
		for x := 0; x < dw; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := (float64(x) + 0.5) * scale
			cy := (float64(y) + 0.5) * scale
			fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f"/>`+"\n", cx, cy, scale*0.4)
		}
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}
