package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/verletsim/internal/sim"
)

type ExportData struct {
	Run    *RunMetadata  `json:"run"`
	Frames []ExportFrame `json:"frames"`
}

type ExportFrame struct {
	Tick      int          `json:"tick"`
	Particles [][3]float64 `json:"particles"`
}

// ExportJSON writes a run and its frames as one document. Particles are
// encoded as [x, y, radius] triples.
func ExportJSON(w io.Writer, meta *RunMetadata, frames []sim.Frame) error {
	data := ExportData{
		Run:    meta,
		Frames: make([]ExportFrame, len(frames)),
	}

	for i, fr := range frames {
		ef := ExportFrame{Tick: fr.Tick, Particles: make([][3]float64, len(fr.Particles))}
		for j, p := range fr.Particles {
			ef.Particles[j] = [3]float64{p.Position.X, p.Position.Y, p.Radius}
		}
		data.Frames[i] = ef
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
