package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/gravsim/internal/nbody"
)

type ExportFrame struct {
	Tick      int          `json:"tick"`
	Time      float64      `json:"time"`
	Bodies    int          `json:"bodies"`
	Particles int          `json:"particles"`
	Positions [][3]float64 `json:"positions"`
	Radii     []float64    `json:"radii"`
}

type ExportData struct {
	Run    RunMetadata   `json:"run"`
	Frames []ExportFrame `json:"frames"`
}

// ExportJSON writes metadata and frames as a single JSON document.
func ExportJSON(w io.Writer, meta RunMetadata, frames []nbody.Snapshot) error {
	data := ExportData{
		Run:    meta,
		Frames: make([]ExportFrame, len(frames)),
	}
	for i, snap := range frames {
		f := ExportFrame{
			Tick:      snap.Tick,
			Time:      snap.Elapsed,
			Bodies:    snap.Bodies,
			Particles: snap.Particles,
			Positions: make([][3]float64, len(snap.Positions)),
			Radii:     snap.Radii,
		}
		for j, p := range snap.Positions {
			f.Positions[j] = [3]float64{p.X, p.Y, p.Z}
		}
		data.Frames[i] = f
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// Export writes a stored run as JSON.
func (s *Store) Export(runID string, w io.Writer) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	frames, err := s.LoadFrames(runID)
	if err != nil {
		return err
	}
	return ExportJSON(w, *meta, frames)
}
