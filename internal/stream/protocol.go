package stream

import (
	"errors"

	"github.com/san-kum/gravsim/internal/nbody"
)

var ErrUnknownControl = errors.New("unknown control")

// Message types sent by the server.
const (
	TypeHello = "hello"
	TypeFrame = "frame"
	TypeError = "error"
)

// Control types accepted from clients.
const (
	ControlTimeScale     = "time_scale"
	ControlDistanceScale = "distance_scale"
	ControlReset         = "reset"
	ControlPause         = "pause"
)

// Message is the envelope for everything the server sends.
type Message struct {
	Type   string `json:"type"`
	Client string `json:"client,omitempty"`
	Error  string `json:"error,omitempty"`
	Frame  *Frame `json:"frame,omitempty"`
}

// Frame is one snapshot in the flat float32 layout renderers upload
// directly: xyz positions, rgba colors, one radius per entry.
type Frame struct {
	Tick          int       `json:"tick"`
	Elapsed       float64   `json:"elapsed"`
	Bodies        int       `json:"bodies"`
	Particles     int       `json:"particles"`
	Collided      int       `json:"collided"`
	Paused        bool      `json:"paused"`
	TimeScale     float64   `json:"time_scale"`
	DistanceScale float64   `json:"distance_scale"`
	Positions     []float32 `json:"positions"`
	Colors        []float32 `json:"colors"`
	Radii         []float32 `json:"radii"`
}

// Control is a client request. Value carries the new scale for the scale
// controls. Paused sets the pause state for pause; when omitted pause
// toggles.
type Control struct {
	Type   string  `json:"type"`
	Value  float64 `json:"value,omitempty"`
	Paused *bool   `json:"paused,omitempty"`
}

func newFrame(snap nbody.Snapshot) *Frame {
	radii := make([]float32, len(snap.Radii))
	for i, r := range snap.Radii {
		radii[i] = float32(r)
	}
	return &Frame{
		Tick:      snap.Tick,
		Elapsed:   snap.Elapsed,
		Bodies:    snap.Bodies,
		Particles: snap.Particles,
		Positions: snap.Float32(),
		Colors:    snap.ColorsFloat32(),
		Radii:     radii,
	}
}
