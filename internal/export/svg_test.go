package export

import (
	"strings"
	"testing"

	"github.com/san-kum/gravsim/internal/nbody"
	"github.com/san-kum/gravsim/internal/viz"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestCanvasToSVG(t *testing.T) {
	if CanvasToSVG(nil, 4, "#fff") != "" {
		t.Error("nil canvas should export nothing")
	}

	c := viz.NewCanvas(4, 2)
	c.Set(0, 0)
	c.Set(7, 7)
	out := CanvasToSVG(c, 4, "#00ff00")
	if got := strings.Count(out, "<circle"); got != 2 {
		t.Errorf("got %d circles, want 2", got)
	}
	if !strings.Contains(out, `width="32" height="32"`) {
		t.Error("size not derived from dot grid")
	}
	if !strings.Contains(out, `cx="2.0" cy="2.0"`) || !strings.Contains(out, `cx="30.0" cy="30.0"`) {
		t.Errorf("dot positions wrong:\n%s", out)
	}
}

func frame(bodyX float64, particleAlpha float64) nbody.Snapshot {
	return nbody.Snapshot{
		Positions: []r3.Vec{{X: bodyX}, {X: 1, Y: 1}},
		Colors:    []nbody.Color{{1, 0, 0, 1}, {1, 1, 1, particleAlpha}},
		Radii:     []float64{0.1, 0},
		Bodies:    1,
		Particles: 1,
	}
}

func TestTrajectoryToSVG(t *testing.T) {
	if TrajectoryToSVG(nil, 100, 100) != "" {
		t.Error("no frames should export nothing")
	}

	out := TrajectoryToSVG([]nbody.Snapshot{frame(0, 1), frame(1, 1), frame(2, 1)}, 200, 200)
	if got := strings.Count(out, "<path"); got != 1 {
		t.Errorf("got %d paths, want 1", got)
	}
	if got := strings.Count(out, " L"); got != 2 {
		t.Errorf("got %d segments, want 2", got)
	}
	if !strings.Contains(out, `stroke="#ff0000"`) {
		t.Error("body path not in body color")
	}
	if got := strings.Count(out, "<circle"); got != 2 {
		t.Errorf("got %d circles, want body and particle", got)
	}

	out = TrajectoryToSVG([]nbody.Snapshot{frame(0, 0)}, 200, 200)
	if strings.Contains(out, "<path") {
		t.Error("single frame should not draw a path")
	}
	if got := strings.Count(out, "<circle"); got != 1 {
		t.Errorf("collided particle exported: %d circles", got)
	}
}
