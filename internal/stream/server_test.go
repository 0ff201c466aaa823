package stream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/san-kum/gravsim/internal/nbody"
	"gonum.org/v1/gonum/spatial/r3"
)

func newSim(t *testing.T) *nbody.Simulator {
	t.Helper()
	scene := nbody.Scene{
		Bodies: nbody.BodySet{
			Positions:  []r3.Vec{{X: -1e8}, {X: 1e8}},
			Velocities: []r3.Vec{{Y: -10}, {Y: 10}},
			Masses:     []float64{1e24, 1e24},
			Radii:      []float64{1e6, 1e6},
			Colors:     []nbody.Color{{1, 0, 0, 1}, {0, 0, 1, 1}},
		},
		Particles: &nbody.ParticleSet{
			Positions:  []r3.Vec{{Y: 5e8}},
			Velocities: []r3.Vec{{}},
			Radii:      []float64{1},
			Colors:     []nbody.Color{{1, 1, 1, 1}},
		},
	}
	u, err := nbody.NewUniverse(scene)
	if err != nil {
		t.Fatal(err)
	}
	return nbody.NewSimulator(u)
}

func TestApply(t *testing.T) {
	sim := newSim(t)
	s := NewServer(sim)
	on, off := true, false

	tests := []struct {
		name    string
		ctl     Control
		wantErr error
		check   func() bool
	}{
		{"time scale", Control{Type: ControlTimeScale, Value: 3}, nil, func() bool { return sim.TimeScale() == 3 }},
		{"distance scale", Control{Type: ControlDistanceScale, Value: 5e7}, nil, func() bool { return sim.DistanceScale() == 5e7 }},
		{"negative time scale", Control{Type: ControlTimeScale, Value: -1}, nbody.ErrParameterBounds, func() bool { return sim.TimeScale() == 3 }},
		{"zero distance scale", Control{Type: ControlDistanceScale}, nbody.ErrParameterBounds, func() bool { return sim.DistanceScale() == 5e7 }},
		{"pause", Control{Type: ControlPause, Paused: &on}, nil, s.Paused},
		{"resume", Control{Type: ControlPause, Paused: &off}, nil, func() bool { return !s.Paused() }},
		{"toggle", Control{Type: ControlPause}, nil, s.Paused},
		{"reset resumes", Control{Type: ControlReset}, nil, func() bool { return !s.Paused() && sim.Ticks() == 0 }},
		{"unknown", Control{Type: "warp"}, ErrUnknownControl, func() bool { return true }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Apply(tt.ctl)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("got %v, want %v", err, tt.wantErr)
			}
			if !tt.check() {
				t.Error("state not applied")
			}
		})
	}
}

func TestAdvancePaused(t *testing.T) {
	sim := newSim(t)
	s := NewServer(sim, WithStepsPerFrame(3))

	var snap nbody.Snapshot
	if err := s.advance(&snap); err != nil {
		t.Fatal(err)
	}
	if snap.Tick != 3 {
		t.Errorf("tick = %d, want 3", snap.Tick)
	}

	s.paused.Store(true)
	if err := s.advance(&snap); err != nil {
		t.Fatal(err)
	}
	if sim.Ticks() != 3 {
		t.Errorf("paused server stepped: ticks = %d", sim.Ticks())
	}

	f := s.frame(snap)
	if !f.Paused || f.Bodies != 2 || f.Particles != 1 {
		t.Errorf("frame header %+v", f)
	}
	if len(f.Positions) != 9 || len(f.Colors) != 12 || len(f.Radii) != 3 {
		t.Errorf("frame buffers %d/%d/%d", len(f.Positions), len(f.Colors), len(f.Radii))
	}
}

func readUntil(ctx context.Context, t *testing.T, conn *websocket.Conn, typ string, ok func(Message) bool) Message {
	t.Helper()
	for {
		var msg Message
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			t.Fatalf("waiting for %s: %v", typ, err)
		}
		if msg.Type == typ && (ok == nil || ok(msg)) {
			return msg
		}
	}
}

func TestWebsocketSession(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sim := newSim(t)
	s := NewServer(sim, WithRate(200))
	go s.Run(ctx)

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "done")

	hello := readUntil(ctx, t, conn, TypeHello, nil)
	if _, err := uuid.Parse(hello.Client); err != nil {
		t.Errorf("client id %q: %v", hello.Client, err)
	}

	f := readUntil(ctx, t, conn, TypeFrame, nil).Frame
	if f == nil || f.Bodies != 2 || f.Particles != 1 {
		t.Fatalf("frame %+v", f)
	}

	if err := wsjson.Write(ctx, conn, Control{Type: ControlTimeScale, Value: 7}); err != nil {
		t.Fatal(err)
	}
	readUntil(ctx, t, conn, TypeFrame, func(m Message) bool { return m.Frame.TimeScale == 7 })

	if err := wsjson.Write(ctx, conn, Control{Type: "warp"}); err != nil {
		t.Fatal(err)
	}
	msg := readUntil(ctx, t, conn, TypeError, nil)
	if !strings.Contains(msg.Error, "warp") {
		t.Errorf("error message %q", msg.Error)
	}

	if s.Clients() != 1 {
		t.Errorf("clients = %d, want 1", s.Clients())
	}
}

func TestServeFrame(t *testing.T) {
	s := NewServer(newSim(t))
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/frame")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var f Frame
	if err := json.NewDecoder(resp.Body).Decode(&f); err != nil {
		t.Fatal(err)
	}
	if f.Tick != 0 || f.Bodies != 2 || f.DistanceScale != nbody.DefaultDistanceScale {
		t.Errorf("frame %+v", f)
	}
	if f.Positions[3] != float32(1) {
		t.Errorf("second body x = %v, want 1", f.Positions[3])
	}
}

func TestAdvanceUnstableFrameEncodes(t *testing.T) {
	sim := newSim(t)
	s := NewServer(sim)
	if err := sim.Load(nbody.Scene{Bodies: nbody.BodySet{
		Positions:  []r3.Vec{{}},
		Velocities: []r3.Vec{{X: 1e308}},
		Masses:     []float64{1e24},
		Radii:      []float64{1e6},
		Colors:     []nbody.Color{{1, 1, 1, 1}},
	}}); err != nil {
		t.Fatal(err)
	}
	if err := sim.SetTimeScale(1e300); err != nil {
		t.Fatal(err)
	}

	var snap nbody.Snapshot
	if err := s.advance(&snap); !errors.Is(err, nbody.ErrUnstable) {
		t.Fatalf("advance() = %v, want ErrUnstable", err)
	}
	data, err := json.Marshal(Message{Type: TypeFrame, Frame: s.frame(snap)})
	if err != nil {
		t.Fatalf("frame after a rejected tick does not encode: %v", err)
	}
	if !strings.Contains(string(data), `"bodies":1`) {
		t.Errorf("frame %s", data)
	}
}
