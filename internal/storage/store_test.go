package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/nbody"
	"gonum.org/v1/gonum/spatial/r3"
)

func testResult() *experiment.Result {
	frame := func(tick int, x float64) nbody.Snapshot {
		return nbody.Snapshot{
			Positions: []r3.Vec{{X: x, Y: 1.5}, {X: -x, Z: 0.1}, {}},
			Colors:    []nbody.Color{{1, 0, 0, 1}, {0, 1, 0, 1}, {}},
			Radii:     []float64{0.06, 0.01, 0},
			Bodies:    2,
			Particles: 1,
			Tick:      tick,
			Elapsed:   float64(tick) * 0.01,
		}
	}
	return &experiment.Result{
		Frames:     []nbody.Snapshot{frame(0, 1), frame(10, 0.123456789012)},
		Times:      []float64{0, 0.1},
		StepsTaken: 10,
		Elapsed:    0.1,
		Wall:       3 * time.Millisecond,
		Metrics:    map[string]float64{"energy_drift": 1e-6},
		Bodies:     2,
		Particles:  1,
	}
}

var testInfo = RunInfo{Name: "binary", Solver: "graph", Timestep: 0.01, TimeScale: 1, Every: 10}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	result := testResult()
	runID, err := st.Save(testInfo, result)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Name != "binary" || meta.Solver != "graph" {
		t.Errorf("unexpected run info: %+v", meta.RunInfo)
	}
	if meta.Ticks != 10 || meta.Frames != 2 {
		t.Errorf("expected 10 ticks and 2 frames, got %d and %d", meta.Ticks, meta.Frames)
	}
	if meta.Metrics["energy_drift"] != 1e-6 {
		t.Errorf("expected energy_drift 1e-6, got %v", meta.Metrics["energy_drift"])
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		t.Fatalf("load frames failed: %v", err)
	}
	if !reflect.DeepEqual(frames, result.Frames) {
		t.Errorf("frames did not round-trip:\n got %+v\nwant %+v", frames, result.Frames)
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	for i := 0; i < 2; i++ {
		if _, err := st.Save(testInfo, testResult()); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(st.baseDir, "not-a-run"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
}

func TestStoreList_MissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "absent"))
	runs, err := st.List()
	if err != nil || len(runs) != 0 {
		t.Errorf("expected empty list, got %v, %v", runs, err)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(testInfo, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	if _, err := os.Stat(filepath.Join(runDir, "metadata.json")); os.IsNotExist(err) {
		t.Error("metadata.json not created")
	}
	if _, err := os.Stat(filepath.Join(runDir, "frames.csv")); os.IsNotExist(err) {
		t.Error("frames.csv not created")
	}
}

func TestStoreLoad_InvalidID(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("../etc"); err == nil {
		t.Error("expected error for non-uuid run id")
	}
	if _, err := st.LoadFrames("../etc"); err == nil {
		t.Error("expected error for non-uuid run id")
	}
}

func TestExport(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}
	runID, err := st.Save(testInfo, testResult())
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := st.Export(runID, &buf); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if data.Run.ID != runID {
		t.Errorf("expected run id %s, got %s", runID, data.Run.ID)
	}
	if len(data.Frames) != 2 || len(data.Frames[1].Positions) != 3 {
		t.Fatalf("unexpected frames: %+v", data.Frames)
	}
	if data.Frames[0].Positions[0] != [3]float64{1, 1.5, 0} {
		t.Errorf("unexpected first position %v", data.Frames[0].Positions[0])
	}
}
