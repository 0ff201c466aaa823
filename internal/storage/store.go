// Package storage records runs on disk: one directory per run holding
// metadata.json and frames.csv.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/nbody"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
)

var framesHeader = []string{"tick", "time", "index", "kind", "x", "y", "z", "radius", "r", "g", "b", "a"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunInfo describes how a run was configured.
type RunInfo struct {
	Name           string  `json:"name"`
	Solver         string  `json:"solver"`
	G              float64 `json:"g"`
	Timestep       float64 `json:"timestep"`
	TimeScale      float64 `json:"time_scale"`
	DistanceScale  float64 `json:"distance_scale"`
	SignConvention string  `json:"sign_convention"`
	Every          int     `json:"every"`
}

type RunMetadata struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	RunInfo
	Ticks     int                `json:"ticks"`
	Elapsed   float64            `json:"elapsed"`
	WallMS    float64            `json:"wall_ms"`
	Bodies    int                `json:"bodies"`
	Particles int                `json:"particles"`
	Frames    int                `json:"frames"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes a run under a fresh UUID and returns the id.
func (s *Store) Save(info RunInfo, result *experiment.Result) (string, error) {
	runID := uuid.NewString()
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Timestamp: time.Now(),
		RunInfo:   info,
		Ticks:     result.StepsTaken,
		Elapsed:   result.Elapsed,
		WallMS:    float64(result.Wall.Microseconds()) / 1000,
		Bodies:    result.Bodies,
		Particles: result.Particles,
		Frames:    len(result.Frames),
		Metrics:   result.Metrics,
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeFrames(filepath.Join(runDir, framesFile), result.Frames); err != nil {
		return "", err
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeFrames(path string, frames []nbody.Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(framesHeader); err != nil {
		return err
	}

	ff := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	for _, snap := range frames {
		tick := strconv.Itoa(snap.Tick)
		elapsed := ff(snap.Elapsed)
		for i, p := range snap.Positions {
			kind := "body"
			if i >= snap.Bodies {
				kind = "particle"
			}
			c := snap.Colors[i]
			row := []string{
				tick, elapsed, strconv.Itoa(i), kind,
				ff(p.X), ff(p.Y), ff(p.Z), ff(snap.Radii[i]),
				ff(c[0]), ff(c[1]), ff(c[2]), ff(c[3]),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) runDir(runID string) (string, error) {
	if _, err := uuid.Parse(runID); err != nil {
		return "", fmt.Errorf("invalid run id %q: %w", runID, err)
	}
	return filepath.Join(s.baseDir, runID), nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	dir, err := s.runDir(runID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse metadata: %w", err)
	}
	return &meta, nil
}

// LoadFrames reads the recorded frames back into snapshots.
func (s *Store) LoadFrames(runID string) ([]nbody.Snapshot, error) {
	dir, err := s.runDir(runID)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(filepath.Join(dir, framesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(framesHeader)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read frames: %w", err)
	}
	if len(records) < 2 {
		return []nbody.Snapshot{}, nil
	}

	var frames []nbody.Snapshot
	for line, rec := range records[1:] {
		tick, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, fmt.Errorf("frames.csv line %d: %w", line+2, err)
		}
		var v [9]float64
		for k, field := range []int{1, 4, 5, 6, 7, 8, 9, 10, 11} {
			if v[k], err = strconv.ParseFloat(rec[field], 64); err != nil {
				return nil, fmt.Errorf("frames.csv line %d: %w", line+2, err)
			}
		}

		if len(frames) == 0 || frames[len(frames)-1].Tick != tick {
			frames = append(frames, nbody.Snapshot{Tick: tick, Elapsed: v[0]})
		}
		snap := &frames[len(frames)-1]
		snap.Positions = append(snap.Positions, r3.Vec{X: v[1], Y: v[2], Z: v[3]})
		snap.Radii = append(snap.Radii, v[4])
		snap.Colors = append(snap.Colors, nbody.Color{v[5], v[6], v[7], v[8]})
		if rec[3] == "body" {
			snap.Bodies++
		} else {
			snap.Particles++
		}
	}
	return frames, nil
}
