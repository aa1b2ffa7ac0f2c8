package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/verletsim/internal/config"
	"github.com/san-kum/verletsim/internal/sim"
	"github.com/san-kum/verletsim/internal/verlet"
)

var ErrMalformedFrames = errors.New("storage: malformed frames file")

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID          string             `json:"id"`
	Scene       string             `json:"scene"`
	Timestamp   time.Time          `json:"timestamp"`
	Seed        int64              `json:"seed"`
	Dt          float64            `json:"dt"`
	Ticks       int                `json:"ticks"`
	RecordEvery int                `json:"record_every"`
	Frames      int                `json:"frames"`
	Particles   int                `json:"particles"`
	ElapsedMs   float64            `json:"elapsed_ms"`
	Metrics     map[string]float64 `json:"metrics"`
	Config      *config.Config     `json:"config,omitempty"`
}

func (s *Store) Save(cfg *config.Config, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", result.Scene, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Scene:       result.Scene,
		Timestamp:   now,
		Seed:        cfg.Seed,
		Dt:          cfg.Dt,
		Ticks:       result.Ticks,
		RecordEvery: cfg.RecordEvery,
		Frames:      len(result.Frames),
		ElapsedMs:   float64(result.Elapsed.Microseconds()) / 1000,
		Metrics:     result.Metrics,
		Config:      cfg,
	}
	if n := len(result.Frames); n > 0 {
		meta.Particles = len(result.Frames[n-1].Particles)
	}

	if err := writeMetadata(filepath.Join(runDir, metadataFile), &meta); err != nil {
		return "", err
	}
	if err := writeFrames(filepath.Join(runDir, framesFile), result.Frames); err != nil {
		return "", err
	}
	return runID, nil
}

func writeMetadata(path string, meta *RunMetadata) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func writeFrames(path string, frames []sim.Frame) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"tick", "particle", "x", "y", "radius"}); err != nil {
		return err
	}

	for _, fr := range frames {
		tick := strconv.Itoa(fr.Tick)
		for i, p := range fr.Particles {
			row := []string{
				tick,
				strconv.Itoa(i),
				strconv.FormatFloat(p.Position.X, 'g', -1, 64),
				strconv.FormatFloat(p.Position.Y, 'g', -1, 64),
				strconv.FormatFloat(p.Radius, 'g', -1, 64),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}

// List returns every readable run, newest first. Directories without valid
// metadata are skipped.
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadFrames reads frames.csv back. Rows sharing a tick form one frame;
// particle indices must run 0..n-1 within it.
func (s *Store) LoadFrames(runID string) ([]sim.Frame, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	frames := make([]sim.Frame, 0)
	for line, record := range records {
		if line == 0 {
			continue
		}
		if len(record) != 5 {
			return nil, fmt.Errorf("%w: line %d has %d fields", ErrMalformedFrames, line+1, len(record))
		}

		var vals [5]float64
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedFrames, line+1, err)
			}
			vals[j] = v
		}

		tick, idx := int(vals[0]), int(vals[1])
		if n := len(frames); n == 0 || frames[n-1].Tick != tick {
			frames = append(frames, sim.Frame{Tick: tick})
		}
		fr := &frames[len(frames)-1]
		if idx != len(fr.Particles) {
			return nil, fmt.Errorf("%w: line %d: particle %d out of order", ErrMalformedFrames, line+1, idx)
		}
		fr.Particles = append(fr.Particles, verlet.NewParticle(vals[2], vals[3], vals[4]))
	}

	return frames, nil
}
