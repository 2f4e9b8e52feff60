package telemetry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/molecules/config"
)

// Output file names inside a run directory.
const (
	TelemetryFile = "telemetry.csv"
	PerfFile      = "perf.csv"
	ConfigFile    = "config.yaml"
	RunFile       = "run.yaml"
)

// RunInfo identifies the run a set of CSV files came from. The config file
// alone cannot tell two runs apart: the seed may come from a flag or the clock
// and the worker count may be resolved from the CPU count.
type RunInfo struct {
	Seed          int64     `yaml:"seed"`
	Molecules     int       `yaml:"molecules"`
	Substeps      int       `yaml:"substeps"`
	Workers       int       `yaml:"workers"`
	CollisionMode string    `yaml:"collision_mode"`
	Headless      bool      `yaml:"headless"`
	Started       time.Time `yaml:"started"`
}

// csvStream appends records of one type to a CSV file, writing the header
// with the first record only.
type csvStream[T any] struct {
	name   string
	f      *os.File
	header bool
}

func createStream[T any](dir, name string) (*csvStream[T], error) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	return &csvStream[T]{name: name, f: f}, nil
}

func (s *csvStream[T]) append(rec T) error {
	records := []T{rec}
	var err error
	if s.header {
		err = gocsv.MarshalWithoutHeaders(records, s.f)
	} else {
		err = gocsv.Marshal(records, s.f)
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", s.name, err)
	}
	s.header = true
	return nil
}

func (s *csvStream[T]) close() error {
	if s == nil {
		return nil
	}
	return s.f.Close()
}

// OutputManager writes one fluid run to a directory: a telemetry row per
// stats window, a perf row per window, the resolved config and the run record.
// A nil manager discards everything.
type OutputManager struct {
	dir       string
	telemetry *csvStream[WindowStats]
	perf      *csvStream[PerfStatsCSV]
}

// NewOutputManager creates dir and the CSV files inside it.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	tel, err := createStream[WindowStats](dir, TelemetryFile)
	if err != nil {
		return nil, err
	}
	perf, err := createStream[PerfStatsCSV](dir, PerfFile)
	if err != nil {
		tel.close()
		return nil, err
	}
	return &OutputManager{dir: dir, telemetry: tel, perf: perf}, nil
}

// WriteConfig saves the resolved configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, ConfigFile))
}

// WriteRun saves the run record next to the config.
func (om *OutputManager) WriteRun(info RunInfo) error {
	if om == nil {
		return nil
	}
	data, err := yaml.Marshal(info)
	if err != nil {
		return fmt.Errorf("marshaling run info: %w", err)
	}
	if err := os.WriteFile(filepath.Join(om.dir, RunFile), data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", RunFile, err)
	}
	return nil
}

// LoadRun reads a run record written by WriteRun.
func LoadRun(dir string) (RunInfo, error) {
	var info RunInfo
	data, err := os.ReadFile(filepath.Join(dir, RunFile))
	if err != nil {
		return info, fmt.Errorf("reading %s: %w", RunFile, err)
	}
	if err := yaml.Unmarshal(data, &info); err != nil {
		return info, fmt.Errorf("parsing %s: %w", RunFile, err)
	}
	return info, nil
}

// WriteTelemetry appends a stats window to telemetry.csv.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}
	return om.telemetry.append(stats)
}

// WritePerf appends solver timing for the window ending at frame to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, frame int64) error {
	if om == nil {
		return nil
	}
	return om.perf.append(stats.ToCSV(frame))
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close closes both CSV files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	return errors.Join(om.telemetry.close(), om.perf.close())
}
