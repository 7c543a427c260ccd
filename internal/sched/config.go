// internal/sched/config.go

package sched

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	yaml "github.com/goccy/go-yaml"
)

// Config mirrors config.yml
type Config struct {
	FrameIntervalMS int        `yaml:"frame_interval_ms"` // 5 (by default)
	TickMS          int        `yaml:"tick_ms"`           // 1 (by default), virtual clock step
	Workload        []Workload `yaml:"workload"`
}

// Workload describes a batch of identical tasks for the simulator.
type Workload struct {
	Name     string        `yaml:"name"`
	Priority PriorityLevel `yaml:"priority"`
	Count    int           `yaml:"count"`    // tasks to submit
	Chunks   int           `yaml:"chunks"`   // units of work per task
	ChunkMS  int           `yaml:"chunk_ms"` // cost of one unit
}

func defaultConfig() Config {
	return Config{
		FrameIntervalMS: 5,
		TickMS:          1,
	}
}

// Load reads YAML and overrides defaults; empty or missing path = defaults only.
// On any other read or parse failure the defaults are returned with the error.
func Load(path string) (Config, error) {
	cfg := defaultConfig()

	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return defaultConfig(), fmt.Errorf("parse config %s: %w", path, err)
	}

	// sanity clamps
	if cfg.FrameIntervalMS <= 0 {
		cfg.FrameIntervalMS = 5
	}
	if cfg.TickMS <= 0 {
		cfg.TickMS = 1
	}
	for i := range cfg.Workload {
		w := &cfg.Workload[i]
		if w.Name == "" {
			w.Name = fmt.Sprintf("workload-%d", i)
		}
		if w.Count <= 0 {
			w.Count = 1
		}
		if w.Chunks <= 0 {
			w.Chunks = 1
		}
		if w.ChunkMS < 0 {
			w.ChunkMS = 0
		}
	}

	return cfg, nil
}

// FrameInterval returns the configured time slice.
func (c Config) FrameInterval() time.Duration {
	return time.Duration(c.FrameIntervalMS) * time.Millisecond
}

// Tick returns the configured virtual clock step.
func (c Config) Tick() time.Duration {
	return time.Duration(c.TickMS) * time.Millisecond
}
