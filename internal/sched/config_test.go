package sched_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"coopsched/internal/sched"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := sched.Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.FrameInterval() != 5*time.Millisecond || cfg.Tick() != time.Millisecond {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if len(cfg.Workload) != 0 {
		t.Errorf("expected no workload, got %d entries", len(cfg.Workload))
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	cfg, err := sched.Load(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatalf("expected a missing file to fall back to defaults, got %v", err)
	}
	if cfg.FrameIntervalMS != 5 || cfg.TickMS != 1 || len(cfg.Workload) != 0 {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoad_Unreadable(t *testing.T) {
	t.Parallel()

	// a directory exists but cannot be read as a file
	cfg, err := sched.Load(t.TempDir())
	if err == nil {
		t.Fatal("expected an error for an unreadable path")
	}
	if cfg.FrameIntervalMS != 5 {
		t.Errorf("expected defaults alongside the error, got %+v", cfg)
	}
}

func TestLoad_Workload(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
frame_interval_ms: 8
tick_ms: 2
workload:
  - name: render
    priority: user-blocking
    count: 3
    chunks: 4
    chunk_ms: 2
  - priority: idle
  - name: numbered
    priority: 4
    chunk_ms: -3
`)

	cfg, err := sched.Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.FrameInterval() != 8*time.Millisecond || cfg.Tick() != 2*time.Millisecond {
		t.Errorf("unexpected intervals: %+v", cfg)
	}
	if len(cfg.Workload) != 3 {
		t.Fatalf("expected 3 workloads, got %d", len(cfg.Workload))
	}

	want := []sched.Workload{
		{Name: "render", Priority: sched.UserBlockingPriority, Count: 3, Chunks: 4, ChunkMS: 2},
		{Name: "workload-1", Priority: sched.IdlePriority, Count: 1, Chunks: 1},
		{Name: "numbered", Priority: sched.LowPriority, Count: 1, Chunks: 1},
	}
	for i, w := range want {
		if cfg.Workload[i] != w {
			t.Errorf("workload %d:\n  got:  %+v\n  want: %+v", i, cfg.Workload[i], w)
		}
	}
}

func TestLoad_Clamps(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "frame_interval_ms: -1\ntick_ms: 0\n")
	cfg, err := sched.Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.FrameIntervalMS != 5 || cfg.TickMS != 1 {
		t.Errorf("expected clamped values, got %+v", cfg)
	}
}

func TestLoad_Malformed(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "frame_interval_ms: [not, a, number\n")
	if _, err := sched.Load(path); err == nil {
		t.Error("expected a parse error")
	}
}
