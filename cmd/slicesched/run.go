package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/urfave/cli"

	"coopsched/internal/host"
	"coopsched/internal/job"
	"coopsched/internal/sched"
)

func run(c *cli.Context) error {
	logger, err := newLogger(c.String("log-level"))
	if err != nil {
		return err
	}

	cfg, err := sched.Load(c.String("config"))
	if err != nil {
		return err
	}
	logger.Info("loaded config",
		"frame_interval", cfg.FrameInterval(),
		"tick", cfg.Tick(),
		"workloads", len(cfg.Workload),
	)

	printer := newEventPrinter(os.Stdout)
	if path := c.String("csv"); path != "" {
		if err := printer.EnableCSVLogging(path); err != nil {
			return err
		}
	}
	defer printer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	stats, err := simulate(ctx, cfg, printer, logger)
	if err != nil {
		if len(stats.pending) > 0 {
			return fmt.Errorf("%w: %d tasks still pending %v", err, len(stats.pending), stats.pending)
		}
		return err
	}
	fmt.Fprintf(os.Stdout, "\n%d tasks, %d slices, %d finished, %d failed, virtual time %v\n",
		stats.tasks, stats.slices, printer.count(sched.EventFinish), printer.count(sched.EventFail), stats.elapsed)
	for i, w := range cfg.Workload {
		fmt.Fprintf(os.Stdout, "  %-20s %3d tasks, %4d invocations\n", w.Name, w.Count, stats.invocations[i])
	}
	return nil
}

type simStats struct {
	tasks       int
	slices      int
	elapsed     time.Duration
	invocations []int          // callback invocations per workload, continuations included
	pending     []sched.TaskID // ids left queued when the run was interrupted
}

// simulate submits the workload and drives the loop on a virtual clock
// until the queue drains. Every host turn costs one tick, standing in for
// whatever else the host does between slices.
func simulate(ctx context.Context, cfg sched.Config, sink sched.EventSink, logger *slog.Logger) (simStats, error) {
	clock := sched.NewTickClock(cfg.Tick())
	loop := host.NewLoop()
	s := sched.New(loop,
		sched.WithClock(clock),
		sched.WithFrameInterval(cfg.FrameInterval()),
		sched.WithLogger(logger),
		sched.WithEventSink(sink),
	)

	stats := simStats{invocations: make([]int, len(cfg.Workload))}
	for wi, w := range cfg.Workload {
		cost := time.Duration(w.ChunkMS) * time.Millisecond
		for i := 0; i < w.Count; i++ {
			cb := job.Counted(job.ChunkedWork(s, w.Chunks, cost, clock.Advance), &stats.invocations[wi])
			if _, err := s.Schedule(w.Priority, cb); err != nil {
				return stats, fmt.Errorf("schedule %s: %w", w.Name, err)
			}
			stats.tasks++
		}
		logger.Debug("submitted workload", "name", w.Name, "priority", w.Priority, "count", w.Count)
	}

	for {
		if err := ctx.Err(); err != nil {
			stats.pending = s.Pending()
			return stats, err
		}
		ran, err := loop.Step()
		if err != nil {
			logger.Warn("slice failed", "err", err)
		}
		if !ran {
			break
		}
		clock.Tick()
	}

	stats.slices = int(clock.Count())
	stats.elapsed = clock.Now()
	return stats, nil
}
