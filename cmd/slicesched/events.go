package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"coopsched/internal/sched"
)

// eventPrinter prints scheduler events and optionally mirrors them to CSV.
type eventPrinter struct {
	out    io.Writer
	counts map[sched.EventKind]int

	csvFile   *os.File
	csvWriter *csv.Writer
}

func newEventPrinter(out io.Writer) *eventPrinter {
	return &eventPrinter{
		out:    out,
		counts: make(map[sched.EventKind]int),
	}
}

// EnableCSVLogging opens the given file path for CSV logging of events.
// Must be called before the simulation starts.
func (p *eventPrinter) EnableCSVLogging(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv log: %w", err)
	}
	w := csv.NewWriter(f)

	// write header
	if err := w.Write([]string{"time_ms", "event", "task_id", "priority", "deadline_ms", "timed_out"}); err != nil {
		f.Close()
		return fmt.Errorf("write csv header: %w", err)
	}
	p.csvFile = f
	p.csvWriter = w
	return nil
}

func (p *eventPrinter) OnEvent(ev sched.Event) {
	p.counts[ev.Kind]++

	// an auxiliary function to center the event kind in the output
	center := func(str string, width int) string {
		spaces := (width - len(str)) / 2
		return strings.Repeat(" ", spaces) + str + strings.Repeat(" ", width-(spaces+len(str)))
	}

	fmt.Fprintf(p.out, "%9.3fms [%s] => Task: %04d, priority=%-13s deadline=%.0fms timed_out=%t\n",
		ms(ev.Time),
		center(ev.Kind.String(), 10),
		ev.TaskID,
		ev.Priority,
		ms(ev.Deadline),
		ev.TimedOut,
	)

	if p.csvWriter != nil {
		p.csvWriter.Write([]string{
			strconv.FormatFloat(ms(ev.Time), 'f', 3, 64),
			ev.Kind.String(),
			strconv.FormatUint(uint64(ev.TaskID), 10),
			ev.Priority.String(),
			strconv.FormatFloat(ms(ev.Deadline), 'f', 3, 64),
			strconv.FormatBool(ev.TimedOut),
		})
	}
}

func (p *eventPrinter) count(kind sched.EventKind) int { return p.counts[kind] }

// Close flushes and closes the CSV log, if any.
func (p *eventPrinter) Close() error {
	if p.csvFile == nil {
		return nil
	}
	p.csvWriter.Flush()
	if err := p.csvWriter.Error(); err != nil {
		p.csvFile.Close()
		return err
	}
	return p.csvFile.Close()
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
