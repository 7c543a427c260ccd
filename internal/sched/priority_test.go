package sched_test

import (
	"testing"
	"time"

	"coopsched/internal/sched"
)

func TestPriorityLevel_Timeout(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		level sched.PriorityLevel
		want  time.Duration
	}{
		"immediate is already expired": {sched.ImmediatePriority, -time.Millisecond},
		"user blocking":                {sched.UserBlockingPriority, 250 * time.Millisecond},
		"normal":                       {sched.NormalPriority, 5000 * time.Millisecond},
		"low":                          {sched.LowPriority, 10000 * time.Millisecond},
		"idle never expires":           {sched.IdlePriority, 1073741823 * time.Millisecond},
		"no priority falls back":       {sched.NoPriority, 5000 * time.Millisecond},
		"out of range falls back":      {sched.PriorityLevel(42), 5000 * time.Millisecond},
	}
	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if got := tt.level.Timeout(); got != tt.want {
				t.Errorf("mismatch: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParsePriority(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input string
		want  sched.PriorityLevel
	}{
		"by name":             {"user-blocking", sched.UserBlockingPriority},
		"case insensitive":    {" Idle ", sched.IdlePriority},
		"by number":           {"4", sched.LowPriority},
		"none":                {"none", sched.NoPriority},
		"unknown name":        {"urgent", sched.NoPriority},
		"number out of range": {"9", sched.NoPriority},
	}
	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := sched.ParsePriority(tt.input)
			if got != tt.want {
				t.Errorf("mismatch: got %s, want %s", got, tt.want)
			}
			if got.IsValid() && sched.ParsePriority(got.String()) != got {
				t.Errorf("String() of %s does not parse back", got)
			}
		})
	}
}

func TestPriorityLevel_StringUnknown(t *testing.T) {
	t.Parallel()

	if got := sched.PriorityLevel(42).String(); got != "priority(42)" {
		t.Errorf("unexpected string: %q", got)
	}
}
