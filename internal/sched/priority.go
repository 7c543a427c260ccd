// internal/sched/priority.go

package sched

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// PriorityLevel selects the timeout bucket used to compute a task's deadline.
type PriorityLevel int

const (
	NoPriority PriorityLevel = iota
	ImmediatePriority
	UserBlockingPriority
	NormalPriority
	LowPriority
	IdlePriority
)

// Fixed timeout table. Immediate is already expired on submission and Idle
// effectively never expires.
const (
	ImmediatePriorityTimeout    = -1 * time.Millisecond
	UserBlockingPriorityTimeout = 250 * time.Millisecond
	NormalPriorityTimeout       = 5000 * time.Millisecond
	LowPriorityTimeout          = 10000 * time.Millisecond
	IdlePriorityTimeout         = 1073741823 * time.Millisecond
)

var priorityNames = map[PriorityLevel]string{
	NoPriority:           "none",
	ImmediatePriority:    "immediate",
	UserBlockingPriority: "user-blocking",
	NormalPriority:       "normal",
	LowPriority:          "low",
	IdlePriority:         "idle",
}

// Timeout returns the deadline offset for p. NoPriority and values outside
// the enumeration fall back to the Normal bucket.
func (p PriorityLevel) Timeout() time.Duration {
	switch p {
	case ImmediatePriority:
		return ImmediatePriorityTimeout
	case UserBlockingPriority:
		return UserBlockingPriorityTimeout
	case LowPriority:
		return LowPriorityTimeout
	case IdlePriority:
		return IdlePriorityTimeout
	default:
		return NormalPriorityTimeout
	}
}

// IsValid reports whether p is one of the declared levels.
func (p PriorityLevel) IsValid() bool {
	_, ok := priorityNames[p]
	return ok
}

func (p PriorityLevel) String() string {
	if name, ok := priorityNames[p]; ok {
		return name
	}
	return "priority(" + strconv.Itoa(int(p)) + ")"
}

// ParsePriority accepts a level name ("user-blocking") or its number ("2").
// Anything unrecognised yields NoPriority.
func ParsePriority(s string) PriorityLevel {
	s = strings.ToLower(strings.TrimSpace(s))
	for p, name := range priorityNames {
		if name == s {
			return p
		}
	}
	if n, err := strconv.Atoi(s); err == nil && PriorityLevel(n).IsValid() {
		return PriorityLevel(n)
	}
	return NoPriority
}

// UnmarshalYAML accepts either a level name or its number.
func (p *PriorityLevel) UnmarshalYAML(unmarshal func(any) error) error {
	var raw any
	if err := unmarshal(&raw); err != nil {
		return err
	}
	*p = ParsePriority(fmt.Sprint(raw))
	return nil
}
