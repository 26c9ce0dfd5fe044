package order

import (
	"fmt"
	"strings"

	"dispatch/internal/pkg/errs"
)

// Priority is the urgency tier of an order. Higher values are served first
// by the batch scheduler.
type Priority int

const (
	// PriorityUnknown is the zero value and never valid.
	PriorityUnknown Priority = iota
	PriorityNormal
	PriorityHigh
	PriorityUrgent
)

func getPriorityStrings() map[Priority]string {
	//nolint:exhaustive // PriorityUnknown has no textual form
	return map[Priority]string{
		PriorityNormal: "normal",
		PriorityHigh:   "high",
		PriorityUrgent: "urgent",
	}
}

// ParsePriority maps "normal", "high" or "urgent" (case-insensitive) to a Priority.
// An empty string is treated as normal.
func ParsePriority(s string) (Priority, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	if normalized == "" {
		return PriorityNormal, nil
	}
	for p, str := range getPriorityStrings() {
		if str == normalized {
			return p, nil
		}
	}
	return PriorityUnknown, errs.NewValueIsInvalidErrorWithCause(
		"priority",
		fmt.Errorf("%q is not one of normal, high, urgent", s),
	)
}

func (p Priority) Validate() error {
	if _, ok := getPriorityStrings()[p]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("priority", fmt.Errorf("%d is not a valid priority", p))
	}
	return nil
}

func (p Priority) String() string {
	if str, ok := getPriorityStrings()[p]; ok {
		return str
	}
	return "unknown"
}
