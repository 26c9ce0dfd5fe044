package assignment

import (
	"fmt"
	"strings"

	"dispatch/internal/pkg/errs"
)

// Algorithm selects how the winning candidate is chosen.
type Algorithm string

const (
	// Nearest picks the candidate closest to the pickup and ignores every other score.
	Nearest Algorithm = "nearest"
	// LoadBalancing picks the candidate with the fewest active deliveries,
	// breaking ties by final score.
	LoadBalancing Algorithm = "load_balancing"
	// SmartRouting picks the highest weighted final score. It is the default.
	SmartRouting Algorithm = "smart_routing"
	// MLBased is reserved for a learned ranking model. Not yet implemented:
	// it ranks exactly like SmartRouting.
	MLBased Algorithm = "ml_based"
)

// Algorithms lists every supported selector.
func Algorithms() []Algorithm {
	return []Algorithm{Nearest, LoadBalancing, SmartRouting, MLBased}
}

// ParseAlgorithm maps a selector string to an Algorithm. The empty string
// selects SmartRouting.
func ParseAlgorithm(s string) (Algorithm, error) {
	a := Algorithm(strings.ToLower(strings.TrimSpace(s)))
	if a == "" {
		return SmartRouting, nil
	}
	for _, known := range Algorithms() {
		if a == known {
			return a, nil
		}
	}
	return "", errs.NewValueIsInvalidErrorWithCause("algorithm", fmt.Errorf("%q is not supported", s))
}

// Effective is the algorithm whose ranking is actually applied.
func (a Algorithm) Effective() Algorithm {
	if a == MLBased {
		return SmartRouting
	}
	return a
}

func (a Algorithm) String() string {
	return string(a)
}
