package kernel

import "strings"

// Zone is a coarse geographic partition such as a city district. The empty
// zone means the zone could not be determined.
type Zone string

const UnknownZone Zone = ""

// NewZone trims and upper-cases a zone code so "hyd-central" and
// " HYD-CENTRAL" compare equal.
func NewZone(code string) Zone {
	return Zone(strings.ToUpper(strings.TrimSpace(code)))
}

func (z Zone) IsKnown() bool {
	return z != UnknownZone
}

func (z Zone) String() string {
	return string(z)
}
