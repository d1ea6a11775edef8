package stats

import (
	"errors"
	"strings"
)

// ErrNoRegistrations is returned when the retention denominator is empty.
var ErrNoRegistrations = errors.New("retention: no registration identifiers (division by zero)")

// Retention is the share of registrants that reached the individual survey.
type Retention struct {
	// Rate is 100 * distinct individual ids / distinct registration ids.
	Rate          float64 `json:"rate" yaml:"rate"`
	Individuals   int     `json:"individuals" yaml:"individuals"`
	Registrations int     `json:"registrations" yaml:"registrations"`
	// Matched counts individual ids that also appear among registrations.
	// It is informational; Rate is a ratio of set sizes.
	Matched int `json:"matched" yaml:"matched"`
}

// ComputeRetention divides the number of distinct identifiers in the individual
// table by the number of distinct identifiers in the registration table.
// Empty identifiers are ignored.
func ComputeRetention(individualIDs, registrationIDs []string) (Retention, error) {
	ind := distinct(individualIDs)
	reg := distinct(registrationIDs)
	if len(reg) == 0 {
		return Retention{Individuals: len(ind)}, ErrNoRegistrations
	}
	matched := 0
	for id := range ind {
		if _, ok := reg[id]; ok {
			matched++
		}
	}
	return Retention{
		Rate:          100 * float64(len(ind)) / float64(len(reg)),
		Individuals:   len(ind),
		Registrations: len(reg),
		Matched:       matched,
	}, nil
}

func distinct(ids []string) map[string]struct{} {
	out := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		out[id] = struct{}{}
	}
	return out
}
