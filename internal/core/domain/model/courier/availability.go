package courier

import (
	"fmt"
	"strings"

	"fooddelivery/internal/pkg/errs"
)

// Availability is a courier's self-reported working state.
type Availability int

const (
	UnknownAvailability Availability = iota
	Offline
	Available
	Busy
)

func getAvailabilityStrings() map[Availability]string {
	return map[Availability]string{
		Offline:   "Offline",
		Available: "Available",
		Busy:      "Busy",
	}
}

// ParseAvailability accepts names case-insensitively.
func ParseAvailability(s string) (Availability, error) {
	for a, name := range getAvailabilityStrings() {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return a, nil
		}
	}
	return UnknownAvailability, errs.NewValueIsInvalidErrorWithCause("availability", fmt.Errorf("%q is not a valid availability", s))
}

func (a Availability) String() string {
	if s, ok := getAvailabilityStrings()[a]; ok {
		return s
	}
	return "Unknown"
}

func (a Availability) Validate() error {
	if _, ok := getAvailabilityStrings()[a]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("availability", fmt.Errorf("%d is not a valid availability", a))
	}
	return nil
}
