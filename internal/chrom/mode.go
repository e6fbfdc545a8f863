package chrom

import (
	"fmt"
	"strings"

	"gadock/internal/errs"
)

// Mode controls how a degree of freedom may vary.
type Mode int

const (
	// Fixed values never change and contribute nothing to the genotype.
	Fixed Mode = iota
	// Tethered values stay within a maximum deviation of the initial value.
	Tethered
	// Free values are unconstrained.
	Free
)

func (m Mode) String() string {
	switch m {
	case Fixed:
		return "FIXED"
	case Tethered:
		return "TETHERED"
	case Free:
		return "FREE"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode converts a case-insensitive mode name.
func ParseMode(s string) (Mode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "FIXED":
		return Fixed, nil
	case "TETHERED":
		return Tethered, nil
	case "FREE":
		return Free, nil
	default:
		return Fixed, fmt.Errorf("unknown mode %q: %w", s, errs.ErrBadArgument)
	}
}
