package modulation

import (
	"fmt"
	"strings"
)

// SyncDivision is a tempo-synced LFO rate expressed as a note length.
// The plain divisions run from a whole note down to 1/64; each has a triplet
// (T) and dotted (D) variant.
type SyncDivision uint8

const (
	DivWhole SyncDivision = iota
	DivHalf
	DivQuarter
	DivEighth
	DivSixteenth
	DivThirtySecond
	DivSixtyFourth

	DivWholeTriplet
	DivHalfTriplet
	DivQuarterTriplet
	DivEighthTriplet
	DivSixteenthTriplet
	DivThirtySecondTriplet
	DivSixtyFourthTriplet

	DivWholeDotted
	DivHalfDotted
	DivQuarterDotted
	DivEighthDotted
	DivSixteenthDotted
	DivThirtySecondDotted
	DivSixtyFourthDotted
)

var divisionNames = map[SyncDivision]string{
	DivWhole:        "1/1",
	DivHalf:         "1/2",
	DivQuarter:      "1/4",
	DivEighth:       "1/8",
	DivSixteenth:    "1/16",
	DivThirtySecond: "1/32",
	DivSixtyFourth:  "1/64",
}

// baseMultiplier returns the plain note-length fraction of the division,
// with triplet and dotted variants folded back to their plain form.
func (d SyncDivision) base() (plain SyncDivision, factor float64) {
	switch {
	case d >= DivWholeDotted:
		return d - DivWholeDotted, dottedFactor
	case d >= DivWholeTriplet:
		return d - DivWholeTriplet, tripletFactor
	default:
		return d, 1
	}
}

// Multiplier returns the division length as a fraction of a whole note,
// e.g. 1/4 -> 0.25 and 1/4T -> 1/6. The tempo-synced LFO rate is
// (tempo/60) / Multiplier().
func (d SyncDivision) Multiplier() float64 {
	plain, factor := d.base()
	if plain > DivSixtyFourth {
		plain = DivQuarter
	}
	// Whole = 1, half = 1/2, ... sixty-fourth = 1/64.
	return factor / float64(int(1)<<plain)
}

// String returns the short division name, e.g. "1/4T".
func (d SyncDivision) String() string {
	plain, factor := d.base()
	name, ok := divisionNames[plain]
	if !ok {
		return "unknown"
	}
	switch factor {
	case tripletFactor:
		return name + "T"
	case dottedFactor:
		return name + "D"
	default:
		return name
	}
}

// ParseSyncDivision parses a short division name such as "1/8" or "1/4T".
func ParseSyncDivision(s string) (SyncDivision, error) {
	suffix := SyncDivision(0)
	trimmed := s
	switch {
	case strings.HasSuffix(s, "T"):
		suffix = DivWholeTriplet
		trimmed = strings.TrimSuffix(s, "T")
	case strings.HasSuffix(s, "D"):
		suffix = DivWholeDotted
		trimmed = strings.TrimSuffix(s, "D")
	}

	for plain, name := range divisionNames {
		if name == trimmed {
			return plain + suffix, nil
		}
	}
	return DivQuarter, fmt.Errorf("unknown sync division %q", s)
}
