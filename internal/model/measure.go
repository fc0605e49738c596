package model

import "fmt"

// Measure is the physical quantity a unit measures. Units sharing a measure
// are mutually convertible through their conversion factors; units across
// measures never are.
type Measure int

const (
	MeasureGeneric Measure = iota
	MeasureLength
	MeasureMass
	MeasureVolume
)

func (m Measure) String() string {
	switch m {
	case MeasureGeneric:
		return "generic"
	case MeasureLength:
		return "length"
	case MeasureMass:
		return "mass"
	case MeasureVolume:
		return "volume"
	default:
		return fmt.Sprintf("Measure(%d)", int(m))
	}
}

// ParseMeasure parses a measure name as used on the command line.
func ParseMeasure(s string) (Measure, error) {
	switch s {
	case "generic":
		return MeasureGeneric, nil
	case "length":
		return MeasureLength, nil
	case "mass":
		return MeasureMass, nil
	case "volume":
		return MeasureVolume, nil
	default:
		return 0, fmt.Errorf("unknown measure %q", s)
	}
}
