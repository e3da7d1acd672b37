package match

import (
	"errors"
	"fmt"
	"math"
)

// Spec is one tolerance configuration
type Spec struct {
	MzPPM     float64 // relative m/z tolerance in ppm
	RTSeconds float64 // absolute retention time tolerance in seconds
}

var ErrInvalidTolerance = errors.New("invalid tolerance")

// Validate checks that the m/z tolerance is positive and the
// retention time tolerance is non-negative
func (s Spec) Validate() error {
	if !(s.MzPPM > 0) || math.IsInf(s.MzPPM, 0) {
		return fmt.Errorf("%w: m/z tolerance %v ppm must be positive", ErrInvalidTolerance, s.MzPPM)
	}
	if !(s.RTSeconds >= 0) || math.IsInf(s.RTSeconds, 0) {
		return fmt.Errorf("%w: rt tolerance %v s must not be negative", ErrInvalidTolerance, s.RTSeconds)
	}
	return nil
}

func (s Spec) String() string {
	return fmt.Sprintf("%gppm/%gs", s.MzPPM, s.RTSeconds)
}

// Product returns all combinations of m/z and rt tolerances. The m/z
// tolerance varies slowest. Input order and duplicates are kept.
func Product(mzTols, rtTols []float64) []Spec {
	specs := make([]Spec, 0, len(mzTols)*len(rtTols))
	for _, mzTol := range mzTols {
		for _, rtTol := range rtTols {
			specs = append(specs, Spec{MzPPM: mzTol, RTSeconds: rtTol})
		}
	}
	return specs
}
