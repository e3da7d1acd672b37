package feature

import (
	"math"
	"strconv"
	"strings"

	"github.com/524D/mzcompare/internal/table"

	"gonum.org/v1/gonum/floats"
)

// Retention times are assumed to be in minutes when all values in a
// set are below this limit (in the table's own unit)
const rtMinutesLimit = 1000.0

const secondsPerMinute = 60.0

// Normalize builds a feature set from the mz and rt columns of t.
// Row order is kept, OriginalIndex is the 1-based row number.
// With UnitAuto, the decision to convert minutes to seconds is taken
// once for the whole set, based on its maximum raw retention time.
func Normalize(t *table.Table, mzCol, rtCol string, unit RTUnit) (*Set, error) {
	mzCells, ok := t.Column(mzCol)
	if !ok {
		return nil, &ColumnNotFoundError{Table: t.Name, Column: mzCol, Available: t.Header}
	}
	rtCells, ok := t.Column(rtCol)
	if !ok {
		return nil, &ColumnNotFoundError{Table: t.Name, Column: rtCol, Available: t.Header}
	}

	mz, mzValid := parseColumn(mzCells, positive)
	rtRaw, rtValid := parseColumn(rtCells, nil)
	if len(mzCells) > 0 && mzValid == 0 {
		return nil, &InvalidValueError{Table: t.Name, Column: mzCol}
	}
	if len(rtCells) > 0 && rtValid == 0 {
		return nil, &InvalidValueError{Table: t.Name, Column: rtCol}
	}

	set := &Set{
		Name:     t.Name,
		Features: make([]Feature, len(mz)),
		RTScale:  rtScale(rtRaw, unit),
	}
	rtSec := make([]float64, len(rtRaw))
	copy(rtSec, rtRaw)
	floats.Scale(set.RTScale, rtSec)

	for i := range mz {
		set.Features[i] = Feature{
			OriginalIndex: i + 1,
			Mz:            mz[i],
			RTRaw:         rtRaw[i],
			RTSeconds:     rtSec[i],
		}
	}
	return set, nil
}

func positive(v float64) bool { return v > 0 }

// parseColumn converts cells to numbers. Cells that can't be parsed, or
// whose value is rejected by accept (when not nil), become NaN.
// Also returns the number of valid values.
func parseColumn(cells []string, accept func(float64) bool) ([]float64, int) {
	vals := make([]float64, len(cells))
	valid := 0
	for i, c := range cells {
		v, err := strconv.ParseFloat(strings.TrimSpace(c), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) ||
			(accept != nil && !accept(v)) {
			vals[i] = math.NaN()
			continue
		}
		vals[i] = v
		valid++
	}
	return vals, valid
}

// rtScale returns the factor that converts the raw retention times
// to seconds
func rtScale(rtRaw []float64, unit RTUnit) float64 {
	switch unit {
	case UnitMinutes:
		return secondsPerMinute
	case UnitSeconds:
		return 1
	}
	maxRT := math.Inf(-1)
	for _, rt := range rtRaw {
		if !math.IsNaN(rt) && rt > maxRT {
			maxRT = rt
		}
	}
	// maxRT stays -Inf for an empty set
	if maxRT < rtMinutesLimit {
		return secondsPerMinute
	}
	return 1
}
