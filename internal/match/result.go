package match

import (
	"sort"

	"github.com/524D/mzcompare/internal/feature"

	"gonum.org/v1/gonum/stat"
)

// Row is the outcome for one ground truth feature
type Row struct {
	OriginalIndex int
	Mz            float64
	RTRaw         float64
	Matches       int
}

// Summary holds the statistics of one comparison
type Summary struct {
	MzTol             float64
	RTTol             float64
	GTTotal           int
	AltTotal          int
	GTMatchedCount    int  // ground truth features with at least one match
	AltMatchedCount   int  // alternative features matched by at least one ground truth feature
	MedianMatches     float64
	MeanMatches       float64
	MostMatched       *Row // nil when there are no ground truth features
	OverlapPercentage float64
}

// Result is the comparison of two feature sets for one tolerance
// configuration. Rows are in ground truth order.
type Result struct {
	Spec    Spec
	Rows    []Row
	Summary Summary
}

// Compare evaluates one tolerance configuration
func Compare(gt, alt *feature.Set, spec Spec, strategy Strategy) *Result {
	rel := Relate(gt, alt, spec, strategy)
	res := &Result{
		Spec: spec,
		Rows: make([]Row, gt.Len()),
	}
	for i, g := range gt.Features {
		res.Rows[i] = Row{
			OriginalIndex: g.OriginalIndex,
			Mz:            g.Mz,
			RTRaw:         g.RTRaw,
			Matches:       rel.Counts[i],
		}
	}
	res.Summary = summarize(spec, res.Rows, rel)
	return res
}

func summarize(spec Spec, rows []Row, rel Relation) Summary {
	s := Summary{
		MzTol:    spec.MzPPM,
		RTTol:    spec.RTSeconds,
		GTTotal:  len(rel.Counts),
		AltTotal: len(rel.AltMatched),
	}
	for _, c := range rel.Counts {
		if c > 0 {
			s.GTMatchedCount++
		}
	}
	for _, m := range rel.AltMatched {
		if m {
			s.AltMatchedCount++
		}
	}
	s.MedianMatches = median(rel.Counts)
	if len(rel.Counts) > 0 {
		counts := make([]float64, len(rel.Counts))
		for i, c := range rel.Counts {
			counts[i] = float64(c)
		}
		s.MeanMatches = stat.Mean(counts, nil)
		s.OverlapPercentage = 100 * float64(s.GTMatchedCount) / float64(s.GTTotal)
	}
	// First occurrence wins on ties
	for i := range rows {
		if s.MostMatched == nil || rows[i].Matches > s.MostMatched.Matches {
			r := rows[i]
			s.MostMatched = &r
		}
	}
	return s
}

// median returns the median of the counts, the mean of the two middle
// values for an even number of counts, and 0 for no counts
func median(counts []int) float64 {
	n := len(counts)
	if n == 0 {
		return 0
	}
	sorted := make([]int, n)
	copy(sorted, counts)
	sort.Ints(sorted)
	if n%2 == 1 {
		return float64(sorted[n/2])
	}
	return float64(sorted[n/2-1]+sorted[n/2]) / 2
}
