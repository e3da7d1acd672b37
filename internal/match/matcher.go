package match

import (
	"errors"
	"math"
	"sort"
	"strings"

	"github.com/524D/mzcompare/internal/feature"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Strategy selects the algorithm that computes the match relation.
// All strategies produce identical results.
type Strategy int

const (
	Windowed Strategy = iota // sort by m/z and search a window per feature
	Dense                    // evaluate all pairs in a matrix
)

// ParseStrategy converts a strategy name given by the user
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(s) {
	case ``, `windowed`:
		return Windowed, nil
	case `dense`:
		return Dense, nil
	}
	return Windowed, errors.New("unknown match strategy: " + s)
}

// Relation summarizes the match relation between a ground truth
// and an alternative feature set
type Relation struct {
	Counts     []int  // number of matches for each ground truth feature
	AltMatched []bool // true if the alternative feature matches any ground truth feature
}

func newRelation(n, m int) Relation {
	return Relation{
		Counts:     make([]int, n),
		AltMatched: make([]bool, m),
	}
}

// mzWindow returns the m/z tolerance around the ground truth m/z
func mzWindow(gtMz float64, spec Spec) float64 {
	return gtMz * (spec.MzPPM / 1000000.0)
}

// Matches reports whether alternative feature a is within tolerance of
// ground truth feature g. The m/z window is derived from g only.
// Missing values never match.
func Matches(g, a feature.Feature, spec Spec) bool {
	return math.Abs(g.Mz-a.Mz) <= mzWindow(g.Mz, spec) &&
		math.Abs(g.RTSeconds-a.RTSeconds) <= spec.RTSeconds
}

// Relate computes the match relation with the given strategy
func Relate(gt, alt *feature.Set, spec Spec, strategy Strategy) Relation {
	if strategy == Dense {
		return relateDense(gt, alt, spec)
	}
	return relateWindowed(gt, alt, spec)
}

// relateDense materializes the full n x m relation. It is the
// reference implementation for relateWindowed.
func relateDense(gt, alt *feature.Set, spec Spec) Relation {
	n, m := gt.Len(), alt.Len()
	rel := newRelation(n, m)
	// mat.NewDense panics on zero dimensions
	if n == 0 || m == 0 {
		return rel
	}
	d := mat.NewDense(n, m, nil)
	for i, g := range gt.Features {
		for j, a := range alt.Features {
			if Matches(g, a, spec) {
				d.Set(i, j, 1)
			}
		}
	}
	for i := 0; i < n; i++ {
		rel.Counts[i] = int(floats.Sum(d.RawRowView(i)))
	}
	for j := 0; j < m; j++ {
		rel.AltMatched[j] = mat.Sum(d.ColView(j)) > 0
	}
	return rel
}

type mzIndex struct {
	mz  float64
	idx int // index into the alternative features
}

// sortedByMz returns the alternative features that can match anything,
// ordered by m/z
func sortedByMz(alt *feature.Set) []mzIndex {
	s := make([]mzIndex, 0, alt.Len())
	for j, a := range alt.Features {
		if math.IsNaN(a.Mz) || math.IsNaN(a.RTSeconds) {
			continue
		}
		s = append(s, mzIndex{mz: a.Mz, idx: j})
	}
	sort.Slice(s, func(i, j int) bool { return s[i].mz < s[j].mz })
	return s
}

// relateWindowed finds candidates by binary search on m/z. The search
// window is padded so rounding can't exclude a pair; the final decision
// is always made by Matches.
func relateWindowed(gt, alt *feature.Set, spec Spec) Relation {
	rel := newRelation(gt.Len(), alt.Len())
	if gt.Len() == 0 || alt.Len() == 0 {
		return rel
	}
	byMz := sortedByMz(alt)
	for i, g := range gt.Features {
		w := mzWindow(g.Mz, spec)
		if !(w >= 0) || math.IsNaN(g.RTSeconds) {
			continue
		}
		pad := w + 1e-9*math.Abs(g.Mz)
		k1 := sort.Search(len(byMz), func(k int) bool { return byMz[k].mz >= g.Mz-pad })
		for k := k1; k < len(byMz) && byMz[k].mz <= g.Mz+pad; k++ {
			j := byMz[k].idx
			if Matches(g, alt.Features[j], spec) {
				rel.Counts[i]++
				rel.AltMatched[j] = true
			}
		}
	}
	return rel
}

// Partners returns the original indices of the alternative features that
// match g, in source order
func Partners(g feature.Feature, alt *feature.Set, spec Spec) []int {
	var p []int
	for _, a := range alt.Features {
		if Matches(g, a, spec) {
			p = append(p, a.OriginalIndex)
		}
	}
	return p
}
