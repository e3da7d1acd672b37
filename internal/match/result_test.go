package match

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMedian(t *testing.T) {
	tests := []struct {
		counts []int
		want   float64
	}{
		{nil, 0},
		{[]int{3}, 3},
		{[]int{5, 1, 3}, 3},
		{[]int{4, 1, 2, 0}, 1.5},
		{[]int{0, 0, 1, 1}, 0.5},
		{[]int{7, 7}, 7},
	}
	for _, tc := range tests {
		if got := median(tc.counts); got != tc.want {
			t.Errorf("median(%v) = %v, expected %v", tc.counts, got, tc.want)
		}
	}
	counts := []int{3, 1, 2}
	median(counts)
	if diff := cmp.Diff([]int{3, 1, 2}, counts); diff != "" {
		t.Errorf("median modified its input (-want +got):\n%s", diff)
	}
}

func TestCompareScenario(t *testing.T) {
	gt, alt := scenarioSets()
	res := Compare(gt, alt, Spec{MzPPM: 5, RTSeconds: 6}, Windowed)
	want := Summary{
		MzTol:             5,
		RTTol:             6,
		GTTotal:           1,
		AltTotal:          1,
		GTMatchedCount:    1,
		AltMatchedCount:   1,
		MedianMatches:     1,
		MeanMatches:       1,
		MostMatched:       &Row{OriginalIndex: 1, Mz: 100, RTRaw: 10, Matches: 1},
		OverlapPercentage: 100,
	}
	if diff := cmp.Diff(want, res.Summary); diff != "" {
		t.Errorf("Summary mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]Row{{OriginalIndex: 1, Mz: 100, RTRaw: 10, Matches: 1}}, res.Rows); diff != "" {
		t.Errorf("Rows mismatch (-want +got):\n%s", diff)
	}
}

func TestCompareEmptyAlternative(t *testing.T) {
	gt := newSet("gt", 100, 600, 200, 700, 300, 800)
	res := Compare(gt, newSet("alt"), Spec{MzPPM: 10, RTSeconds: 10}, Dense)
	s := res.Summary
	if s.AltTotal != 0 || s.GTTotal != 3 || s.GTMatchedCount != 0 || s.AltMatchedCount != 0 {
		t.Errorf("Unexpected totals %+v", s)
	}
	if s.MedianMatches != 0 || s.MeanMatches != 0 || s.OverlapPercentage != 0 {
		t.Errorf("Unexpected statistics %+v", s)
	}
	// All counts are 0, the first feature is the most matched one
	if s.MostMatched == nil || s.MostMatched.OriginalIndex != 1 {
		t.Errorf("MostMatched is %+v, expected feature 1", s.MostMatched)
	}
	for _, r := range res.Rows {
		if r.Matches != 0 {
			t.Errorf("Row %d has %d matches, expected 0", r.OriginalIndex, r.Matches)
		}
	}
}

func TestCompareEmptyGroundTruth(t *testing.T) {
	res := Compare(newSet("gt"), newSet("alt", 100, 600), Spec{MzPPM: 10, RTSeconds: 10}, Windowed)
	want := Summary{MzTol: 10, RTTol: 10, AltTotal: 1}
	if diff := cmp.Diff(want, res.Summary); diff != "" {
		t.Errorf("Summary mismatch (-want +got):\n%s", diff)
	}
	if len(res.Rows) != 0 {
		t.Errorf("Expected no rows, got %d", len(res.Rows))
	}
}

func TestCompareStatistics(t *testing.T) {
	// Features 2 and 3 both match two alternatives; the first one wins
	gt := newSet("gt",
		100, 10,
		200, 20,
		300, 30,
		400, 40)
	alt := newSet("alt",
		100, 10,
		200, 20, 200, 21,
		300, 30, 300, 29,
		900, 90)
	res := Compare(gt, alt, Spec{MzPPM: 10, RTSeconds: 1}, Windowed)
	want := Summary{
		MzTol:             10,
		RTTol:             1,
		GTTotal:           4,
		AltTotal:          6,
		GTMatchedCount:    3,
		AltMatchedCount:   5,
		MedianMatches:     1.5,
		MeanMatches:       1.25,
		MostMatched:       &Row{OriginalIndex: 2, Mz: 200, RTRaw: 20, Matches: 2},
		OverlapPercentage: 75,
	}
	if diff := cmp.Diff(want, res.Summary); diff != "" {
		t.Errorf("Summary mismatch (-want +got):\n%s", diff)
	}
}
