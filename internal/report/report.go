package report

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/524D/mzcompare/internal/match"
)

// Format of the summary file, if it ever changes we should still be able
// to parse output from old versions
const FormatVersion = "1.0"

// Artifact kinds, used as the final part of output file names
const (
	KindMatchesTable = "matches_table.csv"
	KindVennDensity  = "venn_density.png"
	KindSummary      = "summary.json"
)

var matchesHeader = []string{"original_index", "mz", "rt_raw", "matches"}

// WriteMatchesTable writes the per-feature match counts as CSV
func WriteMatchesTable(w io.Writer, res *match.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(matchesHeader); err != nil {
		return err
	}
	rec := make([]string, len(matchesHeader))
	for _, r := range res.Rows {
		rec[0] = strconv.Itoa(r.OriginalIndex)
		rec[1] = formatFloat(r.Mz)
		rec[2] = formatFloat(r.RTRaw)
		rec[3] = strconv.Itoa(r.Matches)
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// formatFloat writes the shortest representation that reads back
// to the same value; missing values are left empty
func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ``
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

type rowJSON struct {
	OriginalIndex int      `json:"original_index"`
	Mz            *float64 `json:"mz"`
	RTRaw         *float64 `json:"rt_raw"`
	Matches       int      `json:"matches"`
}

type summaryJSON struct {
	MzTol             float64  `json:"mz_tol"`
	RTTol             float64  `json:"rt_tol"`
	GTTotal           int      `json:"gt_total"`
	AltTotal          int      `json:"alt_total"`
	GTMatchedCount    int      `json:"gt_matched_count"`
	AltMatchedCount   int      `json:"alt_matched_count"`
	MedianMatches     float64  `json:"median_matches"`
	MeanMatches       float64  `json:"mean_matches"`
	MostMatched       *rowJSON `json:"most_matched"`
	OverlapPercentage float64  `json:"overlap_percentage"`
}

type summariesJSON struct {
	FormatVersion string
	Summaries     []summaryJSON
}

// JSON can't hold NaN, missing values become null
func nullable(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

func toSummaryJSON(s match.Summary) summaryJSON {
	js := summaryJSON{
		MzTol:             s.MzTol,
		RTTol:             s.RTTol,
		GTTotal:           s.GTTotal,
		AltTotal:          s.AltTotal,
		GTMatchedCount:    s.GTMatchedCount,
		AltMatchedCount:   s.AltMatchedCount,
		MedianMatches:     s.MedianMatches,
		MeanMatches:       s.MeanMatches,
		OverlapPercentage: s.OverlapPercentage,
	}
	if s.MostMatched != nil {
		js.MostMatched = &rowJSON{
			OriginalIndex: s.MostMatched.OriginalIndex,
			Mz:            nullable(s.MostMatched.Mz),
			RTRaw:         nullable(s.MostMatched.RTRaw),
			Matches:       s.MostMatched.Matches,
		}
	}
	return js
}

// WriteSummaries writes the summaries of all results as one JSON document
func WriteSummaries(w io.Writer, results []*match.Result) error {
	doc := summariesJSON{
		FormatVersion: FormatVersion,
		Summaries:     make([]summaryJSON, len(results)),
	}
	for i, res := range results {
		doc.Summaries[i] = toSummaryJSON(res.Summary)
	}
	e := json.NewEncoder(w)
	e.SetIndent(``, `  `) // Make output easier to read for humans
	return e.Encode(doc)
}

// FormatTol renders a tolerance for use in a file name, the decimal
// point is replaced by 'p' (2.5 -> 2p5)
func FormatTol(v float64) string {
	return strings.ReplaceAll(strconv.FormatFloat(v, 'f', -1, 64), `.`, `p`)
}

// ArtifactName returns the file name of an output artifact for one
// tolerance configuration
func ArtifactName(prefix string, spec match.Spec, kind string) string {
	return prefix + FormatTol(spec.MzPPM) + `_` + FormatTol(spec.RTSeconds) + `_` + kind
}

// DefaultPrefix derives the artifact prefix from the input file names
func DefaultPrefix(gtPath, altPath string) string {
	return stem(gtPath) + `_` + stem(altPath) + `_`
}

// stem returns the base name without compression and format extensions
func stem(path string) string {
	base := filepath.Base(path)
	if strings.EqualFold(filepath.Ext(base), ".gz") {
		base = base[:len(base)-len(filepath.Ext(base))]
	}
	return base[:len(base)-len(filepath.Ext(base))]
}
