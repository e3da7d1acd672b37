// This file contains code to help debugging, and is
// separated in from the rest in order not to litter
// the main code with debugging stuff

package main

import (
	"flag"
	"fmt"
	"math"

	"github.com/524D/mzcompare/internal/feature"
	"github.com/524D/mzcompare/internal/match"
)

var debugFeatures *string // Print debug output for given ground truth feature range

func init() {
	debugFeatures = flag.String("debug", "",
		"Print matching alternative features for ground truth feature `range` e.g. 3:6")
}

// checkDebugRange verifies the syntax of the -debug range before any
// work is done
func checkDebugRange() error {
	if debugFeatures == nil || *debugFeatures == `` {
		return nil
	}
	if _, _, err := parseIntRange(*debugFeatures, 1, math.MaxInt); err != nil {
		return fmt.Errorf("invalid value for parameter 'debug': %w", err)
	}
	return nil
}

// debugLogMatches lists, for each ground truth feature in the debug range,
// the alternative features that match it
func debugLogMatches(gt, alt *feature.Set, res *match.Result) {
	if debugFeatures == nil || *debugFeatures == `` || gt.Len() == 0 {
		return
	}
	debugMin, debugMax, err := parseIntRange(*debugFeatures, 1, gt.Len())
	if err != nil {
		return
	}
	debugMin = max(debugMin, 1)
	debugMax = min(debugMax, gt.Len(), len(res.Rows))
	fmt.Printf("Tolerance %s\n", res.Spec)
	for i := debugMin; i <= debugMax; i++ {
		g := gt.Features[i-1]
		partners := match.Partners(g, alt, res.Spec)
		fmt.Printf("%d mz:%f rt:%f(%fs) matches:%d", g.OriginalIndex, g.Mz,
			g.RTRaw, g.RTSeconds, res.Rows[i-1].Matches)
		for _, j := range partners {
			a := alt.Features[j-1]
			mzErrPPM := 1000000.0 * (a.Mz - g.Mz) / g.Mz
			rtShift := a.RTSeconds - g.RTSeconds
			// m/z error as percentage of the tolerance
			mzRel := 100.0 * math.Abs(mzErrPPM) / res.Spec.MzPPM
			fmt.Printf(" [alt:%d mz:%f(%0.2fppm, %0.1f%%) rtShift:%f]",
				a.OriginalIndex, a.Mz, mzErrPPM, mzRel, rtShift)
		}
		fmt.Printf("\n")
	}
}
