package match

import (
	"context"
	"runtime"
	"time"

	"github.com/524D/mzcompare/internal/feature"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SweepOptions controls the evaluation of multiple tolerance configurations
type SweepOptions struct {
	Strategy Strategy
	Workers  int         // maximum concurrent evaluations, <= 0 means number of CPUs
	Logger   *zap.Logger // nil disables logging
}

// Sweep compares gt and alt for every combination of mzTols and rtTols.
// Results are returned in the order of Product(mzTols, rtTols). Each
// configuration is evaluated independently; the feature sets are only read.
// All tolerances are validated before any evaluation starts.
func Sweep(ctx context.Context, gt, alt *feature.Set, mzTols, rtTols []float64,
	opts SweepOptions) ([]*Result, error) {
	specs := Product(mzTols, rtTols)
	for _, spec := range specs {
		if err := spec.Validate(); err != nil {
			return nil, err
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]*Result, len(specs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for k, spec := range specs {
		k, spec := k, spec
		g.Go(func() error {
			// Don't start new work after cancellation
			if err := gctx.Err(); err != nil {
				return err
			}
			t := time.Now()
			res := Compare(gt, alt, spec, opts.Strategy)
			results[k] = res
			logger.Debug("Tolerance evaluated",
				zap.Float64("mz_tol", spec.MzPPM),
				zap.Float64("rt_tol", spec.RTSeconds),
				zap.Int("gt_matched", res.Summary.GTMatchedCount),
				zap.Int("alt_matched", res.Summary.AltMatchedCount),
				zap.Duration("elapsed", time.Since(t)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
