package match

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
)

func TestProduct(t *testing.T) {
	got := Product([]float64{5, 10, 5}, []float64{6, 12})
	want := []Spec{
		{5, 6}, {5, 12},
		{10, 6}, {10, 12},
		{5, 6}, {5, 12},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Product mismatch (-want +got):\n%s", diff)
	}
	if n := len(Product(nil, []float64{1})); n != 0 {
		t.Errorf("Product with empty list has %d elements", n)
	}
}

func TestSpecValidate(t *testing.T) {
	valid := []Spec{{5, 0}, {0.1, 6}}
	for _, s := range valid {
		if err := s.Validate(); err != nil {
			t.Errorf("%v: unexpected error %v", s, err)
		}
	}
	invalid := []Spec{{0, 6}, {-5, 6}, {5, -1}, {math.NaN(), 6}, {5, math.NaN()}, {math.Inf(1), 6}}
	for _, s := range invalid {
		if err := s.Validate(); !errors.Is(err, ErrInvalidTolerance) {
			t.Errorf("%v: expected ErrInvalidTolerance, got %v", s, err)
		}
	}
}

func TestSweep(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	gt := randomSet(r, "gt", 150)
	alt := randomSet(r, "alt", 150)
	mzTols := []float64{5, 10}
	rtTols := []float64{6, 12}

	results, err := Sweep(context.Background(), gt, alt, mzTols, rtTols,
		SweepOptions{Workers: 3, Logger: zap.NewNop()})
	if err != nil {
		t.Fatalf("Sweep: error return %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("Sweep returned %d results, expected 4", len(results))
	}
	for k, spec := range Product(mzTols, rtTols) {
		if results[k].Spec != spec {
			t.Errorf("Result %d is for %v, expected %v", k, results[k].Spec, spec)
		}
		// Each result must equal a fresh single evaluation
		want := Compare(gt, alt, spec, Dense)
		if diff := cmp.Diff(want, results[k]); diff != "" {
			t.Errorf("%v: sweep result differs (-want +got):\n%s", spec, diff)
		}
	}
}

func TestSweepDuplicates(t *testing.T) {
	gt, alt := scenarioSets()
	results, err := Sweep(context.Background(), gt, alt, []float64{5, 5}, []float64{6}, SweepOptions{})
	if err != nil {
		t.Fatalf("Sweep: error return %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Sweep returned %d results, expected 2", len(results))
	}
	if results[0] == results[1] {
		t.Errorf("Duplicate configurations share one result")
	}
	if diff := cmp.Diff(results[0], results[1]); diff != "" {
		t.Errorf("Duplicate configurations differ:\n%s", diff)
	}
}

func TestSweepInvalidTolerance(t *testing.T) {
	gt, alt := scenarioSets()
	results, err := Sweep(context.Background(), gt, alt, []float64{5, -1}, []float64{6}, SweepOptions{})
	if !errors.Is(err, ErrInvalidTolerance) {
		t.Errorf("Expected ErrInvalidTolerance, got %v", err)
	}
	if results != nil {
		t.Errorf("No results expected on error")
	}
}

func TestSweepCancelled(t *testing.T) {
	gt, alt := scenarioSets()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results, err := Sweep(ctx, gt, alt, []float64{5, 10}, []float64{6, 12}, SweepOptions{Workers: 1})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if results != nil {
		t.Errorf("No results expected after cancellation")
	}
}
