// Package dvh computes summary dose statistics for a region of interest
// from its cumulative dose-volume histogram (cDVH).
//
// A cDVH is a slice where element i holds the volume receiving at least
// i cGy, so the bin width is fixed at 1 cGy and element 0 is the total ROI
// volume. Every statistic is returned as a percentage of a reference dose,
// usually the prescription dose.
//
// All functions are pure: they never modify their input and keep no state
// between calls, so they may be called from multiple goroutines.
package dvh

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"dvhdoses/internal/models"
)

var (
	// ErrInvalidInput is returned for histograms that are too short or hold
	// negative values, and for reference doses that are not positive.
	ErrInvalidInput = errors.New("invalid input")

	// ErrStatisticNotFound is returned when a scan finds no qualifying bin.
	ErrStatisticNotFound = errors.New("statistic not found")

	// ErrDivisionByZero is returned when the ROI volume is zero.
	ErrDivisionByZero = errors.New("division by zero")
)

// Options controls how a Calculator scans the histogram
type Options struct {
	// IncludeLastBin lets the minimum and median scans test the final
	// cDVH element. When false the scans stop one bin short of the end.
	IncludeLastBin bool

	// RequireMonotonic rejects histograms whose volume increases with dose.
	RequireMonotonic bool
}

// Calculator derives dose statistics from cDVHs using fixed Options.
// A Calculator is immutable and safe for concurrent use.
type Calculator struct {
	opts Options
}

// NewCalculator creates a calculator with the provided options.
// A nil opts is equivalent to the zero Options.
func NewCalculator(opts *Options) *Calculator {
	c := &Calculator{}
	if opts != nil {
		c.opts = *opts
	}
	return c
}

// Options returns a copy of the calculator's options
func (c *Calculator) Options() Options {
	return c.opts
}

var defaultCalculator = NewCalculator(nil)

// Min returns the minimum dose to the ROI using default options
func Min(cdvh []float64, doseRef float64) (float64, error) {
	return defaultCalculator.Min(cdvh, doseRef)
}

// Max returns the maximum dose to the ROI using default options
func Max(cdvh []float64, doseRef float64) (float64, error) {
	return defaultCalculator.Max(cdvh, doseRef)
}

// Median returns the median dose to the ROI using default options
func Median(cdvh []float64, doseRef float64) (float64, error) {
	return defaultCalculator.Median(cdvh, doseRef)
}

// Mean returns the mean dose to the ROI using default options
func Mean(cdvh []float64, doseRef float64) (float64, error) {
	return defaultCalculator.Mean(cdvh, doseRef)
}

// Summary returns all four statistics using default options
func Summary(cdvh []float64, doseRef float64) (models.DoseStatistics, error) {
	return defaultCalculator.Summary(cdvh, doseRef)
}

// Summary computes the minimum, maximum, median and mean dose in one call.
// The first failing statistic aborts the call and no partial result is
// returned.
func (c *Calculator) Summary(cdvh []float64, doseRef float64) (models.DoseStatistics, error) {
	var stats models.DoseStatistics

	steps := []struct {
		name string
		fn   func([]float64, float64) (float64, error)
		dst  *float64
	}{
		{"minimum", c.Min, &stats.Min},
		{"maximum", c.Max, &stats.Max},
		{"median", c.Median, &stats.Median},
		{"mean", c.Mean, &stats.Mean},
	}

	for _, step := range steps {
		v, err := step.fn(cdvh, doseRef)
		if err != nil {
			return models.DoseStatistics{}, fmt.Errorf("%s dose: %w", step.name, err)
		}
		*step.dst = v
	}

	stats.ReferenceDose = doseRef
	return stats, nil
}

// SummarizeHistogram computes the summary for a named histogram
func (c *Calculator) SummarizeHistogram(h models.Histogram) (models.DoseStatistics, error) {
	stats, err := c.Summary(h.Cumulative, h.ReferenceDose)
	if err != nil && h.Name != "" {
		return stats, fmt.Errorf("ROI %q: %w", h.Name, err)
	}
	return stats, err
}

// validate checks the histogram and reference dose before any scan
func (c *Calculator) validate(cdvh []float64, doseRef float64) error {
	if len(cdvh) < 2 {
		return fmt.Errorf("%w: cDVH needs at least 2 bins, got %d", ErrInvalidInput, len(cdvh))
	}
	if math.IsNaN(doseRef) || math.IsInf(doseRef, 0) || doseRef <= 0 {
		return fmt.Errorf("%w: reference dose must be positive, got %v", ErrInvalidInput, doseRef)
	}
	if floats.HasNaN(cdvh) {
		return fmt.Errorf("%w: cDVH contains NaN", ErrInvalidInput)
	}
	for j, v := range cdvh {
		if math.IsInf(v, 0) {
			return fmt.Errorf("%w: infinite volume at bin %d", ErrInvalidInput, j)
		}
	}
	if idx := floats.MinIdx(cdvh); cdvh[idx] < 0 {
		return fmt.Errorf("%w: negative volume %v at bin %d", ErrInvalidInput, cdvh[idx], idx)
	}
	if c.opts.RequireMonotonic {
		for j := 1; j < len(cdvh); j++ {
			if cdvh[j] > cdvh[j-1] {
				return fmt.Errorf("%w: cDVH increases at bin %d", ErrInvalidInput, j)
			}
		}
	}
	return nil
}

// toPercent normalises a dose in cGy to a percentage of doseRef
func toPercent(dose, doseRef float64) float64 {
	return 100 * dose / doseRef
}
