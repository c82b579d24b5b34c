package dvh

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Differential returns the differential DVH of a cumulative DVH.
// Element j is the volume receiving a dose in the bin (j, j+1], that is
// cdvh[j] - cdvh[j+1]. The result has one element less than cdvh, and a
// histogram with a single bin yields an empty slice.
//
// No validation is performed: a non-monotonic cDVH produces negative
// differential volumes.
func Differential(cdvh []float64) []float64 {
	if len(cdvh) < 2 {
		return []float64{}
	}
	n := len(cdvh) - 1
	return floats.SubTo(make([]float64, n), cdvh[:n], cdvh[1:])
}

// Min returns the minimum dose to the ROI as a percentage of doseRef.
//
// The minimum is located at the first bin whose cumulative volume drops
// below the total ROI volume. Bin j is reported at its midpoint, j - 0.5.
//
// Returns ErrStatisticNotFound if the volume never drops within the
// scanned range.
func (c *Calculator) Min(cdvh []float64, doseRef float64) (float64, error) {
	if err := c.validate(cdvh, doseRef); err != nil {
		return 0, err
	}

	j, ok := c.firstBinBelow(cdvh, cdvh[0])
	if !ok {
		return 0, fmt.Errorf("%w: no minimum dose found", ErrStatisticNotFound)
	}
	return toPercent(binMidpoint(j), doseRef), nil
}

// Max returns the maximum dose to the ROI as a percentage of doseRef.
// The maximum is the upper edge of the highest bin holding any volume.
func (c *Calculator) Max(cdvh []float64, doseRef float64) (float64, error) {
	if err := c.validate(cdvh, doseRef); err != nil {
		return 0, err
	}

	ddvh := Differential(cdvh)
	for j := len(ddvh) - 1; j >= 0; j-- {
		if ddvh[j] > 0 {
			return toPercent(float64(j+1), doseRef), nil
		}
	}
	return 0, fmt.Errorf("%w: no maximum dose found", ErrStatisticNotFound)
}

// Median returns the median dose to the ROI as a percentage of doseRef.
// It scans like Min, with half the ROI volume as the threshold.
func (c *Calculator) Median(cdvh []float64, doseRef float64) (float64, error) {
	if err := c.validate(cdvh, doseRef); err != nil {
		return 0, err
	}

	j, ok := c.firstBinBelow(cdvh, cdvh[0]/2)
	if !ok {
		return 0, fmt.Errorf("%w: no median dose found", ErrStatisticNotFound)
	}
	return toPercent(binMidpoint(j), doseRef), nil
}

// Mean returns the volume-weighted mean dose to the ROI as a percentage
// of doseRef.
//
// The total dose is the sum of each differential volume times its bin
// index. The first differential bin carries zero dose and is skipped.
func (c *Calculator) Mean(cdvh []float64, doseRef float64) (float64, error) {
	if err := c.validate(cdvh, doseRef); err != nil {
		return 0, err
	}

	volume := cdvh[0]
	if volume == 0 {
		return 0, fmt.Errorf("%w: ROI volume is zero", ErrDivisionByZero)
	}

	ddvh := Differential(cdvh)
	weights := make([]float64, len(ddvh))
	for k := range weights {
		weights[k] = float64(k)
	}
	dose := floats.Dot(ddvh[1:], weights[1:])

	return toPercent(dose/volume, doseRef), nil
}

// firstBinBelow finds the smallest j >= 1 with cdvh[j] < threshold.
// The final element is only tested when IncludeLastBin is set.
func (c *Calculator) firstBinBelow(cdvh []float64, threshold float64) (int, bool) {
	jmax := len(cdvh) - 1
	if c.opts.IncludeLastBin {
		jmax = len(cdvh)
	}
	for j := 1; j < jmax; j++ {
		if cdvh[j] < threshold {
			return j, true
		}
	}
	return 0, false
}

// binMidpoint returns the dose at the centre of bin j, in cGy
func binMidpoint(j int) float64 {
	return float64(2*j-1) / 2.0
}
