package models

// Histogram represents a cumulative dose-volume histogram for one ROI
type Histogram struct {
	// Name identifies the ROI the histogram belongs to
	Name string

	// Cumulative holds the cDVH: element i is the volume receiving
	// at least i cGy. Bin width is fixed at 1 cGy.
	Cumulative []float64

	// ReferenceDose is the prescription dose in cGy used to normalise
	// the statistics
	ReferenceDose float64
}

// Volume returns the total ROI volume, or 0 for an empty histogram
func (h Histogram) Volume() float64 {
	if len(h.Cumulative) == 0 {
		return 0
	}
	return h.Cumulative[0]
}

// DoseStatistics holds the summary doses of an ROI.
// All doses are expressed as a percentage of ReferenceDose.
type DoseStatistics struct {
	Min    float64 `yaml:"min"`
	Max    float64 `yaml:"max"`
	Median float64 `yaml:"median"`
	Mean   float64 `yaml:"mean"`

	// ReferenceDose is the dose in cGy the percentages are relative to
	ReferenceDose float64 `yaml:"referenceDose"`
}

// Absolute converts a percentage back to a dose in cGy
func (s DoseStatistics) Absolute(percent float64) float64 {
	return percent * s.ReferenceDose / 100
}
