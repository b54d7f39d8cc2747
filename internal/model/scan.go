// Package model defines the data structures for sweep averaging and filtering.
package model

import "math"

// Path represents a file system path.
type Path string

// DataPoint is one energy point of a scan file with all of its sweep readings.
type DataPoint struct {
	LineNumber  int // 1-based line in the source file, header lines included
	Index       int // 1-based datapoint number within the file
	Energy      float64
	SweepValues []float64
	SumValue    *float64 // nil when the file carries no sum column
}

// SweepCount returns the number of sweep readings of the point.
func (p DataPoint) SweepCount() int {
	return len(p.SweepValues)
}

// SumMatches reports whether the sum column agrees with the sweep readings,
// up to a relative error of 1e-6. A point without a sum column always matches.
func (p DataPoint) SumMatches() bool {
	if p.SumValue == nil {
		return true
	}

	total := 0.0
	for _, value := range p.SweepValues {
		total += value
	}

	return math.Abs(total-*p.SumValue) <= 1e-6*math.Max(1, math.Abs(*p.SumValue))
}

// ScanTable represents one parsed scan file.
type ScanTable struct {
	Filename   string
	Path       Path
	DataPoints []DataPoint
}

// AnalyzedPoint is a DataPoint annotated with its sweep statistics and,
// once a threshold has been applied, its inclusion decision.
type AnalyzedPoint struct {
	DataPoint

	Mean     float64
	StdDev   float64
	Included bool
}

// AnalyzedTable holds the analyzed points of one scan file in row order.
type AnalyzedTable struct {
	Filename   string
	SweepCount int
	Points     []AnalyzedPoint
}

// MaxStdDev returns the largest standard deviation in the table, or 0 when
// the table is empty.
func (t AnalyzedTable) MaxStdDev() float64 {
	maxStd := 0.0

	for _, point := range t.Points {
		if point.StdDev > maxStd {
			maxStd = point.StdDev
		}
	}

	return maxStd
}
