package domain

import (
	"fmt"
	"log/slog"
	"math"

	m "github.com/sharach/XPS-data-analysis-program/internal/model"
)

// SweepStatistics returns the mean and the population standard deviation
// (divide by N) of the sweep readings of one datapoint. A single reading has
// no dispersion, so its standard deviation is 0.
func SweepStatistics(values []float64) (mean float64, stdDev float64, err error) {
	if len(values) == 0 {
		return 0, 0, fmt.Errorf("%w: no sweep values", m.ErrMalformedRow)
	}

	sum := 0.0

	for i, value := range values {
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return 0, 0, fmt.Errorf("%w: sweep %d is not a finite number", m.ErrMalformedRow, i+1)
		}

		sum += value
	}

	n := float64(len(values))
	mean = sum / n

	if len(values) == 1 {
		return values[0], 0, nil
	}

	variance := 0.0

	for _, value := range values {
		delta := value - mean
		variance += delta * delta
	}

	return mean, math.Sqrt(variance / n), nil
}

// Analyze computes the sweep statistics of every datapoint of a table. Points
// are returned in row order with Included left unset. Statistics always use
// the sweep readings; a disagreeing sum column is only logged. The first row whose
// sweep count differs from the first row's fails with
// ErrInconsistentSweepCount.
func Analyze(table m.ScanTable) (m.AnalyzedTable, error) {
	sweepCount, err := checkSweepCounts(table)
	if err != nil {
		return m.AnalyzedTable{}, err
	}

	analyzed := m.AnalyzedTable{
		Filename:   table.Filename,
		SweepCount: sweepCount,
		Points:     make([]m.AnalyzedPoint, 0, len(table.DataPoints)),
	}

	mismatches, firstMismatch := 0, 0

	for _, point := range table.DataPoints {
		if !point.SumMatches() {
			if mismatches == 0 {
				firstMismatch = point.LineNumber
			}

			mismatches++
		}

		mean, stdDev, err := SweepStatistics(point.SweepValues)
		if err != nil {
			return m.AnalyzedTable{}, &m.RowError{
				Filename:   table.Filename,
				LineNumber: point.LineNumber,
				Err:        err,
			}
		}

		analyzed.Points = append(analyzed.Points, m.AnalyzedPoint{
			DataPoint: point,
			Mean:      mean,
			StdDev:    stdDev,
		})
	}

	if mismatches > 0 {
		slog.Warn("Sum column disagrees with sweep readings",
			"file", table.Filename,
			"datapoints", mismatches,
			"firstLine", firstMismatch,
		)
	}

	return analyzed, nil
}

// checkSweepCounts returns the common sweep count of the table rows.
func checkSweepCounts(table m.ScanTable) (int, error) {
	if len(table.DataPoints) == 0 {
		return 0, nil
	}

	want := table.DataPoints[0].SweepCount()

	for _, point := range table.DataPoints[1:] {
		if got := point.SweepCount(); got != want {
			return 0, &m.RowError{
				Filename:   table.Filename,
				LineNumber: point.LineNumber,
				Err:        m.ErrInconsistentSweepCount,
				Detail:     fmt.Sprintf("got %d sweeps, first row has %d", got, want),
			}
		}
	}

	return want, nil
}
