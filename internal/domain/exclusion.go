package domain

import (
	"fmt"
	"math"

	m "github.com/sharach/XPS-data-analysis-program/internal/model"
)

// ValidateThreshold rejects thresholds that are not finite positive numbers.
func ValidateThreshold(threshold float64) error {
	if math.IsNaN(threshold) || math.IsInf(threshold, 0) {
		return fmt.Errorf("%w: %v is not a finite number", m.ErrInvalidThreshold, threshold)
	}

	if threshold <= 0 {
		return fmt.Errorf("%w: %v must be positive", m.ErrInvalidThreshold, threshold)
	}

	return nil
}

// ValidatePhotonEnergy rejects negative or non-finite photon energies. Zero
// means no photon energy was given.
func ValidatePhotonEnergy(photonEnergy float64) error {
	if math.IsNaN(photonEnergy) || math.IsInf(photonEnergy, 0) || photonEnergy < 0 {
		return fmt.Errorf("%w: %v", m.ErrInvalidPhotonEnergy, photonEnergy)
	}

	return nil
}

// ApplyThreshold marks every point with StdDev <= threshold as included and
// returns the marked copy together with one provenance record per point in
// row order. Sweep values and means are left untouched.
func ApplyThreshold(table m.AnalyzedTable, threshold float64) (m.AnalyzedTable, []m.ProvenanceRecord, error) {
	if err := ValidateThreshold(threshold); err != nil {
		return m.AnalyzedTable{}, nil, err
	}

	marked := m.AnalyzedTable{
		Filename:   table.Filename,
		SweepCount: table.SweepCount,
		Points:     make([]m.AnalyzedPoint, len(table.Points)),
	}
	records := make([]m.ProvenanceRecord, 0, len(table.Points))

	for i, point := range table.Points {
		point.Included = point.StdDev <= threshold
		marked.Points[i] = point

		records = append(records, m.ProvenanceRecord{
			Filename:   table.Filename,
			Index:      point.Index,
			LineNumber: point.LineNumber,
			StdDev:     point.StdDev,
			Included:   point.Included,
		})
	}

	return marked, records, nil
}

// Partition splits a thresholded table into included and excluded entries.
func Partition(table m.AnalyzedTable) m.FilePartition {
	partition := m.FilePartition{
		Filename: table.Filename,
		Included: []m.PartitionEntry{},
		Excluded: []m.PartitionEntry{},
	}

	for _, point := range table.Points {
		entry := m.PartitionEntry{
			Index:      point.Index,
			LineNumber: point.LineNumber,
			Energy:     point.Energy,
			Mean:       point.Mean,
			StdDev:     point.StdDev,
		}

		if point.Included {
			partition.Included = append(partition.Included, entry)
		} else {
			partition.Excluded = append(partition.Excluded, entry)
		}
	}

	return partition
}
