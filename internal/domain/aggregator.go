package domain

import (
	"fmt"

	m "github.com/sharach/XPS-data-analysis-program/internal/model"
)

// CombinedLabel is the label of the spectrum that combines all files.
const CombinedLabel = "combined"

// FileSpectrum returns the (energy, mean) pairs of the included points of a
// thresholded table, in row order. Excluded points leave a gap.
func FileSpectrum(table m.AnalyzedTable) (m.Spectrum, error) {
	spectrum := m.Spectrum{
		Label:  table.Filename,
		Points: make([]m.SpectrumPoint, 0, len(table.Points)),
	}

	for i, point := range table.Points {
		if point.SweepCount() != table.SweepCount {
			return m.Spectrum{}, &m.RowError{
				Filename:   table.Filename,
				LineNumber: point.LineNumber,
				Err:        m.ErrInconsistentSweepCount,
				Detail:     fmt.Sprintf("datapoint %d has %d sweeps, table has %d", i+1, point.SweepCount(), table.SweepCount),
			}
		}

		if !point.Included {
			continue
		}

		spectrum.Points = append(spectrum.Points, m.SpectrumPoint{
			Energy:    point.Energy,
			Intensity: point.Mean,
		})
	}

	return spectrum, nil
}

// CombineSpectra averages the per-file spectra energy by energy. Each energy
// is averaged over exactly the files whose spectrum contains it; energies are
// matched by exact equality. The result lists energies in first-seen order,
// walking the spectra in the order given.
func CombineSpectra(spectra []m.Spectrum) (m.CombinedSpectrum, error) {
	if len(spectra) == 0 {
		return m.CombinedSpectrum{}, fmt.Errorf("combine spectra: %w", m.ErrEmptyFileSet)
	}

	type accumulator struct {
		sum   float64
		count int
	}

	order := []float64{}
	byEnergy := map[float64]*accumulator{}

	for _, spectrum := range spectra {
		for _, point := range spectrum.Points {
			acc, ok := byEnergy[point.Energy]
			if !ok {
				acc = &accumulator{}
				byEnergy[point.Energy] = acc
				order = append(order, point.Energy)
			}

			acc.sum += point.Intensity
			acc.count++
		}
	}

	combined := m.CombinedSpectrum{
		Spectrum: m.Spectrum{
			Label:  CombinedLabel,
			Points: make([]m.SpectrumPoint, 0, len(order)),
		},
		Contributors: make([]int, 0, len(order)),
	}

	for _, energy := range order {
		acc := byEnergy[energy]
		combined.Points = append(combined.Points, m.SpectrumPoint{
			Energy:    energy,
			Intensity: acc.sum / float64(acc.count),
		})
		combined.Contributors = append(combined.Contributors, acc.count)
	}

	return combined, nil
}

// SameEnergyGrid reports whether every table lists the same energies in the
// same order. Combining assumes it but does not enforce it.
func SameEnergyGrid(tables []m.ScanTable) bool {
	if len(tables) < 2 {
		return true
	}

	reference := tables[0].DataPoints

	for _, table := range tables[1:] {
		if len(table.DataPoints) != len(reference) {
			return false
		}

		for i, point := range table.DataPoints {
			if point.Energy != reference[i].Energy {
				return false
			}
		}
	}

	return true
}
