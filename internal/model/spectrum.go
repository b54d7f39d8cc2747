package model

// SpectrumPoint is a single (energy, intensity) pair.
type SpectrumPoint struct {
	Energy    float64
	Intensity float64
}

// Spectrum is an ordered sequence of spectrum points. Excluded energies are
// simply absent.
type Spectrum struct {
	Label  string
	Points []SpectrumPoint
}

// Len returns the number of points in the spectrum.
func (s Spectrum) Len() int {
	return len(s.Points)
}

// Energies returns the x values of the spectrum.
func (s Spectrum) Energies() []float64 {
	energies := make([]float64, 0, len(s.Points))
	for _, point := range s.Points {
		energies = append(energies, point.Energy)
	}

	return energies
}

// Intensities returns the y values of the spectrum.
func (s Spectrum) Intensities() []float64 {
	intensities := make([]float64, 0, len(s.Points))
	for _, point := range s.Points {
		intensities = append(intensities, point.Intensity)
	}

	return intensities
}

// CombinedSpectrum is the cross-file average spectrum. Contributors[i] is the
// number of files that contributed to Points[i].
type CombinedSpectrum struct {
	Spectrum

	Contributors []int
}
