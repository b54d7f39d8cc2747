package model

import (
	"fmt"
	"strings"
)

// OutputMode selects which spectra a run emits.
type OutputMode string

const (
	// OutputIndividual emits one spectrum per scan file.
	OutputIndividual OutputMode = "individual"
	// OutputCombined emits only the spectrum combining all scan files.
	OutputCombined OutputMode = "combined"
	// OutputBoth emits individual and combined spectra.
	OutputBoth OutputMode = "both"
)

// ParseOutputMode accepts the full mode names as well as the single letters
// i, f and b in any case.
func ParseOutputMode(value string) (OutputMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "i", string(OutputIndividual):
		return OutputIndividual, nil
	case "f", "c", string(OutputCombined):
		return OutputCombined, nil
	case "b", string(OutputBoth):
		return OutputBoth, nil
	}

	return "", fmt.Errorf("%w: %q (want individual, combined or both)", ErrInvalidOutputMode, value)
}

// Individual reports whether per-file spectra are requested.
func (m OutputMode) Individual() bool {
	return m == OutputIndividual || m == OutputBoth
}

// Combined reports whether the combined spectrum is requested.
func (m OutputMode) Combined() bool {
	return m == OutputCombined || m == OutputBoth
}

// ProvenanceRecord is the inclusion decision for one datapoint.
type ProvenanceRecord struct {
	Filename   string
	Index      int
	LineNumber int
	StdDev     float64
	Included   bool
}

// PartitionEntry describes one datapoint in an included/excluded listing.
type PartitionEntry struct {
	Index      int
	LineNumber int
	Energy     float64
	Mean       float64
	StdDev     float64
}

// FilePartition splits the datapoints of one file by inclusion. The two
// lists are disjoint and together cover every datapoint of the file.
type FilePartition struct {
	Filename string
	Included []PartitionEntry
	Excluded []PartitionEntry
}

// FileResult is everything the pipeline derived for one scan file.
type FileResult struct {
	Filename   string
	SweepCount int
	Points     int
	MaxStdDev  float64
	Spectrum   Spectrum
	Partition  FilePartition
}

// RunResult is the outcome of processing a set of scan files.
type RunResult struct {
	Threshold    float64
	PhotonEnergy float64
	Mode         OutputMode
	Files        []FileResult
	Provenance   []ProvenanceRecord
	Combined     *CombinedSpectrum
}

// MaxStdDev returns the highest standard deviation over all files.
func (r RunResult) MaxStdDev() float64 {
	maxStd := 0.0

	for _, file := range r.Files {
		if file.MaxStdDev > maxStd {
			maxStd = file.MaxStdDev
		}
	}

	return maxStd
}

// ExcludedCount returns the number of excluded datapoints over all files.
func (r RunResult) ExcludedCount() int {
	count := 0

	for _, record := range r.Provenance {
		if !record.Included {
			count++
		}
	}

	return count
}

// FileInspection summarizes a scan file without applying the output stage.
type FileInspection struct {
	Filename   string
	Points     int
	SweepCount int
	MinStdDev  float64
	MaxStdDev  float64
	MeanStdDev float64
	Excluded   int // -1 when no threshold was given
}
