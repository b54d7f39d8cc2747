package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOutputMode(t *testing.T) {
	tests := []struct {
		input string
		want  OutputMode
	}{
		{"i", OutputIndividual},
		{"I", OutputIndividual},
		{"individual", OutputIndividual},
		{"f", OutputCombined},
		{"F", OutputCombined},
		{"c", OutputCombined},
		{"Combined", OutputCombined},
		{"b", OutputBoth},
		{" B ", OutputBoth},
		{"both", OutputBoth},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseOutputMode(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, input := range []string{"", "x", "all", "ib"} {
		t.Run("invalid "+input, func(t *testing.T) {
			_, err := ParseOutputMode(input)
			assert.ErrorIs(t, err, ErrInvalidOutputMode)
		})
	}
}

func TestOutputMode_Selections(t *testing.T) {
	assert.True(t, OutputIndividual.Individual())
	assert.False(t, OutputIndividual.Combined())
	assert.False(t, OutputCombined.Individual())
	assert.True(t, OutputCombined.Combined())
	assert.True(t, OutputBoth.Individual())
	assert.True(t, OutputBoth.Combined())
}

func TestRowError(t *testing.T) {
	err := fmt.Errorf("read scan file: %w", &RowError{Filename: "a.dat", LineNumber: 7, Err: ErrMalformedRow, Detail: "column 2: \"x\" is not a number"})

	assert.ErrorIs(t, err, ErrMalformedRow)
	assert.NotErrorIs(t, err, ErrInconsistentSweepCount)
	assert.Equal(t, "read scan file: a.dat:7: malformed row: column 2: \"x\" is not a number", err.Error())

	var rowErr *RowError
	require.True(t, errors.As(err, &rowErr))
	assert.Equal(t, 7, rowErr.LineNumber)

	plain := &RowError{Filename: "b.dat", LineNumber: 3, Err: ErrInconsistentSweepCount}
	assert.Equal(t, "b.dat:3: inconsistent sweep count", plain.Error())
}

func TestDataPoint_SweepCount(t *testing.T) {
	assert.Equal(t, 3, DataPoint{SweepValues: []float64{1, 2, 3}}.SweepCount())
	assert.Zero(t, DataPoint{}.SweepCount())
}

func TestDataPoint_SumMatches(t *testing.T) {
	sum := func(v float64) *float64 { return &v }

	assert.True(t, DataPoint{SweepValues: []float64{7}}.SumMatches())
	assert.True(t, DataPoint{SweepValues: []float64{1, 2, 3}, SumValue: sum(6)}.SumMatches())
	assert.True(t, DataPoint{SweepValues: []float64{0.1, 0.2}, SumValue: sum(0.3)}.SumMatches())
	assert.False(t, DataPoint{SweepValues: []float64{1, 2, 3}, SumValue: sum(7)}.SumMatches())
}

func TestAnalyzedTable_MaxStdDev(t *testing.T) {
	table := AnalyzedTable{Points: []AnalyzedPoint{{StdDev: 1}, {StdDev: 4.5}, {StdDev: 2}}}
	assert.Equal(t, 4.5, table.MaxStdDev())
	assert.Zero(t, AnalyzedTable{}.MaxStdDev())
}

func TestSpectrum(t *testing.T) {
	spectrum := Spectrum{Points: []SpectrumPoint{{Energy: 1, Intensity: 10}, {Energy: 2, Intensity: 20}}}

	assert.Equal(t, 2, spectrum.Len())
	assert.Equal(t, []float64{1, 2}, spectrum.Energies())
	assert.Equal(t, []float64{10, 20}, spectrum.Intensities())
	assert.Empty(t, Spectrum{}.Energies())
}

func TestRunResult(t *testing.T) {
	result := RunResult{
		Files: []FileResult{{MaxStdDev: 3}, {MaxStdDev: 9}},
		Provenance: []ProvenanceRecord{
			{Included: true}, {Included: false}, {Included: false},
		},
	}

	assert.Equal(t, 9.0, result.MaxStdDev())
	assert.Equal(t, 2, result.ExcludedCount())
	assert.Zero(t, RunResult{}.MaxStdDev())
}
