package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/wcharczuk/go-chart/v2"

	m "github.com/sharach/XPS-data-analysis-program/internal/model"
)

const (
	// DefaultPlotWidth is the default plot width in pixels.
	DefaultPlotWidth = 1024
	// DefaultPlotHeight is the default plot height in pixels.
	DefaultPlotHeight = 640

	intensityAxisName = "Average sweep intensity / a.u."
	bindingAxisName   = "Binding energy / eV"
	kineticAxisName   = "Kinetic energy / eV"
)

// PlotOptions controls how a spectrum is drawn.
type PlotOptions struct {
	Title        string
	PhotonEnergy float64 // plots binding energy when positive
	Width        int
	Height       int
}

// PlotRenderer draws spectra to image files.
type PlotRenderer interface {
	Render(ctx context.Context, path m.Path, spectrum m.Spectrum, options PlotOptions) error
}

// ChartPlotRenderer renders PNG scatter plots.
type ChartPlotRenderer struct{}

// NewChartPlotRenderer constructs a ChartPlotRenderer.
func NewChartPlotRenderer() *ChartPlotRenderer {
	return &ChartPlotRenderer{}
}

// pointStyle renders points only, no connecting line.
func pointStyle() chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    1.5,
		DotColor:    chart.ColorBlue,
	}
}

// PlotAxis converts kinetic energies to the x values of a plot: binding
// energies when a photon energy is given, kinetic energies otherwise.
func PlotAxis(energies []float64, photonEnergy float64) ([]float64, string) {
	if photonEnergy <= 0 {
		return energies, kineticAxisName
	}

	binding := make([]float64, len(energies))
	for i, energy := range energies {
		binding[i] = photonEnergy - energy
	}

	return binding, bindingAxisName
}

// paddedRange returns an axis range that go-chart accepts even when every
// value is equal.
func paddedRange(values []float64) *chart.ContinuousRange {
	if len(values) == 0 {
		return &chart.ContinuousRange{Min: 0, Max: 1}
	}

	lo, hi := values[0], values[0]
	for _, value := range values[1:] {
		lo = min(lo, value)
		hi = max(hi, value)
	}

	if lo == hi {
		pad := 1.0
		if lo != 0 {
			pad = 0.05 * abs(lo)
		}

		return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
	}

	return &chart.ContinuousRange{Min: lo, Max: hi}
}

func abs(value float64) float64 {
	if value < 0 {
		return -value
	}

	return value
}

// spectrumSeries builds the scatter series of a spectrum and the x axis name.
// go-chart needs at least two values per series: a single point is doubled,
// and an empty spectrum gets a hidden placeholder so only the axes are drawn.
func spectrumSeries(spectrum m.Spectrum, photonEnergy float64) (chart.ContinuousSeries, string) {
	xValues, xName := PlotAxis(spectrum.Energies(), photonEnergy)
	yValues := spectrum.Intensities()
	style := pointStyle()

	switch len(xValues) {
	case 0:
		xValues, yValues = []float64{0, 0}, []float64{0, 0}
		style = chart.Style{Hidden: true, StrokeWidth: chart.Disabled, DotWidth: 0}
	case 1:
		xValues = []float64{xValues[0], xValues[0]}
		yValues = []float64{yValues[0], yValues[0]}
	}

	return chart.ContinuousSeries{
		Name:    spectrum.Label,
		XValues: xValues,
		YValues: yValues,
		Style:   style,
	}, xName
}

// Render implements PlotRenderer.
func (r *ChartPlotRenderer) Render(ctx context.Context, path m.Path, spectrum m.Spectrum, options PlotOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	series, xName := spectrumSeries(spectrum, options.PhotonEnergy)

	width, height := options.Width, options.Height
	if width <= 0 {
		width = DefaultPlotWidth
	}

	if height <= 0 {
		height = DefaultPlotHeight
	}

	graph := chart.Chart{
		Title:  options.Title,
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 32, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis:  chart.XAxis{Name: xName, Range: paddedRange(series.XValues)},
		YAxis:  chart.YAxis{Name: intensityAxisName, Range: paddedRange(series.YValues)},
		Series: []chart.Series{series},
	}

	// #nosec G304 - path is built from the configured reports directory
	file, err := os.Create(string(path))
	if err != nil {
		return fmt.Errorf("create plot: %w", err)
	}

	if err := graph.Render(chart.PNG, file); err != nil {
		_ = file.Close()

		slog.Error("Failed to render plot", "path", path, "points", spectrum.Len(), "error", err)

		return fmt.Errorf("render plot: %w", err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("close plot: %w", err)
	}

	slog.Debug("Rendered plot", "path", path, "points", spectrum.Len())

	return nil
}
