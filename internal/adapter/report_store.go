package adapter

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	m "github.com/sharach/XPS-data-analysis-program/internal/model"
)

// Report file names written into the reports directory.
const (
	StdReportFile        = "std_report.tsv"
	IncludedReportFile   = "included_datapoints.tsv"
	ExcludedReportFile   = "excluded_datapoints.tsv"
	CombinedSpectrumFile = "combined_spectrum"
	SummaryFile          = "summary.yaml"
	WorkbookFile         = "reports.xlsx"

	spectrumFilePrefix = "spectrum_"
	tableExtension     = ".tsv"
	plotExtension      = ".png"
)

// ReportStore persists the flat reports of a run.
type ReportStore interface {
	// Reset removes the report files a previous run left in dir.
	Reset(ctx context.Context, dir m.Path) error

	// SaveRun writes the reports selected by the run's output mode and
	// returns the paths it wrote.
	SaveRun(ctx context.Context, dir m.Path, result m.RunResult) ([]m.Path, error)
}

// FileReportStore writes tab separated reports and a YAML summary.
type FileReportStore struct{}

// NewFileReportStore constructs a FileReportStore.
func NewFileReportStore() *FileReportStore {
	return &FileReportStore{}
}

// SpectrumBaseName returns the report base name of a per-file spectrum.
func SpectrumBaseName(filename string) string {
	return spectrumFilePrefix + strings.TrimSuffix(filename, filepath.Ext(filename))
}

// Reset implements ReportStore. Only the fixed report names and spectrum
// tables and plots are removed, so reports may share a folder with scans.
func (s *FileReportStore) Reset(ctx context.Context, dir m.Path) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	root := string(dir)
	stale := []string{
		filepath.Join(root, StdReportFile),
		filepath.Join(root, IncludedReportFile),
		filepath.Join(root, ExcludedReportFile),
		filepath.Join(root, CombinedSpectrumFile+tableExtension),
		filepath.Join(root, CombinedSpectrumFile+plotExtension),
		filepath.Join(root, SummaryFile),
		filepath.Join(root, WorkbookFile),
	}

	for _, extension := range []string{tableExtension, plotExtension} {
		spectra, err := filepath.Glob(filepath.Join(root, spectrumFilePrefix+"*"+extension))
		if err != nil {
			return fmt.Errorf("list stale spectra: %w", err)
		}

		stale = append(stale, spectra...)
	}

	for _, path := range stale {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			slog.Error("Failed to remove stale report", "path", path, "error", err)
			return fmt.Errorf("remove stale report: %w", err)
		}
	}

	return nil
}

// SaveRun implements ReportStore.
func (s *FileReportStore) SaveRun(ctx context.Context, dir m.Path, result m.RunResult) ([]m.Path, error) {
	if err := os.MkdirAll(string(dir), 0o750); err != nil {
		return nil, fmt.Errorf("create reports directory: %w", err)
	}

	var written []m.Path

	write := func(name string, fn func(w io.Writer) error) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		path := filepath.Join(string(dir), name)
		if err := writeFile(path, fn); err != nil {
			slog.Error("Failed to write report", "path", path, "error", err)
			return fmt.Errorf("write %s: %w", name, err)
		}

		written = append(written, m.Path(path))

		return nil
	}

	if err := write(StdReportFile, func(w io.Writer) error { return writeStdReport(w, result.Provenance) }); err != nil {
		return written, err
	}

	if result.Mode.Individual() {
		if err := write(IncludedReportFile, func(w io.Writer) error { return writePartitions(w, result.Files, true) }); err != nil {
			return written, err
		}

		if err := write(ExcludedReportFile, func(w io.Writer) error { return writePartitions(w, result.Files, false) }); err != nil {
			return written, err
		}

		for _, file := range result.Files {
			spectrum := file.Spectrum
			if err := write(SpectrumBaseName(file.Filename)+tableExtension, func(w io.Writer) error {
				return writeSpectrum(w, spectrum, nil)
			}); err != nil {
				return written, err
			}
		}
	}

	if result.Mode.Combined() && result.Combined != nil {
		combined := result.Combined
		if err := write(CombinedSpectrumFile+tableExtension, func(w io.Writer) error {
			return writeSpectrum(w, combined.Spectrum, combined.Contributors)
		}); err != nil {
			return written, err
		}
	}

	if err := write(SummaryFile, func(w io.Writer) error { return writeSummary(w, result) }); err != nil {
		return written, err
	}

	slog.Info("Saved reports", "dir", dir, "files", len(written))

	return written, nil
}

func writeFile(path string, fn func(w io.Writer) error) error {
	// #nosec G304 - path is built from the configured reports directory
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	buffered := bufio.NewWriter(file)

	if err := fn(buffered); err != nil {
		_ = file.Close()
		return err
	}

	if err := buffered.Flush(); err != nil {
		_ = file.Close()
		return err
	}

	return file.Close()
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'g', -1, 64)
}

func writeRow(w io.Writer, columns ...string) error {
	_, err := io.WriteString(w, strings.Join(columns, "\t")+"\n")
	return err
}

func writeStdReport(w io.Writer, records []m.ProvenanceRecord) error {
	if err := writeRow(w, "filename", "datapoint", "line", "std_dev", "included"); err != nil {
		return err
	}

	for _, record := range records {
		if err := writeRow(w,
			record.Filename,
			strconv.Itoa(record.Index),
			strconv.Itoa(record.LineNumber),
			formatFloat(record.StdDev),
			strconv.FormatBool(record.Included),
		); err != nil {
			return err
		}
	}

	return nil
}

func writePartitions(w io.Writer, files []m.FileResult, included bool) error {
	if err := writeRow(w, "filename", "datapoint", "line", "energy", "mean_intensity", "std_dev"); err != nil {
		return err
	}

	for _, file := range files {
		entries := file.Partition.Excluded
		if included {
			entries = file.Partition.Included
		}

		for _, entry := range entries {
			if err := writeRow(w,
				file.Filename,
				strconv.Itoa(entry.Index),
				strconv.Itoa(entry.LineNumber),
				formatFloat(entry.Energy),
				formatFloat(entry.Mean),
				formatFloat(entry.StdDev),
			); err != nil {
				return err
			}
		}
	}

	return nil
}

func writeSpectrum(w io.Writer, spectrum m.Spectrum, contributors []int) error {
	header := []string{"energy", "intensity"}
	if contributors != nil {
		header = append(header, "files")
	}

	if err := writeRow(w, header...); err != nil {
		return err
	}

	for i, point := range spectrum.Points {
		row := []string{formatFloat(point.Energy), formatFloat(point.Intensity)}
		if contributors != nil {
			row = append(row, strconv.Itoa(contributors[i]))
		}

		if err := writeRow(w, row...); err != nil {
			return err
		}
	}

	return nil
}

type fileSummary struct {
	Filename   string  `yaml:"filename"`
	Sweeps     int     `yaml:"sweeps"`
	Datapoints int     `yaml:"datapoints"`
	Included   int     `yaml:"included"`
	Excluded   int     `yaml:"excluded"`
	MaxStdDev  float64 `yaml:"max_std_dev"`
}

type runSummary struct {
	Threshold      float64       `yaml:"threshold"`
	PhotonEnergy   float64       `yaml:"photon_energy"`
	Mode           string        `yaml:"mode"`
	Datapoints     int           `yaml:"datapoints"`
	Excluded       int           `yaml:"excluded"`
	MaxStdDev      float64       `yaml:"max_std_dev"`
	CombinedPoints *int          `yaml:"combined_points,omitempty"`
	Files          []fileSummary `yaml:"files"`
}

func newRunSummary(result m.RunResult) runSummary {
	summary := runSummary{
		Threshold:    result.Threshold,
		PhotonEnergy: result.PhotonEnergy,
		Mode:         string(result.Mode),
		Datapoints:   len(result.Provenance),
		Excluded:     result.ExcludedCount(),
		MaxStdDev:    result.MaxStdDev(),
		Files:        make([]fileSummary, 0, len(result.Files)),
	}

	if result.Combined != nil {
		points := result.Combined.Len()
		summary.CombinedPoints = &points
	}

	for _, file := range result.Files {
		summary.Files = append(summary.Files, fileSummary{
			Filename:   file.Filename,
			Sweeps:     file.SweepCount,
			Datapoints: file.Points,
			Included:   len(file.Partition.Included),
			Excluded:   len(file.Partition.Excluded),
			MaxStdDev:  file.MaxStdDev,
		})
	}

	return summary
}

func writeSummary(w io.Writer, result m.RunResult) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)

	if err := encoder.Encode(newRunSummary(result)); err != nil {
		return err
	}

	return encoder.Close()
}
