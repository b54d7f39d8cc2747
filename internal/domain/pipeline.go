package domain

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	m "github.com/sharach/XPS-data-analysis-program/internal/model"
	"github.com/sharach/XPS-data-analysis-program/pkg"
)

// ProcessArgs contains the inputs of one pipeline run.
type ProcessArgs struct {
	Tables       []m.ScanTable
	Threshold    float64
	PhotonEnergy float64
	Mode         m.OutputMode
	Threads      int
}

// Pipeline runs statistics, exclusion and aggregation over a set of tables.
type Pipeline interface {
	Process(ctx context.Context, args ProcessArgs) (m.RunResult, error)
}

type pipeline struct{}

// NewPipeline creates a Pipeline.
func NewPipeline() Pipeline {
	return &pipeline{}
}

// Process analyzes every table independently, using up to args.Threads
// workers, then joins and combines the per-file spectra. Each worker writes
// its provenance into the slot of its table, so the log is in table order
// whatever the number of workers.
func (p *pipeline) Process(ctx context.Context, args ProcessArgs) (m.RunResult, error) {
	if err := ValidateThreshold(args.Threshold); err != nil {
		return m.RunResult{}, err
	}

	files := make([]m.FileResult, len(args.Tables))
	provenance := pkg.NewSlotLog[m.ProvenanceRecord]("provenance", len(args.Tables))

	group, groupCtx := errgroup.WithContext(ctx)
	if args.Threads > 0 {
		group.SetLimit(args.Threads)
	}

	for i, table := range args.Tables {
		index, current := i, table

		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			result, records, err := processTable(current, args.Threshold)
			if err != nil {
				slog.Error("Failed to process scan table", "file", current.Filename, "error", err)
				return fmt.Errorf("process %s: %w", current.Filename, err)
			}

			if err := provenance.Put(index, records); err != nil {
				return fmt.Errorf("record provenance of %s: %w", current.Filename, err)
			}

			files[index] = result

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return m.RunResult{}, err
	}

	provenance.Seal()

	result := m.RunResult{
		Threshold:    args.Threshold,
		PhotonEnergy: args.PhotonEnergy,
		Mode:         args.Mode,
		Files:        files,
		Provenance:   provenance.Items(),
	}

	spectra := make([]m.Spectrum, 0, len(files))
	for _, file := range files {
		spectra = append(spectra, file.Spectrum)
	}

	if args.Mode.Combined() {
		combined, err := CombineSpectra(spectra)
		if err != nil {
			slog.Error("Failed to combine spectra", "files", len(spectra), "error", err)
			return result, err
		}

		result.Combined = &combined
	}

	slog.Debug("Pipeline finished",
		"files", len(result.Files),
		"datapoints", provenance.Len(),
		"excluded", result.ExcludedCount(),
	)

	return result, nil
}

func processTable(table m.ScanTable, threshold float64) (m.FileResult, []m.ProvenanceRecord, error) {
	analyzed, err := Analyze(table)
	if err != nil {
		return m.FileResult{}, nil, err
	}

	marked, records, err := ApplyThreshold(analyzed, threshold)
	if err != nil {
		return m.FileResult{}, nil, err
	}

	spectrum, err := FileSpectrum(marked)
	if err != nil {
		return m.FileResult{}, nil, err
	}

	partition := Partition(marked)

	slog.Debug("Processed scan table",
		"file", table.Filename,
		"datapoints", len(marked.Points),
		"sweeps", marked.SweepCount,
		"excluded", len(partition.Excluded),
	)

	return m.FileResult{
		Filename:   table.Filename,
		SweepCount: marked.SweepCount,
		Points:     len(marked.Points),
		MaxStdDev:  marked.MaxStdDev(),
		Spectrum:   spectrum,
		Partition:  partition,
	}, records, nil
}

// Inspect summarizes the sweep statistics of each table. When threshold is
// positive the number of points it would exclude is reported as well.
func Inspect(tables []m.ScanTable, threshold float64) ([]m.FileInspection, error) {
	inspections := make([]m.FileInspection, 0, len(tables))

	for _, table := range tables {
		analyzed, err := Analyze(table)
		if err != nil {
			return nil, fmt.Errorf("inspect %s: %w", table.Filename, err)
		}

		inspection := m.FileInspection{
			Filename:   table.Filename,
			Points:     len(analyzed.Points),
			SweepCount: analyzed.SweepCount,
			MaxStdDev:  analyzed.MaxStdDev(),
			Excluded:   -1,
		}

		if len(analyzed.Points) > 0 {
			inspection.MinStdDev = analyzed.Points[0].StdDev
		}

		total := 0.0

		for _, point := range analyzed.Points {
			total += point.StdDev
			if point.StdDev < inspection.MinStdDev {
				inspection.MinStdDev = point.StdDev
			}
		}

		if len(analyzed.Points) > 0 {
			inspection.MeanStdDev = total / float64(len(analyzed.Points))
		}

		if threshold > 0 {
			marked, _, err := ApplyThreshold(analyzed, threshold)
			if err != nil {
				return nil, err
			}

			inspection.Excluded = len(Partition(marked).Excluded)
		}

		inspections = append(inspections, inspection)
	}

	return inspections, nil
}
