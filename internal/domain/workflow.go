// Package domain implements sweep statistics, threshold exclusion and
// spectrum aggregation, and the workflows that drive them.
package domain

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/sharach/XPS-data-analysis-program/internal/adapter"
	"github.com/sharach/XPS-data-analysis-program/internal/controller"
	m "github.com/sharach/XPS-data-analysis-program/internal/model"
)

// RunArgs contains the arguments of a full run.
type RunArgs struct {
	Folder       m.Path
	Reports      m.Path
	Threshold    float64
	PhotonEnergy float64
	Mode         m.OutputMode
	Threads      int
	Workbook     bool
	PlotWidth    int
	PlotHeight   int
}

// InspectArgs contains the arguments of an inspection. A zero threshold
// skips the exclusion counts.
type InspectArgs struct {
	Folder    m.Path
	Threshold float64
}

// Workflow drives reading, processing and reporting.
type Workflow interface {
	Run(ctx context.Context, args RunArgs) error
	Inspect(ctx context.Context, args InspectArgs) error
}

type workflow struct {
	adapter.ScanReader
	adapter.ReportStore
	adapter.PlotRenderer
	adapter.WorkbookWriter
	controller.UI
	Pipeline
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	scanReader adapter.ScanReader,
	reportStore adapter.ReportStore,
	plotRenderer adapter.PlotRenderer,
	workbookWriter adapter.WorkbookWriter,
	ui controller.UI,
	pipeline Pipeline,
) Workflow {
	return &workflow{
		ScanReader:     scanReader,
		ReportStore:    reportStore,
		PlotRenderer:   plotRenderer,
		WorkbookWriter: workbookWriter,
		UI:             ui,
		Pipeline:       pipeline,
	}
}

func validateRunArgs(args RunArgs) error {
	if err := ValidateThreshold(args.Threshold); err != nil {
		return err
	}

	if err := ValidatePhotonEnergy(args.PhotonEnergy); err != nil {
		return err
	}

	if _, err := m.ParseOutputMode(string(args.Mode)); err != nil {
		return err
	}

	return nil
}

// Run validates the arguments before touching any file, then reads every
// scan file of the folder, processes them and writes reports and plots.
func (w *workflow) Run(ctx context.Context, args RunArgs) error {
	if err := validateRunArgs(args); err != nil {
		slog.Error("Invalid run arguments", "error", err)
		return err
	}

	mode, _ := m.ParseOutputMode(string(args.Mode))
	args.Mode = mode

	if err := w.Start(ctx, controller.WithRunMode()); err != nil {
		slog.Error("Failed to start workflow UI", "error", err)
		return err
	}
	defer w.Close(ctx)

	paths, err := w.List(ctx, args.Folder)
	if err != nil {
		slog.Error("Failed to list scan files", "folder", args.Folder, "error", err)
		return fmt.Errorf("list scan files: %w", err)
	}

	w.DisplayRunInfo(ctx, controller.RunInfo{
		Folder:       args.Folder,
		Files:        len(paths),
		Threshold:    args.Threshold,
		PhotonEnergy: args.PhotonEnergy,
		Mode:         args.Mode,
		Threads:      args.Threads,
	})

	if len(paths) == 0 && args.Mode.Combined() {
		slog.Error("No scan files for combined spectrum", "folder", args.Folder)
		return fmt.Errorf("no scan files in %s: %w", args.Folder, m.ErrEmptyFileSet)
	}

	if err := w.Reset(ctx, args.Reports); err != nil {
		return fmt.Errorf("reset reports: %w", err)
	}

	tables, err := w.readTables(ctx, paths)
	if err != nil {
		return err
	}

	if args.Mode.Combined() && !SameEnergyGrid(tables) {
		slog.Warn("Scan files do not share one energy grid; combined spectrum coverage varies by energy",
			"files", len(tables))
	}

	result, err := w.Process(ctx, ProcessArgs{
		Tables:       tables,
		Threshold:    args.Threshold,
		PhotonEnergy: args.PhotonEnergy,
		Mode:         args.Mode,
		Threads:      args.Threads,
	})
	if err != nil {
		return fmt.Errorf("process scan files: %w", err)
	}

	written, err := w.emit(ctx, args, result)
	if err != nil {
		return err
	}

	slog.Info("Run finished",
		"files", len(result.Files),
		"datapoints", len(result.Provenance),
		"excluded", result.ExcludedCount(),
		"maxStdDev", result.MaxStdDev(),
	)

	w.Wait(ctx)

	return w.DisplayRunResult(ctx, result, written)
}

func (w *workflow) readTables(ctx context.Context, paths []m.Path) ([]m.ScanTable, error) {
	tables := make([]m.ScanTable, 0, len(paths))

	for _, path := range paths {
		w.DisplayFileProgress(ctx, filepath.Base(string(path)))

		table, err := w.Read(ctx, path)
		if err != nil {
			slog.Error("Failed to read scan file", "path", path, "error", err)
			return nil, fmt.Errorf("read scan file: %w", err)
		}

		tables = append(tables, table)
	}

	return tables, nil
}

func (w *workflow) emit(ctx context.Context, args RunArgs, result m.RunResult) ([]m.Path, error) {
	written, err := w.SaveRun(ctx, args.Reports, result)
	if err != nil {
		return written, fmt.Errorf("save reports: %w", err)
	}

	options := adapter.PlotOptions{
		PhotonEnergy: args.PhotonEnergy,
		Width:        args.PlotWidth,
		Height:       args.PlotHeight,
	}

	if args.Mode.Individual() {
		for _, file := range result.Files {
			path := m.Path(filepath.Join(string(args.Reports), adapter.SpectrumBaseName(file.Filename)+".png"))
			options.Title = "Figure for " + file.Filename

			if err := w.Render(ctx, path, file.Spectrum, options); err != nil {
				return written, fmt.Errorf("plot %s: %w", file.Filename, err)
			}

			written = append(written, path)
		}
	}

	if args.Mode.Combined() && result.Combined != nil {
		path := m.Path(filepath.Join(string(args.Reports), adapter.CombinedSpectrumFile+".png"))
		options.Title = "Final combined plot"

		if err := w.Render(ctx, path, result.Combined.Spectrum, options); err != nil {
			return written, fmt.Errorf("plot combined spectrum: %w", err)
		}

		written = append(written, path)
	}

	if args.Workbook {
		path := m.Path(filepath.Join(string(args.Reports), adapter.WorkbookFile))
		if err := w.Write(ctx, path, result); err != nil {
			return written, fmt.Errorf("write workbook: %w", err)
		}

		written = append(written, path)
	}

	return written, nil
}

// Inspect reads every scan file of the folder and shows its sweep
// statistics without writing anything.
func (w *workflow) Inspect(ctx context.Context, args InspectArgs) error {
	if args.Threshold != 0 {
		if err := ValidateThreshold(args.Threshold); err != nil {
			return err
		}
	}

	if err := w.Start(ctx, controller.WithInspectMode()); err != nil {
		slog.Error("Failed to start workflow UI", "error", err)
		return err
	}
	defer w.Close(ctx)

	paths, err := w.List(ctx, args.Folder)
	if err != nil {
		return fmt.Errorf("list scan files: %w", err)
	}

	tables, err := w.readTables(ctx, paths)
	if err != nil {
		return err
	}

	inspections, err := Inspect(tables, args.Threshold)
	if err != nil {
		slog.Error("Failed to inspect scan files", "error", err)
		return err
	}

	w.Wait(ctx)

	return w.DisplayInspection(ctx, inspections, args.Threshold)
}
