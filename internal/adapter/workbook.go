package adapter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	m "github.com/sharach/XPS-data-analysis-program/internal/model"
)

const (
	stdDevSheet   = "StdDev"
	includedSheet = "Included"
	excludedSheet = "Excluded"
	combinedSheet = "Combined"
	defaultSheet  = "Sheet1"
)

// WorkbookWriter exports the reports of a run as a spreadsheet.
type WorkbookWriter interface {
	Write(ctx context.Context, path m.Path, result m.RunResult) error
}

// ExcelWorkbookWriter writes .xlsx workbooks.
type ExcelWorkbookWriter struct{}

// NewExcelWorkbookWriter constructs an ExcelWorkbookWriter.
func NewExcelWorkbookWriter() *ExcelWorkbookWriter {
	return &ExcelWorkbookWriter{}
}

// Write implements WorkbookWriter. The workbook always has a StdDev sheet;
// Included/Excluded sheets follow the individual output and a Combined sheet
// the combined output.
func (w *ExcelWorkbookWriter) Write(ctx context.Context, path m.Path, result m.RunResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	book := excelize.NewFile()

	defer func() {
		if err := book.Close(); err != nil {
			slog.Error("Failed to close workbook", "path", path, "error", err)
		}
	}()

	if err := book.SetSheetName(defaultSheet, stdDevSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	rows := [][]interface{}{{"filename", "datapoint", "line", "std_dev", "included"}}
	for _, record := range result.Provenance {
		rows = append(rows, []interface{}{record.Filename, record.Index, record.LineNumber, record.StdDev, record.Included})
	}

	if err := writeSheet(book, stdDevSheet, rows); err != nil {
		return err
	}

	if result.Mode.Individual() {
		if err := writeSheet(book, includedSheet, partitionRows(result.Files, true)); err != nil {
			return err
		}

		if err := writeSheet(book, excludedSheet, partitionRows(result.Files, false)); err != nil {
			return err
		}
	}

	if result.Mode.Combined() && result.Combined != nil {
		combined := [][]interface{}{{"energy", "intensity", "files"}}
		for i, point := range result.Combined.Points {
			combined = append(combined, []interface{}{point.Energy, point.Intensity, result.Combined.Contributors[i]})
		}

		if err := writeSheet(book, combinedSheet, combined); err != nil {
			return err
		}
	}

	if err := book.SaveAs(string(path)); err != nil {
		slog.Error("Failed to save workbook", "path", path, "error", err)
		return fmt.Errorf("save workbook: %w", err)
	}

	slog.Debug("Saved workbook", "path", path)

	return nil
}

func partitionRows(files []m.FileResult, included bool) [][]interface{} {
	rows := [][]interface{}{{"filename", "datapoint", "line", "energy", "mean_intensity", "std_dev"}}

	for _, file := range files {
		entries := file.Partition.Excluded
		if included {
			entries = file.Partition.Included
		}

		for _, entry := range entries {
			rows = append(rows, []interface{}{file.Filename, entry.Index, entry.LineNumber, entry.Energy, entry.Mean, entry.StdDev})
		}
	}

	return rows
}

func writeSheet(book *excelize.File, sheet string, rows [][]interface{}) error {
	if index, err := book.GetSheetIndex(sheet); err != nil || index < 0 {
		if _, err := book.NewSheet(sheet); err != nil {
			return fmt.Errorf("create sheet %s: %w", sheet, err)
		}
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}

		values := row
		if err := book.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write sheet %s row %d: %w", sheet, i+1, err)
		}
	}

	return nil
}
