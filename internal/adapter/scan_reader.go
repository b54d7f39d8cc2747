// Package adapter contains the filesystem adapters of xpsplot: reading scan
// files and writing reports, workbooks and plots.
package adapter

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	m "github.com/sharach/XPS-data-analysis-program/internal/model"
)

const (
	// DefaultScanExtension is the extension of exported scan files.
	DefaultScanExtension = ".dat"
	// DefaultHeaderLines is the number of column header lines of a scan file.
	DefaultHeaderLines = 1

	maxLineSize = 1024 * 1024
)

// ScanReader lists and parses scan files.
type ScanReader interface {
	// List returns the scan files directly inside dir (no sub-directories),
	// in lexical order.
	List(ctx context.Context, dir m.Path) ([]m.Path, error)

	// Read parses one scan file.
	Read(ctx context.Context, path m.Path) (m.ScanTable, error)
}

// LocalScanReader reads delimited scan files from the local disk.
type LocalScanReader struct {
	extension   string
	headerLines int
}

// NewLocalScanReader constructs a LocalScanReader. An empty extension or a
// negative header count falls back to the defaults.
func NewLocalScanReader(extension string, headerLines int) *LocalScanReader {
	extension = strings.TrimSpace(extension)
	if extension == "" {
		extension = DefaultScanExtension
	}

	if !strings.HasPrefix(extension, ".") {
		extension = "." + extension
	}

	if headerLines < 0 {
		headerLines = DefaultHeaderLines
	}

	return &LocalScanReader{extension: extension, headerLines: headerLines}
}

// List implements ScanReader.
func (r *LocalScanReader) List(ctx context.Context, dir m.Path) ([]m.Path, error) {
	root := string(dir)

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("scan folder: %w", err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("scan folder: %s is not a directory", root)
	}

	var paths []m.Path

	err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		if entry.IsDir() {
			if path != root {
				return filepath.SkipDir
			}

			return nil
		}

		if strings.EqualFold(filepath.Ext(path), r.extension) {
			paths = append(paths, m.Path(path))
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Debug("Listed scan files", "folder", root, "extension", r.extension, "count", len(paths))

	return paths, nil
}

// Read implements ScanReader.
func (r *LocalScanReader) Read(ctx context.Context, path m.Path) (m.ScanTable, error) {
	if err := ctx.Err(); err != nil {
		return m.ScanTable{}, err
	}

	// #nosec G304 - path comes from List over the user's scan folder
	file, err := os.Open(string(path))
	if err != nil {
		return m.ScanTable{}, fmt.Errorf("open scan file: %w", err)
	}

	defer func() { _ = file.Close() }()

	table, err := ParseScan(filepath.Base(string(path)), file, r.headerLines)
	if err != nil {
		return m.ScanTable{}, err
	}

	table.Path = path

	return table, nil
}

// ParseScan parses a scan file. After headerLines header lines every
// non-blank line holds the kinetic energy followed by one reading per sweep
// and, when there is more than one reading column, a trailing sum column.
// Tabs, commas, semicolons and spaces all separate columns.
func ParseScan(filename string, reader io.Reader, headerLines int) (m.ScanTable, error) {
	table := m.ScanTable{Filename: filename, DataPoints: []m.DataPoint{}}

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNumber := 0
	index := 0

	for scanner.Scan() {
		lineNumber++

		if lineNumber <= headerLines {
			continue
		}

		fields := strings.FieldsFunc(scanner.Text(), isColumnDelimiter)
		if len(fields) == 0 {
			continue
		}

		values, err := parseColumns(fields)
		if err != nil {
			return m.ScanTable{}, &m.RowError{Filename: filename, LineNumber: lineNumber, Err: m.ErrMalformedRow, Detail: err.Error()}
		}

		if len(values) < 2 {
			return m.ScanTable{}, &m.RowError{Filename: filename, LineNumber: lineNumber, Err: m.ErrMalformedRow, Detail: "no sweep values"}
		}

		index++
		table.DataPoints = append(table.DataPoints, newDataPoint(lineNumber, index, values))
	}

	if err := scanner.Err(); err != nil {
		return m.ScanTable{}, fmt.Errorf("read %s: %w", filename, err)
	}

	slog.Debug("Parsed scan file", "file", filename, "datapoints", len(table.DataPoints))

	return table, nil
}

func newDataPoint(lineNumber, index int, values []float64) m.DataPoint {
	point := m.DataPoint{
		LineNumber: lineNumber,
		Index:      index,
		Energy:     values[0],
	}

	readings := values[1:]
	if len(readings) == 1 {
		point.SweepValues = readings

		return point
	}

	sum := readings[len(readings)-1]
	point.SweepValues = readings[:len(readings)-1]
	point.SumValue = &sum

	return point
}

func parseColumns(fields []string) ([]float64, error) {
	values := make([]float64, 0, len(fields))

	for i, field := range fields {
		value, err := strconv.ParseFloat(field, 64)
		if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
			return nil, fmt.Errorf("column %d: %q is not a number", i+1, field)
		}

		values = append(values, value)
	}

	return values, nil
}

func isColumnDelimiter(r rune) bool {
	switch r {
	case '\t', ',', ';', ' ', '\r':
		return true
	}

	return false
}
