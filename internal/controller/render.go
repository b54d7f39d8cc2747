package controller

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	m "github.com/sharach/XPS-data-analysis-program/internal/model"
)

func formatStd(value float64) string {
	return strconv.FormatFloat(value, 'f', 3, 64)
}

func renderRunTable(result m.RunResult) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"File", "Sweeps", "Datapoints", "Included", "Excluded", "Max Std"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
	})

	included := 0

	for _, file := range result.Files {
		included += len(file.Partition.Included)
		table.Append([]string{
			file.Filename,
			strconv.Itoa(file.SweepCount),
			strconv.Itoa(file.Points),
			strconv.Itoa(len(file.Partition.Included)),
			strconv.Itoa(len(file.Partition.Excluded)),
			formatStd(file.MaxStdDev),
		})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", len(result.Files)),
		"",
		strconv.Itoa(len(result.Provenance)),
		strconv.Itoa(included),
		strconv.Itoa(result.ExcludedCount()),
		formatStd(result.MaxStdDev()),
	})

	table.Render()

	return tableBuffer.String()
}

func renderInspectionTable(inspections []m.FileInspection, threshold float64) string {
	var tableBuffer bytes.Buffer

	header := []string{"File", "Sweeps", "Datapoints", "Min Std", "Mean Std", "Max Std"}
	if threshold > 0 {
		header = append(header, "Excluded")
	}

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetCenterSeparator("")

	for _, inspection := range inspections {
		row := []string{
			inspection.Filename,
			strconv.Itoa(inspection.SweepCount),
			strconv.Itoa(inspection.Points),
			formatStd(inspection.MinStdDev),
			formatStd(inspection.MeanStdDev),
			formatStd(inspection.MaxStdDev),
		}

		if threshold > 0 {
			row = append(row, strconv.Itoa(inspection.Excluded))
		}

		table.Append(row)
	}

	table.Render()

	return tableBuffer.String()
}

// runNotes returns the closing hints of a run.
func runNotes(result m.RunResult) []string {
	notes := []string{
		fmt.Sprintf("Highest standard deviation in the set: %s", formatStd(result.MaxStdDev())),
	}

	var singleSweep []string

	for _, file := range result.Files {
		if file.SweepCount == 1 {
			singleSweep = append(singleSweep, file.Filename)
		}
	}

	if len(singleSweep) > 0 {
		notes = append(notes, fmt.Sprintf(
			"Single-sweep files cannot be improved by filtering, collect more sweeps: %s",
			strings.Join(singleSweep, ", "),
		))
	}

	if result.Combined != nil {
		notes = append(notes, fmt.Sprintf("Combined spectrum: %d energies", result.Combined.Len()))
	}

	return notes
}
