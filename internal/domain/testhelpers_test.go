package domain

import (
	m "github.com/sharach/XPS-data-analysis-program/internal/model"
)

type row struct {
	energy float64
	sweeps []float64
}

// newTable builds a scan table with one header line, so the first datapoint
// sits on line 2.
func newTable(filename string, rows ...row) m.ScanTable {
	table := m.ScanTable{Filename: filename, DataPoints: []m.DataPoint{}}

	for i, r := range rows {
		point := m.DataPoint{
			LineNumber:  i + 2,
			Index:       i + 1,
			Energy:      r.energy,
			SweepValues: r.sweeps,
		}

		if len(r.sweeps) > 1 {
			sum := 0.0
			for _, v := range r.sweeps {
				sum += v
			}

			point.SumValue = &sum
		}

		table.DataPoints = append(table.DataPoints, point)
	}

	return table
}

// wideTable is a two-sweep dataset whose largest standard deviation is
// 217.726. With two sweeps the population standard deviation is half the
// distance between the readings.
func wideTable() m.ScanTable {
	return newTable("wide.dat",
		row{energy: 480.0, sweeps: []float64{100, 102}},   // 1
		row{energy: 480.5, sweeps: []float64{150, 190}},   // 20
		row{energy: 481.0, sweeps: []float64{0, 435.452}}, // 217.726
		row{energy: 481.5, sweeps: []float64{210, 280}},   // 35
		row{energy: 482.0, sweeps: []float64{300, 390}},   // 45
		row{energy: 482.5, sweeps: []float64{400, 420}},   // 10
	)
}
