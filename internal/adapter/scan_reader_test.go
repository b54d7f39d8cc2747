package adapter

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/sharach/XPS-data-analysis-program/internal/model"
)

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestParseScan(t *testing.T) {
	t.Run("multi sweep rows carry a sum column", func(t *testing.T) {
		input := "KE\tS1\tS2\tS3\tSum\n100\t10\t12\t11\t33\n100.5\t4\t4\t4\t12\n"

		table, err := ParseScan("a.dat", strings.NewReader(input), 1)
		require.NoError(t, err)

		assert.Equal(t, "a.dat", table.Filename)
		require.Len(t, table.DataPoints, 2)

		first := table.DataPoints[0]
		assert.Equal(t, 2, first.LineNumber)
		assert.Equal(t, 1, first.Index)
		assert.Equal(t, 100.0, first.Energy)
		assert.Equal(t, []float64{10, 12, 11}, first.SweepValues)
		require.NotNil(t, first.SumValue)
		assert.Equal(t, 33.0, *first.SumValue)
		assert.Equal(t, 3, first.SweepCount())

		assert.Equal(t, 3, table.DataPoints[1].LineNumber)
		assert.Equal(t, 2, table.DataPoints[1].Index)
	})

	t.Run("single sweep rows have no sum", func(t *testing.T) {
		table, err := ParseScan("single.dat", strings.NewReader("KE\tS1\n100\t7\n101\t8\n"), 1)
		require.NoError(t, err)

		require.Len(t, table.DataPoints, 2)
		assert.Equal(t, []float64{7}, table.DataPoints[0].SweepValues)
		assert.Nil(t, table.DataPoints[0].SumValue)
	})

	t.Run("two reading columns are one sweep and its sum", func(t *testing.T) {
		table, err := ParseScan("one.dat", strings.NewReader("KE\tS1\tSum\n100\t7\t7\n"), 1)
		require.NoError(t, err)

		assert.Equal(t, []float64{7}, table.DataPoints[0].SweepValues)
		require.NotNil(t, table.DataPoints[0].SumValue)
	})

	t.Run("accepts alternative delimiters", func(t *testing.T) {
		inputs := map[string]string{
			"comma":     "KE,S1,S2,Sum\n100,1,3,4\n",
			"semicolon": "KE;S1;S2;Sum\n100;1;3;4\n",
			"space":     "KE S1 S2 Sum\n100  1 3   4\n",
			"mixed":     "KE S1 S2 Sum\r\n100,\t1; 3\t4\t\r\n",
			"trailing":  "KE\tS1\tS2\tSum\n100\t1\t3\t4\t\n",
		}

		for name, input := range inputs {
			t.Run(name, func(t *testing.T) {
				table, err := ParseScan("d.dat", strings.NewReader(input), 1)
				require.NoError(t, err)
				require.Len(t, table.DataPoints, 1)
				assert.Equal(t, []float64{1, 3}, table.DataPoints[0].SweepValues)
				assert.Equal(t, 4.0, *table.DataPoints[0].SumValue)
			})
		}
	})

	t.Run("blank lines are skipped but counted", func(t *testing.T) {
		table, err := ParseScan("b.dat", strings.NewReader("KE\tS1\n\n100\t1\n   \n101\t2\n"), 1)
		require.NoError(t, err)

		require.Len(t, table.DataPoints, 2)
		assert.Equal(t, 3, table.DataPoints[0].LineNumber)
		assert.Equal(t, 1, table.DataPoints[0].Index)
		assert.Equal(t, 5, table.DataPoints[1].LineNumber)
		assert.Equal(t, 2, table.DataPoints[1].Index)
	})

	t.Run("header lines are configurable", func(t *testing.T) {
		table, err := ParseScan("h.dat", strings.NewReader("title\nKE\tS1\n100\t1\n"), 2)
		require.NoError(t, err)
		require.Len(t, table.DataPoints, 1)
		assert.Equal(t, 3, table.DataPoints[0].LineNumber)

		table, err = ParseScan("h.dat", strings.NewReader("100\t1\n"), 0)
		require.NoError(t, err)
		assert.Equal(t, 1, table.DataPoints[0].LineNumber)
	})

	t.Run("header only file is empty", func(t *testing.T) {
		table, err := ParseScan("e.dat", strings.NewReader("KE\tS1\tS2\tSum\n"), 1)
		require.NoError(t, err)
		assert.Empty(t, table.DataPoints)
	})

	t.Run("malformed rows", func(t *testing.T) {
		tests := []struct {
			name  string
			input string
			line  int
		}{
			{"non numeric", "KE\tS1\n100\t1\n101\tx\n", 3},
			{"energy only", "KE\tS1\n100\n", 2},
			{"nan", "KE\tS1\n100\tNaN\n", 2},
			{"inf", "KE\tS1\n100\t+Inf\n", 2},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := ParseScan("bad.dat", strings.NewReader(tt.input), 1)
				require.Error(t, err)
				assert.ErrorIs(t, err, m.ErrMalformedRow)

				var rowErr *m.RowError
				require.True(t, errors.As(err, &rowErr))
				assert.Equal(t, "bad.dat", rowErr.Filename)
				assert.Equal(t, tt.line, rowErr.LineNumber)
			})
		}
	})
}

func TestLocalScanReader(t *testing.T) {
	ctx := context.Background()

	t.Run("lists scan files of the folder only in lexical order", func(t *testing.T) {
		root := t.TempDir()
		writeTestFile(t, filepath.Join(root, "b.dat"), "KE\tS1\n1\t1\n")
		writeTestFile(t, filepath.Join(root, "a.DAT"), "KE\tS1\n1\t1\n")
		writeTestFile(t, filepath.Join(root, "c.txt"), "ignored")
		require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0o750))
		writeTestFile(t, filepath.Join(root, "sub", "d.dat"), "KE\tS1\n1\t1\n")

		paths, err := NewLocalScanReader("", -1).List(ctx, m.Path(root))
		require.NoError(t, err)

		assert.Equal(t, []m.Path{
			m.Path(filepath.Join(root, "a.DAT")),
			m.Path(filepath.Join(root, "b.dat")),
		}, paths)
	})

	t.Run("custom extension without dot", func(t *testing.T) {
		root := t.TempDir()
		writeTestFile(t, filepath.Join(root, "a.csv"), "KE,S1\n1,1\n")
		writeTestFile(t, filepath.Join(root, "b.dat"), "KE\tS1\n1\t1\n")

		paths, err := NewLocalScanReader("csv", 1).List(ctx, m.Path(root))
		require.NoError(t, err)
		assert.Equal(t, []m.Path{m.Path(filepath.Join(root, "a.csv"))}, paths)
	})

	t.Run("missing folder", func(t *testing.T) {
		_, err := NewLocalScanReader("", 1).List(ctx, m.Path(filepath.Join(t.TempDir(), "missing")))
		assert.Error(t, err)
	})

	t.Run("folder is a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "a.dat")
		writeTestFile(t, path, "")

		_, err := NewLocalScanReader("", 1).List(ctx, m.Path(path))
		assert.Error(t, err)
	})

	t.Run("reads a file with its base name", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "scan.dat")
		writeTestFile(t, path, "KE\tS1\tS2\tSum\n100\t1\t3\t4\n")

		table, err := NewLocalScanReader("", 1).Read(ctx, m.Path(path))
		require.NoError(t, err)

		assert.Equal(t, "scan.dat", table.Filename)
		assert.Equal(t, m.Path(path), table.Path)
		assert.Len(t, table.DataPoints, 1)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := NewLocalScanReader("", 1).Read(cancelled, m.Path("unused.dat"))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestLocalScanReader_SampleExports(t *testing.T) {
	ctx := context.Background()
	reader := NewLocalScanReader(DefaultScanExtension, DefaultHeaderLines)

	paths, err := reader.List(ctx, m.Path(filepath.Join("testdata", "scans")))
	require.NoError(t, err)
	require.Len(t, paths, 2)

	first, err := reader.Read(ctx, paths[0])
	require.NoError(t, err)
	assert.Equal(t, "au4f_1.dat", first.Filename)
	require.Len(t, first.DataPoints, 4)
	assert.Equal(t, 3, first.DataPoints[2].SweepCount())
	assert.Equal(t, 1398.2, first.DataPoints[2].Energy)

	second, err := reader.Read(ctx, paths[1])
	require.NoError(t, err)
	assert.Equal(t, "au4f_2.dat", second.Filename)
	assert.Equal(t, 2, second.DataPoints[0].SweepCount())
	assert.Equal(t, 2420.0, *second.DataPoints[0].SumValue)
}
