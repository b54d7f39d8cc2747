package controller

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	m "github.com/sharach/XPS-data-analysis-program/internal/model"
)

// SimpleUI implements UI using cobra Command's output stream.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, _ ...StartOption) error {
	return ctx.Err()
}

// Close finalizes the UI.
func (s *SimpleUI) Close(_ context.Context) {}

// Wait blocks until the UI is closed (no-op for SimpleUI).
func (s *SimpleUI) Wait(_ context.Context) {}

// DisplayRunInfo prints the run parameters.
func (s *SimpleUI) DisplayRunInfo(ctx context.Context, info RunInfo) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Processing %d scan file(s) in %s\n", info.Files, info.Folder)
	s.printf("Threshold: %g | Photon energy: %g eV | Output: %s | Workers: %d\n",
		info.Threshold, info.PhotonEnergy, info.Mode, info.Threads)
}

// DisplayFileProgress prints which file is being processed.
func (s *SimpleUI) DisplayFileProgress(ctx context.Context, filename string) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Reading %s\n", filename)
}

// DisplayRunResult prints the per-file table, closing notes and written files.
func (s *SimpleUI) DisplayRunResult(ctx context.Context, result m.RunResult, written []m.Path) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("\n%s\n", renderRunTable(result))

	for _, note := range runNotes(result) {
		s.printf("%s\n", note)
	}

	if len(written) > 0 {
		s.printf("\nWrote %d report file(s):\n", len(written))

		for _, path := range written {
			s.printf("  %s\n", path)
		}
	}

	return nil
}

// DisplayInspection prints the per-file statistics table.
func (s *SimpleUI) DisplayInspection(ctx context.Context, inspections []m.FileInspection, threshold float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(inspections) == 0 {
		s.printf("No scan files found\n")
		return nil
	}

	s.printf("\n%s", renderInspectionTable(inspections, threshold))

	return nil
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
