package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sharach/XPS-data-analysis-program/internal/domain"
)

// useTestLog sends log output of executed commands to a temporary file.
func useTestLog(t *testing.T) {
	t.Helper()

	viper.Set(logFilenameKey, filepath.Join(t.TempDir(), "test.log"))
	t.Cleanup(func() { viper.Set(logFilenameKey, defaultLogFilename) })
}

// useWorkflow swaps the package workflow for the duration of a test.
func useWorkflow(t *testing.T, wf domain.Workflow) {
	t.Helper()

	original := workflow
	workflow = wf
	t.Cleanup(func() { workflow = original })
}

func newTestRoot(sub ...*cobra.Command) (*cobra.Command, *bytes.Buffer) {
	out := &bytes.Buffer{}

	cmd := newRootCmd()
	cmd.AddCommand(sub...)
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})

	return cmd, out
}

// chdirForTest changes the working directory for the duration of a test.
func chdirForTest(t *testing.T, dir string) {
	t.Helper()

	original, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(original); err != nil {
			t.Fatal(err)
		}
	})
}
