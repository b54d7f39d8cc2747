package cmd

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// initLongDescription lists the keys written by init.
const initLongDescription = `Create xpsplot.yaml in the current working directory with the current
settings, so they can be edited instead of repeated on every run.

Keys written:
  threshold            standard deviation threshold (must be set before run)
  photon_energy        photon energy in eV; 0 plots kinetic energy
  mode                 individual, combined or both
  output               reports and plots directory
  run.parallel         files processed in parallel
  scan.extension       extension of scan files (.dat)
  scan.header_lines    header lines skipped in each scan file
  report.workbook      also write reports.xlsx
  plot.width           plot width in pixels
  plot.height          plot height in pixels
  log.*                log file, level and rotation

An existing xpsplot.yaml is never overwritten.`

// initCmd represents the init command.
var initCmd = newInitCmd()

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default xpsplot.yaml configuration file",
		Long:  initLongDescription,
		RunE: func(cmd *cobra.Command, _ []string) error {
			targetPath := filepath.Join(configFolderPath, configFileName)

			err := viper.SafeWriteConfigAs(targetPath)
			if err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}

			keys := viper.AllKeys()
			slices.Sort(keys)

			cmd.Printf("Wrote %s with %d keys:\n", targetPath, len(keys))

			for _, key := range keys {
				cmd.Printf("  %s: %v\n", key, viper.Get(key))
			}

			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(initCmd)
}
