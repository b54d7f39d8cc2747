// Package cmd provides the root command and CLI setup for xpsplot.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sharach/XPS-data-analysis-program/internal/adapter"
	"github.com/sharach/XPS-data-analysis-program/internal/controller"
	"github.com/sharach/XPS-data-analysis-program/internal/domain"
	m "github.com/sharach/XPS-data-analysis-program/internal/model"
)

var scanReader adapter.ScanReader
var reportStore adapter.ReportStore
var plotRenderer adapter.PlotRenderer
var workbookWriter adapter.WorkbookWriter
var pipeline domain.Pipeline
var workflow domain.Workflow
var ui controller.UI

// reportsOutputDirFlag is a root-level flag shared by commands that write reports.
var reportsOutputDirFlag string

// verboseFlag switches logging to debug level.
var verboseFlag bool

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	scanReader = adapter.NewLocalScanReader(viper.GetString(scanExtensionKey), viper.GetInt(scanHeaderLinesKey))
	reportStore = adapter.NewFileReportStore()
	plotRenderer = adapter.NewChartPlotRenderer()
	workbookWriter = adapter.NewExcelWorkbookWriter()
	pipeline = domain.NewPipeline()
	workflow = domain.NewWorkflow(
		scanReader,
		reportStore,
		plotRenderer,
		workbookWriter,
		ui,
		pipeline,
	)
}

const rootLongDescription = `xpsplot averages repeated-sweep XPS scan files.

For every energy point it computes the mean and the standard deviation across
sweeps, drops points whose standard deviation is above a threshold, and writes
a cleaned spectrum per file and one spectrum combining all files.

Scan files are read from a single folder (sub-folders are ignored).`

const runLongDescription = `Process every scan file in the folder (default: current directory).

Datapoints whose sweep standard deviation is above --threshold are excluded.
--mode selects the spectra to emit: individual (i), combined (f) or both (b).
Reports and plots are written to the --output directory, replacing the
previous run's files.`

const inspectLongDescription = `Show sweep counts and standard deviation ranges of the scan files in the
folder (default: current directory) to help choose a threshold. With
--threshold the number of datapoints it would exclude is shown as well.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "xpsplot",
		Short: "XPS sweep averaging with standard deviation filtering",
		Long:  rootLongDescription,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&reportsOutputDirFlag, outputFlagName, "o",
			defaultReportsDir,
			"output directory for reports and plots",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputConfigKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", defaultLogVerbose, "log at debug level")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// bindCommandFlags binds command-local flags when the command runs, so that
// commands sharing a config key each feed it from their own flag.
func bindCommandFlags(cmd *cobra.Command, keys map[string]string) error {
	for flagName, key := range keys {
		flag := cmd.Flags().Lookup(flagName)
		if flag == nil {
			return fmt.Errorf("flag %q for config key %q not found", flagName, key)
		}

		if err := viper.BindPFlag(key, flag); err != nil {
			return err
		}
	}

	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func parseFolder(args []string) m.Path {
	if len(args) == 0 || args[0] == "" {
		return m.Path(".")
	}

	return m.Path(args[0])
}
