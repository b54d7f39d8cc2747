package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sharach/XPS-data-analysis-program/internal/domain"
	m "github.com/sharach/XPS-data-analysis-program/internal/model"
)

var runThresholdFlag float64
var runPhotonEnergyFlag float64
var runModeFlag string
var runParallelFlag int
var runWorkbookFlag bool

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [folder]",
		Short: "Average scan files and write filtered spectra",
		Long:  runLongDescription,
		Args:  cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return bindCommandFlags(cmd, map[string]string{
				thresholdFlagName:    thresholdConfigKey,
				photonEnergyFlagName: photonEnergyConfigKey,
				modeFlagName:         modeConfigKey,
				runParallelFlagName:  runParallelConfigKey,
				workbookFlagName:     workbookConfigKey,
			})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := m.ParseOutputMode(viper.GetString(modeConfigKey))
			if err != nil {
				return err
			}

			return workflow.Run(cmd.Context(), domain.RunArgs{
				Folder:       parseFolder(args),
				Reports:      m.Path(viper.GetString(outputConfigKey)),
				Threshold:    viper.GetFloat64(thresholdConfigKey),
				PhotonEnergy: viper.GetFloat64(photonEnergyConfigKey),
				Mode:         mode,
				Threads:      viper.GetInt(runParallelConfigKey),
				Workbook:     viper.GetBool(workbookConfigKey),
				PlotWidth:    viper.GetInt(plotWidthKey),
				PlotHeight:   viper.GetInt(plotHeightKey),
			})
		},
	}

	configureRunFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func configureRunFlags(cmd *cobra.Command) {
	cmd.Flags().Float64VarP(&runThresholdFlag, thresholdFlagName, "t", defaultThreshold, "standard deviation threshold; datapoints above it are excluded (must be positive)")
	cmd.Flags().Float64VarP(&runPhotonEnergyFlag, photonEnergyFlagName, "e", defaultPhotonEnergy, "photon energy in eV; plots use binding energy when set")
	cmd.Flags().StringVarP(&runModeFlag, modeFlagName, "m", defaultMode, "output spectra: individual (i), combined (f) or both (b)")
	cmd.Flags().IntVarP(&runParallelFlag, runParallelFlagName, "p", defaultRunParallel, "number of files processed in parallel")
	cmd.Flags().BoolVar(&runWorkbookFlag, workbookFlagName, defaultWorkbook, "also write the reports as an .xlsx workbook")
}
