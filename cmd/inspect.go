package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sharach/XPS-data-analysis-program/internal/domain"
)

var inspectThresholdFlag float64

// inspectCmd represents the inspect command.
var inspectCmd = newInspectCmd()

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [folder]",
		Short: "Show sweep statistics of scan files",
		Long:  inspectLongDescription,
		Args:  cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return bindCommandFlags(cmd, map[string]string{
				thresholdFlagName: thresholdConfigKey,
			})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.Inspect(cmd.Context(), domain.InspectArgs{
				Folder:    parseFolder(args),
				Threshold: viper.GetFloat64(thresholdConfigKey),
			})
		},
	}

	cmd.Flags().Float64VarP(&inspectThresholdFlag, thresholdFlagName, "t", defaultThreshold, "count the datapoints this threshold would exclude")

	return cmd
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
