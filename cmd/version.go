package cmd

import (
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

const modulePath = "github.com/sharach/XPS-data-analysis-program"

// buildVersion returns the module version of the running binary, "devel" for
// local builds and "unknown" without build info.
func buildVersion() (version, module, goVersion string) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown", modulePath, runtime.Version()
	}

	version, module = info.Main.Version, info.Main.Path
	if version == "" || version == "(devel)" {
		version = "devel"
	}

	if module == "" {
		module = modulePath
	}

	return version, module, info.GoVersion
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the xpsplot version",
		Long:  "Displays the xpsplot build version, its module path and the Go version used to build it.",
		Run: func(cmd *cobra.Command, _ []string) {
			version, module, goVersion := buildVersion()

			cmd.Printf("xpsplot %s\n", version)
			cmd.Printf("module  %s\n", module)
			cmd.Printf("go      %s\n", goVersion)
		},
	}
}

// versionCmd represents the version command.
var versionCmd = newVersionCmd()

func init() {
	rootCmd.AddCommand(versionCmd)
}
