package cmd

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigConstants(t *testing.T) {
	assert.Equal(t, "xpsplot", configBaseName)
	assert.Equal(t, "xpsplot.yaml", configFileName)
	assert.Equal(t, ".", configFolderPath)
	assert.Equal(t, "output", outputFlagName)
	assert.Equal(t, "threshold", thresholdFlagName)
	assert.Equal(t, "photon-energy", photonEnergyFlagName)
	assert.Equal(t, "photon_energy", photonEnergyConfigKey)
	assert.Equal(t, "parallel", runParallelFlagName)
	assert.Equal(t, "run.parallel", runParallelConfigKey)
	assert.Equal(t, "xps-reports", defaultReportsDir)
	assert.Equal(t, "both", defaultMode)
	assert.Equal(t, 1, defaultRunParallel)
	assert.Equal(t, "XPSPLOT", envPrefix)
}

func TestConfigVersionConstants(t *testing.T) {
	assert.Equal(t, "version", configVersionKey)
	assert.Equal(t, 1, currentConfigVersion)
}

func TestConfigDefaults(t *testing.T) {
	assert.Equal(t, ".dat", viper.GetString(scanExtensionKey))
	assert.Equal(t, 1, viper.GetInt(scanHeaderLinesKey))
	assert.True(t, viper.GetBool(workbookConfigKey))
	assert.Equal(t, 1024, viper.GetInt(plotWidthKey))
	assert.Equal(t, 640, viper.GetInt(plotHeightKey))
}

func TestConfigEnvironment(t *testing.T) {
	t.Setenv("XPSPLOT_SCAN_HEADER_LINES", "3")
	t.Setenv("XPSPLOT_PLOT_WIDTH", "800")

	assert.Equal(t, 3, viper.GetInt(scanHeaderLinesKey))
	assert.Equal(t, 800, viper.GetInt(plotWidthKey))
}

func TestParseSlogLevel(t *testing.T) {
	tests := []struct {
		value string
		want  slog.Level
	}{
		{"", slog.LevelWarn},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
		{"-4", slog.LevelDebug},
		{"nonsense", slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, parseSlogLevel(tt.value, slog.LevelWarn))
		})
	}
}

func TestConfigureLogger(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	logPath := filepath.Join(t.TempDir(), "xpsplot.log")

	configureLogger(logPath, true)
	require.NotNil(t, globalLogger)
	assert.True(t, globalLogger.Enabled(context.Background(), slog.LevelDebug))

	slog.Info("logger configured")

	contents, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(contents), "logger configured")

	configureLogger(logPath, false)
	assert.False(t, globalLogger.Enabled(context.Background(), slog.LevelDebug))
}
