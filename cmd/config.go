package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "xpsplot"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	outputFlagName       = "output"
	verboseFlagName      = "verbose"
	thresholdFlagName    = "threshold"
	photonEnergyFlagName = "photon-energy"
	modeFlagName         = "mode"
	runParallelFlagName  = "parallel"
	workbookFlagName     = "workbook"

	outputConfigKey       = "output"
	thresholdConfigKey    = "threshold"
	photonEnergyConfigKey = "photon_energy"
	modeConfigKey         = "mode"
	runParallelConfigKey  = "run.parallel"
	scanExtensionKey      = "scan.extension"
	scanHeaderLinesKey    = "scan.header_lines"
	workbookConfigKey     = "report.workbook"
	plotWidthKey          = "plot.width"
	plotHeightKey         = "plot.height"

	defaultReportsDir      = "xps-reports"
	defaultThreshold       = 0.0
	defaultPhotonEnergy    = 0.0
	defaultMode            = "both"
	defaultRunParallel     = 1
	defaultScanExtension   = ".dat"
	defaultScanHeaderLines = 1
	defaultWorkbook        = true
	defaultPlotWidth       = 1024
	defaultPlotHeight      = 640

	envPrefix = "XPSPLOT"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".xpsplot.log"
	defaultLogLevel      = int(slog.LevelInfo)
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var globalLogger *slog.Logger

func init() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	setConfigDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return
		}

		fmt.Fprintf(os.Stderr, "xpsplot: ignoring %s: %v\n", configFileName, err)
	}
}

func setConfigDefaults() {
	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(outputConfigKey, defaultReportsDir)
	viper.SetDefault(thresholdConfigKey, defaultThreshold)
	viper.SetDefault(photonEnergyConfigKey, defaultPhotonEnergy)
	viper.SetDefault(modeConfigKey, defaultMode)
	viper.SetDefault(runParallelConfigKey, defaultRunParallel)
	viper.SetDefault(scanExtensionKey, defaultScanExtension)
	viper.SetDefault(scanHeaderLinesKey, defaultScanHeaderLines)
	viper.SetDefault(workbookConfigKey, defaultWorkbook)
	viper.SetDefault(plotWidthKey, defaultPlotWidth)
	viper.SetDefault(plotHeightKey, defaultPlotHeight)

	// Logging defaults (used by config/env and as fallbacks for flags).
	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Allow numeric slog levels as well (e.g. -4 for debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger configures the global slog logger.
//
// By default it logs at Info; if verbose is true it logs at Debug.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	var logLevel slog.Level
	if verbose {
		logLevel = slog.LevelDebug
	} else {
		logLevel = parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}
