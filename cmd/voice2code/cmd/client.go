package cmd

import (
	"github.com/kiranshivaraju/voice2code/internal/config"
	"github.com/kiranshivaraju/voice2code/internal/ipc"
	"github.com/kiranshivaraju/voice2code/internal/logging"
)

// loadConfig resolves the configuration for the current invocation,
// honoring --config before the default search paths.
func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.Load(cfgFile)
	}
	return config.LoadFromEnv()
}

// buildLogger creates the process logger from config and flags.
// --verbose wins over --log-level wins over the config file.
func buildLogger(cfg *config.Config) *logging.Logger {
	level := logging.ParseLevel(cfg.Log.Level)
	if logLevel != "" {
		level = logging.ParseLevel(logLevel)
	}
	if verbose {
		level = logging.LevelDebug
	}

	format := logging.FormatText
	if cfg.Log.Format == "json" {
		format = logging.FormatJSON
	}

	logCfg := logging.Config{
		Name:   "voice2code",
		Level:  level,
		Format: format,
	}

	if cfg.Log.File != "" {
		if f, err := logging.OpenLogFile(cfg.Log.File); err == nil {
			logCfg.Output = f
		} else {
			printError("cannot open log file, using stderr", err)
		}
	}

	return logging.NewWithConfig(logCfg)
}

// dialDaemon connects to the control socket of a running daemon.
func dialDaemon(cfg *config.Config) (*ipc.Client, error) {
	return ipc.Dial(ipc.DefaultClientConfig(cfg.General.SocketPath))
}
