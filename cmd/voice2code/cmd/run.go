package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kiranshivaraju/voice2code/internal/app"
	"github.com/kiranshivaraju/voice2code/internal/tray"
	"github.com/kiranshivaraju/voice2code/internal/version"
	"github.com/spf13/cobra"
)

var (
	runHandsFree bool
	runNoTray    bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the dictation daemon",
	Long: `Starts the voice2code daemon.

The daemon opens the microphone on demand, transcribes speech locally
and types the result into the focused window. It is controlled over a
unix socket by the other subcommands, the global hotkey and the system
tray menu.

Examples:
  voice2code run                 # With tray icon
  voice2code run --no-tray       # Headless (SSH, window-manager autostart)
  voice2code run --hands-free    # Keep listening between utterances`,
	RunE: runDaemon,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVar(&runHandsFree, "hands-free", false, "Keep listening after each utterance")
	runCmd.Flags().BoolVar(&runNoTray, "no-tray", false, "Run without the system tray icon")
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		printError("failed to load config", err)
		return err
	}
	if runHandsFree {
		cfg.General.HandsFree = true
	}
	if runNoTray {
		cfg.General.Tray = false
	}

	logger := buildLogger(cfg)
	logger.Info("starting voice2code",
		"version", version.Version,
		"config", cfgFile,
		"tray", cfg.General.Tray)

	a, err := app.New(cfg, logger)
	if err != nil {
		printError("failed to start daemon", err)
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig.String())
		cancel()
	}()

	if !cfg.General.Tray {
		return a.Run(ctx)
	}

	// The tray loop must own the main goroutine on some platforms, so the
	// daemon moves to a background goroutine.
	tr := tray.New(cfg.STT.Backend, a.HandsFree(), tray.Callbacks{
		OnToggle: func() {
			if err := a.Toggle(""); err != nil {
				logger.Warn("tray toggle failed", "error", err)
			}
		},
		OnHandsFree: a.SetHandsFree,
		OnReload: func() {
			if count, err := a.ReloadRules(); err != nil {
				logger.Warn("tray rules reload failed", "error", err)
			} else {
				logger.Info("rules reloaded from tray", "count", count)
			}
		},
		OnQuit: func() {
			a.Shutdown()
		},
	})

	a.OnStateChange(func(st app.State) {
		tr.SetState(st.String())
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Run(ctx)
		tr.Quit()
	}()

	tr.Run()
	a.Shutdown()

	if err := <-errCh; err != nil {
		printError("daemon exited", err)
		return err
	}
	fmt.Println("voice2code stopped.")
	return nil
}
