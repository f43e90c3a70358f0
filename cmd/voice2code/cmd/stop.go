package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kiranshivaraju/voice2code/internal/ipc"
	"github.com/spf13/cobra"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Shut the daemon down",
	Long: `Stops the voice2code daemon.

A dictation that is currently executing finishes first, then the
daemon restores the clipboard, closes the history database and exits.`,
	RunE: runStop,
}

func init() {
	rootCmd.AddCommand(stopCmd)
}

func runStop(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		printError("failed to load config", err)
		return err
	}

	client, err := dialDaemon(cfg)
	if err != nil {
		if errors.Is(err, ipc.ErrDaemonNotRunning) {
			fmt.Println("Daemon is not running.")
			return nil
		}
		printError("daemon not reachable", err)
		return err
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.Shutdown(ctx); err != nil {
		printError("shutdown failed", err)
		return err
	}

	fmt.Println("Daemon stopped.")
	return nil
}
