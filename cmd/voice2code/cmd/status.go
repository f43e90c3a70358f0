package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kiranshivaraju/voice2code/internal/ipc"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon status",
	Long: `Shows the state of the voice2code daemon.

Prints the pipeline state, STT backend, uptime and dictation count.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		printError("failed to load config", err)
		return err
	}

	fmt.Println("voice2code Status")
	fmt.Println("=================")
	fmt.Println()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := dialDaemon(cfg)
	if err != nil {
		if errors.Is(err, ipc.ErrDaemonNotRunning) {
			fmt.Println("  [-] Daemon  - not running")
			fmt.Println()
			fmt.Println("Start with: voice2code run")
			return nil
		}
		printError("failed to reach daemon", err)
		return err
	}
	defer client.Close()

	status, err := client.Status(ctx)
	if err != nil {
		printError("status request failed", err)
		return err
	}

	fmt.Printf("  [+] Daemon  - running (v%s)\n", status.Version)
	fmt.Println()
	fmt.Printf("  State:      %s\n", status.State)
	fmt.Printf("  Backend:    %s\n", status.STTBackend)
	fmt.Printf("  Uptime:     %s\n", status.Uptime.Round(time.Second))
	fmt.Printf("  Dictations: %d\n", status.Dictations)
	if status.LastError != "" {
		fmt.Printf("  Last error: %s\n", status.LastError)
	}

	return nil
}
