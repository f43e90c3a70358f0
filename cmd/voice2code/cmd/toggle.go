package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	toggleStart bool
	toggleStop  bool
)

var toggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Start or stop listening",
	Long: `Toggles the microphone on a running daemon.

Without flags the listening state is flipped. Bind this command to a
desktop-environment shortcut if the built-in hotkey does not work in
your setup (wayland compositors often block global key grabs).`,
	RunE: runToggle,
}

func init() {
	rootCmd.AddCommand(toggleCmd)
	toggleCmd.Flags().BoolVar(&toggleStart, "start", false, "Start listening (no-op when already listening)")
	toggleCmd.Flags().BoolVar(&toggleStop, "stop", false, "Stop listening (no-op when idle)")
}

func runToggle(cmd *cobra.Command, args []string) error {
	if toggleStart && toggleStop {
		return fmt.Errorf("--start and --stop are mutually exclusive")
	}

	force := ""
	if toggleStart {
		force = "start"
	}
	if toggleStop {
		force = "stop"
	}

	cfg, err := loadConfig()
	if err != nil {
		printError("failed to load config", err)
		return err
	}

	client, err := dialDaemon(cfg)
	if err != nil {
		printError("daemon not reachable", err)
		return err
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := client.Toggle(ctx, force)
	if err != nil {
		printError("toggle failed", err)
		return err
	}

	if !resp.Success {
		fmt.Printf("Nothing to do: %s\n", resp.Error)
		return nil
	}

	switch resp.State {
	case "listening":
		fmt.Println("Listening... speak now.")
	default:
		fmt.Printf("Stopped listening (state: %s).\n", resp.State)
	}
	return nil
}
