package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kiranshivaraju/voice2code/internal/audio"
	"github.com/kiranshivaraju/voice2code/internal/ipc"
	"github.com/spf13/cobra"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List audio input devices",
	Long: `Lists the available audio input devices.

The device name (or a unique substring of it) goes into the
audio.device config setting. A running daemon is asked for its view
of the devices, otherwise they are enumerated directly.`,
	RunE: runDevices,
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}

func runDevices(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		printError("failed to load config", err)
		return err
	}

	fmt.Println("Audio input devices:")
	fmt.Println("--------------------")

	client, err := dialDaemon(cfg)
	if err == nil {
		defer client.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		resp, err := client.Devices(ctx)
		if err != nil {
			printError("device request failed", err)
			return err
		}
		for _, d := range resp.Devices {
			printDevice(d.Index, d.Name, d.SampleRate, d.Channels, d.Default)
		}
		return nil
	}
	if !errors.Is(err, ipc.ErrDaemonNotRunning) {
		printError("daemon not reachable", err)
		return err
	}

	devices, err := audio.ListInputDevices()
	if err != nil {
		printError("failed to enumerate devices", err)
		return err
	}
	for _, d := range devices {
		printDevice(d.Index, d.Name, d.DefaultSampleRate, d.MaxInputChannels, d.Default)
	}
	return nil
}

func printDevice(index int, name string, sampleRate float64, channels int, isDefault bool) {
	marker := "   "
	if isDefault {
		marker = "[*]"
	}
	fmt.Printf("  %s %2d  %-40s %6.0f Hz  %d ch\n", marker, index, name, sampleRate, channels)
}
