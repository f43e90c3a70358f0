package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	logLevel string
	verbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "voice2code",
	Short: "voice2code - Voice dictation for developers",
	Long: `voice2code turns speech into keystrokes. It listens to the
microphone, transcribes locally via whisper.cpp and types the result
into whatever window has focus, with spoken commands like "new line"
or "select all" executed as real key chords.

Commands:
  run      - Start the dictation daemon
  toggle   - Start/stop listening on a running daemon
  type     - Execute a transcript without the microphone
  status   - Show daemon state
  history  - Browse past dictations
  devices  - List audio input devices
  stop     - Shut the daemon down`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: ~/.config/voice2code/config.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output (same as --log-level debug)")
}

func printError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
}
