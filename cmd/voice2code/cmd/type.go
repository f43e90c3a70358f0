package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/kiranshivaraju/voice2code/internal/automation"
	"github.com/kiranshivaraju/voice2code/internal/clipboard"
	"github.com/kiranshivaraju/voice2code/internal/engine"
	"github.com/kiranshivaraju/voice2code/internal/ipc"
	"github.com/kiranshivaraju/voice2code/internal/segmenter"
	"github.com/spf13/cobra"
)

var typeCmd = &cobra.Command{
	Use:   "type [text...]",
	Short: "Execute a transcript without the microphone",
	Long: `Runs a transcript through the segmenter and types the result into
the focused window, exactly as if it had been dictated.

Text is taken from the arguments, or from stdin when no arguments are
given. Spoken commands work the same way as during dictation.

Examples:
  voice2code type "func main new line fmt dot println"
  echo "select all delete" | voice2code type

Useful for testing replacement rules and for scripting.`,
	RunE: runType,
}

func init() {
	rootCmd.AddCommand(typeCmd)
}

func runType(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")
	if strings.TrimSpace(text) == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			printError("failed to read stdin", err)
			return err
		}
		text = string(data)
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("nothing to type")
	}

	cfg, err := loadConfig()
	if err != nil {
		printError("failed to load config", err)
		return err
	}

	// A running daemon executes the text itself so two processes never
	// fight over the clipboard and the dictation lands in history.
	client, err := dialDaemon(cfg)
	if err == nil {
		defer client.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		resp, err := client.TypeText(ctx, text)
		if err != nil {
			printError("type failed", err)
			return err
		}
		if !resp.Success {
			return fmt.Errorf("type failed: %s", resp.Error)
		}
		fmt.Printf("Typed %d segment(s), %d command(s).\n", resp.Segments, resp.Commands)
		return nil
	}
	if !errors.Is(err, ipc.ErrDaemonNotRunning) {
		printError("daemon not reachable", err)
		return err
	}

	return typeLocal(cfg.General.RulesPath, cfg.Engine.MaxTextLength, text)
}

// typeLocal drives segmenter and engine in-process when no daemon is up.
func typeLocal(rulesPath string, maxTextLen int, text string) error {
	var rules []segmenter.Rule
	if rulesPath != "" {
		var err error
		rules, err = segmenter.LoadRules(rulesPath)
		if err != nil && !errors.Is(err, segmenter.ErrRulesNotFound) {
			printError("failed to load rules", err)
			return err
		}
	}

	inv, err := automation.New()
	if err != nil {
		printError("no keystroke backend available", err)
		return err
	}

	seg := segmenter.New(segmenter.Config{Rules: rules})
	eng := engine.New(clipboard.NewSystem(), inv, engine.Config{MaxTextLength: maxTextLen})

	segments := seg.Segment(text)
	if len(segments) == 0 {
		return fmt.Errorf("nothing to type")
	}

	if err := eng.Execute(segments); err != nil {
		printError("execution failed", err)
		return err
	}

	commands := 0
	for _, s := range segments {
		if s.Kind == engine.KindCommand {
			commands++
		}
	}
	fmt.Printf("Typed %d segment(s), %d command(s).\n", len(segments), commands)
	return nil
}
