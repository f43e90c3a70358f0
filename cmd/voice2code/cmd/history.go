// ============================================================================
// voice2code - Voice Dictation for Developers
// ============================================================================
//
// Package:     cmd
// Description: CLI command for browsing the dictation history
// Author:      Kiran Shivaraju
// Created:     2026-07-21
// License:     MIT
// ============================================================================

package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/kiranshivaraju/voice2code/internal/history"
	"github.com/kiranshivaraju/voice2code/internal/tui/historyview"
	"github.com/spf13/cobra"
)

var (
	historyFollow bool
	historyLimit  int
	historySearch string
	historyFailed bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse past dictations",
	Long: `Shows the dictation history.

Without flags the most recent dictations are printed. With --follow
an interactive browser opens that refreshes live while the daemon
keeps dictating.

Key bindings in follow mode:
  1/2/3       Filter: all / ok / failed
  p / Space   Pause refresh
  r           Refresh now
  g / G       Jump to top / bottom
  PgUp/PgDn   Scroll
  q / Ctrl+C  Quit`,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().BoolVarP(&historyFollow, "follow", "f", false, "Open the interactive browser")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of dictations to show")
	historyCmd.Flags().StringVar(&historySearch, "search", "", "Only show transcripts containing this text")
	historyCmd.Flags().BoolVar(&historyFailed, "failed", false, "Only show failed dictations")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		printError("failed to load config", err)
		return err
	}
	if !cfg.History.Enabled {
		fmt.Println("History is disabled (history.enabled = false).")
		return nil
	}

	path := cfg.History.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(cfg.General.DataDir, path)
	}

	store, err := history.NewSQLiteStore(history.SQLiteConfig{Path: path})
	if err != nil {
		printError("failed to open history database", err)
		return err
	}
	defer store.Close()

	if historyFollow {
		return historyview.Run(store, historyview.Config{
			MaxEntries: historyLimit * 10,
			Search:     historySearch,
		})
	}

	return listHistory(store)
}

func listHistory(store history.Store) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := history.Filter{
		Limit:  historyLimit,
		Search: historySearch,
	}
	if historyFailed {
		filter.Status = history.StatusFailed
	}

	entries, err := store.Query(ctx, filter)
	if err != nil {
		printError("history query failed", err)
		return err
	}

	if len(entries) == 0 {
		fmt.Println("No dictations recorded yet.")
		return nil
	}

	for _, e := range entries {
		status := "  ok  "
		if e.Status == history.StatusFailed {
			status = "FAILED"
		}
		fmt.Printf("%s  %s  %2dseg %2dcmd  %s\n",
			e.Timestamp.Format("2006-01-02 15:04:05"),
			status,
			e.Segments,
			e.Commands,
			e.Transcript)
		if e.Error != "" {
			fmt.Printf("                                         %s\n", e.Error)
		}
	}

	stats, err := store.Stats(ctx)
	if err == nil {
		total, _ := stats["total_entries"].(int64)
		failed, _ := stats["failed_entries"].(int64)
		fmt.Printf("\n%d total, %d failed\n", total, failed)
	}

	return nil
}
