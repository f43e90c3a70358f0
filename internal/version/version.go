// ============================================================================
// voice2code - Voice Dictation for Developers
// ============================================================================
//
// Package:     version
// Description: Central version information, set at build time via ldflags
// Author:      Kiran Shivaraju
// Created:     2026-06-28
// License:     MIT
// ============================================================================

package version

import (
	"fmt"
	"runtime"
)

// Set via -ldflags "-X github.com/kiranshivaraju/voice2code/internal/version.Version=..."
var (
	Version   = "0.3.0"
	GitCommit = "development"
	BuildDate = "unknown"
)

// Info holds the full version information
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get returns the current version information
func Get() Info {
	return Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String returns a single-line version string
func (i Info) String() string {
	return fmt.Sprintf("voice2code v%s (%s, %s)", i.Version, i.GitCommit, i.Platform)
}
