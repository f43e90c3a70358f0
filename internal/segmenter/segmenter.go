// ============================================================================
// voice2code - Voice Dictation for Developers
// ============================================================================
//
// Package:     segmenter
// Description: Turns transcripts into ordered text and command segments
// Author:      Kiran Shivaraju
// Created:     2026-07-08
// License:     MIT
// ============================================================================

package segmenter

import (
	"strings"

	"github.com/kiranshivaraju/voice2code/internal/engine"
)

// Segmenter classifies a transcript into the ordered segment sequence the
// execution engine consumes. Command phrases are recognized at word
// boundaries with the longest phrase winning; everything else becomes
// text with spacing collapsed to single spaces.
type Segmenter struct {
	rules []Rule
}

// Config holds configuration for the segmenter
type Config struct {
	// Rules are applied in order to every text run before emission
	Rules []Rule
}

// New creates a segmenter. Rules passed here are compiled; invalid rules
// are dropped silently, so prefer LoadRules which reports them.
func New(cfg Config) *Segmenter {
	s := &Segmenter{}
	for _, r := range cfg.Rules {
		rule := r
		if rule.compile() == nil {
			s.rules = append(s.rules, rule)
		}
	}
	return s
}

// Segment classifies the transcript. An empty or whitespace-only
// transcript yields an empty sequence.
func (s *Segmenter) Segment(transcript string) []engine.Segment {
	words := strings.Fields(transcript)
	if len(words) == 0 {
		return nil
	}

	var segments []engine.Segment
	var run []string

	flush := func() {
		if len(run) == 0 {
			return
		}
		text := strings.Join(run, " ")
		for _, rule := range s.rules {
			text = rule.apply(text)
		}
		segments = append(segments, engine.Text(text))
		run = nil
	}

	i := 0
	for i < len(words) {
		// "literal X" types X even when X is a command phrase. A trailing
		// "literal" with nothing after it is plain text.
		if normWord(words[i]) == literalWord && i+1 < len(words) {
			run = append(run, words[i+1])
			i += 2
			continue
		}

		if name, n := matchPhrase(words[i:]); n > 0 {
			flush()
			segments = append(segments, engine.Command(name))
			i += n
			continue
		}

		run = append(run, words[i])
		i++
	}
	flush()

	return segments
}

// matchPhrase tries to match the longest command phrase at the start of
// words. It returns the command name and the number of words consumed,
// or 0 when nothing matches.
func matchPhrase(words []string) (string, int) {
	limit := maxPhraseWords
	if len(words) < limit {
		limit = len(words)
	}

	for n := limit; n > 0; n-- {
		parts := make([]string, n)
		for j := 0; j < n; j++ {
			parts[j] = normWord(words[j])
		}
		if name, ok := phraseTable[strings.Join(parts, " ")]; ok {
			return name, n
		}
	}
	return "", 0
}
