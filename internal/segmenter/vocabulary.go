// ============================================================================
// voice2code - Voice Dictation for Developers
// ============================================================================
//
// Package:     segmenter
// Description: Spoken phrase vocabulary for editing commands
// Author:      Kiran Shivaraju
// Created:     2026-07-08
// License:     MIT
// ============================================================================

package segmenter

import (
	"sort"
	"strings"
)

// literalWord escapes the following word: "literal undo" types the word
// "undo" instead of pressing the undo keystroke.
const literalWord = "literal"

// wordPunct is stripped from word edges before phrase matching, so
// transcripts like "New line." still trigger commands.
const wordPunct = ".,!?;:"

// phraseTable maps normalized spoken phrases to command names from the
// keystroke vocabulary. Multi-word phrases win over their prefixes
// ("copy that" before "copy").
var phraseTable = map[string]string{
	"new line": "newline",
	"newline":  "newline",

	"press enter":  "enter",
	"press return": "return",

	"tab":       "tab",
	"press tab": "tab",

	"space":       "space",
	"space bar":   "space",
	"press space": "space",

	"backspace":       "backspace",
	"press backspace": "backspace",

	"delete":       "delete",
	"press delete": "delete",

	"escape":       "escape",
	"press escape": "escape",

	"select all": "select-all",

	"undo":      "undo",
	"undo that": "undo",
	"redo":      "redo",
	"redo that": "redo",

	"copy":       "copy",
	"copy that":  "copy",
	"paste":      "paste",
	"paste that": "paste",
	"cut":        "cut",
	"cut that":   "cut",
}

// maxPhraseWords is the longest phrase length in words, computed once
var maxPhraseWords = func() int {
	max := 1
	for phrase := range phraseTable {
		if n := len(strings.Fields(phrase)); n > max {
			max = n
		}
	}
	return max
}()

// normWord lowercases a transcript word and strips edge punctuation for
// matching. The original word is kept for text output.
func normWord(word string) string {
	return strings.ToLower(strings.Trim(word, wordPunct))
}

// Phrases returns every recognized spoken phrase, sorted
func Phrases() []string {
	phrases := make([]string, 0, len(phraseTable))
	for p := range phraseTable {
		phrases = append(phrases, p)
	}
	sort.Strings(phrases)
	return phrases
}
