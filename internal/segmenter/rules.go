// ============================================================================
// voice2code - Voice Dictation for Developers
// ============================================================================
//
// Package:     segmenter
// Description: YAML-defined text replacement rules
// Author:      Kiran Shivaraju
// Created:     2026-07-08
// License:     MIT
// ============================================================================

package segmenter

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidYAML   = errors.New("invalid YAML syntax")
	ErrEmptyMatch    = errors.New("rule match must not be empty")
	ErrRulesNotFound = errors.New("rules file not found")
)

// Rule rewrites dictated text before it is typed. Rules let users expand
// spoken shorthand, e.g. "arrow func" into "() => {}".
type Rule struct {
	// Match is the literal text to look for
	Match string `yaml:"match"`

	// Replace is the replacement, inserted literally
	Replace string `yaml:"replace"`

	// WordBoundary restricts matches to whole words
	WordBoundary bool `yaml:"word_boundary,omitempty"`

	re *regexp.Regexp
}

// rulesFile is the on-disk YAML layout
type rulesFile struct {
	Rules []Rule `yaml:"rules"`
}

// compile prepares the rule for application
func (r *Rule) compile() error {
	if r.Match == "" {
		return ErrEmptyMatch
	}
	if !r.WordBoundary {
		return nil
	}
	re, err := regexp.Compile(`\b` + regexp.QuoteMeta(r.Match) + `\b`)
	if err != nil {
		return fmt.Errorf("compile rule %q: %w", r.Match, err)
	}
	r.re = re
	return nil
}

// apply rewrites every occurrence of the rule's match in text
func (r *Rule) apply(text string) string {
	if r.re != nil {
		return r.re.ReplaceAllLiteralString(text, r.Replace)
	}
	return strings.ReplaceAll(text, r.Match, r.Replace)
}

// LoadRules reads an ordered rule list from a YAML file. A missing file
// is an error; callers that treat rules as optional should check the
// path first.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRulesNotFound, path)
		}
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	var file rulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}

	for i := range file.Rules {
		if err := file.Rules[i].compile(); err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
	}
	return file.Rules, nil
}
