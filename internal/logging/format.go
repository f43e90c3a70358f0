// ============================================================================
// voice2code - Voice Dictation for Developers
// ============================================================================
//
// Package:     logging
// Description: Entry formatting for text and JSON output
// Author:      Kiran Shivaraju
// Created:     2026-06-28
// License:     MIT
// ============================================================================

package logging

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Entry is one log record before formatting
type Entry struct {
	Time    time.Time
	Level   Level
	Name    string
	Message string
	Fields  []Field
}

// Field is one ordered key-value pair attached to an entry
type Field struct {
	Key   string
	Value interface{}
}

// formatEntry renders an entry in the requested format
func formatEntry(format Format, e Entry) string {
	if format == FormatJSON {
		return formatJSON(e)
	}
	return formatText(e)
}

// formatText renders: 2026-06-28T09:15:04.312Z [INFO ] [engine] message key=value
func formatText(e Entry) string {
	var b strings.Builder

	b.WriteString(e.Time.UTC().Format("2006-01-02T15:04:05.000Z"))
	fmt.Fprintf(&b, " [%-5s]", e.Level.String())
	if e.Name != "" {
		fmt.Fprintf(&b, " [%s]", e.Name)
	}
	b.WriteString(" ")
	b.WriteString(e.Message)

	for _, f := range e.Fields {
		b.WriteString(" ")
		b.WriteString(f.Key)
		b.WriteString("=")
		b.WriteString(formatValue(f.Value))
	}

	return b.String()
}

// formatValue renders a field value, quoting strings that contain spaces
func formatValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		if strings.ContainsAny(val, " \t\n") {
			return fmt.Sprintf("%q", val)
		}
		return val
	case error:
		return fmt.Sprintf("%q", val.Error())
	case time.Duration:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}

// formatJSON renders the entry as a single JSON object per line
func formatJSON(e Entry) string {
	obj := map[string]interface{}{
		"time":  e.Time.UTC().Format(time.RFC3339Nano),
		"level": e.Level.String(),
		"msg":   e.Message,
	}
	if e.Name != "" {
		obj["logger"] = e.Name
	}
	for _, f := range e.Fields {
		switch val := f.Value.(type) {
		case error:
			obj[f.Key] = val.Error()
		case time.Duration:
			obj[f.Key] = val.String()
		default:
			obj[f.Key] = val
		}
	}

	data, err := json.Marshal(obj)
	if err != nil {
		return fmt.Sprintf(`{"level":"ERROR","msg":"log marshal failed","error":%q}`, err.Error())
	}
	return string(data)
}
