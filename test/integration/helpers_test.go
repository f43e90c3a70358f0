// ============================================================================
// voice2code - Voice Dictation for Developers
// ============================================================================
//
// Package:     integration
// Description: Shared helpers for integration tests
// Author:      Kiran Shivaraju
// Created:     2026-07-22
// License:     MIT
// ============================================================================

//go:build integration

package integration

import (
	"context"
	"testing"
	"time"
)

// testContext returns a context with timeout for tests
func testContext(t *testing.T, timeout time.Duration) (context.Context, context.CancelFunc) {
	t.Helper()
	return context.WithTimeout(context.Background(), timeout)
}

// requireNoError fails the test if err is not nil
func requireNoError(t *testing.T, err error, msg string) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: %v", msg, err)
	}
}

// requireTrue fails the test if condition is false
func requireTrue(t *testing.T, condition bool, msg string) {
	t.Helper()
	if !condition {
		t.Fatalf("Expected true: %s", msg)
	}
}

// requireEqual fails the test if expected != actual
func requireEqual(t *testing.T, expected, actual interface{}, msg string) {
	t.Helper()
	if expected != actual {
		t.Fatalf("%s: expected %v, got %v", msg, expected, actual)
	}
}

// logTestStart logs the start of a test with component info
func logTestStart(t *testing.T, component, testName string) {
	t.Helper()
	t.Logf("=== %s: %s ===", component, testName)
}

// waitFor polls until the condition holds or the deadline passes
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
