// SPDX-License-Identifier: MIT

// Package testutil provides small helpers for tests that manipulate process
// state, keeping error handling and cleanup consistent.
package testutil

import (
	"os"
	"runtime"
	"testing"
)

// MustChdir changes the working directory to dir and returns a cleanup
// function restoring the original directory. The test fails immediately on
// error.
func MustChdir(t testing.TB, dir string) func() {
	t.Helper()
	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get current directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("failed to change directory to %s: %v", dir, err)
	}
	return func() {
		if err := os.Chdir(originalWd); err != nil {
			t.Errorf("failed to restore directory to %s: %v", originalWd, err)
		}
	}
}

// MustSetenv sets key to value and returns a cleanup function restoring the
// original value (or unsetting it). The test fails immediately on error.
func MustSetenv(t testing.TB, key, value string) func() {
	t.Helper()
	originalValue, hadValue := os.LookupEnv(key)
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set env %s: %v", key, err)
	}
	return func() {
		if hadValue {
			if err := os.Setenv(key, originalValue); err != nil {
				t.Errorf("failed to restore env %s: %v", key, err)
			}
		} else {
			if err := os.Unsetenv(key); err != nil {
				t.Errorf("failed to unset env %s: %v", key, err)
			}
		}
	}
}

// SetHomeDir points the platform home directory variable at dir and returns
// a cleanup function restoring it. Windows uses USERPROFILE, everything else
// HOME.
func SetHomeDir(t testing.TB, dir string) func() {
	t.Helper()
	switch runtime.GOOS {
	case "windows":
		return MustSetenv(t, "USERPROFILE", dir)
	default:
		return MustSetenv(t, "HOME", dir)
	}
}
