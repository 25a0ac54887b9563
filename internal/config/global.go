// SPDX-License-Identifier: MIT

package config

// configDirOverride allows tests to override the config directory. This is
// necessary because os.UserHomeDir() does not reliably respect the HOME
// environment variable on all platforms.
var configDirOverride string

// SetConfigDirOverride sets a custom config directory path, primarily for
// tests.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}

// Reset clears test overrides. Call from test cleanup to restore defaults.
func Reset() {
	configDirOverride = ""
}
