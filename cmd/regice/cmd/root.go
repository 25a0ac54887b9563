// SPDX-License-Identifier: MIT

// Package cmd contains the regice CLI commands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/BayLibre/regice-common/internal/config"
	"github.com/BayLibre/regice-common/internal/issue"
	"github.com/BayLibre/regice-common/pkg/libregice"
	"github.com/BayLibre/regice-common/pkg/plugin"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"

	// verbose enables debug output.
	verbose bool

	// configFile overrides the platform config file location.
	configFile string

	// cfg is the loaded configuration, available to every command after
	// initialization.
	cfg = config.DefaultConfig()

	rootCmd = &cobra.Command{
		Use:   "regice",
		Short: "Inspect the registers of a connected microcontroller",
		Long: TitleStyle.Render("regice") + SubtitleStyle.Render(" - register inspection for embedded targets") + `

regice reads and decodes memory-mapped registers on a live target using the
register definitions from an SVD file. Targets are reached through OpenOCD,
a SEGGER J-Link, or a built-in mock for offline use. Installed regice
modules can contribute their own flags and processing.

` + SubtitleStyle.Render("Examples:") + `
  regice info --svd stm32f407.svd             List peripherals
  regice read --test --svd chip.svd UART0.CR  Read a register via the mock
  regice modules                              List installed modules`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "configuration file (default: platform config dir)")

	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(readCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(modulesCmd)
	rootCmd.AddCommand(configCmd)
}

// Execute wires the known plugin providers into the default registry and
// runs the root command.
func Execute() {
	if err := libregice.Register(plugin.Default); err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+err.Error())
		os.Exit(1)
	}

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(Version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the configuration, honoring --config when set.
func loadConfig() (*config.Config, string, error) {
	if configFile != "" {
		return config.LoadFile(configFile)
	}
	return config.Load()
}

// initRootConfig loads the configuration and applies the UI preferences.
func initRootConfig() {
	loaded, _, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatError(err))
	}
	if loaded != nil {
		cfg = loaded
	}

	if verbose || cfg.UI.Verbose {
		log.SetLevel(log.DebugLevel)
	}
}

// formatError renders an error for display, expanding suggestions in verbose
// mode.
func formatError(err error) string {
	if ae, ok := issue.AsActionable(err); ok && verbose {
		return ae.Verbose()
	}
	return err.Error()
}

// resolveSVD expands a bare SVD name through the configured search paths.
// Names that already resolve on disk, carry a path separator, or match
// nothing in the search paths pass through unchanged so the bundled-resource
// lookup still gets its chance.
func resolveSVD(name string) string {
	if name == "" || strings.ContainsRune(name, os.PathSeparator) {
		return name
	}
	if _, err := os.Stat(name); err == nil {
		return name
	}
	for _, dir := range cfg.SearchPaths {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return name
}
