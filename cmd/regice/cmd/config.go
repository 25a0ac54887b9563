// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the regice configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		loaded, path, err := loadConfig()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if path == "" {
			fmt.Fprintln(out, SubtitleStyle.Render("no config file, using defaults"))
		} else {
			fmt.Fprintln(out, SubtitleStyle.Render("config file: ")+path)
		}

		transport := string(loaded.DefaultTransport)
		if transport == "" {
			transport = "(none)"
		}
		fmt.Fprintf(out, "  default_transport: %s\n", transport)
		fmt.Fprintf(out, "  search_paths:      %s\n", formatList(loaded.SearchPaths))
		fmt.Fprintf(out, "  jlink.device:      %s\n", orNone(loaded.JLink.Device))
		fmt.Fprintf(out, "  jlink.script:      %s\n", orNone(loaded.JLink.Script))
		fmt.Fprintf(out, "  ui.verbose:        %v\n", loaded.UI.Verbose)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
}

func formatList(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
