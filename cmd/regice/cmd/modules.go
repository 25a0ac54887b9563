// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BayLibre/regice-common/pkg/plugin"
)

var modulesCmd = &cobra.Command{
	Use:   "modules",
	Short: "List the installed regice modules",
	Run: func(cmd *cobra.Command, _ []string) {
		out := cmd.OutOrStdout()
		names := plugin.Default.Names()
		if len(names) == 0 {
			fmt.Fprintln(out, SubtitleStyle.Render("no modules registered"))
			return
		}
		for _, name := range names {
			p, _ := plugin.Default.Get(name)
			marker := ""
			if _, ok := p.(plugin.CompatibilityChecker); ok {
				marker = SubtitleStyle.Render("  (supports target matching)")
			}
			fmt.Fprintln(out, "  "+name+marker)
		}
	},
}
