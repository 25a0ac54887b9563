// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/BayLibre/regice-common/pkg/cliargs"
	"github.com/BayLibre/regice-common/pkg/plugin"
)

// inspectCmd runs the whole plugin pipeline and dumps what the modules
// published. Like read, it parses nothing itself; the raw arguments feed the
// shared regice parser.
var inspectCmd = &cobra.Command{
	Use:   "inspect [flags]",
	Short: "Run all installed modules and show what they report",
	Long: `Run the argument pipeline with every installed regice module and print
the values the modules publish. Modules that inspect the target need a
transport (--openocd, --jlink or --test) and usually an SVD file.`,
	DisableFlagParsing: true,
	RunE:               withIssueHelp(runInspect),
}

func runInspect(cmd *cobra.Command, args []string) error {
	reg := plugin.Default
	modules := reg.Names()
	parser := cliargs.InitArgumentParser(reg, modules, nil)
	applyConfigDefaults(parser.Flags(), cfg)

	_, _, results, err := cliargs.ProcessArguments(reg, parser, modules, nil, args)
	if err != nil {
		return err
	}

	flat, err := results.Flatten()
	if err != nil {
		return err
	}
	// The device handle is pipeline plumbing, not a module result.
	delete(flat, cliargs.DeviceKey)

	out := cmd.OutOrStdout()
	if len(flat) == 0 {
		fmt.Fprintln(out, SubtitleStyle.Render("no module published anything"))
		return nil
	}

	keys := make([]string, 0, len(flat))
	for key := range flat {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(out, "  %-24s %s\n", key, ValueStyle.Render(fmt.Sprintf("%v", flat[key])))
	}
	return nil
}
