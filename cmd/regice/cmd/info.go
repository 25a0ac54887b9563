// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BayLibre/regice-common/pkg/cliargs"
	"github.com/BayLibre/regice-common/pkg/svd"
)

var (
	infoSVD        string
	infoPeripheral string

	infoCmd = &cobra.Command{
		Use:   "info",
		Short: "Show the register layout described by an SVD file",
		Long: `Load an SVD file and list its peripherals. With --peripheral,
list that peripheral's registers and bit fields instead.

The SVD argument may be a file path or the name of a document bundled with
an installed regice module.`,
		RunE: withIssueHelp(runInfo),
	}
)

func init() {
	infoCmd.Flags().StringVar(&infoSVD, "svd", "", "SVD file that contains registers definition")
	infoCmd.Flags().StringVar(&infoPeripheral, "peripheral", "", "show registers of this peripheral only")
	_ = infoCmd.MarkFlagRequired("svd")
}

func runInfo(cmd *cobra.Command, _ []string) error {
	dev, err := cliargs.LoadSVD(resolveSVD(infoSVD))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, TitleStyle.Render(dev.Name)+" "+SubtitleStyle.Render(dev.Description))

	if infoPeripheral == "" {
		for i := range dev.Peripherals {
			p := &dev.Peripherals[i]
			fmt.Fprintf(out, "  %-16s %s  %s\n",
				p.Name,
				ValueStyle.Render(fmt.Sprintf("0x%08x", uint64(p.BaseAddress))),
				SubtitleStyle.Render(p.Description))
		}
		return nil
	}

	p, ok := dev.Peripheral(infoPeripheral)
	if !ok {
		return fmt.Errorf("peripheral %q not found in %s", infoPeripheral, dev.Name)
	}
	printPeripheral(cmd, p)
	return nil
}

func printPeripheral(cmd *cobra.Command, p *svd.Peripheral) {
	out := cmd.OutOrStdout()
	for i := range p.Registers {
		r := &p.Registers[i]
		fmt.Fprintf(out, "  %-16s %s  %s\n",
			r.Name,
			ValueStyle.Render(fmt.Sprintf("0x%08x", p.Address(r))),
			SubtitleStyle.Render(r.Description))
		for _, f := range r.Fields {
			fmt.Fprintf(out, "    %-14s [%d:%d]\n",
				f.Name, uint64(f.BitOffset)+uint64(f.BitWidth)-1, uint64(f.BitOffset))
		}
	}
}
