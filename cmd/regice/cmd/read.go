// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/BayLibre/regice-common/internal/config"
	"github.com/BayLibre/regice-common/pkg/cliargs"
	"github.com/BayLibre/regice-common/pkg/libregice"
	"github.com/BayLibre/regice-common/pkg/plugin"
)

// readCmd reads one register through the full plugin pipeline. Flag parsing
// is disabled on the cobra side: the raw arguments go straight to the shared
// regice parser so installed modules can contribute flags.
var readCmd = &cobra.Command{
	Use:   "read PERIPHERAL.REGISTER [flags]",
	Short: "Read a register from a connected target",
	Long: `Read one register from the target and decode its bit fields.

The register is addressed by name, as PERIPHERAL.REGISTER from the SVD file
given with --svd. The target is reached through the transport selected with
--openocd, --jlink or --test; when no transport flag is given, the
configured default transport applies.`,
	DisableFlagParsing: true,
	RunE:               withIssueHelp(runRead),
}

func runRead(cmd *cobra.Command, args []string) error {
	reg := plugin.Default
	parser := cliargs.InitArgumentParser(reg, nil, nil)
	applyConfigDefaults(parser.Flags(), cfg)

	dev, fs, _, err := cliargs.ProcessArguments(reg, parser, nil, nil, args)
	if err != nil {
		return err
	}
	client, ok := dev.(libregice.Client)
	if !ok {
		return fmt.Errorf("bootstrap produced %T, not a device client", dev)
	}

	if len(fs.Args()) != 1 {
		return fmt.Errorf("expected exactly one PERIPHERAL.REGISTER argument, got %d", len(fs.Args()))
	}
	periphName, regName, ok := strings.Cut(fs.Args()[0], ".")
	if !ok {
		return fmt.Errorf("register name %q must be PERIPHERAL.REGISTER", fs.Args()[0])
	}

	svdFile, _ := fs.GetString("svd")
	if svdFile == "" {
		return fmt.Errorf("no SVD file given (use --svd)")
	}
	doc, err := cliargs.LoadSVD(resolveSVD(svdFile))
	if err != nil {
		return err
	}

	periph, ok := doc.Peripheral(periphName)
	if !ok {
		return fmt.Errorf("peripheral %q not found in %s", periphName, doc.Name)
	}
	register, ok := periph.Register(regName)
	if !ok {
		return fmt.Errorf("register %q not found in %s", regName, periphName)
	}

	width := int(register.Size)
	if width == 0 {
		width = int(doc.Width)
	}

	if err := client.Open(); err != nil {
		return err
	}
	defer client.Close()

	value, err := client.ReadRegister(periph.Address(register), width)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s.%s = %s\n",
		periphName, register.Name,
		ValueStyle.Render(fmt.Sprintf("0x%0*x", width/4, value)))
	for _, f := range register.Fields {
		fieldValue := (value >> uint64(f.BitOffset)) & ((1 << uint64(f.BitWidth)) - 1)
		fmt.Fprintf(out, "  %-14s %s\n", f.Name, ValueStyle.Render(fmt.Sprintf("0x%x", fieldValue)))
	}
	return nil
}

// applyConfigDefaults seeds transport flags from the configuration so the
// command line only has to override them.
func applyConfigDefaults(fs *pflag.FlagSet, cfg *config.Config) {
	switch cfg.DefaultTransport {
	case config.TransportOpenOCD:
		setFlagDefault(fs, "openocd", "true")
	case config.TransportJLink:
		setFlagDefault(fs, "jlink", "true")
	case config.TransportTest:
		setFlagDefault(fs, "test", "true")
	}
	if cfg.JLink.Device != "" {
		setFlagDefault(fs, "jlink-device", cfg.JLink.Device)
	}
	if cfg.JLink.Script != "" {
		setFlagDefault(fs, "jlink-script", cfg.JLink.Script)
	}
}

func setFlagDefault(fs *pflag.FlagSet, name, value string) {
	if f := fs.Lookup(name); f != nil {
		f.DefValue = value
		_ = f.Value.Set(value)
	}
}
