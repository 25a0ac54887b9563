// SPDX-License-Identifier: MIT

package cliargs

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/BayLibre/regice-common/internal/issue"
	"github.com/BayLibre/regice-common/pkg/plugin"
)

// InitArgumentParser builds the shared parser: common regice flags first,
// then the flags contributed by every requested module. The bootstrap module
// is always appended to the request so its flags and hooks are present. When
// a device context is supplied, a --help-device flag is added; its behavior
// is realized during FullParse, not here.
func InitArgumentParser(reg *plugin.Registry, modules []string, dev plugin.Device) *Parser {
	return initParser(reg, modules, dev, pflag.ExitOnError)
}

func initParser(reg *plugin.Registry, modules []string, dev plugin.Device, errorHandling pflag.ErrorHandling) *Parser {
	p := NewParser("regice", errorHandling)
	addCommonArguments(p)
	if dev != nil {
		p.fs.Bool(helpDeviceFlag, false, "show help for device specific arguments")
	}
	reg.InitModulesArgs(dev, p.fs, withBootstrap(modules))
	return p
}

// BootstrapParse is the first pipeline stage: a tolerant parse that ignores
// flags the parser does not know yet, followed by the bootstrap module's
// ProcessArgs to obtain the device. The returned results hold everything the
// bootstrap module published.
func BootstrapParse(reg *plugin.Registry, p *Parser, argv []string) (plugin.Device, *plugin.Results, error) {
	fs := p.fs
	fs.ParseErrorsWhitelist.UnknownFlags = true
	err := fs.Parse(argv)
	fs.ParseErrorsWhitelist.UnknownFlags = false
	if err != nil {
		return nil, nil, err
	}

	log.Debug("bootstrap parse", "module", BootstrapModule)
	results, err := reg.ProcessModulesArgs(nil, fs, []string{BootstrapModule})
	if err != nil {
		return nil, nil, err
	}

	dev, ok := results.Get(BootstrapModule, DeviceKey)
	if !ok {
		return nil, nil, issue.NewErrorContext().
			WithOperation("bootstrap device").
			WithResource(BootstrapModule).
			WithSuggestion("Select a transport with --openocd, --jlink or --test").
			BuildError()
	}
	return dev, results, nil
}

// FullParse is the second pipeline stage: a strict parse of argv (unknown
// flags are a hard error under the parser's error handling), the
// --help-device branch, then ProcessArgs dispatch to every requested module
// with the resolved device.
//
// When --help-device is set, the parser re-parses a synthetic -h. Under
// pflag's contract that prints the usage text; with ExitOnError the process
// terminates there, with ContinueOnError pflag.ErrHelp is returned.
func FullParse(reg *plugin.Registry, p *Parser, dev plugin.Device, modules []string, argv []string) (*pflag.FlagSet, *plugin.Results, error) {
	fs := p.fs
	if err := fs.Parse(argv); err != nil {
		return nil, nil, err
	}

	if helpDevice, err := fs.GetBool(helpDeviceFlag); err == nil && helpDevice {
		if err := fs.Parse([]string{"-h"}); err != nil {
			return nil, nil, err
		}
	}

	log.Debug("full parse", "modules", modules)
	results, err := reg.ProcessModulesArgs(dev, fs, withBootstrap(modules))
	if err != nil {
		return nil, nil, err
	}
	return fs, results, nil
}

// ProcessArguments composes the two stages over argv.
//
// Without a device, the bootstrap stage runs first and its device feeds the
// full stage. With a device already in hand, bootstrap is skipped and the
// full stage runs alone, --help-device included. The returned results merge
// everything published across both stages.
func ProcessArguments(reg *plugin.Registry, p *Parser, modules []string, dev plugin.Device, argv []string) (plugin.Device, *pflag.FlagSet, *plugin.Results, error) {
	results := plugin.NewResults()

	if dev == nil {
		bootDev, boot, err := BootstrapParse(reg, p, argv)
		if err != nil {
			return nil, nil, nil, err
		}
		dev = bootDev
		results.Merge(boot)
	}

	fs, full, err := FullParse(reg, p, dev, modules, argv)
	if err != nil {
		return nil, nil, nil, err
	}
	results.Merge(full)
	return dev, fs, results, nil
}

// withBootstrap returns modules with the bootstrap module appended, without
// mutating the caller's slice.
func withBootstrap(modules []string) []string {
	out := make([]string, 0, len(modules)+1)
	out = append(out, modules...)
	return append(out, BootstrapModule)
}
