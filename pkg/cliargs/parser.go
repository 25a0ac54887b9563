// SPDX-License-Identifier: MIT

// Package cliargs builds and drives the shared regice argument parser.
//
// Every regice tool exposes the same transport flags plus whatever its
// selected modules contribute. This package owns that assembly and the two
// parse stages around it: a tolerant bootstrap parse that resolves the
// device through the libregice module, and a strict full parse that
// dispatches post-parse processing to every selected module.
package cliargs

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// BootstrapModule is the module name appended to every requested module
// list. The plugin registered under it is expected to publish the device
// under DeviceKey during bootstrap.
const BootstrapModule = "libregice"

// DeviceKey is the result key the bootstrap module publishes the device
// under.
const DeviceKey = "device"

// helpDeviceFlag requests device-specific help; it is only defined when a
// device context was supplied to InitArgumentParser.
const helpDeviceFlag = "help-device"

// Parser accumulates the flags of one invocation. It is built once, parsed
// once (or twice, across the bootstrap and full stages) and then discarded.
type Parser struct {
	fs         *pflag.FlagSet
	groupOrder []string
	groups     map[string][]string
}

// NewParser creates an empty parser. Production callers use
// pflag.ExitOnError so malformed input prints usage and terminates, per the
// usual CLI contract; tests use pflag.ContinueOnError.
func NewParser(name string, errorHandling pflag.ErrorHandling) *Parser {
	p := &Parser{
		fs:     pflag.NewFlagSet(name, errorHandling),
		groups: make(map[string][]string),
	}
	p.fs.Usage = func() { fmt.Fprint(p.fs.Output(), p.Usage()) }
	return p
}

// Flags exposes the underlying flag set. Module InitArgs hooks receive this
// directly.
func (p *Parser) Flags() *pflag.FlagSet {
	return p.fs
}

// AddToGroup places flags under a named group in the usage output. Grouping
// is presentation only; parsing is flat.
func (p *Parser) AddToGroup(group string, names ...string) {
	if _, ok := p.groups[group]; !ok {
		p.groupOrder = append(p.groupOrder, group)
	}
	p.groups[group] = append(p.groups[group], names...)
}

// Usage renders the flag usage with grouped flags under their own headings.
func (p *Parser) Usage() string {
	grouped := make(map[string]bool)
	for _, names := range p.groups {
		for _, n := range names {
			grouped[n] = true
		}
	}

	ungrouped := pflag.NewFlagSet(p.fs.Name(), pflag.ContinueOnError)
	p.fs.VisitAll(func(f *pflag.Flag) {
		if !grouped[f.Name] {
			ungrouped.AddFlag(f)
		}
	})

	var out strings.Builder
	fmt.Fprintf(&out, "Usage of %s:\n", p.fs.Name())
	out.WriteString(ungrouped.FlagUsages())
	for _, group := range p.groupOrder {
		set := pflag.NewFlagSet(group, pflag.ContinueOnError)
		for _, name := range p.groups[group] {
			if f := p.fs.Lookup(name); f != nil {
				set.AddFlag(f)
			}
		}
		fmt.Fprintf(&out, "\n%s:\n", group)
		out.WriteString(set.FlagUsages())
	}
	return out.String()
}

// addCommonArguments defines the flags shared by every regice tool.
func addCommonArguments(p *Parser) {
	fs := p.fs
	fs.String("svd", "", "SVD file that contains registers definition")
	fs.Bool("openocd", false, "use openocd to connect to target")
	fs.Bool("jlink", false, "use JLink to connect to target")
	fs.String("jlink-script", "", "load and run a JLink script before to connect to target")
	fs.String("jlink-device", "", "name of device to connect to")
	fs.Bool("test", false, "use a mock as target")
	p.AddToGroup("jlink", "jlink", "jlink-script", "jlink-device")
}
