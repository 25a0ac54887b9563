// SPDX-License-Identifier: MIT

package libregice

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/BayLibre/regice-common/pkg/plugin"
)

// PluginName is the module name the orchestrator always appends to the
// requested module list. The bootstrap plugin registered under this name is
// what turns transport flags into a device.
const PluginName = "libregice"

// DeviceKey is the result key under which the bootstrap plugin publishes the
// connected client.
const DeviceKey = "device"

type devicePlugin struct{}

// Plugin returns the libregice bootstrap plugin.
func Plugin() plugin.Plugin {
	return devicePlugin{}
}

// Register adds the bootstrap plugin to reg. Call this once at startup;
// nothing registers from an init function.
func Register(reg *plugin.Registry) error {
	return reg.Register(devicePlugin{})
}

func (devicePlugin) Name() string { return PluginName }

// InitArgs contributes the transport tuning flags. The transport selection
// flags themselves (--openocd, --jlink, --test) are part of the common regice
// argument set and are expected to exist already.
func (devicePlugin) InitArgs(_ plugin.Device, flags *pflag.FlagSet) {
	flags.String("openocd-host", DefaultOpenOCDAddr, "address of the OpenOCD TCL server")
	flags.String("test-registers", "", "YAML file seeding the mock target's register map")
}

// ProcessArgs selects and builds the client from the parsed transport flags
// and publishes it under DeviceKey. The client is constructed, not opened;
// opening is the caller's decision.
func (devicePlugin) ProcessArgs(_ plugin.Device, flags *pflag.FlagSet) (map[string]any, error) {
	client, err := clientFromFlags(flags)
	if err != nil {
		return nil, err
	}
	return map[string]any{DeviceKey: client}, nil
}

func clientFromFlags(flags *pflag.FlagSet) (Client, error) {
	switch {
	case boolFlag(flags, "openocd"):
		host, _ := flags.GetString("openocd-host")
		log.Debug("selecting openocd transport", "host", host)
		return NewOpenOCD(host), nil

	case boolFlag(flags, "jlink"):
		opts := JLinkOptions{}
		opts.Device, _ = flags.GetString("jlink-device")
		opts.Script, _ = flags.GetString("jlink-script")
		log.Debug("selecting jlink transport", "device", opts.Device)
		return NewJLink(opts), nil

	case boolFlag(flags, "test"):
		if path, _ := flags.GetString("test-registers"); path != "" {
			log.Debug("selecting mock transport", "fixture", path)
			return NewTestClientFromYAML(path)
		}
		log.Debug("selecting mock transport")
		return NewTestClient(), nil

	default:
		return nil, ErrNoTransport
	}
}

// boolFlag reads a bool flag, treating an unknown flag as unset so the
// plugin also works under partially built parsers.
func boolFlag(flags *pflag.FlagSet, name string) bool {
	v, err := flags.GetBool(name)
	return err == nil && v
}
