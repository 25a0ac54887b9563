// SPDX-License-Identifier: MIT

package cliargs

import (
	"errors"
	"testing"

	"github.com/spf13/pflag"

	"github.com/BayLibre/regice-common/pkg/libregice"
	"github.com/BayLibre/regice-common/pkg/plugin"
)

// modPlugin mimics an installed regice module.
type modPlugin struct {
	name    string
	results map[string]any

	initCalls    int
	processCalls int
	seenDevice   plugin.Device
}

func (p *modPlugin) Name() string { return p.name }

func (p *modPlugin) InitArgs(_ plugin.Device, flags *pflag.FlagSet) {
	p.initCalls++
	flags.String(p.name+"-opt", "", "option from "+p.name)
}

func (p *modPlugin) ProcessArgs(dev plugin.Device, _ *pflag.FlagSet) (map[string]any, error) {
	p.processCalls++
	p.seenDevice = dev
	return p.results, nil
}

func newTestRegistry(t *testing.T, extra ...plugin.Plugin) *plugin.Registry {
	t.Helper()
	reg := plugin.NewRegistry()
	if err := libregice.Register(reg); err != nil {
		t.Fatal(err)
	}
	for _, p := range extra {
		if err := reg.Register(p); err != nil {
			t.Fatal(err)
		}
	}
	return reg
}

func TestInitArgumentParser_CommonFlags(t *testing.T) {
	reg := newTestRegistry(t)
	p := initParser(reg, nil, nil, pflag.ContinueOnError)

	for _, name := range []string{"svd", "openocd", "jlink", "jlink-script", "jlink-device", "test"} {
		if p.Flags().Lookup(name) == nil {
			t.Errorf("common flag --%s missing", name)
		}
	}
	// The bootstrap module is always selected, so its flags are present.
	if p.Flags().Lookup("openocd-host") == nil {
		t.Error("bootstrap module flag --openocd-host missing")
	}
	// No device context, no device help flag.
	if p.Flags().Lookup("help-device") != nil {
		t.Error("--help-device present without a device context")
	}
}

func TestInitArgumentParser_ModuleSelection(t *testing.T) {
	foo := &modPlugin{name: "foo"}
	bar := &modPlugin{name: "bar"}
	reg := newTestRegistry(t, foo, bar)

	p := initParser(reg, []string{"foo", "not-installed"}, nil, pflag.ContinueOnError)

	if p.Flags().Lookup("foo-opt") == nil {
		t.Error("selected module's flag missing")
	}
	if p.Flags().Lookup("bar-opt") != nil {
		t.Error("unselected module's flag present")
	}
	if bar.initCalls != 0 {
		t.Errorf("bar.InitArgs called %d times, want 0", bar.initCalls)
	}
}

func TestBootstrapParse_ResolvesDevice(t *testing.T) {
	reg := newTestRegistry(t)
	p := initParser(reg, nil, nil, pflag.ContinueOnError)

	dev, results, err := BootstrapParse(reg, p, []string{"--test"})
	if err != nil {
		t.Fatalf("BootstrapParse() returned error: %v", err)
	}
	if _, ok := dev.(*libregice.TestClient); !ok {
		t.Fatalf("device = %T, want *libregice.TestClient", dev)
	}
	if got, ok := results.Get(BootstrapModule, DeviceKey); !ok || got != dev {
		t.Error("device not published under the bootstrap owner")
	}
}

func TestBootstrapParse_ToleratesUnknownFlags(t *testing.T) {
	reg := newTestRegistry(t)
	p := initParser(reg, nil, nil, pflag.ContinueOnError)

	_, _, err := BootstrapParse(reg, p, []string{"--test", "--someday-a-module-flag", "x"})
	if err != nil {
		t.Fatalf("BootstrapParse() rejected unknown flag: %v", err)
	}
}

func TestBootstrapParse_NoTransport(t *testing.T) {
	reg := newTestRegistry(t)
	p := initParser(reg, nil, nil, pflag.ContinueOnError)

	if _, _, err := BootstrapParse(reg, p, nil); !errors.Is(err, libregice.ErrNoTransport) {
		t.Fatalf("BootstrapParse() error = %v, want ErrNoTransport", err)
	}
}

func TestFullParse_StrictRejectsUnknownFlags(t *testing.T) {
	reg := newTestRegistry(t)
	p := initParser(reg, nil, nil, pflag.ContinueOnError)

	if _, _, err := FullParse(reg, p, nil, nil, []string{"--no-such-flag"}); err == nil {
		t.Fatal("FullParse() accepted an unknown flag")
	}
}

func TestFullParse_HelpDevice(t *testing.T) {
	reg := newTestRegistry(t)
	dev := libregice.NewTestClient()
	p := initParser(reg, nil, dev, pflag.ContinueOnError)
	p.Flags().SetOutput(discard{})

	_, _, err := FullParse(reg, p, dev, nil, []string{"--test", "--help-device"})
	if !errors.Is(err, pflag.ErrHelp) {
		t.Fatalf("FullParse() error = %v, want pflag.ErrHelp", err)
	}
}

func TestProcessArguments_NoDevice(t *testing.T) {
	foo := &modPlugin{name: "foo", results: map[string]any{"foo.answer": 42}}
	reg := newTestRegistry(t, foo)
	p := initParser(reg, []string{"foo"}, nil, pflag.ContinueOnError)

	dev, fs, results, err := ProcessArguments(reg, p, []string{"foo"}, nil, []string{"--test", "--svd", "chip.svd"})
	if err != nil {
		t.Fatalf("ProcessArguments() returned error: %v", err)
	}

	if _, ok := dev.(*libregice.TestClient); !ok {
		t.Fatalf("device = %T, want *libregice.TestClient", dev)
	}
	if foo.seenDevice != dev {
		t.Error("module did not receive the bootstrap device")
	}
	if v, _ := fs.GetString("svd"); v != "chip.svd" {
		t.Errorf("--svd = %q, want chip.svd", v)
	}
	if v, ok := results.Get("foo", "foo.answer"); !ok || v != 42 {
		t.Errorf("results.Get(foo, foo.answer) = %v, %v; want 42", v, ok)
	}
}

func TestProcessArguments_WithDevice(t *testing.T) {
	foo := &modPlugin{name: "foo"}
	reg := newTestRegistry(t, foo)
	dev := libregice.NewTestClient()
	p := initParser(reg, []string{"foo"}, dev, pflag.ContinueOnError)

	got, _, _, err := ProcessArguments(reg, p, []string{"foo"}, dev, []string{"--test"})
	if err != nil {
		t.Fatalf("ProcessArguments() returned error: %v", err)
	}
	if got != dev {
		t.Error("supplied device was not passed through")
	}
	if foo.seenDevice != dev {
		t.Error("module did not receive the supplied device")
	}
	if foo.processCalls != 1 {
		t.Errorf("foo.ProcessArgs called %d times, want 1", foo.processCalls)
	}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
