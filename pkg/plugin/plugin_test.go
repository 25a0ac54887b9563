// SPDX-License-Identifier: MIT

package plugin

import (
	"errors"
	"testing"

	"github.com/spf13/pflag"
)

// fakePlugin records hook invocations and publishes canned results.
type fakePlugin struct {
	name       string
	compatible string
	results    map[string]any
	err        error

	initCalls    int
	processCalls int
}

func (p *fakePlugin) Name() string { return p.name }

func (p *fakePlugin) InitArgs(_ Device, flags *pflag.FlagSet) {
	p.initCalls++
	flags.Bool(p.name+"-flag", false, "flag added by "+p.name)
}

func (p *fakePlugin) ProcessArgs(_ Device, _ *pflag.FlagSet) (map[string]any, error) {
	p.processCalls++
	return p.results, p.err
}

func (p *fakePlugin) IsCompatibleWith(name string) bool {
	return p.compatible != "" && p.compatible == name
}

func newFlags(t *testing.T) *pflag.FlagSet {
	t.Helper()
	return pflag.NewFlagSet("test", pflag.ContinueOnError)
}

func TestRegister_DuplicateName(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&fakePlugin{name: "foo"}); err != nil {
		t.Fatalf("Register() returned error: %v", err)
	}
	if err := r.Register(&fakePlugin{name: "foo"}); err == nil {
		t.Fatal("Register() accepted a duplicate name")
	}
}

func TestNames_RegistrationOrder(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"c", "a", "b"} {
		if err := r.Register(&fakePlugin{name: name}); err != nil {
			t.Fatalf("Register(%s) returned error: %v", name, err)
		}
	}
	got := r.Names()
	want := []string{"c", "a", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Names() = %v, want %v", got, want)
		}
	}
}

func TestCompatibleModule(t *testing.T) {
	r := NewRegistry()
	stm32 := &fakePlugin{name: "regicestm32", compatible: "STM32F407"}
	if err := r.Register(&fakePlugin{name: "other"}); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(stm32); err != nil {
		t.Fatal(err)
	}

	p, ok := r.CompatibleModule("STM32F407")
	if !ok || p.Name() != "regicestm32" {
		t.Fatalf("CompatibleModule() = %v, %v; want regicestm32", p, ok)
	}

	if _, ok := r.CompatibleModule("nRF52"); ok {
		t.Fatal("CompatibleModule() matched a target no plugin supports")
	}
}

func TestInitModulesArgs_EmptyListIsNoop(t *testing.T) {
	r := NewRegistry()
	p := &fakePlugin{name: "foo"}
	if err := r.Register(p); err != nil {
		t.Fatal(err)
	}

	flags := newFlags(t)
	r.InitModulesArgs(nil, flags, nil)

	if p.initCalls != 0 {
		t.Errorf("InitArgs called %d times, want 0", p.initCalls)
	}
	if flags.Lookup("foo-flag") != nil {
		t.Error("flag set mutated on empty module list")
	}
}

func TestInitModulesArgs_OnlySelectedModules(t *testing.T) {
	r := NewRegistry()
	foo := &fakePlugin{name: "foo"}
	bar := &fakePlugin{name: "bar"}
	for _, p := range []*fakePlugin{foo, bar} {
		if err := r.Register(p); err != nil {
			t.Fatal(err)
		}
	}

	flags := newFlags(t)
	r.InitModulesArgs(nil, flags, []string{"foo", "not-installed"})

	if foo.initCalls != 1 {
		t.Errorf("foo.InitArgs called %d times, want 1", foo.initCalls)
	}
	if bar.initCalls != 0 {
		t.Errorf("bar.InitArgs called %d times, want 0", bar.initCalls)
	}
	if flags.Lookup("foo-flag") == nil {
		t.Error("foo's flag was not added")
	}
	if flags.Lookup("bar-flag") != nil {
		t.Error("bar's flag was added without being selected")
	}
}

func TestProcessModulesArgs_CollectsResults(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&fakePlugin{name: "foo", results: map[string]any{"a": 1}}); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(&fakePlugin{name: "bar", results: map[string]any{"b": 2}}); err != nil {
		t.Fatal(err)
	}

	results, err := r.ProcessModulesArgs(nil, newFlags(t), []string{"foo", "bar"})
	if err != nil {
		t.Fatalf("ProcessModulesArgs() returned error: %v", err)
	}

	flat, err := results.Flatten()
	if err != nil {
		t.Fatalf("Flatten() returned error: %v", err)
	}
	if flat["a"] != 1 || flat["b"] != 2 {
		t.Errorf("Flatten() = %v, want a=1 b=2", flat)
	}
}

func TestProcessModulesArgs_PluginErrorAborts(t *testing.T) {
	r := NewRegistry()
	boom := errors.New("boom")
	if err := r.Register(&fakePlugin{name: "foo", err: boom}); err != nil {
		t.Fatal(err)
	}

	if _, err := r.ProcessModulesArgs(nil, newFlags(t), []string{"foo"}); !errors.Is(err, boom) {
		t.Fatalf("ProcessModulesArgs() error = %v, want wrapped boom", err)
	}
}

func TestResults_ConflictDetected(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&fakePlugin{name: "foo", results: map[string]any{"a": 1}}); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(&fakePlugin{name: "bar", results: map[string]any{"a": 2}}); err != nil {
		t.Fatal(err)
	}

	results, err := r.ProcessModulesArgs(nil, newFlags(t), []string{"foo", "bar"})
	if err != nil {
		t.Fatalf("ProcessModulesArgs() returned error: %v", err)
	}

	_, err = results.Flatten()
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("Flatten() error = %v, want *ConflictError", err)
	}
	owners := conflict.Conflicts["a"]
	if len(owners) != 2 || owners[0] != "foo" || owners[1] != "bar" {
		t.Errorf("Conflicts[a] = %v, want [foo bar]", owners)
	}

	// The per-owner view stays unambiguous.
	if v, ok := results.Get("bar", "a"); !ok || v != 2 {
		t.Errorf("Get(bar, a) = %v, %v; want 2, true", v, ok)
	}
}

func TestResults_MergeAndOwners(t *testing.T) {
	a := NewResults()
	a.Put("foo", "x", 1)
	b := NewResults()
	b.Put("bar", "y", 2)
	b.Put("foo", "x", 3) // same owner, same key: overwrite, not a conflict

	a.Merge(b)

	if a.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", a.Len())
	}
	if v, _ := a.Get("foo", "x"); v != 3 {
		t.Errorf("Get(foo, x) = %v, want 3", v)
	}
	owners := a.Owners()
	if len(owners) != 2 || owners[0] != "foo" || owners[1] != "bar" {
		t.Errorf("Owners() = %v, want [foo bar]", owners)
	}
	if _, err := a.Flatten(); err != nil {
		t.Errorf("Flatten() returned error: %v", err)
	}
}
