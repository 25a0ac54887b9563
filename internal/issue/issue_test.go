// SPDX-License-Identifier: MIT

package issue

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
)

func TestActionableError_Message(t *testing.T) {
	err := NewErrorContext().
		WithOperation("load SVD").
		WithResource("stm32f4.svd").
		Wrap(fs.ErrNotExist).
		BuildError()

	want := "failed to load SVD: stm32f4.svd: file does not exist"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestActionableError_Unwrap(t *testing.T) {
	err := NewErrorContext().
		WithOperation("load SVD").
		Wrap(fs.ErrNotExist).
		BuildError()

	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("errors.Is() did not reach the cause")
	}
	ae, ok := AsActionable(err)
	if !ok {
		t.Fatal("AsActionable() did not find the ActionableError")
	}
	if ae.Operation != "load SVD" {
		t.Errorf("Operation = %q, want %q", ae.Operation, "load SVD")
	}
}

func TestActionableError_Verbose(t *testing.T) {
	ae := NewErrorContext().
		WithOperation("select transport").
		WithSuggestion("Use --test for the mock target").
		WithSuggestion("Use --openocd with a running server").
		Build()

	v := ae.Verbose()
	if !strings.Contains(v, "Use --test for the mock target") {
		t.Errorf("Verbose() = %q, missing first suggestion", v)
	}
	if strings.Count(v, "\n  - ") != 2 {
		t.Errorf("Verbose() = %q, want two suggestion lines", v)
	}
}

func TestWrapWithContext_Nil(t *testing.T) {
	if WrapWithContext(nil, "op", "res") != nil {
		t.Error("WrapWithContext(nil) should be nil")
	}
}

func TestCatalog_AllIssuesResolvable(t *testing.T) {
	for _, i := range Values() {
		if Get(i.Id()) != i {
			t.Errorf("Get(%d) did not return the catalog entry", i.Id())
		}
		if i.MarkdownMsg() == "" {
			t.Errorf("issue %d has an empty body", i.Id())
		}
	}
}

func TestIssue_RenderIncludesDocLinks(t *testing.T) {
	orig := render
	render = func(in, _ string) (string, error) { return in, nil }
	defer func() { render = orig }()

	i := &Issue{
		id:       SvdNotFoundId,
		mdMsg:    "# boom",
		docLinks: []HttpLink{"https://example.com/svd"},
	}
	out, err := i.Render("dark")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}
	if !strings.Contains(out, "https://example.com/svd") {
		t.Errorf("Render() = %q, missing doc link", out)
	}
}
