// SPDX-License-Identifier: MIT

// Package issue provides user-facing error reporting: structured
// ActionableError values for programmatic handling, and a catalog of known
// issues rendered as markdown for the terminal.
package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Id identifies a known issue.
type Id int

const (
	SvdNotFoundId Id = iota + 1
	NoTransportSelectedId
	ResultConflictId
	ConfigLoadFailedId
	PluginNotFoundId
)

// MarkdownMsg is the renderable body of an issue.
type MarkdownMsg string

// HttpLink points at documentation for an issue.
type HttpLink string

// Issue is a known failure mode with user-facing guidance.
type Issue struct {
	id       Id
	mdMsg    MarkdownMsg
	docLinks []HttpLink
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

// Render returns the issue body rendered for the terminal.
func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 {
		extraMd += "\n\n## See also:\n"
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]\n"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	svdNotFoundIssue = &Issue{
		id: SvdNotFoundId,
		mdMsg: `
# SVD file not found!

The SVD file could not be loaded, neither as a filesystem path nor as a
resource bundled with an installed regice module.

## Things you can try:
- Check the path passed to ` + "`--svd`" + `
- Pass just the file name if the SVD ships with a regice module
  (e.g. ` + "`--svd stm32f407.svd`" + `)
- Download the SVD from your silicon vendor and pass its full path`,
	}

	noTransportSelectedIssue = &Issue{
		id: NoTransportSelectedId,
		mdMsg: `
# No transport selected!

regice needs to know how to reach the target.

## Pick one of:
- ` + "`--openocd`" + ` to go through a running OpenOCD server
  (tune the address with ` + "`--openocd-host`" + `)
- ` + "`--jlink`" + ` to drive a SEGGER J-Link
  (see ` + "`--jlink-device`" + ` and ` + "`--jlink-script`" + `)
- ` + "`--test`" + ` for the built-in mock target
  (seed registers with ` + "`--test-registers file.yml`" + `)

A default transport can also be set in the configuration file.`,
	}

	resultConflictIssue = &Issue{
		id: ResultConflictId,
		mdMsg: `
# Conflicting module results!

Two regice modules published a value under the same result key. There is no
defined precedence between modules, so the conflict is reported instead of
silently picking a winner.

## Things you can try:
- Run with fewer modules to find the overlapping pair
- Report the collision to the module authors; result keys are expected to be
  namespaced per module`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the regice configuration file.

## Configuration file locations:
- Linux: ~/.config/regice/config.cue
- macOS: ~/Library/Application Support/regice/config.cue
- Windows: %APPDATA%\regice\config.cue

## Things you can try:
- Check the file against the schema (` + "`regice config show`" + ` prints the
  effective configuration)
- Remove the file to fall back to defaults

## Example configuration:
~~~cue
default_transport: "openocd"
search_paths: ["/usr/share/svd"]

jlink: {
    device: "STM32F407VG"
}

ui: {
    verbose: false
}
~~~`,
	}

	pluginNotFoundIssue = &Issue{
		id: PluginNotFoundId,
		mdMsg: `
# Module not found!

A requested regice module is not registered in this build.

## Things you can try:
- List the available modules:
~~~
$ regice modules
~~~
- Check the module name for typos
- Rebuild the tool with the module compiled in`,
	}

	issues = map[Id]*Issue{
		svdNotFoundIssue.Id():         svdNotFoundIssue,
		noTransportSelectedIssue.Id(): noTransportSelectedIssue,
		resultConflictIssue.Id():      resultConflictIssue,
		configLoadFailedIssue.Id():    configLoadFailedIssue,
		pluginNotFoundIssue.Id():      pluginNotFoundIssue,
	}
)

// Values returns every known issue.
func Values() []*Issue {
	return maps.Values(issues)
}

// Get returns the issue registered under id.
func Get(id Id) *Issue {
	return issues[id]
}
