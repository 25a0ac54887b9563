// SPDX-License-Identifier: MIT

package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/BayLibre/regice-common/internal/issue"
	"github.com/BayLibre/regice-common/pkg/libregice"
	"github.com/BayLibre/regice-common/pkg/plugin"
)

// issueFor maps a pipeline error onto its issue catalog entry. Errors with
// no catalog entry map to 0.
func issueFor(err error) issue.Id {
	var conflict *plugin.ConflictError
	switch {
	case errors.Is(err, libregice.ErrNoTransport):
		return issue.NoTransportSelectedId
	case errors.As(err, &conflict):
		return issue.ResultConflictId
	case errors.Is(err, fs.ErrNotExist):
		return issue.SvdNotFoundId
	default:
		return 0
	}
}

// renderIssueHelp prints the catalog help for err, when there is one. The
// error itself is reported by the caller; this only adds the guidance.
func renderIssueHelp(stderr io.Writer, err error) {
	id := issueFor(err)
	if id == 0 {
		return
	}

	entry := issue.Get(id)
	if entry == nil {
		return
	}
	rendered, renderErr := entry.Render("dark")
	if renderErr != nil {
		log.Warn("failed to render issue help", "id", id, "error", renderErr)
		return
	}
	fmt.Fprint(stderr, rendered)
}

// withIssueHelp wraps a RunE so known failures print their catalog guidance
// before the error surfaces.
func withIssueHelp(run func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := run(cmd, args)
		if err != nil {
			renderIssueHelp(cmd.ErrOrStderr(), err)
		}
		return err
	}
}
