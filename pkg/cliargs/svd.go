// SPDX-License-Identifier: MIT

package cliargs

import (
	"io/fs"
	"os"

	"github.com/charmbracelet/log"

	"github.com/BayLibre/regice-common/internal/issue"
	"github.com/BayLibre/regice-common/pkg/resource"
	"github.com/BayLibre/regice-common/pkg/svd"
)

// LoadSVD loads an SVD document. A name that exists on disk is parsed
// directly; anything else is treated as a resource name and searched across
// the registered regice providers. Both lookup failures are normalized to
// one file-not-found kind: errors.Is(err, fs.ErrNotExist) holds regardless
// of which strategy failed. Parse errors of a file that was found propagate
// as-is.
func LoadSVD(file string) (*svd.Device, error) {
	return loadSVD(resource.Default, file)
}

func loadSVD(reg *resource.Registry, file string) (*svd.Device, error) {
	if _, err := os.Stat(file); err == nil {
		log.Debug("loading SVD from disk", "path", file)
		return svd.ParseFile(file)
	}

	f, err := reg.Open("", file)
	if err != nil {
		return nil, svdNotFound(file)
	}
	defer f.Close()

	log.Debug("loading SVD from resource", "name", file)
	return svd.Parse(f)
}

func svdNotFound(file string) error {
	return issue.NewErrorContext().
		WithOperation("load SVD").
		WithResource(file).
		WithSuggestion("Pass --svd with a file path or a bundled resource name").
		WithSuggestion("Run 'regice modules' to see which modules are installed").
		Wrap(fs.ErrNotExist).
		BuildError()
}
