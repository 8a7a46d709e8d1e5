// SPDX-License-Identifier: MPL-2.0

package importer

import (
	"errors"
	"fmt"

	"github.com/sassyimport/sassyimport/internal/fsload"
)

type (
	// NoLoaderError is returned when a resolved file has no matching loader.
	NoLoaderError struct {
		// Fragment is the import expression as written.
		Fragment string
		// Path is the file that was found.
		Path string
	}

	// DepthError is returned when imports nest deeper than MaxDepth.
	DepthError struct {
		Fragment string
		Origin   string
	}

	// ImportError ties a failure to the fragment that triggered it.
	ImportError struct {
		Fragment string
		Err      error
	}
)

// Error implements the error interface.
func (e *NoLoaderError) Error() string {
	return fmt.Sprintf("couldn't find loader for import %q\n  found file at path: %s", e.Fragment, e.Path)
}

// Error implements the error interface.
func (e *DepthError) Error() string {
	return fmt.Sprintf("import %q from %s nests deeper than %d levels; is there an import cycle?", e.Fragment, e.Origin, MaxDepth)
}

// Error implements the error interface.
func (e *ImportError) Error() string {
	var nf *fsload.NotFoundError
	if errors.As(e.Err, &nf) {
		return fmt.Sprintf("couldn't find import %q\n%s", e.Fragment, nf.Error())
	}
	return fmt.Sprintf("import %q: %v", e.Fragment, e.Err)
}

// Unwrap returns the underlying error.
func (e *ImportError) Unwrap() error {
	return e.Err
}

// Attempted returns the candidate paths tried for a failed import, if the
// failure was a lookup miss.
func Attempted(err error) []string {
	var nf *fsload.NotFoundError
	if errors.As(err, &nf) {
		return nf.Attempted
	}
	return nil
}
