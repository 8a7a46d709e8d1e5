// SPDX-License-Identifier: MPL-2.0

package fsload

import (
	"fmt"
	"strings"
)

type (
	// NotFoundError is returned when none of the candidate paths could be read.
	NotFoundError struct {
		// Attempted lists every path that was tried, in order.
		Attempted []string
	}

	// IOError wraps a failure of an underlying read or match primitive.
	IOError struct {
		// Op is the failed operation, e.g. "read" or "glob".
		Op string
		// Path is the path or pattern involved.
		Path string
		Err  error
	}
)

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if len(e.Attempted) == 0 {
		return "no candidate paths to try"
	}
	return "no candidate exists, tried:\n  " + strings.Join(e.Attempted, "\n  ")
}

// Error implements the error interface.
func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *IOError) Unwrap() error {
	return e.Err
}
