// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"
	"strconv"
	"strings"

	"cuelang.org/go/cue/errors"
)

type (
	// Problem is one rejected field of a CUE document.
	Problem struct {
		// Field is the JSON-path of the field, e.g. "load_paths[1]". It is
		// empty for problems that concern the whole document.
		Field   string
		Message string
	}

	// Error reports every problem CUE found in one file.
	Error struct {
		File     string
		Problems []Problem
		cause    error
	}

	// SizeError is returned for documents over the size limit.
	SizeError struct {
		File      string
		Size, Max int64
	}
)

func (p Problem) String() string {
	if p.Field == "" {
		return p.Message
	}
	return p.Field + ": " + p.Message
}

// Error renders `file: field: message`, or a list when there are several.
func (e *Error) Error() string {
	switch len(e.Problems) {
	case 0:
		return e.File + ": " + e.cause.Error()
	case 1:
		return e.File + ": " + e.Problems[0].String()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d problems", e.File, len(e.Problems))
	for _, p := range e.Problems {
		b.WriteString("\n  ")
		b.WriteString(p.String())
	}
	return b.String()
}

// Unwrap returns the error CUE reported.
func (e *Error) Unwrap() error {
	return e.cause
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("%s: file size %d bytes exceeds maximum %d bytes", e.File, e.Size, e.Max)
}

// newError splits a CUE error into one Problem per underlying error.
func newError(file string, err error) *Error {
	e := &Error{File: file, cause: err}
	for _, ce := range errors.Errors(err) {
		field := fieldPath(errors.Path(ce))
		msg := ce.Error()
		// CUE sometimes repeats the path at the start of the message.
		if rest, ok := strings.CutPrefix(msg, field+":"); ok && field != "" {
			msg = strings.TrimSpace(rest)
		}
		e.Problems = append(e.Problems, Problem{Field: field, Message: msg})
	}
	return e
}

// fieldPath turns CUE selectors such as ["load_paths", "0"] into
// "load_paths[0]".
func fieldPath(selectors []string) string {
	var b strings.Builder
	for _, sel := range selectors {
		if _, err := strconv.ParseUint(sel, 10, 64); err == nil && b.Len() > 0 {
			b.WriteString("[" + sel + "]")
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(sel)
	}
	return b.String()
}

func checkSize(data []byte, limit int64, file string) error {
	if n := int64(len(data)); n > limit {
		return &SizeError{File: file, Size: n, Max: limit}
	}
	return nil
}
