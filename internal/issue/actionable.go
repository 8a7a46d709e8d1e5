// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
)

// ActionableError is a failure reported to the user: what the CLI was doing,
// on which file, and what to try next.
type ActionableError struct {
	// Operation is a verb phrase, e.g. "read stylesheet".
	Operation string
	// Resource is the file involved, if any.
	Resource string
	// Hints are short next steps printed under the message.
	Hints []string
	// Issue names the catalog guide for this failure. Zero means none.
	Issue Id
	Cause error
}

// New returns an ActionableError linked to the guide id.
func New(id Id, operation, resource string, cause error, hints ...string) *ActionableError {
	return &ActionableError{
		Operation: operation,
		Resource:  resource,
		Hints:     hints,
		Issue:     id,
		Cause:     cause,
	}
}

// Error returns `failed to <operation>: <resource>: <cause>`.
func (e *ActionableError) Error() string {
	parts := []string{"failed to " + e.Operation}
	if e.Resource != "" {
		parts = append(parts, e.Resource)
	}
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}
	return strings.Join(parts, ": ")
}

// Unwrap returns the cause.
func (e *ActionableError) Unwrap() error {
	return e.Cause
}

// Format renders the error for the terminal. Hints follow the message.
// Verbose output lists every wrapped cause; otherwise the linked guide is
// named so the user knows --verbose will show it.
func (e *ActionableError) Format(verbose bool) string {
	var b strings.Builder
	b.WriteString(e.Error())
	for _, hint := range e.Hints {
		fmt.Fprintf(&b, "\n  hint: %s", hint)
	}

	if !verbose {
		if guide := Get(e.Issue); guide != nil {
			fmt.Fprintf(&b, "\n\nRun with --verbose for the guide %q.", guide.Title())
		}
		return b.String()
	}

	if chain := causes(e.Cause); len(chain) > 1 {
		b.WriteString("\n\nCaused by:")
		for i, msg := range chain {
			fmt.Fprintf(&b, "\n  %d. %s", i+1, msg)
		}
	}
	return b.String()
}

func causes(err error) []string {
	var out []string
	for ; err != nil; err = errors.Unwrap(err) {
		out = append(out, err.Error())
	}
	return out
}
