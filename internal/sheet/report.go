// SPDX-License-Identifier: MPL-2.0

package sheet

import "fmt"

type (
	// Warning is a diagnostic attached to the node that caused it.
	Warning struct {
		// Text is the human-readable message.
		Text string
		// Source locates the node at the time the warning was raised.
		Source Source
		// Node is the offending node. It may since have been removed from the tree.
		Node *Node
		// Err is the failure behind the warning, when there was one.
		Err error
	}

	// Report is a warning sink shared by every tree processed in one run.
	Report struct {
		warnings []Warning
	}
)

// String formats the warning as `file:line:col: text`.
func (w Warning) String() string {
	file := w.Source.File
	if file == "" {
		file = "<input>"
	}
	return fmt.Sprintf("%s:%d:%d: %s", file, w.Source.Line, w.Source.Column, w.Text)
}

// Warn records a warning against n.
func (n *Node) Warn(r *Report, text string) {
	r.warnings = append(r.warnings, Warning{Text: text, Source: n.Source, Node: n})
}

// WarnErr records err against n, keeping it for errors.As by callers.
func (n *Node) WarnErr(r *Report, err error) {
	r.warnings = append(r.warnings, Warning{Text: err.Error(), Source: n.Source, Node: n, Err: err})
}

// Warnings returns the recorded warnings in the order they were raised.
func (r *Report) Warnings() []Warning {
	out := make([]Warning, len(r.warnings))
	copy(out, r.warnings)
	return out
}

// Len returns the number of recorded warnings.
func (r *Report) Len() int {
	return len(r.warnings)
}
