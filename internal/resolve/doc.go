// SPDX-License-Identifier: MPL-2.0

// Package resolve turns an import fragment into the ordered list of paths
// that might satisfy it, and expands wildcard fragments into concrete files.
//
// Candidate order is the tie-break rule for ambiguous imports: the outer loop
// walks search paths in configured order and the inner loop walks format
// templates, so the first search path paired with the first matching format
// wins.
package resolve
