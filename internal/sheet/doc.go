// SPDX-License-Identifier: MPL-2.0

// Package sheet provides the stylesheet syntax tree consumed by the import
// engine.
//
// The tree is intentionally small: a root, at-rules, rules, declarations and
// comments. Parse builds a tree from CSS or SCSS source using the gorilla/css
// tokenizer, String prints it back, and Report collects warnings keyed to the
// node that triggered them.
//
// File organization:
//   - node.go: Node type and tree mutation (Append, ReplaceWith, Remove, Walk)
//   - parse.go: CSS/SCSS parser and ParseError
//   - print.go: stringification
//   - report.go: warning sink
package sheet
