// SPDX-License-Identifier: MPL-2.0

// Package datavars turns structured data files into SCSS variable
// declarations so they can be inlined like any other stylesheet.
//
// Every top-level key becomes `$key: value;`. Strings are double-quoted
// (unless Options.UnquoteStrings is set), numbers and booleans are written
// verbatim, arrays become `(a, b)` lists and objects become `(k: v)` maps.
// Null values are dropped. JSON, JSONC and YAML preserve key order; TOML keys
// are emitted sorted because the decoder does not retain document order.
package datavars
