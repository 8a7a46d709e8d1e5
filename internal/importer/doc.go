// SPDX-License-Identifier: MPL-2.0

// Package importer resolves `@import` directives in a stylesheet tree and
// splices the imported content in their place.
//
// A top-level call to Process owns one Ledger of canonical paths. Every
// recursive invocation triggered by a loader shares that ledger, so a file is
// inlined at most once per call unless a directive asks otherwise. Directives
// are handled strictly in document order; I/O within a single directive may
// run concurrently.
//
// Recognized modifiers follow the quoted fragment:
//
//	@import "vars" !once;       // dedupe even if the default says otherwise
//	@import "reset" !multiple;  // inline even if already seen
//	@import "theme" !optional;  // drop silently when it cannot be loaded
//	@import "x.css" !not-sassy; // leave for a downstream consumer
package importer
