// SPDX-License-Identifier: MPL-2.0

// Package fsload reads import candidates from an in-memory overlay or the
// real filesystem.
//
// The overlay is always consulted first for each path, which lets callers
// embed stylesheets or test the engine without touching disk. All paths are
// canonicalised (absolute and cleaned) before lookup so that two spellings of
// the same file resolve to the same entry.
package fsload
