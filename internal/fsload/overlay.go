// SPDX-License-Identifier: MPL-2.0

package fsload

import (
	"maps"
	"path/filepath"
	"slices"
)

// Overlay maps canonical paths to file contents. A nil Overlay is empty.
type Overlay map[string]string

// NewOverlay canonicalises the keys of files. Later spellings of the same
// canonical path overwrite earlier ones in map iteration order, so callers
// should avoid supplying duplicates.
func NewOverlay(files map[string]string) Overlay {
	if len(files) == 0 {
		return nil
	}
	o := make(Overlay, len(files))
	for path, contents := range files {
		o[Canonical(path)] = contents
	}
	return o
}

// Lookup returns the overlay contents for path, if present.
func (o Overlay) Lookup(path string) (string, bool) {
	if o == nil {
		return "", false
	}
	contents, ok := o[Canonical(path)]
	return contents, ok
}

// Paths returns the overlay keys in sorted order.
func (o Overlay) Paths() []string {
	return slices.Sorted(maps.Keys(o))
}

// Canonical returns the absolute, cleaned form of path. It is the key used
// for overlay lookups and for deduplication.
func Canonical(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}
