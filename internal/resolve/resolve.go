// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"path/filepath"
	"strings"
)

// Placeholder is the token in a format template that is replaced by the
// fragment's base name.
const Placeholder = "%"

// SearchPath derives a directory to search from the path of the importing file.
type SearchPath func(origin string) string

// OriginDir is the default search path: the importing file's own directory.
func OriginDir(origin string) string {
	return filepath.Dir(origin)
}

// Dir returns a SearchPath that always yields dir.
func Dir(dir string) SearchPath {
	return func(string) string { return dir }
}

// Candidates lists the paths to try for fragment imported from origin.
//
// A fragment starting with "." is resolved against origin's directory only.
// An absolute fragment is used as its own base. Anything else is tried under
// every search path, and within each search path under every format.
func Candidates(origin, fragment string, formats []string, searchPaths []SearchPath) []string {
	fragDir, fragBase := filepath.Split(filepath.Clean(filepath.FromSlash(fragment)))

	names := make([]string, 0, len(formats))
	for _, format := range formats {
		names = append(names, filepath.Join(fragDir, strings.Replace(format, Placeholder, fragBase, 1)))
	}

	switch {
	case strings.HasPrefix(fragment, "."):
		dir := filepath.Dir(origin)
		out := make([]string, 0, len(names))
		for _, name := range names {
			out = append(out, filepath.Join(dir, name))
		}
		return out
	case filepath.IsAbs(fragment):
		return names
	default:
		out := make([]string, 0, len(names)*len(searchPaths))
		for _, sp := range searchPaths {
			dir := sp(origin)
			for _, name := range names {
				out = append(out, filepath.Join(dir, name))
			}
		}
		return out
	}
}
