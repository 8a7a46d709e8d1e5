// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/sassyimport/sassyimport/internal/fsload"
)

// HasMagic reports whether fragment contains glob metacharacters.
func HasMagic(fragment string) bool {
	return strings.ContainsAny(fragment, "*?[{")
}

// Expand matches every pattern against the real filesystem (files only) and
// against the overlay keys, then merges the results into one list of
// canonical paths. Order follows the patterns; duplicates keep their first
// position. An empty result is not an error.
func Expand(ctx context.Context, patterns []string, overlay fsload.Overlay) ([]string, error) {
	virtual := overlay.Paths()
	results := make([][]string, len(patterns))

	g, gctx := errgroup.WithContext(ctx)
	for i, pattern := range patterns {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			matches, err := match(pattern, virtual)
			if err != nil {
				return err
			}
			results[i] = matches
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []string
	seen := make(map[string]struct{})
	for _, matches := range results {
		for _, m := range matches {
			canonical := fsload.Canonical(m)
			if _, dup := seen[canonical]; dup {
				continue
			}
			seen[canonical] = struct{}{}
			out = append(out, canonical)
		}
	}
	return out, nil
}

func match(pattern string, virtual []string) ([]string, error) {
	slashed := filepath.ToSlash(pattern)
	if !doublestar.ValidatePattern(slashed) {
		return nil, &fsload.IOError{Op: "glob", Path: pattern, Err: doublestar.ErrBadPattern}
	}

	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, &fsload.IOError{Op: "glob", Path: pattern, Err: err}
	}

	// Overlay keys are canonical, so the pattern has to be as well.
	canonical := filepath.ToSlash(fsload.Canonical(pattern))
	for _, key := range virtual {
		ok, err := doublestar.Match(canonical, filepath.ToSlash(key))
		if err != nil {
			return nil, &fsload.IOError{Op: "match", Path: pattern, Err: err}
		}
		if ok {
			matches = append(matches, key)
		}
	}
	return matches, nil
}
