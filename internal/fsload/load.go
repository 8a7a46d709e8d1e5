// SPDX-License-Identifier: MPL-2.0

package fsload

import (
	"context"
	"os"

	"golang.org/x/sync/errgroup"
)

// File is a resolved import: its canonical path and raw text.
type File struct {
	Path     string
	Contents string
}

// ReadFile reads a single path, preferring the overlay over disk.
func ReadFile(path string, overlay Overlay) (File, error) {
	canonical := Canonical(path)
	if contents, ok := overlay.Lookup(canonical); ok {
		return File{Path: canonical, Contents: contents}, nil
	}

	data, err := os.ReadFile(canonical)
	if err != nil {
		return File{}, &IOError{Op: "read", Path: canonical, Err: err}
	}
	return File{Path: canonical, Contents: string(data)}, nil
}

// LoadFirstOf tries each path in order and returns the first that can be
// read. When every path fails the error is a *NotFoundError listing all of
// them.
func LoadFirstOf(ctx context.Context, paths []string, overlay Overlay) (File, error) {
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return File{}, err
		}
		if f, err := ReadFile(path, overlay); err == nil {
			return f, nil
		}
	}

	attempted := make([]string, len(paths))
	copy(attempted, paths)
	return File{}, &NotFoundError{Attempted: attempted}
}

// LoadAllOf reads every path concurrently and returns the files in input
// order. Any single failure fails the whole call.
func LoadAllOf(ctx context.Context, paths []string, overlay Overlay) ([]File, error) {
	files := make([]File, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			f, err := ReadFile(path, overlay)
			if err != nil {
				return err
			}
			files[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}
