// SPDX-License-Identifier: MPL-2.0

package importer

import (
	"context"
	"path/filepath"

	"github.com/sassyimport/sassyimport/internal/datavars"
	"github.com/sassyimport/sassyimport/internal/fsload"
	"github.com/sassyimport/sassyimport/internal/sheet"
)

// Loader turns a resolved file into a processed tree.
type Loader struct {
	// Name identifies the loader in logs.
	Name string
	// Match reports whether the loader handles path.
	Match func(path string) bool
	// Load parses f and runs cfg.Inline over the result.
	Load func(ctx context.Context, f fsload.File, cfg *Config) (*sheet.Node, error)
}

// BuiltinLoaders returns the stylesheet, CSS and data loaders, in that order.
func BuiltinLoaders() []Loader {
	return []Loader{
		{Name: "scss", Match: hasExt(".scss"), Load: loadStylesheet(sheet.SCSS)},
		{Name: "css", Match: hasExt(".css"), Load: loadStylesheet(sheet.CSS)},
		{Name: "data", Match: datavars.IsDataFile, Load: loadData},
	}
}

// FindLoader returns the first loader whose Match accepts path.
func FindLoader(loaders []Loader, path string) (Loader, bool) {
	for _, l := range loaders {
		if l.Match != nil && l.Match(path) {
			return l, true
		}
	}
	return Loader{}, false
}

func hasExt(ext string) func(string) bool {
	return func(path string) bool {
		return filepath.Ext(path) == ext
	}
}

func loadStylesheet(syntax sheet.Syntax) func(context.Context, fsload.File, *Config) (*sheet.Node, error) {
	return func(ctx context.Context, f fsload.File, cfg *Config) (*sheet.Node, error) {
		tree, err := sheet.Parse(f.Contents, f.Path, syntax)
		if err != nil {
			return nil, err
		}
		return cfg.Inline(ctx, tree)
	}
}

func loadData(ctx context.Context, f fsload.File, cfg *Config) (*sheet.Node, error) {
	scss, err := datavars.ConvertFile(f.Path, []byte(f.Contents), datavars.Options{UnquoteStrings: cfg.UnquoteStrings})
	if err != nil {
		return nil, err
	}
	tree, err := sheet.Parse(scss, f.Path, sheet.SCSS)
	if err != nil {
		return nil, err
	}
	return cfg.Inline(ctx, tree)
}
