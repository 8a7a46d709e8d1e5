// SPDX-License-Identifier: MPL-2.0

package importer

import (
	"context"
	"errors"
	"slices"

	"github.com/sassyimport/sassyimport/internal/fsload"
	"github.com/sassyimport/sassyimport/internal/resolve"
	"github.com/sassyimport/sassyimport/internal/sheet"
)

// Result is the outcome of one top-level Process call.
type Result struct {
	// Root is the input tree with its imports resolved in place.
	Root *sheet.Node
	// Warnings were raised by required imports that failed, at any depth.
	Warnings []sheet.Warning
	// Inlined lists the canonical paths recorded in the ledger, in order.
	Inlined []string
}

// Process resolves every import in root using a fresh ledger. Per-directive
// failures become warnings; only context cancellation aborts the call.
// Post-processors are not applied to root itself.
func Process(ctx context.Context, root *sheet.Node, cfg *Config) (*Result, error) {
	s := cfg.session()
	if err := s.run(ctx, root); err != nil {
		return nil, err
	}
	s.Logger.Debug("imports resolved", "file", root.Source.File, "inlined", s.ledger.Len(), "warnings", s.report.Len())
	return &Result{
		Root:     root,
		Warnings: s.report.Warnings(),
		Inlined:  s.ledger.Paths(),
	}, nil
}

// run handles the imports of tree one at a time, in document order.
func (c *Config) run(ctx context.Context, tree *sheet.Node) error {
	for _, node := range tree.AtRules("import") {
		if err := ctx.Err(); err != nil {
			return err
		}
		d, ok := ParseDirective(node)
		if !ok {
			continue
		}
		if err := c.handle(ctx, d); err != nil {
			return err
		}
	}
	return nil
}

// handle runs a single directive to completion. The returned error is only
// non-nil when processing must stop altogether.
func (c *Config) handle(ctx context.Context, d Directive) error {
	if d.NotSassy {
		d.Unwrap()
		return nil
	}

	logger := c.Logger.With("fragment", d.Fragment)
	child := c.derive(d.Dedupe(c.Dedupe))
	nodes, err := child.load(ctx, d)
	if err != nil {
		if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			return err
		}
		// The pending ledger layer is dropped with the failed directive.
		d.Node.Remove()
		if d.Optional {
			logger.Debug("optional import dropped", "err", err)
			return nil
		}
		d.Node.WarnErr(c.report, err)
		if c.Debug {
			logger.Error("import failed", "origin", d.Origin, "attempted", Attempted(err), "err", err)
		}
		return nil
	}

	child.ledger.commit()
	d.Node.ReplaceWith(nodes...)
	return nil
}

// load dispatches d on the child configuration built for it.
func (c *Config) load(ctx context.Context, d Directive) ([]*sheet.Node, error) {
	if c.depth > MaxDepth {
		return nil, &DepthError{Fragment: d.Fragment, Origin: d.Origin}
	}
	logger := c.Logger.With("fragment", d.Fragment)
	if d.Wildcard() {
		logger.Debug("import", "kind", "glob", "origin", d.Origin, "depth", c.depth)
		return c.loadGlob(ctx, d)
	}
	logger.Debug("import", "kind", "literal", "origin", d.Origin, "depth", c.depth)
	node, err := c.loadLiteral(ctx, d)
	if node == nil {
		return nil, err
	}
	return []*sheet.Node{node}, nil
}

// loadLiteral resolves a single fragment. A nil tree with a nil error means
// the file was skipped by dedupe.
func (c *Config) loadLiteral(ctx context.Context, d Directive) (*sheet.Node, error) {
	f, err := fsload.LoadFirstOf(ctx, c.Candidates(d.Origin, d.Fragment), c.Overlay)
	if err != nil {
		return nil, &ImportError{Fragment: d.Fragment, Err: err}
	}
	if c.Dedupe && c.ledger.Has(f.Path) {
		c.Logger.Debug("already inlined", "path", f.Path)
		return nil, nil
	}
	c.ledger.Add(f.Path)

	loader, ok := FindLoader(c.Loaders, f.Path)
	if !ok {
		return nil, &NoLoaderError{Fragment: d.Fragment, Path: f.Path}
	}
	c.Logger.Debug("loading", "path", f.Path, "loader", loader.Name)

	tree, err := loader.Load(ctx, f, c)
	if err != nil {
		return nil, &ImportError{Fragment: d.Fragment, Err: err}
	}
	return tree, nil
}

// loadGlob expands a wildcard fragment and loads every match in order.
// Files without a loader are skipped with a warning.
func (c *Config) loadGlob(ctx context.Context, d Directive) ([]*sheet.Node, error) {
	matches, err := resolve.Expand(ctx, c.Candidates(d.Origin, d.Fragment), c.Overlay)
	if err != nil {
		return nil, &ImportError{Fragment: d.Fragment, Err: err}
	}
	if c.Dedupe {
		matches = slices.DeleteFunc(matches, c.ledger.Has)
	}

	files, err := fsload.LoadAllOf(ctx, matches, c.Overlay)
	if err != nil {
		return nil, &ImportError{Fragment: d.Fragment, Err: err}
	}

	var trees []*sheet.Node
	for _, f := range files {
		loader, ok := FindLoader(c.Loaders, f.Path)
		if !ok {
			c.Logger.Warn("no loader for glob match, skipping", "fragment", d.Fragment, "path", f.Path)
			d.Node.Warn(c.report, (&NoLoaderError{Fragment: d.Fragment, Path: f.Path}).Error()+"\n  skipped")
			continue
		}
		// An earlier match in this batch may have pulled the file in already.
		if c.Dedupe && c.ledger.Has(f.Path) {
			continue
		}
		c.ledger.Add(f.Path)

		c.Logger.Debug("loading", "path", f.Path, "loader", loader.Name)
		tree, err := loader.Load(ctx, f, c)
		if err != nil {
			return nil, &ImportError{Fragment: d.Fragment, Err: err}
		}
		trees = append(trees, tree)
	}
	return trees, nil
}
