// SPDX-License-Identifier: MPL-2.0

package importer

import (
	"context"
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/sassyimport/sassyimport/internal/fsload"
	"github.com/sassyimport/sassyimport/internal/resolve"
	"github.com/sassyimport/sassyimport/internal/sheet"
)

// MaxDepth bounds how deeply imports may nest. Only cycles that bypass the
// ledger, through !multiple or disabled dedupe, get anywhere near it.
const MaxDepth = 64

// DefaultFormats are the filename templates tried for every fragment, before
// any user formats.
var DefaultFormats = []string{
	"%",
	"%.scss",
	"_%.scss",
	"%.css",
	"%.json",
	"%.jsonc",
	"%.yaml",
	"%.yml",
	"%.toml",
	"%/style.scss",
}

type (
	// Options is the user-facing configuration surface. The zero value is
	// valid and yields the defaults.
	Options struct {
		// Dedupe is the default once-only policy. Nil means true.
		Dedupe *bool
		// Formats are appended after DefaultFormats.
		Formats []string
		// LoadPaths are searched after the importing file's own directory.
		LoadPaths []resolve.SearchPath
		// Loaders are consulted before the built-in loaders.
		Loaders []Loader
		// Resolver replaces candidate generation when set.
		Resolver Resolver
		// PostProcessors run over every inlined sub-tree, never the root.
		PostProcessors []Processor
		// VirtualFiles are consulted before the real filesystem.
		VirtualFiles map[string]string
		// Debug logs required-import failures at error level.
		Debug bool
		// UnquoteStrings emits data-file strings without quotes.
		UnquoteStrings bool
		// Logger receives diagnostics. Nil discards them.
		Logger *log.Logger
		// Plugins transform the options before defaults are applied.
		Plugins []Plugin
	}

	// Plugin is a pure transform over Options.
	Plugin func(Options) Options

	// Resolver produces the ordered candidate paths for fragment imported
	// from origin. For wildcard fragments the candidates are glob patterns.
	Resolver func(origin, fragment string, cfg *Config) []string

	// Processor runs over an inlined sub-tree after its own imports have
	// been resolved.
	Processor interface {
		Process(ctx context.Context, root *sheet.Node) error
	}

	// ProcessorFunc adapts a function to Processor.
	ProcessorFunc func(ctx context.Context, root *sheet.Node) error

	// Config is the resolved configuration handed to every directive and
	// loader. It is never mutated once built; child invocations work on a
	// shallow copy that shares the warning report and layers a pending
	// ledger over its parent's.
	Config struct {
		Dedupe         bool
		Formats        []string
		LoadPaths      []resolve.SearchPath
		Loaders        []Loader
		Resolver       Resolver
		PostProcessors []Processor
		Overlay        fsload.Overlay
		Debug          bool
		UnquoteStrings bool
		Logger         *log.Logger

		ledger *Ledger
		report *sheet.Report
		depth  int
	}
)

// Process implements Processor.
func (f ProcessorFunc) Process(ctx context.Context, root *sheet.Node) error {
	return f(ctx, root)
}

// DefaultResolver generates candidates from the configured formats and
// search paths.
func DefaultResolver(origin, fragment string, cfg *Config) []string {
	return resolve.Candidates(origin, fragment, cfg.Formats, cfg.LoadPaths)
}

// Build applies plugins and defaults to opts, once, and returns the
// configuration the engine runs with.
func Build(opts Options) *Config {
	for _, plugin := range opts.Plugins {
		opts = plugin(opts)
	}

	cfg := &Config{
		Dedupe:         opts.Dedupe == nil || *opts.Dedupe,
		Formats:        slices.Concat(DefaultFormats, opts.Formats),
		LoadPaths:      slices.Concat([]resolve.SearchPath{resolve.OriginDir}, opts.LoadPaths),
		Loaders:        slices.Concat(opts.Loaders, BuiltinLoaders()),
		Resolver:       opts.Resolver,
		PostProcessors: slices.Clone(opts.PostProcessors),
		Overlay:        fsload.NewOverlay(opts.VirtualFiles),
		Debug:          opts.Debug,
		UnquoteStrings: opts.UnquoteStrings,
		Logger:         opts.Logger,
	}
	if cfg.Resolver == nil {
		cfg.Resolver = DefaultResolver
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	return cfg
}

// Candidates returns the resolver output for fragment imported from origin.
func (c *Config) Candidates(origin, fragment string) []string {
	return c.Resolver(origin, fragment, c)
}

// Inline processes the imports of a freshly loaded sub-tree and then runs the
// post-processors over it. Loaders call this to recurse into the engine.
func (c *Config) Inline(ctx context.Context, tree *sheet.Node) (*sheet.Node, error) {
	if c.ledger == nil {
		c = c.session()
	}
	if err := c.run(ctx, tree); err != nil {
		return nil, err
	}
	for _, p := range c.PostProcessors {
		if err := p.Process(ctx, tree); err != nil {
			return nil, err
		}
	}
	return tree, nil
}

// session returns a copy of c bound to a fresh ledger and report.
func (c *Config) session() *Config {
	s := *c
	if s.Resolver == nil {
		s.Resolver = DefaultResolver
	}
	if s.Logger == nil {
		s.Logger = log.New(io.Discard)
	}
	s.ledger = NewLedger()
	s.report = &sheet.Report{}
	return &s
}

// derive returns the configuration a directive hands to its loader. Its
// ledger layer is committed by the caller once the directive succeeds.
func (c *Config) derive(dedupe bool) *Config {
	child := *c
	child.Dedupe = dedupe
	child.ledger = c.ledger.begin()
	child.depth++
	return &child
}
