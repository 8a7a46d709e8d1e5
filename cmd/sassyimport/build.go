// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/sassyimport/sassyimport/internal/fsload"
	"github.com/sassyimport/sassyimport/internal/importer"
	"github.com/sassyimport/sassyimport/internal/issue"
	"github.com/sassyimport/sassyimport/internal/resolve"
	"github.com/sassyimport/sassyimport/internal/sheet"
	"github.com/sassyimport/sassyimport/internal/watch"
)

type (
	// buildFlagValues holds the flags of `sassyimport build`.
	buildFlagValues struct {
		output         string
		loadPaths      []string
		formats        []string
		noDedupe       bool
		unquoteStrings bool
		debug          bool
		strict         bool
		watch          bool
	}

	// buildPlan is a build request with configuration and flags merged.
	buildPlan struct {
		entry     string
		output    string
		loadPaths []string
		strict    bool
		verbose   bool
		engine    *importer.Config
		logger    *log.Logger
	}
)

func newBuildCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	flags := &buildFlagValues{}

	buildCmd := &cobra.Command{
		Use:   "build FILE",
		Short: "Inline the imports of a stylesheet",
		Long: `Inline the imports of a stylesheet.

The result is printed to stdout unless --output is given. Import failures are
reported as warnings on stderr and the build continues without them; use
--strict to fail instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := newBuildPlan(cmd.Context(), app, rootFlags, flags, args[0])
			if err != nil {
				return fail(cmd, app, err, exitFailure, rootFlags.verbose)
			}
			if flags.watch {
				return runWatch(cmd, app, plan)
			}
			if err := runBuild(cmd.Context(), app, plan); err != nil {
				code := exitFailure
				var exitErr *ExitError
				if errors.As(err, &exitErr) {
					code, err = exitErr.Code, exitErr.Err
				}
				return fail(cmd, app, err, code, rootFlags.verbose)
			}
			return nil
		},
	}

	buildCmd.Flags().StringVarP(&flags.output, "output", "o", "", "write the result to this file instead of stdout")
	buildCmd.Flags().StringArrayVarP(&flags.loadPaths, "load-path", "I", nil, "additional directory to search for imports (repeatable)")
	buildCmd.Flags().StringArrayVar(&flags.formats, "format", nil, "additional file name format, % is the import name (repeatable)")
	buildCmd.Flags().BoolVar(&flags.noDedupe, "no-dedupe", false, "import files every time they appear unless marked !once")
	buildCmd.Flags().BoolVar(&flags.unquoteStrings, "unquote-strings", false, "emit data file strings without quotes")
	buildCmd.Flags().BoolVar(&flags.debug, "debug", false, "log every failed import with the paths that were tried")
	buildCmd.Flags().BoolVar(&flags.strict, "strict", false, "exit with status 2 when any import produced a warning")
	buildCmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "rebuild whenever an imported file changes")

	return buildCmd
}

// newBuildPlan merges the configuration file with the command-line flags.
// Flags extend list settings and override boolean ones.
func newBuildPlan(ctx context.Context, app *App, rootFlags *rootFlagValues, flags *buildFlagValues, entry string) (*buildPlan, error) {
	cfg, err := app.loadConfig(ctx, rootFlags)
	if err != nil {
		return nil, err
	}
	logger, err := app.newLogger(cfg, rootFlags)
	if err != nil {
		return nil, err
	}

	loadPaths := make([]string, 0, len(cfg.LoadPaths)+len(flags.loadPaths))
	searchPaths := make([]resolve.SearchPath, 0, cap(loadPaths))
	for _, p := range slices.Concat(cfg.LoadPaths, flags.loadPaths) {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolve load path %q: %w", p, err)
		}
		loadPaths = append(loadPaths, abs)
		searchPaths = append(searchPaths, resolve.Dir(abs))
	}

	output := ""
	if flags.output != "" {
		output = fsload.Canonical(flags.output)
	}

	dedupe := cfg.Dedupe && !flags.noDedupe
	engine := importer.Build(importer.Options{
		Dedupe:         &dedupe,
		Formats:        slices.Concat(cfg.Formats, flags.formats),
		LoadPaths:      searchPaths,
		VirtualFiles:   cfg.VirtualFileMap(),
		Debug:          cfg.Debug || flags.debug,
		UnquoteStrings: cfg.UnquoteStrings || flags.unquoteStrings,
		Logger:         logger,
	})

	return &buildPlan{
		entry:     fsload.Canonical(entry),
		output:    output,
		loadPaths: loadPaths,
		strict:    flags.strict,
		verbose:   rootFlags.verbose,
		engine:    engine,
		logger:    logger,
	}, nil
}

// runBuild compiles the entry file once, writes the result and reports
// warnings. Under --strict any warning yields an exitWarnings ExitError.
func runBuild(ctx context.Context, app *App, plan *buildPlan) error {
	res, err := compile(ctx, plan)
	if err != nil {
		return err
	}

	if err := writeOutput(app, plan, res.Root.String()+"\n"); err != nil {
		return err
	}
	reportWarnings(app, res.Warnings, plan.verbose)
	plan.logger.Info("built", "entry", plan.entry, "inlined", len(res.Inlined), "warnings", len(res.Warnings))

	if plan.strict && len(res.Warnings) > 0 {
		return &ExitError{
			Code: exitWarnings,
			Err: issue.New(issue.WarningsAsErrorsId, "build stylesheet", plan.entry,
				fmt.Errorf("%d import warning(s) with --strict", len(res.Warnings)),
				"Fix the imports listed above or mark them !optional"),
		}
	}
	return nil
}

// compile reads and parses the entry file and resolves its imports.
func compile(ctx context.Context, plan *buildPlan) (*importer.Result, error) {
	f, err := fsload.ReadFile(plan.entry, plan.engine.Overlay)
	if err != nil {
		return nil, issue.New(issue.InputNotFoundId, "read stylesheet", plan.entry, err,
			"Check the path passed to 'sassyimport build'")
	}

	root, err := sheet.Parse(f.Contents, f.Path, syntaxOf(f.Path))
	if err != nil {
		return nil, issue.New(issue.StylesheetParseErrorId, "parse stylesheet", f.Path, err)
	}

	return importer.Process(ctx, root, plan.engine)
}

// syntaxOf picks the comment dialect for the entry file.
func syntaxOf(path string) sheet.Syntax {
	if strings.EqualFold(filepath.Ext(path), ".css") {
		return sheet.CSS
	}
	return sheet.SCSS
}

func writeOutput(app *App, plan *buildPlan, text string) error {
	if plan.output == "" {
		_, err := fmt.Fprint(app.stdout, text)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(plan.output), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(plan.output, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// reportWarnings prints every warning, then in verbose mode the guide for
// each distinct kind of failure.
func reportWarnings(app *App, warnings []sheet.Warning, verbose bool) {
	var guides []issue.Id
	for _, w := range warnings {
		fmt.Fprintf(app.stderr, "%s %s\n", warningLocationStyle.Render("warning:"), WarningStyle.Render(w.String()))
		if id := issueFor(w.Err); id != 0 && !slices.Contains(guides, id) {
			guides = append(guides, id)
		}
	}
	if !verbose {
		return
	}
	for _, id := range guides {
		renderGuide(app.stderr, id)
	}
}

// watchRoots lists the directories whose changes can affect the build.
func (p *buildPlan) watchRoots() []string {
	roots := []string{filepath.Dir(p.entry)}
	for _, dir := range p.loadPaths {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			roots = append(roots, dir)
		}
	}
	return roots
}

// runWatch builds once, then rebuilds on every relevant change until the
// command context is cancelled. Build failures are reported and watching
// continues.
func runWatch(cmd *cobra.Command, app *App, plan *buildPlan) error {
	rebuild := func(ctx context.Context) {
		if err := runBuild(ctx, app, plan); err != nil {
			fmt.Fprintln(app.stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, plan.verbose))
		}
	}

	var exclude []string
	if plan.output != "" {
		exclude = append(exclude, plan.output)
	}

	w, err := watch.New(watch.Config{
		Roots:   plan.watchRoots(),
		Exclude: exclude,
		Logger:  plan.logger,
		OnChange: func(ctx context.Context, changed []string) error {
			plan.logger.Info("change detected, rebuilding", "files", len(changed))
			rebuild(ctx)
			return nil
		},
	})
	if err != nil {
		return fail(cmd, app, fmt.Errorf("failed to start watcher: %w", err), exitFailure, plan.verbose)
	}

	rebuild(cmd.Context())
	fmt.Fprintf(app.stderr, "%s %s\n", VerboseStyle.Render("Watching"), PathStyle.Render(strings.Join(w.Roots(), ", ")))
	return w.Run(cmd.Context())
}
