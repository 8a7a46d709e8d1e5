// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for sassyimport.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootFlagValues holds the persistent flags shared by every subcommand.
type rootFlagValues struct {
	configPath string
	logLevel   string
	verbose    bool
}

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	flags := &rootFlagValues{}

	rootCmd := &cobra.Command{
		Use:   "sassyimport",
		Short: "Inline @import directives in SCSS and CSS",
		Long: TitleStyle.Render("sassyimport") + SubtitleStyle.Render(" - Inline @import directives in SCSS and CSS") + `

sassyimport replaces every @import in a stylesheet with the contents of the
file it names. Imports are resolved next to the importing file first, then
in every load path. Data files (JSON, JSONC, YAML, TOML) become variable
declarations.

` + SubtitleStyle.Render("Modifiers:") + `
  @import "x" !once        import x at most once (default)
  @import "x" !multiple    import x every time it appears
  @import "x" !optional    drop the import silently if x is missing
  @import "x" !not-sassy   leave the import for a later tool

` + SubtitleStyle.Render("Examples:") + `
  sassyimport build main.scss                 Print the inlined stylesheet
  sassyimport build main.scss -o out.css -I lib
  sassyimport build main.scss --watch         Rebuild on every change
  sassyimport resolve theme --from main.scss  Show candidate paths
  sassyimport config show                     Show current configuration`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/sassyimport/config.cue)")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn or error (overrides config)")

	rootCmd.AddCommand(newBuildCommand(app, flags))
	rootCmd.AddCommand(newResolveCommand(app, flags))
	rootCmd.AddCommand(newConfigCommand(app, flags))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI. This is called by main.main().
func Execute() {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+err.Error())
		os.Exit(1)
	}

	// fang overrides rootCmd.Version, so the version goes through WithVersion.
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
