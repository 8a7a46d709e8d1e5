// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sassyimport/sassyimport/internal/config"
	"github.com/sassyimport/sassyimport/internal/issue"
)

// newConfigCommand creates the `sassyimport config` command tree.
func newConfigCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect sassyimport configuration",
		Long: `Inspect sassyimport configuration.

Configuration is read from the first of:
  - the file given with --config
  - Linux: ~/.config/sassyimport/config.cue
    macOS: ~/Library/Application Support/sassyimport/config.cue
    Windows: %APPDATA%\sassyimport\config.cue
  - ./sassyimport.cue

Environment variables prefixed with SASSYIMPORT_ override file values.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := showConfig(cmd.Context(), app, rootFlags); err != nil {
				return fail(cmd, app, err, exitFailure, rootFlags.verbose)
			}
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context(), rootFlags)
			if err != nil {
				return fail(cmd, app, err, exitFailure, rootFlags.verbose)
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show where configuration files are looked up",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(app.stdout, rootFlags)
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App, rootFlags *rootFlagValues) error {
	cfg, err := app.loadConfig(ctx, rootFlags)
	if err != nil {
		var ae *issue.ActionableError
		if !errors.As(err, &ae) {
			err = issue.New(issue.ConfigLoadFailedId, "load configuration", "", err)
		}
		return err
	}

	out := app.stdout
	keyStyle := PathStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(out, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(out)

	printList := func(key string, values []string) {
		fmt.Fprintf(out, "%s:\n", keyStyle.Render(key))
		if len(values) == 0 {
			fmt.Fprintf(out, "  %s\n", SubtitleStyle.Render("(none configured)"))
			return
		}
		for _, v := range values {
			fmt.Fprintf(out, "  - %s\n", valueStyle.Render(v))
		}
	}

	printList("load_paths", cfg.LoadPaths)
	printList("formats", cfg.Formats)
	fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("dedupe"), valueStyle.Render(fmt.Sprint(cfg.Dedupe)))
	fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("debug"), valueStyle.Render(fmt.Sprint(cfg.Debug)))
	fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("unquote_strings"), valueStyle.Render(fmt.Sprint(cfg.UnquoteStrings)))
	fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("log_level"), valueStyle.Render(cfg.LogLevel.String()))

	virtual := make([]string, 0, len(cfg.VirtualFiles))
	for _, vf := range cfg.VirtualFiles {
		virtual = append(virtual, fmt.Sprintf("%s (%d bytes)", vf.Path, len(vf.Contents)))
	}
	printList("virtual_files", virtual)

	return nil
}

func showConfigPath(out io.Writer, rootFlags *rootFlagValues) error {
	if rootFlags.configPath != "" {
		fmt.Fprintf(out, "Config file: %s (from --config)\n", rootFlags.configPath)
		return nil
	}

	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Config file: %s\n", filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt))
	fmt.Fprintf(out, "Local file: %s\n", config.LocalConfigFileName)
	return nil
}
