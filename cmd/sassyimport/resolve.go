// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sassyimport/sassyimport/internal/fsload"
	"github.com/sassyimport/sassyimport/internal/resolve"
)

func newResolveCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	flags := &buildFlagValues{}
	var from string

	resolveCmd := &cobra.Command{
		Use:   "resolve FRAGMENT",
		Short: "Show where an import would be looked up",
		Long: `Show where an import would be looked up.

Prints every candidate path for FRAGMENT in the order they are tried, as if
it were imported from --from. Wildcard fragments print the files they match
instead. The path that an import would actually use is reported on stderr.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			fragment := args[0]

			plan, err := newBuildPlan(ctx, app, rootFlags, flags, from)
			if err != nil {
				return fail(cmd, app, err, exitFailure, rootFlags.verbose)
			}
			candidates := plan.engine.Candidates(plan.entry, fragment)

			if resolve.HasMagic(fragment) {
				matches, err := resolve.Expand(ctx, candidates, plan.engine.Overlay)
				if err != nil {
					return fail(cmd, app, err, exitFailure, rootFlags.verbose)
				}
				for _, m := range matches {
					fmt.Fprintln(app.stdout, m)
				}
				if len(matches) == 0 {
					fmt.Fprintln(app.stderr, WarningStyle.Render("no files match "+fragment))
				}
				return nil
			}

			for _, c := range candidates {
				fmt.Fprintln(app.stdout, c)
			}
			f, err := fsload.LoadFirstOf(ctx, candidates, plan.engine.Overlay)
			if err != nil {
				fmt.Fprintln(app.stderr, WarningStyle.Render("not found"))
				return nil
			}
			fmt.Fprintf(app.stderr, "%s %s\n", SuccessStyle.Render("resolved:"), PathStyle.Render(f.Path))
			return nil
		},
	}

	resolveCmd.Flags().StringVar(&from, "from", "main.scss", "importing file the fragment is resolved against")
	resolveCmd.Flags().StringArrayVarP(&flags.loadPaths, "load-path", "I", nil, "additional directory to search for imports (repeatable)")
	resolveCmd.Flags().StringArrayVar(&flags.formats, "format", nil, "additional file name format, % is the import name (repeatable)")

	return resolveCmd
}
