// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sassyimport/sassyimport/internal/datavars"
	"github.com/sassyimport/sassyimport/internal/fsload"
	"github.com/sassyimport/sassyimport/internal/importer"
	"github.com/sassyimport/sassyimport/internal/issue"
	"github.com/sassyimport/sassyimport/internal/sheet"
)

// guideStyle is the glamour style used for issue guides.
const guideStyle = "dark"

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// issueFor maps an engine failure to the catalog guide that explains it.
// The zero Id means no guide applies.
func issueFor(err error) issue.Id {
	var (
		ae       *issue.ActionableError
		notFound *fsload.NotFoundError
		noLoader *importer.NoLoaderError
		parseErr *sheet.ParseError
		decode   *datavars.DecodeError
	)
	switch {
	case errors.As(err, &ae) && ae.Issue != 0:
		return ae.Issue
	case errors.As(err, &noLoader):
		return issue.NoLoaderId
	case errors.As(err, &notFound):
		return issue.ImportNotFoundId
	case errors.As(err, &decode):
		return issue.DataDecodeErrorId
	case errors.As(err, &parseErr):
		return issue.StylesheetParseErrorId
	default:
		return 0
	}
}

// renderGuide writes the catalog guide for id to w. Rendering failures fall
// back to the raw Markdown.
func renderGuide(w io.Writer, id issue.Id) {
	entry := issue.Get(id)
	if entry == nil {
		return
	}
	rendered, err := entry.Render(guideStyle)
	if err != nil {
		rendered = string(entry.MarkdownMsg())
	}
	fmt.Fprint(w, rendered)
}

// fail prints err in the CLI's own format and returns an ExitError that
// fang will not print a second time.
func fail(cmd *cobra.Command, app *App, err error, code int, verbose bool) error {
	fmt.Fprintln(app.stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))
	if verbose {
		if id := issueFor(err); id != 0 {
			renderGuide(app.stderr, id)
		}
	}
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	return &ExitError{Code: code, Err: err}
}
