// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
)

const (
	InputNotFoundId Id = iota + 1
	ImportNotFoundId
	NoLoaderId
	StylesheetParseErrorId
	DataDecodeErrorId
	ConfigLoadFailedId
	WarningsAsErrorsId
)

type (
	Id int

	MarkdownMsg string

	// Issue is a catalog entry with Markdown guidance for a class of failure.
	Issue struct {
		id    Id
		mdMsg MarkdownMsg
	}
)

var (
	render = glamour.Render

	inputNotFoundIssue = &Issue{
		id: InputNotFoundId,
		mdMsg: `
# Input stylesheet not found!

The file passed to ` + "`sassyimport build`" + ` could not be read.

## Things you can try:
- Check the path for typos
- Run the command from the directory that holds the stylesheet
- Use an absolute path:
~~~
$ sassyimport build "$PWD/styles/main.scss"
~~~`,
	}

	importNotFoundIssue = &Issue{
		id: ImportNotFoundId,
		mdMsg: `
# Couldn't find an import!

No candidate path existed for an ` + "`@import`" + ` fragment.

## How fragments are resolved:
1. Fragments starting with ` + "`.`" + ` are resolved next to the importing file only
2. Absolute fragments are used as-is
3. Anything else is tried in the importing file's directory, then every load path

Within each directory every format is tried in order:
` + "`%`, `%.scss`, `_%.scss`, `%.css`, `%.json`, `%.jsonc`, `%.yaml`, `%.yml`, `%.toml`, `%/style.scss`" + `

## Things you can try:
- Add a load path:
~~~
$ sassyimport build main.scss -I node_modules
~~~

- Inspect the candidates for a fragment:
~~~
$ sassyimport resolve theme/colors --from main.scss
~~~

- Mark the import as optional:
~~~scss
@import "local-overrides" !optional;
~~~`,
	}

	noLoaderIssue = &Issue{
		id: NoLoaderId,
		mdMsg: `
# No loader for an imported file!

A file was found, but its extension is not handled.

## Supported extensions:
- **.scss** and **.css**: stylesheets, imported recursively
- **.json**, **.jsonc**, **.yaml**, **.yml**, **.toml**: data files, converted to variables

## Things you can try:
- Rename the file to a supported extension
- Leave the import to a later tool:
~~~scss
@import "legacy.less" !not-sassy;
~~~`,
	}

	stylesheetParseErrorIssue = &Issue{
		id: StylesheetParseErrorId,
		mdMsg: `
# Failed to parse a stylesheet!

## Common issues:
- A block opened with ` + "`{`" + ` that is never closed
- A stray ` + "`}`" + `
- A property without a value

## Things you can try:
- Check the file, line and column reported above
- Run with ` + "`--verbose`" + ` to see the full error chain`,
	}

	dataDecodeErrorIssue = &Issue{
		id: DataDecodeErrorId,
		mdMsg: `
# Failed to convert a data file!

Data files become ` + "`$variable: value;`" + ` declarations. The top-level value
must be an object.

## Example:
~~~json
{"color": "red", "sizes": [1, 2, 3]}
~~~

becomes

~~~scss
$color: "red";
$sizes: (1, 2, 3);
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

## Things you can try:
- Check the CUE syntax of your config file
- Print the effective configuration:
~~~
$ sassyimport config show
~~~

## Example configuration:
~~~cue
load_paths: ["node_modules", "vendor/styles"]
dedupe: true
log_level: "info"
~~~`,
	}

	warningsAsErrorsIssue = &Issue{
		id: WarningsAsErrorsId,
		mdMsg: `
# Build produced warnings!

` + "`--strict`" + ` treats every import warning as a failure.

## Things you can try:
- Fix the imports listed above
- Mark imports that may legitimately be missing with ` + "`!optional`" + `
- Drop ` + "`--strict`" + ` to keep the output despite warnings`,
	}

	issues = map[Id]*Issue{
		inputNotFoundIssue.Id():        inputNotFoundIssue,
		importNotFoundIssue.Id():       importNotFoundIssue,
		noLoaderIssue.Id():             noLoaderIssue,
		stylesheetParseErrorIssue.Id(): stylesheetParseErrorIssue,
		dataDecodeErrorIssue.Id():      dataDecodeErrorIssue,
		configLoadFailedIssue.Id():     configLoadFailedIssue,
		warningsAsErrorsIssue.Id():     warningsAsErrorsIssue,
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// Title returns the guide's top-level heading without its punctuation.
func (i *Issue) Title() string {
	for line := range strings.Lines(string(i.mdMsg)) {
		if title, ok := strings.CutPrefix(strings.TrimSpace(line), "# "); ok {
			return strings.TrimRight(title, "!.")
		}
	}
	return ""
}

// Render returns the guide as styled terminal output.
func (i *Issue) Render(stylePath string) (string, error) {
	return render(string(i.mdMsg), stylePath)
}

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	return slices.SortedFunc(maps.Values(issues), func(a, b *Issue) int {
		return int(a.id - b.id)
	})
}

// Get returns the catalog entry for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
