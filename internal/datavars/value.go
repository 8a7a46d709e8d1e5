// SPDX-License-Identifier: MPL-2.0

package datavars

import (
	"strings"
)

const (
	kindNull kind = iota
	kindString
	kindNumber
	kindBool
	kindList
	kindMap
)

type (
	kind int

	// value is a format-neutral, order-preserving data tree.
	value struct {
		kind  kind
		text  string
		keys  []string
		items []value
	}

	// Options controls how values are rendered.
	Options struct {
		// UnquoteStrings writes string values without surrounding quotes.
		UnquoteStrings bool
	}
)

// stringEscaper makes text safe inside a double-quoted SCSS string. A raw
// newline would end the string, so it becomes the CSS escape `\a `.
var stringEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\a `)

// render formats v as an SCSS expression. The boolean result is false for
// values that have no SCSS representation (null).
func (v value) render(opts Options) (string, bool) {
	switch v.kind {
	case kindString:
		if opts.UnquoteStrings {
			return v.text, true
		}
		return `"` + stringEscaper.Replace(v.text) + `"`, true
	case kindNumber, kindBool:
		return v.text, true
	case kindList:
		parts := make([]string, 0, len(v.items))
		for _, item := range v.items {
			if s, ok := item.render(opts); ok {
				parts = append(parts, s)
			}
		}
		return "(" + strings.Join(parts, ", ") + ")", true
	case kindMap:
		parts := make([]string, 0, len(v.keys))
		for i, key := range v.keys {
			if s, ok := v.items[i].render(opts); ok {
				parts = append(parts, key+": "+s)
			}
		}
		return "(" + strings.Join(parts, ", ") + ")", true
	default:
		return "", false
	}
}

// declarations renders a top-level map as one `$key: value;` line per key.
func (v value) declarations(opts Options) string {
	lines := make([]string, 0, len(v.keys))
	for i, key := range v.keys {
		if s, ok := v.items[i].render(opts); ok {
			lines = append(lines, "$"+key+": "+s+";")
		}
	}
	return strings.Join(lines, "\n")
}
