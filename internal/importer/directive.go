// SPDX-License-Identifier: MPL-2.0

package importer

import (
	"regexp"
	"strings"

	"github.com/sassyimport/sassyimport/internal/resolve"
	"github.com/sassyimport/sassyimport/internal/sheet"
)

// Modifier tokens recognized after the fragment.
const (
	ModOnce     = "!once"
	ModMultiple = "!multiple"
	ModOptional = "!optional"
	ModNotSassy = "!not-sassy"
)

var directivePattern = regexp.MustCompile(`(?s)^['"](.+?)['"](.*)`)

// Directive is a parsed `@import` statement.
type Directive struct {
	Node     *sheet.Node
	Fragment string
	// Origin is the file containing the directive.
	Origin string

	Once     bool
	Multiple bool
	Optional bool
	NotSassy bool
}

// ParseDirective extracts the fragment and modifiers from an import node.
// The boolean is false when the params hold no quoted fragment.
func ParseDirective(node *sheet.Node) (Directive, bool) {
	m := directivePattern.FindStringSubmatch(strings.TrimSpace(node.Params))
	if m == nil {
		return Directive{}, false
	}

	d := Directive{Node: node, Fragment: m[1], Origin: node.Source.File}
	for _, tok := range strings.Fields(m[2]) {
		switch tok {
		case ModOnce:
			d.Once = true
		case ModMultiple:
			d.Multiple = true
		case ModOptional:
			d.Optional = true
		case ModNotSassy:
			d.NotSassy = true
		}
	}
	return d, true
}

// Dedupe returns the directive's effective once-only policy. !once wins over
// !multiple when both are present.
func (d Directive) Dedupe(def bool) bool {
	switch {
	case d.Once:
		return true
	case d.Multiple:
		return false
	default:
		return def
	}
}

// Wildcard reports whether the fragment is a glob.
func (d Directive) Wildcard() bool {
	return resolve.HasMagic(d.Fragment)
}

// Unwrap rewrites the node to a plain quoted import without modifiers.
func (d Directive) Unwrap() {
	d.Node.Params = `"` + d.Fragment + `"`
}
