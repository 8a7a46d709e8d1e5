// SPDX-License-Identifier: MPL-2.0

package sheet

import (
	"errors"
	"strings"
	"testing"
)

func TestParse_RoundTrip(t *testing.T) {
	t.Parallel()

	src := `@import "a.scss" !optional;
$x: 1;
.a { color: red; .b { margin: 0 } }
@media screen { .c { top: 0 } }`

	root, err := Parse(src, "/p/main.scss", SCSS)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	want := `@import "a.scss" !optional;
$x: 1;
.a {
  color: red;
  .b {
    margin: 0;
  }
}
@media screen {
  .c {
    top: 0;
  }
}`
	if got := root.String(); got != want {
		t.Errorf("String() =\n%s\nwant\n%s", got, want)
	}
}

func TestParse_NodeShapes(t *testing.T) {
	t.Parallel()

	root, err := Parse(`@import 'x' !once;`+"\n"+`$color: #fff !default;`, "/p/a.scss", SCSS)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(root.Nodes) != 2 {
		t.Fatalf("len(Nodes) = %d, want 2", len(root.Nodes))
	}

	imp := root.Nodes[0]
	if imp.Kind != AtRuleNode || imp.Name != "import" || imp.Params != `'x' !once` {
		t.Errorf("import node = %v %q %q", imp.Kind, imp.Name, imp.Params)
	}
	if imp.Source.File != "/p/a.scss" || imp.Source.Line != 1 {
		t.Errorf("import source = %+v", imp.Source)
	}
	if imp.Parent() != root {
		t.Error("import parent should be root")
	}

	decl := root.Nodes[1]
	if decl.Kind != DeclNode || decl.Prop != "$color" || decl.Value != "#fff !default" {
		t.Errorf("decl = %q: %q", decl.Prop, decl.Value)
	}
	if decl.Source.Line != 2 {
		t.Errorf("decl line = %d, want 2", decl.Source.Line)
	}
}

func TestParse_Comments(t *testing.T) {
	t.Parallel()

	root, err := Parse("// hello world\n/* block */\n$a: 1;", "", SCSS)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(root.Nodes) != 3 {
		t.Fatalf("len(Nodes) = %d, want 3", len(root.Nodes))
	}
	if c := root.Nodes[0]; c.Kind != CommentNode || !c.Inline || c.Text != "hello world" {
		t.Errorf("line comment = %+v", c)
	}
	if c := root.Nodes[1]; c.Kind != CommentNode || c.Inline || c.Text != "block" {
		t.Errorf("block comment = %+v", c)
	}
	if got := root.String(); got != "// hello world\n/* block */\n$a: 1;" {
		t.Errorf("String() = %q", got)
	}
}

func TestParse_Interpolation(t *testing.T) {
	t.Parallel()

	root, err := Parse(".icon-#{$name} { x: y }", "", SCSS)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(root.Nodes) != 1 || root.Nodes[0].Selector != ".icon-#{$name}" {
		t.Fatalf("unexpected tree: %s", root.String())
	}
}

func TestParse_FunctionsKeepSemicolonsInsideParens(t *testing.T) {
	t.Parallel()

	root, err := Parse(`a { background: url(x;y.png); color: rgba(0, 0, 0, 0.5) }`, "", CSS)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	rule := root.Nodes[0]
	if len(rule.Nodes) != 2 {
		t.Fatalf("len(rule.Nodes) = %d, want 2: %s", len(rule.Nodes), root.String())
	}
	if rule.Nodes[1].Value != "rgba(0, 0, 0, 0.5)" {
		t.Errorf("color value = %q", rule.Nodes[1].Value)
	}
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		src    string
		reason string
	}{
		{name: "stray close brace", src: "a {}\n}", reason: "unexpected }"},
		{name: "unknown word", src: "foo;", reason: `unknown word "foo"`},
		{name: "unclosed block", src: ".a { color: red;", reason: "unclosed block"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse(tt.src, "/p/bad.css", CSS)
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("Parse() error = %v, want *ParseError", err)
			}
			if pe.Reason != tt.reason {
				t.Errorf("Reason = %q, want %q", pe.Reason, tt.reason)
			}
			if !strings.HasPrefix(pe.Error(), "/p/bad.css:") {
				t.Errorf("Error() = %q, want file prefix", pe.Error())
			}
		})
	}
}
