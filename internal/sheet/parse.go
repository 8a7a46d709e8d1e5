// SPDX-License-Identifier: MPL-2.0

package sheet

import (
	"fmt"
	"strings"

	"github.com/gorilla/css/scanner"
)

const (
	// CSS is plain CSS: only block comments are recognized.
	CSS Syntax = iota
	// SCSS additionally recognizes `//` line comments.
	SCSS
)

type (
	// Syntax selects the comment dialect understood by Parse.
	Syntax int

	// ParseError reports malformed stylesheet input.
	ParseError struct {
		File   string
		Line   int
		Column int
		Reason string
	}

	parser struct {
		toks   []*scanner.Token
		pos    int
		file   string
		syntax Syntax
	}
)

// Error implements the error interface.
func (e *ParseError) Error() string {
	file := e.File
	if file == "" {
		file = "<input>"
	}
	return fmt.Sprintf("%s:%d:%d: %s", file, e.Line, e.Column, e.Reason)
}

// Parse builds a tree from src. The from path is recorded on every node's
// Source so that relative imports can later be resolved against it.
func Parse(src, from string, syntax Syntax) (*Node, error) {
	toks, err := tokenize(src)
	if err != nil {
		err.File = from
		return nil, err
	}

	p := &parser{toks: toks, file: from, syntax: syntax}
	root := NewRoot(from)
	if err := p.parseNodes(root, false); err != nil {
		return nil, err
	}
	return root, nil
}

func tokenize(src string) ([]*scanner.Token, *ParseError) {
	var toks []*scanner.Token
	s := scanner.New(src)
	for {
		tok := s.Next()
		switch tok.Type {
		case scanner.TokenEOF:
			return toks, nil
		case scanner.TokenError:
			return nil, &ParseError{Line: tok.Line, Column: tok.Column, Reason: fmt.Sprintf("unrecognized input %q", tok.Value)}
		case scanner.TokenBOM, scanner.TokenCDO, scanner.TokenCDC:
			continue
		}
		toks = append(toks, tok)
	}
}

func (p *parser) parseNodes(parent *Node, nested bool) error {
	for p.pos < len(p.toks) {
		tok := p.toks[p.pos]
		switch {
		case tok.Type == scanner.TokenS:
			p.pos++
		case tok.Type == scanner.TokenComment:
			p.pos++
			parent.Append(&Node{Kind: CommentNode, Text: commentBody(tok.Value), Source: p.source(tok)})
		case p.atLineComment():
			parent.Append(p.lineComment())
		case isChar(tok, "}"):
			if !nested {
				return p.errorf(tok, "unexpected }")
			}
			p.pos++
			return nil
		case isChar(tok, ";"):
			p.pos++
		case tok.Type == scanner.TokenAtKeyword:
			if err := p.parseAtRule(parent); err != nil {
				return err
			}
		default:
			if err := p.parseRuleOrDecl(parent); err != nil {
				return err
			}
		}
	}

	if nested {
		return &ParseError{File: p.file, Line: parent.Source.Line, Column: parent.Source.Column, Reason: "unclosed block"}
	}
	return nil
}

func (p *parser) parseAtRule(parent *Node) error {
	tok := p.toks[p.pos]
	p.pos++

	node := &Node{Kind: AtRuleNode, Name: strings.TrimPrefix(tok.Value, "@"), Source: p.source(tok)}
	params, term := p.prelude()
	node.Params = params
	parent.Append(node)

	switch {
	case term == nil:
		return nil
	case isChar(term, ";"):
		p.pos++
	case isChar(term, "{"):
		p.pos++
		node.Block = true
		return p.parseNodes(node, true)
	}
	return nil
}

func (p *parser) parseRuleOrDecl(parent *Node) error {
	start := p.toks[p.pos]
	text, term := p.prelude()

	if term != nil && isChar(term, "{") {
		p.pos++
		rule := &Node{Kind: RuleNode, Selector: text, Block: true, Source: p.source(start)}
		parent.Append(rule)
		return p.parseNodes(rule, true)
	}

	prop, value, ok := strings.Cut(text, ":")
	if !ok || strings.TrimSpace(prop) == "" {
		word, _, _ := strings.Cut(text, " ")
		return p.errorf(start, fmt.Sprintf("unknown word %q", word))
	}
	parent.Append(&Node{
		Kind:   DeclNode,
		Prop:   strings.TrimSpace(prop),
		Value:  strings.TrimSpace(value),
		Source: p.source(start),
	})
	if term != nil && isChar(term, ";") {
		p.pos++
	}
	return nil
}

// prelude gathers raw text up to a top-level ';', '{' or '}' and returns the
// terminating token without consuming it. A nil terminator means EOF.
func (p *parser) prelude() (string, *scanner.Token) {
	var sb strings.Builder
	depth := 0
	for p.pos < len(p.toks) {
		tok := p.toks[p.pos]
		switch {
		case tok.Type == scanner.TokenFunction || isChar(tok, "(") || isChar(tok, "["):
			depth++
		case (isChar(tok, ")") || isChar(tok, "]")) && depth > 0:
			depth--
		case depth == 0 && isChar(tok, "{") && p.afterHash():
			sb.WriteString(p.interpolation())
			continue
		case depth == 0 && (isChar(tok, ";") || isChar(tok, "{") || isChar(tok, "}")):
			return strings.TrimSpace(sb.String()), tok
		case p.atLineComment():
			p.lineComment()
			sb.WriteString(" ")
			continue
		}
		sb.WriteString(tok.Value)
		p.pos++
	}
	return strings.TrimSpace(sb.String()), nil
}

// interpolation consumes a balanced `{ ... }` run following '#'.
func (p *parser) interpolation() string {
	var sb strings.Builder
	depth := 0
	for p.pos < len(p.toks) {
		tok := p.toks[p.pos]
		sb.WriteString(tok.Value)
		p.pos++
		if isChar(tok, "{") {
			depth++
		} else if isChar(tok, "}") {
			depth--
			if depth == 0 {
				break
			}
		}
	}
	return sb.String()
}

func (p *parser) afterHash() bool {
	return p.pos > 0 && isChar(p.toks[p.pos-1], "#")
}

func (p *parser) atLineComment() bool {
	if p.syntax != SCSS || p.pos+1 >= len(p.toks) {
		return false
	}
	a, b := p.toks[p.pos], p.toks[p.pos+1]
	return isChar(a, "/") && isChar(b, "/") && a.Line == b.Line && b.Column == a.Column+1
}

// lineComment consumes a `//` comment through the end of its line.
func (p *parser) lineComment() *Node {
	start := p.toks[p.pos]
	p.pos += 2

	var sb strings.Builder
	for p.pos < len(p.toks) {
		tok := p.toks[p.pos]
		if tok.Line != start.Line {
			break
		}
		if tok.Type == scanner.TokenS && strings.ContainsAny(tok.Value, "\r\n") {
			break
		}
		sb.WriteString(tok.Value)
		p.pos++
	}
	return &Node{Kind: CommentNode, Text: strings.TrimSpace(sb.String()), Inline: true, Source: p.source(start)}
}

func (p *parser) source(tok *scanner.Token) Source {
	return Source{File: p.file, Line: tok.Line, Column: tok.Column}
}

func (p *parser) errorf(tok *scanner.Token, reason string) error {
	return &ParseError{File: p.file, Line: tok.Line, Column: tok.Column, Reason: reason}
}

func isChar(tok *scanner.Token, c string) bool {
	return tok.Type == scanner.TokenChar && tok.Value == c
}

func commentBody(raw string) string {
	body := strings.TrimPrefix(raw, "/*")
	body = strings.TrimSuffix(body, "*/")
	return strings.TrimSpace(body)
}
