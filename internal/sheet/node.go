// SPDX-License-Identifier: MPL-2.0

package sheet

const (
	// RootNode is the top of a parsed document.
	RootNode NodeKind = iota
	// AtRuleNode is an `@name params;` or `@name params { ... }` statement.
	AtRuleNode
	// RuleNode is a `selector { ... }` block.
	RuleNode
	// DeclNode is a `prop: value;` declaration, including SCSS variables.
	DeclNode
	// CommentNode is a block comment or, in SCSS, a line comment.
	CommentNode
)

type (
	// NodeKind identifies the shape of a Node.
	NodeKind int

	// Source locates a node in the file it was parsed from.
	Source struct {
		// File is the absolute path of the originating file. Empty for
		// nodes that were built in memory.
		File   string
		Line   int
		Column int
	}

	// Node is one element of a stylesheet tree. Only the fields relevant to
	// Kind are populated.
	Node struct {
		Kind NodeKind

		// Name is the at-rule name without the leading '@'.
		Name string
		// Params is the raw at-rule prelude.
		Params string
		// Selector is the raw rule selector.
		Selector string
		// Prop and Value hold a declaration.
		Prop  string
		Value string
		// Text is the comment body without delimiters.
		Text string
		// Inline marks a `//` comment.
		Inline bool
		// Block reports whether an at-rule owns a `{ ... }` body.
		Block bool

		Nodes  []*Node
		Source Source

		parent *Node
	}
)

// String returns the kind name.
func (k NodeKind) String() string {
	switch k {
	case RootNode:
		return "root"
	case AtRuleNode:
		return "atrule"
	case RuleNode:
		return "rule"
	case DeclNode:
		return "decl"
	case CommentNode:
		return "comment"
	default:
		return "unknown"
	}
}

// NewRoot returns an empty root for the given file.
func NewRoot(file string) *Node {
	return &Node{Kind: RootNode, Source: Source{File: file}}
}

// Parent returns the node's container, or nil for roots and detached nodes.
func (n *Node) Parent() *Node {
	return n.parent
}

// Append adds children to the end of n, detaching them from any previous parent.
func (n *Node) Append(children ...*Node) {
	for _, c := range children {
		c.detach()
		c.parent = n
		n.Nodes = append(n.Nodes, c)
	}
}

// Index returns the position of child within n, or -1.
func (n *Node) Index(child *Node) int {
	for i, c := range n.Nodes {
		if c == child {
			return i
		}
	}
	return -1
}

// ReplaceWith swaps n for the given nodes inside n's parent. Root nodes in
// the replacement list contribute their children rather than themselves, so
// a parsed sub-document can be spliced in directly. Replacing with nothing
// is equivalent to Remove.
func (n *Node) ReplaceWith(nodes ...*Node) {
	p := n.parent
	if p == nil {
		return
	}

	var repl []*Node
	for _, r := range nodes {
		if r == n {
			continue
		}
		if r.Kind == RootNode {
			repl = append(repl, r.takeChildren()...)
			continue
		}
		r.detach()
		repl = append(repl, r)
	}

	i := p.Index(n)
	if i < 0 {
		return
	}
	for _, r := range repl {
		r.parent = p
	}

	out := make([]*Node, 0, len(p.Nodes)-1+len(repl))
	out = append(out, p.Nodes[:i]...)
	out = append(out, repl...)
	out = append(out, p.Nodes[i+1:]...)
	p.Nodes = out
	n.parent = nil
}

// Remove detaches n from its parent.
func (n *Node) Remove() {
	n.detach()
}

// Walk visits n's descendants depth-first in document order. Returning false
// from fn skips the children of the visited node.
func (n *Node) Walk(fn func(*Node) bool) {
	for _, c := range n.Nodes {
		if fn(c) {
			c.Walk(fn)
		}
	}
}

// AtRules returns every descendant at-rule with the given name, in document order.
func (n *Node) AtRules(name string) []*Node {
	var out []*Node
	n.Walk(func(c *Node) bool {
		if c.Kind == AtRuleNode && c.Name == name {
			out = append(out, c)
		}
		return true
	})
	return out
}

func (n *Node) detach() {
	p := n.parent
	if p == nil {
		return
	}
	if i := p.Index(n); i >= 0 {
		p.Nodes = append(p.Nodes[:i:i], p.Nodes[i+1:]...)
	}
	n.parent = nil
}

func (n *Node) takeChildren() []*Node {
	children := n.Nodes
	n.Nodes = nil
	for _, c := range children {
		c.parent = nil
	}
	return children
}
