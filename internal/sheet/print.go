// SPDX-License-Identifier: MPL-2.0

package sheet

import "strings"

const indent = "  "

// String prints the node and its descendants. Blocks are re-indented with
// two spaces per level; the original whitespace is not preserved.
func (n *Node) String() string {
	var sb strings.Builder
	n.write(&sb, 0)
	return sb.String()
}

func (n *Node) write(sb *strings.Builder, depth int) {
	switch n.Kind {
	case RootNode:
		writeNodes(sb, n.Nodes, depth)
	case AtRuleNode:
		sb.WriteString("@")
		sb.WriteString(n.Name)
		if n.Params != "" {
			sb.WriteString(" ")
			sb.WriteString(n.Params)
		}
		if !n.Block {
			sb.WriteString(";")
			return
		}
		writeBlock(sb, n.Nodes, depth)
	case RuleNode:
		sb.WriteString(n.Selector)
		writeBlock(sb, n.Nodes, depth)
	case DeclNode:
		sb.WriteString(n.Prop)
		sb.WriteString(": ")
		sb.WriteString(n.Value)
		sb.WriteString(";")
	case CommentNode:
		if n.Inline {
			sb.WriteString("// ")
			sb.WriteString(n.Text)
			return
		}
		sb.WriteString("/* ")
		sb.WriteString(n.Text)
		sb.WriteString(" */")
	}
}

func writeNodes(sb *strings.Builder, nodes []*Node, depth int) {
	for i, c := range nodes {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(strings.Repeat(indent, depth))
		c.write(sb, depth)
	}
}

func writeBlock(sb *strings.Builder, nodes []*Node, depth int) {
	if len(nodes) == 0 {
		sb.WriteString(" {}")
		return
	}
	sb.WriteString(" {\n")
	writeNodes(sb, nodes, depth+1)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat(indent, depth))
	sb.WriteString("}")
}
