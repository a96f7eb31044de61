package ui

import (
	"fmt"
	"strings"

	"github.com/papapumpkin/adaptive-palette/internal/bliss"
)

// TreeNode is one element of an expansion tree. Children are set when the
// element is a composite symbol; Sep holds the separator that joined the
// element to its left sibling.
type TreeNode struct {
	Element     bliss.Element
	Sep         string
	Description string
	Children    []TreeNode
}

// ExpansionTree shows how id expands one composition level at a time, down
// to atomic symbols. The full decomposition is attempted first so a cyclic
// or too-deep table fails with the codec's error instead of looping.
func ExpansionTree(codec *bliss.Codec, id int) (TreeNode, error) {
	_, ok, err := codec.Decompose(bliss.Scalar(id))
	if err != nil {
		return TreeNode{}, err
	}
	if !ok {
		return TreeNode{}, &bliss.LookupError{Kind: "BCI-AV-ID", ID: id}
	}
	return expandNode(codec, bliss.Sym(id))
}

func expandNode(codec *bliss.Codec, e bliss.Element) (TreeNode, error) {
	node := TreeNode{Element: e}
	if !e.IsSymbol() {
		return node, nil
	}
	sym, ok := codec.FindSymbol(bliss.Scalar(e.ID))
	if !ok {
		return node, nil
	}
	node.Description = sym.Description
	if !sym.IsComposite() {
		return node, nil
	}
	parts, err := codec.ParseBuilder(sym.Composition, bliss.DialectAuto)
	if err != nil {
		return TreeNode{}, fmt.Errorf("composition of %d: %w", e.ID, err)
	}
	if len(parts) == 1 && parts[0] == e {
		return node, nil
	}

	sep := ""
	for _, part := range parts {
		if part.IsSeparator() {
			sep = part.Text
			continue
		}
		child, err := expandNode(codec, part)
		if err != nil {
			return TreeNode{}, err
		}
		child.Sep = sep
		sep = ""
		node.Children = append(node.Children, child)
	}
	return node, nil
}

// RenderTree draws the tree with box-drawing branches.
//
//	15161 to know
//	├── 15162 mind
//	└── ;8993
func RenderTree(root TreeNode) string {
	var sb strings.Builder
	sb.WriteString(nodeLabel(root))
	sb.WriteByte('\n')
	renderChildren(&sb, root.Children, "")
	return sb.String()
}

func renderChildren(sb *strings.Builder, children []TreeNode, prefix string) {
	for i, child := range children {
		branch, next := "├── ", "│   "
		if i == len(children)-1 {
			branch, next = "└── ", "    "
		}
		sb.WriteString(styleSeparator.Render(prefix + branch))
		sb.WriteString(nodeLabel(child))
		sb.WriteByte('\n')
		renderChildren(sb, child.Children, prefix+next)
	}
}

func nodeLabel(n TreeNode) string {
	label := element(n.Element)
	if n.Sep != "" {
		label = styleSeparator.Render(n.Sep) + label
	}
	if n.Description != "" {
		label += " " + styleLabel.Render(n.Description)
	}
	return label
}

// Tree prints the expansion tree of id.
func (p *Printer) Tree(root TreeNode) {
	fmt.Fprint(p.w, RenderTree(root))
}
