// Package walker holds the downstream consumers of the AST: plain-text
// extraction, HTML serialization and frontmatter metadata.
package walker

import (
	"strings"

	"github.com/mdtree/mdtree/internal/mdast"
)

// Fragment is one run of prose text with its byte range in the original
// source, so spellcheck-style consumers can map findings back.
type Fragment struct {
	Value string `json:"value"`
	From  int    `json:"from"`
	To    int    `json:"to"`
}

// Text flattens all prose text of the AST in document order. Code sources
// are excluded: spellcheck and readability consumers do not want them.
func Text(root mdast.Node) string {
	frags := TextFragments(root)
	parts := make([]string, 0, len(frags))
	for _, f := range frags {
		parts = append(parts, strings.TrimSpace(f.Value))
	}
	return strings.Join(parts, " ")
}

// TextFragments collects the Text leaves of the AST in document order.
func TextFragments(root mdast.Node) []Fragment {
	var out []Fragment
	collect(root, &out)
	return out
}

func collect(n mdast.Node, out *[]Fragment) {
	switch v := n.(type) {
	case *mdast.Text:
		appendText(v, out)
	case *mdast.Heading:
		appendText(v.Value, out)
	case *mdast.Citation:
		appendText(v.Value, out)
	case *mdast.Footnote:
		// Marker only; the definition body carries the prose.
	case *mdast.FootnoteRef:
		collectAll(v.Children, out)
	case *mdast.LinkOrImage:
		appendText(v.Alt, out)
	case *mdast.Highlight:
		collectAll(v.Children, out)
	case *mdast.Emphasis:
		collectAll(v.Children, out)
	case *mdast.List:
		for _, item := range v.Items {
			collectAll(item.Children, out)
		}
	case *mdast.ListItem:
		collectAll(v.Children, out)
	case *mdast.FencedCode, *mdast.InlineCode:
		// Not prose.
	case *mdast.Table:
		for _, row := range v.Rows {
			for _, cell := range row.Cells {
				collectAll(cell.Children, out)
			}
		}
	case *mdast.TableRow:
		for _, cell := range v.Cells {
			collectAll(cell.Children, out)
		}
	case *mdast.TableCell:
		collectAll(v.Children, out)
	case *mdast.ZettelkastenLink:
		appendText(v.Value, out)
	case *mdast.ZettelkastenTag:
		appendText(v.Value, out)
	case *mdast.Generic:
		collectAll(v.Children, out)
	}
}

func collectAll(ns []mdast.Node, out *[]Fragment) {
	for _, n := range ns {
		collect(n, out)
	}
}

func appendText(t *mdast.Text, out *[]Fragment) {
	if t == nil {
		return
	}
	value := strings.TrimSpace(t.Value)
	if value == "" {
		return
	}
	*out = append(*out, Fragment{Value: t.Value, From: t.From, To: t.To})
}
