// Package mdast converts a concrete markdown syntax tree into a clean,
// semantically typed AST. The conversion is a pure function over an
// immutable tree snapshot and the source text: it drops formatting
// punctuation, recovers unwrapped plain text from byte gaps, and degrades
// unknown node kinds into Generic nodes so the whole source stays covered.
package mdast

import "github.com/mdtree/mdtree/internal/citation"

// NodeType discriminates the closed set of AST node variants. Consumers
// type-switch on the concrete node structs; the string tag exists for
// serialization and debugging.
type NodeType string

const (
	TypeText             NodeType = "Text"
	TypeHeading          NodeType = "Heading"
	TypeCitation         NodeType = "Citation"
	TypeFootnote         NodeType = "Footnote"
	TypeFootnoteRef      NodeType = "FootnoteRef"
	TypeLinkOrImage      NodeType = "LinkOrImage"
	TypeHighlight        NodeType = "Highlight"
	TypeEmphasis         NodeType = "Emphasis"
	TypeList             NodeType = "List"
	TypeListItem         NodeType = "ListItem"
	TypeFencedCode       NodeType = "FencedCode"
	TypeInlineCode       NodeType = "InlineCode"
	TypeYAMLFrontmatter  NodeType = "YAMLFrontmatter"
	TypeTable            NodeType = "Table"
	TypeTableRow         NodeType = "TableRow"
	TypeTableCell        NodeType = "TableCell"
	TypeZettelkastenLink NodeType = "ZettelkastenLink"
	TypeZettelkastenTag  NodeType = "ZettelkastenTag"
	TypeGeneric          NodeType = "Generic"
)

// BaseNode carries what every AST node has: the original syntax-tree kind
// (kept for traceability), the semantic type tag, the half-open byte range
// into the source, and any Pandoc attributes merged onto the node.
type BaseNode struct {
	Kind       string
	Type       NodeType
	From       int
	To         int
	Attributes map[string]string
}

// Base returns the shared fields of the node.
func (b *BaseNode) Base() *BaseNode { return b }

// Node is an AST node. The variant set is closed: every implementation
// lives in this package, so consumers can type-switch exhaustively.
type Node interface {
	Base() *BaseNode
}

// Text is raw string content, the universal fallback unit.
type Text struct {
	BaseNode
	Value string
}

// Heading is an ATX or setext heading with its level and trimmed text.
type Heading struct {
	BaseNode
	Value *Text
	Level int
}

// Citation is an in-text citation; Parsed holds the first structured
// result from the citation extractor, or nil if it produced none.
type Citation struct {
	BaseNode
	Value  *Text
	Parsed *citation.Citation
}

// Footnote is the in-text footnote marker. Inline footnotes carry their
// label content directly instead of referencing a definition.
type Footnote struct {
	BaseNode
	Label  string
	Inline bool
}

// FootnoteRef is a footnote definition with its converted body.
type FootnoteRef struct {
	BaseNode
	Label    string
	Children []Node
}

// LinkVariant distinguishes links from images.
type LinkVariant string

const (
	VariantLink  LinkVariant = "Link"
	VariantImage LinkVariant = "Image"
)

// LinkOrImage is an inline link or image. Title is declared for any
// downstream consumer that needs it but is not populated by the converter.
type LinkOrImage struct {
	BaseNode
	Variant LinkVariant
	URL     *Text
	Alt     *Text
	Title   *Text
}

// Highlight is ==highlighted== content.
type Highlight struct {
	BaseNode
	Children []Node
}

// EmphasisKind distinguishes italic from bold emphasis.
type EmphasisKind string

const (
	Italic EmphasisKind = "italic"
	Bold   EmphasisKind = "bold"
)

// Emphasis is an emphasis span with its converted children.
type Emphasis struct {
	BaseNode
	Which    EmphasisKind
	Children []Node
}

// List is an ordered or bullet list.
type List struct {
	BaseNode
	Ordered bool
	Items   []*ListItem
}

// Marker describes a list item's marker glyph. Symbol is set only for
// single-character bullet markers.
type Marker struct {
	Symbol string `json:"symbol,omitempty"`
	From   int    `json:"from"`
	To     int    `json:"to"`
}

// ListItem is one list entry. Checked is non-nil only for task items.
type ListItem struct {
	BaseNode
	Checked  *bool
	Marker   Marker
	Children []Node
}

// FencedCode is a fenced or indented code block, or — when Type is
// TypeYAMLFrontmatter — the document's YAML frontmatter. Source is the
// verbatim, untokenized code text. Info is the fence info string; it is
// the literal "$$" for math fences.
type FencedCode struct {
	BaseNode
	Info   string
	Source string
}

// InlineCode is the verbatim text between two code delimiters.
type InlineCode struct {
	BaseNode
	Source string
}

// Table is a table with header and body rows merged in document order.
type Table struct {
	BaseNode
	Rows []*TableRow
}

// TableRow is one table row.
type TableRow struct {
	BaseNode
	IsHeaderOrFooter bool
	Cells            []*TableCell
}

// TableCell is one table cell with converted content.
type TableCell struct {
	BaseNode
	Children []Node
}

// ZettelkastenLink is the raw inner content of a [[...]] link.
type ZettelkastenLink struct {
	BaseNode
	Value *Text
}

// ZettelkastenTag is a #tag, value including the leading '#'.
type ZettelkastenTag struct {
	BaseNode
	Value *Text
}

// Generic is the catch-all for syntax-node kinds without a dedicated
// variant. It guarantees total coverage of the source tree.
type Generic struct {
	BaseNode
	Children []Node
}
