package mdast

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mdtree/mdtree/internal/citation"
	"github.com/mdtree/mdtree/internal/syntaxtree"
)

// ErrMissingContent reports a syntax node that is missing a child the
// grammar guarantees. It signals a grammar/converter contract violation,
// not malformed user input, so it propagates instead of degrading.
var ErrMissingContent = errors.New("required child node missing")

// emptyKinds are pure-formatting or container kinds whose byte ranges are
// fully explained by their semantic children or by punctuation that is
// intentionally dropped. No gap-filling text leaves are synthesized for
// them.
var emptyKinds = map[string]bool{
	syntaxtree.KindHeaderMark:           true,
	syntaxtree.KindCodeMark:             true,
	syntaxtree.KindEmphasisMark:         true,
	syntaxtree.KindHighlightMark:        true,
	syntaxtree.KindQuoteMark:            true,
	syntaxtree.KindListMark:             true,
	syntaxtree.KindLinkMark:             true,
	syntaxtree.KindTableDelimiter:       true,
	syntaxtree.KindYAMLFrontmatterStart: true,
	syntaxtree.KindYAMLFrontmatterEnd:   true,
	syntaxtree.KindPandocAttribute:      true,
	syntaxtree.KindDocument:             true,
	syntaxtree.KindBulletList:           true,
	syntaxtree.KindOrderedList:          true,
	syntaxtree.KindListItem:             true,
}

// Converter turns concrete syntax trees into ASTs. The zero-configured
// converter uses the bundled citation extractor. A Converter is stateless
// and safe for concurrent use.
type Converter struct {
	extract citation.ExtractFunc
}

// Option configures a Converter.
type Option func(*Converter)

// WithCitationExtractor replaces the citation extractor.
func WithCitationExtractor(fn citation.ExtractFunc) Option {
	return func(c *Converter) {
		if fn != nil {
			c.extract = fn
		}
	}
}

// New returns a Converter.
func New(opts ...Option) *Converter {
	c := &Converter{extract: citation.Extract}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert transforms node and its subtree into an AST rooted at a node with
// the same byte range. Unrecognized kinds degrade to Generic; the only
// error is a contract violation (see ErrMissingContent).
func (c *Converter) Convert(node *syntaxtree.Node, source string) (Node, error) {
	if node.From() < 0 || node.To() < node.From() || node.To() > len(source) {
		return nil, fmt.Errorf("syntax node %s has range [%d,%d) outside source of %d bytes",
			node.Kind(), node.From(), node.To(), len(source))
	}
	return c.convert(node, source)
}

func (c *Converter) convert(n *syntaxtree.Node, src string) (Node, error) {
	switch n.Kind() {
	case syntaxtree.KindATXHeading1, syntaxtree.KindATXHeading2, syntaxtree.KindATXHeading3,
		syntaxtree.KindATXHeading4, syntaxtree.KindATXHeading5, syntaxtree.KindATXHeading6:
		return c.atxHeading(n, src), nil
	case syntaxtree.KindSetextHeading1, syntaxtree.KindSetextHeading2:
		return c.setextHeading(n, src), nil
	case syntaxtree.KindLink, syntaxtree.KindImage:
		return c.linkOrImage(n, src), nil
	case syntaxtree.KindCitation:
		return c.citation(n, src), nil
	case syntaxtree.KindFootnote:
		return c.footnote(n, src), nil
	case syntaxtree.KindFootnoteRef:
		return c.footnoteRef(n, src)
	case syntaxtree.KindHighlight:
		return c.highlight(n, src)
	case syntaxtree.KindBulletList:
		return c.list(n, src, false)
	case syntaxtree.KindOrderedList:
		return c.list(n, src, true)
	case syntaxtree.KindFencedCode, syntaxtree.KindCodeBlock, syntaxtree.KindYAMLFrontmatter:
		return c.fencedCode(n, src), nil
	case syntaxtree.KindInlineCode:
		return c.inlineCode(n, src), nil
	case syntaxtree.KindEmphasis, syntaxtree.KindStrongEmphasis:
		return c.emphasis(n, src)
	case syntaxtree.KindTable:
		return c.table(n, src)
	case syntaxtree.KindZknLink:
		return c.zknLink(n, src)
	case syntaxtree.KindZknTag:
		value := textNode(src, n.From(), n.To())
		return &ZettelkastenTag{BaseNode: base(n, TypeZettelkastenTag), Value: value}, nil
	default:
		return c.generic(n, src)
	}
}

// atxHeading derives the level from the length of the leading mark run; the
// value is the trimmed text between the mark and the end of the node.
func (c *Converter) atxHeading(n *syntaxtree.Node, src string) Node {
	level := int(n.Kind()[len(n.Kind())-1] - '0')
	contentFrom := n.From()
	if mark := n.Child(syntaxtree.KindHeaderMark); mark != nil {
		level = mark.To() - mark.From()
		contentFrom = mark.To()
	}
	if level < 1 {
		level = 1
	} else if level > 6 {
		level = 6
	}
	return &Heading{
		BaseNode: base(n, TypeHeading),
		Value:    trimmedText(src, contentFrom, n.To()),
		Level:    level,
	}
}

// setextHeading is level 2 when the underline mark contains a dash, level 1
// otherwise; the value is the trimmed text before the mark.
func (c *Converter) setextHeading(n *syntaxtree.Node, src string) Node {
	level := 1
	contentTo := n.To()
	if mark := n.Child(syntaxtree.KindHeaderMark); mark != nil {
		if strings.Contains(mark.Text(src), "-") {
			level = 2
		}
		contentTo = mark.From()
	}
	return &Heading{
		BaseNode: base(n, TypeHeading),
		Value:    trimmedText(src, n.From(), contentTo),
		Level:    level,
	}
}

// linkOrImage extracts the URL verbatim from the dedicated URL child. A
// node without one is malformed and flattens to Generic raw text. The alt
// text prefers a label child and falls back to the span between the first
// two bracket marks, for grammars that leave link text unlabeled.
func (c *Converter) linkOrImage(n *syntaxtree.Node, src string) Node {
	urlNode := n.Child(syntaxtree.KindURL)
	if urlNode == nil {
		return c.genericText(n, src)
	}
	url := textNode(src, urlNode.From(), urlNode.To())
	alt := url
	if label := n.Child(syntaxtree.KindLinkLabel); label != nil {
		alt = textNode(src, label.From(), label.To())
	} else if marks := n.ChildrenOfKind(syntaxtree.KindLinkMark); len(marks) >= 2 {
		alt = textNode(src, marks[0].To(), marks[1].From())
	}
	variant := VariantLink
	if n.Kind() == syntaxtree.KindImage {
		variant = VariantImage
	}
	return &LinkOrImage{
		BaseNode: base(n, TypeLinkOrImage),
		Variant:  variant,
		URL:      url,
		Alt:      alt,
	}
}

// citation keeps the verbatim code and the first structured result from the
// extractor. The grammar matches at most one logical citation per span.
func (c *Converter) citation(n *syntaxtree.Node, src string) Node {
	value := textNode(src, n.From(), n.To())
	cit := &Citation{BaseNode: base(n, TypeCitation), Value: value}
	if res := c.extract(value.Value); len(res) > 0 {
		cit.Parsed = &res[0]
	}
	return cit
}

// footnote parses the in-text marker [^label]. A trailing caret marks an
// inline footnote and is stripped from the label.
func (c *Converter) footnote(n *syntaxtree.Node, src string) Node {
	content := strings.TrimPrefix(n.Text(src), "[^")
	content = strings.TrimSpace(strings.TrimSuffix(content, "]"))
	fn := &Footnote{BaseNode: base(n, TypeFootnote), Label: content}
	if strings.HasSuffix(content, "^") {
		fn.Inline = true
		fn.Label = content[:len(content)-1]
	}
	return fn
}

// footnoteRef converts a footnote definition: label from the label child
// with its delimiters stripped, body converted recursively.
func (c *Converter) footnoteRef(n *syntaxtree.Node, src string) (Node, error) {
	ref := &FootnoteRef{BaseNode: base(n, TypeFootnoteRef)}
	if label := n.Child(syntaxtree.KindFootnoteRefLabel); label != nil {
		ref.Label = strings.TrimSuffix(strings.TrimPrefix(label.Text(src), "[^"), "]:")
	}
	if body := n.Child(syntaxtree.KindFootnoteRefBody); body != nil {
		children, attrs, err := c.childrenOf(body, src)
		if err != nil {
			return nil, err
		}
		ref.Children = children
		ref.Attributes = attrs
	}
	return ref, nil
}

func (c *Converter) highlight(n *syntaxtree.Node, src string) (Node, error) {
	content := n.Child(syntaxtree.KindHighlightContent)
	if content == nil {
		content = n
	}
	children, attrs, err := c.childrenOf(content, src)
	if err != nil {
		return nil, err
	}
	return &Highlight{
		BaseNode: baseWithAttrs(n, TypeHighlight, attrs),
		Children: children,
	}, nil
}

func (c *Converter) list(n *syntaxtree.Node, src string, ordered bool) (Node, error) {
	lst := &List{BaseNode: base(n, TypeList), Ordered: ordered}
	for _, item := range n.ChildrenOfKind(syntaxtree.KindListItem) {
		li, err := c.listItem(item, src, ordered)
		if err != nil {
			return nil, err
		}
		lst.Items = append(lst.Items, li)
	}
	return lst, nil
}

func (c *Converter) listItem(item *syntaxtree.Node, src string, ordered bool) (*ListItem, error) {
	li := &ListItem{BaseNode: base(item, TypeListItem)}
	if mark := item.Child(syntaxtree.KindListMark); mark != nil {
		li.Marker = Marker{From: mark.From(), To: mark.To()}
		// The bullet glyph is only meaningful as a single character.
		if !ordered && mark.To()-mark.From() == 1 {
			switch sym := mark.Text(src); sym {
			case "*", "-", "+":
				li.Marker.Symbol = sym
			}
		}
	}
	task := item.Child(syntaxtree.KindTaskMarker)
	if task == nil {
		for _, ch := range item.Children() {
			if t := ch.Child(syntaxtree.KindTaskMarker); t != nil {
				task = t
				break
			}
		}
	}
	if task != nil {
		checked := task.Text(src) == "[x]"
		li.Checked = &checked
	}
	children, attrs, err := c.childrenOf(item, src)
	if err != nil {
		return nil, err
	}
	li.Children = children
	li.Attributes = attrs
	return li, nil
}

// fencedCode covers fenced blocks, indented code and YAML frontmatter. A
// block whose opening mark is exactly $$ is a math fence: math fences carry
// no ordinary info string, so the mark's own text stands in for it.
func (c *Converter) fencedCode(n *syntaxtree.Node, src string) Node {
	t := TypeFencedCode
	if n.Kind() == syntaxtree.KindYAMLFrontmatter {
		t = TypeYAMLFrontmatter
	}
	fc := &FencedCode{BaseNode: base(n, t)}
	if info := n.Child(syntaxtree.KindCodeInfo); info != nil {
		fc.Info = info.Text(src)
	} else if marks := n.ChildrenOfKind(syntaxtree.KindCodeMark); len(marks) > 0 && marks[0].Text(src) == "$$" {
		fc.Info = "$$"
	}
	if body := n.Child(syntaxtree.KindCodeText); body != nil {
		fc.Source = body.Text(src)
	}
	return fc
}

// inlineCode takes the substring strictly between the two delimiter marks.
func (c *Converter) inlineCode(n *syntaxtree.Node, src string) Node {
	marks := n.ChildrenOfKind(syntaxtree.KindCodeMark)
	if len(marks) < 2 {
		return c.genericText(n, src)
	}
	return &InlineCode{
		BaseNode: base(n, TypeInlineCode),
		Source:   src[marks[0].To():marks[1].From()],
	}
}

func (c *Converter) emphasis(n *syntaxtree.Node, src string) (Node, error) {
	which := Bold
	if n.Kind() == syntaxtree.KindEmphasis {
		which = Italic
	}
	children, attrs, err := c.childrenOf(n, src)
	if err != nil {
		return nil, err
	}
	return &Emphasis{
		BaseNode: baseWithAttrs(n, TypeEmphasis, attrs),
		Which:    which,
		Children: children,
	}, nil
}

// table merges header rows and body rows into one ordered sequence,
// header-classified rows first.
func (c *Converter) table(n *syntaxtree.Node, src string) (Node, error) {
	tbl := &Table{BaseNode: base(n, TypeTable)}
	rows := n.ChildrenOfKind(syntaxtree.KindTableHeader)
	rows = append(rows, n.ChildrenOfKind(syntaxtree.KindTableRow)...)
	for _, rn := range rows {
		row := &TableRow{
			BaseNode:         base(rn, TypeTableRow),
			IsHeaderOrFooter: rn.Kind() == syntaxtree.KindTableHeader,
		}
		for _, cn := range rn.ChildrenOfKind(syntaxtree.KindTableCell) {
			children, attrs, err := c.childrenOf(cn, src)
			if err != nil {
				return nil, err
			}
			row.Cells = append(row.Cells, &TableCell{
				BaseNode: baseWithAttrs(cn, TypeTableCell, attrs),
				Children: children,
			})
		}
		tbl.Rows = append(tbl.Rows, row)
	}
	return tbl, nil
}

// zknLink requires the inner-content child the grammar guarantees; its
// absence is the one hard-failure case.
func (c *Converter) zknLink(n *syntaxtree.Node, src string) (Node, error) {
	content := n.Child(syntaxtree.KindZknLinkContent)
	if content == nil {
		return nil, fmt.Errorf("zettelkasten link at [%d,%d): %w", n.From(), n.To(), ErrMissingContent)
	}
	return &ZettelkastenLink{
		BaseNode: base(n, TypeZettelkastenLink),
		Value:    textNode(src, content.From(), content.To()),
	}, nil
}

func (c *Converter) generic(n *syntaxtree.Node, src string) (Node, error) {
	children, attrs, err := c.childrenOf(n, src)
	if err != nil {
		return nil, err
	}
	return &Generic{
		BaseNode: baseWithAttrs(n, TypeGeneric, attrs),
		Children: children,
	}, nil
}

// genericText flattens the whole node into a Generic with one raw text
// leaf, the malformed-input fallback.
func (c *Converter) genericText(n *syntaxtree.Node, src string) Node {
	return &Generic{
		BaseNode: base(n, TypeGeneric),
		Children: []Node{textNode(src, n.From(), n.To())},
	}
}

// childrenOf converts the direct children of n in document order, filling
// uncovered byte gaps with text leaves (unless n's kind is a pure
// formatting/container kind) and folding Pandoc attribute children into the
// returned attribute map instead of the children sequence.
func (c *Converter) childrenOf(n *syntaxtree.Node, src string) ([]Node, map[string]string, error) {
	empty := emptyKinds[n.Kind()]
	if n.FirstChild() == nil {
		if empty || n.From() == n.To() {
			return nil, nil, nil
		}
		return []Node{textNode(src, n.From(), n.To())}, nil, nil
	}
	var children []Node
	var attrs map[string]string
	last := n.From()
	for _, ch := range n.Children() {
		if ch.From() > last && !empty {
			children = append(children, textNode(src, last, ch.From()))
		}
		if ch.Kind() == syntaxtree.KindPandocAttribute {
			attrs = mergeAttributes(attrs, ch.Text(src))
			last = ch.To()
			continue
		}
		node, err := c.convert(ch, src)
		if err != nil {
			return nil, nil, err
		}
		children = append(children, node)
		last = ch.To()
	}
	if n.To() > last && !empty {
		children = append(children, textNode(src, last, n.To()))
	}
	return children, attrs, nil
}

// mergeAttributes folds one {#id .class key=value} block into attrs.
// Classes accumulate, the first id wins, any other key is overridden by
// later occurrences.
func mergeAttributes(attrs map[string]string, raw string) map[string]string {
	if attrs == nil {
		attrs = make(map[string]string)
	}
	raw = strings.TrimSpace(raw)
	raw = strings.TrimSuffix(strings.TrimPrefix(raw, "{"), "}")
	for _, field := range strings.Fields(raw) {
		switch {
		case strings.HasPrefix(field, "."):
			cls := field[1:]
			if cls == "" {
				continue
			}
			if existing := attrs["class"]; existing != "" {
				attrs["class"] = existing + " " + cls
			} else {
				attrs["class"] = cls
			}
		case strings.HasPrefix(field, "#"):
			if _, ok := attrs["id"]; !ok && len(field) > 1 {
				attrs["id"] = field[1:]
			}
		case strings.Contains(field, "="):
			k, v, _ := strings.Cut(field, "=")
			if k == "" {
				continue
			}
			attrs[k] = strings.Trim(v, `"'`)
		}
	}
	return attrs
}

func base(n *syntaxtree.Node, t NodeType) BaseNode {
	return BaseNode{Kind: n.Kind(), Type: t, From: n.From(), To: n.To()}
}

func baseWithAttrs(n *syntaxtree.Node, t NodeType, attrs map[string]string) BaseNode {
	b := base(n, t)
	b.Attributes = attrs
	return b
}

func textNode(src string, from, to int) *Text {
	return &Text{
		BaseNode: BaseNode{Kind: "text", Type: TypeText, From: from, To: to},
		Value:    src[from:to],
	}
}

// trimmedText is a text leaf with surrounding whitespace excluded from both
// the value and the range.
func trimmedText(src string, from, to int) *Text {
	s := src[from:to]
	from += len(s) - len(strings.TrimLeft(s, " \t\r\n"))
	s = src[from:to]
	to -= len(s) - len(strings.TrimRight(s, " \t\r\n"))
	return textNode(src, from, to)
}
