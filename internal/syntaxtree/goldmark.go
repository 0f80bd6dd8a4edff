package syntaxtree

import (
	"bytes"
	"sort"

	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// Builder produces a concrete syntax tree from raw markdown using goldmark.
// goldmark emits an abstract tree, so the builder re-derives the concrete
// detail the converter needs: formatting-mark nodes (heading marks, emphasis
// marks, fences, list bullets) are located by scanning the source around the
// positions goldmark reports. Inline plain text is deliberately left
// unwrapped; the converter gap-fills it.
//
// The builder is best-effort: a construct whose position cannot be recovered
// (autolinks, reference-style links) is simply omitted, which degrades to
// plain text downstream.
type Builder struct {
	md goldmark.Markdown
}

// NewBuilder returns a Builder with GFM and footnote support enabled.
func NewBuilder() *Builder {
	return &Builder{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM, // tables, strikethrough, task lists
				extension.Footnote,
			),
		),
	}
}

// Build parses source and returns the root Document node spanning the whole
// input.
func (b *Builder) Build(source []byte) *Node {
	doc := b.md.Parser().Parse(text.NewReader(source))
	t := &treeBuilder{src: source}

	var kids []*Node
	cursor := 0
	if fm := t.scanFrontmatter(); fm != nil {
		kids = append(kids, fm)
		cursor = fm.To()
	}
	for _, k := range t.blockChildren(doc, cursor) {
		// Anything goldmark parsed out of the frontmatter bytes is
		// already represented by the frontmatter node.
		if k.To() <= cursor {
			continue
		}
		kids = append(kids, k)
	}
	return New(KindDocument, 0, len(source), kids...)
}

type treeBuilder struct {
	src []byte
}

// blockChildren converts the block-level children of a goldmark node.
// cursor tracks the end of the last converted sibling so position-less
// nodes (thematic breaks) can be located by scanning forward.
func (t *treeBuilder) blockChildren(parent gast.Node, cursor int) []*Node {
	var out []*Node
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		var n *Node
		if _, ok := c.(*gast.ThematicBreak); ok {
			n = t.scanThematicBreak(cursor)
		} else {
			n = t.block(c)
		}
		if n == nil {
			continue
		}
		out = append(out, n)
		cursor = n.To()
	}
	return out
}

func (t *treeBuilder) block(n gast.Node) *Node {
	switch v := n.(type) {
	case *gast.Heading:
		return t.heading(v)
	case *gast.Paragraph:
		return t.paragraph(n)
	case *gast.TextBlock:
		return t.paragraph(n)
	case *gast.Blockquote:
		return t.blockquote(v)
	case *gast.List:
		return t.list(v)
	case *gast.FencedCodeBlock:
		return t.fencedCode(v)
	case *gast.CodeBlock:
		from, to, ok := t.linesSpan(n)
		if !ok {
			return nil
		}
		return New(KindCodeBlock, from, to, New(KindCodeText, from, to))
	case *gast.HTMLBlock:
		from, to, ok := t.linesSpan(n)
		if v.HasClosure() {
			if !ok {
				from = v.ClosureLine.Start
			}
			to, ok = v.ClosureLine.Stop, true
			to = t.trimTrailingBreaks(from, to)
		}
		if !ok {
			return nil
		}
		return New("HTMLBlock", from, to)
	case *east.Table:
		return t.table(v)
	case *east.Footnote:
		return t.footnoteDef(v)
	case *east.FootnoteList:
		kids := t.blockChildren(n, 0)
		if len(kids) == 0 {
			return nil
		}
		return New("FootnoteList", kids[0].From(), kids[len(kids)-1].To(), kids...)
	default:
		if from, to, ok := t.linesSpan(n); ok {
			return New(n.Kind().String(), from, to, t.inlineChildren(n)...)
		}
		kids := t.blockChildren(n, 0)
		if len(kids) == 0 {
			return nil
		}
		return New(n.Kind().String(), kids[0].From(), kids[len(kids)-1].To(), kids...)
	}
}

func (t *treeBuilder) heading(h *gast.Heading) *Node {
	from, to, ok := t.linesSpan(h)
	if !ok {
		return nil
	}
	ls := t.lineStart(from)
	hashEnd := ls
	for hashEnd < len(t.src) && t.src[hashEnd] == '#' {
		hashEnd++
	}
	kids := t.inlineChildren(h)
	if hashEnd > ls {
		// ATX: the mark run length is the level.
		mark := New(KindHeaderMark, ls, hashEnd)
		kids = append([]*Node{mark}, kids...)
		return New(atxKind(hashEnd-ls), ls, to, kids...)
	}
	// Setext: the underline sits on the line after the content.
	us := to
	for us < len(t.src) && (t.src[us] == '\n' || t.src[us] == '\r') {
		us++
	}
	for us < len(t.src) && t.src[us] == ' ' {
		us++
	}
	if us >= len(t.src) || (t.src[us] != '=' && t.src[us] != '-') {
		return New(atxKind(h.Level), from, to, kids...)
	}
	ch := t.src[us]
	ue := us
	for ue < len(t.src) && t.src[ue] == ch {
		ue++
	}
	kind := KindSetextHeading1
	if ch == '-' {
		kind = KindSetextHeading2
	}
	kids = append(kids, New(KindHeaderMark, us, ue))
	return New(kind, ls, ue, kids...)
}

func atxKind(level int) string {
	switch level {
	case 1:
		return KindATXHeading1
	case 2:
		return KindATXHeading2
	case 3:
		return KindATXHeading3
	case 4:
		return KindATXHeading4
	case 5:
		return KindATXHeading5
	default:
		return KindATXHeading6
	}
}

func (t *treeBuilder) paragraph(n gast.Node) *Node {
	from, to, ok := t.linesSpan(n)
	if !ok {
		return nil
	}
	return New(KindParagraph, from, to, t.inlineChildren(n)...)
}

func (t *treeBuilder) blockquote(q *gast.Blockquote) *Node {
	kids := t.blockChildren(q, 0)
	if len(kids) == 0 {
		return nil
	}
	from := kids[0].From()
	to := kids[len(kids)-1].To()
	// The '>' marks precede the content on each line.
	ls := t.lineStart(from)
	var marks []*Node
	for ls < to {
		p := ls
		for p < len(t.src) && t.src[p] == ' ' && p-ls < 4 {
			p++
		}
		if p < len(t.src) && t.src[p] == '>' {
			marks = append(marks, New(KindQuoteMark, p, p+1))
			if p < from {
				from = p
			}
		}
		ls = t.nextLine(ls)
		if ls == 0 {
			break
		}
	}
	all := sortByPos(append(marks, kids...))
	return New(KindBlockquote, from, to, all...)
}

func (t *treeBuilder) list(l *gast.List) *Node {
	var items []*Node
	for c := l.FirstChild(); c != nil; c = c.NextSibling() {
		if item := t.listItem(c, l.IsOrdered()); item != nil {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return nil
	}
	kind := KindBulletList
	if l.IsOrdered() {
		kind = KindOrderedList
	}
	return New(kind, items[0].From(), items[len(items)-1].To(), items...)
}

func (t *treeBuilder) listItem(n gast.Node, ordered bool) *Node {
	kids := t.blockChildren(n, 0)
	if len(kids) == 0 {
		return nil
	}
	from := kids[0].From()
	to := kids[len(kids)-1].To()
	// Walk back from the first content byte over the separating spaces to
	// find the bullet or the "1." style marker.
	p := from
	for p > 0 && (t.src[p-1] == ' ' || t.src[p-1] == '\t') {
		p--
	}
	var mark *Node
	if ordered {
		mp := p
		if mp > 0 && (t.src[mp-1] == '.' || t.src[mp-1] == ')') {
			mp--
			for mp > 0 && t.src[mp-1] >= '0' && t.src[mp-1] <= '9' {
				mp--
			}
			if mp < p-1 {
				mark = New(KindListMark, mp, p)
			}
		}
	} else if p > 0 && (t.src[p-1] == '-' || t.src[p-1] == '*' || t.src[p-1] == '+') {
		mark = New(KindListMark, p-1, p)
	}
	if mark != nil {
		from = mark.From()
		kids = append([]*Node{mark}, kids...)
	}
	return New(KindListItem, from, to, kids...)
}

func (t *treeBuilder) fencedCode(f *gast.FencedCodeBlock) *Node {
	var infoNode, textNode *Node
	contentFrom, contentTo, hasContent := t.linesSpan(f)

	// Locate the opening fence by scanning back from either the info
	// string or the first content line.
	var anchor int
	switch {
	case f.Info != nil:
		anchor = f.Info.Segment.Start
		infoNode = New(KindCodeInfo, f.Info.Segment.Start, f.Info.Segment.Stop)
	case hasContent:
		e := contentFrom
		if e > 0 && t.src[e-1] == '\n' {
			e--
		}
		if e > 0 && t.src[e-1] == '\r' {
			e--
		}
		anchor = e
	default:
		return nil
	}
	p := anchor
	for p > 0 && t.src[p-1] == ' ' {
		p--
	}
	fs := p
	for fs > 0 && (t.src[fs-1] == '`' || t.src[fs-1] == '~') {
		fs--
	}
	if fs == p {
		return nil
	}
	openMark := New(KindCodeMark, fs, p)

	kids := []*Node{openMark}
	if infoNode != nil {
		kids = append(kids, infoNode)
	}
	to := p
	if infoNode != nil {
		to = infoNode.To()
	}
	if hasContent {
		textNode = New(KindCodeText, contentFrom, contentTo)
		kids = append(kids, textNode)
		to = contentTo
	}
	// A closing fence, if present, starts on the line after the content.
	cs := to
	for cs < len(t.src) && (t.src[cs] == '\n' || t.src[cs] == '\r') {
		cs++
	}
	for cs < len(t.src) && t.src[cs] == ' ' {
		cs++
	}
	ce := cs
	for ce < len(t.src) && t.src[ce] == t.src[fs] {
		ce++
	}
	if ce-cs >= 3 {
		kids = append(kids, New(KindCodeMark, cs, ce))
		to = ce
	}
	return New(KindFencedCode, fs, to, kids...)
}

func (t *treeBuilder) table(tbl *east.Table) *Node {
	var rows []*Node
	for c := tbl.FirstChild(); c != nil; c = c.NextSibling() {
		header := false
		switch c.(type) {
		case *east.TableHeader:
			header = true
		case *east.TableRow:
		default:
			continue
		}
		row := t.tableRow(c, header)
		if row == nil {
			continue
		}
		rows = append(rows, row)
		if header {
			// The alignment line follows the header row.
			ds := t.nextLine(row.From())
			if ds > 0 && ds < len(t.src) {
				de := t.lineEnd(ds)
				rows = append(rows, New(KindTableDelimiter, ds, de))
			}
		}
	}
	if len(rows) == 0 {
		return nil
	}
	return New(KindTable, rows[0].From(), rows[len(rows)-1].To(), rows...)
}

func (t *treeBuilder) tableRow(n gast.Node, header bool) *Node {
	kind := KindTableRow
	if header {
		kind = KindTableHeader
	}
	var cells []*Node
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		kids := t.inlineChildren(c)
		cf, ct, ok := t.gmSpan(c)
		if !ok {
			continue
		}
		cells = append(cells, New(KindTableCell, cf, ct, kids...))
	}
	if len(cells) == 0 {
		return nil
	}
	from := t.lineStart(cells[0].From())
	to := t.lineEnd(cells[len(cells)-1].To())
	return New(kind, from, to, cells...)
}

func (t *treeBuilder) footnoteDef(f *east.Footnote) *Node {
	kids := t.blockChildren(f, 0)
	if len(kids) == 0 {
		return nil
	}
	bodyFrom := kids[0].From()
	bodyTo := kids[len(kids)-1].To()
	body := New(KindFootnoteRefBody, bodyFrom, bodyTo, kids...)

	ls := t.lineStart(bodyFrom)
	le := ls + 2 + len(f.Ref) + 2 // [^ ref ]:
	if ls+2 > len(t.src) || le > len(t.src) || t.src[ls] != '[' || t.src[ls+1] != '^' {
		return New(KindFootnoteRef, bodyFrom, bodyTo, body)
	}
	label := New(KindFootnoteRefLabel, ls, le)
	return New(KindFootnoteRef, ls, bodyTo, label, body)
}

// inlineChildren converts the inline children of a block or inline node.
// Plain text is skipped on purpose; the converter recovers it from the
// uncovered byte ranges.
func (t *treeBuilder) inlineChildren(parent gast.Node) []*Node {
	var out []*Node
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		if n := t.inline(c); n != nil {
			out = append(out, n)
		}
	}
	return out
}

func (t *treeBuilder) inline(n gast.Node) *Node {
	switch v := n.(type) {
	case *gast.Text, *gast.String:
		return nil
	case *gast.CodeSpan:
		cf, ct, ok := t.childSpan(n)
		if !ok {
			return nil
		}
		k := 0
		for cf-k > 0 && t.src[cf-k-1] == '`' {
			k++
		}
		if k == 0 {
			return nil
		}
		return New(KindInlineCode, cf-k, ct+k,
			New(KindCodeMark, cf-k, cf),
			New(KindCodeMark, ct, ct+k),
		)
	case *gast.Emphasis:
		cf, ct, ok := t.childSpan(n)
		if !ok {
			return nil
		}
		l := v.Level
		kind := KindEmphasis
		if l >= 2 {
			kind = KindStrongEmphasis
		}
		kids := []*Node{New(KindEmphasisMark, cf-l, cf)}
		kids = append(kids, t.inlineChildren(n)...)
		kids = append(kids, New(KindEmphasisMark, ct, ct+l))
		return New(kind, cf-l, ct+l, kids...)
	case *east.Strikethrough:
		cf, ct, ok := t.childSpan(n)
		if !ok {
			return nil
		}
		kids := []*Node{New(KindEmphasisMark, cf-2, cf)}
		kids = append(kids, t.inlineChildren(n)...)
		kids = append(kids, New(KindEmphasisMark, ct, ct+2))
		return New("Strikethrough", cf-2, ct+2, kids...)
	case *gast.Link:
		return t.linkOrImage(n, KindLink, v.Destination)
	case *gast.Image:
		return t.linkOrImage(n, KindImage, v.Destination)
	case *east.TaskCheckBox:
		pb := n.Parent()
		if pb == nil || pb.Type() != gast.TypeBlock {
			return nil
		}
		from, _, ok := t.linesSpan(pb)
		if !ok || from+3 > len(t.src) || t.src[from] != '[' || t.src[from+2] != ']' {
			return nil
		}
		return New(KindTaskMarker, from, from+3)
	case *gast.RawHTML:
		if v.Segments.Len() == 0 {
			return nil
		}
		return New("HTMLSpan", v.Segments.At(0).Start, v.Segments.At(v.Segments.Len()-1).Stop)
	case *east.FootnoteLink, *east.FootnoteBacklink, *gast.AutoLink:
		// No recoverable source position.
		return nil
	default:
		kids := t.inlineChildren(n)
		if len(kids) == 0 {
			return nil
		}
		return New(n.Kind().String(), kids[0].From(), kids[len(kids)-1].To(), kids...)
	}
}

// linkOrImage reconstructs [label](url) with its bracket marks. Nodes whose
// punctuation cannot be found (reference-style links) are dropped.
func (t *treeBuilder) linkOrImage(n gast.Node, kind string, dest []byte) *Node {
	lf, lt, ok := t.childSpan(n)
	if !ok {
		return nil
	}
	if lf < 1 || lt >= len(t.src) || t.src[lf-1] != '[' || t.src[lt] != ']' {
		return nil
	}
	from := lf - 1
	if kind == KindImage {
		if lf < 2 || t.src[lf-2] != '!' {
			return nil
		}
		from = lf - 2
	}
	if lt+1 >= len(t.src) || t.src[lt+1] != '(' {
		return nil
	}
	rel := bytes.IndexByte(t.src[lt+2:], ')')
	if rel < 0 {
		return nil
	}
	end := lt + 2 + rel
	us := lt + 2
	if us < len(t.src) && t.src[us] == '<' {
		us++
	}
	ue := us + len(dest)
	if ue > end || !bytes.Equal(t.src[us:ue], dest) {
		ue = end
	}
	kids := []*Node{New(KindLinkMark, lf-1, lf)}
	kids = append(kids, t.inlineChildren(n)...)
	kids = append(kids,
		New(KindLinkMark, lt, lt+1),
		New(KindLinkMark, lt+1, lt+2),
		New(KindURL, us, ue),
		New(KindLinkMark, end, end+1),
	)
	return New(kind, from, end+1, kids...)
}

// gmSpan reports the byte range a goldmark node covers, delimiters included.
func (t *treeBuilder) gmSpan(n gast.Node) (int, int, bool) {
	switch v := n.(type) {
	case *gast.Text:
		return v.Segment.Start, v.Segment.Stop, true
	case *gast.String:
		return 0, 0, false
	case *gast.RawHTML:
		if v.Segments.Len() == 0 {
			return 0, 0, false
		}
		return v.Segments.At(0).Start, v.Segments.At(v.Segments.Len()-1).Stop, true
	case *gast.Emphasis:
		f, to, ok := t.childSpan(n)
		if !ok {
			return 0, 0, false
		}
		return f - v.Level, to + v.Level, true
	case *east.Strikethrough:
		f, to, ok := t.childSpan(n)
		if !ok {
			return 0, 0, false
		}
		return f - 2, to + 2, true
	case *gast.CodeSpan:
		f, to, ok := t.childSpan(n)
		if !ok {
			return 0, 0, false
		}
		k := 0
		for f-k > 0 && t.src[f-k-1] == '`' {
			k++
		}
		return f - k, to + k, true
	}
	if n.Type() != gast.TypeInline {
		if f, to, ok := t.linesSpan(n); ok {
			return f, to, true
		}
	}
	return t.childSpan(n)
}

// childSpan is the union of the spans of a node's locatable children.
func (t *treeBuilder) childSpan(n gast.Node) (int, int, bool) {
	from, to, ok := 0, 0, false
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		cf, ct, cok := t.gmSpan(c)
		if !cok {
			continue
		}
		if !ok {
			from = cf
			ok = true
		}
		to = ct
	}
	return from, to, ok
}

// linesSpan returns the source range covered by a block node's line
// segments, with trailing line breaks trimmed.
func (t *treeBuilder) linesSpan(n gast.Node) (int, int, bool) {
	if n.Type() == gast.TypeInline {
		return 0, 0, false
	}
	lines := n.Lines()
	if lines == nil || lines.Len() == 0 {
		return 0, 0, false
	}
	from := lines.At(0).Start
	to := lines.At(lines.Len() - 1).Stop
	return from, t.trimTrailingBreaks(from, to), true
}

func (t *treeBuilder) trimTrailingBreaks(from, to int) int {
	for to > from && (t.src[to-1] == '\n' || t.src[to-1] == '\r') {
		to--
	}
	return to
}

// scanFrontmatter recognizes a leading "---" YAML block, which goldmark has
// no parser for.
func (t *treeBuilder) scanFrontmatter() *Node {
	if !bytes.HasPrefix(t.src, []byte("---\n")) && !bytes.HasPrefix(t.src, []byte("---\r\n")) {
		return nil
	}
	start := New(KindYAMLFrontmatterStart, 0, 3)
	bodyFrom := t.nextLine(0)
	pos := bodyFrom
	for pos > 0 && pos < len(t.src) {
		le := t.lineEnd(pos)
		line := bytes.TrimRight(t.src[pos:le], " \r")
		if bytes.Equal(line, []byte("---")) || bytes.Equal(line, []byte("...")) {
			endMark := New(KindYAMLFrontmatterEnd, pos, pos+3)
			bodyTo := t.trimTrailingBreaks(bodyFrom, pos)
			kids := []*Node{start}
			if bodyTo > bodyFrom {
				kids = append(kids, New(KindCodeText, bodyFrom, bodyTo))
			}
			kids = append(kids, endMark)
			return New(KindYAMLFrontmatter, 0, pos+3, kids...)
		}
		pos = t.nextLine(pos)
	}
	return nil
}

// scanThematicBreak finds the first horizontal-rule line at or after pos.
// goldmark's ThematicBreak node carries no position of its own.
func (t *treeBuilder) scanThematicBreak(pos int) *Node {
	for pos < len(t.src) {
		le := t.lineEnd(pos)
		line := bytes.TrimSpace(t.src[pos:le])
		if len(line) >= 3 {
			ch := line[0]
			if ch == '-' || ch == '_' || ch == '*' {
				ok := true
				for _, b := range line {
					if b != ch && b != ' ' {
						ok = false
						break
					}
				}
				if ok {
					s := pos
					for s < le && t.src[s] == ' ' {
						s++
					}
					e := le
					for e > s && t.src[e-1] == ' ' {
						e--
					}
					return New("HorizontalRule", s, e)
				}
			}
		}
		pos = t.nextLine(pos)
		if pos == 0 {
			break
		}
	}
	return nil
}

func (t *treeBuilder) lineStart(pos int) int {
	for pos > 0 && t.src[pos-1] != '\n' {
		pos--
	}
	return pos
}

func (t *treeBuilder) lineEnd(pos int) int {
	for pos < len(t.src) && t.src[pos] != '\n' {
		pos++
	}
	return pos
}

// nextLine returns the offset just past the newline terminating the line
// containing pos, or 0 if the line is unterminated.
func (t *treeBuilder) nextLine(pos int) int {
	e := t.lineEnd(pos)
	if e >= len(t.src) {
		return 0
	}
	return e + 1
}

func sortByPos(ns []*Node) []*Node {
	sort.SliceStable(ns, func(i, j int) bool { return ns[i].From() < ns[j].From() })
	return ns
}
