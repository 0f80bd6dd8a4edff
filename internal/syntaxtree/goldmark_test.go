package syntaxtree

import (
	"testing"
)

func findKind(n *Node, kind string) *Node {
	if n.Kind() == kind {
		return n
	}
	for _, c := range n.Children() {
		if found := findKind(c, kind); found != nil {
			return found
		}
	}
	return nil
}

func TestBuild_Document(t *testing.T) {
	src := "# Hello\n\nWorld.\n"
	root := NewBuilder().Build([]byte(src))

	if root.Kind() != KindDocument {
		t.Fatalf("expected %s, got %s", KindDocument, root.Kind())
	}
	if root.From() != 0 || root.To() != len(src) {
		t.Errorf("expected document span [0,%d), got [%d,%d)", len(src), root.From(), root.To())
	}
	if len(root.Children()) != 2 {
		t.Fatalf("expected 2 children, got %d", len(root.Children()))
	}
	if err := root.Validate(len(src)); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}

	heading := root.Children()[0]
	if heading.Kind() != KindATXHeading1 {
		t.Errorf("expected %s, got %s", KindATXHeading1, heading.Kind())
	}
	if heading.From() != 0 || heading.To() != 7 {
		t.Errorf("expected heading span [0,7), got [%d,%d)", heading.From(), heading.To())
	}
	mark := heading.Child(KindHeaderMark)
	if mark == nil {
		t.Fatal("expected a heading mark child")
	}
	if mark.Text(src) != "#" {
		t.Errorf("expected mark %q, got %q", "#", mark.Text(src))
	}

	para := root.Children()[1]
	if para.Kind() != KindParagraph {
		t.Errorf("expected %s, got %s", KindParagraph, para.Kind())
	}
	if para.Text(src) != "World." {
		t.Errorf("expected paragraph text %q, got %q", "World.", para.Text(src))
	}
}

func TestBuild_HeadingLevels(t *testing.T) {
	src := "## Two\n\n###### Six\n"
	root := NewBuilder().Build([]byte(src))

	if h := findKind(root, KindATXHeading2); h == nil {
		t.Error("expected an ATXHeading2 node")
	}
	if h := findKind(root, KindATXHeading6); h == nil {
		t.Error("expected an ATXHeading6 node")
	}
}

func TestBuild_SetextHeading(t *testing.T) {
	src := "Title\n=====\n"
	root := NewBuilder().Build([]byte(src))

	h := findKind(root, KindSetextHeading1)
	if h == nil {
		t.Fatal("expected a SetextHeading1 node")
	}
	if h.From() != 0 || h.To() != 11 {
		t.Errorf("expected span [0,11), got [%d,%d)", h.From(), h.To())
	}
	mark := h.Child(KindHeaderMark)
	if mark == nil || mark.Text(src) != "=====" {
		t.Fatal("expected the underline as the heading mark")
	}
}

func TestBuild_EmphasisAndInlineCode(t *testing.T) {
	src := "a *b* and `c` end\n"
	root := NewBuilder().Build([]byte(src))

	em := findKind(root, KindEmphasis)
	if em == nil {
		t.Fatal("expected an Emphasis node")
	}
	if em.Text(src) != "*b*" {
		t.Errorf("expected emphasis span %q, got %q", "*b*", em.Text(src))
	}
	marks := em.ChildrenOfKind(KindEmphasisMark)
	if len(marks) != 2 {
		t.Fatalf("expected 2 emphasis marks, got %d", len(marks))
	}

	code := findKind(root, KindInlineCode)
	if code == nil {
		t.Fatal("expected an InlineCode node")
	}
	if code.Text(src) != "`c`" {
		t.Errorf("expected code span %q, got %q", "`c`", code.Text(src))
	}
	if err := root.Validate(len(src)); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestBuild_FencedCode(t *testing.T) {
	src := "```go\nx := 1\n```\n"
	root := NewBuilder().Build([]byte(src))

	fc := findKind(root, KindFencedCode)
	if fc == nil {
		t.Fatal("expected a FencedCode node")
	}
	if fc.From() != 0 || fc.To() != 16 {
		t.Errorf("expected fence span [0,16), got [%d,%d)", fc.From(), fc.To())
	}
	if info := fc.Child(KindCodeInfo); info == nil || info.Text(src) != "go" {
		t.Fatal("expected info string child \"go\"")
	}
	if body := fc.Child(KindCodeText); body == nil || body.Text(src) != "x := 1" {
		t.Fatal("expected code body child \"x := 1\"")
	}
	if marks := fc.ChildrenOfKind(KindCodeMark); len(marks) != 2 {
		t.Fatalf("expected opening and closing fence marks, got %d", len(marks))
	}
}

func TestBuild_TaskList(t *testing.T) {
	src := "- [x] done\n- plain\n"
	root := NewBuilder().Build([]byte(src))

	lst := findKind(root, KindBulletList)
	if lst == nil {
		t.Fatal("expected a BulletList node")
	}
	items := lst.ChildrenOfKind(KindListItem)
	if len(items) != 2 {
		t.Fatalf("expected 2 list items, got %d", len(items))
	}
	if mark := items[0].Child(KindListMark); mark == nil || mark.Text(src) != "-" {
		t.Fatal("expected the bullet as the list mark")
	}
	task := findKind(items[0], KindTaskMarker)
	if task == nil {
		t.Fatal("expected a task marker in the first item")
	}
	if task.Text(src) != "[x]" {
		t.Errorf("expected task marker %q, got %q", "[x]", task.Text(src))
	}
	if findKind(items[1], KindTaskMarker) != nil {
		t.Error("expected no task marker in the plain item")
	}
}

func TestBuild_OrderedList(t *testing.T) {
	src := "1. one\n2. two\n"
	root := NewBuilder().Build([]byte(src))

	lst := findKind(root, KindOrderedList)
	if lst == nil {
		t.Fatal("expected an OrderedList node")
	}
	items := lst.ChildrenOfKind(KindListItem)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if mark := items[0].Child(KindListMark); mark == nil || mark.Text(src) != "1." {
		t.Fatal("expected the numbered marker as the list mark")
	}
}

func TestBuild_Link(t *testing.T) {
	src := "See [docs](https://x.dev) now\n"
	root := NewBuilder().Build([]byte(src))

	link := findKind(root, KindLink)
	if link == nil {
		t.Fatal("expected a Link node")
	}
	if link.Text(src) != "[docs](https://x.dev)" {
		t.Errorf("expected link span %q, got %q", "[docs](https://x.dev)", link.Text(src))
	}
	url := link.Child(KindURL)
	if url == nil || url.Text(src) != "https://x.dev" {
		t.Fatal("expected the destination as the URL child")
	}
	if marks := link.ChildrenOfKind(KindLinkMark); len(marks) != 4 {
		t.Fatalf("expected 4 link marks, got %d", len(marks))
	}
}

func TestBuild_Image(t *testing.T) {
	src := "![alt](pic.png)\n"
	root := NewBuilder().Build([]byte(src))

	img := findKind(root, KindImage)
	if img == nil {
		t.Fatal("expected an Image node")
	}
	if img.Text(src) != "![alt](pic.png)" {
		t.Errorf("expected image span %q, got %q", "![alt](pic.png)", img.Text(src))
	}
	if url := img.Child(KindURL); url == nil || url.Text(src) != "pic.png" {
		t.Fatal("expected the destination as the URL child")
	}
}

func TestBuild_Blockquote(t *testing.T) {
	src := "> quoted text\n"
	root := NewBuilder().Build([]byte(src))

	quote := findKind(root, KindBlockquote)
	if quote == nil {
		t.Fatal("expected a Blockquote node")
	}
	mark := quote.Child(KindQuoteMark)
	if mark == nil || mark.Text(src) != ">" {
		t.Fatal("expected the angle bracket as the quote mark")
	}
	if quote.Child(KindParagraph) == nil {
		t.Error("expected the quoted paragraph as a child")
	}
}

func TestBuild_Table(t *testing.T) {
	src := "| a | b |\n| --- | --- |\n| c | d |\n"
	root := NewBuilder().Build([]byte(src))

	tbl := findKind(root, KindTable)
	if tbl == nil {
		t.Fatal("expected a Table node")
	}
	header := tbl.Child(KindTableHeader)
	if header == nil {
		t.Fatal("expected a header row")
	}
	cells := header.ChildrenOfKind(KindTableCell)
	if len(cells) != 2 {
		t.Fatalf("expected 2 header cells, got %d", len(cells))
	}
	if cells[0].Text(src) != "a" {
		t.Errorf("expected first cell %q, got %q", "a", cells[0].Text(src))
	}
	if tbl.Child(KindTableDelimiter) == nil {
		t.Error("expected the alignment line as a delimiter child")
	}
	if tbl.Child(KindTableRow) == nil {
		t.Error("expected a body row")
	}
}

func TestBuild_Frontmatter(t *testing.T) {
	src := "---\ntitle: Test\n---\n\n# Hi\n"
	root := NewBuilder().Build([]byte(src))

	if len(root.Children()) != 2 {
		t.Fatalf("expected frontmatter and heading, got %d children", len(root.Children()))
	}
	fm := root.Children()[0]
	if fm.Kind() != KindYAMLFrontmatter {
		t.Fatalf("expected %s, got %s", KindYAMLFrontmatter, fm.Kind())
	}
	if fm.From() != 0 || fm.To() != 19 {
		t.Errorf("expected frontmatter span [0,19), got [%d,%d)", fm.From(), fm.To())
	}
	if body := fm.Child(KindCodeText); body == nil || body.Text(src) != "title: Test" {
		t.Fatal("expected the YAML body as a code text child")
	}
	if fm.Child(KindYAMLFrontmatterStart) == nil || fm.Child(KindYAMLFrontmatterEnd) == nil {
		t.Error("expected both frontmatter delimiters")
	}
	if root.Children()[1].Kind() != KindATXHeading1 {
		t.Errorf("expected the heading after the frontmatter, got %s", root.Children()[1].Kind())
	}
}

func TestBuild_FootnoteDefinition(t *testing.T) {
	src := "text[^1]\n\n[^1]: the note\n"
	root := NewBuilder().Build([]byte(src))

	ref := findKind(root, KindFootnoteRef)
	if ref == nil {
		t.Fatal("expected a FootnoteRef node")
	}
	label := ref.Child(KindFootnoteRefLabel)
	if label == nil || label.Text(src) != "[^1]:" {
		t.Fatal("expected the definition label with its delimiters")
	}
	body := ref.Child(KindFootnoteRefBody)
	if body == nil || body.Text(src) != "the note" {
		t.Fatalf("expected the note body, got %v", body)
	}
}

func TestBuild_ThematicBreak(t *testing.T) {
	src := "above\n\n---\n\nbelow\n"
	root := NewBuilder().Build([]byte(src))

	hr := findKind(root, "HorizontalRule")
	if hr == nil {
		t.Fatal("expected a horizontal rule node")
	}
	if hr.Text(src) != "---" {
		t.Errorf("expected rule span %q, got %q", "---", hr.Text(src))
	}
}
