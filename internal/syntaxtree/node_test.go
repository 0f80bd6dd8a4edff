package syntaxtree

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNodeNavigation(t *testing.T) {
	a := New(KindEmphasisMark, 0, 1)
	b := New(KindEmphasisMark, 4, 5)
	em := New(KindEmphasis, 0, 5, a, b)
	root := New(KindParagraph, 0, 10, em)

	if em.Parent() != root {
		t.Error("expected emphasis parent to be the paragraph")
	}
	if root.Parent() != nil {
		t.Error("expected root to have no parent")
	}
	if root.FirstChild() != em {
		t.Error("expected first child to be the emphasis node")
	}
	if a.NextSibling() != b {
		t.Error("expected second mark as next sibling")
	}
	if b.NextSibling() != nil {
		t.Error("expected last child to have no next sibling")
	}
	if got := em.Child(KindEmphasisMark); got != a {
		t.Errorf("expected Child to return the first mark, got %v", got)
	}
	if got := len(em.ChildrenOfKind(KindEmphasisMark)); got != 2 {
		t.Errorf("expected 2 marks, got %d", got)
	}
}

func TestNodeText(t *testing.T) {
	src := "hello world"
	n := New(KindParagraph, 6, 11)
	if got := n.Text(src); got != "world" {
		t.Errorf("expected %q, got %q", "world", got)
	}
}

func TestNodeJSONRoundTrip(t *testing.T) {
	root := New(KindDocument, 0, 12,
		New(KindATXHeading1, 0, 5,
			New(KindHeaderMark, 0, 1),
		),
		New(KindParagraph, 7, 12),
	)

	data, err := json.Marshal(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded Node
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded.Kind() != KindDocument || decoded.From() != 0 || decoded.To() != 12 {
		t.Errorf("expected Document [0,12), got %s [%d,%d)",
			decoded.Kind(), decoded.From(), decoded.To())
	}
	if len(decoded.Children()) != 2 {
		t.Fatalf("expected 2 children, got %d", len(decoded.Children()))
	}
	heading := decoded.FirstChild()
	if heading.Kind() != KindATXHeading1 {
		t.Errorf("expected %s, got %s", KindATXHeading1, heading.Kind())
	}
	if heading.Parent() != &decoded {
		t.Error("expected parent links to be restored after decoding")
	}
	mark := heading.FirstChild()
	if mark == nil || mark.Kind() != KindHeaderMark || mark.Parent() != heading {
		t.Error("expected nested parent links to be restored after decoding")
	}
}

func TestNodeUnmarshalMissingKind(t *testing.T) {
	var n Node
	err := json.Unmarshal([]byte(`{"from":0,"to":3}`), &n)
	if err == nil {
		t.Fatal("expected an error for a node without a kind")
	}
	if !strings.Contains(err.Error(), "kind") {
		t.Errorf("expected the error to mention the missing kind, got %v", err)
	}
}

func TestNodeValidate(t *testing.T) {
	tests := []struct {
		name      string
		node      *Node
		sourceLen int
		wantErr   bool
	}{
		{
			name:      "valid tree",
			node:      New(KindParagraph, 0, 10, New(KindEmphasis, 2, 6)),
			sourceLen: 10,
		},
		{
			name:      "range past end of source",
			node:      New(KindParagraph, 0, 15),
			sourceLen: 10,
			wantErr:   true,
		},
		{
			name:      "inverted range",
			node:      New(KindParagraph, 5, 2),
			sourceLen: 10,
			wantErr:   true,
		},
		{
			name:      "child escapes parent",
			node:      New(KindParagraph, 2, 8, New(KindEmphasis, 0, 4)),
			sourceLen: 10,
			wantErr:   true,
		},
		{
			name: "overlapping siblings",
			node: New(KindParagraph, 0, 10,
				New(KindEmphasis, 0, 5),
				New(KindInlineCode, 3, 8),
			),
			sourceLen: 10,
			wantErr:   true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.node.Validate(tt.sourceLen)
			if tt.wantErr && err == nil {
				t.Fatal("expected an error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
