package mdast

import (
	"encoding/json"

	"github.com/mdtree/mdtree/internal/citation"
)

// JSON encoding for the AST. Each variant carries the shared base fields
// plus its own; the "type" tag is the discriminant downstream consumers
// switch on. The AST is output-only, so there is no decoder.

type baseJSON struct {
	Kind       string            `json:"kind"`
	Type       NodeType          `json:"type"`
	From       int               `json:"from"`
	To         int               `json:"to"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

func (b *BaseNode) bjson() baseJSON {
	return baseJSON{Kind: b.Kind, Type: b.Type, From: b.From, To: b.To, Attributes: b.Attributes}
}

func (n *Text) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		baseJSON
		Value string `json:"value"`
	}{n.bjson(), n.Value})
}

func (n *Heading) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		baseJSON
		Value *Text `json:"value"`
		Level int   `json:"level"`
	}{n.bjson(), n.Value, n.Level})
}

func (n *Citation) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		baseJSON
		Value  *Text              `json:"value"`
		Parsed *citation.Citation `json:"parsedCitation,omitempty"`
	}{n.bjson(), n.Value, n.Parsed})
}

func (n *Footnote) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		baseJSON
		Label  string `json:"label"`
		Inline bool   `json:"inline"`
	}{n.bjson(), n.Label, n.Inline})
}

func (n *FootnoteRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		baseJSON
		Label    string `json:"label"`
		Children []Node `json:"children"`
	}{n.bjson(), n.Label, n.Children})
}

func (n *LinkOrImage) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		baseJSON
		Variant LinkVariant `json:"variant"`
		URL     *Text       `json:"url"`
		Alt     *Text       `json:"alt"`
		Title   *Text       `json:"title,omitempty"`
	}{n.bjson(), n.Variant, n.URL, n.Alt, n.Title})
}

func (n *Highlight) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		baseJSON
		Children []Node `json:"children"`
	}{n.bjson(), n.Children})
}

func (n *Emphasis) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		baseJSON
		Which    EmphasisKind `json:"which"`
		Children []Node       `json:"children"`
	}{n.bjson(), n.Which, n.Children})
}

func (n *List) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		baseJSON
		Ordered bool        `json:"ordered"`
		Items   []*ListItem `json:"items"`
	}{n.bjson(), n.Ordered, n.Items})
}

func (n *ListItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		baseJSON
		Checked  *bool  `json:"checked,omitempty"`
		Marker   Marker `json:"marker"`
		Children []Node `json:"children"`
	}{n.bjson(), n.Checked, n.Marker, n.Children})
}

func (n *FencedCode) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		baseJSON
		Info   string `json:"info"`
		Source string `json:"source"`
	}{n.bjson(), n.Info, n.Source})
}

func (n *InlineCode) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		baseJSON
		Source string `json:"source"`
	}{n.bjson(), n.Source})
}

func (n *Table) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		baseJSON
		Rows []*TableRow `json:"rows"`
	}{n.bjson(), n.Rows})
}

func (n *TableRow) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		baseJSON
		IsHeaderOrFooter bool         `json:"isHeaderOrFooter"`
		Cells            []*TableCell `json:"cells"`
	}{n.bjson(), n.IsHeaderOrFooter, n.Cells})
}

func (n *TableCell) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		baseJSON
		Children []Node `json:"children"`
	}{n.bjson(), n.Children})
}

func (n *ZettelkastenLink) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		baseJSON
		Value *Text `json:"value"`
	}{n.bjson(), n.Value})
}

func (n *ZettelkastenTag) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		baseJSON
		Value *Text `json:"value"`
	}{n.bjson(), n.Value})
}

func (n *Generic) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		baseJSON
		Children []Node `json:"children"`
	}{n.bjson(), n.Children})
}
