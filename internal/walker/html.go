package walker

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/mdtree/mdtree/internal/mdast"
)

// HTML serializes the AST to an HTML fragment. Frontmatter is metadata and
// renders to nothing; citation and zettelkasten nodes render as classed
// spans for downstream styling.
func HTML(root mdast.Node) string {
	var b strings.Builder
	renderNode(&b, root)
	return b.String()
}

func renderNode(b *strings.Builder, n mdast.Node) {
	switch v := n.(type) {
	case *mdast.Text:
		b.WriteString(html.EscapeString(v.Value))
	case *mdast.Heading:
		level := v.Level
		fmt.Fprintf(b, "<h%d%s>", level, attrString(v.Attributes))
		if v.Value != nil {
			b.WriteString(html.EscapeString(v.Value.Value))
		}
		fmt.Fprintf(b, "</h%d>\n", level)
	case *mdast.Citation:
		b.WriteString(`<span class="citation">`)
		if v.Value != nil {
			b.WriteString(html.EscapeString(v.Value.Value))
		}
		b.WriteString("</span>")
	case *mdast.Footnote:
		fmt.Fprintf(b, `<sup class="footnote">%s</sup>`, html.EscapeString(v.Label))
	case *mdast.FootnoteRef:
		fmt.Fprintf(b, `<div class="footnote-definition" id="fn-%s">`, html.EscapeString(v.Label))
		renderAll(b, v.Children)
		b.WriteString("</div>\n")
	case *mdast.LinkOrImage:
		renderLink(b, v)
	case *mdast.Highlight:
		b.WriteString("<mark" + attrString(v.Attributes) + ">")
		renderAll(b, v.Children)
		b.WriteString("</mark>")
	case *mdast.Emphasis:
		tag := "strong"
		if v.Which == mdast.Italic {
			tag = "em"
		}
		b.WriteString("<" + tag + attrString(v.Attributes) + ">")
		renderAll(b, v.Children)
		b.WriteString("</" + tag + ">")
	case *mdast.List:
		renderList(b, v)
	case *mdast.ListItem:
		renderListItem(b, v)
	case *mdast.FencedCode:
		renderCode(b, v)
	case *mdast.InlineCode:
		b.WriteString("<code>" + html.EscapeString(v.Source) + "</code>")
	case *mdast.Table:
		renderTable(b, v)
	case *mdast.TableRow, *mdast.TableCell:
		// Rendered by their table.
	case *mdast.ZettelkastenLink:
		b.WriteString(`<span class="zkn-link">`)
		if v.Value != nil {
			b.WriteString(html.EscapeString(v.Value.Value))
		}
		b.WriteString("</span>")
	case *mdast.ZettelkastenTag:
		b.WriteString(`<span class="zkn-tag">`)
		if v.Value != nil {
			b.WriteString(html.EscapeString(v.Value.Value))
		}
		b.WriteString("</span>")
	case *mdast.Generic:
		renderGeneric(b, v)
	}
}

func renderAll(b *strings.Builder, ns []mdast.Node) {
	for _, n := range ns {
		renderNode(b, n)
	}
}

// renderGeneric gives the common block kinds their obvious tags and passes
// everything else through as its children.
func renderGeneric(b *strings.Builder, v *mdast.Generic) {
	switch v.Kind {
	case "Paragraph":
		b.WriteString("<p" + attrString(v.Attributes) + ">")
		renderAll(b, v.Children)
		b.WriteString("</p>\n")
	case "Blockquote":
		b.WriteString("<blockquote" + attrString(v.Attributes) + ">\n")
		renderAll(b, v.Children)
		b.WriteString("</blockquote>\n")
	case "HorizontalRule":
		b.WriteString("<hr>\n")
	case "Strikethrough":
		b.WriteString("<del>")
		renderAll(b, v.Children)
		b.WriteString("</del>")
	default:
		renderAll(b, v.Children)
	}
}

func renderLink(b *strings.Builder, v *mdast.LinkOrImage) {
	url := ""
	if v.URL != nil {
		url = v.URL.Value
	}
	alt := ""
	if v.Alt != nil {
		alt = v.Alt.Value
	}
	if v.Variant == mdast.VariantImage {
		fmt.Fprintf(b, `<img src="%s" alt="%s"%s>`,
			html.EscapeString(url), html.EscapeString(alt), attrString(v.Attributes))
		return
	}
	fmt.Fprintf(b, `<a href="%s"%s>%s</a>`,
		html.EscapeString(url), attrString(v.Attributes), html.EscapeString(alt))
}

func renderList(b *strings.Builder, v *mdast.List) {
	tag := "ul"
	if v.Ordered {
		tag = "ol"
	}
	b.WriteString("<" + tag + attrString(v.Attributes) + ">\n")
	for _, item := range v.Items {
		renderListItem(b, item)
	}
	b.WriteString("</" + tag + ">\n")
}

func renderListItem(b *strings.Builder, item *mdast.ListItem) {
	b.WriteString("<li" + attrString(item.Attributes) + ">")
	if item.Checked != nil {
		if *item.Checked {
			b.WriteString(`<input type="checkbox" checked disabled> `)
		} else {
			b.WriteString(`<input type="checkbox" disabled> `)
		}
	}
	for _, ch := range item.Children {
		// Task markers survive as generic [x] nodes; the checkbox above
		// already represents them.
		if g, ok := ch.(*mdast.Generic); ok && g.Kind == "TaskMarker" {
			continue
		}
		renderNode(b, ch)
	}
	b.WriteString("</li>\n")
}

func renderCode(b *strings.Builder, v *mdast.FencedCode) {
	if v.Type == mdast.TypeYAMLFrontmatter {
		return
	}
	if v.Info == "$$" {
		b.WriteString(`<div class="math">` + html.EscapeString(v.Source) + "</div>\n")
		return
	}
	b.WriteString("<pre><code")
	if v.Info != "" {
		fmt.Fprintf(b, ` class="language-%s"`, html.EscapeString(v.Info))
	}
	b.WriteString(">")
	b.WriteString(html.EscapeString(v.Source))
	b.WriteString("</code></pre>\n")
}

func renderTable(b *strings.Builder, v *mdast.Table) {
	b.WriteString("<table" + attrString(v.Attributes) + ">\n")
	for _, row := range v.Rows {
		cellTag := "td"
		if row.IsHeaderOrFooter {
			cellTag = "th"
		}
		b.WriteString("<tr>")
		for _, cell := range row.Cells {
			b.WriteString("<" + cellTag + ">")
			renderAll(b, cell.Children)
			b.WriteString("</" + cellTag + ">")
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</table>\n")
}

// attrString renders a Pandoc attribute map as HTML attributes, keys
// sorted for deterministic output.
func attrString(attrs map[string]string) string {
	if len(attrs) == 0 {
		return ""
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, ` %s="%s"`, k, html.EscapeString(attrs[k]))
	}
	return b.String()
}
