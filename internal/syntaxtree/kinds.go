package syntaxtree

// Node kind names produced by the markdown grammar. The converter dispatches
// on these strings; kinds it does not recognize degrade to a generic node,
// so the list can grow without breaking conversion.
const (
	KindDocument  = "Document"
	KindParagraph = "Paragraph"

	KindATXHeading1    = "ATXHeading1"
	KindATXHeading2    = "ATXHeading2"
	KindATXHeading3    = "ATXHeading3"
	KindATXHeading4    = "ATXHeading4"
	KindATXHeading5    = "ATXHeading5"
	KindATXHeading6    = "ATXHeading6"
	KindSetextHeading1 = "SetextHeading1"
	KindSetextHeading2 = "SetextHeading2"
	KindHeaderMark     = "HeaderMark"

	KindEmphasis         = "Emphasis"
	KindStrongEmphasis   = "StrongEmphasis"
	KindEmphasisMark     = "EmphasisMark"
	KindHighlight        = "Highlight"
	KindHighlightContent = "HighlightContent"
	KindHighlightMark    = "HighlightMark"

	KindInlineCode           = "InlineCode"
	KindFencedCode           = "FencedCode"
	KindCodeBlock            = "CodeBlock"
	KindCodeMark             = "CodeMark"
	KindCodeInfo             = "CodeInfo"
	KindCodeText             = "CodeText"
	KindYAMLFrontmatter      = "YAMLFrontmatter"
	KindYAMLFrontmatterStart = "YAMLFrontmatterStart"
	KindYAMLFrontmatterEnd   = "YAMLFrontmatterEnd"

	KindBlockquote = "Blockquote"
	KindQuoteMark  = "QuoteMark"

	KindBulletList  = "BulletList"
	KindOrderedList = "OrderedList"
	KindListItem    = "ListItem"
	KindListMark    = "ListMark"
	KindTaskMarker  = "TaskMarker"

	KindLink      = "Link"
	KindImage     = "Image"
	KindURL       = "URL"
	KindLinkMark  = "LinkMark"
	KindLinkLabel = "LinkLabel"

	KindTable          = "Table"
	KindTableHeader    = "TableHeader"
	KindTableRow       = "TableRow"
	KindTableCell      = "TableCell"
	KindTableDelimiter = "TableDelimiter"

	KindFootnote         = "Footnote"
	KindFootnoteRef      = "FootnoteRef"
	KindFootnoteRefLabel = "FootnoteRefLabel"
	KindFootnoteRefBody  = "FootnoteRefBody"

	KindCitation       = "Citation"
	KindZknLink        = "ZknLink"
	KindZknLinkContent = "ZknLinkContent"
	KindZknTag         = "ZknTag"

	KindPandocAttribute = "PandocAttribute"
)
