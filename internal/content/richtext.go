package content

import "strconv"

// Kind is the CMS node type tag of a rich-text node.
type Kind string

const (
	KindDocument            Kind = "document"
	KindParagraph           Kind = "paragraph"
	KindHeading1            Kind = "heading-1"
	KindHeading2            Kind = "heading-2"
	KindHeading3            Kind = "heading-3"
	KindHeading4            Kind = "heading-4"
	KindHeading5            Kind = "heading-5"
	KindHeading6            Kind = "heading-6"
	KindUnorderedList       Kind = "unordered-list"
	KindOrderedList         Kind = "ordered-list"
	KindListItem            Kind = "list-item"
	KindQuote               Kind = "blockquote"
	KindHR                  Kind = "hr"
	KindTable               Kind = "table"
	KindTableRow            Kind = "table-row"
	KindTableHeaderCell     Kind = "table-header-cell"
	KindTableCell           Kind = "table-cell"
	KindEmbeddedAsset       Kind = "embedded-asset-block"
	KindEmbeddedEntryBlock  Kind = "embedded-entry-block"
	KindEmbeddedEntryInline Kind = "embedded-entry-inline"
	KindHyperlink           Kind = "hyperlink"
	KindEntryHyperlink      Kind = "entry-hyperlink"
	KindAssetHyperlink      Kind = "asset-hyperlink"
	KindText                Kind = "text"
)

// Mark is an inline text decoration.
type Mark string

const (
	MarkBold        Mark = "bold"
	MarkItalic      Mark = "italic"
	MarkUnderline   Mark = "underline"
	MarkCode        Mark = "code"
	MarkSuperscript Mark = "superscript"
	MarkSubscript   Mark = "subscript"
)

// Document is the root of a rich-text tree.
type Document struct {
	Content []Node
}

// Node is one element of a rich-text tree. The set of implementations is closed;
// every variant below must be handled by renderers.
type Node interface {
	Kind() Kind
}

type (
	Paragraph struct{ Content []Node }

	Heading struct {
		Level   int
		Content []Node
	}

	ListNode struct {
		Ordered bool
		Content []Node
	}

	ListItem  struct{ Content []Node }
	Quote     struct{ Content []Node }
	HR        struct{}
	Table     struct{ Content []Node }
	TableRow  struct{ Content []Node }
	TableCell struct {
		Header  bool
		Content []Node
	}

	Hyperlink struct {
		URI     string
		Content []Node
	}

	EntryHyperlink struct {
		Target  Value
		Content []Node
	}

	AssetHyperlink struct {
		Target  Value
		Content []Node
	}

	EmbeddedAsset struct{ Target Value }

	EmbeddedEntry struct {
		Inline bool
		Target Value
	}

	Text struct {
		Value string
		Marks []Mark
	}

	// Unsupported keeps nodes whose type is not known to this application.
	Unsupported struct {
		Type    string
		Content []Node
	}
)

func (Paragraph) Kind() Kind { return KindParagraph }
func (h Heading) Kind() Kind { return Kind("heading-" + strconv.Itoa(h.Level)) }
func (l ListNode) Kind() Kind {
	if l.Ordered {
		return KindOrderedList
	}
	return KindUnorderedList
}
func (ListItem) Kind() Kind { return KindListItem }
func (Quote) Kind() Kind    { return KindQuote }
func (HR) Kind() Kind       { return KindHR }
func (Table) Kind() Kind    { return KindTable }
func (TableRow) Kind() Kind { return KindTableRow }
func (c TableCell) Kind() Kind {
	if c.Header {
		return KindTableHeaderCell
	}
	return KindTableCell
}
func (Hyperlink) Kind() Kind      { return KindHyperlink }
func (EntryHyperlink) Kind() Kind { return KindEntryHyperlink }
func (AssetHyperlink) Kind() Kind { return KindAssetHyperlink }
func (EmbeddedAsset) Kind() Kind  { return KindEmbeddedAsset }
func (e EmbeddedEntry) Kind() Kind {
	if e.Inline {
		return KindEmbeddedEntryInline
	}
	return KindEmbeddedEntryBlock
}
func (Text) Kind() Kind          { return KindText }
func (u Unsupported) Kind() Kind { return Kind(u.Type) }

// Children returns the child nodes of n, or nil for leaves.
func Children(n Node) []Node {
	switch v := n.(type) {
	case Paragraph:
		return v.Content
	case Heading:
		return v.Content
	case ListNode:
		return v.Content
	case ListItem:
		return v.Content
	case Quote:
		return v.Content
	case Table:
		return v.Content
	case TableRow:
		return v.Content
	case TableCell:
		return v.Content
	case Hyperlink:
		return v.Content
	case EntryHyperlink:
		return v.Content
	case AssetHyperlink:
		return v.Content
	case Unsupported:
		return v.Content
	}
	return nil
}

// PlainText concatenates the text leaves below n.
func PlainText(nodes []Node) string {
	var out []byte
	var walk func([]Node)
	walk = func(ns []Node) {
		for _, n := range ns {
			if t, ok := n.(Text); ok {
				out = append(out, t.Value...)
				continue
			}
			walk(Children(n))
		}
	}
	walk(nodes)
	return string(out)
}
