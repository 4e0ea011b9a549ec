// Package richtext renders CMS rich-text documents to sanitized HTML.
package richtext

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"strconv"

	"github.com/a-h/templ"
	"github.com/microcosm-cc/bluemonday"

	"casefolio.dev/portfolio-web/internal/content"
	"casefolio.dev/portfolio-web/internal/viewmodel"
)

const (
	galleryContentType = "imageGallery"

	processingText      = "Asset processing… it will appear here once ready."
	processingShortText = "Asset processing…"
	unknownEntryText    = "Unknown embedded entry type"
)

// Options annotate rendered markup for the live-preview inspector.
// Both fields are empty outside preview mode.
type Options struct {
	EntryID string
	Field   string
}

// Renderer turns documents into markup. It is safe for concurrent use.
type Renderer struct {
	policy *bluemonday.Policy
}

// New constructs a Renderer with the default sanitizing policy.
func New() *Renderer {
	return &Renderer{policy: Policy()}
}

// Component returns the unsanitized document markup as a templ component.
// A nil document renders nothing.
func (r *Renderer) Component(doc *content.Document, opts Options) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if doc == nil {
			return nil
		}
		return renderNodes(ctx, &writer{w: w, opts: opts}, doc.Content)
	})
}

// HTML renders and sanitizes doc for embedding in html/template layouts.
func (r *Renderer) HTML(ctx context.Context, doc *content.Document, opts Options) (template.HTML, error) {
	if doc == nil {
		return "", nil
	}
	var buf bytes.Buffer
	if err := r.Component(doc, opts).Render(ctx, &buf); err != nil {
		return "", fmt.Errorf("richtext: render: %w", err)
	}
	return template.HTML(r.policy.SanitizeBytes(buf.Bytes())), nil
}

// writer accumulates the first write error so node handlers stay linear.
type writer struct {
	w    io.Writer
	opts Options
	err  error
}

func (w *writer) raw(s string) {
	if w.err != nil {
		return
	}
	_, w.err = io.WriteString(w.w, s)
}

func (w *writer) text(s string) {
	w.raw(templ.EscapeString(s))
}

func (w *writer) attr(name, value string) {
	w.raw(" " + name + `="` + templ.EscapeString(value) + `"`)
}

// open writes a start tag with an optional class and the preview annotations.
func (w *writer) open(tag, class string, annotate bool) {
	w.raw("<" + tag)
	if class != "" {
		w.attr("class", class)
	}
	if annotate && w.opts.EntryID != "" {
		w.attr("data-contentful-entry-id", w.opts.EntryID)
		if w.opts.Field != "" {
			w.attr("data-contentful-field-id", w.opts.Field)
		}
	}
	w.raw(">")
}

func (w *writer) close(tag string) {
	w.raw("</" + tag + ">")
}

func renderNodes(ctx context.Context, w *writer, nodes []content.Node) error {
	for _, n := range nodes {
		if err := renderNode(ctx, w, n); err != nil {
			return err
		}
	}
	return w.err
}

func wrap(ctx context.Context, w *writer, tag, class string, annotate bool, children []content.Node) error {
	w.open(tag, class, annotate)
	if err := renderNodes(ctx, w, children); err != nil {
		return err
	}
	w.close(tag)
	return w.err
}

// renderNode dispatches on the closed node set. Adding a content.Node variant
// requires a case here; TestEveryNodeKindIsHandled enumerates them.
func renderNode(ctx context.Context, w *writer, n content.Node) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	switch v := n.(type) {
	case content.Paragraph:
		return wrap(ctx, w, "p", "", true, v.Content)
	case content.Heading:
		return renderHeading(ctx, w, v)
	case content.ListNode:
		tag, class := "ul", "custom-unordered-list"
		if v.Ordered {
			tag, class = "ol", "custom-ordered-list"
		}
		return wrap(ctx, w, tag, class, true, v.Content)
	case content.ListItem:
		return renderListItem(ctx, w, v)
	case content.Quote:
		return wrap(ctx, w, "blockquote", "custom-blockquote", false, v.Content)
	case content.HR:
		w.raw("<hr>")
		return w.err
	case content.Table:
		w.raw(`<div class="table-container"><table class="case-study-table"><tbody>`)
		if err := renderNodes(ctx, w, v.Content); err != nil {
			return err
		}
		w.raw("</tbody></table></div>")
		return w.err
	case content.TableRow:
		return wrap(ctx, w, "tr", "", false, v.Content)
	case content.TableCell:
		if v.Header {
			return wrap(ctx, w, "th", "", false, v.Content)
		}
		return wrap(ctx, w, "td", "", true, v.Content)
	case content.Hyperlink:
		return renderExternalLink(ctx, w, v.URI, v.Content)
	case content.EntryHyperlink:
		return renderEntryLink(ctx, w, v)
	case content.AssetHyperlink:
		if u, ok := viewmodel.AssetURL(v.Target); ok {
			return renderExternalLink(ctx, w, u, v.Content)
		}
		return renderNodes(ctx, w, v.Content)
	case content.EmbeddedAsset:
		renderFigure(w, v.Target)
		return w.err
	case content.EmbeddedEntry:
		if v.Inline {
			renderInlineEntry(w, v.Target)
		} else {
			renderBlockEntry(w, v.Target)
		}
		return w.err
	case content.Text:
		renderText(w, v)
		return w.err
	case content.Unsupported:
		return renderNodes(ctx, w, v.Content)
	case nil:
		return w.err
	default:
		return fmt.Errorf("richtext: unhandled node %T", n)
	}
}

func renderHeading(ctx context.Context, w *writer, h content.Heading) error {
	level := h.Level
	if level < 1 || level > 6 {
		level = 2
	}
	class := ""
	switch level {
	case 2:
		class = "rich-heading"
	case 3, 4:
		class = "mb-3"
	}
	return wrap(ctx, w, "h"+strconv.Itoa(level), class, true, h.Content)
}

// renderListItem unwraps paragraphs to spans so list text is not block-wrapped twice,
// and marks lists nested inside the item.
func renderListItem(ctx context.Context, w *writer, li content.ListItem) error {
	w.open("li", "custom-list-item", true)
	for _, child := range li.Content {
		var err error
		switch c := child.(type) {
		case content.Paragraph:
			err = wrap(ctx, w, "span", "", false, c.Content)
		case content.ListNode:
			tag := "ul"
			if c.Ordered {
				tag = "ol"
			}
			err = wrap(ctx, w, tag, "nested-list", false, c.Content)
		default:
			err = renderNode(ctx, w, child)
		}
		if err != nil {
			return err
		}
	}
	w.close("li")
	return w.err
}

func renderExternalLink(ctx context.Context, w *writer, href string, children []content.Node) error {
	w.raw("<a")
	w.attr("href", string(templ.URL(href)))
	w.attr("target", "_blank")
	w.attr("rel", "noopener noreferrer")
	w.raw(">")
	if err := renderNodes(ctx, w, children); err != nil {
		return err
	}
	w.close("a")
	return w.err
}

// renderEntryLink links to another case study when the target has a route; other
// targets keep their text only.
func renderEntryLink(ctx context.Context, w *writer, l content.EntryHyperlink) error {
	ref, ok := l.Target.(content.Ref)
	if !ok || ref.Record == nil || ref.Record.ContentType != "caseStudy" {
		return renderNodes(ctx, w, l.Content)
	}
	slug := viewmodel.DeriveSlug(ref.Record.Text("slug"), ref.Record.Text("title"), ref.Record.ID)
	if slug == "" {
		return renderNodes(ctx, w, l.Content)
	}
	w.raw("<a")
	w.attr("href", string(templ.URL("/case-studies/"+slug)))
	w.raw(">")
	if err := renderNodes(ctx, w, l.Content); err != nil {
		return err
	}
	w.close("a")
	return w.err
}

var markTags = map[content.Mark]string{
	content.MarkBold:        "strong",
	content.MarkItalic:      "em",
	content.MarkUnderline:   "u",
	content.MarkCode:        "code",
	content.MarkSuperscript: "sup",
	content.MarkSubscript:   "sub",
}

func renderText(w *writer, t content.Text) {
	var closers []string
	for _, m := range t.Marks {
		tag, ok := markTags[m]
		if !ok {
			continue
		}
		w.raw("<" + tag + ">")
		closers = append(closers, tag)
	}
	w.text(t.Value)
	for i := len(closers) - 1; i >= 0; i-- {
		w.close(closers[i])
	}
}
