// Package sectionnav derives in-page section anchors for case-study pages and
// models which section the sticky navigation highlights.
//
// The browser half lives in public/assets/js/app.js; it follows the same rules
// as Tracker so both sides agree on ids, ratios and scroll offsets.
package sectionnav

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	nonWord       = regexp.MustCompile(`[^\w-]`)
)

// IDFromLabel turns a display label into an anchor id: trimmed, lowercased,
// whitespace runs become hyphens and anything outside [A-Za-z0-9_-] is dropped.
// The result is stable under repeated application.
func IDFromLabel(label string) string {
	id := cases.Lower(language.Und).String(strings.TrimSpace(label))
	id = whitespaceRun.ReplaceAllString(id, "-")
	return nonWord.ReplaceAllString(id, "")
}

// Heading is a discovered section heading.
type Heading struct {
	ID    string
	Title string
}

// AnnotateHeadings finds every h2 inside a .project-section in fragment, gives
// headings without an id one derived from their text, and returns the updated
// fragment with the headings in document order.
func AnnotateHeadings(fragment string) (string, []Heading, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", nil, fmt.Errorf("sectionnav: parse: %w", err)
	}
	var headings []Heading
	doc.Find(".project-section h2").Each(func(i int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		id, ok := s.Attr("id")
		if !ok || id == "" {
			id = IDFromLabel(text)
			if id == "" {
				id = fmt.Sprintf("heading-%d", i)
			}
			s.SetAttr("id", id)
		}
		title := text
		if title == "" {
			title = "Section"
		}
		headings = append(headings, Heading{ID: id, Title: title})
	})
	out, err := doc.Find("body").Html()
	if err != nil {
		return "", nil, fmt.Errorf("sectionnav: serialize: %w", err)
	}
	return out, headings, nil
}

// Link is a view item for the sticky section menu.
type Link struct {
	ID      string
	Label   string
	Current bool
}

// Href is the in-page anchor of the link.
func (l Link) Href() string { return "#" + l.ID }

// Class returns the list-item class for the current section.
func (l Link) Class() string {
	if l.Current {
		return "is-current"
	}
	return ""
}

// AriaCurrent returns the aria-current value, empty when the link is not current.
func (l Link) AriaCurrent() string {
	if l.Current {
		return "true"
	}
	return ""
}

// LinksFor builds menu items from discovered headings, keeping their assigned ids.
func LinksFor(headings []Heading, active string) []Link {
	out := make([]Link, 0, len(headings))
	for _, h := range headings {
		out = append(out, Link{ID: h.ID, Label: h.Title, Current: active != "" && h.ID == active})
	}
	return out
}
