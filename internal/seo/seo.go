// Package seo builds the head metadata and structured data of rendered pages.
package seo

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// OpenGraph is the og:* block.
type OpenGraph struct {
	Title       string
	Description string
	Image       string
	Type        string
	URL         string
	SiteName    string
}

// Twitter is the twitter:* block.
type Twitter struct {
	Card  string
	Image string
}

// Meta is everything the layout puts in <head> besides assets.
type Meta struct {
	Title       string
	Description string
	Canonical   string
	Robots      string
	OG          OpenGraph
	Twitter     Twitter
	JSONLD      []string
}

// Page fills a Meta for a page. base is the site origin used for canonical URLs; path is the request path.
func Page(title, description, base, path, image, ogType, siteName string) Meta {
	canonical := ""
	if base != "" {
		canonical = strings.TrimRight(base, "/") + path
	}
	if ogType == "" {
		ogType = "website"
	}
	card := "summary"
	if image != "" {
		card = "summary_large_image"
	}
	return Meta{
		Title:       title,
		Description: description,
		Canonical:   canonical,
		OG: OpenGraph{
			Title:       title,
			Description: description,
			Image:       image,
			Type:        ogType,
			URL:         canonical,
			SiteName:    siteName,
		},
		Twitter: Twitter{Card: card, Image: image},
	}
}

// NoIndex marks the page as not indexable, used for previews and error pages.
func (m Meta) NoIndex() Meta {
	m.Robots = "noindex, nofollow"
	return m
}

// WithJSONLD appends structured data payloads, skipping empty ones.
func (m Meta) WithJSONLD(payloads ...string) Meta {
	for _, p := range payloads {
		if p != "" {
			m.JSONLD = append(m.JSONLD, p)
		}
	}
	return m
}

// Excerpt extracts the visible text of an HTML fragment, collapses whitespace and
// cuts it at a word boundary to at most limit runes, adding an ellipsis when cut.
func Excerpt(fragment string, limit int) string {
	z := html.NewTokenizer(strings.NewReader(fragment))
	var b strings.Builder
	skip := 0
loop:
	for {
		switch z.Next() {
		case html.ErrorToken:
			break loop
		case html.StartTagToken:
			if name, _ := z.TagName(); isHidden(string(name)) {
				skip++
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); isHidden(string(name)) && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
				b.WriteByte(' ')
			}
		}
	}
	text := strings.Join(strings.Fields(b.String()), " ")
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	cut := string(runes[:limit])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}

func isHidden(tag string) bool {
	switch tag {
	case "script", "style", "template", "noscript":
		return true
	}
	return false
}
