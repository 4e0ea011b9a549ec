// Package format holds presentation helpers shared by templates.
package format

import (
	"bytes"
	"html/template"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	md = goldmark.New(
		goldmark.WithExtensions(extension.Linkify, extension.Strikethrough),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)
	mdPolicy = func() *bluemonday.Policy {
		p := bluemonday.UGCPolicy()
		p.AddTargetBlankToFullyQualifiedLinks(true)
		return p
	}()
)

// Markdown renders a CMS long-text field to sanitized HTML. Blank input renders nothing.
func Markdown(src string) template.HTML {
	src = strings.TrimSpace(src)
	if src == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(mdPolicy.SanitizeBytes(buf.Bytes()))
}

// FmtDate formats t as "Jan 2, 2006".
func FmtDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

var dateLayouts = []string{time.RFC3339, "2006-01-02", "2006-01"}

// MonthYear renders CMS date strings as "Jan 2006". Values it cannot parse pass through.
func MonthYear(s string) string {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("Jan 2006")
		}
	}
	return s
}

// Year returns the four-digit year of t.
func Year(t time.Time) int {
	return t.Year()
}
