package viewmodel

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// DeriveSlug picks the route key of a case study: the explicit slug, else the
// lowercased title with whitespace runs turned into hyphens, else the record identity.
func DeriveSlug(slug, title, id string) string {
	if slug = strings.TrimSpace(slug); slug != "" {
		return slug
	}
	if title = strings.TrimSpace(title); title != "" {
		return whitespaceRun.ReplaceAllString(cases.Lower(language.Und).String(title), "-")
	}
	return strings.TrimSpace(id)
}
