// Package nav builds the header navigation and breadcrumbs.
package nav

import (
	"path"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"casefolio.dev/portfolio-web/internal/site"
)

// RenderedItem is a view model for templates.
type RenderedItem struct {
	Href   string
	Label  string
	Active bool
}

// Crumb represents a breadcrumb entry.
type Crumb struct {
	Href   string
	Label  string
	Active bool
}

// sectionOwners maps route prefixes to the nav path that owns them, so a case
// study keeps "My Work" highlighted.
var sectionOwners = map[string]string{
	"/case-studies": "/",
}

// Build renders navigation items with active state given the current path.
func Build(links []site.Link, currentPath string) []RenderedItem {
	if currentPath == "" {
		currentPath = "/"
	}
	items := make([]RenderedItem, 0, len(links))
	for _, l := range links {
		items = append(items, RenderedItem{
			Href:   l.Href,
			Label:  l.Label,
			Active: isActive(hrefPath(l.Href), currentPath),
		})
	}
	return items
}

func hrefPath(href string) string {
	if i := strings.IndexAny(href, "#?"); i >= 0 {
		href = href[:i]
	}
	if href == "" {
		return "/"
	}
	return href
}

func isActive(itemPath, currentPath string) bool {
	for prefix, owner := range sectionOwners {
		if currentPath == prefix || strings.HasPrefix(currentPath, prefix+"/") {
			currentPath = owner
		}
	}
	if itemPath == "/" {
		return currentPath == "/"
	}
	return currentPath == itemPath || strings.HasPrefix(currentPath, itemPath+"/")
}

// Breadcrumbs builds breadcrumb entries from the current path. The last crumb
// uses last when given, otherwise a prettified segment.
func Breadcrumbs(currentPath, last string) []Crumb {
	if currentPath == "" {
		currentPath = "/"
	}
	crumbs := []Crumb{{Href: "/", Label: "Home", Active: currentPath == "/"}}
	if currentPath == "/" {
		return crumbs
	}
	clean := path.Clean(currentPath)
	parts := strings.Split(strings.TrimPrefix(clean, "/"), "/")
	href := ""
	for i, seg := range parts {
		if seg == "" {
			continue
		}
		href += "/" + seg
		label := titleFromSegment(seg)
		if i == len(parts)-1 && last != "" {
			label = last
		}
		crumbs = append(crumbs, Crumb{Href: href, Label: label, Active: i == len(parts)-1})
	}
	return crumbs
}

func titleFromSegment(seg string) string {
	s := strings.NewReplacer("-", " ", "_", " ").Replace(seg)
	return cases.Title(language.English).String(s)
}
