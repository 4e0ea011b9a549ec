// Package viewmodel turns decoded CMS records into render-safe page shapes.
//
// Every optional field resolves to a defined fallback here, so templates and
// renderers never branch on the shape of the underlying content.
package viewmodel

import (
	"strings"

	"casefolio.dev/portfolio-web/internal/content"
)

// NormalizeURL rewrites protocol-relative URLs to https and passes everything else through.
// Empty input is reported as not ok.
func NormalizeURL(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if strings.HasPrefix(raw, "//") {
		return "https:" + raw, true
	}
	return raw, true
}

// AssetURL resolves a field value to an absolute URL. It accepts a plain string,
// a resolved asset, or an entry carrying a file or url field. Anything else is not ok.
func AssetURL(v content.Value) (string, bool) {
	switch val := v.(type) {
	case content.String:
		return NormalizeURL(string(val))
	case content.AssetRef:
		if val.Asset == nil {
			return "", false
		}
		return NormalizeURL(val.Asset.File.URL)
	case content.Ref:
		if val.Record == nil {
			return "", false
		}
		if u, ok := AssetURL(val.Record.Field("url")); ok {
			return u, true
		}
		return AssetURL(val.Record.Field("file"))
	case content.Object:
		if u, ok := val["url"].(content.String); ok {
			return NormalizeURL(string(u))
		}
	}
	return "", false
}

// Image is a resolved picture with its descriptive text.
type Image struct {
	URL         string
	Title       string
	Description string
}

// Alt returns the preferred alternative text, or fallback when the asset has none.
func (i Image) Alt(fallback string) string {
	if i.Description != "" {
		return i.Description
	}
	if i.Title != "" {
		return i.Title
	}
	return fallback
}

// Caption prefers the description over the title.
func (i Image) Caption() string {
	if i.Description != "" {
		return i.Description
	}
	return i.Title
}

// ImageFrom resolves an asset value. The returned image keeps its title and description
// even when the URL is missing, so callers can caption placeholders; ok reports whether a URL resolved.
func ImageFrom(v content.Value) (Image, bool) {
	var img Image
	if ref, isAsset := v.(content.AssetRef); isAsset && ref.Asset != nil {
		img.Title = strings.TrimSpace(ref.Asset.Title)
		img.Description = strings.TrimSpace(ref.Asset.Description)
	}
	u, ok := AssetURL(v)
	img.URL = u
	return img, ok
}

// IsInternalPath reports whether href stays on this site: a root-relative path,
// or an absolute URL under origin when origin is given.
func IsInternalPath(href, origin string) bool {
	href = strings.TrimSpace(href)
	if href == "" {
		return false
	}
	if strings.HasPrefix(href, "/") && !strings.HasPrefix(href, "//") {
		return true
	}
	origin = strings.TrimRight(strings.TrimSpace(origin), "/")
	if origin == "" {
		return false
	}
	return href == origin || strings.HasPrefix(href, origin+"/")
}
