package handlers

import (
	"html/template"
	"net/http"

	"casefolio.dev/portfolio-web/internal/middleware"
	"casefolio.dev/portfolio-web/internal/nav"
	"casefolio.dev/portfolio-web/internal/sectionnav"
	"casefolio.dev/portfolio-web/internal/seo"
	"casefolio.dev/portfolio-web/internal/site"
	"casefolio.dev/portfolio-web/internal/theme"
	"casefolio.dev/portfolio-web/internal/viewmodel"
)

// Template names under templates/pages.
const (
	pageListing   = "listing"
	pageCaseStudy = "casestudy"
	pageProfile   = "profile"
	pageNotFound  = "notfound"
	pageError     = "error"
)

// Layout carries the fields every page shares with the base layout.
type Layout struct {
	Title       string
	SEO         seo.Meta
	Path        string
	Nav         []nav.RenderedItem
	Breadcrumbs []nav.Crumb
	Theme       theme.Theme
	CSRFToken   string
	Preview     bool
	Site        *site.Site
	Analytics   Analytics
}

// PageData is the view model handed to the base layout.
type PageData struct {
	Layout

	// Phase is the settled controller phase: "ready", "error" or "not_found".
	Phase   string
	Message string

	Listing   *ListingView
	CaseStudy *CaseStudyView
	Profile   *viewmodel.Profile
}

// Ready reports whether the page content loaded.
func (p PageData) Ready() bool { return p.Phase == "ready" }

// ListingView is the listing page payload.
type ListingView struct {
	viewmodel.Listing
	Copy site.Listing
	// FeaturedHref and OtherHref are the no-script fallbacks of the filter buttons.
	FeaturedHref string
	OtherHref    string
}

// Is reports whether f is the visible partition.
func (v ListingView) Is(f string) bool { return v.Filter == viewmodel.Filter(f) }

// FilterLabel is the heading of the visible partition.
func (v ListingView) FilterLabel() string {
	if v.Filter == viewmodel.FilterOther {
		return v.Copy.OtherLabel
	}
	return v.Copy.FeaturedLabel
}

// CaseStudyView is the detail page payload.
type CaseStudyView struct {
	viewmodel.CaseStudy
	// Body is the annotated markup of every rich-text section.
	Body         template.HTML
	SectionNav   []sectionnav.Link
	HeaderOffset float64
	BackHref     string
	BackLabel    string
}

func (h *Handlers) layout(r *http.Request, title string, meta seo.Meta, crumbLabel string) Layout {
	ctx := r.Context()
	preview := middleware.IsPreview(ctx)
	if preview {
		meta = meta.NoIndex()
	}
	return Layout{
		Title:       title,
		SEO:         meta,
		Path:        r.URL.Path,
		Nav:         nav.Build(h.site.Nav, r.URL.Path),
		Breadcrumbs: nav.Breadcrumbs(r.URL.Path, crumbLabel),
		Theme:       theme.FromContext(ctx),
		CSRFToken:   middleware.CSRFToken(ctx),
		Preview:     preview,
		Site:        h.site,
		Analytics:   h.analytics,
	}
}
