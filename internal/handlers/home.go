package handlers

import (
	"context"
	"net/http"
	"net/url"

	"casefolio.dev/portfolio-web/internal/cms"
	"casefolio.dev/portfolio-web/internal/content"
	"casefolio.dev/portfolio-web/internal/middleware"
	"casefolio.dev/portfolio-web/internal/observability"
	"casefolio.dev/portfolio-web/internal/page"
	"casefolio.dev/portfolio-web/internal/seo"
	"casefolio.dev/portfolio-web/internal/viewmodel"
)

const (
	caseStudyType = "caseStudy"
	// FilterParam selects the initially visible listing partition.
	FilterParam = "filter"

	listingFailed = "Failed to load case studies."
)

// Home renders the case study listing. Both partitions are rendered from one
// query; switching between them happens in the page without another fetch.
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	preview := middleware.IsPreview(ctx)

	ctrl := page.New[bool, []*content.Record]("listing", h.fetchListing,
		page.WithLogger[[]*content.Record](observability.FromContext(ctx)),
		page.WithRecorder[[]*content.Record](h.recorder),
		page.WithTitle[[]*content.Record](h.site.DefaultTitle(), nil),
		page.WithErrorText[[]*content.Record](func(err error) string {
			if msg := err.Error(); msg != "" {
				return msg
			}
			return listingFailed
		}),
	)
	st, title := settle(ctx, ctrl, preview)

	filter := viewmodel.ParseFilter(r.URL.Query().Get(FilterParam))
	listing := viewmodel.NewListing(st.Data, filter)

	meta := seo.Page(title, h.site.Description, h.site.BaseURL, "/", "", "website", h.site.Name).
		WithJSONLD(
			seo.JSON(seo.WebSite(h.site.Name, h.site.BaseURL, h.site.Description)),
			seo.JSON(seo.Person(h.site.Name, h.site.Tagline, h.site.BaseURL, "", socialLinks(h))),
		)

	data := PageData{
		Layout:  h.layout(r, title, meta, ""),
		Phase:   st.Phase.String(),
		Message: st.Message,
		Listing: &ListingView{
			Listing:      listing,
			Copy:         h.site.Listing,
			FeaturedHref: filterHref(r.URL, viewmodel.FilterFeatured),
			OtherHref:    filterHref(r.URL, viewmodel.FilterOther),
		},
	}
	h.render(w, r, status(st), pageListing, data)
}

func (h *Handlers) fetchListing(ctx context.Context, preview bool) ([]*content.Record, error) {
	client, err := h.client(ctx, preview)
	if err != nil {
		return nil, err
	}
	col, err := client.Entries(ctx, cms.Query{
		ContentType: caseStudyType,
		Order:       []string{"fields.order"},
	})
	if err != nil {
		return nil, err
	}
	return col.Items, nil
}

// filterHref keeps the other query parameters (preview) and jumps back to the list.
func filterHref(u *url.URL, f viewmodel.Filter) string {
	q := u.Query()
	if f == viewmodel.FilterFeatured {
		q.Del(FilterParam)
	} else {
		q.Set(FilterParam, string(f))
	}
	out := "/"
	if enc := q.Encode(); enc != "" {
		out += "?" + enc
	}
	return out + "#my-work"
}

func socialLinks(h *Handlers) []string {
	out := make([]string, 0, len(h.site.Footer.Social))
	for _, s := range h.site.Footer.Social {
		out = append(out, s.Href)
	}
	return out
}
