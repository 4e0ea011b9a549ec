package handlers

import (
	"context"
	"net/http"

	"casefolio.dev/portfolio-web/internal/cms"
	"casefolio.dev/portfolio-web/internal/content"
	"casefolio.dev/portfolio-web/internal/middleware"
	"casefolio.dev/portfolio-web/internal/observability"
	"casefolio.dev/portfolio-web/internal/page"
	"casefolio.dev/portfolio-web/internal/seo"
	"casefolio.dev/portfolio-web/internal/viewmodel"
)

const (
	aboutPageType = "aboutPage"
	aboutFailed   = "Failed to load About page."
)

// About renders the profile page. A missing record is not an error: every
// section falls back to the site defaults.
func (h *Handlers) About(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	preview := middleware.IsPreview(ctx)

	ctrl := page.New[bool, *content.Record]("profile", h.fetchProfile,
		page.WithLogger[*content.Record](observability.FromContext(ctx)),
		page.WithRecorder[*content.Record](h.recorder),
		page.WithTitle[*content.Record](h.site.DefaultTitle(), nil),
		page.WithErrorText[*content.Record](func(err error) string {
			if msg := err.Error(); msg != "" {
				return "Failed to load About page: " + msg
			}
			return aboutFailed
		}),
	)
	st, title := settle(ctx, ctrl, preview)

	data := PageData{Phase: st.Phase.String(), Message: st.Message}
	if st.Phase == page.PhaseReady {
		p := viewmodel.NewProfile(st.Data, h.site.Profile, h.site.BaseURL)
		data.Profile = &p
	}

	meta := seo.Page(title, h.site.Profile.HeroSubtitle, h.site.BaseURL, r.URL.Path, "", "profile", h.site.Name).
		WithJSONLD(seo.JSON(seo.Person(h.site.Name, h.site.Tagline, h.site.BaseURL, "", socialLinks(h))))
	data.Layout = h.layout(r, title, meta, "")
	h.render(w, r, status(st), pageProfile, data)
}

func (h *Handlers) fetchProfile(ctx context.Context, preview bool) (*content.Record, error) {
	client, err := h.client(ctx, preview)
	if err != nil {
		return nil, err
	}
	col, err := client.Entries(ctx, cms.Query{
		ContentType: aboutPageType,
		Include:     10,
		Limit:       1,
	})
	if err != nil {
		return nil, err
	}
	if len(col.Items) == 0 {
		return nil, nil
	}
	return col.Items[0], nil
}
