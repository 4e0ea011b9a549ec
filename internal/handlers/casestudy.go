package handlers

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"casefolio.dev/portfolio-web/internal/cms"
	"casefolio.dev/portfolio-web/internal/middleware"
	"casefolio.dev/portfolio-web/internal/observability"
	"casefolio.dev/portfolio-web/internal/page"
	"casefolio.dev/portfolio-web/internal/richtext"
	"casefolio.dev/portfolio-web/internal/sectionnav"
	"casefolio.dev/portfolio-web/internal/seo"
	"casefolio.dev/portfolio-web/internal/viewmodel"
)

const (
	caseStudyNotFound = "Case study not found"
	caseStudyFailed   = "Failed to load case study"

	backHref  = "/#my-work"
	backLabel = "All Projects"

	descriptionLimit = 160
)

type detailKey struct {
	slug    string
	preview bool
}

// CaseStudy renders one case study by slug.
func (h *Handlers) CaseStudy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	preview := middleware.IsPreview(ctx)
	slug := strings.TrimSpace(chi.URLParam(r, "slug"))

	ctrl := page.New[detailKey, viewmodel.CaseStudy]("case_study", h.fetchCaseStudy,
		page.WithLogger[viewmodel.CaseStudy](observability.FromContext(ctx)),
		page.WithRecorder[viewmodel.CaseStudy](h.recorder),
		page.WithTitle[viewmodel.CaseStudy](h.site.DefaultTitle(), func(cs viewmodel.CaseStudy) string {
			return h.site.Title(cs.Title)
		}),
		page.WithNotFoundMessage[viewmodel.CaseStudy](caseStudyNotFound),
		page.WithErrorText[viewmodel.CaseStudy](func(err error) string {
			if msg := err.Error(); msg != "" {
				return msg
			}
			return caseStudyFailed
		}),
	)
	st, title := settle(ctx, ctrl, detailKey{slug: slug, preview: preview})

	data := PageData{Phase: st.Phase.String(), Message: st.Message}
	meta := seo.Page(title, h.site.Description, h.site.BaseURL, r.URL.Path, "", "article", h.site.Name)
	crumb := ""

	if st.Phase == page.PhaseReady {
		view, err := h.caseStudyView(r, st.Data)
		if err != nil {
			observability.FromContext(ctx).Error("render case study sections", zap.Error(err))
			data.Phase = page.PhaseError.String()
			data.Message = caseStudyFailed
			st.Phase = page.PhaseError
			st.Err = err
		} else {
			data.CaseStudy = view
			crumb = view.Title
			description := view.Subtitle
			if description == "" {
				description = seo.Excerpt(string(view.Body), descriptionLimit)
			}
			image := ""
			if view.HasImage {
				image = view.Image.URL
			}
			meta = seo.Page(title, description, h.site.BaseURL, r.URL.Path, image, "article", h.site.Name).
				WithJSONLD(
					seo.JSON(seo.Article(view.Title, description, meta.Canonical, image, h.site.Name, view.Skills)),
					seo.JSON(seo.BreadcrumbList(breadcrumbItems(h.site.BaseURL, view.Title, r.URL.Path))),
				)
		}
	}
	if st.Phase == page.PhaseNotFound {
		meta = meta.NoIndex()
	}

	data.Layout = h.layout(r, title, meta, crumb)
	h.render(w, r, status(st), pageCaseStudy, data)
}

func (h *Handlers) fetchCaseStudy(ctx context.Context, key detailKey) (viewmodel.CaseStudy, error) {
	if key.slug == "" {
		return viewmodel.CaseStudy{}, page.ErrNotFound
	}
	client, err := h.client(ctx, key.preview)
	if err != nil {
		return viewmodel.CaseStudy{}, err
	}
	col, err := client.Entries(ctx, cms.Query{
		ContentType: caseStudyType,
		FieldEquals: map[string]string{"slug": key.slug},
		Include:     10,
		Limit:       1,
	})
	if err != nil {
		return viewmodel.CaseStudy{}, err
	}
	if len(col.Items) == 0 || col.Items[0] == nil {
		return viewmodel.CaseStudy{}, fmt.Errorf("case study %q: %w", key.slug, page.ErrNotFound)
	}
	return viewmodel.NewCaseStudy(col.Items[0]), nil
}

// caseStudyView renders every section, assigns heading anchors and builds the
// section menu. Without a browser the tracker runs degraded, so no link is current.
func (h *Handlers) caseStudyView(r *http.Request, cs viewmodel.CaseStudy) (*CaseStudyView, error) {
	ctx := r.Context()
	preview := middleware.IsPreview(ctx)

	var b strings.Builder
	for _, s := range cs.Sections {
		opts := richtext.Options{}
		if preview {
			opts = richtext.Options{EntryID: cs.ID, Field: s.Field}
		}
		body, err := h.renderer.HTML(ctx, s.Document, opts)
		if err != nil {
			return nil, err
		}
		class := "project-section"
		if s.Secondary {
			class += " bg-secondary"
		}
		fmt.Fprintf(&b, `<section class="%s"><div class="container"><h2>%s</h2>%s</div></section>`,
			class, template.HTMLEscapeString(s.Title), body)
	}

	annotated, headings, err := sectionnav.AnnotateHeadings(b.String())
	if err != nil {
		return nil, err
	}

	// The active section is chosen in the browser; the server renders none as current.
	return &CaseStudyView{
		CaseStudy:    cs,
		Body:         template.HTML(annotated),
		SectionNav:   sectionnav.LinksFor(headings, ""),
		HeaderOffset: h.headerOffset,
		BackHref:     backHref,
		BackLabel:    backLabel,
	}, nil
}

func breadcrumbItems(base, title, path string) []seo.BreadcrumbItem {
	base = strings.TrimRight(base, "/")
	return []seo.BreadcrumbItem{
		{Name: "Home", Item: base + "/"},
		{Name: title, Item: base + path},
	}
}
