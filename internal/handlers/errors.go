package handlers

import (
	"net/http"

	"casefolio.dev/portfolio-web/internal/seo"
)

const (
	notFoundTitle = "Error 404 - Page Not Found"
	errorTitle    = "Something went wrong"
)

// NotFound renders the 404 page for unmatched routes.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	meta := seo.Page(notFoundTitle, "", h.site.BaseURL, r.URL.Path, "", "website", h.site.Name).NoIndex()
	data := PageData{
		Layout: h.layout(r, notFoundTitle, meta, ""),
		Phase:  "not_found",
	}
	h.render(w, r, http.StatusNotFound, pageNotFound, data)
}

// ServerError renders the generic error page. It backs panic recovery, so it
// must not depend on anything a failed handler may have left behind.
func (h *Handlers) ServerError(w http.ResponseWriter, r *http.Request) {
	title := errorTitle + " – " + h.site.Name
	meta := seo.Page(title, "", h.site.BaseURL, r.URL.Path, "", "website", h.site.Name).NoIndex()
	data := PageData{
		Layout:  h.layout(r, title, meta, ""),
		Phase:   "error",
		Message: "An unexpected error occurred. Please try again.",
	}
	h.render(w, r, http.StatusInternalServerError, pageError, data)
}
