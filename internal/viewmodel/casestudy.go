package viewmodel

import (
	"casefolio.dev/portfolio-web/internal/content"
)

// Section is one optional rich-text block of a case study.
type Section struct {
	Field     string
	Title     string
	Document  *content.Document
	Secondary bool
}

// sectionFields lists the optional sections in page order with their default headings.
var sectionFields = []struct {
	field, titleField, fallback string
	secondary                   bool
}{
	{"overview", "overviewTitle", "Overview", false},
	{"context", "contextTitle", "Context", true},
	{"designProcess", "processTitle", "Process", false},
	{"results", "resultsTitle", "Results", true},
	{"takeaways", "takeawaysTitle", "Takeaways", false},
}

// CaseStudy is the detail page view model.
type CaseStudy struct {
	ID           string
	Title        string
	Subtitle     string
	Slug         string
	HasNDA       bool
	Organization string
	Role         []string
	Team         []string
	Skills       []string
	Image        Image
	HasImage     bool
	Sections     []Section
}

// NewCaseStudy normalizes a case study record. Sections whose document is absent are omitted.
func NewCaseStudy(rec *content.Record) CaseStudy {
	cs := CaseStudy{
		Title:        rec.Text("title"),
		Subtitle:     rec.Text("subtitle"),
		HasNDA:       rec.Flag("hasNda"),
		Organization: rec.Text("organization"),
		Role:         Strings(rec.Field("role")),
		Team:         Strings(rec.Field("team")),
		Skills:       Strings(rec.Field("skills")),
	}
	if rec != nil {
		cs.ID = rec.ID
	}
	cs.Slug = DeriveSlug(rec.Text("slug"), cs.Title, cs.ID)
	if cs.Title == "" {
		cs.Title = untitledProject
	}
	cs.Image, cs.HasImage = ImageFrom(rec.Field("featuredImage"))
	for _, sf := range sectionFields {
		doc := rec.Document(sf.field)
		if doc == nil {
			continue
		}
		title := rec.Text(sf.titleField)
		if title == "" {
			title = sf.fallback
		}
		cs.Sections = append(cs.Sections, Section{
			Field:     sf.field,
			Title:     title,
			Document:  doc,
			Secondary: sf.secondary,
		})
	}
	return cs
}

// Disclaimer is the confidentiality notice shown for NDA-bound case studies, or "".
func (cs CaseStudy) Disclaimer() string {
	if !cs.HasNDA {
		return ""
	}
	org := cs.Organization
	if org == "" {
		org = "the client"
	}
	return "To comply with my Non-Disclosure Agreement (NDA) with " + org +
		", I have omitted certain details in this case study."
}
