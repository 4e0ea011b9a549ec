package viewmodel

import (
	"strings"

	"github.com/oklog/ulid/v2"

	"casefolio.dev/portfolio-web/internal/content"
)

const (
	untitledProject  = "Untitled project"
	thumbnailAltText = "Project thumbnail"
)

// Filter selects which partition of the listing is visible.
type Filter string

const (
	FilterFeatured Filter = "featured"
	FilterOther    Filter = "other"
)

// ParseFilter reads a filter from a query value, defaulting to featured.
func ParseFilter(raw string) Filter {
	if Filter(strings.ToLower(strings.TrimSpace(raw))) == FilterOther {
		return FilterOther
	}
	return FilterFeatured
}

// Toggle returns the other filter.
func (f Filter) Toggle() Filter {
	if f == FilterOther {
		return FilterFeatured
	}
	return FilterOther
}

// Summary is one case study card on the listing page.
type Summary struct {
	Key      string
	Title    string
	Subtitle string
	Slug     string
	Image    Image
	HasImage bool
	Skills   []string
	Featured bool
}

// Href is the detail route of the case study.
func (s Summary) Href() string {
	return "/case-studies/" + s.Slug
}

// ImageAlt is the thumbnail alternative text.
func (s Summary) ImageAlt() string {
	if s.Image.Title != "" {
		return s.Image.Title
	}
	return thumbnailAltText
}

// NewSummary normalizes a case study record for the listing.
func NewSummary(rec *content.Record) Summary {
	id := ""
	if rec != nil {
		id = rec.ID
	}
	key := id
	if key == "" {
		key = "case-" + strings.ToLower(ulid.Make().String())
	}
	rawTitle := rec.Text("title")
	title := rawTitle
	if title == "" {
		title = untitledProject
	}
	img, ok := ImageFrom(rec.Field("featuredImage"))
	return Summary{
		Key:      key,
		Title:    title,
		Subtitle: rec.Text("subtitle"),
		Slug:     DeriveSlug(rec.Text("slug"), rawTitle, id),
		Image:    img,
		HasImage: ok,
		Skills:   Strings(rec.Field("skills")),
		Featured: rec.Flag("isFeatured"),
	}
}

// Partition splits records by their featured flag. Every record lands in exactly one group.
func Partition(records []*content.Record) (featured, other []Summary) {
	featured = []Summary{}
	other = []Summary{}
	for _, rec := range records {
		s := NewSummary(rec)
		if s.Featured {
			featured = append(featured, s)
		} else {
			other = append(other, s)
		}
	}
	return featured, other
}

// Listing is the case study listing view model. Changing the filter never refetches:
// both partitions are computed once from the same query result.
type Listing struct {
	Featured []Summary
	Other    []Summary
	Filter   Filter
}

// NewListing builds the listing from one query result.
func NewListing(records []*content.Record, filter Filter) Listing {
	featured, other := Partition(records)
	return Listing{Featured: featured, Other: other, Filter: ParseFilter(string(filter))}
}

// Total is the number of records across both partitions.
func (l Listing) Total() int { return len(l.Featured) + len(l.Other) }

// Empty reports whether the query returned no case studies at all.
func (l Listing) Empty() bool { return l.Total() == 0 }

// Visible returns the partition selected by the filter.
func (l Listing) Visible() []Summary {
	if l.Filter == FilterOther {
		return l.Other
	}
	return l.Featured
}

// WithFilter returns a copy showing the given partition.
func (l Listing) WithFilter(f Filter) Listing {
	l.Filter = ParseFilter(string(f))
	return l
}

// Toggle returns a copy showing the other partition.
func (l Listing) Toggle() Listing {
	return l.WithFilter(l.Filter.Toggle())
}
