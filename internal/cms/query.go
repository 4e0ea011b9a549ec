package cms

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Query describes one entries request.
type Query struct {
	ContentType string
	// FieldEquals filters on exact field values, keyed by field name without the "fields." prefix.
	FieldEquals map[string]string
	// Include is the link resolution depth (0-10).
	Include int
	Order   []string
	Limit   int
}

const maxInclude = 10

func (q Query) values() url.Values {
	v := url.Values{}
	if ct := strings.TrimSpace(q.ContentType); ct != "" {
		v.Set("content_type", ct)
	}
	names := make([]string, 0, len(q.FieldEquals))
	for name := range q.FieldEquals {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		v.Set("fields."+name, q.FieldEquals[name])
	}
	if q.Include > 0 {
		include := q.Include
		if include > maxInclude {
			include = maxInclude
		}
		v.Set("include", strconv.Itoa(include))
	}
	if len(q.Order) > 0 {
		v.Set("order", strings.Join(q.Order, ","))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}
