package viewmodel

import (
	"strings"

	"casefolio.dev/portfolio-web/internal/content"
)

// Strings coerces a list field to display strings. Non-list values yield an empty slice.
// Plain strings are kept; references flatten to their name, then title, then identity,
// then the empty string.
func Strings(v content.Value) []string {
	list, ok := v.(content.List)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		out = append(out, displayString(item))
	}
	return out
}

func displayString(v content.Value) string {
	switch val := v.(type) {
	case content.String:
		return string(val)
	case content.Ref:
		if val.Record == nil {
			return ""
		}
		if name := val.Record.Text("name"); name != "" {
			return name
		}
		if title := val.Record.Text("title"); title != "" {
			return title
		}
		return val.Record.ID
	case content.UnresolvedLink:
		return val.ID
	}
	return ""
}

// Records returns the resolved entries of a reference list, skipping anything else.
func Records(v content.Value) []*content.Record {
	list, ok := v.(content.List)
	if !ok {
		return nil
	}
	out := make([]*content.Record, 0, len(list))
	for _, item := range list {
		if ref, ok := item.(content.Ref); ok && ref.Record != nil {
			out = append(out, ref.Record)
		}
	}
	return out
}

// Values returns the elements of a list field, or nil for any other shape.
func Values(v content.Value) []content.Value {
	if list, ok := v.(content.List); ok {
		return list
	}
	return nil
}

func nonEmpty(values []string) []string {
	out := values[:0:0]
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
