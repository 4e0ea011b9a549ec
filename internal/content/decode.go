package content

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// ErrMalformed is returned when a response body is not a valid entries collection.
var ErrMalformed = errors.New("content: malformed collection")

type rawSys struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	LinkType    string `json:"linkType"`
	ContentType *struct {
		Sys rawSys `json:"sys"`
	} `json:"contentType"`
}

type rawItem struct {
	Sys    rawSys                     `json:"sys"`
	Fields map[string]json.RawMessage `json:"fields"`
}

type rawCollection struct {
	Sys      rawSys    `json:"sys"`
	Total    int       `json:"total"`
	Items    []rawItem `json:"items"`
	Includes struct {
		Entry []rawItem `json:"Entry"`
		Asset []rawItem `json:"Asset"`
	} `json:"includes"`
}

type rawFile struct {
	URL         string `json:"url"`
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
}

type rawNode struct {
	NodeType string `json:"nodeType"`
	Value    string `json:"value"`
	Marks    []struct {
		Type string `json:"type"`
	} `json:"marks"`
	Data struct {
		URI    string          `json:"uri"`
		Target json.RawMessage `json:"target"`
	} `json:"data"`
	Content []rawNode `json:"content"`
}

type probe struct {
	Sys      *rawSys `json:"sys"`
	NodeType string  `json:"nodeType"`
}

// Decode parses an entries collection and resolves every link against the
// included entries and assets. Links whose targets are absent decode to UnresolvedLink.
func Decode(body []byte) (Collection, error) {
	var raw rawCollection
	if err := json.Unmarshal(body, &raw); err != nil {
		return Collection{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if raw.Sys.Type != "" && raw.Sys.Type != "Array" {
		return Collection{}, fmt.Errorf("%w: unexpected sys.type %q", ErrMalformed, raw.Sys.Type)
	}

	d := newDecoder()
	for _, it := range raw.Items {
		d.index(it)
	}
	for _, it := range raw.Includes.Entry {
		d.index(it)
	}
	for _, it := range raw.Includes.Asset {
		d.index(it)
	}

	out := Collection{Total: raw.Total, Items: make([]*Record, 0, len(raw.Items))}
	for _, it := range raw.Items {
		if it.Sys.Type == "Asset" {
			continue
		}
		out.Items = append(out.Items, d.record(it))
	}
	if out.Total < len(out.Items) {
		out.Total = len(out.Items)
	}
	return out, nil
}

type decoder struct {
	entries map[string]rawItem
	assets  map[string]rawItem
	records map[string]*Record
	files   map[string]*Asset
}

func newDecoder() *decoder {
	return &decoder{
		entries: map[string]rawItem{},
		assets:  map[string]rawItem{},
		records: map[string]*Record{},
		files:   map[string]*Asset{},
	}
}

func (d *decoder) index(it rawItem) {
	if it.Sys.ID == "" {
		return
	}
	if it.Sys.Type == "Asset" {
		d.assets[it.Sys.ID] = it
		return
	}
	d.entries[it.Sys.ID] = it
}

// record decodes an entry once; the memo entry is stored before the fields are
// walked so reference cycles terminate on the shared pointer.
func (d *decoder) record(it rawItem) *Record {
	if it.Sys.ID != "" {
		if rec, ok := d.records[it.Sys.ID]; ok {
			return rec
		}
	}
	rec := &Record{ID: it.Sys.ID, Fields: make(map[string]Value, len(it.Fields))}
	if it.Sys.ContentType != nil {
		rec.ContentType = it.Sys.ContentType.Sys.ID
	}
	if it.Sys.ID != "" {
		d.records[it.Sys.ID] = rec
	}
	for name, raw := range it.Fields {
		rec.Fields[name] = d.value(raw)
	}
	return rec
}

func (d *decoder) asset(it rawItem) *Asset {
	if a, ok := d.files[it.Sys.ID]; ok {
		return a
	}
	a := &Asset{ID: it.Sys.ID}
	if it.Sys.ID != "" {
		d.files[it.Sys.ID] = a
	}
	if raw, ok := it.Fields["title"]; ok {
		_ = json.Unmarshal(raw, &a.Title)
	}
	if raw, ok := it.Fields["description"]; ok {
		_ = json.Unmarshal(raw, &a.Description)
	}
	if raw, ok := it.Fields["file"]; ok {
		var f rawFile
		if err := json.Unmarshal(raw, &f); err == nil {
			a.File = File{URL: strings.TrimSpace(f.URL), FileName: f.FileName, ContentType: f.ContentType}
		}
	}
	return a
}

func (d *decoder) value(raw json.RawMessage) Value {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return Null{}
	}
	switch trimmed[0] {
	case 'n':
		return Null{}
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return Null{}
		}
		return String(s)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(trimmed, &b); err != nil {
			return Null{}
		}
		return Bool(b)
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return Null{}
		}
		out := make(List, 0, len(items))
		for _, it := range items {
			out = append(out, d.value(it))
		}
		return out
	case '{':
		return d.object(trimmed)
	default:
		n, err := strconv.ParseFloat(string(trimmed), 64)
		if err != nil {
			return Null{}
		}
		return Number(n)
	}
}

func (d *decoder) object(raw []byte) Value {
	var p probe
	if err := json.Unmarshal(raw, &p); err != nil {
		return Null{}
	}
	if p.NodeType == string(KindDocument) {
		var n rawNode
		if err := json.Unmarshal(raw, &n); err != nil {
			return Null{}
		}
		return RichText{Document: &Document{Content: d.nodes(n.Content)}}
	}
	if p.Sys != nil {
		switch p.Sys.Type {
		case "Link":
			return d.link(*p.Sys)
		case "Entry":
			var it rawItem
			if err := json.Unmarshal(raw, &it); err == nil {
				return Ref{Record: d.record(it)}
			}
		case "Asset":
			var it rawItem
			if err := json.Unmarshal(raw, &it); err == nil {
				return AssetRef{Asset: d.asset(it)}
			}
		}
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Null{}
	}
	obj := make(Object, len(fields))
	for k, v := range fields {
		obj[k] = d.value(v)
	}
	return obj
}

func (d *decoder) link(sys rawSys) Value {
	switch sys.LinkType {
	case "Asset":
		if it, ok := d.assets[sys.ID]; ok {
			return AssetRef{Asset: d.asset(it)}
		}
	case "Entry":
		if it, ok := d.entries[sys.ID]; ok {
			return Ref{Record: d.record(it)}
		}
	}
	return UnresolvedLink{LinkType: sys.LinkType, ID: sys.ID}
}

func (d *decoder) nodes(raw []rawNode) []Node {
	if len(raw) == 0 {
		return nil
	}
	out := make([]Node, 0, len(raw))
	for _, n := range raw {
		out = append(out, d.node(n))
	}
	return out
}

func (d *decoder) target(raw json.RawMessage) Value {
	if len(bytes.TrimSpace(raw)) == 0 {
		return Null{}
	}
	return d.value(raw)
}

func (d *decoder) node(n rawNode) Node {
	children := d.nodes(n.Content)
	switch Kind(n.NodeType) {
	case KindParagraph:
		return Paragraph{Content: children}
	case KindHeading1, KindHeading2, KindHeading3, KindHeading4, KindHeading5, KindHeading6:
		level, _ := strconv.Atoi(strings.TrimPrefix(n.NodeType, "heading-"))
		return Heading{Level: level, Content: children}
	case KindUnorderedList:
		return ListNode{Content: children}
	case KindOrderedList:
		return ListNode{Ordered: true, Content: children}
	case KindListItem:
		return ListItem{Content: children}
	case KindQuote:
		return Quote{Content: children}
	case KindHR:
		return HR{}
	case KindTable:
		return Table{Content: children}
	case KindTableRow:
		return TableRow{Content: children}
	case KindTableHeaderCell:
		return TableCell{Header: true, Content: children}
	case KindTableCell:
		return TableCell{Content: children}
	case KindHyperlink:
		return Hyperlink{URI: strings.TrimSpace(n.Data.URI), Content: children}
	case KindEntryHyperlink:
		return EntryHyperlink{Target: d.target(n.Data.Target), Content: children}
	case KindAssetHyperlink:
		return AssetHyperlink{Target: d.target(n.Data.Target), Content: children}
	case KindEmbeddedAsset:
		return EmbeddedAsset{Target: d.target(n.Data.Target)}
	case KindEmbeddedEntryBlock:
		return EmbeddedEntry{Target: d.target(n.Data.Target)}
	case KindEmbeddedEntryInline:
		return EmbeddedEntry{Inline: true, Target: d.target(n.Data.Target)}
	case KindText:
		t := Text{Value: n.Value}
		for _, m := range n.Marks {
			t.Marks = append(t.Marks, Mark(m.Type))
		}
		return t
	default:
		return Unsupported{Type: n.NodeType, Content: children}
	}
}
