// Package content models records fetched from the headless CMS.
//
// Records arrive as loosely-typed JSON. Decode validates them into a closed set of
// value variants at the fetch boundary so the rest of the application reads
// optional fields through explicit accessors instead of probing maps.
package content

import "strings"

// Record is an identity-bearing CMS entry with decoded fields.
type Record struct {
	ID          string
	ContentType string
	Fields      map[string]Value
}

// Asset is a media file referenced by records or rich-text documents.
type Asset struct {
	ID          string
	Title       string
	Description string
	File        File
}

// File describes the binary behind an asset. URL is empty while the CMS is still processing it.
type File struct {
	URL         string
	FileName    string
	ContentType string
}

// Collection is the decoded result of an entries query.
type Collection struct {
	Total int
	Items []*Record
}

// Field returns the named field or Null when the record or field is absent.
func (r *Record) Field(name string) Value {
	if r == nil || r.Fields == nil {
		return Null{}
	}
	v, ok := r.Fields[name]
	if !ok || v == nil {
		return Null{}
	}
	return v
}

// Text returns the trimmed string value of a field, or "" when it is missing or not a string.
func (r *Record) Text(name string) string {
	if s, ok := r.Field(name).(String); ok {
		return strings.TrimSpace(string(s))
	}
	return ""
}

// Flag returns the boolean value of a field. Missing or non-boolean values are false.
func (r *Record) Flag(name string) bool {
	b, ok := r.Field(name).(Bool)
	return ok && bool(b)
}

// Document returns the rich-text document stored in a field, or nil.
func (r *Record) Document(name string) *Document {
	if rt, ok := r.Field(name).(RichText); ok {
		return rt.Document
	}
	return nil
}

// Has reports whether the field is present and not null.
func (r *Record) Has(name string) bool {
	_, null := r.Field(name).(Null)
	return !null
}
