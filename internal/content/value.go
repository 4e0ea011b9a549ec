package content

// Value is the closed set of field value shapes a record may carry.
type Value interface {
	isValue()
}

// Null marks a missing or explicitly null field.
type Null struct{}

// String is a scalar text value.
type String string

// Bool is a scalar boolean value.
type Bool bool

// Number is a scalar numeric value.
type Number float64

// List is an array field. Elements keep their own variants.
type List []Value

// Object is a JSON object that is neither a link, an entry, an asset nor a rich-text document
// (for example a location or a free-form JSON field).
type Object map[string]Value

// Ref is a link to another entry that was resolved from the response includes.
type Ref struct {
	Record *Record
}

// AssetRef is a link to an asset that was resolved from the response includes.
type AssetRef struct {
	Asset *Asset
}

// UnresolvedLink is a link whose target was not part of the response
// (unpublished, deleted, or beyond the include depth).
type UnresolvedLink struct {
	LinkType string
	ID       string
}

// RichText wraps a structured rich-text document.
type RichText struct {
	Document *Document
}

func (Null) isValue()           {}
func (String) isValue()         {}
func (Bool) isValue()           {}
func (Number) isValue()         {}
func (List) isValue()           {}
func (Object) isValue()         {}
func (Ref) isValue()            {}
func (AssetRef) isValue()       {}
func (UnresolvedLink) isValue() {}
func (RichText) isValue()       {}
