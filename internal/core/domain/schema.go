package domain

import (
	"fmt"
	"sort"
)

// FieldType classifies how a schema field is analysed and stored.
type FieldType string

const (
	// FieldText is full-text content, tokenised and searchable.
	FieldText FieldType = "text"

	// FieldIdentifier is an opaque token (URL, hash, label) matched exactly.
	FieldIdentifier FieldType = "identifier"

	// FieldDate is a timestamp with minute-or-better precision.
	FieldDate FieldType = "date"
)

// FieldSpec describes one field of the index schema.
type FieldSpec struct {
	// Type determines analysis and comparison semantics.
	Type FieldType

	// Stored indicates the raw value is retrievable from the index.
	Stored bool

	// Indexed indicates the field participates in search.
	Indexed bool

	// Boost scales the field's relevance weight. Zero means default.
	Boost float64
}

// Equal reports whether two field declarations are interchangeable.
// Two connectors may declare the same field only if their specs are
// identical in every attribute.
func (f FieldSpec) Equal(other FieldSpec) bool {
	return f == other
}

// String renders the spec for error messages.
func (f FieldSpec) String() string {
	return fmt.Sprintf("%s(stored=%t, indexed=%t)", f.Type, f.Stored, f.Indexed)
}

// Schema maps field names to their declarations.
// A unified schema is the common sub-schema plus the union of every
// active connector kind's declared sub-schema.
type Schema map[string]FieldSpec

// Common field names shared by every document regardless of kind.
const (
	FieldID           = "id"
	FieldFingerprint  = "fingerprint"
	FieldKind         = "kind"
	FieldCreatedTime  = "created_time"
	FieldModifiedTime = "modified_time"
	FieldIndexedTime  = "indexed_time"
	FieldName         = "name"
)

// CommonSchema returns the fixed sub-schema present on every document.
// Callers receive a fresh copy and may extend it freely.
func CommonSchema() Schema {
	return Schema{
		FieldID:           {Type: FieldIdentifier, Stored: true, Indexed: true},
		FieldFingerprint:  {Type: FieldIdentifier, Stored: true},
		FieldKind:         {Type: FieldIdentifier, Stored: true, Indexed: true},
		FieldCreatedTime:  {Type: FieldDate, Stored: true},
		FieldModifiedTime: {Type: FieldDate, Stored: true},
		FieldIndexedTime:  {Type: FieldDate, Stored: true},
		FieldName:         {Type: FieldText, Stored: true, Indexed: true, Boost: 100},
	}
}

// IsCommonField reports whether name belongs to the fixed common sub-schema.
func IsCommonField(name string) bool {
	switch name {
	case FieldID, FieldFingerprint, FieldKind, FieldCreatedTime, FieldModifiedTime, FieldIndexedTime, FieldName:
		return true
	}
	return false
}

// Clone returns a deep copy of the schema.
func (s Schema) Clone() Schema {
	out := make(Schema, len(s))
	for name, spec := range s {
		out[name] = spec
	}
	return out
}

// FieldNames returns the schema's field names in sorted order.
// Used for deterministic fingerprinting and display.
func (s Schema) FieldNames() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
