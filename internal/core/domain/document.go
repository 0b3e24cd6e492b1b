package domain

import (
	"fmt"
	"time"
)

// Document represents one indexed document. The named struct fields are
// the common sub-schema every kind shares; Fields carries the
// kind-specific values declared by the producing connector.
type Document struct {
	// ID is globally unique within the index and source-defined,
	// e.g. a canonical URL or a remote object ID.
	ID string

	// Fingerprint is an optional opaque content hash for change
	// detection independent of timestamps.
	Fingerprint string

	// Kind identifies which connector type produced this document.
	Kind string

	// Name is the display title.
	Name string

	// CreatedTime and ModifiedTime come from the remote source.
	CreatedTime  time.Time
	ModifiedTime time.Time

	// IndexedTime is assigned by the engine at write time, never by
	// a connector.
	IndexedTime time.Time

	// Fields holds the kind-specific values. Keys must match the
	// kind's declared sub-schema.
	Fields map[string]any
}

// Validate checks the document against the unified schema: the common
// fields must be populated and every kind-specific field must be
// declared with a compatible type. Returns ErrInvalidDocument wrapped
// with detail on the first violation.
func (d *Document) Validate(schema Schema) error {
	if d.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidDocument)
	}
	if d.Kind == "" {
		return fmt.Errorf("%w: %s: missing kind", ErrInvalidDocument, d.ID)
	}
	if d.ModifiedTime.IsZero() {
		return fmt.Errorf("%w: %s: missing modified_time", ErrInvalidDocument, d.ID)
	}
	for name, value := range d.Fields {
		if IsCommonField(name) {
			return fmt.Errorf("%w: %s: field %q shadows a common field", ErrInvalidDocument, d.ID, name)
		}
		spec, ok := schema[name]
		if !ok {
			return fmt.Errorf("%w: %s: field %q not declared in schema", ErrInvalidDocument, d.ID, name)
		}
		if err := checkFieldValue(spec, value); err != nil {
			return fmt.Errorf("%w: %s: field %q: %v", ErrInvalidDocument, d.ID, name, err)
		}
	}
	return nil
}

// checkFieldValue verifies a kind-specific value matches its declared type.
func checkFieldValue(spec FieldSpec, value any) error {
	if value == nil {
		return nil
	}
	switch spec.Type {
	case FieldText, FieldIdentifier:
		if _, ok := value.(string); !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
	case FieldDate:
		if _, ok := value.(time.Time); !ok {
			return fmt.Errorf("expected time.Time, got %T", value)
		}
	default:
		return fmt.Errorf("unknown field type %q", spec.Type)
	}
	return nil
}

// Equal reports field-for-field equality, ignoring IndexedTime (which
// the engine stamps on every write).
func (d *Document) Equal(other *Document) bool {
	if d == nil || other == nil {
		return d == other
	}
	if d.ID != other.ID || d.Fingerprint != other.Fingerprint || d.Kind != other.Kind || d.Name != other.Name {
		return false
	}
	if !d.CreatedTime.Equal(other.CreatedTime) || !d.ModifiedTime.Equal(other.ModifiedTime) {
		return false
	}
	if len(d.Fields) != len(other.Fields) {
		return false
	}
	for name, value := range d.Fields {
		ov, ok := other.Fields[name]
		if !ok {
			return false
		}
		if tv, isTime := value.(time.Time); isTime {
			otv, otherIsTime := ov.(time.Time)
			if !otherIsTime || !tv.Equal(otv) {
				return false
			}
			continue
		}
		if value != ov {
			return false
		}
	}
	return true
}

// TruncateTimestamp normalises a timestamp for diff comparison.
// The index guarantees minute-or-better precision; sub-second noise
// from remote APIs must not defeat the strictly-newer gate.
func TruncateTimestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}
