package bleve

import (
	"fmt"
	"time"

	"github.com/chorus-search/chorus/internal/core/domain"
)

// encodeDocument flattens a document into the map bleve indexes.
// Common fields and kind-specific fields share one namespace; the
// document was validated against the unified schema before reaching
// the store, so collisions cannot occur.
func encodeDocument(doc *domain.Document) map[string]any {
	fields := map[string]any{
		domain.FieldID:           doc.ID,
		domain.FieldFingerprint:  doc.Fingerprint,
		domain.FieldKind:         doc.Kind,
		domain.FieldName:         doc.Name,
		domain.FieldCreatedTime:  doc.CreatedTime.UTC(),
		domain.FieldModifiedTime: doc.ModifiedTime.UTC(),
		domain.FieldIndexedTime:  doc.IndexedTime.UTC(),
	}
	for name, value := range doc.Fields {
		if t, ok := value.(time.Time); ok {
			value = t.UTC()
		}
		fields[name] = value
	}
	return fields
}

// decodeDocument rebuilds a document from bleve's stored fields.
// Bleve returns datetime fields as RFC3339 strings; the schema says
// which fields to parse back into time values.
func decodeDocument(id string, stored map[string]any, schema domain.Schema) (*domain.Document, error) {
	doc := &domain.Document{ID: id, Fields: make(map[string]any)}

	for name, raw := range stored {
		spec, declared := schema[name]
		if !declared {
			continue // not part of the schema, e.g. bleve internals
		}

		var value any = raw
		if spec.Type == domain.FieldDate {
			str, ok := raw.(string)
			if !ok {
				return nil, fmt.Errorf("stored field %s for %s: expected datetime string, got %T", name, id, raw)
			}
			t, err := time.Parse(time.RFC3339, str)
			if err != nil {
				return nil, fmt.Errorf("stored field %s for %s: %w", name, id, err)
			}
			value = t
		}

		switch name {
		case domain.FieldID:
			// Already set from the hit id.
		case domain.FieldFingerprint:
			doc.Fingerprint, _ = value.(string)
		case domain.FieldKind:
			doc.Kind, _ = value.(string)
		case domain.FieldName:
			doc.Name, _ = value.(string)
		case domain.FieldCreatedTime:
			doc.CreatedTime = value.(time.Time)
		case domain.FieldModifiedTime:
			doc.ModifiedTime = value.(time.Time)
		case domain.FieldIndexedTime:
			doc.IndexedTime = value.(time.Time)
		default:
			doc.Fields[name] = value
		}
	}
	return doc, nil
}
