package bleve

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/chorus-search/chorus/internal/core/domain"
)

// buildIndexMapping translates the unified schema into a bleve index
// mapping. Text fields use the default analyzer, identifier fields the
// keyword analyzer (exact match), date fields the datetime mapping.
// Field boost is a query-time concern in bleve v2 and is not part of
// the mapping.
func buildIndexMapping(schema domain.Schema) *mapping.IndexMappingImpl {
	docMapping := bleve.NewDocumentMapping()

	for _, name := range schema.FieldNames() {
		spec := schema[name]
		var fm *mapping.FieldMapping
		switch spec.Type {
		case domain.FieldIdentifier:
			fm = bleve.NewKeywordFieldMapping()
		case domain.FieldDate:
			fm = bleve.NewDateTimeFieldMapping()
		default:
			fm = bleve.NewTextFieldMapping()
		}
		fm.Store = spec.Stored
		fm.Index = spec.Indexed || spec.Type == domain.FieldIdentifier
		fm.IncludeInAll = spec.Indexed && spec.Type == domain.FieldText
		docMapping.AddFieldMappingsAt(name, fm)
	}

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = docMapping
	return indexMapping
}
