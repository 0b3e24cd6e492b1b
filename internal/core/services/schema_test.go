package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chorus-search/chorus/internal/core/domain"
)

func TestSchemaUnifier_BuildSchema(t *testing.T) {
	t.Run("merges common and kind sub-schemas", func(t *testing.T) {
		r := NewRegistry()
		r.Register(Registration{Kind: "github_issue", Schema: domain.Schema{
			"issue_title": {Type: domain.FieldText, Stored: true, Indexed: true},
			"content":     {Type: domain.FieldText, Stored: true, Indexed: true},
		}, Build: noopBuilder})
		r.Register(Registration{Kind: "filesystem", Schema: domain.Schema{
			"file_path": {Type: domain.FieldIdentifier, Stored: true},
		}, Build: noopBuilder})

		unifier := NewSchemaUnifier(r, []string{"github_issue", "filesystem"})
		schema, err := unifier.BuildSchema()
		require.NoError(t, err)

		assert.Contains(t, schema, domain.FieldID)
		assert.Contains(t, schema, domain.FieldModifiedTime)
		assert.Contains(t, schema, "issue_title")
		assert.Contains(t, schema, "file_path")
	})

	t.Run("same field with identical type appears once", func(t *testing.T) {
		content := domain.FieldSpec{Type: domain.FieldText, Stored: true, Indexed: true}
		r := NewRegistry()
		r.Register(Registration{Kind: "markdown", Schema: domain.Schema{"content": content}, Build: noopBuilder})
		r.Register(Registration{Kind: "gdrive_doc", Schema: domain.Schema{"content": content}, Build: noopBuilder})

		unifier := NewSchemaUnifier(r, []string{"markdown", "gdrive_doc"})
		schema, err := unifier.BuildSchema()
		require.NoError(t, err)
		assert.Equal(t, content, schema["content"])
	})

	t.Run("conflicting declarations fail before any indexing", func(t *testing.T) {
		r := NewRegistry()
		r.Register(Registration{Kind: "markdown", Schema: domain.Schema{
			"content": {Type: domain.FieldText},
		}, Build: noopBuilder})
		r.Register(Registration{Kind: "gdrive_doc", Schema: domain.Schema{
			"content": {Type: domain.FieldIdentifier},
		}, Build: noopBuilder})

		unifier := NewSchemaUnifier(r, []string{"markdown", "gdrive_doc"})
		_, err := unifier.BuildSchema()
		require.Error(t, err)
		assert.True(t, domain.IsSchemaConflict(err))
		assert.Contains(t, err.Error(), "content")
		assert.Contains(t, err.Error(), "markdown")
		assert.Contains(t, err.Error(), "gdrive_doc")
	})

	t.Run("kind colliding with a common field reports the common schema", func(t *testing.T) {
		r := NewRegistry()
		r.Register(Registration{Kind: "bad", Schema: domain.Schema{
			domain.FieldName: {Type: domain.FieldIdentifier},
		}, Build: noopBuilder})

		unifier := NewSchemaUnifier(r, []string{"bad"})
		_, err := unifier.BuildSchema()
		require.Error(t, err)
		assert.True(t, domain.IsSchemaConflict(err))
		assert.Contains(t, err.Error(), "common schema")
	})

	t.Run("unknown active kind fails the build", func(t *testing.T) {
		unifier := NewSchemaUnifier(NewRegistry(), []string{"ghost"})
		_, err := unifier.BuildSchema()
		assert.True(t, domain.IsUnknownDoctype(err))
	})

	t.Run("result is cached and cloned", func(t *testing.T) {
		r := NewRegistry()
		r.Register(Registration{Kind: "filesystem", Schema: domain.Schema{
			"file_path": {Type: domain.FieldIdentifier, Stored: true},
		}, Build: noopBuilder})

		unifier := NewSchemaUnifier(r, []string{"filesystem"})
		first, err := unifier.BuildSchema()
		require.NoError(t, err)

		// Mutating the returned copy must not leak into the cache.
		first["file_path"] = domain.FieldSpec{Type: domain.FieldText}

		second, err := unifier.BuildSchema()
		require.NoError(t, err)
		assert.Equal(t, domain.FieldIdentifier, second["file_path"].Type)
	})
}
