package gdrive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chorus-search/chorus/internal/core/domain"
)

func driveInstance(config map[string]string) domain.Instance {
	return domain.Instance{Name: "work-drive", Kind: Kind, Config: config}
}

func TestNew(t *testing.T) {
	t.Run("requires a credentials path", func(t *testing.T) {
		_, err := New(driveInstance(map[string]string{}))
		assert.ErrorIs(t, err, domain.ErrConfig)
	})

	t.Run("reports kind and instance name", func(t *testing.T) {
		conn, err := New(driveInstance(map[string]string{"credentials": "/etc/chorus/creds.json"}))
		require.NoError(t, err)
		assert.Equal(t, Kind, conn.Kind())
		assert.Equal(t, "work-drive", conn.Name())
	})

	t.Run("folders and trashed files are ignored", func(t *testing.T) {
		conn, err := New(driveInstance(map[string]string{"credentials": "creds.json"}))
		require.NoError(t, err)

		c := conn.(*Connector)
		assert.True(t, c.ignore("Projects", map[string]string{"mimetype": MimeTypeFolder}))
		assert.True(t, c.ignore("old.pdf", map[string]string{"mimetype": "application/pdf", "trashed": "true"}))
		assert.False(t, c.ignore("report.pdf", map[string]string{"mimetype": "application/pdf", "trashed": "false"}))
	})
}

func TestNewDoc(t *testing.T) {
	t.Run("restricts to document formats", func(t *testing.T) {
		conn, err := NewDoc(driveInstance(map[string]string{"credentials": "creds.json"}))
		require.NoError(t, err)

		c := conn.(*Connector)
		assert.Equal(t, DocKind, c.Kind())
		assert.False(t, c.ignore("Spec", map[string]string{"mimetype": MimeTypeGoogleDoc}))
		assert.False(t, c.ignore("Spec.docx", map[string]string{"mimetype": MimeTypeDocx}))
		assert.False(t, c.ignore("legacy.DOCX", map[string]string{"mimetype": "application/octet-stream"}))
		assert.True(t, c.ignore("data.csv", map[string]string{"mimetype": "text/csv"}))
	})

	t.Run("parent exclusions still apply", func(t *testing.T) {
		conn, err := NewDoc(driveInstance(map[string]string{"credentials": "creds.json"}))
		require.NoError(t, err)

		c := conn.(*Connector)
		assert.True(t, c.ignore("Trashed doc", map[string]string{"mimetype": MimeTypeGoogleDoc, "trashed": "true"}))
	})
}

func TestDocSchema(t *testing.T) {
	t.Run("extends the file schema with content", func(t *testing.T) {
		fileSchema := Schema()
		docSchema := DocSchema()

		for name := range fileSchema {
			assert.Contains(t, docSchema, name)
		}
		assert.Contains(t, docSchema, "content")
		assert.NotContains(t, fileSchema, "content")
	})

	t.Run("does not shadow common fields", func(t *testing.T) {
		for name := range DocSchema() {
			assert.False(t, domain.IsCommonField(name), name)
		}
	})
}
