package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chorus-search/chorus/internal/core/domain"
	"github.com/chorus-search/chorus/internal/core/ports/driven"
)

func noopBuilder(domain.Instance) (driven.Connector, error) {
	return nil, nil
}

func TestRegistry_Register(t *testing.T) {
	t.Run("returns the registered label", func(t *testing.T) {
		r := NewRegistry()
		label := r.Register(Registration{Kind: "github_issue", Build: noopBuilder})

		assert.Equal(t, "github_issue", label)
		assert.Equal(t, []string{"github_issue"}, r.Kinds())
	})

	t.Run("empty kind gets a generated fallback label", func(t *testing.T) {
		r := NewRegistry()
		label := r.Register(Registration{Build: noopBuilder})

		require.NotEmpty(t, label)
		assert.True(t, strings.HasPrefix(label, "connector-"))

		_, err := r.Lookup(label)
		assert.NoError(t, err)
	})

	t.Run("fallback labels are unique", func(t *testing.T) {
		r := NewRegistry()
		a := r.Register(Registration{Build: noopBuilder})
		b := r.Register(Registration{Build: noopBuilder})

		assert.NotEqual(t, a, b)
		assert.Len(t, r.Kinds(), 2)
	})

	t.Run("re-registration replaces the previous entry", func(t *testing.T) {
		r := NewRegistry()
		r.Register(Registration{Kind: "filesystem", Schema: domain.Schema{
			"file_path": {Type: domain.FieldIdentifier},
		}, Build: noopBuilder})
		r.Register(Registration{Kind: "filesystem", Schema: domain.Schema{
			"file_path": {Type: domain.FieldText},
		}, Build: noopBuilder})

		reg, err := r.Lookup("filesystem")
		require.NoError(t, err)
		assert.Equal(t, domain.FieldText, reg.Schema["file_path"].Type)
		assert.Len(t, r.Kinds(), 1)
	})
}

func TestRegistry_Lookup(t *testing.T) {
	t.Run("unknown kind reports the known labels", func(t *testing.T) {
		r := NewRegistry()
		r.Register(Registration{Kind: "markdown", Build: noopBuilder})
		r.Register(Registration{Kind: "github_issue", Build: noopBuilder})

		_, err := r.Lookup("gitlab")
		require.Error(t, err)
		assert.True(t, domain.IsUnknownDoctype(err))
		assert.Contains(t, err.Error(), "gitlab")
		assert.Contains(t, err.Error(), "github_issue")
		assert.Contains(t, err.Error(), "markdown")
	})
}

func TestNewBuiltinRegistry(t *testing.T) {
	t.Run("registers every shipped kind", func(t *testing.T) {
		r := NewBuiltinRegistry()
		assert.Equal(t, []string{
			"filesystem", "gdrive_doc", "gdrive_file", "github_issue", "markdown",
		}, r.Kinds())
	})
}
