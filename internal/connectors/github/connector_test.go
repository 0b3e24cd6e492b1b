package github

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chorus-search/chorus/internal/core/domain"
)

func githubInstance(config map[string]string) domain.Instance {
	return domain.Instance{Name: "work", Kind: Kind, Config: config}
}

func TestNew(t *testing.T) {
	t.Run("requires a token", func(t *testing.T) {
		_, err := New(githubInstance(map[string]string{"repos": "acme/widgets"}))
		assert.ErrorIs(t, err, domain.ErrConfig)
	})

	t.Run("requires repos or orgs", func(t *testing.T) {
		_, err := New(githubInstance(map[string]string{"token": "ghp_x"}))
		assert.ErrorIs(t, err, domain.ErrConfig)
	})

	t.Run("rejects a malformed repo entry", func(t *testing.T) {
		_, err := New(githubInstance(map[string]string{"token": "ghp_x", "repos": "not-a-repo"}))
		assert.ErrorIs(t, err, domain.ErrConfig)
	})

	t.Run("parses comma-separated repos and orgs", func(t *testing.T) {
		conn, err := New(githubInstance(map[string]string{
			"token": "ghp_x",
			"repos": "acme/widgets, acme/gadgets",
			"orgs":  "acme-labs",
		}))
		require.NoError(t, err)

		c := conn.(*Connector)
		assert.Equal(t, []repoRef{
			{owner: "acme", name: "widgets"},
			{owner: "acme", name: "gadgets"},
		}, c.repos)
		assert.Equal(t, []string{"acme-labs"}, c.orgs)
		assert.Equal(t, Kind, c.Kind())
		assert.Equal(t, "work", c.Name())
	})
}

func TestParseIssueURL(t *testing.T) {
	t.Run("parses issue URLs", func(t *testing.T) {
		ref, number, err := parseIssueURL("https://github.com/acme/widgets/issues/42")
		require.NoError(t, err)
		assert.Equal(t, repoRef{owner: "acme", name: "widgets"}, ref)
		assert.Equal(t, 42, number)
	})

	t.Run("parses pull request URLs", func(t *testing.T) {
		ref, number, err := parseIssueURL("https://github.com/acme/widgets/pull/7")
		require.NoError(t, err)
		assert.Equal(t, "acme/widgets", ref.String())
		assert.Equal(t, 7, number)
	})

	t.Run("rejects non-github URLs", func(t *testing.T) {
		_, _, err := parseIssueURL("https://gitlab.com/acme/widgets/issues/1")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("rejects other github paths", func(t *testing.T) {
		_, _, err := parseIssueURL("https://github.com/acme/widgets/releases/1")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("rejects a non-numeric issue number", func(t *testing.T) {
		_, _, err := parseIssueURL("https://github.com/acme/widgets/issues/latest")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestSchema(t *testing.T) {
	t.Run("declares only string fields", func(t *testing.T) {
		for name, spec := range Schema() {
			assert.Contains(t, []domain.FieldType{domain.FieldText, domain.FieldIdentifier}, spec.Type, name)
		}
	})

	t.Run("does not shadow common fields", func(t *testing.T) {
		for name := range Schema() {
			assert.False(t, domain.IsCommonField(name), name)
		}
	})
}

func TestClose(t *testing.T) {
	t.Run("operations fail after close", func(t *testing.T) {
		conn, err := New(githubInstance(map[string]string{"token": "ghp_x", "repos": "acme/widgets"}))
		require.NoError(t, err)
		require.NoError(t, conn.Close())

		assert.ErrorIs(t, conn.ValidateCredentials(context.Background()), domain.ErrConnectorClosed)
		_, err = conn.EnumerateRemote(context.Background())
		assert.ErrorIs(t, err, domain.ErrConnectorClosed)
	})
}
