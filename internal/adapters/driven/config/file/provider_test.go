package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chorus-search/chorus/internal/core/domain"
)

const sampleConfig = `
[[sources]]
name = "work-issues"
kind = "github_issue"

[sources.config]
token = "ghp_example"
repos = "acme/widgets, acme/gadgets"

[[sources]]
name = "notes"
kind = "markdown"

[sources.config]
path = "/home/user/notes"

[[sources]]
name = "personal-issues"
kind = "github_issue"

[sources.config]
token = "ghp_other"
orgs = "acme"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chorus.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewProvider(t *testing.T) {
	t.Run("parses sources with their settings", func(t *testing.T) {
		p, err := NewProvider(writeConfig(t, sampleConfig))
		require.NoError(t, err)

		inst, err := p.Instance("work-issues")
		require.NoError(t, err)
		assert.Equal(t, "github_issue", inst.Kind)
		assert.Equal(t, "ghp_example", inst.ConfigValue("token"))
		assert.Equal(t, "acme/widgets, acme/gadgets", inst.ConfigValue("repos"))
	})

	t.Run("missing file is a config error", func(t *testing.T) {
		_, err := NewProvider(filepath.Join(t.TempDir(), "absent.toml"))
		assert.ErrorIs(t, err, domain.ErrConfig)
	})

	t.Run("malformed toml is a config error", func(t *testing.T) {
		_, err := NewProvider(writeConfig(t, "[[sources]\nname ="))
		assert.ErrorIs(t, err, domain.ErrConfig)
	})
}

func TestProvider_ActiveKinds(t *testing.T) {
	t.Run("kinds appear once in file order", func(t *testing.T) {
		p, err := NewProvider(writeConfig(t, sampleConfig))
		require.NoError(t, err)
		assert.Equal(t, []string{"github_issue", "markdown"}, p.ActiveKinds())
	})
}

func TestProvider_InstancesForKind(t *testing.T) {
	t.Run("returns instances in file order", func(t *testing.T) {
		p, err := NewProvider(writeConfig(t, sampleConfig))
		require.NoError(t, err)
		assert.Equal(t, []string{"work-issues", "personal-issues"}, p.InstancesForKind("github_issue"))
	})

	t.Run("unknown kind yields no instances", func(t *testing.T) {
		p, err := NewProvider(writeConfig(t, sampleConfig))
		require.NoError(t, err)
		assert.Empty(t, p.InstancesForKind("gdrive_file"))
	})
}

func TestNewProviderFromInstances(t *testing.T) {
	t.Run("rejects duplicate source names", func(t *testing.T) {
		_, err := NewProviderFromInstances([]domain.Instance{
			{Name: "notes", Kind: "markdown"},
			{Name: "notes", Kind: "filesystem"},
		})
		assert.ErrorIs(t, err, domain.ErrConfig)
	})

	t.Run("rejects an empty name", func(t *testing.T) {
		_, err := NewProviderFromInstances([]domain.Instance{{Kind: "markdown"}})
		assert.ErrorIs(t, err, domain.ErrConfig)
	})

	t.Run("rejects a missing kind", func(t *testing.T) {
		_, err := NewProviderFromInstances([]domain.Instance{{Name: "notes"}})
		assert.ErrorIs(t, err, domain.ErrConfig)
	})

	t.Run("unknown instance lookup is a config error", func(t *testing.T) {
		p, err := NewProviderFromInstances(nil)
		require.NoError(t, err)
		_, err = p.Instance("ghost")
		assert.ErrorIs(t, err, domain.ErrConfig)
	})
}
