package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChainIgnore(t *testing.T) {
	dotfiles := func(name string, _ map[string]string) bool {
		return strings.HasPrefix(name, ".")
	}
	nonMarkdown := func(name string, _ map[string]string) bool {
		return !strings.HasSuffix(name, ".md")
	}

	t.Run("exclusions accumulate down the chain", func(t *testing.T) {
		chained := ChainIgnore(dotfiles, nonMarkdown)

		assert.False(t, chained("notes.md", nil))
		assert.True(t, chained(".hidden.md", nil), "parent exclusion still applies")
		assert.True(t, chained("notes.txt", nil), "child exclusion applies")
	})

	t.Run("nil predicates default to accept all", func(t *testing.T) {
		chained := ChainIgnore(nil, nil)
		assert.False(t, chained("anything", nil))
	})

	t.Run("accept all excludes nothing", func(t *testing.T) {
		assert.False(t, AcceptAll(".git", map[string]string{"mimetype": "x"}))
	})
}

func TestInstance_ConfigValue(t *testing.T) {
	instance := Instance{
		Name:   "work-drive",
		Kind:   "gdrive_file",
		Config: map[string]string{"credentials": "/etc/chorus/creds.json"},
	}

	assert.Equal(t, "/etc/chorus/creds.json", instance.ConfigValue("credentials"))
	assert.Empty(t, instance.ConfigValue("missing"))
}
