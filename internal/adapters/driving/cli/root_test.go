package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// writeWorkspace creates a config file pointing one markdown source at
// a populated notes directory, and returns (configPath, dataDir).
func writeWorkspace(t *testing.T) (string, string) {
	t.Helper()
	root := t.TempDir()

	notes := filepath.Join(root, "notes")
	require.NoError(t, os.MkdirAll(notes, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(notes, "todo.md"), []byte("# Todo\n\nship it"), 0o644))

	config := fmt.Sprintf("[[sources]]\nname = \"notes\"\nkind = \"markdown\"\n\n[sources.config]\npath = %q\n", notes)
	configPath := filepath.Join(root, "chorus.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(config), 0o600))

	return configPath, filepath.Join(root, "data")
}

func TestRootCmd(t *testing.T) {
	t.Run("registers the expected subcommands", func(t *testing.T) {
		cmd := NewRootCmd()
		names := make([]string, 0)
		for _, sub := range cmd.Commands() {
			names = append(names, sub.Name())
		}
		for _, want := range []string{"sync", "schema", "get", "watch", "runs", "version"} {
			assert.Contains(t, names, want)
		}
	})

	t.Run("version prints the build identifier", func(t *testing.T) {
		out, err := runCommand(t, "version")
		require.NoError(t, err)
		assert.Contains(t, out, "chorus")
	})
}

func TestSyncCmd(t *testing.T) {
	t.Run("syncs a markdown source end to end", func(t *testing.T) {
		config, data := writeWorkspace(t)

		out, err := runCommand(t, "--config", config, "--data-dir", data, "sync")
		require.NoError(t, err)
		assert.Contains(t, out, "markdown")
		assert.Contains(t, out, "notes")
		assert.Contains(t, out, "+1")
	})

	t.Run("missing config file fails", func(t *testing.T) {
		_, err := runCommand(t, "--config", filepath.Join(t.TempDir(), "absent.toml"), "sync")
		assert.Error(t, err)
	})
}

func TestSchemaCmd(t *testing.T) {
	t.Run("prints common and kind fields", func(t *testing.T) {
		config, data := writeWorkspace(t)

		out, err := runCommand(t, "--config", config, "--data-dir", data, "schema")
		require.NoError(t, err)
		assert.Contains(t, out, "id")
		assert.Contains(t, out, "modified_time")
		assert.Contains(t, out, "content")
		assert.Contains(t, out, "file_path")
	})
}

func TestGetCmd(t *testing.T) {
	t.Run("prints a synced document", func(t *testing.T) {
		config, data := writeWorkspace(t)

		_, err := runCommand(t, "--config", config, "--data-dir", data, "sync")
		require.NoError(t, err)

		id := filepath.Join(filepath.Dir(config), "notes", "todo.md")
		out, err := runCommand(t, "--config", config, "--data-dir", data, "get", id)
		require.NoError(t, err)
		assert.Contains(t, out, "kind:          markdown")
		assert.Contains(t, out, "todo.md")
	})

	t.Run("unknown id fails", func(t *testing.T) {
		config, data := writeWorkspace(t)
		_, err := runCommand(t, "--config", config, "--data-dir", data, "get", "/nowhere/ghost.md")
		assert.Error(t, err)
	})
}

func TestRunsCmd(t *testing.T) {
	t.Run("lists recorded sync runs", func(t *testing.T) {
		config, data := writeWorkspace(t)

		_, err := runCommand(t, "--config", config, "--data-dir", data, "sync")
		require.NoError(t, err)

		out, err := runCommand(t, "--config", config, "--data-dir", data, "runs")
		require.NoError(t, err)
		assert.Contains(t, out, "1 sources")
		assert.Contains(t, out, "1 writes")
	})
}
