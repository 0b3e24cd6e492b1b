package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chorus-search/chorus/internal/core/domain"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func instanceFor(dir string, extra map[string]string) domain.Instance {
	config := map[string]string{"path": dir}
	for k, v := range extra {
		config[k] = v
	}
	return domain.Instance{Name: "local", Kind: Kind, Config: config}
}

func TestNew(t *testing.T) {
	t.Run("requires a path", func(t *testing.T) {
		_, err := New(domain.Instance{Name: "local", Kind: Kind, Config: map[string]string{}})
		assert.ErrorIs(t, err, domain.ErrConfig)
	})

	t.Run("reports kind and instance name", func(t *testing.T) {
		conn, err := New(instanceFor(t.TempDir(), nil))
		require.NoError(t, err)
		assert.Equal(t, Kind, conn.Kind())
		assert.Equal(t, "local", conn.Name())
	})
}

func TestConnector_ValidateCredentials(t *testing.T) {
	t.Run("accepts an existing directory", func(t *testing.T) {
		conn, err := New(instanceFor(t.TempDir(), nil))
		require.NoError(t, err)
		assert.NoError(t, conn.ValidateCredentials(context.Background()))
	})

	t.Run("is idempotent", func(t *testing.T) {
		conn, err := New(instanceFor(t.TempDir(), nil))
		require.NoError(t, err)
		require.NoError(t, conn.ValidateCredentials(context.Background()))
		assert.NoError(t, conn.ValidateCredentials(context.Background()))
	})

	t.Run("missing path is a config error", func(t *testing.T) {
		conn, err := New(instanceFor(filepath.Join(t.TempDir(), "absent"), nil))
		require.NoError(t, err)
		assert.ErrorIs(t, conn.ValidateCredentials(context.Background()), domain.ErrConfig)
	})

	t.Run("fails after close", func(t *testing.T) {
		conn, err := New(instanceFor(t.TempDir(), nil))
		require.NoError(t, err)
		require.NoError(t, conn.Close())
		assert.ErrorIs(t, conn.ValidateCredentials(context.Background()), domain.ErrConnectorClosed)
	})
}

func TestConnector_EnumerateRemote(t *testing.T) {
	t.Run("maps file paths to modification times", func(t *testing.T) {
		dir := t.TempDir()
		a := writeFile(t, dir, "a.txt", "alpha")
		b := writeFile(t, dir, "sub/b.txt", "beta")

		conn, err := New(instanceFor(dir, nil))
		require.NoError(t, err)
		require.NoError(t, conn.ValidateCredentials(context.Background()))

		remote, err := conn.EnumerateRemote(context.Background())
		require.NoError(t, err)
		require.Len(t, remote, 2)

		for _, path := range []string{a, b} {
			info, statErr := os.Stat(path)
			require.NoError(t, statErr)
			assert.True(t, remote[path].Equal(info.ModTime()))
		}
	})

	t.Run("skips dotfiles and hidden directories", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "kept.txt", "x")
		writeFile(t, dir, ".hidden", "x")
		writeFile(t, dir, ".git/config", "x")

		conn, err := New(instanceFor(dir, nil))
		require.NoError(t, err)
		require.NoError(t, conn.ValidateCredentials(context.Background()))

		remote, err := conn.EnumerateRemote(context.Background())
		require.NoError(t, err)
		assert.Len(t, remote, 1)
	})

	t.Run("patterns restrict enumeration", func(t *testing.T) {
		dir := t.TempDir()
		kept := writeFile(t, dir, "notes.md", "x")
		writeFile(t, dir, "binary.bin", "x")

		conn, err := New(instanceFor(dir, map[string]string{"patterns": "*.md, *.txt"}))
		require.NoError(t, err)
		require.NoError(t, conn.ValidateCredentials(context.Background()))

		remote, err := conn.EnumerateRemote(context.Background())
		require.NoError(t, err)
		require.Len(t, remote, 1)
		assert.Contains(t, remote, kept)
	})
}

func TestConnector_Fetch(t *testing.T) {
	t.Run("builds a document with metadata fields", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "report.txt", "quarterly numbers")

		conn, err := New(instanceFor(dir, nil))
		require.NoError(t, err)

		doc, err := conn.Fetch(context.Background(), path)
		require.NoError(t, err)

		assert.Equal(t, path, doc.ID)
		assert.Equal(t, Kind, doc.Kind)
		assert.Equal(t, "report.txt", doc.Name)
		assert.NotEmpty(t, doc.Fingerprint)
		assert.Equal(t, "report.txt", doc.Fields["file_name"])
		assert.Equal(t, path, doc.Fields["file_path"])
		assert.Equal(t, "txt", doc.Fields["extension"])
		assert.False(t, doc.ModifiedTime.IsZero())
	})

	t.Run("fingerprint tracks content", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "a.txt", "v1")

		conn, err := New(instanceFor(dir, nil))
		require.NoError(t, err)

		first, err := conn.Fetch(context.Background(), path)
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(path, []byte("v2"), 0o644))
		second, err := conn.Fetch(context.Background(), path)
		require.NoError(t, err)

		assert.NotEqual(t, first.Fingerprint, second.Fingerprint)
	})

	t.Run("missing file is not found", func(t *testing.T) {
		dir := t.TempDir()
		conn, err := New(instanceFor(dir, nil))
		require.NoError(t, err)

		_, err = conn.Fetch(context.Background(), filepath.Join(dir, "gone.txt"))
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("validates against the kind schema", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "a.txt", "x")

		conn, err := New(instanceFor(dir, nil))
		require.NoError(t, err)

		doc, err := conn.Fetch(context.Background(), path)
		require.NoError(t, err)

		schema := domain.CommonSchema()
		for name, spec := range Schema() {
			schema[name] = spec
		}
		assert.NoError(t, doc.Validate(schema))
	})
}

func TestMarkdown(t *testing.T) {
	t.Run("only markdown files are enumerated", func(t *testing.T) {
		dir := t.TempDir()
		kept := writeFile(t, dir, "notes.md", "# Notes")
		writeFile(t, dir, "data.csv", "a,b")

		conn, err := NewMarkdown(instanceFor(dir, nil))
		require.NoError(t, err)
		require.NoError(t, conn.ValidateCredentials(context.Background()))

		remote, err := conn.EnumerateRemote(context.Background())
		require.NoError(t, err)
		require.Len(t, remote, 1)
		assert.Contains(t, remote, kept)
	})

	t.Run("parent exclusions still apply", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, ".draft.md", "hidden")

		conn, err := NewMarkdown(instanceFor(dir, nil))
		require.NoError(t, err)
		require.NoError(t, conn.ValidateCredentials(context.Background()))

		remote, err := conn.EnumerateRemote(context.Background())
		require.NoError(t, err)
		assert.Empty(t, remote)
	})

	t.Run("fetch attaches file content", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "notes.md", "# Notes\n\nbody text")

		conn, err := NewMarkdown(instanceFor(dir, nil))
		require.NoError(t, err)

		doc, err := conn.Fetch(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, MarkdownKind, doc.Kind)
		assert.Equal(t, "# Notes\n\nbody text", doc.Fields["content"])
	})
}

func TestConnector_Watch(t *testing.T) {
	t.Run("emits changed paths until cancelled", func(t *testing.T) {
		dir := t.TempDir()
		conn, err := New(instanceFor(dir, nil))
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		fsConn := conn.(*Connector)
		changes, err := fsConn.Watch(ctx)
		require.NoError(t, err)

		writeFile(t, dir, "new.txt", "x")

		select {
		case path, ok := <-changes:
			require.True(t, ok)
			assert.Equal(t, filepath.Join(dir, "new.txt"), path)
		case <-time.After(5 * time.Second):
			t.Fatal("no change event received")
		}

		cancel()
		deadline := time.After(5 * time.Second)
		for {
			select {
			case _, ok := <-changes:
				if !ok {
					return // closed as expected
				}
				// Drain events buffered before the cancel.
			case <-deadline:
				t.Fatal("channel not closed after cancel")
			}
		}
	})
}
