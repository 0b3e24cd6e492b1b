// Package filesystem indexes documents from a local file tree.
// It provides two kinds: "filesystem" (file metadata) and "markdown"
// (a specialization that also indexes Markdown file content).
package filesystem

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chorus-search/chorus/internal/core/domain"
	"github.com/chorus-search/chorus/internal/core/ports/driven"
	"github.com/chorus-search/chorus/internal/logger"
)

// Kind is the connector type label for plain file indexing.
const Kind = "filesystem"

// Ensure Connector implements the interfaces.
var (
	_ driven.Connector = (*Connector)(nil)
	_ driven.Watcher   = (*Connector)(nil)
)

// Schema returns the kind-specific sub-schema for filesystem documents.
func Schema() domain.Schema {
	return domain.Schema{
		"file_name": {Type: domain.FieldText, Stored: true, Indexed: true, Boost: 100},
		"file_path": {Type: domain.FieldIdentifier, Stored: true},
		"extension": {Type: domain.FieldIdentifier, Stored: true, Indexed: true},
	}
}

// Connector walks one configured directory tree.
type Connector struct {
	kind     string
	name     string
	root     string
	patterns []string
	ignore   domain.IgnoreFunc

	// payload optionally augments a fetched document with extra
	// fields; markdown uses it to attach file content.
	payload func(path string, doc *domain.Document) error

	validated bool
	closed    bool
}

// New constructs a filesystem connector for one configured instance.
// Config keys: "path" (required), "patterns" (optional comma-separated
// globs matched against the base name; empty means all files).
func New(instance domain.Instance) (driven.Connector, error) {
	root := instance.ConfigValue("path")
	if root == "" {
		return nil, fmt.Errorf("%w: source %q: path is required", domain.ErrConfig, instance.Name)
	}

	c := &Connector{
		kind: Kind,
		name: instance.Name,
		root: root,
	}
	if patterns := instance.ConfigValue("patterns"); patterns != "" {
		for _, p := range strings.Split(patterns, ",") {
			if p = strings.TrimSpace(p); p != "" {
				c.patterns = append(c.patterns, p)
			}
		}
	}
	c.ignore = domain.ChainIgnore(domain.AcceptAll, c.baseIgnore)
	return c, nil
}

// baseIgnore excludes dotfiles and, when patterns are configured,
// anything not matching one of them.
func (c *Connector) baseIgnore(name string, _ map[string]string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	if len(c.patterns) == 0 {
		return false
	}
	for _, pattern := range c.patterns {
		if ok, _ := filepath.Match(pattern, name); ok {
			return false
		}
	}
	return true
}

// Kind returns the connector type label.
func (c *Connector) Kind() string { return c.kind }

// Name returns the configured instance name.
func (c *Connector) Name() string { return c.name }

// ValidateCredentials checks the configured root exists and is a
// readable directory. There are no remote credentials; a bad path is
// a configuration problem, not an auth one. Idempotent.
func (c *Connector) ValidateCredentials(_ context.Context) error {
	if c.closed {
		return domain.ErrConnectorClosed
	}
	if c.validated {
		return nil
	}

	abs, err := filepath.Abs(c.root)
	if err != nil {
		return fmt.Errorf("%w: resolving %s: %v", domain.ErrConfig, c.root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrConfig, abs, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", domain.ErrConfig, abs)
	}

	c.root = abs
	c.validated = true
	return nil
}

// EnumerateRemote walks the tree and maps each accepted file's
// absolute path to its modification time.
func (c *Connector) EnumerateRemote(ctx context.Context) (map[string]time.Time, error) {
	if c.closed {
		return nil, domain.ErrConnectorClosed
	}

	remote := make(map[string]time.Time)
	err := filepath.WalkDir(c.root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if entry.IsDir() {
			// Descend into everything except hidden directories.
			if entry.Name() != "." && strings.HasPrefix(entry.Name(), ".") && path != c.root {
				return filepath.SkipDir
			}
			return nil
		}
		if c.ignore(entry.Name(), nil) {
			return nil
		}
		info, err := entry.Info()
		if err != nil {
			return err
		}
		remote[path] = info.ModTime()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: walking %s: %v", domain.ErrRemoteUnavailable, c.root, err)
	}

	logger.Debug("Enumerated %d files under %s", len(remote), c.root)
	return remote, nil
}

// Fetch builds the indexable document for one file path.
func (c *Connector) Fetch(ctx context.Context, id string) (*domain.Document, error) {
	if c.closed {
		return nil, domain.ErrConnectorClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(id)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: stat %s: %v", domain.ErrRemoteUnavailable, id, err)
	}

	fp, err := fileFingerprint(id)
	if err != nil {
		return nil, fmt.Errorf("%w: hashing %s: %v", domain.ErrRemoteUnavailable, id, err)
	}

	doc := &domain.Document{
		ID:           id,
		Fingerprint:  fp,
		Kind:         c.kind,
		Name:         info.Name(),
		CreatedTime:  info.ModTime(), // creation time is not portable; mtime stands in
		ModifiedTime: info.ModTime(),
		Fields: map[string]any{
			"file_name": info.Name(),
			"file_path": id,
			"extension": strings.TrimPrefix(filepath.Ext(id), "."),
		},
	}
	if c.payload != nil {
		if err := c.payload(id, doc); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// fileFingerprint hashes the file's content.
func fileFingerprint(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Close releases resources. Walking holds none, so this only flips
// the closed flag.
func (c *Connector) Close() error {
	c.closed = true
	return nil
}
