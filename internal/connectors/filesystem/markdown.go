package filesystem

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/chorus-search/chorus/internal/core/domain"
	"github.com/chorus-search/chorus/internal/core/ports/driven"
)

// MarkdownKind is the connector type label for Markdown content
// indexing. It specializes the plain filesystem kind: the parent's
// exclusion rules still apply, plus an extension filter.
const MarkdownKind = "markdown"

// markdownExtensions are the file extensions treated as Markdown.
var markdownExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".mdown":    true,
}

// MarkdownSchema returns the kind-specific sub-schema for markdown
// documents: the filesystem fields plus indexed content.
func MarkdownSchema() domain.Schema {
	schema := Schema()
	schema["content"] = domain.FieldSpec{Type: domain.FieldText, Stored: true, Indexed: true}
	return schema
}

// NewMarkdown constructs a markdown connector. It reuses the
// filesystem connector wholesale, composing the parent's ignore
// predicate with the extension filter and attaching content extraction
// to fetches.
func NewMarkdown(instance domain.Instance) (driven.Connector, error) {
	conn, err := New(instance)
	if err != nil {
		return nil, err
	}

	c := conn.(*Connector)
	c.kind = MarkdownKind
	c.ignore = domain.ChainIgnore(c.ignore, ignoreNonMarkdown)
	c.payload = attachMarkdownContent
	return c, nil
}

// ignoreNonMarkdown excludes anything without a Markdown extension.
func ignoreNonMarkdown(name string, _ map[string]string) bool {
	return !markdownExtensions[strings.ToLower(filepath.Ext(name))]
}

// attachMarkdownContent reads the file body into the content field.
func attachMarkdownContent(path string, doc *domain.Document) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	doc.Fields["content"] = string(data)
	return nil
}
