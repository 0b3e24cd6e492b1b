package services

import (
	"github.com/chorus-search/chorus/internal/connectors/filesystem"
	"github.com/chorus-search/chorus/internal/connectors/gdrive"
	"github.com/chorus-search/chorus/internal/connectors/github"
)

// NewBuiltinRegistry returns a registry pre-populated with every
// connector kind shipped in this repository.
func NewBuiltinRegistry() *Registry {
	r := NewRegistry()
	r.Register(Registration{
		Kind:   github.Kind,
		Schema: github.Schema(),
		Build:  github.New,
	})
	r.Register(Registration{
		Kind:   gdrive.Kind,
		Schema: gdrive.Schema(),
		Build:  gdrive.New,
	})
	r.Register(Registration{
		Kind:   gdrive.DocKind,
		Schema: gdrive.DocSchema(),
		Build:  gdrive.NewDoc,
	})
	r.Register(Registration{
		Kind:   filesystem.Kind,
		Schema: filesystem.Schema(),
		Build:  filesystem.New,
	})
	r.Register(Registration{
		Kind:   filesystem.MarkdownKind,
		Schema: filesystem.MarkdownSchema(),
		Build:  filesystem.NewMarkdown,
	})
	return r
}
