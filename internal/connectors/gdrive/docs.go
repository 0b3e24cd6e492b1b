package gdrive

import (
	"context"
	"io"
	"strings"

	"google.golang.org/api/drive/v3"

	"github.com/chorus-search/chorus/internal/core/domain"
	"github.com/chorus-search/chorus/internal/core/ports/driven"
)

// DocKind is the connector type label for document content indexing.
// It specializes the plain Drive kind: the parent's exclusion rules
// still apply, plus a document-format filter.
const DocKind = "gdrive_doc"

// MIME types the doc kind accepts.
const (
	MimeTypeGoogleDoc = "application/vnd.google-apps.document"
	MimeTypeDocx      = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// ExportMimeText is the export format for document content.
const ExportMimeText = "text/plain"

// MaxExportSize caps exported content at 5MB.
const MaxExportSize = 5 * 1024 * 1024

// DocSchema returns the kind-specific sub-schema for document kinds:
// the Drive file fields plus indexed content.
func DocSchema() domain.Schema {
	schema := Schema()
	schema["content"] = domain.FieldSpec{Type: domain.FieldText, Stored: true, Indexed: true}
	return schema
}

// NewDoc constructs a document connector. It reuses the Drive
// connector wholesale, composing the parent's ignore predicate with
// the format filter and attaching content export to fetches.
func NewDoc(instance domain.Instance) (driven.Connector, error) {
	conn, err := New(instance)
	if err != nil {
		return nil, err
	}

	c := conn.(*Connector)
	c.kind = DocKind
	c.ignore = domain.ChainIgnore(c.ignore, ignoreNonDocument)
	c.payload = attachDocContent
	return c, nil
}

// ignoreNonDocument excludes anything that is neither a Google Doc
// nor a Word document.
func ignoreNonDocument(name string, meta map[string]string) bool {
	switch meta["mimetype"] {
	case MimeTypeGoogleDoc, MimeTypeDocx:
		return false
	}
	return !strings.HasSuffix(strings.ToLower(name), ".docx")
}

// attachDocContent exports the document as plain text into the
// content field. Google-native documents use the export endpoint;
// uploaded files are downloaded directly.
func attachDocContent(ctx context.Context, svc *drive.Service, file *drive.File, doc *domain.Document) error {
	var (
		body io.ReadCloser
		err  error
	)
	if file.MimeType == MimeTypeGoogleDoc {
		resp, exportErr := svc.Files.Export(file.Id, ExportMimeText).Context(ctx).Download()
		if exportErr != nil {
			return wrapError(exportErr, "export document")
		}
		body = resp.Body
	} else {
		resp, getErr := svc.Files.Get(file.Id).Context(ctx).Download()
		if getErr != nil {
			return wrapError(getErr, "download document")
		}
		body = resp.Body
	}
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, MaxExportSize))
	if err != nil {
		return wrapError(err, "read document content")
	}
	doc.Fields["content"] = string(data)
	return nil
}
