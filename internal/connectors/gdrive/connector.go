package gdrive

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/chorus-search/chorus/internal/core/domain"
	"github.com/chorus-search/chorus/internal/core/ports/driven"
	"github.com/chorus-search/chorus/internal/logger"
)

// Kind is the connector type label for Drive file metadata.
const Kind = "gdrive_file"

// MimeTypeFolder is excluded from enumeration.
const MimeTypeFolder = "application/vnd.google-apps.folder"

// pageSize is the Files.List page size.
const pageSize = 100

// listFields is the partial-response selector for enumeration.
const listFields = "nextPageToken, files(id, name, mimeType, trashed, modifiedTime)"

// getFields is the partial-response selector for single-file fetches.
const getFields = "id, name, mimeType, webViewLink, createdTime, modifiedTime, md5Checksum, owners(displayName, emailAddress)"

// Ensure Connector implements the interface.
var _ driven.Connector = (*Connector)(nil)

// Schema returns the kind-specific sub-schema for Drive file documents.
func Schema() domain.Schema {
	return domain.Schema{
		"file_name":   {Type: domain.FieldText, Stored: true, Indexed: true, Boost: 100},
		"file_url":    {Type: domain.FieldIdentifier, Stored: true},
		"mimetype":    {Type: domain.FieldIdentifier, Stored: true, Indexed: true},
		"owner_email": {Type: domain.FieldIdentifier, Stored: true},
		"owner_name":  {Type: domain.FieldText, Stored: true, Indexed: true},
	}
}

// Connector enumerates one Drive account through a service-account
// credentials file.
type Connector struct {
	kind     string
	name     string
	credPath string
	svc      *drive.Service
	ignore   domain.IgnoreFunc

	// payload optionally augments a fetched document; gdrive_doc
	// uses it to attach exported content.
	payload func(ctx context.Context, svc *drive.Service, file *drive.File, doc *domain.Document) error

	validated bool
	closed    bool
}

// New constructs a Drive connector for one configured instance.
// Config keys: "credentials" (required path to a service-account or
// authorized-user JSON file).
func New(instance domain.Instance) (driven.Connector, error) {
	credPath := instance.ConfigValue("credentials")
	if credPath == "" {
		return nil, fmt.Errorf("%w: source %q: credentials is required", domain.ErrConfig, instance.Name)
	}

	return &Connector{
		kind:     Kind,
		name:     instance.Name,
		credPath: credPath,
		ignore:   domain.ChainIgnore(domain.AcceptAll, ignoreNonFile),
	}, nil
}

// ignoreNonFile excludes folders and trashed items.
func ignoreNonFile(_ string, meta map[string]string) bool {
	return meta["mimetype"] == MimeTypeFolder || meta["trashed"] == "true"
}

// Kind returns the connector type label.
func (c *Connector) Kind() string { return c.kind }

// Name returns the configured instance name.
func (c *Connector) Name() string { return c.name }

// ValidateCredentials builds the Drive service and probes the account
// with a one-item list. Idempotent.
func (c *Connector) ValidateCredentials(ctx context.Context) error {
	if c.closed {
		return domain.ErrConnectorClosed
	}
	if c.validated {
		return nil
	}

	svc, err := drive.NewService(ctx,
		option.WithCredentialsFile(c.credPath),
		option.WithScopes(drive.DriveReadonlyScope),
	)
	if err != nil {
		return fmt.Errorf("%w: source %q: %v", domain.ErrAuth, c.name, err)
	}

	_, err = svc.Files.List().PageSize(1).Fields("files(id)").Context(ctx).Do()
	if err != nil {
		return wrapError(err, "validate credentials")
	}

	c.svc = svc
	c.validated = true
	return nil
}

// EnumerateRemote pages through Files.List, mapping file ID to
// modification time. The ignore predicate sees the file name plus its
// MIME type and trashed flag.
func (c *Connector) EnumerateRemote(ctx context.Context) (map[string]time.Time, error) {
	if c.closed {
		return nil, domain.ErrConnectorClosed
	}
	if c.svc == nil {
		return nil, fmt.Errorf("%w: source %q: credentials not validated", domain.ErrAuth, c.name)
	}

	remote := make(map[string]time.Time)
	pageToken := ""
	for {
		call := c.svc.Files.List().
			PageSize(pageSize).
			Fields(listFields).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		page, err := call.Do()
		if err != nil {
			return nil, wrapError(err, "list files")
		}

		for _, file := range page.Files {
			meta := map[string]string{
				"mimetype": file.MimeType,
				"trashed":  fmt.Sprintf("%t", file.Trashed),
			}
			if c.ignore(file.Name, meta) {
				continue
			}
			mod, err := time.Parse(time.RFC3339, file.ModifiedTime)
			if err != nil {
				logger.Warn("Skipping %s: bad modifiedTime %q", file.Id, file.ModifiedTime)
				continue
			}
			remote[file.Id] = mod
		}

		pageToken = page.NextPageToken
		if pageToken == "" {
			break
		}
	}

	logger.Debug("Enumerated %d Drive files for %s", len(remote), c.name)
	return remote, nil
}

// Fetch builds the indexable document for one Drive file ID. The
// Drive-reported MD5 checksum serves as the fingerprint where present;
// Workspace-native files have none.
func (c *Connector) Fetch(ctx context.Context, id string) (*domain.Document, error) {
	if c.closed {
		return nil, domain.ErrConnectorClosed
	}
	if c.svc == nil {
		return nil, fmt.Errorf("%w: source %q: credentials not validated", domain.ErrAuth, c.name)
	}

	file, err := c.svc.Files.Get(id).Fields(getFields).Context(ctx).Do()
	if err != nil {
		return nil, wrapError(err, "get file")
	}

	created, _ := time.Parse(time.RFC3339, file.CreatedTime)
	modified, err := time.Parse(time.RFC3339, file.ModifiedTime)
	if err != nil {
		return nil, fmt.Errorf("%w: file %s: bad modifiedTime %q", domain.ErrInvalidDocument, id, file.ModifiedTime)
	}

	var ownerName, ownerEmail string
	if len(file.Owners) > 0 {
		ownerName = file.Owners[0].DisplayName
		ownerEmail = file.Owners[0].EmailAddress
	}

	doc := &domain.Document{
		ID:           id,
		Fingerprint:  file.Md5Checksum,
		Kind:         c.kind,
		Name:         file.Name,
		CreatedTime:  created,
		ModifiedTime: modified,
		Fields: map[string]any{
			"file_name":   file.Name,
			"file_url":    file.WebViewLink,
			"mimetype":    file.MimeType,
			"owner_email": ownerEmail,
			"owner_name":  ownerName,
		},
	}
	if c.payload != nil {
		if err := c.payload(ctx, c.svc, file, doc); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// Close releases the connector. Further calls fail with
// ErrConnectorClosed.
func (c *Connector) Close() error {
	c.closed = true
	c.svc = nil
	return nil
}
