package github

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	gh "github.com/google/go-github/v80/github"

	"github.com/chorus-search/chorus/internal/core/domain"
	"github.com/chorus-search/chorus/internal/core/ports/driven"
	"github.com/chorus-search/chorus/internal/logger"
)

// Kind is the connector type label for GitHub issues and pull requests.
const Kind = "github_issue"

// Ensure Connector implements the interface.
var _ driven.Connector = (*Connector)(nil)

// Schema returns the kind-specific sub-schema for issue documents.
func Schema() domain.Schema {
	return domain.Schema{
		"issue_title": {Type: domain.FieldText, Stored: true, Indexed: true, Boost: 100},
		"issue_url":   {Type: domain.FieldIdentifier, Stored: true},
		"repo_name":   {Type: domain.FieldText, Stored: true, Indexed: true},
		"repo_url":    {Type: domain.FieldIdentifier, Stored: true},
		"github_user": {Type: domain.FieldText, Stored: true, Indexed: true},
		"content":     {Type: domain.FieldText, Stored: true, Indexed: true},
	}
}

// repoRef identifies one owner/name repository pair.
type repoRef struct {
	owner string
	name  string
}

func (r repoRef) String() string { return r.owner + "/" + r.name }

// Connector enumerates issues and pull requests across the configured
// repositories and organizations.
type Connector struct {
	name   string
	client *Client
	repos  []repoRef
	orgs   []string

	validated bool
	closed    bool
}

// New constructs a GitHub connector for one configured instance.
// Config keys: "token" (required), "repos" (comma-separated
// "owner/name" pairs) and/or "orgs" (comma-separated organization
// names whose repositories are all enumerated).
func New(instance domain.Instance) (driven.Connector, error) {
	token := instance.ConfigValue("token")
	if token == "" {
		return nil, fmt.Errorf("%w: source %q: token is required", domain.ErrConfig, instance.Name)
	}

	c := &Connector{
		name:   instance.Name,
		client: NewClient(context.Background(), token),
	}

	for _, raw := range splitList(instance.ConfigValue("repos")) {
		owner, name, ok := strings.Cut(raw, "/")
		if !ok || owner == "" || name == "" {
			return nil, fmt.Errorf("%w: source %q: repo %q is not owner/name", domain.ErrConfig, instance.Name, raw)
		}
		c.repos = append(c.repos, repoRef{owner: owner, name: name})
	}
	c.orgs = splitList(instance.ConfigValue("orgs"))

	if len(c.repos) == 0 && len(c.orgs) == 0 {
		return nil, fmt.Errorf("%w: source %q: at least one of repos or orgs is required", domain.ErrConfig, instance.Name)
	}
	return c, nil
}

// Kind returns the connector type label.
func (c *Connector) Kind() string { return Kind }

// Name returns the configured instance name.
func (c *Connector) Name() string { return c.name }

// ValidateCredentials checks the token against the API. Idempotent.
func (c *Connector) ValidateCredentials(ctx context.Context) error {
	if c.closed {
		return domain.ErrConnectorClosed
	}
	if c.validated {
		return nil
	}
	if err := c.client.ValidateCredentials(ctx); err != nil {
		return err
	}
	c.validated = true
	return nil
}

// EnumerateRemote lists every issue and pull request in the configured
// repositories, mapping HTML URL to last update time. Organization
// entries are expanded to their repository lists first.
func (c *Connector) EnumerateRemote(ctx context.Context) (map[string]time.Time, error) {
	if c.closed {
		return nil, domain.ErrConnectorClosed
	}

	refs, err := c.resolveRepos(ctx)
	if err != nil {
		return nil, err
	}

	remote := make(map[string]time.Time)
	for _, ref := range refs {
		opts := &gh.IssueListByRepoOptions{
			State:       "all",
			ListOptions: gh.ListOptions{PerPage: PerPage},
		}
		issues, err := c.client.ListIssues(ctx, ref.owner, ref.name, opts)
		if err != nil {
			return nil, fmt.Errorf("repo %s: %w", ref, err)
		}
		for _, issue := range issues {
			url := issue.GetHTMLURL()
			if url == "" {
				continue
			}
			remote[url] = issue.GetUpdatedAt().Time
		}
		logger.Debug("Enumerated %d issues in %s", len(issues), ref)
	}
	return remote, nil
}

// resolveRepos combines the explicit repo list with each configured
// organization's repositories, deduplicating.
func (c *Connector) resolveRepos(ctx context.Context) ([]repoRef, error) {
	seen := make(map[repoRef]bool)
	var refs []repoRef
	for _, ref := range c.repos {
		if !seen[ref] {
			seen[ref] = true
			refs = append(refs, ref)
		}
	}
	for _, org := range c.orgs {
		repos, err := c.client.ListOrgRepos(ctx, org)
		if err != nil {
			return nil, fmt.Errorf("org %s: %w", org, err)
		}
		for _, repo := range repos {
			ref := repoRef{owner: repo.GetOwner().GetLogin(), name: repo.GetName()}
			if ref.owner == "" || ref.name == "" || seen[ref] {
				continue
			}
			seen[ref] = true
			refs = append(refs, ref)
		}
	}
	return refs, nil
}

// Fetch builds the indexable document for one issue URL, pulling the
// body and the full comment thread into the content field.
func (c *Connector) Fetch(ctx context.Context, id string) (*domain.Document, error) {
	if c.closed {
		return nil, domain.ErrConnectorClosed
	}

	ref, number, err := parseIssueURL(id)
	if err != nil {
		return nil, err
	}

	issue, err := c.client.GetIssue(ctx, ref.owner, ref.name, number)
	if err != nil {
		return nil, err
	}

	var content strings.Builder
	content.WriteString(issue.GetBody())
	if issue.GetComments() > 0 {
		comments, err := c.client.ListComments(ctx, ref.owner, ref.name, number)
		if err != nil {
			return nil, err
		}
		for _, comment := range comments {
			content.WriteString("\n\n")
			if login := comment.GetUser().GetLogin(); login != "" {
				content.WriteString(login + ": ")
			}
			content.WriteString(comment.GetBody())
		}
	}

	return &domain.Document{
		ID:           id,
		Kind:         Kind,
		Name:         issue.GetTitle(),
		CreatedTime:  issue.GetCreatedAt().Time,
		ModifiedTime: issue.GetUpdatedAt().Time,
		Fields: map[string]any{
			"issue_title": issue.GetTitle(),
			"issue_url":   id,
			"repo_name":   ref.String(),
			"repo_url":    "https://github.com/" + ref.String(),
			"github_user": issue.GetUser().GetLogin(),
			"content":     content.String(),
		},
	}, nil
}

// Close releases the connector. Further calls fail with
// ErrConnectorClosed.
func (c *Connector) Close() error {
	c.closed = true
	return nil
}

// parseIssueURL extracts owner, repo and number from an issue or pull
// request HTML URL such as https://github.com/org/repo/issues/42.
func parseIssueURL(id string) (repoRef, int, error) {
	rest, ok := strings.CutPrefix(id, "https://github.com/")
	if !ok {
		return repoRef{}, 0, fmt.Errorf("%w: %s is not a github issue URL", domain.ErrNotFound, id)
	}
	parts := strings.Split(rest, "/")
	if len(parts) != 4 || (parts[2] != "issues" && parts[2] != "pull") {
		return repoRef{}, 0, fmt.Errorf("%w: %s is not a github issue URL", domain.ErrNotFound, id)
	}
	number, err := strconv.Atoi(parts[3])
	if err != nil {
		return repoRef{}, 0, fmt.Errorf("%w: %s has no issue number", domain.ErrNotFound, id)
	}
	return repoRef{owner: parts[0], name: parts[1]}, number, nil
}

// splitList splits a comma-separated config value, trimming blanks.
func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
