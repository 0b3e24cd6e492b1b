package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	gh "github.com/google/go-github/v80/github"

	"github.com/chorus-search/chorus/internal/core/domain"
)

// wrapError converts go-github errors to the domain's sentinel errors
// so callers can classify failures without importing this package.
func wrapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		switch ghErr.Response.StatusCode {
		case http.StatusNotFound, http.StatusGone:
			return fmt.Errorf("%s: %s: %w", operation, ghErr.Message, domain.ErrNotFound)
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%s: %s: %w", operation, ghErr.Message, domain.ErrAuth)
		default:
			return fmt.Errorf("%s: %s: %w", operation, ghErr.Message, domain.ErrRemoteUnavailable)
		}
	}

	var rateLimitErr *gh.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return fmt.Errorf("%s: rate limit exceeded, resets at %s: %w",
			operation, rateLimitErr.Rate.Reset.Time.Format("15:04:05"), domain.ErrRemoteUnavailable)
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	return fmt.Errorf("%s: %w: %v", operation, domain.ErrRemoteUnavailable, err)
}
