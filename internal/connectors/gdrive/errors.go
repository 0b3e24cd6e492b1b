package gdrive

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"

	"github.com/chorus-search/chorus/internal/core/domain"
)

// wrapError converts Drive API errors to the domain's sentinel errors.
func wrapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusNotFound, http.StatusGone:
			return fmt.Errorf("%s: %s: %w", operation, gerr.Message, domain.ErrNotFound)
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%s: %s: %w", operation, gerr.Message, domain.ErrAuth)
		default:
			return fmt.Errorf("%s: %s: %w", operation, gerr.Message, domain.ErrRemoteUnavailable)
		}
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	return fmt.Errorf("%s: %w: %v", operation, domain.ErrRemoteUnavailable, err)
}
