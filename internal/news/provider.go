package news

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/factchecker/newsvet/internal/models"
)

// Provider is a single news-search backend. Implementations normalize their
// provider-specific response schema into the common Article shape.
type Provider interface {
	// Search returns articles matching the query. A nil error with an empty
	// slice means the provider had no hits; that is not a failure.
	Search(ctx context.Context, query string, maxResults int) ([]models.Article, error)

	// Name returns the provider name.
	Name() string
}

// QuotaError signals a quota or permission rejection (HTTP 429/403). A
// provider returning it is removed from rotation for the rest of the run.
type QuotaError struct {
	Provider string
	Status   int
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("%s quota/permission rejection: status %d", e.Provider, e.Status)
}

// IsQuotaError reports whether err carries a QuotaError.
func IsQuotaError(err error) bool {
	var qe *QuotaError
	return errors.As(err, &qe)
}

// quotaStatus reports whether an HTTP status is a quota/permission signature.
func quotaStatus(code int) bool {
	return code == http.StatusTooManyRequests || code == http.StatusForbidden
}
