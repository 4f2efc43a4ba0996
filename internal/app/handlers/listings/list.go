// Package listings serves the reporting surface: paginated listings and
// per-listing reservation detail.
package listings

import (
	"context"

	"staybook/internal/app/apperr"
	"staybook/internal/app/dto"
	"staybook/internal/app/queries"
	"staybook/internal/domain/listing"
)

const listListingsKey = "listings.list"

// DefaultPageSize matches the reporting pagination the service has always
// used.
const DefaultPageSize = 10

// ListListingsQuery pages through all listings. Page is 1-based.
type ListListingsQuery struct {
	Page     int
	PageSize int
}

func (q ListListingsQuery) Key() string { return listListingsKey }

func (q ListListingsQuery) normalized(fallback int) ListListingsQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 || q.PageSize > 100 {
		q.PageSize = fallback
	}
	return q
}

// resolvePageSize picks the configured default, falling back to
// DefaultPageSize when the handler was built without one.
func resolvePageSize(configured int) int {
	if configured < 1 {
		return DefaultPageSize
	}
	return configured
}

type ListListingsHandler struct {
	Listings listing.Repository
	// PageSize overrides the default page size when set.
	PageSize int
}

func (h *ListListingsHandler) Handle(ctx context.Context, q ListListingsQuery) (dto.ListingPage, error) {
	q = q.normalized(resolvePageSize(h.PageSize))
	result, err := h.Listings.List(ctx, listing.Page{
		Offset: (q.Page - 1) * q.PageSize,
		Limit:  q.PageSize,
	})
	if err != nil {
		return dto.ListingPage{}, apperr.Storage("listing page", err)
	}
	return dto.ListingPage{
		Items:    dto.MapListings(result.Items),
		Total:    result.Total,
		Page:     q.Page,
		PageSize: q.PageSize,
	}, nil
}

var _ queries.Handler[ListListingsQuery, dto.ListingPage] = (*ListListingsHandler)(nil)
