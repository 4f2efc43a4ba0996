package policies

import (
	"context"

	"staybook/internal/app/dto"
)

// ListingCachePort is the read-through side-table of listing detail
// snapshots keyed by listing id. Entries carry no TTL; the commit flow
// invalidates synchronously after every successful insert. All operations
// are best-effort: implementations return errors for the caller to log,
// never to fail a request over.
type ListingCachePort interface {
	GetDetail(ctx context.Context, listingID int64) (dto.ListingDetail, bool, error)
	SetDetail(ctx context.Context, listingID int64, detail dto.ListingDetail) error
	Invalidate(ctx context.Context, listingID int64) error
}
