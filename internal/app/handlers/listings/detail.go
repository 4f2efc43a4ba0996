package listings

import (
	"context"
	"errors"
	"log/slog"

	"staybook/internal/app/apperr"
	"staybook/internal/app/dto"
	"staybook/internal/app/policies"
	"staybook/internal/app/queries"
	"staybook/internal/domain/listing"
	"staybook/internal/domain/reservation"
)

const listingDetailKey = "listings.detail"

// ListingDetailQuery fetches one listing and a page of its reservations.
type ListingDetailQuery struct {
	ListingID int64
	Page      int
	PageSize  int
}

func (q ListingDetailQuery) Key() string { return listingDetailKey }

func (q ListingDetailQuery) normalized(fallback int) ListingDetailQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 || q.PageSize > 100 {
		q.PageSize = fallback
	}
	return q
}

// ListingDetailHandler is the read-through consumer of the listing cache.
// Only the default first page is cached; deeper pages go straight to
// storage. The commit flow invalidates the entry after every insert, so a
// hit is never stale.
type ListingDetailHandler struct {
	Listings     listing.Repository
	Reservations reservation.Repository
	Cache        policies.ListingCachePort
	Logger       *slog.Logger
	// PageSize overrides the default page size when set.
	PageSize int
}

func (h *ListingDetailHandler) Handle(ctx context.Context, q ListingDetailQuery) (dto.ListingDetail, error) {
	size := resolvePageSize(h.PageSize)
	q = q.normalized(size)
	cacheable := h.Cache != nil && q.Page == 1 && q.PageSize == size

	if cacheable {
		if detail, ok, err := h.Cache.GetDetail(ctx, q.ListingID); err != nil {
			h.warn("listing cache read failed", q.ListingID, err)
		} else if ok {
			return detail, nil
		}
	}

	l, err := h.Listings.ByID(ctx, q.ListingID)
	if err != nil {
		if errors.Is(err, listing.ErrNotFound) {
			return dto.ListingDetail{}, err
		}
		return dto.ListingDetail{}, apperr.Storage("listing lookup", err)
	}

	items, total, err := h.Reservations.ByListing(ctx, l.ID, reservation.Page{
		Offset: (q.Page - 1) * q.PageSize,
		Limit:  q.PageSize,
	})
	if err != nil {
		return dto.ListingDetail{}, apperr.Storage("reservation page", err)
	}

	detail := dto.ListingDetail{
		Listing: dto.MapListing(l),
		Reservations: dto.ReservationPage{
			Items:    dto.MapReservations(items),
			Total:    total,
			Page:     q.Page,
			PageSize: q.PageSize,
		},
	}

	if cacheable {
		if err := h.Cache.SetDetail(ctx, q.ListingID, detail); err != nil {
			h.warn("listing cache write failed", q.ListingID, err)
		}
	}
	return detail, nil
}

func (h *ListingDetailHandler) warn(msg string, listingID int64, err error) {
	if h.Logger != nil {
		h.Logger.Warn(msg, "listing_id", listingID, "error", err)
	}
}

var _ queries.Handler[ListingDetailQuery, dto.ListingDetail] = (*ListingDetailHandler)(nil)
