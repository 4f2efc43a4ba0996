// Package availability answers "which listings are free over this range".
package availability

import (
	"context"

	"staybook/internal/app/apperr"
	"staybook/internal/app/dto"
	"staybook/internal/app/queries"
	domainavailability "staybook/internal/domain/availability"
	"staybook/internal/domain/listing"
	"staybook/internal/domain/reservation"
)

const searchAvailableKey = "availability.search"

// SearchAvailableQuery carries the raw candidate range.
type SearchAvailableQuery struct {
	StartDate string
	EndDate   string
}

func (q SearchAvailableQuery) Key() string { return searchAvailableKey }

// SearchAvailableHandler validates the range, pulls the overlapping
// reservation slice in one pass across all listings, and subtracts the
// blocked set.
type SearchAvailableHandler struct {
	Listings     listing.Repository
	Reservations reservation.Repository
	Clock        reservation.Clock
}

func (h *SearchAvailableHandler) Handle(ctx context.Context, q SearchAvailableQuery) ([]dto.Listing, error) {
	r, err := reservation.ParseRange(q.StartDate, q.EndDate, h.Clock())
	if err != nil {
		return nil, err
	}

	all, err := h.Listings.All(ctx)
	if err != nil {
		return nil, apperr.Storage("listing scan", err)
	}
	overlapping, err := h.Reservations.Overlapping(ctx, r)
	if err != nil {
		return nil, apperr.Storage("overlap query", err)
	}

	free := domainavailability.AvailableListings(all, overlapping, r)
	return dto.MapListings(free), nil
}

var _ queries.Handler[SearchAvailableQuery, []dto.Listing] = (*SearchAvailableHandler)(nil)
