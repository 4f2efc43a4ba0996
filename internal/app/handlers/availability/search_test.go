package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybook/internal/domain/listing"
	"staybook/internal/domain/reservation"
	"staybook/internal/infra/storage/memory"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*SearchAvailableHandler, *memory.ListingRepository, *memory.ReservationRepository) {
	t.Helper()
	listings := memory.NewListingRepository()
	reservations := memory.NewReservationRepository()
	handler := &SearchAvailableHandler{
		Listings:     listings,
		Reservations: reservations,
		Clock:        func() time.Time { return fixedNow },
	}
	return handler, listings, reservations
}

func addListing(t *testing.T, repo *memory.ListingRepository) int64 {
	t.Helper()
	l, err := listing.New(1, "L", "addr", "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), l))
	return l.ID
}

func reserve(t *testing.T, repo *memory.ReservationRepository, listingID int64, start, end string) {
	t.Helper()
	s, err := reservation.ParseDate(start)
	require.NoError(t, err)
	e, err := reservation.ParseDate(end)
	require.NoError(t, err)
	res, err := reservation.New(listingID, "Guest", reservation.DateRange{Start: s, End: e}, fixedNow)
	require.NoError(t, err)
	require.NoError(t, repo.Insert(context.Background(), res))
}

func TestSearchNoReservations(t *testing.T) {
	handler, listings, _ := setup(t)
	id := addListing(t, listings)

	items, err := handler.Handle(context.Background(), SearchAvailableQuery{StartDate: "2025-06-01", EndDate: "2025-06-07"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, id, items[0].ID)
}

func TestSearchTouchingDayExcludes(t *testing.T) {
	handler, listings, reservations := setup(t)
	id := addListing(t, listings)
	reserve(t, reservations, id, "2025-06-03", "2025-06-05")

	items, err := handler.Handle(context.Background(), SearchAvailableQuery{StartDate: "2025-06-01", EndDate: "2025-06-03"})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSearchAdjacentIncludes(t *testing.T) {
	handler, listings, reservations := setup(t)
	id := addListing(t, listings)
	reserve(t, reservations, id, "2025-06-03", "2025-06-05")

	items, err := handler.Handle(context.Background(), SearchAvailableQuery{StartDate: "2025-06-06", EndDate: "2025-06-10"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, id, items[0].ID)
}

func TestSearchValidationFailures(t *testing.T) {
	handler, listings, _ := setup(t)
	addListing(t, listings)

	_, err := handler.Handle(context.Background(), SearchAvailableQuery{StartDate: "", EndDate: "2025-06-07"})
	assert.ErrorIs(t, err, reservation.ErrMissingField)

	_, err = handler.Handle(context.Background(), SearchAvailableQuery{StartDate: "June 1st", EndDate: "2025-06-07"})
	assert.ErrorIs(t, err, reservation.ErrMalformedDate)

	_, err = handler.Handle(context.Background(), SearchAvailableQuery{StartDate: "2025-06-10", EndDate: "2025-06-05"})
	assert.ErrorIs(t, err, reservation.ErrInvertedRange)
}

func TestSearchStableOrderAcrossCalls(t *testing.T) {
	handler, listings, _ := setup(t)
	for i := 0; i < 5; i++ {
		addListing(t, listings)
	}

	q := SearchAvailableQuery{StartDate: "2025-06-01", EndDate: "2025-06-07"}
	first, err := handler.Handle(context.Background(), q)
	require.NoError(t, err)
	second, err := handler.Handle(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	for i := 1; i < len(first); i++ {
		assert.Less(t, first[i-1].ID, first[i].ID)
	}
}
