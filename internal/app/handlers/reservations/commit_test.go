package reservations

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybook/internal/app/apperr"
	"staybook/internal/app/dto"
	"staybook/internal/domain/listing"
	"staybook/internal/domain/reservation"
	"staybook/internal/infra/storage/memory"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type recordingCache struct {
	mu          sync.Mutex
	invalidated []int64
}

func (c *recordingCache) GetDetail(ctx context.Context, id int64) (dto.ListingDetail, bool, error) {
	return dto.ListingDetail{}, false, nil
}

func (c *recordingCache) SetDetail(ctx context.Context, id int64, d dto.ListingDetail) error {
	return nil
}

func (c *recordingCache) Invalidate(ctx context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, id)
	return nil
}

type recordingEvents struct {
	mu        sync.Mutex
	published []dto.Reservation
}

func (e *recordingEvents) ReservationCreated(ctx context.Context, res dto.Reservation) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.published = append(e.published, res)
	return nil
}

type fixture struct {
	handler      *CommitReservationHandler
	listings     *memory.ListingRepository
	reservations *memory.ReservationRepository
	cache        *recordingCache
	events       *recordingEvents
	listingID    int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	listings := memory.NewListingRepository()
	reservations := memory.NewReservationRepository()
	listings.CascadeTo(reservations)

	l, err := listing.New(1, "Seaside Flat", "1 Harbor St", "two rooms")
	require.NoError(t, err)
	require.NoError(t, listings.Save(context.Background(), l))

	cache := &recordingCache{}
	events := &recordingEvents{}
	return &fixture{
		handler: &CommitReservationHandler{
			Listings:     listings,
			Reservations: reservations,
			Cache:        cache,
			Events:       events,
			Clock:        func() time.Time { return fixedNow },
		},
		listings:     listings,
		reservations: reservations,
		cache:        cache,
		events:       events,
		listingID:    l.ID,
	}
}

func (f *fixture) commit(t *testing.T, start, end string) (dto.Reservation, error) {
	t.Helper()
	return f.handler.Handle(context.Background(), CommitReservationCommand{
		ListingID: f.listingID,
		Name:      "Avery Quinn",
		StartDate: start,
		EndDate:   end,
	})
}

func (f *fixture) reservationCount(t *testing.T) int {
	t.Helper()
	_, total, err := f.reservations.ByListing(context.Background(), f.listingID, reservation.Page{Limit: 100})
	require.NoError(t, err)
	return total
}

func TestCommitSuccess(t *testing.T) {
	f := newFixture(t)

	res, err := f.commit(t, "2025-06-01", "2025-06-07")
	require.NoError(t, err)
	assert.NotZero(t, res.ID)
	assert.Equal(t, f.listingID, res.ListingID)
	assert.Equal(t, "2025-06-01", res.StartDate)
	assert.Equal(t, "2025-06-07", res.EndDate)
	assert.Equal(t, 7, res.DurationDays)

	assert.Equal(t, []int64{f.listingID}, f.cache.invalidated)
	require.Len(t, f.events.published, 1)
	assert.Equal(t, res.ID, f.events.published[0].ID)
}

func TestCommitInvertedRangeCreatesNothing(t *testing.T) {
	f := newFixture(t)

	_, err := f.commit(t, "2025-06-10", "2025-06-05")
	assert.ErrorIs(t, err, reservation.ErrInvertedRange)
	assert.Zero(t, f.reservationCount(t))
	assert.Empty(t, f.cache.invalidated)
}

func TestCommitPastStartRejected(t *testing.T) {
	f := newFixture(t)

	// yesterday relative to the pinned clock
	_, err := f.commit(t, "2025-05-31", "2025-06-02")
	assert.ErrorIs(t, err, reservation.ErrPastDate)
	assert.Zero(t, f.reservationCount(t))
}

func TestCommitUnknownListing(t *testing.T) {
	f := newFixture(t)

	_, err := f.handler.Handle(context.Background(), CommitReservationCommand{
		ListingID: 9999,
		Name:      "Avery Quinn",
		StartDate: "2025-06-01",
		EndDate:   "2025-06-03",
	})
	assert.ErrorIs(t, err, listing.ErrNotFound)
}

func TestCommitOverlapRejected(t *testing.T) {
	f := newFixture(t)

	_, err := f.commit(t, "2025-06-03", "2025-06-05")
	require.NoError(t, err)

	_, err = f.commit(t, "2025-06-05", "2025-06-08")
	assert.ErrorIs(t, err, reservation.ErrConflict)
	assert.Equal(t, 1, f.reservationCount(t))

	// adjacent day is not overlap
	_, err = f.commit(t, "2025-06-06", "2025-06-08")
	assert.NoError(t, err)
}

func TestCommitMissingName(t *testing.T) {
	f := newFixture(t)

	_, err := f.handler.Handle(context.Background(), CommitReservationCommand{
		ListingID: f.listingID,
		Name:      "   ",
		StartDate: "2025-06-01",
		EndDate:   "2025-06-03",
	})
	assert.ErrorIs(t, err, reservation.ErrNameRequired)
	assert.Zero(t, f.reservationCount(t))
}

// Two concurrent commits for the same listing and identical range: exactly
// one commits, the other sees a conflict.
func TestCommitConcurrentIdenticalRange(t *testing.T) {
	f := newFixture(t)

	const attempts = 16
	var committed, conflicted atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := f.commit(t, "2025-07-01", "2025-07-03")
			switch {
			case err == nil:
				committed.Add(1)
			default:
				assert.ErrorIs(t, err, reservation.ErrConflict)
				conflicted.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), committed.Load())
	assert.Equal(t, int32(attempts-1), conflicted.Load())
	assert.Equal(t, 1, f.reservationCount(t))
}

type failingListings struct{}

func (failingListings) ByID(ctx context.Context, id int64) (*listing.Listing, error) {
	return nil, assert.AnError
}
func (failingListings) All(ctx context.Context) ([]*listing.Listing, error) {
	return nil, assert.AnError
}
func (failingListings) List(ctx context.Context, p listing.Page) (listing.Result, error) {
	return listing.Result{}, assert.AnError
}
func (failingListings) Save(ctx context.Context, l *listing.Listing) error { return assert.AnError }
func (failingListings) Delete(ctx context.Context, id int64) error         { return assert.AnError }

func TestCommitStorageFaultSurfaces(t *testing.T) {
	f := newFixture(t)
	f.handler.Listings = failingListings{}

	_, err := f.commit(t, "2025-06-01", "2025-06-03")
	assert.ErrorIs(t, err, apperr.ErrStorageUnavailable)
}
