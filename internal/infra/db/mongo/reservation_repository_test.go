package mongo

import (
	"context"
	"errors"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainreservation "staybook/internal/domain/reservation"
)

func span(t *testing.T, start, end string) domainreservation.DateRange {
	t.Helper()
	s, err := time.Parse(domainreservation.DateFormat, start)
	require.NoError(t, err)
	e, err := time.Parse(domainreservation.DateFormat, end)
	require.NoError(t, err)
	return domainreservation.DateRange{Start: s.UTC(), End: e.UTC()}
}

func TestCalendarBlocksOnlyOnOverlap(t *testing.T) {
	held := &domainreservation.Reservation{
		ID:        1,
		ListingID: 7,
		Name:      "guest",
		Range:     span(t, "2025-07-01", "2025-07-07"),
		CreatedAt: time.Now().UTC(),
	}
	doc := calendarDocument{
		ListingID:    7,
		Version:      3,
		Reservations: []reservationDocument{newReservationDocument(held)},
	}

	assert.True(t, calendarBlocks(doc, span(t, "2025-07-07", "2025-07-09")), "shared end day")
	assert.True(t, calendarBlocks(doc, span(t, "2025-06-25", "2025-07-01")), "shared start day")
	assert.True(t, calendarBlocks(doc, span(t, "2025-06-01", "2025-08-01")), "containing range")
	assert.False(t, calendarBlocks(doc, span(t, "2025-07-08", "2025-07-10")), "starts the day after")
	assert.False(t, calendarBlocks(doc, span(t, "2025-06-20", "2025-06-30")), "ends the day before")
	assert.False(t, calendarBlocks(calendarDocument{}, span(t, "2025-07-01", "2025-07-07")), "empty calendar")
}

// Integration tests below need a reachable mongod; set MONGO_URI to run them.

func newIntegrationRepo(t *testing.T) *ReservationRepository {
	t.Helper()
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}
	client, err := New(uri, "staybook_test_"+strconv.FormatInt(time.Now().UnixNano(), 10))
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = client.DB.Drop(ctx)
		_ = client.DB.Client().Disconnect(ctx)
	})
	return NewReservationRepository(client.DB)
}

func TestInsertConcurrentOverlappingOneWins(t *testing.T) {
	repo := newIntegrationRepo(t)
	ctx := context.Background()
	r := span(t, "2025-07-01", "2025-07-07")

	const writers = 8
	var wg sync.WaitGroup
	var committed, conflicted atomic.Int32
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res := &domainreservation.Reservation{
				ListingID: 1,
				Name:      "guest " + strconv.Itoa(i),
				Range:     r,
				CreatedAt: time.Now().UTC(),
			}
			switch err := repo.Insert(ctx, res); {
			case err == nil:
				committed.Add(1)
			case errors.Is(err, domainreservation.ErrConflict):
				conflicted.Add(1)
			default:
				t.Errorf("unexpected insert error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.EqualValues(t, 1, committed.Load())
	assert.EqualValues(t, writers-1, conflicted.Load())
}

func TestInsertConcurrentDisjointAllSucceed(t *testing.T) {
	repo := newIntegrationRepo(t)
	ctx := context.Background()

	const writers = 4
	var wg sync.WaitGroup
	var committed atomic.Int32
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			start := time.Date(2025, 8, 1+7*i, 0, 0, 0, 0, time.UTC)
			res := &domainreservation.Reservation{
				ListingID: 1,
				Name:      "guest " + strconv.Itoa(i),
				Range:     domainreservation.DateRange{Start: start, End: start.AddDate(0, 0, 6)},
				CreatedAt: time.Now().UTC(),
			}
			if err := repo.Insert(ctx, res); err != nil {
				t.Errorf("disjoint insert rejected: %v", err)
				return
			}
			committed.Add(1)
		}(i)
	}
	wg.Wait()

	require.EqualValues(t, writers, committed.Load())
	rows, total, err := repo.ByListing(ctx, 1, domainreservation.Page{Limit: writers})
	require.NoError(t, err)
	assert.Equal(t, writers, total)
	assert.Len(t, rows, writers)
}

func TestInsertRejectsOverlapAcrossCalls(t *testing.T) {
	repo := newIntegrationRepo(t)
	ctx := context.Background()

	first := &domainreservation.Reservation{
		ListingID: 2,
		Name:      "first guest",
		Range:     span(t, "2025-09-01", "2025-09-05"),
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Insert(ctx, first))
	assert.NotZero(t, first.ID)

	second := &domainreservation.Reservation{
		ListingID: 2,
		Name:      "second guest",
		Range:     span(t, "2025-09-05", "2025-09-08"),
		CreatedAt: time.Now().UTC(),
	}
	err := repo.Insert(ctx, second)
	require.ErrorIs(t, err, domainreservation.ErrConflict)
	assert.Zero(t, second.ID)

	adjacent := &domainreservation.Reservation{
		ListingID: 2,
		Name:      "third guest",
		Range:     span(t, "2025-09-06", "2025-09-08"),
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Insert(ctx, adjacent))
}
