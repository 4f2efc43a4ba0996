// Package memory provides in-process storage for development and tests.
// The reservation repository's mutex is the serialization point that keeps
// concurrent inserts for the same listing from double-booking.
package memory

import (
	"context"
	"sort"
	"sync"

	"staybook/internal/domain/listing"
	"staybook/internal/domain/reservation"
)

// ListingRepository is a mutex-guarded map of listings.
type ListingRepository struct {
	mu     sync.RWMutex
	items  map[int64]*listing.Listing
	nextID int64

	reservations *ReservationRepository
}

// NewListingRepository builds an empty repository. Attach a reservation
// repository with CascadeTo so Delete can honor the cascade.
func NewListingRepository() *ListingRepository {
	return &ListingRepository{items: make(map[int64]*listing.Listing), nextID: 1}
}

// CascadeTo registers the reservation store whose rows die with a listing.
func (r *ListingRepository) CascadeTo(res *ReservationRepository) {
	r.reservations = res
}

func (r *ListingRepository) ByID(ctx context.Context, id int64) (*listing.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.items[id]
	if !ok {
		return nil, listing.ErrNotFound
	}
	copied := *l
	return &copied, nil
}

func (r *ListingRepository) All(ctx context.Context) ([]*listing.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedLocked(), nil
}

func (r *ListingRepository) List(ctx context.Context, page listing.Page) (listing.Result, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := r.sortedLocked()
	total := len(all)
	start := page.Offset
	if start > total {
		start = total
	}
	end := start + page.Limit
	if page.Limit <= 0 || end > total {
		end = total
	}
	return listing.Result{Items: all[start:end], Total: total}, nil
}

func (r *ListingRepository) Save(ctx context.Context, l *listing.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l.ID == 0 {
		l.ID = r.nextID
		r.nextID++
	} else if l.ID >= r.nextID {
		r.nextID = l.ID + 1
	}
	copied := *l
	r.items[l.ID] = &copied
	return nil
}

func (r *ListingRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	if _, ok := r.items[id]; !ok {
		r.mu.Unlock()
		return listing.ErrNotFound
	}
	delete(r.items, id)
	r.mu.Unlock()

	if r.reservations != nil {
		r.reservations.dropListing(id)
	}
	return nil
}

func (r *ListingRepository) sortedLocked() []*listing.Listing {
	out := make([]*listing.Listing, 0, len(r.items))
	for _, l := range r.items {
		copied := *l
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ReservationRepository keeps reservations per listing. Insert re-checks
// overlap while holding the write lock, so of two racing overlapping
// inserts exactly one wins.
type ReservationRepository struct {
	mu        sync.RWMutex
	byListing map[int64][]*reservation.Reservation
	nextID    int64
}

func NewReservationRepository() *ReservationRepository {
	return &ReservationRepository{byListing: make(map[int64][]*reservation.Reservation), nextID: 1}
}

func (r *ReservationRepository) Overlapping(ctx context.Context, cand reservation.DateRange) ([]*reservation.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*reservation.Reservation
	for _, rows := range r.byListing {
		for _, res := range rows {
			if res.Range.Overlaps(cand) {
				copied := *res
				out = append(out, &copied)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ListingID != out[j].ListingID {
			return out[i].ListingID < out[j].ListingID
		}
		return out[i].Range.Start.Before(out[j].Range.Start)
	})
	return out, nil
}

func (r *ReservationRepository) OverlappingForListing(ctx context.Context, listingID int64, cand reservation.DateRange) ([]*reservation.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.overlappingForListingLocked(listingID, cand), nil
}

func (r *ReservationRepository) overlappingForListingLocked(listingID int64, cand reservation.DateRange) []*reservation.Reservation {
	var out []*reservation.Reservation
	for _, res := range r.byListing[listingID] {
		if res.Range.Overlaps(cand) {
			copied := *res
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Range.Start.Before(out[j].Range.Start) })
	return out
}

func (r *ReservationRepository) Insert(ctx context.Context, res *reservation.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// the authoritative overlap check happens inside the lock
	if len(r.overlappingForListingLocked(res.ListingID, res.Range)) > 0 {
		return reservation.ErrConflict
	}

	res.ID = r.nextID
	r.nextID++
	copied := *res
	r.byListing[res.ListingID] = append(r.byListing[res.ListingID], &copied)
	return nil
}

func (r *ReservationRepository) ByListing(ctx context.Context, listingID int64, page reservation.Page) ([]*reservation.Reservation, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := r.byListing[listingID]
	sorted := make([]*reservation.Reservation, 0, len(rows))
	for _, res := range rows {
		copied := *res
		sorted = append(sorted, &copied)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Range.Start.Before(sorted[j].Range.Start) })

	total := len(sorted)
	start := page.Offset
	if start > total {
		start = total
	}
	end := start + page.Limit
	if page.Limit <= 0 || end > total {
		end = total
	}
	return sorted[start:end], total, nil
}

func (r *ReservationRepository) dropListing(listingID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byListing, listingID)
}
