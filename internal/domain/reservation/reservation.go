package reservation

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrConflict     = errors.New("reservation: range overlaps an existing reservation")
	ErrNameRequired = errors.New("reservation: guest name is required")
)

// Reservation is a confirmed booking of a listing for an inclusive date
// range. Reservations are created through the commit flow and never mutated
// afterwards.
type Reservation struct {
	ID        int64
	ListingID int64
	Name      string
	Range     DateRange
	CreatedAt time.Time
}

// New builds an unsaved reservation. The range is expected to have passed
// ParseRange already; the listing's existence and availability are the
// commit flow's responsibility.
func New(listingID int64, name string, r DateRange, now time.Time) (*Reservation, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrNameRequired
	}
	return &Reservation{
		ListingID: listingID,
		Name:      strings.TrimSpace(name),
		Range:     r,
		CreatedAt: now.UTC(),
	}, nil
}

// Page bounds a reservation listing for the reporting surface.
type Page struct {
	Offset int
	Limit  int
}

// Repository is the storage contract the core depends on. Insert MUST be
// safe under concurrent calls for the same listing: of two racing inserts
// with overlapping ranges exactly one succeeds and the other returns
// ErrConflict.
type Repository interface {
	// Overlapping returns, across all listings, every reservation whose
	// inclusive range overlaps r, ordered by listing id then start date.
	Overlapping(ctx context.Context, r DateRange) ([]*Reservation, error)

	// OverlappingForListing is the single-listing specialization used by
	// the commit flow's pre-check.
	OverlappingForListing(ctx context.Context, listingID int64, r DateRange) ([]*Reservation, error)

	// Insert persists res, assigning its ID. Returns ErrConflict when the
	// range is no longer free at the storage serialization point.
	Insert(ctx context.Context, res *Reservation) error

	// ByListing returns a listing's reservations ordered by start date.
	ByListing(ctx context.Context, listingID int64, page Page) ([]*Reservation, int, error)
}
