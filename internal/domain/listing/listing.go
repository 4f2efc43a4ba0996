package listing

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrNotFound        = errors.New("listings: listing not found")
	ErrAddressRequired = errors.New("listings: address is required")
)

// Listing is a bookable property owned by exactly one principal. The core
// never mutates a listing after creation.
type Listing struct {
	ID          int64
	OwnerID     int64
	Name        string
	Address     string
	Description string
}

// New validates and builds an unsaved listing.
func New(ownerID int64, name, address, description string) (*Listing, error) {
	if strings.TrimSpace(address) == "" {
		return nil, ErrAddressRequired
	}
	return &Listing{
		OwnerID:     ownerID,
		Name:        strings.TrimSpace(name),
		Address:     strings.TrimSpace(address),
		Description: description,
	}, nil
}

// Page bounds a listing collection read.
type Page struct {
	Offset int
	Limit  int
}

// Result is one page of listings plus the unpaginated total.
type Result struct {
	Items []*Listing
	Total int
}

// Repository is the listing storage contract. All reads return listings in
// ascending id order, the canonical order availability results follow.
type Repository interface {
	ByID(ctx context.Context, id int64) (*Listing, error)
	All(ctx context.Context) ([]*Listing, error)
	List(ctx context.Context, page Page) (Result, error)
	Save(ctx context.Context, l *Listing) error
	// Delete removes a listing and cascades to its reservations.
	Delete(ctx context.Context, id int64) error
}
