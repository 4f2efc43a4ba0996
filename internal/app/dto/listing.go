package dto

import (
	"staybook/internal/domain/listing"
)

// Listing is the public shape of a bookable property.
type Listing struct {
	ID          int64  `json:"id"`
	OwnerID     int64  `json:"owner"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	Description string `json:"description"`
}

// ListingPage is one page of listings for the reporting surface.
type ListingPage struct {
	Items    []Listing `json:"items"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
}

// ListingDetail pairs a listing with a page of its reservations.
type ListingDetail struct {
	Listing      Listing         `json:"listing"`
	Reservations ReservationPage `json:"reservations"`
}

func MapListing(l *listing.Listing) Listing {
	return Listing{
		ID:          l.ID,
		OwnerID:     l.OwnerID,
		Name:        l.Name,
		Address:     l.Address,
		Description: l.Description,
	}
}

func MapListings(items []*listing.Listing) []Listing {
	out := make([]Listing, 0, len(items))
	for _, l := range items {
		out = append(out, MapListing(l))
	}
	return out
}
