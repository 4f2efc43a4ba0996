// Package availability decides which listings are free over a candidate
// date range. Two inclusive ranges conflict iff s1 <= e2 && s2 <= e1; the
// single inequality covers the starts-inside, ends-inside and fully-contains
// cases without enumerating them.
package availability

import (
	"sort"

	"staybook/internal/domain/listing"
	"staybook/internal/domain/reservation"
)

// AvailableListings returns the listings with no reservation overlapping r,
// in ascending id order. Callers pass the reservation slice already filtered
// to the candidate range by storage; passing the full set is also correct,
// just slower.
func AvailableListings(listings []*listing.Listing, reservations []*reservation.Reservation, r reservation.DateRange) []*listing.Listing {
	blocked := make(map[int64]struct{})
	for _, res := range reservations {
		if res.Range.Overlaps(r) {
			blocked[res.ListingID] = struct{}{}
		}
	}

	free := make([]*listing.Listing, 0, len(listings))
	for _, l := range listings {
		if _, ok := blocked[l.ID]; !ok {
			free = append(free, l)
		}
	}
	sort.Slice(free, func(i, j int) bool { return free[i].ID < free[j].ID })
	return free
}

// IsAvailable reports whether none of the listing's reservations overlap r.
// A listing with zero reservations is always available.
func IsAvailable(reservations []*reservation.Reservation, r reservation.DateRange) bool {
	for _, res := range reservations {
		if res.Range.Overlaps(r) {
			return false
		}
	}
	return true
}
