package dto

import (
	"staybook/internal/domain/reservation"
)

// Reservation is the public shape of a confirmed booking. Dates use the
// YYYY-MM-DD wire format; DurationDays is the inclusive day count and exists
// for reporting only.
type Reservation struct {
	ID           int64  `json:"id"`
	ListingID    int64  `json:"listing"`
	Name         string `json:"name"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	DurationDays int    `json:"duration_days"`
}

// ReservationPage is one page of a listing's reservations.
type ReservationPage struct {
	Items    []Reservation `json:"items"`
	Total    int           `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}

func MapReservation(r *reservation.Reservation) Reservation {
	return Reservation{
		ID:           r.ID,
		ListingID:    r.ListingID,
		Name:         r.Name,
		StartDate:    r.Range.Start.Format(reservation.DateFormat),
		EndDate:      r.Range.End.Format(reservation.DateFormat),
		DurationDays: r.Range.Days(),
	}
}

func MapReservations(items []*reservation.Reservation) []Reservation {
	out := make([]Reservation, 0, len(items))
	for _, r := range items {
		out = append(out, MapReservation(r))
	}
	return out
}
