package policies

import (
	"context"

	"staybook/internal/app/dto"
)

// EventsPort announces committed reservations to interested consumers.
// Publishing happens after the reservation row is durable; a publish
// failure is logged, never surfaced to the booking client.
type EventsPort interface {
	ReservationCreated(ctx context.Context, res dto.Reservation) error
}
