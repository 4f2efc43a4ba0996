// Package reservations hosts the commit flow: the validate -> check ->
// persist sequence that admits new reservations.
package reservations

import (
	"context"
	"errors"
	"log/slog"

	"staybook/internal/app/apperr"
	"staybook/internal/app/commands"
	"staybook/internal/app/dto"
	"staybook/internal/app/policies"
	"staybook/internal/domain/availability"
	"staybook/internal/domain/listing"
	"staybook/internal/domain/reservation"
)

const commitReservationKey = "reservation.commit"

// CommitReservationCommand carries the raw booking request. Dates stay
// strings here; parsing them is the first step of the flow.
type CommitReservationCommand struct {
	ListingID int64
	Name      string
	StartDate string
	EndDate   string
}

func (c CommitReservationCommand) Key() string { return commitReservationKey }

// CommitReservationHandler runs the three-stage commit flow. The overlap
// pre-check is advisory; the repository's Insert is the serialization point
// that makes the no-double-booking guarantee hold under concurrency, so a
// racing insert still comes back as ErrConflict.
type CommitReservationHandler struct {
	Listings     listing.Repository
	Reservations reservation.Repository
	Cache        policies.ListingCachePort
	Events       policies.EventsPort
	Clock        reservation.Clock
	Logger       *slog.Logger
}

func (h *CommitReservationHandler) Handle(ctx context.Context, cmd CommitReservationCommand) (dto.Reservation, error) {
	// Validating
	r, err := reservation.ParseRange(cmd.StartDate, cmd.EndDate, h.Clock())
	if err != nil {
		return dto.Reservation{}, err
	}

	// Checking
	target, err := h.Listings.ByID(ctx, cmd.ListingID)
	if err != nil {
		if errors.Is(err, listing.ErrNotFound) {
			return dto.Reservation{}, err
		}
		return dto.Reservation{}, apperr.Storage("listing lookup", err)
	}

	existing, err := h.Reservations.OverlappingForListing(ctx, target.ID, r)
	if err != nil {
		return dto.Reservation{}, apperr.Storage("overlap query", err)
	}
	if !availability.IsAvailable(existing, r) {
		return dto.Reservation{}, reservation.ErrConflict
	}

	// Committed
	res, err := reservation.New(target.ID, cmd.Name, r, h.Clock())
	if err != nil {
		return dto.Reservation{}, err
	}
	if err := h.Reservations.Insert(ctx, res); err != nil {
		if errors.Is(err, reservation.ErrConflict) {
			return dto.Reservation{}, err
		}
		return dto.Reservation{}, apperr.Storage("reservation insert", err)
	}

	h.invalidateCache(ctx, target.ID)

	out := dto.MapReservation(res)
	h.publish(ctx, out)
	return out, nil
}

// invalidateCache closes the read-after-write staleness window for detail
// reads. Failures are logged; the reservation is already durable.
func (h *CommitReservationHandler) invalidateCache(ctx context.Context, listingID int64) {
	if h.Cache == nil {
		return
	}
	if err := h.Cache.Invalidate(ctx, listingID); err != nil && h.Logger != nil {
		h.Logger.Warn("listing cache invalidation failed", "listing_id", listingID, "error", err)
	}
}

func (h *CommitReservationHandler) publish(ctx context.Context, res dto.Reservation) {
	if h.Events == nil {
		return
	}
	if err := h.Events.ReservationCreated(ctx, res); err != nil && h.Logger != nil {
		h.Logger.Warn("reservation.created publish failed", "reservation_id", res.ID, "error", err)
	}
}

var _ commands.Handler[CommitReservationCommand, dto.Reservation] = (*CommitReservationHandler)(nil)
