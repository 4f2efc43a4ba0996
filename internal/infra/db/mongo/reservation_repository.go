package mongo

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainreservation "staybook/internal/domain/reservation"
)

// ReservationRepository stores each listing's reservations embedded in one
// calendar document guarded by an optimistic version. Insert reads the
// document, checks overlap in memory and writes the whole document back
// with the observed version in the filter; any racing write bumps the
// version first, so a stale writer's update matches nothing. A CAS miss
// only means the calendar moved, not that the range is taken, so Insert
// re-reads and re-checks before deciding. That makes the no-double-booking
// guarantee hold without multi-document transactions.
type ReservationRepository struct {
	db  *mongo.Database
	col *mongo.Collection
}

func NewReservationRepository(db *mongo.Database) *ReservationRepository {
	return &ReservationRepository{db: db, col: db.Collection("listing_calendars")}
}

type calendarDocument struct {
	ListingID    int64                 `bson:"_id"`
	Version      int64                 `bson:"version"`
	Reservations []reservationDocument `bson:"reservations"`
}

type reservationDocument struct {
	ID        int64  `bson:"id"`
	ListingID int64  `bson:"listing_id"`
	Name      string `bson:"name"`
	Start     int64  `bson:"start"`
	End       int64  `bson:"end"`
	CreatedAt int64  `bson:"created_at"`
}

func newReservationDocument(res *domainreservation.Reservation) reservationDocument {
	return reservationDocument{
		ID:        res.ID,
		ListingID: res.ListingID,
		Name:      res.Name,
		Start:     res.Range.Start.UnixMilli(),
		End:       res.Range.End.UnixMilli(),
		CreatedAt: res.CreatedAt.UnixMilli(),
	}
}

func (d reservationDocument) toDomain() *domainreservation.Reservation {
	return &domainreservation.Reservation{
		ID:        d.ID,
		ListingID: d.ListingID,
		Name:      d.Name,
		Range: domainreservation.DateRange{
			Start: time.UnixMilli(d.Start).UTC(),
			End:   time.UnixMilli(d.End).UTC(),
		},
		CreatedAt: time.UnixMilli(d.CreatedAt).UTC(),
	}
}

// elemOverlapFilter matches calendars holding at least one reservation that
// overlaps r: stored.start <= cand.end AND stored.end >= cand.start.
func elemOverlapFilter(r domainreservation.DateRange) bson.M {
	return bson.M{"reservations": bson.M{"$elemMatch": bson.M{
		"start": bson.M{"$lte": r.End.UnixMilli()},
		"end":   bson.M{"$gte": r.Start.UnixMilli()},
	}}}
}

func (r *ReservationRepository) Overlapping(ctx context.Context, cand domainreservation.DateRange) ([]*domainreservation.Reservation, error) {
	cur, err := r.col.Find(ctx, elemOverlapFilter(cand), options.Find().SetSort(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*domainreservation.Reservation
	for cur.Next(ctx) {
		var doc calendarDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, overlappingFromDoc(doc, cand)...)
	}
	return out, cur.Err()
}

func (r *ReservationRepository) OverlappingForListing(ctx context.Context, listingID int64, cand domainreservation.DateRange) ([]*domainreservation.Reservation, error) {
	doc, err := r.calendar(ctx, listingID)
	if err != nil {
		return nil, err
	}
	return overlappingFromDoc(doc, cand), nil
}

// maxInsertAttempts bounds the CAS retry loop; contention beyond this
// surfaces as a storage error, not a conflict.
const maxInsertAttempts = 4

var errCalendarContended = errors.New("mongo: calendar update contended")

// calendarBlocks reports whether any reservation already in the calendar
// overlaps cand. This is the only condition that may yield ErrConflict.
func calendarBlocks(doc calendarDocument, cand domainreservation.DateRange) bool {
	for _, row := range doc.Reservations {
		if row.toDomain().Range.Overlaps(cand) {
			return true
		}
	}
	return false
}

func (r *ReservationRepository) Insert(ctx context.Context, res *domainreservation.Reservation) error {
	for attempt := 0; attempt < maxInsertAttempts; attempt++ {
		doc, err := r.calendar(ctx, res.ListingID)
		if err != nil {
			return err
		}
		if calendarBlocks(doc, res.Range) {
			return domainreservation.ErrConflict
		}

		// The id is taken only after the range checks out; a CAS miss
		// below retries with a fresh one, so ids may skip under
		// contention.
		id, err := nextID(ctx, r.db, "reservations")
		if err != nil {
			return err
		}
		res.ID = id
		rows := append(append([]reservationDocument(nil), doc.Reservations...), newReservationDocument(res))

		filter := bson.M{"_id": res.ListingID, "version": doc.Version}
		update := bson.M{"$set": bson.M{"reservations": rows}, "$inc": bson.M{"version": int64(1)}}
		result, err := r.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
		if err != nil {
			res.ID = 0
			if mongo.IsDuplicateKeyError(err) {
				// upsert raced another first insert for this listing
				continue
			}
			return err
		}
		if result.MatchedCount == 0 && result.UpsertedCount == 0 {
			// calendar moved under us; re-read and re-check
			res.ID = 0
			continue
		}
		return nil
	}
	return errCalendarContended
}

func (r *ReservationRepository) ByListing(ctx context.Context, listingID int64, page domainreservation.Page) ([]*domainreservation.Reservation, int, error) {
	doc, err := r.calendar(ctx, listingID)
	if err != nil {
		return nil, 0, err
	}
	rows := make([]*domainreservation.Reservation, 0, len(doc.Reservations))
	for _, raw := range doc.Reservations {
		rows = append(rows, raw.toDomain())
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Range.Start.Before(rows[j].Range.Start) })

	total := len(rows)
	start := page.Offset
	if start > total {
		start = total
	}
	end := start + page.Limit
	if page.Limit <= 0 || end > total {
		end = total
	}
	return rows[start:end], total, nil
}

// calendar fetches a listing's calendar document, returning an empty
// version-zero document when the listing has no reservations yet.
func (r *ReservationRepository) calendar(ctx context.Context, listingID int64) (calendarDocument, error) {
	var doc calendarDocument
	err := r.col.FindOne(ctx, bson.M{"_id": listingID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return calendarDocument{ListingID: listingID}, nil
	}
	if err != nil {
		return calendarDocument{}, err
	}
	return doc, nil
}

func overlappingFromDoc(doc calendarDocument, cand domainreservation.DateRange) []*domainreservation.Reservation {
	var out []*domainreservation.Reservation
	for _, raw := range doc.Reservations {
		res := raw.toDomain()
		if res.Range.Overlaps(cand) {
			out = append(out, res)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Range.Start.Before(out[j].Range.Start) })
	return out
}
