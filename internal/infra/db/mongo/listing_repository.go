package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainlisting "staybook/internal/domain/listing"
)

type ListingRepository struct {
	db  *mongo.Database
	col *mongo.Collection
}

func NewListingRepository(db *mongo.Database) *ListingRepository {
	return &ListingRepository{db: db, col: db.Collection("listings")}
}

type listingDocument struct {
	ID          int64  `bson:"_id"`
	OwnerID     int64  `bson:"owner_id"`
	Name        string `bson:"name"`
	Address     string `bson:"address"`
	Description string `bson:"description"`
}

func (d listingDocument) toDomain() *domainlisting.Listing {
	return &domainlisting.Listing{
		ID:          d.ID,
		OwnerID:     d.OwnerID,
		Name:        d.Name,
		Address:     d.Address,
		Description: d.Description,
	}
}

func (r *ListingRepository) ByID(ctx context.Context, id int64) (*domainlisting.Listing, error) {
	var doc listingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainlisting.ErrNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *ListingRepository) All(ctx context.Context) ([]*domainlisting.Listing, error) {
	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	return decodeListings(ctx, cur)
}

func (r *ListingRepository) List(ctx context.Context, page domainlisting.Page) (domainlisting.Result, error) {
	total, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return domainlisting.Result{}, err
	}
	opts := options.Find().SetSort(bson.M{"_id": 1}).SetSkip(int64(page.Offset))
	if page.Limit > 0 {
		opts.SetLimit(int64(page.Limit))
	}
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return domainlisting.Result{}, err
	}
	items, err := decodeListings(ctx, cur)
	if err != nil {
		return domainlisting.Result{}, err
	}
	return domainlisting.Result{Items: items, Total: int(total)}, nil
}

func (r *ListingRepository) Save(ctx context.Context, l *domainlisting.Listing) error {
	if l.ID == 0 {
		id, err := nextID(ctx, r.db, "listings")
		if err != nil {
			return err
		}
		l.ID = id
	}
	update := bson.M{"$set": bson.M{
		"owner_id":    l.OwnerID,
		"name":        l.Name,
		"address":     l.Address,
		"description": l.Description,
	}}
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": l.ID}, update, options.Update().SetUpsert(true))
	return err
}

// Delete removes the listing and cascades to its reservations.
func (r *ListingRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainlisting.ErrNotFound
	}
	_, err = r.db.Collection("listing_calendars").DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func decodeListings(ctx context.Context, cur *mongo.Cursor) ([]*domainlisting.Listing, error) {
	defer cur.Close(ctx)
	var out []*domainlisting.Listing
	for cur.Next(ctx) {
		var doc listingDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toDomain())
	}
	return out, cur.Err()
}
