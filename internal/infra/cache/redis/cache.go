// Package redis implements the listing snapshot cache on go-redis. Values
// are JSON blobs keyed by listing id, no TTL; the commit flow owns
// invalidation.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"staybook/internal/app/dto"
	"staybook/internal/app/policies"
)

const detailKeyPrefix = "listing:detail:"

type ListingCache struct {
	client *redis.Client
}

func NewListingCache(client *redis.Client) *ListingCache {
	return &ListingCache{client: client}
}

func detailKey(listingID int64) string {
	return detailKeyPrefix + strconv.FormatInt(listingID, 10)
}

func (c *ListingCache) GetDetail(ctx context.Context, listingID int64) (dto.ListingDetail, bool, error) {
	raw, err := c.client.Get(ctx, detailKey(listingID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return dto.ListingDetail{}, false, nil
	}
	if err != nil {
		return dto.ListingDetail{}, false, err
	}
	var detail dto.ListingDetail
	if err := json.Unmarshal(raw, &detail); err != nil {
		// a corrupt entry behaves like a miss; the next Set repairs it
		return dto.ListingDetail{}, false, fmt.Errorf("redis: corrupt cache entry for listing %d: %w", listingID, err)
	}
	return detail, true, nil
}

func (c *ListingCache) SetDetail(ctx context.Context, listingID int64, detail dto.ListingDetail) error {
	raw, err := json.Marshal(detail)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, detailKey(listingID), raw, 0).Err()
}

func (c *ListingCache) Invalidate(ctx context.Context, listingID int64) error {
	return c.client.Del(ctx, detailKey(listingID)).Err()
}

var _ policies.ListingCachePort = (*ListingCache)(nil)
