package memory

import (
	"context"
	"sync"

	"staybook/internal/app/dto"
)

// ListingCache is the in-process stand-in for the redis side-table. No TTL;
// entries live until Invalidate.
type ListingCache struct {
	mu      sync.RWMutex
	entries map[int64]dto.ListingDetail
}

func NewListingCache() *ListingCache {
	return &ListingCache{entries: make(map[int64]dto.ListingDetail)}
}

func (c *ListingCache) GetDetail(ctx context.Context, listingID int64) (dto.ListingDetail, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	detail, ok := c.entries[listingID]
	return detail, ok, nil
}

func (c *ListingCache) SetDetail(ctx context.Context, listingID int64, detail dto.ListingDetail) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[listingID] = detail
	return nil
}

func (c *ListingCache) Invalidate(ctx context.Context, listingID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, listingID)
	return nil
}
