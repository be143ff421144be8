package cartsvc

import (
	"sync"

	"gearrental/model"
)

// availabilityCache holds the last fetched product+bookings view per product
// for read-side availability queries. Mutating operations never read it; they
// only invalidate so subsequent reads reflect the tentative reservation.
type availabilityCache struct {
	mu      sync.RWMutex
	entries map[int64]cacheEntry
}

type cacheEntry struct {
	product  model.Product
	bookings []model.Booking
}

func newAvailabilityCache() *availabilityCache {
	return &availabilityCache{entries: make(map[int64]cacheEntry)}
}

func (c *availabilityCache) get(productID int64) (model.Product, []model.Booking, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[productID]
	return e.product, e.bookings, ok
}

func (c *availabilityCache) put(productID int64, p model.Product, bookings []model.Booking) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[productID] = cacheEntry{product: p, bookings: bookings}
}

func (c *availabilityCache) invalidate(productID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, productID)
}
