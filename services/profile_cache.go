package services

import (
	"sync"
	"time"

	"tingles_server/models"
)

// profileCache is a short-lived cache in front of the relational adapter's
// LoadProfiles. Every write path invalidates it immediately so a reader
// always sees its own most recent write.
type profileCache struct {
	mu        sync.Mutex
	records   []models.Record
	expiresAt time.Time
	ttl       time.Duration
}

func newProfileCache(ttl time.Duration) *profileCache {
	return &profileCache{ttl: ttl}
}

func (c *profileCache) get() ([]models.Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.records == nil || time.Now().After(c.expiresAt) {
		return nil, false
	}
	return c.records, true
}

func (c *profileCache) set(records []models.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if records == nil {
		records = []models.Record{}
	}
	c.records = records
	c.expiresAt = time.Now().Add(c.ttl)
}

func (c *profileCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = nil
}
