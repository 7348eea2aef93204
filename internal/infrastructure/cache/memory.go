// Copyright Open-Xchange GmbH and each contributor to OX App Suite.
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cache remembers recent attachment changes per event, so that
// updates whose diff is empty can still be recognized as attachment-only.
package cache

import (
	"sync"
	"time"

	"github.com/open-xchange/appsuite-middleware-sub049/internal/domain"
)

// DefaultTTL is how long an attachment change is considered recent.
const DefaultTTL = 10 * time.Minute

type entryKey struct {
	contextID int
	objectID  int
}

// AttachmentCache is an in-memory, TTL-bounded record of attachment changes,
// keyed by (context, event). Safe for concurrent use.
type AttachmentCache struct {
	mu      sync.RWMutex
	entries map[entryKey]time.Time
	ttl     time.Duration
	now     func() time.Time
}

// NewAttachmentCache creates a cache with the given TTL; a nil clock uses
// the wall clock.
func NewAttachmentCache(ttl time.Duration, now func() time.Time) *AttachmentCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if now == nil {
		now = time.Now
	}
	return &AttachmentCache{
		entries: make(map[entryKey]time.Time),
		ttl:     ttl,
		now:     now,
	}
}

// Ensure [AttachmentCache] implements [domain.AttachmentMemory]
var _ domain.AttachmentMemory = (*AttachmentCache)(nil)

// RememberChange records that the attachments of an event changed just now.
func (c *AttachmentCache) RememberChange(contextID, objectID int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[entryKey{contextID, objectID}] = c.now()
}

// HasRecentChange reports whether an attachment change was recorded for the
// event within the TTL window.
func (c *AttachmentCache) HasRecentChange(contextID, objectID int) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	recorded, ok := c.entries[entryKey{contextID, objectID}]
	if !ok {
		return false
	}
	return c.now().Sub(recorded) <= c.ttl
}

// Purge drops expired entries and returns how many were removed.
func (c *AttachmentCache) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	cutoff := c.now().Add(-c.ttl)
	removed := 0
	for key, recorded := range c.entries {
		if recorded.Before(cutoff) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of live entries, counting expired ones until the
// next purge.
func (c *AttachmentCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
