// Copyright Open-Xchange GmbH and each contributor to OX App Suite.
// SPDX-License-Identifier: AGPL-3.0-or-later

package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func TestHasRecentChange(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)}
	cache := NewAttachmentCache(10*time.Minute, clock.Now)

	assert.False(t, cache.HasRecentChange(1, 7))

	cache.RememberChange(1, 7)
	assert.True(t, cache.HasRecentChange(1, 7))
	assert.False(t, cache.HasRecentChange(1, 8), "different event")
	assert.False(t, cache.HasRecentChange(2, 7), "different context")

	clock.Advance(10 * time.Minute)
	assert.True(t, cache.HasRecentChange(1, 7), "still inside the window")

	clock.Advance(time.Second)
	assert.False(t, cache.HasRecentChange(1, 7))
}

func TestRememberChangeRefreshesEntry(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)}
	cache := NewAttachmentCache(10*time.Minute, clock.Now)

	cache.RememberChange(1, 7)
	clock.Advance(9 * time.Minute)
	cache.RememberChange(1, 7)
	clock.Advance(9 * time.Minute)

	assert.True(t, cache.HasRecentChange(1, 7))
	assert.Equal(t, 1, cache.Len())
}

func TestPurge(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)}
	cache := NewAttachmentCache(10*time.Minute, clock.Now)

	cache.RememberChange(1, 7)
	clock.Advance(11 * time.Minute)
	cache.RememberChange(1, 8)

	assert.Equal(t, 2, cache.Len())
	assert.Equal(t, 1, cache.Purge())
	assert.Equal(t, 1, cache.Len())
	assert.True(t, cache.HasRecentChange(1, 8))
	assert.False(t, cache.HasRecentChange(1, 7))
}

func TestNewAttachmentCacheDefaults(t *testing.T) {
	cache := NewAttachmentCache(0, nil)

	assert.Equal(t, DefaultTTL, cache.ttl)
	cache.RememberChange(1, 7)
	assert.True(t, cache.HasRecentChange(1, 7))
}
