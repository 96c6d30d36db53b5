package cache

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"guestmenu-auth/app/domain"
)

func TestResolutionCache_SetAndGet(t *testing.T) {
	c := NewResolutionCache(time.Minute)

	owner := uuid.New()
	c.Set("acme", domain.TenantResolution{OwnerID: &owner, Label: "acme"})

	res, found := c.Get("acme")
	assert.True(t, found)
	assert.Equal(t, "acme", res.Label)
	assert.Equal(t, owner, *res.OwnerID)
}

func TestResolutionCache_MissForUnknownLabel(t *testing.T) {
	c := NewResolutionCache(time.Minute)

	_, found := c.Get("ghost")
	assert.False(t, found)
}

func TestResolutionCache_NotFoundOutcomeIsCached(t *testing.T) {
	c := NewResolutionCache(time.Minute)

	c.Set("ghost", domain.TenantResolution{Label: "ghost", NotFound: true})

	res, found := c.Get("ghost")
	assert.True(t, found)
	assert.True(t, res.NotFound)
}

func TestResolutionCache_EntriesExpire(t *testing.T) {
	c := NewResolutionCache(20 * time.Millisecond)

	owner := uuid.New()
	c.Set("acme", domain.TenantResolution{OwnerID: &owner, Label: "acme"})

	_, found := c.Get("acme")
	assert.True(t, found)

	time.Sleep(30 * time.Millisecond)

	_, found = c.Get("acme")
	assert.False(t, found)
}

func TestResolutionCache_SetOverwritesExisting(t *testing.T) {
	c := NewResolutionCache(time.Minute)

	c.Set("acme", domain.TenantResolution{Label: "acme", NotFound: true})

	owner := uuid.New()
	c.Set("acme", domain.TenantResolution{OwnerID: &owner, Label: "acme"})

	res, found := c.Get("acme")
	assert.True(t, found)
	assert.False(t, res.NotFound)
	assert.Equal(t, owner, *res.OwnerID)
}

func TestResolutionCache_CleanupRemovesExpiredEntries(t *testing.T) {
	c := NewResolutionCache(10 * time.Millisecond)

	c.Set("acme", domain.TenantResolution{Label: "acme", NotFound: true})
	time.Sleep(20 * time.Millisecond)

	c.cleanup()

	c.mu.RLock()
	_, present := c.entries["acme"]
	c.mu.RUnlock()
	assert.False(t, present)
}
