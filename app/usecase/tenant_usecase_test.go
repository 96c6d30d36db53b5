package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"guestmenu-auth/app/domain"
	mock_port "guestmenu-auth/app/mocks"
	"guestmenu-auth/app/utils/logger"
)

func newTestResolver(t *testing.T) (*TenantResolver, *mock_port.MockTenantRepository, *mock_port.MockResolutionCache) {
	t.Helper()
	ctrl := gomock.NewController(t)
	tenants := mock_port.NewMockTenantRepository(ctrl)
	cache := mock_port.NewMockResolutionCache(ctrl)

	log, err := logger.NewWithWriter("error", testLogger(t))
	require.NoError(t, err)

	return NewTenantResolver(tenants, cache, "localhost", log), tenants, cache
}

func TestTenantResolver_NoCandidateLabel(t *testing.T) {
	resolver, _, _ := newTestResolver(t)

	// Bare suffix and www hosts never reach cache or repository
	for _, host := range []string{"localhost:3000", "www.localhost", "guestmenu.com"} {
		res := resolver.Resolve(context.Background(), host)
		assert.True(t, res.NoTenant(), "host %s should resolve to no tenant", host)
	}
}

func TestTenantResolver_FoundAndCached(t *testing.T) {
	resolver, tenants, cache := newTestResolver(t)

	owner := uuid.New()
	mapping := &domain.TenantMapping{SubdomainLabel: "acme", OwnerID: owner, CreatedAt: time.Now()}

	cache.EXPECT().Get("acme").Return(domain.TenantResolution{}, false)
	tenants.EXPECT().GetMappingByLabel(gomock.Any(), "acme").Return(mapping, nil)
	cache.EXPECT().Set("acme", gomock.Any()).Do(func(label string, res domain.TenantResolution) {
		assert.True(t, res.HasTenant())
		assert.Equal(t, owner, *res.OwnerID)
	})

	res := resolver.Resolve(context.Background(), "acme.localhost")
	require.True(t, res.HasTenant())
	assert.Equal(t, owner, *res.OwnerID)
	assert.Equal(t, "acme", res.Label)
}

func TestTenantResolver_CacheHitSkipsLookup(t *testing.T) {
	resolver, _, cache := newTestResolver(t)

	owner := uuid.New()
	cached := domain.TenantResolution{OwnerID: &owner, Label: "acme"}
	cache.EXPECT().Get("acme").Return(cached, true)

	res := resolver.Resolve(context.Background(), "acme.localhost")
	assert.Equal(t, cached, res)
}

func TestTenantResolver_NotFoundIsTerminalAndCached(t *testing.T) {
	resolver, tenants, cache := newTestResolver(t)

	cache.EXPECT().Get("ghost").Return(domain.TenantResolution{}, false)
	tenants.EXPECT().GetMappingByLabel(gomock.Any(), "ghost").Return(nil, domain.ErrTenantNotFound)
	cache.EXPECT().Set("ghost", domain.TenantResolution{Label: "ghost", NotFound: true})

	res := resolver.Resolve(context.Background(), "ghost.localhost")
	assert.True(t, res.NotFound)
	assert.Equal(t, "ghost", res.Label)
	assert.False(t, res.HasTenant())
}

func TestTenantResolver_LookupErrorIsNeverCached(t *testing.T) {
	resolver, tenants, cache := newTestResolver(t)

	cache.EXPECT().Get("acme").Return(domain.TenantResolution{}, false)
	tenants.EXPECT().GetMappingByLabel(gomock.Any(), "acme").Return(nil, errors.New("store unreachable"))
	// No cache.Set expectation: a transient failure must not be cached

	res := resolver.Resolve(context.Background(), "acme.localhost")
	assert.True(t, res.NotFound)
	assert.Equal(t, "acme", res.Label)
}
