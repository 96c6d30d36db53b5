package port

//go:generate mockgen -source=tenant_port.go -destination=../mocks/mock_tenant_port.go

import (
	"context"

	"guestmenu-auth/app/domain"
)

// TenantRepository reads subdomain-to-owner mappings. Mappings are
// written by the onboarding flow and unique per label.
type TenantRepository interface {
	// GetMappingByLabel returns the mapping for a subdomain label, or
	// domain.ErrTenantNotFound when the label is unclaimed.
	GetMappingByLabel(ctx context.Context, label string) (*domain.TenantMapping, error)

	// CreateMapping claims a subdomain label for an owner account
	CreateMapping(ctx context.Context, mapping *domain.TenantMapping) error
}

// ResolutionCache caches terminal tenant resolutions for the lifetime of
// a load. Transient lookup failures are never cached.
type ResolutionCache interface {
	Get(label string) (domain.TenantResolution, bool)
	Set(label string, res domain.TenantResolution)
}
