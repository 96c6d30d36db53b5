package usecase

import (
	"context"
	"errors"
	"log/slog"

	"guestmenu-auth/app/domain"
	"guestmenu-auth/app/port"
)

// TenantResolver maps an inbound hostname to the owning account. Terminal
// outcomes are cached for the lifetime of a load, so navigation within
// the same load never re-resolves.
type TenantResolver struct {
	tenants   port.TenantRepository
	cache     port.ResolutionCache
	devSuffix string
	logger    *slog.Logger
}

// NewTenantResolver creates a new tenant resolver
func NewTenantResolver(tenants port.TenantRepository, cache port.ResolutionCache, devSuffix string, logger *slog.Logger) *TenantResolver {
	return &TenantResolver{
		tenants:   tenants,
		cache:     cache,
		devSuffix: devSuffix,
		logger:    logger.With("component", "tenant_resolver"),
	}
}

// Resolve decides which of the three terminal outcomes applies to the
// hostname: no tenant, tenant found, or tenant not found. A lookup miss
// is not an error: the storefront renders in not-found mode with the
// label preserved. An unreachable store resolves the same way from the
// caller's perspective but logs distinctly.
func (r *TenantResolver) Resolve(ctx context.Context, hostname string) domain.TenantResolution {
	label := domain.CandidateLabel(hostname, r.devSuffix)
	if label == "" {
		return domain.TenantResolution{}
	}

	if cached, ok := r.cache.Get(label); ok {
		return cached
	}

	mapping, err := r.tenants.GetMappingByLabel(ctx, label)
	if err != nil {
		if errors.Is(err, domain.ErrTenantNotFound) {
			res := domain.TenantResolution{Label: label, NotFound: true}
			r.cache.Set(label, res)
			r.logger.Info("no tenant mapping for label", "label", label)
			return res
		}
		// Transient failures are never cached so the next load retries
		r.logger.Error("tenant lookup failed", "label", label, "error", err)
		return domain.TenantResolution{Label: label, NotFound: true}
	}

	owner := mapping.OwnerID
	res := domain.TenantResolution{OwnerID: &owner, Label: label}
	r.cache.Set(label, res)
	r.logger.Debug("tenant resolved", "label", label, "owner_id", owner)
	return res
}
