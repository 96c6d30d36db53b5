package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"guestmenu-auth/app/domain"
	"guestmenu-auth/app/port"
)

// TenantRepository implements port.TenantRepository for PostgreSQL
type TenantRepository struct {
	db     DatabaseIface
	logger *slog.Logger
}

// NewTenantRepository creates a new PostgreSQL tenant repository
func NewTenantRepository(db DatabaseIface, logger *slog.Logger) port.TenantRepository {
	return &TenantRepository{
		db:     db,
		logger: logger.With("component", "tenant_repository"),
	}
}

// GetMappingByLabel retrieves the tenant mapping for a subdomain label.
// Returns domain.ErrTenantNotFound when no mapping exists.
func (r *TenantRepository) GetMappingByLabel(ctx context.Context, label string) (*domain.TenantMapping, error) {
	query := `
		SELECT subdomain_label, owner_id, created_at
		FROM tenant_mappings
		WHERE subdomain_label = $1`

	var mapping domain.TenantMapping
	err := r.db.QueryRow(ctx, query, label).Scan(
		&mapping.SubdomainLabel,
		&mapping.OwnerID,
		&mapping.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTenantNotFound
		}
		r.logger.Error("failed to get tenant mapping", "label", label, "error", err)
		return nil, fmt.Errorf("failed to get tenant mapping: %w", err)
	}

	return &mapping, nil
}

// CreateMapping inserts a tenant mapping for a subdomain label
func (r *TenantRepository) CreateMapping(ctx context.Context, mapping *domain.TenantMapping) error {
	query := `
		INSERT INTO tenant_mappings (subdomain_label, owner_id, created_at)
		VALUES ($1, $2, $3)`

	_, err := r.db.Exec(ctx, query,
		mapping.SubdomainLabel,
		mapping.OwnerID,
		mapping.CreatedAt,
	)
	if err != nil {
		r.logger.Error("failed to create tenant mapping", "label", mapping.SubdomainLabel, "error", err)
		return fmt.Errorf("failed to create tenant mapping: %w", err)
	}

	r.logger.Info("tenant mapping created", "label", mapping.SubdomainLabel, "owner_id", mapping.OwnerID)
	return nil
}
