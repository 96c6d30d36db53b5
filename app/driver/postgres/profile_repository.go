package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"guestmenu-auth/app/domain"
	"guestmenu-auth/app/port"
)

// ProfileRepository implements port.ProfileRepository for PostgreSQL.
// Profile fields beyond the display name live in a jsonb column so the
// schema does not chase the storefront's profile shape.
type ProfileRepository struct {
	db     DatabaseIface
	logger *slog.Logger
}

// NewProfileRepository creates a new PostgreSQL profile repository
func NewProfileRepository(db DatabaseIface, logger *slog.Logger) port.ProfileRepository {
	return &ProfileRepository{
		db:     db,
		logger: logger.With("component", "profile_repository"),
	}
}

// GetByIdentityID retrieves the profile document for an identity.
// Returns domain.ErrProfileNotFound when none exists.
func (r *ProfileRepository) GetByIdentityID(ctx context.Context, identityID string) (*domain.Profile, error) {
	query := `
		SELECT identity_id, display_name, fields, created_at, updated_at
		FROM profiles
		WHERE identity_id = $1`

	var profile domain.Profile
	err := r.db.QueryRow(ctx, query, identityID).Scan(
		&profile.IdentityID,
		&profile.DisplayName,
		&profile.Fields,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		r.logger.Error("failed to get profile", "identity_id", identityID, "error", err)
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return &profile, nil
}

// Create writes the initial profile document for a fresh sign-up
func (r *ProfileRepository) Create(ctx context.Context, identityID string, seed domain.ProfileSeed) (*domain.Profile, error) {
	query := `
		INSERT INTO profiles (identity_id, display_name, fields, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`

	now := time.Now().UTC()
	profile := &domain.Profile{
		IdentityID:  identityID,
		DisplayName: seed.DisplayName,
		Fields:      seed.Fields,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if profile.Fields == nil {
		profile.Fields = map[string]string{}
	}

	_, err := r.db.Exec(ctx, query,
		profile.IdentityID,
		profile.DisplayName,
		profile.Fields,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("failed to create profile", "identity_id", identityID, "error", err)
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	r.logger.Info("profile created", "identity_id", identityID)
	return profile, nil
}
