package port

//go:generate mockgen -source=profile_port.go -destination=../mocks/mock_profile_port.go

import (
	"context"

	"guestmenu-auth/app/domain"
)

// ProfileRepository is the consumed contract of the document store for
// caller profiles. Menu, item and order documents are out of scope.
type ProfileRepository interface {
	// GetByIdentityID returns the profile document for an identity, or
	// domain.ErrProfileNotFound when none exists.
	GetByIdentityID(ctx context.Context, identityID string) (*domain.Profile, error)

	// Create writes the initial profile document for a fresh sign-up
	Create(ctx context.Context, identityID string, seed domain.ProfileSeed) (*domain.Profile, error)
}
