package port

//go:generate mockgen -source=identity_port.go -destination=../mocks/mock_identity_port.go

import (
	"context"

	"guestmenu-auth/app/domain"
)

// NotificationFunc receives identity change notifications from the
// provider. A nil identity means the caller signed out. Notifications are
// delivered in arrival order.
type NotificationFunc func(identity *domain.Identity)

// Unsubscribe releases a provider subscription. Safe to call once; the
// session manager guarantees exactly one release at teardown.
type Unsubscribe func()

// IdentityProvider is the consumed contract of the external identity
// service. Only its public surface is modeled; token issuance, password
// hashing and the OAuth popup flow stay behind it.
type IdentityProvider interface {
	// Subscribe registers fn for session change notifications. The current
	// state is delivered as the first notification.
	Subscribe(ctx context.Context, fn NotificationFunc) (Unsubscribe, error)

	SignUp(ctx context.Context, email, password string) (*domain.Identity, error)
	SignIn(ctx context.Context, email, password string) (*domain.Identity, error)
	SignInWithProvider(ctx context.Context) (*domain.Identity, error)
	SignOut(ctx context.Context) error

	// SendVerificationEmail triggers a verification mail for the identity
	SendVerificationEmail(ctx context.Context, identityID string) error

	// Reload re-fetches the identity, including its current verification flag
	Reload(ctx context.Context, identityID string) (*domain.Identity, error)

	// DecodeClaims extracts role data from the identity's signed token.
	// A missing role claim is not an error and maps to the guest role; a
	// decode failure is returned as an error for the caller to downgrade.
	DecodeClaims(ctx context.Context, identity *domain.Identity) (*domain.RoleInfo, error)
}
