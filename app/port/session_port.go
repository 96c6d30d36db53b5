package port

import (
	"context"

	"guestmenu-auth/app/domain"
)

// SessionUsecase is the surface the rest of the application sees: a
// read-only session snapshot plus the enumerated mutation operations.
// UI code never mutates session state directly.
type SessionUsecase interface {
	// Snapshot returns a read-only copy of the current session
	Snapshot() domain.Session

	// Watch delivers a snapshot after every session change until ctx ends
	Watch(ctx context.Context) <-chan domain.Session

	SignUp(ctx context.Context, email, password string, seed domain.ProfileSeed) error
	SignIn(ctx context.Context, email, password string) error
	SignInWithProvider(ctx context.Context) error
	SignOut(ctx context.Context) error
	ResendVerification(ctx context.Context) error

	// RefreshVerification re-fetches the verification flag for the
	// current identity and reports whether it is now verified.
	RefreshVerification(ctx context.Context) (bool, error)
}

// TenantResolverUsecase resolves an inbound hostname to a tenancy value
type TenantResolverUsecase interface {
	Resolve(ctx context.Context, hostname string) domain.TenantResolution
}

// GuardEvaluator decides whether a route may render for the current
// session. EvaluateSettled lingers briefly on a Wait decision so a
// still-loading session does not flash a denial.
type GuardEvaluator interface {
	Evaluate(policy domain.GuardPolicy) domain.GuardDecision
	EvaluateSettled(ctx context.Context, policy domain.GuardPolicy) domain.GuardDecision
}
