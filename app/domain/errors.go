package domain

import "errors"

// Session and identity errors
var (
	ErrSessionInconsistent = errors.New("session state inconsistent")
	ErrNotSignedIn         = errors.New("no caller is signed in")
	ErrAlreadyVerified     = errors.New("email already verified")

	// Identity provider errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrIdentityNotFound   = errors.New("identity not found")

	// Document store errors
	ErrProfileNotFound = errors.New("profile not found")
	ErrTenantNotFound  = errors.New("tenant not found")

	// Guard errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// Error codes attached to AuthError values
const (
	ErrCodeSignIn       = "SIGN_IN_FAILED"
	ErrCodeSignUp       = "SIGN_UP_FAILED"
	ErrCodeSignOut      = "SIGN_OUT_FAILED"
	ErrCodeVerification = "VERIFICATION_FAILED"
	ErrCodeProviderDown = "PROVIDER_UNAVAILABLE"
)

// AuthError wraps a failed explicit session operation. These are the only
// errors surfaced to callers; passive background fetch failures are
// recorded on the session instead and never raised.
type AuthError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AuthError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Cause
}

// NewAuthError creates a new auth operation error
func NewAuthError(code, message string, cause error) *AuthError {
	return &AuthError{Code: code, Message: message, Cause: cause}
}

// FetchError records a failed passive profile or claim fetch. It is kept
// on the session as LastError for diagnostics and must never block the
// session from reaching the ready state.
type FetchError struct {
	Resource string
	Cause    error
}

func (e *FetchError) Error() string {
	return "failed to fetch " + e.Resource + ": " + e.Cause.Error()
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// NewFetchError creates a new transient fetch error
func NewFetchError(resource string, cause error) *FetchError {
	return &FetchError{Resource: resource, Cause: cause}
}
