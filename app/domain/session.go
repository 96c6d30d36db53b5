package domain

import "time"

// SessionStatus represents the lifecycle state of the caller session
type SessionStatus string

const (
	SessionStatusUninitialized  SessionStatus = "uninitialized"
	SessionStatusLoading        SessionStatus = "loading"
	SessionStatusAnonymous      SessionStatus = "anonymous"
	SessionStatusPendingProfile SessionStatus = "authenticated_pending_profile"
	SessionStatusReady          SessionStatus = "authenticated_ready"
)

// IsAuthenticated returns true for statuses that carry an identity
func (s SessionStatus) IsAuthenticated() bool {
	return s == SessionStatusPendingProfile || s == SessionStatusReady
}

// IsSettled returns true once the initial provider notification has arrived
func (s SessionStatus) IsSettled() bool {
	return s != SessionStatusUninitialized && s != SessionStatusLoading
}

// Identity is the opaque handle for a signed-in end user as issued by the
// external identity provider. Token carries the signed session token whose
// claims back RoleInfo.
type Identity struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"email_verified"`
	Provider      string    `json:"provider,omitempty"`
	Token         string    `json:"-"`
	IssuedAt      time.Time `json:"issued_at,omitempty"`
}

// Profile holds the caller's display fields from the document store
type Profile struct {
	IdentityID  string            `json:"identity_id"`
	DisplayName string            `json:"display_name"`
	Fields      map[string]string `json:"fields,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// ProfileSeed is the initial profile content supplied at sign-up
type ProfileSeed struct {
	DisplayName string            `json:"display_name" validate:"required,min=1,max=100"`
	Fields      map[string]string `json:"fields,omitempty"`
}

// Session is the single process-wide record of the current caller. It is
// owned by the session manager: all other components receive value copies
// and never mutate the record directly.
type Session struct {
	Status    SessionStatus `json:"status"`
	Identity  *Identity     `json:"identity,omitempty"`
	Profile   *Profile      `json:"profile,omitempty"`
	RoleInfo  *RoleInfo     `json:"role_info,omitempty"`
	LastError error         `json:"-"`
}

// NewSession returns the uninitialized session that exists at process start
func NewSession() Session {
	return Session{Status: SessionStatusUninitialized}
}

// CheckInvariant verifies that identity presence and status agree:
// identity is nil exactly while the session is uninitialized, loading,
// or anonymous, and role data never outlives its identity.
func (s Session) CheckInvariant() error {
	if s.Status.IsAuthenticated() {
		if s.Identity == nil {
			return ErrSessionInconsistent
		}
	} else {
		if s.Identity != nil {
			return ErrSessionInconsistent
		}
		if s.RoleInfo != nil || s.Profile != nil {
			return ErrSessionInconsistent
		}
	}
	return nil
}

// Role returns the effective role tag, defaulting to guest while role
// data is absent or still resolving.
func (s Session) Role() string {
	if s.RoleInfo == nil {
		return RoleGuest
	}
	return s.RoleInfo.Role
}

// EmailVerified reports the verification flag of the current identity
func (s Session) EmailVerified() bool {
	return s.Identity != nil && s.Identity.EmailVerified
}
