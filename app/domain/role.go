package domain

// Role tags carried in the identity's signed token. Role data gates UI
// surfaces only; the identity provider's token-claim check remains the
// source of truth for enforcement.
const (
	RoleGuest      = "guest"
	RoleManager    = "manager"
	RoleSuperAdmin = "superadmin"
)

// RoleInfo is the claim data derived from the identity's signed token.
// It is created fresh on every sign-in and provider re-authentication and
// discarded on sign-out.
type RoleInfo struct {
	Role           string `json:"role"`
	SubdomainClaim string `json:"subdomain_claim,omitempty"`
}

// GuestRoleInfo is the fail-open default used whenever the role claim is
// absent or cannot be decoded.
func GuestRoleInfo() *RoleInfo {
	return &RoleInfo{Role: RoleGuest}
}

// IsSuperAdmin reports whether the claim grants the super-admin surface
func (r *RoleInfo) IsSuperAdmin() bool {
	return r != nil && r.Role == RoleSuperAdmin
}
