package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func signedInSession(verified bool, role string) Session {
	s := Session{
		Status:   SessionStatusReady,
		Identity: &Identity{ID: "id-1", Email: "caller@example.com", EmailVerified: verified},
	}
	if role != "" {
		s.RoleInfo = &RoleInfo{Role: role}
	}
	return s
}

func TestEvaluateGuard(t *testing.T) {
	paths := DefaultGuardPaths()

	tests := []struct {
		name    string
		session Session
		policy  GuardPolicy
		want    GuardDecision
	}{
		{
			name:    "unsettled session waits regardless of policy",
			session: Session{Status: SessionStatusLoading},
			policy:  AuthenticatedPolicy(),
			want:    Wait(),
		},
		{
			name:    "uninitialized session waits",
			session: NewSession(),
			policy:  PublicOnlyPolicy(),
			want:    Wait(),
		},
		{
			name:    "public only renders for anonymous caller",
			session: Session{Status: SessionStatusAnonymous},
			policy:  PublicOnlyPolicy(),
			want:    Render(),
		},
		{
			name:    "public only bounces signed-in caller to user home",
			session: signedInSession(true, RoleManager),
			policy:  PublicOnlyPolicy(),
			want:    RedirectTo(paths.UserHome),
		},
		{
			name:    "public only bounces superadmin to admin home",
			session: signedInSession(true, RoleSuperAdmin),
			policy:  PublicOnlyPolicy(),
			want:    RedirectTo(paths.SuperAdminHome),
		},
		{
			name:    "auth guard bounces anonymous caller to login",
			session: Session{Status: SessionStatusAnonymous},
			policy:  AuthenticatedPolicy(),
			want:    RedirectTo(paths.Login),
		},
		{
			name:    "auth guard bounces unverified caller to verify screen",
			session: signedInSession(false, RoleGuest),
			policy:  AuthenticatedPolicy(),
			want:    RedirectTo(paths.VerifyEmail),
		},
		{
			name:    "auth guard renders verified caller",
			session: signedInSession(true, RoleGuest),
			policy:  AuthenticatedPolicy(),
			want:    Render(),
		},
		{
			name:    "role guard bounces anonymous caller to login",
			session: Session{Status: SessionStatusAnonymous},
			policy:  RoleAllowListPolicy(RoleManager),
			want:    RedirectTo(paths.Login),
		},
		{
			name:    "role guard waits while role info is still resolving",
			session: signedInSession(true, ""),
			policy:  RoleAllowListPolicy(RoleManager),
			want:    Wait(),
		},
		{
			name:    "role guard bounces role outside the allow-list",
			session: signedInSession(true, RoleGuest),
			policy:  RoleAllowListPolicy(RoleManager, RoleSuperAdmin),
			want:    RedirectTo(paths.Unauthorized),
		},
		{
			name:    "role guard renders allowed role",
			session: signedInSession(true, RoleSuperAdmin),
			policy:  RoleAllowListPolicy(RoleManager, RoleSuperAdmin),
			want:    Render(),
		},
		{
			name:    "role guard ignores verification flag",
			session: signedInSession(false, RoleManager),
			policy:  RoleAllowListPolicy(RoleManager),
			want:    Render(),
		},
		{
			name:    "empty policy renders anyone settled",
			session: Session{Status: SessionStatusAnonymous},
			policy:  GuardPolicy{},
			want:    Render(),
		},
		{
			name:    "pending profile is settled and renders for empty policy",
			session: Session{Status: SessionStatusPendingProfile, Identity: &Identity{ID: "id-1"}},
			policy:  GuardPolicy{},
			want:    Render(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateGuard(tt.session, tt.policy, paths)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGuardDecisionConstructors(t *testing.T) {
	assert.Equal(t, GuardWait, Wait().Action)
	assert.Equal(t, GuardRender, Render().Action)

	redirect := RedirectTo("/login")
	assert.Equal(t, GuardRedirect, redirect.Action)
	assert.Equal(t, "/login", redirect.RedirectPath)
}
