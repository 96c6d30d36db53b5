package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionStatusHelpers(t *testing.T) {
	assert.False(t, SessionStatusUninitialized.IsSettled())
	assert.False(t, SessionStatusLoading.IsSettled())
	assert.True(t, SessionStatusAnonymous.IsSettled())
	assert.True(t, SessionStatusPendingProfile.IsSettled())
	assert.True(t, SessionStatusReady.IsSettled())

	assert.False(t, SessionStatusAnonymous.IsAuthenticated())
	assert.True(t, SessionStatusPendingProfile.IsAuthenticated())
	assert.True(t, SessionStatusReady.IsAuthenticated())
}

func TestSessionCheckInvariant(t *testing.T) {
	tests := []struct {
		name    string
		session Session
		wantErr bool
	}{
		{name: "uninitialized session", session: NewSession()},
		{name: "anonymous session", session: Session{Status: SessionStatusAnonymous}},
		{
			name:    "ready with identity",
			session: Session{Status: SessionStatusReady, Identity: &Identity{ID: "id-1"}},
		},
		{
			name:    "ready without identity",
			session: Session{Status: SessionStatusReady},
			wantErr: true,
		},
		{
			name:    "anonymous with identity",
			session: Session{Status: SessionStatusAnonymous, Identity: &Identity{ID: "id-1"}},
			wantErr: true,
		},
		{
			name:    "anonymous with leftover role info",
			session: Session{Status: SessionStatusAnonymous, RoleInfo: GuestRoleInfo()},
			wantErr: true,
		},
		{
			name:    "anonymous with leftover profile",
			session: Session{Status: SessionStatusAnonymous, Profile: &Profile{IdentityID: "id-1"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.session.CheckInvariant()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrSessionInconsistent)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSessionRoleDefaultsToGuest(t *testing.T) {
	s := Session{Status: SessionStatusReady, Identity: &Identity{ID: "id-1"}}
	assert.Equal(t, RoleGuest, s.Role())

	s.RoleInfo = &RoleInfo{Role: RoleManager}
	assert.Equal(t, RoleManager, s.Role())
}

func TestSessionEmailVerified(t *testing.T) {
	assert.False(t, Session{Status: SessionStatusAnonymous}.EmailVerified())
	assert.False(t, signedInSession(false, RoleGuest).EmailVerified())
	assert.True(t, signedInSession(true, RoleGuest).EmailVerified())
}

func TestRoleInfoIsSuperAdmin(t *testing.T) {
	var nilInfo *RoleInfo
	assert.False(t, nilInfo.IsSuperAdmin())
	assert.False(t, GuestRoleInfo().IsSuperAdmin())
	assert.True(t, (&RoleInfo{Role: RoleSuperAdmin}).IsSuperAdmin())
}
