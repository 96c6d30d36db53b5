package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCandidateLabel(t *testing.T) {
	tests := []struct {
		name string
		host string
		want string
	}{
		{name: "dev shape with tenant", host: "acme.localhost", want: "acme"},
		{name: "dev shape with port", host: "acme.localhost:3000", want: "acme"},
		{name: "bare dev suffix", host: "localhost", want: ""},
		{name: "bare dev suffix with port", host: "localhost:3000", want: ""},
		{name: "www on dev suffix", host: "www.localhost", want: ""},
		{name: "prod shape with tenant", host: "acme.guestmenu.com", want: "acme"},
		{name: "prod apex has no label", host: "guestmenu.com", want: ""},
		{name: "www on prod shape", host: "www.guestmenu.com", want: ""},
		{name: "uppercase host is normalized", host: "ACME.GuestMenu.com", want: "acme"},
		{name: "trailing dot is stripped", host: "acme.guestmenu.com.", want: "acme"},
		{name: "deep prod shape takes first label", host: "acme.eu.guestmenu.com", want: "acme"},
		{name: "first label equal to suffix means no tenant", host: "localhost.guestmenu.com", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CandidateLabel(tt.host, "localhost"))
		})
	}
}

func TestValidLabel(t *testing.T) {
	assert.True(t, ValidLabel("acme"))
	assert.True(t, ValidLabel("acme-pizza-2"))
	assert.False(t, ValidLabel(""))
	assert.False(t, ValidLabel("Acme"))
	assert.False(t, ValidLabel("acme.pizza"))
	assert.False(t, ValidLabel("a-very-long-label-that-exceeds-the-sixty-three-character-limit-for-dns"))
}

func TestTenantResolutionShapes(t *testing.T) {
	none := TenantResolution{}
	assert.True(t, none.NoTenant())
	assert.False(t, none.HasTenant())

	owner := uuid.New()
	found := TenantResolution{OwnerID: &owner, Label: "acme"}
	assert.False(t, found.NoTenant())
	assert.True(t, found.HasTenant())

	missing := TenantResolution{Label: "ghost", NotFound: true}
	assert.False(t, missing.NoTenant())
	assert.False(t, missing.HasTenant())
}
