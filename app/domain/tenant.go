package domain

import (
	"net"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TenantMapping binds a public subdomain label to the owning account.
// Mappings are written by the onboarding flow; this core only reads them.
type TenantMapping struct {
	SubdomainLabel string    `json:"subdomain_label"`
	OwnerID        uuid.UUID `json:"owner_id"`
	CreatedAt      time.Time `json:"created_at"`
}

// labelRegex validates subdomain labels (lowercase, alphanumeric, hyphens)
var labelRegex = regexp.MustCompile(`^[a-z0-9-]+$`)

// ValidLabel reports whether s is an acceptable subdomain label
func ValidLabel(s string) bool {
	return s != "" && len(s) <= 63 && labelRegex.MatchString(s)
}

// TenantResolution is the single resolved tenancy value handed to the
// composition root. Exactly one of three shapes:
//
//	no tenant:        Label == "" (ordinary application routes)
//	tenant found:     Label set, OwnerID non-nil
//	tenant not found: Label set, OwnerID nil, NotFound true
type TenantResolution struct {
	OwnerID  *uuid.UUID `json:"owner_id,omitempty"`
	Label    string     `json:"label,omitempty"`
	NotFound bool       `json:"not_found"`
}

// NoTenant reports that the hostname carried no candidate label
func (r TenantResolution) NoTenant() bool {
	return r.Label == ""
}

// HasTenant reports that a mapping was found
func (r TenantResolution) HasTenant() bool {
	return r.OwnerID != nil
}

// CandidateLabel extracts the tenant subdomain candidate from a hostname.
// Two shapes are recognized: a development shape whose last label equals
// devSuffix (e.g. "acme.localhost"), and a production shape with at least
// three dot-separated labels (e.g. "acme.guestmenu.com"). In either shape
// the first label is the candidate, unless it equals the bare suffix or
// the literal "www", both of which mean no tenant.
func CandidateLabel(host, devSuffix string) string {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}

	parts := strings.Split(host, ".")
	dev := parts[len(parts)-1] == devSuffix
	if !dev && len(parts) < 3 {
		return ""
	}
	if dev && len(parts) < 2 {
		return ""
	}

	label := parts[0]
	if label == devSuffix || label == "www" {
		return ""
	}
	return label
}
