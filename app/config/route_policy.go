package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"guestmenu-auth/app/domain"
)

// RoutePolicy describes the guard wiring of the application surface:
// where guard denials redirect to and which roles may enter the
// role-gated route groups.
type RoutePolicy struct {
	Paths        domain.GuardPaths `yaml:"paths"`
	ManagerRoles []string          `yaml:"manager_roles"`
	AdminRoles   []string          `yaml:"admin_roles"`
}

// DefaultRoutePolicy returns the built-in guard wiring
func DefaultRoutePolicy() RoutePolicy {
	return RoutePolicy{
		Paths:        domain.DefaultGuardPaths(),
		ManagerRoles: []string{domain.RoleManager, domain.RoleSuperAdmin},
		AdminRoles:   []string{domain.RoleSuperAdmin},
	}
}

// LoadRoutePolicy reads the optional YAML policy file, falling back to
// defaults when path is empty. Fields omitted from the file keep their
// default values.
func LoadRoutePolicy(path string) (RoutePolicy, error) {
	policy := DefaultRoutePolicy()
	if path == "" {
		return policy, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return policy, fmt.Errorf("failed to read route policy file: %w", err)
	}

	if err := yaml.Unmarshal(data, &policy); err != nil {
		return policy, fmt.Errorf("failed to parse route policy file: %w", err)
	}

	if err := policy.Validate(); err != nil {
		return policy, fmt.Errorf("route policy validation failed: %w", err)
	}

	return policy, nil
}

// Validate checks the policy for empty redirect targets or role lists
func (p RoutePolicy) Validate() error {
	paths := map[string]string{
		"login":           p.Paths.Login,
		"verify_email":    p.Paths.VerifyEmail,
		"unauthorized":    p.Paths.Unauthorized,
		"user_home":       p.Paths.UserHome,
		"superadmin_home": p.Paths.SuperAdminHome,
	}
	for name, path := range paths {
		if path == "" {
			return fmt.Errorf("redirect path %q must not be empty", name)
		}
	}

	if len(p.ManagerRoles) == 0 {
		return fmt.Errorf("manager_roles must not be empty")
	}
	if len(p.AdminRoles) == 0 {
		return fmt.Errorf("admin_roles must not be empty")
	}
	return nil
}
