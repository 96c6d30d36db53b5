package domain

// GuardAction enumerates the three possible guard outcomes. Guards never
// answer with a bare boolean so callers can tell "still loading" apart
// from "denied".
type GuardAction string

const (
	GuardWait     GuardAction = "wait"
	GuardRedirect GuardAction = "redirect"
	GuardRender   GuardAction = "render"
)

// GuardDecision is the output contract of every route guard
type GuardDecision struct {
	Action       GuardAction `json:"action"`
	RedirectPath string      `json:"redirect_path,omitempty"`
}

// Wait tells the caller to keep showing a placeholder
func Wait() GuardDecision {
	return GuardDecision{Action: GuardWait}
}

// RedirectTo denies rendering and names the path to send the caller to
func RedirectTo(path string) GuardDecision {
	return GuardDecision{Action: GuardRedirect, RedirectPath: path}
}

// Render allows the requested route to render
func Render() GuardDecision {
	return GuardDecision{Action: GuardRender}
}

// GuardPolicy parameterizes the single guard decision function. The three
// route guard variants are policies over the same priority rules, so the
// ordering lives in exactly one place.
type GuardPolicy struct {
	RequireAuth   bool     `yaml:"require_auth"`
	RequireUnauth bool     `yaml:"require_unauth"`
	AllowedRoles  []string `yaml:"allowed_roles"`
}

// AuthenticatedPolicy gates routes that need a signed-in, verified caller
func AuthenticatedPolicy() GuardPolicy {
	return GuardPolicy{RequireAuth: true}
}

// PublicOnlyPolicy gates routes that only anonymous callers may see
func PublicOnlyPolicy() GuardPolicy {
	return GuardPolicy{RequireUnauth: true}
}

// RoleAllowListPolicy gates routes behind an explicit role allow-list
func RoleAllowListPolicy(roles ...string) GuardPolicy {
	return GuardPolicy{AllowedRoles: roles}
}

// GuardPaths names the redirect targets used by guard decisions
type GuardPaths struct {
	Login          string `yaml:"login"`
	VerifyEmail    string `yaml:"verify_email"`
	Unauthorized   string `yaml:"unauthorized"`
	UserHome       string `yaml:"user_home"`
	SuperAdminHome string `yaml:"superadmin_home"`
}

// DefaultGuardPaths returns the built-in redirect targets
func DefaultGuardPaths() GuardPaths {
	return GuardPaths{
		Login:          "/login",
		VerifyEmail:    "/verify-email",
		Unauthorized:   "/unauthorized",
		UserHome:       "/home",
		SuperAdminHome: "/admin",
	}
}

// EvaluateGuard decides whether a route may render for the given session.
// Rules are evaluated in fixed priority order, first match wins:
//
//  1. session not yet settled -> Wait
//  2. public-only: signed-in callers bounce to their role's home
//  3. auth/role guards: anonymous callers bounce to login
//  4. auth guard: unverified email bounces to the verification screen
//  5. role guard: a nil RoleInfo means the role is still resolving, so
//     Wait rather than deny prematurely; a role outside the allow-list
//     bounces to the unauthorized page
//
// Decisions are never cached: callers re-evaluate on every session change.
func EvaluateGuard(s Session, p GuardPolicy, paths GuardPaths) GuardDecision {
	if !s.Status.IsSettled() {
		return Wait()
	}

	if p.RequireUnauth {
		if s.Identity != nil {
			if s.RoleInfo.IsSuperAdmin() {
				return RedirectTo(paths.SuperAdminHome)
			}
			return RedirectTo(paths.UserHome)
		}
		return Render()
	}

	if p.RequireAuth || len(p.AllowedRoles) > 0 {
		if s.Identity == nil {
			return RedirectTo(paths.Login)
		}
		if p.RequireAuth && !s.Identity.EmailVerified {
			return RedirectTo(paths.VerifyEmail)
		}
		if len(p.AllowedRoles) > 0 {
			if s.RoleInfo == nil {
				return Wait()
			}
			for _, role := range p.AllowedRoles {
				if s.RoleInfo.Role == role {
					return Render()
				}
			}
			return RedirectTo(paths.Unauthorized)
		}
	}

	return Render()
}
