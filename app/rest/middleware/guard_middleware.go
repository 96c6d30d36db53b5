package middleware

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"guestmenu-auth/app/domain"
	"guestmenu-auth/app/port"
)

// GuardMiddleware enforces route guard policies over the live session.
// A Wait decision answers 202 with a placeholder body rather than a
// denial, a redirect decision answers 303 with the target path, and a
// render decision passes through to the handler.
type GuardMiddleware struct {
	guard  port.GuardEvaluator
	logger *slog.Logger
}

// NewGuardMiddleware creates a new guard middleware
func NewGuardMiddleware(guard port.GuardEvaluator, logger *slog.Logger) *GuardMiddleware {
	return &GuardMiddleware{
		guard:  guard,
		logger: logger.With("component", "guard_middleware"),
	}
}

// Authenticated gates routes requiring a signed-in, verified caller
func (m *GuardMiddleware) Authenticated() echo.MiddlewareFunc {
	return m.withPolicy(domain.AuthenticatedPolicy())
}

// PublicOnly gates routes reserved for anonymous callers
func (m *GuardMiddleware) PublicOnly() echo.MiddlewareFunc {
	return m.withPolicy(domain.PublicOnlyPolicy())
}

// Roles gates routes behind an explicit role allow-list
func (m *GuardMiddleware) Roles(roles ...string) echo.MiddlewareFunc {
	return m.withPolicy(domain.RoleAllowListPolicy(roles...))
}

// WithPolicy gates routes with an arbitrary policy, typically loaded
// from the route policy file.
func (m *GuardMiddleware) WithPolicy(policy domain.GuardPolicy) echo.MiddlewareFunc {
	return m.withPolicy(policy)
}

func (m *GuardMiddleware) withPolicy(policy domain.GuardPolicy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			decision := m.guard.EvaluateSettled(c.Request().Context(), policy)

			switch decision.Action {
			case domain.GuardRender:
				return next(c)
			case domain.GuardRedirect:
				m.logger.Debug("guard redirect",
					"path", c.Request().URL.Path,
					"target", decision.RedirectPath)
				c.Response().Header().Set("Location", decision.RedirectPath)
				return c.JSON(http.StatusSeeOther, decision)
			default:
				// Session still settling; answer with a placeholder
				return c.JSON(http.StatusAccepted, decision)
			}
		}
	}
}
