package middleware

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	"guestmenu-auth/app/domain"
	"guestmenu-auth/app/port"
)

// tenantContextKey is the echo context key holding the resolved tenancy
const tenantContextKey = "tenant_resolution"

// TenantMiddleware resolves the request hostname to a tenancy value and
// stores it on the request context before any handler runs.
type TenantMiddleware struct {
	resolver port.TenantResolverUsecase
	logger   *slog.Logger
}

// NewTenantMiddleware creates a new tenant middleware
func NewTenantMiddleware(resolver port.TenantResolverUsecase, logger *slog.Logger) *TenantMiddleware {
	return &TenantMiddleware{
		resolver: resolver,
		logger:   logger.With("component", "tenant_middleware"),
	}
}

// Resolve attaches the tenant resolution for the request's Host header
func (m *TenantMiddleware) Resolve() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			res := m.resolver.Resolve(c.Request().Context(), c.Request().Host)
			c.Set(tenantContextKey, res)
			return next(c)
		}
	}
}

// TenantFromContext returns the resolution stored by Resolve. The zero
// value means no tenant middleware ran or the hostname carried no label.
func TenantFromContext(c echo.Context) domain.TenantResolution {
	if res, ok := c.Get(tenantContextKey).(domain.TenantResolution); ok {
		return res
	}
	return domain.TenantResolution{}
}
