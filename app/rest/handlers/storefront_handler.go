package handlers

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"guestmenu-auth/app/rest/middleware"
)

// StorefrontHandler exposes the tenancy value resolved for the request
// hostname. A not-found label is an ordinary answer, never an error.
type StorefrontHandler struct {
	logger *slog.Logger
}

// NewStorefrontHandler creates a new storefront handler
func NewStorefrontHandler(logger *slog.Logger) *StorefrontHandler {
	return &StorefrontHandler{
		logger: logger.With("component", "storefront_handler"),
	}
}

// GetContext returns the tenant resolution for the request's hostname
// @Summary Storefront tenancy context
// @Tags storefront
// @Produce json
// @Success 200 {object} domain.TenantResolution
// @Router /v1/storefront/context [get]
func (h *StorefrontHandler) GetContext(c echo.Context) error {
	res := middleware.TenantFromContext(c)
	return c.JSON(http.StatusOK, res)
}
