package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"guestmenu-auth/app/domain"
	"guestmenu-auth/app/port"
	"guestmenu-auth/app/utils/validator"
)

// ClaimLabelRequest claims a subdomain label for an owner account
type ClaimLabelRequest struct {
	Label   string `json:"label" validate:"required,subdomain_label"`
	OwnerID string `json:"owner_id" validate:"required,uuid4"`
}

// TenantHandler handles tenant mapping administration. Routes using it
// sit behind the superadmin role guard.
type TenantHandler struct {
	tenants   port.TenantRepository
	validator *validator.Validator
	logger    *slog.Logger
}

// NewTenantHandler creates a new tenant handler
func NewTenantHandler(tenants port.TenantRepository, v *validator.Validator, logger *slog.Logger) *TenantHandler {
	return &TenantHandler{
		tenants:   tenants,
		validator: v,
		logger:    logger.With("component", "tenant_handler"),
	}
}

// ClaimLabel writes a new subdomain-to-owner mapping
// @Summary Claim a subdomain label
// @Tags tenants
// @Accept json
// @Produce json
// @Success 201 {object} domain.TenantMapping
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /v1/tenants [post]
func (h *TenantHandler) ClaimLabel(c echo.Context) error {
	var req ClaimLabelRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	if err := h.validator.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
	if !domain.ValidLabel(req.Label) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid subdomain label"})
	}

	ownerID, err := uuid.Parse(req.OwnerID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid owner id"})
	}

	ctx := c.Request().Context()
	if _, err := h.tenants.GetMappingByLabel(ctx, req.Label); err == nil {
		return c.JSON(http.StatusConflict, ErrorResponse{Error: "label already claimed"})
	} else if !errors.Is(err, domain.ErrTenantNotFound) {
		h.logger.Error("label availability check failed", "label", req.Label, "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to check label"})
	}

	mapping := &domain.TenantMapping{
		SubdomainLabel: req.Label,
		OwnerID:        ownerID,
		CreatedAt:      time.Now().UTC(),
	}
	if err := h.tenants.CreateMapping(ctx, mapping); err != nil {
		h.logger.Error("failed to claim label", "label", req.Label, "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to claim label"})
	}

	return c.JSON(http.StatusCreated, mapping)
}

// GetMapping returns the mapping for a subdomain label
// @Summary Look up a subdomain label
// @Tags tenants
// @Produce json
// @Success 200 {object} domain.TenantMapping
// @Failure 404 {object} ErrorResponse
// @Router /v1/tenants/{label} [get]
func (h *TenantHandler) GetMapping(c echo.Context) error {
	label := c.Param("label")
	if !domain.ValidLabel(label) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid subdomain label"})
	}

	mapping, err := h.tenants.GetMappingByLabel(c.Request().Context(), label)
	if err != nil {
		if errors.Is(err, domain.ErrTenantNotFound) {
			return c.JSON(http.StatusNotFound, ErrorResponse{Error: "label not claimed"})
		}
		h.logger.Error("mapping lookup failed", "label", label, "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to look up label"})
	}

	return c.JSON(http.StatusOK, mapping)
}
