package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"guestmenu-auth/app/domain"
	"guestmenu-auth/app/usecase"
)

// VerificationHandler long-polls the verification poller on behalf of
// the verify-email screen. The request context is the owning screen:
// client disconnect cancels the poll and releases the timer.
type VerificationHandler struct {
	poller *usecase.VerificationPoller
	logger *slog.Logger
}

// NewVerificationHandler creates a new verification handler
func NewVerificationHandler(poller *usecase.VerificationPoller, logger *slog.Logger) *VerificationHandler {
	return &VerificationHandler{
		poller: poller,
		logger: logger.With("component", "verification_handler"),
	}
}

// Wait blocks until the caller's email verification flag flips or the
// request is cancelled
// @Summary Wait for email verification
// @Tags session
// @Produce json
// @Success 200 {object} VerificationResponse
// @Failure 401 {object} ErrorResponse
// @Router /v1/auth/verification/wait [get]
func (h *VerificationHandler) Wait(c echo.Context) error {
	verified, err := h.poller.Wait(c.Request().Context())
	if err != nil {
		if errors.Is(err, domain.ErrNotSignedIn) {
			return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			// Screen dismissed; nothing to report
			return c.NoContent(http.StatusNoContent)
		}
		h.logger.Error("verification wait failed", "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}

	return c.JSON(http.StatusOK, VerificationResponse{Verified: verified})
}
