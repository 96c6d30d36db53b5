package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"guestmenu-auth/app/domain"
	"guestmenu-auth/app/port"
	"guestmenu-auth/app/utils/validator"
)

// ErrorResponse is the uniform error body for all handlers
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// SignUpRequest is the sign-up request body
type SignUpRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,password"`
	DisplayName string `json:"display_name" validate:"required,min=1,max=100"`
}

// SignInRequest is the credential sign-in request body
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// VerificationResponse reports the outcome of a verification wait
type VerificationResponse struct {
	Verified bool `json:"verified"`
}

// SessionHandler handles session lifecycle HTTP requests
type SessionHandler struct {
	sessions  port.SessionUsecase
	validator *validator.Validator
	logger    *slog.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions port.SessionUsecase, v *validator.Validator, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		sessions:  sessions,
		validator: v,
		logger:    logger.With("component", "session_handler"),
	}
}

// GetSession returns a read-only snapshot of the current session
// @Summary Current session snapshot
// @Tags session
// @Produce json
// @Success 200 {object} domain.Session
// @Router /v1/auth/session [get]
func (h *SessionHandler) GetSession(c echo.Context) error {
	return c.JSON(http.StatusOK, h.sessions.Snapshot())
}

// SignUp registers a new caller and seeds their profile
// @Summary Sign up
// @Tags session
// @Accept json
// @Produce json
// @Success 201 {object} domain.Session
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /v1/auth/signup [post]
func (h *SessionHandler) SignUp(c echo.Context) error {
	var req SignUpRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	if err := h.validator.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	seed := domain.ProfileSeed{DisplayName: req.DisplayName}
	if err := h.sessions.SignUp(c.Request().Context(), req.Email, req.Password, seed); err != nil {
		return h.operationError(c, err)
	}

	return c.JSON(http.StatusCreated, h.sessions.Snapshot())
}

// SignIn authenticates with email and password
// @Summary Sign in
// @Tags session
// @Accept json
// @Produce json
// @Success 200 {object} domain.Session
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /v1/auth/login [post]
func (h *SessionHandler) SignIn(c echo.Context) error {
	var req SignInRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	if err := h.validator.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	if err := h.sessions.SignIn(c.Request().Context(), req.Email, req.Password); err != nil {
		return h.operationError(c, err)
	}

	return c.JSON(http.StatusOK, h.sessions.Snapshot())
}

// SignInWithProvider authenticates through the configured OIDC provider
// @Summary Sign in with external provider
// @Tags session
// @Produce json
// @Success 200 {object} domain.Session
// @Failure 401 {object} ErrorResponse
// @Router /v1/auth/login/provider [post]
func (h *SessionHandler) SignInWithProvider(c echo.Context) error {
	if err := h.sessions.SignInWithProvider(c.Request().Context()); err != nil {
		return h.operationError(c, err)
	}

	return c.JSON(http.StatusOK, h.sessions.Snapshot())
}

// SignOut revokes the current session
// @Summary Sign out
// @Tags session
// @Produce json
// @Success 200 {object} domain.Session
// @Failure 500 {object} ErrorResponse
// @Router /v1/auth/logout [post]
func (h *SessionHandler) SignOut(c echo.Context) error {
	if err := h.sessions.SignOut(c.Request().Context()); err != nil {
		return h.operationError(c, err)
	}

	return c.JSON(http.StatusOK, h.sessions.Snapshot())
}

// ResendVerification re-sends the verification email for the signed-in caller
// @Summary Resend verification email
// @Tags session
// @Produce json
// @Success 202 "Verification email queued"
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /v1/auth/verification/resend [post]
func (h *SessionHandler) ResendVerification(c echo.Context) error {
	if err := h.sessions.ResendVerification(c.Request().Context()); err != nil {
		return h.operationError(c, err)
	}

	return c.NoContent(http.StatusAccepted)
}

// RefreshVerification re-fetches the verification flag once
// @Summary Refresh verification state
// @Tags session
// @Produce json
// @Success 200 {object} VerificationResponse
// @Failure 401 {object} ErrorResponse
// @Router /v1/auth/verification [get]
func (h *SessionHandler) RefreshVerification(c echo.Context) error {
	verified, err := h.sessions.RefreshVerification(c.Request().Context())
	if err != nil {
		return h.operationError(c, err)
	}

	return c.JSON(http.StatusOK, VerificationResponse{Verified: verified})
}

// operationError maps usecase errors to HTTP status codes
func (h *SessionHandler) operationError(c echo.Context, err error) error {
	var authErr *domain.AuthError
	code := ""
	if errors.As(err, &authErr) {
		code = authErr.Code
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrNotSignedIn):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrUserAlreadyExists),
		errors.Is(err, domain.ErrAlreadyVerified):
		status = http.StatusConflict
	}

	h.logger.Warn("session operation failed",
		"path", c.Request().URL.Path,
		"status", status,
		"error", err)

	return c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
}
