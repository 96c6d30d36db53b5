package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guestmenu-auth/app/domain"
	"guestmenu-auth/app/utils/logger"
)

// stubGuard returns a fixed decision regardless of policy
type stubGuard struct {
	decision domain.GuardDecision
}

func (s *stubGuard) Evaluate(policy domain.GuardPolicy) domain.GuardDecision {
	return s.decision
}

func (s *stubGuard) EvaluateSettled(ctx context.Context, policy domain.GuardPolicy) domain.GuardDecision {
	return s.decision
}

func runGuarded(t *testing.T, decision domain.GuardDecision) *httptest.ResponseRecorder {
	t.Helper()

	log, err := logger.New("error")
	require.NoError(t, err)
	m := NewGuardMiddleware(&stubGuard{decision: decision}, log)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := m.Authenticated()(func(c echo.Context) error {
		return c.String(http.StatusOK, "rendered")
	})
	require.NoError(t, handler(c))
	return rec
}

func TestGuardMiddleware_RenderPassesThrough(t *testing.T) {
	rec := runGuarded(t, domain.GuardDecision{Action: domain.GuardRender})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "rendered", rec.Body.String())
}

func TestGuardMiddleware_RedirectAnswersSeeOther(t *testing.T) {
	rec := runGuarded(t, domain.GuardDecision{
		Action:       domain.GuardRedirect,
		RedirectPath: domain.DefaultGuardPaths().Login,
	})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, domain.DefaultGuardPaths().Login, rec.Header().Get("Location"))
	assert.Contains(t, rec.Body.String(), domain.DefaultGuardPaths().Login)
}

func TestGuardMiddleware_WaitAnswersAccepted(t *testing.T) {
	rec := runGuarded(t, domain.GuardDecision{Action: domain.GuardWait})

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Empty(t, rec.Header().Get("Location"))
}
