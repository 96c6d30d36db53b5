package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guestmenu-auth/app/domain"
	"guestmenu-auth/app/utils/logger"
)

// stubSessions is a minimal port.SessionUsecase for guard and poller
// tests: a settable snapshot plus a broadcast channel for Watch.
type stubSessions struct {
	mu        sync.Mutex
	snap      domain.Session
	watchers  []chan domain.Session
	refreshFn func(ctx context.Context) (bool, error)
}

func newStubSessions(snap domain.Session) *stubSessions {
	return &stubSessions{snap: snap}
}

func (s *stubSessions) set(snap domain.Session) {
	s.mu.Lock()
	s.snap = snap
	watchers := append([]chan domain.Session(nil), s.watchers...)
	s.mu.Unlock()
	for _, ch := range watchers {
		select {
		case ch <- snap:
		default:
		}
	}
}

func (s *stubSessions) Snapshot() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

func (s *stubSessions) Watch(ctx context.Context) <-chan domain.Session {
	ch := make(chan domain.Session, 8)
	s.mu.Lock()
	s.watchers = append(s.watchers, ch)
	s.mu.Unlock()
	return ch
}

func (s *stubSessions) SignUp(ctx context.Context, email, password string, seed domain.ProfileSeed) error {
	return nil
}
func (s *stubSessions) SignIn(ctx context.Context, email, password string) error { return nil }
func (s *stubSessions) SignInWithProvider(ctx context.Context) error             { return nil }
func (s *stubSessions) SignOut(ctx context.Context) error                        { return nil }
func (s *stubSessions) ResendVerification(ctx context.Context) error             { return nil }

func (s *stubSessions) RefreshVerification(ctx context.Context) (bool, error) {
	if s.refreshFn != nil {
		return s.refreshFn(ctx)
	}
	return s.Snapshot().EmailVerified(), nil
}

func newTestGuard(t *testing.T, sessions *stubSessions) *GuardUsecase {
	t.Helper()
	log, err := logger.NewWithWriter("error", testLogger(t))
	require.NoError(t, err)
	return NewGuardUsecase(sessions, domain.DefaultGuardPaths(), log)
}

func TestGuardUsecase_PolicyShortcuts(t *testing.T) {
	sessions := newStubSessions(domain.Session{Status: domain.SessionStatusAnonymous})
	guard := newTestGuard(t, sessions)

	assert.Equal(t, domain.GuardRedirect, guard.Authenticated().Action)
	assert.Equal(t, domain.GuardRender, guard.PublicOnly().Action)
	assert.Equal(t, domain.GuardRedirect, guard.RoleAllowList(domain.RoleManager).Action)
}

func TestGuardUsecase_EvaluateSettledReturnsImmediatelyWhenSettled(t *testing.T) {
	sessions := newStubSessions(domain.Session{Status: domain.SessionStatusAnonymous})
	guard := newTestGuard(t, sessions)

	decision := guard.EvaluateSettled(context.Background(), domain.PublicOnlyPolicy())
	assert.Equal(t, domain.GuardRender, decision.Action)
}

func TestGuardUsecase_EvaluateSettledObservesLateSettlement(t *testing.T) {
	sessions := newStubSessions(domain.Session{Status: domain.SessionStatusLoading})
	guard := newTestGuard(t, sessions)

	go func() {
		time.Sleep(50 * time.Millisecond)
		sessions.set(domain.Session{Status: domain.SessionStatusAnonymous})
	}()

	decision := guard.EvaluateSettled(context.Background(), domain.AuthenticatedPolicy())
	assert.Equal(t, domain.GuardRedirect, decision.Action)
	assert.Equal(t, domain.DefaultGuardPaths().Login, decision.RedirectPath)
}

func TestGuardUsecase_EvaluateSettledNeverConvertsWaitToDenial(t *testing.T) {
	sessions := newStubSessions(domain.Session{Status: domain.SessionStatusLoading})
	guard := newTestGuard(t, sessions)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	decision := guard.EvaluateSettled(ctx, domain.AuthenticatedPolicy())
	assert.Equal(t, domain.GuardWait, decision.Action)
	assert.Empty(t, decision.RedirectPath)
}
