package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"guestmenu-auth/app/domain"
	"guestmenu-auth/app/port"
)

// notificationBuffer bounds the queue of provider notifications; the
// processing loop drains it in arrival order.
const notificationBuffer = 16

// watchBuffer bounds each watcher channel; slow watchers miss
// intermediate snapshots but always observe the latest state eventually.
const watchBuffer = 8

// SessionManager owns the process-wide session record. It is the single
// writer: provider notifications and the explicit operations below are
// the only mutation entry points. Everyone else reads snapshots.
type SessionManager struct {
	provider port.IdentityProvider
	profiles port.ProfileRepository
	logger   *slog.Logger

	mu       sync.RWMutex
	session  domain.Session
	watchers map[int]chan domain.Session
	nextID   int

	notifications chan *domain.Identity
	done          chan struct{}
	unsubscribe   port.Unsubscribe
	closeOnce     sync.Once
}

// NewSessionManager creates the session manager in the uninitialized state
func NewSessionManager(provider port.IdentityProvider, profiles port.ProfileRepository, logger *slog.Logger) *SessionManager {
	return &SessionManager{
		provider:      provider,
		profiles:      profiles,
		logger:        logger.With("component", "session_manager"),
		session:       domain.NewSession(),
		watchers:      make(map[int]chan domain.Session),
		notifications: make(chan *domain.Identity, notificationBuffer),
		done:          make(chan struct{}),
	}
}

// Start subscribes to the provider's session change notifications and
// begins processing them in arrival order. The session stays in the
// loading state until the first notification lands.
func (m *SessionManager) Start(ctx context.Context) error {
	m.mu.Lock()
	m.session = domain.Session{Status: domain.SessionStatusLoading}
	snap := m.session
	m.mu.Unlock()
	m.publish(snap)

	unsubscribe, err := m.provider.Subscribe(ctx, m.enqueue)
	if err != nil {
		return fmt.Errorf("failed to subscribe to identity provider: %w", err)
	}
	m.unsubscribe = unsubscribe

	go m.loop(ctx)

	m.logger.Info("session manager started")
	return nil
}

// Close releases the provider subscription exactly once and stops the
// notification loop.
func (m *SessionManager) Close() {
	m.closeOnce.Do(func() {
		if m.unsubscribe != nil {
			m.unsubscribe()
		}
		close(m.done)
		m.logger.Info("session manager closed")
	})
}

// enqueue feeds a provider notification into the processing loop
func (m *SessionManager) enqueue(identity *domain.Identity) {
	select {
	case m.notifications <- identity:
	case <-m.done:
	}
}

// loop processes notifications one at a time, preserving arrival order
func (m *SessionManager) loop(ctx context.Context) {
	for {
		select {
		case identity := <-m.notifications:
			m.handleNotification(ctx, identity)
		case <-m.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

// handleNotification applies a single provider notification. A nil
// identity means signed out; a non-nil identity enters the pending state
// and kicks off the profile and claim fetches.
func (m *SessionManager) handleNotification(ctx context.Context, identity *domain.Identity) {
	if identity == nil {
		m.applySignedOut()
		return
	}
	m.applySignedIn(ctx, identity)
}

// applySignedOut clears identity, profile and role data
func (m *SessionManager) applySignedOut() {
	m.mu.Lock()
	m.session = domain.Session{Status: domain.SessionStatusAnonymous, LastError: m.session.LastError}
	snap := m.session
	m.mu.Unlock()
	m.publish(snap)
	m.logger.Info("session is now anonymous")
}

// applySignedIn records the identity, enters the pending state and
// starts the concurrent profile and claim fetches. Role data is rebuilt
// from scratch on every sign-in and re-authentication.
func (m *SessionManager) applySignedIn(ctx context.Context, identity *domain.Identity) {
	ident := *identity

	m.mu.Lock()
	// Explicit operations apply the identity directly and the provider
	// echoes the same identity through the notification path; the second
	// arrival must not re-enter the pending state or start another fetch
	// round.
	current := m.session.Identity
	if m.session.Status.IsAuthenticated() && current != nil &&
		current.ID == ident.ID && current.Token == ident.Token {
		m.mu.Unlock()
		m.logger.Debug("ignoring duplicate sign-in for current identity", "identity_id", ident.ID)
		return
	}
	m.session = domain.Session{
		Status:    domain.SessionStatusPendingProfile,
		Identity:  &ident,
		LastError: m.session.LastError,
	}
	snap := m.session
	m.mu.Unlock()
	m.publish(snap)

	m.logger.Info("caller authenticated, resolving profile and role", "identity_id", ident.ID)

	go m.loadIdentityData(ctx, &ident)
}

// loadIdentityData fetches the profile document and decodes role claims
// concurrently, then applies the results only if the identity they were
// started for is still current. Fetch failures never strand the session:
// the ready state is always reached, with nil profile or guest role.
func (m *SessionManager) loadIdentityData(ctx context.Context, identity *domain.Identity) {
	var (
		profile  *domain.Profile
		roleInfo *domain.RoleInfo
		fetchErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := m.profiles.GetByIdentityID(gctx, identity.ID)
		if err != nil {
			if errors.Is(err, domain.ErrProfileNotFound) {
				return nil
			}
			m.logger.Warn("profile fetch failed", "identity_id", identity.ID, "error", err)
			fetchErr = domain.NewFetchError("profile", err)
			return nil
		}
		profile = p
		return nil
	})
	g.Go(func() error {
		r, err := m.provider.DecodeClaims(gctx, identity)
		if err != nil {
			// Role gates UI only, so fail open to least privilege
			m.logger.Warn("claim decode failed, defaulting to guest role", "identity_id", identity.ID, "error", err)
			roleInfo = domain.GuestRoleInfo()
			return nil
		}
		roleInfo = r
		return nil
	})
	_ = g.Wait()

	if roleInfo == nil {
		roleInfo = domain.GuestRoleInfo()
	}

	m.mu.Lock()
	current := m.session.Identity
	if current == nil || current.ID != identity.ID {
		m.mu.Unlock()
		m.logger.Debug("discarding stale identity data", "fetched_for", identity.ID)
		return
	}
	m.session.Profile = profile
	m.session.RoleInfo = roleInfo
	if fetchErr != nil {
		m.session.LastError = fetchErr
	}
	m.session.Status = domain.SessionStatusReady
	snap := m.session
	m.mu.Unlock()
	m.publish(snap)

	m.logger.Info("session ready",
		"identity_id", identity.ID,
		"role", roleInfo.Role,
		"profile_present", profile != nil)
}

// SignUp registers a new caller. The profile document creation and the
// verification email send are both attempted even if one fails; the
// first failure is surfaced after both attempts.
func (m *SessionManager) SignUp(ctx context.Context, email, password string, seed domain.ProfileSeed) error {
	m.clearLastError()

	identity, err := m.provider.SignUp(ctx, email, password)
	if err != nil {
		return m.failOperation(domain.ErrCodeSignUp, "sign up failed", err)
	}

	var firstErr error
	if _, err := m.profiles.Create(ctx, identity.ID, seed); err != nil {
		firstErr = fmt.Errorf("failed to create profile: %w", err)
	}
	if err := m.provider.SendVerificationEmail(ctx, identity.ID); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("failed to send verification email: %w", err)
	}

	m.applySignedIn(ctx, identity)

	if firstErr != nil {
		return m.failOperation(domain.ErrCodeSignUp, "sign up incomplete", firstErr)
	}
	return nil
}

// SignIn authenticates with email and password. The session is updated
// directly on success rather than waiting for the provider notification.
func (m *SessionManager) SignIn(ctx context.Context, email, password string) error {
	m.clearLastError()

	identity, err := m.provider.SignIn(ctx, email, password)
	if err != nil {
		return m.failOperation(domain.ErrCodeSignIn, "sign in failed", err)
	}

	m.applySignedIn(ctx, identity)
	return nil
}

// SignInWithProvider authenticates through the external OAuth provider
func (m *SessionManager) SignInWithProvider(ctx context.Context) error {
	m.clearLastError()

	identity, err := m.provider.SignInWithProvider(ctx)
	if err != nil {
		return m.failOperation(domain.ErrCodeSignIn, "external sign in failed", err)
	}

	m.applySignedIn(ctx, identity)
	return nil
}

// SignOut ends the current session
func (m *SessionManager) SignOut(ctx context.Context) error {
	m.clearLastError()

	if err := m.provider.SignOut(ctx); err != nil {
		return m.failOperation(domain.ErrCodeSignOut, "sign out failed", err)
	}

	m.applySignedOut()
	return nil
}

// ResendVerification triggers a fresh verification email for the
// current caller.
func (m *SessionManager) ResendVerification(ctx context.Context) error {
	m.clearLastError()

	snap := m.Snapshot()
	if snap.Identity == nil {
		return m.failOperation(domain.ErrCodeVerification, "no caller is signed in", domain.ErrNotSignedIn)
	}
	if snap.Identity.EmailVerified {
		return m.failOperation(domain.ErrCodeVerification, "email already verified", domain.ErrAlreadyVerified)
	}

	if err := m.provider.SendVerificationEmail(ctx, snap.Identity.ID); err != nil {
		return m.failOperation(domain.ErrCodeVerification, "failed to send verification email", err)
	}
	return nil
}

// RefreshVerification re-fetches the verification flag for the current
// identity from the provider and updates the session when it flips.
func (m *SessionManager) RefreshVerification(ctx context.Context) (bool, error) {
	m.mu.RLock()
	identity := m.session.Identity
	m.mu.RUnlock()
	if identity == nil {
		return false, domain.ErrNotSignedIn
	}

	fresh, err := m.provider.Reload(ctx, identity.ID)
	if err != nil {
		return false, fmt.Errorf("failed to reload identity: %w", err)
	}

	m.mu.Lock()
	current := m.session.Identity
	if current == nil || current.ID != identity.ID {
		m.mu.Unlock()
		return false, domain.ErrNotSignedIn
	}
	if fresh.EmailVerified && !current.EmailVerified {
		updated := *current
		updated.EmailVerified = true
		m.session.Identity = &updated
		snap := m.session
		m.mu.Unlock()
		m.publish(snap)
		m.logger.Info("email verification confirmed", "identity_id", identity.ID)
		return true, nil
	}
	m.mu.Unlock()

	return fresh.EmailVerified, nil
}

// Snapshot returns a read-only copy of the current session. The manager
// never mutates the records behind the snapshot's pointers; it replaces
// them wholesale on every change.
func (m *SessionManager) Snapshot() domain.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session
}

// Watch delivers a snapshot after every session change until ctx ends.
// Guards use this to re-evaluate instead of caching decisions.
func (m *SessionManager) Watch(ctx context.Context) <-chan domain.Session {
	ch := make(chan domain.Session, watchBuffer)

	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.watchers[id] = ch
	m.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
		case <-m.done:
		}
		m.mu.Lock()
		delete(m.watchers, id)
		m.mu.Unlock()
		close(ch)
	}()

	return ch
}

// publish fans a snapshot out to all watchers without blocking the writer
func (m *SessionManager) publish(snap domain.Session) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, ch := range m.watchers {
		select {
		case ch <- snap:
		default:
		}
	}
}

// clearLastError resets the operation error at the start of every
// explicit operation.
func (m *SessionManager) clearLastError() {
	m.mu.Lock()
	m.session.LastError = nil
	m.mu.Unlock()
}

// failOperation records and returns an explicit operation failure. The
// session is left unchanged apart from LastError.
func (m *SessionManager) failOperation(code, message string, cause error) error {
	authErr := domain.NewAuthError(code, message, cause)
	m.mu.Lock()
	m.session.LastError = authErr
	m.mu.Unlock()
	m.logger.Error(message, "code", code, "error", cause)
	return authErr
}
