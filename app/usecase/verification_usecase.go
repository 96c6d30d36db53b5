package usecase

import (
	"context"
	"log/slog"
	"time"

	"guestmenu-auth/app/domain"
	"guestmenu-auth/app/port"
)

// VerificationPoller detects out-of-band email verification without a
// manual refresh. It polls only while the session is ready and the email
// is still unverified, reports the flip exactly once, and releases its
// ticker on every exit path.
type VerificationPoller struct {
	sessions port.SessionUsecase
	interval time.Duration
	logger   *slog.Logger
}

// NewVerificationPoller creates a poller with the given fixed interval
func NewVerificationPoller(sessions port.SessionUsecase, interval time.Duration, logger *slog.Logger) *VerificationPoller {
	return &VerificationPoller{
		sessions: sessions,
		interval: interval,
		logger:   logger.With("component", "verification_poller"),
	}
}

// Wait blocks until the current caller's email verification flag flips,
// or ctx ends. The ctx is the owning screen: its cancellation is the
// dismissal path that releases the timer. Returns true exactly once per
// flip; after a true result no further poll is issued.
func (p *VerificationPoller) Wait(ctx context.Context) (bool, error) {
	snap := p.sessions.Snapshot()
	if snap.Status != domain.SessionStatusReady || snap.Identity == nil {
		return false, domain.ErrNotSignedIn
	}
	if snap.Identity.EmailVerified {
		return true, nil
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-ticker.C:
			snap := p.sessions.Snapshot()
			if snap.Status != domain.SessionStatusReady || snap.Identity == nil {
				// Caller signed out from under the screen; stop polling
				return false, domain.ErrNotSignedIn
			}
			verified, err := p.sessions.RefreshVerification(ctx)
			if err != nil {
				p.logger.Warn("verification poll failed", "error", err)
				continue
			}
			if verified {
				p.logger.Info("verification detected", "identity_id", snap.Identity.ID)
				return true, nil
			}
		}
	}
}

// Start runs Wait in the background and invokes onVerified on a flip.
// The returned stop function releases the poller; it is safe to call on
// every exit path.
func (p *VerificationPoller) Start(ctx context.Context, onVerified func()) (stop func()) {
	pollCtx, cancel := context.WithCancel(ctx)
	go func() {
		defer cancel()
		verified, err := p.Wait(pollCtx)
		if err != nil || !verified {
			return
		}
		onVerified()
	}()
	return cancel
}
