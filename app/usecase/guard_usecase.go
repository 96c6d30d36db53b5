package usecase

import (
	"context"
	"log/slog"
	"time"

	"guestmenu-auth/app/domain"
	"guestmenu-auth/app/port"
)

// settleTimeout bounds how long a guard lingers on a Wait decision for
// the session to settle before handing the placeholder back to the caller.
const settleTimeout = 2 * time.Second

// GuardUsecase evaluates route guard policies against the live session.
// Decisions are computed fresh on every call; a status change from
// pending to ready is always observed.
type GuardUsecase struct {
	sessions port.SessionUsecase
	paths    domain.GuardPaths
	logger   *slog.Logger
}

// NewGuardUsecase creates a new guard usecase
func NewGuardUsecase(sessions port.SessionUsecase, paths domain.GuardPaths, logger *slog.Logger) *GuardUsecase {
	return &GuardUsecase{
		sessions: sessions,
		paths:    paths,
		logger:   logger.With("component", "guard"),
	}
}

// Evaluate runs the shared decision function for an arbitrary policy
func (g *GuardUsecase) Evaluate(policy domain.GuardPolicy) domain.GuardDecision {
	return domain.EvaluateGuard(g.sessions.Snapshot(), policy, g.paths)
}

// Authenticated decides for routes requiring a signed-in, verified caller
func (g *GuardUsecase) Authenticated() domain.GuardDecision {
	return g.Evaluate(domain.AuthenticatedPolicy())
}

// PublicOnly decides for routes reserved for anonymous callers
func (g *GuardUsecase) PublicOnly() domain.GuardDecision {
	return g.Evaluate(domain.PublicOnlyPolicy())
}

// RoleAllowList decides for routes behind an explicit role allow-list
func (g *GuardUsecase) RoleAllowList(roles ...string) domain.GuardDecision {
	return g.Evaluate(domain.RoleAllowListPolicy(roles...))
}

// EvaluateSettled evaluates the policy and, when the decision is Wait,
// briefly watches the session for the change that settles it. A Wait
// must never flash a denial, so the final decision after the timeout is
// still Wait, never a premature redirect.
func (g *GuardUsecase) EvaluateSettled(ctx context.Context, policy domain.GuardPolicy) domain.GuardDecision {
	decision := g.Evaluate(policy)
	if decision.Action != domain.GuardWait {
		return decision
	}

	watchCtx, cancel := context.WithTimeout(ctx, settleTimeout)
	defer cancel()

	changes := g.sessions.Watch(watchCtx)
	for {
		select {
		case snap, ok := <-changes:
			if !ok {
				return decision
			}
			decision = domain.EvaluateGuard(snap, policy, g.paths)
			if decision.Action != domain.GuardWait {
				return decision
			}
		case <-watchCtx.Done():
			return decision
		}
	}
}
