package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/golang-jwt/jwt/v5"
	kratosclient "github.com/ory/kratos-client-go"

	"guestmenu-auth/app/domain"
	"guestmenu-auth/app/driver/kratos"
	"guestmenu-auth/app/port"
)

// sessionClaims are the custom claims embedded in the identity's signed
// session token. Role and subdomain are optional; their absence means the
// guest role.
type sessionClaims struct {
	Role      string `json:"role"`
	Subdomain string `json:"subdomain"`
	jwt.RegisteredClaims
}

// IdentityGateway implements port.IdentityProvider on top of Ory Kratos.
// It is also the notification source: sign-in, sign-up and sign-out emit
// session change notifications to all subscribers in order.
type IdentityGateway struct {
	client       *kratos.Client
	claimsSecret []byte
	oidcProvider string
	logger       *slog.Logger

	mu           sync.Mutex
	listeners    map[int]port.NotificationFunc
	nextID       int
	current      *domain.Identity
	sessionToken string
}

// NewIdentityGateway creates a new identity gateway
func NewIdentityGateway(client *kratos.Client, claimsSecret, oidcProvider string, logger *slog.Logger) port.IdentityProvider {
	return &IdentityGateway{
		client:       client,
		claimsSecret: []byte(claimsSecret),
		oidcProvider: oidcProvider,
		logger:       logger.With("component", "identity_gateway"),
		listeners:    make(map[int]port.NotificationFunc),
	}
}

// Subscribe registers fn for session change notifications and delivers
// the current state as the first notification.
func (g *IdentityGateway) Subscribe(ctx context.Context, fn port.NotificationFunc) (port.Unsubscribe, error) {
	g.mu.Lock()
	id := g.nextID
	g.nextID++
	g.listeners[id] = fn
	current := g.current
	g.mu.Unlock()

	fn(current)

	return func() {
		g.mu.Lock()
		delete(g.listeners, id)
		g.mu.Unlock()
	}, nil
}

// notify delivers a session change to all subscribers in arrival order
func (g *IdentityGateway) notify(identity *domain.Identity) {
	g.mu.Lock()
	fns := make([]port.NotificationFunc, 0, len(g.listeners))
	for _, fn := range g.listeners {
		fns = append(fns, fn)
	}
	g.mu.Unlock()

	for _, fn := range fns {
		fn(identity)
	}
}

// SignUp registers a new identity through a native registration flow
func (g *IdentityGateway) SignUp(ctx context.Context, email, password string) (*domain.Identity, error) {
	flow, _, err := g.client.PublicAPI().FrontendAPI.CreateNativeRegistrationFlow(ctx).Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to create registration flow: %w", err)
	}

	body := kratosclient.UpdateRegistrationFlowWithPasswordMethod{
		Method:   "password",
		Password: password,
		Traits:   map[string]interface{}{"email": email},
	}
	result, _, err := g.client.PublicAPI().FrontendAPI.
		UpdateRegistrationFlow(ctx).
		Flow(flow.Id).
		UpdateRegistrationFlowBody(kratosclient.UpdateRegistrationFlowWithPasswordMethodAsUpdateRegistrationFlowBody(&body)).
		Execute()
	if err != nil {
		g.logger.Error("registration flow submission failed", "error", err)
		return nil, fmt.Errorf("registration failed: %w", err)
	}

	session := result.GetSession()
	identity := g.identityFromSession(&session, result.GetSessionToken())
	g.setCurrent(identity, result.GetSessionToken())
	g.notify(identity)

	g.logger.Info("identity registered", "identity_id", identity.ID)
	return identity, nil
}

// SignIn authenticates with email and password through a native login flow
func (g *IdentityGateway) SignIn(ctx context.Context, email, password string) (*domain.Identity, error) {
	flow, _, err := g.client.PublicAPI().FrontendAPI.CreateNativeLoginFlow(ctx).Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to create login flow: %w", err)
	}

	body := kratosclient.UpdateLoginFlowWithPasswordMethod{
		Method:     "password",
		Identifier: email,
		Password:   password,
	}
	result, _, err := g.client.PublicAPI().FrontendAPI.
		UpdateLoginFlow(ctx).
		Flow(flow.Id).
		UpdateLoginFlowBody(kratosclient.UpdateLoginFlowWithPasswordMethodAsUpdateLoginFlowBody(&body)).
		Execute()
	if err != nil {
		g.logger.Error("login flow submission failed", "error", err)
		return nil, fmt.Errorf("login failed: %w", domain.ErrInvalidCredentials)
	}

	session := result.GetSession()
	identity := g.identityFromSession(&session, result.GetSessionToken())
	g.setCurrent(identity, result.GetSessionToken())
	g.notify(identity)

	g.logger.Info("identity signed in", "identity_id", identity.ID)
	return identity, nil
}

// SignInWithProvider authenticates through the configured OIDC provider
func (g *IdentityGateway) SignInWithProvider(ctx context.Context) (*domain.Identity, error) {
	flow, _, err := g.client.PublicAPI().FrontendAPI.CreateNativeLoginFlow(ctx).Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to create login flow: %w", err)
	}

	body := kratosclient.UpdateLoginFlowWithOidcMethod{
		Method:   "oidc",
		Provider: g.oidcProvider,
	}
	result, _, err := g.client.PublicAPI().FrontendAPI.
		UpdateLoginFlow(ctx).
		Flow(flow.Id).
		UpdateLoginFlowBody(kratosclient.UpdateLoginFlowWithOidcMethodAsUpdateLoginFlowBody(&body)).
		Execute()
	if err != nil {
		g.logger.Error("oidc login failed", "provider", g.oidcProvider, "error", err)
		return nil, fmt.Errorf("external sign in failed: %w", err)
	}

	session := result.GetSession()
	identity := g.identityFromSession(&session, result.GetSessionToken())
	identity.Provider = g.oidcProvider
	g.setCurrent(identity, result.GetSessionToken())
	g.notify(identity)

	g.logger.Info("identity signed in via provider", "identity_id", identity.ID, "provider", g.oidcProvider)
	return identity, nil
}

// SignOut revokes the current session
func (g *IdentityGateway) SignOut(ctx context.Context) error {
	g.mu.Lock()
	token := g.sessionToken
	g.mu.Unlock()

	if token != "" {
		logoutBody := kratosclient.NewPerformNativeLogoutBody(token)
		_, err := g.client.PublicAPI().FrontendAPI.
			PerformNativeLogout(ctx).
			PerformNativeLogoutBody(*logoutBody).
			Execute()
		if err != nil {
			return fmt.Errorf("logout failed: %w", err)
		}
	}

	g.setCurrent(nil, "")
	g.notify(nil)

	g.logger.Info("identity signed out")
	return nil
}

// SendVerificationEmail triggers a verification mail for the identity
func (g *IdentityGateway) SendVerificationEmail(ctx context.Context, identityID string) error {
	email, err := g.lookupEmail(ctx, identityID)
	if err != nil {
		return err
	}

	flow, _, err := g.client.PublicAPI().FrontendAPI.CreateNativeVerificationFlow(ctx).Execute()
	if err != nil {
		return fmt.Errorf("failed to create verification flow: %w", err)
	}

	body := kratosclient.UpdateVerificationFlowWithLinkMethod{
		Method: "link",
		Email:  email,
	}
	_, _, err = g.client.PublicAPI().FrontendAPI.
		UpdateVerificationFlow(ctx).
		Flow(flow.Id).
		UpdateVerificationFlowBody(kratosclient.UpdateVerificationFlowWithLinkMethodAsUpdateVerificationFlowBody(&body)).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}

	g.logger.Info("verification email sent", "identity_id", identityID)
	return nil
}

// Reload re-fetches the identity from the admin API, including its
// current verification flag.
func (g *IdentityGateway) Reload(ctx context.Context, identityID string) (*domain.Identity, error) {
	kratosIdentity, _, err := g.client.AdminAPI().IdentityAPI.GetIdentity(ctx, identityID).Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to reload identity: %w", err)
	}

	g.mu.Lock()
	token := ""
	if g.current != nil && g.current.ID == identityID {
		token = g.sessionToken
	}
	g.mu.Unlock()

	return identityFromKratos(kratosIdentity, token), nil
}

// DecodeClaims extracts role data from the identity's signed session
// token. A missing token or role claim maps to the guest role without
// error; an undecodable token is returned as an error for the session
// manager to downgrade.
func (g *IdentityGateway) DecodeClaims(ctx context.Context, identity *domain.Identity) (*domain.RoleInfo, error) {
	if identity == nil || identity.Token == "" {
		return domain.GuestRoleInfo(), nil
	}

	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(identity.Token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return g.claimsSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to decode session token claims: %w", err)
	}

	role := claims.Role
	if role == "" {
		role = domain.RoleGuest
	}
	return &domain.RoleInfo{Role: role, SubdomainClaim: claims.Subdomain}, nil
}

// lookupEmail resolves the email address for an identity, preferring the
// in-memory session over an admin API round trip.
func (g *IdentityGateway) lookupEmail(ctx context.Context, identityID string) (string, error) {
	g.mu.Lock()
	if g.current != nil && g.current.ID == identityID && g.current.Email != "" {
		email := g.current.Email
		g.mu.Unlock()
		return email, nil
	}
	g.mu.Unlock()

	kratosIdentity, _, err := g.client.AdminAPI().IdentityAPI.GetIdentity(ctx, identityID).Execute()
	if err != nil {
		return "", fmt.Errorf("failed to look up identity: %w", err)
	}
	identity := identityFromKratos(kratosIdentity, "")
	if identity.Email == "" {
		return "", fmt.Errorf("identity %s has no email trait", identityID)
	}
	return identity.Email, nil
}

// setCurrent records the gateway's view of the signed-in identity
func (g *IdentityGateway) setCurrent(identity *domain.Identity, token string) {
	g.mu.Lock()
	g.current = identity
	g.sessionToken = token
	g.mu.Unlock()
}

// identityFromSession maps a Kratos session to the domain identity
func (g *IdentityGateway) identityFromSession(session *kratosclient.Session, token string) *domain.Identity {
	kratosIdentity := session.GetIdentity()
	identity := identityFromKratos(&kratosIdentity, token)
	if issuedAt := session.GetIssuedAt(); !issuedAt.IsZero() {
		identity.IssuedAt = issuedAt
	}
	return identity
}

// identityFromKratos maps a Kratos identity to the domain identity. The
// email trait and the verification flag of its verifiable address are
// the only fields this core consumes.
func identityFromKratos(kratosIdentity *kratosclient.Identity, token string) *domain.Identity {
	identity := &domain.Identity{
		ID:    kratosIdentity.Id,
		Token: token,
	}

	if traits, ok := kratosIdentity.GetTraits().(map[string]interface{}); ok {
		if email, ok := traits["email"].(string); ok {
			identity.Email = email
		}
	}

	for _, addr := range kratosIdentity.GetVerifiableAddresses() {
		if addr.GetValue() == identity.Email && addr.GetVerified() {
			identity.EmailVerified = true
			break
		}
	}

	return identity
}
