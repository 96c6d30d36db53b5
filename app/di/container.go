package di

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/labstack/echo/v4"

	"guestmenu-auth/app/config"
	"guestmenu-auth/app/driver/cache"
	"guestmenu-auth/app/driver/kratos"
	"guestmenu-auth/app/driver/postgres"
	"guestmenu-auth/app/gateway"
	"guestmenu-auth/app/port"
	"guestmenu-auth/app/rest"
	"guestmenu-auth/app/rest/handlers"
	"guestmenu-auth/app/usecase"
	"guestmenu-auth/app/utils/validator"
)

// Container holds all dependencies for the application
type Container struct {
	Config *config.Config
	Policy config.RoutePolicy
	Logger *slog.Logger

	// Drivers
	DB           *postgres.DB
	KratosClient *kratos.Client

	// Gateways and repositories
	IdentityProvider port.IdentityProvider
	Profiles         port.ProfileRepository
	Tenants          port.TenantRepository

	// Usecases
	Sessions       *usecase.SessionManager
	Guard          *usecase.GuardUsecase
	TenantResolver *usecase.TenantResolver
	Poller         *usecase.VerificationPoller

	Validator *validator.Validator

	closeOnce sync.Once
}

// NewContainer creates and initializes a new dependency injection container
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	container := &Container{
		Config: cfg,
		Logger: logger,
	}

	policy, err := config.LoadRoutePolicy(cfg.RoutePolicyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load route policy: %w", err)
	}
	container.Policy = policy

	container.DB, err = postgres.NewConnection(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	container.KratosClient, err = kratos.NewClient(cfg, logger)
	if err != nil {
		container.DB.Close()
		return nil, fmt.Errorf("failed to initialize Kratos client: %w", err)
	}

	container.Profiles = postgres.NewProfileRepository(container.DB.Pool(), logger)
	container.Tenants = postgres.NewTenantRepository(container.DB.Pool(), logger)

	container.IdentityProvider = gateway.NewIdentityGateway(
		container.KratosClient, cfg.ClaimsSecret, cfg.OIDCProvider, logger)

	container.Sessions = usecase.NewSessionManager(container.IdentityProvider, container.Profiles, logger)
	if err := container.Sessions.Start(ctx); err != nil {
		container.DB.Close()
		return nil, fmt.Errorf("failed to start session manager: %w", err)
	}

	container.Guard = usecase.NewGuardUsecase(container.Sessions, policy.Paths, logger)

	resolutionCache := cache.NewResolutionCache(cfg.TenantCacheTTL)
	container.TenantResolver = usecase.NewTenantResolver(
		container.Tenants, resolutionCache, cfg.LocalSuffix, logger)

	container.Poller = usecase.NewVerificationPoller(
		container.Sessions, cfg.VerificationPollInterval, logger)

	container.Validator = validator.New()

	logger.Info("container initialized")

	return container, nil
}

// CreateRouter creates and returns a fully configured Echo router
func (c *Container) CreateRouter() *echo.Echo {
	routerConfig := rest.RouterConfig{
		Logger:         c.Logger,
		Sessions:       c.Sessions,
		Guard:          c.Guard,
		TenantResolver: c.TenantResolver,
		Tenants:        c.Tenants,
		Poller:         c.Poller,
		Validator:      c.Validator,
		Policy:         c.Policy,
		HealthChecks: map[string]handlers.DependencyChecker{
			"database": c.DB.HealthCheck,
			"kratos":   c.KratosClient.HealthCheck,
		},
		EnableDebug: c.Config.LogLevel == "debug",
	}

	return rest.NewRouter(routerConfig)
}

// Close releases all resources exactly once
func (c *Container) Close() error {
	c.closeOnce.Do(func() {
		if c.Sessions != nil {
			c.Sessions.Close()
		}
		if c.DB != nil {
			c.DB.Close()
		}
		c.Logger.Info("container closed")
	})
	return nil
}
