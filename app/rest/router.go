package rest

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"guestmenu-auth/app/config"
	"guestmenu-auth/app/port"
	"guestmenu-auth/app/rest/handlers"
	custommw "guestmenu-auth/app/rest/middleware"
	"guestmenu-auth/app/usecase"
	"guestmenu-auth/app/utils/validator"
)

// RouterConfig holds router configuration
type RouterConfig struct {
	Logger         *slog.Logger
	Sessions       port.SessionUsecase
	Guard          port.GuardEvaluator
	TenantResolver port.TenantResolverUsecase
	Tenants        port.TenantRepository
	Poller         *usecase.VerificationPoller
	Validator      *validator.Validator
	Policy         config.RoutePolicy
	HealthChecks   map[string]handlers.DependencyChecker
	EnableDebug    bool
}

// NewRouter creates and configures the Echo router
func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Debug = cfg.EnableDebug

	sessionHandler := handlers.NewSessionHandler(cfg.Sessions, cfg.Validator, cfg.Logger)
	verificationHandler := handlers.NewVerificationHandler(cfg.Poller, cfg.Logger)
	storefrontHandler := handlers.NewStorefrontHandler(cfg.Logger)
	tenantHandler := handlers.NewTenantHandler(cfg.Tenants, cfg.Validator, cfg.Logger)
	healthHandler := handlers.NewHealthHandler(cfg.HealthChecks, cfg.Logger)

	tenantMiddleware := custommw.NewTenantMiddleware(cfg.TenantResolver, cfg.Logger)
	guardMiddleware := custommw.NewGuardMiddleware(cfg.Guard, cfg.Logger)
	rateLimiter := custommw.NewRateLimiter()

	// Global middleware
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(custommw.DefaultCORS())
	e.Use(custommw.SecurityHeaders())
	e.Use(rateLimiter.RateLimit())
	e.Use(echomw.LoggerWithConfig(echomw.LoggerConfig{
		Format: "method=${method}, uri=${uri}, status=${status}, latency=${latency_human}, error=${error}\n",
	}))

	// Tenancy is resolved once per request before any handler runs
	e.Use(tenantMiddleware.Resolve())

	v1 := e.Group("/v1")

	// Health endpoints
	v1.GET("/health", healthHandler.HealthCheck)
	v1.GET("/ready", healthHandler.ReadinessCheck)
	v1.GET("/live", healthHandler.LivenessCheck)

	// Session lifecycle
	auth := v1.Group("/auth")
	auth.GET("/session", sessionHandler.GetSession)
	auth.POST("/signup", sessionHandler.SignUp, guardMiddleware.PublicOnly())
	auth.POST("/login", sessionHandler.SignIn, guardMiddleware.PublicOnly())
	auth.POST("/login/provider", sessionHandler.SignInWithProvider, guardMiddleware.PublicOnly())
	auth.POST("/logout", sessionHandler.SignOut)

	// Verification endpoints stay reachable for unverified callers, so
	// they sit outside the authenticated guard
	auth.GET("/verification", sessionHandler.RefreshVerification)
	auth.GET("/verification/wait", verificationHandler.Wait)
	auth.POST("/verification/resend", sessionHandler.ResendVerification)

	// Routes requiring a signed-in, verified caller
	me := v1.Group("/me")
	me.Use(guardMiddleware.Authenticated())
	me.GET("", sessionHandler.GetSession)

	// Storefront tenancy context
	v1.GET("/storefront/context", storefrontHandler.GetContext)

	// Tenant mapping administration
	tenants := v1.Group("/tenants")
	tenants.GET("/:label", tenantHandler.GetMapping, guardMiddleware.Roles(cfg.Policy.ManagerRoles...))
	tenants.POST("", tenantHandler.ClaimLabel, guardMiddleware.Roles(cfg.Policy.AdminRoles...))

	return e
}
