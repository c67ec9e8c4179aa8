package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/studiohub/onboarding-system/internal/api/handler"
	"github.com/studiohub/onboarding-system/internal/core/ports"
	"github.com/studiohub/onboarding-system/internal/core/service"
	"github.com/studiohub/onboarding-system/internal/infrastructure/billing"
	mongodb "github.com/studiohub/onboarding-system/internal/infrastructure/db/mongo"
	redisdb "github.com/studiohub/onboarding-system/internal/infrastructure/db/redis"
	"github.com/studiohub/onboarding-system/internal/infrastructure/enrichment"
	"github.com/studiohub/onboarding-system/internal/infrastructure/http/handlers"
	"github.com/studiohub/onboarding-system/internal/infrastructure/identity"
	"github.com/studiohub/onboarding-system/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORS()) // permissive; preflight OPTIONS short-circuits here
	e.Use(echoprometheus.NewMiddleware("onboarding"))

	// --- Dependencies ---
	store := mongodb.NewRegistrationStore(db)
	idp := identityProvider(cfg, db)

	opts := []service.Option{}
	if cfg.Enrichment.Token != "" {
		var resolver ports.AddressResolver = enrichment.NewClient(cfg.Enrichment.BaseURL, cfg.Enrichment.Token)
		if rdb != nil {
			resolver = enrichment.NewCachedResolver(resolver, redisdb.NewPostalCache(rdb), log)
		}
		opts = append(opts, service.WithAddressResolver(resolver))
	}
	if cfg.Billing.BaseURL != "" && cfg.Billing.APIKey != "" {
		gateway := billing.NewClient(cfg.Billing.BaseURL, cfg.Billing.APIKey)
		opts = append(opts, service.WithBilling(gateway, cfg.Billing.PlanID, cfg.Billing.TrialDays))
	}

	registrationService := service.NewRegistrationService(store, idp, log, opts...)
	registrationHandler := handler.NewRegistrationHandler(registrationService)

	// --- Registration routes ---
	v1 := e.Group("/v1")
	v1.POST("/register/client", registrationHandler.RegisterClient)
	v1.POST("/register/artist", registrationHandler.RegisterArtist)
	v1.POST("/register/studio", registrationHandler.RegisterStudio)

	// --- Health probes ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Metrics ---
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}

// identityProvider picks the identity backend: the external admin API when a
// URL is configured, otherwise the local Mongo-backed repository.
func identityProvider(cfg *config.Config, db *mongo.Database) ports.IdentityProvider {
	if cfg.Identity.BaseURL != "" {
		return identity.NewClient(cfg.Identity.BaseURL, cfg.Identity.ServiceSecret)
	}
	return mongodb.NewIdentityRepository(db)
}
