package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/listinghub/listinghub/internal/auth"
	"github.com/listinghub/listinghub/internal/config"
	"github.com/listinghub/listinghub/internal/deals"
	"github.com/listinghub/listinghub/internal/identity"
	"github.com/listinghub/listinghub/internal/listings"
	"github.com/listinghub/listinghub/internal/logging"
	"github.com/listinghub/listinghub/internal/metrics"
	"github.com/listinghub/listinghub/internal/middleware"
	"github.com/listinghub/listinghub/internal/notification"
	"github.com/listinghub/listinghub/internal/profile"
	"github.com/listinghub/listinghub/internal/reviews"
	"github.com/listinghub/listinghub/internal/trust"
	"github.com/listinghub/listinghub/internal/verification"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg      config.Config
	DB       *pgxpool.Pool
	Cache    *redis.Client
	Logger   *slog.Logger
	Registry *prometheus.Registry
	Notifier notification.Notifier
}

type stores struct {
	identity identity.Repository
	listings listings.Repository
	deals    deals.Repository
	reviews  reviews.Repository
}

func newStores(db *pgxpool.Pool) stores {
	if db == nil {
		return stores{
			identity: identity.NewMemoryRepository(),
			listings: listings.NewMemoryRepository(),
			deals:    deals.NewInMemory(),
			reviews:  reviews.NewInMemory(),
		}
	}
	return stores{
		identity: identity.NewPostgresRepository(db),
		listings: listings.NewPostgresRepository(db),
		deals:    deals.NewPostgresRepository(db),
		reviews:  reviews.NewPostgresRepository(db),
	}
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce DB/Redis presence outside of dev, even though main also checks.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}
	if d.Logger == nil {
		d.Logger = logging.Discard()
	}
	if d.Registry == nil {
		d.Registry = prometheus.NewRegistry()
	}
	if d.Notifier == nil {
		d.Notifier = notification.NewLogNotifier(d.Logger)
	}
	m := metrics.New(d.Registry)

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	// Plain text access log in desired format: [HH:MM:SS] 200 -  145ms METHOD /path
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(middleware.Audit(d.Logger))
	app.Use(middleware.Metrics(m))

	// Health and metrics
	RegisterHealthRoutes(app, d)

	// Services and handlers
	st := newStores(d.DB)
	identitySvc := identity.NewService(st.identity).WithAdmins(d.Cfg.AdminEmails)
	authSvc := auth.NewService(d.Cfg, st.identity)
	listingSvc := listings.NewService(st.listings)
	dealSvc := deals.NewService(st.deals, listingSvc, d.Notifier)
	reviewSvc := reviews.NewService(st.reviews, dealSvc, d.Notifier)
	verificationSvc := verification.NewService(st.identity, verification.StaticProvider{}, d.Notifier)
	profileSvc := profile.NewService(
		profile.NewLoader(identitySvc, dealSvc, reviewSvc),
		trust.NewClassifier(d.Cfg.OverrideMode),
		profile.DefaultCatalog(),
		profile.Options{
			Cache:   profile.NewCache(d.Cache, d.Cfg.ProfileCacheTTL),
			Metrics: m,
			Logger:  d.Logger,
		},
	)

	// API routes
	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": middleware.RequestIDFrom(c),
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	// Public routes
	RegisterIdentityRoutes(api, identitySvc, d.Logger)
	rateLimiter := middleware.LoginRateLimit(d.Cache, d.Cfg.LoginRateLimit)
	RegisterAuthRoutes(api, auth.NewHandler(identitySvc, authSvc), rateLimiter)
	profileHandler := profile.NewHandler(profileSvc)
	RegisterProfileRoutes(api, profileHandler)

	// Protected routes
	protected := api.Group("", middleware.JWTAuth(authSvc))
	RegisterMeRoute(protected, identitySvc, profileSvc)
	idem := middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger)
	RegisterListingRoutes(protected, listings.NewHandler(listingSvc))
	RegisterDealRoutes(protected, deals.NewHandler(dealSvc), reviews.NewHandler(reviewSvc), idem)
	RegisterVerificationRoutes(protected, verification.NewHandler(verificationSvc))

	// Admin routes
	admin := protected.Group("/admin", middleware.AdminOnly())
	RegisterAdminRoutes(admin, identitySvc, d.Notifier, d.Logger)

	return nil
}
