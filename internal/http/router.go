package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/geocoder89/userhub/internal/auth"
	"github.com/geocoder89/userhub/internal/cache"
	"github.com/geocoder89/userhub/internal/config"
	"github.com/geocoder89/userhub/internal/http/handlers"
	v1 "github.com/geocoder89/userhub/internal/http/handlers/v1"
	v2 "github.com/geocoder89/userhub/internal/http/handlers/v2"
	"github.com/geocoder89/userhub/internal/http/middlewares"
	"github.com/geocoder89/userhub/internal/observability"
	"github.com/geocoder89/userhub/internal/repo/memory"
)

const serviceName = "userhub"

// NewRouter wires the full API surface. The store is injected so tests
// can substitute their own seed; which wire contract is mounted is
// decided by cfg.Variant, both claim the same paths.
func NewRouter(log *slog.Logger, cfg config.Config, store *memory.UsersRepo) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(log))
	r.Use(middlewares.CORSMiddleware(cfg.CORSAllowAll, cfg.CORSOrigins))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.RequireJSON())
	r.Use(middlewares.MaxBodyBytes(cfg.MaxBodyBytes))

	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)
	r.Use(prom.GinHandleMiddleware())

	if cfg.TracingEnabled {
		r.Use(otelgin.Middleware(serviceName))
	}

	prom.StoredUsers.Set(float64(store.Len()))

	// info + health

	info := handlers.NewInfoHandler(store)
	r.GET("/", info.Root)
	r.GET("/health", info.Health)
	r.GET("/api/status", info.Status)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// variant surface

	issuer := auth.NewIssuer()
	listCache := cache.New(cfg.ListCacheTTL)
	loginLimiter := middlewares.NewRateLimiter(cfg.LoginRateLimit, cfg.LoginRateWindow)
	limitLogin := loginLimiter.RateLimiterMiddleware(middlewares.KeyByIP)

	switch cfg.Variant {
	case "v2":
		users := v2.NewUsersHandlerWithCache(store, listCache, prom)
		authh := v2.NewAuthHandler(store, issuer, prom)

		r.GET("/api/users/:id", users.GetUserById)
		r.GET("/api/users", users.ListUsers)
		r.POST("/api/users", users.CreateUser)
		r.POST("/api/login", limitLogin, authh.Login)
		r.POST("/api/refresh-token", authh.Refresh)
		r.GET("/api/profile", authh.Profile)

	default:
		users := v1.NewUsersHandlerWithCache(store, listCache, prom)
		authh := v1.NewAuthHandler(store, issuer, prom)

		r.GET("/api/users/:id", users.GetUserById)
		r.GET("/api/users", users.ListUsers)
		r.POST("/api/users", users.CreateUser)
		r.POST("/api/login", limitLogin, authh.Login)
		r.POST("/api/refresh-token", authh.Refresh)
		r.GET("/api/profile", authh.Profile)
	}

	return r
}
