package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/pulsefeed/pulsefeed/internal/auth"
	"github.com/pulsefeed/pulsefeed/internal/config"
	"github.com/pulsefeed/pulsefeed/internal/http/handlers"
	"github.com/pulsefeed/pulsefeed/internal/http/middlewares"
	"github.com/pulsefeed/pulsefeed/internal/observability"
	"github.com/pulsefeed/pulsefeed/internal/repo/postgres"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

func NewRouter(log *slog.Logger, pool *pgxpool.Pool, cfg config.Config) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// metrics registry is per-router so tests never fight over the default one
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	prom := observability.NewProm(reg)

	// middleware
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger())
	r.Use(otelgin.Middleware("pulsefeed"))
	r.Use(prom.GinHandleMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(cfg.MaxBodyBytes))
	r.Use(middlewares.RequireJSON())

	// health
	ping := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	h := handlers.NewHealthHandler(ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// wire up repositories
	usersRepo := postgres.NewUsersRepo(pool, prom)
	postsRepo := postgres.NewPostsRepo(pool, prom)

	// token manager + auth middleware
	jwtManager := auth.NewManager(cfg.JWTSecret, time.Duration(cfg.TokenTTLDays)*24*time.Hour)
	authmw := middlewares.NewAuthMiddleware(jwtManager)

	// handlers
	authHandler := handlers.NewAuthHandler(usersRepo, usersRepo, jwtManager)
	usersHandler := handlers.NewUsersHandler(usersRepo, usersRepo)
	postsHandler := handlers.NewPostsHandler(postsRepo)

	r.POST("/auth/register", authHandler.Register)
	r.POST("/auth/login", authHandler.Login)

	r.GET("/users/me", authmw.RequireAuth(), usersHandler.Me)
	r.GET("/users/profile/:id", usersHandler.Profile)
	r.PUT("/users/profile", authmw.RequireAuth(), usersHandler.UpdateProfile)

	r.POST("/posts", authmw.RequireAuth(), postsHandler.CreatePost)
	r.GET("/posts", postsHandler.Feed)
	r.GET("/posts/my", authmw.RequireAuth(), postsHandler.MyPosts)
	r.DELETE("/posts/:id", authmw.RequireAuth(), postsHandler.DeletePost)

	log.Debug("router ready", "routes", len(r.Routes()))

	return r
}
