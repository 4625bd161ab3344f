package http

import (
	"context"
	"log/slog"

	"github.com/geocoder89/articlehub/internal/auth"
	"github.com/geocoder89/articlehub/internal/cache"
	"github.com/geocoder89/articlehub/internal/config"
	"github.com/geocoder89/articlehub/internal/domain/user"
	"github.com/geocoder89/articlehub/internal/http/handlers"
	"github.com/geocoder89/articlehub/internal/http/middlewares"
	"github.com/geocoder89/articlehub/internal/observability"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// UsersRepo is everything the user handlers and the auth core need from
// the user store. Both the postgres and the memory repo satisfy it.
type UsersRepo interface {
	handlers.UsersStore
	GetByEmail(ctx context.Context, email string) (user.User, error)
}

// Deps carries the wired collaborators; tests swap in memory repos and a
// nil Prom.
type Deps struct {
	Users    UsersRepo
	Articles handlers.ArticlesStore
	Cache    cache.Store
	Prom     *observability.Prom
	Ping     func() error
}

func NewRouter(log *slog.Logger, cfg config.Config, d Deps) *gin.Engine {
	if cfg.Env != "dev" && cfg.Env != "test" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.MaxBodyBytes(1 << 20))
	r.Use(otelgin.Middleware("articlehub"))

	if len(cfg.AllowedOrigins) > 0 {
		r.Use(middlewares.CORSMiddleware(cfg.AllowedOrigins))
	}

	if d.Prom != nil {
		r.Use(d.Prom.GinHandleMiddleware())
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	// health
	h := handlers.NewHealthHandler(d.Ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	// auth core: one manager, one authenticator, one resolver; the guard
	// below is the only attachment point for protected routes
	jwtManager := auth.NewManager(cfg.JWTSecret, cfg.AccessTTL())
	authn := auth.NewAuthenticator(d.Users)
	resolver := auth.NewResolver(jwtManager, d.Users)
	guard := middlewares.NewAuthMiddleware(resolver)

	// wire up handlers
	authHandler := handlers.NewAuthHandler(authn, jwtManager)
	usersHandler := handlers.NewUsersHandler(d.Users)
	articlesHandler := handlers.NewArticlesHandler(d.Articles, d.Cache, d.Prom)

	v1 := r.Group("/api/v1")

	users := v1.Group("/users")
	users.POST("/signup", middlewares.RequireJSON(), usersHandler.SignUp)
	users.POST("/login", authHandler.Login) // form-encoded, not JSON
	users.GET("", usersHandler.List)
	users.GET("/me", guard.RequireAuth(), usersHandler.Me)
	users.GET("/:id", usersHandler.GetByID)
	users.PUT("/:id", middlewares.RequireJSON(), guard.RequireAuth(), middlewares.RequireSelfOrAdmin("id"), usersHandler.Update)
	users.DELETE("/:id", guard.RequireAuth(), middlewares.RequireSelfOrAdmin("id"), usersHandler.Delete)

	articles := v1.Group("/articles")
	articles.POST("", middlewares.RequireJSON(), guard.RequireAuth(), articlesHandler.Create)
	articles.GET("", articlesHandler.List)
	articles.GET("/:id", articlesHandler.GetByID)
	articles.PUT("/:id", middlewares.RequireJSON(), guard.RequireAuth(), articlesHandler.Update)
	articles.DELETE("/:id", guard.RequireAuth(), articlesHandler.Delete)

	return r
}
