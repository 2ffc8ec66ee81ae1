package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/gravyapp/gravy/internal/config"
	"github.com/gravyapp/gravy/internal/handler"
	"github.com/gravyapp/gravy/internal/provider"
	"github.com/gravyapp/gravy/internal/repository"
	"github.com/gravyapp/gravy/internal/service"
	"github.com/gravyapp/gravy/pkg/observability"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	infra  Infrastructure
	config *config.Config
	router *gin.Engine
	server *http.Server
}

func NewApp(infra Infrastructure, cfg *config.Config) *App {
	repos := repository.NewRepositories(infra.Postgres())

	hasher := service.NewPasswordHasher(cfg.Security.BCryptCost)
	resolver := service.NewIdentityResolver(repos.User, hasher)

	sessionStore := service.NewRedisSessionStore(infra.Redis(), cfg.Session.TTL.Duration)
	sessions := service.NewSessionManager(sessionStore, repos.User)

	providers := buildProviders(cfg)
	healthChecker := NewHealthChecker(infra)

	authService := service.NewAuthService(
		repos.User,
		resolver,
		sessions,
		providers.Names(),
		infra.Logger(),
	)

	authHandler := handler.NewAuthHandler(authService, cfg.Session)
	oauthHandler := handler.NewOAuthHandler(providers, authService, cfg.Session)
	contactHandler := handler.NewContactHandler(repos.Contact)

	router := gin.Default()
	router.Use(otelgin.Middleware("gravy"))
	router.Use(handler.LoggerMiddleware(infra.Logger()))
	router.Use(handler.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.CORS.AllowedMethods, cfg.CORS.AllowedHeaders))

	setupRoutes(router, cfg, authHandler, oauthHandler, contactHandler, authService, healthChecker, infra.MetricsHandler())

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
	}

	return &App{
		infra:  infra,
		config: cfg,
		router: router,
		server: srv,
	}
}

func (a *App) Router() *gin.Engine {
	return a.router
}

// buildProviders registers every provider with configured credentials.
// The table is built once here and handed to the router by reference;
// nothing self-registers at init time.
func buildProviders(cfg *config.Config) provider.Registry {
	providers := provider.Registry{}

	if cfg.Facebook.Enabled() {
		p := provider.NewFacebook(cfg.Facebook.ClientID, cfg.Facebook.ClientSecret, cfg.Facebook.CallbackURL)
		providers[p.Name()] = p
	}
	if cfg.Google.Enabled() {
		p := provider.NewGoogle(cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.Google.CallbackURL)
		providers[p.Name()] = p
	}

	return providers
}

func setupRoutes(
	router *gin.Engine,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	oauthHandler *handler.OAuthHandler,
	contactHandler *handler.ContactHandler,
	authService service.AuthService,
	healthChecker *HealthChecker,
	metricsHandler http.Handler,
) {
	router.GET("/metrics", observability.PrometheusHandler(metricsHandler))
	router.GET("/health", healthChecker.Handler)

	requireSession := handler.SessionMiddleware(authService, cfg.Session)

	auth := router.Group("/auth")
	{
		auth.GET("/:provider", oauthHandler.Redirect)
		auth.GET("/:provider/callback", oauthHandler.Callback)
	}

	api := router.Group("/api/v1")
	{
		authAPI := api.Group("/auth")
		{
			authAPI.POST("/signup", authHandler.Signup)
			authAPI.POST("/login", authHandler.Login)
			authAPI.POST("/logout", requireSession, authHandler.Logout)
			authAPI.GET("/me", requireSession, authHandler.Me)
		}

		api.POST("/contact", contactHandler.Create)
		api.GET("/contact", requireSession, contactHandler.List)
	}
}

func (a *App) Run(ctx context.Context) error {
	errChan := make(chan error, 1)

	go func() {
		a.infra.Logger().Info("Application starting",
			zap.String("host", a.config.Server.Host),
			zap.String("port", a.config.Server.Port),
		)

		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.infra.Logger().Error("Server error", zap.Error(err))
			errChan <- err
		}
	}()

	var serverErr error
	select {
	case err := <-errChan:
		a.infra.Logger().Error("Application failed to start", zap.Error(err))
		serverErr = err
	case <-ctx.Done():
		a.infra.Logger().Info("Application stopped by context")
	}

	if err := a.Shutdown(); err != nil {
		a.infra.Logger().Error("Shutdown error", zap.Error(err))
		if serverErr != nil {
			return errors.Join(serverErr, err)
		}
		return err
	}

	return serverErr
}

func (a *App) Shutdown() error {
	a.infra.Logger().Info("Application shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	errs := make(chan error, 2)

	go func() {
		errs <- a.server.Shutdown(ctx)
	}()

	go func() {
		errs <- a.infra.Shutdown(ctx)
	}()

	err := errors.Join(<-errs, <-errs)
	if err != nil {
		a.infra.Logger().Error("Shutdown failed", zap.Error(err))
		return err
	}

	a.infra.Logger().Info("Application exited successfully")
	return nil
}
