package app

import (
	"context"
	"net/http"
	"time"

	"gamevault/internal/auth"
	"gamevault/internal/auth/credentials"
	"gamevault/internal/auth/handler"
	"gamevault/internal/auth/provider"
	"gamevault/internal/auth/provider/google"
	"gamevault/internal/auth/resolver"
	"gamevault/internal/config"
	"gamevault/internal/logger"
	"gamevault/internal/middleware"
	"gamevault/internal/session"
	"gamevault/internal/userstore"

	"github.com/gin-gonic/gin"
)

const (
	loginRateLimit  = 10
	loginRateWindow = time.Minute
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	users := userstore.NewPostgres(infra.DB)
	hasher := credentials.NewArgon2Hasher(credentials.DefaultArgon2Params())
	creds := credentials.NewService(users, hasher, infra.KV, cfg.LockTTL)

	sessions := session.NewManager(infra.KV, cfg.SessionTTL)
	sessionResolver := resolver.New(sessions, users)

	cookieOpts := session.CookieOptions{
		Name:     cfg.SessionCookie,
		Secure:   !cfg.DevMode,
		SameSite: http.SameSiteLaxMode,
	}

	var registry *provider.Registry
	if cfg.GoogleClientID != "" {
		googleProvider, err := google.New(
			ctx,
			cfg.GoogleClientID,
			cfg.GoogleClientSecret,
			cfg.GoogleRedirectURL,
		)
		if err != nil {
			return nil, nil, err
		}
		registry = provider.NewRegistry(googleProvider)
	} else {
		logger.Info("oidc login disabled, no provider configured", nil)
	}

	authHandler := handler.NewHandler(creds, sessions, registry, cookieOpts)
	authMiddleware := middleware.NewAuthMiddleware(sessionResolver, cfg.SessionCookie)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())

	// ----------------------------
	// Public routes
	// ----------------------------

	authHandler.RegisterRoutes(
		router,
		middleware.GinRateLimit(infra.KV, loginRateLimit, loginRateWindow),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ----------------------------
	// Protected routes
	// ----------------------------

	api := router.Group("/api")
	api.Use(middleware.GinRequireAuth(authMiddleware))

	api.GET("/me", authHandler.Me)
	api.POST("/csrf", authHandler.IssueCSRF)
	api.POST("/logout_all", authHandler.LogoutAll)

	// ----------------------------
	// Admin routes
	// ----------------------------

	admin := router.Group("/admin")
	admin.Use(middleware.GinRequireRole(authMiddleware, auth.RoleSuperuser))

	admin.GET("/sessions", authHandler.AdminSessions)

	// ----------------------------
	// Cleanup
	// ----------------------------

	cleanup := func() error {
		if err := infra.KV.Close(); err != nil {
			return err
		}
		return infra.DB.Close()
	}

	return router, cleanup, nil
}
