package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/jon4hz/recipebox/internal/api/auth"
	"github.com/jon4hz/recipebox/internal/api/handler"
	"github.com/jon4hz/recipebox/internal/api/models"
	"github.com/jon4hz/recipebox/internal/cache"
	"github.com/jon4hz/recipebox/internal/config"
	"github.com/jon4hz/recipebox/internal/database"
	"github.com/jon4hz/recipebox/internal/session"
)

type Server struct {
	cfg        *config.Config
	ginEngine  *gin.Engine
	httpServer *http.Server
	db         database.DB
	users      *cache.PrefixedCache[models.User]
}

func New(cfg *config.Config, db database.DB, debug bool) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}

	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}


	ginEngine := gin.New()
	ginEngine.Use(gin.Recovery(), requestID(), requestLogger())

	s := &Server{
		cfg:       cfg,
		ginEngine: ginEngine,
		db:        db,
		users:     cache.New[models.User](cfg.Cache, handler.UserCachePrefix),
	}
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:              cfg.Listen,
		Handler:           s.ginEngine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s, nil
}

func (s *Server) setupSession() {
	s.ginEngine.Use(session.Middleware(session.Options{
		Key:    []byte(s.cfg.SessionKey),
		MaxAge: s.cfg.SessionMaxAge,
		Secure: s.cfg.SecureCookies,
	}))
}

func (s *Server) setupRoutes() {
	// logout answers 204 without a body
	s.ginEngine.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/logout"})))
	s.setupSession()

	h := handler.New(s.db, s.cfg, s.users)

	s.ginEngine.GET("/healthz", h.Health)
	s.ginEngine.POST("/signup", h.Signup)
	s.ginEngine.POST("/login", h.Login)

	protected := s.ginEngine.Group("/")
	protected.Use(auth.RequireAuth())

	protected.DELETE("/logout", h.Logout)
	protected.GET("/check_session", h.CheckSession)
	protected.GET("/recipes", h.Recipes)
	protected.POST("/recipes", h.CreateRecipe)
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.ginEngine
}

// Run starts the HTTP server and blocks until it is shut down.
func (s *Server) Run() error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
