package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/jon4hz/recipebox/internal/api/models"
	"github.com/jon4hz/recipebox/internal/cache"
	"github.com/jon4hz/recipebox/internal/config"
	"github.com/jon4hz/recipebox/internal/database"
	"github.com/jon4hz/recipebox/internal/password"
	"github.com/jon4hz/recipebox/internal/validate"
)

// UserCachePrefix is the cache key prefix for serialized users.
const UserCachePrefix = "users-"

type Handler struct {
	db        database.DB
	config    *config.Config
	hasher    *password.Hasher
	validator *validate.Validator
	users     *cache.PrefixedCache[models.User]
}

func New(db database.DB, cfg *config.Config, users *cache.PrefixedCache[models.User]) *Handler {
	return &Handler{
		db:        db,
		config:    cfg,
		hasher:    password.New(cfg.GetBcryptCost()),
		validator: validate.New(cfg.GetMinUsernameLength()),
		users:     users,
	}
}

// Health reports whether the database is reachable.
func (h *Handler) Health(c *gin.Context) {
	if err := h.db.Ping(c.Request.Context()); err != nil {
		log.Error("health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// bindJSON decodes the request body into obj. An empty body leaves obj untouched.
// It writes a 422 response and returns false if the body is not valid JSON.
func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return false
	}
	return true
}

func errorJSON(c *gin.Context, status int, msg string) {
	c.JSON(status, models.ErrorResponse{Error: msg})
}

// forgetUser drops the cached representation of a user.
func (h *Handler) forgetUser(c *gin.Context, userID uint) {
	if err := h.users.Delete(c.Request.Context(), userID); err != nil {
		log.Debug("failed to drop cached user", "userID", userID, "error", err)
	}
}
