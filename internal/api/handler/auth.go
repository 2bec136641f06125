package handler

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/jon4hz/recipebox/internal/api/auth"
	"github.com/jon4hz/recipebox/internal/api/models"
	"github.com/jon4hz/recipebox/internal/database"
	"github.com/jon4hz/recipebox/internal/gravatar"
	"github.com/jon4hz/recipebox/internal/session"
	"gorm.io/gorm"
)

// Signup creates a new account and logs it in.
func (h *Handler) Signup(c *gin.Context) {
	var req models.SignupRequest
	if !bindJSON(c, &req) {
		return
	}

	if req.Username == "" || req.Password == "" {
		errorJSON(c, http.StatusUnprocessableEntity, "Username and password are required.")
		return
	}

	if err := h.validator.Username(req.Username); err != nil {
		errorJSON(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	user := database.User{
		Username: req.Username,
		Bio:      req.Bio,
		ImageURL: gravatar.DefaultImageURL(req.ImageURL, req.Username, h.config.Gravatar),
	}
	if err := user.SetPassword(h.hasher, req.Password); err != nil {
		errorJSON(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := h.db.CreateUser(c.Request.Context(), &user); err != nil {
		if errors.Is(err, database.ErrDuplicateUsername) {
			errorJSON(c, http.StatusUnprocessableEntity, "Username already taken.")
			return
		}
		errorJSON(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := session.New(c).Set(user.ID); err != nil {
		log.Error("Failed to save session", "error", err)
		errorJSON(c, http.StatusInternalServerError, "Failed to save session")
		return
	}

	log.Info("user signed up", "userID", user.ID, "username", user.Username)
	c.JSON(http.StatusCreated, models.ToUser(user))
}

// Login checks the credentials and stores the user in the session.
func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	if req.Username == "" || req.Password == "" {
		errorJSON(c, http.StatusUnprocessableEntity, "Username and password are required.")
		return
	}

	user, err := h.db.GetUserByUsername(c.Request.Context(), req.Username)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		errorJSON(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if user == nil || !user.Authenticate(req.Password) {
		log.Debug("login failed", "username", req.Username)
		errorJSON(c, http.StatusUnauthorized, "Invalid username or password.")
		return
	}

	if err := session.New(c).Set(user.ID); err != nil {
		log.Error("Failed to save session", "error", err)
		errorJSON(c, http.StatusInternalServerError, "Failed to save session")
		return
	}

	c.JSON(http.StatusOK, models.ToUser(*user))
}

// Logout clears the session. It requires auth.RequireAuth.
func (h *Handler) Logout(c *gin.Context) {
	userID, _ := auth.UserID(c)

	if err := session.New(c).Clear(); err != nil {
		log.Error("Failed to clear session", "error", err)
		errorJSON(c, http.StatusInternalServerError, "Failed to clear session")
		return
	}
	h.forgetUser(c, userID)

	c.Status(http.StatusNoContent)
}

// CheckSession returns the logged in user. It requires auth.RequireAuth.
func (h *Handler) CheckSession(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		errorJSON(c, http.StatusUnauthorized, "Unauthorized.")
		return
	}

	ctx := c.Request.Context()
	if cached, err := h.users.Get(ctx, userID); err == nil {
		// the entry may outlive the account, e.g. after delete-user on a process local cache
		exists, err := h.db.UserExists(ctx, userID)
		if err != nil {
			errorJSON(c, http.StatusUnprocessableEntity, err.Error())
			return
		}
		if !exists {
			h.forgetUser(c, userID)
			errorJSON(c, http.StatusUnauthorized, "Unauthorized.")
			return
		}
		c.JSON(http.StatusOK, cached)
		return
	}

	user, err := h.db.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			errorJSON(c, http.StatusUnauthorized, "Unauthorized.")
			return
		}
		errorJSON(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	resp := models.ToUser(*user)
	if err := h.users.Set(ctx, userID, resp); err != nil {
		log.Debug("failed to cache user", "userID", userID, "error", err)
	}
	c.JSON(http.StatusOK, resp)
}
