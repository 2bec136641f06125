package handler

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/jon4hz/recipebox/internal/api/auth"
	"github.com/jon4hz/recipebox/internal/api/models"
	"github.com/jon4hz/recipebox/internal/config"
	"github.com/jon4hz/recipebox/internal/database"
	"github.com/jon4hz/recipebox/internal/validate"
)

// Recipes lists recipes. Depending on the configured scope these are all recipes or only the user's.
func (h *Handler) Recipes(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		errorJSON(c, http.StatusUnauthorized, "Unauthorized.")
		return
	}

	var (
		recipes []database.Recipe
		err     error
	)
	switch h.config.GetRecipeScope() {
	case config.RecipeScopeOwner:
		recipes, err = h.db.GetRecipesByUserID(c.Request.Context(), userID)
	default:
		recipes, err = h.db.GetRecipes(c.Request.Context())
	}
	if err != nil {
		errorJSON(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	c.JSON(http.StatusOK, models.ToRecipes(recipes))
}

// CreateRecipe creates a recipe owned by the logged in user.
func (h *Handler) CreateRecipe(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		errorJSON(c, http.StatusUnauthorized, "Unauthorized.")
		return
	}

	var req models.CreateRecipeRequest
	if !bindJSON(c, &req) {
		return
	}

	if req.Title == "" || req.Instructions == "" {
		errorJSON(c, http.StatusUnprocessableEntity, "Title and instructions are required.")
		return
	}

	if err := h.validator.Recipe(validate.Recipe{
		Title:             req.Title,
		Instructions:      req.Instructions,
		MinutesToComplete: req.MinutesToComplete,
	}); err != nil {
		errorJSON(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	recipe := database.Recipe{
		Title:             req.Title,
		Instructions:      req.Instructions,
		MinutesToComplete: req.MinutesToComplete,
		UserID:            &userID,
	}
	if err := h.db.CreateRecipe(c.Request.Context(), &recipe); err != nil {
		errorJSON(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	h.forgetUser(c, userID)

	log.Debug("recipe created", "recipeID", recipe.ID, "userID", userID)
	c.JSON(http.StatusCreated, models.ToRecipe(recipe))
}
