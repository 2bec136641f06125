package models

import (
	"github.com/jon4hz/recipebox/internal/database"
	"github.com/samber/lo"
)

// ToUser converts a database.User to its public representation.
func ToUser(u database.User) User {
	return User{
		ID:       u.ID,
		Username: u.Username,
		Bio:      u.Bio,
		ImageURL: u.ImageURL,
		Recipes:  u.RecipeIDs(),
	}
}

// ToRecipe converts a database.Recipe to its public representation.
func ToRecipe(r database.Recipe) Recipe {
	return Recipe{
		ID:                r.ID,
		Title:             r.Title,
		Instructions:      r.Instructions,
		MinutesToComplete: r.MinutesToComplete,
		UserID:            r.UserID,
	}
}

// ToRecipes converts a slice of database.Recipe. The result is never nil.
func ToRecipes(recipes []database.Recipe) []Recipe {
	return lo.Map(recipes, func(r database.Recipe, _ int) Recipe {
		return ToRecipe(r)
	})
}
