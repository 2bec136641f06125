package database

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/recipebox/internal/validate"
	"gorm.io/gorm"
)

var recipeValidator = validate.New(0)

// Recipe represents a recipe in the database.
// UserID is nullable; recipes created through the API always have an owner.
type Recipe struct {
	gorm.Model
	Title             string `gorm:"not null"`
	Instructions      string `gorm:"type:text;not null"`
	MinutesToComplete *int
	UserID            *uint `gorm:"index"`
}

// BeforeCreate rejects invalid recipes inside the create transaction.
func (r *Recipe) BeforeCreate(*gorm.DB) error {
	return recipeValidator.Recipe(validate.Recipe{
		Title:             r.Title,
		Instructions:      r.Instructions,
		MinutesToComplete: r.MinutesToComplete,
	})
}

func (c *Client) CreateRecipe(ctx context.Context, recipe *Recipe) error {
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(recipe).Error
	})
	if err != nil {
		log.Error("failed to create recipe", "error", err)
		return err
	}
	return nil
}

func (c *Client) GetRecipes(ctx context.Context) ([]Recipe, error) {
	var recipes []Recipe
	if err := c.db.WithContext(ctx).Order("id").Find(&recipes).Error; err != nil {
		log.Error("failed to get recipes", "error", err)
		return nil, err
	}
	return recipes, nil
}

func (c *Client) GetRecipesByUserID(ctx context.Context, userID uint) ([]Recipe, error) {
	var recipes []Recipe
	if err := c.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&recipes).Error; err != nil {
		log.Error("failed to get recipes by user ID", "error", err, "userID", userID)
		return nil, err
	}
	return recipes, nil
}

func (c *Client) CountRecipes(ctx context.Context) (int64, error) {
	var count int64
	if err := c.db.WithContext(ctx).Model(&Recipe{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
