package database

import "context"

// DB is the storage interface used by the API and the CLI.
type DB interface {
	UserDB
	RecipeDB

	Ping(ctx context.Context) error
	// Optimize lets SQLite refresh its query planner statistics.
	Optimize(ctx context.Context) error
	Close() error
}

// UserDB manages user accounts.
type UserDB interface {
	// CreateUser persists a new user. It returns ErrDuplicateUsername if the username is taken.
	CreateUser(ctx context.Context, user *User) error
	// GetUserByID returns the user with its recipes, or gorm.ErrRecordNotFound.
	GetUserByID(ctx context.Context, id uint) (*User, error)
	// GetUserByUsername returns the user with its recipes, or gorm.ErrRecordNotFound.
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	// UserExists reports whether a user with the given id exists.
	UserExists(ctx context.Context, id uint) (bool, error)
	// DeleteUser removes a user and all of their recipes.
	DeleteUser(ctx context.Context, id uint) error
	CountUsers(ctx context.Context) (int64, error)
	// GetLatestUser returns the most recently created user, or gorm.ErrRecordNotFound.
	GetLatestUser(ctx context.Context) (*User, error)
}

// RecipeDB manages recipes.
type RecipeDB interface {
	CreateRecipe(ctx context.Context, recipe *Recipe) error
	GetRecipes(ctx context.Context) ([]Recipe, error)
	GetRecipesByUserID(ctx context.Context, userID uint) ([]Recipe, error)
	CountRecipes(ctx context.Context) (int64, error)
}
