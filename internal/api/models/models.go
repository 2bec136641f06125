package models

// User is the public representation of a user. It never contains the password hash.
type User struct {
	ID       uint    `json:"id"`
	Username string  `json:"username"`
	Bio      *string `json:"bio"`
	ImageURL *string `json:"image_url"`
	// Recipes holds the ids of the user's recipes.
	Recipes []uint `json:"recipes"`
}

// Recipe is the public representation of a recipe.
type Recipe struct {
	ID                uint   `json:"id"`
	Title             string `json:"title"`
	Instructions      string `json:"instructions"`
	MinutesToComplete *int   `json:"minutes_to_complete"`
	UserID            *uint  `json:"user_id"`
}

// SignupRequest is the body of POST /signup.
type SignupRequest struct {
	Username string  `json:"username"`
	Password string  `json:"password"`
	Bio      *string `json:"bio"`
	ImageURL *string `json:"image_url"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateRecipeRequest is the body of POST /recipes.
type CreateRecipeRequest struct {
	Title             string `json:"title"`
	Instructions      string `json:"instructions"`
	MinutesToComplete *int   `json:"minutes_to_complete"`
}

// ErrorResponse is returned for every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}
