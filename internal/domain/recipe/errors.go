package recipe

import "errors"

// Validation errors raised while building a user recipe
var (
	ErrNameRequired      = errors.New("recipe name is required")
	ErrNameTooLong       = errors.New("recipe name must not exceed 200 characters")
	ErrImageURLRequired  = errors.New("image URL is required")
	ErrInvalidImageURL   = errors.New("image URL must be an absolute http(s) URL")
	ErrNoIngredients     = errors.New("recipe must have at least one ingredient")
	ErrNoInstructions    = errors.New("recipe must have at least one instruction")
	ErrBlankEntry        = errors.New("ingredients and instructions must not contain blank entries")
	ErrDelimiterInEntry  = errors.New("ingredients and instructions must be single-line entries")
	ErrNegativeTime      = errors.New("preparation and cooking time must not be negative")
	ErrInvalidServings   = errors.New("servings must be greater than 0")
	ErrInvalidRecipeID   = errors.New("recipe id must be a positive integer")
	ErrInvalidCount      = errors.New("number of recipes must be between 1 and 100")
	ErrRecipeNotFound    = errors.New("recipe not found")
	ErrFavoriteExists    = errors.New("recipe already in favorites")
	ErrFavoriteOwnerGone = errors.New("favorite owner does not exist")
)
