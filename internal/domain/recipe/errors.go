package recipe

import "errors"

// Domain errors for recipe reconstitution

var (
	ErrMissingID        = errors.New("recipe id is required")
	ErrMissingTitle     = errors.New("recipe title is required")
	ErrInvalidReadyTime = errors.New("recipe ready time cannot be negative")
	ErrRecipeNotFound   = errors.New("recipe not found")
)
