package repository

import (
	"alcyxob/recipe-app/internal/domain"
	"context"
)

// Error constants for repository layer
var (
	// ErrNotFound means no record matches both owner and recipe id. It also
	// covers records that exist under another owner.
	ErrNotFound = RepositoryError("not found")
	// ErrUnavailable wraps failures of the underlying datastore.
	ErrUnavailable = RepositoryError("store unavailable")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// RecipeRepository is durable keyed storage for recipes, partitioned by owner.
// Every lookup and mutation is scoped by (ownerID, recipeID).
type RecipeRepository interface {
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Recipe, error)
	// Put inserts the recipe or fully overwrites the record with the same keys.
	Put(ctx context.Context, recipe *domain.Recipe) (*domain.Recipe, error)
	Get(ctx context.Context, ownerID, recipeID string) (*domain.Recipe, error)
	Update(ctx context.Context, ownerID, recipeID string, fields domain.RecipeUpdate) error
	Delete(ctx context.Context, ownerID, recipeID string) error
}
