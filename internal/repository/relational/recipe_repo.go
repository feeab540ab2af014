package relational

import (
	"alcyxob/recipe-app/internal/domain"
	"alcyxob/recipe-app/internal/repository"
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultRecipeTable is used when no table name is configured.
const DefaultRecipeTable = "recipes"

type gormRecipeRepository struct {
	db    *gorm.DB
	table string
}

// NewGormRecipeRepository creates a recipe repository over a SQL table keyed
// by (user_id, recipe_id).
func NewGormRecipeRepository(db *gorm.DB, table string) repository.RecipeRepository {
	if table == "" {
		table = DefaultRecipeTable
	}
	return &gormRecipeRepository{db: db, table: table}
}

// Migrate creates or alters the recipes table.
func Migrate(db *gorm.DB, table string) error {
	if table == "" {
		table = DefaultRecipeTable
	}
	if err := db.Table(table).AutoMigrate(&domain.Recipe{}); err != nil {
		return fmt.Errorf("migrate %s: %w", table, err)
	}
	return nil
}

func (r *gormRecipeRepository) scoped(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table(r.table)
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %v", repository.ErrUnavailable, err)
}

func (r *gormRecipeRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Recipe, error) {
	recipes := []domain.Recipe{}
	err := r.scoped(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, unavailable(err)
	}
	return recipes, nil
}

func (r *gormRecipeRepository) Put(ctx context.Context, recipe *domain.Recipe) (*domain.Recipe, error) {
	if recipe.OwnerID == "" || recipe.RecipeID == "" {
		return nil, errors.New("recipe requires userId and recipeId")
	}
	err := r.scoped(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(recipe).Error
	if err != nil {
		return nil, unavailable(err)
	}
	return recipe, nil
}

func (r *gormRecipeRepository) Get(ctx context.Context, ownerID, recipeID string) (*domain.Recipe, error) {
	var recipe domain.Recipe
	err := r.scoped(ctx).
		Where("user_id = ? AND recipe_id = ?", ownerID, recipeID).
		Take(&recipe).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, unavailable(err)
	}
	return &recipe, nil
}

func (r *gormRecipeRepository) Update(ctx context.Context, ownerID, recipeID string, fields domain.RecipeUpdate) error {
	// a map so that false and "" are written too
	result := r.scoped(ctx).
		Where("user_id = ? AND recipe_id = ?", ownerID, recipeID).
		Updates(map[string]interface{}{
			"name":         fields.Name,
			"description":  fields.Description,
			"is_favourite": fields.IsFavourite,
		})
	if result.Error != nil {
		return unavailable(result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *gormRecipeRepository) Delete(ctx context.Context, ownerID, recipeID string) error {
	result := r.scoped(ctx).
		Where("user_id = ? AND recipe_id = ?", ownerID, recipeID).
		Delete(&domain.Recipe{})
	if result.Error != nil {
		return unavailable(result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
