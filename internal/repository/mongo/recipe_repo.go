package mongo

import (
	"alcyxob/recipe-app/internal/domain"
	"alcyxob/recipe-app/internal/repository"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultRecipeCollection is used when no table name is configured.
const DefaultRecipeCollection = "recipes"

// mongoRecipeRepository implements repository.RecipeRepository
type mongoRecipeRepository struct {
	collection *mongo.Collection
}

// NewMongoRecipeRepository creates a new Recipe repository backed by MongoDB.
func NewMongoRecipeRepository(db *mongo.Database, collectionName string) repository.RecipeRepository {
	if collectionName == "" {
		collectionName = DefaultRecipeCollection
	}
	return &mongoRecipeRepository{
		collection: db.Collection(collectionName),
	}
}

func ownedFilter(ownerID, recipeID string) bson.M {
	return bson.M{"userId": ownerID, "recipeId": recipeID}
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %v", repository.ErrUnavailable, err)
}

// ListByOwner returns every recipe in the owner's partition, newest first.
func (r *mongoRecipeRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Recipe, error) {
	recipes := []domain.Recipe{}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"userId": ownerID}, findOptions)
	if err != nil {
		return nil, unavailable(err)
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &recipes); err != nil {
		return nil, unavailable(err)
	}
	return recipes, nil
}

// Put inserts the recipe, replacing any record with the same (userId, recipeId).
func (r *mongoRecipeRepository) Put(ctx context.Context, recipe *domain.Recipe) (*domain.Recipe, error) {
	if recipe.OwnerID == "" || recipe.RecipeID == "" {
		return nil, errors.New("recipe requires userId and recipeId")
	}

	_, err := r.collection.ReplaceOne(ctx,
		ownedFilter(recipe.OwnerID, recipe.RecipeID),
		recipe,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return nil, unavailable(err)
	}
	return recipe, nil
}

// Get retrieves one recipe from the owner's partition.
func (r *mongoRecipeRepository) Get(ctx context.Context, ownerID, recipeID string) (*domain.Recipe, error) {
	var recipe domain.Recipe
	err := r.collection.FindOne(ctx, ownedFilter(ownerID, recipeID)).Decode(&recipe)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, unavailable(err)
	}
	return &recipe, nil
}

// Update sets the mutable fields. The filter carries userId, so a recipe
// owned by someone else never matches.
func (r *mongoRecipeRepository) Update(ctx context.Context, ownerID, recipeID string, fields domain.RecipeUpdate) error {
	update := bson.M{
		"$set": bson.M{
			"name":        fields.Name,
			"description": fields.Description,
			"isFavourite": fields.IsFavourite,
		},
	}

	result, err := r.collection.UpdateOne(ctx, ownedFilter(ownerID, recipeID), update)
	if err != nil {
		return unavailable(err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes the recipe if it belongs to ownerID.
func (r *mongoRecipeRepository) Delete(ctx context.Context, ownerID, recipeID string) error {
	result, err := r.collection.DeleteOne(ctx, ownedFilter(ownerID, recipeID))
	if err != nil {
		return unavailable(err)
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureRecipeIndexes creates necessary indexes for the recipes collection.
func EnsureRecipeIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "recipeId", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("owner_recipe_unique"),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("owner_created"),
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		slog.Warn("failed to create indexes", "collection", collection.Name(), "err", err)
	}
}
