package service

import (
	"alcyxob/recipe-app/internal/domain"
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockRecipeRepository is a mock implementation of repository.RecipeRepository
type MockRecipeRepository struct {
	mock.Mock
}

func (m *MockRecipeRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Recipe, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) Put(ctx context.Context, recipe *domain.Recipe) (*domain.Recipe, error) {
	args := m.Called(ctx, recipe)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	if fn, ok := args.Get(0).(func(context.Context, *domain.Recipe) *domain.Recipe); ok {
		return fn(ctx, recipe), args.Error(1)
	}
	return args.Get(0).(*domain.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) Get(ctx context.Context, ownerID, recipeID string) (*domain.Recipe, error) {
	args := m.Called(ctx, ownerID, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) Update(ctx context.Context, ownerID, recipeID string, fields domain.RecipeUpdate) error {
	args := m.Called(ctx, ownerID, recipeID, fields)
	return args.Error(0)
}

func (m *MockRecipeRepository) Delete(ctx context.Context, ownerID, recipeID string) error {
	args := m.Called(ctx, ownerID, recipeID)
	return args.Error(0)
}

// MockFileStorage is a mock implementation of storage.FileStorage
type MockFileStorage struct {
	mock.Mock
}

func (m *MockFileStorage) GeneratePresignedUploadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	args := m.Called(ctx, objectKey, expires)
	return args.String(0), args.Error(1)
}

func (m *MockFileStorage) ObjectURL(objectKey string) string {
	args := m.Called(objectKey)
	return args.String(0)
}

func (m *MockFileStorage) DeleteObject(ctx context.Context, objectKey string) error {
	args := m.Called(ctx, objectKey)
	return args.Error(0)
}

// bucketStorage derives URLs from a bucket name and signs nothing.
type bucketStorage struct {
	bucket string
}

func (b bucketStorage) GeneratePresignedUploadURL(_ context.Context, objectKey string, expires time.Duration) (string, error) {
	return "https://" + b.bucket + ".s3.amazonaws.com/" + objectKey + "?X-Amz-Expires=" + expires.String(), nil
}

func (b bucketStorage) ObjectURL(objectKey string) string {
	return "https://" + b.bucket + ".s3.amazonaws.com/" + objectKey
}

func (b bucketStorage) DeleteObject(context.Context, string) error { return nil }
