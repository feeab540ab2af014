package service

import (
	"alcyxob/recipe-app/internal/domain"
	"alcyxob/recipe-app/internal/repository"
	"alcyxob/recipe-app/internal/storage"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// --- Error Definitions ---
var (
	ErrValidation = errors.New("recipe validation failed")
	// ErrRecipeNotFound covers both a missing recipe and one owned by someone else.
	ErrRecipeNotFound = errors.New("recipe not found")
	ErrOwnerRequired  = errors.New("owner id is required")

	ErrStoreUnavailable  = errors.New("recipe store unavailable")
	ErrIssuerUnavailable = errors.New("attachment issuer unavailable")
)

type RecipeService interface {
	ListRecipes(ctx context.Context, ownerID string) ([]domain.Recipe, error)
	CreateRecipe(ctx context.Context, ownerID string, input domain.RecipeInput) (*domain.Recipe, error)
	UpdateRecipe(ctx context.Context, ownerID, recipeID string, fields domain.RecipeUpdate) error
	DeleteRecipe(ctx context.Context, ownerID, recipeID string) error
	// IssueAttachmentUpload returns a presigned PUT URL for the recipe's image.
	IssueAttachmentUpload(ctx context.Context, ownerID, recipeID string) (string, error)
}

// Option configures a recipeService.
type Option func(*recipeService)

// WithClock replaces time.Now for createdAt stamps.
func WithClock(now func() time.Time) Option {
	return func(s *recipeService) { s.now = now }
}

// WithIDGenerator replaces uuid.NewString for recipe ids.
func WithIDGenerator(newID func() string) Option {
	return func(s *recipeService) { s.newID = newID }
}

// recipeService implements the RecipeService interface.
type recipeService struct {
	recipeRepo  repository.RecipeRepository
	fileStorage storage.FileStorage
	urlExpiry   time.Duration
	logger      *slog.Logger
	now         func() time.Time
	newID       func() string
}

// NewRecipeService creates a new instance of recipeService.
func NewRecipeService(
	recipeRepo repository.RecipeRepository,
	fileStorage storage.FileStorage,
	urlExpiry time.Duration,
	logger *slog.Logger,
	opts ...Option,
) RecipeService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &recipeService{
		recipeRepo:  recipeRepo,
		fileStorage: fileStorage,
		urlExpiry:   urlExpiry,
		logger:      logger,
		now:         time.Now,
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListRecipes returns the owner's recipes. The slice is never nil.
func (s *recipeService) ListRecipes(ctx context.Context, ownerID string) ([]domain.Recipe, error) {
	if ownerID == "" {
		return nil, ErrOwnerRequired
	}
	recipes, err := s.recipeRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, s.storeFailure("list_recipes", ownerID, "", err)
	}
	if recipes == nil {
		recipes = []domain.Recipe{}
	}
	return recipes, nil
}

// CreateRecipe assigns a fresh id, stamps createdAt and derives the
// attachment URL before persisting.
func (s *recipeService) CreateRecipe(ctx context.Context, ownerID string, input domain.RecipeInput) (*domain.Recipe, error) {
	if ownerID == "" {
		return nil, ErrOwnerRequired
	}
	if err := validateName(input.Name); err != nil {
		return nil, err
	}

	recipeID := s.newID()
	recipe := &domain.Recipe{
		OwnerID:       ownerID,
		RecipeID:      recipeID,
		Name:          input.Name,
		Description:   input.Description,
		IsFavourite:   input.IsFavourite,
		CreatedAt:     s.now().UTC(),
		AttachmentURL: s.fileStorage.ObjectURL(recipeID),
	}

	created, err := s.recipeRepo.Put(ctx, recipe)
	if err != nil {
		return nil, s.storeFailure("create_recipe", ownerID, recipeID, err)
	}
	s.logger.Info("recipe created", "ownerId", ownerID, "recipeId", recipeID)
	return created, nil
}

// UpdateRecipe changes name, description and isFavourite only.
func (s *recipeService) UpdateRecipe(ctx context.Context, ownerID, recipeID string, fields domain.RecipeUpdate) error {
	if ownerID == "" {
		return ErrOwnerRequired
	}
	if recipeID == "" {
		return fmt.Errorf("%w: recipe id is required", ErrValidation)
	}
	if err := validateName(fields.Name); err != nil {
		return err
	}

	err := s.recipeRepo.Update(ctx, ownerID, recipeID, fields)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRecipeNotFound
		}
		return s.storeFailure("update_recipe", ownerID, recipeID, err)
	}
	return nil
}

// DeleteRecipe removes the record, then the attachment object if any.
// A failed object removal is logged and does not fail the delete.
func (s *recipeService) DeleteRecipe(ctx context.Context, ownerID, recipeID string) error {
	if ownerID == "" {
		return ErrOwnerRequired
	}
	if recipeID == "" {
		return fmt.Errorf("%w: recipe id is required", ErrValidation)
	}

	err := s.recipeRepo.Delete(ctx, ownerID, recipeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRecipeNotFound
		}
		return s.storeFailure("delete_recipe", ownerID, recipeID, err)
	}

	if err := s.fileStorage.DeleteObject(ctx, recipeID); err != nil {
		s.logger.Warn("failed to delete attachment", "op", "delete_recipe", "ownerId", ownerID, "recipeId", recipeID, "err", err)
	}
	return nil
}

// IssueAttachmentUpload checks the recipe belongs to ownerID and then mints a
// presigned PUT URL whose key is the recipe id.
func (s *recipeService) IssueAttachmentUpload(ctx context.Context, ownerID, recipeID string) (string, error) {
	if ownerID == "" {
		return "", ErrOwnerRequired
	}
	if recipeID == "" {
		return "", fmt.Errorf("%w: recipe id is required", ErrValidation)
	}

	if _, err := s.recipeRepo.Get(ctx, ownerID, recipeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrRecipeNotFound
		}
		return "", s.storeFailure("issue_attachment_upload", ownerID, recipeID, err)
	}

	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, recipeID, s.urlExpiry)
	if err != nil {
		s.logger.Error("failed to issue upload url", "op", "issue_attachment_upload", "ownerId", ownerID, "recipeId", recipeID, "err", err)
		return "", ErrIssuerUnavailable
	}
	return uploadURL, nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name must not be empty", ErrValidation)
	}
	return nil
}

// storeFailure logs the underlying cause and hides it from callers.
func (s *recipeService) storeFailure(op, ownerID, recipeID string, err error) error {
	s.logger.Error("recipe store failure", "op", op, "ownerId", ownerID, "recipeId", recipeID, "err", err)
	return ErrStoreUnavailable
}
