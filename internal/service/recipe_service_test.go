package service

import (
	"alcyxob/recipe-app/internal/domain"
	"alcyxob/recipe-app/internal/repository"
	"alcyxob/recipe-app/internal/repository/relational"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestCreateRecipe(t *testing.T) {
	fixed := time.Date(2024, 3, 10, 8, 30, 0, 0, time.FixedZone("CET", 3600))

	testCases := []struct {
		name          string
		input         domain.RecipeInput
		putError      error
		expectedError error
		expectPut     bool
	}{
		{
			name:      "happy_case",
			input:     domain.RecipeInput{Name: "Soup", Description: "Hot soup"},
			expectPut: true,
		},
		{
			name:          "empty_name",
			input:         domain.RecipeInput{Name: "   "},
			expectedError: ErrValidation,
		},
		{
			name:          "store_error",
			input:         domain.RecipeInput{Name: "Soup"},
			putError:      fmt.Errorf("%w: connection refused", repository.ErrUnavailable),
			expectedError: ErrStoreUnavailable,
			expectPut:     true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := new(MockRecipeRepository)
			files := new(MockFileStorage)
			svc := NewRecipeService(repo, files, time.Minute, discardLogger,
				WithClock(func() time.Time { return fixed }),
				WithIDGenerator(func() string { return "rid-1" }),
			)

			if tc.expectPut {
				files.On("ObjectURL", "rid-1").Return("https://bucket.s3.amazonaws.com/rid-1")
				matcher := mock.MatchedBy(func(r *domain.Recipe) bool {
					return r.OwnerID == "u1" && r.RecipeID == "rid-1" && r.AttachmentURL == "https://bucket.s3.amazonaws.com/rid-1"
				})
				if tc.putError != nil {
					repo.On("Put", mock.Anything, matcher).Return(nil, tc.putError)
				} else {
					repo.On("Put", mock.Anything, matcher).Return(func(_ context.Context, r *domain.Recipe) *domain.Recipe { return r }, nil)
				}
			}

			got, err := svc.CreateRecipe(context.Background(), "u1", tc.input)

			if tc.expectedError != nil {
				assert.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, got)
				assert.NotContains(t, err.Error(), "connection refused")
			} else {
				require.NoError(t, err)
				assert.Equal(t, "rid-1", got.RecipeID)
				assert.Equal(t, "u1", got.OwnerID)
				assert.Equal(t, tc.input.Name, got.Name)
				assert.Equal(t, time.UTC, got.CreatedAt.Location())
				assert.True(t, fixed.Equal(got.CreatedAt))
			}
			repo.AssertExpectations(t)
			files.AssertExpectations(t)
		})
	}
}

func TestListRecipesNeverNil(t *testing.T) {
	repo := new(MockRecipeRepository)
	repo.On("ListByOwner", mock.Anything, "u1").Return(nil, nil)
	svc := NewRecipeService(repo, new(MockFileStorage), time.Minute, discardLogger)

	recipes, err := svc.ListRecipes(context.Background(), "u1")
	require.NoError(t, err)
	assert.NotNil(t, recipes)
	assert.Empty(t, recipes)
}

func TestOwnerRequired(t *testing.T) {
	svc := NewRecipeService(new(MockRecipeRepository), new(MockFileStorage), time.Minute, discardLogger)
	ctx := context.Background()

	_, err := svc.ListRecipes(ctx, "")
	assert.ErrorIs(t, err, ErrOwnerRequired)
	_, err = svc.CreateRecipe(ctx, "", domain.RecipeInput{Name: "x"})
	assert.ErrorIs(t, err, ErrOwnerRequired)
	assert.ErrorIs(t, svc.UpdateRecipe(ctx, "", "r", domain.RecipeUpdate{Name: "x"}), ErrOwnerRequired)
	assert.ErrorIs(t, svc.DeleteRecipe(ctx, "", "r"), ErrOwnerRequired)
	_, err = svc.IssueAttachmentUpload(ctx, "", "r")
	assert.ErrorIs(t, err, ErrOwnerRequired)
}

func TestUpdateRecipeErrors(t *testing.T) {
	testCases := []struct {
		name          string
		repoError     error
		expectedError error
	}{
		{"ok", nil, nil},
		{"not_owned", repository.ErrNotFound, ErrRecipeNotFound},
		{"store_down", fmt.Errorf("%w: timeout", repository.ErrUnavailable), ErrStoreUnavailable},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := new(MockRecipeRepository)
			fields := domain.RecipeUpdate{Name: "Soup v2", IsFavourite: true}
			repo.On("Update", mock.Anything, "u2", "r1", fields).Return(tc.repoError)
			svc := NewRecipeService(repo, new(MockFileStorage), time.Minute, discardLogger)

			err := svc.UpdateRecipe(context.Background(), "u2", "r1", fields)
			if tc.expectedError == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.expectedError)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestUpdateRecipeRejectsEmptyName(t *testing.T) {
	repo := new(MockRecipeRepository)
	svc := NewRecipeService(repo, new(MockFileStorage), time.Minute, discardLogger)

	err := svc.UpdateRecipe(context.Background(), "u1", "r1", domain.RecipeUpdate{Name: ""})
	assert.ErrorIs(t, err, ErrValidation)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteRecipe(t *testing.T) {
	t.Run("removes attachment", func(t *testing.T) {
		repo := new(MockRecipeRepository)
		files := new(MockFileStorage)
		repo.On("Delete", mock.Anything, "u1", "r1").Return(nil)
		files.On("DeleteObject", mock.Anything, "r1").Return(nil)
		svc := NewRecipeService(repo, files, time.Minute, discardLogger)

		assert.NoError(t, svc.DeleteRecipe(context.Background(), "u1", "r1"))
		files.AssertExpectations(t)
	})

	t.Run("attachment failure is not fatal", func(t *testing.T) {
		repo := new(MockRecipeRepository)
		files := new(MockFileStorage)
		repo.On("Delete", mock.Anything, "u1", "r1").Return(nil)
		files.On("DeleteObject", mock.Anything, "r1").Return(assert.AnError)
		svc := NewRecipeService(repo, files, time.Minute, discardLogger)

		assert.NoError(t, svc.DeleteRecipe(context.Background(), "u1", "r1"))
	})

	t.Run("not owned", func(t *testing.T) {
		repo := new(MockRecipeRepository)
		files := new(MockFileStorage)
		repo.On("Delete", mock.Anything, "u2", "r1").Return(repository.ErrNotFound)
		svc := NewRecipeService(repo, files, time.Minute, discardLogger)

		assert.ErrorIs(t, svc.DeleteRecipe(context.Background(), "u2", "r1"), ErrRecipeNotFound)
		files.AssertNotCalled(t, "DeleteObject", mock.Anything, mock.Anything)
	})
}

func TestIssueAttachmentUpload(t *testing.T) {
	t.Run("owner gets url for recipe key", func(t *testing.T) {
		repo := new(MockRecipeRepository)
		files := new(MockFileStorage)
		repo.On("Get", mock.Anything, "u1", "r1").Return(&domain.Recipe{OwnerID: "u1", RecipeID: "r1"}, nil)
		files.On("GeneratePresignedUploadURL", mock.Anything, "r1", 5*time.Minute).Return("https://signed/r1", nil)
		svc := NewRecipeService(repo, files, 5*time.Minute, discardLogger)

		got, err := svc.IssueAttachmentUpload(context.Background(), "u1", "r1")
		require.NoError(t, err)
		assert.Equal(t, "https://signed/r1", got)
		files.AssertExpectations(t)
	})

	t.Run("other owner is refused before signing", func(t *testing.T) {
		repo := new(MockRecipeRepository)
		files := new(MockFileStorage)
		repo.On("Get", mock.Anything, "u2", "r1").Return(nil, repository.ErrNotFound)
		svc := NewRecipeService(repo, files, 5*time.Minute, discardLogger)

		_, err := svc.IssueAttachmentUpload(context.Background(), "u2", "r1")
		assert.ErrorIs(t, err, ErrRecipeNotFound)
		files.AssertNotCalled(t, "GeneratePresignedUploadURL", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("signing failure", func(t *testing.T) {
		repo := new(MockRecipeRepository)
		files := new(MockFileStorage)
		repo.On("Get", mock.Anything, "u1", "r1").Return(&domain.Recipe{}, nil)
		files.On("GeneratePresignedUploadURL", mock.Anything, "r1", time.Minute).Return("", assert.AnError)
		svc := NewRecipeService(repo, files, time.Minute, discardLogger)

		_, err := svc.IssueAttachmentUpload(context.Background(), "u1", "r1")
		assert.ErrorIs(t, err, ErrIssuerUnavailable)
	})
}

func newSQLiteService(t *testing.T) RecipeService {
	t.Helper()
	db, err := relational.Open(relational.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = relational.Close(db) })
	require.NoError(t, relational.Migrate(db, relational.DefaultRecipeTable))
	repo := relational.NewGormRecipeRepository(db, relational.DefaultRecipeTable)
	return NewRecipeService(repo, bucketStorage{bucket: "recipe-images"}, time.Minute, discardLogger)
}

func TestRecipeLifecycle(t *testing.T) {
	svc := newSQLiteService(t)
	ctx := context.Background()

	created, err := svc.CreateRecipe(ctx, "u1", domain.RecipeInput{Name: "Soup", Description: "Hot soup"})
	require.NoError(t, err)
	require.NotEmpty(t, created.RecipeID)
	_, err = uuid.Parse(created.RecipeID)
	assert.NoError(t, err)
	assert.Equal(t, "https://recipe-images.s3.amazonaws.com/"+created.RecipeID, created.AttachmentURL)
	assert.True(t, strings.HasSuffix(created.AttachmentURL, created.RecipeID))
	assert.False(t, created.CreatedAt.IsZero())

	err = svc.UpdateRecipe(ctx, "u1", created.RecipeID, domain.RecipeUpdate{Name: "Soup v2", Description: "Hot soup", IsFavourite: true})
	require.NoError(t, err)

	recipes, err := svc.ListRecipes(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Soup v2", recipes[0].Name)
	assert.True(t, recipes[0].IsFavourite)
	assert.Equal(t, created.RecipeID, recipes[0].RecipeID)
	assert.True(t, created.CreatedAt.Equal(recipes[0].CreatedAt))

	first, err := svc.IssueAttachmentUpload(ctx, "u1", created.RecipeID)
	require.NoError(t, err)
	second, err := svc.IssueAttachmentUpload(ctx, "u1", created.RecipeID)
	require.NoError(t, err)
	assert.Contains(t, first, "/"+created.RecipeID+"?")
	assert.Contains(t, second, "/"+created.RecipeID+"?")

	require.NoError(t, svc.DeleteRecipe(ctx, "u1", created.RecipeID))
	recipes, err = svc.ListRecipes(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, recipes)
}

func TestOtherOwnerCannotTouchRecipe(t *testing.T) {
	svc := newSQLiteService(t)
	ctx := context.Background()

	created, err := svc.CreateRecipe(ctx, "u1", domain.RecipeInput{Name: "Soup", Description: "Hot soup"})
	require.NoError(t, err)

	err = svc.UpdateRecipe(ctx, "u2", created.RecipeID, domain.RecipeUpdate{Name: "Hijacked", IsFavourite: true})
	assert.ErrorIs(t, err, ErrRecipeNotFound)
	assert.ErrorIs(t, svc.DeleteRecipe(ctx, "u2", created.RecipeID), ErrRecipeNotFound)
	_, err = svc.IssueAttachmentUpload(ctx, "u2", created.RecipeID)
	assert.ErrorIs(t, err, ErrRecipeNotFound)

	recipes, err := svc.ListRecipes(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Soup", recipes[0].Name)
	assert.False(t, recipes[0].IsFavourite)

	others, err := svc.ListRecipes(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, others)
}

func TestCreateGeneratesUniqueIDs(t *testing.T) {
	svc := newSQLiteService(t)
	ctx := context.Background()
	seen := map[string]bool{}

	for i := 0; i < 50; i++ {
		r, err := svc.CreateRecipe(ctx, "u1", domain.RecipeInput{Name: fmt.Sprintf("recipe %d", i)})
		require.NoError(t, err)
		assert.False(t, seen[r.RecipeID], "duplicate id %s", r.RecipeID)
		seen[r.RecipeID] = true
	}
}
