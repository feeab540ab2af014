package api

import (
	"alcyxob/recipe-app/internal/config"
	"alcyxob/recipe-app/internal/domain"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

// MockRecipeService is a mock implementation of service.RecipeService
type MockRecipeService struct {
	mock.Mock
}

func (m *MockRecipeService) ListRecipes(ctx context.Context, ownerID string) ([]domain.Recipe, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Recipe), args.Error(1)
}

func (m *MockRecipeService) CreateRecipe(ctx context.Context, ownerID string, input domain.RecipeInput) (*domain.Recipe, error) {
	args := m.Called(ctx, ownerID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Recipe), args.Error(1)
}

func (m *MockRecipeService) UpdateRecipe(ctx context.Context, ownerID, recipeID string, fields domain.RecipeUpdate) error {
	args := m.Called(ctx, ownerID, recipeID, fields)
	return args.Error(0)
}

func (m *MockRecipeService) DeleteRecipe(ctx context.Context, ownerID, recipeID string) error {
	args := m.Called(ctx, ownerID, recipeID)
	return args.Error(0)
}

func (m *MockRecipeService) IssueAttachmentUpload(ctx context.Context, ownerID, recipeID string) (string, error) {
	args := m.Called(ctx, ownerID, recipeID)
	return args.String(0), args.Error(1)
}

func newTestVerifier(t *testing.T) *TokenVerifier {
	t.Helper()
	v, err := NewTokenVerifier(config.AuthConfig{Secret: testSecret})
	require.NoError(t, err)
	return v
}

func setupTestRouter(t *testing.T, svc *MockRecipeService) *gin.Engine {
	t.Helper()
	router := gin.New()
	SetupRoutes(router, Dependencies{
		RecipeService: svc,
		Verifier:      newTestVerifier(t),
	})
	return router
}

func tokenFor(t *testing.T, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func doRequest(t *testing.T, router http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func newRecorder(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
