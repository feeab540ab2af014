// Package client talks to the recipes API on behalf of a signed-in user and
// uploads attachment bytes straight to the presigned storage URL.
package client

import (
	"alcyxob/recipe-app/internal/domain"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
)

// ErrCredentials is returned when no bearer token could be obtained. The API
// call is not attempted.
var ErrCredentials = errors.New("could not obtain access token")

// APIError is a non-2xx response from the API or the storage backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Message)
}

// CreateRecipeRequest holds the fields of a new recipe.
type CreateRecipeRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsFavourite bool   `json:"isFavourite"`
}

// UpdateRecipeRequest holds the mutable fields of a recipe.
type UpdateRecipeRequest = CreateRecipeRequest

// Client is safe for concurrent use.
type Client struct {
	baseURL    string
	tokens     oauth2.TokenSource
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient overrides http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a client. tokens is wrapped in oauth2.ReuseTokenSource so a
// token is refreshed only once it expires.
func New(baseURL string, tokens oauth2.TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     oauth2.ReuseTokenSource(nil, tokens),
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) ListRecipes(ctx context.Context) ([]domain.Recipe, error) {
	var out struct {
		Items []domain.Recipe `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, "/recipes", nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (c *Client) CreateRecipe(ctx context.Context, req CreateRecipeRequest) (*domain.Recipe, error) {
	var out struct {
		Item *domain.Recipe `json:"item"`
	}
	if err := c.do(ctx, http.MethodPost, "/recipes", req, &out); err != nil {
		return nil, err
	}
	return out.Item, nil
}

func (c *Client) PatchRecipe(ctx context.Context, recipeID string, req UpdateRecipeRequest) error {
	return c.do(ctx, http.MethodPatch, "/recipes/"+url.PathEscape(recipeID), req, nil)
}

func (c *Client) DeleteRecipe(ctx context.Context, recipeID string) error {
	return c.do(ctx, http.MethodDelete, "/recipes/"+url.PathEscape(recipeID), nil, nil)
}

// GetUploadURL asks the API for a presigned upload URL for the recipe image.
func (c *Client) GetUploadURL(ctx context.Context, recipeID string) (string, error) {
	var out struct {
		UploadURL string `json:"uploadUrl"`
	}
	if err := c.do(ctx, http.MethodPost, "/recipes/"+url.PathEscape(recipeID)+"/attachment", nil, &out); err != nil {
		return "", err
	}
	return out.UploadURL, nil
}

// UploadFile PUTs body to a presigned URL. No Authorization header is sent;
// the signature in the URL is the credential.
func (c *Client) UploadFile(ctx context.Context, uploadURL string, body io.Reader) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, body)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(msg))}
	}
	return nil
}

// UploadAttachment runs both upload phases: fetch the URL, then PUT the bytes.
func (c *Client) UploadAttachment(ctx context.Context, recipeID string, body io.Reader) error {
	uploadURL, err := c.GetUploadURL(ctx, recipeID)
	if err != nil {
		return err
	}
	return c.UploadFile(ctx, uploadURL, body)
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	token, err := c.tokens.Token()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCredentials, err)
	}

	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	token.SetAuthHeader(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return &APIError{StatusCode: resp.StatusCode, Message: e.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}
