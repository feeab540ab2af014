package api

import (
	"alcyxob/recipe-app/internal/domain"
	"alcyxob/recipe-app/internal/service"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RecipeHandler holds the recipe service dependency.
type RecipeHandler struct {
	recipeService service.RecipeService
}

// NewRecipeHandler creates a new RecipeHandler.
func NewRecipeHandler(recipeService service.RecipeService) *RecipeHandler {
	return &RecipeHandler{recipeService: recipeService}
}

// --- DTOs ---

// CreateRecipeRequest is the body of POST /recipes.
type CreateRecipeRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	IsFavourite *bool  `json:"isFavourite" binding:"required"`
}

// UpdateRecipeRequest is the body of PATCH /recipes/:recipeId.
type UpdateRecipeRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	IsFavourite *bool  `json:"isFavourite" binding:"required"`
}

type listRecipesResponse struct {
	Items []domain.Recipe `json:"items"`
}

type createRecipeResponse struct {
	Item *domain.Recipe `json:"item"`
}

type uploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
}

// recipeIDParam reads :recipeId, which must be a UUID.
func recipeIDParam(c *gin.Context) (string, error) {
	raw := c.Param("recipeId")
	if _, err := uuid.Parse(raw); err != nil {
		return "", fmt.Errorf("%w: recipeId must be a UUID", errBadRequest)
	}
	return raw, nil
}

// --- Handler Methods ---

// GetRecipes godoc
// @Summary List my recipes
// @Tags Recipes
// @Produce json
// @Security BearerAuth
// @Success 200 {object} listRecipesResponse
// @Router /recipes [get]
func (h *RecipeHandler) GetRecipes(c *gin.Context) {
	ownerID, err := getOwnerIDFromContext(c)
	if err != nil {
		respondError(c, err)
		return
	}

	recipes, err := h.recipeService.ListRecipes(c.Request.Context(), ownerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listRecipesResponse{Items: recipes})
}

// CreateRecipe godoc
// @Summary Create a recipe
// @Tags Recipes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param recipe body CreateRecipeRequest true "Recipe fields"
// @Success 201 {object} createRecipeResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Router /recipes [post]
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	ownerID, err := getOwnerIDFromContext(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Debug("invalid create body", "err", err)
		respondError(c, fmt.Errorf("%w: name and isFavourite are required", errBadRequest))
		return
	}

	recipe, err := h.recipeService.CreateRecipe(c.Request.Context(), ownerID, domain.RecipeInput{
		Name:        req.Name,
		Description: req.Description,
		IsFavourite: *req.IsFavourite,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, createRecipeResponse{Item: recipe})
}

// UpdateRecipe godoc
// @Summary Update name, description and favourite flag
// @Tags Recipes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param recipeId path string true "Recipe id"
// @Param recipe body UpdateRecipeRequest true "Mutable fields"
// @Success 201 {object} gin.H
// @Failure 404 {object} gin.H "Not found or not owned"
// @Router /recipes/{recipeId} [patch]
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	ownerID, err := getOwnerIDFromContext(c)
	if err != nil {
		respondError(c, err)
		return
	}
	recipeID, err := recipeIDParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Debug("invalid update body", "err", err)
		respondError(c, fmt.Errorf("%w: name and isFavourite are required", errBadRequest))
		return
	}

	err = h.recipeService.UpdateRecipe(c.Request.Context(), ownerID, recipeID, domain.RecipeUpdate{
		Name:        req.Name,
		Description: req.Description,
		IsFavourite: *req.IsFavourite,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	// 201 with an empty object, as existing clients expect
	c.JSON(http.StatusCreated, gin.H{})
}

// DeleteRecipe godoc
// @Summary Delete a recipe
// @Tags Recipes
// @Security BearerAuth
// @Param recipeId path string true "Recipe id"
// @Success 201 {object} gin.H
// @Failure 404 {object} gin.H "Not found or not owned"
// @Router /recipes/{recipeId} [delete]
func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	ownerID, err := getOwnerIDFromContext(c)
	if err != nil {
		respondError(c, err)
		return
	}
	recipeID, err := recipeIDParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.recipeService.DeleteRecipe(c.Request.Context(), ownerID, recipeID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{})
}

// CreateAttachmentURL godoc
// @Summary Get a presigned URL to upload the recipe image
// @Description The client PUTs the image bytes straight to the returned URL.
// @Tags Recipes
// @Produce json
// @Security BearerAuth
// @Param recipeId path string true "Recipe id"
// @Success 201 {object} uploadURLResponse
// @Failure 404 {object} gin.H "Not found or not owned"
// @Router /recipes/{recipeId}/attachment [post]
func (h *RecipeHandler) CreateAttachmentURL(c *gin.Context) {
	ownerID, err := getOwnerIDFromContext(c)
	if err != nil {
		respondError(c, err)
		return
	}
	recipeID, err := recipeIDParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	uploadURL, err := h.recipeService.IssueAttachmentUpload(c.Request.Context(), ownerID, recipeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, uploadURLResponse{UploadURL: uploadURL})
}
