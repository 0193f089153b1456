package recipe

import (
	"net/http"
	"strconv"

	"recipe-pantry/internal/api/handlers"
	"recipe-pantry/internal/core/recipe"
	"recipe-pantry/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// CreateIngredientRequest 新增食材請求
type CreateIngredientRequest struct {
	Name  string `json:"name" binding:"required"`
	Owned bool   `json:"owned"`
}

// ListIngredients GET /ingredients，?owned=true 只列出擁有的食材
func (h *Handler) ListIngredients(c *gin.Context) {
	ownedOnly := false
	if raw := c.Query("owned"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			handlers.RespondError(c, common.NewValidationError("owned must be a boolean"))
			return
		}
		ownedOnly = v
	}

	ingredients, err := h.ingredients.List(c.Request.Context(), ownedOnly)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ingredients)
}

// CreateIngredient POST /ingredients
func (h *Handler) CreateIngredient(c *gin.Context) {
	var req CreateIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.RespondBindError(c, err)
		return
	}

	ing, err := h.ingredients.Create(c.Request.Context(), req.Name, req.Owned)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ing)
}

// GetIngredient GET /ingredients/:id
func (h *Handler) GetIngredient(c *gin.Context) {
	id, ok := handlers.ParseIDParam(c, "id")
	if !ok {
		return
	}

	ing, err := h.ingredients.Get(c.Request.Context(), id)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ing)
}

// UpdateIngredient PATCH /ingredients/:id
func (h *Handler) UpdateIngredient(c *gin.Context) {
	id, ok := handlers.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req recipe.UpdateIngredientInput
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.RespondBindError(c, err)
		return
	}

	ing, err := h.ingredients.Update(c.Request.Context(), id, req)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ing)
}

// DeleteIngredient DELETE /ingredients/:id
func (h *Handler) DeleteIngredient(c *gin.Context) {
	id, ok := handlers.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.ingredients.Delete(c.Request.Context(), id); err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
