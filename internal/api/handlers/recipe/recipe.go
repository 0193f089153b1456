package recipe

import (
	"net/http"

	"recipe-pantry/internal/api/handlers"
	"recipe-pantry/internal/core/ai/parser"
	"recipe-pantry/internal/core/recipe"
	"recipe-pantry/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 食材與食譜目錄處理器
type Handler struct {
	ingredients *recipe.IngredientService
	recipes     *recipe.RecipeService
}

// NewHandler 創建目錄處理器
func NewHandler(ingredients *recipe.IngredientService, recipes *recipe.RecipeService) *Handler {
	return &Handler{
		ingredients: ingredients,
		recipes:     recipes,
	}
}

// ListRecipes GET /recipes
func (h *Handler) ListRecipes(c *gin.Context) {
	recipes, err := h.recipes.List(c.Request.Context())
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}

// CreateRecipe POST /recipes
func (h *Handler) CreateRecipe(c *gin.Context) {
	var req recipe.CreateRecipeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.RespondBindError(c, err)
		return
	}

	r, err := h.recipes.Create(c.Request.Context(), req)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

// GetRecipe GET /recipes/:id
func (h *Handler) GetRecipe(c *gin.Context) {
	id, ok := handlers.ParseIDParam(c, "id")
	if !ok {
		return
	}

	r, err := h.recipes.Get(c.Request.Context(), id)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// UpdateRecipe PUT /recipes/:id
func (h *Handler) UpdateRecipe(c *gin.Context) {
	id, ok := handlers.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req recipe.CreateRecipeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.RespondBindError(c, err)
		return
	}

	r, err := h.recipes.Update(c.Request.Context(), id, req)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// DeleteRecipe DELETE /recipes/:id
func (h *Handler) DeleteRecipe(c *gin.Context) {
	id, ok := handlers.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.recipes.Delete(c.Request.Context(), id); err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CanMake GET /recipes/can-make?ingredient_ids=1,2
//
// 未指定 ingredient_ids 時以擁有的食材判斷。
func (h *Handler) CanMake(c *gin.Context) {
	ids, err := common.ParseIDList(c.Query("ingredient_ids"))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	recipes, err := h.recipes.CanMake(c.Request.Context(), ids)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}

// SaveSuggestion POST /recipes/from-suggestion，將解析後的推薦食譜存入目錄
func (h *Handler) SaveSuggestion(c *gin.Context) {
	var req parser.ParsedRecipe
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.RespondBindError(c, err)
		return
	}

	r, err := h.recipes.SaveParsed(c.Request.Context(), req)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	common.LogInfo("推薦食譜已儲存",
		zap.Uint("recipe_id", r.ID),
		zap.String("request_id", requestid.Get(c)),
	)
	c.JSON(http.StatusCreated, r)
}
