package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/forkful/forkful-v2/backend/internal/middleware"
	"github.com/forkful/forkful-v2/backend/internal/models"
	"github.com/forkful/forkful-v2/backend/internal/service"
	"github.com/forkful/forkful-v2/backend/internal/types"
)

type CollectionHandler struct {
	collectionService *service.CollectionService
	authService       service.TokenValidator
}

func NewCollectionHandler(collectionService *service.CollectionService, authService service.TokenValidator) *CollectionHandler {
	return &CollectionHandler{
		collectionService: collectionService,
		authService:       authService,
	}
}

func (h *CollectionHandler) RegisterRoutes(router *gin.RouterGroup) {
	collections := router.Group("/collections")
	{
		collections.GET("", middleware.OptionalAuth(h.authService), h.ListCollections)
		collections.GET("/:id", middleware.OptionalAuth(h.authService), h.GetCollection)
		collections.GET("/:id/recipes", middleware.OptionalAuth(h.authService), h.ListCollectionRecipes)

		collections.POST("", middleware.RequireAuth(h.authService), h.CreateCollection)
		collections.PUT("/:id", middleware.RequireAuth(h.authService), h.UpdateCollection)
		collections.DELETE("/:id", middleware.RequireAuth(h.authService), h.DeleteCollection)
		collections.POST("/:id/recipes", middleware.RequireAuth(h.authService), h.AddRecipe)
		collections.DELETE("/:id/recipes/:recipeId", middleware.RequireAuth(h.authService), h.RemoveRecipe)
	}
}

func (h *CollectionHandler) ListCollections(c *gin.Context) {
	collections, err := h.collectionService.List(c.Request.Context(), middleware.Principal(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"collections": collections})
}

func (h *CollectionHandler) GetCollection(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid collection id"})
		return
	}

	collection, err := h.collectionService.Get(c.Request.Context(), middleware.Principal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"collection": collection})
}

func (h *CollectionHandler) CreateCollection(c *gin.Context) {
	var req types.CreateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	collection := &models.Collection{
		Name:        req.Name,
		Description: req.Description,
		IsPublic:    req.IsPublic,
	}
	created, err := h.collectionService.Create(c.Request.Context(), middleware.Principal(c), collection)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"collection": created})
}

func (h *CollectionHandler) UpdateCollection(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid collection id"})
		return
	}

	var req types.UpdateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update := service.CollectionUpdate{IsPublic: req.IsPublic}
	if req.Name != "" {
		update.Name = &req.Name
	}
	if req.Description != "" {
		update.Description = &req.Description
	}

	collection, err := h.collectionService.Update(c.Request.Context(), middleware.Principal(c), id, update)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"collection": collection})
}

func (h *CollectionHandler) DeleteCollection(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid collection id"})
		return
	}

	if err := h.collectionService.Delete(c.Request.Context(), middleware.Principal(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CollectionHandler) AddRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid collection id"})
		return
	}

	var req types.AddCollectionRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.collectionService.AddRecipe(c.Request.Context(), middleware.Principal(c), id, req.RecipeID, req.Note); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "recipe added to collection"})
}

func (h *CollectionHandler) RemoveRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid collection id"})
		return
	}
	recipeID, err := uuid.Parse(c.Param("recipeId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	if err := h.collectionService.RemoveRecipe(c.Request.Context(), middleware.Principal(c), id, recipeID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CollectionHandler) ListCollectionRecipes(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid collection id"})
		return
	}

	links, err := h.collectionService.ListRecipes(c.Request.Context(), middleware.Principal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": links})
}
