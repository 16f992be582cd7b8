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

type RecipeHandler struct {
	recipeService   *service.RecipeService
	favoriteService *service.FavoriteService
	reviewService   *service.ReviewService
	authService     service.TokenValidator
	createLimiter   *middleware.RateLimiter
}

func NewRecipeHandler(
	recipeService *service.RecipeService,
	favoriteService *service.FavoriteService,
	reviewService *service.ReviewService,
	authService service.TokenValidator,
	createLimiter *middleware.RateLimiter,
) *RecipeHandler {
	return &RecipeHandler{
		recipeService:   recipeService,
		favoriteService: favoriteService,
		reviewService:   reviewService,
		authService:     authService,
		createLimiter:   createLimiter,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		// Reads resolve the principal but don't require one: anonymous
		// callers see public recipes only.
		recipes.GET("", middleware.OptionalAuth(h.authService), h.ListRecipes)
		recipes.GET("/:id", middleware.OptionalAuth(h.authService), h.GetRecipe)
		recipes.GET("/:id/reviews", middleware.OptionalAuth(h.authService), h.ListReviews)

		recipes.POST("", middleware.RequireAuth(h.authService), h.createLimiter.Middleware(), h.CreateRecipe)
		recipes.PUT("/:id", middleware.RequireAuth(h.authService), h.UpdateRecipe)
		recipes.DELETE("/:id", middleware.RequireAuth(h.authService), h.DeleteRecipe)
		recipes.POST("/:id/favorite", middleware.RequireAuth(h.authService), h.FavoriteRecipe)
		recipes.DELETE("/:id/favorite", middleware.RequireAuth(h.authService), h.UnfavoriteRecipe)
		recipes.POST("/:id/reviews", middleware.RequireAuth(h.authService), h.CreateReview)
	}
	router.GET("/favorites", middleware.RequireAuth(h.authService), h.ListFavorites)
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	p := middleware.Principal(c)

	filter := service.ListRecipesFilter{
		Query:    c.Query("q"),
		Category: c.Query("category"),
	}
	if owner := c.Query("owner"); owner != "" {
		ownerID, err := uuid.Parse(owner)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid owner id"})
			return
		}
		filter.OwnerID = &ownerID
	}

	recipes, err := h.recipeService.List(c.Request.Context(), p, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	recipe, err := h.recipeService.Get(c.Request.Context(), middleware.Principal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipe": recipe})
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req types.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p := middleware.Principal(c)
	recipe := &models.Recipe{
		Name:         req.Name,
		Description:  req.Description,
		Category:     req.Category,
		ImageURL:     req.ImageURL,
		Ingredients:  models.JSONBStringArray(req.Ingredients),
		Instructions: models.JSONBStringArray(req.Instructions),
		Calories:     req.Calories,
		Protein:      req.Protein,
		Carbs:        req.Carbs,
		Fat:          req.Fat,
		IsPublic:     req.IsPublic,
		UserID:       p.ID,
	}

	created, err := h.recipeService.Create(c.Request.Context(), p, recipe)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"recipe": created})
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	var req types.UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update := service.RecipeUpdate{
		Name:         req.Name,
		Description:  req.Description,
		Category:     req.Category,
		ImageURL:     req.ImageURL,
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
		Calories:     req.Calories,
		Protein:      req.Protein,
		Carbs:        req.Carbs,
		Fat:          req.Fat,
		IsPublic:     req.IsPublic,
	}

	recipe, err := h.recipeService.Update(c.Request.Context(), middleware.Principal(c), id, update)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipe": recipe})
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	if err := h.recipeService.SoftDelete(c.Request.Context(), middleware.Principal(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) FavoriteRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	if err := h.favoriteService.Favorite(c.Request.Context(), middleware.Principal(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "recipe favorited"})
}

func (h *RecipeHandler) UnfavoriteRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	if err := h.favoriteService.Unfavorite(c.Request.Context(), middleware.Principal(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "recipe unfavorited"})
}

func (h *RecipeHandler) ListFavorites(c *gin.Context) {
	recipes, err := h.favoriteService.ListFavorites(c.Request.Context(), middleware.Principal(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

func (h *RecipeHandler) CreateReview(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	var req types.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := h.reviewService.Create(c.Request.Context(), middleware.Principal(c), id, req.Rating, req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"review": review})
}

func (h *RecipeHandler) ListReviews(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	reviews, err := h.reviewService.ListForRecipe(c.Request.Context(), middleware.Principal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}
