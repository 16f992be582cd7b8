package router

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/forkful/forkful-v2/backend/config"
	"github.com/forkful/forkful-v2/backend/internal/api"
	"github.com/forkful/forkful-v2/backend/internal/middleware"
	"github.com/forkful/forkful-v2/backend/internal/service"
)

// New assembles the gin engine: services, handlers and the shared middleware
// chain. A nil redis client disables rate limiting; a nil responder falls back
// to the built-in suggestion responder.
func New(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, responder service.Responder, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	authService := service.NewAuthService(db, cfg.JWTSecret)
	recipeService := service.NewRecipeService(db)
	favoriteService := service.NewFavoriteService(db)
	collectionService := service.NewCollectionService(db)
	reviewService := service.NewReviewService(db)
	chatService := service.NewChatService(db, responder, logger)
	activityService := service.NewActivityService(db)
	adminService := service.NewAdminService(db)

	recipeLimiter := middleware.NewRecipeCreationRateLimiter(redisClient)
	chatLimiter := middleware.NewChatMessageRateLimiter(redisClient)

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	api.NewAuthHandler(authService).RegisterRoutes(v1)
	api.NewRecipeHandler(recipeService, favoriteService, reviewService, authService, recipeLimiter).RegisterRoutes(v1)
	api.NewCollectionHandler(collectionService, authService).RegisterRoutes(v1)
	api.NewReviewHandler(reviewService, authService).RegisterRoutes(v1)
	api.NewChatHandler(chatService, authService, chatLimiter).RegisterRoutes(v1)
	api.NewActivityHandler(activityService, authService).RegisterRoutes(v1)
	api.NewAdminHandler(adminService, authService).RegisterRoutes(v1)

	return router
}
