package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/forkful/forkful-v2/backend/internal/middleware"
	"github.com/forkful/forkful-v2/backend/internal/service"
)

type ActivityHandler struct {
	activityService *service.ActivityService
	authService     service.TokenValidator
}

func NewActivityHandler(activityService *service.ActivityService, authService service.TokenValidator) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
		authService:     authService,
	}
}

func (h *ActivityHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/activity", middleware.RequireAuth(h.authService), h.ListActivity)
}

func (h *ActivityHandler) ListActivity(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	entries, err := h.activityService.List(c.Request.Context(), middleware.Principal(c), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"activity": entries})
}
