package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/forkful/forkful-v2/backend/internal/middleware"
	"github.com/forkful/forkful-v2/backend/internal/service"
	"github.com/forkful/forkful-v2/backend/internal/types"
)

type AdminHandler struct {
	adminService *service.AdminService
	authService  service.TokenValidator
}

func NewAdminHandler(adminService *service.AdminService, authService service.TokenValidator) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		authService:  authService,
	}
}

func (h *AdminHandler) RegisterRoutes(router *gin.RouterGroup) {
	// Role checks happen in the service so that non-admins get the same
	// error shape regardless of route.
	admin := router.Group("/admin", middleware.RequireAuth(h.authService))
	{
		admin.GET("/users", h.ListUsers)
		admin.PUT("/users/:id/role", h.SetUserRole)
		admin.DELETE("/users/:id", h.DeleteUser)
		admin.GET("/audit", h.AuditLog)
	}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.adminService.ListUsers(c.Request.Context(), middleware.Principal(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *AdminHandler) SetUserRole(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	var req types.SetUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.adminService.SetUserRole(c.Request.Context(), middleware.Principal(c), id, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	if err := h.adminService.DeleteUser(c.Request.Context(), middleware.Principal(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AdminHandler) AuditLog(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	actions, err := h.adminService.AuditLog(c.Request.Context(), middleware.Principal(c), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"actions": actions})
}
