package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/forkful/forkful-v2/backend/internal/middleware"
)

// respondError maps a service error onto its HTTP status. Internal errors
// hide their detail from the caller.
func respondError(c *gin.Context, err error) {
	status := middleware.StatusForError(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
