package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/foodgram-project/backend/internal/middleware"
)

// viewerID returns the authenticated identity as an optional parameter; nil
// means the request is anonymous.
func viewerID(c *gin.Context) *uint {
	if id, ok := middleware.UserID(c); ok {
		return &id
	}
	return nil
}

// mustUserID is used on routes behind AuthMiddleware.
func mustUserID(c *gin.Context) (uint, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
	}
	return id, ok
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

// parseBoolQuery reads a boolean-like query value; absent values stay nil.
func parseBoolQuery(c *gin.Context, name string) *bool {
	v, exists := c.GetQuery(name)
	if !exists {
		return nil
	}
	b := v == "1" || v == "true" || v == "True"
	return &b
}
