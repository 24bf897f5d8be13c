package access

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes attaches the access query endpoint.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, optional gin.HandlerFunc) {
	router.GET("/lectures/:lectureId/access", optional, handler.Check)
}
