package watchlist

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes attaches watchlist endpoints.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, required gin.HandlerFunc) {
	router.GET("/me/watchlist", required, handler.List)

	courses := router.Group("/courses/:courseId/watchlist", required)
	courses.POST("", handler.Add)
	courses.DELETE("", handler.Remove)
	courses.POST("/toggle", handler.Toggle)
}
