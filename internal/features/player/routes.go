package player

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes attaches outline and lecture view endpoints. lectureAccess must run
// after optional so the viewer is known.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, optional gin.HandlerFunc, lectureAccess gin.HandlerFunc) {
	router.GET("/courses/:courseId/lectures", optional, handler.Outline)
	router.GET("/lectures/:lectureId", optional, lectureAccess, handler.Lecture)
}
