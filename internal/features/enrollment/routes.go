package enrollment

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes attaches enrollment endpoints.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, optional, required gin.HandlerFunc) {
	router.POST("/courses/:courseId/enroll", required, handler.Enroll)
	router.GET("/courses/:courseId/enrollment", optional, handler.Status)
	router.GET("/me/courses", required, handler.MyCourses)
}
