package lecture

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes attaches instructor lecture and video endpoints.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, instructors []gin.HandlerFunc) {
	router.POST("/courses/:courseId/lectures", append(instructors, handler.Create)...)

	lectures := router.Group("/lectures/:lectureId")
	lectures.PUT("", append(instructors, handler.Update)...)
	lectures.DELETE("", append(instructors, handler.Delete)...)
	lectures.POST("/videos", append(instructors, handler.AddVideo)...)

	router.DELETE("/videos/:videoId", append(instructors, handler.DeleteVideo)...)
}
