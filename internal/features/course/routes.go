package course

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes attaches course endpoints to the router.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, optional gin.HandlerFunc, instructors []gin.HandlerFunc) {
	courses := router.Group("/courses")

	courses.GET("", handler.List)
	courses.GET("/:courseId", optional, handler.GetByID)
	courses.POST("", append(instructors, handler.Create)...)
	courses.PUT("/:courseId", append(instructors, handler.Update)...)

	router.GET("/instructor/courses", append(instructors, handler.Mine)...)
}
