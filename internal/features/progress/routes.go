package progress

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes attaches progress endpoints.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, optional gin.HandlerFunc, required gin.HandlerFunc) {
	videos := router.Group("/progress/videos/:videoId", required)
	videos.GET("", handler.Get)
	videos.POST("", handler.Save)
	videos.POST("/complete", handler.MarkCompleted)

	router.GET("/courses/:courseId/progress", optional, handler.CourseProgress)
	router.GET("/courses/:courseId/progress/completed-videos", required, handler.CompletedVideos)
	router.GET("/courses/:courseId/next-video", required, handler.NextVideo)
}
