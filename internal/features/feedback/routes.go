package feedback

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes attaches review endpoints.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, required gin.HandlerFunc) {
	courses := router.Group("/courses/:courseId/feedback")
	courses.GET("", handler.List)
	courses.GET("/stats", handler.Stats)
	courses.GET("/mine", required, handler.Mine)
	courses.POST("", required, handler.Add)

	router.PUT("/feedback/:feedbackId", required, handler.Update)
	router.DELETE("/feedback/:feedbackId", required, handler.Delete)
	router.GET("/me/feedback", required, handler.ListMine)
}
