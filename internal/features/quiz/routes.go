package quiz

import "github.com/gin-gonic/gin"

// RegisterRoutes attaches quiz endpoints to the router.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, acAll, acAdmin []gin.HandlerFunc) {
	router.GET("/courses/:courseId/lessons/:lessonNumber/quiz", append(acAll, handler.GetForLearner)...)
	router.POST("/courses/:courseId/lessons/:lessonNumber/quiz", append(acAll, handler.Submit)...)

	router.GET("/admin/courses/:courseId/lessons/:lessonNumber/quiz", append(acAdmin, handler.GetForAdmin)...)
	router.PUT("/admin/courses/:courseId/lessons/:lessonNumber/quiz", append(acAdmin, handler.Save)...)
}
