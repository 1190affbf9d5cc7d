package lesson

import "github.com/gin-gonic/gin"

// RegisterRoutes attaches lesson endpoints to the router.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, acAll, acAdmin []gin.HandlerFunc) {
	lessons := router.Group("/courses/:courseId/lessons")
	lessons.GET("", append(acAll, handler.ListForCourse)...)
	lessons.GET("/:lessonNumber", append(acAll, handler.GetContent)...)
	lessons.POST("/:lessonNumber/like", append(acAll, handler.ToggleLike)...)

	admin := router.Group("/admin/courses/:courseId/lessons")
	admin.GET("", append(acAdmin, handler.List)...)
	admin.GET("/:lessonNumber", append(acAdmin, handler.GetByNumber)...)
	admin.PUT("/:lessonNumber", append(acAdmin, handler.Upsert)...)
	admin.DELETE("/:lessonNumber", append(acAdmin, handler.Delete)...)
}
