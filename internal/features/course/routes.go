package course

import "github.com/gin-gonic/gin"

// RegisterRoutes attaches course endpoints to the router.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, acAll, acAdmin []gin.HandlerFunc) {
	router.GET("/courses", append(acAll, handler.ListVisible)...)

	courses := router.Group("/admin/courses")
	courses.GET("", append(acAdmin, handler.List)...)
	courses.POST("", append(acAdmin, handler.Create)...)
	courses.GET("/:courseId", append(acAdmin, handler.GetByID)...)
	courses.PUT("/:courseId", append(acAdmin, handler.Update)...)
	courses.DELETE("/:courseId", append(acAdmin, handler.Delete)...)
}
