package feedback

import "github.com/gin-gonic/gin"

// RegisterRoutes attaches feedback endpoints to the router.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, acAll []gin.HandlerFunc) {
	router.GET("/feedback", append(acAll, handler.ListVisible)...)
	router.GET("/courses/:courseId/feedback", append(acAll, handler.ListByCourse)...)
	router.POST("/courses/:courseId/feedback", append(acAll, handler.Create)...)
}
