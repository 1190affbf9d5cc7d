package user

import "github.com/gin-gonic/gin"

// RegisterRoutes attaches administrator user endpoints to the router.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, acAdmin []gin.HandlerFunc) {
	users := router.Group("/admin/users")
	{
		users.GET("", append(acAdmin, handler.List)...)
		users.POST("", append(acAdmin, handler.Create)...)
		users.PUT("/:email/permissions", append(acAdmin, handler.UpdatePermissions)...)
	}
}
