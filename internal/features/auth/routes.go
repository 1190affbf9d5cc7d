package auth

import "github.com/gin-gonic/gin"

// RegisterRoutes attaches authentication endpoints to the router. loginGuards run
// before the login handler.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, loginGuards, acAll []gin.HandlerFunc) {
	auth := router.Group("/auth")
	{
		auth.POST("/login", append(loginGuards, handler.Login)...)
		auth.POST("/logout", append(acAll, handler.Logout)...)
		auth.GET("/me", append(acAll, handler.Me)...)
	}
}
