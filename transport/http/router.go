package http

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/pathmint/waypoint/ports"
	"github.com/pathmint/waypoint/service"
	"github.com/pathmint/waypoint/transport/ws"
)

// SetupRouter sets up the Gin router
func SetupRouter(
	authService *service.AuthService,
	targetService *service.TargetService,
	tokenizer ports.Tokenizer,
	hub *ws.Hub,
	logger zerolog.Logger,
) *gin.Engine {
	router := gin.Default()

	handlers := NewHandlers(authService, targetService)

	auth := router.Group("/auth")
	{
		auth.GET("/nonce", handlers.Nonce)
		auth.POST("/login", handlers.Login)
		auth.POST("/logout", handlers.Logout)
	}

	// Verification is independent of the task pipeline and needs no session
	router.POST("/targets/verify", handlers.VerifyCreation)

	targets := router.Group("/targets")
	targets.Use(AuthMiddleware(authService, tokenizer))
	{
		targets.POST("", handlers.CreateTarget)
		targets.GET("/:taskId/status", handlers.TargetStatus)
	}

	router.GET("/ws", ws.Handler(hub, logger))

	return router
}
