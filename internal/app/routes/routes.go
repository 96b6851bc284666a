package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/mypostula/backend/internal/app/controllers"
	"github.com/mypostula/backend/internal/app/models/dto"
	"github.com/mypostula/backend/internal/dashboard"
	"github.com/mypostula/backend/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	postulationController *controllers.PostulationController,
	companyController *controllers.CompanyController,
	currencyController *controllers.CurrencyController,
	dashboardHandler *dashboard.Handler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
		auth.GET("/callback", authController.Callback)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.POST("/auth/logout", authController.Logout)
		authenticated.GET("/auth/me", authController.Me)

		postulations := authenticated.Group("/postulations")
		{
			postulations.GET("", postulationController.List)
			postulations.POST("", postulationController.Create)
			postulations.GET("/:id", postulationController.Get)
			postulations.PUT("/:id", postulationController.Update)
			postulations.PATCH("/:id/status", postulationController.UpdateStatus)
			postulations.DELETE("/:id", postulationController.Delete)
		}

		companies := authenticated.Group("/companies")
		{
			companies.GET("", companyController.List)
			companies.POST("", companyController.Create)
		}

		authenticated.GET("/currencies", currencyController.List)

		// Real-time dashboard feed
		authenticated.GET("/ws/dashboard", dashboardHandler.HandleConnection)
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data: gin.H{"status": "ok"},
		})
	})
}
