package routes

import (
	"society-portal-api/controllers"
	"society-portal-api/middleware"
	"society-portal-api/utils"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			public.POST("/login", controllers.Login)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Society Portal API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Notifications
			protected.GET("/notifications", controllers.GetMyNotifications)
			protected.PUT("/notifications/:id/read", controllers.MarkNotificationRead)

			// Workflow engine surface. The status catalog route must be
			// registered before the :kind wildcard.
			workflow := protected.Group("/workflow")
			{
				workflow.GET("/statuses", controllers.GetAllowedStatuses)
				workflow.GET("/:kind", controllers.ListWorkflowItems)
				workflow.GET("/:kind/:id/history", controllers.GetEntityHistory)
				workflow.POST("/:kind/:id/transition", controllers.TransitionEntity)
			}

			// Society registrations
			societies := protected.Group("/societies")
			{
				societies.POST("", middleware.RequireRole(utils.RoleStudent, utils.RoleSocietyOwner, utils.RoleAdmin), controllers.CreateSociety)
				societies.GET("/:id", controllers.GetSociety)
			}

			// Event requests
			events := protected.Group("/event-requests")
			{
				events.POST("", middleware.RequireRole(utils.RoleSocietyOwner, utils.RoleAdmin), controllers.CreateEventRequest)
				events.GET("/:id", controllers.GetEventRequest)
			}

			// Dashboard
			dashboard := protected.Group("/dashboard")
			{
				dashboard.GET("/stats", controllers.GetDashboardStats)
			}

			// Admin escape hatch
			admin := protected.Group("/admin")
			admin.Use(middleware.RequireRole(utils.RoleAdmin))
			{
				admin.DELETE("/workflow/:kind/:id", controllers.PurgeEntity)
			}
		}
	}
}
