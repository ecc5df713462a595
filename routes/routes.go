package routes

import (
	"hav-jeang-api/handlers"
	"hav-jeang-api/middleware"
	"hav-jeang-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine) {
	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		public.POST("/auth/register", handlers.Register)
		public.POST("/auth/login", handlers.Login)

		// Lifecycle info (great for docs/Postman)
		public.GET("/state-machine", handlers.GetStateMachineInfo)
	}

	// ── Authenticated routes ───────────────────────────────────────
	auth := r.Group("/api")
	auth.Use(middleware.AuthRequired())
	{
		auth.GET("/profile", handlers.GetProfile)
	}

	// ── Customer routes ────────────────────────────────────────────
	customer := r.Group("/api/customer")
	customer.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleCustomer))
	{
		customer.GET("/mechanics/nearby", handlers.GetNearbyMechanics)
		customer.POST("/requests", handlers.CreateServiceRequest)
		customer.GET("/requests", handlers.GetMyRequests)
		customer.POST("/requests/:id/cancel", handlers.CancelServiceRequest)
	}

	// ── Mechanic routes ────────────────────────────────────────────
	mechanic := r.Group("/api/mechanic")
	mechanic.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleMechanic))
	{
		// Service catalog management
		mechanic.POST("/services", handlers.CreateService)
		mechanic.GET("/services", handlers.GetMyServices)
		mechanic.PUT("/services/:id", handlers.UpdateService)
		mechanic.DELETE("/services/:id", handlers.DeleteService)

		// Request queue
		mechanic.GET("/requests/incoming", handlers.GetIncomingRequests)
		mechanic.POST("/requests/:id/accept", handlers.AcceptServiceRequest)
		mechanic.POST("/requests/:id/complete", handlers.CompleteServiceRequest)
	}
}
