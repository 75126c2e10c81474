package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/propmaint/backend/internal/blob"
	"github.com/propmaint/backend/internal/buildings"
	"github.com/propmaint/backend/internal/controllers"
	"github.com/propmaint/backend/internal/middleware"
	"github.com/propmaint/backend/internal/services"
)

// Deps are the wired services the route table is built from.
type Deps struct {
	Incidents      *services.IncidentService
	Maintenance    *services.MaintenanceService
	Auth           *controllers.AuthController
	Blobs          blob.Store
	MaxUploadBytes int64
	Roster         *buildings.Roster
	SessionSecret  []byte
	// UploadDir is served under blob.LocalURLPrefix when set.
	UploadDir string
}

// SetupRoutes configures all application routes
func SetupRoutes(r *gin.Engine, d Deps) {
	// Initialize controllers
	incidentController := controllers.NewIncidentController(d.Incidents)
	maintenanceController := controllers.NewMaintenanceController(d.Maintenance, d.Incidents)
	uploadController := controllers.NewUploadController(d.Blobs, d.MaxUploadBytes)
	buildingController := controllers.NewBuildingController(d.Roster)

	if d.UploadDir != "" {
		r.Static(blob.LocalURLPrefix, d.UploadDir)
	}

	// API routes
	api := r.Group("/api/v1")
	{
		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("", d.Auth.Login)
			auth.DELETE("", d.Auth.Logout)
		}

		// Public report form
		api.POST("/incidencias", incidentController.CreateIncident)
		api.POST("/upload", uploadController.Upload)
		api.GET("/edificios", buildingController.GetBuildings)
		api.GET("/edificios/resolve", buildingController.ResolveBuilding)

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware(d.SessionSecret))
		{
			incidents := protected.Group("/incidencias")
			{
				incidents.GET("", incidentController.GetIncidents)
				incidents.GET("/:id", incidentController.GetIncident)
				incidents.PATCH("/:id", incidentController.UpdateIncident)
			}

			maintenance := protected.Group("/mantenimiento")
			{
				maintenance.GET("", maintenanceController.GetTasks)
				maintenance.GET("/stats", maintenanceController.GetStats)
				maintenance.GET("/:id", maintenanceController.GetTask)
				maintenance.PATCH("/:id", maintenanceController.UpdateTask)
				maintenance.POST("/:id/incidencias", maintenanceController.CreateTaskIncident)
			}
		}
	}
}
