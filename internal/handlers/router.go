package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/swiftship/parcel-service/internal/middleware"
	"github.com/swiftship/parcel-service/internal/services"
)

// RegisterRoutes wires the parcel API onto the router.
func RegisterRoutes(r *gin.Engine, svc *services.ParcelService, hub *services.Hub) {
	api := r.Group("/api")

	parcels := api.Group("/parcels")
	parcels.GET("/health/", HealthCheck())

	protected := parcels.Group("")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.POST("/create/", CreateParcel(svc))
		protected.GET("/my/", ListMyParcels(svc))
		protected.GET("/:id/", GetParcel(svc))
		protected.PATCH("/:id/status/", UpdateParcelStatus(svc))
	}

	if hub != nil {
		api.GET("/ws", middleware.AuthMiddleware(), WebSocketHandler(hub))
	}
}
