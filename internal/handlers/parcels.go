package handlers

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/swiftship/parcel-service/internal/middleware"
	"github.com/swiftship/parcel-service/internal/models"
	"github.com/swiftship/parcel-service/internal/services"
	"github.com/swiftship/parcel-service/internal/store"
)

// CreateParcel handles parcel creation by a sender.
func CreateParcel(svc *services.ParcelService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			ReceiverName    string   `json:"receiver_name" binding:"required"`
			PickupAddress   string   `json:"pickup_address" binding:"required"`
			DeliveryAddress string   `json:"delivery_address" binding:"required"`
			WeightKg        *float64 `json:"weight_kg" binding:"required"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		user := middleware.CurrentUser(c)
		parcel, err := svc.CreateParcel(c.Request.Context(), user, services.CreateParcelInput{
			ReceiverName:    input.ReceiverName,
			PickupAddress:   input.PickupAddress,
			DeliveryAddress: input.DeliveryAddress,
			WeightKg:        *input.WeightKg,
		})
		if err != nil {
			if errors.Is(err, services.ErrInvalidWeight) {
				c.JSON(400, gin.H{"error": err.Error()})
				return
			}
			c.JSON(500, gin.H{"error": "Failed to create parcel"})
			return
		}

		c.JSON(201, parcel)
	}
}

// GetParcel returns a single parcel by id.
func GetParcel(svc *services.ParcelService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(404, gin.H{"error": "Parcel not found"})
			return
		}

		parcel, err := svc.GetParcel(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, store.ErrParcelNotFound) {
				c.JSON(404, gin.H{"error": "Parcel not found"})
				return
			}
			c.JSON(500, gin.H{"error": "Failed to fetch parcel"})
			return
		}

		c.JSON(200, parcel)
	}
}

// ListMyParcels returns the caller's parcels, filtered by status and
// assigned driver and ordered by created_at/updated_at.
func ListMyParcels(svc *services.ParcelService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter store.Filter

		if raw := c.Query("status"); raw != "" {
			status := models.ParcelStatus(raw)
			if !status.IsValid() {
				c.JSON(400, gin.H{"error": "Invalid status"})
				return
			}
			filter.Status = &status
		}
		if raw := c.Query("assigned_driver_id"); raw != "" {
			driverID, err := strconv.ParseUint(raw, 10, 32)
			if err != nil {
				c.JSON(400, gin.H{"error": "Invalid assigned_driver_id"})
				return
			}
			id := uint(driverID)
			filter.AssignedDriverID = &id
		}
		filter.Ordering = c.Query("ordering")

		user := middleware.CurrentUser(c)
		parcels, err := svc.ListParcels(c.Request.Context(), user, filter)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch parcels"})
			return
		}
		if parcels == nil {
			parcels = []models.Parcel{}
		}

		c.JSON(200, parcels)
	}
}

// UpdateParcelStatus applies a status transition. Only the assigned
// driver or an admin may call it.
func UpdateParcelStatus(svc *services.ParcelService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(404, gin.H{"error": "Parcel not found"})
			return
		}

		var input struct {
			Status string `json:"status" binding:"required"`
			Reason string `json:"reason"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		user := middleware.CurrentUser(c)
		parcel, err := svc.UpdateStatus(c.Request.Context(), user, id, models.ParcelStatus(input.Status), input.Reason)
		if err != nil {
			switch {
			case errors.Is(err, store.ErrParcelNotFound):
				c.JSON(404, gin.H{"error": "Parcel not found"})
			case errors.Is(err, services.ErrPermissionDenied):
				c.JSON(403, gin.H{"error": "Permission denied"})
			case errors.Is(err, services.ErrInvalidStatus):
				c.JSON(400, gin.H{"error": "Invalid status"})
			case errors.Is(err, services.ErrInvalidTransition):
				c.JSON(400, gin.H{"error": "Invalid status transition"})
			default:
				c.JSON(500, gin.H{"error": "Failed to update status"})
			}
			return
		}

		c.JSON(200, gin.H{"message": fmt.Sprintf("Status updated to %s", parcel.Status)})
	}
}

// HealthCheck reports liveness. Unauthenticated.
func HealthCheck() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	}
}
