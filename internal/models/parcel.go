package models

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
)

type ParcelStatus string

const (
	StatusPending   ParcelStatus = "pending"
	StatusAssigned  ParcelStatus = "assigned"
	StatusInTransit ParcelStatus = "in_transit"
	StatusDelivered ParcelStatus = "delivered"
	StatusCancelled ParcelStatus = "cancelled"
)

// IsValid reports whether s is a member of the status enumeration.
func (s ParcelStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusAssigned, StatusInTransit, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is permitted from s.
func (s ParcelStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransitionTo reports whether the move from s to next is legal:
// pending -> assigned -> in_transit -> delivered, with cancelled
// reachable from any non-terminal status.
func (s ParcelStatus) CanTransitionTo(next ParcelStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	switch s {
	case StatusPending:
		return next == StatusAssigned
	case StatusAssigned:
		return next == StatusInTransit
	case StatusInTransit:
		return next == StatusDelivered
	}
	return false
}

const (
	trackingPrefix   = "PRCL"
	trackingAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	trackingSuffix   = 6
)

// GenerateTrackingID returns a human-facing tracking code of the form
// PRCL-XXXXXX. Uniqueness is enforced by the database index, not here.
func GenerateTrackingID() string {
	suffix := make([]byte, trackingSuffix)
	for i := range suffix {
		suffix[i] = trackingAlphabet[rand.Intn(len(trackingAlphabet))]
	}
	return trackingPrefix + "-" + string(suffix)
}

type Parcel struct {
	ID               uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	SenderID         uint         `gorm:"not null;index" json:"sender_id"`
	ReceiverName     string       `gorm:"size:100;not null" json:"receiver_name"`
	PickupAddress    string       `gorm:"not null" json:"pickup_address"`
	DeliveryAddress  string       `gorm:"not null" json:"delivery_address"`
	Status           ParcelStatus `gorm:"size:20;not null;default:pending" json:"status"`
	WeightKg         float64      `gorm:"type:decimal(5,2);not null" json:"weight_kg"`
	AssignedDriverID *uint        `gorm:"index" json:"assigned_driver_id"`
	TrackingID       string       `gorm:"size:20;uniqueIndex;not null" json:"tracking_id"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}
