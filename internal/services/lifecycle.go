package services

import (
	"context"
	"errors"
	"log"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/swiftship/parcel-service/internal/clients"
	"github.com/swiftship/parcel-service/internal/models"
	"github.com/swiftship/parcel-service/internal/store"
	"github.com/swiftship/parcel-service/pkg/utils"
)

var (
	ErrPermissionDenied  = errors.New("permission denied")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidWeight     = errors.New("weight must be a non-negative decimal")
)

// DriverDirectory is the driver directory collaborator. All calls are
// best-effort; implementations log failures and never return errors.
type DriverDirectory interface {
	FindAvailableDriver(ctx context.Context) (*uint, clients.DriverInfo)
	MarkUnavailable(ctx context.Context, driverID uint)
	MarkAvailable(ctx context.Context, driverID uint)
}

// Notifier dispatches templated emails, best-effort.
type Notifier interface {
	Send(ctx context.Context, to, templateType string, templateContext map[string]interface{}) bool
}

// PaymentGateway posts a single payment request, best-effort.
type PaymentGateway interface {
	RequestPayment(ctx context.Context, trackingID, method string, weightKg float64) bool
}

const defaultPaymentMethod = "upi"

// ParcelService is the lifecycle orchestrator: it owns the creation
// and status-transition flows and the side-effecting calls around
// them. Only the store and identity layer can fail an operation; every
// collaborator call after persistence is log-and-continue.
type ParcelService struct {
	store    store.ParcelStore
	drivers  DriverDirectory
	notifier Notifier
	payments PaymentGateway
	hub      *Hub
	cache    *ParcelCache
}

func NewParcelService(s store.ParcelStore, drivers DriverDirectory, notifier Notifier, payments PaymentGateway, hub *Hub, cache *ParcelCache) *ParcelService {
	return &ParcelService{
		store:    s,
		drivers:  drivers,
		notifier: notifier,
		payments: payments,
		hub:      hub,
		cache:    cache,
	}
}

// CreateParcelInput carries the caller-writable creation fields.
// Sender, status and tracking id are assigned by the service.
type CreateParcelInput struct {
	ReceiverName    string
	PickupAddress   string
	DeliveryAddress string
	WeightKg        float64
}

// CreateParcel runs the creation flow: find a driver, persist, then
// fire the side effects. Once the parcel is persisted nothing can fail
// the request.
func (s *ParcelService) CreateParcel(ctx context.Context, user utils.UserContext, input CreateParcelInput) (*models.Parcel, error) {
	if input.WeightKg < 0 || input.WeightKg > 999.99 {
		return nil, ErrInvalidWeight
	}

	driverID, driverInfo := s.drivers.FindAvailableDriver(ctx)

	// A parcel with a driver attached starts life assigned, not
	// pending; the pending -> assigned edge stays reachable for
	// parcels created while no driver was free.
	status := models.StatusPending
	if driverID != nil {
		status = models.StatusAssigned
	}

	parcel := &models.Parcel{
		SenderID:         user.UserID,
		ReceiverName:     input.ReceiverName,
		PickupAddress:    input.PickupAddress,
		DeliveryAddress:  input.DeliveryAddress,
		WeightKg:         math.Round(input.WeightKg*100) / 100,
		Status:           status,
		AssignedDriverID: driverID,
	}

	if err := s.store.Create(ctx, parcel); err != nil {
		return nil, err
	}

	if driverID != nil {
		s.drivers.MarkUnavailable(ctx, *driverID)
	}

	if user.Email != "" {
		name := userNameFromEmail(user.Email)
		s.notifier.Send(ctx, user.Email, clients.TemplateParcelCreated, map[string]interface{}{
			"user_name":      name,
			"tracking_id":    parcel.TrackingID,
			"pickup_address": parcel.PickupAddress,
		})
		if driverID != nil {
			s.notifier.Send(ctx, user.Email, clients.TemplateDriverAssigned, map[string]interface{}{
				"user_name":      name,
				"tracking_id":    parcel.TrackingID,
				"driver_name":    driverInfo.Name,
				"driver_contact": driverInfo.Contact,
			})
		}
	} else {
		log.Printf("[parcels] no email in token, skipping creation emails for %s", parcel.TrackingID)
	}

	// Payment references the tracking code, so it always runs last,
	// after the record durably exists.
	s.payments.RequestPayment(ctx, parcel.TrackingID, defaultPaymentMethod, parcel.WeightKg)

	s.hub.PublishParcelStatus(parcel)

	return parcel, nil
}

// GetParcel serves the detail read path through the cache.
func (s *ParcelService) GetParcel(ctx context.Context, id uuid.UUID) (*models.Parcel, error) {
	if parcel, ok := s.cache.Get(ctx, id); ok {
		return parcel, nil
	}

	parcel, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, parcel)
	return parcel, nil
}

// ListParcels lists the caller's parcels with store-level filtering.
func (s *ParcelService) ListParcels(ctx context.Context, user utils.UserContext, f store.Filter) ([]models.Parcel, error) {
	return s.store.ListBySender(ctx, user.UserID, f)
}

// UpdateStatus runs the transition flow: authorize, validate the
// transition against the current row under lock, persist, then fire
// the status-keyed side effects.
func (s *ParcelService) UpdateStatus(ctx context.Context, user utils.UserContext, id uuid.UUID, next models.ParcelStatus, reason string) (*models.Parcel, error) {
	if !next.IsValid() {
		return nil, ErrInvalidStatus
	}

	parcel, err := s.store.UpdateStatus(ctx, id, func(p *models.Parcel) error {
		isAssignedDriver := p.AssignedDriverID != nil && *p.AssignedDriverID == user.UserID
		if !isAssignedDriver && !user.IsAdmin() {
			return ErrPermissionDenied
		}
		if !p.Status.CanTransitionTo(next) {
			return ErrInvalidTransition
		}
		p.Status = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, parcel.ID)

	if next == models.StatusDelivered && parcel.AssignedDriverID != nil {
		s.drivers.MarkAvailable(ctx, *parcel.AssignedDriverID)
	}

	s.sendStatusNotification(ctx, user, parcel, reason)
	s.hub.PublishParcelStatus(parcel)

	return parcel, nil
}

func (s *ParcelService) sendStatusNotification(ctx context.Context, user utils.UserContext, parcel *models.Parcel, reason string) {
	if user.Email == "" {
		log.Printf("[parcels] no email in token, skipping status email for %s", parcel.TrackingID)
		return
	}

	templateContext := map[string]interface{}{
		"user_name":   userNameFromEmail(user.Email),
		"tracking_id": parcel.TrackingID,
	}

	switch parcel.Status {
	case models.StatusInTransit:
		templateContext["current_location"] = "Distribution Hub"
		s.notifier.Send(ctx, user.Email, clients.TemplateParcelInTransit, templateContext)
	case models.StatusDelivered:
		templateContext["delivery_time"] = parcel.UpdatedAt.Format(time.RFC3339)
		s.notifier.Send(ctx, user.Email, clients.TemplateParcelDelivered, templateContext)
	case models.StatusCancelled:
		if reason == "" {
			reason = "Not specified"
		}
		templateContext["cancellation_reason"] = reason
		s.notifier.Send(ctx, user.Email, clients.TemplateParcelCancelled, templateContext)
	}
	// No email for pending or assigned.
}

func userNameFromEmail(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return "User"
}
