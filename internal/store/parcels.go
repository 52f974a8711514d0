package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/swiftship/parcel-service/internal/models"
)

var (
	ErrParcelNotFound = errors.New("parcel not found")

	// ErrTrackingIDExhausted is returned when repeated tracking-id
	// collisions prevent creation. With a 36^6 code space this should
	// never happen outside of a broken random source.
	ErrTrackingIDExhausted = errors.New("could not generate a unique tracking id")
)

const trackingIDAttempts = 5

// Filter narrows and orders a sender's parcel listing.
type Filter struct {
	Status           *models.ParcelStatus
	AssignedDriverID *uint
	// Ordering is created_at or updated_at, with a "-" prefix for
	// descending. Unknown values fall back to -created_at.
	Ordering string
}

// ParcelStore persists parcels. Mutations beyond creation go through
// UpdateStatus so transition checks always see the current row.
type ParcelStore interface {
	Create(ctx context.Context, parcel *models.Parcel) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Parcel, error)
	ListBySender(ctx context.Context, senderID uint, f Filter) ([]models.Parcel, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, apply func(*models.Parcel) error) (*models.Parcel, error)
}

type GormParcelStore struct {
	db *gorm.DB
}

func NewGormParcelStore(db *gorm.DB) *GormParcelStore {
	return &GormParcelStore{db: db}
}

// Create assigns the id and tracking code and persists the parcel.
// Tracking-id collisions are retried with a fresh code a few times;
// the unique index is the source of truth.
func (s *GormParcelStore) Create(ctx context.Context, parcel *models.Parcel) error {
	if parcel.ID == uuid.Nil {
		parcel.ID = uuid.New()
	}
	if parcel.Status == "" {
		parcel.Status = models.StatusPending
	}

	for attempt := 0; attempt < trackingIDAttempts; attempt++ {
		parcel.TrackingID = models.GenerateTrackingID()
		err := s.db.WithContext(ctx).Create(parcel).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
	}
	return ErrTrackingIDExhausted
}

func (s *GormParcelStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Parcel, error) {
	var parcel models.Parcel
	if err := s.db.WithContext(ctx).First(&parcel, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrParcelNotFound
		}
		return nil, err
	}
	return &parcel, nil
}

func (s *GormParcelStore) ListBySender(ctx context.Context, senderID uint, f Filter) ([]models.Parcel, error) {
	query := s.db.WithContext(ctx).Where("sender_id = ?", senderID)

	if f.Status != nil {
		query = query.Where("status = ?", *f.Status)
	}
	if f.AssignedDriverID != nil {
		query = query.Where("assigned_driver_id = ?", *f.AssignedDriverID)
	}

	var parcels []models.Parcel
	if err := query.Order(OrderClause(f.Ordering)).Find(&parcels).Error; err != nil {
		return nil, err
	}
	return parcels, nil
}

// UpdateStatus applies a mutation to the parcel under a row lock so
// concurrent updates to the same parcel serialize and the transition
// check always runs against the freshly read status. Errors from apply
// propagate unchanged and roll the transaction back.
func (s *GormParcelStore) UpdateStatus(ctx context.Context, id uuid.UUID, apply func(*models.Parcel) error) (*models.Parcel, error) {
	var parcel models.Parcel
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&parcel, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrParcelNotFound
			}
			return err
		}
		if err := apply(&parcel); err != nil {
			return err
		}
		return tx.Save(&parcel).Error
	})
	if err != nil {
		return nil, err
	}
	return &parcel, nil
}

// OrderClause maps a caller-supplied ordering to a SQL order-by,
// whitelisting the sortable columns.
func OrderClause(ordering string) string {
	switch ordering {
	case "created_at":
		return "created_at ASC"
	case "-created_at":
		return "created_at DESC"
	case "updated_at":
		return "updated_at ASC"
	case "-updated_at":
		return "updated_at DESC"
	default:
		return "created_at DESC"
	}
}
