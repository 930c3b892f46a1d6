package deliveryrepo

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// courierItemsTable is owned by settlementrepo; only its delivery_id column is read here.
const courierItemsTable = "courier_settlement_items"

// GormDeliveryRepository implements ports.DeliveryRepository using GORM.
// Writes are not versioned: every transition loads the row with GetForUpdate first.
type GormDeliveryRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormDeliveryRepository(db *gorm.DB, tracker aggregateTracker) *GormDeliveryRepository {
	return &GormDeliveryRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormDeliveryRepository) Add(ctx context.Context, aggregate *delivery.Delivery) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewObjectAlreadyExistsError("delivery of order", aggregate.OrderID().String())
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormDeliveryRepository) Update(ctx context.Context, aggregate *delivery.Delivery) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&DeliveryDTO{}).
		Where("id = ?", dto.ID).
		Updates(map[string]any{
			"courier_id":              dto.CourierID,
			"status":                  dto.Status,
			"actual_duration_seconds": dto.ActualDurationSeconds,
			"assigned_at":             dto.AssignedAt,
			"accepted_at":             dto.AcceptedAt,
			"picked_up_at":            dto.PickedUpAt,
			"started_at":              dto.StartedAt,
			"completed_at":            dto.CompletedAt,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("delivery", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormDeliveryRepository) Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return r.first(r.db.WithContext(ctx), "delivery", id.String(), "id = ?", id.Bytes())
}

// GetForUpdate issues SELECT ... FOR UPDATE. Outside a transaction the lock is
// released immediately, so callers must Begin first.
func (r *GormDeliveryRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	locked := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"})
	return r.first(locked, "delivery", id.String(), "id = ?", id.Bytes())
}

func (r *GormDeliveryRepository) GetByOrderID(ctx context.Context, orderID kernel.UUID) (*delivery.Delivery, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	return r.first(r.db.WithContext(ctx), "delivery of order", orderID.String(), "order_id = ?", orderID.Bytes())
}

func (r *GormDeliveryRepository) ListStaleAssigned(
	ctx context.Context,
	assignedBefore time.Time,
	limit int,
) ([]*delivery.Delivery, error) {
	var dtos []DeliveryDTO
	err := r.db.WithContext(ctx).
		Where("status = ? AND assigned_at < ?", delivery.Assigned.String(), assignedBefore.UTC()).
		Order("assigned_at").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}
	return toDomainList(dtos)
}

func (r *GormDeliveryRepository) ListDeliveredWithoutSettlementItem(
	ctx context.Context,
	from, to time.Time,
) ([]*delivery.Delivery, error) {
	var dtos []DeliveryDTO
	err := r.db.WithContext(ctx).
		Table("deliveries AS d").
		Select("d.*").
		Joins("LEFT JOIN "+courierItemsTable+" AS ci ON ci.delivery_id = d.id").
		Where("d.status = ? AND d.completed_at >= ? AND d.completed_at < ?",
			delivery.Delivered.String(), from.UTC(), to.UTC()).
		Where("ci.delivery_id IS NULL").
		Order("d.completed_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}
	return toDomainList(dtos)
}

func (r *GormDeliveryRepository) first(
	db *gorm.DB,
	paramName, id string,
	query string,
	args ...any,
) (*delivery.Delivery, error) {
	var dto DeliveryDTO
	if err := db.Where(query, args...).First(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError(paramName, id)
		}
		return nil, err
	}

	return toDomain(dto)
}

func toDomainList(dtos []DeliveryDTO) ([]*delivery.Delivery, error) {
	deliveries := make([]*delivery.Delivery, 0, len(dtos))
	for _, dto := range dtos {
		d, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		deliveries = append(deliveries, d)
	}
	return deliveries, nil
}
