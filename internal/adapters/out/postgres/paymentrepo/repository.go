package paymentrepo

import (
	"context"
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/payment"
	"marketplace/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormPaymentRepository implements ports.PaymentRepository using GORM.
type GormPaymentRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormPaymentRepository(db *gorm.DB, tracker aggregateTracker) *GormPaymentRepository {
	return &GormPaymentRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts a new payment. A second payment for the same order or merchant
// reference returns errs.ErrObjectAlreadyExists.
func (r *GormPaymentRepository) Add(ctx context.Context, aggregate *payment.Payment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewObjectAlreadyExistsError("payment", aggregate.OrderID().String())
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update is a compare-and-set on the version column.
func (r *GormPaymentRepository) Update(ctx context.Context, aggregate *payment.Payment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&PaymentDTO{}).
		Where("id = ? AND version = ?", dto.ID, dto.Version).
		Updates(map[string]any{
			"method":       dto.Method,
			"status":       dto.Status,
			"external_ref": dto.ExternalRef,
			"paid_at":      dto.PaidAt,
			"version":      dto.Version + 1,
		})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return errs.NewObjectAlreadyExistsError("payment external reference", aggregate.ExternalReference())
		}
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewConcurrentModificationError("payment", aggregate.ID().String())
	}

	aggregate.SetVersion(dto.Version + 1)
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormPaymentRepository) Get(ctx context.Context, id kernel.UUID) (*payment.Payment, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return r.first(ctx, "payment", id.String(), "id = ?", id.Bytes())
}

func (r *GormPaymentRepository) GetByOrderID(ctx context.Context, orderID kernel.UUID) (*payment.Payment, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	return r.first(ctx, "payment of order", orderID.String(), "order_id = ?", orderID.Bytes())
}

func (r *GormPaymentRepository) GetByMerchantReference(
	ctx context.Context,
	ref payment.MerchantReference,
) (*payment.Payment, error) {
	if ref.IsZero() {
		return nil, errs.NewValueIsRequiredError("merchant reference")
	}
	return r.first(ctx, "payment with merchant reference", ref.String(), "merchant_ref = ?", ref.String())
}

func (r *GormPaymentRepository) first(
	ctx context.Context,
	paramName string,
	id string,
	query string,
	args ...any,
) (*payment.Payment, error) {
	var dto PaymentDTO
	if err := r.db.WithContext(ctx).Where(query, args...).First(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError(paramName, id)
		}
		return nil, err
	}

	return toDomain(dto)
}
