package settlementrepo

import (
	"context"
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/settlement"
	"marketplace/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCourierSettlementRepository implements ports.CourierSettlementRepository.
type GormCourierSettlementRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

func NewGormCourierSettlementRepository(db *gorm.DB, tracker aggregateTracker) *GormCourierSettlementRepository {
	return &GormCourierSettlementRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormCourierSettlementRepository) AddItem(ctx context.Context, item *settlement.CourierItem) error {
	if err := item.Validate(); err != nil {
		return err
	}

	dto := courierItemFromDomain(item)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewObjectAlreadyExistsError("courier settlement item of delivery", item.DeliveryID().String())
		}
		return err
	}
	return nil
}

func (r *GormCourierSettlementRepository) GetItemByDeliveryID(
	ctx context.Context,
	deliveryID kernel.UUID,
) (*settlement.CourierItem, error) {
	if err := deliveryID.Validate(); err != nil {
		return nil, err
	}

	var dto CourierItemDTO
	if err := r.db.WithContext(ctx).First(&dto, "delivery_id = ?", deliveryID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("courier settlement item of delivery", deliveryID.String())
		}
		return nil, err
	}
	return courierItemToDomain(dto)
}

func (r *GormCourierSettlementRepository) ListPendingItems(
	ctx context.Context,
	courierID kernel.UUID,
	period settlement.Period,
) ([]*settlement.CourierItem, error) {
	var dtos []CourierItemDTO
	err := r.db.WithContext(ctx).
		Where("courier_id = ? AND status = ? AND completed_at >= ? AND completed_at < ?",
			courierID.Bytes(), string(settlement.ItemPending), period.Start(), period.EndExclusive()).
		Order("completed_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}
	return courierItemsToDomain(dtos)
}

func (r *GormCourierSettlementRepository) ListItems(
	ctx context.Context,
	settlementID kernel.UUID,
) ([]*settlement.CourierItem, error) {
	var dtos []CourierItemDTO
	err := r.db.WithContext(ctx).
		Where("settlement_id = ?", settlementID.Bytes()).
		Order("completed_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}
	return courierItemsToDomain(dtos)
}

func (r *GormCourierSettlementRepository) ListCouriersWithPendingItems(
	ctx context.Context,
	period settlement.Period,
) ([]kernel.UUID, error) {
	return distinctParties(ctx, r.db, &CourierItemDTO{}, "courier_id", "completed_at", period)
}

func (r *GormCourierSettlementRepository) ClaimItems(
	ctx context.Context,
	settlementID kernel.UUID,
	itemIDs []kernel.UUID,
) (int64, error) {
	return claimItems(ctx, r.db, &CourierItemDTO{}, settlementID, itemIDs)
}

func (r *GormCourierSettlementRepository) MarkItemsPaid(ctx context.Context, settlementID kernel.UUID) (int64, error) {
	return markItemsPaid(ctx, r.db, &CourierItemDTO{}, settlementID)
}

func (r *GormCourierSettlementRepository) CancelItems(ctx context.Context, settlementID kernel.UUID) (int64, error) {
	return cancelItems(ctx, r.db, &CourierItemDTO{}, settlementID)
}

func (r *GormCourierSettlementRepository) Add(ctx context.Context, aggregate *settlement.CourierSettlement) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := courierSettlementFromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormCourierSettlementRepository) Update(ctx context.Context, aggregate *settlement.CourierSettlement) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := courierSettlementFromDomain(aggregate)
	if err := updateHeader(ctx, r.db, &CourierSettlementDTO{}, aggregate.ID(), map[string]any{
		"status":               dto.Status,
		"paid_at":              dto.PaidAt,
		"external_transfer_id": dto.ExternalTransferID,
	}); err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormCourierSettlementRepository) Get(
	ctx context.Context,
	id kernel.UUID,
) (*settlement.CourierSettlement, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto CourierSettlementDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("courier settlement", id.String())
		}
		return nil, err
	}
	return courierSettlementToDomain(dto)
}

func courierItemsToDomain(dtos []CourierItemDTO) ([]*settlement.CourierItem, error) {
	items := make([]*settlement.CourierItem, 0, len(dtos))
	for _, dto := range dtos {
		item, err := courierItemToDomain(dto)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// distinctParties lists the owners or couriers that still have PENDING items
// whose timestamp column falls inside the period.
func distinctParties(
	ctx context.Context,
	db *gorm.DB,
	model any,
	partyColumn, timeColumn string,
	period settlement.Period,
) ([]kernel.UUID, error) {
	var raw []uuid.UUID
	err := db.WithContext(ctx).
		Model(model).
		Where("status = ?", string(settlement.ItemPending)).
		Where(timeColumn+" >= ? AND "+timeColumn+" < ?", period.Start(), period.EndExclusive()).
		Distinct(partyColumn).
		Order(partyColumn).
		Pluck(partyColumn, &raw).Error
	if err != nil {
		return nil, err
	}
	return parseIDs(raw...)
}
