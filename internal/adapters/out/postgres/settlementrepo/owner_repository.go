package settlementrepo

import (
	"context"
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/settlement"
	"marketplace/internal/pkg/errs"

	"gorm.io/gorm"
)

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// GormOwnerSettlementRepository implements ports.OwnerSettlementRepository.
type GormOwnerSettlementRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

func NewGormOwnerSettlementRepository(db *gorm.DB, tracker aggregateTracker) *GormOwnerSettlementRepository {
	return &GormOwnerSettlementRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormOwnerSettlementRepository) AddItem(ctx context.Context, item *settlement.OwnerItem) error {
	if err := item.Validate(); err != nil {
		return err
	}

	dto := ownerItemFromDomain(item)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewObjectAlreadyExistsError("owner settlement item of order", item.OrderID().String())
		}
		return err
	}
	return nil
}

func (r *GormOwnerSettlementRepository) GetItemByOrderID(
	ctx context.Context,
	orderID kernel.UUID,
) (*settlement.OwnerItem, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dto OwnerItemDTO
	if err := r.db.WithContext(ctx).First(&dto, "order_id = ?", orderID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("owner settlement item of order", orderID.String())
		}
		return nil, err
	}
	return ownerItemToDomain(dto)
}

// ListPendingItems returns the owner's PENDING items paid within the period, oldest first.
func (r *GormOwnerSettlementRepository) ListPendingItems(
	ctx context.Context,
	ownerID kernel.UUID,
	period settlement.Period,
) ([]*settlement.OwnerItem, error) {
	var dtos []OwnerItemDTO
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND status = ? AND paid_at >= ? AND paid_at < ?",
			ownerID.Bytes(), string(settlement.ItemPending), period.Start(), period.EndExclusive()).
		Order("paid_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}
	return ownerItemsToDomain(dtos)
}

func (r *GormOwnerSettlementRepository) ListItems(
	ctx context.Context,
	settlementID kernel.UUID,
) ([]*settlement.OwnerItem, error) {
	var dtos []OwnerItemDTO
	err := r.db.WithContext(ctx).
		Where("settlement_id = ?", settlementID.Bytes()).
		Order("paid_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}
	return ownerItemsToDomain(dtos)
}

func (r *GormOwnerSettlementRepository) ListOwnersWithPendingItems(
	ctx context.Context,
	period settlement.Period,
) ([]kernel.UUID, error) {
	return distinctParties(ctx, r.db, &OwnerItemDTO{}, "owner_id", "paid_at", period)
}

func (r *GormOwnerSettlementRepository) ClaimItems(
	ctx context.Context,
	settlementID kernel.UUID,
	itemIDs []kernel.UUID,
) (int64, error) {
	return claimItems(ctx, r.db, &OwnerItemDTO{}, settlementID, itemIDs)
}

func (r *GormOwnerSettlementRepository) MarkItemsPaid(ctx context.Context, settlementID kernel.UUID) (int64, error) {
	return markItemsPaid(ctx, r.db, &OwnerItemDTO{}, settlementID)
}

func (r *GormOwnerSettlementRepository) CancelItems(ctx context.Context, settlementID kernel.UUID) (int64, error) {
	return cancelItems(ctx, r.db, &OwnerItemDTO{}, settlementID)
}

func (r *GormOwnerSettlementRepository) Add(ctx context.Context, aggregate *settlement.OwnerSettlement) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := ownerSettlementFromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormOwnerSettlementRepository) Update(ctx context.Context, aggregate *settlement.OwnerSettlement) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := ownerSettlementFromDomain(aggregate)
	if err := updateHeader(ctx, r.db, &OwnerSettlementDTO{}, aggregate.ID(), map[string]any{
		"status":               dto.Status,
		"paid_at":              dto.PaidAt,
		"external_transfer_id": dto.ExternalTransferID,
	}); err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormOwnerSettlementRepository) Get(ctx context.Context, id kernel.UUID) (*settlement.OwnerSettlement, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OwnerSettlementDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("owner settlement", id.String())
		}
		return nil, err
	}
	return ownerSettlementToDomain(dto)
}

func ownerItemsToDomain(dtos []OwnerItemDTO) ([]*settlement.OwnerItem, error) {
	items := make([]*settlement.OwnerItem, 0, len(dtos))
	for _, dto := range dtos {
		item, err := ownerItemToDomain(dto)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
