// Package settlementrepo persists owner and courier settlements with their items.
// Items reference their header through a nullable settlement_id; a PENDING item
// has none.
package settlementrepo

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/settlement"

	"github.com/google/uuid"
)

type OwnerSettlementDTO struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OwnerID            uuid.UUID  `gorm:"type:uuid;not null;index"`
	PeriodStart        time.Time  `gorm:"type:date;not null"`
	PeriodEnd          time.Time  `gorm:"type:date;not null"`
	Gross              int64      `gorm:"not null"`
	PlatformFee        int64      `gorm:"not null"`
	PgFee              int64      `gorm:"not null"`
	Net                int64      `gorm:"not null"`
	ItemCount          int        `gorm:"not null"`
	Status             string     `gorm:"type:varchar(16);not null;index"`
	PaidAt             *time.Time `gorm:"default:null"`
	ExternalTransferID string     `gorm:"type:varchar(128)"`
	CreatedAt          time.Time  `gorm:"not null"`
}

func (OwnerSettlementDTO) TableName() string {
	return "owner_settlements"
}

type OwnerItemDTO struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OwnerID      uuid.UUID  `gorm:"type:uuid;not null;index:idx_owner_items_pending"`
	StoreID      uuid.UUID  `gorm:"type:uuid;not null"`
	OrderID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	PaymentID    uuid.UUID  `gorm:"type:uuid;not null"`
	PaidAt       time.Time  `gorm:"not null;index:idx_owner_items_pending"`
	Gross        int64      `gorm:"not null"`
	PlatformFee  int64      `gorm:"not null"`
	PgFee        int64      `gorm:"not null"`
	Net          int64      `gorm:"not null"`
	SettlementID *uuid.UUID `gorm:"type:uuid;index"`
	Status       string     `gorm:"type:varchar(16);not null;index:idx_owner_items_pending"`
}

func (OwnerItemDTO) TableName() string {
	return "owner_settlement_items"
}

type CourierSettlementDTO struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CourierID          uuid.UUID  `gorm:"type:uuid;not null;index"`
	PeriodStart        time.Time  `gorm:"type:date;not null"`
	PeriodEnd          time.Time  `gorm:"type:date;not null"`
	TotalEarning       int64      `gorm:"not null"`
	ItemCount          int        `gorm:"not null"`
	Status             string     `gorm:"type:varchar(16);not null;index"`
	PaidAt             *time.Time `gorm:"default:null"`
	ExternalTransferID string     `gorm:"type:varchar(128)"`
	CreatedAt          time.Time  `gorm:"not null"`
}

func (CourierSettlementDTO) TableName() string {
	return "courier_settlements"
}

type CourierItemDTO struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CourierID      uuid.UUID  `gorm:"type:uuid;not null;index:idx_courier_items_pending"`
	DeliveryID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	CompletedAt    time.Time  `gorm:"not null;index:idx_courier_items_pending"`
	DistanceMeters int        `gorm:"not null"`
	FeeRuleID      uuid.UUID  `gorm:"type:uuid;not null"`
	BaseFee        int64      `gorm:"not null"`
	PerKmFee       int64      `gorm:"not null"`
	Earning        int64      `gorm:"not null"`
	SettlementID   *uuid.UUID `gorm:"type:uuid;index"`
	Status         string     `gorm:"type:varchar(16);not null;index:idx_courier_items_pending"`
}

func (CourierItemDTO) TableName() string {
	return "courier_settlement_items"
}

func ownerSettlementFromDomain(s *settlement.OwnerSettlement) OwnerSettlementDTO {
	totals := s.Totals()
	return OwnerSettlementDTO{
		ID:                 s.ID().Bytes(),
		OwnerID:            s.OwnerID().Bytes(),
		PeriodStart:        s.Period().Start(),
		PeriodEnd:          s.Period().End(),
		Gross:              totals.Gross,
		PlatformFee:        totals.PlatformFee,
		PgFee:              totals.PgFee,
		Net:                totals.Net,
		ItemCount:          s.ItemCount(),
		Status:             string(s.Status()),
		PaidAt:             s.PaidAt(),
		ExternalTransferID: s.ExternalTransferID(),
		CreatedAt:          s.CreatedAt(),
	}
}

func ownerSettlementToDomain(dto OwnerSettlementDTO) (*settlement.OwnerSettlement, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	ownerID, err := kernel.UUIDFromBytes(dto.OwnerID[:])
	if err != nil {
		return nil, err
	}
	period, err := settlement.NewPeriod(dto.PeriodStart, dto.PeriodEnd)
	if err != nil {
		return nil, err
	}

	return settlement.RestoreOwnerSettlement(
		id, ownerID,
		period,
		settlement.Breakdown{Gross: dto.Gross, PlatformFee: dto.PlatformFee, PgFee: dto.PgFee, Net: dto.Net},
		dto.ItemCount,
		settlement.Status(dto.Status),
		dto.PaidAt,
		dto.ExternalTransferID,
		dto.CreatedAt,
	)
}

func ownerItemFromDomain(item *settlement.OwnerItem) OwnerItemDTO {
	amounts := item.Amounts()
	return OwnerItemDTO{
		ID:           item.ID().Bytes(),
		OwnerID:      item.OwnerID().Bytes(),
		StoreID:      item.StoreID().Bytes(),
		OrderID:      item.OrderID().Bytes(),
		PaymentID:    item.PaymentID().Bytes(),
		PaidAt:       item.PaidAt(),
		Gross:        amounts.Gross,
		PlatformFee:  amounts.PlatformFee,
		PgFee:        amounts.PgFee,
		Net:          amounts.Net,
		SettlementID: optionalRaw(item.SettlementID()),
		Status:       string(item.Status()),
	}
}

func ownerItemToDomain(dto OwnerItemDTO) (*settlement.OwnerItem, error) {
	ids, err := parseIDs(dto.ID, dto.OwnerID, dto.StoreID, dto.OrderID, dto.PaymentID)
	if err != nil {
		return nil, err
	}
	settlementID, err := optionalID(dto.SettlementID)
	if err != nil {
		return nil, err
	}

	return settlement.RestoreOwnerItem(
		ids[0], ids[1], ids[2], ids[3], ids[4],
		dto.PaidAt,
		settlement.Breakdown{Gross: dto.Gross, PlatformFee: dto.PlatformFee, PgFee: dto.PgFee, Net: dto.Net},
		settlementID,
		settlement.ItemStatus(dto.Status),
	)
}

func courierSettlementFromDomain(s *settlement.CourierSettlement) CourierSettlementDTO {
	return CourierSettlementDTO{
		ID:                 s.ID().Bytes(),
		CourierID:          s.CourierID().Bytes(),
		PeriodStart:        s.Period().Start(),
		PeriodEnd:          s.Period().End(),
		TotalEarning:       s.TotalEarning(),
		ItemCount:          s.ItemCount(),
		Status:             string(s.Status()),
		PaidAt:             s.PaidAt(),
		ExternalTransferID: s.ExternalTransferID(),
		CreatedAt:          s.CreatedAt(),
	}
}

func courierSettlementToDomain(dto CourierSettlementDTO) (*settlement.CourierSettlement, error) {
	ids, err := parseIDs(dto.ID, dto.CourierID)
	if err != nil {
		return nil, err
	}
	period, err := settlement.NewPeriod(dto.PeriodStart, dto.PeriodEnd)
	if err != nil {
		return nil, err
	}

	return settlement.RestoreCourierSettlement(
		ids[0], ids[1],
		period,
		dto.TotalEarning,
		dto.ItemCount,
		settlement.Status(dto.Status),
		dto.PaidAt,
		dto.ExternalTransferID,
		dto.CreatedAt,
	)
}

func courierItemFromDomain(item *settlement.CourierItem) CourierItemDTO {
	fee := item.Fee()
	return CourierItemDTO{
		ID:             item.ID().Bytes(),
		CourierID:      item.CourierID().Bytes(),
		DeliveryID:     item.DeliveryID().Bytes(),
		CompletedAt:    item.CompletedAt(),
		DistanceMeters: item.DistanceMeters(),
		FeeRuleID:      fee.RuleID.Bytes(),
		BaseFee:        fee.BaseFee,
		PerKmFee:       fee.PerKmFee,
		Earning:        item.Earning(),
		SettlementID:   optionalRaw(item.SettlementID()),
		Status:         string(item.Status()),
	}
}

func courierItemToDomain(dto CourierItemDTO) (*settlement.CourierItem, error) {
	ids, err := parseIDs(dto.ID, dto.CourierID, dto.DeliveryID, dto.FeeRuleID)
	if err != nil {
		return nil, err
	}
	settlementID, err := optionalID(dto.SettlementID)
	if err != nil {
		return nil, err
	}

	return settlement.RestoreCourierItem(
		ids[0], ids[1], ids[2],
		dto.CompletedAt,
		dto.DistanceMeters,
		settlement.FeeSnapshot{RuleID: ids[3], BaseFee: dto.BaseFee, PerKmFee: dto.PerKmFee},
		dto.Earning,
		settlementID,
		settlement.ItemStatus(dto.Status),
	)
}

func parseIDs(raw ...uuid.UUID) ([]kernel.UUID, error) {
	ids := make([]kernel.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := kernel.UUIDFromBytes(r[:])
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func optionalRaw(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func optionalID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromBytes(raw[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func rawIDs(ids []kernel.UUID) []uuid.UUID {
	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.Bytes())
	}
	return raw
}
