package queries

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type settlementRow struct {
	ID                 uuid.UUID
	PeriodStart        time.Time
	PeriodEnd          time.Time
	Gross              int64
	PlatformFee        int64
	PgFee              int64
	Net                int64
	TotalEarning       int64
	ItemCount          int
	Status             string
	PaidAt             *time.Time
	ExternalTransferID string
}

// ListOwnerSettlementsQueryHandler reads owner settlement headers. Owners see
// their own; admins see any.
type ListOwnerSettlementsQueryHandler struct {
	db *gorm.DB
}

func NewListOwnerSettlementsQueryHandler(db *gorm.DB) ListOwnerSettlementsQueryHandler {
	return ListOwnerSettlementsQueryHandler{db: db}
}

func (h ListOwnerSettlementsQueryHandler) Handle(
	ctx context.Context,
	query ListOwnerSettlementsQuery,
) ([]OwnerSettlementView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	ownerID := query.OwnerID()
	if err := requireParty(query.Actor(), "list owner settlements",
		party{role: kernel.RoleStoreOwner, id: &ownerID},
	); err != nil {
		return nil, err
	}

	rows, err := listHeaders(ctx, h.db, "owner_settlements", "owner_id", ownerID, string(query.Status()),
		"id, period_start, period_end, gross, platform_fee, pg_fee, net, item_count, status, paid_at, external_transfer_id")
	if err != nil {
		return nil, err
	}

	views := make([]OwnerSettlementView, 0, len(rows))
	for _, row := range rows {
		id, idErr := kernel.UUIDFromBytes(row.ID[:])
		if idErr != nil {
			return nil, idErr
		}
		views = append(views, OwnerSettlementView{
			ID:                 id,
			PeriodStart:        row.PeriodStart.UTC(),
			PeriodEnd:          row.PeriodEnd.UTC(),
			Gross:              row.Gross,
			PlatformFee:        row.PlatformFee,
			PgFee:              row.PgFee,
			Net:                row.Net,
			ItemCount:          row.ItemCount,
			Status:             row.Status,
			PaidAt:             row.PaidAt,
			ExternalTransferID: row.ExternalTransferID,
		})
	}
	return views, nil
}

// ListCourierSettlementsQueryHandler reads courier settlement headers.
type ListCourierSettlementsQueryHandler struct {
	db *gorm.DB
}

func NewListCourierSettlementsQueryHandler(db *gorm.DB) ListCourierSettlementsQueryHandler {
	return ListCourierSettlementsQueryHandler{db: db}
}

func (h ListCourierSettlementsQueryHandler) Handle(
	ctx context.Context,
	query ListCourierSettlementsQuery,
) ([]CourierSettlementView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	courierID := query.CourierID()
	if err := requireParty(query.Actor(), "list courier settlements",
		party{role: kernel.RoleCourier, id: &courierID},
	); err != nil {
		return nil, err
	}

	rows, err := listHeaders(ctx, h.db, "courier_settlements", "courier_id", courierID, string(query.Status()),
		"id, period_start, period_end, total_earning, item_count, status, paid_at, external_transfer_id")
	if err != nil {
		return nil, err
	}

	views := make([]CourierSettlementView, 0, len(rows))
	for _, row := range rows {
		id, idErr := kernel.UUIDFromBytes(row.ID[:])
		if idErr != nil {
			return nil, idErr
		}
		views = append(views, CourierSettlementView{
			ID:                 id,
			PeriodStart:        row.PeriodStart.UTC(),
			PeriodEnd:          row.PeriodEnd.UTC(),
			TotalEarning:       row.TotalEarning,
			ItemCount:          row.ItemCount,
			Status:             row.Status,
			PaidAt:             row.PaidAt,
			ExternalTransferID: row.ExternalTransferID,
		})
	}
	return views, nil
}

func listHeaders(
	ctx context.Context,
	db *gorm.DB,
	table, partyColumn string,
	partyID kernel.UUID,
	status string,
	columns string,
) ([]settlementRow, error) {
	q := db.WithContext(ctx).
		Table(table).
		Select(columns).
		Where(partyColumn+" = ?", partyID.Bytes())
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var rows []settlementRow
	if err := q.Order("period_start DESC").Order("created_at DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
