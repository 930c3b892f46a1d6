package queries

import (
	"context"
	"database/sql"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetDeliveryQueryHandler reads a delivery. The assigned courier, the buyer,
// the store owner and admins may see it.
type GetDeliveryQueryHandler struct {
	db *gorm.DB
}

func NewGetDeliveryQueryHandler(db *gorm.DB) GetDeliveryQueryHandler {
	return GetDeliveryQueryHandler{db: db}
}

func (h GetDeliveryQueryHandler) Handle(ctx context.Context, query GetDeliveryQuery) (*GetDeliveryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			d.id,
			d.order_id,
			d.courier_id,
			d.status,
			d.distance_meters,
			d.estimated_duration_seconds,
			d.actual_duration_seconds,
			d.assigned_at,
			d.accepted_at,
			d.picked_up_at,
			d.started_at,
			d.completed_at,
			o.buyer_id,
			s.owner_id
		FROM deliveries d
		LEFT JOIN orders o ON o.id = d.order_id
		LEFT JOIN stores s ON s.id = o.store_id
		WHERE d.id = ?
	`, query.DeliveryID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return nil, err
		}
		return nil, errs.NewObjectNotFoundError("delivery", query.DeliveryID().String())
	}

	var (
		id, orderID                  uuid.UUID
		courierID, buyerID, ownerID  uuid.NullUUID
		estimatedSeconds             int64
		actualSeconds                sql.NullInt64
		assigned, accepted, pickedUp sql.NullTime
		started, completed           sql.NullTime
		resp                         GetDeliveryQueryResponse
	)
	err = rows.Scan(
		&id,
		&orderID,
		&courierID,
		&resp.Status,
		&resp.DistanceMeters,
		&estimatedSeconds,
		&actualSeconds,
		&assigned,
		&accepted,
		&pickedUp,
		&started,
		&completed,
		&buyerID,
		&ownerID,
	)
	if err != nil {
		return nil, err
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	if resp.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return nil, err
	}
	if resp.OrderID, err = kernel.UUIDFromBytes(orderID[:]); err != nil {
		return nil, err
	}
	if resp.CourierID, err = optionalUUID(courierID); err != nil {
		return nil, err
	}
	buyer, err := optionalUUID(buyerID)
	if err != nil {
		return nil, err
	}
	owner, err := optionalUUID(ownerID)
	if err != nil {
		return nil, err
	}

	if err = requireParty(query.Actor(), "get delivery",
		party{role: kernel.RoleCourier, id: resp.CourierID},
		party{role: kernel.RoleBuyer, id: buyer},
		party{role: kernel.RoleStoreOwner, id: owner},
	); err != nil {
		return nil, err
	}

	resp.EstimatedDuration = time.Duration(estimatedSeconds) * time.Second
	if actualSeconds.Valid {
		actual := time.Duration(actualSeconds.Int64) * time.Second
		resp.ActualDuration = &actual
	}
	resp.AssignedAt = optionalTime(assigned)
	resp.AcceptedAt = optionalTime(accepted)
	resp.PickedUpAt = optionalTime(pickedUp)
	resp.StartedAt = optionalTime(started)
	resp.CompletedAt = optionalTime(completed)

	return &resp, nil
}

func optionalTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	utc := t.Time.UTC()
	return &utc
}
