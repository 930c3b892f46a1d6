package queries

import (
	"context"
	"database/sql"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderQueryHandler reads orders joined with their payment and delivery.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle returns errs.ErrObjectNotFound for an unknown order and
// errs.ErrForbidden when the actor is not a party of it.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (*GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			o.id,
			o.buyer_id,
			o.store_id,
			s.owner_id,
			o.address,
			o.total_price,
			o.delivery_fee,
			o.status,
			o.reject_reason,
			o.created_at,
			p.status,
			p.merchant_ref,
			p.paid_at,
			d.id,
			d.status,
			d.courier_id
		FROM orders o
		LEFT JOIN stores s ON s.id = o.store_id
		LEFT JOIN payments p ON p.order_id = o.id
		LEFT JOIN deliveries d ON d.order_id = o.id
		WHERE o.id = ?
	`, query.OrderID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return nil, err
		}
		return nil, errs.NewObjectNotFoundError("order", query.OrderID().String())
	}

	var (
		id, buyerID, storeID           uuid.UUID
		ownerID, deliveryID, courierID uuid.NullUUID
		rejectReason                   sql.NullString
		paymentStatus, merchantRef     sql.NullString
		deliveryStatus                 sql.NullString
		paidAt                         sql.NullTime
		resp                           GetOrderQueryResponse
	)
	err = rows.Scan(
		&id,
		&buyerID,
		&storeID,
		&ownerID,
		&resp.Address,
		&resp.TotalPrice,
		&resp.DeliveryFee,
		&resp.Status,
		&rejectReason,
		&resp.CreatedAt,
		&paymentStatus,
		&merchantRef,
		&paidAt,
		&deliveryID,
		&deliveryStatus,
		&courierID,
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
	if resp.BuyerID, err = kernel.UUIDFromBytes(buyerID[:]); err != nil {
		return nil, err
	}
	if resp.StoreID, err = kernel.UUIDFromBytes(storeID[:]); err != nil {
		return nil, err
	}
	owner, err := optionalUUID(ownerID)
	if err != nil {
		return nil, err
	}

	if err = requireParty(query.Actor(), "get order",
		party{role: kernel.RoleBuyer, id: &resp.BuyerID},
		party{role: kernel.RoleStoreOwner, id: owner},
	); err != nil {
		return nil, err
	}

	resp.RejectReason = rejectReason.String
	resp.PaymentStatus = paymentStatus.String
	resp.MerchantRef = merchantRef.String
	resp.PaidAt = optionalTime(paidAt)
	resp.CreatedAt = resp.CreatedAt.UTC()

	if deliveryID.Valid {
		view := &OrderDeliveryView{Status: deliveryStatus.String}
		if view.ID, err = kernel.UUIDFromBytes(deliveryID.UUID[:]); err != nil {
			return nil, err
		}
		if view.CourierID, err = optionalUUID(courierID); err != nil {
			return nil, err
		}
		resp.Delivery = view
	}

	return &resp, nil
}

func optionalUUID(id uuid.NullUUID) (*kernel.UUID, error) {
	if !id.Valid {
		return nil, nil
	}
	parsed, err := kernel.UUIDFromBytes(id.UUID[:])
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
