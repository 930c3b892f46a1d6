package queries

import (
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery reads one order with its payment and delivery state.
// Visible to the buyer, the owner of the store and admins.
//
// Example:
//
//	query, err := NewGetOrderQuery(actor, orderID)
//	if err != nil {
//	    return err
//	}
//	view, err := NewGetOrderQueryHandler(db).Handle(ctx, query)
type GetOrderQuery struct {
	actor   kernel.Actor
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetOrderQuery(actor kernel.Actor, orderID kernel.UUID) (GetOrderQuery, error) {
	if err := errors.Join(actor.Validate(), orderID.Validate()); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{
		actor:   actor,
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) Actor() kernel.Actor  { return q.actor }
func (q GetOrderQuery) OrderID() kernel.UUID { return q.orderID }

// GetOrderQueryResponse is the order read model. Payment and delivery fields
// are empty while the corresponding record does not exist.
type GetOrderQueryResponse struct {
	ID            kernel.UUID
	BuyerID       kernel.UUID
	StoreID       kernel.UUID
	Address       string
	TotalPrice    int64
	DeliveryFee   int64
	Status        string
	RejectReason  string
	CreatedAt     time.Time
	PaymentStatus string
	MerchantRef   string
	PaidAt        *time.Time
	Delivery      *OrderDeliveryView
}

// OrderDeliveryView summarizes the delivery of an order.
type OrderDeliveryView struct {
	ID        kernel.UUID
	Status    string
	CourierID *kernel.UUID
}
