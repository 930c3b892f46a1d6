package queries

import (
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrGetDeliveryQueryIsNotConstructed = errors.New(
	"GetDeliveryQuery must be created via NewGetDeliveryQuery constructor",
)

// GetDeliveryQuery reads one delivery with its timeline.
type GetDeliveryQuery struct {
	actor      kernel.Actor
	deliveryID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetDeliveryQuery(actor kernel.Actor, deliveryID kernel.UUID) (GetDeliveryQuery, error) {
	if err := errors.Join(actor.Validate(), deliveryID.Validate()); err != nil {
		return GetDeliveryQuery{}, err
	}

	return GetDeliveryQuery{
		actor:      actor,
		deliveryID: deliveryID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (q GetDeliveryQuery) Validate() error {
	return q.guard.Validate(ErrGetDeliveryQueryIsNotConstructed)
}

func (q GetDeliveryQuery) Actor() kernel.Actor     { return q.actor }
func (q GetDeliveryQuery) DeliveryID() kernel.UUID { return q.deliveryID }

type GetDeliveryQueryResponse struct {
	ID                kernel.UUID
	OrderID           kernel.UUID
	CourierID         *kernel.UUID
	Status            string
	DistanceMeters    int
	EstimatedDuration time.Duration
	ActualDuration    *time.Duration
	AssignedAt        *time.Time
	AcceptedAt        *time.Time
	PickedUpAt        *time.Time
	StartedAt         *time.Time
	CompletedAt       *time.Time
}
