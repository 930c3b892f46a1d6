package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var (
	ErrRecordPaidOrderCommandIsNotConstructed = errors.New(
		"RecordPaidOrderCommand must be created via NewRecordPaidOrderCommand constructor",
	)
	ErrRecordCompletedDeliveryCommandIsNotConstructed = errors.New(
		"RecordCompletedDeliveryCommand must be created via NewRecordCompletedDeliveryCommand constructor",
	)
)

// RecordPaidOrderCommand records the owner settlement item of a paid order.
// It is a system operation: payment completion issues it implicitly and
// operations staff may replay it.
type RecordPaidOrderCommand struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewRecordPaidOrderCommand(orderID kernel.UUID) (RecordPaidOrderCommand, error) {
	if err := orderID.Validate(); err != nil {
		return RecordPaidOrderCommand{}, err
	}
	return RecordPaidOrderCommand{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (c RecordPaidOrderCommand) Validate() error {
	return c.guard.Validate(ErrRecordPaidOrderCommandIsNotConstructed)
}

func (c RecordPaidOrderCommand) OrderID() kernel.UUID { return c.orderID }

// RecordCompletedDeliveryCommand records the courier settlement item of a delivered delivery.
type RecordCompletedDeliveryCommand struct {
	deliveryID kernel.UUID

	guard guard.ConstructorGuard
}

func NewRecordCompletedDeliveryCommand(deliveryID kernel.UUID) (RecordCompletedDeliveryCommand, error) {
	if err := deliveryID.Validate(); err != nil {
		return RecordCompletedDeliveryCommand{}, err
	}
	return RecordCompletedDeliveryCommand{deliveryID: deliveryID, guard: guard.NewConstructorGuard()}, nil
}

func (c RecordCompletedDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrRecordCompletedDeliveryCommandIsNotConstructed)
}

func (c RecordCompletedDeliveryCommand) DeliveryID() kernel.UUID { return c.deliveryID }
