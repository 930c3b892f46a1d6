package commands

import (
	"errors"
	"strings"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrPlaceOrderCommandIsNotConstructed = errors.New(
	"PlaceOrderCommand must be created via NewPlaceOrderCommand constructor",
)

// PlaceOrderCommand represents a buyer placing an order at a store.
// The address is a snapshot taken from the buyer's address book at checkout.
//
// Example:
//
//	cmd, err := NewPlaceOrderCommand(actor, storeID, "12 Main st", 25000, 3000, 1800, 15*time.Minute)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	orderID, err := handler.Handle(ctx, cmd)
type PlaceOrderCommand struct {
	actor             kernel.Actor
	storeID           kernel.UUID
	address           string
	totalPrice        int64
	deliveryFee       int64
	distanceMeters    int
	estimatedDuration time.Duration

	guard guard.ConstructorGuard
}

// NewPlaceOrderCommand validates identifiers and amounts; the aggregates re-check them.
func NewPlaceOrderCommand(
	actor kernel.Actor,
	storeID kernel.UUID,
	address string,
	totalPrice, deliveryFee int64,
	distanceMeters int,
	estimatedDuration time.Duration,
) (PlaceOrderCommand, error) {
	var errList []error
	errList = append(errList, actor.Validate(), storeID.Validate())
	if strings.TrimSpace(address) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("address"))
	}
	if totalPrice <= 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("total price", totalPrice, 1, "unbounded"))
	}
	if deliveryFee < 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("delivery fee", deliveryFee, 0, "unbounded"))
	}
	if err := errors.Join(errList...); err != nil {
		return PlaceOrderCommand{}, err
	}

	return PlaceOrderCommand{
		actor:             actor,
		storeID:           storeID,
		address:           address,
		totalPrice:        totalPrice,
		deliveryFee:       deliveryFee,
		distanceMeters:    distanceMeters,
		estimatedDuration: estimatedDuration,
		guard:             guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c PlaceOrderCommand) Validate() error {
	return c.guard.Validate(ErrPlaceOrderCommandIsNotConstructed)
}

func (c PlaceOrderCommand) Actor() kernel.Actor              { return c.actor }
func (c PlaceOrderCommand) StoreID() kernel.UUID             { return c.storeID }
func (c PlaceOrderCommand) Address() string                  { return c.address }
func (c PlaceOrderCommand) TotalPrice() int64                { return c.totalPrice }
func (c PlaceOrderCommand) DeliveryFee() int64               { return c.deliveryFee }
func (c PlaceOrderCommand) DistanceMeters() int              { return c.distanceMeters }
func (c PlaceOrderCommand) EstimatedDuration() time.Duration { return c.estimatedDuration }
