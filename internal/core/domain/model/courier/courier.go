package courier

import (
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

// Domain errors for courier operations.
var (
	// ErrNameIsRequired is returned when attempting to restore a courier without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrCourierIsNotConstructed is returned when using an improperly initialized Courier.
	ErrCourierIsNotConstructed = errors.New("Courier must be created via RestoreCourier constructor")
	// ErrCourierIsInactive is returned when an inactive courier is offered a delivery.
	ErrCourierIsInactive = errors.New("courier is inactive")
)

// Courier represents a delivery courier registered in the courier directory.
//
// Business rules:
//   - Courier must have a valid UUID and non-empty name
//   - Only an active courier can take a delivery
//
// Example usage:
//
//	c, err := courier.RestoreCourier(id, "Alice", true)
//	if err != nil {
//	    return err
//	}
//	if err = c.CanTakeDelivery(); err != nil {
//	    return err
//	}
type Courier struct {
	// id uniquely identifies the courier
	id kernel.UUID
	// name is the human-readable name of the courier
	name string
	// active is false while the courier is suspended or off-boarded
	active bool
	// guard ensures the courier was properly constructed
	guard guard.ConstructorGuard
}

// RestoreCourier reconstructs a Courier from the courier directory.
//
// Parameters:
//   - id: Unique identifier for the courier (must be valid UUID)
//   - name: Human-readable name (must be non-empty)
//   - active: Whether the courier currently accepts deliveries
//
// Returns:
//   - *Courier: The reconstructed courier
//   - error: Validation error if any parameter is invalid
func RestoreCourier(id kernel.UUID, name string, active bool) (*Courier, error) {
	c := &Courier{
		active: active,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		c.setID(id),
		c.setName(name),
	); err != nil {
		return nil, err
	}

	return c, nil
}

// IsEqual compares two couriers by identity.
func (c *Courier) IsEqual(other *Courier) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.id.IsEqual(other.id)
}

// Validate ensures the Courier was created through the constructor.
func (c *Courier) Validate() error {
	if c == nil {
		return ErrCourierIsNotConstructed
	}
	return c.guard.Validate(ErrCourierIsNotConstructed)
}

// ID returns the unique identifier of the courier.
func (c *Courier) ID() kernel.UUID {
	return c.id
}

// Name returns the human-readable name of the courier.
func (c *Courier) Name() string {
	return c.name
}

// IsActive reports whether the courier accepts deliveries.
func (c *Courier) IsActive() bool {
	return c.active
}

// CanTakeDelivery returns ErrCourierIsInactive for suspended couriers.
func (c *Courier) CanTakeDelivery() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if !c.active {
		return ErrCourierIsInactive
	}
	return nil
}

func (c *Courier) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Courier) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameIsRequired
	}
	c.name = name
	return nil
}
