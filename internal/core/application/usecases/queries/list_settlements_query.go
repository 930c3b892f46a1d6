package queries

import (
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/settlement"
	"marketplace/internal/pkg/guard"
)

var (
	ErrListOwnerSettlementsQueryIsNotConstructed = errors.New(
		"ListOwnerSettlementsQuery must be created via NewListOwnerSettlementsQuery constructor",
	)
	ErrListCourierSettlementsQueryIsNotConstructed = errors.New(
		"ListCourierSettlementsQuery must be created via NewListCourierSettlementsQuery constructor",
	)
)

// ListOwnerSettlementsQuery lists settlement headers of a store owner, newest period first.
// An empty status lists every status.
type ListOwnerSettlementsQuery struct {
	actor   kernel.Actor
	ownerID kernel.UUID
	status  settlement.Status

	guard guard.ConstructorGuard
}

func NewListOwnerSettlementsQuery(
	actor kernel.Actor,
	ownerID kernel.UUID,
	status settlement.Status,
) (ListOwnerSettlementsQuery, error) {
	if err := errors.Join(actor.Validate(), ownerID.Validate(), validateStatusFilter(status)); err != nil {
		return ListOwnerSettlementsQuery{}, err
	}

	return ListOwnerSettlementsQuery{
		actor:   actor,
		ownerID: ownerID,
		status:  status,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (q ListOwnerSettlementsQuery) Validate() error {
	return q.guard.Validate(ErrListOwnerSettlementsQueryIsNotConstructed)
}

func (q ListOwnerSettlementsQuery) Actor() kernel.Actor       { return q.actor }
func (q ListOwnerSettlementsQuery) OwnerID() kernel.UUID      { return q.ownerID }
func (q ListOwnerSettlementsQuery) Status() settlement.Status { return q.status }

type OwnerSettlementView struct {
	ID                 kernel.UUID
	PeriodStart        time.Time
	PeriodEnd          time.Time
	Gross              int64
	PlatformFee        int64
	PgFee              int64
	Net                int64
	ItemCount          int
	Status             string
	PaidAt             *time.Time
	ExternalTransferID string
}

// ListCourierSettlementsQuery mirrors ListOwnerSettlementsQuery for couriers.
type ListCourierSettlementsQuery struct {
	actor     kernel.Actor
	courierID kernel.UUID
	status    settlement.Status

	guard guard.ConstructorGuard
}

func NewListCourierSettlementsQuery(
	actor kernel.Actor,
	courierID kernel.UUID,
	status settlement.Status,
) (ListCourierSettlementsQuery, error) {
	if err := errors.Join(actor.Validate(), courierID.Validate(), validateStatusFilter(status)); err != nil {
		return ListCourierSettlementsQuery{}, err
	}

	return ListCourierSettlementsQuery{
		actor:     actor,
		courierID: courierID,
		status:    status,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (q ListCourierSettlementsQuery) Validate() error {
	return q.guard.Validate(ErrListCourierSettlementsQueryIsNotConstructed)
}

func (q ListCourierSettlementsQuery) Actor() kernel.Actor       { return q.actor }
func (q ListCourierSettlementsQuery) CourierID() kernel.UUID    { return q.courierID }
func (q ListCourierSettlementsQuery) Status() settlement.Status { return q.status }

type CourierSettlementView struct {
	ID                 kernel.UUID
	PeriodStart        time.Time
	PeriodEnd          time.Time
	TotalEarning       int64
	ItemCount          int
	Status             string
	PaidAt             *time.Time
	ExternalTransferID string
}

func validateStatusFilter(status settlement.Status) error {
	if status == "" {
		return nil
	}
	return status.Validate()
}
