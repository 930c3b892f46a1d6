package commands

import (
	"context"
	"errors"
	"fmt"

	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/payment"
	"marketplace/internal/core/domain/model/settlement"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/pkg/errs"
)

// settlementRecorder creates settlement items inside the caller's unit of work.
// Both methods are idempotent: an existing item is returned unchanged.
type settlementRecorder struct {
	policy   services.FeePolicy
	resolver services.FeeRuleResolver
}

func newSettlementRecorder(policy services.FeePolicy) settlementRecorder {
	return settlementRecorder{policy: policy, resolver: services.NewFeeRuleResolver()}
}

func (r settlementRecorder) recordOwnerItem(
	ctx context.Context,
	uow UoW,
	o *order.Order,
	p *payment.Payment,
) (*settlement.OwnerItem, bool, error) {
	repo := uow.OwnerSettlementRepository()
	existing, err := repo.GetItemByOrderID(ctx, o.ID())
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return nil, false, err
	}

	if !p.IsPaid() || p.PaidAt() == nil {
		return nil, false, fmt.Errorf("%w: payment %s is %s", payment.ErrNotPaid, p.ID(), p.Status())
	}

	ownerID, err := uow.StoreDirectory().OwnerOf(ctx, o.StoreID())
	if err != nil {
		return nil, false, err
	}

	amounts, err := r.policy.OwnerBreakdown(o.TotalPrice())
	if err != nil {
		return nil, false, err
	}

	item, err := settlement.NewOwnerItem(kernel.NewUUID(), ownerID, o.StoreID(), o.ID(), p.ID(), *p.PaidAt(), amounts)
	if err != nil {
		return nil, false, err
	}

	if err = repo.AddItem(ctx, item); err != nil {
		return nil, false, err
	}
	return item, true, nil
}

func (r settlementRecorder) recordCourierItem(
	ctx context.Context,
	uow UoW,
	d *delivery.Delivery,
) (*settlement.CourierItem, bool, error) {
	repo := uow.CourierSettlementRepository()
	existing, err := repo.GetItemByDeliveryID(ctx, d.ID())
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return nil, false, err
	}

	if d.Status() != delivery.Delivered || d.CourierID() == nil || d.CompletedAt() == nil {
		return nil, false, errs.NewInvalidStateTransitionError("delivery settlement", d.Status().String(), delivery.Delivered.String())
	}
	courierID := *d.CourierID()

	rules, err := uow.FeeRuleRepository().ListActiveByCourier(ctx, courierID)
	if err != nil {
		return nil, false, err
	}

	rule, err := r.resolver.Match(courierID, rules, d.DistanceMeters())
	if err != nil {
		return nil, false, err
	}

	earning, err := r.policy.CourierEarning(rule, d.DistanceMeters())
	if err != nil {
		return nil, false, err
	}

	item, err := settlement.NewCourierItem(
		kernel.NewUUID(),
		courierID,
		d.ID(),
		*d.CompletedAt(),
		d.DistanceMeters(),
		settlement.FeeSnapshot{RuleID: rule.ID(), BaseFee: rule.BaseFee(), PerKmFee: rule.PerKmFee()},
		earning,
	)
	if err != nil {
		return nil, false, err
	}

	if err = repo.AddItem(ctx, item); err != nil {
		return nil, false, err
	}
	return item, true, nil
}
