package commands

import (
	"context"
	"log/slog"
	"time"

	"marketplace/internal/core/domain/model/feerule"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"
)

const defaultFeeRuleLockTTL = 10 * time.Second

// feeRuleWriter runs fee rule writes of one courier under a shared lock, so two
// concurrent writes cannot both pass the overlap check.
type feeRuleWriter struct {
	uowFactory UoWFactory
	locker     ports.Locker
	resolver   services.FeeRuleResolver
	logger     *slog.Logger
}

func (w feeRuleWriter) write(
	ctx context.Context,
	courierID kernel.UUID,
	change func(repo ports.FeeRuleRepository, active []*feerule.Rule) error,
) error {
	key := "feerule:courier:" + courierID.String()
	unlock, err := w.locker.Lock(ctx, key, defaultFeeRuleLockTTL)
	if err != nil {
		return err
	}

	defer func() {
		if unlockErr := unlock(context.WithoutCancel(ctx)); unlockErr != nil {
			w.logger.WarnContext(ctx, "Failed to release fee rule lock", "key", key, "error", unlockErr)
		}
	}()

	uow := w.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.FeeRuleRepository()
	active, err := repo.ListActiveByCourier(ctx, courierID)
	if err != nil {
		return err
	}

	if err = change(repo, active); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

type AddFeeRuleCommandHandler struct {
	writer feeRuleWriter
}

func NewAddFeeRuleCommandHandler(uowFactory UoWFactory, locker ports.Locker, logger *slog.Logger) AddFeeRuleCommandHandler {
	return AddFeeRuleCommandHandler{writer: feeRuleWriter{
		uowFactory: uowFactory,
		locker:     locker,
		resolver:   services.NewFeeRuleResolver(),
		logger:     logger.With("component", "fee_rules"),
	}}
}

func (h AddFeeRuleCommandHandler) Handle(ctx context.Context, cmd AddFeeRuleCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}
	if err := requireRole(cmd.Actor(), "add fee rule", kernel.RoleAdmin); err != nil {
		return kernel.UUID{}, err
	}

	terms := cmd.Terms()
	rule, err := feerule.NewRule(kernel.NewUUID(), cmd.CourierID(), terms.MinMeters, terms.MaxMeters, terms.BaseFee, terms.PerKmFee)
	if err != nil {
		return kernel.UUID{}, err
	}

	err = h.writer.write(ctx, cmd.CourierID(), func(repo ports.FeeRuleRepository, active []*feerule.Rule) error {
		if err := h.writer.resolver.ValidateNoOverlap(cmd.CourierID(), active, terms.MinMeters, terms.MaxMeters, nil); err != nil {
			return err
		}
		return repo.Add(ctx, rule)
	})
	if err != nil {
		return kernel.UUID{}, err
	}

	return rule.ID(), nil
}

type UpdateFeeRuleCommandHandler struct {
	writer feeRuleWriter
}

func NewUpdateFeeRuleCommandHandler(uowFactory UoWFactory, locker ports.Locker, logger *slog.Logger) UpdateFeeRuleCommandHandler {
	return UpdateFeeRuleCommandHandler{writer: feeRuleWriter{
		uowFactory: uowFactory,
		locker:     locker,
		resolver:   services.NewFeeRuleResolver(),
		logger:     logger.With("component", "fee_rules"),
	}}
}

func (h UpdateFeeRuleCommandHandler) Handle(ctx context.Context, cmd UpdateFeeRuleCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if err := requireRole(cmd.Actor(), "update fee rule", kernel.RoleAdmin); err != nil {
		return err
	}

	// The courier is needed for the lock key before the transaction starts.
	current, err := h.writer.uowFactory.Create().FeeRuleRepository().Get(ctx, cmd.RuleID())
	if err != nil {
		return err
	}

	terms := cmd.Terms()
	return h.writer.write(ctx, current.CourierID(), func(repo ports.FeeRuleRepository, active []*feerule.Rule) error {
		rule, err := repo.Get(ctx, cmd.RuleID())
		if err != nil {
			return err
		}

		if rule.IsActive() {
			exclude := rule.ID()
			if err = h.writer.resolver.ValidateNoOverlap(rule.CourierID(), active, terms.MinMeters, terms.MaxMeters, &exclude); err != nil {
				return err
			}
		}

		if err = rule.Update(terms.MinMeters, terms.MaxMeters, terms.BaseFee, terms.PerKmFee); err != nil {
			return err
		}
		return repo.Update(ctx, rule)
	})
}

type DeactivateFeeRuleCommandHandler struct {
	writer feeRuleWriter
}

func NewDeactivateFeeRuleCommandHandler(uowFactory UoWFactory, locker ports.Locker, logger *slog.Logger) DeactivateFeeRuleCommandHandler {
	return DeactivateFeeRuleCommandHandler{writer: feeRuleWriter{
		uowFactory: uowFactory,
		locker:     locker,
		resolver:   services.NewFeeRuleResolver(),
		logger:     logger.With("component", "fee_rules"),
	}}
}

// Handle deactivates the rule under the courier lock, so a concurrent update
// cannot write the rule back as active.
func (h DeactivateFeeRuleCommandHandler) Handle(ctx context.Context, cmd DeactivateFeeRuleCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if err := requireRole(cmd.Actor(), "deactivate fee rule", kernel.RoleAdmin); err != nil {
		return err
	}

	current, err := h.writer.uowFactory.Create().FeeRuleRepository().Get(ctx, cmd.RuleID())
	if err != nil {
		return err
	}
	if !current.IsActive() {
		return nil
	}

	return h.writer.write(ctx, current.CourierID(), func(repo ports.FeeRuleRepository, _ []*feerule.Rule) error {
		rule, err := repo.Get(ctx, cmd.RuleID())
		if err != nil {
			return err
		}
		if !rule.IsActive() {
			return nil
		}

		rule.Deactivate()
		return repo.Deactivate(ctx, rule.ID())
	})
}
