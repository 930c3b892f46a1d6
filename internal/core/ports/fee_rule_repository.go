package ports

import (
	"context"

	"marketplace/internal/core/domain/model/feerule"
	"marketplace/internal/core/domain/model/kernel"
)

type FeeRuleRepository interface {
	Add(ctx context.Context, rule *feerule.Rule) error
	// Update writes the distance bucket and fees. It never changes the active flag.
	Update(ctx context.Context, rule *feerule.Rule) error
	Deactivate(ctx context.Context, id kernel.UUID) error
	Get(ctx context.Context, id kernel.UUID) (*feerule.Rule, error)
	// ListActiveByCourier returns active rules of the courier ordered by MinMeters descending.
	ListActiveByCourier(ctx context.Context, courierID kernel.UUID) ([]*feerule.Rule, error)
}
