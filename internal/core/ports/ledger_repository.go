package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/ledger"
)

// LedgerRepository is append-only.
type LedgerRepository interface {
	Add(ctx context.Context, tx *ledger.Transaction) error
	ListByRelated(ctx context.Context, relatedType ledger.RelatedType, relatedID kernel.UUID) ([]*ledger.Transaction, error)
}
