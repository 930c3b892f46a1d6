package settlementrepo

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/settlement"
	"marketplace/internal/pkg/errs"

	"gorm.io/gorm"
)

// claimItems attaches PENDING rows to a header. Rows already taken by another
// settlement no longer match the status filter and are not counted.
func claimItems(ctx context.Context, db *gorm.DB, model any, settlementID kernel.UUID, itemIDs []kernel.UUID) (int64, error) {
	if len(itemIDs) == 0 {
		return 0, nil
	}
	if err := settlementID.Validate(); err != nil {
		return 0, err
	}

	result := db.WithContext(ctx).
		Model(model).
		Where("id IN ? AND status = ?", rawIDs(itemIDs), string(settlement.ItemPending)).
		Updates(map[string]any{
			"status":        string(settlement.ItemIncluded),
			"settlement_id": settlementID.Bytes(),
		})
	return result.RowsAffected, result.Error
}

func markItemsPaid(ctx context.Context, db *gorm.DB, model any, settlementID kernel.UUID) (int64, error) {
	result := db.WithContext(ctx).
		Model(model).
		Where("settlement_id = ? AND status = ?", settlementID.Bytes(), string(settlement.ItemIncluded)).
		Update("status", string(settlement.ItemPaid))
	return result.RowsAffected, result.Error
}

// cancelItems voids the INCLUDED rows of a header. The header reference stays
// so the rows keep pointing at the settlement that canceled them.
func cancelItems(ctx context.Context, db *gorm.DB, model any, settlementID kernel.UUID) (int64, error) {
	result := db.WithContext(ctx).
		Model(model).
		Where("settlement_id = ? AND status = ?", settlementID.Bytes(), string(settlement.ItemIncluded)).
		Update("status", string(settlement.ItemCanceled))
	return result.RowsAffected, result.Error
}

// updateHeader writes a header that was loaded as CALCULATED. Headers leave that
// state exactly once, so the stored status serves as the compare-and-set token.
func updateHeader(ctx context.Context, db *gorm.DB, model any, id kernel.UUID, columns map[string]any) error {
	result := db.WithContext(ctx).
		Model(model).
		Where("id = ? AND status = ?", id.Bytes(), string(settlement.StatusCalculated)).
		Updates(columns)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewConcurrentModificationError("settlement", id.String())
	}
	return nil
}
