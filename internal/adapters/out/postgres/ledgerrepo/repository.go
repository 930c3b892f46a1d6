// Package ledgerrepo persists ledger transactions. Rows are never updated.
package ledgerrepo

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/ledger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransactionDTO struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Type        string     `gorm:"type:varchar(32);not null"`
	RelatedType string     `gorm:"type:varchar(32);not null;index:idx_ledger_related"`
	RelatedID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_ledger_related"`
	Amount      int64      `gorm:"not null"`
	Currency    string     `gorm:"type:char(3);not null"`
	Status      string     `gorm:"type:varchar(16);not null"`
	ExternalRef string     `gorm:"type:varchar(128)"`
	CreatedAt   time.Time  `gorm:"not null"`
	CompletedAt *time.Time `gorm:"default:null"`
}

func (TransactionDTO) TableName() string {
	return "ledger_transactions"
}

type GormLedgerRepository struct {
	db *gorm.DB
}

func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

func (r *GormLedgerRepository) Add(ctx context.Context, tx *ledger.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}

	dto := TransactionDTO{
		ID:          tx.ID().Bytes(),
		Type:        string(tx.Type()),
		RelatedType: string(tx.RelatedType()),
		RelatedID:   tx.RelatedID().Bytes(),
		Amount:      tx.Amount(),
		Currency:    tx.Currency(),
		Status:      string(tx.Status()),
		ExternalRef: tx.ExternalReference(),
		CreatedAt:   tx.CreatedAt(),
		CompletedAt: tx.CompletedAt(),
	}
	return r.db.WithContext(ctx).Create(&dto).Error
}

// ListByRelated returns the transactions of one payment or settlement, oldest first.
func (r *GormLedgerRepository) ListByRelated(
	ctx context.Context,
	relatedType ledger.RelatedType,
	relatedID kernel.UUID,
) ([]*ledger.Transaction, error) {
	if err := relatedID.Validate(); err != nil {
		return nil, err
	}

	var dtos []TransactionDTO
	err := r.db.WithContext(ctx).
		Where("related_type = ? AND related_id = ?", string(relatedType), relatedID.Bytes()).
		Order("created_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	txs := make([]*ledger.Transaction, 0, len(dtos))
	for _, dto := range dtos {
		tx, convErr := toDomain(dto)
		if convErr != nil {
			return nil, convErr
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

func toDomain(dto TransactionDTO) (*ledger.Transaction, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	relatedID, err := kernel.UUIDFromBytes(dto.RelatedID[:])
	if err != nil {
		return nil, err
	}

	return ledger.RestoreTransaction(
		id,
		ledger.Type(dto.Type),
		ledger.RelatedType(dto.RelatedType),
		relatedID,
		dto.Amount,
		dto.Currency,
		ledger.Status(dto.Status),
		dto.ExternalRef,
		dto.CreatedAt,
		dto.CompletedAt,
	)
}
