// Package storerepo resolves store ownership from the stores table, which is
// maintained by the catalog service.
package storerepo

import (
	"context"
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StoreDTO struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerID uuid.UUID `gorm:"type:uuid;not null;index"`
}

func (StoreDTO) TableName() string {
	return "stores"
}

// GormStoreDirectory implements ports.StoreDirectory.
type GormStoreDirectory struct {
	db *gorm.DB
}

func NewGormStoreDirectory(db *gorm.DB) *GormStoreDirectory {
	return &GormStoreDirectory{db: db}
}

func (r *GormStoreDirectory) OwnerOf(ctx context.Context, storeID kernel.UUID) (kernel.UUID, error) {
	if err := storeID.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	var dto StoreDTO
	if err := r.db.WithContext(ctx).Select("id", "owner_id").First(&dto, "id = ?", storeID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return kernel.UUID{}, errs.NewObjectNotFoundError("store", storeID.String())
		}
		return kernel.UUID{}, err
	}

	return kernel.UUIDFromBytes(dto.OwnerID[:])
}
