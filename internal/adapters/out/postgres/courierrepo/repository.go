package courierrepo

import (
	"context"
	"errors"

	"marketplace/internal/core/domain/model/courier"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormCourierDirectory implements ports.CourierDirectory using GORM.
type GormCourierDirectory struct {
	db *gorm.DB
}

// NewGormCourierDirectory creates a read-only courier directory.
func NewGormCourierDirectory(db *gorm.DB) *GormCourierDirectory {
	return &GormCourierDirectory{db: db}
}

// Get retrieves a courier by ID.
func (r *GormCourierDirectory) Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto CourierDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("courier", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}
