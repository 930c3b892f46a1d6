package feerulerepo

import (
	"context"
	"errors"

	"marketplace/internal/core/domain/model/feerule"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormFeeRuleRepository implements ports.FeeRuleRepository using GORM.
// Overlap between active rules is checked by the caller under the per-courier lock.
type GormFeeRuleRepository struct {
	db *gorm.DB
}

func NewGormFeeRuleRepository(db *gorm.DB) *GormFeeRuleRepository {
	return &GormFeeRuleRepository{db: db}
}

func (r *GormFeeRuleRepository) Add(ctx context.Context, rule *feerule.Rule) error {
	if err := rule.Validate(); err != nil {
		return err
	}

	dto := fromDomain(rule)
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormFeeRuleRepository) Update(ctx context.Context, rule *feerule.Rule) error {
	if err := rule.Validate(); err != nil {
		return err
	}

	dto := fromDomain(rule)
	result := r.db.WithContext(ctx).
		Model(&RuleDTO{}).
		Where("id = ?", dto.ID).
		Updates(map[string]any{
			"min_meters": dto.MinMeters,
			"max_meters": dto.MaxMeters,
			"base_fee":   dto.BaseFee,
			"per_km_fee": dto.PerKmFee,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("fee rule", rule.ID().String())
	}
	return nil
}

// Deactivate clears the active flag. Deactivation is one-way.
func (r *GormFeeRuleRepository) Deactivate(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&RuleDTO{}).
		Where("id = ?", id.Bytes()).
		Update("active", false)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("fee rule", id.String())
	}
	return nil
}

func (r *GormFeeRuleRepository) Get(ctx context.Context, id kernel.UUID) (*feerule.Rule, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto RuleDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("fee rule", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormFeeRuleRepository) ListActiveByCourier(ctx context.Context, courierID kernel.UUID) ([]*feerule.Rule, error) {
	if err := courierID.Validate(); err != nil {
		return nil, err
	}

	var dtos []RuleDTO
	err := r.db.WithContext(ctx).
		Where("courier_id = ? AND active = ?", courierID.Bytes(), true).
		Order("min_meters DESC").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	rules := make([]*feerule.Rule, 0, len(dtos))
	for _, dto := range dtos {
		rule, convErr := toDomain(dto)
		if convErr != nil {
			return nil, convErr
		}
		rules = append(rules, rule)
	}
	return rules, nil
}
