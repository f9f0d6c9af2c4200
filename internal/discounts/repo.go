package discounts

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/halisidigital/halisi-backend/pkg/db/models"
)

// Repository encapsulates discount rule persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a discount repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new rule.
func (r *Repository) Create(ctx context.Context, rule *models.DiscountRule) error {
	return r.db.WithContext(ctx).Create(rule).Error
}

// Update persists the full rule record.
func (r *Repository) Update(ctx context.Context, rule *models.DiscountRule) error {
	return r.db.WithContext(ctx).Save(rule).Error
}

// Delete removes the rule by id.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.DiscountRule{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindByID loads one rule.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.DiscountRule, error) {
	var rule models.DiscountRule
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&rule).Error; err != nil {
		return nil, err
	}
	return &rule, nil
}

// ListAll returns every rule, oldest first so pricing tie-breaks stay stable
// across reads.
func (r *Repository) ListAll(ctx context.Context) ([]models.DiscountRule, error) {
	var rules []models.DiscountRule
	if err := r.db.WithContext(ctx).Order("created_at ASC").Order("id ASC").Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

// ListActive returns only active rules in the same stable order.
func (r *Repository) ListActive(ctx context.Context) ([]models.DiscountRule, error) {
	var rules []models.DiscountRule
	if err := r.db.WithContext(ctx).Where("active = ?", true).Order("created_at ASC").Order("id ASC").Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}
