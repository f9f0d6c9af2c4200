package newsletter

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/halisidigital/halisi-backend/pkg/db/models"
)

// Repository encapsulates newsletter subscriber persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a newsletter repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a subscriber row.
func (r *Repository) Create(ctx context.Context, subscriber *models.NewsletterSubscriber) error {
	return r.db.WithContext(ctx).Create(subscriber).Error
}

// FindByEmail looks a subscriber up case-insensitively.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.NewsletterSubscriber, error) {
	var subscriber models.NewsletterSubscriber
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&subscriber).Error
	if err != nil {
		return nil, err
	}
	return &subscriber, nil
}

// Delete removes a subscriber by id.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.NewsletterSubscriber{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListAll returns every subscriber, newest first.
func (r *Repository) ListAll(ctx context.Context) ([]models.NewsletterSubscriber, error) {
	var subscribers []models.NewsletterSubscriber
	if err := r.db.WithContext(ctx).Order("subscribed_at DESC").Find(&subscribers).Error; err != nil {
		return nil, err
	}
	return subscribers, nil
}
