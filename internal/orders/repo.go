package orders

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/halisidigital/halisi-backend/pkg/db/models"
	"github.com/halisidigital/halisi-backend/pkg/enums"
	"github.com/halisidigital/halisi-backend/pkg/pagination"
)

// Repository encapsulates order persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an orders repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListFilters narrows the admin order listing.
type ListFilters struct {
	Status enums.PaymentStatus
	Email  string
	Limit  int
	Cursor string
}

// Create inserts the order together with its items.
func (r *Repository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// FindByID loads one order with its items.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByReference loads the order carrying the given gateway reference.
func (r *Repository) FindByReference(ctx context.Context, reference string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("paystack_reference = ?", reference).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// MarkPaid flips a pending order to paid. The WHERE clause guards the
// transition so a replayed webhook or a verify racing the webhook can only
// win once; the bool reports whether this call made the transition.
func (r *Repository) MarkPaid(ctx context.Context, id uuid.UUID, paidAt time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND payment_status = ?", id, enums.PaymentStatusPending).
		Updates(map[string]any{
			"payment_status": enums.PaymentStatusPaid,
			"paid_at":        paidAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// MarkFailed flips a pending order to failed under the same guard as MarkPaid.
func (r *Repository) MarkFailed(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND payment_status = ?", id, enums.PaymentStatusPending).
		Update("payment_status", enums.PaymentStatusFailed)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// List returns one cursor page of orders matching the filters, newest first.
func (r *Repository) List(ctx context.Context, filters ListFilters) ([]models.Order, string, error) {
	normalizedLimit := pagination.NormalizeLimit(filters.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(filters.Limit)

	decodedCursor, err := pagination.ParseCursor(filters.Cursor)
	if err != nil {
		return nil, "", err
	}

	query := r.applyFilters(r.db.WithContext(ctx).Model(&models.Order{}), filters)

	if decodedCursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
	}

	query = query.Preload("Items").Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer)

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(orders) > normalizedLimit {
		orders = orders[:normalizedLimit]
		last := orders[len(orders)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}

	return orders, nextCursor, nil
}

// Count returns how many orders match the filters, ignoring pagination.
func (r *Repository) Count(ctx context.Context, filters ListFilters) (int64, error) {
	var count int64
	query := r.applyFilters(r.db.WithContext(ctx).Model(&models.Order{}), filters)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *Repository) applyFilters(query *gorm.DB, filters ListFilters) *gorm.DB {
	if filters.Status != "" {
		query = query.Where("payment_status = ?", filters.Status)
	}
	if email := strings.TrimSpace(filters.Email); email != "" {
		query = query.Where("LOWER(customer_email) = ?", strings.ToLower(email))
	}
	return query
}
