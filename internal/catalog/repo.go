package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/halisidigital/halisi-backend/pkg/db/models"
	"github.com/halisidigital/halisi-backend/pkg/pagination"
)

// Repository encapsulates ebook persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an ebook repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new ebook record.
func (r *Repository) Create(ctx context.Context, ebook *models.Ebook) error {
	return r.db.WithContext(ctx).Create(ebook).Error
}

// Update persists the full ebook record.
func (r *Repository) Update(ctx context.Context, ebook *models.Ebook) error {
	return r.db.WithContext(ctx).Save(ebook).Error
}

// Delete removes the ebook by id.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Ebook{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindByID loads one ebook.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Ebook, error) {
	var ebook models.Ebook
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&ebook).Error; err != nil {
		return nil, err
	}
	return &ebook, nil
}

// FindByIDs loads the ebooks for the given id set, unordered.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Ebook, error) {
	if len(ids) == 0 {
		return []models.Ebook{}, nil
	}
	var ebooks []models.Ebook
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&ebooks).Error; err != nil {
		return nil, err
	}
	return ebooks, nil
}

// List returns one cursor page of ebooks matching the filters,
// newest first.
func (r *Repository) List(ctx context.Context, filters ListFilters) ([]models.Ebook, string, error) {
	normalizedLimit := pagination.NormalizeLimit(filters.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(filters.Limit)

	decodedCursor, err := pagination.ParseCursor(filters.Cursor)
	if err != nil {
		return nil, "", err
	}

	query := r.applyFilters(r.db.WithContext(ctx).Model(&models.Ebook{}), filters)

	if decodedCursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
	}

	query = query.Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer)

	var ebooks []models.Ebook
	if err := query.Find(&ebooks).Error; err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(ebooks) > normalizedLimit {
		ebooks = ebooks[:normalizedLimit]
		last := ebooks[len(ebooks)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}

	return ebooks, nextCursor, nil
}

// Count returns how many ebooks match the filters, ignoring pagination.
func (r *Repository) Count(ctx context.Context, filters ListFilters) (int64, error) {
	var count int64
	query := r.applyFilters(r.db.WithContext(ctx).Model(&models.Ebook{}), filters)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *Repository) applyFilters(query *gorm.DB, filters ListFilters) *gorm.DB {
	if category := strings.TrimSpace(filters.Category); category != "" {
		query = query.Where("category = ?", category)
	}
	if search := strings.TrimSpace(filters.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	if filters.Featured != nil {
		query = query.Where("featured = ?", *filters.Featured)
	}
	if filters.Free != nil {
		query = query.Where("free = ?", *filters.Free)
	}
	if filters.BestSeller != nil {
		query = query.Where("best_seller = ?", *filters.BestSeller)
	}
	if filters.FlashSale != nil {
		query = query.Where("flash_sale = ?", *filters.FlashSale)
	}
	return query
}
