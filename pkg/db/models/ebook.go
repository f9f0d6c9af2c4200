package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Ebook represents the canonical catalog listing. Prices are whole KSh.
type Ebook struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title       string         `gorm:"column:title;not null"`
	Description string         `gorm:"column:description;not null"`
	Price       int            `gorm:"column:price;not null"`
	Category    string         `gorm:"column:category;not null"`
	RecipeCount int            `gorm:"column:recipe_count;not null;default:0"`
	Ingredients pq.StringArray `gorm:"column:ingredients;type:text[];not null;default:ARRAY[]::text[]"`
	ImageURL    string         `gorm:"column:image_url;not null"`
	FileURL     *string        `gorm:"column:file_url"`
	Featured    bool           `gorm:"column:featured;not null;default:false"`
	Free        bool           `gorm:"column:free;not null;default:false"`
	BestSeller  bool           `gorm:"column:best_seller;not null;default:false"`
	FlashSale   bool           `gorm:"column:flash_sale;not null;default:false"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
