package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/halisidigital/halisi-backend/pkg/enums"
)

// DiscountRule is an admin-authored promotion evaluated by the pricing engine.
//
// Value carries percentage points for percentage_off and a whole-KSh amount
// for fixed_amount_off. MinCartCount and FreeCount are only meaningful for
// buy_x_get_y_free; a rule missing them simply never produces savings.
type DiscountRule struct {
	ID              uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name            string             `gorm:"column:name;not null"`
	Kind            enums.DiscountKind `gorm:"column:kind;not null"`
	Value           int                `gorm:"column:value;not null"`
	MinCartCount    *int               `gorm:"column:min_cart_count"`
	FreeCount       *int               `gorm:"column:free_count"`
	EligibleAll     bool               `gorm:"column:eligible_all;not null;default:true"`
	EligibleEbookID pq.StringArray     `gorm:"column:eligible_ebook_ids;type:text[];not null;default:ARRAY[]::text[]"`
	Active          bool               `gorm:"column:active;not null;default:true"`
	CreatedAt       time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
