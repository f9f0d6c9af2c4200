package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/halisidigital/halisi-backend/pkg/enums"
)

// Order snapshots a checkout: the quote that was charged and who bought it.
type Order struct {
	ID                uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerEmail     string              `gorm:"column:customer_email;not null"`
	CustomerPhone     string              `gorm:"column:customer_phone;not null"`
	Subtotal          int                 `gorm:"column:subtotal;not null"`
	DiscountAmount    int                 `gorm:"column:discount_amount;not null;default:0"`
	AppliedRuleID     *uuid.UUID          `gorm:"column:applied_rule_id;type:uuid"`
	Total             int                 `gorm:"column:total;not null"`
	PaymentMethod     enums.PaymentMethod `gorm:"column:payment_method;not null"`
	PaymentStatus     enums.PaymentStatus `gorm:"column:payment_status;not null;default:'pending'"`
	PaystackReference *string             `gorm:"column:paystack_reference;uniqueIndex"`
	Items             []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	PaidAt            *time.Time          `gorm:"column:paid_at"`
	CreatedAt         time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem captures the per-ebook snapshot inside an order.
type OrderItem struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID `gorm:"column:order_id;type:uuid;not null"`
	EbookID   uuid.UUID `gorm:"column:ebook_id;type:uuid;not null"`
	Title     string    `gorm:"column:title;not null"`
	UnitPrice int       `gorm:"column:unit_price;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
