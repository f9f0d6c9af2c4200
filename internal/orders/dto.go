package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/halisidigital/halisi-backend/pkg/db/models"
	"github.com/halisidigital/halisi-backend/pkg/enums"
)

// OrderItemDTO is the per-ebook snapshot inside an order response.
type OrderItemDTO struct {
	EbookID   uuid.UUID `json:"ebook_id"`
	Title     string    `json:"title"`
	UnitPrice int       `json:"unit_price"`
}

// OrderDTO is the admin-facing order shape.
type OrderDTO struct {
	ID                uuid.UUID           `json:"id"`
	CustomerEmail     string              `json:"customer_email"`
	CustomerPhone     string              `json:"customer_phone"`
	Subtotal          int                 `json:"subtotal"`
	DiscountAmount    int                 `json:"discount_amount"`
	AppliedRuleID     *uuid.UUID          `json:"applied_rule_id,omitempty"`
	Total             int                 `json:"total"`
	PaymentMethod     enums.PaymentMethod `json:"payment_method"`
	PaymentStatus     enums.PaymentStatus `json:"payment_status"`
	PaystackReference *string             `json:"paystack_reference,omitempty"`
	Items             []OrderItemDTO      `json:"items"`
	PaidAt            *time.Time          `json:"paid_at,omitempty"`
	CreatedAt         time.Time           `json:"created_at"`
}

// OrderPageDTO is one cursor page of orders.
type OrderPageDTO struct {
	Items      []OrderDTO `json:"items"`
	NextCursor string     `json:"next_cursor,omitempty"`
	Total      int64      `json:"total"`
}

func toDTO(order *models.Order) OrderDTO {
	items := make([]OrderItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemDTO{
			EbookID:   item.EbookID,
			Title:     item.Title,
			UnitPrice: item.UnitPrice,
		})
	}
	return OrderDTO{
		ID:                order.ID,
		CustomerEmail:     order.CustomerEmail,
		CustomerPhone:     order.CustomerPhone,
		Subtotal:          order.Subtotal,
		DiscountAmount:    order.DiscountAmount,
		AppliedRuleID:     order.AppliedRuleID,
		Total:             order.Total,
		PaymentMethod:     order.PaymentMethod,
		PaymentStatus:     order.PaymentStatus,
		PaystackReference: order.PaystackReference,
		Items:             items,
		PaidAt:            order.PaidAt,
		CreatedAt:         order.CreatedAt,
	}
}
