package checkout

import (
	"github.com/google/uuid"

	"github.com/halisidigital/halisi-backend/pkg/enums"
)

// BeginCheckoutRequest carries the shopper contact details for an order.
type BeginCheckoutRequest struct {
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required"`
}

// BeginCheckoutResponse hands the client everything it needs to finish
// paying. For zero-total orders AuthorizationURL is empty and Paid is
// already true.
type BeginCheckoutResponse struct {
	OrderID          uuid.UUID           `json:"order_id"`
	Reference        string              `json:"reference"`
	AuthorizationURL string              `json:"authorization_url,omitempty"`
	PaymentMethod    enums.PaymentMethod `json:"payment_method"`
	Subtotal         int                 `json:"subtotal"`
	DiscountAmount   int                 `json:"discount_amount"`
	Total            int                 `json:"total"`
	Paid             bool                `json:"paid"`
}

// VerifyResponse reports the settled state of an order after a gateway check.
type VerifyResponse struct {
	OrderID       uuid.UUID           `json:"order_id"`
	Reference     string              `json:"reference"`
	PaymentStatus enums.PaymentStatus `json:"payment_status"`
	Total         int                 `json:"total"`
	Downloads     []DownloadLink      `json:"downloads,omitempty"`
}

// DownloadLink points a paying customer at one purchased file.
type DownloadLink struct {
	EbookID uuid.UUID `json:"ebook_id"`
	Title   string    `json:"title"`
	URL     string    `json:"url"`
}
