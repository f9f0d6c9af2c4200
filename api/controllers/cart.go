package controllers

import (
	"net/http"

	"github.com/halisidigital/halisi-backend/api/middleware"
	"github.com/halisidigital/halisi-backend/api/responses"
	"github.com/halisidigital/halisi-backend/api/validators"
	cartsvc "github.com/halisidigital/halisi-backend/internal/cart"
	pkgerrors "github.com/halisidigital/halisi-backend/pkg/errors"
	"github.com/halisidigital/halisi-backend/pkg/logger"
)

type cartItemRequest struct {
	EbookID string `json:"ebook_id" validate:"required,uuid"`
}

// GetCart returns the priced cart: lines plus the current quote.
func GetCart(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		quoted, err := svc.Quote(r.Context(), middleware.CartTokenFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, quoted)
	}
}

// AddCartItem puts one ebook in the cart and returns the re-priced cart.
func AddCartItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload cartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ebookID, err := parseUUIDField(payload.EbookID, "ebook_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		token := middleware.CartTokenFromContext(r.Context())
		if _, err := svc.Add(r.Context(), token, ebookID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quoted, err := svc.Quote(r.Context(), token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, quoted)
	}
}

// RemoveCartItem drops one ebook from the cart and returns the re-priced cart.
func RemoveCartItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		ebookID, err := parseIDParam(r, "ebookID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		token := middleware.CartTokenFromContext(r.Context())
		if _, err := svc.Remove(r.Context(), token, ebookID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quoted, err := svc.Quote(r.Context(), token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, quoted)
	}
}

// ClearCart empties the cart.
func ClearCart(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		if err := svc.Clear(r.Context(), middleware.CartTokenFromContext(r.Context())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}
