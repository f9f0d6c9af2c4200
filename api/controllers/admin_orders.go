package controllers

import (
	"net/http"
	"strings"

	"github.com/halisidigital/halisi-backend/api/responses"
	"github.com/halisidigital/halisi-backend/api/validators"
	ordersvc "github.com/halisidigital/halisi-backend/internal/orders"
	"github.com/halisidigital/halisi-backend/pkg/enums"
	pkgerrors "github.com/halisidigital/halisi-backend/pkg/errors"
	"github.com/halisidigital/halisi-backend/pkg/logger"
	"github.com/halisidigital/halisi-backend/pkg/pagination"
)

// AdminListOrders serves a filtered cursor page of orders.
func AdminListOrders(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := ordersvc.ListFilters{
			Email:  validators.SanitizeString(r.URL.Query().Get("email"), 320),
			Limit:  limit,
			Cursor: validators.SanitizeString(r.URL.Query().Get("cursor"), 500),
		}

		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, parseErr := enums.ParsePaymentStatus(raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid status"))
				return
			}
			filters.Status = status
		}

		page, err := svc.List(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

// AdminGetOrder serves one order with its items.
func AdminGetOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		id, err := parseIDParam(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}
