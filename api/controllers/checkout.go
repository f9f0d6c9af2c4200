package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/halisidigital/halisi-backend/api/middleware"
	"github.com/halisidigital/halisi-backend/api/responses"
	"github.com/halisidigital/halisi-backend/api/validators"
	checkoutsvc "github.com/halisidigital/halisi-backend/internal/checkout"
	pkgerrors "github.com/halisidigital/halisi-backend/pkg/errors"
	"github.com/halisidigital/halisi-backend/pkg/logger"
)

// BeginCheckout prices the cart and opens a payment session.
func BeginCheckout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload checkoutsvc.BeginCheckoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := svc.Begin(r.Context(), middleware.CartTokenFromContext(r.Context()), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, resp)
	}
}

// VerifyCheckout re-checks a payment reference against the gateway.
func VerifyCheckout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		reference := chi.URLParam(r, "reference")
		resp, err := svc.Verify(r.Context(), reference, middleware.CartTokenFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, resp)
	}
}

// OrderDownloads lists the purchased file links for a paid reference.
func OrderDownloads(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		links, err := svc.Downloads(r.Context(), chi.URLParam(r, "reference"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, links)
	}
}
