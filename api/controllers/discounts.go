package controllers

import (
	"net/http"
	"strings"

	"github.com/halisidigital/halisi-backend/api/responses"
	"github.com/halisidigital/halisi-backend/api/validators"
	discountsvc "github.com/halisidigital/halisi-backend/internal/discounts"
	"github.com/halisidigital/halisi-backend/pkg/enums"
	pkgerrors "github.com/halisidigital/halisi-backend/pkg/errors"
	"github.com/halisidigital/halisi-backend/pkg/logger"
)

type discountRuleRequest struct {
	Name            string   `json:"name" validate:"required,max=200"`
	Kind            string   `json:"kind" validate:"required"`
	Value           int      `json:"value" validate:"required"`
	MinCartCount    *int     `json:"min_cart_count,omitempty" validate:"omitempty,min=1"`
	FreeCount       *int     `json:"free_count,omitempty" validate:"omitempty,min=1"`
	EligibleAll     bool     `json:"eligible_all"`
	EligibleEbookID []string `json:"eligible_ebook_ids,omitempty"`
	Active          bool     `json:"active"`
}

type discountRuleUpdateRequest struct {
	Name            *string   `json:"name,omitempty" validate:"omitempty,max=200"`
	Value           *int      `json:"value,omitempty"`
	MinCartCount    *int      `json:"min_cart_count,omitempty" validate:"omitempty,min=1"`
	FreeCount       *int      `json:"free_count,omitempty" validate:"omitempty,min=1"`
	EligibleAll     *bool     `json:"eligible_all,omitempty"`
	EligibleEbookID *[]string `json:"eligible_ebook_ids,omitempty"`
	Active          *bool     `json:"active,omitempty"`
}

// ListDiscountRules serves the full rule set for the admin panel.
func ListDiscountRules(svc discountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discount service unavailable"))
			return
		}

		rules, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rules)
	}
}

// GetDiscountRule serves one rule by id.
func GetDiscountRule(svc discountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discount service unavailable"))
			return
		}

		id, err := parseIDParam(r, "ruleID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rule, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rule)
	}
}

// CreateDiscountRule publishes a new rule.
func CreateDiscountRule(svc discountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discount service unavailable"))
			return
		}

		var payload discountRuleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		kind, err := enums.ParseDiscountKind(strings.TrimSpace(payload.Kind))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid kind"))
			return
		}

		rule, err := svc.Create(r.Context(), discountsvc.CreateRuleInput{
			Name:            payload.Name,
			Kind:            kind,
			Value:           payload.Value,
			MinCartCount:    payload.MinCartCount,
			FreeCount:       payload.FreeCount,
			EligibleAll:     payload.EligibleAll,
			EligibleEbookID: payload.EligibleEbookID,
			Active:          payload.Active,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, rule)
	}
}

// UpdateDiscountRule applies a partial rule edit.
func UpdateDiscountRule(svc discountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discount service unavailable"))
			return
		}

		id, err := parseIDParam(r, "ruleID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload discountRuleUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rule, err := svc.Update(r.Context(), id, discountsvc.UpdateRuleInput{
			Name:            payload.Name,
			Value:           payload.Value,
			MinCartCount:    payload.MinCartCount,
			FreeCount:       payload.FreeCount,
			EligibleAll:     payload.EligibleAll,
			EligibleEbookID: payload.EligibleEbookID,
			Active:          payload.Active,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rule)
	}
}

// DeleteDiscountRule removes a rule.
func DeleteDiscountRule(svc discountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discount service unavailable"))
			return
		}

		id, err := parseIDParam(r, "ruleID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
