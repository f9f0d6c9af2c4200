package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/halisidigital/halisi-backend/api/responses"
	"github.com/halisidigital/halisi-backend/api/validators"
	catalogsvc "github.com/halisidigital/halisi-backend/internal/catalog"
	pkgerrors "github.com/halisidigital/halisi-backend/pkg/errors"
	"github.com/halisidigital/halisi-backend/pkg/logger"
	"github.com/halisidigital/halisi-backend/pkg/pagination"
)

// ListEbooks serves the public catalog with optional filters.
func ListEbooks(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := catalogsvc.ListFilters{
			Category: validators.SanitizeString(r.URL.Query().Get("category"), 100),
			Search:   validators.SanitizeString(r.URL.Query().Get("search"), 200),
			Limit:    limit,
			Cursor:   validators.SanitizeString(r.URL.Query().Get("cursor"), 500),
		}

		for key, dest := range map[string]**bool{
			"featured":    &filters.Featured,
			"free":        &filters.Free,
			"best_seller": &filters.BestSeller,
			"flash_sale":  &filters.FlashSale,
		} {
			value, parseErr := validators.ParseQueryBool(r, key)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, parseErr)
				return
			}
			*dest = value
		}

		page, err := svc.List(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

// FeaturedEbooks serves the storefront carousel: featured listings only.
func FeaturedEbooks(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		featured := true
		page, err := svc.List(r.Context(), catalogsvc.ListFilters{
			Featured: &featured,
			Limit:    limit,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

// GetEbook serves one public catalog listing.
func GetEbook(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := parseIDParam(r, "ebookID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ebook, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, ebook)
	}
}

type ebookRequest struct {
	Title       string   `json:"title" validate:"required,max=300"`
	Description string   `json:"description"`
	Price       int      `json:"price" validate:"min=0"`
	Category    string   `json:"category" validate:"required,max=100"`
	RecipeCount int      `json:"recipe_count" validate:"min=0"`
	Ingredients []string `json:"ingredients"`
	ImageURL    string   `json:"image_url"`
	FileURL     *string  `json:"file_url,omitempty"`
	Featured    bool     `json:"featured"`
	Free        bool     `json:"free"`
	BestSeller  bool     `json:"best_seller"`
	FlashSale   bool     `json:"flash_sale"`
}

type ebookUpdateRequest struct {
	Title       *string   `json:"title,omitempty" validate:"omitempty,max=300"`
	Description *string   `json:"description,omitempty"`
	Price       *int      `json:"price,omitempty" validate:"omitempty,min=0"`
	Category    *string   `json:"category,omitempty" validate:"omitempty,max=100"`
	RecipeCount *int      `json:"recipe_count,omitempty" validate:"omitempty,min=0"`
	Ingredients *[]string `json:"ingredients,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
	FileURL     *string   `json:"file_url,omitempty"`
	Featured    *bool     `json:"featured,omitempty"`
	Free        *bool     `json:"free,omitempty"`
	BestSeller  *bool     `json:"best_seller,omitempty"`
	FlashSale   *bool     `json:"flash_sale,omitempty"`
}

// CreateEbook handles admin catalog publishing.
func CreateEbook(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload ebookRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ebook, err := svc.Create(r.Context(), catalogsvc.CreateEbookInput{
			Title:       payload.Title,
			Description: payload.Description,
			Price:       payload.Price,
			Category:    payload.Category,
			RecipeCount: payload.RecipeCount,
			Ingredients: payload.Ingredients,
			ImageURL:    payload.ImageURL,
			FileURL:     payload.FileURL,
			Featured:    payload.Featured,
			Free:        payload.Free,
			BestSeller:  payload.BestSeller,
			FlashSale:   payload.FlashSale,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, ebook)
	}
}

// UpdateEbook applies a partial admin edit.
func UpdateEbook(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := parseIDParam(r, "ebookID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload ebookUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ebook, err := svc.Update(r.Context(), id, catalogsvc.UpdateEbookInput{
			Title:       payload.Title,
			Description: payload.Description,
			Price:       payload.Price,
			Category:    payload.Category,
			RecipeCount: payload.RecipeCount,
			Ingredients: payload.Ingredients,
			ImageURL:    payload.ImageURL,
			FileURL:     payload.FileURL,
			Featured:    payload.Featured,
			Free:        payload.Free,
			BestSeller:  payload.BestSeller,
			FlashSale:   payload.FlashSale,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, ebook)
	}
}

// DeleteEbook removes a catalog listing.
func DeleteEbook(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := parseIDParam(r, "ebookID")
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

func parseIDParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid id")
	}
	return id, nil
}

func parseUUIDField(raw, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+field)
	}
	return id, nil
}
