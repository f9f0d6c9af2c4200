package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/halisidigital/halisi-backend/pkg/db/models"
)

// EbookDTO is the catalog shape returned to clients. FileURL never leaves
// the server through this type; downloads go through the gated endpoint.
type EbookDTO struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       int       `json:"price"`
	Category    string    `json:"category"`
	RecipeCount int       `json:"recipe_count"`
	Ingredients []string  `json:"ingredients"`
	ImageURL    string    `json:"image_url"`
	Featured    bool      `json:"featured"`
	Free        bool      `json:"free"`
	BestSeller  bool      `json:"best_seller"`
	FlashSale   bool      `json:"flash_sale"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EbookPageDTO is one cursor page of catalog results.
type EbookPageDTO struct {
	Items      []EbookDTO `json:"items"`
	NextCursor string     `json:"next_cursor,omitempty"`
	Total      int        `json:"total"`
}

// ListFilters narrows a catalog listing. Nil flag filters mean "any".
type ListFilters struct {
	Category   string
	Search     string
	Featured   *bool
	Free       *bool
	BestSeller *bool
	FlashSale  *bool
	Limit      int
	Cursor     string
}

func toDTO(ebook *models.Ebook) EbookDTO {
	ingredients := make([]string, len(ebook.Ingredients))
	copy(ingredients, ebook.Ingredients)
	return EbookDTO{
		ID:          ebook.ID,
		Title:       ebook.Title,
		Description: ebook.Description,
		Price:       ebook.Price,
		Category:    ebook.Category,
		RecipeCount: ebook.RecipeCount,
		Ingredients: ingredients,
		ImageURL:    ebook.ImageURL,
		Featured:    ebook.Featured,
		Free:        ebook.Free,
		BestSeller:  ebook.BestSeller,
		FlashSale:   ebook.FlashSale,
		CreatedAt:   ebook.CreatedAt,
		UpdatedAt:   ebook.UpdatedAt,
	}
}
