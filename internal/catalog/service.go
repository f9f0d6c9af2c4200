package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/halisidigital/halisi-backend/pkg/db/models"
	pkgerrors "github.com/halisidigital/halisi-backend/pkg/errors"
)

type repository interface {
	Create(ctx context.Context, ebook *models.Ebook) error
	Update(ctx context.Context, ebook *models.Ebook) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Ebook, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Ebook, error)
	List(ctx context.Context, filters ListFilters) ([]models.Ebook, string, error)
	Count(ctx context.Context, filters ListFilters) (int64, error)
}

// Service exposes catalog operations for the public API and the admin panel.
type Service interface {
	List(ctx context.Context, filters ListFilters) (*EbookPageDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*EbookDTO, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Ebook, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Ebook, error)
	Create(ctx context.Context, input CreateEbookInput) (*EbookDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateEbookInput) (*EbookDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo repository
}

// NewService builds a catalog service with the provided repository.
func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

// CreateEbookInput captures the fields for publishing an ebook.
type CreateEbookInput struct {
	Title       string
	Description string
	Price       int
	Category    string
	RecipeCount int
	Ingredients []string
	ImageURL    string
	FileURL     *string
	Featured    bool
	Free        bool
	BestSeller  bool
	FlashSale   bool
}

// UpdateEbookInput captures the mutable ebook fields; nil means unchanged.
type UpdateEbookInput struct {
	Title       *string
	Description *string
	Price       *int
	Category    *string
	RecipeCount *int
	Ingredients *[]string
	ImageURL    *string
	FileURL     *string
	Featured    *bool
	Free        *bool
	BestSeller  *bool
	FlashSale   *bool
}

func (s *service) List(ctx context.Context, filters ListFilters) (*EbookPageDTO, error) {
	ebooks, nextCursor, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, mapRepoError(err, "listing ebooks")
	}
	total, err := s.repo.Count(ctx, filters)
	if err != nil {
		return nil, mapRepoError(err, "counting ebooks")
	}

	items := make([]EbookDTO, 0, len(ebooks))
	for i := range ebooks {
		items = append(items, toDTO(&ebooks[i]))
	}
	return &EbookPageDTO{
		Items:      items,
		NextCursor: nextCursor,
		Total:      int(total),
	}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*EbookDTO, error) {
	ebook, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toDTO(ebook)
	return &dto, nil
}

// FindByID returns the raw model; the cart and checkout flows need FileURL,
// which the public DTO strips.
func (s *service) FindByID(ctx context.Context, id uuid.UUID) (*models.Ebook, error) {
	ebook, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "loading ebook")
	}
	return ebook, nil
}

// FindByIDs batch-loads raw models for an id set; checkout resolves a paid
// order's download files in one query rather than one lookup per item.
func (s *service) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Ebook, error) {
	ebooks, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, mapRepoError(err, "loading ebooks")
	}
	return ebooks, nil
}

func (s *service) Create(ctx context.Context, input CreateEbookInput) (*EbookDTO, error) {
	if err := validateEbookFields(input.Title, input.Price, input.Category); err != nil {
		return nil, err
	}

	ebook := &models.Ebook{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Price:       input.Price,
		Category:    strings.TrimSpace(input.Category),
		RecipeCount: input.RecipeCount,
		Ingredients: pq.StringArray(input.Ingredients),
		ImageURL:    strings.TrimSpace(input.ImageURL),
		FileURL:     input.FileURL,
		Featured:    input.Featured,
		Free:        input.Free,
		BestSeller:  input.BestSeller,
		FlashSale:   input.FlashSale,
	}
	if ebook.Ingredients == nil {
		ebook.Ingredients = pq.StringArray{}
	}
	if ebook.ID == uuid.Nil {
		ebook.ID = uuid.New()
	}

	if err := s.repo.Create(ctx, ebook); err != nil {
		return nil, mapRepoError(err, "creating ebook")
	}
	dto := toDTO(ebook)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateEbookInput) (*EbookDTO, error) {
	ebook, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		ebook.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		ebook.Description = strings.TrimSpace(*input.Description)
	}
	if input.Price != nil {
		ebook.Price = *input.Price
	}
	if input.Category != nil {
		ebook.Category = strings.TrimSpace(*input.Category)
	}
	if input.RecipeCount != nil {
		ebook.RecipeCount = *input.RecipeCount
	}
	if input.Ingredients != nil {
		ebook.Ingredients = pq.StringArray(*input.Ingredients)
	}
	if input.ImageURL != nil {
		ebook.ImageURL = strings.TrimSpace(*input.ImageURL)
	}
	if input.FileURL != nil {
		ebook.FileURL = input.FileURL
	}
	if input.Featured != nil {
		ebook.Featured = *input.Featured
	}
	if input.Free != nil {
		ebook.Free = *input.Free
	}
	if input.BestSeller != nil {
		ebook.BestSeller = *input.BestSeller
	}
	if input.FlashSale != nil {
		ebook.FlashSale = *input.FlashSale
	}

	if err := validateEbookFields(ebook.Title, ebook.Price, ebook.Category); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, ebook); err != nil {
		return nil, mapRepoError(err, "updating ebook")
	}
	dto := toDTO(ebook)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapRepoError(err, "deleting ebook")
	}
	return nil
}

func validateEbookFields(title string, price int, category string) error {
	if strings.TrimSpace(title) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if price < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if strings.TrimSpace(category) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}
	return nil
}

func mapRepoError(err error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "ebook not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
}
