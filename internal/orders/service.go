package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/halisidigital/halisi-backend/pkg/db/models"
	pkgerrors "github.com/halisidigital/halisi-backend/pkg/errors"
)

type repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, filters ListFilters) ([]models.Order, string, error)
	Count(ctx context.Context, filters ListFilters) (int64, error)
}

// Service exposes the admin order views. Orders are created by checkout and
// transition through payment callbacks; the admin panel only reads them.
type Service interface {
	List(ctx context.Context, filters ListFilters) (*OrderPageDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*OrderDTO, error)
}

type service struct {
	repo repository
}

// NewService builds an orders service with the provided repository.
func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, filters ListFilters) (*OrderPageDTO, error) {
	if filters.Status != "" && !filters.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown payment status %q", filters.Status))
	}
	filters.Email = strings.TrimSpace(filters.Email)

	orders, nextCursor, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, mapRepoError(err, "listing orders")
	}
	total, err := s.repo.Count(ctx, filters)
	if err != nil {
		return nil, mapRepoError(err, "counting orders")
	}

	items := make([]OrderDTO, 0, len(orders))
	for i := range orders {
		items = append(items, toDTO(&orders[i]))
	}
	return &OrderPageDTO{Items: items, NextCursor: nextCursor, Total: total}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "loading order")
	}
	dto := toDTO(order)
	return &dto, nil
}

func mapRepoError(err error, action string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, action)
}
