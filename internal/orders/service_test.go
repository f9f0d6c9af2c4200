package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/halisidigital/halisi-backend/pkg/db/models"
	"github.com/halisidigital/halisi-backend/pkg/enums"
	pkgerrors "github.com/halisidigital/halisi-backend/pkg/errors"
)

type stubOrderRepo struct {
	orders map[uuid.UUID]*models.Order
}

func (s *stubOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if order, ok := s.orders[id]; ok {
		return order, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrderRepo) List(ctx context.Context, filters ListFilters) ([]models.Order, string, error) {
	out := make([]models.Order, 0, len(s.orders))
	for _, order := range s.orders {
		if filters.Status != "" && order.PaymentStatus != filters.Status {
			continue
		}
		out = append(out, *order)
	}
	return out, "", nil
}

func (s *stubOrderRepo) Count(ctx context.Context, filters ListFilters) (int64, error) {
	items, _, _ := s.List(ctx, filters)
	return int64(len(items)), nil
}

func TestListRejectsUnknownStatus(t *testing.T) {
	svc, err := NewService(&stubOrderRepo{orders: map[uuid.UUID]*models.Order{}})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, gotErr := svc.List(context.Background(), ListFilters{Status: "refunded"})
	if gotErr == nil {
		t.Fatal("expected error")
	}
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", gotErr)
	}
}

func TestListFiltersByStatus(t *testing.T) {
	repo := &stubOrderRepo{orders: map[uuid.UUID]*models.Order{}}
	paid := &models.Order{ID: uuid.New(), PaymentStatus: enums.PaymentStatusPaid, Total: 2700, CreatedAt: time.Now()}
	pending := &models.Order{ID: uuid.New(), PaymentStatus: enums.PaymentStatusPending, Total: 1500, CreatedAt: time.Now()}
	repo.orders[paid.ID] = paid
	repo.orders[pending.ID] = pending

	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	page, err := svc.List(context.Background(), ListFilters{Status: enums.PaymentStatusPaid})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].ID != paid.ID {
		t.Fatalf("expected only the paid order, got %+v", page.Items)
	}
	if page.Total != 1 {
		t.Fatalf("expected total 1, got %d", page.Total)
	}
}

func TestGetNotFound(t *testing.T) {
	svc, err := NewService(&stubOrderRepo{orders: map[uuid.UUID]*models.Order{}})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, gotErr := svc.Get(context.Background(), uuid.New())
	if gotErr == nil {
		t.Fatal("expected error")
	}
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", gotErr)
	}
}
