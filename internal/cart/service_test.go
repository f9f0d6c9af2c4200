package cart

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/halisidigital/halisi-backend/internal/pricing"
	"github.com/halisidigital/halisi-backend/pkg/config"
	"github.com/halisidigital/halisi-backend/pkg/db/models"
	pkgerrors "github.com/halisidigital/halisi-backend/pkg/errors"
)

type stubCache struct {
	data map[string]string
}

func newStubCache() *stubCache {
	return &stubCache{data: map[string]string{}}
}

func (s *stubCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	s.data[key] = value.(string)
	return nil
}

func (s *stubCache) Get(ctx context.Context, key string) (string, error) {
	v, ok := s.data[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (s *stubCache) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(s.data, key)
	}
	return nil
}

func (s *stubCache) CartKey(token string) string {
	return "halisi:cart:" + token
}

type stubCatalog struct {
	ebooks map[uuid.UUID]*models.Ebook
}

func (s *stubCatalog) FindByID(ctx context.Context, id uuid.UUID) (*models.Ebook, error) {
	if ebook, ok := s.ebooks[id]; ok {
		return ebook, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "ebook not found")
}

type stubRules struct {
	rules []pricing.Rule
}

func (s *stubRules) ActiveRules(ctx context.Context) ([]pricing.Rule, error) {
	return s.rules, nil
}

func newTestService(t *testing.T, catalog *stubCatalog, rules []pricing.Rule) Service {
	t.Helper()
	store, err := NewStore(newStubCache(), config.CartConfig{TTL: time.Hour, MaxItems: 3})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	svc, err := NewService(store, catalog, &stubRules{rules: rules}, config.CartConfig{TTL: time.Hour, MaxItems: 3})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func catalogWith(ebooks ...*models.Ebook) *stubCatalog {
	byID := map[uuid.UUID]*models.Ebook{}
	for _, ebook := range ebooks {
		byID[ebook.ID] = ebook
	}
	return &stubCatalog{ebooks: byID}
}

func ebook(price int) *models.Ebook {
	return &models.Ebook{
		ID:       uuid.New(),
		Title:    "Kenyan Breakfast Delights",
		Price:    price,
		ImageURL: "https://cdn.halisi.co.ke/covers/breakfast.jpg",
	}
}

func TestAddSnapshotsPriceAtAddTime(t *testing.T) {
	book := ebook(1250)
	svc := newTestService(t, catalogWith(book), nil)

	lines, err := svc.Add(context.Background(), "tok", book.ID)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].UnitPrice != 1250 {
		t.Fatalf("expected snapshot price 1250, got %d", lines[0].UnitPrice)
	}
	if lines[0].Title != book.Title {
		t.Fatalf("expected title snapshot, got %q", lines[0].Title)
	}

	// Repricing the catalog record must not touch the existing line.
	book.Price = 9999
	lines, err = svc.List(context.Background(), "tok")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if lines[0].UnitPrice != 1250 {
		t.Fatalf("cart line repriced unexpectedly to %d", lines[0].UnitPrice)
	}
}

func TestAddDuplicateIsSilentNoOp(t *testing.T) {
	book := ebook(1000)
	svc := newTestService(t, catalogWith(book), nil)

	if _, err := svc.Add(context.Background(), "tok", book.ID); err != nil {
		t.Fatalf("first add: %v", err)
	}
	lines, err := svc.Add(context.Background(), "tok", book.ID)
	if err != nil {
		t.Fatalf("duplicate add should not error: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected duplicate add to keep 1 line, got %d", len(lines))
	}
}

func TestAddUnknownEbook(t *testing.T) {
	svc := newTestService(t, catalogWith(), nil)

	_, err := svc.Add(context.Background(), "tok", uuid.New())
	if err == nil {
		t.Fatal("expected error for unknown ebook")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found code, got %v", err)
	}
}

func TestAddEnforcesMaxItems(t *testing.T) {
	books := []*models.Ebook{ebook(100), ebook(200), ebook(300), ebook(400)}
	svc := newTestService(t, catalogWith(books...), nil)

	for _, book := range books[:3] {
		if _, err := svc.Add(context.Background(), "tok", book.ID); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	_, err := svc.Add(context.Background(), "tok", books[3].ID)
	if err == nil {
		t.Fatal("expected error beyond max items")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
}

func TestAddRequiresToken(t *testing.T) {
	book := ebook(500)
	svc := newTestService(t, catalogWith(book), nil)

	_, err := svc.Add(context.Background(), "  ", book.ID)
	if err == nil {
		t.Fatal("expected error for blank token")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
}

func TestRemoveDropsLine(t *testing.T) {
	first := ebook(500)
	second := ebook(700)
	svc := newTestService(t, catalogWith(first, second), nil)

	ctx := context.Background()
	if _, err := svc.Add(ctx, "tok", first.ID); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.Add(ctx, "tok", second.ID); err != nil {
		t.Fatalf("add: %v", err)
	}

	lines, err := svc.Remove(ctx, "tok", first.ID)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(lines) != 1 || lines[0].EbookID != second.ID {
		t.Fatalf("expected only second line to remain, got %+v", lines)
	}

	// Removing an id not in the cart leaves it untouched.
	lines, err = svc.Remove(ctx, "tok", uuid.New())
	if err != nil {
		t.Fatalf("remove absent: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
}

func TestClearEmptiesCart(t *testing.T) {
	book := ebook(500)
	svc := newTestService(t, catalogWith(book), nil)

	ctx := context.Background()
	if _, err := svc.Add(ctx, "tok", book.ID); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.Clear(ctx, "tok"); err != nil {
		t.Fatalf("clear: %v", err)
	}

	lines, err := svc.List(ctx, "tok")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(lines))
	}
}

func TestQuoteAppliesBestRule(t *testing.T) {
	first := ebook(1000)
	second := ebook(2000)
	rule := pricing.PercentageOff(uuid.New(), "ten off", 10, pricing.EligibleAll())
	svc := newTestService(t, catalogWith(first, second), []pricing.Rule{rule})

	ctx := context.Background()
	if _, err := svc.Add(ctx, "tok", first.ID); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.Add(ctx, "tok", second.ID); err != nil {
		t.Fatalf("add: %v", err)
	}

	result, err := svc.Quote(ctx, "tok")
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if result.Quote.Subtotal != 3000 {
		t.Fatalf("expected subtotal 3000, got %d", result.Quote.Subtotal)
	}
	if result.Quote.DiscountAmount != 300 {
		t.Fatalf("expected discount 300, got %d", result.Quote.DiscountAmount)
	}
	if result.Quote.Total != 2700 {
		t.Fatalf("expected total 2700, got %d", result.Quote.Total)
	}
	if len(result.Lines) != 2 {
		t.Fatalf("expected 2 lines in result, got %d", len(result.Lines))
	}
}

func TestQuoteEmptyCart(t *testing.T) {
	svc := newTestService(t, catalogWith(), []pricing.Rule{
		pricing.PercentageOff(uuid.New(), "ten off", 10, pricing.EligibleAll()),
	})

	result, err := svc.Quote(context.Background(), "tok")
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if result.Quote.Subtotal != 0 || result.Quote.Total != 0 || result.Quote.AppliedRuleID != nil {
		t.Fatalf("expected zero quote, got %+v", result.Quote)
	}
}
