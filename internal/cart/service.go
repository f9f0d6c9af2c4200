package cart

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/halisidigital/halisi-backend/internal/pricing"
	"github.com/halisidigital/halisi-backend/pkg/config"
	"github.com/halisidigital/halisi-backend/pkg/db/models"
	pkgerrors "github.com/halisidigital/halisi-backend/pkg/errors"
)

type catalogReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Ebook, error)
}

type ruleProvider interface {
	ActiveRules(ctx context.Context) ([]pricing.Rule, error)
}

// Service exposes cart operations. Adding an ebook already in the cart is a
// silent no-op: the unchanged cart comes back without an error.
type Service interface {
	Add(ctx context.Context, token string, ebookID uuid.UUID) ([]Line, error)
	Remove(ctx context.Context, token string, ebookID uuid.UUID) ([]Line, error)
	List(ctx context.Context, token string) ([]Line, error)
	Clear(ctx context.Context, token string) error
	Quote(ctx context.Context, token string) (*QuoteResult, error)
}

// QuoteResult pairs the priced quote with the lines it was computed from.
type QuoteResult struct {
	Lines []Line        `json:"lines"`
	Quote pricing.Quote `json:"quote"`
}

type service struct {
	store    *Store
	catalog  catalogReader
	rules    ruleProvider
	maxItems int
	now      func() time.Time
}

// NewService builds a cart service over the Redis-backed store.
func NewService(store *Store, catalog catalogReader, rules ruleProvider, cfg config.CartConfig) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("catalog reader required")
	}
	if rules == nil {
		return nil, fmt.Errorf("rule provider required")
	}
	maxItems := cfg.MaxItems
	if maxItems <= 0 {
		maxItems = 50
	}
	return &service{
		store:    store,
		catalog:  catalog,
		rules:    rules,
		maxItems: maxItems,
		now:      time.Now,
	}, nil
}

func (s *service) Add(ctx context.Context, token string, ebookID uuid.UUID) ([]Line, error) {
	if err := validateToken(token); err != nil {
		return nil, err
	}

	lines, err := s.store.List(ctx, token)
	if err != nil {
		return nil, err
	}

	for _, line := range lines {
		if line.EbookID == ebookID {
			// already in cart
			return lines, nil
		}
	}

	if len(lines) >= s.maxItems {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("cart is limited to %d items", s.maxItems))
	}

	ebook, err := s.catalog.FindByID(ctx, ebookID)
	if err != nil {
		return nil, err
	}
	if ebook.Price < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ebook has an invalid price")
	}

	lines = append(lines, Line{
		EbookID:   ebook.ID,
		Title:     ebook.Title,
		UnitPrice: ebook.Price,
		ImageURL:  ebook.ImageURL,
		AddedAt:   s.now().UTC(),
	})

	if err := s.store.Replace(ctx, token, lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func (s *service) Remove(ctx context.Context, token string, ebookID uuid.UUID) ([]Line, error) {
	if err := validateToken(token); err != nil {
		return nil, err
	}

	lines, err := s.store.List(ctx, token)
	if err != nil {
		return nil, err
	}

	kept := make([]Line, 0, len(lines))
	for _, line := range lines {
		if line.EbookID != ebookID {
			kept = append(kept, line)
		}
	}
	if len(kept) == len(lines) {
		return lines, nil
	}

	if err := s.store.Replace(ctx, token, kept); err != nil {
		return nil, err
	}
	return kept, nil
}

func (s *service) List(ctx context.Context, token string) ([]Line, error) {
	if err := validateToken(token); err != nil {
		return nil, err
	}
	return s.store.List(ctx, token)
}

func (s *service) Clear(ctx context.Context, token string) error {
	if err := validateToken(token); err != nil {
		return err
	}
	return s.store.Clear(ctx, token)
}

// Quote reprices the cart against the current active rule set.
func (s *service) Quote(ctx context.Context, token string) (*QuoteResult, error) {
	lines, err := s.List(ctx, token)
	if err != nil {
		return nil, err
	}

	rules, err := s.rules.ActiveRules(ctx)
	if err != nil {
		return nil, err
	}

	quote := pricing.ComputeQuote(toLineItems(lines), rules)
	return &QuoteResult{Lines: lines, Quote: quote}, nil
}

func toLineItems(lines []Line) []pricing.LineItem {
	items := make([]pricing.LineItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, pricing.LineItem{
			ID:        line.EbookID,
			Title:     line.Title,
			UnitPrice: line.UnitPrice,
		})
	}
	return items
}

func validateToken(token string) error {
	if strings.TrimSpace(token) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart token is required")
	}
	return nil
}
