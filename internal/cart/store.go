// Package cart keeps one shopper's cart in Redis, keyed by an opaque token
// the API mints on first use. Each line snapshots the ebook price at add
// time, so later catalog edits never reprice a cart silently.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/halisidigital/halisi-backend/pkg/config"
	pkgerrors "github.com/halisidigital/halisi-backend/pkg/errors"
)

// Line is one cart entry. Quantity is always one; buying more means adding
// more distinct ebooks.
type Line struct {
	EbookID   uuid.UUID `json:"ebook_id"`
	Title     string    `json:"title"`
	UnitPrice int       `json:"unit_price"`
	ImageURL  string    `json:"image_url"`
	AddedAt   time.Time `json:"added_at"`
}

type cache interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	CartKey(token string) string
}

// Store persists cart lines as a JSON array under the namespaced cart key.
type Store struct {
	cache cache
	ttl   time.Duration
}

// NewStore builds a cart store over the shared Redis client.
func NewStore(cache cache, cfg config.CartConfig) (*Store, error) {
	if cache == nil {
		return nil, fmt.Errorf("cart cache required")
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 168 * time.Hour
	}
	return &Store{cache: cache, ttl: ttl}, nil
}

// List returns the cart lines in insertion order. An unknown token is an
// empty cart, not an error.
func (s *Store) List(ctx context.Context, token string) ([]Line, error) {
	raw, err := s.cache.Get(ctx, s.cache.CartKey(token))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []Line{}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart")
	}

	var lines []Line
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decoding cart")
	}
	return lines, nil
}

// Replace overwrites the cart contents and refreshes its TTL.
func (s *Store) Replace(ctx context.Context, token string, lines []Line) error {
	if lines == nil {
		lines = []Line{}
	}
	payload, err := json.Marshal(lines)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding cart")
	}
	if err := s.cache.Set(ctx, s.cache.CartKey(token), string(payload), s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving cart")
	}
	return nil
}

// Clear removes the cart entirely.
func (s *Store) Clear(ctx context.Context, token string) error {
	if err := s.cache.Del(ctx, s.cache.CartKey(token)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clearing cart")
	}
	return nil
}
