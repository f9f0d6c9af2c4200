package webhooks

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/halisidigital/halisi-backend/api/responses"
	checkoutsvc "github.com/halisidigital/halisi-backend/internal/checkout"
	pkgerrors "github.com/halisidigital/halisi-backend/pkg/errors"
	"github.com/halisidigital/halisi-backend/pkg/logger"
	"github.com/halisidigital/halisi-backend/pkg/paystack"
)

type paystackWebhookGuard interface {
	CheckAndMark(ctx context.Context, reference string) (bool, error)
	Delete(ctx context.Context, reference string) error
}

type paystackClient interface {
	SecretKey() string
}

// PaystackWebhook handles charge events from Paystack. The raw body is
// HMAC-verified against the account secret before anything is decoded, and
// a Redis guard drops replayed deliveries of the same reference.
func PaystackWebhook(svc checkoutsvc.Service, client paystackClient, guard paystackWebhookGuard, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}
		if client == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "paystack client unavailable"))
			return
		}
		if guard == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "webhook guard unavailable"))
			return
		}

		payload, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request body"))
			return
		}

		signature := r.Header.Get("X-Paystack-Signature")
		if signature == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "paystack signature missing"))
			return
		}
		if !paystack.VerifySignature(payload, signature, client.SecretKey()) {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid paystack signature"))
			return
		}

		event, err := paystack.ParseEvent(payload)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode event"))
			return
		}

		reference := strings.TrimSpace(event.Data.Reference)
		if reference == "" {
			// Nothing to settle; acknowledge so Paystack stops retrying.
			responses.WriteSuccess(w, nil)
			return
		}

		alreadyProcessed, err := guard.CheckAndMark(ctx, reference)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check event guard"))
			return
		}
		if alreadyProcessed {
			responses.WriteSuccess(w, nil)
			return
		}

		if err := svc.SettleFromWebhook(ctx, event); err != nil {
			_ = guard.Delete(ctx, reference)
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if logg != nil {
			logg.Info(ctx, fmt.Sprintf("paystack event %s processed", reference))
		}
		responses.WriteSuccess(w, nil)
	}
}

type eventStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	WebhookEventKey(reference string) string
}

// EventGuard is the Redis-backed replay filter used by PaystackWebhook.
type EventGuard struct {
	store eventStore
	ttl   time.Duration
}

// NewEventGuard builds a guard that remembers processed references for ttl.
func NewEventGuard(store eventStore, ttl time.Duration) *EventGuard {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &EventGuard{store: store, ttl: ttl}
}

// CheckAndMark reports whether the reference was already handled, marking it
// as handled if not.
func (g *EventGuard) CheckAndMark(ctx context.Context, reference string) (bool, error) {
	set, err := g.store.SetNX(ctx, g.store.WebhookEventKey(reference), "1", g.ttl)
	if err != nil {
		return false, err
	}
	return !set, nil
}

// Delete forgets a reference so a failed settle can be retried.
func (g *EventGuard) Delete(ctx context.Context, reference string) error {
	return g.store.Del(ctx, g.store.WebhookEventKey(reference))
}
