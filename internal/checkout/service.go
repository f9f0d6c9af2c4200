package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/halisidigital/halisi-backend/internal/cart"
	"github.com/halisidigital/halisi-backend/pkg/config"
	"github.com/halisidigital/halisi-backend/pkg/db/models"
	"github.com/halisidigital/halisi-backend/pkg/enums"
	pkgerrors "github.com/halisidigital/halisi-backend/pkg/errors"
	"github.com/halisidigital/halisi-backend/pkg/logger"
	"github.com/halisidigital/halisi-backend/pkg/metrics"
	"github.com/halisidigital/halisi-backend/pkg/paystack"
)

// Paystack quotes KES in cents while the catalog stores whole KSh.
const centsPerShilling = 100

type cartManager interface {
	Quote(ctx context.Context, token string) (*cart.QuoteResult, error)
	Clear(ctx context.Context, token string) error
}

type gateway interface {
	InitializeTransaction(ctx context.Context, params paystack.InitializeParams) (*paystack.Authorization, error)
	VerifyTransaction(ctx context.Context, reference string) (*paystack.Transaction, error)
}

type orderStore interface {
	Create(ctx context.Context, order *models.Order) error
	FindByReference(ctx context.Context, reference string) (*models.Order, error)
	MarkPaid(ctx context.Context, id uuid.UUID, paidAt time.Time) (bool, error)
	MarkFailed(ctx context.Context, id uuid.UUID) (bool, error)
}

type ruleFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.DiscountRule, error)
}

type fileResolver interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Ebook, error)
}

// Service orchestrates checkout: it turns a priced cart into a pending
// order, hands payment to Paystack, and settles the order when the gateway
// confirms the charge.
type Service interface {
	Begin(ctx context.Context, token string, req BeginCheckoutRequest) (*BeginCheckoutResponse, error)
	Verify(ctx context.Context, reference, cartToken string) (*VerifyResponse, error)
	SettleFromWebhook(ctx context.Context, event *paystack.Event) error
	Downloads(ctx context.Context, reference string) ([]DownloadLink, error)
}

type service struct {
	carts    cartManager
	gateway  gateway
	orders   orderStore
	rules    ruleFinder
	files    fileResolver
	cfg      config.PaystackConfig
	filesCfg config.FilesConfig
	logg     *logger.Logger
	checkout *metrics.CheckoutMetrics
	now      func() time.Time
}

// ServiceParams bundles the dependencies required to build a checkout service.
type ServiceParams struct {
	Carts    cartManager
	Gateway  gateway
	Orders   orderStore
	Rules    ruleFinder
	Files    fileResolver
	Config   config.PaystackConfig
	FilesCfg config.FilesConfig
	Logger   *logger.Logger
	Checkout *metrics.CheckoutMetrics
}

// NewService constructs a checkout service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Carts == nil {
		return nil, fmt.Errorf("cart manager is required")
	}
	if params.Gateway == nil {
		return nil, fmt.Errorf("payment gateway is required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("order store is required")
	}
	if params.Rules == nil {
		return nil, fmt.Errorf("rule finder is required")
	}
	if params.Files == nil {
		return nil, fmt.Errorf("file resolver is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{
		carts:    params.Carts,
		gateway:  params.Gateway,
		orders:   params.Orders,
		rules:    params.Rules,
		files:    params.Files,
		cfg:      params.Config,
		filesCfg: params.FilesCfg,
		logg:     params.Logger,
		checkout: params.Checkout,
		now:      time.Now,
	}, nil
}

// Begin prices the cart, persists a pending order snapshot, and opens a
// hosted Paystack session. A zero-total cart skips the gateway entirely:
// the order is recorded as free and settled on the spot.
func (s *service) Begin(ctx context.Context, token string, req BeginCheckoutRequest) (*BeginCheckoutResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	phone := strings.TrimSpace(req.Phone)
	if email == "" || !strings.Contains(email, "@") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a valid email address is required")
	}
	if phone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a phone number is required")
	}

	priced, err := s.carts.Quote(ctx, token)
	if err != nil {
		return nil, err
	}
	if len(priced.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	reference := newReference()
	order := &models.Order{
		ID:                uuid.New(),
		CustomerEmail:     email,
		CustomerPhone:     phone,
		Subtotal:          priced.Quote.Subtotal,
		DiscountAmount:    priced.Quote.DiscountAmount,
		AppliedRuleID:     priced.Quote.AppliedRuleID,
		Total:             priced.Quote.Total,
		PaymentMethod:     enums.PaymentMethodPaystack,
		PaymentStatus:     enums.PaymentStatusPending,
		PaystackReference: &reference,
		Items:             orderItems(priced.Lines),
	}

	if priced.Quote.Total == 0 {
		return s.beginFreeOrder(ctx, token, order)
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating order")
	}
	s.incOrder(string(enums.PaymentStatusPending))

	authorization, err := s.gateway.InitializeTransaction(ctx, paystack.InitializeParams{
		Email:       email,
		AmountKobo:  int64(order.Total) * centsPerShilling,
		Currency:    "KES",
		Reference:   reference,
		CallbackURL: s.cfg.CallbackURL,
		Metadata: map[string]any{
			"order_id": order.ID.String(),
		},
	})
	if err != nil {
		s.logg.Error(ctx, "paystack initialize failed", err)
		return nil, err
	}

	return &BeginCheckoutResponse{
		OrderID:          order.ID,
		Reference:        reference,
		AuthorizationURL: authorization.AuthorizationURL,
		PaymentMethod:    order.PaymentMethod,
		Subtotal:         order.Subtotal,
		DiscountAmount:   order.DiscountAmount,
		Total:            order.Total,
	}, nil
}

func (s *service) beginFreeOrder(ctx context.Context, token string, order *models.Order) (*BeginCheckoutResponse, error) {
	now := s.now().UTC()
	order.PaymentMethod = enums.PaymentMethodFree
	order.PaymentStatus = enums.PaymentStatusPaid
	order.PaidAt = &now

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating order")
	}
	s.incOrder(string(enums.PaymentStatusPaid))
	s.observeDiscount(ctx, order)

	if err := s.carts.Clear(ctx, token); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "order_id", order.ID.String()), "clearing cart after free order failed")
	}

	return &BeginCheckoutResponse{
		OrderID:        order.ID,
		Reference:      *order.PaystackReference,
		PaymentMethod:  order.PaymentMethod,
		Subtotal:       order.Subtotal,
		DiscountAmount: order.DiscountAmount,
		Total:          order.Total,
		Paid:           true,
	}, nil
}

// Verify re-checks a reference against Paystack and settles the order if the
// charge went through. Safe to call repeatedly; only the first success flips
// the order to paid. When the shopper's cart token is supplied the cart is
// emptied once the order settles.
func (s *service) Verify(ctx context.Context, reference, cartToken string) (*VerifyResponse, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a transaction reference is required")
	}

	order, err := s.findOrder(ctx, reference)
	if err != nil {
		return nil, err
	}

	if order.PaymentStatus == enums.PaymentStatusPaid {
		return s.verifyResponse(ctx, order)
	}

	transaction, err := s.gateway.VerifyTransaction(ctx, reference)
	if err != nil {
		return nil, err
	}

	switch {
	case transaction.Succeeded():
		if err := s.settle(ctx, order, transaction); err != nil {
			return nil, err
		}
		if cartToken != "" {
			if err := s.carts.Clear(ctx, cartToken); err != nil {
				s.logg.Warn(s.logg.WithField(ctx, "order_id", order.ID.String()), "clearing cart after payment failed")
			}
		}
	case transaction.Status == paystack.StatusFailed || transaction.Status == paystack.StatusAbandoned:
		if _, err := s.orders.MarkFailed(ctx, order.ID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marking order failed")
		}
		order.PaymentStatus = enums.PaymentStatusFailed
		s.incOrder(string(enums.PaymentStatusFailed))
	}

	return s.verifyResponse(ctx, order)
}

// SettleFromWebhook applies a charge.success event. Other event types are
// acknowledged without action.
func (s *service) SettleFromWebhook(ctx context.Context, event *paystack.Event) error {
	if event == nil || event.Event != paystack.EventChargeSuccess {
		return nil
	}
	if !event.Data.Succeeded() {
		return nil
	}

	order, err := s.findOrder(ctx, event.Data.Reference)
	if err != nil {
		return err
	}
	if order.PaymentStatus == enums.PaymentStatusPaid {
		return nil
	}
	return s.settle(ctx, order, &event.Data)
}

func (s *service) settle(ctx context.Context, order *models.Order, transaction *paystack.Transaction) error {
	expected := int64(order.Total) * centsPerShilling
	if transaction.Amount != expected {
		s.logg.Error(s.logg.WithFields(ctx, map[string]any{
			"order_id":        order.ID.String(),
			"expected_amount": expected,
			"charged_amount":  transaction.Amount,
		}), "gateway amount does not match order total", nil)
		return pkgerrors.New(pkgerrors.CodeConflict, "charged amount does not match order total")
	}

	paidAt := transaction.PaidAt
	if paidAt.IsZero() {
		paidAt = s.now().UTC()
	}
	transitioned, err := s.orders.MarkPaid(ctx, order.ID, paidAt)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marking order paid")
	}
	order.PaymentStatus = enums.PaymentStatusPaid
	order.PaidAt = &paidAt

	if transitioned {
		s.incOrder(string(enums.PaymentStatusPaid))
		s.observeDiscount(ctx, order)
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"order_id":  order.ID.String(),
			"reference": transaction.Reference,
			"channel":   transaction.Channel,
		}), "order settled")
	}
	return nil
}

// downloads lists the purchased files for a paid order. Unpaid orders get
// nothing, regardless of how the caller obtained the reference.
func (s *service) downloads(ctx context.Context, order *models.Order) []DownloadLink {
	if order.PaymentStatus != enums.PaymentStatusPaid {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(order.Items))
	for _, item := range order.Items {
		ids = append(ids, item.EbookID)
	}
	ebooks, err := s.files.FindByIDs(ctx, ids)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "order_id", order.ID.String()), "resolving purchased files failed")
		return nil
	}
	byID := make(map[uuid.UUID]*models.Ebook, len(ebooks))
	for i := range ebooks {
		byID[ebooks[i].ID] = &ebooks[i]
	}

	links := make([]DownloadLink, 0, len(order.Items))
	for _, item := range order.Items {
		ebook, ok := byID[item.EbookID]
		if !ok || ebook.FileURL == nil || *ebook.FileURL == "" {
			s.logg.Warn(s.logg.WithField(ctx, "ebook_id", item.EbookID.String()), "purchased ebook has no file")
			continue
		}
		links = append(links, DownloadLink{
			EbookID: item.EbookID,
			Title:   item.Title,
			URL:     s.downloadURL(ebook),
		})
	}
	return links
}

// downloadURL builds the link for one purchased file. Absolute URLs are
// served as stored; relative paths are rooted at the configured ebook file
// root so the storefront can move files without rewriting the catalog.
func (s *service) downloadURL(ebook *models.Ebook) string {
	raw := strings.TrimSpace(*ebook.FileURL)
	if strings.Contains(raw, "://") || s.filesCfg.EbookRoot == "" {
		return raw
	}
	return strings.TrimRight(s.filesCfg.EbookRoot, "/") + "/" + strings.TrimLeft(raw, "/")
}

// Downloads resolves the file links for a settled order. Unpaid references
// are refused rather than reported missing.
func (s *service) Downloads(ctx context.Context, reference string) ([]DownloadLink, error) {
	order, err := s.findOrder(ctx, strings.TrimSpace(reference))
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus != enums.PaymentStatusPaid {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order has not been paid")
	}
	return s.downloads(ctx, order), nil
}

func (s *service) verifyResponse(ctx context.Context, order *models.Order) (*VerifyResponse, error) {
	response := &VerifyResponse{
		OrderID:       order.ID,
		PaymentStatus: order.PaymentStatus,
		Total:         order.Total,
		Downloads:     s.downloads(ctx, order),
	}
	if order.PaystackReference != nil {
		response.Reference = *order.PaystackReference
	}
	return response, nil
}

func (s *service) findOrder(ctx context.Context, reference string) (*models.Order, error) {
	order, err := s.orders.FindByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading order")
	}
	return order, nil
}

func (s *service) incOrder(status string) {
	if s.checkout != nil {
		s.checkout.IncOrder(status)
	}
}

func (s *service) observeDiscount(ctx context.Context, order *models.Order) {
	if s.checkout == nil || order.AppliedRuleID == nil || order.DiscountAmount <= 0 {
		return
	}
	rule, err := s.rules.FindByID(ctx, *order.AppliedRuleID)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "rule_id", order.AppliedRuleID.String()), "applied rule no longer loadable")
		return
	}
	s.checkout.ObserveDiscount(string(rule.Kind), order.DiscountAmount)
}

func orderItems(lines []cart.Line) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, models.OrderItem{
			ID:        uuid.New(),
			EbookID:   line.EbookID,
			Title:     line.Title,
			UnitPrice: line.UnitPrice,
		})
	}
	return items
}

func newReference() string {
	return "hal_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
