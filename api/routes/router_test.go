package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	authsvc "github.com/halisidigital/halisi-backend/internal/auth"
	cartsvc "github.com/halisidigital/halisi-backend/internal/cart"
	catalogsvc "github.com/halisidigital/halisi-backend/internal/catalog"
	checkoutsvc "github.com/halisidigital/halisi-backend/internal/checkout"
	discountsvc "github.com/halisidigital/halisi-backend/internal/discounts"
	newslettersvc "github.com/halisidigital/halisi-backend/internal/newsletter"
	ordersvc "github.com/halisidigital/halisi-backend/internal/orders"
	"github.com/halisidigital/halisi-backend/internal/pricing"
	pkgAuth "github.com/halisidigital/halisi-backend/pkg/auth"
	"github.com/halisidigital/halisi-backend/pkg/config"
	"github.com/halisidigital/halisi-backend/pkg/db/models"
	"github.com/halisidigital/halisi-backend/pkg/enums"
	"github.com/halisidigital/halisi-backend/pkg/logger"
	"github.com/halisidigital/halisi-backend/pkg/paystack"
)

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, req authsvc.LoginRequest, clientIP string) (*authsvc.LoginResponse, error) {
	return &authsvc.LoginResponse{AccessToken: "stub-token", ExpiresIn: 3600}, nil
}

type stubCatalogService struct{}

func (stubCatalogService) List(ctx context.Context, filters catalogsvc.ListFilters) (*catalogsvc.EbookPageDTO, error) {
	return &catalogsvc.EbookPageDTO{}, nil
}

func (stubCatalogService) Get(ctx context.Context, id uuid.UUID) (*catalogsvc.EbookDTO, error) {
	return &catalogsvc.EbookDTO{ID: id, Title: "Pilau Masterclass"}, nil
}

// FindByID implements [catalogsvc.Service].
func (stubCatalogService) FindByID(ctx context.Context, id uuid.UUID) (*models.Ebook, error) {
	panic("unimplemented")
}

// FindByIDs implements [catalogsvc.Service].
func (stubCatalogService) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Ebook, error) {
	panic("unimplemented")
}

func (stubCatalogService) Create(ctx context.Context, input catalogsvc.CreateEbookInput) (*catalogsvc.EbookDTO, error) {
	return &catalogsvc.EbookDTO{ID: uuid.New(), Title: input.Title}, nil
}

func (stubCatalogService) Update(ctx context.Context, id uuid.UUID, input catalogsvc.UpdateEbookInput) (*catalogsvc.EbookDTO, error) {
	return &catalogsvc.EbookDTO{ID: id}, nil
}

func (stubCatalogService) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

type stubCartService struct{}

func (stubCartService) Add(ctx context.Context, token string, ebookID uuid.UUID) ([]cartsvc.Line, error) {
	panic("unimplemented")
}

func (stubCartService) Remove(ctx context.Context, token string, ebookID uuid.UUID) ([]cartsvc.Line, error) {
	panic("unimplemented")
}

func (stubCartService) List(ctx context.Context, token string) ([]cartsvc.Line, error) {
	return nil, nil
}

func (stubCartService) Clear(ctx context.Context, token string) error {
	return nil
}

func (stubCartService) Quote(ctx context.Context, token string) (*cartsvc.QuoteResult, error) {
	return &cartsvc.QuoteResult{Quote: pricing.Quote{}}, nil
}

type stubDiscountService struct{}

func (stubDiscountService) List(ctx context.Context) ([]discountsvc.RuleDTO, error) {
	return nil, nil
}

func (stubDiscountService) Get(ctx context.Context, id uuid.UUID) (*discountsvc.RuleDTO, error) {
	return &discountsvc.RuleDTO{
		ID:    id,
		Name:  "Karibu 10% Off",
		Kind:  enums.DiscountKindPercentageOff,
		Value: 10,
	}, nil
}

func (stubDiscountService) Create(ctx context.Context, input discountsvc.CreateRuleInput) (*discountsvc.RuleDTO, error) {
	panic("unimplemented")
}

func (stubDiscountService) Update(ctx context.Context, id uuid.UUID, input discountsvc.UpdateRuleInput) (*discountsvc.RuleDTO, error) {
	panic("unimplemented")
}

func (stubDiscountService) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (stubDiscountService) ActiveRules(ctx context.Context) ([]pricing.Rule, error) {
	return nil, nil
}

type stubNewsletterService struct{}

func (stubNewsletterService) Subscribe(ctx context.Context, email string) (*newslettersvc.SubscriberDTO, bool, error) {
	return &newslettersvc.SubscriberDTO{ID: uuid.New(), Email: email}, false, nil
}

func (stubNewsletterService) List(ctx context.Context) ([]newslettersvc.SubscriberDTO, error) {
	return nil, nil
}

func (stubNewsletterService) Remove(ctx context.Context, id uuid.UUID) error {
	return nil
}

type stubOrdersService struct{}

func (stubOrdersService) List(ctx context.Context, filters ordersvc.ListFilters) (*ordersvc.OrderPageDTO, error) {
	return &ordersvc.OrderPageDTO{}, nil
}

func (stubOrdersService) Get(ctx context.Context, id uuid.UUID) (*ordersvc.OrderDTO, error) {
	return &ordersvc.OrderDTO{ID: id}, nil
}

type stubCheckoutService struct{}

// Begin implements [checkoutsvc.Service].
func (stubCheckoutService) Begin(ctx context.Context, token string, req checkoutsvc.BeginCheckoutRequest) (*checkoutsvc.BeginCheckoutResponse, error) {
	panic("unimplemented")
}

func (stubCheckoutService) Verify(ctx context.Context, reference, cartToken string) (*checkoutsvc.VerifyResponse, error) {
	return &checkoutsvc.VerifyResponse{Reference: reference, PaymentStatus: enums.PaymentStatusPaid}, nil
}

// SettleFromWebhook implements [checkoutsvc.Service].
func (stubCheckoutService) SettleFromWebhook(ctx context.Context, event *paystack.Event) error {
	panic("unimplemented")
}

func (stubCheckoutService) Downloads(ctx context.Context, reference string) ([]checkoutsvc.DownloadLink, error) {
	return nil, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(Deps{
		Config:      cfg,
		Logger:      logg,
		AuthService: stubAuthService{},
		Catalog:     stubCatalogService{},
		Cart:        stubCartService{},
		Discounts:   stubDiscountService{},
		Newsletter:  stubNewsletterService{},
		Orders:      stubOrdersService{},
		Checkout:    stubCheckoutService{},
	})
}

func buildToken(t *testing.T, cfg *config.Config, role enums.MemberRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Email:  "staff@halisi.co.ke",
		Role:   role,
		JTI:    uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLiveReportsEnvironment(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if got := resp.Header().Get("X-Halisi-Env"); got != "test" {
		t.Fatalf("expected env header test got %q", got)
	}
}

func TestStorefrontMintsCartToken(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ebooks", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	token := resp.Header().Get("X-Cart-Token")
	if token == "" {
		t.Fatal("expected a minted cart token header")
	}
	if err := uuid.Validate(token); err != nil {
		t.Fatalf("expected uuid cart token got %q", token)
	}
}

func TestStorefrontEchoesExistingCartToken(t *testing.T) {
	router := newTestRouter(testConfig())
	token := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("X-Cart-Token", token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if got := resp.Header().Get("X-Cart-Token"); got != token {
		t.Fatalf("expected token %q echoed got %q", token, got)
	}
}

func TestAdminGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestAdminGroupRequiresStaffRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	outsider := httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders", nil)
	outsider.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.MemberRole("customer")))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, outsider)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-staff got %d", resp.Code)
	}

	editor := httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders", nil)
	editor.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.MemberRoleEditor))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, editor)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for editor got %d", resp.Code)
	}
}

func TestAdminCanFetchSingleDiscountRule(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/discounts/"+uuid.NewString(), nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.MemberRoleAdmin))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 fetching rule got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "Karibu 10% Off") {
		t.Fatalf("expected rule payload in response body, got %s", resp.Body.String())
	}
}

func TestEbookDeleteRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	target := "/api/admin/v1/ebooks/" + uuid.NewString()

	editor := httptest.NewRequest(http.MethodDelete, target, nil)
	editor.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.MemberRoleEditor))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, editor)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for editor delete got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodDelete, target, nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.MemberRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin delete got %d", resp.Code)
	}
}

func TestAdminLoginRejectsBadJSON(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/auth/login", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid payload got %d", resp.Code)
	}
}

func TestVerifyRouteIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/checkout/verify/hal_abc123", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for verify got %d", resp.Code)
	}
}

func TestNewsletterSubscribeIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	body := `{"email":"wanjiku@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/newsletter", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 for new subscriber got %d", resp.Code)
	}
}
