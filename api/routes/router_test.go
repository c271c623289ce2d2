package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	authsvc "github.com/sarthakjns/bazaario-backend/internal/auth"
	checkoutsvc "github.com/sarthakjns/bazaario-backend/internal/checkout"
	couponsvc "github.com/sarthakjns/bazaario-backend/internal/coupons"
	customersvc "github.com/sarthakjns/bazaario-backend/internal/customers"
	integrationsvc "github.com/sarthakjns/bazaario-backend/internal/integrations"
	ordersvc "github.com/sarthakjns/bazaario-backend/internal/orders"
	productsvc "github.com/sarthakjns/bazaario-backend/internal/products"
	shippingsvc "github.com/sarthakjns/bazaario-backend/internal/shipping"
	supportsvc "github.com/sarthakjns/bazaario-backend/internal/support"
	pkgauth "github.com/sarthakjns/bazaario-backend/pkg/auth"
	"github.com/sarthakjns/bazaario-backend/pkg/config"
	"github.com/sarthakjns/bazaario-backend/pkg/db/models"
	"github.com/sarthakjns/bazaario-backend/pkg/enums"
	"github.com/sarthakjns/bazaario-backend/pkg/logger"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubAuthService struct{}

func (stubAuthService) Register(context.Context, authsvc.RegisterInput) (*authsvc.Session, error) {
	panic("unimplemented")
}

func (stubAuthService) Login(context.Context, authsvc.LoginInput) (*authsvc.Session, error) {
	panic("unimplemented")
}

func (stubAuthService) ProfileFor(context.Context, uuid.UUID) (*authsvc.Profile, error) {
	panic("unimplemented")
}

type stubProductService struct{}

func (stubProductService) ListPublic(context.Context, productsvc.ListParams) (*productsvc.Page, error) {
	return &productsvc.Page{Items: []models.Product{}}, nil
}

func (stubProductService) ListAdmin(context.Context, productsvc.ListParams) (*productsvc.Page, error) {
	return &productsvc.Page{Items: []models.Product{}}, nil
}

func (stubProductService) Get(context.Context, uuid.UUID) (*models.Product, error) {
	panic("unimplemented")
}

func (stubProductService) Create(context.Context, productsvc.CreateInput) (*models.Product, error) {
	panic("unimplemented")
}

func (stubProductService) Update(context.Context, uuid.UUID, productsvc.UpdateInput) (*models.Product, error) {
	panic("unimplemented")
}

func (stubProductService) Delete(context.Context, uuid.UUID) error {
	panic("unimplemented")
}

type stubCheckoutService struct{}

func (stubCheckoutService) CreatePaymentIntent(context.Context, checkoutsvc.PaymentIntentInput) (*checkoutsvc.PaymentIntent, error) {
	panic("unimplemented")
}

type stubOrderService struct{}

func (stubOrderService) Place(context.Context, ordersvc.PlaceInput) (*models.Order, error) {
	panic("unimplemented")
}

func (stubOrderService) ListForUser(context.Context, uuid.UUID, ordersvc.ListParams) (*ordersvc.Page, error) {
	return &ordersvc.Page{Items: []models.Order{}}, nil
}

func (stubOrderService) GetForUser(context.Context, uuid.UUID, uuid.UUID) (*models.Order, error) {
	panic("unimplemented")
}

func (stubOrderService) ListAdmin(context.Context, ordersvc.ListParams) (*ordersvc.Page, error) {
	panic("unimplemented")
}

func (stubOrderService) GetAdmin(context.Context, uuid.UUID) (*models.Order, error) {
	panic("unimplemented")
}

func (stubOrderService) UpdateStatus(context.Context, uuid.UUID, ordersvc.StatusUpdateInput) (*models.Order, error) {
	panic("unimplemented")
}

func (stubOrderService) MarkPaidByGatewayOrder(context.Context, string, string) error {
	panic("unimplemented")
}

func (stubOrderService) MarkFailedByGatewayOrder(context.Context, string) error {
	panic("unimplemented")
}

type stubFeedService struct{}

func (stubFeedService) RecordPurchase(context.Context, string, string) {}

func (stubFeedService) Recent(context.Context, int) ([]models.ActivityEvent, error) {
	return []models.ActivityEvent{}, nil
}

type stubSupportService struct{}

func (stubSupportService) Create(context.Context, supportsvc.Actor, supportsvc.CreateInput) (*models.SupportTicket, error) {
	panic("unimplemented")
}

func (stubSupportService) ListForUser(context.Context, uuid.UUID) ([]models.SupportTicket, error) {
	return []models.SupportTicket{}, nil
}

func (stubSupportService) ListAll(context.Context) ([]models.SupportTicket, error) {
	panic("unimplemented")
}

func (stubSupportService) Get(context.Context, supportsvc.Actor, uuid.UUID) (*models.SupportTicket, error) {
	panic("unimplemented")
}

func (stubSupportService) Reply(context.Context, supportsvc.Actor, uuid.UUID, supportsvc.ReplyInput) (*models.SupportTicket, error) {
	panic("unimplemented")
}

func (stubSupportService) Close(context.Context, supportsvc.Actor, uuid.UUID) (*models.SupportTicket, error) {
	panic("unimplemented")
}

type stubCouponService struct{}

func (stubCouponService) List(context.Context) ([]models.Coupon, error) {
	panic("unimplemented")
}

func (stubCouponService) Create(context.Context, couponsvc.CreateInput) (*models.Coupon, error) {
	panic("unimplemented")
}

func (stubCouponService) Update(context.Context, uuid.UUID, couponsvc.UpdateInput) (*models.Coupon, error) {
	panic("unimplemented")
}

func (stubCouponService) Delete(context.Context, uuid.UUID) error {
	panic("unimplemented")
}

func (stubCouponService) Apply(context.Context, string, int) (*couponsvc.Applied, error) {
	panic("unimplemented")
}

type stubShippingService struct{}

func (stubShippingService) Rule(context.Context) (*models.ShippingRule, error) {
	panic("unimplemented")
}

func (stubShippingService) Update(context.Context, shippingsvc.UpdateInput) (*models.ShippingRule, error) {
	panic("unimplemented")
}

func (stubShippingService) ChargeFor(context.Context, int) (int, error) {
	panic("unimplemented")
}

type stubCustomerService struct{}

func (stubCustomerService) List(context.Context, customersvc.ListParams) (*customersvc.Page, error) {
	panic("unimplemented")
}

func (stubCustomerService) SetBlocked(context.Context, uuid.UUID, bool) error {
	panic("unimplemented")
}

type stubIntegrationService struct{}

func (stubIntegrationService) List(context.Context) ([]integrationsvc.Integration, error) {
	panic("unimplemented")
}

func (stubIntegrationService) Update(context.Context, string, integrationsvc.UpdateInput) (*integrationsvc.Integration, error) {
	panic("unimplemented")
}

type stubWebhookService struct{}

func (stubWebhookService) HandleEvent(context.Context, []byte, string, string) error {
	panic("unimplemented")
}

func testRouterConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "8080"},
		JWT: config.JWTConfig{Secret: "secret", Issuer: "bazaario", ExpirationMinutes: 60},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	return NewRouter(Deps{
		Config: cfg,
		Logger: logger.NewNop(),
		DB:     stubPinger{},

		Auth:         stubAuthService{},
		Products:     stubProductService{},
		Checkout:     stubCheckoutService{},
		Orders:       stubOrderService{},
		Feed:         stubFeedService{},
		Support:      stubSupportService{},
		Coupons:      stubCouponService{},
		Shipping:     stubShippingService{},
		Customers:    stubCustomerService{},
		Integrations: stubIntegrationService{},
		Webhook:      stubWebhookService{},
	})
}

func mintRouterToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()

	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now().UTC(), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLiveAlwaysSucceeds(t *testing.T) {
	router := newTestRouter(testRouterConfig())

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestPublicCatalogNeedsNoToken(t *testing.T) {
	router := newTestRouter(testRouterConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Success bool `json:"success"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if !envelope.Success {
		t.Fatalf("expected success envelope, got %s", rec.Body.String())
	}
}

func TestCustomerGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testRouterConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCustomerGroupAcceptsValidJWT(t *testing.T) {
	cfg := testRouterConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer "+mintRouterToken(t, cfg, enums.UserRoleCustomer))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAdminGroupRequiresAdminRole(t *testing.T) {
	cfg := testRouterConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/products", nil)
	req.Header.Set("Authorization", "Bearer "+mintRouterToken(t, cfg, enums.UserRoleCustomer))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer, got %d: %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/admin/v1/products", nil)
	req.Header.Set("Authorization", "Bearer "+mintRouterToken(t, cfg, enums.UserRoleAdmin))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestLoginRejectsMalformedJSON(t *testing.T) {
	router := newTestRouter(testRouterConfig())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}
