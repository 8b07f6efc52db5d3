package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/agentmart/agentmart-backend/internal/agents"
	internalauth "github.com/agentmart/agentmart-backend/internal/auth"
	"github.com/agentmart/agentmart-backend/internal/categories"
	"github.com/agentmart/agentmart-backend/internal/purchases"
	"github.com/agentmart/agentmart-backend/internal/reviews"
	"github.com/agentmart/agentmart-backend/internal/sellers"
	"github.com/agentmart/agentmart-backend/internal/subscriptions"
	"github.com/agentmart/agentmart-backend/internal/support"
	"github.com/agentmart/agentmart-backend/internal/users"
	pkgauth "github.com/agentmart/agentmart-backend/pkg/auth"
	"github.com/agentmart/agentmart-backend/pkg/auth/session"
	"github.com/agentmart/agentmart-backend/pkg/config"
	"github.com/agentmart/agentmart-backend/pkg/enums"
	pkgerrors "github.com/agentmart/agentmart-backend/pkg/errors"
	"github.com/agentmart/agentmart-backend/pkg/logger"
	"github.com/agentmart/agentmart-backend/pkg/metrics"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessionManager struct{}

func (stubSessionManager) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubAuthService struct{}

func (stubAuthService) Register(ctx context.Context, input internalauth.RegisterInput) (*internalauth.Session, error) {
	return nil, pkgerrors.New(pkgerrors.CodeValidation, "not under test")
}

func (stubAuthService) Login(ctx context.Context, input internalauth.LoginInput) (*internalauth.Session, error) {
	return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "not under test")
}

func (stubAuthService) Refresh(ctx context.Context, userID uuid.UUID, accessID, refreshToken string) (*internalauth.Session, error) {
	return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "not under test")
}

func (stubAuthService) Logout(ctx context.Context, accessID string) error {
	return nil
}

func (stubAuthService) IssueAuthCode(ctx context.Context, userID uuid.UUID) (string, error) {
	return "", nil
}

func (stubAuthService) ExchangeCode(ctx context.Context, code string) (*internalauth.Session, error) {
	return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "not under test")
}

func (stubAuthService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	return "", nil
}

func (stubAuthService) CompletePasswordReset(ctx context.Context, token, newPassword string) error {
	return nil
}

type stubUsersService struct{}

func (stubUsersService) Get(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	panic("unimplemented")
}

func (stubUsersService) RoleFor(ctx context.Context, userID uuid.UUID) (enums.UserRole, error) {
	return enums.UserRoleBuyer, nil
}

type stubCategoriesService struct{}

func (stubCategoriesService) List(ctx context.Context) ([]categories.CategoryDTO, error) {
	return []categories.CategoryDTO{}, nil
}

type stubAgentsService struct{}

func (stubAgentsService) CreateDraft(ctx context.Context, sellerID uuid.UUID, input agents.CreateAgentInput) (*agents.AgentDTO, error) {
	return &agents.AgentDTO{Slug: "stub"}, nil
}

func (stubAgentsService) Submit(ctx context.Context, sellerID uuid.UUID, slug string) (*agents.AgentDTO, error) {
	panic("unimplemented")
}

func (stubAgentsService) Decide(ctx context.Context, adminID uuid.UUID, slug, action string, note *string) (*agents.AgentDTO, error) {
	return &agents.AgentDTO{Slug: slug}, nil
}

func (stubAgentsService) GetBySlug(ctx context.Context, slug string, viewer *agents.Viewer) (*agents.AgentDTO, error) {
	panic("unimplemented")
}

func (stubAgentsService) List(ctx context.Context, params agents.ListParams) (*agents.ListResult, error) {
	return &agents.ListResult{Items: []agents.AgentDTO{}}, nil
}

type stubPurchasesService struct{}

func (stubPurchasesService) Purchase(ctx context.Context, userID uuid.UUID, agentSlug string) (*purchases.PurchaseDTO, error) {
	panic("unimplemented")
}

func (stubPurchasesService) ListForUser(ctx context.Context, userID uuid.UUID) ([]purchases.PurchaseDTO, error) {
	return []purchases.PurchaseDTO{}, nil
}

func (stubPurchasesService) HasPurchased(ctx context.Context, userID, agentID uuid.UUID) (bool, error) {
	return false, nil
}

type stubReviewsService struct{}

func (stubReviewsService) Create(ctx context.Context, userID uuid.UUID, input reviews.CreateReviewInput) (*reviews.ReviewDTO, error) {
	panic("unimplemented")
}

func (stubReviewsService) ListForAgent(ctx context.Context, agentSlug string) ([]reviews.ReviewDTO, error) {
	return []reviews.ReviewDTO{}, nil
}

type stubSellersService struct{}

func (stubSellersService) BecomeSeller(ctx context.Context, userID uuid.UUID, input sellers.BecomeSellerInput) (*sellers.SellerDTO, error) {
	panic("unimplemented")
}

func (stubSellersService) GetByUserID(ctx context.Context, userID uuid.UUID) (*sellers.SellerDTO, error) {
	panic("unimplemented")
}

type stubSupportService struct{}

func (stubSupportService) Open(ctx context.Context, userID uuid.UUID, input support.CreateRequestInput) (*support.RequestDTO, error) {
	panic("unimplemented")
}

func (stubSupportService) ListForUser(ctx context.Context, userID uuid.UUID) ([]support.RequestDTO, error) {
	return []support.RequestDTO{}, nil
}

type stubSubscriptionResolver struct{}

func (stubSubscriptionResolver) Resolve(ctx context.Context, userID uuid.UUID) (*subscriptions.State, error) {
	return &subscriptions.State{Status: "none"}, nil
}

func routerTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: config.AppEnvDev, Port: "0"},
		JWT: config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 60},
		Pages: config.PagesConfig{
			SessionCookie:  "agentmart_session",
			DefaultNextURL: "/dashboard",
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(RouterParams{
		Config:        cfg,
		Logger:        logg,
		Metrics:       metrics.NewHTTPMetrics(prometheus.NewRegistry()),
		DBPinger:      stubPinger{},
		RedisPinger:   stubPinger{},
		Sessions:      stubSessionManager{},
		Auth:          stubAuthService{},
		Users:         stubUsersService{},
		Categories:    stubCategoriesService{},
		Agents:        stubAgentsService{},
		Purchases:     stubPurchasesService{},
		Reviews:       stubReviewsService{},
		Sellers:       stubSellersService{},
		Support:       stubSupportService{},
		Subscriptions: stubSubscriptionResolver{},
	})
}

func mintRouterToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
		JTI:    session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLiveIsPublic(t *testing.T) {
	router := newTestRouter(routerTestConfig())

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}

func TestCatalogIsPublic(t *testing.T) {
	router := newTestRouter(routerTestConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/agents", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}

func TestPrivateGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(routerTestConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/purchases", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestPrivateGroupSucceedsWithJWT(t *testing.T) {
	cfg := routerTestConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/purchases", nil)
	req.Header.Set("Authorization", "Bearer "+mintRouterToken(t, cfg, enums.UserRoleBuyer))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}

func TestAgentCreateRequiresSellerRole(t *testing.T) {
	cfg := routerTestConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodPost, "/api/agents", nil)
	req.Header.Set("Authorization", "Bearer "+mintRouterToken(t, cfg, enums.UserRoleBuyer))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", rec.Code)
	}
}

func TestAdminGroupRequiresAdminRole(t *testing.T) {
	cfg := routerTestConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/agents/some-agent/decision", nil)
	req.Header.Set("Authorization", "Bearer "+mintRouterToken(t, cfg, enums.UserRoleSeller))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", rec.Code)
	}
}

func TestMetricsEndpointExposed(t *testing.T) {
	router := newTestRouter(routerTestConfig())

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}
