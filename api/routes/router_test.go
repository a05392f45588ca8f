package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/farmtotable/farmtotable-backend/internal/auth"
	"github.com/farmtotable/farmtotable-backend/internal/invoice"
	"github.com/farmtotable/farmtotable-backend/internal/messages"
	"github.com/farmtotable/farmtotable-backend/internal/products"
	"github.com/farmtotable/farmtotable-backend/internal/users"
	pkgAuth "github.com/farmtotable/farmtotable-backend/pkg/auth"
	"github.com/farmtotable/farmtotable-backend/pkg/config"
	"github.com/farmtotable/farmtotable-backend/pkg/enums"
	"github.com/farmtotable/farmtotable-backend/pkg/logger"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubAuthService struct{}

func (stubAuthService) Register(ctx context.Context, req auth.RegisterRequest) (*auth.RegisterResult, error) {
	return &auth.RegisterResult{}, nil
}

func (stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResult, error) {
	return &auth.LoginResult{Token: "stub"}, nil
}

func (stubAuthService) Lookup(ctx context.Context, id uuid.UUID) (*users.UserDTO, error) {
	return &users.UserDTO{ID: id}, nil
}

type stubMessageService struct{}

func (stubMessageService) Send(ctx context.Context, senderID uuid.UUID, req messages.SendRequest) (*messages.MessageDTO, error) {
	return &messages.MessageDTO{}, nil
}

func (stubMessageService) ListConversations(ctx context.Context, userID uuid.UUID) ([]messages.ConversationDTO, error) {
	return []messages.ConversationDTO{}, nil
}

func (stubMessageService) GetTranscript(ctx context.Context, userID, counterpartID uuid.UUID) ([]messages.MessageDTO, error) {
	return []messages.MessageDTO{}, nil
}

func (stubMessageService) MarkRead(ctx context.Context, userID, counterpartID uuid.UUID) (*messages.MarkReadResult, error) {
	return &messages.MarkReadResult{}, nil
}

func (stubMessageService) ListUsers(ctx context.Context, userID uuid.UUID) ([]users.UserDTO, error) {
	return []users.UserDTO{}, nil
}

type stubProductService struct{}

func (stubProductService) Create(ctx context.Context, input products.ProductInput, image *products.Upload) (*products.ProductDTO, error) {
	return &products.ProductDTO{}, nil
}

func (stubProductService) Update(ctx context.Context, id uuid.UUID, input products.ProductInput, image *products.Upload) (*products.ProductDTO, error) {
	return &products.ProductDTO{}, nil
}

func (stubProductService) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (stubProductService) Get(ctx context.Context, id uuid.UUID) (*products.ProductDTO, error) {
	return &products.ProductDTO{}, nil
}

func (stubProductService) List(ctx context.Context, categoryFilter string) ([]products.ProductDTO, error) {
	return []products.ProductDTO{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "8080"},
		JWT: config.JWTConfig{Secret: "test-secret", Issuer: "farmtotable", ExpirationMinutes: 60},
	}
}

func newTestRouter() http.Handler {
	return NewRouter(RouterParams{
		Config:      testConfig(),
		Logger:      logger.New(logger.Options{ServiceName: "router-test", Output: io.Discard}),
		DB:          stubPinger{},
		AuthService: stubAuthService{},
		Messages:    stubMessageService{},
		Products:    stubProductService{},
		Invoices:    invoice.NewAssembler(),
	})
}

func mintToken(t *testing.T, role enums.UserRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(testConfig().JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestRouterHealthLive(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRouterMetricsExposed(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRouterMessagesRequireAuth(t *testing.T) {
	router := newTestRouter()

	for _, path := range []string{
		"/api/messages",
		"/api/messages/users",
		"/api/messages/conversation/" + uuid.NewString(),
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 for %s, got %d", path, rec.Code)
		}
	}
}

func TestRouterMessagesWithToken(t *testing.T) {
	router := newTestRouter()
	token := mintToken(t, enums.UserRoleCustomer)

	req := httptest.NewRequest(http.MethodGet, "/api/messages", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRouterProductReadsArePublic(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRouterProductMutationsRequireAdmin(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodDelete, "/api/products/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	customer := mintToken(t, enums.UserRoleCustomer)
	req = httptest.NewRequest(http.MethodDelete, "/api/products/"+uuid.NewString(), nil)
	req.Header.Set("Authorization", "Bearer "+customer)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer, got %d", rec.Code)
	}

	admin := mintToken(t, enums.UserRoleAdmin)
	req = httptest.NewRequest(http.MethodDelete, "/api/products/"+uuid.NewString(), nil)
	req.Header.Set("Authorization", "Bearer "+admin)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", rec.Code)
	}
}
