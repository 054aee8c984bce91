package routes

import (
	"context"
	"github.com/rs/zerolog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pkgauth "github.com/retailnet/backend/pkg/auth"
	"github.com/retailnet/backend/pkg/config"
	"github.com/retailnet/backend/pkg/enums"
	"github.com/retailnet/backend/pkg/logger"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "8080"},
		JWT: config.JWTConfig{Secret: "secret", Issuer: "retailnet", ExpirationMinutes: 30},
	}
}

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "router-test", Level: zerolog.ErrorLevel})
	return NewRouter(testConfig(), logg, stubPinger{}, nil, nil, nil, nil, nil)
}

func mintToken(t *testing.T, userType enums.UserType) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(testConfig().JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID:   1,
		Email:    "user@example.com",
		UserType: userType,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLive(t *testing.T) {
	r := testRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r := testRouter(t)
	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/basket/"},
		{http.MethodGet, "/api/v1/orders"},
		{http.MethodGet, "/api/v1/user/contact/"},
		{http.MethodPost, "/api/v1/partner/update"},
	}
	for _, p := range paths {
		req := httptest.NewRequest(p.method, p.path, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401 got %d", p.method, p.path, rec.Code)
		}
	}
}

func TestPartnerRoutesRejectBuyers(t *testing.T) {
	r := testRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/partner/update", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, enums.UserTypeBuyer))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", rec.Code)
	}
}

func TestUnknownRouteIs404(t *testing.T) {
	r := testRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}
