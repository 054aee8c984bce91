package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/retailnet/backend/api/middleware"
	"github.com/retailnet/backend/internal/basket"
	"github.com/retailnet/backend/internal/catalog"
	"github.com/retailnet/backend/internal/ingest"
	"github.com/retailnet/backend/pkg/config"
	"github.com/retailnet/backend/pkg/enums"
	pkgerrors "github.com/retailnet/backend/pkg/errors"
	"github.com/retailnet/backend/pkg/outbox"
	"github.com/retailnet/backend/pkg/types"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (g *gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return g.db.WithContext(ctx).Transaction(fn)
}

// The handlers under test fail before touching storage; an empty database is
// enough to satisfy the service constructors.
func emptyDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	return db
}

func newBasketService(t *testing.T) *basket.Service {
	t.Helper()
	db := emptyDB(t)
	events := outbox.NewService(outbox.NewRepository(db), nil)
	svc, err := basket.NewService(basket.NewRepository(db), &gormTxRunner{db: db}, events, nil)
	require.NoError(t, err)
	return svc
}

func newIngestService(t *testing.T) *ingest.Service {
	t.Helper()
	db := emptyDB(t)
	svc, err := ingest.NewService(catalog.NewRepository(db), &gormTxRunner{db: db}, config.IngestConfig{}, nil)
	require.NoError(t, err)
	return svc
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) types.ErrorEnvelope {
	t.Helper()
	var body types.ErrorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	return body
}

func TestHealthLiveReportsEnv(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "test"}}
	rec := httptest.NewRecorder()
	HealthLive(cfg)(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if got := rec.Header().Get("X-RetailNet-Env"); got != "test" {
		t.Fatalf("unexpected env header %q", got)
	}
}

func TestNilServiceIsInternalError(t *testing.T) {
	handlers := map[string]http.HandlerFunc{
		"register": AccountRegister(nil, nil),
		"basket":   BasketFetch(nil, nil),
		"partner":  PartnerUpdate(nil, nil),
		"contacts": ContactList(nil, nil),
	}
	for name, handler := range handlers {
		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("%s: expected 500 got %d", name, rec.Code)
		}
	}
}

func TestBasketAddRejectsMalformedBody(t *testing.T) {
	handler := BasketAdd(newBasketService(t), nil)

	cases := map[string]string{
		"not json":    "nope",
		"empty items": `{"items":[]}`,
		"zero qty":    `{"items":[{"product_info":1,"quantity":0}]}`,
	}
	for name, payload := range cases {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/basket", strings.NewReader(payload))
		req = req.WithContext(middleware.WithUser(req.Context(), 7, "buyer@example.com", enums.UserTypeBuyer))
		rec := httptest.NewRecorder()
		handler(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400 got %d", name, rec.Code)
		}
		body := decodeError(t, rec)
		if body.Error.Code != string(pkgerrors.CodeValidation) {
			t.Fatalf("%s: unexpected code %s", name, body.Error.Code)
		}
	}
}

func TestPartnerUpdateRejectsEmptyBody(t *testing.T) {
	handler := PartnerUpdate(newIngestService(t), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/partner/update", strings.NewReader(""))
	req = req.WithContext(middleware.WithUser(req.Context(), 3, "shop@example.com", enums.UserTypeShop))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestPartnerUpdateRejectsBadYAML(t *testing.T) {
	handler := PartnerUpdate(newIngestService(t), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/partner/update", strings.NewReader("shop: [unbalanced"))
	req = req.WithContext(middleware.WithUser(req.Context(), 3, "shop@example.com", enums.UserTypeShop))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	body := decodeError(t, rec)
	if body.Error.Code != string(pkgerrors.CodeIngestion) {
		t.Fatalf("unexpected code %s", body.Error.Code)
	}
}

func TestCheckoutRequiresContactID(t *testing.T) {
	handler := BasketCheckout(newBasketService(t), nil)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/basket", strings.NewReader(`{}`))
	req = req.WithContext(middleware.WithUser(req.Context(), 7, "buyer@example.com", enums.UserTypeBuyer))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	body := decodeError(t, rec)
	details, ok := body.Error.Details.(map[string]any)
	if !ok {
		t.Fatalf("expected field details, got %v", body.Error.Details)
	}
	if _, ok := details["contact_id"]; !ok {
		t.Fatalf("expected contact_id detail, got %v", details)
	}
}
