package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/martijn/clientbook/internal/api/middleware"
	"github.com/martijn/clientbook/internal/core/service"
	"github.com/martijn/clientbook/internal/infrastructure/sqldb"
	"github.com/martijn/clientbook/internal/logging"
	"github.com/martijn/clientbook/pkg/config"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(ctx context.Context) error { return p.err }

func newTestServer(t *testing.T, store Pinger) *Server {
	t.Helper()

	db, err := sqldb.New(sqldb.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.InitializeSchema(context.Background()); err != nil {
		t.Fatalf("failed to initialize schema: %v", err)
	}
	if store == nil {
		store = db
	}

	cfg := &config.Config{APIHost: "127.0.0.1", APIPort: 8336}
	svc := service.NewClientService(sqldb.NewClientPhoneRepository(db), logging.Discard())
	return NewServer(cfg, svc, store, logging.Discard())
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	w := serve(newTestServer(t, nil), httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	w = serve(newTestServer(t, stubPinger{err: errors.New("down")}), httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503 when the store is down, got %d", w.Code)
	}
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer(t, nil)

	w := serve(s, httptest.NewRequest(http.MethodGet, "/clients", nil))
	if _, err := uuid.Parse(w.Header().Get(middleware.RequestIDHeader)); err != nil {
		t.Errorf("expected a generated request id, got %q", w.Header().Get(middleware.RequestIDHeader))
	}

	id := uuid.New().String()
	req := httptest.NewRequest(http.MethodGet, "/clients", nil)
	req.Header.Set(middleware.RequestIDHeader, id)
	w = serve(s, req)
	if got := w.Header().Get(middleware.RequestIDHeader); got != id {
		t.Errorf("expected request id %s to be echoed, got %s", id, got)
	}
}

func TestSwaggerDocServed(t *testing.T) {
	w := serve(newTestServer(t, nil), httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/clients", nil)
	req.Header.Set("Origin", "https://app.local")

	w := serve(newTestServer(t, nil), req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://app.local" {
		t.Errorf("expected origin to be allowed, got %q", got)
	}
}
