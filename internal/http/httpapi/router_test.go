package httpapi

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"retrobooth/internal/http/handlers"
	"retrobooth/internal/session"
)

func TestRouterHealthAndMiddleware(t *testing.T) {
	logger := zerolog.New(io.Discard)
	app := handlers.NewApp(session.New(nil, 2, logger), logger)
	router := NewRouter(app, logger, []string{"http://localhost:5173"})

	req := httptest.NewRequest("GET", "/v1/healthz", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != 200 {
		t.Fatalf("unexpected status code: got %d, want 200", rr.Code)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Fatal("request id middleware not wired")
	}
	if rr.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Fatal("cors middleware not wired")
	}
}

func TestRouterPreflight(t *testing.T) {
	logger := zerolog.New(io.Discard)
	app := handlers.NewApp(session.New(nil, 2, logger), logger)
	router := NewRouter(app, logger, []string{"http://localhost:5173"})

	req := httptest.NewRequest("OPTIONS", "/v1/booth/batch", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != 204 {
		t.Fatalf("unexpected status code: got %d, want 204", rr.Code)
	}
}
