package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/cinefav/internal/models"
	"github.com/desertthunder/cinefav/internal/shared"
	tu "github.com/desertthunder/cinefav/internal/testing"
	"github.com/desertthunder/cinefav/internal/web"
)

func newTestRouter(t *testing.T, store SharedListGetter) (*BasicRouter, *bytes.Buffer) {
	t.Helper()

	renderer, err := web.NewRenderer(func(p *string) string { return "poster" })
	if err != nil {
		t.Fatalf("NewRenderer failed: %v", err)
	}

	var logs bytes.Buffer
	logger := log.New(&logs)
	return NewShareRouter(NewSharedListHandler(store, renderer, logger, time.Second), logger), &logs
}

func TestSharedListHandler(t *testing.T) {
	store := tu.NewMockListStore(tu.List("L1", "Terror", tu.Movie(1, "Alien"), tu.Movie(2, "The Thing")))
	router, logs := newTestRouter(t, store)

	t.Run("renders HTML", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/shared/L1", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
			t.Errorf("unexpected content type %q", ct)
		}
		body := rec.Body.String()
		if !strings.Contains(body, "<h1>Terror</h1>") || !strings.Contains(body, "The Thing") {
			t.Errorf("unexpected body: %s", body)
		}
		if rec.Header().Get("X-Request-ID") == "" {
			t.Error("expected request id header")
		}
	})

	t.Run("trailing slash", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/shared/L1/", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("JSON via query", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/shared/L1?format=json", nil))

		var list models.FavoriteList
		if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if list.ID != "L1" || len(list.Movies) != 2 {
			t.Errorf("unexpected list %+v", list)
		}
	})

	t.Run("JSON via Accept", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/shared/L1", nil)
		req.Header.Set("Accept", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected JSON, got %q", ct)
		}
	})

	t.Run("not found", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/shared/missing", nil))

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "That list no longer exists.") {
			t.Errorf("unexpected body: %s", rec.Body.String())
		}
	})

	t.Run("not found JSON", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/shared/missing?format=json", nil))

		var body map[string]string
		json.Unmarshal(rec.Body.Bytes(), &body)
		if rec.Code != http.StatusNotFound || body["error"] == "" {
			t.Errorf("unexpected response %d %v", rec.Code, body)
		}
	})

	t.Run("method not allowed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/shared/L1", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
	})

	t.Run("logs requests", func(t *testing.T) {
		if !strings.Contains(logs.String(), "path=/shared/L1") {
			t.Errorf("expected request log, got: %s", logs.String())
		}
	})
}

func TestSharedListHandler_UpstreamErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"network", fmt.Errorf("%w: refused", shared.ErrNetwork), http.StatusBadGateway},
		{"unavailable", fmt.Errorf("%w: %w", shared.ErrServiceUnavailable, &shared.APIError{StatusCode: 503}), http.StatusServiceUnavailable},
		{"timeout", fmt.Errorf("%w: %w", shared.ErrNetwork, context.DeadlineExceeded), http.StatusGatewayTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := tu.NewMockListStore()
			store.SharedErr = tt.err
			router, _ := newTestRouter(t, store)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/shared/L1", nil))
			if rec.Code != tt.status {
				t.Errorf("expected %d, got %d", tt.status, rec.Code)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter(t, tu.NewMockListStore())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("unexpected health response %d %s", rec.Code, rec.Body.String())
	}
}

func TestMiddleware(t *testing.T) {
	t.Run("order", func(t *testing.T) {
		var order []string
		mark := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		router := NewBasicRouter()
		router.Use(mark("first"), mark("second"))
		router.Handle(http.MethodGet, "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		if strings.Join(order, ",") != "first,second" {
			t.Errorf("unexpected order %v", order)
		}
	})

	t.Run("recover", func(t *testing.T) {
		router := NewBasicRouter()
		router.Use(Recover(log.New(io.Discard)))
		router.Handle(http.MethodGet, "/boom", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		}))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}
	})

	t.Run("wraps unmatched methods", func(t *testing.T) {
		var seen int
		router := NewBasicRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen++
				next.ServeHTTP(w, r)
			})
		})
		router.Handle(http.MethodGet, "/only-get", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/only-get", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
		if seen != 1 {
			t.Errorf("expected middleware to run once, ran %d times", seen)
		}
	})

	t.Run("request id passthrough", func(t *testing.T) {
		router := NewBasicRouter()
		router.Use(RequestID())
		router.Handle(http.MethodGet, "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "abc")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Header().Get("X-Request-ID") != "abc" {
			t.Errorf("expected passthrough id, got %q", rec.Header().Get("X-Request-ID"))
		}
	})
}

func TestListenAndServe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- ListenAndServe(ctx, "127.0.0.1:0", HealthHandler(), log.New(io.Discard))
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	case <-time.After(6 * time.Second):
		t.Fatal("server did not shut down")
	}
}
