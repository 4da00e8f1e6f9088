package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/desertthunder/moodtunes/internal/shared"
)

// fakeExchanger scripts the callback outcome.
type fakeExchanger struct {
	ok       bool
	err      error
	gotQuery url.Values
}

func (f *fakeExchanger) HandleCallback(ctx context.Context, query url.Values) (bool, error) {
	f.gotQuery = query
	return f.ok, f.err
}

func TestCallbackHandler(t *testing.T) {
	t.Run("successful callback", func(t *testing.T) {
		exchanger := &fakeExchanger{ok: true}
		handler := NewCallbackHandler(exchanger)

		req := httptest.NewRequest(http.MethodGet, "/callback?code=abc123&state=s1", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Authorization Successful") {
			t.Error("expected success page")
		}
		if exchanger.gotQuery.Get("code") != "abc123" {
			t.Errorf("expected query forwarded, got %v", exchanger.gotQuery)
		}

		result := <-handler.Result()
		if !result.Authenticated || result.Error() != nil {
			t.Errorf("unexpected result %+v", result)
		}
	})

	t.Run("exchange failure renders error page", func(t *testing.T) {
		exchanger := &fakeExchanger{err: errors.New("invalid grant")}
		handler := NewCallbackHandler(exchanger)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?code=x", nil))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Authorization Failed") {
			t.Error("expected failure page")
		}

		result := <-handler.Result()
		if result.Error() == nil {
			t.Error("expected error in result")
		}
	})

	t.Run("non-callback query reports auth failure", func(t *testing.T) {
		handler := NewCallbackHandler(&fakeExchanger{ok: false})

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback", nil))

		result := <-handler.Result()
		if !errors.Is(result.Error(), shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", result.Error())
		}
	})

	t.Run("second callback rejected", func(t *testing.T) {
		handler := NewCallbackHandler(&fakeExchanger{ok: true})

		first := httptest.NewRecorder()
		handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/callback?code=a", nil))

		second := httptest.NewRecorder()
		handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/callback?code=b", nil))

		if second.Code != http.StatusBadRequest {
			t.Errorf("expected replay to be rejected, got %d", second.Code)
		}
	})
}

func TestBasicRouter(t *testing.T) {
	t.Run("method filtering", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handle(http.MethodGet, "/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("pong"))
		}))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if rec.Body.String() != "pong" {
			t.Errorf("expected pong, got %s", rec.Body.String())
		}

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ping", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
	})

	t.Run("middleware order", func(t *testing.T) {
		var order []string
		mw := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		router := NewBasicRouter()
		router.Use(mw("first"), mw("second"))
		router.Handle(http.MethodGet, "/x", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))

		if len(order) != 2 || order[0] != "first" || order[1] != "second" {
			t.Errorf("unexpected middleware order %v", order)
		}
	})

	t.Run("handler registers its routes", func(t *testing.T) {
		router := NewBasicRouter()
		router.Use(LoggingMiddleware(shared.NewLogger(io.Discard)))
		router.Handler(NewCallbackHandler(&fakeExchanger{ok: true}))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?code=a", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
	})
}
