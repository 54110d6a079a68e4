package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/angelmondragon/grocerfront/pkg/errors"
)

func TestSessionGuardPassesThroughHealthySession(t *testing.T) {
	t.Parallel()

	var reached bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	})

	guard := SessionGuard(func() error { return nil }, nil)
	resp := httptest.NewRecorder()
	guard(next).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/views/current", nil))

	if !reached {
		t.Fatal("expected the handler to be reached")
	}
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestSessionGuardBlocksAfterFatalFailure(t *testing.T) {
	t.Parallel()

	fatal := pkgerrors.New(pkgerrors.CodeSessionFatal, "establish failed")
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached after a fatal session failure")
	})

	guard := SessionGuard(func() error { return fatal }, nil)
	resp := httptest.NewRecorder()
	guard(next).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/views/current", nil))

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
}
