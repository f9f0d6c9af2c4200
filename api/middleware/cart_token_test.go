package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestCartTokenMintsWhenMissing(t *testing.T) {
	var seen string
	handler := CartToken()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CartTokenFromContext(r.Context())
	}))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))

	if seen == "" {
		t.Fatal("expected a minted cart token in context")
	}
	if err := uuid.Validate(seen); err != nil {
		t.Fatalf("minted token is not a uuid: %v", err)
	}
	if got := resp.Header().Get("X-Cart-Token"); got != seen {
		t.Fatalf("expected token echoed on response, got %q", got)
	}
}

func TestCartTokenPreservesExisting(t *testing.T) {
	token := uuid.NewString()
	var seen string
	handler := CartToken()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CartTokenFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("X-Cart-Token", token)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if seen != token {
		t.Fatalf("expected token %q preserved, got %q", token, seen)
	}
}

func TestCartTokenReplacesGarbage(t *testing.T) {
	var seen string
	handler := CartToken()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CartTokenFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("X-Cart-Token", "not-a-uuid")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if seen == "not-a-uuid" {
		t.Fatal("expected garbage token replaced")
	}
	if err := uuid.Validate(seen); err != nil {
		t.Fatalf("replacement token is not a uuid: %v", err)
	}
}
