package apiapp

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	authsvc "github.com/kpramod0/SkillLinkr-sub000/internal/services/auth"
)

func newTestAuthService(t *testing.T) (*authsvc.Service, *authsvc.JWTManager) {
	t.Helper()
	jwtManager := authsvc.NewJWTManager("test-secret", time.Minute)
	return authsvc.NewService(jwtManager, false), jwtManager
}

func TestIdentityMiddlewareStoresVerifiedIdentity(t *testing.T) {
	svc, jwtManager := newTestAuthService(t)
	token, _, err := jwtManager.GenerateAccessToken("alice@x", "user")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	var seen authsvc.Identity
	var seenOK bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, seenOK = authsvc.IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/matches", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	IdentityMiddleware(svc, nil)(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	if !seenOK || seen.UserID != "alice@x" {
		t.Fatalf("expected verified identity in context, got %+v ok=%v", seen, seenOK)
	}
}

func TestIdentityMiddlewareRejectsInvalidToken(t *testing.T) {
	svc, _ := newTestAuthService(t)

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatal("next handler must not run on invalid token")
	})

	req := httptest.NewRequest(http.MethodGet, "/matches", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rr := httptest.NewRecorder()
	IdentityMiddleware(svc, nil)(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestIdentityMiddlewarePassesThroughWithoutHeader(t *testing.T) {
	svc, _ := newTestAuthService(t)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := authsvc.IdentityFromContext(r.Context()); ok {
			t.Fatal("no identity expected without authorization header")
		}
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	IdentityMiddleware(svc, nil)(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
		ok    bool
	}{
		{name: "valid", value: "Bearer abc.def.ghi", want: "abc.def.ghi", ok: true},
		{name: "case insensitive scheme", value: "bearer tok", want: "tok", ok: true},
		{name: "missing token", value: "Bearer ", ok: false},
		{name: "wrong scheme", value: "Basic abc", ok: false},
		{name: "empty", value: "", ok: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := extractBearerToken(tc.value)
			if ok != tc.ok || got != tc.want {
				t.Fatalf("extractBearerToken(%q) = %q, %v; want %q, %v", tc.value, got, ok, tc.want, tc.ok)
			}
		})
	}
}
