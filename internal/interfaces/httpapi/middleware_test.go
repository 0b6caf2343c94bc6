package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/riskibarqy/nfl-pickem/internal/domain/user"
	"github.com/riskibarqy/nfl-pickem/internal/platform/logging"
	"github.com/riskibarqy/nfl-pickem/internal/usecase"
)

type verifierFunc func(ctx context.Context, token string) (user.Principal, error)

func (f verifierFunc) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	return f(ctx, token)
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestCORS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		allowed    []string
		method     string
		origin     string
		wantStatus int
		wantOrigin string
	}{
		{name: "configured origin", allowed: []string{"https://pickem.example.com"}, method: http.MethodGet, origin: "https://pickem.example.com", wantStatus: http.StatusOK, wantOrigin: "https://pickem.example.com"},
		{name: "wildcard preflight", allowed: []string{"*"}, method: http.MethodOptions, origin: "https://pickem.example.com", wantStatus: http.StatusNoContent, wantOrigin: "*"},
		{name: "unknown origin", allowed: []string{"https://pickem.example.com"}, method: http.MethodGet, origin: "https://other.example.com", wantStatus: http.StatusOK, wantOrigin: ""},
		{name: "no origin header", allowed: []string{"*"}, method: http.MethodOptions, origin: "", wantStatus: http.StatusOK, wantOrigin: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(tc.method, "/v1/dashboard", nil)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			rec := httptest.NewRecorder()
			CORS(tc.allowed, okHandler()).ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("expected status %d, got %d", tc.wantStatus, rec.Code)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tc.wantOrigin {
				t.Fatalf("unexpected Access-Control-Allow-Origin: %q", got)
			}
		})
	}
}

func TestShouldTraceRequest(t *testing.T) {
	t.Parallel()

	for _, path := range []string{"/healthz", "/readyz", " /HEALTHZ "} {
		if shouldTraceRequest(path) {
			t.Fatalf("expected no tracing for path %q", path)
		}
	}
	for _, path := range []string{"/v1/picks", "/v1/admin/ledger/audit", "/"} {
		if !shouldTraceRequest(path) {
			t.Fatalf("expected tracing for path %q", path)
		}
	}
}

func TestStartSpan_OnlyHandlersUnderParent(t *testing.T) {
	t.Parallel()

	if !isHandlerSpan("httpapi.Handler.SubmitPick") {
		t.Fatalf("expected handler span to be traced")
	}
	if isHandlerSpan("httpapi.RequireAuth") {
		t.Fatalf("did not expect middleware span to be traced")
	}

	ctx, span := startSpan(context.Background(), "httpapi.Handler.SubmitPick")
	defer span.End()
	if span.SpanContext().IsValid() {
		t.Fatalf("expected noop span without a parent")
	}
	if ctx != context.Background() {
		t.Fatalf("expected context to be returned unchanged")
	}
}

func TestBearerToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{header: "Bearer abc-123", want: "abc-123"},
		{header: "bearer   abc-123 ", want: "abc-123"},
		{header: "", wantErr: true},
		{header: "Basic abc", wantErr: true},
		{header: "Bearer", wantErr: true},
	}

	for _, tc := range tests {
		req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}

		got, err := bearerToken(req)
		if tc.wantErr {
			if !errors.Is(err, usecase.ErrUnauthorized) {
				t.Fatalf("header %q: expected ErrUnauthorized, got %v", tc.header, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("header %q: got %q, %v", tc.header, got, err)
		}
	}
}

func TestRequireAuthAndAdmin(t *testing.T) {
	t.Parallel()

	verifier := verifierFunc(func(_ context.Context, token string) (user.Principal, error) {
		switch token {
		case "admin":
			return user.Principal{UserID: 1, Username: "Manuel", IsAdmin: true, Token: token}, nil
		case "player":
			return user.Principal{UserID: 2, Username: "Daniel", Token: token}, nil
		default:
			return user.Principal{}, usecase.ErrUnauthorized
		}
	})
	handler := RequireAuth(verifier, RequireAdmin(okHandler()))

	tests := map[string]int{
		"admin":   http.StatusOK,
		"player":  http.StatusForbidden,
		"expired": http.StatusUnauthorized,
	}
	for token, want := range tests {
		req := httptest.NewRequest(http.MethodGet, "/v1/admin/matches/pending", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != want {
			t.Fatalf("token %q: expected %d, got %d", token, want, rec.Code)
		}
	}
}

func TestRequestLogging_RecordsStatus(t *testing.T) {
	t.Parallel()

	handler := RequestLogging(logging.NewNop(), http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/teams", nil))
	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected status to pass through, got %d", rec.Code)
	}
}
