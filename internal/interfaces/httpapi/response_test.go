package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/nfl-pickem/internal/usecase"
)

func TestWriteSuccess_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(context.Background(), rec, http.StatusOK, map[string]string{"status": "ok"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	if _, ok := body["data"]; !ok {
		t.Fatalf("expected data key in success response")
	}
	if _, ok := body["error"]; ok {
		t.Fatalf("did not expect error key in success response")
	}
}

func TestWriteError_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("%w: bad payload", usecase.ErrInvalidInput))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	errorObj, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error object in response")
	}
	if got, _ := errorObj["status"].(string); got != "INVALID_ARGUMENT" {
		t.Fatalf("expected error status INVALID_ARGUMENT, got %v", errorObj["status"])
	}
}

func TestMapError_Taxonomy(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{usecase.ErrInvalidInput, http.StatusBadRequest, "INVALID_ARGUMENT"},
		{usecase.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHENTICATED"},
		{usecase.ErrForbidden, http.StatusForbidden, "PERMISSION_DENIED"},
		{usecase.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{usecase.ErrAlreadyStarted, http.StatusConflict, "FAILED_PRECONDITION"},
		{usecase.ErrAlreadyGraded, http.StatusConflict, "ALREADY_EXISTS"},
		{usecase.ErrIneligibleTeam, http.StatusUnprocessableEntity, "FAILED_PRECONDITION"},
		{usecase.ErrDependencyUnavailable, http.StatusServiceUnavailable, "UNAVAILABLE"},
		{fmt.Errorf("boom"), http.StatusInternalServerError, "INTERNAL"},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			got := mapError(context.Background(), fmt.Errorf("%w: wrapped", tt.err))
			if got.HTTPStatus != tt.wantStatus || got.Status != tt.wantCode {
				t.Fatalf("mapError(%v)=%d/%s want=%d/%s", tt.err, got.HTTPStatus, got.Status, tt.wantStatus, tt.wantCode)
			}
		})
	}
}

func TestWriteError_HidesInternalMessages(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("pq: password authentication failed"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
	if body := rec.Body.String(); strings.Contains(body, "password") {
		t.Fatalf("internal error leaked into response: %s", body)
	}
}
