package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/relayhq/taskboard/api/internal/handler"
)

type fakePinger struct {
	err error
}

func (f *fakePinger) Ping(ctx context.Context) error {
	return f.err
}

func TestHealth_OK(t *testing.T) {
	h := handler.NewHealthHandler(&fakePinger{})

	resp := httptest.NewRecorder()
	h.Health(resp, httptest.NewRequest(http.MethodGet, "/health", nil))

	if resp.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["status"] != "ok" || body["database"] != "ok" {
		t.Errorf("unexpected body: %v", body)
	}
}

func TestHealth_DatabaseDown(t *testing.T) {
	h := handler.NewHealthHandler(&fakePinger{err: errors.New("connection refused")})

	resp := httptest.NewRecorder()
	h.Health(resp, httptest.NewRequest(http.MethodGet, "/health", nil))

	if resp.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", resp.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["status"] != "degraded" || body["database"] != "unreachable" {
		t.Errorf("unexpected body: %v", body)
	}
}
