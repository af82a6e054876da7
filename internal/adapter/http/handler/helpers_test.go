package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/iho/agentledger/internal/adapter/http/dto"
	"github.com/iho/agentledger/internal/domain"
	"github.com/iho/agentledger/internal/usecase"
)

func TestParseIntQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/accounts?limit=50", nil)
	if got := parseIntQuery(req, "limit", 10); got != 50 {
		t.Fatalf("expected limit=50, got %d", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/accounts?limit=invalid", nil)
	if got := parseIntQuery(req, "limit", 10); got != 10 {
		t.Fatalf("expected fallback to default, got %d", got)
	}

	req.URL = &url.URL{RawQuery: ""}
	if got := parseIntQuery(req, "limit", 25); got != 25 {
		t.Fatalf("expected default when missing, got %d", got)
	}
}

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"account not found", domain.ErrAccountNotFound, http.StatusNotFound},
		{"entry not found", domain.ErrEntryNotFound, http.StatusNotFound},
		{"no bulletin", domain.ErrNoBulletin, http.StatusNotFound},
		{"has children", fmt.Errorf("%w: 5001", domain.ErrHasChildren), http.StatusConflict},
		{"already cancelled", domain.ErrAlreadyCancelled, http.StatusConflict},
		{"duplicate code", domain.ErrDuplicateCode, http.StatusConflict},
		{"reversal", domain.ErrReversalNotCancellable, http.StatusConflict},
		{"unbalanced", fmt.Errorf("%w: debits 10 credits 9", domain.ErrUnbalancedEntry), http.StatusBadRequest},
		{"unknown account", domain.ErrUnknownAccount, http.StatusBadRequest},
		{"currency not enabled", domain.ErrCurrencyNotEnabled, http.StatusBadRequest},
		{"invalid rate", domain.ErrInvalidRate, http.StatusBadRequest},
		{"currency mismatch", domain.ErrCurrencyMismatch, http.StatusBadRequest},
		{"agent required", usecase.ErrAgentRequired, http.StatusBadRequest},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapDomainError(tt.err); got != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestParseTimeQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x?start_date=2024-03-01&end_date=2024-03-31&at=2024-03-05T10:00:00Z&bad=March", nil)

	start, err := parseTimeQuery(req, "start_date", false)
	if err != nil || !start.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start: %v %v", start, err)
	}

	end, err := parseTimeQuery(req, "end_date", true)
	if err != nil || !end.Equal(time.Date(2024, 3, 31, 23, 59, 59, 999999999, time.UTC)) {
		t.Fatalf("expected end of day, got %v %v", end, err)
	}

	at, err := parseTimeQuery(req, "at", true)
	if err != nil || !at.Equal(time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected timestamp to be kept, got %v %v", at, err)
	}

	if missing, err := parseTimeQuery(req, "missing", false); missing != nil || err != nil {
		t.Fatalf("expected nil for missing parameter, got %v %v", missing, err)
	}

	if _, err := parseTimeQuery(req, "bad", false); err == nil {
		t.Fatalf("expected error for malformed date")
	}
}

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	payload := map[string]string{"status": "ok"}

	writeJSON(rr, http.StatusCreated, payload)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rr.Code)
	}

	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected content-type application/json, got %s", ct)
	}

	var decoded map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if decoded["status"] != "ok" {
		t.Fatalf("expected payload to round-trip, got %+v", decoded)
	}
}

func TestWriteError(t *testing.T) {
	rr := httptest.NewRecorder()

	writeError(rr, http.StatusBadRequest, "bad request", "detail")

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}

	var resp dto.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}

	if resp.Error != "bad request" {
		t.Fatalf("expected error message to propagate, got %+v", resp)
	}
}
