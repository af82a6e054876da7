package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/iho/agentledger/internal/adapter/http/dto"
	"github.com/iho/agentledger/internal/domain"
	"github.com/iho/agentledger/internal/usecase"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeDomainError writes err with the status mapped from its kind.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	writeError(w, mapDomainError(err), message, err.Error())
}

// decodeJSON decodes and validates a request body.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return false
	}
	if err := dto.Validate(v); err != nil {
		writeError(w, http.StatusBadRequest, "validation failed", err.Error())
		return false
	}
	return true
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrEntryNotFound),
		errors.Is(err, domain.ErrNoBulletin),
		errors.Is(err, domain.ErrNoMatchingTier):
		return http.StatusNotFound

	case errors.Is(err, domain.ErrHasChildren),
		errors.Is(err, domain.ErrAlreadyCancelled),
		errors.Is(err, domain.ErrDuplicateCode),
		errors.Is(err, domain.ErrReversalNotCancellable),
		errors.Is(err, domain.ErrDuplicateSourceRef),
		errors.Is(err, domain.ErrCodeSpaceExhausted):
		return http.StatusConflict

	case errors.Is(err, domain.ErrUnbalancedEntry),
		errors.Is(err, domain.ErrUnknownAccount),
		errors.Is(err, domain.ErrInvalidLine),
		errors.Is(err, domain.ErrCurrencyNotEnabled),
		errors.Is(err, domain.ErrInvalidCategory),
		errors.Is(err, domain.ErrParentNotFound),
		errors.Is(err, domain.ErrInvalidParent),
		errors.Is(err, domain.ErrInvalidAccountName),
		errors.Is(err, domain.ErrInvalidCurrency),
		errors.Is(err, domain.ErrInvalidTier),
		errors.Is(err, domain.ErrOverlappingTiers),
		errors.Is(err, domain.ErrInvalidDirection),
		errors.Is(err, domain.ErrInvalidRate),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrAmountTooLarge),
		errors.Is(err, domain.ErrInvalidOperation),
		errors.Is(err, domain.ErrCurrencyMismatch),
		errors.Is(err, domain.ErrInvalidDateRange),
		errors.Is(err, usecase.ErrAgentRequired),
		errors.Is(err, usecase.ErrTransferIDRequired):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// parseTimeQuery accepts RFC 3339 timestamps or calendar dates. A date used
// as an upper bound covers the whole day.
func parseTimeQuery(r *http.Request, key string, endOfDay bool) (*time.Time, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil, nil
	}

	if t, err := time.Parse(time.RFC3339, val); err == nil {
		return &t, nil
	}

	t, err := time.Parse(dto.DateLayout, val)
	if err != nil {
		return nil, fmt.Errorf("%s: expected YYYY-MM-DD or RFC 3339, got %q", key, val)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

// parseDateRange reads start_date and end_date.
func parseDateRange(w http.ResponseWriter, r *http.Request) (start, end *time.Time, ok bool) {
	start, err := parseTimeQuery(r, "start_date", false)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start_date", err.Error())
		return nil, nil, false
	}
	end, err = parseTimeQuery(r, "end_date", true)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end_date", err.Error())
		return nil, nil, false
	}
	return start, end, true
}
