package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/agentledger/internal/adapter/http/dto"
	"github.com/iho/agentledger/internal/domain"
	"github.com/iho/agentledger/internal/usecase"
)

type accountServiceStub struct {
	createFn  func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error)
	getFn     func(ctx context.Context, code string) (*domain.Account, error)
	listFn    func(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error)
	balanceFn func(ctx context.Context, code, currency string) (decimal.Decimal, error)
	deleteFn  func(ctx context.Context, code string) error
	treeFn    func(ctx context.Context) ([]*domain.AccountNode, error)
}

func (s *accountServiceStub) CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
	return s.createFn(ctx, input)
}

func (s *accountServiceStub) GetAccount(ctx context.Context, code string) (*domain.Account, error) {
	return s.getFn(ctx, code)
}

func (s *accountServiceStub) ListAccounts(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error) {
	return s.listFn(ctx, input)
}

func (s *accountServiceStub) GetBalance(ctx context.Context, code, currency string) (decimal.Decimal, error) {
	return s.balanceFn(ctx, code, currency)
}

func (s *accountServiceStub) DeleteAccount(ctx context.Context, code string) error {
	return s.deleteFn(ctx, code)
}

func (s *accountServiceStub) AccountTree(ctx context.Context) ([]*domain.AccountNode, error) {
	return s.treeFn(ctx)
}

// withURLParams attaches chi route parameters to a request.
func withURLParams(req *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func testAccount(code string, category domain.Category) *domain.Account {
	return domain.NewAccount(code, "Account "+code, category, "", []string{"IQD"}, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC))
}

func TestAccountHandler_Create_Success(t *testing.T) {
	var captured usecase.CreateAccountInput
	handler := NewAccountHandler(&accountServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
			captured = input
			return testAccount("5001", domain.CategoryBanks), nil
		},
	})

	body, _ := json.Marshal(dto.CreateAccountRequest{
		Name:       "Rafidain",
		Category:   "banks",
		Currencies: []string{"IQD", "USD"},
	})

	req := httptest.NewRequest(http.MethodPost, "/accounting/accounts", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.Name != "Rafidain" || captured.Category != "banks" || len(captured.Currencies) != 2 {
		t.Fatalf("expected input to match request, got %+v", captured)
	}

	var resp dto.AccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Code != "5001" {
		t.Fatalf("expected account code 5001, got %s", resp.Code)
	}
}

func TestAccountHandler_Create_InvalidJSON(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{})

	req := httptest.NewRequest(http.MethodPost, "/accounting/accounts", strings.NewReader("{"))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAccountHandler_Create_ValidationError(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
			t.Fatalf("service should not be called for invalid input")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/accounting/accounts", strings.NewReader(`{"name":"x","category":"banks"}`))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Currencies") {
		t.Fatalf("expected validation message to name the field, got %s", rec.Body.String())
	}
}

func TestAccountHandler_Create_DomainErrors(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("%w: mines", domain.ErrInvalidCategory), http.StatusBadRequest},
		{domain.ErrParentNotFound, http.StatusBadRequest},
		{domain.ErrCodeSpaceExhausted, http.StatusConflict},
		{errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		handler := NewAccountHandler(&accountServiceStub{
			createFn: func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
				return nil, tt.err
			},
		})

		req := httptest.NewRequest(http.MethodPost, "/accounting/accounts",
			strings.NewReader(`{"name":"x","category":"banks","currencies":["IQD"]}`))
		rec := httptest.NewRecorder()
		handler.Create(rec, req)

		if rec.Code != tt.status {
			t.Fatalf("%v: expected %d, got %d", tt.err, tt.status, rec.Code)
		}
	}
}

func TestAccountHandler_Get(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		getFn: func(ctx context.Context, code string) (*domain.Account, error) {
			if code != "6001" {
				t.Fatalf("unexpected code %s", code)
			}
			return testAccount("6001", domain.CategoryCashBoxes), nil
		},
	})

	req := withURLParams(httptest.NewRequest(http.MethodGet, "/accounting/accounts/6001", nil), "code", "6001")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAccountHandler_Get_NotFound(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		getFn: func(ctx context.Context, code string) (*domain.Account, error) {
			return nil, domain.ErrAccountNotFound
		},
	})

	req := withURLParams(httptest.NewRequest(http.MethodGet, "/accounting/accounts/9999", nil), "code", "9999")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAccountHandler_List(t *testing.T) {
	var captured usecase.ListAccountsInput
	handler := NewAccountHandler(&accountServiceStub{
		listFn: func(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error) {
			captured = input
			return []*domain.Account{testAccount("5001", domain.CategoryBanks), testAccount("5002", domain.CategoryBanks)}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/accounting/accounts?category=banks&limit=10", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if captured.Category != "banks" || captured.Limit != 10 || captured.Offset != 0 {
		t.Fatalf("unexpected list input %+v", captured)
	}

	var resp dto.ListAccountsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Total != 2 || len(resp.Accounts) != 2 {
		t.Fatalf("expected two accounts, got %+v", resp)
	}
}

func TestAccountHandler_Tree(t *testing.T) {
	root := testAccount("5001", domain.CategoryBanks)
	child := testAccount("5002", domain.CategoryBanks)
	child.ParentCode = "5001"

	handler := NewAccountHandler(&accountServiceStub{
		treeFn: func(ctx context.Context) ([]*domain.AccountNode, error) {
			return domain.BuildHierarchy([]*domain.Account{root, child}), nil
		},
	})

	rec := httptest.NewRecorder()
	handler.Tree(rec, httptest.NewRequest(http.MethodGet, "/accounting/accounts/tree", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp []dto.AccountNodeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 1 || len(resp[0].Children) != 1 || resp[0].Children[0].Code != "5002" {
		t.Fatalf("unexpected tree %s", rec.Body.String())
	}
}

func TestAccountHandler_Balance(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		balanceFn: func(ctx context.Context, code, currency string) (decimal.Decimal, error) {
			if currency == "USD" {
				return decimal.Zero, domain.ErrCurrencyNotEnabled
			}
			return decimal.RequireFromString("1250.50"), nil
		},
	})

	rec := httptest.NewRecorder()
	req := withURLParams(httptest.NewRequest(http.MethodGet, "/accounting/accounts/6001/balance?currency=IQD", nil), "code", "6001")
	handler.Balance(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp dto.BalanceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Balance.Equal(decimal.RequireFromString("1250.5")) || resp.AccountCode != "6001" {
		t.Fatalf("unexpected balance response %+v", resp)
	}

	rec = httptest.NewRecorder()
	req = withURLParams(httptest.NewRequest(http.MethodGet, "/accounting/accounts/6001/balance?currency=USD", nil), "code", "6001")
	handler.Balance(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for disabled currency, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	req = withURLParams(httptest.NewRequest(http.MethodGet, "/accounting/accounts/6001/balance", nil), "code", "6001")
	handler.Balance(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without currency, got %d", rec.Code)
	}
}

func TestAccountHandler_Delete(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		deleteFn: func(ctx context.Context, code string) error {
			if code == "5001" {
				return fmt.Errorf("%w: %s", domain.ErrHasChildren, code)
			}
			return nil
		},
	})

	rec := httptest.NewRecorder()
	handler.Delete(rec, withURLParams(httptest.NewRequest(http.MethodDelete, "/accounting/accounts/5002", nil), "code", "5002"))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.Delete(rec, withURLParams(httptest.NewRequest(http.MethodDelete, "/accounting/accounts/5001", nil), "code", "5001"))
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for account with children, got %d", rec.Code)
	}
}
