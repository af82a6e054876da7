package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/agentledger/internal/adapter/http/dto"
	"github.com/iho/agentledger/internal/domain"
	"github.com/iho/agentledger/internal/usecase"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error)
	GetAccount(ctx context.Context, code string) (*domain.Account, error)
	ListAccounts(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error)
	GetBalance(ctx context.Context, code, currency string) (decimal.Decimal, error)
	DeleteAccount(ctx context.Context, code string) error
	AccountTree(ctx context.Context) ([]*domain.AccountNode, error)
}

// AccountHandler handles chart of accounts requests.
type AccountHandler struct {
	accountUC AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC AccountService) *AccountHandler {
	return &AccountHandler{accountUC: accountUC}
}

// Create creates a new account with the next free code in its category.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAccountRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	account, err := h.accountUC.CreateAccount(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to create account", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// Get retrieves an account by code.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "missing account code", "")
		return
	}

	account, err := h.accountUC.GetAccount(r.Context(), code)
	if err != nil {
		writeDomainError(w, "failed to get account", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// List lists accounts, optionally within one category.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accountUC.ListAccounts(r.Context(), usecase.ListAccountsInput{
		Category: r.URL.Query().Get("category"),
		Limit:    parseIntQuery(r, "limit", 100),
		Offset:   parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, "failed to list accounts", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListAccountsResponse{
		Accounts: dto.AccountsFromDomain(accounts),
		Total:    len(accounts),
	})
}

// Tree returns the chart of accounts as a forest.
func (h *AccountHandler) Tree(w http.ResponseWriter, r *http.Request) {
	forest, err := h.accountUC.AccountTree(r.Context())
	if err != nil {
		writeDomainError(w, "failed to build account tree", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TreeFromDomain(forest))
}

// Balance returns one currency balance of an account.
func (h *AccountHandler) Balance(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	currency := r.URL.Query().Get("currency")
	if currency == "" {
		writeError(w, http.StatusBadRequest, "missing currency", "")
		return
	}

	balance, err := h.accountUC.GetBalance(r.Context(), code, currency)
	if err != nil {
		writeDomainError(w, "failed to get balance", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{
		AccountCode: code,
		Currency:    currency,
		Balance:     balance,
	})
}

// Delete removes an account without children.
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	if err := h.accountUC.DeleteAccount(r.Context(), code); err != nil {
		writeDomainError(w, "failed to delete account", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
