package handlers

import (
	"net/http"

	"github.com/benx421/retail-bank/internal/api"
	"github.com/benx421/retail-bank/internal/models"
)

// CreateAccount handles POST /api/v1/accounts
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req api.CreateAccountRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	account, err := h.accounts.CreateAccount(
		r.Context(),
		req.Name,
		req.PIN,
		req.InitialBalance,
		models.PrivilegeType(req.Privilege),
		models.AccountType(req.AccountType),
	)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, toAccount(account))
}

// GetAccount handles GET /api/v1/accounts/{accNo}
func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	var accNo string
	if !h.pathParam(w, r, "accNo", &accNo) {
		return
	}

	account, err := h.accounts.GetAccount(r.Context(), accNo)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toAccount(account))
}

// Deposit handles POST /api/v1/accounts/{accNo}/deposits
func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	var accNo string
	if !h.pathParam(w, r, "accNo", &accNo) {
		return
	}
	var req api.DepositRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	account := &models.Account{AccountNumber: accNo}
	if err := h.accounts.Deposit(r.Context(), account, req.Amount); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toAccount(account))
}

// Withdraw handles POST /api/v1/accounts/{accNo}/withdrawals
func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var accNo string
	if !h.pathParam(w, r, "accNo", &accNo) {
		return
	}
	var req api.WithdrawRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	account := &models.Account{AccountNumber: accNo}
	if err := h.accounts.Withdraw(r.Context(), account, req.Amount, req.PIN); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toAccount(account))
}

// CloseAccount handles POST /api/v1/accounts/{accNo}/close
func (h *Handler) CloseAccount(w http.ResponseWriter, r *http.Request) {
	var accNo string
	if !h.pathParam(w, r, "accNo", &accNo) {
		return
	}
	var req api.CloseAccountRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	account, err := h.accounts.CloseAccount(r.Context(), accNo, req.PIN)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toAccount(account))
}

// ListAccountTransactions handles GET /api/v1/accounts/{accNo}/transactions
func (h *Handler) ListAccountTransactions(w http.ResponseWriter, r *http.Request) {
	var accNo string
	if !h.pathParam(w, r, "accNo", &accNo) {
		return
	}

	txns, err := h.accounts.AccountTransactions(r.Context(), accNo)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toTransactions(txns))
}
