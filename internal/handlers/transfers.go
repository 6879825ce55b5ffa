package handlers

import (
	"net/http"

	"github.com/benx421/retail-bank/internal/api"
	"github.com/benx421/retail-bank/internal/models"
)

// CreateTransfer handles POST /api/v1/transfers
func (h *Handler) CreateTransfer(w http.ResponseWriter, r *http.Request) {
	var req api.TransferRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	transfer := &models.Transfer{
		From:   &models.Account{AccountNumber: req.FromAccount},
		To:     &models.Account{AccountNumber: req.ToAccount},
		Amount: req.Amount,
		PIN:    req.PIN,
	}
	if err := h.accounts.TransferFunds(r.Context(), transfer); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, api.TransferResponse{
		From:   toAccount(transfer.From),
		To:     toAccount(transfer.To),
		Amount: transfer.Amount,
	})
}

// CreateExternalTransfer handles POST /api/v1/external-transfers.
// The transfer is queued OPEN and settled by the background worker.
func (h *Handler) CreateExternalTransfer(w http.ResponseWriter, r *http.Request) {
	var req api.ExternalTransferRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	transfer := &models.ExternalTransfer{
		Transaction: models.Transaction{
			AccountNumber: req.FromAccount,
			Amount:        req.Amount,
		},
		ToExternalAccount: req.ToExternalAccount,
		FromAccountPIN:    req.PIN,
	}
	if err := h.accounts.TransferFundsToExternal(r.Context(), transfer); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusAccepted, toExternalTransfer(transfer))
}

// GetExternalTransfer handles GET /api/v1/external-transfers/{transId}
func (h *Handler) GetExternalTransfer(w http.ResponseWriter, r *http.Request) {
	var id int64
	if !h.pathParam(w, r, "transId", &id) {
		return
	}

	transfer, err := h.transfers.GetExternalTransfer(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toExternalTransfer(transfer))
}
