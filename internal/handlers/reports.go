package handlers

import (
	"net/http"
	"time"

	"github.com/benx421/retail-bank/internal/api"
	"github.com/benx421/retail-bank/internal/models"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// GetSummary handles GET /api/v1/reports/summary
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reports.Summary(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	byType := make(map[string]int, len(summary.ByType))
	for accountType, count := range summary.ByType {
		byType[string(accountType)] = count
	}

	h.writeJSON(w, http.StatusOK, api.Summary{
		ByType:        byType,
		TotalWorth:    summary.TotalWorth,
		TotalAccounts: summary.TotalAccounts,
	})
}

// GetPolicies handles GET /api/v1/reports/policies
func (h *Handler) GetPolicies(w http.ResponseWriter, _ *http.Request) {
	policies := h.reports.Policies()

	out := make(map[string]api.Policy, len(policies))
	for key, p := range policies {
		out[key] = toPolicy(p)
	}

	h.writeJSON(w, http.StatusOK, out)
}

// GetTransferReport handles GET /api/v1/reports/transfers
func (h *Handler) GetTransferReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.reports.Transfers(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, api.TransferReport{
		Internal: toTransactions(report.Internal),
		External: toExternalTransfers(report.External),
	})
}

// GetTransactionReport handles GET /api/v1/reports/transactions.
// type filters by transaction type; day returns everything created on that date.
// Without parameters it reports today.
func (h *Handler) GetTransactionReport(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var txnType string
	if err := runtime.BindQueryParameter("form", true, false, "type", query, &txnType); err != nil {
		h.writeError(w, http.StatusBadRequest, api.ErrorCodeInvalidRequest, "invalid type", err.Error())
		return
	}
	var day *openapi_types.Date
	if err := runtime.BindQueryParameter("form", true, false, "day", query, &day); err != nil {
		h.writeError(w, http.StatusBadRequest, api.ErrorCodeInvalidRequest, "invalid day, expected YYYY-MM-DD", err.Error())
		return
	}

	if txnType != "" {
		txns, err := h.reports.TransactionsByType(r.Context(), models.TransactionType(txnType))
		if err != nil {
			h.writeServiceError(w, r, err)
			return
		}
		h.writeJSON(w, http.StatusOK, toTransactions(txns))
		return
	}

	when := time.Now()
	if day != nil {
		when = time.Date(day.Year(), day.Month(), day.Day(), 12, 0, 0, 0, time.Local)
	}

	report, err := h.reports.TransactionsForDay(r.Context(), when)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, api.DayReport{
		Day:      report.Day.Format(time.DateOnly),
		Internal: toTransactions(report.Internal),
		External: toExternalTransfers(report.External),
	})
}
