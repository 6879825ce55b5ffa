package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/benx421/retail-bank/internal/api"
	"github.com/benx421/retail-bank/internal/models"
	"github.com/benx421/retail-bank/internal/service"
	"github.com/go-playground/validator/v10"
	"github.com/oapi-codegen/runtime"
)

const maxBodyBytes = 1 << 20

type errorMapping struct {
	status  int
	message string
}

// serviceErrors gives each service error code its HTTP status and user facing message
var serviceErrors = map[string]errorMapping{
	service.ErrCodeInvalidAccountType:      {http.StatusBadRequest, "account type must be SAVINGS or CURRENT"},
	service.ErrCodeInvalidPrivilegeType:    {http.StatusBadRequest, "privilege must be REGULAR, GOLD or PREMIUM"},
	service.ErrCodeInvalidPolicyType:       {http.StatusUnprocessableEntity, "no policy exists for this account type and privilege"},
	service.ErrCodeInvalidPIN:              {http.StatusUnauthorized, "the PIN does not match"},
	service.ErrCodeInvalidAmount:           {http.StatusBadRequest, "amount must be positive with at most two decimal places"},
	service.ErrCodeInactiveAccount:         {http.StatusConflict, "the account is closed"},
	service.ErrCodeInsufficientBalance:     {http.StatusPaymentRequired, "insufficient balance to keep the minimum balance"},
	service.ErrCodeDailyLimitExceeded:      {http.StatusForbidden, "the daily transfer limit would be exceeded"},
	service.ErrCodeMinBalanceNotMaintained: {http.StatusUnprocessableEntity, "initial balance is below the minimum balance"},
	service.ErrCodeAccountNotFound:         {http.StatusNotFound, "account not found"},
	service.ErrCodeUnableToOpenAccount:     {http.StatusBadRequest, "unable to open account"},
	service.ErrCodeTransactionNotFound:     {http.StatusNotFound, "transaction not found"},
	service.ErrCodeInvalidTransactionType:  {http.StatusBadRequest, "invalid transaction type"},
	service.ErrCodeDatabaseOperation:       {http.StatusServiceUnavailable, "the bank is temporarily unavailable"},
	service.ErrCodeExternalTransferFailure: {http.StatusBadGateway, "the external transfer could not be queued"},
	service.ErrCodeInternalError:           {http.StatusInternalServerError, "internal error"},
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, code, message, detail string) {
	h.writeJSON(w, status, api.Error{Error: code, Message: message, Detail: detail})
}

// writeServiceError maps a service failure to its response. Errors without a code
// are logged and reported as unexpected.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var svcErr *service.ServiceError
	if !errors.As(err, &svcErr) {
		h.logger.Error("unexpected error", "path", r.URL.Path, "error", err)
		h.writeError(w, http.StatusInternalServerError, api.ErrorCodeUnexpected, "unexpected error", "")
		return
	}

	mapping, ok := serviceErrors[svcErr.Code]
	if !ok {
		h.logger.Error("unmapped service error", "code", svcErr.Code, "error", err)
		h.writeError(w, http.StatusInternalServerError, api.ErrorCodeUnexpected, "unexpected error", "")
		return
	}
	if mapping.status >= http.StatusInternalServerError {
		h.logger.Error("request failed", "path", r.URL.Path, "code", svcErr.Code, "error", err)
		h.writeError(w, mapping.status, svcErr.Code, mapping.message, "")
		return
	}

	h.writeError(w, mapping.status, svcErr.Code, mapping.message, svcErr.Message)
}

// decodeBody reads a JSON body into dst and runs its validation tags
func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		h.writeError(w, http.StatusBadRequest, api.ErrorCodeInvalidRequest, "request body is not valid JSON", err.Error())
		return false
	}

	if err := h.validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			problems := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				problems = append(problems, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
			}
			h.writeError(w, http.StatusBadRequest, api.ErrorCodeValidation, "request validation failed", strings.Join(problems, "; "))
			return false
		}
		h.writeError(w, http.StatusBadRequest, api.ErrorCodeValidation, "request validation failed", err.Error())
		return false
	}
	return true
}

// pathParam binds a simple style path parameter into dest
func (h *Handler) pathParam(w http.ResponseWriter, r *http.Request, name string, dest any) bool {
	err := runtime.BindStyledParameterWithOptions("simple", name, r.PathValue(name), dest, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		h.writeError(w, http.StatusBadRequest, api.ErrorCodeInvalidRequest, fmt.Sprintf("invalid %s", name), err.Error())
		return false
	}
	return true
}

func toAccount(a *models.Account) api.Account {
	out := api.Account{
		OpenedAt:      a.OpenedAt,
		AccountNumber: a.AccountNumber,
		Name:          a.Name,
		AccountType:   string(a.Type),
		Privilege:     string(a.Privilege),
		Balance:       a.Balance,
		Active:        a.Active,
	}
	if a.Policy != nil {
		p := toPolicy(*a.Policy)
		out.Policy = &p
	}
	return out
}

func toPolicy(p models.Policy) api.Policy {
	return api.Policy{MinBalance: p.MinBalance, InterestRate: p.InterestRate}
}

func toTransaction(t *models.Transaction) api.Transaction {
	return api.Transaction{
		CreatedAt:     t.CreatedAt,
		AccountNumber: t.AccountNumber,
		Type:          string(t.Type),
		Status:        string(t.Status),
		Amount:        t.Amount,
		ID:            t.ID,
	}
}

func toTransactions(txns []*models.Transaction) []api.Transaction {
	out := make([]api.Transaction, 0, len(txns))
	for _, t := range txns {
		out = append(out, toTransaction(t))
	}
	return out
}

func toExternalTransfer(t *models.ExternalTransfer) api.ExternalTransfer {
	return api.ExternalTransfer{
		Transaction:       toTransaction(&t.Transaction),
		ToExternalAccount: t.ToExternalAccount,
	}
}

func toExternalTransfers(transfers []*models.ExternalTransfer) []api.ExternalTransfer {
	out := make([]api.ExternalTransfer, 0, len(transfers))
	for _, t := range transfers {
		out = append(out, toExternalTransfer(t))
	}
	return out
}
