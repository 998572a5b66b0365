package handlers

import (
	"context"
	"net/http"

	"github.com/benx421/digital-bank/internal/models"
	"github.com/benx421/digital-bank/internal/service"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type accountListFunc func(ctx context.Context, actor service.Actor, page models.PageRequest) (models.Page[*models.Account], error)

// ListPendingAccounts handles GET /accounts/pending
func (h *Handler) ListPendingAccounts(w http.ResponseWriter, r *http.Request) {
	h.listAccounts(w, r, h.adminService.ListPending)
}

// ListBlockedAccounts handles GET /admin/accounts/blocked
func (h *Handler) ListBlockedAccounts(w http.ResponseWriter, r *http.Request) {
	h.listAccounts(w, r, h.adminService.ListBlocked)
}

// ListUnlockRequests handles GET /admin/accounts/unlock-requests
func (h *Handler) ListUnlockRequests(w http.ResponseWriter, r *http.Request) {
	h.listAccounts(w, r, h.adminService.ListUnlockRequests)
}

// SearchAccounts handles GET /admin/accounts/search
func (h *Handler) SearchAccounts(w http.ResponseWriter, r *http.Request) {
	query, err := queryString(r, "q")
	if err != nil {
		writeError(w, http.StatusBadRequest, service.ErrCodeValidation, err.Error())
		return
	}

	h.listAccounts(w, r, func(ctx context.Context, actor service.Actor, page models.PageRequest) (models.Page[*models.Account], error) {
		return h.adminService.SearchAccounts(ctx, actor, query, page)
	})
}

func (h *Handler) listAccounts(w http.ResponseWriter, r *http.Request, list accountListFunc) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	page, err := pageRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, service.ErrCodeValidation, err.Error())
		return
	}

	result, err := list(r.Context(), actor, page)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// SearchTransactions handles GET /transactions/search
func (h *Handler) SearchTransactions(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	page, err := pageRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, service.ErrCodeValidation, err.Error())
		return
	}
	search, err := transactionSearch(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, service.ErrCodeValidation, err.Error())
		return
	}

	result, err := h.adminService.SearchTransactions(r.Context(), actor, search, page)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func transactionSearch(r *http.Request) (service.TransactionSearch, error) {
	var search service.TransactionSearch

	values := map[string]string{}
	for _, name := range []string{"currency", "accountId", "userId", "minAmount", "maxAmount", "status"} {
		v, err := queryString(r, name)
		if err != nil {
			return search, err
		}
		values[name] = v
	}

	search.Currency = models.Currency(values["currency"])
	search.Status = models.TransactionStatus(values["status"])
	search.AccountRef = values["accountId"]

	if v := values["userId"]; v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return search, errInvalidParam("userId", "must be a UUID")
		}
		search.UserID = &id
	}
	for name, dst := range map[string]**decimal.Decimal{"minAmount": &search.MinAmount, "maxAmount": &search.MaxAmount} {
		v := values[name]
		if v == "" {
			continue
		}
		amount, err := decimal.NewFromString(v)
		if err != nil {
			return search, errInvalidParam(name, "must be a decimal number")
		}
		*dst = &amount
	}

	return search, nil
}
