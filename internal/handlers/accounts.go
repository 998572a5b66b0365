package handlers

import (
	"context"
	"net/http"

	"github.com/benx421/digital-bank/internal/models"
	"github.com/benx421/digital-bank/internal/service"
	"github.com/google/uuid"
)

type accountRequest struct {
	Currency models.Currency    `json:"currency"`
	Type     models.AccountType `json:"type"`
}

// ListUserAccounts handles GET /accounts/user/{userId}
func (h *Handler) ListUserAccounts(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	userID, err := pathUUID(r, "userId")
	if err != nil {
		writeError(w, http.StatusBadRequest, service.ErrCodeValidation, err.Error())
		return
	}

	accounts, err := h.accountService.ListUserAccounts(r.Context(), actor, userID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, accounts)
}

// RequestAccount handles POST /accounts/request
func (h *Handler) RequestAccount(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var req accountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, service.ErrCodeValidation, err.Error())
		return
	}

	account, err := h.accountService.RequestAccount(r.Context(), actor, service.RequestAccountInput{
		Currency: req.Currency,
		Type:     req.Type,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, account)
}

// ActivateAccount handles PATCH /accounts/{id}/activate
func (h *Handler) ActivateAccount(w http.ResponseWriter, r *http.Request) {
	h.transitionAccount(w, r, h.adminService.Activate)
}

// BlockAccount handles PATCH /accounts/{id}/block
func (h *Handler) BlockAccount(w http.ResponseWriter, r *http.Request) {
	h.transitionAccount(w, r, h.accountService.Block)
}

// RequestUnlock handles PATCH /accounts/{id}/request-unlock
func (h *Handler) RequestUnlock(w http.ResponseWriter, r *http.Request) {
	h.transitionAccount(w, r, h.accountService.RequestUnlock)
}

// UnblockAccount handles PATCH /admin/accounts/{id}/unblock
func (h *Handler) UnblockAccount(w http.ResponseWriter, r *http.Request) {
	h.transitionAccount(w, r, h.adminService.Unblock)
}

type transitionFunc func(ctx context.Context, actor service.Actor, accountID uuid.UUID) (*models.Account, error)

func (h *Handler) transitionAccount(w http.ResponseWriter, r *http.Request, transition transitionFunc) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	accountID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, service.ErrCodeValidation, err.Error())
		return
	}

	account, err := transition(r.Context(), actor, accountID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, account)
}
