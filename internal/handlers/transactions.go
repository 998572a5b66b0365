package handlers

import (
	"net/http"
	"strings"

	"github.com/benx421/digital-bank/internal/middleware"
	"github.com/benx421/digital-bank/internal/models"
	"github.com/benx421/digital-bank/internal/service"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type transferRequest struct {
	Amount          decimal.Decimal `json:"amount"`
	ToAccountNumber string          `json:"toAccountNumber"`
	Description     string          `json:"description"`
	FromAccountID   uuid.UUID       `json:"fromAccountId"`
}

// Transfer handles POST /transactions/transfer
func (h *Handler) Transfer(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var req transferRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, service.ErrCodeValidation, err.Error())
		return
	}

	txn, replayed, err := h.transferService.Transfer(r.Context(), actor, service.TransferRequest{
		FromAccountID:   req.FromAccountID,
		ToAccountNumber: req.ToAccountNumber,
		Amount:          req.Amount,
		Description:     req.Description,
		IdempotencyKey:  strings.TrimSpace(r.Header.Get(middleware.IdempotencyKeyHeader)),
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	// A replayed key that failed the first time fails the same way again
	if txn.Status == models.TransactionStatusFailed {
		code := service.ErrCodeTransferFailed
		if txn.FailureReason == models.FailureReasonInsufficientFunds {
			code = service.ErrCodeInsufficientFunds
		}
		writeError(w, statusForCode(code), code, txn.FailureReason)
		return
	}

	status := http.StatusCreated
	if replayed {
		status = http.StatusOK
	}
	writeJSON(w, status, txn)
}

// ListUserTransactions handles GET /transactions/user/{userId}
func (h *Handler) ListUserTransactions(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	userID, err := pathUUID(r, "userId")
	if err != nil {
		writeError(w, http.StatusBadRequest, service.ErrCodeValidation, err.Error())
		return
	}

	txns, err := h.transferService.ListUserTransactions(r.Context(), actor, userID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, txns)
}

// ListRates handles GET /rates
func (h *Handler) ListRates(w http.ResponseWriter, r *http.Request) {
	rates, err := h.rateService.Rates(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, rates)
}
