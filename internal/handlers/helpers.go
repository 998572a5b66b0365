package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/benx421/digital-bank/internal/middleware"
	"github.com/benx421/digital-bank/internal/models"
	"github.com/benx421/digital-bank/internal/service"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	//nolint:errcheck // Nothing useful to do if the client went away
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{StatusCode: status, Error: code, Message: message})
}

// decodeJSON reads a JSON request body into dst
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("request body is required")
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func statusForCode(code string) int {
	switch code {
	case service.ErrCodeValidation,
		service.ErrCodeInvalidAmount,
		service.ErrCodeInvalidCurrency,
		service.ErrCodeInvalidAccountNumber,
		service.ErrCodeSelfTransfer:
		return http.StatusBadRequest
	case service.ErrCodeUnauthenticated, service.ErrCodeInvalidCredentials:
		return http.StatusUnauthorized
	case service.ErrCodeForbidden, service.ErrCodeNotOwner:
		return http.StatusForbidden
	case service.ErrCodeAccountNotFound,
		service.ErrCodeDestinationNotFound,
		service.ErrCodeUserNotFound:
		return http.StatusNotFound
	case service.ErrCodeDuplicateAccount,
		service.ErrCodeEmailTaken,
		service.ErrCodeInvalidState,
		service.ErrCodeAccountNotActive,
		service.ErrCodeIdempotencyKeyReused:
		return http.StatusConflict
	case service.ErrCodeInsufficientFunds, service.ErrCodeRateNotFound:
		return http.StatusUnprocessableEntity
	case service.ErrCodeSignupCooldown:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// handleServiceError maps service errors to appropriate HTTP responses.
// Internal details are logged, never returned.
func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var svcErr *service.ServiceError
	if !errors.As(err, &svcErr) {
		svcErr = &service.ServiceError{Code: service.ErrCodeInternalError, Err: err}
	}

	status := statusForCode(svcErr.Code)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			"error", err,
			"code", svcErr.Code,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.RequestIDFrom(r.Context()),
		)
		message := "internal error"
		if svcErr.Code == service.ErrCodeTransferFailed {
			message = svcErr.Message
		}
		writeError(w, status, svcErr.Code, message)
		return
	}

	writeError(w, status, svcErr.Code, svcErr.Message)
}

// actor returns the authenticated caller placed in the context by middleware.Authenticate
func (h *Handler) actor(w http.ResponseWriter, r *http.Request) (service.Actor, bool) {
	actor, ok := middleware.ActorFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, service.ErrCodeUnauthenticated, "missing access token")
	}
	return actor, ok
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	var id uuid.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, r.PathValue(name), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid format for parameter %s: must be a UUID", name)
	}
	return id, nil
}

func queryString(r *http.Request, name string) (string, error) {
	var value string
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &value); err != nil {
		return "", fmt.Errorf("invalid format for parameter %s", name)
	}
	return value, nil
}

func pageRequest(r *http.Request) (models.PageRequest, error) {
	var page models.PageRequest
	if err := runtime.BindQueryParameter("form", true, false, "page", r.URL.Query(), &page.Page); err != nil {
		return page, fmt.Errorf("invalid format for parameter page: must be an integer")
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &page.Limit); err != nil {
		return page, fmt.Errorf("invalid format for parameter limit: must be an integer")
	}
	return page.Normalize(), nil
}

func errInvalidParam(name, reason string) error {
	return fmt.Errorf("invalid format for parameter %s: %s", name, reason)
}
