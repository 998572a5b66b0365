package handlers

import (
	"net/http"
	"time"

	"github.com/benx421/digital-bank/internal/middleware"
	"github.com/benx421/digital-bank/internal/models"
	"github.com/benx421/digital-bank/internal/service"
)

type signupRequest struct {
	Email     string      `json:"email"`
	Password  string      `json:"password"`
	Role      models.Role `json:"role"`
	Firstname string      `json:"firstname"`
	Lastname  string      `json:"lastname"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Signup handles POST /auth/signup
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, service.ErrCodeValidation, err.Error())
		return
	}

	result, err := h.authService.Signup(r.Context(), service.SignupInput{
		Email:     req.Email,
		Password:  req.Password,
		Role:      req.Role,
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.setAuthCookies(w, result)
	writeJSON(w, http.StatusCreated, result)
}

// Login handles POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, service.ErrCodeValidation, err.Error())
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.setAuthCookies(w, result)
	writeJSON(w, http.StatusOK, result)
}

// Logout handles POST /auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.authService.Logout(r.Context(), middleware.BearerToken(r, middleware.AccessTokenCookie)); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.clearAuthCookies(w)
	w.WriteHeader(http.StatusNoContent)
}

// Refresh handles POST /auth/refresh
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	token := middleware.BearerToken(r, middleware.RefreshTokenCookie)
	if token == "" {
		var req refreshRequest
		if err := decodeJSON(w, r, &req); err == nil {
			token = req.RefreshToken
		}
	}

	result, err := h.authService.Refresh(r.Context(), token)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.setAuthCookies(w, result)
	writeJSON(w, http.StatusOK, result)
}

// GetSignupStatus handles GET /auth/signup-status
func (h *Handler) GetSignupStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.authService.SignupStatus(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, status)
}

func (h *Handler) setAuthCookies(w http.ResponseWriter, result *service.AuthResult) {
	http.SetCookie(w, h.cookie(middleware.AccessTokenCookie, result.AccessToken, result.AccessExpiresAt))
	http.SetCookie(w, h.cookie(middleware.RefreshTokenCookie, result.RefreshToken, result.RefreshExpiresAt))
}

func (h *Handler) clearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{middleware.AccessTokenCookie, middleware.RefreshTokenCookie} {
		c := h.cookie(name, "", time.Unix(0, 0))
		c.MaxAge = -1
		http.SetCookie(w, c)
	}
}

func (h *Handler) cookie(name, value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}
