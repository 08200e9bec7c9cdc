package http

import (
	"errors"
	"net/http"

	"github.com/paperloop/paperloop/internal/identity/domain"
	"github.com/paperloop/paperloop/internal/identity/service"
	"github.com/paperloop/paperloop/internal/identity/store"
	"github.com/paperloop/paperloop/pkg/httpx"
	"github.com/paperloop/paperloop/pkg/slogx"
)

// AuthHandler serves the account lifecycle endpoints under /v1/auth.
type AuthHandler struct {
	Auth *service.AuthService
}

type signupRequest struct {
	Username  string `json:"username" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !decodeValid(w, r, &req) {
		return
	}

	user, err := h.Auth.Signup(r.Context(), service.SignupInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrUsernameExists):
			httpx.WriteFieldErrors(w, http.StatusBadRequest, map[string]string{"username": domain.MsgUsernameExists})
		case errors.Is(err, store.ErrEmailExists):
			httpx.WriteFieldErrors(w, http.StatusBadRequest, map[string]string{"email": domain.MsgEmailExists})
		case errors.Is(err, service.ErrWeakPassword):
			httpx.WriteFieldErrors(w, http.StatusBadRequest, map[string]string{"password": domain.MsgWeakPassword})
		default:
			writeServerError(w, r, "signup failed", err)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, map[string]string{
		"username": user.Username,
		"email":    user.Email,
	})
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeValid(w, r, &req) {
		return
	}

	_, token, err := h.Auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWrongCredentials):
			httpx.WriteError(w, http.StatusBadRequest, domain.MsgWrongCredentials)
		case errors.Is(err, service.ErrUserDeactivated):
			httpx.WriteError(w, http.StatusBadRequest, domain.MsgUserDeactivated)
		default:
			writeServerError(w, r, "login failed", err)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := httpx.TokenFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusForbidden, httpx.MsgNotAuthenticated)
		return
	}

	if err := h.Auth.Logout(r.Context(), token); err != nil {
		if isTokenError(err) {
			writeTokenError(w, err)
			return
		}
		writeServerError(w, r, "logout failed", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) Activate(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		httpx.WriteFieldErrors(w, http.StatusBadRequest, map[string]string{"token": domain.MsgFieldRequired})
		return
	}

	user, err := h.Auth.Activate(r.Context(), token)
	if err != nil {
		if isTokenError(err) {
			writeTokenError(w, err)
			return
		}
		writeServerError(w, r, "activation failed", err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"username":  user.Username,
		"is_active": user.IsActive,
	})
}

type passwordResetRequest struct {
	Username string `json:"username" validate:"required"`
}

// PasswordReset always answers 204 so the endpoint cannot be used to probe
// which usernames exist.
func (h *AuthHandler) PasswordReset(w http.ResponseWriter, r *http.Request) {
	var req passwordResetRequest
	if !decodeValid(w, r, &req) {
		return
	}

	if err := h.Auth.RequestPasswordReset(r.Context(), req.Username); err != nil && !errors.Is(err, store.ErrNotFound) {
		writeServerError(w, r, "password reset failed", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type passwordSetupRequest struct {
	Token          string `json:"token" validate:"required"`
	Password       string `json:"password" validate:"required"`
	PasswordRepeat string `json:"password_repeat" validate:"required"`
}

func (h *AuthHandler) PasswordSetup(w http.ResponseWriter, r *http.Request) {
	var req passwordSetupRequest
	if !decodeValid(w, r, &req) {
		return
	}

	_, err := h.Auth.SetupPassword(r.Context(), req.Token, req.Password, req.PasswordRepeat)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPasswordNoMatch):
			httpx.WriteFieldErrors(w, http.StatusBadRequest, map[string]string{"password_repeat": domain.MsgPasswordNoMatch})
		case errors.Is(err, service.ErrWeakPassword):
			httpx.WriteFieldErrors(w, http.StatusBadRequest, map[string]string{"password": domain.MsgWeakPassword})
		case isTokenError(err):
			writeTokenError(w, err)
		default:
			writeServerError(w, r, "password setup failed", err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func isTokenError(err error) bool {
	return errors.Is(err, service.ErrInvalidToken) ||
		errors.Is(err, service.ErrInvalidTokenAction) ||
		errors.Is(err, service.ErrInvalidTokenUser)
}

func writeTokenError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidTokenAction):
		httpx.WriteError(w, http.StatusBadRequest, domain.MsgInvalidTokenAction)
	case errors.Is(err, service.ErrInvalidTokenUser):
		httpx.WriteError(w, http.StatusBadRequest, domain.MsgInvalidTokenUser)
	default:
		httpx.WriteError(w, http.StatusBadRequest, domain.MsgInvalidToken)
	}
}

func writeServerError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	slogx.FromContext(r.Context()).Error(msg, "err", err)
	httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
}
