package http

import (
	"errors"
	"net/http"

	"github.com/paperloop/paperloop/internal/identity/domain"
	"github.com/paperloop/paperloop/internal/identity/service"
	"github.com/paperloop/paperloop/internal/identity/store"
	"github.com/paperloop/paperloop/pkg/httpx"
)

// UsersHandler serves the self-service profile endpoints under /v1/users.
// The path id may be the literal "me" for the authenticated user.
type UsersHandler struct {
	Users *service.UserService
	Auth  *service.AuthService
}

// resolveID expands "me" into the principal's id. The second return is the
// principal itself, which is always present behind RequireAuthenticated.
func resolveID(r *http.Request) (string, httpx.Principal) {
	p, _ := httpx.PrincipalFromContext(r.Context())
	id := r.PathValue("id")
	if id == "me" {
		id = p.ID
	}
	return id, p
}

func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, _ := resolveID(r)

	user, err := h.Users.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.WriteError(w, http.StatusNotFound, domain.MsgNotFound)
			return
		}
		writeServerError(w, r, "get user failed", err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, newUserResponse(user))
}

type profileRequest struct {
	Username  string `json:"username" validate:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Update only ever edits the caller's own profile. A different id is a
// permission error even when the target exists.
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, p := resolveID(r)
	if id != p.ID {
		httpx.WriteError(w, http.StatusForbidden, httpx.MsgNotAllowed)
		return
	}

	var req profileRequest
	if !decodeValid(w, r, &req) {
		return
	}

	user, err := h.Users.UpdateProfile(r.Context(), id, service.ProfileInput{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrUsernameExists):
			httpx.WriteFieldErrors(w, http.StatusBadRequest, map[string]string{"username": domain.MsgUsernameExists})
		case errors.Is(err, store.ErrNotFound):
			httpx.WriteError(w, http.StatusNotFound, domain.MsgNotFound)
		default:
			writeServerError(w, r, "update profile failed", err)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, newUserResponse(user))
}

type changePasswordRequest struct {
	OldPassword    string `json:"old_password" validate:"required"`
	Password       string `json:"password" validate:"required"`
	PasswordRepeat string `json:"password_repeat" validate:"required"`
}

func (h *UsersHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	id, p := resolveID(r)
	if id != p.ID {
		httpx.WriteError(w, http.StatusForbidden, httpx.MsgNotAllowed)
		return
	}

	var req changePasswordRequest
	if !decodeValid(w, r, &req) {
		return
	}

	err := h.Auth.ChangePassword(r.Context(), id, req.OldPassword, req.Password, req.PasswordRepeat)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPasswordIsWrong):
			httpx.WriteFieldErrors(w, http.StatusBadRequest, map[string]string{"old_password": domain.MsgPasswordIsWrong})
		case errors.Is(err, service.ErrPasswordTheSame):
			httpx.WriteFieldErrors(w, http.StatusBadRequest, map[string]string{"password": domain.MsgPasswordTheSame})
		case errors.Is(err, service.ErrPasswordNoMatch):
			httpx.WriteFieldErrors(w, http.StatusBadRequest, map[string]string{"password_repeat": domain.MsgPasswordNoMatch})
		case errors.Is(err, service.ErrWeakPassword):
			httpx.WriteFieldErrors(w, http.StatusBadRequest, map[string]string{"password": domain.MsgWeakPassword})
		default:
			writeServerError(w, r, "change password failed", err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
