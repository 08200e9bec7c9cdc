package http

import (
	"encoding/csv"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/paperloop/paperloop/internal/identity/domain"
	"github.com/paperloop/paperloop/internal/identity/service"
	"github.com/paperloop/paperloop/internal/identity/store"
	"github.com/paperloop/paperloop/pkg/httpx"
)

const defaultPageSize = 10

// AdminHandler serves the staff-only account administration endpoints under
// /v1/admin/users. All routes sit behind RequireStaff.
type AdminHandler struct {
	Users *service.UserService
}

func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, offset := pageParams(q, defaultPageSize)

	filter := store.UserFilter{
		Username:  q.Get("username"),
		Email:     q.Get("email"),
		FirstName: q.Get("first_name"),
		LastName:  q.Get("last_name"),
		Limit:     limit,
		Offset:    offset,
	}
	if ordering := q.Get("ordering"); ordering != "" {
		filter.Order = strings.Split(ordering, ",")
	}

	if q.Get("format") == "csv" {
		// Export ignores pagination; staff want the whole filtered set.
		filter.Limit = -1
		filter.Offset = 0
		h.exportCSV(w, r, filter)
		return
	}

	users, total, err := h.Users.List(r.Context(), filter)
	if err != nil {
		writeServerError(w, r, "list users failed", err)
		return
	}

	results := make([]UserResponse, 0, len(users))
	for _, u := range users {
		results = append(results, newUserResponse(u))
	}
	httpx.WriteJSON(w, http.StatusOK, newPageResponse(r, results, total, limit, offset))
}

func (h *AdminHandler) exportCSV(w http.ResponseWriter, r *http.Request, filter store.UserFilter) {
	users, _, err := h.Users.List(r.Context(), filter)
	if err != nil {
		writeServerError(w, r, "export users failed", err)
		return
	}

	httpx.NoCache(w)
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="users.csv"`)

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"id", "username", "email", "first_name", "last_name", "is_active", "is_staff", "created_at"})
	for _, u := range users {
		_ = cw.Write([]string{
			u.ID,
			u.Username,
			u.Email,
			u.FirstName,
			u.LastName,
			strconv.FormatBool(u.IsActive),
			strconv.FormatBool(u.IsStaff),
			u.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	cw.Flush()
}

type adminCreateRequest struct {
	Username  string `json:"username" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsStaff   bool   `json:"is_staff"`
}

func (h *AdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req adminCreateRequest
	if !decodeValid(w, r, &req) {
		return
	}

	user, err := h.Users.AdminCreate(r.Context(), service.AdminCreateInput{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IsStaff:   req.IsStaff,
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrUsernameExists):
			httpx.WriteFieldErrors(w, http.StatusBadRequest, map[string]string{"username": domain.MsgUsernameExists})
		case errors.Is(err, store.ErrEmailExists):
			httpx.WriteFieldErrors(w, http.StatusBadRequest, map[string]string{"email": domain.MsgEmailExists})
		default:
			writeServerError(w, r, "create user failed", err)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, newUserResponse(user))
}

func (h *AdminHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.Users.Get(r.Context(), r.PathValue("id"))
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

type adminUpdateRequest struct {
	Username  string `json:"username" validate:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsActive  *bool  `json:"is_active"`
	IsStaff   *bool  `json:"is_staff"`
}

func (h *AdminHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req adminUpdateRequest
	if !decodeValid(w, r, &req) {
		return
	}

	user, err := h.Users.AdminUpdate(r.Context(), r.PathValue("id"), service.AdminUpdateInput{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IsActive:  req.IsActive,
		IsStaff:   req.IsStaff,
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			httpx.WriteError(w, http.StatusNotFound, domain.MsgNotFound)
		case errors.Is(err, store.ErrUsernameExists):
			httpx.WriteFieldErrors(w, http.StatusBadRequest, map[string]string{"username": domain.MsgUsernameExists})
		default:
			writeServerError(w, r, "update user failed", err)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, newUserResponse(user))
}

// Delete soft deletes: the row is kept, the account is deactivated.
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Users.Deactivate(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.WriteError(w, http.StatusNotFound, domain.MsgNotFound)
			return
		}
		writeServerError(w, r, "deactivate user failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
