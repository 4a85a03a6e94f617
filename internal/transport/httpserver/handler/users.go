package handler

import (
	"net/http"
	"time"

	userdomain "github.com/malprimis/petanchiki/internal/domain/user"
	"github.com/malprimis/petanchiki/internal/transport/httpserver/middleware"
)

type userResponse struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	IsAdmin   bool       `json:"is_admin"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at"`
}

type updateUserRequest struct {
	Name     *string `json:"name"`
	Password *string `json:"password"`
}

func newUserResponse(u *userdomain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		IsAdmin:   u.IsAdmin,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
		DeletedAt: u.DeletedAt,
	}
}

func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	current, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	writeJSON(w, http.StatusOK, newUserResponse(current))
}

func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}
	skip, limit, err := parsePaging(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	users, err := h.Users.List(r.Context(), actor, skip, limit)
	if err != nil {
		h.fail(w, r, "users.list", err)
		return
	}

	response := make([]userResponse, 0, len(users))
	for i := range users {
		response = append(response, newUserResponse(&users[i]))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) GetUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}
	userID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	found, err := h.Users.Get(r.Context(), actor, userID)
	if err != nil {
		h.fail(w, r, "users.get", err, "target_id", userID)
		return
	}
	writeJSON(w, http.StatusOK, newUserResponse(found))
}

func (h *Handlers) UpdateUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}
	userID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		invalidJSON(w)
		return
	}

	updated, err := h.Users.Update(r.Context(), actor, userID, userdomain.UpdateInput{
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		h.fail(w, r, "users.update", err, "target_id", userID)
		return
	}
	writeJSON(w, http.StatusOK, newUserResponse(updated))
}

func (h *Handlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}
	userID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.Users.Delete(r.Context(), actor, userID); err != nil {
		h.fail(w, r, "users.delete", err, "target_id", userID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ListUserMemberships(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}
	userID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	memberships, err := h.Groups.ListMembershipHistory(r.Context(), actor, userID)
	if err != nil {
		h.fail(w, r, "users.memberships", err, "target_id", userID)
		return
	}
	writeJSON(w, http.StatusOK, newMemberResponses(memberships))
}
