package handler

import (
	"net/http"
	"strings"
	"time"

	groupdomain "github.com/malprimis/petanchiki/internal/domain/group"
)

type addMemberRequest struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

type changeRoleRequest struct {
	Role string `json:"role"`
}

type memberResponse struct {
	ID       string    `json:"id"`
	GroupID  string    `json:"group_id"`
	UserID   string    `json:"user_id"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

func newMemberResponse(m *groupdomain.Membership) memberResponse {
	return memberResponse{
		ID:       m.ID,
		GroupID:  m.GroupID,
		UserID:   m.UserID,
		Role:     string(m.Role),
		JoinedAt: m.JoinedAt,
	}
}

func newMemberResponses(memberships []groupdomain.Membership) []memberResponse {
	response := make([]memberResponse, 0, len(memberships))
	for i := range memberships {
		response = append(response, newMemberResponse(&memberships[i]))
	}
	return response
}

func (h *Handlers) ListMembers(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}
	groupID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	includeInactive, err := parseBoolParam(r.URL.Query().Get("include_inactive"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "include_inactive must be a boolean")
		return
	}

	members, err := h.Groups.ListMembers(r.Context(), actor, groupID, includeInactive)
	if err != nil {
		h.fail(w, r, "members.list", err, "group_id", groupID)
		return
	}
	writeJSON(w, http.StatusOK, newMemberResponses(members))
}

func (h *Handlers) AddMember(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}
	groupID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req addMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		invalidJSON(w)
		return
	}
	targetID, err := parseOptionalUUID(req.UserID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "user_id must be a uuid")
		return
	}
	role, err := groupdomain.ParseRole(req.Role)
	if err != nil {
		h.fail(w, r, "members.add", err, "group_id", groupID)
		return
	}

	created, err := h.Groups.AddMemberAs(r.Context(), actor, groupID, groupdomain.MemberTarget{
		UserID: targetID,
		Email:  strings.TrimSpace(req.Email),
	}, role)
	if err != nil {
		h.fail(w, r, "members.add", err, "group_id", groupID)
		return
	}
	writeJSON(w, http.StatusCreated, newMemberResponse(created))
}

func (h *Handlers) ChangeMemberRole(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}
	groupID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	userID, ok := pathID(w, r, "user_id")
	if !ok {
		return
	}

	var req changeRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		invalidJSON(w)
		return
	}
	if strings.TrimSpace(req.Role) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "role is required")
		return
	}
	role, err := groupdomain.ParseRole(req.Role)
	if err != nil {
		h.fail(w, r, "members.role", err, "group_id", groupID)
		return
	}

	updated, err := h.Groups.ChangeRoleAs(r.Context(), actor, groupID, userID, role)
	if err != nil {
		h.fail(w, r, "members.role", err, "group_id", groupID, "target_id", userID)
		return
	}
	writeJSON(w, http.StatusOK, newMemberResponse(updated))
}

func (h *Handlers) RemoveMember(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}
	groupID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	userID, ok := pathID(w, r, "user_id")
	if !ok {
		return
	}

	if err := h.Groups.RemoveMemberAs(r.Context(), actor, groupID, userID); err != nil {
		h.fail(w, r, "members.remove", err, "group_id", groupID, "target_id", userID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
