package handler

import (
	"net/http"
	"time"

	groupdomain "github.com/malprimis/petanchiki/internal/domain/group"
)

type createGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type updateGroupRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type groupResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newGroupResponse(g *groupdomain.Group) groupResponse {
	return groupResponse{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		OwnerID:     g.OwnerID,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

func (h *Handlers) CreateGroup(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}

	var req createGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		invalidJSON(w)
		return
	}

	created, err := h.Groups.CreateGroup(r.Context(), actor, groupdomain.CreateInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.fail(w, r, "groups.create", err)
		return
	}
	writeJSON(w, http.StatusCreated, newGroupResponse(created))
}

func (h *Handlers) ListGroups(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}

	groups, err := h.Groups.ListGroups(r.Context(), actor)
	if err != nil {
		h.fail(w, r, "groups.list", err)
		return
	}

	response := make([]groupResponse, 0, len(groups))
	for i := range groups {
		response = append(response, newGroupResponse(&groups[i]))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) GetGroup(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}
	groupID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	found, err := h.Groups.GetGroup(r.Context(), actor, groupID)
	if err != nil {
		h.fail(w, r, "groups.get", err, "group_id", groupID)
		return
	}
	writeJSON(w, http.StatusOK, newGroupResponse(found))
}

func (h *Handlers) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}
	groupID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req updateGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		invalidJSON(w)
		return
	}

	updated, err := h.Groups.UpdateGroup(r.Context(), actor, groupID, groupdomain.UpdateInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.fail(w, r, "groups.update", err, "group_id", groupID)
		return
	}
	writeJSON(w, http.StatusOK, newGroupResponse(updated))
}

func (h *Handlers) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}
	groupID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.Groups.DeleteGroup(r.Context(), actor, groupID); err != nil {
		h.fail(w, r, "groups.delete", err, "group_id", groupID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
