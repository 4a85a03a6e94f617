package handler

import (
	"encoding/json"
	"net/http"
	"time"

	categorydomain "github.com/malprimis/petanchiki/internal/domain/category"
)

type createCategoryRequest struct {
	Name string  `json:"name"`
	Icon *string `json:"icon"`
}

type updateCategoryRequest struct {
	Name *string                `json:"name"`
	Icon optionalNullableString `json:"icon"`
}

// optionalNullableString tells an absent field apart from an explicit null.
type optionalNullableString struct {
	Set   bool
	Value *string
}

func (o *optionalNullableString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}

	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	o.Value = &value
	return nil
}

type categoryResponse struct {
	ID        string    `json:"id"`
	GroupID   string    `json:"group_id"`
	Name      string    `json:"name"`
	Icon      *string   `json:"icon"`
	CreatedAt time.Time `json:"created_at"`
}

func newCategoryResponse(c *categorydomain.Category) categoryResponse {
	return categoryResponse{
		ID:        c.ID,
		GroupID:   c.GroupID,
		Name:      c.Name,
		Icon:      c.Icon,
		CreatedAt: c.CreatedAt,
	}
}

func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}
	groupID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	categories, err := h.Categories.List(r.Context(), actor, groupID)
	if err != nil {
		h.fail(w, r, "categories.list", err, "group_id", groupID)
		return
	}

	response := make([]categoryResponse, 0, len(categories))
	for i := range categories {
		response = append(response, newCategoryResponse(&categories[i]))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) CreateCategory(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}
	groupID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req createCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		invalidJSON(w)
		return
	}

	created, err := h.Categories.Create(r.Context(), actor, groupID, categorydomain.CreateInput{
		Name: req.Name,
		Icon: req.Icon,
	})
	if err != nil {
		h.fail(w, r, "categories.create", err, "group_id", groupID)
		return
	}
	writeJSON(w, http.StatusCreated, newCategoryResponse(created))
}

func (h *Handlers) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}
	categoryID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req updateCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		invalidJSON(w)
		return
	}

	updated, err := h.Categories.Update(r.Context(), actor, categoryID, categorydomain.UpdateInput{
		Name: req.Name,
		Icon: categorydomain.OptionalNullableString{Set: req.Icon.Set, Value: req.Icon.Value},
	})
	if err != nil {
		h.fail(w, r, "categories.update", err, "category_id", categoryID)
		return
	}
	writeJSON(w, http.StatusOK, newCategoryResponse(updated))
}

func (h *Handlers) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}
	categoryID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.Categories.Delete(r.Context(), actor, categoryID); err != nil {
		h.fail(w, r, "categories.delete", err, "category_id", categoryID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
