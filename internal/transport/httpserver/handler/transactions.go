package handler

import (
	"net/http"
	"strings"
	"time"

	transactiondomain "github.com/malprimis/petanchiki/internal/domain/transaction"
	"github.com/shopspring/decimal"
)

type createTransactionRequest struct {
	GroupID     string          `json:"group_id"`
	CategoryID  string          `json:"category_id"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
}

type updateTransactionRequest struct {
	CategoryID  *string          `json:"category_id"`
	Amount      *decimal.Decimal `json:"amount"`
	Type        *string          `json:"type"`
	Description *string          `json:"description"`
	Date        *string          `json:"date"`
}

type transactionResponse struct {
	ID          string    `json:"id"`
	GroupID     string    `json:"group_id"`
	CategoryID  string    `json:"category_id"`
	UserID      string    `json:"user_id"`
	Amount      string    `json:"amount"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newTransactionResponse(t *transactiondomain.Transaction) transactionResponse {
	return transactionResponse{
		ID:          t.ID,
		GroupID:     t.GroupID,
		CategoryID:  t.CategoryID,
		UserID:      t.UserID,
		Amount:      t.Amount.StringFixed(2),
		Type:        string(t.Type),
		Description: t.Description,
		Date:        t.Date,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (h *Handlers) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}

	var req createTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		invalidJSON(w)
		return
	}
	groupID, err := parseUUID(req.GroupID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "group_id must be a uuid")
		return
	}
	categoryID, err := parseUUID(req.CategoryID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "category_id must be a uuid")
		return
	}
	kind, err := transactiondomain.ParseType(req.Type)
	if err != nil {
		h.fail(w, r, "transactions.create", err)
		return
	}
	date, err := parseTime(req.Date)
	if err != nil {
		h.fail(w, r, "transactions.create", transactiondomain.ErrInvalidDate)
		return
	}

	created, err := h.Transactions.Create(r.Context(), actor, transactiondomain.CreateInput{
		GroupID:     groupID,
		CategoryID:  categoryID,
		Amount:      req.Amount,
		Type:        kind,
		Description: strings.TrimSpace(req.Description),
		Date:        date,
	})
	if err != nil {
		h.fail(w, r, "transactions.create", err, "group_id", groupID)
		return
	}
	writeJSON(w, http.StatusCreated, newTransactionResponse(created))
}

func (h *Handlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	groupID, err := parseUUID(query.Get("group_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "group_id must be a uuid")
		return
	}
	userID, err := parseOptionalUUID(query.Get("user_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "user_id must be a uuid")
		return
	}
	categoryID, err := parseOptionalUUID(query.Get("category_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "category_id must be a uuid")
		return
	}
	from, to, err := parseRangeParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	skip, limit, err := parsePaging(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	filter := transactiondomain.ListFilter{
		UserID:     userID,
		CategoryID: categoryID,
		From:       from,
		To:         to,
		Offset:     skip,
		Limit:      limit,
	}
	if raw := strings.TrimSpace(query.Get("type")); raw != "" {
		kind, err := transactiondomain.ParseType(raw)
		if err != nil {
			h.fail(w, r, "transactions.list", err)
			return
		}
		filter.Type = kind
	}

	transactions, err := h.Transactions.List(r.Context(), actor, groupID, filter)
	if err != nil {
		h.fail(w, r, "transactions.list", err, "group_id", groupID)
		return
	}

	response := make([]transactionResponse, 0, len(transactions))
	for i := range transactions {
		response = append(response, newTransactionResponse(&transactions[i]))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) GetTransaction(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}
	transactionID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	found, err := h.Transactions.Get(r.Context(), actor, transactionID)
	if err != nil {
		h.fail(w, r, "transactions.get", err, "transaction_id", transactionID)
		return
	}
	writeJSON(w, http.StatusOK, newTransactionResponse(found))
}

func (h *Handlers) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}
	transactionID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req updateTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		invalidJSON(w)
		return
	}

	input := transactiondomain.UpdateInput{
		Amount:      req.Amount,
		Description: req.Description,
	}
	if req.CategoryID != nil {
		categoryID, err := parseUUID(*req.CategoryID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "category_id must be a uuid")
			return
		}
		input.CategoryID = &categoryID
	}
	if req.Type != nil {
		kind, err := transactiondomain.ParseType(*req.Type)
		if err != nil {
			h.fail(w, r, "transactions.update", err)
			return
		}
		input.Type = &kind
	}
	if req.Date != nil {
		date, err := parseTime(*req.Date)
		if err != nil {
			h.fail(w, r, "transactions.update", transactiondomain.ErrInvalidDate)
			return
		}
		input.Date = &date
	}

	updated, err := h.Transactions.Update(r.Context(), actor, transactionID, input)
	if err != nil {
		h.fail(w, r, "transactions.update", err, "transaction_id", transactionID)
		return
	}
	writeJSON(w, http.StatusOK, newTransactionResponse(updated))
}

func (h *Handlers) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}
	transactionID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.Transactions.Delete(r.Context(), actor, transactionID); err != nil {
		h.fail(w, r, "transactions.delete", err, "transaction_id", transactionID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
