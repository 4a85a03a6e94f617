package handler

import (
	"net/http"
	"time"

	reportdomain "github.com/malprimis/petanchiki/internal/domain/report"
)

type breakdownResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Income  string `json:"income"`
	Expense string `json:"expense"`
	Count   int64  `json:"count"`
}

type reportResponse struct {
	GroupID      string              `json:"group_id"`
	DateFrom     *time.Time          `json:"date_from"`
	DateTo       *time.Time          `json:"date_to"`
	TotalIncome  string              `json:"total_income"`
	TotalExpense string              `json:"total_expense"`
	Balance      string              `json:"balance"`
	Count        int64               `json:"count"`
	ByCategory   []breakdownResponse `json:"by_category"`
	ByUser       []breakdownResponse `json:"by_user"`
}

func newBreakdownResponses(rows []reportdomain.Breakdown) []breakdownResponse {
	response := make([]breakdownResponse, 0, len(rows))
	for _, row := range rows {
		response = append(response, breakdownResponse{
			ID:      row.ID,
			Name:    row.Name,
			Income:  row.Income.StringFixed(2),
			Expense: row.Expense.StringFixed(2),
			Count:   row.Count,
		})
	}
	return response
}

func (h *Handlers) GroupReport(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}
	groupID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	from, to, err := parseRangeParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	byCategory, err := parseBoolParam(r.URL.Query().Get("by_category"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "by_category must be a boolean")
		return
	}
	byUser, err := parseBoolParam(r.URL.Query().Get("by_user"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "by_user must be a boolean")
		return
	}

	summary, err := h.Reports.Summary(r.Context(), actor, groupID, reportdomain.Filter{
		From:       from,
		To:         to,
		ByCategory: byCategory,
		ByUser:     byUser,
	})
	if err != nil {
		h.fail(w, r, "reports.summary", err, "group_id", groupID)
		return
	}

	writeJSON(w, http.StatusOK, reportResponse{
		GroupID:      summary.GroupID,
		DateFrom:     summary.From,
		DateTo:       summary.To,
		TotalIncome:  summary.TotalIncome.StringFixed(2),
		TotalExpense: summary.TotalExpense.StringFixed(2),
		Balance:      summary.Balance.StringFixed(2),
		Count:        summary.Count,
		ByCategory:   newBreakdownResponses(summary.ByCategory),
		ByUser:       newBreakdownResponses(summary.ByUser),
	})
}
