package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"holidays/internal/core"
	"holidays/internal/log"
)

type expenseRequest struct {
	ID         int64   `json:"id"`
	Amount     float64 `json:"amount"`
	Date       string  `json:"date"`
	Note       string  `json:"note"`
	HolidayID  int64   `json:"holiday_id"`
	CategoryID int64   `json:"category_id"`
}

// expenseID resolves the target id from the path, falling back to the body
// for clients that still send it there.
func expenseID(r *http.Request, body expenseRequest) (int64, bool) {
	if v := r.PathValue("id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		return id, err == nil && id > 0
	}
	return body.ID, body.ID > 0
}

// handleCreateExpense records an expense for the signed-in user. The owner
// always comes from the session, never from the payload.
func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	logger := log.FromContext(r.Context()).WithComponent(log.ComponentExpense)

	userID, ok := currentUserID(r)
	if !ok {
		errorJSON(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorsJSON(w, http.StatusBadRequest, "validation errors")
		return
	}

	created, err := s.expenses.Create(r.Context(), core.Expense{
		Amount:     req.Amount,
		Date:       req.Date,
		Note:       req.Note,
		UserID:     userID,
		HolidayID:  req.HolidayID,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		if core.IsValidation(err) {
			logger.WarnContext(r.Context(), "Expense rejected",
				log.FieldError, err.Error(), log.FieldUserID, userID, log.FieldOperation, log.OpCreate)
			errorsJSON(w, http.StatusBadRequest, "validation errors")
			return
		}
		logger.ErrorContext(r.Context(), "Expense creation failed",
			log.FieldError, err.Error(), log.FieldUserID, userID, log.FieldOperation, log.OpCreate)
		errorJSON(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusCreated, toExpenseView(created))
}

// handleUpdateExpense rewrites amount, date and note of an owned expense.
// Someone else's expense looks exactly like a missing one: 404.
func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	logger := log.FromContext(r.Context()).WithComponent(log.ComponentExpense)

	userID, ok := currentUserID(r)
	if !ok {
		errorJSON(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorsJSON(w, http.StatusBadRequest, "validation errors")
		return
	}

	id, ok := expenseID(r, req)
	if !ok {
		errorJSON(w, http.StatusNotFound, "Expense not found")
		return
	}

	updated, err := s.expenses.Update(r.Context(), userID, core.Expense{
		ID:     id,
		Amount: req.Amount,
		Date:   req.Date,
		Note:   req.Note,
	})
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			errorJSON(w, http.StatusNotFound, "Expense not found")
		case core.IsValidation(err):
			errorsJSON(w, http.StatusBadRequest, "validation errors")
		default:
			logger.ErrorContext(r.Context(), "Expense update failed",
				log.FieldError, err.Error(), log.FieldExpenseID, id, log.FieldOperation, log.OpUpdate)
			errorJSON(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondJSON(w, http.StatusAccepted, toExpenseView(updated))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	logger := log.FromContext(r.Context()).WithComponent(log.ComponentExpense)

	userID, ok := currentUserID(r)
	if !ok {
		errorJSON(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req expenseRequest
	if r.Body != nil {
		// Body is optional on DELETE; ignore decode failures.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	id, ok := expenseID(r, req)
	if !ok {
		errorJSON(w, http.StatusNotFound, "Expense not found")
		return
	}

	if err := s.expenses.Delete(r.Context(), userID, id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			errorJSON(w, http.StatusNotFound, "Expense not found")
			return
		}
		logger.ErrorContext(r.Context(), "Expense deletion failed",
			log.FieldError, err.Error(), log.FieldExpenseID, id, log.FieldOperation, log.OpDelete)
		errorJSON(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
