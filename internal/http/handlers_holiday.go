package http

import (
	"encoding/json"
	"net/http"

	"holidays/internal/core"
	"holidays/internal/log"
)

type holidayRequest struct {
	Name        string `json:"name"`
	Duration    int    `json:"duration"`
	Description string `json:"description"`
}

func (s *Server) handleListHolidays(w http.ResponseWriter, r *http.Request) {
	holidays, err := s.repo.ListHolidays(r.Context())
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Holiday list failed",
			log.FieldError, err.Error(), log.FieldOperation, log.OpList)
		errorJSON(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	views := make([]holidayView, 0, len(holidays))
	for _, h := range holidays {
		views = append(views, toHolidayView(h))
	}
	respondJSON(w, http.StatusOK, views)
}

func (s *Server) handleCreateHoliday(w http.ResponseWriter, r *http.Request) {
	logger := log.FromContext(r.Context())

	var req holidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorsJSON(w, http.StatusBadRequest, "validation errors")
		return
	}

	holiday := core.Holiday{Name: req.Name, Duration: req.Duration, Description: req.Description}
	if err := holiday.Validate(); err != nil {
		logger.WarnContext(r.Context(), "Holiday rejected", log.FieldError, err.Error())
		errorsJSON(w, http.StatusBadRequest, "validation errors")
		return
	}

	created, err := s.repo.CreateHoliday(r.Context(), holiday)
	if err != nil {
		logger.ErrorContext(r.Context(), "Holiday creation failed",
			log.FieldError, err.Error(), log.FieldOperation, log.OpCreate)
		errorJSON(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	logger.InfoContext(r.Context(), "Holiday created", log.FieldHolidayID, created.ID)
	respondJSON(w, http.StatusCreated, toHolidayView(created))
}
