package http

import (
	"encoding/json"
	"net/http"

	"holidays/internal/core"
	"holidays/internal/log"
)

type categoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.repo.ListCategories(r.Context())
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Category list failed",
			log.FieldError, err.Error(), log.FieldOperation, log.OpList)
		errorJSON(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	views := make([]categoryView, 0, len(categories))
	for _, c := range categories {
		views = append(views, toCategoryView(c))
	}
	respondJSON(w, http.StatusOK, views)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	logger := log.FromContext(r.Context())

	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorsJSON(w, http.StatusBadRequest, "validation errors")
		return
	}

	category := core.Category{Name: req.Name, Description: req.Description}
	if err := category.Validate(); err != nil {
		logger.WarnContext(r.Context(), "Category rejected", log.FieldError, err.Error())
		errorsJSON(w, http.StatusBadRequest, "validation errors")
		return
	}

	created, err := s.repo.CreateCategory(r.Context(), category)
	if err != nil {
		logger.ErrorContext(r.Context(), "Category creation failed",
			log.FieldError, err.Error(), log.FieldOperation, log.OpCreate)
		errorJSON(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	logger.InfoContext(r.Context(), "Category created", log.FieldCategoryID, created.ID)
	respondJSON(w, http.StatusCreated, toCategoryView(created))
}
