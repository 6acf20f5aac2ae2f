package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"holidays/internal/auth"
	"holidays/internal/core"
	"holidays/internal/log"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Age      int    `json:"age"`
}

// handleSignup registers a user and signs them in. Field errors come back
// 422 with an errors list; a taken username is also 422.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	logger := log.FromContext(r.Context()).WithComponent(log.ComponentAuth)

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorsJSON(w, http.StatusUnprocessableEntity, "Username and password are required")
		return
	}

	creds := core.Credentials{Username: req.Username, Password: req.Password}
	if err := creds.Validate(); err != nil {
		errorsJSON(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		logger.ErrorContext(r.Context(), "Password hashing failed", log.FieldError, err.Error())
		errorJSON(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	user, err := s.repo.CreateUser(r.Context(), core.User{
		Username:     req.Username,
		Name:         req.Name,
		Age:          req.Age,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, core.ErrConflict) {
			errorsJSON(w, http.StatusUnprocessableEntity, "Username must be unique")
			return
		}
		logger.ErrorContext(r.Context(), "User creation failed", log.FieldError, err.Error())
		errorJSON(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	token, err := s.sessions.Create(r.Context(), user.ID)
	if err != nil {
		logger.ErrorContext(r.Context(), "Session creation failed", log.FieldError, err.Error(), log.FieldUserID, user.ID)
		errorJSON(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	s.setSessionCookie(w, token)

	logger.InfoContext(r.Context(), "User signed up",
		log.FieldUserID, user.ID, log.FieldUsername, user.Username, log.FieldOperation, log.OpSignup)

	// A fresh user has no expenses; the profile is the user plus empty lists.
	respondJSON(w, http.StatusCreated, toProfileView(core.Profile{
		User:       user,
		Holidays:   []core.HolidayWithExpenses{},
		Categories: []core.CategoryWithExpenses{},
	}))
}

// handleLogin authenticates and returns the full profile. Unknown users and
// wrong passwords are indistinguishable to the caller.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	logger := log.FromContext(r.Context()).WithComponent(log.ComponentAuth)

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorJSON(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	user, err := s.repo.GetUserByUsername(r.Context(), req.Username)
	if err != nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		logger.WarnContext(r.Context(), "Login rejected", log.FieldUsername, req.Username, log.FieldOperation, log.OpLogin)
		errorJSON(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	token, err := s.sessions.Create(r.Context(), user.ID)
	if err != nil {
		logger.ErrorContext(r.Context(), "Session creation failed", log.FieldError, err.Error(), log.FieldUserID, user.ID)
		errorJSON(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	s.setSessionCookie(w, token)

	profile, err := s.repo.Profile(r.Context(), user.ID)
	if err != nil {
		logger.ErrorContext(r.Context(), "Profile assembly failed", log.FieldError, err.Error(), log.FieldUserID, user.ID)
		errorJSON(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	logger.InfoContext(r.Context(), "User logged in",
		log.FieldUserID, user.ID, log.FieldUsername, user.Username, log.FieldOperation, log.OpLogin)

	respondJSON(w, http.StatusOK, toProfileView(profile))
}

// handleLogout drops the session row and clears the cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	logger := log.FromContext(r.Context()).WithComponent(log.ComponentAuth)

	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		if err := s.sessions.Delete(r.Context(), cookie.Value); err != nil {
			logger.ErrorContext(r.Context(), "Session deletion failed", log.FieldError, err.Error())
		}
	}
	s.clearSessionCookie(w)

	logger.InfoContext(r.Context(), "User logged out", log.FieldOperation, log.OpLogout)
	w.WriteHeader(http.StatusNoContent)
}

// handleCheckSession resolves the cookie into a full profile. The route is
// public so clients can probe their session state without tripping the guard.
func (s *Server) handleCheckSession(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		errorJSON(w, http.StatusUnauthorized, "Please Log in first!")
		return
	}

	userID, err := s.sessions.UserID(r.Context(), cookie.Value)
	if err != nil {
		errorJSON(w, http.StatusUnauthorized, "Please Log in first!")
		return
	}

	profile, err := s.repo.Profile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			// Live session pointing at a deleted user row.
			errorJSON(w, http.StatusUnauthorized, "User cannot be found!")
			return
		}
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Profile assembly failed",
			log.FieldError, err.Error(), log.FieldUserID, userID)
		errorJSON(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, toProfileView(profile))
}
