package handlers

import (
	"encoding/json"
	"net/http"

	"flood-watch/internal/api"
	"flood-watch/internal/engine/actors"
)

// RegisterUserRequest represents a user registration request
type RegisterUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleUserRegistration creates a new account.
func (s *Server) HandleUserRegistration() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		s.Metrics.IncrementRequests()
		var req RegisterUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		result, appErr := s.askUsers(&actors.RegisterUserMsg{
			Username: req.Username,
			Password: req.Password,
		})
		if appErr != nil {
			s.respondAppError(w, appErr)
			return
		}
		respondJSON(w, result)
	}
}

// HandleUserLogin authenticates an account and issues a session token.
func (s *Server) HandleUserLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		s.Metrics.IncrementRequests()
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		result, appErr := s.askUsers(&actors.LoginMsg{
			Username: req.Username,
			Password: req.Password,
		})
		if appErr != nil {
			s.respondAppError(w, appErr)
			return
		}

		respondJSON(w, result.(*api.LoginResponse))
	}
}
