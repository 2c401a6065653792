package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/moneytracker/internal/common"
	"github.com/dmitrijs2005/moneytracker/internal/server/models"
	"github.com/dmitrijs2005/moneytracker/internal/server/services"
)

type credentials struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

type authResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	Username     string `json:"username"`
	Message      string `json:"message,omitempty"`
}

func newAuthResponse(u *models.User, pair *services.TokenPair, msg string) authResponse {
	return authResponse{Token: pair.AccessToken, RefreshToken: pair.RefreshToken, Username: u.UserName, Message: msg}
}

func decodeCredentials(r *http.Request) (*credentials, error) {
	var c credentials
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		return nil, errors.New("Invalid JSON")
	}
	if c.Username == nil || c.Password == nil {
		return nil, errors.New("Username and password are required")
	}
	return &c, nil
}

func (s *HTTPServer) register(w http.ResponseWriter, r *http.Request) {
	const prefix = "Registration failed: "

	c, err := decodeCredentials(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	email := ""
	if c.Email != nil {
		email = *c.Email
	}

	user, err := s.users.Register(r.Context(), *c.Username, email, *c.Password)
	if err != nil {
		fail(w, prefix, err)
		return
	}
	pair, err := s.users.IssueTokens(r.Context(), user)
	if err != nil {
		fail(w, prefix, err)
		return
	}
	respondJSON(w, http.StatusOK, newAuthResponse(user, pair, "Registration successful"))
}

func (s *HTTPServer) login(w http.ResponseWriter, r *http.Request) {
	c, err := decodeCredentials(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, pair, err := s.users.Login(r.Context(), *c.Username, *c.Password)
	if err != nil {
		fail(w, "Login failed: ", err)
		return
	}
	respondJSON(w, http.StatusOK, newAuthResponse(user, pair, "Login successful"))
}

func (s *HTTPServer) refresh(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.RefreshToken == "" {
		respondError(w, http.StatusBadRequest, "refreshToken is required")
		return
	}

	user, pair, err := s.users.RefreshToken(r.Context(), body.RefreshToken)
	if err != nil {
		if errors.Is(err, common.ErrInvalidToken) || errors.Is(err, common.ErrRefreshTokenExpired) {
			respondError(w, http.StatusUnauthorized, err.Error())
			return
		}
		fail(w, "Refresh failed: ", err)
		return
	}
	respondJSON(w, http.StatusOK, newAuthResponse(user, pair, ""))
}

func (s *HTTPServer) checkUsername(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("username")
	if name == "" {
		respondError(w, http.StatusBadRequest, "Error checking username: username is required")
		return
	}

	exists, err := s.users.Exists(r.Context(), name)
	if err != nil {
		fail(w, "Error checking username: ", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"exists": exists})
}
