package httpapi

import (
	"encoding/json"
	"net/http"

	"seomaster/internal/auth"
	"seomaster/internal/utils"
)

// AuthHandler serves dashboard session management.
type AuthHandler struct {
	users  *auth.UserStore
	secret []byte
}

// NewAuthHandler creates the auth handler.
func NewAuthHandler(users *auth.UserStore, secret []byte) *AuthHandler {
	return &AuthHandler{users: users, secret: secret}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

// Login exchanges a username/password for a session token. Unknown users
// and bad passwords get the same response so usernames cannot be probed.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	if err := h.users.Authenticate(r.Context(), req.Username, req.Password); err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, expiresAt, err := auth.GenerateJWT(req.Username, h.secret)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, loginResponse{Token: token, ExpiresAt: expiresAt})
}
