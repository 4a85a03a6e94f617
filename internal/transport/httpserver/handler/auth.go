package handler

import (
	"net/http"
	"strings"
	"time"

	authdomain "github.com/malprimis/petanchiki/internal/domain/auth"
	userdomain "github.com/malprimis/petanchiki/internal/domain/user"
)

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	Token string `json:"token"`
}

type tokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func newTokenResponse(token authdomain.Token) tokenResponse {
	return tokenResponse{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		ExpiresAt:   token.ExpiresAt,
	}
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		invalidJSON(w)
		return
	}

	created, err := h.Users.Register(r.Context(), userdomain.RegisterInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		h.fail(w, r, "auth.register", err)
		return
	}

	writeJSON(w, http.StatusCreated, newUserResponse(created))
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		invalidJSON(w)
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "email and password are required")
		return
	}

	token, _, err := h.Auth.Login(r.Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		h.fail(w, r, "auth.login", err)
		return
	}

	writeJSON(w, http.StatusOK, newTokenResponse(token))
}

// Refresh takes the token from the body, or from the Authorization header
// when the body is empty.
func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			invalidJSON(w)
			return
		}
	}

	raw := strings.TrimSpace(req.Token)
	if raw == "" {
		if fields := strings.Fields(r.Header.Get("Authorization")); len(fields) == 2 && strings.EqualFold(fields[0], "Bearer") {
			raw = fields[1]
		}
	}
	if raw == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "token is required")
		return
	}

	token, err := h.Auth.Refresh(r.Context(), raw)
	if err != nil {
		h.fail(w, r, "auth.refresh", err)
		return
	}

	writeJSON(w, http.StatusOK, newTokenResponse(token))
}
