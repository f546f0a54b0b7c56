package handler

import (
	"net/http"
	"time"

	"github.com/iho/goloan/internal/adapter/http/dto"
	"github.com/iho/goloan/internal/adapter/http/middleware"
	"github.com/iho/goloan/internal/domain"
)

// TokenIssuer signs bearer tokens.
type TokenIssuer interface {
	Generate(subject string, role domain.Role) (string, error)
}

// AuthHandler handles token endpoints
type AuthHandler struct {
	issuer   TokenIssuer
	lifetime time.Duration
	now      func() time.Time
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(issuer TokenIssuer, lifetime time.Duration) *AuthHandler {
	return &AuthHandler{
		issuer:   issuer,
		lifetime: lifetime,
		now:      time.Now,
	}
}

// IssueToken mints a token for another caller. Mounted behind the admin role.
func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req dto.IssueTokenRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	token, err := h.issuer.Generate(req.Subject, req.Role)
	if err != nil {
		writeDomainError(w, "failed to issue token", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.TokenResponse{
		Token:     token,
		Subject:   req.Subject,
		Role:      req.Role,
		ExpiresAt: h.now().Add(h.lifetime).UTC(),
	})
}

// Me returns the authenticated caller.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	resp := dto.TokenResponse{Subject: claims.Subject, Role: claims.Role}
	if claims.ExpiresAt != nil {
		resp.ExpiresAt = claims.ExpiresAt.Time.UTC()
	}
	writeJSON(w, http.StatusOK, resp)
}
