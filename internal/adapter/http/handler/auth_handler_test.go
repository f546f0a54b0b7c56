package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/iho/goloan/internal/adapter/http/dto"
	"github.com/iho/goloan/internal/adapter/http/middleware"
	"github.com/iho/goloan/internal/domain"
	"github.com/iho/goloan/internal/infrastructure/auth"
)

func TestAuthHandler_IssueToken(t *testing.T) {
	manager := auth.NewJWTManager("secret", time.Hour)
	h := NewAuthHandler(manager, time.Hour)

	rec := httptest.NewRecorder()
	h.IssueToken(rec, httptest.NewRequest(http.MethodPost, "/auth/token",
		bytes.NewBufferString(`{"subject":"teller-1","role":"operator"}`)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp dto.TokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	claims, err := manager.Verify(resp.Token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.Subject != "teller-1" || claims.Role != domain.RoleOperator {
		t.Fatalf("unexpected claims %+v", claims)
	}

	rec = httptest.NewRecorder()
	h.IssueToken(rec, httptest.NewRequest(http.MethodPost, "/auth/token",
		bytes.NewBufferString(`{"subject":"x","role":"superuser"}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown role, got %d", rec.Code)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	manager := auth.NewJWTManager("secret", time.Hour)
	token, err := manager.Generate("viewer-9", domain.RoleViewer)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	h := middleware.AuthMiddleware(manager)(http.HandlerFunc(NewAuthHandler(manager, time.Hour).Me))
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp dto.TokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Subject != "viewer-9" || resp.Role != domain.RoleViewer || resp.Token != "" {
		t.Fatalf("unexpected response %+v", resp)
	}

	rec = httptest.NewRecorder()
	NewAuthHandler(manager, time.Hour).Me(rec, httptest.NewRequest(http.MethodGet, "/auth/me", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without claims, got %d", rec.Code)
	}
}
