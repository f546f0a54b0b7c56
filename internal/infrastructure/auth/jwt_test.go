package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iho/goloan/internal/domain"
	"github.com/iho/goloan/internal/infrastructure/auth"
)

func TestJWTManagerGenerateAndVerify(t *testing.T) {
	t.Parallel()

	manager := auth.NewJWTManager("super-secret", time.Minute)

	token, err := manager.Generate("operator-7", domain.RoleOperator)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	claims, err := manager.Verify(token)
	if err != nil {
		t.Fatalf("expected token to verify, got %v", err)
	}

	if claims.Subject != "operator-7" || claims.Role != domain.RoleOperator || claims.Issuer != auth.Issuer {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestJWTManagerGenerateRejectsBadInput(t *testing.T) {
	t.Parallel()

	manager := auth.NewJWTManager("secret", time.Minute)

	if _, err := manager.Generate("", domain.RoleAdmin); !errors.Is(err, domain.ErrMissingField) {
		t.Fatalf("expected missing subject error, got %v", err)
	}
	if _, err := manager.Generate("someone", domain.Role("root")); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected invalid role error, got %v", err)
	}
}

func TestJWTManagerVerifyErrors(t *testing.T) {
	t.Parallel()

	manager := auth.NewJWTManager("secret", time.Minute)

	expiredClaims := auth.Claims{
		Role: domain.RoleViewer,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "expired",
			Issuer:    auth.Issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Minute)),
			NotBefore: jwt.NewNumericDate(time.Now().Add(-2 * time.Minute)),
		},
	}

	expiredToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, expiredClaims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("failed to sign expired token: %v", err)
	}

	if _, err := manager.Verify(expiredToken); err != domain.ErrExpiredToken {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}

	otherManager := auth.NewJWTManager("other-secret", time.Minute)
	if _, err := otherManager.Verify(expiredToken); err == nil || err == domain.ErrExpiredToken {
		t.Fatalf("expected invalid token error, got %v", err)
	}

	foreign := auth.Claims{
		Role: domain.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "intruder",
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	foreignToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, foreign).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	if _, err := manager.Verify(foreignToken); err != domain.ErrInvalidToken {
		t.Fatalf("expected issuer mismatch to be rejected, got %v", err)
	}

	if _, err := manager.Verify("not-a-token"); err == nil {
		t.Fatalf("expected failure for malformed token")
	}
}
