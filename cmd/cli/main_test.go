package main

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/goloan/internal/domain"
	"github.com/iho/goloan/internal/infrastructure/auth"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestScheduleAmortization(t *testing.T) {
	out, err := execute(t, "schedule", "amortization",
		"--principal", "10000", "--rate", "12", "--installments", "12", "--start", "2024-01-15")
	require.NoError(t, err)

	assert.Contains(t, out, "Payment: 888.49")
	assert.Contains(t, out, "2024-02-15")
	assert.Contains(t, out, "788.49")
	assert.Contains(t, out, "2025-01-15")
}

func TestScheduleAmortizationRejectsBadInput(t *testing.T) {
	_, err := execute(t, "schedule", "amortization", "--principal", "abc", "--rate", "12", "--start", "2024-01-15")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--principal")

	_, err = execute(t, "schedule", "amortization", "--principal", "100", "--rate", "12", "--start", "2024-01-15", "--cadence", "indefinite")
	assert.ErrorIs(t, err, domain.ErrInvalidCadence)
}

func TestScheduleInterestOnly(t *testing.T) {
	out, err := execute(t, "schedule", "interest-only",
		"--principal", "5000", "--rate", "5", "--periods", "3", "--start", "2024-01-31")
	require.NoError(t, err)

	assert.Contains(t, out, "2024-02-29")
	assert.Contains(t, out, "250.00")
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 4)
}

func TestTokenIssue(t *testing.T) {
	out, err := execute(t, "token", "issue", "--secret", "s3cret", "--subject", "ops", "--role", "operator")
	require.NoError(t, err)

	claims, err := auth.NewJWTManager("s3cret", time.Hour).Verify(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.Subject)
	assert.Equal(t, domain.RoleOperator, claims.Role)

	_, err = execute(t, "token", "issue", "--secret", "", "--subject", "ops")
	assert.Error(t, err)
}

func TestLoanVerify(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch r.URL.Path {
		case "/api/v1/loans/good/schedule/verify":
			_, _ = w.Write([]byte(`{"loan_id":"good","rows":12,"consistent":true,"violations":[]}`))
		case "/api/v1/loans/bad/schedule/verify":
			_, _ = w.Write([]byte(`{"loan_id":"bad","rows":3,"consistent":false,
				"violations":[{"number":2,"rule":"chain","message":"opening balance differs"}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"loan not found"}`))
		}
	}))
	defer server.Close()

	out, err := execute(t, "--url", server.URL, "--token", "tok", "loan", "verify", "good")
	require.NoError(t, err)
	assert.Contains(t, out, "PASSED (12 rows)")

	out, err = execute(t, "--url", server.URL, "--token", "tok", "loan", "verify", "bad")
	require.Error(t, err)
	assert.Contains(t, out, "#2 chain: opening balance differs")

	_, err = execute(t, "--url", server.URL, "--token", "tok", "loan", "verify", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")

	_, err = execute(t, "--url", server.URL, "--token", "", "loan", "verify", "good")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestMigrate(t *testing.T) {
	orig := migrate
	defer func() { migrate = orig }()

	var calls []string
	migrate.up = func(url, path string) error {
		calls = append(calls, "up "+url+" "+path)
		return nil
	}
	migrate.down = func(string, string) error {
		return errors.New("boom")
	}

	out, err := execute(t, "migrate", "up", "--database-url", "postgres://x", "--path", "db")
	require.NoError(t, err)
	assert.Equal(t, []string{"up postgres://x db"}, calls)
	assert.Contains(t, out, "migrations up: done")

	_, err = execute(t, "migrate", "down", "--database-url", "postgres://x")
	assert.EqualError(t, err, "boom")

	_, err = execute(t, "migrate", "sideways", "--database-url", "postgres://x")
	assert.Error(t, err)

	t.Setenv("DATABASE_URL", "")
	_, err = execute(t, "migrate", "up")
	assert.Error(t, err)
}
