package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/goloan/internal/adapter/http/dto"
	"github.com/iho/goloan/internal/adapter/http/handler"
	apimiddleware "github.com/iho/goloan/internal/adapter/http/middleware"
	"github.com/iho/goloan/internal/domain"
	"github.com/iho/goloan/internal/infrastructure/auth"
	"github.com/iho/goloan/internal/infrastructure/metrics"
	"github.com/iho/goloan/internal/usecase"
	"github.com/iho/goloan/internal/usecase/fakes"
)

// newRouterConfig wires the real use cases over in-memory repositories.
func newRouterConfig(opts ...func(*RouterConfig)) RouterConfig {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	store := fakes.NewStore()

	txManager := fakes.NewTransactionManager(store)
	loanRepo := fakes.NewLoanRepository(store)
	scheduleRepo := fakes.NewScheduleRepository(store)
	paymentRepo := fakes.NewPaymentRepository(store)
	investorRepo := fakes.NewInvestorRepository(store)
	outboxRepo := fakes.NewOutboxRepository(store)
	idGen := fakes.NewIDGenerator()

	loanUC := usecase.NewLoanUseCase(txManager, loanRepo, scheduleRepo, investorRepo, outboxRepo, idGen, m, zerolog.Nop(), 0)
	recalcUC := usecase.NewRecalculationUseCase(loanRepo, scheduleRepo, outboxRepo, idGen, m, 0)
	paymentUC := usecase.NewPaymentUseCase(txManager, nil, loanRepo, scheduleRepo, paymentRepo, outboxRepo, recalcUC, idGen, m)

	cfg := RouterConfig{
		LoanHandler:       handler.NewLoanHandler(loanUC),
		PaymentHandler:    handler.NewPaymentHandler(paymentUC),
		CalculatorHandler: handler.NewCalculatorHandler(usecase.NewPreviewUseCase(fakes.NewCache(), zerolog.Nop())),
		AuditHandler:      handler.NewAuditHandler(usecase.NewAuditUseCase(loanRepo, scheduleRepo, m)),
		HealthHandler:     handler.NewHealthHandler(nil, nil),
		Metrics:           m,
		MetricsHandler:    promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Logger:            zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

func do(t *testing.T, router http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

const amortizingLoan = `{"client_id":"client-1","product":"financiamiento","cadence":"monthly",
	"interest_rate":{"kind":"percent","value":"12"},"amount":"10000","term":12,"start_date":"2024-01-15"}`

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := do(t, router, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	rl := apimiddleware.NewRateLimiter(1, 1, nil)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.RateLimiter = rl
	}))

	req1 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec2.Code)
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig())

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Routes")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"GET /metrics",
		"POST /api/v1/loans/",
		"GET /api/v1/loans/",
		"GET /api/v1/loans/{id}",
		"GET /api/v1/loans/{id}/schedule",
		"POST /api/v1/loans/{id}/schedule",
		"GET /api/v1/loans/{id}/schedule/verify",
		"GET /api/v1/loans/{id}/investors",
		"POST /api/v1/loans/{id}/payments",
		"GET /api/v1/loans/{id}/payments",
		"GET /api/v1/payments/{id}",
		"POST /api/v1/calculator/amortization",
		"POST /api/v1/calculator/interest-only",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
	if seen["POST /api/v1/auth/token"] {
		t.Fatalf("token route must not exist when auth is disabled")
	}
}

func TestNewRouter_LoanLifecycle(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := do(t, router, http.MethodPost, "/api/v1/loans/", amortizingLoan, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create loan: %d %s", rec.Code, rec.Body.String())
	}
	var created dto.CreateLoanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	loanID := created.Loan.ID
	if len(created.Schedule) != 12 || created.Schedule[0].Total != domain.MustCents("888.49") {
		t.Fatalf("unexpected schedule %+v", created.Schedule[0])
	}

	payment := `{"installment_number":1,"paid_at":"2024-02-15","method":"transfer","principal":"788.49","interest":"100","total":"888.49"}`
	rec = do(t, router, http.MethodPost, "/api/v1/loans/"+loanID+"/payments", payment, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register payment: %d %s", rec.Code, rec.Body.String())
	}

	rec = do(t, router, http.MethodPost, "/api/v1/loans/"+loanID+"/payments", payment, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("settling the same installment twice should conflict, got %d %s", rec.Code, rec.Body.String())
	}

	rec = do(t, router, http.MethodGet, "/api/v1/loans/"+loanID, "", nil)
	var loan dto.LoanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &loan); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if loan.Balance != domain.MustCents("9211.51") {
		t.Fatalf("expected balance 9211.51, got %s", loan.Balance)
	}

	rec = do(t, router, http.MethodGet, "/api/v1/loans/"+loanID+"/schedule/verify", "", nil)
	var report dto.ScheduleReportResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !report.Consistent || report.Rows != 12 {
		t.Fatalf("expected consistent schedule, got %+v", report)
	}

	rec = do(t, router, http.MethodGet, "/api/v1/loans/missing", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown loan, got %d", rec.Code)
	}
}

func TestNewRouter_IdempotentPaymentReplay(t *testing.T) {
	store := fakes.NewIdempotencyStore()
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
	}))

	rec := do(t, router, http.MethodPost, "/api/v1/loans/", amortizingLoan, nil)
	var created dto.CreateLoanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	payment := `{"installment_number":1,"paid_at":"2024-02-15","method":"cash","principal":"788.49","interest":"100","total":"888.49"}`
	headers := map[string]string{apimiddleware.IdempotencyKeyHeader: "pay-once"}
	path := "/api/v1/loans/" + created.Loan.ID + "/payments"

	first := do(t, router, http.MethodPost, path, payment, headers)
	second := do(t, router, http.MethodPost, path, payment, headers)

	if first.Code != http.StatusCreated {
		t.Fatalf("first attempt: %d %s", first.Code, first.Body.String())
	}
	if second.Header().Get("X-Idempotency-Replay") != "true" || second.Body.String() != first.Body.String() {
		t.Fatalf("expected replay of the first response, got %d %s", second.Code, second.Body.String())
	}

	rec = do(t, router, http.MethodGet, path, "", nil)
	var payments []dto.PaymentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payments); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payments) != 1 {
		t.Fatalf("expected exactly one stored payment, got %d", len(payments))
	}
}

func TestNewRouter_AuthRequiresRoles(t *testing.T) {
	manager := auth.NewJWTManager("secret", time.Hour)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.TokenVerifier = manager
		cfg.AuthHandler = handler.NewAuthHandler(manager, time.Hour)
	}))

	bearer := func(role domain.Role) map[string]string {
		token, err := manager.Generate("caller-"+string(role), role)
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		return map[string]string{"Authorization": "Bearer " + token}
	}

	if rec := do(t, router, http.MethodGet, "/api/v1/loans/", "", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
	if rec := do(t, router, http.MethodGet, "/health", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("health must stay public, got %d", rec.Code)
	}
	if rec := do(t, router, http.MethodGet, "/api/v1/loans/", "", bearer(domain.RoleViewer)); rec.Code != http.StatusOK {
		t.Fatalf("viewer should list loans, got %d", rec.Code)
	}
	if rec := do(t, router, http.MethodPost, "/api/v1/loans/", amortizingLoan, bearer(domain.RoleViewer)); rec.Code != http.StatusForbidden {
		t.Fatalf("viewer must not create loans, got %d", rec.Code)
	}
	if rec := do(t, router, http.MethodPost, "/api/v1/loans/", amortizingLoan, bearer(domain.RoleOperator)); rec.Code != http.StatusCreated {
		t.Fatalf("operator should create loans, got %d %s", rec.Code, rec.Body.String())
	}

	preview := `{"principal":"1000","annual_rate":{"kind":"percent","value":"12"},"installments":3,"cadence":"monthly","start_date":"2024-01-15"}`
	if rec := do(t, router, http.MethodPost, "/api/v1/calculator/amortization", preview, bearer(domain.RoleViewer)); rec.Code != http.StatusOK {
		t.Fatalf("viewer should use the calculator, got %d", rec.Code)
	}

	issue := `{"subject":"new-teller","role":"operator"}`
	if rec := do(t, router, http.MethodPost, "/api/v1/auth/token", issue, bearer(domain.RoleOperator)); rec.Code != http.StatusForbidden {
		t.Fatalf("only admins issue tokens, got %d", rec.Code)
	}
	if rec := do(t, router, http.MethodPost, "/api/v1/auth/token", issue, bearer(domain.RoleAdmin)); rec.Code != http.StatusCreated {
		t.Fatalf("admin should issue tokens, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestNewRouter_ExposesMetrics(t *testing.T) {
	router := NewRouter(newRouterConfig())

	for i := 0; i < 2; i++ {
		do(t, router, http.MethodGet, fmt.Sprintf("/api/v1/loans/missing-%d", i), "", nil)
	}

	rec := do(t, router, http.MethodGet, "/metrics", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics endpoint: %d", rec.Code)
	}
	want := `goloan_http_requests_total{method="GET",path="/api/v1/loans/{id}",status="404"} 2`
	if !bytes.Contains(rec.Body.Bytes(), []byte(want)) {
		t.Fatalf("expected %s in metrics output", want)
	}
}
