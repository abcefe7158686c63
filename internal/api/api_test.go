package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/rs/zerolog"

	"github.com/splitpay/auth-service/internal/api/handler"
	"github.com/splitpay/auth-service/internal/api/middleware"
	"github.com/splitpay/auth-service/internal/core/domain"
	"github.com/splitpay/auth-service/internal/core/service"
	"github.com/splitpay/auth-service/internal/infrastructure/password"
	"github.com/splitpay/auth-service/internal/infrastructure/token"
)

// memoryUserRepo backs the end-to-end tests with an in-process store that
// enforces the email uniqueness constraint like the real index does.
type memoryUserRepo struct {
	users map[string]*domain.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[string]*domain.User)}
}

func (r *memoryUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := r.users[email]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *memoryUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memoryUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Email]; exists {
		return nil, domain.ErrEmailTaken
	}
	clone := *user
	r.users[user.Email] = &clone
	return user, nil
}

type allowAllLimiter struct{}

func (allowAllLimiter) Allow(context.Context, string) (bool, error) { return true, nil }

// newTestServer wires the transport exactly as NewRouter does, minus the
// mongo/redis-backed pieces.
func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(zerolog.Nop())
	e.Validator = handler.NewValidator()
	e.Use(middleware.Correlation(zerolog.Nop()))

	issuer := token.NewJWTIssuer("test-secret", time.Hour)
	svc, err := service.NewAuthService(newMemoryUserRepo(), password.NewArgon2Hasher(), issuer, allowAllLimiter{}, nil, time.Second)
	if err != nil {
		t.Fatalf("wire service: %v", err)
	}
	authHandler := handler.NewAuthHandler(svc)

	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/me", authHandler.Me, middleware.Auth(issuer))

	return e
}

func doJSON(e *echo.Echo, method, path, body string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestEndToEnd_RegisterLoginMe(t *testing.T) {
	e := newTestServer(t)

	// Register.
	rec := doJSON(e, http.MethodPost, "/auth/register", `{"email":"a@x.com","password":"secret123"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Fatalf("register response must not carry password material: %s", rec.Body.String())
	}

	// Login with the right password.
	rec = doJSON(e, http.MethodPost, "/auth/login", `{"email":"a@x.com","password":"secret123"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	var loginResp struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &loginResp); err != nil || loginResp.AccessToken == "" {
		t.Fatalf("expected non-empty access_token, got %s", rec.Body.String())
	}

	// Login with the wrong password.
	rec = doJSON(e, http.MethodPost, "/auth/login", `{"email":"a@x.com","password":"wrong-pass"}`, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: expected 401, got %d", rec.Code)
	}

	// The token authenticates /auth/me.
	hdr := http.Header{}
	hdr.Set("Authorization", "Bearer "+loginResp.AccessToken)
	rec = doJSON(e, http.MethodGet, "/auth/me", "", hdr)
	if rec.Code != http.StatusOK {
		t.Fatalf("me: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	var meResp struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &meResp); err != nil || meResp.Email != "a@x.com" {
		t.Fatalf("unexpected identity: %s", rec.Body.String())
	}
}

func TestEndToEnd_DuplicateRegistration(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/auth/register", `{"email":"dup@x.com","password":"secret123"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("first register: expected 201, got %d", rec.Code)
	}

	rec = doJSON(e, http.MethodPost, "/auth/register", `{"email":"dup@x.com","password":"other-secret1"}`, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("second register: expected 409, got %d", rec.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["error"] != "email already registered" {
		t.Fatalf("unexpected error message: %+v", resp)
	}
}

func TestEndToEnd_UnknownUserAndWrongPasswordIndistinguishable(t *testing.T) {
	e := newTestServer(t)

	_ = doJSON(e, http.MethodPost, "/auth/register", `{"email":"real@x.com","password":"secret123"}`, nil)

	wrongPass := doJSON(e, http.MethodPost, "/auth/login", `{"email":"real@x.com","password":"wrong-pass"}`, nil)
	unknown := doJSON(e, http.MethodPost, "/auth/login", `{"email":"ghost@x.com","password":"wrong-pass"}`, nil)

	if wrongPass.Code != http.StatusUnauthorized || unknown.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", wrongPass.Code, unknown.Code)
	}
	if wrongPass.Body.String() != unknown.Body.String() {
		t.Fatalf("response bodies differ: %s vs %s", wrongPass.Body.String(), unknown.Body.String())
	}
}

func TestEndToEnd_ValidationErrorShape(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/auth/register", `{"email":"nope","password":"short"}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var resp struct {
		Error  string `json:"error"`
		Fields []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"fields"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Error != "validation failed" || len(resp.Fields) != 2 {
		t.Fatalf("unexpected validation envelope: %s", rec.Body.String())
	}
}

func TestHTTPMetrics_RecordMappedErrorStatus(t *testing.T) {
	// Same middleware order as NewRouter, with a registry-scoped metrics
	// middleware: the HTTP request counters must carry the status the
	// client saw for domain errors, not a blanket 500.
	reg := prometheus.NewRegistry()

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(zerolog.Nop())
	e.Validator = handler.NewValidator()
	e.Use(middleware.Correlation(zerolog.Nop()))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "auth",
		Registerer: reg,
	}))
	e.Use(middleware.RequestLogger())

	issuer := token.NewJWTIssuer("test-secret", time.Hour)
	svc, err := service.NewAuthService(newMemoryUserRepo(), password.NewArgon2Hasher(), issuer, allowAllLimiter{}, nil, time.Second)
	if err != nil {
		t.Fatalf("wire service: %v", err)
	}
	e.POST("/auth/register", handler.NewAuthHandler(svc).Register)

	body := `{"email":"metrics@x.com","password":"secret123"}`
	if rec := doJSON(e, http.MethodPost, "/auth/register", body, nil); rec.Code != http.StatusCreated {
		t.Fatalf("first register: expected 201, got %d", rec.Code)
	}
	if rec := doJSON(e, http.MethodPost, "/auth/register", body, nil); rec.Code != http.StatusConflict {
		t.Fatalf("second register: expected 409, got %d", rec.Code)
	}

	codes := requestCountsByCode(t, reg, "auth_requests_total")
	if codes["201"] != 1 {
		t.Fatalf("expected one request counted as 201, got %v", codes)
	}
	if codes["409"] != 1 {
		t.Fatalf("expected the conflict counted as 409, got %v", codes)
	}
	if codes["500"] != 0 {
		t.Fatalf("domain error must not be counted as 500: %v", codes)
	}
}

func requestCountsByCode(t *testing.T, reg *prometheus.Registry, name string) map[string]float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	codes := make(map[string]float64)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			var code string
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "code" {
					code = lp.GetValue()
				}
			}
			codes[code] += counterValue(m)
		}
	}
	return codes
}

func counterValue(m *dto.Metric) float64 {
	if c := m.GetCounter(); c != nil {
		return c.GetValue()
	}
	return 0
}

func TestEndToEnd_TraceIDHeader(t *testing.T) {
	e := newTestServer(t)

	// Without an inbound header the response carries a generated ID.
	rec := doJSON(e, http.MethodPost, "/auth/login", `{"email":"a@x.com","password":"secret123"}`, nil)
	if rec.Header().Get(middleware.HeaderTraceID) == "" {
		t.Fatalf("expected generated trace id header")
	}

	// An inbound header is propagated verbatim, errors included.
	hdr := http.Header{}
	hdr.Set(middleware.HeaderTraceID, "abc-123")
	rec = doJSON(e, http.MethodPost, "/auth/login", `{"email":"a@x.com","password":"secret123"}`, hdr)
	if got := rec.Header().Get(middleware.HeaderTraceID); got != "abc-123" {
		t.Fatalf("expected abc-123 echoed back, got %q", got)
	}
}
