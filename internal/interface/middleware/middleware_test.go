package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pixelpursuit/pixelpursuit-api/internal/application"
	"github.com/pixelpursuit/pixelpursuit-api/internal/domain/entity"
	"github.com/pixelpursuit/pixelpursuit-api/internal/interface/middleware"
	"github.com/pixelpursuit/pixelpursuit-api/pkg/helpers"
)

func init() { gin.SetMode(gin.TestMode) }

type stubVerifier struct {
	verify func(token string) (helpers.TokenClaims, error)
}

func (s stubVerifier) VerifyToken(token string) (helpers.TokenClaims, error) { return s.verify(token) }

func verifierFor(token string, claims helpers.TokenClaims) stubVerifier {
	return stubVerifier{verify: func(t string) (helpers.TokenClaims, error) {
		if t != token {
			return helpers.TokenClaims{}, helpers.ErrInvalidToken
		}
		return claims, nil
	}}
}

type envelope struct {
	Status  int    `json:"status"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/protected", handlers...)
	return r
}

func do(t *testing.T, r http.Handler, auth string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	var env envelope
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode %q: %v", rec.Body.String(), err)
		}
	}
	return rec, env
}

func ok(c *gin.Context) { c.Status(http.StatusNoContent) }

func TestAuthenticate(t *testing.T) {
	claims := helpers.TokenClaims{UserID: 7, Email: "e@x.io", Role: entity.RoleEmployer}
	r := newRouter(middleware.Authenticate(verifierFor("good", claims)), middleware.WithPrincipal(func(c *gin.Context, p application.Principal) {
		if p.UserID != 7 || p.Role != entity.RoleEmployer || p.Email != "e@x.io" {
			t.Errorf("unexpected principal %+v", p)
		}
		c.Status(http.StatusNoContent)
	}))

	tests := []struct {
		name    string
		header  string
		status  int
		message string
	}{
		{"missing header", "", http.StatusUnauthorized, "no token provided"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "no token provided"},
		{"empty bearer", "Bearer ", http.StatusUnauthorized, "no token provided"},
		{"bad token", "Bearer bad", http.StatusUnauthorized, "invalid or expired token"},
		{"valid", "Bearer good", http.StatusNoContent, ""},
		{"scheme case-insensitive", "bearer good", http.StatusNoContent, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := do(t, r, tt.header)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if env.Message != tt.message {
				t.Fatalf("message = %q, want %q", env.Message, tt.message)
			}
		})
	}
}

func TestRestrictTo(t *testing.T) {
	seeker := helpers.TokenClaims{UserID: 1, Email: "s@x.io", Role: entity.RoleJobSeeker}
	r := newRouter(
		middleware.Authenticate(verifierFor("seeker", seeker)),
		middleware.RestrictTo(entity.RoleEmployer, entity.RoleAdmin),
		ok,
	)

	rec, env := do(t, r, "Bearer seeker")
	if rec.Code != http.StatusForbidden || env.Success {
		t.Fatalf("status = %d success=%v, want 403", rec.Code, env.Success)
	}

	// authentication runs first: a bad token is 401 even on a role-gated route
	rec, _ = do(t, r, "Bearer nope")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRestrictTo_WithoutPrincipal(t *testing.T) {
	r := newRouter(middleware.RestrictTo(entity.RoleEmployer), ok)
	rec, _ := do(t, r, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRequestID(t *testing.T) {
	r := newRouter(ok)
	rec, _ := do(t, r, "")
	if got := rec.Header().Get(middleware.RequestIDHeader); len(got) != 36 {
		t.Fatalf("request id = %q", got)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(middleware.RequestIDHeader, "1b4e28ba-2fa1-11d2-883f-0016d3cca427")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if got := rec.Header().Get(middleware.RequestIDHeader); got != "1b4e28ba-2fa1-11d2-883f-0016d3cca427" {
		t.Fatalf("incoming id not reused: %q", got)
	}
}

func TestRealIP(t *testing.T) {
	var got string
	r := gin.New()
	r.Use(middleware.RealIP())
	r.GET("/", func(c *gin.Context) { got = c.GetString("real_ip") })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	r.ServeHTTP(httptest.NewRecorder(), req)
	if got != "203.0.113.9" {
		t.Fatalf("real_ip = %q", got)
	}

	req.Header.Set("CF-Connecting-IP", "198.51.100.4")
	r.ServeHTTP(httptest.NewRecorder(), req)
	if got != "198.51.100.4" {
		t.Fatalf("real_ip = %q", got)
	}
}

func TestRateLimit_NilClientIsNoop(t *testing.T) {
	r := newRouter(middleware.RateLimit(nil, 1, time.Minute, middleware.KeyByIPAndPath(), nil, nil), ok)
	for i := 0; i < 3; i++ {
		if rec, _ := do(t, r, ""); rec.Code != http.StatusNoContent {
			t.Fatalf("request %d: status %d", i, rec.Code)
		}
	}
}

