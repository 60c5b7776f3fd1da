package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/pixelpursuit/pixelpursuit-api/config"
	"github.com/pixelpursuit/pixelpursuit-api/internal/application"
	"github.com/pixelpursuit/pixelpursuit-api/internal/container"
	"github.com/pixelpursuit/pixelpursuit-api/internal/infrastructure/memory"
	"github.com/pixelpursuit/pixelpursuit-api/internal/router"
	"github.com/pixelpursuit/pixelpursuit-api/pkg/helpers"
	"github.com/pixelpursuit/pixelpursuit-api/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	validation.Init()
}

type envelope struct {
	Status    int             `json:"status"`
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	RequestID string          `json:"request_id"`
	Data      json.RawMessage `json:"data"`
	Error     json.RawMessage `json:"error"`
}

type api struct {
	t      *testing.T
	engine *gin.Engine
	store  *memory.Store
}

func newAPI(t *testing.T) *api {
	t.Helper()
	logger := helpers.NewDiscardLogger()
	jwt, err := helpers.NewJWTManager("handler-test-secret")
	if err != nil {
		t.Fatalf("jwt: %v", err)
	}
	store := memory.New()
	auth, err := application.NewAuthService(store.Users(), jwt, bcrypt.MinCost, logger)
	if err != nil {
		t.Fatalf("auth service: %v", err)
	}
	c := &container.Container{
		Config:       &config.Config{AppName: "pixelpursuit-test", AuthRateLimitPerMin: 20},
		Logger:       logger,
		JWT:          jwt,
		Users:        store.Users(),
		Jobs:         store.Jobs(),
		Applications: store.Applications(),
		AuthService:  auth,
		JobService:   application.NewJobService(store.Jobs(), store.Applications(), nil, nil, logger),
	}
	return &api{t: t, engine: router.NewEngine(c), store: store}
}

func (a *api) do(method, path, token string, body any) (int, envelope) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			a.t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.engine.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		a.t.Fatalf("%s %s: decode %q: %v", method, path, rec.Body.String(), err)
	}
	return rec.Code, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return v
}

type userJSON struct {
	ID       int64   `json:"id"`
	Email    string  `json:"email"`
	Name     *string `json:"name"`
	Role     string  `json:"role"`
	Password *string `json:"password"`
}

type jobJSON struct {
	ID               int64  `json:"id"`
	Title            string `json:"title"`
	PostedBy         int64  `json:"postedBy"`
	ApplicationCount *int64 `json:"applicationCount"`
	Poster           *struct {
		ID    int64  `json:"id"`
		Email string `json:"email"`
	} `json:"poster"`
}

type listJSON struct {
	Jobs       []jobJSON `json:"jobs"`
	Pagination struct {
		Page  int   `json:"page"`
		Limit int   `json:"limit"`
		Total int64 `json:"total"`
		Pages int64 `json:"pages"`
	} `json:"pagination"`
}

func (a *api) register(email, role string) userJSON {
	a.t.Helper()
	status, env := a.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": email, "password": "secret1", "role": role,
	})
	if status != http.StatusCreated {
		a.t.Fatalf("register %s: %d %s", email, status, env.Message)
	}
	return decode[struct {
		User userJSON `json:"user"`
	}](a.t, env.Data).User
}

func (a *api) login(email string) string {
	a.t.Helper()
	status, env := a.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": "secret1"})
	if status != http.StatusOK {
		a.t.Fatalf("login %s: %d %s", email, status, env.Message)
	}
	return decode[struct {
		Token string `json:"token"`
	}](a.t, env.Data).Token
}

func (a *api) createJob(token string, body map[string]any) jobJSON {
	a.t.Helper()
	status, env := a.do(http.MethodPost, "/api/jobs", token, body)
	if status != http.StatusCreated {
		a.t.Fatalf("create job: %d %s", status, env.Message)
	}
	return decode[jobJSON](a.t, env.Data)
}

func TestEndToEnd_RegisterLoginMissingJob(t *testing.T) {
	a := newAPI(t)

	status, env := a.do(http.MethodPost, "/api/auth/register", "", map[string]string{"email": "A@B.com", "password": "secret1"})
	if status != http.StatusCreated || !env.Success || env.RequestID == "" {
		t.Fatalf("register: %d %+v", status, env)
	}
	u := decode[struct {
		User userJSON `json:"user"`
	}](t, env.Data).User
	if u.Email != "a@b.com" || u.Role != "JOBSEEKER" || u.Password != nil {
		t.Fatalf("user = %+v", u)
	}

	status, env = a.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "a@b.com ", "password": "secret1"})
	if status != http.StatusOK {
		t.Fatalf("login: %d %s", status, env.Message)
	}
	login := decode[struct {
		Token string   `json:"token"`
		User  userJSON `json:"user"`
	}](t, env.Data)
	if login.Token == "" || login.User.ID != u.ID || login.User.Password != nil {
		t.Fatalf("login payload = %+v", login)
	}

	status, env = a.do(http.MethodGet, "/api/jobs/424242", "", nil)
	if status != http.StatusNotFound || env.Success || len(env.Data) != 0 {
		t.Fatalf("missing job: %d %+v", status, env)
	}
}

func TestRegister_DuplicateAnyCasing(t *testing.T) {
	a := newAPI(t)
	first, _ := a.do(http.MethodPost, "/api/auth/register", "", map[string]string{"email": "Dev@Studio.io", "password": "pw"})
	second, env := a.do(http.MethodPost, "/api/auth/register", "", map[string]string{"email": "  dev@STUDIO.io ", "password": "pw"})
	if first != http.StatusCreated || second != http.StatusConflict {
		t.Fatalf("statuses = %d, %d (%s)", first, second, env.Message)
	}
}

func TestRegister_BadInput(t *testing.T) {
	a := newAPI(t)
	tests := []struct {
		name string
		body any
	}{
		{"missing password", map[string]string{"email": "a@b.com"}},
		{"missing email", map[string]string{"password": "pw"}},
		{"malformed json", `{"email":`},
		{"wrong type", `{"email": 5, "password": "pw"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if status, env := a.do(http.MethodPost, "/api/auth/register", "", tt.body); status != http.StatusBadRequest {
				t.Fatalf("status = %d (%s)", status, env.Message)
			}
		})
	}
}

func TestRegister_PasswordTooLong(t *testing.T) {
	a := newAPI(t)
	status, env := a.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "long@b.com", "password": strings.Repeat("p", 73),
	})
	if status != http.StatusBadRequest {
		t.Fatalf("status = %d (%s), want 400", status, env.Message)
	}
}

func TestLogin_Failures(t *testing.T) {
	a := newAPI(t)
	a.register("a@b.com", "")

	status, _ := a.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "a@b.com"})
	if status != http.StatusBadRequest {
		t.Fatalf("missing password: %d", status)
	}

	s1, e1 := a.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "a@b.com", "password": "wrong"})
	s2, e2 := a.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "nobody@b.com", "password": "secret1"})
	if s1 != http.StatusUnauthorized || s2 != http.StatusUnauthorized || e1.Message != e2.Message {
		t.Fatalf("wrong password %d %q, unknown email %d %q", s1, e1.Message, s2, e2.Message)
	}
}

func TestMe(t *testing.T) {
	a := newAPI(t)
	u := a.register("me@b.com", "EMPLOYER")
	token := a.login("me@b.com")

	status, env := a.do(http.MethodGet, "/api/auth/me", token, nil)
	if status != http.StatusOK {
		t.Fatalf("me: %d %s", status, env.Message)
	}
	if got := decode[userJSON](t, env.Data); got.ID != u.ID || got.Role != "EMPLOYER" {
		t.Fatalf("me = %+v", got)
	}

	if status, _ := a.do(http.MethodGet, "/api/auth/me", "", nil); status != http.StatusUnauthorized {
		t.Fatalf("no token: %d", status)
	}
	if status, _ := a.do(http.MethodGet, "/api/auth/me", token+"x", nil); status != http.StatusUnauthorized {
		t.Fatalf("tampered token: %d", status)
	}
}

func TestMe_DeletedSubject(t *testing.T) {
	a := newAPI(t)
	jwt, _ := helpers.NewJWTManager("handler-test-secret")
	token, _, err := jwt.IssueToken(helpers.TokenClaims{UserID: 77, Email: "ghost@b.com", Role: "JOBSEEKER"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if status, _ := a.do(http.MethodGet, "/api/auth/me", token, nil); status != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", status)
	}
}

func TestCreateJob_RoleGate(t *testing.T) {
	a := newAPI(t)
	a.register("seeker@b.com", "")
	seeker := a.login("seeker@b.com")
	body := map[string]any{"title": "t", "description": "d"}

	if status, _ := a.do(http.MethodPost, "/api/jobs", seeker, body); status != http.StatusForbidden {
		t.Fatalf("jobseeker: %d, want 403", status)
	}
	if status, _ := a.do(http.MethodPost, "/api/jobs", "", body); status != http.StatusUnauthorized {
		t.Fatalf("anonymous: %d, want 401", status)
	}
}

func TestCreateJob(t *testing.T) {
	a := newAPI(t)
	boss := a.register("boss@b.com", "employer")
	token := a.login("boss@b.com")

	j := a.createJob(token, map[string]any{"title": "Engine Dev", "description": "C++", "location": "Oslo", "salaryMin": 50000, "salaryMax": 80000})
	if j.ID == 0 || j.PostedBy != boss.ID || j.Poster == nil || j.Poster.Email != "boss@b.com" {
		t.Fatalf("job = %+v", j)
	}

	tests := []struct {
		name string
		body any
	}{
		{"missing description", map[string]any{"title": "t"}},
		{"inverted salary", map[string]any{"title": "t", "description": "d", "salaryMin": 10, "salaryMax": 5}},
		{"salary as text", map[string]any{"title": "t", "description": "d", "salaryMin": "lots"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if status, env := a.do(http.MethodPost, "/api/jobs", token, tt.body); status != http.StatusBadRequest {
				t.Fatalf("status = %d (%s)", status, env.Message)
			}
		})
	}
}

func TestListJobs(t *testing.T) {
	a := newAPI(t)
	a.register("boss@b.com", "EMPLOYER")
	token := a.login("boss@b.com")
	a.createJob(token, map[string]any{"title": "Go Backend", "description": "APIs", "location": "Remote", "salaryMin": 50000, "salaryMax": 80000})
	a.createJob(token, map[string]any{"title": "Artist", "description": "pixel art for Go fans", "location": "Paris"})
	a.createJob(token, map[string]any{"title": "Producer", "description": "ship it", "salaryMin": 100000})

	tests := []struct {
		query string
		want  int
	}{
		{"", 3},
		{"?search=go", 2},
		{"?search=%20%20", 3},
		{"?location=REMOTE", 1},
		{"?minSalary=60000&maxSalary=90000", 2},
		{"?minSalary=abc", 3},
		{"?limit=1", 1},
		{"?limit=1000", 3},
		{"?page=-5&limit=2", 2},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			status, env := a.do(http.MethodGet, "/api/jobs"+tt.query, "", nil)
			if status != http.StatusOK {
				t.Fatalf("status = %d", status)
			}
			res := decode[listJSON](t, env.Data)
			if len(res.Jobs) != tt.want {
				t.Fatalf("got %d jobs, want %d", len(res.Jobs), tt.want)
			}
		})
	}

	_, env := a.do(http.MethodGet, "/api/jobs?limit=1000&page=0", "", nil)
	res := decode[listJSON](t, env.Data)
	if res.Pagination.Limit != 50 || res.Pagination.Page != 1 || res.Pagination.Total != 3 || res.Pagination.Pages != 1 {
		t.Fatalf("pagination = %+v", res.Pagination)
	}
}

func TestListJobs_HugePageReturnsEmptyPage(t *testing.T) {
	a := newAPI(t)
	a.register("boss@b.com", "EMPLOYER")
	a.createJob(a.login("boss@b.com"), map[string]any{"title": "t", "description": "d"})

	for _, page := range []string{"4611686018427387905", "9223372036854775807"} {
		status, env := a.do(http.MethodGet, "/api/jobs?page="+page, "", nil)
		if status != http.StatusOK {
			t.Fatalf("page %s: status %d (%s)", page, status, env.Message)
		}
		res := decode[listJSON](t, env.Data)
		if len(res.Jobs) != 0 || res.Pagination.Total != 1 || res.Pagination.Page < 1 {
			t.Fatalf("page %s: %d jobs, pagination %+v", page, len(res.Jobs), res.Pagination)
		}
	}
}

func TestListJobs_LimitCappedAtFifty(t *testing.T) {
	a := newAPI(t)
	a.register("boss@b.com", "EMPLOYER")
	token := a.login("boss@b.com")
	for i := 0; i < 55; i++ {
		a.createJob(token, map[string]any{"title": fmt.Sprintf("job %d", i), "description": "d"})
	}
	_, env := a.do(http.MethodGet, "/api/jobs?limit=1000", "", nil)
	res := decode[listJSON](t, env.Data)
	if len(res.Jobs) != 50 || res.Pagination.Pages != 2 || res.Pagination.Total != 55 {
		t.Fatalf("got %d jobs, pagination %+v", len(res.Jobs), res.Pagination)
	}
}

func TestGetJob(t *testing.T) {
	a := newAPI(t)
	a.register("boss@b.com", "EMPLOYER")
	j := a.createJob(a.login("boss@b.com"), map[string]any{"title": "t", "description": "d"})

	status, env := a.do(http.MethodGet, fmt.Sprintf("/api/jobs/%d", j.ID), "", nil)
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	got := decode[jobJSON](t, env.Data)
	if got.ID != j.ID || got.ApplicationCount == nil || *got.ApplicationCount != 0 || got.Poster == nil {
		t.Fatalf("job = %+v", got)
	}

	if status, _ := a.do(http.MethodGet, "/api/jobs/not-a-number", "", nil); status != http.StatusNotFound {
		t.Fatalf("non-numeric id: %d", status)
	}
}

func TestDeleteJob(t *testing.T) {
	a := newAPI(t)
	a.register("boss@b.com", "EMPLOYER")
	a.register("rival@b.com", "EMPLOYER")
	a.register("seeker@b.com", "")
	boss, rival, seeker := a.login("boss@b.com"), a.login("rival@b.com"), a.login("seeker@b.com")

	busy := a.createJob(boss, map[string]any{"title": "busy", "description": "d"})
	free := a.createJob(boss, map[string]any{"title": "free", "description": "d"})
	busyPath := fmt.Sprintf("/api/jobs/%d", busy.ID)
	freePath := fmt.Sprintf("/api/jobs/%d", free.ID)

	if status, _ := a.do(http.MethodPost, busyPath+"/applications", seeker, map[string]string{"coverLetter": "hi"}); status != http.StatusCreated {
		t.Fatalf("apply: %d", status)
	}

	if status, _ := a.do(http.MethodDelete, busyPath, seeker, nil); status != http.StatusForbidden {
		t.Fatalf("jobseeker delete: %d", status)
	}
	if status, _ := a.do(http.MethodDelete, busyPath, rival, nil); status != http.StatusForbidden {
		t.Fatalf("non-owner delete: %d", status)
	}
	if status, env := a.do(http.MethodDelete, busyPath, boss, nil); status != http.StatusBadRequest {
		t.Fatalf("delete with application: %d %s", status, env.Message)
	}
	if status, _ := a.do(http.MethodGet, busyPath, "", nil); status != http.StatusOK {
		t.Fatalf("busy job should remain: %d", status)
	}

	if status, _ := a.do(http.MethodDelete, freePath, boss, nil); status != http.StatusOK {
		t.Fatalf("delete: %d", status)
	}
	if status, _ := a.do(http.MethodGet, freePath, "", nil); status != http.StatusNotFound {
		t.Fatalf("fetch after delete: %d", status)
	}
	if status, _ := a.do(http.MethodDelete, freePath, boss, nil); status != http.StatusNotFound {
		t.Fatalf("delete again: %d", status)
	}
}

func TestApply(t *testing.T) {
	a := newAPI(t)
	a.register("boss@b.com", "EMPLOYER")
	a.register("seeker@b.com", "")
	boss, seeker := a.login("boss@b.com"), a.login("seeker@b.com")
	j := a.createJob(boss, map[string]any{"title": "t", "description": "d"})
	path := fmt.Sprintf("/api/jobs/%d/applications", j.ID)

	if status, _ := a.do(http.MethodPost, path, seeker, nil); status != http.StatusCreated {
		t.Fatalf("apply without body: %d", status)
	}
	if status, _ := a.do(http.MethodPost, path, seeker, nil); status != http.StatusConflict {
		t.Fatalf("apply twice: %d", status)
	}
	if status, _ := a.do(http.MethodPost, path, boss, nil); status != http.StatusForbidden {
		t.Fatalf("employer apply: %d", status)
	}
	if status, _ := a.do(http.MethodPost, "/api/jobs/999/applications", seeker, nil); status != http.StatusNotFound {
		t.Fatalf("missing job: %d", status)
	}

	_, env := a.do(http.MethodGet, fmt.Sprintf("/api/jobs/%d", j.ID), "", nil)
	if got := decode[jobJSON](t, env.Data); got.ApplicationCount == nil || *got.ApplicationCount != 1 {
		t.Fatalf("application count = %v", got.ApplicationCount)
	}
}

func TestHealthAndIndex(t *testing.T) {
	a := newAPI(t)
	status, env := a.do(http.MethodGet, "/api/health", "", nil)
	if status != http.StatusOK {
		t.Fatalf("health: %d", status)
	}
	if h := decode[map[string]any](t, env.Data); h["status"] != "OK" {
		t.Fatalf("health = %v", h)
	}
	if status, _ := a.do(http.MethodGet, "/", "", nil); status != http.StatusOK {
		t.Fatalf("index: %d", status)
	}
	if status, _ := a.do(http.MethodGet, "/api/nope", "", nil); status != http.StatusNotFound {
		t.Fatalf("unknown route: %d", status)
	}
}
