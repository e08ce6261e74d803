package server_test

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/gatekit/auth"
	"github.com/kbukum/gatekit/auth/memory"
	"github.com/kbukum/gatekit/auth/permission"
	apperrors "github.com/kbukum/gatekit/errors"
	"github.com/kbukum/gatekit/logger"
	"github.com/kbukum/gatekit/observability"
	"github.com/kbukum/gatekit/server"
	"github.com/kbukum/gatekit/server/endpoint"
	"github.com/kbukum/gatekit/server/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(t *testing.T, opts ...server.Option) (*server.Router, *observability.PromRecorder) {
	t.Helper()
	users, err := memory.NewFromConfig(memory.Config{Users: []memory.UserConfig{
		{Username: "alice", Password: "secret", Authorities: []string{"ROLE_USER", "article:read"}},
	}})
	if err != nil {
		t.Fatalf("memory.NewFromConfig: %v", err)
	}
	prom, err := observability.NewPromRecorder("gatekit_test", nil)
	if err != nil {
		t.Fatalf("NewPromRecorder: %v", err)
	}
	provider := auth.NewDaoProvider(users, nil, nil,
		auth.WithLogger(logger.NewNop()),
		auth.WithRecorder(prom),
	)
	opts = append([]server.Option{
		server.WithLogger(logger.NewNop()),
		server.WithMetricsHandler(prom.Handler()),
	}, opts...)
	r, err := server.New(server.Config{}, provider, opts...)
	if err != nil {
		t.Fatalf("server.New: %v", err)
	}
	return r, prom
}

func get(h http.Handler, path, user, pass string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
	if user != "" {
		req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(user+":"+pass)))
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestConfig_Defaults(t *testing.T) {
	var cfg server.Config
	cfg.ApplyDefaults()
	if cfg.Realm != "gatekit" || cfg.APIPrefix != "/api" || cfg.HealthPath != "/health" || cfg.MetricsPath != "/metrics" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*server.Config)
	}{
		{"relative prefix", func(c *server.Config) { c.APIPrefix = "api" }},
		{"relative health", func(c *server.Config) { c.HealthPath = "health" }},
		{"quoted realm", func(c *server.Config) { c.Realm = `a"b` }},
		{"escaped realm", func(c *server.Config) { c.Realm = `a\b` }},
		{"realm with newline", func(c *server.Config) { c.Realm = "a\nb" }},
		{"uppercase provider key", func(c *server.Config) { c.ProviderKey = "Main" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var cfg server.Config
			cfg.ApplyDefaults()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := server.New(server.Config{APIPrefix: "api"}, nil)
	if err == nil {
		t.Fatal("expected error for invalid config")
	}
}

func TestRouter_HealthIsPublic(t *testing.T) {
	r, _ := newRouter(t)
	rr := get(r, "/health", "", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if rr.Header().Get(middleware.HeaderRequestID) == "" {
		t.Error("expected request id on every response")
	}
}

func TestRouter_Me(t *testing.T) {
	r, _ := newRouter(t)

	rr := get(r, "/api/me", "alice", "secret")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rr.Code, rr.Body.String())
	}
	var body struct {
		Data endpoint.Principal `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.Username != "alice" || len(body.Data.Authorities) != 2 {
		t.Errorf("principal = %+v", body.Data)
	}

	rr = get(r, "/api/me", "alice", "nope")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("bad password status = %d", rr.Code)
	}
	if !strings.HasPrefix(rr.Header().Get("WWW-Authenticate"), `Basic realm="gatekit"`) {
		t.Errorf("challenge = %q", rr.Header().Get("WWW-Authenticate"))
	}
}

func TestRouter_ProtectedGroup(t *testing.T) {
	r, _ := newRouter(t)
	checker := permission.NewMapChecker(nil)
	r.Protected().GET("/articles",
		middleware.RequireAuthority(checker, "article:read"),
		func(c *gin.Context) { server.RespondOK(c, []string{"a1"}) })
	r.Protected().GET("/admin",
		middleware.RequireAuthority(checker, "ROLE_ADMIN"),
		func(c *gin.Context) { server.RespondOK(c, nil) })

	if rr := get(r, "/api/articles", "alice", "secret"); rr.Code != http.StatusOK {
		t.Errorf("articles status = %d", rr.Code)
	}
	if rr := get(r, "/api/admin", "alice", "secret"); rr.Code != http.StatusForbidden {
		t.Errorf("admin status = %d", rr.Code)
	}
	if rr := get(r, "/api/articles", "", ""); rr.Code != http.StatusUnauthorized {
		t.Errorf("anonymous status = %d", rr.Code)
	}
}

func TestRouter_MetricsExposeAttempts(t *testing.T) {
	r, _ := newRouter(t)
	get(r, "/api/me", "alice", "secret")
	get(r, "/api/me", "alice", "wrong")

	rr := get(r, "/metrics", "", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", rr.Code)
	}
	out := rr.Body.String()
	for _, want := range []string{
		`gatekit_test_auth_attempts_total{outcome="success",provider="dao"} 1`,
		`gatekit_test_auth_attempts_total{outcome="bad_credentials",provider="dao"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestRespondWithError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantErr  apperrors.ErrorCode
	}{
		{"auth bad credentials", auth.BadCredentials(), http.StatusUnauthorized, apperrors.ErrCodeInvalidCredentials},
		{"auth not found", auth.UsernameNotFound(), http.StatusUnauthorized, apperrors.ErrCodeInvalidCredentials},
		{"auth locked", auth.AccountStatusError(auth.StatusLocked), http.StatusForbidden, apperrors.ErrCodeAccountLocked},
		{"app error", apperrors.Forbidden(""), http.StatusForbidden, apperrors.ErrCodeForbidden},
		{"plain", errors.New("boom"), http.StatusInternalServerError, apperrors.ErrCodeInternal},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rr)
			server.RespondWithError(c, tc.err)
			if rr.Code != tc.wantCode {
				t.Errorf("status = %d, want %d", rr.Code, tc.wantCode)
			}
			var resp apperrors.ErrorResponse
			if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Error.Code != tc.wantErr {
				t.Errorf("code = %s, want %s", resp.Error.Code, tc.wantErr)
			}
			if strings.Contains(rr.Body.String(), "boom") {
				t.Error("internal cause must not leak")
			}
		})
	}
}
