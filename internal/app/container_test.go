package app

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/you/parkease/internal/config"
	"github.com/you/parkease/internal/infrastructure/repositories"
	"github.com/you/parkease/pkg/log"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && keyMatch2(r.obj, p.obj) && regexMatch(r.act, p.act)
`

const callbackURL = "https://park.example.com/auth/magic-link/callback"

type testApp struct {
	container *Container
	router    *gin.Engine
	logs      *bytes.Buffer
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	return newTestAppEnv(t, "local")
}

func newTestAppEnv(t *testing.T, env string) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	modelPath := filepath.Join(dir, "rbac_model.conf")
	require.NoError(t, os.WriteFile(modelPath, []byte(rbacModel), 0o600))

	mr := miniredis.RunT(t)

	cfg := &config.Config{
		Port:                  "0",
		Env:                   env,
		DBDriver:              "sqlite",
		DSN:                   "file:" + filepath.Join(dir, "parkease.db"),
		DBMaxWait:             time.Second,
		RedisAddr:             mr.Addr(),
		JWTSecret:             "test-secret",
		JWTIssuer:             "parkease-test",
		AccessTTL:             15 * time.Minute,
		RefreshTTL:            24 * time.Hour,
		MagicLinkBaseURL:      callbackURL,
		MagicLinkResendWindow: time.Minute,
		LoginMaxAttempts:      3,
		LoginWindow:           15 * time.Minute,
		CasbinModelPath:       modelPath,
		NATSAuditSubject:      "audit.auth",
	}
	require.NoError(t, cfg.Validate())

	logs := &bytes.Buffer{}
	c, err := NewContainer(context.Background(), cfg, log.NewWithWriter("test", logs))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	return &testApp{container: c, router: c.Router(), logs: logs}
}

func (a *testApp) do(t *testing.T, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var out map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w.Code, out
}

// lastMagicLinkToken pulls the raw token out of the most recent logged email
func (a *testApp) lastMagicLinkToken(t *testing.T) string {
	t.Helper()
	var token string
	scanner := bufio.NewScanner(bytes.NewReader(a.logs.Bytes()))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var entry map[string]interface{}
		if json.Unmarshal(scanner.Bytes(), &entry) != nil || entry["message"] != "email queued to log" {
			continue
		}
		body, _ := entry["body"].(string)
		idx := strings.Index(body, callbackURL)
		require.GreaterOrEqual(t, idx, 0)
		u, err := url.Parse(strings.Fields(body[idx:])[0])
		require.NoError(t, err)
		token = u.Query().Get("token")
	}
	require.NotEmpty(t, token, "no magic link email logged")
	return token
}

func data(t *testing.T, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	d, ok := body["data"].(map[string]interface{})
	require.True(t, ok, "missing data in %v", body)
	return d
}

func TestContainer_PasswordFlow(t *testing.T) {
	a := newTestApp(t)

	status, _ := a.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, status)

	status, body := a.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "Driver@Example.com", "password": "s3cret-pass", "first_name": "Ada",
	})
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, "driver@example.com", data(t, body)["user"].(map[string]interface{})["email"])

	status, _ = a.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "driver@example.com", "password": "another-pass",
	})
	assert.Equal(t, http.StatusConflict, status)

	status, _ = a.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "driver@example.com", "password": "wrong-pass",
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = a.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "driver@example.com", "password": "s3cret-pass",
	})
	require.Equal(t, http.StatusOK, status, body)
	access := data(t, body)["access_token"].(string)
	refresh := data(t, body)["refresh_token"].(string)

	status, body = a.do(t, http.MethodGet, "/auth/me", access, nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "customer", data(t, body)["role"])
	assert.NotContains(t, data(t, body), "password_hash")

	status, body = a.do(t, http.MethodPatch, "/auth/me", access, map[string]string{"last_name": "Lovelace"})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "Lovelace", data(t, body)["last_name"])

	status, body = a.do(t, http.MethodPost, "/vehicles", access, map[string]string{"plate_number": "hh-ab 12"})
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, "HH-AB 12", data(t, body)["plate_number"])

	status, body = a.do(t, http.MethodGet, "/vehicles", access, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["data"], 1)

	status, _ = a.do(t, http.MethodGet, "/admin/policies", access, nil)
	assert.Equal(t, http.StatusForbidden, status, "customers cannot manage policies")

	status, body = a.do(t, http.MethodPost, "/auth/refresh", "", map[string]string{"refresh_token": refresh})
	require.Equal(t, http.StatusOK, status, body)
	assert.NotEmpty(t, data(t, body)["access_token"])

	status, _ = a.do(t, http.MethodPost, "/auth/logout", access, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = a.do(t, http.MethodGet, "/auth/me", access, nil)
	assert.Equal(t, http.StatusUnauthorized, status, "token is dead once its session is gone")

	status, _ = a.do(t, http.MethodPost, "/auth/refresh", "", map[string]string{"refresh_token": refresh})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestContainer_MagicLinkFlow(t *testing.T) {
	a := newTestApp(t)

	status, _ := a.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "owner@example.com", "password": "s3cret-pass", "role": "owner",
	})
	require.Equal(t, http.StatusCreated, status)

	status, _ = a.do(t, http.MethodPost, "/auth/magic-link", "", map[string]string{"email": "owner@example.com"})
	require.Equal(t, http.StatusAccepted, status)
	token := a.lastMagicLinkToken(t)

	status, _ = a.do(t, http.MethodPost, "/auth/magic-link", "", map[string]string{"email": "owner@example.com"})
	assert.Equal(t, http.StatusTooManyRequests, status, "resend window applies")

	status, _ = a.do(t, http.MethodPost, "/auth/magic-link", "", map[string]string{"email": "nobody@example.com"})
	assert.Equal(t, http.StatusAccepted, status, "unknown emails look the same")

	status, body := a.do(t, http.MethodGet, "/auth/magic-link/callback?token="+token, "", nil)
	require.Equal(t, http.StatusOK, status, body)
	user := data(t, body)["user"].(map[string]interface{})
	assert.Equal(t, "owner", user["role"])
	assert.Equal(t, true, user["email_verified"])

	status, _ = a.do(t, http.MethodPost, "/auth/magic-link/verify", "", map[string]string{"token": token})
	assert.Equal(t, http.StatusUnauthorized, status, "links are single use")
}

func TestContainer_MagicLinkNotLoggedOutsideLocal(t *testing.T) {
	a := newTestAppEnv(t, "production")

	status, _ := a.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "owner@example.com", "password": "s3cret-pass",
	})
	require.Equal(t, http.StatusCreated, status)

	status, _ = a.do(t, http.MethodPost, "/auth/magic-link", "", map[string]string{"email": "owner@example.com"})
	require.Equal(t, http.StatusAccepted, status)

	user, err := a.container.UserRepo.FindByEmail(context.Background(), "owner@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, user.MagicLinkTokenHash, "a link was issued")

	logged := a.logs.String()
	assert.Contains(t, logged, "email queued to log")
	assert.NotContains(t, logged, "token=")
	assert.NotContains(t, logged, user.MagicLinkTokenHash)
	assert.False(t, regexp.MustCompile(`[0-9a-f]{64}`).MatchString(logged), "no token material in logs")
}

func TestContainer_LoginLockout(t *testing.T) {
	a := newTestApp(t)

	status, _ := a.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "driver@example.com", "password": "s3cret-pass",
	})
	require.Equal(t, http.StatusCreated, status)

	for i := 0; i < 3; i++ {
		status, _ = a.do(t, http.MethodPost, "/auth/login", "", map[string]string{
			"email": "driver@example.com", "password": "wrong-pass",
		})
		require.Equal(t, http.StatusUnauthorized, status)
	}

	status, _ = a.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "driver@example.com", "password": "s3cret-pass",
	})
	assert.Equal(t, http.StatusTooManyRequests, status)
}

func TestContainer_AdminManagesPolicies(t *testing.T) {
	a := newTestApp(t)

	// Admins cannot self-register; promote a stored account directly
	status, _ := a.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "admin@example.com", "password": "s3cret-pass",
	})
	require.Equal(t, http.StatusCreated, status)
	require.NoError(t, a.container.DB.Model(&repositories.DBUser{}).
		Where("email = ?", "admin@example.com").Update("role", "ADMIN").Error)

	status, body := a.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "admin@example.com", "password": "s3cret-pass",
	})
	require.Equal(t, http.StatusOK, status)
	access := data(t, body)["access_token"].(string)

	status, _ = a.do(t, http.MethodPost, "/admin/policies", access, map[string]string{
		"role": "watchman", "resource": "/vehicles", "action": "GET",
	})
	require.Equal(t, http.StatusNoContent, status)

	status, body = a.do(t, http.MethodGet, "/admin/policies", access, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body["data"], []interface{}{"role_watchman", "/vehicles", "GET"})
}
