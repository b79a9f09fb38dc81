package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"werkzeugverwaltung/refs"
	"werkzeugverwaltung/services"
)

func init() { gin.SetMode(gin.TestMode) }

func memoryConfig() Config {
	return Config{
		Env:                   "test",
		TimeZone:              "Europe/Berlin",
		Backend:               BackendMemory,
		InspectionHorizonDays: 30,
		ActivityLimit:         10,
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("STORE_BACKEND", "Postgres")
	t.Setenv("API_KEYS", "lager:abc, werkstatt:def")
	t.Setenv("LA_APP_TOOLS", "0123456789abcdef01234567")
	t.Setenv("SNAPSHOT_TTL_SECONDS", "5")
	t.Setenv("STRICT_CHECKOUTS", "true")

	cfg := LoadConfig()
	assert.Equal(t, BackendPostgres, cfg.Backend)
	assert.Equal(t, []string{"lager:abc", "werkstatt:def"}, cfg.APIKeys)
	assert.Equal(t, "0123456789abcdef01234567", cfg.LivingApps.Apps.Tools)
	assert.Equal(t, refs.DefaultAppIDs.Returns, cfg.LivingApps.Apps.Returns)
	assert.Equal(t, 5*time.Second, cfg.SnapshotTTL)
	assert.Equal(t, 15*time.Second, cfg.LivingApps.Timeout)
	assert.Equal(t, "3001", cfg.Port)
	assert.True(t, cfg.StrictCheckouts)
	assert.False(t, cfg.Development())
}

func TestNew_Backends(t *testing.T) {
	a, err := New(memoryConfig(), zap.NewNop())
	require.NoError(t, err)
	assert.NotNil(t, a.Memory)
	assert.Nil(t, a.RDB)
	assert.Nil(t, a.Repo)

	cfg := memoryConfig()
	cfg.Backend = BackendPostgres
	_, err = New(cfg, zap.NewNop())
	assert.Error(t, err)

	cfg.Backend = "sqlite"
	_, err = New(cfg, zap.NewNop())
	assert.Error(t, err)

	cfg = memoryConfig()
	cfg.TimeZone = "Mars/Olympus"
	_, err = New(cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestBootstrapDemoData(t *testing.T) {
	cfg := memoryConfig()
	cfg.SeedDemo = true
	a, err := New(cfg, zap.NewNop())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, BootstrapDemoData(ctx, a))
	res, err := a.Dashboard.Load(ctx, services.DashboardOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, res.KPIs.TotalTools)
	assert.Equal(t, 1, res.KPIs.Overdue)
	assert.Equal(t, 1, res.KPIs.InspectionOverdue)
	assert.Equal(t, 1, res.KPIs.NeedsRepair)

	// second run leaves the store alone
	require.NoError(t, BootstrapDemoData(ctx, a))
	tools, err := a.Store.Tools.List(ctx)
	require.NoError(t, err)
	assert.Len(t, tools, 3)
}

func newAuthRouter(cfg Config) *gin.Engine {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/read", AuthRequired(cfg), func(c *Ctx) { c.JSON(200, H{"actor": c.GetString("actor")}) })
	r.DELETE("/write", AuthRequired(cfg), AdminOnly(), func(c *Ctx) { c.Status(204) })
	return r
}

func TestAuth(t *testing.T) {
	r := newAuthRouter(Config{APIKeys: []string{"lager:abc"}, AdminAPIKeys: []string{"chef:xyz"}})

	cases := []struct {
		name   string
		method string
		path   string
		header map[string]string
		want   int
	}{
		{"no key", "GET", "/read", nil, http.StatusUnauthorized},
		{"wrong key", "GET", "/read", map[string]string{APIKeyHeader: "nope"}, http.StatusUnauthorized},
		{"user key", "GET", "/read", map[string]string{APIKeyHeader: "abc"}, http.StatusOK},
		{"bearer", "GET", "/read", map[string]string{"Authorization": "Bearer abc"}, http.StatusOK},
		{"user key on admin route", "DELETE", "/write", map[string]string{APIKeyHeader: "abc"}, http.StatusForbidden},
		{"admin key", "DELETE", "/write", map[string]string{APIKeyHeader: "xyz"}, http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			for k, v := range tc.header {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.want, w.Code)
			assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
		})
	}
}

func TestAuth_OpenWithoutKeys(t *testing.T) {
	r := newAuthRouter(Config{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("DELETE", "/write", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRequestID_KeepsCallerValue(t *testing.T) {
	r := newAuthRouter(Config{})
	req := httptest.NewRequest("GET", "/read", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
	assert.JSONEq(t, `{"actor":"anonymous"}`, w.Body.String())
}

func TestParseKeys(t *testing.T) {
	keys := parseKeys([]string{"lager:abc", "plain", ":odd"}, false, "key")
	assert.Equal(t, apiKey{label: "lager", secret: "abc"}, keys[0])
	assert.Equal(t, apiKey{label: "key-2", secret: "plain"}, keys[1])
	assert.Equal(t, apiKey{label: "key-3", secret: ":odd"}, keys[2])
}
