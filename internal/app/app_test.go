package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"careerflow-api/internal/core/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.App.Name = "careerflow-test"
	cfg.App.Env = "test"
	cfg.App.PublicBaseURL = "http://localhost:5000"
	cfg.JWT.Secret = "secret"
	cfg.JWT.Issuer = "careerflow-test"
	cfg.Auth.BcryptCost = 12
	cfg.Upload.Dir = t.TempDir()
	cfg.Upload.MaxBytes = 5 << 20
	return cfg
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=localhost user=x dbname=x sslmode=disable"}),
		&gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)
	a := New(context.Background(), testConfig(t), zap.NewNop(), db)
	t.Cleanup(a.Close)
	return a
}

func serve(h http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestNew_WiresEngines(t *testing.T) {
	a := newTestApp(t)
	assert.Nil(t, a.Cache)

	api := a.APIEngine()
	assert.Equal(t, http.StatusOK, serve(api, "/health").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(api, "/api/jobs/my-jobs").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(api, "/api/auth/me").Code)

	m := serve(api, "/metrics")
	require.Equal(t, http.StatusOK, m.Code)
	assert.Contains(t, m.Body.String(), "go_goroutines")

	admin := a.AdminEngine()
	assert.Equal(t, http.StatusUnauthorized, serve(admin, "/admin/v1/stats").Code)
	assert.Equal(t, http.StatusNotFound, serve(admin, "/api/jobs").Code)
}

func TestNewLogger_FileRotation(t *testing.T) {
	cfg := testConfig(t)
	cfg.Log.Level = "info"
	cfg.Log.JSON = true
	cfg.Log.File.Enable = true
	cfg.Log.File.Filename = filepath.Join(t.TempDir(), "app.log")

	l, cleanup := NewLogger(cfg)
	l.Info("hello", zap.String("k", "v"))
	cleanup()

	b, err := os.ReadFile(cfg.Log.File.Filename)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"msg":"hello"`)
}
