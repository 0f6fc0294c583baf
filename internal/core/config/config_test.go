package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
app:
  name: careerflow-test
  http:
    port: 8088
  public_base_url: https://jobs.example.com
  cors_origins: ["https://app.example.com"]
log:
  level: debug
  json: true
jwt:
  secret: from-file
  access_token_ttl_min: 60
db:
  driver: mysql
  dsn: mysql://root@127.0.0.1:3306/careerflow
redis:
  addr: 127.0.0.1:6379
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoad_FromFile(t *testing.T) {
	c, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "careerflow-test", c.App.Name)
	assert.Equal(t, 8088, c.App.HTTP.Port)
	assert.Equal(t, "https://jobs.example.com", c.App.PublicBaseURL)
	assert.Equal(t, []string{"https://app.example.com"}, c.App.CORSOrigins)
	assert.Equal(t, "debug", c.Log.Level)
	assert.True(t, c.Log.JSON)
	assert.Equal(t, "from-file", c.JWT.Secret)
	assert.Equal(t, 60, c.JWT.AccessTokenTTLMin)
	assert.Equal(t, "mysql", c.DB.Driver)
	assert.Equal(t, "127.0.0.1:6379", c.Redis.Addr)
	// defaults fill the rest
	assert.Equal(t, 12, c.Auth.BcryptCost)
	assert.Equal(t, int64(5<<20), c.Upload.MaxBytes)
	assert.NoError(t, c.Validate())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("APP_JWT_SECRET", "from-env")
	t.Setenv("APP_DB_DSN", "postgres://env")

	c, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, "from-env", c.JWT.Secret)
	assert.Equal(t, "postgres://env", c.DB.DSN)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 5000, c.App.HTTP.Port)
	assert.Equal(t, 30*24*60, c.JWT.AccessTokenTTLMin)
	assert.Equal(t, "postgres", c.DB.Driver)
}

func TestValidate_ReportsMissingSecretAndDSN(t *testing.T) {
	err := (&Config{}).Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt.secret")
	assert.Contains(t, err.Error(), "db.dsn")
}
