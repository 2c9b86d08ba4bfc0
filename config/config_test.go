package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("PORT", "")
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("AUTH_MODE", "")
	t.Setenv("RESOURCES_FILE", "")
	t.Setenv("LOG_FORMAT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, AuthNone, cfg.Auth.Mode)
	assert.Equal(t, "text", cfg.App.LogFormat)
	assert.Empty(t, cfg.Resources.Resources)
}

func TestLoad_FromEnvironment(t *testing.T) {
	resources := writeFile(t, "resources.yaml", `
resources:
  nodes:
    url: /paragraphs
    forbidden_methods: [delete]
`)
	t.Setenv("APP_ENV", "production")
	t.Setenv("LOG_FORMAT", "")
	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE_DRIVER", "Redis")
	t.Setenv("REDIS_ADDR", "cache:6379")
	t.Setenv("AUTH_MODE", "")
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("RATE_LIMIT_RPS", "12.5")
	t.Setenv("RATE_LIMIT_BURST", "not-a-number")
	t.Setenv("RESOURCES_FILE", resources)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, DriverRedis, cfg.Storage.Driver)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, "json", cfg.App.LogFormat)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 12.5, cfg.Server.RateLimitRPS)
	assert.Equal(t, 20, cfg.Server.RateLimitBurst)
	assert.Equal(t, "/paragraphs", cfg.Resources.Resources["nodes"].URL)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("STORAGE_DRIVER", "mongo")
	t.Setenv("AUTH_MODE", "")
	t.Setenv("RESOURCES_FILE", "")

	_, err := Load()
	assert.ErrorContains(t, err, `unknown STORAGE_DRIVER "mongo"`)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:  ServerConfig{Port: "8080"},
			Storage: StorageConfig{Driver: DriverMemory},
			Auth:    AuthConfig{Mode: AuthNone},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing port", mutate: func(c *Config) { c.Server.Port = "" }, wantErr: "PORT is required"},
		{name: "negative rate", mutate: func(c *Config) { c.Server.RateLimitRPS = -1 }, wantErr: "RATE_LIMIT_RPS"},
		{name: "postgres without host", mutate: func(c *Config) { c.Storage.Driver = DriverPostgres }, wantErr: "DB_DSN or DB_HOST"},
		{name: "postgres with dsn", mutate: func(c *Config) {
			c.Storage.Driver = DriverPostgres
			c.Database.DSN = "postgres://localhost/seed"
		}},
		{name: "redis without addr", mutate: func(c *Config) { c.Storage.Driver = DriverRedis }, wantErr: "REDIS_ADDR"},
		{name: "firebase without project", mutate: func(c *Config) { c.Auth.Mode = AuthFirebase }, wantErr: "FIREBASE_PROJECT_ID"},
		{name: "unknown auth mode", mutate: func(c *Config) { c.Auth.Mode = "ldap" }, wantErr: "unknown AUTH_MODE"},
		{name: "bad forbidden method", mutate: func(c *Config) {
			c.Resources.Resources = map[string]ResourceConfig{"tags": {ForbiddenMethods: []string{"PATCH"}}}
		}, wantErr: "resource tags"},
		{name: "misspelled resource", mutate: func(c *Config) {
			c.Resources.Resources = map[string]ResourceConfig{"node": {URL: "/paragraphs"}}
		}, wantErr: `unknown resource "node"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestPostgresDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5433, User: "seed", Password: "pw", Name: "seed", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5433 user=seed password=pw dbname=seed sslmode=disable", d.PostgresDSN())

	d.DSN = "postgres://override"
	assert.Equal(t, "postgres://override", d.PostgresDSN())
}

func TestLoadResources(t *testing.T) {
	rc, err := LoadResources("")
	require.NoError(t, err)
	assert.Empty(t, rc.Resources)

	_, err = LoadResources(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read resources file")

	_, err = LoadResources(writeFile(t, "broken.yaml", "resources: [unclosed"))
	assert.ErrorContains(t, err, "parse resources file")
}

func TestLoad_RejectsMisspelledResource(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("AUTH_MODE", "")
	t.Setenv("RESOURCES_FILE", writeFile(t, "resources.yaml", "resources:\n  tag:\n    url: /labels\n"))

	_, err := Load()
	assert.ErrorContains(t, err, `unknown resource "tag"`)
}

func TestResourcesConfig_Resource(t *testing.T) {
	rc, err := LoadResources(writeFile(t, "resources.yaml", `
resources:
  tags:
    url: labels
    forbidden_methods: [put, Delete]
`))
	require.NoError(t, err)

	res, err := rc.Resource("tags")
	require.NoError(t, err)
	assert.Equal(t, "tags", res.Name)
	assert.Equal(t, "/labels", res.BasePath())
	assert.Equal(t, []string{"DELETE", "PUT"}, res.Forbidden.List())

	res, err = rc.Resource("nodes")
	require.NoError(t, err)
	assert.Equal(t, "/nodes", res.BasePath())
	assert.Empty(t, res.Forbidden)
}
