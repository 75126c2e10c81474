package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propmaint/backend/internal/models"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	c, err := load(viper.New(), t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", c.Port)
	assert.Equal(t, DriverNotion, c.Store.Driver)
	assert.Equal(t, 30*time.Second, c.Cache.TTL)
	assert.Equal(t, 168*time.Hour, c.Auth.SessionTTL)
	assert.Equal(t, int64(5<<20), c.Blob.MaxBytes)
	assert.Equal(t, "public/uploads", c.Blob.UploadDir)
	assert.Empty(t, c.Collections.Tourist, "notion collections have no defaults")
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/propmaint")
	t.Setenv("NOTION_DATABASE_ID_VITAROOMS", "vita-db")
	t.Setenv("CACHE_TTL", "5s")
	t.Setenv("SESSION_COOKIE_SECURE", "true")

	c, err := load(viper.New(), t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, c.Store.Driver)
	assert.Equal(t, 5*time.Second, c.Cache.TTL)
	assert.True(t, c.Auth.CookieSecure)
	assert.Equal(t, "vita-db", c.Collections.Vitarooms)
	assert.Equal(t, "turistico", c.Collections.Tourist)
	assert.Equal(t, "mantenimiento", c.Collections.Maintenance)
	assert.NoError(t, c.Validate())
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	yaml := "port: \"9090\"\nstore:\n  driver: memory\ncache:\n  ttl: 1m\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))
	t.Setenv("STORE_DRIVER", "")

	c, err := load(viper.New(), dir)
	require.NoError(t, err)
	assert.Equal(t, "9090", c.Port)
	assert.Equal(t, DriverMemory, c.Store.Driver)
	assert.Equal(t, time.Minute, c.Cache.TTL)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		var c Config
		c.Env = "production"
		c.Store.Driver = DriverNotion
		c.Store.Notion.APIKey = "secret_x"
		c.Auth.SessionSecret = "s"
		return c
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"notion without key", func(c *Config) { c.Store.Notion.APIKey = "" }, true},
		{"postgres without url", func(c *Config) { c.Store.Driver = DriverPostgres }, true},
		{"unknown driver", func(c *Config) { c.Store.Driver = "mongo" }, true},
		{"no secret in production", func(c *Config) { c.Auth.SessionSecret = "" }, true},
		{"no secret in development", func(c *Config) { c.Auth.SessionSecret = ""; c.Env = "development" }, false},
	}
	for _, tt := range tests {
		c := base()
		tt.mutate(&c)
		err := c.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: Validate() error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestIncidentCollections(t *testing.T) {
	var c Config
	c.Collections.Tourist = "tur"
	c.Collections.Maintenance = "mant"

	cols := c.IncidentCollections()
	assert.Equal(t, map[models.Category]string{models.CategoryTourist: "tur"}, cols.Incidents)
	assert.Equal(t, "mant", cols.Maintenance)
}
