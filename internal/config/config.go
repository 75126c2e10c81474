// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/propmaint/backend/internal/models"
	"github.com/propmaint/backend/internal/records"
)

const (
	DriverNotion   = "notion"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Env        string `mapstructure:"env"`
	Port       string `mapstructure:"port"`
	GinMode    string `mapstructure:"gin_mode"`
	CORSOrigin string `mapstructure:"cors_origin"`
	Logging    struct {
		Level string `mapstructure:"level"`
		Dir   string `mapstructure:"dir"`
	} `mapstructure:"logging"`
	Store struct {
		Driver string `mapstructure:"driver"`
		Notion struct {
			APIKey  string `mapstructure:"api_key"`
			BaseURL string `mapstructure:"base_url"`
		} `mapstructure:"notion"`
		DatabaseURL string `mapstructure:"database_url"`
	} `mapstructure:"store"`
	Collections struct {
		Tourist     string `mapstructure:"tourist"`
		Corporate   string `mapstructure:"corporate"`
		Vitarooms   string `mapstructure:"vitarooms"`
		Maintenance string `mapstructure:"maintenance"`
	} `mapstructure:"collections"`
	Cache struct {
		TTL time.Duration `mapstructure:"ttl"`
	} `mapstructure:"cache"`
	Auth struct {
		AdminPassword   string        `mapstructure:"admin_password"`
		GestionPassword string        `mapstructure:"gestion_password"`
		SessionSecret   string        `mapstructure:"session_secret"`
		SessionTTL      time.Duration `mapstructure:"session_ttl"`
		CookieSecure    bool          `mapstructure:"cookie_secure"`
	} `mapstructure:"auth"`
	Blob struct {
		Token     string `mapstructure:"token"`
		BaseURL   string `mapstructure:"base_url"`
		UploadDir string `mapstructure:"upload_dir"`
		MaxBytes  int64  `mapstructure:"max_bytes"`
	} `mapstructure:"blob"`
}

var bindings = map[string]string{
	"env":                     "ENV",
	"port":                    "PORT",
	"gin_mode":                "GIN_MODE",
	"cors_origin":             "CORS_ORIGIN",
	"logging.level":           "LOG_LEVEL",
	"logging.dir":             "LOG_DIR",
	"store.driver":            "STORE_DRIVER",
	"store.notion.api_key":    "NOTION_API_KEY",
	"store.notion.base_url":   "NOTION_BASE_URL",
	"store.database_url":      "DATABASE_URL",
	"collections.tourist":     "NOTION_DATABASE_ID",
	"collections.corporate":   "NOTION_DATABASE_ID_CORPORATIVO",
	"collections.vitarooms":   "NOTION_DATABASE_ID_VITAROOMS",
	"collections.maintenance": "NOTION_DATABASE_ID_MANTENIMIENTO",
	"cache.ttl":               "CACHE_TTL",
	"auth.admin_password":     "ADMIN_PASSWORD",
	"auth.gestion_password":   "GESTION_PASSWORD",
	"auth.session_secret":     "SESSION_SECRET",
	"auth.session_ttl":        "SESSION_TTL",
	"auth.cookie_secure":      "SESSION_COOKIE_SECURE",
	"blob.token":              "BLOB_READ_WRITE_TOKEN",
	"blob.base_url":           "BLOB_BASE_URL",
	"blob.upload_dir":         "UPLOAD_DIR",
	"blob.max_bytes":          "UPLOAD_MAX_BYTES",
}

// Load reads .env (when present), config.yaml (when present) and the
// environment, in increasing order of precedence.
func Load() (Config, error) {
	_ = godotenv.Load()
	return load(viper.New(), ".", "..")
}

func load(v *viper.Viper, paths ...string) (Config, error) {
	v.SetDefault("env", "development")
	v.SetDefault("port", "8080")
	v.SetDefault("cors_origin", "http://localhost:5173")
	v.SetDefault("logging.level", "INFO")
	v.SetDefault("store.driver", DriverNotion)
	v.SetDefault("cache.ttl", "30s")
	v.SetDefault("auth.session_ttl", "168h")
	v.SetDefault("auth.cookie_secure", false)
	v.SetDefault("blob.upload_dir", "public/uploads")
	v.SetDefault("blob.max_bytes", 5<<20)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	for key, env := range bindings {
		_ = v.BindEnv(key, env)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	c.Store.Driver = strings.ToLower(strings.TrimSpace(c.Store.Driver))
	if c.Store.Driver != DriverNotion {
		c.applyLocalCollections()
	}
	return c, nil
}

// applyLocalCollections names the collections of self-hosted stores when
// nothing else was configured.
func (c *Config) applyLocalCollections() {
	if c.Collections.Tourist == "" {
		c.Collections.Tourist = "turistico"
	}
	if c.Collections.Corporate == "" {
		c.Collections.Corporate = "corporativo"
	}
	if c.Collections.Vitarooms == "" {
		c.Collections.Vitarooms = "vitarooms"
	}
	if c.Collections.Maintenance == "" {
		c.Collections.Maintenance = "mantenimiento"
	}
}

// IsLocal reports whether the process runs in a developer environment.
func (c Config) IsLocal() bool {
	return c.Env == "" || c.Env == "local" || c.Env == "development"
}

func (c Config) Validate() error {
	switch c.Store.Driver {
	case DriverNotion:
		if c.Store.Notion.APIKey == "" {
			return errors.New("config error: NOTION_API_KEY required for the notion store")
		}
	case DriverPostgres:
		if c.Store.DatabaseURL == "" {
			return errors.New("config error: DATABASE_URL required for the postgres store")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("config error: unknown store driver %q", c.Store.Driver)
	}
	if c.Auth.SessionSecret == "" && !c.IsLocal() {
		return errors.New("config error: SESSION_SECRET required outside development")
	}
	if c.Cache.TTL < 0 {
		return errors.New("config error: CACHE_TTL must not be negative")
	}
	return nil
}

// IncidentCollections maps each category to its configured collection.
func (c Config) IncidentCollections() records.Collections {
	incidents := map[models.Category]string{}
	for cat, id := range map[models.Category]string{
		models.CategoryTourist:   c.Collections.Tourist,
		models.CategoryCorporate: c.Collections.Corporate,
		models.CategoryVitarooms: c.Collections.Vitarooms,
	} {
		if id != "" {
			incidents[cat] = id
		}
	}
	return records.Collections{Incidents: incidents, Maintenance: c.Collections.Maintenance}
}
