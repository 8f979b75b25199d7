package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/ini.v1"

	"github.com/meur/gamelib/internal/contentful"
	"github.com/meur/gamelib/internal/models"
)

// Catalog sources
const (
	SourceContentful = "contentful"
	SourceSQLite     = "sqlite"
)

// Config is the full service configuration
type Config struct {
	Port           string
	DBPath         string
	StaticDir      string
	AllowedOrigins []string
	LogLevel       string

	Source     string
	Revalidate time.Duration
	Platforms  []string

	Contentful contentful.Config

	AdminPasswordHash string

	PreloadConcurrency int
	PreloadSettle      time.Duration
	PreloadTimeout     time.Duration
}

// Default returns the configuration used when no file or env is present
func Default() Config {
	return Config{
		Port:           "8080",
		DBPath:         "./gamelib.db",
		StaticDir:      "../frontend/dist",
		AllowedOrigins: []string{"http://localhost:*"},
		LogLevel:       "info",
		Source:         SourceContentful,
		Revalidate:     60 * time.Second,
		Platforms:      models.DefaultPlatforms(),
		Contentful: contentful.Config{
			Environment: contentful.DefaultEnvironment,
			ContentType: contentful.DefaultContentType,
			Locale:      contentful.DefaultLocale,
		},
		PreloadConcurrency: 8,
		PreloadSettle:      200 * time.Millisecond,
		PreloadTimeout:     10 * time.Second,
	}
}

// Load reads the ini file at path (optional) and applies env overrides
func Load(path string) (Config, error) {
	c := Default()

	if path != "" {
		f, err := ini.Load(path)
		if err != nil {
			return c, fmt.Errorf("load config %s: %w", path, err)
		}
		apply(&c, f)
	}
	applyEnv(&c)

	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

func apply(c *Config, f *ini.File) {
	srv := f.Section("server")
	c.Port = srv.Key("port").MustString(c.Port)
	c.DBPath = srv.Key("db_path").MustString(c.DBPath)
	c.StaticDir = srv.Key("static_dir").MustString(c.StaticDir)
	if srv.HasKey("allowed_origins") {
		c.AllowedOrigins = srv.Key("allowed_origins").Strings(",")
	}
	c.LogLevel = srv.Key("log_level").MustString(c.LogLevel)

	cat := f.Section("catalog")
	c.Source = cat.Key("source").MustString(c.Source)
	c.Revalidate = cat.Key("revalidate").MustDuration(c.Revalidate)
	if cat.HasKey("platforms") {
		c.Platforms = cat.Key("platforms").Strings(",")
	}

	cf := f.Section("contentful")
	c.Contentful.SpaceID = cf.Key("space_id").MustString(c.Contentful.SpaceID)
	c.Contentful.Environment = cf.Key("environment").MustString(c.Contentful.Environment)
	c.Contentful.AccessToken = cf.Key("access_token").MustString(c.Contentful.AccessToken)
	c.Contentful.ManagementToken = cf.Key("management_token").MustString(c.Contentful.ManagementToken)
	c.Contentful.ContentType = cf.Key("content_type").MustString(c.Contentful.ContentType)
	c.Contentful.Locale = cf.Key("locale").MustString(c.Contentful.Locale)
	c.Contentful.DeliveryURL = cf.Key("delivery_url").MustString(c.Contentful.DeliveryURL)
	c.Contentful.ManagementURL = cf.Key("management_url").MustString(c.Contentful.ManagementURL)
	c.Contentful.Publish = cf.Key("publish").MustBool(c.Contentful.Publish)
	c.Contentful.Timeout = cf.Key("timeout").MustDuration(c.Contentful.Timeout)

	c.AdminPasswordHash = f.Section("admin").Key("password_hash").MustString(c.AdminPasswordHash)

	pre := f.Section("preload")
	c.PreloadConcurrency = pre.Key("concurrency").MustInt(c.PreloadConcurrency)
	c.PreloadSettle = pre.Key("settle").MustDuration(c.PreloadSettle)
	c.PreloadTimeout = pre.Key("timeout").MustDuration(c.PreloadTimeout)
}

func applyEnv(c *Config) {
	c.Port = getEnv("PORT", c.Port)
	c.DBPath = getEnv("DB_PATH", c.DBPath)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.Source = getEnv("CATALOG_SOURCE", c.Source)
	c.Contentful.SpaceID = getEnv("CONTENTFUL_SPACE_ID", c.Contentful.SpaceID)
	c.Contentful.AccessToken = getEnv("CONTENTFUL_ACCESS_TOKEN", c.Contentful.AccessToken)
	c.Contentful.ManagementToken = getEnv("CONTENTFUL_MANAGEMENT_TOKEN", c.Contentful.ManagementToken)
	c.AdminPasswordHash = getEnv("ADMIN_PASSWORD_HASH", c.AdminPasswordHash)
}

// Validate checks that the selected source is usable
func (c Config) Validate() error {
	switch c.Source {
	case SourceSQLite:
	case SourceContentful:
		if c.Contentful.SpaceID == "" || c.Contentful.AccessToken == "" {
			return fmt.Errorf("contentful source needs space_id and access_token")
		}
	default:
		return fmt.Errorf("unknown catalog source %q", c.Source)
	}
	if len(c.Platforms) == 0 {
		return fmt.Errorf("at least one platform must be configured")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
