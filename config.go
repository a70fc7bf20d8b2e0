package ydb

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ydbwellness/ydb/docstore"
	"github.com/ydbwellness/ydb/newsletter"
)

// SiteConfig holds all configuration for the site.
type SiteConfig struct {
	Name        string `yaml:"name"`        // Site name (default "YDB Wellness")
	URL         string `yaml:"url"`         // Canonical URL (default "http://localhost:3000")
	Description string `yaml:"description"` // Site description for RSS and meta tags

	Addr       string         `yaml:"addr"` // Listen address (default ":3000")
	Database   DatabaseConfig `yaml:"database"`
	UploadsDir string         `yaml:"uploadsDir"` // Blob store root (default "data/uploads")

	SessionSecret string `yaml:"sessionSecret"` // Required: session encryption secret
	TokenSecret   string `yaml:"tokenSecret"`   // Required: ID token signing secret
	CookieSecure  bool   `yaml:"cookieSecure"`  // Set true for HTTPS

	ListCacheTTL time.Duration `yaml:"listCacheTTL"` // Content list cache TTL (default 5min)
	ToastTTL     time.Duration `yaml:"toastTTL"`     // Notification lifetime (default 5s)

	AdminEmail  string `yaml:"adminEmail"`
	StrictAdmin bool   `yaml:"strictAdmin"` // Only AdminEmail or "admin" addresses are admins
	AllowSignup bool   `yaml:"allowSignup"`

	Mail MailConfig `yaml:"mail"`

	LogLevel string `yaml:"logLevel"` // debug, info, warn, error (default info)
	Dev      bool   `yaml:"dev"`
}

// DatabaseConfig selects the docstore dialect.
type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite or postgres (default sqlite)
	DSN    string `yaml:"dsn"`    // default "data/ydb.db"
}

// MailConfig configures the newsletter welcome mail. Without an API key
// mail is only logged.
type MailConfig struct {
	ResendAPIKey string `yaml:"resendAPIKey"`
	From         string `yaml:"from"`
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "YDB Wellness"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Description == "" {
		c.Description = "Ayurvedic wellness for PCOS, perimenopause and every stage in between."
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if d, err := docstore.DialectFor(c.Database.Driver); err == nil {
		c.Database.Driver = d.Name
	}
	if c.Database.DSN == "" && c.Database.Driver == docstore.SQLite.Name {
		c.Database.DSN = "data/ydb.db"
	}
	if c.UploadsDir == "" {
		c.UploadsDir = "data/uploads"
	}
	if c.ListCacheTTL == 0 {
		c.ListCacheTTL = 5 * time.Minute
	}
	if c.ToastTTL == 0 {
		c.ToastTTL = 5 * time.Second
	}
	if c.Mail.From == "" {
		c.Mail.From = c.Name + " <hello@ydbwellness.com>"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func (c SiteConfig) validate() error {
	if c.SessionSecret == "" {
		return errors.New("ydb: SessionSecret is required")
	}
	if c.TokenSecret == "" {
		return errors.New("ydb: TokenSecret is required")
	}
	if c.Database.Driver == docstore.Postgres.Name && c.Database.DSN == "" {
		return errors.New("ydb: database DSN is required for postgres")
	}
	return nil
}

// LoadConfig reads path (when it exists) and then applies environment
// overrides. An empty path skips the file.
func LoadConfig(path string) (SiteConfig, error) {
	var cfg SiteConfig
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("ydb: read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("ydb: parse config %s: %w", path, err)
			}
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	cfg.setDefaults()
	return cfg, nil
}

func applyEnv(cfg *SiteConfig) error {
	str := map[string]*string{
		"YDB_NAME":           &cfg.Name,
		"YDB_URL":            &cfg.URL,
		"YDB_DESCRIPTION":    &cfg.Description,
		"YDB_ADDR":           &cfg.Addr,
		"YDB_DB_DRIVER":      &cfg.Database.Driver,
		"YDB_UPLOADS_DIR":    &cfg.UploadsDir,
		"YDB_SESSION_SECRET": &cfg.SessionSecret,
		"YDB_TOKEN_SECRET":   &cfg.TokenSecret,
		"YDB_ADMIN_EMAIL":    &cfg.AdminEmail,
		"YDB_MAIL_FROM":      &cfg.Mail.From,
		"YDB_LOG_LEVEL":      &cfg.LogLevel,
		"RESEND_API_KEY":     &cfg.Mail.ResendAPIKey,
	}
	for key, dst := range str {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.DSN = v
		if os.Getenv("YDB_DB_DRIVER") == "" {
			cfg.Database.Driver = docstore.Postgres.Name
		}
	}

	flags := map[string]*bool{
		"YDB_COOKIE_SECURE": &cfg.CookieSecure,
		"YDB_STRICT_ADMIN":  &cfg.StrictAdmin,
		"YDB_ALLOW_SIGNUP":  &cfg.AllowSignup,
		"YDB_DEV":           &cfg.Dev,
	}
	for key, dst := range flags {
		if v := os.Getenv(key); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("ydb: %s: %w", key, err)
			}
			*dst = b
		}
	}

	durations := map[string]*time.Duration{
		"YDB_LIST_CACHE_TTL": &cfg.ListCacheTTL,
		"YDB_TOAST_TTL":      &cfg.ToastTTL,
	}
	for key, dst := range durations {
		if v := os.Getenv(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("ydb: %s: %w", key, err)
			}
			*dst = d
		}
	}
	return nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback runs after the built-in routes are registered.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStore makes the app use store instead of opening Database.
func WithStore(store docstore.Store) Option {
	return func(a *App) {
		a.Store = store
	}
}

// WithMailer overrides the newsletter mailer.
func WithMailer(m newsletter.Mailer) Option {
	return func(a *App) {
		a.mailer = m
	}
}
