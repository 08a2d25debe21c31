package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Upstream  UpstreamConfig  `yaml:"upstream"`
	Session   SessionConfig   `yaml:"session"`
	Database  DatabaseConfig  `yaml:"database"`
	Audit     AuditConfig     `yaml:"audit"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Upload    UploadConfig    `yaml:"upload"`
	Contact   ContactConfig   `yaml:"contact"`
}

type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// UpstreamConfig points at the external Condy REST API. BaseURL is the
// server-side address used for all gateway calls; PublicBaseURL is the
// address exposed to the browser (attachment links and the like).
type UpstreamConfig struct {
	BaseURL       string        `yaml:"base_url"`
	PublicBaseURL string        `yaml:"public_base_url"`
	Timeout       time.Duration `yaml:"timeout"`
}

type SessionConfig struct {
	CookieName string        `yaml:"cookie_name"`
	Password   string        `yaml:"password"`
	MaxAge     time.Duration `yaml:"max_age"`
	Secure     bool          `yaml:"secure"`
}

// DatabaseConfig is optional: the portal itself stores nothing relational
// except the audit log. An empty URL disables auditing entirely.
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type AuditConfig struct {
	BatchSize     int           `yaml:"batch_size"`
	FlushInterval time.Duration `yaml:"flush_interval"`
}

type RateLimitConfig struct {
	LoginAttempts int           `yaml:"login_attempts"`
	Window        time.Duration `yaml:"window"`
}

type UploadConfig struct {
	MaxSize  int64 `yaml:"max_size"`
	Simulate bool  `yaml:"simulate"` // dev mode: fabricate upload responses locally
}

type ContactConfig struct {
	WhatsApp string `yaml:"whatsapp"`
}

func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}

		expanded := os.ExpandEnv(string(data))

		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         3000,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Upstream: UpstreamConfig{
			BaseURL: "http://localhost:8080",
			Timeout: 15 * time.Second,
		},
		Session: SessionConfig{
			CookieName: "condy-session",
			MaxAge:     7 * 24 * time.Hour,
			Secure:     true,
		},
		Audit: AuditConfig{
			BatchSize:     100,
			FlushInterval: 5 * time.Second,
		},
		RateLimit: RateLimitConfig{
			LoginAttempts: 10,
			Window:        time.Minute,
		},
		Upload: UploadConfig{
			MaxSize: 10 * 1024 * 1024,
		},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CONDY_API_URL"); v != "" {
		cfg.Upstream.BaseURL = v
	}
	if v := os.Getenv("CONDY_PUBLIC_API_URL"); v != "" {
		cfg.Upstream.PublicBaseURL = v
	}
	if v := os.Getenv("CONDY_SESSION_PASSWORD"); v != "" {
		cfg.Session.Password = v
	}
	if v := os.Getenv("CONDY_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("CONDY_WHATSAPP"); v != "" {
		cfg.Contact.WhatsApp = v
	}
	if v := os.Getenv("CONDY_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("CONDY_PORT"); v != "" {
		var port int
		if _, err := fmt.Sscanf(v, "%d", &port); err == nil {
			cfg.Server.Port = port
		}
	}
	if os.Getenv("CONDY_DEV") == "1" {
		cfg.Session.Secure = false
		cfg.Upload.Simulate = true
	}
}

func (c *Config) validate() error {
	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("upstream.base_url is required")
	}
	if len(c.Session.Password) < 16 {
		return fmt.Errorf("session.password must be at least 16 characters")
	}
	return nil
}

// PublicAPIBaseURL falls back to the server-side upstream address when no
// separate public address is configured.
func (c *Config) PublicAPIBaseURL() string {
	if c.Upstream.PublicBaseURL != "" {
		return c.Upstream.PublicBaseURL
	}
	return c.Upstream.BaseURL
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) MigrationsSource() string {
	return "file://migrations"
}

func (c *Config) DatabaseURLForMigrate() string {
	url := c.Database.URL
	if !strings.Contains(url, "sslmode=") {
		if strings.Contains(url, "?") {
			url += "&sslmode=disable"
		} else {
			url += "?sslmode=disable"
		}
	}
	return url
}
