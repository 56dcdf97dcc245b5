package config

import (
	"errors"
	"fmt"
	"net/netip"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Mail      MailConfig
	Notify    NotifyConfig
	RateLimit RateLimitConfig
	Redis     RedisConfig
	Log       LogConfig
}

type ServerConfig struct {
	Port               int
	StaticDir          string
	CORSAllowedOrigins []string
	// TrustedProxies are the peers whose X-Forwarded-For and X-Real-IP
	// headers are believed. Empty means the TCP peer is the client.
	TrustedProxies     []netip.Prefix
	ShutdownTimeout    time.Duration
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

type MailConfig struct {
	// Driver is "smtp" or "log"; "log" writes messages to the logger instead
	// of sending them.
	Driver   string
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// AdminAddress receives admin alerts and contact-form messages.
	AdminAddress string
	Brand        string
	Phone        string
	WhatsApp     string
}

type NotifyConfig struct {
	Async   bool
	Timeout time.Duration
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// RedisConfig is optional; an empty Addr keeps rate limiting in memory.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type LogConfig struct {
	Level string
	// Format is "json" or "console".
	Format string
}

func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	connMaxLifetime, err := parseDuration(v, "DB_CONN_MAX_LIFETIME")
	if err != nil {
		return nil, err
	}
	notifyTimeout, err := parseDuration(v, "NOTIFY_TIMEOUT")
	if err != nil {
		return nil, err
	}
	rateWindow, err := parseDuration(v, "RATE_LIMIT_WINDOW")
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := parseDuration(v, "SHUTDOWN_TIMEOUT")
	if err != nil {
		return nil, err
	}

	trustedProxies, err := parsePrefixes(v.GetString("TRUSTED_PROXIES"))
	if err != nil {
		return nil, err
	}

	from := v.GetString("MAIL_FROM")
	if from == "" {
		from = v.GetString("EMAIL_USER")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:               v.GetInt("PORT"),
			StaticDir:          v.GetString("STATIC_DIR"),
			CORSAllowedOrigins: splitAndTrim(v.GetString("CORS_ALLOWED_ORIGINS")),
			TrustedProxies:     trustedProxies,
			ShutdownTimeout:    shutdownTimeout,
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Name:            v.GetString("DB_NAME"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: connMaxLifetime,
			AutoMigrate:     v.GetBool("DB_AUTO_MIGRATE"),
		},
		Mail: MailConfig{
			Driver:       v.GetString("MAIL_DRIVER"),
			Host:         v.GetString("SMTP_HOST"),
			Port:         v.GetInt("SMTP_PORT"),
			Username:     v.GetString("EMAIL_USER"),
			Password:     v.GetString("EMAIL_PASS"),
			From:         from,
			AdminAddress: v.GetString("ADMIN_EMAIL"),
			Brand:        v.GetString("BRAND_NAME"),
			Phone:        v.GetString("CONTACT_PHONE"),
			WhatsApp:     v.GetString("CONTACT_WHATSAPP"),
		},
		Notify: NotifyConfig{
			Async:   v.GetBool("NOTIFY_ASYNC"),
			Timeout: notifyTimeout,
		},
		RateLimit: RateLimitConfig{
			Requests: v.GetInt("RATE_LIMIT_REQUESTS"),
			Window:   rateWindow,
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", 3000)
	v.SetDefault("STATIC_DIR", "public")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("TRUSTED_PROXIES", "")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 3306)
	v.SetDefault("DB_USER", "root")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "angelina_db")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	v.SetDefault("DB_AUTO_MIGRATE", true)

	v.SetDefault("MAIL_DRIVER", "smtp")
	v.SetDefault("SMTP_HOST", "smtp.gmail.com")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("EMAIL_USER", "no-reply@example.com")
	v.SetDefault("EMAIL_PASS", "")
	v.SetDefault("MAIL_FROM", "")
	v.SetDefault("ADMIN_EMAIL", "admin@example.com")
	v.SetDefault("BRAND_NAME", "Angelina")
	v.SetDefault("CONTACT_PHONE", "+234 912 955 2644")
	v.SetDefault("CONTACT_WHATSAPP", "+234 912 955 2644")

	v.SetDefault("NOTIFY_ASYNC", true)
	v.SetDefault("NOTIFY_TIMEOUT", "30s")

	v.SetDefault("RATE_LIMIT_REQUESTS", 20)
	v.SetDefault("RATE_LIMIT_WINDOW", "1m")

	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT must be a valid TCP port (got %d)", c.Server.Port)
	}
	if c.Database.MaxOpenConns < 1 {
		return errors.New("DB_MAX_OPEN_CONNS must be positive")
	}
	if c.RateLimit.Requests < 1 || c.RateLimit.Window <= 0 {
		return errors.New("RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW must be positive")
	}
	if c.Mail.Driver != "smtp" && c.Mail.Driver != "log" {
		return fmt.Errorf("MAIL_DRIVER must be smtp or log (got %q)", c.Mail.Driver)
	}
	if strings.TrimSpace(c.Mail.AdminAddress) == "" {
		return errors.New("ADMIN_EMAIL is required")
	}
	return nil
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return d, nil
}

// parsePrefixes reads a comma-separated list of CIDRs or bare addresses.
func parsePrefixes(raw string) ([]netip.Prefix, error) {
	var out []netip.Prefix
	for _, entry := range splitAndTrim(raw) {
		if strings.Contains(entry, "/") {
			p, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("parsing TRUSTED_PROXIES entry %q: %w", entry, err)
			}
			out = append(out, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("parsing TRUSTED_PROXIES entry %q: %w", entry, err)
		}
		addr = addr.Unmap()
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, nil
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
