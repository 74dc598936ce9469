package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Source    SourceConfig    `koanf:"source"`
	Dashboard DashboardConfig `koanf:"dashboard"`
	Logger    LoggerConfig    `koanf:"logger"`
	Security  SecurityConfig  `koanf:"security"`
}

type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// SourceConfig points at the products API. A zero Timeout leaves the HTTP
// client without a deadline of its own; the request context still applies.
type SourceConfig struct {
	Endpoint string        `koanf:"endpoint"`
	Timeout  time.Duration `koanf:"timeout"`
}

type DashboardConfig struct {
	Title          string `koanf:"title"`
	CurrencyPrefix string `koanf:"currency_prefix"`
}

type LoggerConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type SecurityConfig struct {
	EnableRateLimit bool     `koanf:"rate_limit_enabled"`
	RateLimitRPS    int      `koanf:"rate_limit_rps"`
	RateLimitBurst  int      `koanf:"rate_limit_burst"`
	AllowedOrigins  []string `koanf:"allowed_origins"`
	TrustedProxies  []string `koanf:"trusted_proxies"`
}

// Default returns the configuration used when neither a file nor the
// environment override anything.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "localhost",
			Port:            8084,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Source: SourceConfig{
			Endpoint: "https://labdados.com/produtos",
			Timeout:  30 * time.Second,
		},
		Dashboard: DashboardConfig{
			Title:          "Sales Dashboard",
			CurrencyPrefix: "R$",
		},
		Logger: LoggerConfig{
			Level:  "info",
			Format: "json",
		},
		Security: SecurityConfig{
			EnableRateLimit: true,
			RateLimitRPS:    100,
			RateLimitBurst:  10,
			AllowedOrigins:  []string{"http://localhost:8084"},
			TrustedProxies:  []string{"127.0.0.1"},
		},
	}
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	u, err := url.Parse(c.Source.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("source endpoint must be an absolute http(s) URL, got %q", c.Source.Endpoint)
	}

	if c.Source.Timeout < 0 {
		return fmt.Errorf("source timeout must not be negative")
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLogLevels, c.Logger.Level) {
		return fmt.Errorf("invalid log level %q, must be one of: %s", c.Logger.Level, strings.Join(validLogLevels, ", "))
	}

	validLogFormats := []string{"json", "text"}
	if !slices.Contains(validLogFormats, c.Logger.Format) {
		return fmt.Errorf("invalid log format %q, must be one of: %s", c.Logger.Format, strings.Join(validLogFormats, ", "))
	}

	if c.Security.RateLimitRPS <= 0 {
		return fmt.Errorf("rate limit RPS must be positive")
	}

	if c.Security.RateLimitBurst <= 0 {
		return fmt.Errorf("rate limit burst must be positive")
	}

	return nil
}

func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
