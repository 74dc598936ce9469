package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"sales-dashboard/internal/config"
)

var configEnvVars = []string{
	"DASHBOARD_CONFIG",
	"DASHBOARD_SERVER_PORT",
	"DASHBOARD_SERVER_HOST",
	"DASHBOARD_SOURCE_ENDPOINT",
	"DASHBOARD_SOURCE_TIMEOUT",
	"DASHBOARD_LOGGER_LEVEL",
	"DASHBOARD_SECURITY_RATE_LIMIT_RPS",
	"DASHBOARD_DASHBOARD_CURRENCY_PREFIX",
}

func clearConfigEnvVars() {
	for _, key := range configEnvVars {
		_ = os.Unsetenv(key)
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dashboard.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	convey.Convey("Given the dashboard configuration loader", t, func() {
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When nothing overrides the defaults", func() {
			cfg, err := config.Load()

			convey.Convey("Then the defaults are returned", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Address(), convey.ShouldEqual, "localhost:8084")
				convey.So(cfg.Source.Endpoint, convey.ShouldEqual, "https://labdados.com/produtos")
				convey.So(cfg.Source.Timeout, convey.ShouldEqual, 30*time.Second)
				convey.So(cfg.Dashboard.CurrencyPrefix, convey.ShouldEqual, "R$")
				convey.So(cfg.Logger.Format, convey.ShouldEqual, "json")
				convey.So(cfg.Security.EnableRateLimit, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When environment variables are set", func() {
			_ = os.Setenv("DASHBOARD_SERVER_PORT", "9090")
			_ = os.Setenv("DASHBOARD_SOURCE_TIMEOUT", "5s")
			_ = os.Setenv("DASHBOARD_LOGGER_LEVEL", "debug")
			_ = os.Setenv("DASHBOARD_SECURITY_RATE_LIMIT_RPS", "7")
			_ = os.Setenv("DASHBOARD_DASHBOARD_CURRENCY_PREFIX", "US$")

			cfg, err := config.Load()

			convey.Convey("Then they override the defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Server.Port, convey.ShouldEqual, 9090)
				convey.So(cfg.Source.Timeout, convey.ShouldEqual, 5*time.Second)
				convey.So(cfg.Logger.Level, convey.ShouldEqual, "debug")
				convey.So(cfg.Security.RateLimitRPS, convey.ShouldEqual, 7)
				convey.So(cfg.Dashboard.CurrencyPrefix, convey.ShouldEqual, "US$")
				convey.So(cfg.Server.Host, convey.ShouldEqual, "localhost")
			})
		})

		convey.Convey("When a YAML file is named", func() {
			path := writeConfigFile(t, `
server:
  host: 0.0.0.0
  port: 8100
source:
  endpoint: http://upstream.internal/produtos
  timeout: 0s
dashboard:
  title: Vendas
security:
  allowed_origins:
    - http://a.example
    - http://b.example
`)
			_ = os.Setenv("DASHBOARD_CONFIG", path)

			cfg, err := config.Load()

			convey.Convey("Then its values are used", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Address(), convey.ShouldEqual, "0.0.0.0:8100")
				convey.So(cfg.Source.Endpoint, convey.ShouldEqual, "http://upstream.internal/produtos")
				convey.So(cfg.Source.Timeout, convey.ShouldEqual, time.Duration(0))
				convey.So(cfg.Dashboard.Title, convey.ShouldEqual, "Vendas")
				convey.So(cfg.Security.AllowedOrigins, convey.ShouldResemble, []string{"http://a.example", "http://b.example"})
			})

			convey.Convey("Then the environment still wins over the file", func() {
				_ = os.Setenv("DASHBOARD_SERVER_PORT", "8200")

				cfg, err := config.Load()
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Server.Port, convey.ShouldEqual, 8200)
				convey.So(cfg.Server.Host, convey.ShouldEqual, "0.0.0.0")
			})
		})

		convey.Convey("When the named file does not exist", func() {
			_ = os.Setenv("DASHBOARD_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

			_, err := config.Load()

			convey.Convey("Then loading fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When a value is invalid", func() {
			cases := map[string][2]string{
				"port out of range":   {"DASHBOARD_SERVER_PORT", "70000"},
				"relative endpoint":   {"DASHBOARD_SOURCE_ENDPOINT", "/produtos"},
				"unsupported scheme":  {"DASHBOARD_SOURCE_ENDPOINT", "ftp://labdados.com/produtos"},
				"negative timeout":    {"DASHBOARD_SOURCE_TIMEOUT", "-1s"},
				"unknown log level":   {"DASHBOARD_LOGGER_LEVEL", "loud"},
				"zero rate limit rps": {"DASHBOARD_SECURITY_RATE_LIMIT_RPS", "0"},
			}

			for name, kv := range cases {
				convey.Convey("Then loading fails for "+name, func() {
					_ = os.Setenv(kv[0], kv[1])
					defer clearConfigEnvVars()

					_, err := config.Load()
					convey.So(err, convey.ShouldNotBeNil)
				})
			}
		})
	})
}
