package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

const defaultAddr = "0.0.0.0:8080"

// Config holds the complete application configuration, loadable from
// environment variables (COFFEE_ prefix), flags, or YAML config files.
type Config struct {
	Addr     string `default:"0.0.0.0:8080" usage:"API server listen address"`
	Server   ServerConfig
	Health   HealthConfig
	Graceful GracefulConfig
}

// ServerConfig controls HTTP server timeouts.
type ServerConfig struct {
	ReadTimeout  time.Duration `default:"5s"   usage:"Maximum duration for reading the whole request" flag:"read-timeout"`
	WriteTimeout time.Duration `default:"10s"  usage:"Maximum duration before timing out response writes" flag:"write-timeout"`
	IdleTimeout  time.Duration `default:"120s" usage:"Keep-alive idle timeout" flag:"idle-timeout"`
}

// HealthConfig controls the liveness and readiness probes.
type HealthConfig struct {
	Interval           time.Duration `default:"10s"   usage:"Interval between health check runs" flag:"health-interval"`
	GoroutineThreshold int           `default:"10000" usage:"Goroutine count that fails the liveness probe" flag:"goroutine-threshold"`
	GCMaxPause         time.Duration `default:"1s"    usage:"GC pause that fails the liveness probe" flag:"gc-max-pause"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables, YAML config
// files and flags, then applies platform-specific defaults.
func LoadConfig() (*Config, error) {
	return load(aconfig.Config{
		EnvPrefix: "COFFEE",
		Files:     []string{"config.yaml", "/etc/coffee/config.yaml"},
	})
}

func load(ac aconfig.Config) (*Config, error) {
	ac.FileDecoders = map[string]aconfig.FileDecoder{
		".yaml": aconfigyaml.New(),
	}

	var cfg Config
	if err := aconfig.LoaderFor(&cfg, ac).Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if err := cfg.validate(); err != nil {
		return nil, errors.Wrap(err, "validate config")
	}
	return &cfg, nil
}

// applyPlatformDefaults maps the PORT variable set by hosting platforms
// (Railway, Render, etc.) to the listen address unless one was configured.
func (c *Config) applyPlatformDefaults() {
	if port := os.Getenv("PORT"); port != "" && c.Addr == defaultAddr {
		c.Addr = "0.0.0.0:" + port
	}
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return errors.New("addr is required")
	}
	if c.Health.Interval <= 0 {
		return errors.Errorf("health interval must be positive, got %s", c.Health.Interval)
	}
	if c.Health.GoroutineThreshold <= 0 {
		return errors.Errorf("goroutine threshold must be positive, got %d", c.Health.GoroutineThreshold)
	}
	if c.Graceful.ShutdownTimeout <= 0 {
		return errors.Errorf("shutdown timeout must be positive, got %s", c.Graceful.ShutdownTimeout)
	}
	if c.Graceful.ReadinessDelay < 0 {
		return errors.Errorf("readiness delay must not be negative, got %s", c.Graceful.ReadinessDelay)
	}
	return nil
}
