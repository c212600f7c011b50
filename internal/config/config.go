package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/bnema/simple-api/pkg/logger"
	"gopkg.in/yaml.v3"
)

// PathEnv names the environment variable holding the config file path.
const PathEnv = "SIMPLE_API_CONFIG"

// DefaultPath is read when no path is given and the file exists.
const DefaultPath = "simple-api.yml"

type Config struct {
	General GeneralConfig `yaml:"General"`
	Http    HttpConfig    `yaml:"Http"`
	Build   BuildConfig   `yaml:"Build"`
}

type GeneralConfig struct {
	LogLevel    string `yaml:"logLevel"`
	ServiceName string `yaml:"serviceName"`
}

// HttpConfig carries everything about serving except the listen address:
// the launcher always binds 0.0.0.0 on the port taken from PORT.
type HttpConfig struct {
	CorsOrigins   []string      `yaml:"corsOrigins"`
	ShutdownGrace time.Duration `yaml:"shutdownGrace"`
	ReadTimeout   time.Duration `yaml:"readTimeout"`
	WriteTimeout  time.Duration `yaml:"writeTimeout"`
	EnableMetrics *bool         `yaml:"enableMetrics"`
}

type BuildConfig struct {
	BuilderImage    string   `yaml:"builderImage"`
	RuntimeImage    string   `yaml:"runtimeImage"`
	BuildPackages   []string `yaml:"buildPackages"`
	RuntimePackages []string `yaml:"runtimePackages"`
	WorkDir         string   `yaml:"workDir"`
	Binary          string   `yaml:"binary"`
	Tag             string   `yaml:"tag"`
}

// Default values
var (
	defaultLogLevel      = "info"
	defaultServiceName   = "Simple API"
	defaultCorsOrigins   = []string{"*"}
	defaultShutdownGrace = 10 * time.Second
	defaultReadTimeout   = 30 * time.Second
	defaultWriteTimeout  = 30 * time.Second

	defaultBuilderImage    = "golang:1.24.1-bookworm"
	defaultRuntimeImage    = "debian:12.9-slim"
	defaultBuildPackages   = []string{"build-essential", "ca-certificates", "libssl-dev"}
	defaultRuntimePackages = []string{"ca-certificates", "openssl"}
	defaultWorkDir         = "/app"
	defaultBinary          = "simple-api"
	defaultTag             = "simple-api:latest"
)

// Default returns a config with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads the YAML file at path and applies defaults to unset fields.
// An empty path falls back to $SIMPLE_API_CONFIG, then to DefaultPath when
// that file exists. A missing default file is not an error.
func Load(path string) (*Config, error) {
	explicit := true
	if path == "" {
		path = os.Getenv(PathEnv)
	}
	if path == "" {
		path = DefaultPath
		explicit = false
	}

	cfg := &Config{}
	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(content, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		logger.Debug("Loaded config file", "path", path)
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		logger.Debug("No config file found, using defaults", "path", path)
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	applyDefaults(cfg)
	return cfg, nil
}

// applyDefaults fills zero values and reports whether anything changed.
func applyDefaults(cfg *Config) bool {
	applied := false
	setString := func(field *string, value, name string) {
		if *field == "" {
			*field = value
			logger.Debug("Applied default value", "field", name, "value", value)
			applied = true
		}
	}
	setDuration := func(field *time.Duration, value time.Duration, name string) {
		if *field <= 0 {
			*field = value
			logger.Debug("Applied default value", "field", name, "value", value)
			applied = true
		}
	}
	setList := func(field *[]string, value []string, name string) {
		if len(*field) == 0 {
			*field = append([]string(nil), value...)
			logger.Debug("Applied default value", "field", name, "value", value)
			applied = true
		}
	}

	setString(&cfg.General.LogLevel, defaultLogLevel, "General.LogLevel")
	setString(&cfg.General.ServiceName, defaultServiceName, "General.ServiceName")

	setList(&cfg.Http.CorsOrigins, defaultCorsOrigins, "Http.CorsOrigins")
	setDuration(&cfg.Http.ShutdownGrace, defaultShutdownGrace, "Http.ShutdownGrace")
	setDuration(&cfg.Http.ReadTimeout, defaultReadTimeout, "Http.ReadTimeout")
	setDuration(&cfg.Http.WriteTimeout, defaultWriteTimeout, "Http.WriteTimeout")
	if cfg.Http.EnableMetrics == nil {
		enabled := true
		cfg.Http.EnableMetrics = &enabled
		applied = true
	}

	setString(&cfg.Build.BuilderImage, defaultBuilderImage, "Build.BuilderImage")
	setString(&cfg.Build.RuntimeImage, defaultRuntimeImage, "Build.RuntimeImage")
	setList(&cfg.Build.BuildPackages, defaultBuildPackages, "Build.BuildPackages")
	setList(&cfg.Build.RuntimePackages, defaultRuntimePackages, "Build.RuntimePackages")
	setString(&cfg.Build.WorkDir, defaultWorkDir, "Build.WorkDir")
	setString(&cfg.Build.Binary, defaultBinary, "Build.Binary")
	setString(&cfg.Build.Tag, defaultTag, "Build.Tag")

	return applied
}

// MetricsEnabled reports whether the /metrics endpoint is served.
func (h HttpConfig) MetricsEnabled() bool {
	return h.EnableMetrics == nil || *h.EnableMetrics
}
