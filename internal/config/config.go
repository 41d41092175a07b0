package config

import (
	"encoding/json"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/vango-dev/gatefx/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "gatefx.json"

	// DefaultAddr is the default inspector listen address.
	DefaultAddr = "localhost:7070"

	// DefaultNamespace is the default Prometheus namespace.
	DefaultNamespace = "gatefx"

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"
)

// Config represents gatefx.json.
type Config struct {
	// Debug enables hook order validation and usage warnings.
	Debug bool `json:"debug,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"logLevel,omitempty"`

	Inspector InspectorConfig `json:"inspector,omitempty"`
	Metrics   MetricsConfig   `json:"metrics,omitempty"`
	Tracing   TracingConfig   `json:"tracing,omitempty"`
	S3        S3Config        `json:"s3,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// InspectorConfig configures the inspector HTTP server.
type InspectorConfig struct {
	// Addr is the listen address (host:port).
	Addr string `json:"addr,omitempty"`

	// AllowedOrigins limits WebSocket origins. Empty allows any origin.
	AllowedOrigins []string `json:"allowedOrigins,omitempty"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Namespace string `json:"namespace,omitempty"`
	Subsystem string `json:"subsystem,omitempty"`
}

// TracingConfig configures OpenTelemetry spans.
type TracingConfig struct {
	Enabled    bool   `json:"enabled,omitempty"`
	TracerName string `json:"tracerName,omitempty"`
	SkipSpans  bool   `json:"skipSpans,omitempty"`
}

// S3Config configures loading scenarios from S3.
type S3Config struct {
	// Region is the AWS region. Empty uses the SDK's default chain.
	Region string `json:"region,omitempty"`

	// Endpoint overrides the S3 endpoint (e.g. a local MinIO).
	Endpoint string `json:"endpoint,omitempty"`

	// UsePathStyle forces path-style addressing, needed by most S3
	// compatible servers.
	UsePathStyle bool `json:"usePathStyle,omitempty"`
}

// New returns a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel: DefaultLogLevel,
		Inspector: InspectorConfig{
			Addr: DefaultAddr,
		},
		Metrics: MetricsConfig{
			Namespace: DefaultNamespace,
		},
		Tracing: TracingConfig{
			TracerName: "gatefx",
		},
	}
}

// Load loads gatefx.json from dir.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile loads a configuration file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("G301").
				WithDetail("No " + ConfigFileName + " found in " + filepath.Dir(path)).
				Wrap(err)
		}
		return nil, errors.New("G301").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("G301").
			WithDetail("Failed to parse " + ConfigFileName + ": " + err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// LoadOrDefault loads gatefx.json from dir, or returns defaults when the
// file does not exist.
func LoadOrDefault(dir string) (*Config, error) {
	if !Exists(dir) {
		return New(), nil
	}
	return Load(dir)
}

// Exists reports whether dir contains gatefx.json.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// Path returns the file the config was loaded from, or "".
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills fields an explicit empty value in the file cleared.
func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.Inspector.Addr == "" {
		c.Inspector.Addr = DefaultAddr
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = "gatefx"
	}
}

var metricNamePart = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.Inspector.Addr); err != nil {
		return errors.New("G301").
			WithDetail("inspector.addr must be host:port, got " + c.Inspector.Addr).
			Wrap(err)
	}
	if _, ok := parseLevel(c.LogLevel); !ok {
		return errors.New("G301").
			WithDetail("logLevel must be one of debug, info, warn, error; got " + c.LogLevel)
	}
	if !metricNamePart.MatchString(c.Metrics.Namespace) {
		return errors.New("G301").
			WithDetail("metrics.namespace is not a valid Prometheus name: " + c.Metrics.Namespace)
	}
	if c.Metrics.Subsystem != "" && !metricNamePart.MatchString(c.Metrics.Subsystem) {
		return errors.New("G301").
			WithDetail("metrics.subsystem is not a valid Prometheus name: " + c.Metrics.Subsystem)
	}
	return nil
}

// SlogLevel returns LogLevel as a slog.Level, defaulting to Info.
func (c *Config) SlogLevel() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
