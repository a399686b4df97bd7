package config

import (
	"encoding/json"
	stderrors "errors"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/weft/internal/errors"
)

const (
	// YAMLFileName is the preferred configuration file name.
	YAMLFileName = "weft.yaml"

	// JSONFileName is the JSON configuration file name.
	JSONFileName = "weft.json"

	// DefaultInspectAddr is the default inspector listen address.
	DefaultInspectAddr = "localhost:7070"

	// DefaultNamespace is the default metrics namespace.
	DefaultNamespace = "weft"

	// DefaultTracerName is the default OpenTelemetry tracer name.
	DefaultTracerName = "weft"

	// DefaultSnapshotTarget is the default snapshot directory.
	DefaultSnapshotTarget = "snapshots"
)

// Config represents the complete weft configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Nodes configures the node builder.
	Nodes NodesConfig `json:"nodes,omitempty" yaml:"nodes,omitempty"`

	// Metrics configures the Prometheus observer.
	Metrics MetricsConfig `json:"metrics,omitempty" yaml:"metrics,omitempty"`

	// Tracing configures the OpenTelemetry observer.
	Tracing TracingConfig `json:"tracing,omitempty" yaml:"tracing,omitempty"`

	// Inspect configures the live inspector.
	Inspect InspectConfig `json:"inspect,omitempty" yaml:"inspect,omitempty"`

	// Snapshot configures where tree snapshots are written.
	Snapshot SnapshotConfig `json:"snapshot,omitempty" yaml:"snapshot,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// NodesConfig configures node construction.
type NodesConfig struct {
	// TextFields maps tag kinds to the property holding their text.
	TextFields map[string]string `json:"textFields,omitempty" yaml:"textFields,omitempty"`

	// Unqueued lists tag kinds that never start.
	Unqueued []string `json:"unqueued,omitempty" yaml:"unqueued,omitempty"`

	// Compact disables newline text nodes between siblings.
	Compact bool `json:"compact,omitempty" yaml:"compact,omitempty"`

	// ScopePrefix prefixes the style-scoping attribute of components.
	ScopePrefix string `json:"scopePrefix,omitempty" yaml:"scopePrefix,omitempty"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Subsystem string `json:"subsystem,omitempty" yaml:"subsystem,omitempty"`
}

// TracingConfig configures OpenTelemetry tracing.
type TracingConfig struct {
	Enabled    bool   `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	TracerName string `json:"tracerName,omitempty" yaml:"tracerName,omitempty"`

	// TraceReplays creates a span for every replay, not only activations.
	TraceReplays bool `json:"traceReplays,omitempty" yaml:"traceReplays,omitempty"`
}

// InspectConfig configures the inspector server.
type InspectConfig struct {
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty"`

	// AllowedOrigins lists origins accepted by the event websocket. Empty
	// means same-origin only.
	AllowedOrigins []string `json:"allowedOrigins,omitempty" yaml:"allowedOrigins,omitempty"`
}

// SnapshotConfig configures snapshot storage.
type SnapshotConfig struct {
	// Target is a directory or an s3://bucket/prefix URL.
	Target string `json:"target,omitempty" yaml:"target,omitempty"`

	// Region and Endpoint configure the S3 client.
	Region   string `json:"region,omitempty" yaml:"region,omitempty"`
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
}

// New creates a Config with default values.
func New() *Config {
	return &Config{
		Nodes: NodesConfig{
			TextFields: map[string]string{
				"input":    "value",
				"textarea": "value",
			},
			Unqueued: []string{"head", "script", "style"},
		},
		Metrics: MetricsConfig{
			Namespace: DefaultNamespace,
		},
		Tracing: TracingConfig{
			TracerName: DefaultTracerName,
		},
		Inspect: InspectConfig{
			Addr: DefaultInspectAddr,
		},
		Snapshot: SnapshotConfig{
			Target: DefaultSnapshotTarget,
		},
	}
}

// Load reads configuration from dir, preferring weft.yaml over weft.json.
func Load(dir string) (*Config, error) {
	yamlPath := filepath.Join(dir, YAMLFileName)
	if _, err := os.Stat(yamlPath); err == nil {
		return LoadFile(yamlPath)
	}
	return LoadFile(filepath.Join(dir, JSONFileName))
}

// LoadOptional is Load, returning defaults when no configuration file exists.
func LoadOptional(dir string) (*Config, error) {
	cfg, err := Load(dir)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return New(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads configuration from the given path. The format is chosen by
// the file extension.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("W120").
			WithDetail("Cannot read " + path).
			Wrap(err)
	}

	cfg := New()
	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errors.New("W120").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			WithSuggestion("Check that " + filepath.Base(path) + " is well formed")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New("W120").Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("W120").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Nodes.TextFields == nil {
		c.Nodes.TextFields = map[string]string{}
	}
	for kind, field := range New().Nodes.TextFields {
		if _, ok := c.Nodes.TextFields[kind]; !ok {
			c.Nodes.TextFields[kind] = field
		}
	}
	if c.Nodes.Unqueued == nil {
		c.Nodes.Unqueued = New().Nodes.Unqueued
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = DefaultTracerName
	}
	if c.Inspect.Addr == "" {
		c.Inspect.Addr = DefaultInspectAddr
	}
	if c.Snapshot.Target == "" {
		c.Snapshot.Target = DefaultSnapshotTarget
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.Inspect.Addr); err != nil {
		return errors.New("W121").
			WithDetail("inspect.addr " + c.Inspect.Addr + ": " + err.Error())
	}
	if strings.HasPrefix(c.Snapshot.Target, "s3://") {
		rest := strings.TrimPrefix(c.Snapshot.Target, "s3://")
		bucket, _, _ := strings.Cut(rest, "/")
		if bucket == "" {
			return errors.New("W122").
				WithDetail("snapshot.target " + c.Snapshot.Target + " has no bucket")
		}
	}
	return nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
