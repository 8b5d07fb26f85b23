package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/ritzau/notegraph/pkg/graph"
	"github.com/ritzau/notegraph/pkg/view"
)

// DefaultFile is the config file read from the working directory
const DefaultFile = "notegraph.toml"

// EnvPrefix prefixes environment variables, e.g. NOTEGRAPH_MAX_NODES=200
const EnvPrefix = "NOTEGRAPH_"

// Config holds all configuration for the application
type Config struct {
	Vault       string   `koanf:"vault"`
	WebMode     bool     `koanf:"web"`
	Port        int      `koanf:"port"`
	Watch       bool     `koanf:"watch"`
	OpenBrowser bool     `koanf:"open"`
	Verbosity   string   `koanf:"verbosity"`
	VerboseCnt  int      `koanf:"verbose"`
	JSONLogs    bool     `koanf:"json-logs"`
	MaxNodes    int      `koanf:"max-nodes"`
	Exclude     []string `koanf:"exclude"`
	Workers     int      `koanf:"workers"`

	// View settings, used by the report and as API defaults
	Center          string `koanf:"center"`
	Depth           int    `koanf:"depth"`
	LinkType        string `koanf:"link-type"`
	ShowOrphans     bool   `koanf:"show-orphans"`
	ShowAttachments bool   `koanf:"show-attachments"`
	Query           string `koanf:"query"`
	Dag             string `koanf:"dag"`
}

// Defaults returns the configuration used when nothing else is set
func Defaults() map[string]any {
	settings := view.DefaultLocalFilterSettings()
	return map[string]any{
		"vault":            ".",
		"web":              false,
		"port":             8080,
		"watch":            false,
		"open":             true,
		"verbosity":        "",
		"verbose":          0,
		"json-logs":        false,
		"max-nodes":        5000,
		"exclude":          []string{},
		"workers":          0,
		"center":           "",
		"depth":            settings.Depth,
		"link-type":        string(settings.LinkType),
		"show-orphans":     settings.ShowOrphans,
		"show-attachments": settings.ShowAttachments,
		"query":            settings.SearchQuery,
		"dag":              string(view.DagNone),
	}
}

// Load loads configuration from defaults, config file, environment variables, and flags.
// Priority: Flags > Env > Config File > Defaults
func Load(f *pflag.FlagSet) (*Config, error) {
	path := DefaultFile
	if f != nil {
		if p, err := f.GetString("config"); err == nil && p != "" {
			path = p
		}
	}
	return LoadFile(f, path)
}

// LoadFile is Load with an explicit config file path
func LoadFile(f *pflag.FlagSet, path string) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(makeMapProvider(Defaults()), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config File (optional)
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	// 3. Environment Variables
	// Keys are flat, so NOTEGRAPH_SHOW_ORPHANS maps to show-orphans
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(
			strings.TrimPrefix(s, EnvPrefix)), "_", "-")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags
	if f != nil {
		if err := k.Load(posflag.Provider(f, ".", k), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// Unmarshal into struct
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Exclude = splitList(cfg.Exclude)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// splitList flattens comma-separated entries, as given by environment variables
func splitList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Validate checks values that have a fixed set of options
func (c *Config) Validate() error {
	if _, err := graph.ParseLinkType(c.LinkType); err != nil {
		return fmt.Errorf("link-type: %w", err)
	}
	if _, err := view.ParseDagOrientation(c.Dag); err != nil {
		return fmt.Errorf("dag: %w", err)
	}
	if c.Depth < 1 {
		return fmt.Errorf("depth: %w", view.ErrInvalidDepth)
	}
	if c.MaxNodes < 1 {
		return fmt.Errorf("max-nodes must be positive, got %d", c.MaxNodes)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// LogLevel returns the log level from --verbosity, or from the number of
// -v flags when no verbosity is named
func (c *Config) LogLevel() (slog.Level, error) {
	switch strings.ToLower(c.Verbosity) {
	case "trace":
		return slog.LevelDebug - 4, nil
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	case "":
	default:
		return slog.LevelInfo, fmt.Errorf("unknown verbosity %q", c.Verbosity)
	}

	switch {
	case c.VerboseCnt >= 2:
		return slog.LevelDebug - 4, nil
	case c.VerboseCnt == 1:
		return slog.LevelDebug, nil
	}
	return slog.LevelInfo, nil
}

// FilterSettings returns the local view settings of the configuration. The
// embedded FilterSettings apply to the global view.
func (c *Config) FilterSettings() view.LocalFilterSettings {
	linkType, err := graph.ParseLinkType(c.LinkType)
	if err != nil {
		linkType = graph.LinkTypeBoth
	}
	return view.LocalFilterSettings{
		FilterSettings: view.FilterSettings{
			SearchQuery:     c.Query,
			ShowOrphans:     c.ShowOrphans,
			ShowAttachments: c.ShowAttachments,
		},
		Depth:    c.Depth,
		LinkType: linkType,
	}
}

// Helper to use map as a provider
type mapProvider struct {
	m map[string]any
}

func makeMapProvider(m map[string]any) *mapProvider {
	return &mapProvider{m: m}
}

func (p *mapProvider) Read() (map[string]any, error) {
	return p.m, nil
}

func (p *mapProvider) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("not implemented")
}
