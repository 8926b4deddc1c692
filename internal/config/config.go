// Package config loads the YAML configuration of the change-notice editor,
// applies CHANGENOTICE_* environment overrides and fills defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	defaultListen     = "127.0.0.1:8080"
	defaultLogLevel   = "info"
	defaultBackend    = BackendFile
	defaultDraftDir   = "drafts"
	defaultSQLitePath = "drafts.db"
	defaultDraftKey   = "siteSwitchDraft"
	defaultQuota      = 5 << 20
	defaultTextFormat = "plain"
	defaultTheme      = "shp"
	defaultVariant    = ""

	envPrefix = "CHANGENOTICE_"
)

// Draft storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

var (
	// ErrEmptyPath is returned when Load or Save is called without a path.
	ErrEmptyPath = errors.New("config: path is empty")
	// ErrInvalid wraps values that cannot be normalized.
	ErrInvalid = errors.New("config: invalid value")
)

// DraftConfig selects where drafts live.
type DraftConfig struct {
	// Backend is one of file, sqlite or memory.
	Backend string `yaml:"backend" json:"backend"`
	// Dir holds one JSON file per draft key for the file backend.
	Dir string `yaml:"dir" json:"dir"`
	// Path is the SQLite database file.
	Path string `yaml:"path" json:"path"`
	// Key is the single draft slot.
	Key string `yaml:"key" json:"key"`
	// QuotaBytes caps the size of a serialized draft.
	QuotaBytes int `yaml:"quota_bytes" json:"quota_bytes"`
}

// RenderConfig controls the generated email.
type RenderConfig struct {
	// TextFormat is plain or markdown.
	TextFormat string `yaml:"text_format" json:"text_format"`
	Theme      string `yaml:"theme" json:"theme"`
	Variant    string `yaml:"variant" json:"variant"`
	// LogoURL adds a logo to the top banner when set.
	LogoURL string `yaml:"logo_url" json:"logo_url"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address of the editor service.
	Listen string `yaml:"listen" json:"listen"`
	// LogLevel is a zap level name; LOG_LEVEL is used when empty.
	LogLevel string `yaml:"log_level" json:"log_level"`
	// Timezone is the IANA zone operator-entered times are read in. Empty
	// means the host zone.
	Timezone string       `yaml:"timezone" json:"timezone"`
	Draft    DraftConfig  `yaml:"draft" json:"draft"`
	Render   RenderConfig `yaml:"render" json:"render"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:   defaultListen,
		LogLevel: defaultLogLevel,
		Draft: DraftConfig{
			Backend:    defaultBackend,
			Dir:        defaultDraftDir,
			Path:       defaultSQLitePath,
			Key:        defaultDraftKey,
			QuotaBytes: defaultQuota,
		},
		Render: RenderConfig{
			TextFormat: defaultTextFormat,
			Theme:      defaultTheme,
			Variant:    defaultVariant,
		},
	}
}

// Normalize fills zero values with defaults and canonicalizes enums.
func (c *Config) Normalize() {
	c.Listen = strings.TrimSpace(c.Listen)
	if c.Listen == "" {
		c.Listen = defaultListen
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.Timezone = strings.TrimSpace(c.Timezone)

	c.Draft.Backend = strings.ToLower(strings.TrimSpace(c.Draft.Backend))
	if c.Draft.Backend == "" {
		c.Draft.Backend = defaultBackend
	}
	if strings.TrimSpace(c.Draft.Dir) == "" {
		c.Draft.Dir = defaultDraftDir
	}
	if strings.TrimSpace(c.Draft.Path) == "" {
		c.Draft.Path = defaultSQLitePath
	}
	if strings.TrimSpace(c.Draft.Key) == "" {
		c.Draft.Key = defaultDraftKey
	}
	if c.Draft.QuotaBytes <= 0 {
		c.Draft.QuotaBytes = defaultQuota
	}

	c.Render.TextFormat = strings.ToLower(strings.TrimSpace(c.Render.TextFormat))
	if c.Render.TextFormat == "" {
		c.Render.TextFormat = defaultTextFormat
	}
	if strings.TrimSpace(c.Render.Theme) == "" {
		c.Render.Theme = defaultTheme
	}
	c.Render.Variant = strings.TrimSpace(c.Render.Variant)
}

// Validate reports values Normalize cannot repair.
func (c *Config) Validate() error {
	switch c.Draft.Backend {
	case BackendFile, BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("%w: draft.backend %q", ErrInvalid, c.Draft.Backend)
	}
	switch c.Render.TextFormat {
	case "plain", "markdown", "md":
	default:
		return fmt.Errorf("%w: render.text_format %q", ErrInvalid, c.Render.TextFormat)
	}
	return nil
}

// ApplyEnv overlays CHANGENOTICE_* variables read through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	strs := map[string]*string{
		"LISTEN":             &c.Listen,
		"LOG_LEVEL":          &c.LogLevel,
		"TIMEZONE":           &c.Timezone,
		"DRAFT_BACKEND":      &c.Draft.Backend,
		"DRAFT_DIR":          &c.Draft.Dir,
		"DRAFT_PATH":         &c.Draft.Path,
		"DRAFT_KEY":          &c.Draft.Key,
		"RENDER_TEXT_FORMAT": &c.Render.TextFormat,
		"RENDER_THEME":       &c.Render.Theme,
		"RENDER_VARIANT":     &c.Render.Variant,
		"RENDER_LOGO_URL":    &c.Render.LogoURL,
	}
	for name, target := range strs {
		if value, ok := lookup(envPrefix + name); ok {
			*target = value
		}
	}
	if raw, ok := lookup(envPrefix + "DRAFT_QUOTA_BYTES"); ok {
		quota, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("%w: %sDRAFT_QUOTA_BYTES %q", ErrInvalid, envPrefix, raw)
		}
		c.Draft.QuotaBytes = quota
	}
	return nil
}

// Load reads the YAML file at path, writing a default file first when it does
// not exist, then applies environment overrides and defaults.
func Load(path string) (*Config, error) {
	return LoadWithEnv(path, os.LookupEnv)
}

// LoadWithEnv is Load with an explicit environment lookup.
func LoadWithEnv(path string, lookup func(string) (string, bool)) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrEmptyPath
	}

	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := Save(path, cfg); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	default:
		cfg = &Config{}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := cfg.ApplyEnv(lookup); err != nil {
		return nil, err
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path as YAML with 0600 permissions, atomically.
func Save(path string, cfg *Config) error {
	if strings.TrimSpace(path) == "" {
		return ErrEmptyPath
	}
	if cfg == nil {
		return errors.New("config: config is nil")
	}
	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("config: create dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".changenotice-config-*.tmp")
	if err != nil {
		return fmt.Errorf("config: create temp: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("config: write: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("config: sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("config: close: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return fmt.Errorf("config: chmod: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("config: rename: %w", err)
	}
	return nil
}

// ResolvePath returns the default config location: CHANGENOTICE_CONFIG, else
// changenotice.yaml under the user config directory.
func ResolvePath() string {
	if path := strings.TrimSpace(os.Getenv(envPrefix + "CONFIG")); path != "" {
		return path
	}
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return "changenotice.yaml"
	}
	return filepath.Join(dir, "changenotice", "config.yaml")
}
