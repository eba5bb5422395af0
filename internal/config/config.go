package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pelletier/go-toml/v2"
)

// FileName is the optional workspace configuration file.
const FileName = ".vls.toml"

const (
	FormatterBuiltin = "builtin"
	FormatterNone    = "none"
)

const defaultCacheCapacity = 10

type Config struct {
	Format     FormatConfig     `json:"format"     toml:"format"`
	JavaScript LanguageConfig   `json:"javascript" toml:"javascript"`
	TypeScript LanguageConfig   `json:"typescript" toml:"typescript"`
	Validation ValidationConfig `json:"validation" toml:"validation"`
	Cache      CacheConfig      `json:"cache"      toml:"cache"`
	Include    []string         `json:"include"    toml:"include"`
}

type FormatConfig struct {
	ScriptInitialIndent bool              `json:"scriptInitialIndent" toml:"scriptInitialIndent"`
	DefaultFormatter    map[string]string `json:"defaultFormatter"    toml:"defaultFormatter"`
}

type LanguageConfig struct {
	Format FormatOptions `json:"format" toml:"format"`
}

type ValidationConfig struct {
	Script bool `json:"script" toml:"script"`
}

type CacheConfig struct {
	Capacity      int `json:"capacity"      toml:"capacity"`
	MaxAgeSeconds int `json:"maxAgeSeconds" toml:"maxAgeSeconds"`
}

func (c CacheConfig) MaxAge() time.Duration {
	return time.Duration(c.MaxAgeSeconds) * time.Second
}

// Default returns a fresh copy of the default configuration.
func Default() Config {
	return Config{
		Format: FormatConfig{
			DefaultFormatter: map[string]string{
				"js": FormatterBuiltin,
				"ts": FormatterBuiltin,
			},
		},
		Validation: ValidationConfig{Script: true},
		Cache: CacheConfig{
			Capacity:      defaultCacheCapacity,
			MaxAgeSeconds: 60,
		},
		Include: []string{"**/*.vue"},
	}
}

// Load overlays v (usually LSP initialization options) onto the defaults.
func Load(v any) (Config, error) {
	return Merge(Default(), v)
}

// Merge overlays v onto base. Only fields present in v overwrite.
func Merge(base Config, v any) (Config, error) {
	cfg := base.clone()
	if v == nil {
		return cfg, nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return Config{}, fmt.Errorf("failed to marshal source: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal into Config: %w", err)
	}

	cfg.normalize()
	return cfg, nil
}

// LoadFromTOML reads TOML from r and overlays it onto the defaults.
func LoadFromTOML(r io.Reader) (Config, error) {
	cfg := Default()

	decoder := toml.NewDecoder(r)
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, err
	}

	cfg.normalize()
	return cfg, nil
}

// LoadFile reads the workspace configuration file under root. A missing
// file yields the defaults.
func LoadFile(root string) (Config, error) {
	path := filepath.Join(root, FileName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	cfg, err := LoadFromTOML(bytes.NewReader(data))
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

// Manages reports whether path, relative to the workspace root, matches one
// of the include globs.
func (c Config) Manages(path string) bool {
	path = strings.TrimPrefix(filepath.ToSlash(path), "/")
	for _, pattern := range c.Include {
		if ok, err := doublestar.Match(pattern, path); err == nil && ok {
			return true
		}
	}
	return false
}

// Formatter returns the configured formatter for a language id.
func (c Config) Formatter(languageID string) string {
	key := "js"
	if languageID == "typescript" {
		key = "ts"
	}
	if f, ok := c.Format.DefaultFormatter[key]; ok && f != "" {
		return f
	}
	return FormatterBuiltin
}

// FormatOptionsFor returns the language specific format overrides.
func (c Config) FormatOptionsFor(languageID string) FormatOptions {
	if languageID == "typescript" {
		return c.TypeScript.Format
	}
	return c.JavaScript.Format
}

// normalize replaces a non-positive cache capacity with the default.
func (c *Config) normalize() {
	if c.Cache.Capacity <= 0 {
		c.Cache.Capacity = defaultCacheCapacity
	}
}

func (c Config) clone() Config {
	out := c
	out.Format.DefaultFormatter = make(map[string]string, len(c.Format.DefaultFormatter))
	for k, v := range c.Format.DefaultFormatter {
		out.Format.DefaultFormatter[k] = v
	}
	out.Include = append([]string(nil), c.Include...)
	out.JavaScript.Format = c.JavaScript.Format.clone()
	out.TypeScript.Format = c.TypeScript.Format.clone()
	return out
}
