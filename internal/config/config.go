// Package config loads css-shrink settings from package.json or .config files.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Orange-OpenSource/angular-css-shrink/internal/shrink"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// PackageJSONField is the package.json key holding css-shrink settings
const PackageJSONField = "cssShrink"

// configFiles are tried in order below the project root
var configFiles = []string{
	filepath.Join(".config", "css-shrink.yaml"),
	filepath.Join(".config", "css-shrink.yml"),
	filepath.Join(".config", "css-shrink.json"),
}

// Config is the file form of the css-shrink settings. Every field is optional.
type Config struct {
	DelimiterPattern string   `yaml:"delimiterPattern" json:"delimiterPattern"`
	MinClassLength   *int     `yaml:"minClassLength" json:"minClassLength"`
	Minify           bool     `yaml:"minify" json:"minify"`
	Debug            bool     `yaml:"debug" json:"debug"`
	DebugDir         string   `yaml:"debugDir" json:"debugDir"`
	Workers          int      `yaml:"workers" json:"workers"`
	Include          []string `yaml:"include" json:"include"`
	Exclude          []string `yaml:"exclude" json:"exclude"`
	CacheDir         string   `yaml:"cacheDir" json:"cacheDir"`
}

// Settings returns the shrink settings held by c
func (c *Config) Settings() shrink.Settings {
	if c == nil {
		return shrink.Settings{}
	}
	return shrink.Settings{
		DelimiterPattern: c.DelimiterPattern,
		MinClassLength:   c.MinClassLength,
		Minify:           c.Minify,
	}
}

// Load reads the configuration of the project at rootPath. The cssShrink
// field of package.json wins; otherwise the first .config/css-shrink.{yaml,yml,json}
// found is used. Returns nil and an empty source when nothing is configured.
func Load(rootPath string) (*Config, string, error) {
	if rootPath == "" {
		return nil, "", nil
	}

	pkgPath := filepath.Join(rootPath, "package.json")
	cfg, err := readPackageJSON(pkgPath)
	if err != nil {
		return nil, "", err
	}
	if cfg != nil {
		return cfg, pkgPath, nil
	}

	for _, name := range configFiles {
		path := filepath.Join(rootPath, name)
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			continue
		}
		cfg, err := LoadFile(path)
		if err != nil {
			return nil, "", err
		}
		return cfg, path, nil
	}

	return nil, "", nil
}

// LoadFile reads one configuration file. The format follows the extension:
// .yaml and .yml are YAML, anything else is JSON with comments.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: user supplied config path
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg := &Config{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(jsonc.ToJSON(data), cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// readPackageJSON returns the cssShrink field of package.json, or nil when
// the file or the field is missing
func readPackageJSON(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: project package.json
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read package.json: %w", err)
	}

	var pkg map[string]json.RawMessage
	if err := json.Unmarshal(jsonc.ToJSON(data), &pkg); err != nil {
		return nil, fmt.Errorf("failed to parse package.json: %w", err)
	}

	raw, ok := pkg[PackageJSONField]
	if !ok {
		return nil, nil
	}

	cfg := &Config{}
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("%s in package.json must be an object: %w", PackageJSONField, err)
	}
	return cfg, nil
}
