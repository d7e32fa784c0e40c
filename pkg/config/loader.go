package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Common errors for configuration loading.
var (
	ErrFileNotFound     = errors.New("configuration file not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidJSON      = errors.New("invalid JSON syntax")
	ErrInvalidYAML      = errors.New("invalid YAML syntax")
	ErrInvalidTOML      = errors.New("invalid TOML syntax")
	ErrEmptyFile        = errors.New("configuration file is empty")
	ErrNotADirectory    = errors.New("not a directory")
)

// Format is a configuration file syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// FormatForPath detects the format from the file extension. Unknown
// extensions are treated as JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatJSON
	}
}

// LoadFromFile reads a configuration file and fills in defaults. The result
// is not validated.
func LoadFromFile(path string) (*ServerConfiguration, error) {
	cfg, err := readFile(path)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

// LoadDir merges every configuration file below dir matching
// "**/*.{yaml,yml,toml,json}" in lexical path order, then fills in defaults.
// Scalars of later files override earlier ones; plugin, external and domain
// lists are concatenated.
func LoadDir(dir string) (*ServerConfiguration, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, dir)
		}
		return nil, fmt.Errorf("failed to stat directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotADirectory, dir)
	}

	matches, err := doublestar.Glob(os.DirFS(dir), "**/*.{yaml,yml,toml,json}")
	if err != nil {
		return nil, fmt.Errorf("expanding glob pattern: %w", err)
	}
	sort.Strings(matches)

	cfg := &ServerConfiguration{}
	for _, match := range matches {
		fragment, err := readFile(filepath.Join(dir, filepath.FromSlash(match)))
		if err != nil {
			return nil, err
		}
		cfg.merge(fragment)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// Load reads path as a directory of fragments or as a single file.
func Load(path string) (*ServerConfiguration, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return LoadDir(path)
	}
	return LoadFromFile(path)
}

func readFile(path string) (*ServerConfiguration, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		}
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}

	cfg, err := Parse(data, FormatForPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes data in the given format. Defaults are not applied.
func Parse(data []byte, format Format) (*ServerConfiguration, error) {
	cfg := &ServerConfiguration{}
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidTOML, err)
		}
	default:
		if !json.Valid(data) {
			return nil, ErrInvalidJSON
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	}
	return cfg, nil
}

// Marshal encodes cfg in the given format.
func Marshal(cfg *ServerConfiguration, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(cfg)
	case FormatTOML:
		return toml.Marshal(cfg)
	default:
		return json.MarshalIndent(cfg, "", "  ")
	}
}
