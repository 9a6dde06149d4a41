package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// configFileNames is the ordered list of config file names looked up in every directory.
var configFileNames = []string{
	"refix.toml",
	".refix.yaml",
	".refix.yml",
}

// Discover walks from startDir up to the filesystem root and returns the
// first config file found. ok is false when there is none.
func Discover(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		for _, name := range configFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, true, nil
			} else if !errors.Is(err, fs.ErrNotExist) {
				return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load reads a config file. If configPath is empty, Load discovers one from
// startDir; without a file it returns DefaultConfig.
//
// Partial files are supported: any fields not set keep their defaults.
func Load(configPath, startDir string) (*Config, error) {
	if configPath == "" {
		found, ok, err := Discover(startDir)
		if err != nil {
			return nil, err
		}
		if !ok {
			return DefaultConfig(), nil
		}
		configPath = found
	}
	return LoadFile(configPath)
}

// LoadFile reads and parses the config at path. The format follows the extension.
func LoadFile(path string) (*Config, error) {
	// #nosec G304 -- path is provided by the user or discovered
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	cfg := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: failed to parse YAML: %w", path, err)
		}
	default:
		meta, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
		}
	}
	if cfg.Rules.Severity == nil {
		cfg.Rules.Severity = map[string]string{}
	}
	cfg.Path = path
	return cfg, nil
}
