package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/teranos/contractgen/errors"
)

// Load reads configuration from configPath, or from the nearest
// contractgen.toml above the working directory when configPath is empty.
// Defaults apply when no file exists. Environment variables prefixed with
// CONTRACTGEN_ override file values.
func Load(configPath string) (*Config, error) {
	v := NewViper()

	if configPath == "" {
		configPath = findProjectConfig()
	}

	var root string
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
		}
		abs, err := filepath.Abs(configPath)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to resolve config path %s", configPath)
		}
		configPath = abs
		root = filepath.Dir(abs)
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "failed to determine working directory")
		}
		root = wd
	}

	cfg, err := LoadWithViper(v)
	if err != nil {
		return nil, err
	}
	cfg.Root = root
	cfg.File = configPath

	if err := cfg.Validate(); err != nil {
		return nil, errors.WithHintf(err, "check %s or the %s_* environment", displayName(configPath), EnvPrefix)
	}
	return cfg, nil
}

// NewViper returns a Viper instance with defaults and environment binding
// but no config file.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &cfg, nil
}

// findProjectConfig searches for contractgen.toml by walking up the directory tree.
// Returns the path to the first file found, or empty string if none found.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		candidate := filepath.Join(dir, FileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func displayName(configPath string) string {
	if configPath == "" {
		return FileName
	}
	return configPath
}
