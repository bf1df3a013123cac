// Package config loads flowgraph settings.
//
// Settings are layered, later sources overriding earlier ones:
//
//  1. Built-in defaults
//  2. User config (~/.config/flowgraph/config.yml)
//  3. Project config (.flowgraph.yml, or the --config path)
//  4. Environment variables (FLOWGRAPH_*), after loading .env
//
// Command-line flags are applied on top by the CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/matzehuels/flowgraph/pkg/errors"
)

const (
	appName = "flowgraph"

	// EnvPrefix prefixes every environment variable read by Load.
	EnvPrefix = "FLOWGRAPH_"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the resolved configuration.
type Config struct {
	MaxDepth   int          `koanf:"max_depth"`
	Direction  string       `koanf:"direction"`
	NodePrefix string       `koanf:"node_prefix"`
	Theme      string       `koanf:"theme"` // path to a TOML theme file
	Cache      CacheConfig  `koanf:"cache"`
	Redis      RedisConfig  `koanf:"redis"`
	Server     ServerConfig `koanf:"server"`
}

// CacheConfig selects and configures the artifact cache.
type CacheConfig struct {
	Backend string        `koanf:"backend"`
	Dir     string        `koanf:"dir"`
	TTL     time.Duration `koanf:"ttl"`
}

// RedisConfig configures the redis cache backend.
type RedisConfig struct {
	URL    string `koanf:"url"`
	Prefix string `koanf:"prefix"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `koanf:"addr"`
}

// LoadOptions configures Load.
type LoadOptions struct {
	// ConfigPath replaces the project config path. A path given here must
	// exist.
	ConfigPath string
	// UserConfigPath replaces the user config path; empty uses the default.
	UserConfigPath string
	// EnvFile is loaded into the environment before reading variables.
	// Empty uses ".env"; a missing file is ignored.
	EnvFile string
}

// Default returns the built-in configuration without reading any file or
// the environment.
func Default() *Config {
	k, err := newKoanf()
	if err != nil {
		panic(err)
	}
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		panic(err)
	}
	return &cfg
}

// Load resolves the configuration from every source.
func Load(opts LoadOptions) (*Config, error) {
	k, err := newKoanf()
	if err != nil {
		return nil, err
	}

	userPath := opts.UserConfigPath
	if userPath == "" {
		userPath, _ = UserConfigPath()
	}
	if fileExists(userPath) {
		if err := loadYAML(k, userPath, "user"); err != nil {
			return nil, err
		}
	}

	projectPath := ProjectConfigPath
	if opts.ConfigPath != "" {
		if !fileExists(opts.ConfigPath) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "config file %s not found", opts.ConfigPath)
		}
		projectPath = opts.ConfigPath
	}
	if fileExists(projectPath) {
		if err := loadYAML(k, projectPath, "project"); err != nil {
			return nil, err
		}
	}

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if fileExists(envFile) {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment config: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Cache.Dir = expandHome(cfg.Cache.Dir)
	cfg.Theme = expandHome(cfg.Theme)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Defaults returns the built-in settings keyed by koanf path.
func Defaults() map[string]any {
	return map[string]any{
		"max_depth":     1,
		"direction":     "LR",
		"node_prefix":   "FlyteNode",
		"theme":         "",
		"cache.backend": BackendFile,
		"cache.dir":     DefaultCacheDir(),
		"cache.ttl":     7 * 24 * time.Hour,
		"redis.url":     "",
		"redis.prefix":  "",
		"server.addr":   ":8080",
	}
}

// Validate checks the resolved values.
func (c *Config) Validate() error {
	if err := errors.ValidateDepth(c.MaxDepth); err != nil {
		return err
	}
	if err := errors.ValidateDirection(c.Direction); err != nil {
		return err
	}
	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Redis.URL == "" {
			return errors.New(errors.ErrCodeInvalidInput, "cache backend redis requires redis.url")
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown cache backend %q (must be file, redis or none)", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cache.ttl must not be negative")
	}
	return nil
}

func newKoanf() (*koanf.Koanf, error) {
	k := koanf.New(".")
	for key, value := range Defaults() {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("set default %s: %w", key, err)
		}
	}
	return k, nil
}

func loadYAML(k *koanf.Koanf, path, configType string) error {
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "load %s config %s", configType, path)
	}
	return nil
}

// nestedSections are the config sections whose keys are written with a
// single underscore in environment variables, e.g. FLOWGRAPH_CACHE_DIR.
var nestedSections = []string{"cache", "redis", "server"}

// envKey maps FLOWGRAPH_CACHE_DIR to cache.dir and FLOWGRAPH_MAX_DEPTH to
// max_depth.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	for _, section := range nestedSections {
		if strings.HasPrefix(key, section+"_") {
			return section + "." + strings.TrimPrefix(key, section+"_")
		}
	}
	return key
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
