package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/flowgraph/pkg/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// isolated returns load options that ignore the real user config.
func isolated(t *testing.T) LoadOptions {
	t.Helper()
	dir := t.TempDir()
	return LoadOptions{
		UserConfigPath: filepath.Join(dir, "no-user.yml"),
		EnvFile:        filepath.Join(dir, "no.env"),
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(isolated(t))
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.MaxDepth)
	assert.Equal(t, "LR", cfg.Direction)
	assert.Equal(t, "FlyteNode", cfg.NodePrefix)
	assert.Equal(t, BackendFile, cfg.Cache.Backend)
	assert.Equal(t, 7*24*time.Hour, cfg.Cache.TTL)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.NotEmpty(t, cfg.Cache.Dir)
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	opts := isolated(t)
	opts.UserConfigPath = writeFile(t, dir, "user.yml", "max_depth: 2\ndirection: TB\nnode_prefix: User\n")
	opts.ConfigPath = writeFile(t, dir, "project.yml", "max_depth: 3\ncache:\n  ttl: 1h\n")
	t.Setenv("FLOWGRAPH_MAX_DEPTH", "4")
	t.Setenv("FLOWGRAPH_CACHE_BACKEND", "none")

	cfg, err := Load(opts)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.MaxDepth, "env beats project")
	assert.Equal(t, "TB", cfg.Direction, "user beats defaults")
	assert.Equal(t, "User", cfg.NodePrefix)
	assert.Equal(t, time.Hour, cfg.Cache.TTL, "project beats defaults")
	assert.Equal(t, BackendNone, cfg.Cache.Backend, "nested env keys")
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	opts := isolated(t)
	opts.EnvFile = writeFile(t, dir, ".env", "FLOWGRAPH_SERVER_ADDR=:9999\nFLOWGRAPH_REDIS_URL=redis://localhost:6379/0\n")
	t.Cleanup(func() {
		os.Unsetenv("FLOWGRAPH_SERVER_ADDR")
		os.Unsetenv("FLOWGRAPH_REDIS_URL")
	})

	cfg, err := Load(opts)
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
}

func TestLoadMissingExplicitConfig(t *testing.T) {
	opts := isolated(t)
	opts.ConfigPath = filepath.Join(t.TempDir(), "missing.yml")
	_, err := Load(opts)
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound), "err = %v", err)
}

func TestLoadMalformedYAML(t *testing.T) {
	opts := isolated(t)
	opts.ConfigPath = writeFile(t, t.TempDir(), "bad.yml", "max_depth: [unclosed\n")
	_, err := Load(opts)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat), "err = %v", err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{MaxDepth: 1, Direction: "LR", Cache: CacheConfig{Backend: BackendFile}}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		code   errors.Code
	}{
		{"valid", func(*Config) {}, ""},
		{"bad direction", func(c *Config) { c.Direction = "up" }, errors.ErrCodeInvalidDirection},
		{"negative depth", func(c *Config) { c.MaxDepth = -2 }, errors.ErrCodeInvalidDepth},
		{"unknown backend", func(c *Config) { c.Cache.Backend = "memcached" }, errors.ErrCodeInvalidInput},
		{"redis without url", func(c *Config) { c.Cache.Backend = BackendRedis }, errors.ErrCodeInvalidInput},
		{"redis with url", func(c *Config) {
			c.Cache.Backend = BackendRedis
			c.Redis.URL = "redis://localhost:6379"
		}, ""},
		{"negative ttl", func(c *Config) { c.Cache.TTL = -time.Second }, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.code == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.code), "err = %v", err)
		})
	}
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"FLOWGRAPH_MAX_DEPTH":     "max_depth",
		"FLOWGRAPH_NODE_PREFIX":   "node_prefix",
		"FLOWGRAPH_CACHE_DIR":     "cache.dir",
		"FLOWGRAPH_CACHE_BACKEND": "cache.backend",
		"FLOWGRAPH_REDIS_URL":     "redis.url",
		"FLOWGRAPH_SERVER_ADDR":   "server.addr",
	}
	for in, want := range tests {
		if got := envKey(in); got != want {
			t.Errorf("envKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "themes/dark.toml"), expandHome("~/themes/dark.toml"))
	assert.Equal(t, "/abs/path", expandHome("/abs/path"))
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 1, cfg.MaxDepth)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.NoError(t, cfg.Validate())
}
