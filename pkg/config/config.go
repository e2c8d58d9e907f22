// Package config loads server and pipeline configuration.
//
// Configuration is resolved in three layers: built-in defaults, an optional
// TOML file, and MOSAIC_* environment variables. Later layers win.
package config

import (
	"os"
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/mosaicviz/mosaic/pkg/errors"
)

// Config is the top-level configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Cache  CacheConfig  `toml:"cache"`
	Store  StoreConfig  `toml:"store"`
	Layout LayoutConfig `toml:"layout"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// CacheConfig selects and configures the cache backend.
// Backend is one of: file, redis, none.
type CacheConfig struct {
	Backend string `toml:"backend"`
	Dir     string `toml:"dir"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// StoreConfig selects and configures the chart store backend.
// Backend is one of: memory, mongo.
type StoreConfig struct {
	Backend       string `toml:"backend"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// LayoutConfig sets default layout dimensions and grouping.
type LayoutConfig struct {
	Width    float64 `toml:"width"`
	Height   float64 `toml:"height"`
	Grouping string  `toml:"grouping"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{Addr: ":8080"},
		Cache:  CacheConfig{Backend: "file", RedisAddr: "localhost:6379"},
		Store: StoreConfig{
			Backend:       "memory",
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: "mosaic",
		},
		Layout: LayoutConfig{Width: 800, Height: 600, Grouping: "sector"},
	}
}

// Load reads configuration from an optional TOML file, then applies
// environment overrides. An empty path skips the file layer.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			if os.IsNotExist(err) {
				return cfg, errors.New(errors.ErrCodeFileNotFound, "config file not found: %s", path)
			}
			return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "failed to parse config file")
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnv overrides configuration from MOSAIC_* environment variables.
func (c *Config) applyEnv() {
	setString(&c.Server.Addr, "MOSAIC_ADDR")
	setString(&c.Cache.Backend, "MOSAIC_CACHE_BACKEND")
	setString(&c.Cache.Dir, "MOSAIC_CACHE_DIR")
	setString(&c.Cache.RedisAddr, "MOSAIC_REDIS_ADDR")
	setString(&c.Cache.RedisPassword, "MOSAIC_REDIS_PASSWORD")
	setInt(&c.Cache.RedisDB, "MOSAIC_REDIS_DB")
	setString(&c.Store.Backend, "MOSAIC_STORE_BACKEND")
	setString(&c.Store.MongoURI, "MOSAIC_MONGO_URI")
	setString(&c.Store.MongoDatabase, "MOSAIC_MONGO_DATABASE")
	setFloat(&c.Layout.Width, "MOSAIC_LAYOUT_WIDTH")
	setFloat(&c.Layout.Height, "MOSAIC_LAYOUT_HEIGHT")
	setString(&c.Layout.Grouping, "MOSAIC_LAYOUT_GROUPING")
}

// Validate checks that the resolved configuration is usable.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case "file", "redis", "none":
	default:
		return errors.New(errors.ErrCodeInvalidInput, "invalid cache backend: %q (must be one of: file, redis, none)", c.Cache.Backend)
	}
	switch c.Store.Backend {
	case "memory", "mongo":
	default:
		return errors.New(errors.ErrCodeInvalidInput, "invalid store backend: %q (must be one of: memory, mongo)", c.Store.Backend)
	}
	if c.Layout.Width <= 0 || c.Layout.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidBounds, "layout dimensions must be positive")
	}
	if err := errors.ValidateGrouping(c.Layout.Grouping); err != nil {
		return err
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}
