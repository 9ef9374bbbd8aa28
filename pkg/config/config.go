// Package config loads imagerows settings from a TOML file.
//
// A file may set any subset of keys; everything else keeps the value from
// [Default]:
//
//	[layout]
//	container = "#urls"
//	results = "#urls .result-images"
//	image = "img.image_thumbnail"
//	vertical_margin = 14
//	horizontal_margin = 6
//	max_height = 200
//	delay = "100ms"
//	fallback_image = "/static/img/broken.png"
//
//	[cache]
//	backend = "redis"
//	ttl = "24h"
//	[cache.redis]
//	addr = "localhost:6379"
//
//	[store]
//	backend = "mongo"
//	[store.mongo]
//	uri = "mongodb://localhost:27017"
//
//	[server]
//	addr = ":8080"
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/imagerows/pkg/errors"
	"github.com/matzehuels/imagerows/pkg/layout"
)

// Backend names.
const (
	BackendNone   = "none"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
	BackendMongo  = "mongo"
)

// Config is the top-level configuration.
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Assets AssetsConfig `toml:"assets"`
	Cache  CacheConfig  `toml:"cache"`
	Store  StoreConfig  `toml:"store"`
	Server ServerConfig `toml:"server"`
}

// LayoutConfig mirrors layout.Config.
type LayoutConfig struct {
	Container        string   `toml:"container"`
	Results          string   `toml:"results"`
	Image            string   `toml:"image"`
	VerticalMargin   float64  `toml:"vertical_margin"`
	HorizontalMargin float64  `toml:"horizontal_margin"`
	MaxHeight        float64  `toml:"max_height"`
	Delay            Duration `toml:"delay"`
	FallbackImage    string   `toml:"fallback_image"`
}

// AssetsConfig controls thumbnail probing.
type AssetsConfig struct {
	// Root is the directory local thumbnail paths resolve against.
	Root        string   `toml:"root"`
	Concurrency int      `toml:"concurrency"`
	Timeout     Duration `toml:"timeout"`
}

// CacheConfig selects the layout cache backend.
type CacheConfig struct {
	Backend string      `toml:"backend"`
	Dir     string      `toml:"dir"` // file backend; empty means the user cache dir
	TTL     Duration    `toml:"ttl"`
	Redis   RedisConfig `toml:"redis"`
}

// RedisConfig configures the redis cache backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// StoreConfig selects the listing store backend.
type StoreConfig struct {
	Backend string      `toml:"backend"`
	Dir     string      `toml:"dir"` // file backend
	Mongo   MongoConfig `toml:"mongo"`
}

// MongoConfig configures the mongo listing store.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
	// MaxBodyBytes bounds request bodies.
	MaxBodyBytes int64 `toml:"max_body_bytes"`
}

// Duration is a time.Duration decoded from strings like "100ms" or "24h".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	l := layout.DefaultConfig()
	return &Config{
		Layout: LayoutConfig{
			Container:        l.ContainerSelector,
			Results:          l.ResultsSelector,
			Image:            l.ImageSelector,
			VerticalMargin:   l.VerticalMargin,
			HorizontalMargin: l.HorizontalMargin,
			MaxHeight:        l.MaxHeight,
			Delay:            Duration{l.Delay},
		},
		Assets: AssetsConfig{
			Root:        ".",
			Concurrency: 8,
			Timeout:     Duration{10 * time.Second},
		},
		Cache: CacheConfig{
			Backend: BackendFile,
			TTL:     Duration{7 * 24 * time.Hour},
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "imagerows:",
			},
		},
		Store: StoreConfig{
			Backend: BackendMemory,
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  Duration{15 * time.Second},
			WriteTimeout: Duration{60 * time.Second},
			MaxBodyBytes: 8 << 20,
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := Decode(string(data), cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode parses TOML into cfg and validates the result. Keys missing from
// data keep their current value. Unknown keys are rejected.
func Decode(data string, cfg *Config) error {
	md, err := toml.Decode(data, cfg)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String())
	}
	return cfg.Validate()
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.LayoutConfig().Validate(); err != nil {
		return err
	}
	if c.Assets.Concurrency < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "assets.concurrency must be at least 1, got %d", c.Assets.Concurrency)
	}
	if c.Assets.Timeout.Duration < 0 || c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "durations cannot be negative")
	}
	switch c.Cache.Backend {
	case BackendNone, BackendFile:
	case BackendRedis:
		if c.Cache.Redis.Addr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis.addr is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q (want none, file or redis)", c.Cache.Backend)
	}
	switch c.Store.Backend {
	case BackendMemory:
	case BackendFile:
		if c.Store.Dir == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "store.dir is required for the file backend")
		}
	case BackendMongo:
		if c.Store.Mongo.URI == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "store.mongo.uri is required for the mongo backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q (want memory, file or mongo)", c.Store.Backend)
	}
	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "server.addr is required")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server.max_body_bytes must be positive")
	}
	return nil
}

// LayoutConfig converts the [layout] section for the coordinator.
func (c *Config) LayoutConfig() layout.Config {
	return layout.Config{
		ContainerSelector: c.Layout.Container,
		ResultsSelector:   c.Layout.Results,
		ImageSelector:     c.Layout.Image,
		VerticalMargin:    c.Layout.VerticalMargin,
		HorizontalMargin:  c.Layout.HorizontalMargin,
		MaxHeight:         c.Layout.MaxHeight,
		FallbackImage:     c.Layout.FallbackImage,
		Delay:             c.Layout.Delay.Duration,
	}
}
