package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/matzehuels/imagerows/pkg/cache"
	"github.com/matzehuels/imagerows/pkg/errors"
	"github.com/matzehuels/imagerows/pkg/layout"
	"github.com/matzehuels/imagerows/pkg/store"
)

func TestDefaultMatchesLayoutDefaults(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if got, want := cfg.LayoutConfig(), layout.DefaultConfig(); got != want {
		t.Errorf("LayoutConfig() = %+v, want %+v", got, want)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "imagerows.toml")
	data := `
[layout]
vertical_margin = 10
max_height = 180
delay = "250ms"
fallback_image = "/static/broken.png"

[cache]
backend = "none"

[store]
backend = "file"
dir = "/tmp/listings"

[server]
addr = ":9000"
read_timeout = "5s"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	l := cfg.LayoutConfig()
	if l.VerticalMargin != 10 || l.MaxHeight != 180 || l.Delay != 250*time.Millisecond {
		t.Errorf("layout = %+v", l)
	}
	if l.FallbackImage != "/static/broken.png" {
		t.Errorf("FallbackImage = %q", l.FallbackImage)
	}
	// Untouched keys keep their defaults.
	if l.HorizontalMargin != layout.DefaultHorizontalMargin || l.ImageSelector != layout.DefaultImageSelector {
		t.Errorf("defaults lost: %+v", l)
	}
	if cfg.Cache.Backend != BackendNone || cfg.Store.Dir != "/tmp/listings" {
		t.Errorf("cache/store = %+v %+v", cfg.Cache, cfg.Store)
	}
	if cfg.Server.Addr != ":9000" || cfg.Server.ReadTimeout.Duration != 5*time.Second {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Server.WriteTimeout.Duration != 60*time.Second {
		t.Errorf("WriteTimeout default lost: %v", cfg.Server.WriteTimeout)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", `[layout`},
		{"unknown key", "[layout]\nmargin = 3"},
		{"bad duration", "[layout]\ndelay = \"soon\""},
		{"negative margin", "[layout]\nvertical_margin = -1"},
		{"zero max height", "[layout]\nmax_height = 0"},
		{"empty selector", "[layout]\nimage = \"\""},
		{"unknown cache backend", "[cache]\nbackend = \"memcached\""},
		{"redis without addr", "[cache]\nbackend = \"redis\"\n[cache.redis]\naddr = \"\""},
		{"unknown store backend", "[store]\nbackend = \"sqlite\""},
		{"file store without dir", "[store]\nbackend = \"file\""},
		{"mongo without uri", "[store]\nbackend = \"mongo\""},
		{"zero concurrency", "[assets]\nconcurrency = 0"},
		{"empty server addr", "[server]\naddr = \"\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Decode(tt.data, Default())
			if !errors.Is(err, errors.ErrCodeInvalidConfig) && !errors.Is(err, errors.ErrCodeInvalidSelector) {
				t.Errorf("Decode() = %v, want a config error", err)
			}
		})
	}
}

func TestCacheDir(t *testing.T) {
	cfg := Default()
	cfg.Cache.Dir = "/var/cache/ir"
	if dir, _ := cfg.CacheDir(); dir != "/var/cache/ir" {
		t.Errorf("explicit dir = %q", dir)
	}

	cfg.Cache.Dir = ""
	t.Setenv("XDG_CACHE_HOME", "/xdg")
	if dir, _ := cfg.CacheDir(); dir != filepath.Join("/xdg", AppName) {
		t.Errorf("xdg dir = %q", dir)
	}
}

func TestOpenCache(t *testing.T) {
	ctx := context.Background()
	cfg := Default()

	cfg.Cache.Backend = BackendNone
	c, err := cfg.OpenCache(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(*cache.NullCache); !ok {
		t.Errorf("none backend = %T", c)
	}

	cfg.Cache.Backend = BackendFile
	cfg.Cache.Dir = t.TempDir()
	c, err = cfg.OpenCache(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if fc, ok := c.(*cache.FileCache); !ok || fc.Dir() != cfg.Cache.Dir {
		t.Errorf("file backend = %T", c)
	}

	mr := miniredis.RunT(t)
	cfg.Cache.Backend = BackendRedis
	cfg.Cache.Redis.Addr = mr.Addr()
	c, err = cfg.OpenCache(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	if _, ok := c.(*cache.RedisCache); !ok {
		t.Errorf("redis backend = %T", c)
	}
}

func TestOpenCacheUnreachableRedis(t *testing.T) {
	cfg := Default()
	cfg.Cache.Backend = BackendRedis
	cfg.Cache.Redis.Addr = "127.0.0.1:1"
	c, err := cfg.OpenCache(context.Background())
	if err == nil {
		t.Fatal("expected an error")
	}
	if c != nil {
		t.Errorf("cache = %#v, want nil interface", c)
	}
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()
	cfg := Default()

	s, err := cfg.OpenStore(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*store.MemoryStore); !ok {
		t.Errorf("default backend = %T", s)
	}

	cfg.Store.Backend = BackendFile
	cfg.Store.Dir = filepath.Join(t.TempDir(), "listings")
	s, err = cfg.OpenStore(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*store.FileStore); !ok {
		t.Errorf("file backend = %T", s)
	}
}

func TestLoadExampleConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "examples", "imagerows.toml"))
	if err != nil {
		t.Fatalf("Load(example) error: %v", err)
	}
	if cfg.Layout.FallbackImage != "placeholder.png" {
		t.Errorf("FallbackImage = %q", cfg.Layout.FallbackImage)
	}
	if cfg.Layout.Delay.Duration != time.Millisecond {
		t.Errorf("Delay = %v, want 1ms", cfg.Layout.Delay.Duration)
	}
	if cfg.Store.Backend != BackendFile || cfg.Cache.Backend != BackendFile {
		t.Errorf("backends = %s/%s, want file/file", cfg.Cache.Backend, cfg.Store.Backend)
	}
}
