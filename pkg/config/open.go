package config

import (
	"context"
	"os"
	"path/filepath"

	"github.com/matzehuels/imagerows/pkg/cache"
	"github.com/matzehuels/imagerows/pkg/store"
)

// AppName names the per-user cache directory.
const AppName = "imagerows"

// CacheDir returns the file cache directory: Cache.Dir when set, else the
// XDG cache home (~/.cache/imagerows/).
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

// OpenCache opens the configured cache backend. A file cache whose
// directory cannot be determined degrades to no caching.
func (c *Config) OpenCache(ctx context.Context) (cache.Cache, error) {
	switch c.Cache.Backend {
	case BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     c.Cache.Redis.Addr,
			Password: c.Cache.Redis.Password,
			DB:       c.Cache.Redis.DB,
			Prefix:   c.Cache.Redis.Prefix,
		})
		if err != nil {
			return nil, err
		}
		return rc, nil
	case BackendFile:
		dir, err := c.CacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		return fc, nil
	default:
		return cache.NewNullCache(), nil
	}
}

// OpenStore opens the configured listing store.
func (c *Config) OpenStore(ctx context.Context) (store.Store, error) {
	switch c.Store.Backend {
	case BackendFile:
		fs, err := store.NewFileStore(c.Store.Dir)
		if err != nil {
			return nil, err
		}
		return fs, nil
	case BackendMongo:
		ms, err := store.NewMongoStore(ctx, store.MongoOptions{
			URI:        c.Store.Mongo.URI,
			Database:   c.Store.Mongo.Database,
			Collection: c.Store.Mongo.Collection,
		})
		if err != nil {
			return nil, err
		}
		return ms, nil
	default:
		return store.NewMemoryStore(), nil
	}
}
