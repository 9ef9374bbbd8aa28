package assets

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/imagerows/pkg/cache"
	"github.com/matzehuels/imagerows/pkg/errors"
	"github.com/matzehuels/imagerows/pkg/observability"
)

const (
	httpTimeout        = 10 * time.Second
	defaultConcurrency = 8
	userAgent          = "imagerows"
)

// Thumbnail is an image whose asset the loader measures.
type Thumbnail interface {
	// Source returns the current asset source.
	Source() string

	// Load records the intrinsic size and fires load.
	Load(width, height float64)

	// Fail fires error.
	Fail()
}

// Loader probes intrinsic sizes of thumbnail sources.
type Loader struct {
	root        string
	client      *http.Client
	cache       cache.Cache
	keyer       cache.Keyer
	ttl         time.Duration
	retry       cache.RetryPolicy
	concurrency int
	logger      *log.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithHTTPClient sets the client used for http(s) sources.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) { l.client = c }
}

// WithCache caches probed sizes. Data URIs are never cached.
func WithCache(c cache.Cache, k cache.Keyer, ttl time.Duration) Option {
	return func(l *Loader) {
		if c != nil {
			l.cache = c
		}
		if k != nil {
			l.keyer = k
		}
		l.ttl = ttl
	}
}

// WithRetryPolicy sets the retry policy for http(s) sources.
func WithRetryPolicy(p cache.RetryPolicy) Option {
	return func(l *Loader) { l.retry = p }
}

// WithConcurrency bounds the number of probes LoadAll runs at once.
func WithConcurrency(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.concurrency = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(lg *log.Logger) Option {
	return func(l *Loader) {
		if lg != nil {
			l.logger = lg
		}
	}
}

// NewLoader returns a loader resolving local paths under root. An empty
// root disables local paths.
func NewLoader(root string, opts ...Option) *Loader {
	l := &Loader{
		root:        root,
		client:      &http.Client{Timeout: httpTimeout},
		cache:       cache.NewNullCache(),
		keyer:       cache.NewDefaultKeyer(),
		retry:       cache.DefaultRetryPolicy,
		concurrency: defaultConcurrency,
		logger:      log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Probe returns the intrinsic size of src.
func (l *Loader) Probe(ctx context.Context, src string) (Size, error) {
	start := time.Now()
	observability.Asset().OnProbe(ctx, src)

	size, err := l.probe(ctx, src)
	if err != nil {
		observability.Asset().OnError(ctx, src, err)
		return Size{}, err
	}
	observability.Asset().OnMeasured(ctx, src, size.Width, size.Height, time.Since(start))
	return size, nil
}

func (l *Loader) probe(ctx context.Context, src string) (Size, error) {
	if src == "" {
		return Size{}, errors.New(errors.ErrCodeInvalidInput, "empty source")
	}
	if strings.HasPrefix(src, "data:") {
		return decodeDataURI(src)
	}

	key := l.keyer.AssetKey(src)
	if data, ok, _ := l.cache.Get(ctx, key); ok {
		var s Size
		if json.Unmarshal(data, &s) == nil && s.Width > 0 && s.Height > 0 {
			observability.Cache().OnCacheHit(ctx, "asset")
			return s, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "asset")

	var (
		size Size
		err  error
	)
	switch {
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		size, err = l.probeHTTP(ctx, src)
	case strings.Contains(src, "://") && !strings.HasPrefix(src, "file://"):
		return Size{}, errors.New(errors.ErrCodeUnsupported, "unsupported source scheme: %s", src)
	default:
		size, err = l.probeFile(src)
	}
	if err != nil {
		return Size{}, err
	}

	if data, err := json.Marshal(size); err == nil {
		if err := l.cache.Set(ctx, key, data, l.ttl); err == nil {
			observability.Cache().OnCacheSet(ctx, "asset", len(data))
		}
	}
	return size, nil
}

// resolve maps a page-relative source onto the loader's root.
func (l *Loader) resolve(src string) (string, error) {
	if l.root == "" {
		return "", errors.New(errors.ErrCodeUnsupported, "no asset root configured for %s", src)
	}
	rel := strings.TrimPrefix(src, "file://")
	if i := strings.IndexAny(rel, "?#"); i >= 0 {
		rel = rel[:i]
	}
	rel = strings.TrimLeft(rel, "/")
	if err := errors.ValidatePath(rel); err != nil {
		return "", err
	}
	return filepath.Join(l.root, filepath.FromSlash(rel)), nil
}

func (l *Loader) probeFile(src string) (Size, error) {
	path, err := l.resolve(src)
	if err != nil {
		return Size{}, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return Size{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "asset %s", src)
	}
	if err != nil {
		return Size{}, fmt.Errorf("open asset: %w", err)
	}
	defer f.Close()
	return DecodeSize(f)
}

func (l *Loader) probeHTTP(ctx context.Context, src string) (Size, error) {
	if err := errors.ValidateURL(src); err != nil {
		return Size{}, err
	}
	var size Size
	err := l.retry.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "asset request")
		}
		req.Header.Set("User-Agent", userAgent)

		resp, err := l.client.Do(req)
		if err != nil {
			return cache.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", src))
		}
		defer resp.Body.Close()

		if err := checkStatus(resp, src); err != nil {
			return err
		}
		size, err = DecodeSize(resp.Body)
		return err
	})
	return size, err
}

func checkStatus(resp *http.Response, src string) error {
	code := resp.StatusCode
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "asset %s: status %d", src, code)
	case code == http.StatusTooManyRequests:
		return cache.RetryAfter(errors.New(errors.ErrCodeRateLimited, "asset %s: status %d", src, code),
			resp.Header.Get("Retry-After"))
	case code >= 500:
		return cache.Retryable(errors.New(errors.ErrCodeNetwork, "asset %s: status %d", src, code))
	default:
		return errors.New(errors.ErrCodeNetwork, "asset %s: status %d", src, code)
	}
}

// Report summarizes a LoadAll run.
type Report struct {
	Loaded int

	// Failed counts thumbnails whose asset, and fallback asset if one was
	// substituted, could not be measured.
	Failed int

	// Recovered counts thumbnails that failed and then loaded a
	// substituted source.
	Recovered int

	// Canceled counts thumbnails left untouched because ctx ended.
	Canceled int
}

// LoadAll probes every thumbnail concurrently and calls Load or Fail on
// each. When a thumbnail's error handlers substitute a new source, the new
// source is probed once.
func (l *Loader) LoadAll(ctx context.Context, thumbs []Thumbnail) Report {
	var loaded, failed, recovered, canceled atomic.Int64

	g := new(errgroup.Group)
	g.SetLimit(l.concurrency)
	for _, t := range thumbs {
		g.Go(func() error {
			if ctx.Err() != nil {
				canceled.Add(1)
				return nil
			}
			src := t.Source()
			size, err := l.Probe(ctx, src)
			if err == nil {
				t.Load(float64(size.Width), float64(size.Height))
				loaded.Add(1)
				return nil
			}
			if ctx.Err() != nil {
				canceled.Add(1)
				return nil
			}
			l.logger.Debug("asset failed", "src", src, "err", err)
			t.Fail()

			next := t.Source()
			if next == src {
				failed.Add(1)
				return nil
			}
			size, err = l.Probe(ctx, next)
			if err != nil {
				l.logger.Warn("fallback asset failed", "src", next, "err", err)
				t.Fail()
				failed.Add(1)
				return nil
			}
			t.Load(float64(size.Width), float64(size.Height))
			recovered.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	r := Report{
		Loaded:    int(loaded.Load()),
		Failed:    int(failed.Load()),
		Recovered: int(recovered.Load()),
		Canceled:  int(canceled.Load()),
	}
	l.logger.Info("probed thumbnails", "loaded", r.Loaded, "failed", r.Failed, "recovered", r.Recovered)
	return r
}
