package repo

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/depviz/pkg/buildinfo"
	"github.com/matzehuels/depviz/pkg/cache"
	"github.com/matzehuels/depviz/pkg/errors"
	"github.com/matzehuels/depviz/pkg/observability"
)

const (
	// DefaultTimeout bounds a single download attempt.
	DefaultTimeout = 60 * time.Second

	// DefaultIndexTTL is how long a downloaded index stays fresh in the cache.
	DefaultIndexTTL = 24 * time.Hour

	// maxDownloadSize bounds the size of a downloaded archive.
	maxDownloadSize = 512 << 20
)

// Fetcher downloads index archives from a mirror. Downloads are retried on
// network errors and 5xx responses, and successful responses are cached.
type Fetcher struct {
	Client  *http.Client
	Cache   cache.Cache
	Keyer   cache.Keyer
	TTL     time.Duration
	Backoff cache.Backoff
	Logger  *log.Logger

	// Refresh skips the cache read; the fresh download is still stored.
	Refresh bool
}

// NewFetcher creates a Fetcher with the default timeout, TTL and retry
// schedule. A nil cache disables caching.
func NewFetcher(c cache.Cache) *Fetcher {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Fetcher{
		Client:  &http.Client{Timeout: DefaultTimeout},
		Cache:   c,
		Keyer:   cache.NewDefaultKeyer(),
		TTL:     DefaultIndexTTL,
		Backoff: cache.DefaultBackoff,
		Logger:  log.New(io.Discard),
	}
}

// IndexURL returns the archive URL for a repository location. A location
// ending in '/' names a repository directory and gets APKINDEX.tar.gz
// appended; anything else is used as is.
func IndexURL(repo string) string {
	if strings.HasSuffix(repo, "/") {
		return repo + "APKINDEX.tar.gz"
	}
	return repo
}

// Fetch returns the bytes at rawURL, from the cache when possible.
//
// A 404 is reported as ErrCodeNotFound; network failures and other bad
// statuses as ErrCodeNetwork. Both wrap the matching [cache.ErrNotFound] or
// [cache.ErrNetwork] sentinel.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	key := f.Keyer.IndexKey(rawURL)
	if !f.Refresh {
		if data, ok, err := f.Cache.Get(ctx, key); err == nil && ok {
			observability.Cache().OnCacheHit(ctx, "index")
			f.Logger.Debug("index cache hit", "url", rawURL)
			return data, nil
		}
		observability.Cache().OnCacheMiss(ctx, "index")
	}

	var data []byte
	err := f.Backoff.Do(ctx, func() error {
		var err error
		data, err = f.get(ctx, rawURL)
		if err != nil && cache.IsRetryable(err) {
			f.Logger.Warn("download failed, retrying", "url", rawURL, "error", err)
		}
		return err
	})
	if err != nil {
		if stderrors.Is(err, cache.ErrNotFound) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "repository index not found at %s", rawURL)
		}
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "download %s", rawURL)
	}

	if err := f.Cache.Set(ctx, key, data, f.TTL); err != nil {
		f.Logger.Warn("failed to cache index", "url", rawURL, "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "index", len(data))
	}
	return data, nil
}

func (f *Fetcher) get(ctx context.Context, rawURL string) ([]byte, error) {
	host, path := splitURL(rawURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", buildinfo.UserAgent())

	observability.HTTP().OnRequest(ctx, req.Method, host, path)
	start := time.Now()
	resp, err := f.Client.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, req.Method, host, path, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, cache.Retryable(fmt.Errorf("%w: %v", cache.ErrNetwork, err))
	}
	defer resp.Body.Close()
	observability.HTTP().OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadSize))
	if err != nil {
		return nil, cache.Retryable(fmt.Errorf("%w: read body: %v", cache.ErrNetwork, err))
	}
	return data, nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return cache.ErrNotFound
	case code >= 500:
		return cache.Retryable(fmt.Errorf("%w: status %d", cache.ErrNetwork, code))
	default:
		return fmt.Errorf("%w: status %d", cache.ErrNetwork, code)
	}
}

func splitURL(rawURL string) (host, path string) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", rawURL
	}
	return u.Host, u.Path
}
