// Package catalog maintains a read-through cache of the full chart catalog:
// one JSON document persisted on disk and refreshed from the network when it
// is older than the expiry window.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"maiscore/internal/songid"
	"maiscore/pkg/logger"
	"maiscore/pkg/metrics"
	"maiscore/pkg/models"
)

const (
	defaultURL    = "https://maimai.lxns.net/api/v0/maimai/song/list?notes=true"
	defaultExpiry = 24 * time.Hour
)

// Cache is a read-through file cache for the song list. It is constructed
// explicitly and injected into the aggregator; there is no package-level
// instance. Concurrent callers during a miss each fetch and each persist
// (last write wins); writes go through a temp file and rename, so the
// persisted copy is never a corrupt partial document.
type Cache struct {
	url        string
	path       string
	expiry     time.Duration
	httpClient *http.Client
}

// Option configures a Cache.
type Option func(*Cache)

// WithHTTPClient overrides the HTTP client used for refreshes.
func WithHTTPClient(c *http.Client) Option {
	return func(cache *Cache) {
		cache.httpClient = c
	}
}

// WithExpiry overrides the expiry window.
func WithExpiry(d time.Duration) Option {
	return func(cache *Cache) {
		if d > 0 {
			cache.expiry = d
		}
	}
}

// WithURL overrides the catalog URL.
func WithURL(u string) Option {
	return func(cache *Cache) {
		if u != "" {
			cache.url = u
		}
	}
}

// New creates a catalog cache persisting to path.
func New(path string, opts ...Option) *Cache {
	c := &Cache{
		url:    defaultURL,
		path:   path,
		expiry: defaultExpiry,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the catalog, serving the persisted copy while it is fresh and
// refreshing from the network otherwise.
func (c *Cache) Get(ctx context.Context) (*models.SongList, error) {
	if info, err := os.Stat(c.path); err == nil && time.Since(info.ModTime()) < c.expiry {
		list, err := c.readLocal()
		if err == nil {
			metrics.RecordCacheEvent("catalog", "hit")
			logger.Cache("catalog", "hit", c.path)
			return list, nil
		}
		// Unreadable or corrupt local copy falls through to a refresh.
		logger.Warnf("catalog: discarding local copy: %v", err)
	}

	metrics.RecordCacheEvent("catalog", "refresh")
	return c.refresh(ctx)
}

// readLocal deserializes the persisted document.
func (c *Cache) readLocal() (*models.SongList, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, err
	}
	var list models.SongList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parsing cached catalog: %w", err)
	}
	return &list, nil
}

// refresh fetches the catalog, persists the raw bytes and returns the parsed
// document.
func (c *Cache) refresh(ctx context.Context) (*models.SongList, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, models.NewUnavailableError(0, "catalog fetch failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, models.ErrorFromStatus(resp.StatusCode, "catalog fetch failed")
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, models.NewUnavailableError(resp.StatusCode, "reading catalog: %v", err)
	}

	var list models.SongList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, models.NewUnavailableError(resp.StatusCode, "parsing catalog: %v", err)
	}

	if err := c.persist(data); err != nil {
		// A failed persist does not fail the request; the next call refetches.
		logger.Warnf("catalog: persisting failed: %v", err)
	} else {
		logger.Cache("catalog", "refresh", c.path)
	}

	return &list, nil
}

// persist writes the raw bytes through a temp file and rename.
func (c *Cache) persist(data []byte) error {
	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".catalog-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), c.path)
}

// Lookup finds the chart for an internal song id, category and tier.
func Lookup(list *models.SongList, id int, cat models.SongCategory, tier models.Difficulty) (*models.Song, *models.SongDifficulty) {
	song := list.FindByCompactID(songid.ToCompact(id))
	if song == nil {
		return nil, nil
	}
	diff := song.Difficulty(cat, tier)
	if diff == nil {
		return song, nil
	}
	return song, diff
}
