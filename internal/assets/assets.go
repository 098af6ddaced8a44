// Package assets provides a content-addressable local file cache for game
// imagery, keyed by (category, key) and filled from the asset server on miss.
// The cache is an explicitly constructed object with an Open/Close lifecycle,
// passed to its consumers rather than looked up as a global.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"maiscore/pkg/logger"
	"maiscore/pkg/metrics"
	"maiscore/pkg/models"
)

// Category names an asset directory on the asset server and in the local
// cache tree.
type Category string

const (
	CategoryCover      Category = "cover"
	CategoryRank       Category = "rank"
	CategoryBadge      Category = "badge"
	CategoryCourseRank Category = "course_rank"
	CategoryClassRank  Category = "class_rank"
	CategoryRating     Category = "rating"
	CategoryTrophy     Category = "trophy"
	CategoryPlate      Category = "plate"
	CategoryBG         Category = "bg"
	CategoryImages     Category = "images"
	CategoryAvatar     Category = "avatar"
)

// ErrInvalidAsset rejects category or key values that do not name a cache
// entry. Both come from request paths, so anything outside the declared set
// must never reach the filesystem join.
var ErrInvalidAsset = errors.New("invalid asset category or key")

var knownCategories = map[Category]bool{
	CategoryCover:      true,
	CategoryRank:       true,
	CategoryBadge:      true,
	CategoryCourseRank: true,
	CategoryClassRank:  true,
	CategoryRating:     true,
	CategoryTrophy:     true,
	CategoryPlate:      true,
	CategoryBG:         true,
	CategoryImages:     true,
	CategoryAvatar:     true,
}

// Valid reports whether c is one of the declared categories.
func (c Category) Valid() bool {
	return knownCategories[c]
}

// validKey rejects keys that are empty or could traverse out of the
// category directory.
func validKey(key string) bool {
	if key == "" || key == "." || key == ".." {
		return false
	}
	if strings.Contains(key, "..") {
		return false
	}
	return !strings.ContainsAny(key, `/\`)
}

// Config carries the cache settings.
type Config struct {
	BaseURL     string
	Dir         string
	DownloadRPS float64       // token-bucket rate for downloads, 0 = default
	Timeout     time.Duration // per-download timeout, 0 = default
}

// Cache is the local asset cache.
type Cache struct {
	baseURL    string
	dir        string
	httpClient *http.Client
	limiter    *rate.Limiter

	opened bool
}

// New creates a cache; call Open before use.
func New(cfg Config) *Cache {
	rps := cfg.DownloadRPS
	if rps <= 0 {
		rps = 4
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Cache{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		dir:     cfg.Dir,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// Open prepares the cache directory tree.
func (c *Cache) Open() error {
	if c.opened {
		return nil
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("creating asset dir: %w", err)
	}
	c.opened = true
	return nil
}

// Close releases the cache. Cached files stay on disk for the next process.
func (c *Cache) Close() error {
	c.opened = false
	return nil
}

// fileName derives the cached file name for a key. Keys in the images
// category keep their extension; every other category stores PNG files.
func fileName(category Category, key string) string {
	if category == CategoryImages {
		lower := strings.ToLower(key)
		for _, ext := range []string{".png", ".jpg", ".jpeg", ".gif"} {
			if strings.HasSuffix(lower, ext) {
				return key
			}
		}
		return key + ".png"
	}
	return key + ".png"
}

// Get returns the local path for an asset, downloading it on a cache miss.
// A failed download still returns the path so rendering can fall back to a
// placeholder; the next request retries the download.
func (c *Cache) Get(ctx context.Context, category Category, key string) (string, error) {
	if !c.opened {
		return "", fmt.Errorf("asset cache is not open")
	}
	if !category.Valid() {
		return "", fmt.Errorf("%w: category %q", ErrInvalidAsset, category)
	}
	if !validKey(key) {
		return "", fmt.Errorf("%w: key %q", ErrInvalidAsset, key)
	}

	name := fileName(category, key)
	localPath := filepath.Join(c.dir, string(category), name)

	if _, err := os.Stat(localPath); err == nil {
		metrics.RecordCacheEvent("assets", "hit")
		logger.Cache("assets", "hit", localPath)
		return localPath, nil
	}

	metrics.RecordCacheEvent("assets", "miss")
	url := fmt.Sprintf("%s/assets/%s/%s", c.baseURL, category, name)
	if err := c.download(ctx, url, localPath); err != nil {
		logger.Warnf("assets: download %s failed: %v", url, err)
		return localPath, err
	}
	return localPath, nil
}

// download fetches one asset, honoring the rate limiter, and writes it
// through a temp file and rename.
func (c *Cache) download(ctx context.Context, url, localPath string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.NewUnavailableError(0, "asset download failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return models.ErrorFromStatus(resp.StatusCode, "asset download failed")
	}

	dir := filepath.Dir(localPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".asset-*")
	if err != nil {
		return err
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), localPath); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	logger.Cache("assets", "fill", localPath)
	return nil
}
