package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maiscore/pkg/models"
)

const catalogFixture = `{
	"songs": [
		{
			"id": 834, "title": "Oshama Scramble!", "artist": "t+pazolite", "genre": "niconico",
			"difficulties": {
				"standard": [
					{"difficulty": 3, "level": "13", "level_value": 13.0, "note_designer": "someone",
					 "notes": {"total": 633, "tap": 400, "hold": 100, "slide": 80, "touch": 0, "break": 53}}
				],
				"dx": [
					{"difficulty": 3, "level": "13+", "level_value": 13.7, "note_designer": "someone else",
					 "notes": {"total": 700}}
				]
			}
		},
		{"id": 1663, "title": "系ぎて", "artist": "sasakure.UK", "genre": "maimai", "difficulties": {"dx": [
			{"difficulty": 3, "level": "14", "level_value": 14.0, "notes": {"total": 933}}
		]}}
	]
}`

func newCatalogServer(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var fetches atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches.Add(1)
		fmt.Fprint(w, catalogFixture)
	}))
	t.Cleanup(srv.Close)
	return srv, &fetches
}

func TestGetRefreshesWhenMissing(t *testing.T) {
	srv, fetches := newCatalogServer(t)
	path := filepath.Join(t.TempDir(), "song_list.json")
	cache := New(path, WithURL(srv.URL))

	list, err := cache.Get(context.Background())
	require.NoError(t, err)
	require.Len(t, list.Songs, 2)
	assert.Equal(t, int32(1), fetches.Load())

	// The fetched document is persisted for the next call.
	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestGetServesFreshCopyWithoutNetwork(t *testing.T) {
	srv, fetches := newCatalogServer(t)
	path := filepath.Join(t.TempDir(), "song_list.json")
	cache := New(path, WithURL(srv.URL))

	_, err := cache.Get(context.Background())
	require.NoError(t, err)

	list, err := cache.Get(context.Background())
	require.NoError(t, err)
	require.Len(t, list.Songs, 2)
	assert.Equal(t, int32(1), fetches.Load(), "a fresh local copy serves without any network call")
}

func TestGetRefreshesExpiredCopy(t *testing.T) {
	srv, fetches := newCatalogServer(t)
	path := filepath.Join(t.TempDir(), "song_list.json")
	cache := New(path, WithURL(srv.URL), WithExpiry(time.Hour))

	_, err := cache.Get(context.Background())
	require.NoError(t, err)

	// Age the file past the expiry window.
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(path, old, old))

	_, err = cache.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), fetches.Load(), "an expired copy triggers exactly one refetch")
}

func TestGetConcurrentMissStaysParseClean(t *testing.T) {
	srv, fetches := newCatalogServer(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "song_list.json")
	cache := New(path, WithURL(srv.URL), WithHTTPClient(srv.Client()))

	const callers = 8
	var wg sync.WaitGroup
	lists := make([]*models.SongList, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			lists[i], errs[i] = cache.Get(context.Background())
		}(i)
	}
	wg.Wait()

	// Every racing caller sees a complete document.
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i], "caller %d", i)
		require.NotNil(t, lists[i], "caller %d", i)
		assert.Len(t, lists[i].Songs, 2, "caller %d", i)
	}
	assert.GreaterOrEqual(t, fetches.Load(), int32(1))

	// Last write wins, but the persisted file is never a partial document.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var persisted models.SongList
	require.NoError(t, json.Unmarshal(data, &persisted))
	assert.Len(t, persisted.Songs, 2)

	// No abandoned temp files remain next to the catalog.
	leftovers, err := filepath.Glob(filepath.Join(dir, ".catalog-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestGetRecoversFromCorruptLocalCopy(t *testing.T) {
	srv, fetches := newCatalogServer(t)
	path := filepath.Join(t.TempDir(), "song_list.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	cache := New(path, WithURL(srv.URL))
	list, err := cache.Get(context.Background())
	require.NoError(t, err)
	require.Len(t, list.Songs, 2)
	assert.Equal(t, int32(1), fetches.Load())
}

func TestGetUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	cache := New(filepath.Join(t.TempDir(), "song_list.json"), WithURL(srv.URL))
	_, err := cache.Get(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrServiceUnavailable)
}

func TestLookup(t *testing.T) {
	srv, _ := newCatalogServer(t)
	cache := New(filepath.Join(t.TempDir(), "song_list.json"), WithURL(srv.URL))
	list, err := cache.Get(context.Background())
	require.NoError(t, err)

	t.Run("standard id", func(t *testing.T) {
		song, diff := Lookup(list, 834, models.CategoryStandard, models.DifficultyMaster)
		require.NotNil(t, song)
		require.NotNil(t, diff)
		assert.Equal(t, "Oshama Scramble!", song.Title)
		assert.Equal(t, 13.0, diff.LevelValue)
	})

	t.Run("deluxe id maps to compact", func(t *testing.T) {
		song, diff := Lookup(list, 11663, models.CategoryDeluxe, models.DifficultyMaster)
		require.NotNil(t, song)
		require.NotNil(t, diff)
		assert.Equal(t, "系ぎて", song.Title)
		assert.Equal(t, 14.0, diff.LevelValue)
	})

	t.Run("missing song", func(t *testing.T) {
		song, diff := Lookup(list, 999999999, models.CategoryStandard, models.DifficultyMaster)
		assert.Nil(t, song)
		assert.Nil(t, diff)
	})

	t.Run("missing tier", func(t *testing.T) {
		song, diff := Lookup(list, 834, models.CategoryStandard, models.DifficultyReMaster)
		require.NotNil(t, song)
		assert.Nil(t, diff)
	})
}
