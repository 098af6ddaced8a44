// Package source implements the polymorphic ingestion layer: one capability
// contract, two upstream score services with incompatible schemas.
package source

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"maiscore/pkg/metrics"
	"maiscore/pkg/models"
)

// ErrNotSupported is returned by a source for operations the upstream service
// does not offer. The contract stays uniform; callers branch on this error.
var ErrNotSupported = errors.New("operation not supported by this source")

// RawScore is one upstream chart record, normalized to the internal song
// numbering but not yet enriched with catalog data.
type RawScore struct {
	SongID       int // internal numbering
	Title        string
	Category     models.SongCategory
	Difficulty   models.Difficulty
	LevelValue   float64
	LevelLabel   string
	Achievements float64
	Rate         models.RateType
	Rating       int
	FC           models.FCType
	FS           models.FSType
	DXScore      int
}

// RawBests holds the raw best-score lists of one player, split by category,
// plus the upstream-reported totals when the service provides them.
type RawBests struct {
	Standard      []RawScore // best-35 candidates
	Deluxe        []RawScore // best-15 candidates
	StandardTotal int
	DeluxeTotal   int
}

// Source is the capability contract every upstream variant implements.
// Implementations hold the player reference and any per-player state (such as
// a resolved friend code) for their own lifetime; they perform no retries.
type Source interface {
	// Kind identifies the upstream service.
	Kind() models.SourceKind
	// FetchProfile returns the player's profile.
	FetchProfile(ctx context.Context) (*models.PlayerProfile, error)
	// FetchBests returns the player's raw best-score lists.
	FetchBests(ctx context.Context) (*RawBests, error)
	// FetchSingleScore returns the player's scores on one song, all tiers.
	FetchSingleScore(ctx context.Context, songID int) ([]RawScore, error)
}

// Config carries the settings needed to construct a source.
type Config struct {
	DivingFishBaseURL string
	DivingFishTimeout time.Duration
	LxnsBaseURL       string
	LxnsSecret        string
	LxnsTimeout       time.Duration
}

// New builds the source variant matching kind for the given player reference.
func New(kind models.SourceKind, playerRef string, cfg Config) (Source, error) {
	switch kind {
	case models.SourceDivingFish:
		return NewDivingFish(cfg.DivingFishBaseURL, playerRef, cfg.DivingFishTimeout), nil
	case models.SourceLxns:
		return NewLxns(cfg.LxnsBaseURL, playerRef, cfg.LxnsSecret, cfg.LxnsTimeout), nil
	default:
		return nil, fmt.Errorf("unknown source kind %d", kind)
	}
}

// recordCall reports one upstream HTTP round trip to the metrics registry.
func recordCall(kind models.SourceKind, status int) {
	metrics.RecordUpstreamRequest(kind.String(), strconv.Itoa(status))
}
