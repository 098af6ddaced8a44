// Package core - score aggregation business logic
// Transport-agnostic service composing sources, catalog and rating.
package core

import (
	"context"
	"time"

	"maiscore/internal/catalog"
	"maiscore/internal/rating"
	"maiscore/internal/songid"
	"maiscore/internal/source"
	"maiscore/pkg/logger"
	"maiscore/pkg/metrics"
	"maiscore/pkg/models"
)

// SourceFactory builds the score source for a player reference. Injected so
// tests can substitute fakes for the upstream clients.
type SourceFactory func(kind models.SourceKind, playerRef string) (source.Source, error)

// AggregatorService defines the aggregation operations
type AggregatorService interface {
	// Bests fetches, normalizes and enriches a player's best-35/best-15
	// selection from the chosen source.
	Bests(ctx context.Context, playerRef string, kind models.SourceKind) (*models.BestsResult, error)
	// SingleScore fetches a player's scores on one song, all tiers.
	SingleScore(ctx context.Context, playerRef string, kind models.SourceKind, songID int) ([]models.ChartScore, error)
	// Song looks one song up in the catalog by internal id.
	Song(ctx context.Context, songID int) (*models.Song, error)
}

type aggregatorService struct {
	catalog   *catalog.Cache
	newSource SourceFactory
}

// NewAggregatorService creates a new aggregator service
func NewAggregatorService(cat *catalog.Cache, factory SourceFactory) AggregatorService {
	return &aggregatorService{
		catalog:   cat,
		newSource: factory,
	}
}

// Bests runs the full aggregation pipeline. Source failures propagate
// unchanged; records without a catalog entry are silently skipped.
func (s *aggregatorService) Bests(ctx context.Context, playerRef string, kind models.SourceKind) (*models.BestsResult, error) {
	start := time.Now()

	result, err := s.bests(ctx, playerRef, kind)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.RecordAggregation(kind.String(), outcome, time.Since(start).Seconds())
	return result, err
}

func (s *aggregatorService) bests(ctx context.Context, playerRef string, kind models.SourceKind) (*models.BestsResult, error) {
	src, err := s.newSource(kind, playerRef)
	if err != nil {
		return nil, err
	}

	profile, err := src.FetchProfile(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := src.FetchBests(ctx)
	if err != nil {
		return nil, err
	}

	list, err := s.catalog.Get(ctx)
	if err != nil {
		return nil, err
	}

	result := &models.BestsResult{
		Profile: profile,
		Best35:  make([]models.ChartScore, 0, len(raw.Standard)),
		Best15:  make([]models.ChartScore, 0, len(raw.Deluxe)),
	}

	skipped := 0
	for _, r := range raw.Standard {
		score, ok := enrich(list, r)
		if !ok {
			skipped++
			continue
		}
		result.Best35 = append(result.Best35, score)
		result.Best35Total += score.Rating
	}
	for _, r := range raw.Deluxe {
		score, ok := enrich(list, r)
		if !ok {
			skipped++
			continue
		}
		result.Best15 = append(result.Best15, score)
		result.Best15Total += score.Rating
	}

	if skipped > 0 {
		logger.Warnf("aggregator: skipped %d records without catalog entries for %s", skipped, playerRef)
	}

	return result, nil
}

// SingleScore fetches and enriches a player's scores on one song.
func (s *aggregatorService) SingleScore(ctx context.Context, playerRef string, kind models.SourceKind, songID int) ([]models.ChartScore, error) {
	src, err := s.newSource(kind, playerRef)
	if err != nil {
		return nil, err
	}

	raw, err := src.FetchSingleScore(ctx, songID)
	if err != nil {
		return nil, err
	}

	list, err := s.catalog.Get(ctx)
	if err != nil {
		return nil, err
	}

	scores := make([]models.ChartScore, 0, len(raw))
	for _, r := range raw {
		if score, ok := enrich(list, r); ok {
			scores = append(scores, score)
		}
	}
	return scores, nil
}

// Song looks a song up in the catalog by internal id.
func (s *aggregatorService) Song(ctx context.Context, songID int) (*models.Song, error) {
	list, err := s.catalog.Get(ctx)
	if err != nil {
		return nil, err
	}
	song := list.FindByCompactID(songid.ToCompact(songID))
	if song == nil {
		return nil, models.NewNotFoundError(0, "song %d not in catalog", songID)
	}
	return song, nil
}

// enrich joins one raw record with its catalog entry and recomputes the
// derived fields. Records without a catalog entry report ok=false.
func enrich(list *models.SongList, r source.RawScore) (models.ChartScore, bool) {
	song, diff := catalog.Lookup(list, r.SongID, r.Category, r.Difficulty)
	if song == nil || diff == nil {
		return models.ChartScore{}, false
	}

	score := models.ChartScore{
		SongID:       r.SongID,
		Title:        r.Title,
		Category:     r.Category,
		Difficulty:   r.Difficulty,
		LevelValue:   r.LevelValue,
		LevelLabel:   r.LevelLabel,
		Achievements: r.Achievements,
		Rate:         r.Rate,
		Rating:       r.Rating,
		FC:           r.FC,
		FS:           r.FS,
		DXScore:      r.DXScore,
		MaxDXScore:   diff.Notes.MaxDXScore(),
		NoteDesigner: diff.NoteDesigner,
	}

	if score.Title == "" {
		score.Title = song.Title
	}
	if score.LevelValue == 0 {
		score.LevelValue = diff.LevelValue
	}
	if score.LevelLabel == "" {
		score.LevelLabel = models.LevelLabelFor(score.LevelValue)
	}
	if score.Rating == 0 {
		score.Rating, _ = rating.RatingFor(score.LevelValue, score.Achievements)
	}
	score.DXScoreTier = rating.DXScoreTier(score.DXScore, score.MaxDXScore)

	return score, true
}
