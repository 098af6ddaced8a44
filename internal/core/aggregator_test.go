package core

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maiscore/internal/catalog"
	"maiscore/internal/source"
	"maiscore/pkg/models"
)

const catalogFixture = `{
	"songs": [
		{"id": 834, "title": "Oshama Scramble!", "difficulties": {"standard": [
			{"difficulty": 3, "level": "13", "level_value": 13.0, "note_designer": "someone", "notes": {"total": 633}}
		]}},
		{"id": 365, "title": "FREEDOM DiVE", "difficulties": {"standard": [
			{"difficulty": 3, "level": "12+", "level_value": 12.5, "notes": {"total": 500}}
		]}},
		{"id": 1663, "title": "系ぎて", "difficulties": {"dx": [
			{"difficulty": 3, "level": "14", "level_value": 14.0, "notes": {"total": 933}}
		]}}
	]
}`

// fakeSource satisfies the source contract from canned data.
type fakeSource struct {
	kind    models.SourceKind
	profile *models.PlayerProfile
	bests   *source.RawBests
	single  []source.RawScore
	err     error
}

func (f *fakeSource) Kind() models.SourceKind { return f.kind }

func (f *fakeSource) FetchProfile(ctx context.Context) (*models.PlayerProfile, error) {
	return f.profile, f.err
}

func (f *fakeSource) FetchBests(ctx context.Context) (*source.RawBests, error) {
	return f.bests, f.err
}

func (f *fakeSource) FetchSingleScore(ctx context.Context, songID int) ([]source.RawScore, error) {
	if f.single == nil {
		return nil, source.ErrNotSupported
	}
	return f.single, f.err
}

func newTestService(t *testing.T, fake *fakeSource) AggregatorService {
	t.Helper()
	path := filepath.Join(t.TempDir(), "song_list.json")
	require.NoError(t, os.WriteFile(path, []byte(catalogFixture), 0o644))

	factory := func(kind models.SourceKind, playerRef string) (source.Source, error) {
		return fake, nil
	}
	return NewAggregatorService(catalog.New(path), factory)
}

func rawStandard() []source.RawScore {
	return []source.RawScore{
		{SongID: 834, Category: models.CategoryStandard, Difficulty: models.DifficultyMaster,
			LevelValue: 13.0, LevelLabel: "13", Achievements: 100.8444, Rate: models.RateSSSPlus,
			Rating: 292, DXScore: 1860},
		{SongID: 365, Category: models.CategoryStandard, Difficulty: models.DifficultyMaster,
			LevelValue: 12.5, LevelLabel: "12+", Achievements: 99.2, Rate: models.RateSS,
			Rating: 257, DXScore: 1200},
	}
}

func rawDeluxe() []source.RawScore {
	return []source.RawScore{
		{SongID: 11663, Category: models.CategoryDeluxe, Difficulty: models.DifficultyMaster,
			LevelValue: 14.0, LevelLabel: "14", Achievements: 100.5, Rate: models.RateSSSPlus,
			Rating: 313, DXScore: 2700},
	}
}

func TestBests(t *testing.T) {
	fake := &fakeSource{
		kind:    models.SourceDivingFish,
		profile: &models.PlayerProfile{Username: "tester", Rating: 862},
		bests:   &source.RawBests{Standard: rawStandard(), Deluxe: rawDeluxe()},
	}
	svc := newTestService(t, fake)

	result, err := svc.Bests(context.Background(), "tester", models.SourceDivingFish)
	require.NoError(t, err)

	assert.Equal(t, "tester", result.Profile.Username)
	require.Len(t, result.Best35, 2)
	require.Len(t, result.Best15, 1)

	// Totals equal the sum of the included records.
	assert.Equal(t, 292+257, result.Best35Total)
	assert.Equal(t, 313, result.Best15Total)
	assert.Equal(t, 292+257+313, result.TotalRating())

	// Catalog enrichment fills the derived fields.
	first := result.Best35[0]
	assert.Equal(t, "Oshama Scramble!", first.Title)
	assert.Equal(t, 633*3, first.MaxDXScore)
	assert.Equal(t, "someone", first.NoteDesigner)
	assert.Equal(t, 5, first.DXScoreTier)

	dx := result.Best15[0]
	assert.Equal(t, 933*3, dx.MaxDXScore)
	assert.Equal(t, 4, dx.DXScoreTier, "2700/2799 lands in the fourth tier")
}

func TestBestsSkipsRecordsWithoutCatalogEntry(t *testing.T) {
	standard := append(rawStandard(), source.RawScore{
		SongID: 777, Category: models.CategoryStandard, Difficulty: models.DifficultyMaster,
		LevelValue: 13.0, Achievements: 99.0, Rating: 270,
	})
	fake := &fakeSource{
		kind:    models.SourceDivingFish,
		profile: &models.PlayerProfile{Username: "tester"},
		bests:   &source.RawBests{Standard: standard, Deluxe: rawDeluxe()},
	}
	svc := newTestService(t, fake)

	result, err := svc.Bests(context.Background(), "tester", models.SourceDivingFish)
	require.NoError(t, err)

	require.Len(t, result.Best35, 2, "the unknown song is dropped, not fatal")
	assert.Equal(t, 292+257, result.Best35Total, "skipped records do not count toward the total")
}

func TestBestsComputesMissingRating(t *testing.T) {
	fake := &fakeSource{
		kind:    models.SourceLxns,
		profile: &models.PlayerProfile{Username: "tester"},
		bests: &source.RawBests{Standard: []source.RawScore{
			{SongID: 834, Category: models.CategoryStandard, Difficulty: models.DifficultyMaster,
				Achievements: 97.0},
		}},
	}
	svc := newTestService(t, fake)

	result, err := svc.Bests(context.Background(), "tester", models.SourceLxns)
	require.NoError(t, err)

	require.Len(t, result.Best35, 1)
	score := result.Best35[0]
	assert.Equal(t, 13.0, score.LevelValue, "level value backfilled from the catalog")
	assert.Equal(t, 252, score.Rating, "rating recomputed from level and rate")
}

func TestBestsPropagatesSourceError(t *testing.T) {
	fake := &fakeSource{
		kind: models.SourceDivingFish,
		err:  models.NewDeniedError(403, "profile hidden"),
	}
	svc := newTestService(t, fake)

	_, err := svc.Bests(context.Background(), "tester", models.SourceDivingFish)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrAuthorizationDenied)
}

func TestSingleScore(t *testing.T) {
	fake := &fakeSource{
		kind:    models.SourceLxns,
		profile: &models.PlayerProfile{Username: "tester"},
		single:  rawDeluxe(),
	}
	svc := newTestService(t, fake)

	scores, err := svc.SingleScore(context.Background(), "12345", models.SourceLxns, 11663)
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, "系ぎて", scores[0].Title)
}

func TestSingleScoreNotSupported(t *testing.T) {
	fake := &fakeSource{kind: models.SourceDivingFish}
	svc := newTestService(t, fake)

	_, err := svc.SingleScore(context.Background(), "tester", models.SourceDivingFish, 11663)
	assert.ErrorIs(t, err, source.ErrNotSupported)
}

func TestSong(t *testing.T) {
	svc := newTestService(t, &fakeSource{})

	song, err := svc.Song(context.Background(), 11663)
	require.NoError(t, err)
	assert.Equal(t, "系ぎて", song.Title)

	_, err = svc.Song(context.Background(), 4242)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrDataNotFound)
}
