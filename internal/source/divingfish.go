package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"maiscore/pkg/logger"
	"maiscore/pkg/models"
)

const defaultDivingFishBaseURL = "https://www.diving-fish.com/api/maimaidxprober"

// DivingFish queries the public-username based prober. One POST returns the
// profile and both best-score arrays; the response is memoized for the
// lifetime of the instance so FetchProfile and FetchBests share one call.
type DivingFish struct {
	baseURL    string
	username   string
	httpClient *http.Client

	doc *fishDocument
}

// NewDivingFish creates a source for the given public username.
func NewDivingFish(baseURL, username string, timeout time.Duration) *DivingFish {
	if baseURL == "" {
		baseURL = defaultDivingFishBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &DivingFish{
		baseURL:  baseURL,
		username: username,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Kind identifies this source as DivingFish.
func (s *DivingFish) Kind() models.SourceKind {
	return models.SourceDivingFish
}

// fishDocument is the b50 query response shape.
type fishDocument struct {
	Nickname         string `json:"nickname"`
	Rating           int    `json:"rating"`
	AdditionalRating int    `json:"additional_rating"`
	Charts           struct {
		DX []fishChart `json:"dx"`
		SD []fishChart `json:"sd"`
	} `json:"charts"`
}

// fishChart is one chart record in the b50 response.
type fishChart struct {
	SongID       int     `json:"song_id"`
	DS           float64 `json:"ds"`
	Level        string  `json:"level"`
	LevelIndex   int     `json:"level_index"`
	Title        string  `json:"title"`
	Type         string  `json:"type"`
	Achievements float64 `json:"achievements"`
	Rate         string  `json:"rate"`
	FC           string  `json:"fc"`
	FS           string  `json:"fs"`
	DXScore      int     `json:"dxScore"`
	RA           int     `json:"ra"`
}

// fetchDocument performs the single POST query, memoizing the result.
func (s *DivingFish) fetchDocument(ctx context.Context) (*fishDocument, error) {
	if s.doc != nil {
		return s.doc, nil
	}

	payload, err := json.Marshal(map[string]interface{}{
		"username": s.username,
		"b50":      true,
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/query/player", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		recordCall(s.Kind(), 0)
		return nil, models.NewUnavailableError(0, "divingfish query failed: %v", err)
	}
	defer resp.Body.Close()

	recordCall(s.Kind(), resp.StatusCode)
	logger.Upstream(s.Kind().String(), "query/player", resp.StatusCode, int(time.Since(start).Milliseconds()))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, models.ErrorFromStatus(resp.StatusCode, string(body))
	}

	var doc fishDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, models.NewUnavailableError(resp.StatusCode, "decoding divingfish response: %v", err)
	}

	s.doc = &doc
	return s.doc, nil
}

// FetchProfile returns the player profile from the memoized query. The
// course rank is the additional-rating offset plus one.
func (s *DivingFish) FetchProfile(ctx context.Context) (*models.PlayerProfile, error) {
	doc, err := s.fetchDocument(ctx)
	if err != nil {
		return nil, err
	}
	return &models.PlayerProfile{
		Username:   doc.Nickname,
		Rating:     doc.Rating,
		CourseRank: doc.AdditionalRating + 1,
	}, nil
}

// FetchBests returns the raw best lists: charts.sd feeds the standard
// (best-35) side, charts.dx the deluxe (best-15) side.
func (s *DivingFish) FetchBests(ctx context.Context) (*RawBests, error) {
	doc, err := s.fetchDocument(ctx)
	if err != nil {
		return nil, err
	}

	bests := &RawBests{
		Standard: make([]RawScore, 0, len(doc.Charts.SD)),
		Deluxe:   make([]RawScore, 0, len(doc.Charts.DX)),
	}
	for _, c := range doc.Charts.SD {
		bests.Standard = append(bests.Standard, mapFishChart(c))
	}
	for _, c := range doc.Charts.DX {
		bests.Deluxe = append(bests.Deluxe, mapFishChart(c))
	}
	for _, r := range bests.Standard {
		bests.StandardTotal += r.Rating
	}
	for _, r := range bests.Deluxe {
		bests.DeluxeTotal += r.Rating
	}
	return bests, nil
}

// FetchSingleScore is not offered by the divingfish API.
func (s *DivingFish) FetchSingleScore(ctx context.Context, songID int) ([]RawScore, error) {
	return nil, ErrNotSupported
}

// mapFishChart converts one divingfish record into the internal score model.
// DivingFish already reports song ids in the internal numbering.
func mapFishChart(c fishChart) RawScore {
	return RawScore{
		SongID:       c.SongID,
		Title:        c.Title,
		Category:     models.ParseSongCategory(c.Type),
		Difficulty:   models.Difficulty(c.LevelIndex),
		LevelValue:   c.DS,
		LevelLabel:   c.Level,
		Achievements: c.Achievements,
		Rate:         models.ParseRate(c.Rate),
		Rating:       c.RA,
		FC:           models.ParseFC(c.FC),
		FS:           models.ParseFS(c.FS),
		DXScore:      c.DXScore,
	}
}
