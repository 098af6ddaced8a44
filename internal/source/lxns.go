package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"maiscore/internal/songid"
	"maiscore/pkg/logger"
	"maiscore/pkg/models"
)

const defaultLxnsBaseURL = "https://maimai.lxns.net/api/v0/maimai"

// Lxns queries the linked-account based prober. Every score query needs the
// player's opaque friend code, resolved from the external account reference
// once and cached for the lifetime of the instance. All calls carry the API
// secret in the Authorization header.
type Lxns struct {
	baseURL    string
	accountID  string
	secret     string
	httpClient *http.Client

	friendCode string
}

// NewLxns creates a source for the given external account id.
func NewLxns(baseURL, accountID, secret string, timeout time.Duration) *Lxns {
	if baseURL == "" {
		baseURL = defaultLxnsBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Lxns{
		baseURL:   baseURL,
		accountID: accountID,
		secret:    secret,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Kind identifies this source as Lxns.
func (s *Lxns) Kind() models.SourceKind {
	return models.SourceLxns
}

// lxnsEnvelope is the response wrapper used by every lxns endpoint. Errors
// may arrive as a non-2xx status or as an in-body code with HTTP semantics.
type lxnsEnvelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// lxnsPlayer is the profile shape under data.
type lxnsPlayer struct {
	Name       string      `json:"name"`
	Rating     int         `json:"rating"`
	CourseRank int         `json:"course_rank"`
	ClassRank  int         `json:"class_rank"`
	FriendCode json.Number `json:"friend_code"`
	Trophy     *struct {
		Name string `json:"name"`
	} `json:"trophy"`
	Icon *struct {
		ID int `json:"id"`
	} `json:"icon"`
	NamePlate *struct {
		ID int `json:"id"`
	} `json:"name_plate"`
	Frame *struct {
		ID int `json:"id"`
	} `json:"frame"`
}

// lxnsChart is one chart record in the bests response.
type lxnsChart struct {
	ID           int     `json:"id"` // compact numbering
	SongName     string  `json:"song_name"`
	Level        string  `json:"level"`
	LevelIndex   int     `json:"level_index"`
	Achievements float64 `json:"achievements"`
	FC           string  `json:"fc"`
	FS           string  `json:"fs"`
	DXScore      int     `json:"dx_score"`
	DXRating     float64 `json:"dx_rating"`
	Rate         string  `json:"rate"`
	Type         string  `json:"type"`
}

// lxnsBests is the bests shape under data.
type lxnsBests struct {
	Standard      []lxnsChart `json:"standard"`
	DX            []lxnsChart `json:"dx"`
	StandardTotal int         `json:"standard_total"`
	DXTotal       int         `json:"dx_total"`
}

// get performs one authorized GET and unwraps the envelope into out.
func (s *Lxns) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	u := s.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", s.secret)

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		recordCall(s.Kind(), 0)
		return models.NewUnavailableError(0, "lxns request failed: %v", err)
	}
	defer resp.Body.Close()

	recordCall(s.Kind(), resp.StatusCode)
	logger.Upstream(s.Kind().String(), path, resp.StatusCode, int(time.Since(start).Milliseconds()))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return models.ErrorFromStatus(resp.StatusCode, string(body))
	}

	var env lxnsEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return models.NewUnavailableError(resp.StatusCode, "decoding lxns response: %v", err)
	}
	if !env.Success {
		// The in-body code follows HTTP status semantics.
		return models.ErrorFromStatus(env.Code, env.Message)
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return models.NewUnavailableError(resp.StatusCode, "decoding lxns data: %v", err)
		}
	}
	return nil
}

// resolveFriendCode resolves and caches the friend code for the account.
func (s *Lxns) resolveFriendCode(ctx context.Context) (string, error) {
	if s.friendCode != "" {
		return s.friendCode, nil
	}
	var player lxnsPlayer
	if err := s.get(ctx, "/player/qq/"+url.PathEscape(s.accountID), nil, &player); err != nil {
		return "", err
	}
	s.friendCode = player.FriendCode.String()
	return s.friendCode, nil
}

// FetchProfile returns the player profile for the linked account.
func (s *Lxns) FetchProfile(ctx context.Context) (*models.PlayerProfile, error) {
	code, err := s.resolveFriendCode(ctx)
	if err != nil {
		return nil, err
	}

	var player lxnsPlayer
	if err := s.get(ctx, "/player/"+code, nil, &player); err != nil {
		return nil, err
	}

	profile := &models.PlayerProfile{
		Username:   player.Name,
		Rating:     player.Rating,
		CourseRank: player.CourseRank,
		ClassRank:  player.ClassRank,
	}
	if player.Trophy != nil {
		profile.Trophy = player.Trophy.Name
	}
	if player.NamePlate != nil {
		profile.NameplateID = player.NamePlate.ID
	}
	if player.Frame != nil {
		profile.FrameID = player.Frame.ID
	}
	return profile, nil
}

// FetchBests returns the raw best lists from the bests endpoint.
func (s *Lxns) FetchBests(ctx context.Context) (*RawBests, error) {
	code, err := s.resolveFriendCode(ctx)
	if err != nil {
		return nil, err
	}

	var data lxnsBests
	if err := s.get(ctx, "/player/"+code+"/bests", nil, &data); err != nil {
		return nil, err
	}

	bests := &RawBests{
		Standard:      make([]RawScore, 0, len(data.Standard)),
		Deluxe:        make([]RawScore, 0, len(data.DX)),
		StandardTotal: data.StandardTotal,
		DeluxeTotal:   data.DXTotal,
	}
	for _, c := range data.Standard {
		bests.Standard = append(bests.Standard, mapLxnsChart(c))
	}
	for _, c := range data.DX {
		bests.Deluxe = append(bests.Deluxe, mapLxnsChart(c))
	}
	return bests, nil
}

// FetchSingleScore returns the player's scores on one song, querying by the
// compact id and the category derived from the internal numbering.
func (s *Lxns) FetchSingleScore(ctx context.Context, songID int) ([]RawScore, error) {
	code, err := s.resolveFriendCode(ctx)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("song_id", strconv.Itoa(songid.ToCompact(songID)))
	query.Set("song_type", string(songid.Classify(songID)))

	var charts []lxnsChart
	if err := s.get(ctx, "/player/"+code+"/bests", query, &charts); err != nil {
		return nil, err
	}

	scores := make([]RawScore, 0, len(charts))
	for _, c := range charts {
		scores = append(scores, mapLxnsChart(c))
	}
	return scores, nil
}

// mapLxnsChart converts one lxns record into the internal score model,
// restoring the internal song numbering for deluxe charts.
func mapLxnsChart(c lxnsChart) RawScore {
	cat := models.ParseSongCategory(c.Type)
	id := c.ID
	if cat == models.CategoryDeluxe {
		id = songid.FromCompact(c.ID)
	}
	return RawScore{
		SongID:       id,
		Title:        c.SongName,
		Category:     cat,
		Difficulty:   models.Difficulty(c.LevelIndex),
		LevelLabel:   c.Level,
		Achievements: c.Achievements,
		Rate:         models.ParseRate(c.Rate),
		Rating:       int(c.DXRating),
		FC:           models.ParseFC(c.FC),
		FS:           models.ParseFS(c.FS),
		DXScore:      c.DXScore,
	}
}
