package models

// PlayerProfile is a player's profile as reported by the upstream service.
// It is fetched fresh on every aggregation and never persisted here.
type PlayerProfile struct {
	Username    string `json:"username"`
	Avatar      string `json:"avatar,omitempty"`
	Rating      int    `json:"rating"`
	CourseRank  int    `json:"course_rank"`
	ClassRank   int    `json:"class_rank"`
	Trophy      string `json:"trophy,omitempty"`
	NameplateID int    `json:"nameplate_id,omitempty"`
	FrameID     int    `json:"frame_id,omitempty"`
}

// ChartScore is a player's result on one chart, already normalized to the
// internal song numbering and enriched with catalog data.
type ChartScore struct {
	SongID       int          `json:"song_id"` // internal numbering
	Title        string       `json:"title"`
	Category     SongCategory `json:"category"`
	Difficulty   Difficulty   `json:"difficulty"`
	LevelValue   float64      `json:"level_value"`
	LevelLabel   string       `json:"level"`
	Achievements float64      `json:"achievements"`
	Rate         RateType     `json:"rate"`
	Rating       int          `json:"rating"`
	FC           FCType       `json:"fc,omitempty"`
	FS           FSType       `json:"fs,omitempty"`
	DXScore      int          `json:"dx_score"`
	MaxDXScore   int          `json:"max_dx_score"`
	DXScoreTier  int          `json:"dx_score_tier"`
	NoteDesigner string       `json:"note_designer,omitempty"`
}

// BestsResult is the composed best-subset selection returned to rendering.
type BestsResult struct {
	Profile     *PlayerProfile `json:"profile"`
	Best35      []ChartScore   `json:"best35"`
	Best15      []ChartScore   `json:"best15"`
	Best35Total int            `json:"best35_total"`
	Best15Total int            `json:"best15_total"`
}

// TotalRating is the overall rating: the sum of both sub-totals.
func (r *BestsResult) TotalRating() int {
	return r.Best35Total + r.Best15Total
}
