package http

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"maiscore/internal/assets"
	"maiscore/internal/rating"
	"maiscore/internal/source"
	"maiscore/pkg/logger"
	"maiscore/pkg/models"
)

// parsePlayerRef extracts the source kind and player reference parameters.
func parsePlayerRef(c *gin.Context) (models.SourceKind, string, bool) {
	kind, ok := models.ParseSourceKind(c.Param("source"))
	if !ok {
		c.JSON(400, models.APIResponse{
			Success:   false,
			Error:     "unknown source: " + c.Param("source"),
			ErrorCode: models.ErrCodeBadRequest,
			Timestamp: time.Now(),
		})
		return 0, "", false
	}
	ref := c.Param("ref")
	if ref == "" {
		c.JSON(400, models.APIResponse{
			Success:   false,
			Error:     "player reference is required",
			ErrorCode: models.ErrCodeBadRequest,
			Timestamp: time.Now(),
		})
		return 0, "", false
	}
	return kind, ref, true
}

// parseSongID extracts the song_id path parameter.
func parseSongID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("song_id"))
	if err != nil || id < 0 {
		c.JSON(400, models.APIResponse{
			Success:   false,
			Error:     "song id must be a non-negative integer",
			ErrorCode: models.ErrCodeBadRequest,
			Timestamp: time.Now(),
		})
		return 0, false
	}
	return id, true
}

// upstreamError writes an upstream failure, mapping the three kinds to
// distinct statuses so callers can branch on them.
func upstreamError(c *gin.Context, err error) {
	status := 500
	switch {
	case errors.Is(err, models.ErrDataNotFound):
		status = 404
	case errors.Is(err, models.ErrAuthorizationDenied):
		status = 403
	case errors.Is(err, models.ErrServiceUnavailable):
		status = 503
	case errors.Is(err, source.ErrNotSupported):
		status = 400
	case errors.Is(err, assets.ErrInvalidAsset):
		status = 400
	}
	logger.WithRequestID(c.Request.Context()).Warn(fmt.Sprintf("request failed with %d: %v", status, err))
	c.JSON(status, models.APIResponse{
		Success:   false,
		Error:     err.Error(),
		ErrorCode: models.ErrorCode(err),
		Timestamp: time.Now(),
	})
}

// getBests returns a player's best-35/best-15 selection
func (s *Server) getBests(c *gin.Context) {
	kind, ref, ok := parsePlayerRef(c)
	if !ok {
		return
	}

	result, err := s.aggregatorSvc.Bests(c.Request.Context(), ref, kind)
	if err != nil {
		upstreamError(c, err)
		return
	}

	c.JSON(200, models.APIResponse{
		Success:   true,
		Data:      result,
		Timestamp: time.Now(),
	})
}

// getSingleScore returns a player's scores on one song
func (s *Server) getSingleScore(c *gin.Context) {
	kind, ref, ok := parsePlayerRef(c)
	if !ok {
		return
	}
	songID, ok := parseSongID(c)
	if !ok {
		return
	}

	scores, err := s.aggregatorSvc.SingleScore(c.Request.Context(), ref, kind, songID)
	if err != nil {
		upstreamError(c, err)
		return
	}

	c.JSON(200, models.APIResponse{
		Success:   true,
		Data:      scores,
		Timestamp: time.Now(),
	})
}

// getSong returns one catalog entry by internal song id
func (s *Server) getSong(c *gin.Context) {
	songID, ok := parseSongID(c)
	if !ok {
		return
	}

	song, err := s.aggregatorSvc.Song(c.Request.Context(), songID)
	if err != nil {
		upstreamError(c, err)
		return
	}

	c.JSON(200, models.APIResponse{
		Success:   true,
		Data:      song,
		Timestamp: time.Now(),
	})
}

// getThresholds returns the rating-at-grade hint table for a song's charts
func (s *Server) getThresholds(c *gin.Context) {
	songID, ok := parseSongID(c)
	if !ok {
		return
	}

	song, err := s.aggregatorSvc.Song(c.Request.Context(), songID)
	if err != nil {
		upstreamError(c, err)
		return
	}

	type chartThresholds struct {
		Difficulty models.Difficulty  `json:"difficulty"`
		Label      string             `json:"label"`
		LevelValue float64            `json:"level_value"`
		Thresholds []rating.Threshold `json:"thresholds"`
	}

	cat := models.ParseSongCategory(c.DefaultQuery("category", "standard"))
	charts := song.Difficulties.ForCategory(cat)
	out := make([]chartThresholds, 0, len(charts))
	for _, d := range charts {
		out = append(out, chartThresholds{
			Difficulty: d.Difficulty,
			Label:      d.Difficulty.Label(),
			LevelValue: d.LevelValue,
			Thresholds: rating.GradeThresholds(d.LevelValue),
		})
	}

	c.JSON(200, models.APIResponse{
		Success:   true,
		Data:      out,
		Timestamp: time.Now(),
	})
}

// getAsset serves a cached asset, downloading it on a miss
func (s *Server) getAsset(c *gin.Context) {
	category := assets.Category(c.Param("category"))
	key := c.Param("key")

	path, err := s.assetCache.Get(c.Request.Context(), category, key)
	if err != nil {
		upstreamError(c, err)
		return
	}

	c.File(path)
}
