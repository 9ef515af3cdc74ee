package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/glefebvre/cinescout/internal/models"
	"github.com/glefebvre/cinescout/internal/region"
	"github.com/glefebvre/cinescout/internal/search"
	"github.com/glefebvre/cinescout/internal/session"
)

func (s *Server) healthCheck(c *gin.Context) {
	status := http.StatusOK
	checks := gin.H{}
	for name, check := range s.healthCheckers {
		if err := check(); err != nil {
			status = http.StatusServiceUnavailable
			checks[name] = err.Error()
		} else {
			checks[name] = "ok"
		}
	}

	body := gin.H{"status": "healthy"}
	if status != http.StatusOK {
		body["status"] = "unhealthy"
	}
	if len(checks) > 0 {
		body["checks"] = checks
	}
	c.JSON(status, body)
}

func (s *Server) createSession(c *gin.Context) {
	id, ctrl := s.sessions.Create()
	c.JSON(http.StatusCreated, toSessionResponse(id, ctrl.Snapshot()))
}

func (s *Server) getSession(c *gin.Context) {
	id := c.Param("id")
	ctrl, err := s.sessions.Get(id)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "session not found",
			Message: err.Error(),
		})
		return
	}

	snap := ctrl.Snapshot()

	// min_rating trims the response only; the session keeps the full
	// result set.
	if raw := c.Query("min_rating"); raw != "" {
		min, parseErr := strconv.ParseFloat(raw, 64)
		if parseErr != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid min_rating",
				Message: "min_rating must be a number",
			})
			return
		}
		filtered := make([]models.EnrichedMovie, 0, len(snap.Movies))
		for _, m := range snap.Movies {
			if m.RatingValue() >= min {
				filtered = append(filtered, m)
			}
		}
		snap.Movies = filtered
	}

	c.JSON(http.StatusOK, toSessionResponse(id, snap))
}

func (s *Server) updateQuery(c *gin.Context) {
	ctrl, err := s.sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "session not found", Message: err.Error()})
		return
	}

	var req UpdateQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}

	ctrl.SetQuery(*req.Query)
	c.JSON(http.StatusOK, toSessionResponse(c.Param("id"), ctrl.Snapshot()))
}

func (s *Server) updateFilters(c *gin.Context) {
	ctrl, err := s.sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "session not found", Message: err.Error()})
		return
	}

	var req UpdateFiltersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}

	patch := models.FilterPatch{
		Genre:     req.Genre,
		Year:      req.Year,
		MinRating: req.MinRating,
		Mood:      req.Mood,
		Region:    req.Region,
	}
	if req.Type != nil {
		mt := models.MediaType(*req.Type)
		switch mt {
		case models.MediaTypeMovie, models.MediaTypeSeries, models.MediaTypeEpisode:
			patch.Type = &mt
		default:
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid request",
				Message: "type must be movie, series or episode",
			})
			return
		}
	}

	ctrl.SetFilters(patch)
	c.JSON(http.StatusOK, toSessionResponse(c.Param("id"), ctrl.Snapshot()))
}

func (s *Server) selectMode(c *gin.Context) {
	ctrl, err := s.sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "session not found", Message: err.Error()})
		return
	}

	var req SelectModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}

	if err := ctrl.SelectMode(session.Mode(req.Mode), req.Value); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid mode selection", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(c.Param("id"), ctrl.Snapshot()))
}

func (s *Server) deleteSession(c *gin.Context) {
	if err := s.sessions.Delete(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "session not found", Message: err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) getMovie(c *gin.Context) {
	id := c.Param("id")
	detail := s.catalog.FetchByID(c.Request.Context(), id)
	if detail == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "movie not found",
			Message: "no movie with id " + id,
		})
		return
	}
	c.JSON(http.StatusOK, toDetailResponse(detail))
}

func (s *Server) listRegions(c *gin.Context) {
	labels := region.Curated()
	regions := make([]RegionResponse, 0, len(labels))
	for _, label := range labels {
		info := region.Display(label)
		regions = append(regions, RegionResponse{
			Label:       string(label),
			Emoji:       info.Emoji,
			Description: info.Description,
			FullName:    info.FullName,
		})
	}
	c.JSON(http.StatusOK, gin.H{"regions": regions})
}

func (s *Server) listMoods(c *gin.Context) {
	all := session.Moods()
	moods := make([]MoodResponse, 0, len(all))
	for _, m := range all {
		moods = append(moods, MoodResponse{Name: m.Name, Genres: m.Genres})
	}
	c.JSON(http.StatusOK, gin.H{"moods": moods})
}

func (s *Server) listGenres(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"genres": search.Genres()})
}

func (s *Server) listHistory(c *gin.Context) {
	if s.history == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "history disabled",
			Message: "search history is not enabled on this server",
		})
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid limit",
				Message: "limit must be a positive integer",
			})
			return
		}
		limit = parsed
	}

	var (
		records []models.SearchRecord
		err     error
	)
	if sessionID := c.Query("session_id"); sessionID != "" {
		records, err = s.history.BySession(sessionID, limit)
	} else {
		records, err = s.history.Recent(limit)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "history unavailable",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": toHistoryResponse(records)})
}
