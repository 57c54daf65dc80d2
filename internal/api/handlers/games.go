package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hichigg/betbrain/internal/services"
	"github.com/hichigg/betbrain/internal/sports"
	"github.com/hichigg/betbrain/pkg/utils"
)

type GamesHandler struct {
	aggregator *services.Aggregator
}

func NewGamesHandler(aggregator *services.Aggregator) *GamesHandler {
	return &GamesHandler{aggregator: aggregator}
}

// ListSports returns the sports this service can aggregate.
func (h *GamesHandler) ListSports(c *gin.Context) {
	keys := sports.SupportedSports()
	out := make([]gin.H, 0, len(keys))
	for _, key := range keys {
		m, _ := sports.GetMapping(key)
		out = append(out, gin.H{"key": key, "name": m.Name})
	}
	utils.SendSuccess(c, out)
}

// ListGames returns all merged games for a sport and date.
func (h *GamesHandler) ListGames(c *gin.Context) {
	sport := c.Query("sport")
	if _, ok := sports.GetMapping(sport); !ok {
		utils.SendValidationError(c, "unsupported or missing sport", "supported: nfl, ncaaf, nba, ncaab, mlb, nhl")
		return
	}

	date := c.DefaultQuery("date", time.Now().UTC().Format("2006-01-02"))
	if _, err := time.Parse("2006-01-02", date); err != nil {
		utils.SendValidationError(c, "invalid date", "expected YYYY-MM-DD")
		return
	}

	games := h.aggregator.GetGamesForSport(c.Request.Context(), sport, date)
	if games == nil {
		games = []sports.Game{}
	}
	utils.SendSuccess(c, gin.H{
		"sport": sport,
		"date":  date,
		"games": games,
	})
}

// GetStandings returns the league table for a sport.
func (h *GamesHandler) GetStandings(c *gin.Context) {
	sport := c.Query("sport")
	if _, ok := sports.GetMapping(sport); !ok {
		utils.SendValidationError(c, "unsupported or missing sport", "supported: nfl, ncaaf, nba, ncaab, mlb, nhl")
		return
	}

	groups := h.aggregator.GetStandings(c.Request.Context(), sport)
	if groups == nil {
		groups = []sports.StandingsGroup{}
	}
	utils.SendSuccess(c, gin.H{
		"sport":     sport,
		"standings": groups,
	})
}

// GetGame returns the enriched detail view for a single game.
func (h *GamesHandler) GetGame(c *gin.Context) {
	sport := c.Query("sport")
	if _, ok := sports.GetMapping(sport); !ok {
		utils.SendValidationError(c, "unsupported or missing sport", "supported: nfl, ncaaf, nba, ncaab, mlb, nhl")
		return
	}

	detail := h.aggregator.GetGameDetail(c.Request.Context(), sport, c.Param("id"))
	if detail == nil {
		utils.SendNotFound(c, "game not found")
		return
	}
	utils.SendSuccess(c, detail)
}
