package api

import (
	"github.com/gin-gonic/gin"

	"github.com/hichigg/betbrain/internal/api/handlers"
	"github.com/hichigg/betbrain/internal/cache"
	"github.com/hichigg/betbrain/internal/models"
	"github.com/hichigg/betbrain/internal/providers"
	"github.com/hichigg/betbrain/internal/services"
)

// SetupRoutes registers the API surface on the given group.
func SetupRoutes(
	group *gin.RouterGroup,
	aggregator *services.Aggregator,
	resolver *services.Resolver,
	store *models.PickStore,
	c *cache.Cache,
	oddsClient *providers.OddsAPIClient,
) {
	gamesHandler := handlers.NewGamesHandler(aggregator)
	picksHandler := handlers.NewPicksHandler(store, resolver)
	systemHandler := handlers.NewSystemHandler(c, oddsClient)

	// Game endpoints
	group.GET("/sports", gamesHandler.ListSports)
	group.GET("/games", gamesHandler.ListGames)
	group.GET("/games/:id", gamesHandler.GetGame)
	group.GET("/standings", gamesHandler.GetStandings)

	// Pick endpoints
	group.GET("/picks", picksHandler.ListPicks)
	group.POST("/picks", picksHandler.CreatePick)
	group.GET("/picks/:id", picksHandler.GetPick)
	group.DELETE("/picks/:id", picksHandler.DeletePick)
	group.POST("/picks/:id/reset", picksHandler.ResetPick)
	group.POST("/picks/resolve", picksHandler.ResolvePending)
	group.GET("/performance", picksHandler.GetPerformance)

	// Operational endpoints
	group.GET("/cache/stats", systemHandler.GetCacheStats)
	group.POST("/cache/flush", systemHandler.FlushCache)
	group.GET("/odds/usage", systemHandler.GetOddsUsage)
}
