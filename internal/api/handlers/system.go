package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/hichigg/betbrain/internal/cache"
	"github.com/hichigg/betbrain/internal/providers"
	"github.com/hichigg/betbrain/pkg/utils"
)

type SystemHandler struct {
	cache      *cache.Cache
	oddsClient *providers.OddsAPIClient
}

func NewSystemHandler(c *cache.Cache, oddsClient *providers.OddsAPIClient) *SystemHandler {
	return &SystemHandler{cache: c, oddsClient: oddsClient}
}

// GetCacheStats reports hit/miss counters for the in-process cache.
func (h *SystemHandler) GetCacheStats(c *gin.Context) {
	utils.SendSuccess(c, h.cache.GetStats())
}

// FlushCache clears both cache tiers and the counters.
func (h *SystemHandler) FlushCache(c *gin.Context) {
	h.cache.Flush()
	utils.SendSuccess(c, gin.H{"flushed": true})
}

// GetOddsUsage reports the odds provider's request quota as last seen in
// its response headers.
func (h *SystemHandler) GetOddsUsage(c *gin.Context) {
	usage := h.oddsClient.GetUsage()
	if !usage.Known {
		utils.SendSuccess(c, gin.H{"known": false})
		return
	}
	utils.SendSuccess(c, usage)
}
