package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hichigg/betbrain/internal/models"
	"github.com/hichigg/betbrain/internal/services"
	"github.com/hichigg/betbrain/pkg/utils"
)

type PicksHandler struct {
	store    *models.PickStore
	resolver *services.Resolver
}

func NewPicksHandler(store *models.PickStore, resolver *services.Resolver) *PicksHandler {
	return &PicksHandler{store: store, resolver: resolver}
}

type createPickRequest struct {
	GameID        string   `json:"game_id"`
	Sport         string   `json:"sport" binding:"required"`
	Date          string   `json:"date" binding:"required"`
	HomeTeam      string   `json:"home_team"`
	AwayTeam      string   `json:"away_team"`
	GameName      string   `json:"game_name"`
	BetType       string   `json:"bet_type" binding:"required"`
	Pick          string   `json:"pick" binding:"required"`
	Odds          int      `json:"odds"`
	Confidence    *float64 `json:"confidence"`
	ExpectedValue string   `json:"expected_value"`
	RiskTier      string   `json:"risk_tier"`
	Units         float64  `json:"units"`
	Reasoning     string   `json:"reasoning"`
}

// CreatePick records a new pending pick.
func (h *PicksHandler) CreatePick(c *gin.Context) {
	var req createPickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "invalid request body", err.Error())
		return
	}
	if !models.ValidBetType(req.BetType) {
		utils.SendValidationError(c, "invalid bet_type", "expected spread, moneyline, over_under, or player_prop")
		return
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		utils.SendValidationError(c, "invalid date", "expected YYYY-MM-DD")
		return
	}

	pick := models.NewPick()
	pick.GameID = req.GameID
	pick.Sport = req.Sport
	pick.Date = req.Date
	pick.HomeTeam = req.HomeTeam
	pick.AwayTeam = req.AwayTeam
	pick.GameName = req.GameName
	pick.BetType = req.BetType
	pick.Pick = req.Pick
	pick.Odds = req.Odds
	pick.Confidence = req.Confidence
	pick.ExpectedValue = req.ExpectedValue
	pick.RiskTier = req.RiskTier
	pick.Reasoning = req.Reasoning
	if req.Units > 0 {
		pick.Units = req.Units
	}

	if err := h.store.Create(&pick); err != nil {
		utils.SendInternalError(c, "failed to save pick")
		return
	}
	utils.SendCreated(c, pick)
}

// ListPicks returns picks, optionally filtered by sport, date, or result.
func (h *PicksHandler) ListPicks(c *gin.Context) {
	filters := models.PickFilters{
		Sport:  c.Query("sport"),
		Date:   c.Query("date"),
		Result: c.Query("result"),
	}

	picks, err := h.store.List(filters)
	if err != nil {
		utils.SendInternalError(c, "failed to fetch picks")
		return
	}
	if picks == nil {
		picks = []models.Pick{}
	}
	utils.SendSuccess(c, picks)
}

// GetPick returns one pick by id.
func (h *PicksHandler) GetPick(c *gin.Context) {
	pick, err := h.store.GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.SendNotFound(c, "pick not found")
			return
		}
		utils.SendInternalError(c, "failed to fetch pick")
		return
	}
	utils.SendSuccess(c, pick)
}

// DeletePick removes a pick.
func (h *PicksHandler) DeletePick(c *gin.Context) {
	if err := h.store.Delete(c.Param("id")); err != nil {
		utils.SendInternalError(c, "failed to delete pick")
		return
	}
	utils.SendSuccess(c, gin.H{"deleted": true})
}

// ResetPick returns a settled pick to pending for manual re-review.
func (h *PicksHandler) ResetPick(c *gin.Context) {
	if err := h.store.Reset(c.Param("id")); err != nil {
		utils.SendInternalError(c, "failed to reset pick")
		return
	}
	utils.SendSuccess(c, gin.H{"reset": true})
}

// ResolvePending runs one resolver pass on demand.
func (h *PicksHandler) ResolvePending(c *gin.Context) {
	resolved, err := h.resolver.ResolveAllPending(c.Request.Context())
	if err != nil {
		utils.SendInternalError(c, "resolve pass failed")
		return
	}
	utils.SendSuccess(c, gin.H{"resolved": resolved})
}

// GetPerformance returns the win/loss record and net units.
func (h *PicksHandler) GetPerformance(c *gin.Context) {
	perf, err := h.store.GetPerformance(c.Query("sport"))
	if err != nil {
		utils.SendInternalError(c, "failed to compute performance")
		return
	}
	utils.SendSuccess(c, perf)
}
