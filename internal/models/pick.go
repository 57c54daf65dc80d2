package models

import (
	"time"

	"github.com/google/uuid"
)

// Wager results.
const (
	ResultPending = "pending"
	ResultWon     = "won"
	ResultLost    = "lost"
	ResultPush    = "push"
)

// Bet types.
const (
	BetTypeSpread     = "spread"
	BetTypeMoneyline  = "moneyline"
	BetTypeOverUnder  = "over_under"
	BetTypePlayerProp = "player_prop"
)

// Settlement sources.
const (
	SettledAuto   = "auto"
	SettledManual = "manual"
)

// Pick is a recorded wager. GameID may be empty for manually entered
// picks; the home/away team text is the matching fallback in that case.
// The Pick field is the only machine-readable description of what was
// bet (e.g. "Boston Celtics -3.5", "Over 214.5").
type Pick struct {
	ID            string    `gorm:"primaryKey;type:uuid" json:"id"`
	GameID        string    `gorm:"index" json:"game_id,omitempty"`
	Sport         string    `gorm:"index;not null" json:"sport"`
	Date          string    `gorm:"index;not null" json:"date"` // YYYY-MM-DD
	HomeTeam      string    `json:"home_team,omitempty"`
	AwayTeam      string    `json:"away_team,omitempty"`
	GameName      string    `json:"game_name,omitempty"`
	BetType       string    `gorm:"not null" json:"bet_type"`
	Pick          string    `gorm:"not null" json:"pick"`
	Odds          int       `json:"odds"` // American convention
	Confidence    *float64  `json:"confidence,omitempty"`
	ExpectedValue string    `json:"expected_value,omitempty"`
	RiskTier      string    `json:"risk_tier,omitempty"`
	Units         float64   `gorm:"default:1" json:"units"`
	Reasoning     string    `json:"reasoning,omitempty"`
	Result        string    `gorm:"index;default:pending" json:"result"`
	ProfitLoss    float64   `json:"profit_loss"`
	ResolvedBy    string    `json:"resolved_by,omitempty"` // "auto" or "manual"
	CreatedAt     time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (Pick) TableName() string {
	return "picks"
}

// NewPick fills defaults for a freshly entered wager.
func NewPick() Pick {
	return Pick{
		ID:        uuid.NewString(),
		Units:     1,
		Result:    ResultPending,
		CreatedAt: time.Now().UTC(),
	}
}

// ValidBetType reports whether t is one of the supported bet types.
func ValidBetType(t string) bool {
	switch t {
	case BetTypeSpread, BetTypeMoneyline, BetTypeOverUnder, BetTypePlayerProp:
		return true
	}
	return false
}
