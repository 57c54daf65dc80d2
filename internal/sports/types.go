package sports

// GameStatus is the coarse lifecycle state of a game.
type GameStatus string

const (
	StatusScheduled  GameStatus = "scheduled"
	StatusInProgress GameStatus = "in_progress"
	StatusFinal      GameStatus = "final"
	StatusUnknown    GameStatus = "unknown"
)

// Team is one side of a game as assembled by the aggregator.
type Team struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	ShortName    string            `json:"short_name"`
	Abbreviation string            `json:"abbreviation"`
	Logo         string            `json:"logo,omitempty"`
	Score        string            `json:"score,omitempty"` // empty until the game starts
	Winner       *bool             `json:"winner,omitempty"`
	Record       string            `json:"record,omitempty"`
	HomeRecord   string            `json:"home_record,omitempty"`
	AwayRecord   string            `json:"away_record,omitempty"`
	Stats        map[string]string `json:"stats,omitempty"`
}

// Venue describes where a game is played.
type Venue struct {
	Name     string `json:"name"`
	City     string `json:"city,omitempty"`
	State    string `json:"state,omitempty"`
	Capacity int    `json:"capacity,omitempty"`
}

// Injury is a single player injury entry filtered to a participating team.
type Injury struct {
	Name        string `json:"name"`
	Position    string `json:"position,omitempty"`
	Status      string `json:"status"`
	Description string `json:"description,omitempty"`
}

// InjuryReport splits injuries by side of the game.
type InjuryReport struct {
	Home []Injury `json:"home"`
	Away []Injury `json:"away"`
}

// PriceOutcome is one priced outcome of a market (a side, or over/under).
type PriceOutcome struct {
	Name  string   `json:"name"`
	Price int      `json:"price"`
	Point *float64 `json:"point,omitempty"`
}

// ConsensusOdds is a single representative line per market, taken from the
// first bookmaker that quoted the event.
type ConsensusOdds struct {
	Moneyline []PriceOutcome `json:"moneyline,omitempty"`
	Spread    []PriceOutcome `json:"spread,omitempty"`
	Total     []PriceOutcome `json:"total,omitempty"`
}

// OddsView is the odds attachment on a game: one consensus line plus the
// full per-bookmaker breakdown for comparison views.
type OddsView struct {
	Consensus  ConsensusOdds `json:"consensus"`
	Bookmakers []Bookmaker   `json:"bookmakers"`
}

// Game is the unified per-game record produced by the aggregator. It is
// rebuilt on every request and never persisted.
type Game struct {
	ID        string       `json:"id"`
	Sport     string       `json:"sport"`
	Date      string       `json:"date"`
	Name      string       `json:"name,omitempty"`
	ShortName string       `json:"short_name,omitempty"`
	Status    GameStatus   `json:"status"`
	Detail    string       `json:"status_detail,omitempty"`
	Venue     *Venue       `json:"venue,omitempty"`
	Home      Team         `json:"home"`
	Away      Team         `json:"away"`
	Odds      *OddsView    `json:"odds,omitempty"`
	Injuries  InjuryReport `json:"injuries"`
}

// StatLine is one season-level statistic with its display form and rank.
type StatLine struct {
	Value        float64 `json:"value"`
	DisplayValue string  `json:"display_value"`
	Rank         *int    `json:"rank,omitempty"`
}

// PlayerAverages is a player with a sport-specific stat map, sourced from
// the player-stats provider.
type PlayerAverages struct {
	ID       int                `json:"id"`
	Name     string             `json:"name"`
	Position string             `json:"position,omitempty"`
	Stats    map[string]float64 `json:"stats"`
}

// LeaderCategory groups statistical leaders for a game.
type LeaderCategory struct {
	Category string  `json:"category"`
	Leaders  []Entry `json:"leaders"`
}

// Entry is one leader line within a category.
type Entry struct {
	Name  string `json:"name"`
	Team  string `json:"team,omitempty"`
	Value string `json:"value"`
}

// DetailTeam is a team in the enriched single-game view.
type DetailTeam struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	ShortName    string              `json:"short_name"`
	Abbreviation string              `json:"abbreviation"`
	Logo         string              `json:"logo,omitempty"`
	Record       string              `json:"record,omitempty"`
	SeasonStats  map[string]StatLine `json:"season_stats"`
}

// GameDetail is the enriched single-game view with season statistics,
// leaders, and best-effort player averages.
type GameDetail struct {
	ID          string           `json:"id"`
	Sport       string           `json:"sport"`
	Date        string           `json:"date"`
	Name        string           `json:"name"`
	Status      GameStatus       `json:"status"`
	Detail      string           `json:"status_detail,omitempty"`
	Venue       *Venue           `json:"venue,omitempty"`
	Home        DetailTeam       `json:"home"`
	Away        DetailTeam       `json:"away"`
	HomePlayers []PlayerAverages `json:"home_players"`
	AwayPlayers []PlayerAverages `json:"away_players"`
	Injuries    InjuryReport     `json:"injuries"`
	Leaders     []LeaderCategory `json:"leaders"`
}

// ── Provider payloads ───────────────────────────────────────────────
//
// These are the normalized-but-unmerged shapes each provider client
// returns. The aggregator is the only place they are merged.

// Competitor is one side of a schedule event as reported by the
// schedule/score provider.
type Competitor struct {
	TeamID       string
	Name         string
	ShortName    string
	Abbreviation string
	Logo         string
	Score        string
	Winner       *bool
	Record       string
	HomeRecord   string
	AwayRecord   string
	Stats        map[string]string
}

// ScheduleEvent is one game on the schedule provider's scoreboard.
type ScheduleEvent struct {
	ID        string
	Date      string
	Name      string
	ShortName string
	Status    GameStatus
	Detail    string
	Venue     *Venue
	Home      Competitor
	Away      Competitor
}

// Outcome is a single priced outcome inside a bookmaker market.
type Outcome struct {
	Name  string   `json:"name"`
	Price int      `json:"price"`
	Point *float64 `json:"point,omitempty"`
}

// Market is one market (h2h, spreads, totals) quoted by a bookmaker.
type Market struct {
	Key      string    `json:"key"`
	Outcomes []Outcome `json:"outcomes"`
}

// Bookmaker is one book's full quote set for an event.
type Bookmaker struct {
	Key     string   `json:"key"`
	Title   string   `json:"title"`
	Markets []Market `json:"markets"`
}

// OddsEvent is one event from the odds provider, keyed by its own team
// name spellings rather than any shared identifier.
type OddsEvent struct {
	ID           string      `json:"id"`
	CommenceTime string      `json:"commence_time"`
	HomeTeam     string      `json:"home_team"`
	AwayTeam     string      `json:"away_team"`
	Bookmakers   []Bookmaker `json:"bookmakers"`
}

// SummaryCompetitor is one side of a game summary from the schedule
// provider's detail endpoint.
type SummaryCompetitor struct {
	ID           string
	Name         string
	ShortName    string
	Abbreviation string
	Logo         string
	Record       string
}

// GameSummary is the schedule provider's single-game detail payload.
type GameSummary struct {
	Date    string
	Name    string
	Status  GameStatus
	Detail  string
	Venue   *Venue
	Home    SummaryCompetitor
	Away    SummaryCompetitor
	Leaders []LeaderCategory
}

// TeamInjuryReport is the injury provider's per-team entry.
type TeamInjuryReport struct {
	TeamID   string
	Injuries []Injury
}

// StandingEntry is one team's line in the league table.
type StandingEntry struct {
	TeamID       string  `json:"team_id"`
	Name         string  `json:"name"`
	Abbreviation string  `json:"abbreviation,omitempty"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	WinPercent   float64 `json:"win_percent"`
	Summary      string  `json:"summary,omitempty"` // e.g. "41-21"
}

// StandingsGroup is a conference or division table.
type StandingsGroup struct {
	Name    string          `json:"name"`
	Entries []StandingEntry `json:"entries"`
}

// Market keys used by the odds provider.
const (
	MarketMoneyline = "h2h"
	MarketSpreads   = "spreads"
	MarketTotals    = "totals"
)
