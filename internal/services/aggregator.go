package services

import (
	"context"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/hichigg/betbrain/internal/cache"
	"github.com/hichigg/betbrain/internal/matching"
	"github.com/hichigg/betbrain/internal/sports"
)

// ScheduleProvider supplies schedule events, scores, injuries, and team
// statistics.
type ScheduleProvider interface {
	GetScoreboard(ctx context.Context, m sports.Mapping, date string) ([]sports.ScheduleEvent, bool)
	GetInjuries(ctx context.Context, m sports.Mapping) ([]sports.TeamInjuryReport, bool)
	GetTeamStats(ctx context.Context, m sports.Mapping, teamID string) (map[string]sports.StatLine, bool)
	GetGameSummary(ctx context.Context, m sports.Mapping, eventID string) (*sports.GameSummary, bool)
	GetStandings(ctx context.Context, m sports.Mapping) ([]sports.StandingsGroup, bool)
}

// OddsProvider supplies bookmaker quotes keyed by its own team spellings.
type OddsProvider interface {
	GetOdds(ctx context.Context, sportKey string) ([]sports.OddsEvent, bool)
}

// PlayerStatsProvider supplies best-effort roster and per-player averages.
type PlayerStatsProvider interface {
	ResolveTeamID(ctx context.Context, sport, teamName string) (int, bool)
	TopPlayersForTeam(ctx context.Context, sport string, teamID, limit int) []sports.PlayerAverages
}

const topPlayersPerTeam = 5

// Aggregator reconciles independently-keyed provider responses into one
// canonical Game list per (sport, date).
type Aggregator struct {
	cache    *cache.Cache
	logger   *logrus.Logger
	schedule ScheduleProvider
	odds     OddsProvider
	players  PlayerStatsProvider
}

// NewAggregator creates an aggregator over the given providers. players
// may be nil when no player-stats provider is configured.
func NewAggregator(c *cache.Cache, logger *logrus.Logger, schedule ScheduleProvider, odds OddsProvider, players PlayerStatsProvider) *Aggregator {
	return &Aggregator{
		cache:    c,
		logger:   logger,
		schedule: schedule,
		odds:     odds,
		players:  players,
	}
}

// fetchOutcome is the tagged result of one provider call in a fan-out.
type fetchOutcome struct {
	provider string
	events   []sports.ScheduleEvent
	odds     []sports.OddsEvent
	injuries []sports.TeamInjuryReport
	ok       bool
}

// GetGamesForSport fetches and merges all games for a sport on a date
// (YYYY-MM-DD). A failing provider never hides the others' data: odds and
// injuries degrade to absent fields, and a dead schedule provider falls
// back to the stale scoreboard before giving up with an empty list.
func (a *Aggregator) GetGamesForSport(ctx context.Context, sport, date string) []sports.Game {
	mapping, ok := sports.GetMapping(sport)
	if !ok {
		a.logger.Warnf("Aggregator: unsupported sport %q", sport)
		return nil
	}
	espnDate := strings.ReplaceAll(date, "-", "")

	var wg sync.WaitGroup
	results := make(chan fetchOutcome, 3)

	wg.Add(3)
	go func() {
		defer wg.Done()
		events, ok := a.schedule.GetScoreboard(ctx, mapping, espnDate)
		results <- fetchOutcome{provider: "schedule", events: events, ok: ok}
	}()
	go func() {
		defer wg.Done()
		odds, ok := a.odds.GetOdds(ctx, mapping.OddsAPIKey)
		results <- fetchOutcome{provider: "odds", odds: odds, ok: ok}
	}()
	go func() {
		defer wg.Done()
		injuries, ok := a.schedule.GetInjuries(ctx, mapping)
		results <- fetchOutcome{provider: "injuries", injuries: injuries, ok: ok}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var (
		events     []sports.ScheduleEvent
		scheduleOK bool
		oddsEvents []sports.OddsEvent
		injuryData []sports.TeamInjuryReport
	)
	for result := range results {
		if !result.ok {
			a.logger.Warnf("Aggregator: %s provider returned no data for %s/%s", result.provider, sport, date)
		}
		switch result.provider {
		case "schedule":
			events, scheduleOK = result.events, result.ok
		case "odds":
			oddsEvents = result.odds
		case "injuries":
			injuryData = result.injuries
		}
	}

	if !scheduleOK {
		if stale, ok := a.cache.GetStale(cache.ScheduleKey(mapping.ESPNLeague, espnDate)); ok {
			if staleEvents, ok := stale.([]sports.ScheduleEvent); ok {
				a.logger.Infof("Aggregator: using stale scoreboard for %s/%s", sport, espnDate)
				events = staleEvents
			}
		}
	}
	if len(events) == 0 {
		return nil
	}

	oddsByEvent := matching.MatchOdds(events, oddsEvents)

	games := make([]sports.Game, 0, len(events))
	for _, ev := range events {
		game := sports.Game{
			ID:        ev.ID,
			Sport:     sport,
			Date:      ev.Date,
			Name:      ev.Name,
			ShortName: ev.ShortName,
			Status:    ev.Status,
			Detail:    ev.Detail,
			Venue:     ev.Venue,
			Home:      buildTeam(ev.Home),
			Away:      buildTeam(ev.Away),
			Injuries: sports.InjuryReport{
				Home: injuriesForTeam(injuryData, ev.Home.TeamID),
				Away: injuriesForTeam(injuryData, ev.Away.TeamID),
			},
		}
		if oddsEvent, ok := oddsByEvent[ev.ID]; ok {
			game.Odds = buildOddsView(oddsEvent)
		}
		games = append(games, game)
	}
	return games
}

// GetGameDetail fetches the enriched single-game view. Sub-fetches fail
// independently: a dead injury or player-stats call leaves its section
// empty rather than nulling the whole detail.
func (a *Aggregator) GetGameDetail(ctx context.Context, sport, gameID string) *sports.GameDetail {
	mapping, ok := sports.GetMapping(sport)
	if !ok {
		a.logger.Warnf("Aggregator: unsupported sport %q", sport)
		return nil
	}

	var (
		wg         sync.WaitGroup
		summary    *sports.GameSummary
		summaryOK  bool
		injuryData []sports.TeamInjuryReport
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		summary, summaryOK = a.schedule.GetGameSummary(ctx, mapping, gameID)
	}()
	go func() {
		defer wg.Done()
		injuryData, _ = a.schedule.GetInjuries(ctx, mapping)
	}()
	wg.Wait()

	if !summaryOK || summary == nil {
		return nil
	}

	var homeStats, awayStats map[string]sports.StatLine
	wg.Add(2)
	go func() {
		defer wg.Done()
		homeStats, _ = a.schedule.GetTeamStats(ctx, mapping, summary.Home.ID)
	}()
	go func() {
		defer wg.Done()
		awayStats, _ = a.schedule.GetTeamStats(ctx, mapping, summary.Away.ID)
	}()
	wg.Wait()

	name := summary.Name
	if name == "" {
		name = summary.Away.Name + " at " + summary.Home.Name
	}

	detail := &sports.GameDetail{
		ID:     gameID,
		Sport:  sport,
		Date:   summary.Date,
		Name:   name,
		Status: summary.Status,
		Detail: summary.Detail,
		Venue:  summary.Venue,
		Home:   buildDetailTeam(summary.Home, homeStats),
		Away:   buildDetailTeam(summary.Away, awayStats),
		Injuries: sports.InjuryReport{
			Home: injuriesForTeam(injuryData, summary.Home.ID),
			Away: injuriesForTeam(injuryData, summary.Away.ID),
		},
		Leaders: summary.Leaders,
	}

	detail.HomePlayers, detail.AwayPlayers = a.fetchPlayerData(ctx, sport, summary.Home.Name, summary.Away.Name)
	return detail
}

// GetStandings returns the league table for a sport, or nil when the
// sport is unsupported or the provider has nothing.
func (a *Aggregator) GetStandings(ctx context.Context, sport string) []sports.StandingsGroup {
	mapping, ok := sports.GetMapping(sport)
	if !ok {
		a.logger.Warnf("Aggregator: unsupported sport %q", sport)
		return nil
	}
	groups, ok := a.schedule.GetStandings(ctx, mapping)
	if !ok {
		return nil
	}
	return groups
}

// fetchPlayerData pulls top players for both teams from the player-stats
// provider. Entirely best-effort.
func (a *Aggregator) fetchPlayerData(ctx context.Context, sport, homeName, awayName string) (home, away []sports.PlayerAverages) {
	if a.players == nil {
		return nil, nil
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		if id, ok := a.players.ResolveTeamID(ctx, sport, homeName); ok {
			home = a.players.TopPlayersForTeam(ctx, sport, id, topPlayersPerTeam)
		}
	}()
	go func() {
		defer wg.Done()
		if id, ok := a.players.ResolveTeamID(ctx, sport, awayName); ok {
			away = a.players.TopPlayersForTeam(ctx, sport, id, topPlayersPerTeam)
		}
	}()
	wg.Wait()
	return home, away
}

func buildTeam(c sports.Competitor) sports.Team {
	return sports.Team{
		ID:           c.TeamID,
		Name:         c.Name,
		ShortName:    c.ShortName,
		Abbreviation: c.Abbreviation,
		Logo:         c.Logo,
		Score:        c.Score,
		Winner:       c.Winner,
		Record:       c.Record,
		HomeRecord:   c.HomeRecord,
		AwayRecord:   c.AwayRecord,
		Stats:        c.Stats,
	}
}

func buildDetailTeam(c sports.SummaryCompetitor, stats map[string]sports.StatLine) sports.DetailTeam {
	if stats == nil {
		stats = map[string]sports.StatLine{}
	}
	return sports.DetailTeam{
		ID:           c.ID,
		Name:         c.Name,
		ShortName:    c.ShortName,
		Abbreviation: c.Abbreviation,
		Logo:         c.Logo,
		Record:       c.Record,
		SeasonStats:  stats,
	}
}

func injuriesForTeam(reports []sports.TeamInjuryReport, teamID string) []sports.Injury {
	if teamID == "" {
		return []sports.Injury{}
	}
	for _, report := range reports {
		if report.TeamID == teamID {
			if report.Injuries == nil {
				return []sports.Injury{}
			}
			return report.Injuries
		}
	}
	return []sports.Injury{}
}

// buildOddsView reshapes an odds event into one consensus line per
// market, taken from the first bookmaker, plus the full breakdown.
func buildOddsView(event sports.OddsEvent) *sports.OddsView {
	if len(event.Bookmakers) == 0 {
		return nil
	}

	view := &sports.OddsView{Bookmakers: event.Bookmakers}
	primary := event.Bookmakers[0]
	for _, market := range primary.Markets {
		outcomes := make([]sports.PriceOutcome, 0, len(market.Outcomes))
		for _, o := range market.Outcomes {
			outcomes = append(outcomes, sports.PriceOutcome{Name: o.Name, Price: o.Price, Point: o.Point})
		}
		switch market.Key {
		case sports.MarketMoneyline:
			view.Consensus.Moneyline = outcomes
		case sports.MarketSpreads:
			view.Consensus.Spread = outcomes
		case sports.MarketTotals:
			view.Consensus.Total = outcomes
		}
	}
	return view
}
