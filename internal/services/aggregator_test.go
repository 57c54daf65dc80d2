package services

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hichigg/betbrain/internal/cache"
	"github.com/hichigg/betbrain/internal/sports"
)

type stubSchedule struct {
	events     []sports.ScheduleEvent
	eventsOK   bool
	injuries   []sports.TeamInjuryReport
	injuriesOK bool
	stats      map[string]map[string]sports.StatLine
	summary    *sports.GameSummary
	summaryOK  bool
	standings  []sports.StandingsGroup
}

func (s *stubSchedule) GetScoreboard(ctx context.Context, m sports.Mapping, date string) ([]sports.ScheduleEvent, bool) {
	return s.events, s.eventsOK
}

func (s *stubSchedule) GetInjuries(ctx context.Context, m sports.Mapping) ([]sports.TeamInjuryReport, bool) {
	return s.injuries, s.injuriesOK
}

func (s *stubSchedule) GetTeamStats(ctx context.Context, m sports.Mapping, teamID string) (map[string]sports.StatLine, bool) {
	stats, ok := s.stats[teamID]
	return stats, ok
}

func (s *stubSchedule) GetGameSummary(ctx context.Context, m sports.Mapping, eventID string) (*sports.GameSummary, bool) {
	return s.summary, s.summaryOK
}

func (s *stubSchedule) GetStandings(ctx context.Context, m sports.Mapping) ([]sports.StandingsGroup, bool) {
	return s.standings, s.standings != nil
}

type stubOdds struct {
	events []sports.OddsEvent
	ok     bool
}

func (s *stubOdds) GetOdds(ctx context.Context, sportKey string) ([]sports.OddsEvent, bool) {
	return s.events, s.ok
}

type stubPlayers struct {
	teamIDs map[string]int
	players map[int][]sports.PlayerAverages
}

func (s *stubPlayers) ResolveTeamID(ctx context.Context, sport, teamName string) (int, bool) {
	id, ok := s.teamIDs[teamName]
	return id, ok
}

func (s *stubPlayers) TopPlayersForTeam(ctx context.Context, sport string, teamID, limit int) []sports.PlayerAverages {
	return s.players[teamID]
}

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func testEvent() sports.ScheduleEvent {
	return sports.ScheduleEvent{
		ID:     "401705050",
		Date:   "2025-01-10T00:00Z",
		Name:   "Boston Celtics at Los Angeles Lakers",
		Status: sports.StatusScheduled,
		Home:   sports.Competitor{TeamID: "13", Name: "Los Angeles Lakers"},
		Away:   sports.Competitor{TeamID: "2", Name: "Boston Celtics"},
	}
}

func testOddsEvent() sports.OddsEvent {
	point := 5.5
	return sports.OddsEvent{
		ID:       "odds-1",
		HomeTeam: "Los Angeles Lakers",
		AwayTeam: "Boston Celtics",
		Bookmakers: []sports.Bookmaker{
			{
				Key:   "draftkings",
				Title: "DraftKings",
				Markets: []sports.Market{
					{Key: sports.MarketMoneyline, Outcomes: []sports.Outcome{
						{Name: "Los Angeles Lakers", Price: -150},
						{Name: "Boston Celtics", Price: 130},
					}},
					{Key: sports.MarketSpreads, Outcomes: []sports.Outcome{
						{Name: "Los Angeles Lakers", Price: -110, Point: &point},
					}},
				},
			},
		},
	}
}

func TestGetGamesForSportMergesProviders(t *testing.T) {
	schedule := &stubSchedule{
		events:   []sports.ScheduleEvent{testEvent()},
		eventsOK: true,
		injuries: []sports.TeamInjuryReport{
			{TeamID: "13", Injuries: []sports.Injury{{Name: "Big Star", Status: "Out"}}},
		},
		injuriesOK: true,
	}
	odds := &stubOdds{events: []sports.OddsEvent{testOddsEvent()}, ok: true}

	agg := NewAggregator(newTestCache(t), newTestLogger(), schedule, odds, nil)
	games := agg.GetGamesForSport(context.Background(), "nba", "2025-01-10")

	require.Len(t, games, 1)
	game := games[0]
	assert.Equal(t, "401705050", game.ID)
	assert.Equal(t, "nba", game.Sport)
	assert.Equal(t, "Los Angeles Lakers", game.Home.Name)

	require.NotNil(t, game.Odds)
	require.Len(t, game.Odds.Consensus.Moneyline, 2)
	assert.Equal(t, -150, game.Odds.Consensus.Moneyline[0].Price)
	require.Len(t, game.Odds.Consensus.Spread, 1)
	assert.Equal(t, 5.5, *game.Odds.Consensus.Spread[0].Point)
	assert.Len(t, game.Odds.Bookmakers, 1)

	require.Len(t, game.Injuries.Home, 1)
	assert.Equal(t, "Big Star", game.Injuries.Home[0].Name)
	assert.Empty(t, game.Injuries.Away)
}

func TestGetGamesForSportOddsFailureDegrades(t *testing.T) {
	schedule := &stubSchedule{events: []sports.ScheduleEvent{testEvent()}, eventsOK: true}
	odds := &stubOdds{ok: false}

	agg := NewAggregator(newTestCache(t), newTestLogger(), schedule, odds, nil)
	games := agg.GetGamesForSport(context.Background(), "nba", "2025-01-10")

	require.Len(t, games, 1)
	assert.Nil(t, games[0].Odds)
}

func TestGetGamesForSportStaleScoreboardFallback(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()
	c.Set(ctx, cache.ScheduleKey("nba", "20250110"), []sports.ScheduleEvent{testEvent()}, -time.Minute)

	schedule := &stubSchedule{eventsOK: false}
	odds := &stubOdds{ok: false}

	agg := NewAggregator(c, newTestLogger(), schedule, odds, nil)
	games := agg.GetGamesForSport(ctx, "nba", "2025-01-10")

	require.Len(t, games, 1)
	assert.Equal(t, "401705050", games[0].ID)
}

func TestGetGamesForSportUnsupportedSport(t *testing.T) {
	agg := NewAggregator(newTestCache(t), newTestLogger(), &stubSchedule{}, &stubOdds{}, nil)
	assert.Nil(t, agg.GetGamesForSport(context.Background(), "cricket", "2025-01-10"))
}

func TestGetGamesForSportEmptySchedule(t *testing.T) {
	schedule := &stubSchedule{eventsOK: true}
	agg := NewAggregator(newTestCache(t), newTestLogger(), schedule, &stubOdds{ok: true}, nil)
	assert.Empty(t, agg.GetGamesForSport(context.Background(), "nba", "2025-01-10"))
}

func TestGetGameDetail(t *testing.T) {
	schedule := &stubSchedule{
		summary: &sports.GameSummary{
			Date:   "2025-01-10T00:00Z",
			Status: sports.StatusFinal,
			Home:   sports.SummaryCompetitor{ID: "13", Name: "Los Angeles Lakers"},
			Away:   sports.SummaryCompetitor{ID: "2", Name: "Boston Celtics"},
			Leaders: []sports.LeaderCategory{
				{Category: "points", Leaders: []sports.Entry{{Name: "Big Star", Value: "38"}}},
			},
		},
		summaryOK: true,
		stats: map[string]map[string]sports.StatLine{
			"13": {"ppg": {Value: 114.2, DisplayValue: "114.2"}},
		},
		injuries: []sports.TeamInjuryReport{
			{TeamID: "2", Injuries: []sports.Injury{{Name: "Role Player", Status: "Questionable"}}},
		},
		injuriesOK: true,
	}
	players := &stubPlayers{
		teamIDs: map[string]int{"Los Angeles Lakers": 14},
		players: map[int][]sports.PlayerAverages{
			14: {{ID: 1, Name: "Big Star", Stats: map[string]float64{"pts": 27.1}}},
		},
	}

	agg := NewAggregator(newTestCache(t), newTestLogger(), schedule, &stubOdds{}, players)
	detail := agg.GetGameDetail(context.Background(), "nba", "401705050")

	require.NotNil(t, detail)
	assert.Equal(t, "401705050", detail.ID)
	assert.Equal(t, "Boston Celtics at Los Angeles Lakers", detail.Name)
	assert.Equal(t, sports.StatusFinal, detail.Status)
	assert.Equal(t, 114.2, detail.Home.SeasonStats["ppg"].Value)
	assert.Empty(t, detail.Away.SeasonStats)
	require.Len(t, detail.Injuries.Away, 1)
	assert.Equal(t, "Role Player", detail.Injuries.Away[0].Name)
	require.Len(t, detail.HomePlayers, 1)
	assert.Equal(t, "Big Star", detail.HomePlayers[0].Name)
	assert.Empty(t, detail.AwayPlayers)
	require.Len(t, detail.Leaders, 1)
}

func TestGetGameDetailSummaryMissing(t *testing.T) {
	schedule := &stubSchedule{summaryOK: false}
	agg := NewAggregator(newTestCache(t), newTestLogger(), schedule, &stubOdds{}, nil)
	assert.Nil(t, agg.GetGameDetail(context.Background(), "nba", "401705050"))
}

func TestGetStandings(t *testing.T) {
	schedule := &stubSchedule{
		standings: []sports.StandingsGroup{
			{Name: "Western Conference", Entries: []sports.StandingEntry{
				{TeamID: "13", Name: "Los Angeles Lakers", Wins: 50, Losses: 32},
			}},
		},
	}
	agg := NewAggregator(newTestCache(t), newTestLogger(), schedule, &stubOdds{}, nil)

	groups := agg.GetStandings(context.Background(), "nba")
	require.Len(t, groups, 1)
	assert.Equal(t, "Western Conference", groups[0].Name)
	require.Len(t, groups[0].Entries, 1)
	assert.Equal(t, 50, groups[0].Entries[0].Wins)

	assert.Nil(t, agg.GetStandings(context.Background(), "cricket"))
	assert.Nil(t, NewAggregator(newTestCache(t), newTestLogger(), &stubSchedule{}, &stubOdds{}, nil).GetStandings(context.Background(), "nba"))
}

func newTestCache(t *testing.T) *cache.Cache {
	t.Helper()
	return cache.New(nil, newTestLogger())
}
