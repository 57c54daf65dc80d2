package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hichigg/betbrain/internal/models"
	"github.com/hichigg/betbrain/internal/sports"
)

type memStore struct {
	picks map[string]*models.Pick
}

func newMemStore(picks ...*models.Pick) *memStore {
	s := &memStore{picks: map[string]*models.Pick{}}
	for _, p := range picks {
		s.picks[p.ID] = p
	}
	return s
}

func (s *memStore) GetPending() ([]models.Pick, error) {
	var out []models.Pick
	for _, p := range s.picks {
		if p.Result == models.ResultPending {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *memStore) MarkSettled(id, result string, profitLoss float64, source string) error {
	p, ok := s.picks[id]
	if !ok || p.Result != models.ResultPending {
		return nil
	}
	p.Result = result
	p.ProfitLoss = profitLoss
	p.ResolvedBy = source
	return nil
}

type fixedGames struct {
	games map[string][]sports.Game
}

func (f *fixedGames) GetGamesForSport(ctx context.Context, sport, date string) []sports.Game {
	return f.games[sport+":"+date]
}

type panickyGames struct {
	inner   *fixedGames
	panicOn string
}

func (p *panickyGames) GetGamesForSport(ctx context.Context, sport, date string) []sports.Game {
	if sport == p.panicOn {
		panic("provider blew up")
	}
	return p.inner.GetGamesForSport(ctx, sport, date)
}

func finalGame(id, home, away, homeScore, awayScore string) sports.Game {
	return sports.Game{
		ID:     id,
		Status: sports.StatusFinal,
		Home:   sports.Team{Name: home, Score: homeScore},
		Away:   sports.Team{Name: away, Score: awayScore},
	}
}

func testPick(betType, pickText string) *models.Pick {
	p := models.NewPick()
	p.GameID = "g1"
	p.Sport = "nba"
	p.Date = "2025-01-10"
	p.HomeTeam = "Los Angeles Lakers"
	p.AwayTeam = "Boston Celtics"
	p.BetType = betType
	p.Pick = pickText
	p.Odds = -110
	p.Units = 1
	return &p
}

func gamesFor(g sports.Game) *fixedGames {
	return &fixedGames{games: map[string][]sports.Game{"nba:2025-01-10": {g}}}
}

func TestResolveSpread(t *testing.T) {
	tests := []struct {
		name       string
		pick       string
		home, away string
		want       string
	}{
		{"cover at minus line", "Los Angeles Lakers -3.5", "110", "100", models.ResultWon},
		{"miss at minus line", "Los Angeles Lakers -3.5", "100", "103", models.ResultLost},
		{"push at whole line", "Los Angeles Lakers +3", "100", "103", models.ResultPush},
		{"away side cover", "Boston Celtics +7.5", "104", "98", models.ResultWon},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pick := testPick(models.BetTypeSpread, tt.pick)
			store := newMemStore(pick)
			r := NewResolver(store, gamesFor(finalGame("g1", "Los Angeles Lakers", "Boston Celtics", tt.home, tt.away)), newTestLogger())

			n, err := r.ResolveAllPending(context.Background())
			require.NoError(t, err)
			assert.Equal(t, 1, n)
			assert.Equal(t, tt.want, store.picks[pick.ID].Result)
		})
	}
}

func TestResolveTotal(t *testing.T) {
	tests := []struct {
		name       string
		pick       string
		home, away string
		want       string
	}{
		{"over cashes", "Over 214.5", "110", "105", models.ResultWon},
		{"over misses", "Over 214.5", "110", "104", models.ResultLost},
		{"whole line push", "Over 215", "110", "105", models.ResultPush},
		{"under cashes", "under 214.5", "110", "104", models.ResultWon},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pick := testPick(models.BetTypeOverUnder, tt.pick)
			store := newMemStore(pick)
			r := NewResolver(store, gamesFor(finalGame("g1", "Los Angeles Lakers", "Boston Celtics", tt.home, tt.away)), newTestLogger())

			n, err := r.ResolveAllPending(context.Background())
			require.NoError(t, err)
			assert.Equal(t, 1, n)
			assert.Equal(t, tt.want, store.picks[pick.ID].Result)
		})
	}
}

func TestResolveMoneyline(t *testing.T) {
	tests := []struct {
		name       string
		pick       string
		home, away string
		want       string
	}{
		{"picked side wins", "Los Angeles Lakers ML", "110", "100", models.ResultWon},
		{"picked side loses", "Los Angeles Lakers ML", "100", "110", models.ResultLost},
		{"tie is a push", "Los Angeles Lakers ML", "100", "100", models.ResultPush},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pick := testPick(models.BetTypeMoneyline, tt.pick)
			store := newMemStore(pick)
			r := NewResolver(store, gamesFor(finalGame("g1", "Los Angeles Lakers", "Boston Celtics", tt.home, tt.away)), newTestLogger())

			n, err := r.ResolveAllPending(context.Background())
			require.NoError(t, err)
			assert.Equal(t, 1, n)
			assert.Equal(t, tt.want, store.picks[pick.ID].Result)
		})
	}
}

func TestResolveProfitLoss(t *testing.T) {
	won := testPick(models.BetTypeMoneyline, "Los Angeles Lakers")
	won.Odds = 150
	won.Units = 2
	lost := testPick(models.BetTypeMoneyline, "Boston Celtics")
	lost.Units = 1.5
	store := newMemStore(won, lost)
	r := NewResolver(store, gamesFor(finalGame("g1", "Los Angeles Lakers", "Boston Celtics", "110", "100")), newTestLogger())

	n, err := r.ResolveAllPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.InDelta(t, 3.0, store.picks[won.ID].ProfitLoss, 0.001)
	assert.InDelta(t, -1.5, store.picks[lost.ID].ProfitLoss, 0.001)
	assert.Equal(t, models.SettledAuto, store.picks[won.ID].ResolvedBy)
}

func TestResolveIsIdempotent(t *testing.T) {
	pick := testPick(models.BetTypeMoneyline, "Los Angeles Lakers")
	store := newMemStore(pick)
	r := NewResolver(store, gamesFor(finalGame("g1", "Los Angeles Lakers", "Boston Celtics", "110", "100")), newTestLogger())
	ctx := context.Background()

	first, err := r.ResolveAllPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, first)

	second, err := r.ResolveAllPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, second)
	assert.Equal(t, models.ResultWon, store.picks[pick.ID].Result)
}

func TestResolvePlayerPropStaysPending(t *testing.T) {
	pick := testPick(models.BetTypePlayerProp, "Big Star Over 25.5 Points")
	store := newMemStore(pick)
	r := NewResolver(store, gamesFor(finalGame("g1", "Los Angeles Lakers", "Boston Celtics", "110", "100")), newTestLogger())

	n, err := r.ResolveAllPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, models.ResultPending, store.picks[pick.ID].Result)
}

func TestResolveSkipsNonFinalGames(t *testing.T) {
	game := finalGame("g1", "Los Angeles Lakers", "Boston Celtics", "55", "50")
	game.Status = sports.StatusInProgress
	pick := testPick(models.BetTypeMoneyline, "Los Angeles Lakers")
	store := newMemStore(pick)
	r := NewResolver(store, gamesFor(game), newTestLogger())

	n, err := r.ResolveAllPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, models.ResultPending, store.picks[pick.ID].Result)
}

func TestResolveUnparseableScoresStayPending(t *testing.T) {
	pick := testPick(models.BetTypeMoneyline, "Los Angeles Lakers")
	store := newMemStore(pick)
	r := NewResolver(store, gamesFor(finalGame("g1", "Los Angeles Lakers", "Boston Celtics", "", "")), newTestLogger())

	n, err := r.ResolveAllPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestResolveAmbiguousPickTextStaysPending(t *testing.T) {
	pick := testPick(models.BetTypeMoneyline, "take the points")
	store := newMemStore(pick)
	r := NewResolver(store, gamesFor(finalGame("g1", "Los Angeles Lakers", "Boston Celtics", "110", "100")), newTestLogger())

	n, err := r.ResolveAllPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, models.ResultPending, store.picks[pick.ID].Result)
}

func TestFindGameByTeamNameFallback(t *testing.T) {
	pick := testPick(models.BetTypeMoneyline, "Lakers")
	pick.GameID = "stale-id-from-another-feed"
	store := newMemStore(pick)
	r := NewResolver(store, gamesFor(finalGame("g9", "Los Angeles Lakers", "Boston Celtics", "110", "100")), newTestLogger())

	n, err := r.ResolveAllPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, models.ResultWon, store.picks[pick.ID].Result)
}

func TestResolveGroupPanicDoesNotAbortOthers(t *testing.T) {
	nbaPick := testPick(models.BetTypeMoneyline, "Los Angeles Lakers")
	nflPick := testPick(models.BetTypeMoneyline, "Kansas City Chiefs")
	nflPick.Sport = "nfl"
	nflPick.GameID = "g2"
	nflPick.HomeTeam = "Kansas City Chiefs"
	nflPick.AwayTeam = "Buffalo Bills"
	store := newMemStore(nbaPick, nflPick)

	inner := &fixedGames{games: map[string][]sports.Game{
		"nba:2025-01-10": {finalGame("g1", "Los Angeles Lakers", "Boston Celtics", "110", "100")},
	}}
	r := NewResolver(store, &panickyGames{inner: inner, panicOn: "nfl"}, newTestLogger())

	n, err := r.ResolveAllPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, models.ResultWon, store.picks[nbaPick.ID].Result)
	assert.Equal(t, models.ResultPending, store.picks[nflPick.ID].Result)
}
