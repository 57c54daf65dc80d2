package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *PickStore {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Pick{}))

	return NewPickStore(db)
}

func newTestPick(sport, date, betType, pickText string) *Pick {
	p := NewPick()
	p.Sport = sport
	p.Date = date
	p.BetType = betType
	p.Pick = pickText
	p.Odds = -110
	return &p
}

func TestCreateAndGet(t *testing.T) {
	store := newTestStore(t)

	pick := newTestPick("nba", "2026-02-07", BetTypeSpread, "Boston Celtics -3.5")
	require.NoError(t, store.Create(pick))

	got, err := store.GetByID(pick.ID)
	require.NoError(t, err)
	assert.Equal(t, "Boston Celtics -3.5", got.Pick)
	assert.Equal(t, ResultPending, got.Result)
	assert.Zero(t, got.ProfitLoss)
}

func TestListFilters(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Create(newTestPick("nba", "2026-02-07", BetTypeSpread, "Celtics -3.5")))
	require.NoError(t, store.Create(newTestPick("nba", "2026-02-08", BetTypeMoneyline, "Heat")))
	require.NoError(t, store.Create(newTestPick("nhl", "2026-02-07", BetTypeOverUnder, "Over 6.5")))

	nba, err := store.List(PickFilters{Sport: "nba"})
	require.NoError(t, err)
	assert.Len(t, nba, 2)

	day, err := store.List(PickFilters{Date: "2026-02-07"})
	require.NoError(t, err)
	assert.Len(t, day, 2)

	all, err := store.List(PickFilters{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestMarkSettled(t *testing.T) {
	store := newTestStore(t)

	pick := newTestPick("nba", "2026-02-07", BetTypeMoneyline, "Boston Celtics")
	require.NoError(t, store.Create(pick))

	require.NoError(t, store.MarkSettled(pick.ID, ResultWon, 0.91, SettledAuto))

	got, err := store.GetByID(pick.ID)
	require.NoError(t, err)
	assert.Equal(t, ResultWon, got.Result)
	assert.InDelta(t, 0.91, got.ProfitLoss, 0.001)
	assert.Equal(t, SettledAuto, got.ResolvedBy)
}

func TestMarkSettledIsIdempotent(t *testing.T) {
	store := newTestStore(t)

	pick := newTestPick("nba", "2026-02-07", BetTypeMoneyline, "Boston Celtics")
	require.NoError(t, store.Create(pick))
	require.NoError(t, store.MarkSettled(pick.ID, ResultWon, 0.91, SettledAuto))

	// A second settlement attempt with a different outcome must not touch
	// the already-settled row.
	require.NoError(t, store.MarkSettled(pick.ID, ResultLost, -1, SettledAuto))

	got, err := store.GetByID(pick.ID)
	require.NoError(t, err)
	assert.Equal(t, ResultWon, got.Result)
	assert.InDelta(t, 0.91, got.ProfitLoss, 0.001)
}

func TestGetPendingExcludesSettled(t *testing.T) {
	store := newTestStore(t)

	open := newTestPick("nba", "2026-02-07", BetTypeSpread, "Celtics -3.5")
	closed := newTestPick("nba", "2026-02-07", BetTypeSpread, "Heat +3.5")
	require.NoError(t, store.Create(open))
	require.NoError(t, store.Create(closed))
	require.NoError(t, store.MarkSettled(closed.ID, ResultLost, -1, SettledAuto))

	pending, err := store.GetPending()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, open.ID, pending[0].ID)
}

func TestReset(t *testing.T) {
	store := newTestStore(t)

	pick := newTestPick("nba", "2026-02-07", BetTypeMoneyline, "Boston Celtics")
	require.NoError(t, store.Create(pick))
	require.NoError(t, store.MarkSettled(pick.ID, ResultLost, -1, SettledAuto))
	require.NoError(t, store.Reset(pick.ID))

	got, err := store.GetByID(pick.ID)
	require.NoError(t, err)
	assert.Equal(t, ResultPending, got.Result)
	assert.Zero(t, got.ProfitLoss)
}

func TestGetPerformance(t *testing.T) {
	store := newTestStore(t)

	w := newTestPick("nba", "2026-02-07", BetTypeMoneyline, "Celtics")
	l := newTestPick("nba", "2026-02-07", BetTypeSpread, "Heat -2.5")
	p := newTestPick("nba", "2026-02-08", BetTypeOverUnder, "Over 215")
	require.NoError(t, store.Create(w))
	require.NoError(t, store.Create(l))
	require.NoError(t, store.Create(p))
	require.NoError(t, store.MarkSettled(w.ID, ResultWon, 1.5, SettledAuto))
	require.NoError(t, store.MarkSettled(l.ID, ResultLost, -1, SettledAuto))

	perf, err := store.GetPerformance("nba")
	require.NoError(t, err)
	assert.Equal(t, int64(3), perf.Total)
	assert.Equal(t, int64(1), perf.Won)
	assert.Equal(t, int64(1), perf.Lost)
	assert.Equal(t, int64(1), perf.Pending)
	assert.InDelta(t, 0.5, perf.NetUnits, 0.001)
}
