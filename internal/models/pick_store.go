package models

import (
	"fmt"

	"gorm.io/gorm"
)

// PickStore persists wagers. The resolver only ever selects pending rows
// and settles each at most once.
type PickStore struct {
	db *gorm.DB
}

// NewPickStore creates a pick store on the given database.
func NewPickStore(db *gorm.DB) *PickStore {
	return &PickStore{db: db}
}

// Create inserts a new pick.
func (s *PickStore) Create(pick *Pick) error {
	if err := s.db.Create(pick).Error; err != nil {
		return fmt.Errorf("failed to create pick: %w", err)
	}
	return nil
}

// GetByID fetches one pick.
func (s *PickStore) GetByID(id string) (*Pick, error) {
	var pick Pick
	if err := s.db.First(&pick, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("pick not found: %w", err)
	}
	return &pick, nil
}

// PickFilters narrows List results. Zero values are ignored.
type PickFilters struct {
	Sport  string
	Date   string
	Result string
}

// List returns picks matching the filters, newest first.
func (s *PickStore) List(filters PickFilters) ([]Pick, error) {
	query := s.db.Model(&Pick{})
	if filters.Sport != "" {
		query = query.Where("sport = ?", filters.Sport)
	}
	if filters.Date != "" {
		query = query.Where("date = ?", filters.Date)
	}
	if filters.Result != "" {
		query = query.Where("result = ?", filters.Result)
	}

	var picks []Pick
	if err := query.Order("created_at DESC").Find(&picks).Error; err != nil {
		return nil, fmt.Errorf("failed to list picks: %w", err)
	}
	return picks, nil
}

// GetPending returns every unsettled pick.
func (s *PickStore) GetPending() ([]Pick, error) {
	return s.List(PickFilters{Result: ResultPending})
}

// MarkSettled transitions a pending pick to a terminal result and records
// its profit/loss and settlement source. Settling an already-settled pick
// is a no-op, which is what makes repeated resolver passes idempotent.
func (s *PickStore) MarkSettled(id, result string, profitLoss float64, source string) error {
	res := s.db.Model(&Pick{}).
		Where("id = ? AND result = ?", id, ResultPending).
		Updates(map[string]interface{}{
			"result":      result,
			"profit_loss": profitLoss,
			"resolved_by": source,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to settle pick %s: %w", id, res.Error)
	}
	return nil
}

// Reset returns a settled pick to pending. Only reachable through a human
// action, never from the automatic resolver.
func (s *PickStore) Reset(id string) error {
	res := s.db.Model(&Pick{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"result":      ResultPending,
			"profit_loss": 0.0,
			"resolved_by": "",
		})
	if res.Error != nil {
		return fmt.Errorf("failed to reset pick %s: %w", id, res.Error)
	}
	return nil
}

// Delete removes a pick.
func (s *PickStore) Delete(id string) error {
	if err := s.db.Delete(&Pick{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete pick %s: %w", id, err)
	}
	return nil
}

// Performance aggregates settled results for one sport (or all sports
// when Sport is empty in the query).
type Performance struct {
	Sport    string  `json:"sport"`
	Total    int64   `json:"total"`
	Won      int64   `json:"won"`
	Lost     int64   `json:"lost"`
	Push     int64   `json:"push"`
	Pending  int64   `json:"pending"`
	NetUnits float64 `json:"net_units"`
}

// GetPerformance summarizes pick outcomes, optionally filtered by sport.
func (s *PickStore) GetPerformance(sport string) (*Performance, error) {
	query := s.db.Model(&Pick{})
	if sport != "" {
		query = query.Where("sport = ?", sport)
	}

	var rows []struct {
		Result     string
		Count      int64
		ProfitLoss float64
	}
	err := query.
		Select("result, COUNT(*) as count, COALESCE(SUM(profit_loss), 0) as profit_loss").
		Group("result").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute performance: %w", err)
	}

	perf := &Performance{Sport: sport}
	for _, row := range rows {
		perf.Total += row.Count
		perf.NetUnits += row.ProfitLoss
		switch row.Result {
		case ResultWon:
			perf.Won = row.Count
		case ResultLost:
			perf.Lost = row.Count
		case ResultPush:
			perf.Push = row.Count
		case ResultPending:
			perf.Pending = row.Count
		}
	}
	return perf, nil
}
