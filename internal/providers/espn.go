package providers

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/hichigg/betbrain/internal/cache"
	"github.com/hichigg/betbrain/internal/sports"
)

const (
	espnBaseURL        = "https://site.api.espn.com/apis/site/v2/sports"
	espnSummaryBaseURL = "https://site.web.api.espn.com/apis/site/v2/sports"
)

// ESPNClient is the schedule/score and injury provider. Every public call
// is routed through the cache; failures degrade to absence.
type ESPNClient struct {
	api    *apiClient
	cache  *cache.Cache
	logger *logrus.Logger
}

// NewESPNClient creates a new ESPN API client.
func NewESPNClient(c *cache.Cache, failureThreshold uint32, logger *logrus.Logger) *ESPNClient {
	return &ESPNClient{
		api:    newAPIClient("espn", failureThreshold, logger),
		cache:  c,
		logger: logger,
	}
}

// ── Wire formats ────────────────────────────────────────────────────

type espnTeam struct {
	ID               string `json:"id"`
	DisplayName      string `json:"displayName"`
	ShortDisplayName string `json:"shortDisplayName"`
	Abbreviation     string `json:"abbreviation"`
	Logo             string `json:"logo"`
}

type espnStatusType struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ShortDetail string `json:"shortDetail"`
}

type espnCompetitor struct {
	ID       string   `json:"id"`
	HomeAway string   `json:"homeAway"`
	Score    string   `json:"score"`
	Winner   *bool    `json:"winner"`
	Team     espnTeam `json:"team"`
	Records  []struct {
		Type    string `json:"type"`
		Summary string `json:"summary"`
	} `json:"records"`
	Statistics []struct {
		Name         string `json:"name"`
		DisplayValue string `json:"displayValue"`
	} `json:"statistics"`
}

type espnVenue struct {
	FullName string `json:"fullName"`
	Capacity int    `json:"capacity"`
	Address  struct {
		City  string `json:"city"`
		State string `json:"state"`
	} `json:"address"`
}

type espnScoreboardResponse struct {
	Events []struct {
		ID           string `json:"id"`
		Date         string `json:"date"`
		Name         string `json:"name"`
		ShortName    string `json:"shortName"`
		Competitions []struct {
			Venue  *espnVenue `json:"venue"`
			Status struct {
				Type espnStatusType `json:"type"`
			} `json:"status"`
			Competitors []espnCompetitor `json:"competitors"`
		} `json:"competitions"`
	} `json:"events"`
}

type espnInjuriesResponse struct {
	Injuries []struct {
		Team struct {
			ID string `json:"id"`
		} `json:"team"`
		Injuries []struct {
			Status  string `json:"status"`
			Athlete struct {
				DisplayName string `json:"displayName"`
				Position    struct {
					Abbreviation string `json:"abbreviation"`
				} `json:"position"`
			} `json:"athlete"`
			Type struct {
				Description string `json:"description"`
			} `json:"type"`
			Details struct {
				Detail string `json:"detail"`
			} `json:"details"`
		} `json:"injuries"`
	} `json:"injuries"`
}

type espnStatCategories struct {
	Categories []struct {
		Stats []struct {
			Name         string  `json:"name"`
			Value        float64 `json:"value"`
			DisplayValue string  `json:"displayValue"`
			Rank         *int    `json:"rank"`
		} `json:"stats"`
	} `json:"categories"`
}

type espnTeamStatsResponse struct {
	Results struct {
		Stats espnStatCategories `json:"stats"`
	} `json:"results"`
	Statistics struct {
		Splits espnStatCategories `json:"splits"`
	} `json:"statistics"`
}

type espnStandingsEntries struct {
	Entries []struct {
		Team espnTeam `json:"team"`
		Stats []struct {
			Name         string  `json:"name"`
			Value        float64 `json:"value"`
			DisplayValue string  `json:"displayValue"`
			Summary      string  `json:"summary"`
		} `json:"stats"`
	} `json:"entries"`
}

type espnStandingsResponse struct {
	Children []struct {
		Name      string               `json:"name"`
		Standings espnStandingsEntries `json:"standings"`
	} `json:"children"`
	Standings espnStandingsEntries `json:"standings"`
}

type espnSummaryResponse struct {
	Header struct {
		GameNote     string `json:"gameNote"`
		Competitions []struct {
			Date   string `json:"date"`
			Status struct {
				Type espnStatusType `json:"type"`
			} `json:"status"`
			Competitors []struct {
				ID       string   `json:"id"`
				HomeAway string   `json:"homeAway"`
				Team     espnTeam `json:"team"`
				Record   []struct {
					DisplayValue string `json:"displayValue"`
				} `json:"record"`
			} `json:"competitors"`
		} `json:"competitions"`
	} `json:"header"`
	GameInfo struct {
		Venue *espnVenue `json:"venue"`
	} `json:"gameInfo"`
	Leaders []struct {
		DisplayName string `json:"displayName"`
		Leaders     []struct {
			DisplayValue string `json:"displayValue"`
			Athlete      struct {
				DisplayName string `json:"displayName"`
				Team        struct {
					Abbreviation string `json:"abbreviation"`
				} `json:"team"`
			} `json:"athlete"`
		} `json:"leaders"`
	} `json:"leaders"`
}

// ── Public API ──────────────────────────────────────────────────────

// GetScoreboard fetches the schedule events for a league on a date
// (YYYYMMDD). Absence means the provider and the stale tier both came up
// empty.
func (c *ESPNClient) GetScoreboard(ctx context.Context, m sports.Mapping, date string) ([]sports.ScheduleEvent, bool) {
	url := fmt.Sprintf("%s/%s/%s/scoreboard?dates=%s", espnBaseURL, m.ESPNSport, m.ESPNLeague, date)
	key := cache.ScheduleKey(m.ESPNLeague, date)

	return cache.GetOrFetch(ctx, c.cache, key, cache.TTLSchedule, func(ctx context.Context) ([]sports.ScheduleEvent, error) {
		var resp espnScoreboardResponse
		if err := c.api.getJSON(ctx, url, nil, &resp); err != nil {
			return nil, fmt.Errorf("scoreboard fetch failed: %w", err)
		}
		return c.extractEvents(resp), nil
	})
}

// GetInjuries fetches the league-wide injury report.
func (c *ESPNClient) GetInjuries(ctx context.Context, m sports.Mapping) ([]sports.TeamInjuryReport, bool) {
	url := fmt.Sprintf("%s/%s/%s/injuries", espnBaseURL, m.ESPNSport, m.ESPNLeague)
	key := cache.InjuriesKey(m.ESPNLeague)

	return cache.GetOrFetch(ctx, c.cache, key, cache.TTLSchedule, func(ctx context.Context) ([]sports.TeamInjuryReport, error) {
		var resp espnInjuriesResponse
		if err := c.api.getJSON(ctx, url, nil, &resp); err != nil {
			return nil, fmt.Errorf("injuries fetch failed: %w", err)
		}

		reports := make([]sports.TeamInjuryReport, 0, len(resp.Injuries))
		for _, entry := range resp.Injuries {
			report := sports.TeamInjuryReport{TeamID: entry.Team.ID}
			for _, inj := range entry.Injuries {
				description := inj.Type.Description
				if description == "" {
					description = inj.Details.Detail
				}
				report.Injuries = append(report.Injuries, sports.Injury{
					Name:        inj.Athlete.DisplayName,
					Position:    inj.Athlete.Position.Abbreviation,
					Status:      inj.Status,
					Description: description,
				})
			}
			reports = append(reports, report)
		}
		return reports, nil
	})
}

// GetTeamStats fetches season-level statistics for one team as a flat
// stat-name map.
func (c *ESPNClient) GetTeamStats(ctx context.Context, m sports.Mapping, teamID string) (map[string]sports.StatLine, bool) {
	url := fmt.Sprintf("%s/%s/%s/teams/%s/statistics", espnBaseURL, m.ESPNSport, m.ESPNLeague, teamID)
	key := cache.TeamStatsKey(m.ESPNLeague, teamID)

	return cache.GetOrFetch(ctx, c.cache, key, cache.TTLTeamStats, func(ctx context.Context) (map[string]sports.StatLine, error) {
		var resp espnTeamStatsResponse
		if err := c.api.getJSON(ctx, url, nil, &resp); err != nil {
			return nil, fmt.Errorf("team stats fetch failed: %w", err)
		}

		// The stats payload shape differs between leagues.
		categories := resp.Results.Stats.Categories
		if len(categories) == 0 {
			categories = resp.Statistics.Splits.Categories
		}

		flat := make(map[string]sports.StatLine)
		for _, cat := range categories {
			for _, stat := range cat.Stats {
				flat[stat.Name] = sports.StatLine{
					Value:        stat.Value,
					DisplayValue: stat.DisplayValue,
					Rank:         stat.Rank,
				}
			}
		}
		return flat, nil
	})
}

// GetStandings fetches the league table, grouped by conference or
// division where the league has them.
func (c *ESPNClient) GetStandings(ctx context.Context, m sports.Mapping) ([]sports.StandingsGroup, bool) {
	url := fmt.Sprintf("%s/%s/%s/standings", espnBaseURL, m.ESPNSport, m.ESPNLeague)
	key := cache.StandingsKey(m.ESPNLeague)

	return cache.GetOrFetch(ctx, c.cache, key, cache.TTLTeamStats, func(ctx context.Context) ([]sports.StandingsGroup, error) {
		var resp espnStandingsResponse
		if err := c.api.getJSON(ctx, url, nil, &resp); err != nil {
			return nil, fmt.Errorf("standings fetch failed: %w", err)
		}
		return extractStandings(resp, m.Name), nil
	})
}

// GetGameSummary fetches the single-game detail payload.
func (c *ESPNClient) GetGameSummary(ctx context.Context, m sports.Mapping, eventID string) (*sports.GameSummary, bool) {
	url := fmt.Sprintf("%s/%s/%s/summary?event=%s", espnSummaryBaseURL, m.ESPNSport, m.ESPNLeague, eventID)
	key := cache.GameSummaryKey(m.ESPNLeague, eventID)

	return cache.GetOrFetch(ctx, c.cache, key, cache.TTLSchedule, func(ctx context.Context) (*sports.GameSummary, error) {
		var resp espnSummaryResponse
		if err := c.api.getJSON(ctx, url, nil, &resp); err != nil {
			return nil, fmt.Errorf("game summary fetch failed: %w", err)
		}
		if len(resp.Header.Competitions) == 0 {
			return nil, fmt.Errorf("summary for event %s has no competition", eventID)
		}
		return c.extractSummary(resp), nil
	})
}

// ── Extraction ──────────────────────────────────────────────────────

func (c *ESPNClient) extractEvents(resp espnScoreboardResponse) []sports.ScheduleEvent {
	events := make([]sports.ScheduleEvent, 0, len(resp.Events))
	for _, ev := range resp.Events {
		if len(ev.Competitions) == 0 {
			continue
		}
		comp := ev.Competitions[0]

		var home, away *espnCompetitor
		for i := range comp.Competitors {
			switch comp.Competitors[i].HomeAway {
			case "home":
				home = &comp.Competitors[i]
			case "away":
				away = &comp.Competitors[i]
			}
		}
		if home == nil || away == nil {
			c.logger.Warnf("ESPN event %s is missing a competitor side, skipping", ev.ID)
			continue
		}

		events = append(events, sports.ScheduleEvent{
			ID:        ev.ID,
			Date:      ev.Date,
			Name:      ev.Name,
			ShortName: ev.ShortName,
			Status:    mapStatus(comp.Status.Type.Name),
			Detail:    statusDetail(comp.Status.Type),
			Venue:     extractVenue(comp.Venue),
			Home:      extractCompetitor(*home),
			Away:      extractCompetitor(*away),
		})
	}
	return events
}

func (c *ESPNClient) extractSummary(resp espnSummaryResponse) *sports.GameSummary {
	comp := resp.Header.Competitions[0]

	summary := &sports.GameSummary{
		Date:   comp.Date,
		Name:   resp.Header.GameNote,
		Status: mapStatus(comp.Status.Type.Name),
		Detail: comp.Status.Type.Description,
		Venue:  extractVenue(resp.GameInfo.Venue),
	}

	for _, competitor := range comp.Competitors {
		side := sports.SummaryCompetitor{
			ID:           competitor.ID,
			Name:         competitor.Team.DisplayName,
			ShortName:    competitor.Team.ShortDisplayName,
			Abbreviation: competitor.Team.Abbreviation,
			Logo:         competitor.Team.Logo,
		}
		if len(competitor.Record) > 0 {
			side.Record = competitor.Record[0].DisplayValue
		}
		if competitor.HomeAway == "home" {
			summary.Home = side
		} else {
			summary.Away = side
		}
	}

	for _, cat := range resp.Leaders {
		category := sports.LeaderCategory{Category: cat.DisplayName}
		for _, l := range cat.Leaders {
			category.Leaders = append(category.Leaders, sports.Entry{
				Name:  l.Athlete.DisplayName,
				Team:  l.Athlete.Team.Abbreviation,
				Value: l.DisplayValue,
			})
		}
		summary.Leaders = append(summary.Leaders, category)
	}

	return summary
}

func extractStandings(resp espnStandingsResponse, leagueName string) []sports.StandingsGroup {
	// Leagues with conferences nest tables under children; the rest
	// expose a single top-level table.
	if len(resp.Children) == 0 {
		if len(resp.Standings.Entries) == 0 {
			return nil
		}
		return []sports.StandingsGroup{extractStandingsGroup(leagueName, resp.Standings)}
	}

	groups := make([]sports.StandingsGroup, 0, len(resp.Children))
	for _, child := range resp.Children {
		groups = append(groups, extractStandingsGroup(child.Name, child.Standings))
	}
	return groups
}

func extractStandingsGroup(name string, table espnStandingsEntries) sports.StandingsGroup {
	group := sports.StandingsGroup{Name: name}
	for _, row := range table.Entries {
		entry := sports.StandingEntry{
			TeamID:       row.Team.ID,
			Name:         row.Team.DisplayName,
			Abbreviation: row.Team.Abbreviation,
		}
		for _, stat := range row.Stats {
			switch stat.Name {
			case "wins":
				entry.Wins = int(stat.Value)
			case "losses":
				entry.Losses = int(stat.Value)
			case "winPercent":
				entry.WinPercent = stat.Value
			case "overall":
				entry.Summary = stat.Summary
				if entry.Summary == "" {
					entry.Summary = stat.DisplayValue
				}
			}
		}
		group.Entries = append(group.Entries, entry)
	}
	return group
}

func extractCompetitor(comp espnCompetitor) sports.Competitor {
	out := sports.Competitor{
		TeamID:       comp.Team.ID,
		Name:         comp.Team.DisplayName,
		ShortName:    comp.Team.ShortDisplayName,
		Abbreviation: comp.Team.Abbreviation,
		Logo:         comp.Team.Logo,
		Score:        comp.Score,
		Winner:       comp.Winner,
		Stats:        make(map[string]string),
	}

	for _, record := range comp.Records {
		switch record.Type {
		case "total":
			out.Record = record.Summary
		case "home":
			out.HomeRecord = record.Summary
		case "road":
			out.AwayRecord = record.Summary
		}
	}
	for _, stat := range comp.Statistics {
		out.Stats[stat.Name] = stat.DisplayValue
	}
	return out
}

func extractVenue(v *espnVenue) *sports.Venue {
	if v == nil {
		return nil
	}
	return &sports.Venue{
		Name:     v.FullName,
		City:     v.Address.City,
		State:    v.Address.State,
		Capacity: v.Capacity,
	}
}

func statusDetail(t espnStatusType) string {
	if t.Description != "" {
		return t.Description
	}
	return t.ShortDetail
}

func mapStatus(name string) sports.GameStatus {
	switch {
	case name == "STATUS_SCHEDULED":
		return sports.StatusScheduled
	case name == "STATUS_FINAL":
		return sports.StatusFinal
	case name == "":
		return sports.StatusUnknown
	case strings.HasPrefix(name, "STATUS_"):
		return sports.StatusInProgress
	default:
		return sports.StatusUnknown
	}
}
