package providers

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/hichigg/betbrain/internal/cache"
	"github.com/hichigg/betbrain/internal/matching"
	"github.com/hichigg/betbrain/internal/sports"
)

const bdlBaseURL = "https://api.balldontlie.io"

// API path prefix per sport.
var bdlSportPrefix = map[string]string{
	"nba": "/v1",
	"nfl": "/nfl/v1",
	"mlb": "/mlb/v1",
	"nhl": "/nhl/v1",
}

// Stat keys used to rank and summarize players, per sport.
var bdlStatKeys = map[string]struct {
	Primary   string
	Secondary []string
}{
	"nba": {Primary: "pts", Secondary: []string{"reb", "ast", "stl", "blk", "fg_pct", "turnover"}},
	"nfl": {Primary: "pass_yds", Secondary: []string{"pass_td", "rush_yds", "rush_td", "rec_yds", "rec_td"}},
	"mlb": {Primary: "hits", Secondary: []string{"home_runs", "rbi", "batting_avg", "stolen_bases"}},
	"nhl": {Primary: "goals", Secondary: []string{"assists", "points", "plus_minus", "shots"}},
}

// BallDontLieClient is the best-effort player-stats provider. It may be
// entirely absent (no API key) or partially available (free tier); every
// path degrades to empty data.
type BallDontLieClient struct {
	api    *apiClient
	cache  *cache.Cache
	logger *logrus.Logger
	apiKey string
}

// NewBallDontLieClient creates a new BallDontLie API client.
func NewBallDontLieClient(apiKey string, c *cache.Cache, failureThreshold uint32, logger *logrus.Logger) *BallDontLieClient {
	return &BallDontLieClient{
		api:    newAPIClient("balldontlie", failureThreshold, logger),
		cache:  c,
		logger: logger,
		apiKey: apiKey,
	}
}

type bdlTeam struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	FullName string `json:"full_name"`
}

type bdlPlayer struct {
	ID        int     `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Position  string  `json:"position"`
	Team      bdlTeam `json:"team"`
}

type bdlPlayersResponse struct {
	Data []bdlPlayer `json:"data"`
}

type bdlSeasonAveragesResponse struct {
	Data []map[string]interface{} `json:"data"`
}

// searchPlayers looks up players by name. Not cached: search terms are
// too varied to be worth the memory.
func (c *BallDontLieClient) searchPlayers(ctx context.Context, sport, name string) ([]bdlPlayer, error) {
	prefix, ok := bdlSportPrefix[sport]
	if !ok {
		return nil, fmt.Errorf("sport %s is not covered by balldontlie", sport)
	}

	path := fmt.Sprintf("%s%s/players?search=%s&per_page=10", bdlBaseURL, prefix, url.QueryEscape(name))
	var resp bdlPlayersResponse
	if err := c.fetch(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// ResolveTeamID maps a schedule-provider team name onto a BallDontLie
// team ID by searching for a player on that team and name-scoring the
// player's team. Results are cached for an hour.
func (c *BallDontLieClient) ResolveTeamID(ctx context.Context, sport, teamName string) (int, bool) {
	if teamName == "" {
		return 0, false
	}

	key := cache.TeamIDKey(sport, matching.Normalize(teamName))
	return cache.GetOrFetch(ctx, c.cache, key, cache.TTLPlayers, func(ctx context.Context) (int, error) {
		words := strings.Fields(teamName)
		mascot := words[len(words)-1]

		players, err := c.searchPlayers(ctx, sport, mascot)
		if err != nil {
			return 0, err
		}

		for _, p := range players {
			bdlName := p.Team.FullName
			if bdlName == "" {
				bdlName = p.Team.Name
			}
			if matching.NameScore(teamName, bdlName) >= 0.6 {
				return p.Team.ID, nil
			}
		}
		return 0, fmt.Errorf("no balldontlie team matched %q", teamName)
	})
}

// teamPlayers fetches the roster for a team.
func (c *BallDontLieClient) teamPlayers(ctx context.Context, sport string, teamID int) ([]bdlPlayer, bool) {
	prefix, ok := bdlSportPrefix[sport]
	if !ok {
		return nil, false
	}

	key := cache.TeamPlayersKey(sport, teamID)
	return cache.GetOrFetch(ctx, c.cache, key, cache.TTLPlayers, func(ctx context.Context) ([]bdlPlayer, error) {
		path := fmt.Sprintf("%s%s/players?team_ids[]=%d&per_page=25", bdlBaseURL, prefix, teamID)
		var resp bdlPlayersResponse
		if err := c.fetch(ctx, path, &resp); err != nil {
			return nil, err
		}
		return resp.Data, nil
	})
}

// seasonAverages fetches a player's season averages. Paid tier only; the
// caller falls back to roster data when it is unavailable.
func (c *BallDontLieClient) seasonAverages(ctx context.Context, sport string, playerID int) (map[string]interface{}, bool) {
	prefix, ok := bdlSportPrefix[sport]
	if !ok {
		return nil, false
	}

	key := cache.PlayerSeasonKey(sport, playerID)
	return cache.GetOrFetch(ctx, c.cache, key, cache.TTLPlayers, func(ctx context.Context) (map[string]interface{}, error) {
		path := fmt.Sprintf("%s%s/season_averages/general?player_id=%d", bdlBaseURL, prefix, playerID)
		var resp bdlSeasonAveragesResponse
		if err := c.fetch(ctx, path, &resp); err != nil {
			return nil, err
		}
		if len(resp.Data) == 0 {
			return nil, fmt.Errorf("no season averages for player %d", playerID)
		}
		return resp.Data[0], nil
	})
}

// TopPlayersForTeam returns up to limit players for a team, ranked by the
// sport's primary stat when season averages are available, otherwise the
// top of the roster with empty stat lines.
func (c *BallDontLieClient) TopPlayersForTeam(ctx context.Context, sport string, teamID, limit int) []sports.PlayerAverages {
	roster, ok := c.teamPlayers(ctx, sport, teamID)
	if !ok || len(roster) == 0 {
		return nil
	}
	if len(roster) > 15 {
		roster = roster[:15]
	}

	keys, hasKeys := bdlStatKeys[sport]
	if !hasKeys {
		keys = bdlStatKeys["nba"]
	}

	var enriched []sports.PlayerAverages
	for _, p := range roster {
		averages, ok := c.seasonAverages(ctx, sport, p.ID)
		if !ok {
			continue
		}

		statLine := make(map[string]float64)
		if v, ok := averages[keys.Primary].(float64); ok {
			statLine[keys.Primary] = v
		}
		for _, k := range keys.Secondary {
			if v, ok := averages[k].(float64); ok {
				statLine[k] = v
			}
		}

		enriched = append(enriched, sports.PlayerAverages{
			ID:       p.ID,
			Name:     playerName(p),
			Position: p.Position,
			Stats:    statLine,
		})
	}

	if len(enriched) > 0 {
		sort.SliceStable(enriched, func(i, j int) bool {
			return enriched[i].Stats[keys.Primary] > enriched[j].Stats[keys.Primary]
		})
		if len(enriched) > limit {
			enriched = enriched[:limit]
		}
		return enriched
	}

	// Free tier: no averages available, return the roster head instead.
	out := make([]sports.PlayerAverages, 0, limit)
	for _, p := range roster {
		if len(out) == limit {
			break
		}
		out = append(out, sports.PlayerAverages{
			ID:       p.ID,
			Name:     playerName(p),
			Position: p.Position,
			Stats:    map[string]float64{},
		})
	}
	return out
}

func playerName(p bdlPlayer) string {
	if p.FirstName != "" || p.LastName != "" {
		return strings.TrimSpace(p.FirstName + " " + p.LastName)
	}
	return fmt.Sprintf("Player #%d", p.ID)
}

func (c *BallDontLieClient) fetch(ctx context.Context, path string, target interface{}) error {
	if c.apiKey == "" {
		return fmt.Errorf("balldontlie api key is not configured")
	}
	return c.api.getJSON(ctx, path, map[string]string{"Authorization": c.apiKey}, target)
}
