package sports

// Mapping ties an app sport key to the URL segments and sport keys each
// provider uses for the same league.
type Mapping struct {
	ESPNSport  string // ESPN {sport} path segment
	ESPNLeague string // ESPN {league} path segment
	OddsAPIKey string // The Odds API sport key
	Name       string
}

var mappings = map[string]Mapping{
	"nfl":   {ESPNSport: "football", ESPNLeague: "nfl", OddsAPIKey: "americanfootball_nfl", Name: "NFL"},
	"ncaaf": {ESPNSport: "football", ESPNLeague: "college-football", OddsAPIKey: "americanfootball_ncaaf", Name: "College Football"},
	"nba":   {ESPNSport: "basketball", ESPNLeague: "nba", OddsAPIKey: "basketball_nba", Name: "NBA"},
	"ncaab": {ESPNSport: "basketball", ESPNLeague: "mens-college-basketball", OddsAPIKey: "basketball_ncaab", Name: "College Basketball"},
	"mlb":   {ESPNSport: "baseball", ESPNLeague: "mlb", OddsAPIKey: "baseball_mlb", Name: "MLB"},
	"nhl":   {ESPNSport: "hockey", ESPNLeague: "nhl", OddsAPIKey: "icehockey_nhl", Name: "NHL"},
}

// GetMapping looks up the provider mapping for an app sport key.
func GetMapping(sport string) (Mapping, bool) {
	m, ok := mappings[sport]
	return m, ok
}

// SupportedSports returns all app sport keys with provider mappings.
func SupportedSports() []string {
	keys := make([]string, 0, len(mappings))
	for k := range mappings {
		keys = append(keys, k)
	}
	return keys
}
