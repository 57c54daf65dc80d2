package cache

import "fmt"

// Cache key generators. Keys are namespaced by provider so TTL classes and
// stale fallbacks stay independent across data sources.

func ScheduleKey(league, date string) string {
	return fmt.Sprintf("espn:%s:scores:%s", league, date)
}

func TeamStatsKey(league, teamID string) string {
	return fmt.Sprintf("espn:%s:team:%s:stats", league, teamID)
}

func GameSummaryKey(league, eventID string) string {
	return fmt.Sprintf("espn:%s:game:%s:summary", league, eventID)
}

func StandingsKey(league string) string {
	return fmt.Sprintf("espn:%s:standings", league)
}

func InjuriesKey(league string) string {
	return fmt.Sprintf("espn:%s:injuries", league)
}

func OddsKey(sportKey, date string) string {
	return fmt.Sprintf("odds:%s:%s", sportKey, date)
}

func OddsEventKey(sportKey, eventID string) string {
	return fmt.Sprintf("odds:%s:event:%s", sportKey, eventID)
}

func TeamPlayersKey(sport string, teamID int) string {
	return fmt.Sprintf("bdl:%s:team:%d:players", sport, teamID)
}

func PlayerSeasonKey(sport string, playerID int) string {
	return fmt.Sprintf("bdl:%s:player:%d:season", sport, playerID)
}

func TeamIDKey(sport, normalizedName string) string {
	return fmt.Sprintf("bdl:%s:teamId:%s", sport, normalizedName)
}
