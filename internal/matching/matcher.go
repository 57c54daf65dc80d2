// Package matching implements the team-name comparison used to reconcile
// events across providers that spell the same team differently.
package matching

import (
	"regexp"
	"strings"

	"github.com/hichigg/betbrain/internal/sports"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9 ]`)

// Token-level expansions for abbreviations the two providers disagree on.
var tokenAliases = map[string]string{
	"st": "state",
	"la": "los angeles",
	"ny": "new york",
}

// Normalize lowercases a team name, strips punctuation, and expands common
// city and institutional abbreviations so provider spellings compare equal.
func Normalize(name string) string {
	n := strings.ToLower(name)
	n = nonAlnum.ReplaceAllString(n, "")

	words := strings.Fields(n)
	for i, w := range words {
		if alias, ok := tokenAliases[w]; ok {
			words[i] = alias
		}
	}
	return strings.Join(words, " ")
}

// NameScore scores how well two team names match on a coarse discrete
// scale: 1.0 for identical normalized forms, 0.8 when one contains the
// other, 0.6 when the final token (typically the mascot or surname)
// matches and is longer than two characters, 0 otherwise.
//
// This is deliberately not a general string-distance metric. Team names
// are short, mostly disjoint vocabularies and these three rules resolve
// nearly every real pairing.
func NameScore(a, b string) float64 {
	na := Normalize(a)
	nb := Normalize(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1.0
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return 0.8
	}

	wordsA := strings.Fields(na)
	wordsB := strings.Fields(nb)
	lastA := wordsA[len(wordsA)-1]
	lastB := wordsB[len(wordsB)-1]
	if len(lastA) > 2 && lastA == lastB {
		return 0.6
	}

	return 0
}

// MatchThreshold is the minimum combined home+away score for a cross-
// provider event match to be accepted. It requires at least one side to
// be an exact or containment match.
const MatchThreshold = 1.0

// MatchOdds assigns odds events to schedule events by combined team-name
// score. Assignment is greedy and one-to-one: events are processed in
// schedule order, each claims its best-scoring remaining odds event, and a
// claimed odds event leaves the pool. Events whose best combined score is
// below MatchThreshold stay unmatched.
func MatchOdds(events []sports.ScheduleEvent, oddsEvents []sports.OddsEvent) map[string]sports.OddsEvent {
	matched := make(map[string]sports.OddsEvent)
	if len(events) == 0 || len(oddsEvents) == 0 {
		return matched
	}

	remaining := make([]sports.OddsEvent, len(oddsEvents))
	copy(remaining, oddsEvents)

	for _, ev := range events {
		bestIdx := -1
		bestScore := 0.0

		for i, oddsEv := range remaining {
			combined := NameScore(ev.Home.Name, oddsEv.HomeTeam) + NameScore(ev.Away.Name, oddsEv.AwayTeam)
			if combined > bestScore {
				bestScore = combined
				bestIdx = i
			}
		}

		if bestScore >= MatchThreshold && bestIdx != -1 {
			matched[ev.ID] = remaining[bestIdx]
			remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
		}
	}

	return matched
}
