package services

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/hichigg/betbrain/internal/matching"
	"github.com/hichigg/betbrain/internal/models"
	"github.com/hichigg/betbrain/internal/sports"
	"github.com/hichigg/betbrain/pkg/odds"
)

// WagerStore is the slice of pick persistence the resolver needs.
type WagerStore interface {
	GetPending() ([]models.Pick, error)
	MarkSettled(id, result string, profitLoss float64, source string) error
}

// GamesSource supplies merged games for a (sport, date). Satisfied by
// *Aggregator.
type GamesSource interface {
	GetGamesForSport(ctx context.Context, sport, date string) []sports.Game
}

var (
	trailingNumberRe = regexp.MustCompile(`[+-]?\d+(\.\d+)?\s*$`)
	spreadRe         = regexp.MustCompile(`([+-]?\d+(?:\.\d+)?)\s*$`)
	totalRe          = regexp.MustCompile(`(?i)\b(over|under)\s+(\d+(?:\.\d+)?)`)
)

// Resolver settles pending picks against final scores.
type Resolver struct {
	store  WagerStore
	games  GamesSource
	logger *logrus.Logger
}

func NewResolver(store WagerStore, games GamesSource, logger *logrus.Logger) *Resolver {
	return &Resolver{store: store, games: games, logger: logger}
}

// ResolveAllPending settles every pending pick whose game has gone final.
// Picks whose game is not found, not final, or whose text cannot be
// parsed stay pending. Safe to call repeatedly: already-settled picks are
// never touched again. Returns the number of picks settled in this pass.
func (r *Resolver) ResolveAllPending(ctx context.Context) (int, error) {
	pending, err := r.store.GetPending()
	if err != nil {
		return 0, fmt.Errorf("loading pending picks: %w", err)
	}
	if len(pending) == 0 {
		return 0, nil
	}

	groups := make(map[string][]models.Pick)
	for _, pick := range pending {
		key := pick.Sport + ":" + pick.Date
		groups[key] = append(groups[key], pick)
	}

	resolved := 0
	for key, picks := range groups {
		resolved += r.resolveGroup(ctx, key, picks)
	}

	if resolved > 0 {
		r.logger.Infof("Resolver: settled %d of %d pending picks", resolved, len(pending))
	}
	return resolved, nil
}

// resolveGroup settles one (sport, date) batch. Failures here are
// contained so other groups still get processed.
func (r *Resolver) resolveGroup(ctx context.Context, key string, picks []models.Pick) (resolved int) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Errorf("Resolver: panic while resolving group %s: %v", key, rec)
		}
	}()

	sport, date := picks[0].Sport, picks[0].Date
	games := r.games.GetGamesForSport(ctx, sport, date)

	finals := make([]sports.Game, 0, len(games))
	for _, g := range games {
		if g.Status == sports.StatusFinal {
			finals = append(finals, g)
		}
	}
	if len(finals) == 0 {
		return 0
	}

	for _, pick := range picks {
		game := findGame(finals, pick)
		if game == nil {
			continue
		}

		result, ok := evaluatePick(pick, game)
		if !ok {
			r.logger.Debugf("Resolver: pick %s (%s %q) not yet resolvable", pick.ID, pick.BetType, pick.Pick)
			continue
		}

		profitLoss := odds.ProfitLoss(result, pick.Odds, pick.Units)
		if err := r.store.MarkSettled(pick.ID, result, profitLoss, models.SettledAuto); err != nil {
			r.logger.Errorf("Resolver: failed to settle pick %s: %v", pick.ID, err)
			continue
		}
		r.logger.Infof("Resolver: pick %s settled %s (%+.2f units)", pick.ID, result, profitLoss)
		resolved++
	}
	return resolved
}

// findGame locates a pick's game among the final games: exact game_id
// first, then team-name matching under the same threshold the odds
// matcher uses.
func findGame(finals []sports.Game, pick models.Pick) *sports.Game {
	if pick.GameID != "" {
		for i := range finals {
			if finals[i].ID == pick.GameID {
				return &finals[i]
			}
		}
	}
	if pick.HomeTeam == "" && pick.AwayTeam == "" {
		return nil
	}

	var best *sports.Game
	bestScore := 0.0
	for i := range finals {
		score := matching.NameScore(pick.HomeTeam, finals[i].Home.Name) +
			matching.NameScore(pick.AwayTeam, finals[i].Away.Name)
		if score > bestScore {
			bestScore = score
			best = &finals[i]
		}
	}
	if bestScore < matching.MatchThreshold {
		return nil
	}
	return best
}

// evaluatePick grades a pick against a final game. The second return is
// false when the pick cannot be graded (unparseable scores or text, or a
// bet type that is never auto-settled).
func evaluatePick(pick models.Pick, game *sports.Game) (string, bool) {
	homeScore, err := strconv.Atoi(game.Home.Score)
	if err != nil {
		return "", false
	}
	awayScore, err := strconv.Atoi(game.Away.Score)
	if err != nil {
		return "", false
	}

	switch pick.BetType {
	case models.BetTypeMoneyline:
		return evaluateMoneyline(pick.Pick, game, homeScore, awayScore)
	case models.BetTypeSpread:
		return evaluateSpread(pick.Pick, game, homeScore, awayScore)
	case models.BetTypeOverUnder:
		return evaluateTotal(pick.Pick, homeScore, awayScore)
	default:
		// player props and unknown types are never auto-settled
		return "", false
	}
}

func evaluateMoneyline(text string, game *sports.Game, homeScore, awayScore int) (string, bool) {
	side, ok := pickSide(text, game)
	if !ok {
		return "", false
	}
	if homeScore == awayScore {
		return models.ResultPush, true
	}

	homeWon := homeScore > awayScore
	if (side == "home") == homeWon {
		return models.ResultWon, true
	}
	return models.ResultLost, true
}

func evaluateSpread(text string, game *sports.Game, homeScore, awayScore int) (string, bool) {
	side, ok := pickSide(text, game)
	if !ok {
		return "", false
	}
	m := spreadRe.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return "", false
	}
	spread, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return "", false
	}

	teamScore, oppScore := float64(homeScore), float64(awayScore)
	if side == "away" {
		teamScore, oppScore = float64(awayScore), float64(homeScore)
	}
	adjusted := teamScore + spread

	switch {
	case adjusted > oppScore:
		return models.ResultWon, true
	case adjusted < oppScore:
		return models.ResultLost, true
	default:
		return models.ResultPush, true
	}
}

func evaluateTotal(text string, homeScore, awayScore int) (string, bool) {
	m := totalRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	line, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return "", false
	}

	total := float64(homeScore + awayScore)
	over := strings.EqualFold(m[1], "over")

	switch {
	case total == line:
		return models.ResultPush, true
	case (total > line) == over:
		return models.ResultWon, true
	default:
		return models.ResultLost, true
	}
}

// pickSide decides which team free-text pick copy refers to. Each side is
// scored against both the raw text and the text with any trailing line
// number stripped; the winning side must clear 0.6 and strictly beat the
// other, otherwise the text is treated as ambiguous.
func pickSide(text string, game *sports.Game) (string, bool) {
	stripped := strings.TrimSpace(trailingNumberRe.ReplaceAllString(text, ""))

	homeScore := sideScore(text, stripped, game.Home.Name)
	awayScore := sideScore(text, stripped, game.Away.Name)

	switch {
	case homeScore >= 0.6 && homeScore > awayScore:
		return "home", true
	case awayScore >= 0.6 && awayScore > homeScore:
		return "away", true
	default:
		return "", false
	}
}

func sideScore(text, stripped, teamName string) float64 {
	score := matching.NameScore(text, teamName)
	if s := matching.NameScore(stripped, teamName); s > score {
		score = s
	}
	return score
}
