package service

import (
	"log/slog"

	"github.com/finlay-RTA-commits/RTA-PingPong/internal/league"
)

// achievementContext is everything a rule may inspect: the player's post-game
// record, both players' pre-game records, the game itself and the player's
// chronological history including that game.
type achievementContext struct {
	player         *league.Player // state after this game's update
	prePlayer      *league.Player // state before this game
	opponent       *league.Player // opponent's state before this game
	game           *league.Game
	history        []league.Game // chronological, includes game
	opponentWasTop bool          // opponent held Elo rank #1 before this game
}

type achievementRule struct {
	id        string
	satisfied func(achievementContext) bool
}

var achievementRules = []achievementRule{
	{league.AchWelcomeToTheParty, func(c achievementContext) bool {
		return len(c.history) == 1
	}},
	{league.AchWelcomeToTheBigLeagues, func(c achievementContext) bool {
		if c.game.TournamentID == nil {
			return false
		}
		for _, g := range c.history {
			if g.ID != c.game.ID && g.TournamentID != nil {
				return false
			}
		}
		return true
	}},
	{league.AchKingSlayer, func(c achievementContext) bool {
		return c.game.Won(c.player.ID) && c.opponentWasTop
	}},
	{league.AchHotStreak, func(c achievementContext) bool {
		return c.player.WinStreak >= 5
	}},
	{league.AchButterfingers, func(c achievementContext) bool {
		return c.player.LossStreak >= 5
	}},
	{league.AchRivalRevenge, func(c achievementContext) bool {
		return c.game.Won(c.player.ID) && c.prePlayer.Rival != nil && *c.prePlayer.Rival == c.opponent.Name
	}},
	{league.AchCoinFlipChampion, func(c achievementContext) bool {
		if len(c.history) < 3 {
			return false
		}
		for _, g := range c.history[len(c.history)-3:] {
			own, opp := g.ScoreFor(c.player.ID)
			if own != 2 || opp != 1 {
				return false
			}
		}
		return true
	}},
	{league.AchYoYo, func(c achievementContext) bool {
		if len(c.history) < 6 {
			return false
		}
		last := c.history[len(c.history)-6:]
		for i := 1; i < len(last); i++ {
			if last[i].Won(c.player.ID) == last[i-1].Won(c.player.ID) {
				return false
			}
		}
		return true
	}},
	{league.AchShouldBeWorking, func(c achievementContext) bool {
		return c.game.Won(c.player.ID) && c.game.PlayedAt.UTC().Hour() < 11
	}},
}

// evaluateAchievements returns every achievement id the game satisfies for
// this player. Rules are isolated: one panicking rule is logged and skipped,
// it never blocks the game from being recorded or other rules from running.
func evaluateAchievements(c achievementContext) []string {
	var satisfied []string
	for _, rule := range achievementRules {
		if checkRule(rule, c) {
			satisfied = append(satisfied, rule.id)
		}
	}
	return satisfied
}

func checkRule(rule achievementRule, c achievementContext) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("achievement rule failed", "achievement", rule.id, "panic", r)
			ok = false
		}
	}()
	return rule.satisfied(c)
}
