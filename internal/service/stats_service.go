package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/finlay-RTA-commits/RTA-PingPong/internal/league"
	"github.com/finlay-RTA-commits/RTA-PingPong/internal/notify"
	"github.com/finlay-RTA-commits/RTA-PingPong/internal/store"
	"github.com/google/uuid"
	"github.com/itbasis/go-clock"
	"github.com/jmoiron/sqlx"
)

// StatsService records games and recomputes everything that derives from
// them: Elo ratings, win/loss streaks, rivals and achievements. The game row
// and both player updates go through one transaction, so no reader ever sees
// one side's post-game rating without the other's.
type StatsService struct {
	db          *sqlx.DB
	players     *store.PlayerStore
	games       *store.GameStore
	tournaments *TournamentService
	brackets    *BracketService
	notifier    notify.Notifier
	clock       clock.Clock
}

func NewStatsService(db *sqlx.DB, players *store.PlayerStore, games *store.GameStore, tournaments *TournamentService, brackets *BracketService, notifier notify.Notifier, clk clock.Clock) *StatsService {
	return &StatsService{
		db:          db,
		players:     players,
		games:       games,
		tournaments: tournaments,
		brackets:    brackets,
		notifier:    notifier,
		clock:       clk,
	}
}

type LogGameInput struct {
	Player1ID    uuid.UUID
	Player2ID    uuid.UUID
	Score1       int
	Score2       int
	TournamentID *uuid.UUID
	// PlayedAt defaults to the current time when zero.
	PlayedAt time.Time
}

func (s *StatsService) LogGame(ctx context.Context, input LogGameInput) (*league.Game, error) {
	playedAt := input.PlayedAt
	if playedAt.IsZero() {
		playedAt = s.clock.Now()
	}
	game := &league.Game{
		ID:           uuid.New(),
		Player1ID:    input.Player1ID,
		Player2ID:    input.Player2ID,
		Score1:       input.Score1,
		Score2:       input.Score2,
		PlayedAt:     playedAt.UTC(),
		TournamentID: input.TournamentID,
	}
	if err := game.Validate(); err != nil {
		return nil, err
	}

	// Snapshot the pre-game league: current #1 for KING_SLAYER and the name
	// table for rival resolution.
	ranked, err := s.players.Leaderboard(ctx)
	if err != nil {
		return nil, err
	}
	var topID uuid.UUID
	if len(ranked) > 0 {
		topID = ranked[0].ID
	}
	names := make(map[uuid.UUID]string, len(ranked))
	var pre1, pre2 *league.Player
	for i := range ranked {
		names[ranked[i].ID] = ranked[i].Name
		switch ranked[i].ID {
		case game.Player1ID:
			pre1 = &ranked[i]
		case game.Player2ID:
			pre2 = &ranked[i]
		}
	}
	if pre1 == nil {
		return nil, fmt.Errorf("%w: %s", league.ErrPlayerNotFound, game.Player1ID)
	}
	if pre2 == nil {
		return nil, fmt.Errorf("%w: %s", league.ErrPlayerNotFound, game.Player2ID)
	}

	// A game tagged with an unlocked tournament freezes that tournament's
	// seeds before the result lands.
	if game.TournamentID != nil {
		if err := s.tournaments.EnsureLocked(ctx, *game.TournamentID); err != nil {
			return nil, err
		}
	}

	history1, err := s.games.GamesByPlayer(ctx, game.Player1ID)
	if err != nil {
		return nil, err
	}
	history2, err := s.games.GamesByPlayer(ctx, game.Player2ID)
	if err != nil {
		return nil, err
	}
	history1 = append(history1, *game)
	history2 = append(history2, *game)

	upd1, upd2 := *pre1, *pre2
	applyGame(&upd1, &upd2, game, history1, history2, names)

	satisfied1 := evaluateAchievements(achievementContext{
		player: &upd1, prePlayer: pre1, opponent: pre2,
		game: game, history: history1, opponentWasTop: topID == pre2.ID,
	})
	satisfied2 := evaluateAchievements(achievementContext{
		player: &upd2, prePlayer: pre2, opponent: pre1,
		game: game, history: history2, opponentWasTop: topID == pre1.ID,
	})
	events := collectUnlocks(&upd1, satisfied1)
	events = append(events, collectUnlocks(&upd2, satisfied2)...)

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := s.games.CreateGameTx(ctx, tx, game); err != nil {
		return nil, err
	}
	if err := s.players.UpdatePlayerTx(ctx, tx, &upd1); err != nil {
		return nil, err
	}
	if err := s.players.UpdatePlayerTx(ctx, tx, &upd2); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	for _, event := range events {
		s.notifier.Notify(ctx, event)
	}

	if game.TournamentID != nil {
		s.recordTournamentWin(ctx, *game.TournamentID, game.ID)
	}

	return game, nil
}

// applyGame computes both players' post-game records from their pre-game
// state. Elo for each side uses the pre-game ratings of both, so the updates
// carry no sequential dependency.
func applyGame(upd1, upd2 *league.Player, game *league.Game, history1, history2 []league.Game, names map[uuid.UUID]string) {
	elo1, elo2 := upd1.Elo, upd2.Elo
	if game.Won(upd1.ID) {
		upd1.Elo = newRating(elo1, elo2, 1)
		upd2.Elo = newRating(elo2, elo1, 0)
		upd1.Wins++
		upd1.WinStreak++
		upd1.LossStreak = 0
		upd2.Losses++
		upd2.LossStreak++
		upd2.WinStreak = 0
	} else {
		upd1.Elo = newRating(elo1, elo2, 0)
		upd2.Elo = newRating(elo2, elo1, 1)
		upd1.Losses++
		upd1.LossStreak++
		upd1.WinStreak = 0
		upd2.Wins++
		upd2.WinStreak++
		upd2.LossStreak = 0
	}

	upd1.HighestStreak = longestWinRun(history1, upd1.ID)
	upd2.HighestStreak = longestWinRun(history2, upd2.ID)
	upd1.Rival = computeRival(history1, upd1.ID, names)
	upd2.Rival = computeRival(history2, upd2.ID, names)
}

// collectUnlocks stores newly earned achievements on the player (the set only
// ever grows) and returns the events to emit. Repeatable achievements notify
// on every qualifying game even when already stored.
func collectUnlocks(player *league.Player, satisfied []string) []notify.AchievementUnlocked {
	var events []notify.AchievementUnlocked
	for _, id := range satisfied {
		stored := player.HasAchievement(id)
		if !stored {
			player.Achievements = append(player.Achievements, id)
		}
		if !stored || league.AchievementRepeatable(id) {
			events = append(events, notify.AchievementUnlocked{
				PlayerID:      player.ID,
				PlayerName:    player.Name,
				AchievementID: id,
			})
		}
	}
	return events
}

// longestWinRun scans the full chronological history rather than taking
// max(stored, current): an old streak may still be the best one.
func longestWinRun(history []league.Game, playerID uuid.UUID) int {
	best, run := 0, 0
	for _, g := range history {
		if g.Won(playerID) {
			run++
			if run > best {
				best = run
			}
		} else {
			run = 0
		}
	}
	return best
}

// computeRival picks the opponent with the most games against this player.
// Ties break by opponent id so the result is reproducible. Opponents no
// longer on the roster are skipped.
func computeRival(history []league.Game, playerID uuid.UUID, names map[uuid.UUID]string) *string {
	counts := make(map[uuid.UUID]int)
	for _, g := range history {
		counts[g.OpponentID(playerID)]++
	}

	var rivalID uuid.UUID
	best := 0
	for id, n := range counts {
		if _, ok := names[id]; !ok {
			continue
		}
		if n > best || (n == best && best > 0 && id.String() < rivalID.String()) {
			best, rivalID = n, id
		}
	}
	if best == 0 {
		return nil
	}
	name := names[rivalID]
	return &name
}

// recordTournamentWin bumps the champion's trophy count when the logged game
// turns out to be the one that decided the final. Best effort: bracket reads
// here never fail the already-committed game.
func (s *StatsService) recordTournamentWin(ctx context.Context, tournamentID, gameID uuid.UUID) {
	before, err := s.brackets.bracketForTournament(ctx, tournamentID, gameID)
	if err != nil {
		slog.Error("failed to rebuild bracket", "tournament_id", tournamentID, "error", err)
		return
	}
	after, err := s.brackets.BracketForTournament(ctx, tournamentID)
	if err != nil {
		slog.Error("failed to rebuild bracket", "tournament_id", tournamentID, "error", err)
		return
	}

	champion := Champion(after)
	if champion == nil || Champion(before) != nil {
		return
	}
	if err := s.players.IncrementTournamentsWon(ctx, champion.ID); err != nil {
		slog.Error("failed to record tournament win", "player_id", champion.ID, "error", err)
	}
}
