package store

import (
	"context"

	"github.com/finlay-RTA-commits/RTA-PingPong/internal/league"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type GameStore struct {
	db *sqlx.DB
}

func NewGameStore(db *sqlx.DB) *GameStore {
	return &GameStore{db: db}
}

func (s *GameStore) CreateGameTx(ctx context.Context, tx *sqlx.Tx, game *league.Game) error {
	_, err := tx.NamedExecContext(ctx, `INSERT INTO games (id, player1_id, player2_id, score1, score2, played_at, tournament_id)
		VALUES (:id, :player1_id, :player2_id, :score1, :score2, :played_at, :tournament_id)`, game)
	return err
}

func (s *GameStore) ListGames(ctx context.Context) ([]league.Game, error) {
	var games []league.Game
	err := s.db.SelectContext(ctx, &games, "SELECT * FROM games ORDER BY played_at DESC, id DESC")
	return games, err
}

// GamesByPlayer returns a player's full game history in chronological order.
// Streak and rival recomputation depend on this ordering.
func (s *GameStore) GamesByPlayer(ctx context.Context, playerID uuid.UUID) ([]league.Game, error) {
	var games []league.Game
	err := s.db.SelectContext(ctx, &games,
		"SELECT * FROM games WHERE player1_id = ? OR player2_id = ? ORDER BY played_at ASC, id ASC",
		playerID, playerID)
	return games, err
}

func (s *GameStore) GamesByTournament(ctx context.Context, tournamentID uuid.UUID) ([]league.Game, error) {
	var games []league.Game
	err := s.db.SelectContext(ctx, &games,
		"SELECT * FROM games WHERE tournament_id = ? ORDER BY played_at ASC, id ASC", tournamentID)
	return games, err
}
