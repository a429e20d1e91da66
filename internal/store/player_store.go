package store

import (
	"context"

	"github.com/finlay-RTA-commits/RTA-PingPong/internal/league"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type PlayerStore struct {
	db *sqlx.DB
}

const (
	createPlayerQuery = `
		INSERT INTO players (id, name, wins, losses, win_streak, loss_streak, highest_streak, elo, rival, achievements, tournaments_won, avatar_url, created_at)
		VALUES (:id, :name, :wins, :losses, :win_streak, :loss_streak, :highest_streak, :elo, :rival, :achievements, :tournaments_won, :avatar_url, :created_at)
	`
	updatePlayerQuery = `
		UPDATE players SET
		name = :name,
		wins = :wins,
		losses = :losses,
		win_streak = :win_streak,
		loss_streak = :loss_streak,
		highest_streak = :highest_streak,
		elo = :elo,
		rival = :rival,
		achievements = :achievements,
		tournaments_won = :tournaments_won,
		avatar_url = :avatar_url
		WHERE id = :id
	`
)

func NewPlayerStore(db *sqlx.DB) *PlayerStore {
	return &PlayerStore{db: db}
}

func (s *PlayerStore) CreatePlayer(ctx context.Context, player *league.Player) error {
	_, err := s.db.NamedExecContext(ctx, createPlayerQuery, player)
	return err
}

func (s *PlayerStore) GetPlayer(ctx context.Context, id uuid.UUID) (*league.Player, error) {
	var player league.Player
	err := s.db.GetContext(ctx, &player, "SELECT * FROM players WHERE id = ?", id)
	return &player, err
}

func (s *PlayerStore) ListPlayers(ctx context.Context) ([]league.Player, error) {
	var players []league.Player
	err := s.db.SelectContext(ctx, &players, "SELECT * FROM players ORDER BY name ASC, id ASC")
	return players, err
}

// Leaderboard returns all players ordered by Elo, ties broken by name then id
// so the ranking is stable between reads.
func (s *PlayerStore) Leaderboard(ctx context.Context) ([]league.Player, error) {
	var players []league.Player
	err := s.db.SelectContext(ctx, &players, "SELECT * FROM players ORDER BY elo DESC, name ASC, id ASC")
	return players, err
}

func (s *PlayerStore) DeletePlayer(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM players WHERE id = ?", id)
	return err
}

// UpdatePlayerTx writes a player inside the caller's transaction. Both
// participants of a game go through the same transaction so a reader never
// sees one side's post-game rating without the other's.
func (s *PlayerStore) UpdatePlayerTx(ctx context.Context, tx *sqlx.Tx, player *league.Player) error {
	_, err := tx.NamedExecContext(ctx, updatePlayerQuery, player)
	return err
}

func (s *PlayerStore) UpdatePlayer(ctx context.Context, player *league.Player) error {
	_, err := s.db.NamedExecContext(ctx, updatePlayerQuery, player)
	return err
}

// IncrementTournamentsWon bumps a player's trophy count.
func (s *PlayerStore) IncrementTournamentsWon(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, "UPDATE players SET tournaments_won = tournaments_won + 1 WHERE id = ?", id)
	return err
}
