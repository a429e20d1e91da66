package store

import (
	"context"
	"time"

	"github.com/finlay-RTA-commits/RTA-PingPong/internal/league"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type TournamentStore struct {
	db *sqlx.DB
}

func NewTournamentStore(db *sqlx.DB) *TournamentStore {
	return &TournamentStore{db: db}
}

func (s *TournamentStore) CreateTournament(ctx context.Context, tournament *league.Tournament) error {
	_, err := s.db.NamedExecContext(ctx, `INSERT INTO tournaments (id, owner_id, name, date, image_url, enrolled_ids, locked, seed_ids, bracket_size, started_at, play_in_ids, created_at)
		VALUES (:id, :owner_id, :name, :date, :image_url, :enrolled_ids, :locked, :seed_ids, :bracket_size, :started_at, :play_in_ids, :created_at)`, tournament)
	return err
}

func (s *TournamentStore) GetTournament(ctx context.Context, id uuid.UUID) (*league.Tournament, error) {
	var tournament league.Tournament
	err := s.db.GetContext(ctx, &tournament, "SELECT * FROM tournaments WHERE id = ?", id)
	return &tournament, err
}

func (s *TournamentStore) ListTournaments(ctx context.Context) ([]league.Tournament, error) {
	var tournaments []league.Tournament
	err := s.db.SelectContext(ctx, &tournaments, "SELECT * FROM tournaments ORDER BY created_at DESC")
	return tournaments, err
}

func (s *TournamentStore) UpdateDetails(ctx context.Context, tournament *league.Tournament) error {
	_, err := s.db.NamedExecContext(ctx, `UPDATE tournaments SET
		name = :name, date = :date, image_url = :image_url WHERE id = :id`, tournament)
	return err
}

func (s *TournamentStore) DeleteTournament(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM tournaments WHERE id = ?", id)
	return err
}

func (s *TournamentStore) UpdateEnrolled(ctx context.Context, id uuid.UUID, enrolled league.StringList) error {
	_, err := s.db.ExecContext(ctx, "UPDATE tournaments SET enrolled_ids = ? WHERE id = ?", enrolled, id)
	return err
}

func (s *TournamentStore) UpdateSeeds(ctx context.Context, id uuid.UUID, seeds league.StringList) error {
	_, err := s.db.ExecContext(ctx, "UPDATE tournaments SET seed_ids = ? WHERE id = ?", seeds, id)
	return err
}

func (s *TournamentStore) UpdatePlayIns(ctx context.Context, id uuid.UUID, playIns league.StringList) error {
	_, err := s.db.ExecContext(ctx, "UPDATE tournaments SET play_in_ids = ? WHERE id = ?", playIns, id)
	return err
}

// Lock freezes the seed list with a conditional write. The WHERE locked = 0
// guard means exactly one of two concurrent lock attempts can succeed; the
// loser sees zero rows affected.
func (s *TournamentStore) Lock(ctx context.Context, id uuid.UUID, seeds league.StringList, bracketSize int, startedAt time.Time) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE tournaments SET locked = 1, seed_ids = ?, bracket_size = ?, started_at = ? WHERE id = ? AND locked = 0",
		seeds, bracketSize, startedAt, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
