package store

import (
	"context"
	"testing"
	"time"

	"github.com/finlay-RTA-commits/RTA-PingPong/internal/league"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates an in-memory SQLite database and applies migrations
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := sqlx.Connect("sqlite3", "file::memory:")
	require.NoError(t, err, "Failed to connect to in-memory DB")

	_, err = database.Exec("PRAGMA foreign_keys = ON;")
	require.NoError(t, err)

	driver, err := sqlite3.WithInstance(database.DB, &sqlite3.Config{})
	require.NoError(t, err, "Failed to create migrate driver instance")

	m, err := migrate.NewWithDatabaseInstance(
		"file://../../migrations",
		"sqlite3",
		driver,
	)
	require.NoError(t, err, "Failed to create migrate instance")

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		require.NoError(t, err, "Failed to apply migrations")
	}

	return database
}

func createTournament(t *testing.T, s *TournamentStore) *league.Tournament {
	t.Helper()

	tournament := &league.Tournament{
		ID:          uuid.New(),
		OwnerID:     uuid.New(),
		Name:        "Test Cup",
		Date:        "2024-05-01",
		EnrolledIDs: league.StringList{},
		SeedIDs:     league.StringList{},
		PlayInIDs:   league.StringList{},
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, s.CreateTournament(context.Background(), tournament))
	return tournament
}

func TestTournamentRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	s := NewTournamentStore(db)
	ctx := context.Background()

	created := createTournament(t, s)

	ids := league.StringList{uuid.NewString(), uuid.NewString()}
	require.NoError(t, s.UpdateEnrolled(ctx, created.ID, ids))
	require.NoError(t, s.UpdatePlayIns(ctx, created.ID, league.StringList{ids[0]}))

	got, err := s.GetTournament(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, got.Name)
	assert.Equal(t, ids, got.EnrolledIDs)
	assert.Equal(t, league.StringList{ids[0]}, got.PlayInIDs)
	assert.False(t, got.Locked)
	assert.Nil(t, got.StartedAt)
}

func TestLock_SecondAttemptLoses(t *testing.T) {
	db := setupTestDB(t)
	s := NewTournamentStore(db)
	ctx := context.Background()

	tournament := createTournament(t, s)
	seeds := league.StringList{uuid.NewString(), uuid.NewString(), uuid.NewString(), league.ByeSeed}
	startedAt := time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC)

	locked, err := s.Lock(ctx, tournament.ID, seeds, 4, startedAt)
	require.NoError(t, err)
	assert.True(t, locked)

	// The guard on locked = 0 makes the second write a no-op.
	otherSeeds := league.StringList{league.ByeSeed, league.ByeSeed}
	locked, err = s.Lock(ctx, tournament.ID, otherSeeds, 2, startedAt.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, locked)

	got, err := s.GetTournament(ctx, tournament.ID)
	require.NoError(t, err)
	assert.True(t, got.Locked)
	assert.Equal(t, seeds, got.SeedIDs)
	assert.Equal(t, 4, got.BracketSize)
	require.NotNil(t, got.StartedAt)
	assert.True(t, startedAt.Equal(*got.StartedAt))
}

func TestLock_UnknownTournament(t *testing.T) {
	db := setupTestDB(t)
	s := NewTournamentStore(db)

	locked, err := s.Lock(context.Background(), uuid.New(), league.StringList{}, 0, time.Now().UTC())
	require.NoError(t, err)
	assert.False(t, locked)
}
