package service

import (
	"context"
	"testing"
	"time"

	"github.com/finlay-RTA-commits/RTA-PingPong/internal/league"
	"github.com/finlay-RTA-commits/RTA-PingPong/internal/notify"
	"github.com/finlay-RTA-commits/RTA-PingPong/internal/store"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/itbasis/go-clock"
	"github.com/jmoiron/sqlx"
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

type recordingNotifier struct {
	events []notify.AchievementUnlocked
}

func (n *recordingNotifier) Notify(_ context.Context, event notify.AchievementUnlocked) {
	n.events = append(n.events, event)
}

func (n *recordingNotifier) received(playerID uuid.UUID, achievementID string) int {
	count := 0
	for _, e := range n.events {
		if e.PlayerID == playerID && e.AchievementID == achievementID {
			count++
		}
	}
	return count
}

type testEnv struct {
	db          *sqlx.DB
	players     *store.PlayerStore
	games       *store.GameStore
	roster      *RosterService
	tournaments *TournamentService
	brackets    *BracketService
	stats       *StatsService
	clock       *clock.Mock
	notifier    *recordingNotifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := setupTestDB(t)
	t.Cleanup(func() { db.Close() })

	mockClock := clock.NewMock()
	mockClock.Set(time.Date(2024, 3, 12, 15, 0, 0, 0, time.UTC))

	playerStore := store.NewPlayerStore(db)
	gameStore := store.NewGameStore(db)
	tournamentStore := store.NewTournamentStore(db)

	notifier := &recordingNotifier{}
	tournaments := NewTournamentService(tournamentStore, playerStore, mockClock)
	brackets := NewBracketService(playerStore, gameStore, tournamentStore)
	stats := NewStatsService(db, playerStore, gameStore, tournaments, brackets, notifier, mockClock)

	return &testEnv{
		db:          db,
		players:     playerStore,
		games:       gameStore,
		roster:      NewRosterService(playerStore, mockClock),
		tournaments: tournaments,
		brackets:    brackets,
		stats:       stats,
		clock:       mockClock,
		notifier:    notifier,
	}
}

func (e *testEnv) addPlayer(t *testing.T, name string, elo int) *league.Player {
	t.Helper()

	player, err := e.roster.AddPlayer(context.Background(), name, "")
	require.NoError(t, err)

	if elo != league.DefaultElo {
		player.Elo = elo
		require.NoError(t, e.players.UpdatePlayer(context.Background(), player))
	}
	return player
}

// logGame records a game a minute after the previous one so histories stay
// in a well-defined chronological order.
func (e *testEnv) logGame(t *testing.T, p1, p2 uuid.UUID, s1, s2 int, tournamentID *uuid.UUID) *league.Game {
	t.Helper()

	e.clock.Add(time.Minute)
	game, err := e.stats.LogGame(context.Background(), LogGameInput{
		Player1ID:    p1,
		Player2ID:    p2,
		Score1:       s1,
		Score2:       s2,
		TournamentID: tournamentID,
	})
	require.NoError(t, err)
	return game
}

func (e *testEnv) getPlayer(t *testing.T, id uuid.UUID) *league.Player {
	t.Helper()

	player, err := e.players.GetPlayer(context.Background(), id)
	require.NoError(t, err)
	return player
}
