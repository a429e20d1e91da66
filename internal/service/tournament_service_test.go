package service

import (
	"context"
	"testing"

	"github.com/finlay-RTA-commits/RTA-PingPong/internal/league"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStart_RequiresTwoPlayers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tournament, err := env.tournaments.CreateTournament(ctx, "Lonely Cup", "2024-04-01", "")
	require.NoError(t, err)

	_, err = env.tournaments.Start(ctx, tournament.ID)
	assert.ErrorIs(t, err, league.ErrTournamentNotLockable)

	solo := env.addPlayer(t, "Solo", 1000)
	require.NoError(t, env.tournaments.AddPlayer(ctx, tournament.ID, solo.ID))

	_, err = env.tournaments.Start(ctx, tournament.ID)
	assert.ErrorIs(t, err, league.ErrTournamentNotLockable)

	unlocked, err := env.tournaments.GetTournament(ctx, tournament.ID)
	require.NoError(t, err)
	assert.False(t, unlocked.Locked)
	assert.Empty(t, unlocked.SeedIDs)
}

func TestStart_LocksExactlyOnce(t *testing.T) {
	env := newTestEnv(t)
	tournament, _ := setupTournament(t, env, []int{1200, 1000})
	ctx := context.Background()

	started, err := env.tournaments.Start(ctx, tournament.ID)
	require.NoError(t, err)
	assert.True(t, started.Locked)
	assert.Equal(t, 2, started.BracketSize)
	require.NotNil(t, started.StartedAt)
	frozen := started.SeedIDs

	_, err = env.tournaments.Start(ctx, tournament.ID)
	assert.ErrorIs(t, err, league.ErrTournamentNotLockable)

	// The second attempt changed nothing.
	again, err := env.tournaments.GetTournament(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, frozen, again.SeedIDs)
	assert.Equal(t, 2, again.BracketSize)
}

func TestStart_FreezesFoldSeeds(t *testing.T) {
	env := newTestEnv(t)
	tournament, players := setupTournament(t, env, []int{900, 1200, 1000})
	ctx := context.Background()

	started, err := env.tournaments.Start(ctx, tournament.ID)
	require.NoError(t, err)

	// Seeds are ordered by rating, not by enrollment order, and padded with
	// BYEs to the bracket size.
	assert.Equal(t, 4, started.BracketSize)
	assert.Equal(t, league.StringList{
		players[1].ID.String(), players[2].ID.String(), players[0].ID.String(), league.ByeSeed,
	}, started.SeedIDs)

	// Rating changes after the lock do not reorder the frozen seeds.
	players[0].Elo = 2000
	require.NoError(t, env.players.UpdatePlayer(ctx, players[0]))
	again, err := env.tournaments.GetTournament(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, started.SeedIDs, again.SeedIDs)
}

func TestAddPlayer_AfterLockBecomesPlayIn(t *testing.T) {
	env := newTestEnv(t)
	tournament, _ := setupTournament(t, env, []int{1200, 1000})
	ctx := context.Background()

	_, err := env.tournaments.Start(ctx, tournament.ID)
	require.NoError(t, err)

	late := env.addPlayer(t, "Latecomer", 1600)
	require.NoError(t, env.tournaments.AddPlayer(ctx, tournament.ID, late.ID))

	updated, err := env.tournaments.GetTournament(ctx, tournament.ID)
	require.NoError(t, err)
	assert.NotContains(t, updated.SeedIDs, late.ID.String())
	assert.Equal(t, league.StringList{late.ID.String()}, updated.PlayInIDs)

	// Adding the same player again is a no-op.
	require.NoError(t, env.tournaments.AddPlayer(ctx, tournament.ID, late.ID))
	updated, err = env.tournaments.GetTournament(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Len(t, updated.PlayInIDs, 1)
}

func TestAddPlayer_UnknownPlayer(t *testing.T) {
	env := newTestEnv(t)
	tournament, _ := setupTournament(t, env, []int{1200, 1000})

	err := env.tournaments.AddPlayer(context.Background(), tournament.ID, uuid.New())
	assert.ErrorIs(t, err, league.ErrPlayerNotFound)
}

func TestRemovePlayer_BeforeLock(t *testing.T) {
	env := newTestEnv(t)
	tournament, players := setupTournament(t, env, []int{1200, 1100, 1000})
	ctx := context.Background()

	require.NoError(t, env.tournaments.RemovePlayer(ctx, tournament.ID, players[1].ID))

	updated, err := env.tournaments.GetTournament(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, league.StringList{players[0].ID.String(), players[2].ID.String()}, updated.EnrolledIDs)
}

func TestRemovePlayer_AfterLockLeavesBye(t *testing.T) {
	env := newTestEnv(t)
	tournament, players := setupTournament(t, env, []int{1300, 1200, 1100, 1000})
	ctx := context.Background()

	started, err := env.tournaments.Start(ctx, tournament.ID)
	require.NoError(t, err)

	require.NoError(t, env.tournaments.RemovePlayer(ctx, tournament.ID, players[1].ID))

	updated, err := env.tournaments.GetTournament(ctx, tournament.ID)
	require.NoError(t, err)

	// The withdrawn entrant's slot becomes a BYE in place; the bracket keeps
	// its shape and every other seed stays put.
	require.Len(t, updated.SeedIDs, len(started.SeedIDs))
	assert.Equal(t, league.ByeSeed, updated.SeedIDs[1])
	assert.Equal(t, started.SeedIDs[0], updated.SeedIDs[0])
	assert.Equal(t, started.SeedIDs[2], updated.SeedIDs[2])
	assert.Equal(t, started.SeedIDs[3], updated.SeedIDs[3])
	assert.Equal(t, started.BracketSize, updated.BracketSize)
}

func TestRemovePlayer_PlayIn(t *testing.T) {
	env := newTestEnv(t)
	tournament, _ := setupTournament(t, env, []int{1200, 1000})
	ctx := context.Background()

	_, err := env.tournaments.Start(ctx, tournament.ID)
	require.NoError(t, err)

	late := env.addPlayer(t, "Latecomer", 1500)
	require.NoError(t, env.tournaments.AddPlayer(ctx, tournament.ID, late.ID))
	require.NoError(t, env.tournaments.RemovePlayer(ctx, tournament.ID, late.ID))

	updated, err := env.tournaments.GetTournament(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Empty(t, updated.PlayInIDs)
	assert.NotContains(t, updated.SeedIDs, league.ByeSeed, "play-in removal never touches the seed list")
}

func TestUpdateDetails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tournament, err := env.tournaments.CreateTournament(ctx, "Spring Open", "2024-04-01", "")
	require.NoError(t, err)

	updated, err := env.tournaments.UpdateDetails(ctx, tournament.ID, "Summer Open", "2024-07-01", "https://img.example/cup.png")
	require.NoError(t, err)
	assert.Equal(t, "Summer Open", updated.Name)
	assert.Equal(t, "2024-07-01", updated.Date)
	require.NotNil(t, updated.ImageURL)
	assert.Equal(t, "https://img.example/cup.png", *updated.ImageURL)
}

func TestDeleteTournament(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tournament, err := env.tournaments.CreateTournament(ctx, "Doomed Cup", "2024-04-01", "")
	require.NoError(t, err)

	require.NoError(t, env.tournaments.DeleteTournament(ctx, tournament.ID))

	_, err = env.tournaments.GetTournament(ctx, tournament.ID)
	assert.ErrorIs(t, err, league.ErrTournamentNotFound)
}
