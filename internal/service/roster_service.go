package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/finlay-RTA-commits/RTA-PingPong/internal/league"
	"github.com/finlay-RTA-commits/RTA-PingPong/internal/store"
	"github.com/finlay-RTA-commits/RTA-PingPong/internal/utils"
	"github.com/google/uuid"
	"github.com/itbasis/go-clock"
)

type RosterService struct {
	players *store.PlayerStore
	clock   clock.Clock
}

func NewRosterService(players *store.PlayerStore, clk clock.Clock) *RosterService {
	return &RosterService{players: players, clock: clk}
}

type LeaderboardEntry struct {
	Rank    int           `json:"rank"`
	Player  league.Player `json:"player"`
	WinRate float64       `json:"winRate"`
}

func (s *RosterService) AddPlayer(ctx context.Context, name, avatarURL string) (*league.Player, error) {
	if name == "" {
		return nil, fmt.Errorf("player name is required")
	}

	player := &league.Player{
		ID:           uuid.New(),
		Name:         name,
		Elo:          league.DefaultElo,
		Achievements: league.StringList{},
		AvatarURL:    utils.StringOrNil(avatarURL),
		CreatedAt:    s.clock.Now().UTC(),
	}
	if err := s.players.CreatePlayer(ctx, player); err != nil {
		return nil, err
	}
	return player, nil
}

func (s *RosterService) GetPlayer(ctx context.Context, id uuid.UUID) (*league.Player, error) {
	player, err := s.players.GetPlayer(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", league.ErrPlayerNotFound, id)
		}
		return nil, err
	}
	return player, nil
}

func (s *RosterService) ListPlayers(ctx context.Context) ([]league.Player, error) {
	return s.players.ListPlayers(ctx)
}

// RemovePlayer drops a player from the roster. Their historical games stay;
// stats and bracket reads degrade gracefully around the missing id.
func (s *RosterService) RemovePlayer(ctx context.Context, id uuid.UUID) error {
	return s.players.DeletePlayer(ctx, id)
}

// Leaderboard ranks the roster by Elo with win rates attached.
func (s *RosterService) Leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	players, err := s.players.Leaderboard(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(players))
	for i, p := range players {
		rate := 0.0
		if total := p.Wins + p.Losses; total > 0 {
			rate = float64(p.Wins) / float64(total)
		}
		entries = append(entries, LeaderboardEntry{Rank: i + 1, Player: p, WinRate: rate})
	}
	return entries, nil
}
