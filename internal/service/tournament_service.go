package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/finlay-RTA-commits/RTA-PingPong/internal/league"
	"github.com/finlay-RTA-commits/RTA-PingPong/internal/middleware"
	"github.com/finlay-RTA-commits/RTA-PingPong/internal/store"
	"github.com/finlay-RTA-commits/RTA-PingPong/internal/utils"
	"github.com/google/uuid"
	"github.com/itbasis/go-clock"
)

// TournamentService governs the unlocked -> locked lifecycle. Before the lock
// the roster is fluid and bracket views are live previews; locking freezes the
// seed list exactly once, after which new entrants become play-ins and removed
// entrants leave a BYE in their slot.
type TournamentService struct {
	store   *store.TournamentStore
	players *store.PlayerStore
	clock   clock.Clock
}

func NewTournamentService(store *store.TournamentStore, players *store.PlayerStore, clk clock.Clock) *TournamentService {
	return &TournamentService{store: store, players: players, clock: clk}
}

func (s *TournamentService) CreateTournament(ctx context.Context, name, date, imageURL string) (*league.Tournament, error) {
	ownerID, _ := middleware.GetUserIDFromContext(ctx)
	tournament := &league.Tournament{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Name:        name,
		Date:        date,
		ImageURL:    utils.StringOrNil(imageURL),
		EnrolledIDs: league.StringList{},
		SeedIDs:     league.StringList{},
		PlayInIDs:   league.StringList{},
		CreatedAt:   s.clock.Now().UTC(),
	}

	if err := s.store.CreateTournament(ctx, tournament); err != nil {
		return nil, err
	}
	return tournament, nil
}

func (s *TournamentService) GetTournament(ctx context.Context, id uuid.UUID) (*league.Tournament, error) {
	tournament, err := s.store.GetTournament(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", league.ErrTournamentNotFound, id)
		}
		return nil, err
	}
	return tournament, nil
}

func (s *TournamentService) ListTournaments(ctx context.Context) ([]league.Tournament, error) {
	return s.store.ListTournaments(ctx)
}

func (s *TournamentService) UpdateDetails(ctx context.Context, id uuid.UUID, name, date, imageURL string) (*league.Tournament, error) {
	tournament, err := s.GetTournament(ctx, id)
	if err != nil {
		return nil, err
	}
	tournament.Name = name
	tournament.Date = date
	tournament.ImageURL = utils.StringOrNil(imageURL)
	if err := s.store.UpdateDetails(ctx, tournament); err != nil {
		return nil, err
	}
	return tournament, nil
}

func (s *TournamentService) DeleteTournament(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteTournament(ctx, id)
}

// AddPlayer enrolls a player. Pre-lock they join the seeded field; post-lock
// they join as an unseeded play-in, never touching the frozen seed list.
func (s *TournamentService) AddPlayer(ctx context.Context, tournamentID, playerID uuid.UUID) error {
	if _, err := s.players.GetPlayer(ctx, playerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s", league.ErrPlayerNotFound, playerID)
		}
		return err
	}

	tournament, err := s.GetTournament(ctx, tournamentID)
	if err != nil {
		return err
	}

	id := playerID.String()
	if tournament.Locked {
		if tournament.SeedIDs.Contains(id) || tournament.PlayInIDs.Contains(id) {
			return nil
		}
		return s.store.UpdatePlayIns(ctx, tournamentID, append(tournament.PlayInIDs, id))
	}

	if tournament.EnrolledIDs.Contains(id) {
		return nil
	}
	return s.store.UpdateEnrolled(ctx, tournamentID, append(tournament.EnrolledIDs, id))
}

// RemovePlayer withdraws an entrant. A locked-in seed slot is overwritten
// with BYE in place, preserving the bracket shape; a play-in or pre-lock
// entrant is simply dropped from their list.
func (s *TournamentService) RemovePlayer(ctx context.Context, tournamentID, playerID uuid.UUID) error {
	tournament, err := s.GetTournament(ctx, tournamentID)
	if err != nil {
		return err
	}

	id := playerID.String()
	if !tournament.Locked {
		return s.store.UpdateEnrolled(ctx, tournamentID, removeString(tournament.EnrolledIDs, id))
	}

	for i, seed := range tournament.SeedIDs {
		if seed == id {
			seeds := make(league.StringList, len(tournament.SeedIDs))
			copy(seeds, tournament.SeedIDs)
			seeds[i] = league.ByeSeed
			if err := s.store.UpdateSeeds(ctx, tournamentID, seeds); err != nil {
				return err
			}
			break
		}
	}
	if tournament.PlayInIDs.Contains(id) {
		return s.store.UpdatePlayIns(ctx, tournamentID, removeString(tournament.PlayInIDs, id))
	}
	return nil
}

// Start locks the tournament explicitly. The conditional write in the store
// guarantees at most one lock transition even under concurrent starts.
func (s *TournamentService) Start(ctx context.Context, tournamentID uuid.UUID) (*league.Tournament, error) {
	tournament, err := s.GetTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if tournament.Locked {
		return nil, fmt.Errorf("%w: already started", league.ErrTournamentNotLockable)
	}

	entrants, err := s.enrolledPlayers(ctx, tournament)
	if err != nil {
		return nil, err
	}
	if len(entrants) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 enrolled players, have %d", league.ErrTournamentNotLockable, len(entrants))
	}

	if err := s.lock(ctx, tournament, entrants); err != nil {
		return nil, err
	}
	return s.GetTournament(ctx, tournamentID)
}

// EnsureLocked locks a tournament implicitly when its first game arrives. A
// lost lock race is fine here: the tournament is locked either way.
func (s *TournamentService) EnsureLocked(ctx context.Context, tournamentID uuid.UUID) error {
	tournament, err := s.GetTournament(ctx, tournamentID)
	if err != nil {
		return err
	}
	if tournament.Locked {
		return nil
	}

	entrants, err := s.enrolledPlayers(ctx, tournament)
	if err != nil {
		return err
	}

	if err := s.lock(ctx, tournament, entrants); err != nil && !errors.Is(err, league.ErrConcurrentLockConflict) {
		return err
	}
	return nil
}

func (s *TournamentService) lock(ctx context.Context, tournament *league.Tournament, entrants []league.Player) error {
	seeds, size := freezeSeedIDs(sortEntrants(entrants))
	locked, err := s.store.Lock(ctx, tournament.ID, seeds, size, s.clock.Now().UTC())
	if err != nil {
		return err
	}
	if !locked {
		return fmt.Errorf("%w: tournament %s", league.ErrConcurrentLockConflict, tournament.ID)
	}
	return nil
}

func (s *TournamentService) enrolledPlayers(ctx context.Context, tournament *league.Tournament) ([]league.Player, error) {
	players, err := s.players.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*league.Player, len(players))
	for i := range players {
		byID[players[i].ID] = &players[i]
	}
	return resolvePlayers(tournament.EnrolledIDs, byID), nil
}

func removeString(list league.StringList, s string) league.StringList {
	out := make(league.StringList, 0, len(list))
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}
