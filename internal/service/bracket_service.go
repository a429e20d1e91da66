package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/finlay-RTA-commits/RTA-PingPong/internal/league"
	"github.com/finlay-RTA-commits/RTA-PingPong/internal/store"
	"github.com/google/uuid"
)

// BracketService derives the renderable round structure for a tournament.
// Building is a pure read: seeds come from the frozen list (or a live preview
// while unlocked), winners come from recorded games, and repeated builds over
// the same inputs always produce the same output.
type BracketService struct {
	players     *store.PlayerStore
	games       *store.GameStore
	tournaments *store.TournamentStore
}

func NewBracketService(players *store.PlayerStore, games *store.GameStore, tournaments *store.TournamentStore) *BracketService {
	return &BracketService{players: players, games: games, tournaments: tournaments}
}

func (s *BracketService) BracketForTournament(ctx context.Context, tournamentID uuid.UUID) ([]league.BracketRound, error) {
	return s.bracketForTournament(ctx, tournamentID, uuid.Nil)
}

// Champion returns the resolved tournament winner, or nil while play continues.
func Champion(rounds []league.BracketRound) *league.Player {
	if len(rounds) == 0 {
		return nil
	}
	last := rounds[len(rounds)-1]
	if last.Title != "Winner" || len(last.Matches) == 0 || last.Matches[0].Winner == nil {
		return nil
	}
	return last.Matches[0].Winner.Player
}

// bracketForTournament builds the bracket, optionally pretending one game was
// never recorded. The stats engine uses that to tell whether the game it just
// logged is the one that crowned the champion.
func (s *BracketService) bracketForTournament(ctx context.Context, tournamentID, excludeGameID uuid.UUID) ([]league.BracketRound, error) {
	tournament, err := s.tournaments.GetTournament(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", league.ErrTournamentNotFound, tournamentID)
		}
		return nil, err
	}

	players, err := s.players.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*league.Player, len(players))
	for i := range players {
		byID[players[i].ID] = &players[i]
	}

	var seeds []league.Slot
	if tournament.Locked {
		seeds = frozenSeedSlots(tournament.SeedIDs, byID)
	} else {
		// Live preview: the seed order tracks the roster until lock freezes it.
		entrants := resolvePlayers(tournament.EnrolledIDs, byID)
		seeds = seedSlots(sortEntrants(entrants))
	}

	playInPlayers := resolvePlayers(tournament.PlayInIDs, byID)
	playIns := make([]*league.Player, 0, len(playInPlayers))
	for i := range playInPlayers {
		playIns = append(playIns, &playInPlayers[i])
	}

	games, err := s.games.GamesByTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if excludeGameID != uuid.Nil {
		kept := games[:0]
		for _, g := range games {
			if g.ID != excludeGameID {
				kept = append(kept, g)
			}
		}
		games = kept
	}

	return buildBracket(seeds, playIns, games), nil
}

// frozenSeedSlots maps a frozen seed list to slots. A seed id whose player no
// longer exists degrades to a BYE so the bracket shape survives roster churn.
func frozenSeedSlots(seedIDs league.StringList, byID map[uuid.UUID]*league.Player) []league.Slot {
	slots := make([]league.Slot, 0, len(seedIDs))
	for _, s := range seedIDs {
		if s == league.ByeSeed {
			slots = append(slots, league.ByeSlot())
			continue
		}
		id, err := uuid.Parse(s)
		if err != nil {
			slots = append(slots, league.ByeSlot())
			continue
		}
		if p, ok := byID[id]; ok {
			slots = append(slots, league.PlayerSlot(p))
		} else {
			slots = append(slots, league.ByeSlot())
		}
	}
	return slots
}

func resolvePlayers(ids league.StringList, byID map[uuid.UUID]*league.Player) []league.Player {
	resolved := make([]league.Player, 0, len(ids))
	for _, s := range ids {
		id, err := uuid.Parse(s)
		if err != nil {
			continue
		}
		if p, ok := byID[id]; ok {
			resolved = append(resolved, *p)
		}
	}
	return resolved
}

// buildBracket constructs every round from the seed list, the play-in
// entrants and the recorded games. Round 1 holds the fold-seeded matches
// (seed i against seed size-1-i) followed by the play-in matches paired
// sequentially; each later round pairs the winners of consecutive matches.
func buildBracket(seeds []league.Slot, playIns []*league.Player, games []league.Game) []league.BracketRound {
	entrants := 0
	var seedPlayers []*league.Player
	for i := range seeds {
		if seeds[i].IsPlayer() {
			entrants++
			seedPlayers = append(seedPlayers, seeds[i].Player)
		}
	}
	entrants += len(playIns)
	if entrants < 2 {
		return nil
	}

	// A degenerate seed list (fewer than one full pairing) folds its players
	// into the play-in pool so nobody is stranded outside the bracket.
	if len(seeds) < 2 {
		playIns = append(seedPlayers, playIns...)
		seeds = nil
	}

	var current []league.BracketMatch
	for i := 0; i < len(seeds)/2; i++ {
		current = append(current, resolveMatch(seeds[i], seeds[len(seeds)-1-i], games))
	}
	for i := 0; i < len(playIns); i += 2 {
		slot1 := league.PlayerSlot(playIns[i])
		slot2 := league.ByeSlot()
		if i+1 < len(playIns) {
			slot2 = league.PlayerSlot(playIns[i+1])
		}
		current = append(current, resolveMatch(slot1, slot2, games))
	}

	var rounds []league.BracketRound
	roundNumber := 1
	for {
		rounds = append(rounds, league.BracketRound{
			Title:   league.RoundTitle(roundNumber, len(current)),
			Matches: current,
		})
		if len(current) <= 1 {
			break
		}

		var next []league.BracketMatch
		for i := 0; i < len(current); i += 2 {
			slot1 := winnerSlot(current[i])
			slot2 := league.ByeSlot()
			if i+1 < len(current) {
				slot2 = winnerSlot(current[i+1])
			}
			next = append(next, resolveMatch(slot1, slot2, games))
		}
		current = next
		roundNumber++
	}

	final := rounds[len(rounds)-1].Matches[0]
	if final.Winner != nil && final.Winner.IsPlayer() {
		champion := *final.Winner
		rounds = append(rounds, league.BracketRound{
			Title:   "Winner",
			Matches: []league.BracketMatch{{Slot1: champion, Slot2: league.ByeSlot(), Winner: &champion}},
		})
	}

	return rounds
}

// winnerSlot feeds a match result into the next round: an undecided match
// contributes a pending slot so downstream matches still render.
func winnerSlot(m league.BracketMatch) league.Slot {
	if m.Winner == nil {
		return league.PendingSlot()
	}
	return *m.Winner
}

// resolveMatch decides a pairing: a BYE auto-advances its opponent, a pending
// slot leaves the match undecided, and two concrete players are settled by
// the earliest recorded game between them. No matching game means the match
// is still to be played.
func resolveMatch(slot1, slot2 league.Slot, games []league.Game) league.BracketMatch {
	m := league.BracketMatch{Slot1: slot1, Slot2: slot2}

	switch {
	case slot1.IsBye() && slot2.IsBye():
		bye := slot1
		m.Winner = &bye
	case slot1.IsBye() && slot2.IsPlayer():
		w := slot2
		m.Winner = &w
	case slot2.IsBye() && slot1.IsPlayer():
		w := slot1
		m.Winner = &w
	case slot1.IsPending() || slot2.IsPending():
		// awaiting an upstream result
	default:
		for i := range games {
			g := &games[i]
			if !g.Involves(slot1.Player.ID, slot2.Player.ID) {
				continue
			}
			if g.WinnerID() == slot1.Player.ID {
				w := slot1
				m.Winner = &w
			} else {
				w := slot2
				m.Winner = &w
			}
			break
		}
	}

	return m
}
