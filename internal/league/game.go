package league

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Game struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	Player1ID    uuid.UUID  `db:"player1_id" json:"player1Id"`
	Player2ID    uuid.UUID  `db:"player2_id" json:"player2Id"`
	Score1       int        `db:"score1" json:"score1"`
	Score2       int        `db:"score2" json:"score2"`
	PlayedAt     time.Time  `db:"played_at" json:"playedAt"`
	TournamentID *uuid.UUID `db:"tournament_id" json:"tournamentId"`
}

// Validate rejects games before any computation happens: both participants
// must be distinct, scores non-negative, and exactly one side must win.
func (g *Game) Validate() error {
	if g.Player1ID == g.Player2ID {
		return fmt.Errorf("%w: a player cannot play themselves", ErrInvalidGameRecord)
	}
	if g.Score1 < 0 || g.Score2 < 0 {
		return fmt.Errorf("%w: scores must be non-negative", ErrInvalidGameRecord)
	}
	if g.Score1 == g.Score2 {
		return fmt.Errorf("%w: games cannot end in a tie", ErrInvalidGameRecord)
	}
	return nil
}

// WinnerID returns the id of the side with the higher score.
func (g *Game) WinnerID() uuid.UUID {
	if g.Score1 > g.Score2 {
		return g.Player1ID
	}
	return g.Player2ID
}

// LoserID returns the id of the side with the lower score.
func (g *Game) LoserID() uuid.UUID {
	if g.Score1 > g.Score2 {
		return g.Player2ID
	}
	return g.Player1ID
}

// Won reports whether the given player won this game.
func (g *Game) Won(playerID uuid.UUID) bool {
	return g.WinnerID() == playerID
}

// OpponentID returns the other participant's id.
func (g *Game) OpponentID(playerID uuid.UUID) uuid.UUID {
	if g.Player1ID == playerID {
		return g.Player2ID
	}
	return g.Player1ID
}

// ScoreFor returns the game score from the given player's perspective.
func (g *Game) ScoreFor(playerID uuid.UUID) (own, opp int) {
	if g.Player1ID == playerID {
		return g.Score1, g.Score2
	}
	return g.Score2, g.Score1
}

// Involves reports whether the game was played between the two given players,
// in either order.
func (g *Game) Involves(a, b uuid.UUID) bool {
	return (g.Player1ID == a && g.Player2ID == b) || (g.Player1ID == b && g.Player2ID == a)
}
