package league

import "errors"

var (
	// ErrPlayerNotFound is returned when a game references a player that does
	// not exist. The whole stats update is aborted, nothing is written.
	ErrPlayerNotFound = errors.New("player not found")

	// ErrInvalidGameRecord is returned for games with equal participants,
	// negative scores or a tied score.
	ErrInvalidGameRecord = errors.New("invalid game record")

	// ErrTournamentNotLockable is returned when a tournament cannot be
	// started: fewer than 2 enrolled players, or already locked.
	ErrTournamentNotLockable = errors.New("tournament not lockable")

	// ErrConcurrentLockConflict is returned to the loser of a lock race.
	// The caller must re-read tournament state; no automatic retry.
	ErrConcurrentLockConflict = errors.New("concurrent lock conflict")

	ErrTournamentNotFound = errors.New("tournament not found")
)
