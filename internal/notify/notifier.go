package notify

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// AchievementUnlocked is emitted once per newly-satisfied achievement
// condition. Repeatable achievements emit again on every qualifying game.
type AchievementUnlocked struct {
	PlayerID      uuid.UUID
	PlayerName    string
	AchievementID string
}

// Notifier delivers unlock events. Delivery is fire-and-forget: the stats
// engine never fails a game because a notification could not be sent.
type Notifier interface {
	Notify(ctx context.Context, event AchievementUnlocked)
}

// LogNotifier writes unlock events to the structured log. It is the default
// sink when no external notifier is configured.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, event AchievementUnlocked) {
	slog.Info("achievement unlocked",
		"player_id", event.PlayerID,
		"player", event.PlayerName,
		"achievement", event.AchievementID,
	)
}
