package league

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultElo is the rating every player starts at.
const DefaultElo = 1000

type Player struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	Name           string     `db:"name" json:"name"`
	Wins           int        `db:"wins" json:"wins"`
	Losses         int        `db:"losses" json:"losses"`
	WinStreak      int        `db:"win_streak" json:"winStreak"`
	LossStreak     int        `db:"loss_streak" json:"lossStreak"`
	HighestStreak  int        `db:"highest_streak" json:"highestStreak"`
	Elo            int        `db:"elo" json:"elo"`
	Rival          *string    `db:"rival" json:"rival"`
	Achievements   StringList `db:"achievements" json:"achievements"`
	TournamentsWon int        `db:"tournaments_won" json:"tournamentsWon"`
	AvatarURL      *string    `db:"avatar_url" json:"avatarUrl"`
	CreatedAt      time.Time  `db:"created_at" json:"createdAt"`
}

// HasAchievement reports whether the achievement id is already stored.
func (p *Player) HasAchievement(id string) bool {
	for _, a := range p.Achievements {
		if a == id {
			return true
		}
	}
	return false
}

// StringList is a JSON-encoded list of strings stored in a TEXT column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*l = StringList{}
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}
}

// Contains reports whether s is present in the list.
func (l StringList) Contains(s string) bool {
	for _, v := range l {
		if v == s {
			return true
		}
	}
	return false
}
