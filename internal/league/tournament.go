package league

import (
	"time"

	"github.com/google/uuid"
)

// ByeSeed marks an empty slot in a frozen seed list.
const ByeSeed = "BYE"

type Tournament struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	OwnerID     uuid.UUID  `db:"owner_id" json:"-"`
	Name        string     `db:"name" json:"name"`
	Date        string     `db:"date" json:"date"`
	ImageURL    *string    `db:"image_url" json:"imageUrl"`
	EnrolledIDs StringList `db:"enrolled_ids" json:"enrolledPlayerIds"`
	Locked      bool       `db:"locked" json:"locked"`
	// SeedIDs is frozen at lock time: player ids plus "BYE" padding, length
	// always equal to BracketSize. Never reordered or resized afterwards.
	SeedIDs     StringList `db:"seed_ids" json:"seedIds"`
	BracketSize int        `db:"bracket_size" json:"bracketSize"`
	StartedAt   *time.Time `db:"started_at" json:"startedAt"`
	PlayInIDs   StringList `db:"play_in_ids" json:"playInIds"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
}

// SeededPlayerIDs returns the concrete player ids in the frozen seed list,
// skipping BYE padding.
func (t *Tournament) SeededPlayerIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(t.SeedIDs))
	for _, s := range t.SeedIDs {
		if s == ByeSeed {
			continue
		}
		if id, err := uuid.Parse(s); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}
