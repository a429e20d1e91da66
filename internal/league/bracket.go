package league

import "fmt"

// SlotKind is the tag of a bracket slot variant. A slot is either a concrete
// player, a BYE, or pending on an upstream result; there is no fourth state.
type SlotKind int

const (
	SlotPlayer SlotKind = iota
	SlotBye
	SlotPending
)

type Slot struct {
	Kind   SlotKind `json:"kind"`
	Player *Player  `json:"player,omitempty"`
}

func PlayerSlot(p *Player) Slot { return Slot{Kind: SlotPlayer, Player: p} }
func ByeSlot() Slot             { return Slot{Kind: SlotBye} }
func PendingSlot() Slot         { return Slot{Kind: SlotPending} }

func (s Slot) IsPlayer() bool { return s.Kind == SlotPlayer }
func (s Slot) IsBye() bool    { return s.Kind == SlotBye }
func (s Slot) IsPending() bool { return s.Kind == SlotPending }

// Label is the display name for a slot.
func (s Slot) Label() string {
	switch s.Kind {
	case SlotPlayer:
		return s.Player.Name
	case SlotBye:
		return ByeSeed
	default:
		return "TBD"
	}
}

func (s Slot) MarshalText() ([]byte, error) {
	return []byte(s.Label()), nil
}

// BracketMatch is a derived pairing inside a round. Winner is nil until the
// match can be resolved from recorded games or a BYE.
type BracketMatch struct {
	Slot1  Slot  `json:"slot1"`
	Slot2  Slot  `json:"slot2"`
	Winner *Slot `json:"winner,omitempty"`
}

type BracketRound struct {
	Title   string         `json:"title"`
	Matches []BracketMatch `json:"matches"`
}

// RoundTitle names a round by its match count, falling back to "Round N".
func RoundTitle(roundNumber, matchCount int) string {
	switch matchCount {
	case 1:
		return "Final"
	case 2:
		return "Semi-Finals"
	case 4:
		return "Quarter-Finals"
	default:
		return fmt.Sprintf("Round %d", roundNumber)
	}
}
