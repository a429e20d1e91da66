package service

import (
	"math"
	"sort"

	"github.com/finlay-RTA-commits/RTA-PingPong/internal/league"
)

// Gets the nearest power of 2 while rounding up, so with input 5 it returns 8 and so on
func calcBracketSize(count int) int {
	if count <= 0 {
		return 0
	}

	// Log2 -> Ceil -> 2^^log2 to round up
	log2 := math.Ceil(math.Log2(float64(count)))
	return int(math.Pow(2, log2))
}

// sortEntrants orders entrants by descending Elo. Ties break by name, then
// id, so the seed order is fully deterministic for a given roster.
func sortEntrants(entrants []league.Player) []league.Player {
	sorted := make([]league.Player, len(entrants))
	copy(sorted, entrants)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Elo != sorted[j].Elo {
			return sorted[i].Elo > sorted[j].Elo
		}
		if sorted[i].Name != sorted[j].Name {
			return sorted[i].Name < sorted[j].Name
		}
		return sorted[i].ID.String() < sorted[j].ID.String()
	})
	return sorted
}

// seedSlots converts a sorted entrant list into the initial bracket position
// list, padded with BYE slots up to the next power of two.
func seedSlots(entrants []league.Player) []league.Slot {
	size := calcBracketSize(len(entrants))
	slots := make([]league.Slot, 0, size)
	for i := range entrants {
		slots = append(slots, league.PlayerSlot(&entrants[i]))
	}
	for len(slots) < size {
		slots = append(slots, league.ByeSlot())
	}
	return slots
}

// freezeSeedIDs produces the persistable seed list stored on a tournament at
// lock time: entrant ids in seed order plus "BYE" padding.
func freezeSeedIDs(entrants []league.Player) (league.StringList, int) {
	size := calcBracketSize(len(entrants))
	seeds := make(league.StringList, 0, size)
	for _, p := range entrants {
		seeds = append(seeds, p.ID.String())
	}
	for len(seeds) < size {
		seeds = append(seeds, league.ByeSeed)
	}
	return seeds, size
}
