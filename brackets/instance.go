package brackets

import (
	"fmt"
	"math/rand"
)

// Instance is one single-elimination bracket. Occupant order is seed order.
type Instance struct {
	id        string
	def       Definition
	occupants []string
}

func NewInstance(id string, def Definition) *Instance {
	return &Instance{
		id:        id,
		def:       def,
		occupants: make([]string, 0, def.Capacity()),
	}
}

func (in *Instance) ID() string    { return in.id }
func (in *Instance) Capacity() int { return in.def.Capacity() }
func (in *Instance) Len() int      { return len(in.occupants) }
func (in *Instance) IsFull() bool  { return len(in.occupants) == in.def.Capacity() }

// Occupants returns a copy of the occupant ids in seed order.
func (in *Instance) Occupants() []string {
	out := make([]string, len(in.occupants))
	copy(out, in.occupants)
	return out
}

func (in *Instance) Contains(playerID string) bool {
	for _, id := range in.occupants {
		if id == playerID {
			return true
		}
	}
	return false
}

// AddPlayer appends playerID and returns the new occupant count.
func (in *Instance) AddPlayer(playerID string) (int, error) {
	if playerID == "" {
		return len(in.occupants), ErrEmptyPlayerID
	}
	if in.Contains(playerID) {
		return len(in.occupants), fmt.Errorf("%w (player %s, bracket %s)", ErrDuplicatePlayer, playerID, in.id)
	}
	if in.IsFull() {
		return len(in.occupants), fmt.Errorf("%w (bracket %s)", ErrInstanceFull, in.id)
	}
	in.occupants = append(in.occupants, playerID)
	return len(in.occupants), nil
}

// AddMatch appends one whole match. Nothing is added unless every player fits.
func (in *Instance) AddMatch(playerIDs []string) (int, error) {
	if len(playerIDs) != in.def.PlayersPerMatch {
		return len(in.occupants), fmt.Errorf("%w: got %d, need %d", ErrMatchSize, len(playerIDs), in.def.PlayersPerMatch)
	}
	if len(in.occupants)+len(playerIDs) > in.def.Capacity() {
		return len(in.occupants), fmt.Errorf("%w (bracket %s)", ErrInstanceFull, in.id)
	}
	for i, id := range playerIDs {
		if id == "" {
			return len(in.occupants), ErrEmptyPlayerID
		}
		if in.Contains(id) {
			return len(in.occupants), fmt.Errorf("%w (player %s, bracket %s)", ErrDuplicatePlayer, id, in.id)
		}
		for _, other := range playerIDs[:i] {
			if other == id {
				return len(in.occupants), fmt.Errorf("%w (player %s twice in one match)", ErrDuplicatePlayer, id)
			}
		}
	}
	in.occupants = append(in.occupants, playerIDs...)
	return len(in.occupants), nil
}

// GetMatch returns the players of the match starting at seed position index.
// Positions that are not the first seed of a complete match give nil.
func (in *Instance) GetMatch(index int) []string {
	size := in.def.PlayersPerMatch
	if index < 0 || index%size != 0 || index+size > len(in.occupants) {
		return nil
	}
	match := make([]string, size)
	copy(match, in.occupants[index:index+size])
	return match
}

// RemovePlayers drops the given ids. Unknown ids are ignored.
func (in *Instance) RemovePlayers(playerIDs ...string) {
	if len(playerIDs) == 0 {
		return
	}
	drop := make(map[string]struct{}, len(playerIDs))
	for _, id := range playerIDs {
		drop[id] = struct{}{}
	}
	kept := in.occupants[:0]
	for _, id := range in.occupants {
		if _, ok := drop[id]; !ok {
			kept = append(kept, id)
		}
	}
	in.occupants = kept
}

// Shuffle randomizes seeding of a full bracket. Each match keeps its players;
// only the order of matches and of players inside a match changes.
func (in *Instance) Shuffle(rng *rand.Rand) {
	if !in.IsFull() {
		return
	}
	size := in.def.PlayersPerMatch
	matches := make([][]string, 0, len(in.occupants)/size)
	for i := 0; i < len(in.occupants); i += size {
		match := make([]string, size)
		copy(match, in.occupants[i:i+size])
		if rng.Intn(2) == 1 {
			for l, r := 0, len(match)-1; l < r; l, r = l+1, r-1 {
				match[l], match[r] = match[r], match[l]
			}
		}
		matches = append(matches, match)
	}

	rng.Shuffle(len(matches), func(i, j int) {
		matches[i], matches[j] = matches[j], matches[i]
	})

	in.occupants = in.occupants[:0]
	for _, match := range matches {
		in.occupants = append(in.occupants, match...)
	}
}
