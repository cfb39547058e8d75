package brackets

import (
	"fmt"
	"sort"
	"strings"
)

// PlayerEntry is one player's request for a number of brackets.
type PlayerEntry struct {
	PlayerID  string `json:"player_id"`
	Requested int    `json:"num_brackets"`
	EnteredAt int64  `json:"time_stamp"`
}

// PrepareEntries drops zero requests and validates the rest. Any invalid
// entry rejects the whole batch. The input slice is not modified.
func PrepareEntries(entries []PlayerEntry, maxRequested int) ([]PlayerEntry, error) {
	prepared := make([]PlayerEntry, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))

	for i, e := range entries {
		if e.Requested == 0 {
			continue
		}
		if strings.TrimSpace(e.PlayerID) == "" {
			return nil, fmt.Errorf("%w: entry %d has no player id", ErrInvalidEntry, i)
		}
		if e.Requested < 0 || e.Requested > maxRequested {
			return nil, fmt.Errorf("%w: player %s requested %d brackets, allowed 0..%d", ErrInvalidEntry, e.PlayerID, e.Requested, maxRequested)
		}
		if e.EnteredAt == 0 {
			return nil, fmt.Errorf("%w: player %s has no entry time stamp", ErrInvalidEntry, e.PlayerID)
		}
		if _, dup := seen[e.PlayerID]; dup {
			return nil, fmt.Errorf("%w: player %s entered more than once", ErrInvalidEntry, e.PlayerID)
		}
		seen[e.PlayerID] = struct{}{}
		prepared = append(prepared, e)
	}

	return prepared, nil
}

// EntryLess orders entries for allocation: most brackets requested first,
// earliest entry first on ties. Player id breaks identical time stamps.
func EntryLess(a, b PlayerEntry) bool {
	if a.Requested != b.Requested {
		return a.Requested > b.Requested
	}
	if a.EnteredAt != b.EnteredAt {
		return a.EnteredAt < b.EnteredAt
	}
	return a.PlayerID < b.PlayerID
}

// SortEntries sorts in place using EntryLess.
func SortEntries(entries []PlayerEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return EntryLess(entries[i], entries[j])
	})
}

func totalRequested(entries []PlayerEntry) int {
	total := 0
	for _, e := range entries {
		total += e.Requested
	}
	return total
}

func cloneEntries(entries []PlayerEntry) []PlayerEntry {
	out := make([]PlayerEntry, len(entries))
	copy(out, entries)
	return out
}
