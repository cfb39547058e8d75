package brackets

import (
	"fmt"
	"strings"
)

// Counts is how many full and one-bye brackets an entry pool fills.
type Counts struct {
	Full   int `json:"full"`
	OneBye int `json:"one_bye"`
}

// Brackets is the number of bracket instances the counts describe.
func (c Counts) Brackets() int {
	return c.Full + c.OneBye
}

// Entries is the number of seats the counts describe for the given capacity.
func (c Counts) Entries(capacity int) int {
	return c.Full*capacity + c.OneBye*(capacity-1)
}

// Adjustment records a request trimmed by RepairOversizedRequests.
type Adjustment struct {
	PlayerID string `json:"player_id"`
	From     int    `json:"from"`
	To       int    `json:"to"`
}

// Engine computes bracket counts for one definition.
type Engine struct {
	Def          Definition
	MaxRequested int
}

func NewEngine(def Definition, maxRequested int) (Engine, error) {
	if err := def.Validate(); err != nil {
		return Engine{}, err
	}
	if maxRequested < 1 {
		return Engine{}, fmt.Errorf("%w: max brackets per entry must be positive, got %d", ErrInvalidDefinition, maxRequested)
	}
	return Engine{Def: def, MaxRequested: maxRequested}, nil
}

func (e Engine) validate(entries []PlayerEntry) error {
	if err := e.Def.Validate(); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(entries))
	for i, entry := range entries {
		if strings.TrimSpace(entry.PlayerID) == "" {
			return fmt.Errorf("%w: entry %d has no player id", ErrInvalidEntry, i)
		}
		if entry.Requested < 1 || entry.Requested > e.MaxRequested {
			return fmt.Errorf("%w: player %s requested %d brackets, allowed 1..%d", ErrInvalidEntry, entry.PlayerID, entry.Requested, e.MaxRequested)
		}
		if entry.EnteredAt == 0 {
			return fmt.Errorf("%w: player %s has no entry time stamp", ErrInvalidEntry, entry.PlayerID)
		}
		if _, dup := seen[entry.PlayerID]; dup {
			return fmt.Errorf("%w: player %s entered more than once", ErrInvalidEntry, entry.PlayerID)
		}
		seen[entry.PlayerID] = struct{}{}
	}
	return nil
}

// ComputeBracketCounts finds the full and one-bye bracket counts whose seats
// add up to the total number of requested brackets.
func (e Engine) ComputeBracketCounts(entries []PlayerEntry) (Counts, error) {
	if err := e.validate(entries); err != nil {
		return Counts{}, err
	}

	capacity := e.Def.Capacity()
	players := len(entries)

	if players < capacity-1 {
		return Counts{}, fmt.Errorf("%w: %d players entered, %d needed", ErrInsufficientData, players, capacity-1)
	}

	// One player short of a full bracket. The one-bye count is capped by
	// the smallest request, not by the total.
	if players == capacity-1 {
		fewest := entries[0].Requested
		for _, entry := range entries[1:] {
			if entry.Requested < fewest {
				fewest = entry.Requested
			}
		}
		return Counts{Full: 0, OneBye: fewest}, nil
	}

	total := totalRequested(entries)
	perOneBye := capacity - 1

	limit := capacity
	if byMatches := (total+e.Def.PlayersPerMatch-1)/e.Def.PlayersPerMatch + 1; byMatches > limit {
		limit = byMatches
	}

	// capacity and capacity-1 are coprime, so once the remainder divides
	// evenly it does so again every capacity-1 full brackets.
	step := 1
	for full := 1; full <= limit; full += step {
		remainder := total - capacity*full
		if remainder%perOneBye != 0 {
			continue
		}
		step = perOneBye
		if remainder < 0 {
			break
		}
		if oneBye := remainder / perOneBye; oneBye <= perOneBye {
			return Counts{Full: full, OneBye: oneBye}, nil
		}
	}

	return Counts{}, fmt.Errorf("%w: %d entries for brackets of %d", ErrUnsatisfiable, total, capacity)
}

// RepairOversizedRequests trims requests for more brackets than will exist.
// It returns the repaired entries (sorted with EntryLess), the final counts
// and one Adjustment per trimmed player. The input slice is not modified.
func (e Engine) RepairOversizedRequests(entries []PlayerEntry, counts Counts) ([]PlayerEntry, Counts, []Adjustment, error) {
	repaired := cloneEntries(entries)

	if counts.OneBye < 0 {
		counts.Full += counts.OneBye
		counts.OneBye = 1
		if counts.Full < 0 {
			return nil, Counts{}, nil, fmt.Errorf("%w: one-bye deficit exceeds full brackets", ErrUnsatisfiable)
		}
		return repaired, counts, nil, nil
	}

	SortEntries(repaired)
	if !hasOversized(repaired, counts.Brackets()) {
		return repaired, counts, nil, nil
	}

	from := make(map[string]int)
	var order []string

	for repaired[0].Requested > counts.Brackets() {
		top := &repaired[0]
		if _, ok := from[top.PlayerID]; !ok {
			from[top.PlayerID] = top.Requested
			order = append(order, top.PlayerID)
		}

		target := counts.Brackets()
		if top.Requested-1 < target {
			target = top.Requested - 1
		}
		playerID := top.PlayerID
		top.Requested = target
		SortEntries(repaired)

		next, err := e.ComputeBracketCounts(repaired)
		if err != nil {
			return nil, Counts{}, nil, fmt.Errorf("recomputing after trimming player %s to %d: %w", playerID, target, err)
		}
		counts = next
	}

	final := make(map[string]int, len(repaired))
	for _, entry := range repaired {
		final[entry.PlayerID] = entry.Requested
	}
	adjustments := make([]Adjustment, 0, len(order))
	for _, id := range order {
		adjustments = append(adjustments, Adjustment{PlayerID: id, From: from[id], To: final[id]})
	}

	return repaired, counts, adjustments, nil
}

// hasOversized scans from the smallest request up.
func hasOversized(sorted []PlayerEntry, brackets int) bool {
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i].Requested > brackets {
			return true
		}
	}
	return false
}
