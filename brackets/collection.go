package brackets

import (
	"errors"
	"fmt"
)

// Collection is the set of bracket instances for one bracket definition.
// It is rebuilt from scratch on every Assign; callers own their collection.
type Collection struct {
	engine      Engine
	instances   []*Instance
	counts      Counts
	entries     []PlayerEntry
	adjustments []Adjustment

	toFull   []int
	toOneBye []int
}

func NewCollection(def Definition, maxRequested int) (*Collection, error) {
	engine, err := NewEngine(def, maxRequested)
	if err != nil {
		return nil, err
	}
	return &Collection{engine: engine}, nil
}

func (c *Collection) Definition() Definition { return c.engine.Def }

func (c *Collection) Clear() {
	c.instances = nil
	c.counts = Counts{}
	c.entries = nil
	c.adjustments = nil
	c.toFull = nil
	c.toOneBye = nil
}

// Assign computes counts for entries, trims oversized requests and fills
// instances greedily in EntryLess order. Entries with no brackets requested
// are ignored.
func (c *Collection) Assign(entries []PlayerEntry) error {
	c.Clear()

	prepared, err := PrepareEntries(entries, c.engine.MaxRequested)
	if err != nil {
		return err
	}
	counts, err := c.engine.ComputeBracketCounts(prepared)
	if err != nil {
		return err
	}
	repaired, counts, adjustments, err := c.engine.RepairOversizedRequests(prepared, counts)
	if err != nil {
		return err
	}

	SortEntries(repaired)
	for _, entry := range repaired {
		for i := 0; i < entry.Requested; i++ {
			if err := c.putInFirstAvailable(entry.PlayerID); err != nil {
				c.Clear()
				return err
			}
		}
	}

	c.counts = counts
	c.entries = repaired
	c.adjustments = adjustments
	c.PopulateBrktCounts()
	return nil
}

func (c *Collection) putInFirstAvailable(playerID string) error {
	for _, in := range c.instances {
		_, err := in.AddPlayer(playerID)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrCapacityViolation) {
			return err
		}
	}

	in := NewInstance(fmt.Sprintf("bracket-%d", len(c.instances)+1), c.engine.Def)
	if _, err := in.AddPlayer(playerID); err != nil {
		return err
	}
	c.instances = append(c.instances, in)
	return nil
}

// PopulateBrktCounts records, per instance, how many more entries make it
// full and how many make it a one-bye bracket.
func (c *Collection) PopulateBrktCounts() {
	capacity := c.engine.Def.Capacity()
	c.toFull = make([]int, len(c.instances))
	c.toOneBye = make([]int, len(c.instances))
	for i, in := range c.instances {
		full := capacity - in.Len()
		c.toFull[i] = full
		if full > 0 {
			c.toOneBye[i] = full - 1
		}
	}
}

// ValidBrackets reports the first structural rule the instances break.
func (c *Collection) ValidBrackets() error {
	if len(c.instances) == 0 {
		return invariantf("no brackets")
	}
	if len(c.toFull) != len(c.instances) || len(c.toOneBye) != len(c.instances) {
		return invariantf("bracket counts out of date: %d instances, %d full counts, %d one-bye counts",
			len(c.instances), len(c.toFull), len(c.toOneBye))
	}

	capacity := c.engine.Def.Capacity()
	oneByes := 0
	for i, full := range c.toFull {
		if full > 1 {
			return invariantf("bracket %d needs %d more entries to be full", i+1, full)
		}
		if full == 1 {
			oneByes++
			if oneByes >= capacity {
				return invariantf("more than %d one-bye brackets", capacity-1)
			}
		}
	}
	return nil
}

// Withdraw removes players from every instance without reallocating.
func (c *Collection) Withdraw(playerIDs ...string) {
	for _, in := range c.instances {
		in.RemovePlayers(playerIDs...)
	}
	c.PopulateBrktCounts()
}

func (c *Collection) Instances() []*Instance {
	out := make([]*Instance, len(c.instances))
	copy(out, c.instances)
	return out
}

func (c *Collection) Counts() Counts            { return c.counts }
func (c *Collection) FullCount() int            { return c.counts.Full }
func (c *Collection) OneByeCount() int          { return c.counts.OneBye }
func (c *Collection) Adjustments() []Adjustment { return c.adjustments }

// BuiltCounts counts the instances that are actually full or one seat short.
// Counts is the target the fill aimed for. The greedy fill can miss it,
// leaving an instance two or more seats short, and ValidBrackets reports that.
func (c *Collection) BuiltCounts() Counts {
	capacity := c.engine.Def.Capacity()
	var built Counts
	for _, in := range c.instances {
		switch in.Len() {
		case capacity:
			built.Full++
		case capacity - 1:
			built.OneBye++
		}
	}
	return built
}

// Entries are the repaired entries of the last Assign in allocation order.
func (c *Collection) Entries() []PlayerEntry { return cloneEntries(c.entries) }

// TotalEntries is the number of occupied seats across all instances.
func (c *Collection) TotalEntries() int {
	total := 0
	for _, in := range c.instances {
		total += in.Len()
	}
	return total
}

func (c *Collection) ToFull() []int   { return append([]int(nil), c.toFull...) }
func (c *Collection) ToOneBye() []int { return append([]int(nil), c.toOneBye...) }

// RestoredInstance is a persisted bracket: its id and players in seed order.
type RestoredInstance struct {
	ID        string
	Occupants []string
}

// RestoreCollection rebuilds a collection from persisted brackets, one match
// at a time. Counts are derived from how full each restored bracket is.
func RestoreCollection(def Definition, maxRequested int, restored []RestoredInstance) (*Collection, error) {
	c, err := NewCollection(def, maxRequested)
	if err != nil {
		return nil, err
	}

	size := def.PlayersPerMatch
	for _, r := range restored {
		in := NewInstance(r.ID, def)
		i := 0
		for ; i+size <= len(r.Occupants); i += size {
			if _, err := in.AddMatch(r.Occupants[i : i+size]); err != nil {
				return nil, fmt.Errorf("restoring bracket %s: %w", r.ID, err)
			}
		}
		for ; i < len(r.Occupants); i++ {
			if _, err := in.AddPlayer(r.Occupants[i]); err != nil {
				return nil, fmt.Errorf("restoring bracket %s: %w", r.ID, err)
			}
		}
		c.instances = append(c.instances, in)
	}

	c.counts = c.BuiltCounts()
	c.PopulateBrktCounts()
	return c, nil
}
