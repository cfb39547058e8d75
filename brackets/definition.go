package brackets

import "fmt"

// MaxCapacity bounds the seats in one bracket. Shapes past it are rejected
// by Validate, which also keeps Capacity clear of integer overflow.
const MaxCapacity = 1 << 16

// Definition is the shape of one single-elimination bracket.
type Definition struct {
	PlayersPerMatch int `json:"players_per_match"`
	Games           int `json:"games"`
}

// Capacity is PlayersPerMatch^Games, the number of seats in one bracket.
// It returns 0 for a shape that fails Validate.
func (d Definition) Capacity() int {
	capacity, ok := d.capacity()
	if !ok {
		return 0
	}
	return capacity
}

// capacity stops multiplying as soon as the product passes MaxCapacity.
func (d Definition) capacity() (int, bool) {
	if d.PlayersPerMatch < 2 || d.Games < 1 {
		return 0, false
	}
	capacity := 1
	for i := 0; i < d.Games; i++ {
		capacity *= d.PlayersPerMatch
		if capacity > MaxCapacity {
			return 0, false
		}
	}
	return capacity, true
}

func (d Definition) Validate() error {
	if d.PlayersPerMatch < 2 {
		return fmt.Errorf("%w: players per match must be at least 2, got %d", ErrInvalidDefinition, d.PlayersPerMatch)
	}
	if d.Games < 1 {
		return fmt.Errorf("%w: games must be at least 1, got %d", ErrInvalidDefinition, d.Games)
	}
	if _, ok := d.capacity(); !ok {
		return fmt.Errorf("%w: %d^%d seats exceeds the limit of %d", ErrInvalidDefinition, d.PlayersPerMatch, d.Games, MaxCapacity)
	}
	return nil
}
