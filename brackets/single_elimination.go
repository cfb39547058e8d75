package brackets

import (
	"context"
	"errors"
	"fmt"
)

type BracketMatch struct {
	UID          string   `json:"uid"`
	Round        int      `json:"round"`
	OrderInRound int      `json:"order_in_round"`
	Seeds        []int    `json:"seeds"`
	PlayerIDs    []string `json:"player_ids"`

	IsBye       bool   `json:"is_bye"`
	ByePlayerID string `json:"bye_player_id,omitempty"`
}

type SingleEliminationGenerator struct{}

func NewSingleEliminationGenerator() BracketGenerator {
	return &SingleEliminationGenerator{}
}

func (g *SingleEliminationGenerator) GetName() string {
	return "SingleElimination"
}

// GenerateBracket pairs the first round of a full or one-bye instance in seed
// order. Seeds are 1-based. The short match of a one-bye bracket is the bye.
func (g *SingleEliminationGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]*BracketMatch, error) {
	in := params.Instance
	if in == nil {
		return nil, errors.New("cannot generate matches without a bracket")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	capacity := in.Capacity()
	if in.Len() < capacity-1 {
		return nil, fmt.Errorf("bracket %s has %d of %d players, at most one bye allowed", in.ID(), in.Len(), capacity)
	}

	size := in.def.PlayersPerMatch
	occupants := in.Occupants()
	matches := make([]*BracketMatch, 0, capacity/size)

	for pos := 0; pos < capacity; pos += size {
		order := pos/size + 1
		bm := &BracketMatch{
			UID:          fmt.Sprintf("R1M%d", order),
			Round:        1,
			OrderInRound: order,
		}

		players := in.GetMatch(pos)
		if players == nil {
			players = occupants[pos:]
			bm.IsBye = true
			if len(players) == 1 {
				bm.ByePlayerID = players[0]
			}
		}

		bm.PlayerIDs = players
		for i := range players {
			bm.Seeds = append(bm.Seeds, pos+i+1)
		}
		matches = append(matches, bm)
	}

	return matches, nil
}
