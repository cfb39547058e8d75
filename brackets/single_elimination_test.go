package brackets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seated(t *testing.T, n int) *Instance {
	t.Helper()
	in := NewInstance("bracket-1", eightPlayer)
	for _, id := range players(n) {
		_, err := in.AddPlayer(id)
		require.NoError(t, err)
	}
	return in
}

func TestSingleEliminationFirstRound(t *testing.T) {
	gen := NewSingleEliminationGenerator()
	assert.Equal(t, "SingleElimination", gen.GetName())

	t.Run("full bracket", func(t *testing.T) {
		matches, err := gen.GenerateBracket(context.Background(), GenerateBracketParams{Instance: seated(t, 8)})
		require.NoError(t, err)
		require.Len(t, matches, 4)

		assert.Equal(t, "R1M1", matches[0].UID)
		assert.Equal(t, []int{1, 2}, matches[0].Seeds)
		assert.Equal(t, []string{"ply_07", "ply_08"}, matches[3].PlayerIDs)
		for _, m := range matches {
			assert.False(t, m.IsBye)
		}
	})

	t.Run("one-bye bracket", func(t *testing.T) {
		matches, err := gen.GenerateBracket(context.Background(), GenerateBracketParams{Instance: seated(t, 7)})
		require.NoError(t, err)
		require.Len(t, matches, 4)

		last := matches[3]
		assert.True(t, last.IsBye)
		assert.Equal(t, "ply_07", last.ByePlayerID)
		assert.Equal(t, []int{7}, last.Seeds)
		assert.False(t, matches[2].IsBye)
	})

	t.Run("more than one empty seat", func(t *testing.T) {
		_, err := gen.GenerateBracket(context.Background(), GenerateBracketParams{Instance: seated(t, 6)})
		assert.Error(t, err)
	})

	t.Run("no bracket", func(t *testing.T) {
		_, err := gen.GenerateBracket(context.Background(), GenerateBracketParams{})
		assert.Error(t, err)
	})
}
