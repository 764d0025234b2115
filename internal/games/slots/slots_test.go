package slots

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"casino_engine/internal/game"
	"casino_engine/internal/model"
)

func spin(t *testing.T, seed string) game.Round {
	t.Helper()
	r, err := New(game.Env{ServerSeed: seed, ClientSeed: "c"}, 100, model.BetParams{})
	require.NoError(t, err)
	return r
}

func TestSpinIsTerminalAndRejectsActions(t *testing.T) {
	r := spin(t, "seed")
	require.True(t, r.Terminal())
	require.ErrorIs(t, r.Act(model.ActionHit, model.ActionParams{}), model.ErrInvalidTransition)
}

func TestTripleMatchPaysSymbolMultiplier(t *testing.T) {
	found := 0
	for i := 0; i < 5000 && found < 3; i++ {
		r := spin(t, fmt.Sprintf("seed-%d", i))
		view := r.View().Slots
		st := r.Settlement()
		if view.Reels[0] == view.Reels[1] && view.Reels[1] == view.Reels[2] {
			found++
			require.Equal(t, model.OutcomeWin, st.Outcome)
			require.Equal(t, int64(payoutTable[view.Reels[0]]*100), st.Payout)
			require.Equal(t, payoutTable[view.Reels[0]], view.Multiplier)
		} else {
			require.Equal(t, model.OutcomeLose, st.Outcome)
			require.Zero(t, st.Payout)
			require.Zero(t, view.Multiplier)
		}
	}
	// при 1/16 шансе тройни на 5000 спинов три совпадения обязаны найтись
	require.GreaterOrEqual(t, found, 3)
}

func TestReelsAreIndependentlyUniform(t *testing.T) {
	counts := make(map[string]int)
	const trials = 40000
	for i := 0; i < trials; i++ {
		view := spin(t, fmt.Sprintf("uniform-%d", i)).View().Slots
		for _, s := range view.Reels {
			counts[s]++
		}
	}
	for _, s := range symbols {
		got := float64(counts[s]) / float64(3*trials)
		require.InDelta(t, 0.25, got, 0.01, "symbol %s", s)
	}
}
