package roulette

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casino_engine/internal/game"
	"casino_engine/internal/model"
)

func spin(t *testing.T, seed, color string) game.Round {
	t.Helper()
	r, err := New(game.Env{ServerSeed: seed, ClientSeed: "c"}, 100, model.BetParams{Color: color})
	require.NoError(t, err)
	return r
}

func TestValidateColor(t *testing.T) {
	require.NoError(t, Validate(100, model.BetParams{Color: ColorRed}))
	require.NoError(t, Validate(100, model.BetParams{Color: ColorGreen}))
	require.ErrorIs(t, Validate(100, model.BetParams{Color: "blue"}), model.ErrInvalidParams)
	require.ErrorIs(t, Validate(100, model.BetParams{}), model.ErrInvalidParams)
}

func TestSlotColorTable(t *testing.T) {
	require.Equal(t, ColorGreen, SlotColor(0))
	require.Equal(t, ColorRed, SlotColor(1))
	require.Equal(t, ColorBlack, SlotColor(2))
	require.Equal(t, ColorRed, SlotColor(36))
	require.Equal(t, ColorBlack, SlotColor(35))
	require.Len(t, blackSlots, 18)
}

func TestReportedSlotMatchesColor(t *testing.T) {
	for i := 0; i < 500; i++ {
		view := spin(t, fmt.Sprintf("seed-%d", i), ColorRed).View().Roulette
		require.Equal(t, view.Color, SlotColor(view.Slot))
	}
}

func TestPayouts(t *testing.T) {
	// ищем по сидам выигрыш каждого цвета
	var greenWin, redWin, miss bool
	for i := 0; i < 2000 && !(greenWin && redWin && miss); i++ {
		seed := fmt.Sprintf("payout-%d", i)
		g := spin(t, seed, ColorGreen)
		r := spin(t, seed, ColorRed)

		if g.View().Roulette.Color == ColorGreen {
			greenWin = true
			st := g.Settlement()
			require.Equal(t, model.OutcomeWin, st.Outcome)
			require.Equal(t, int64(1400), st.Payout)
		}
		switch r.View().Roulette.Color {
		case ColorRed:
			redWin = true
			st := r.Settlement()
			require.Equal(t, model.OutcomeWin, st.Outcome)
			require.Equal(t, int64(200), st.Payout)
		default:
			miss = true
			st := r.Settlement()
			require.Equal(t, model.OutcomeLose, st.Outcome)
			require.Zero(t, st.Payout)
		}
	}
	require.True(t, greenWin)
	require.True(t, redWin)
	require.True(t, miss)
}

// Частоты цветов сходятся к 1/37, 18/37, 18/37
func TestColorFrequenciesConverge(t *testing.T) {
	counts := map[string]int{}
	const trials = 100000
	for i := 0; i < trials; i++ {
		counts[spin(t, fmt.Sprintf("freq-%d", i), ColorRed).View().Roulette.Color]++
	}
	assert.InDelta(t, 1.0/37, float64(counts[ColorGreen])/trials, 0.003)
	assert.InDelta(t, 18.0/37, float64(counts[ColorRed])/trials, 0.01)
	assert.InDelta(t, 18.0/37, float64(counts[ColorBlack])/trials, 0.01)
}
