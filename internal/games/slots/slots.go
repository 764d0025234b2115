package slots

import (
	"fmt"
	"math"

	"casino_engine/internal/game"
	"casino_engine/internal/model"
	"casino_engine/pkg/rng"
)

// Символы барабанов
const (
	SymbolSeven   = "7"
	SymbolDiamond = "diamond"
	SymbolCherry  = "cherry"
	SymbolLemon   = "lemon"
)

// symbols - порядок для равномерного дро
var symbols = [4]string{SymbolSeven, SymbolDiamond, SymbolCherry, SymbolLemon}

// payoutTable - множители за три одинаковых символа
var payoutTable = map[string]int{
	SymbolSeven:   50,
	SymbolDiamond: 25,
	SymbolCherry:  10,
	SymbolLemon:   5,
}

// round - однофазный спин: три независимых барабана,
// без общей колоды и without-replacement
type round struct {
	seed       string
	reels      [3]string
	multiplier int
	wager      int64
}

func Validate(_ int64, _ model.BetParams) error {
	return nil
}

func New(env game.Env, wager int64, _ model.BetParams) (game.Round, error) {
	st := env.Stream()
	r := &round{seed: env.ServerSeed, wager: wager}
	for i := range r.reels {
		r.reels[i] = symbols[st.IntRange(0, len(symbols)-1)]
	}
	// Выигрыш только при трех одинаковых
	if r.reels[0] == r.reels[1] && r.reels[1] == r.reels[2] {
		r.multiplier = payoutTable[r.reels[0]]
	}
	return r, nil
}

func Definition() game.Definition {
	return game.Definition{
		Type:     model.GameSlots,
		Validate: Validate,
		New:      New,
	}
}

func (r *round) Phase() model.Phase { return model.PhaseFinished }
func (r *round) Terminal() bool     { return true }
func (r *round) Seed() string       { return r.seed }
func (r *round) Commit() string     { return rng.SeedHash(r.seed) }

func (r *round) Act(model.Action, model.ActionParams) error {
	return fmt.Errorf("%w: spin is already settled", model.ErrInvalidTransition)
}

func (r *round) View() model.GameView {
	return model.GameView{Slots: &model.SlotsState{
		Reels:      r.reels,
		Multiplier: r.multiplier,
	}}
}

func (r *round) Settlement() model.Settlement {
	if r.multiplier == 0 {
		return model.Settlement{Outcome: model.OutcomeLose}
	}
	return model.Settlement{
		Outcome:    model.OutcomeWin,
		Payout:     int64(math.Floor(float64(r.wager) * float64(r.multiplier))),
		Multiplier: float64(r.multiplier),
	}
}
