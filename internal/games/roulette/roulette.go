package roulette

import (
	"fmt"
	"math"

	"casino_engine/internal/game"
	"casino_engine/internal/model"
	"casino_engine/pkg/rng"
)

// Цвета европейского колеса
const (
	ColorRed   = "red"
	ColorBlack = "black"
	ColorGreen = "green"
)

const wheelSlots = 37

// Множители выплат по цвету ставки
const (
	greenMultiplier = 14
	colorMultiplier = 2
)

// redSlots - красные номера стандартной европейской раскладки.
// Зеро зеленый, остальные 18 - черные
var redSlots = []int{1, 3, 5, 7, 9, 12, 14, 16, 18, 19, 21, 23, 25, 27, 30, 32, 34, 36}

var blackSlots = func() []int {
	red := make(map[int]bool, len(redSlots))
	for _, n := range redSlots {
		red[n] = true
	}
	var black []int
	for n := 1; n < wheelSlots; n++ {
		if !red[n] {
			black = append(black, n)
		}
	}
	return black
}()

// SlotColor - цвет слота колеса
func SlotColor(slot int) string {
	switch {
	case slot == 0:
		return ColorGreen
	default:
		for _, n := range redSlots {
			if n == slot {
				return ColorRed
			}
		}
		return ColorBlack
	}
}

// round - однофазный раунд: сначала разыгрывается выигрышный цвет
// с истинными вероятностями слотов (1/37, 18/37, 18/37), затем
// равномерно выбирается номер слота этого цвета - чисто косметика,
// на выплату номер не влияет
type round struct {
	seed     string
	betColor string
	color    string
	slot     int
	wager    int64
}

func Validate(_ int64, params model.BetParams) error {
	switch params.Color {
	case ColorRed, ColorBlack, ColorGreen:
		return nil
	default:
		return fmt.Errorf("%w: color must be red, black or green", model.ErrInvalidParams)
	}
}

func New(env game.Env, wager int64, params model.BetParams) (game.Round, error) {
	st := env.Stream()
	r := &round{seed: env.ServerSeed, betColor: params.Color, wager: wager}

	u := st.Uniform()
	switch {
	case u < 1.0/wheelSlots:
		r.color = ColorGreen
		r.slot = 0
	case u < 19.0/wheelSlots:
		r.color = ColorRed
		r.slot = redSlots[st.IntRange(0, len(redSlots)-1)]
	default:
		r.color = ColorBlack
		r.slot = blackSlots[st.IntRange(0, len(blackSlots)-1)]
	}

	return r, nil
}

func Definition() game.Definition {
	return game.Definition{
		Type:     model.GameRoulette,
		Validate: Validate,
		New:      New,
	}
}

func (r *round) Phase() model.Phase { return model.PhaseFinished }
func (r *round) Terminal() bool     { return true }
func (r *round) Seed() string       { return r.seed }
func (r *round) Commit() string     { return rng.SeedHash(r.seed) }

func (r *round) Act(model.Action, model.ActionParams) error {
	return fmt.Errorf("%w: wheel is already settled", model.ErrInvalidTransition)
}

func (r *round) View() model.GameView {
	return model.GameView{Roulette: &model.RouletteState{
		BetColor: r.betColor,
		Color:    r.color,
		Slot:     r.slot,
	}}
}

func (r *round) Settlement() model.Settlement {
	if r.betColor != r.color {
		return model.Settlement{Outcome: model.OutcomeLose}
	}
	mult := colorMultiplier
	if r.color == ColorGreen {
		mult = greenMultiplier
	}
	return model.Settlement{
		Outcome:    model.OutcomeWin,
		Payout:     int64(math.Floor(float64(r.wager) * float64(mult))),
		Multiplier: float64(mult),
	}
}
