package dice

import (
	"fmt"
	"math"

	"casino_engine/internal/game"
	"casino_engine/internal/model"
	"casino_engine/pkg/rng"
)

const (
	// Границы prediction, exclusive
	minPrediction = 2.0
	maxPrediction = 98.0
	// Числитель множителя: 98 против 100 дает заложенные 2% преимущества дома
	payoutNumerator = 98.0
)

// Multiplier - коэффициент выплаты для порога prediction
func Multiplier(prediction float64) float64 {
	return payoutNumerator / (100.0 - prediction)
}

// round - однофазный раунд: единственный бросок при создании,
// расчет немедленный
type round struct {
	seed       string
	prediction float64
	roll       float64
	multiplier float64
	wager      int64
	won        bool
}

// Validate проверяет параметры до списания ставки
func Validate(wager int64, params model.BetParams) error {
	if params.Prediction <= minPrediction || params.Prediction >= maxPrediction {
		return fmt.Errorf("%w: prediction must be in (%v, %v) exclusive",
			model.ErrInvalidParams, minPrediction, maxPrediction)
	}
	return nil
}

// New делает бросок roll in [0, 100) и сразу фиксирует исход:
// выигрыш строго при roll > prediction
func New(env game.Env, wager int64, params model.BetParams) (game.Round, error) {
	st := env.Stream()
	r := &round{
		seed:       env.ServerSeed,
		prediction: params.Prediction,
		roll:       st.Uniform() * 100.0,
		multiplier: Multiplier(params.Prediction),
		wager:      wager,
	}
	r.won = r.roll > r.prediction
	return r, nil
}

// Definition - регистрация игры в движке
func Definition() game.Definition {
	return game.Definition{
		Type:     model.GameDice,
		Validate: Validate,
		New:      New,
	}
}

func (r *round) Phase() model.Phase { return model.PhaseFinished }
func (r *round) Terminal() bool     { return true }
func (r *round) Seed() string       { return r.seed }
func (r *round) Commit() string     { return rng.SeedHash(r.seed) }

func (r *round) Act(action model.Action, _ model.ActionParams) error {
	return fmt.Errorf("%w: dice round is already settled", model.ErrInvalidTransition)
}

func (r *round) View() model.GameView {
	return model.GameView{Dice: &model.DiceState{
		Prediction: r.prediction,
		Roll:       r.roll,
		Multiplier: r.multiplier,
	}}
}

func (r *round) Settlement() model.Settlement {
	if !r.won {
		return model.Settlement{Outcome: model.OutcomeLose}
	}
	return model.Settlement{
		Outcome:    model.OutcomeWin,
		Payout:     int64(math.Floor(float64(r.wager) * r.multiplier)),
		Multiplier: r.multiplier,
	}
}
