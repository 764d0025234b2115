package mines

import (
	"fmt"
	"math"
	"sync"

	"casino_engine/internal/game"
	"casino_engine/internal/model"
	"casino_engine/pkg/rng"
)

// Фазы раунда
const (
	PhasePlaying model.Phase = "playing"
	PhaseCashed  model.Phase = "cashed"
	PhaseLost    model.Phase = "lost"
)

const (
	gridSize = 25
	// Допустимый диапазон количества мин
	minMines = 1
	maxMines = gridSize - 1
)

// round - раунд минера. Мины раскладываются равномерно без повторов
// при создании; раскрытие ячеек монотонно, множитель пересчитывается
// на каждом безопасном раскрытии
type round struct {
	mu        sync.Mutex
	machine   *game.Machine
	seed      string
	wager     int64
	mineCount int
	mines     map[int]bool
	revealed  [gridSize]bool
	safeOpen  int
	mult      float64
}

func Validate(_ int64, params model.BetParams) error {
	if params.MineCount < minMines || params.MineCount > maxMines {
		return fmt.Errorf("%w: mine count must be in [%d, %d]",
			model.ErrInvalidParams, minMines, maxMines)
	}
	return nil
}

func New(env game.Env, wager int64, params model.BetParams) (game.Round, error) {
	st := env.Stream()
	r := &round{
		machine: game.NewMachine(PhasePlaying, map[model.Phase][]model.Phase{
			PhasePlaying: {PhaseCashed, PhaseLost},
		}),
		seed:      env.ServerSeed,
		wager:     wager,
		mineCount: params.MineCount,
		mines:     make(map[int]bool, params.MineCount),
		mult:      1.0,
	}
	// Равномерная раскладка без повторов: первые mineCount позиций
	// перестановки Фишера-Йетса
	for _, idx := range st.Perm(gridSize)[:params.MineCount] {
		r.mines[idx] = true
	}
	return r, nil
}

func Definition() game.Definition {
	return game.Definition{
		Type:     model.GameMines,
		Validate: Validate,
		New:      New,
	}
}

func (r *round) Phase() model.Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.machine.Phase()
}

func (r *round) Terminal() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.machine.Terminal()
}

func (r *round) Commit() string {
	return rng.SeedHash(r.seed)
}

func (r *round) Seed() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.machine.Terminal() {
		return ""
	}
	return r.seed
}

func (r *round) Act(action model.Action, params model.ActionParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch action {
	case model.ActionReveal:
		return r.reveal(params.CellIndex)
	case model.ActionCashOut:
		return r.machine.Transition(PhaseCashed)
	default:
		return fmt.Errorf("%w: unknown action %q", model.ErrInvalidTransition, action)
	}
}

func (r *round) reveal(idx int) error {
	if r.machine.Terminal() {
		return fmt.Errorf("%w: round is settled", model.ErrInvalidTransition)
	}
	if idx < 0 || idx >= gridSize {
		return fmt.Errorf("%w: cell index out of grid", model.ErrInvalidParams)
	}
	if r.revealed[idx] {
		return fmt.Errorf("%w: cell already revealed", model.ErrInvalidTransition)
	}

	if r.mines[idx] {
		// Подрыв: раскрываем все поле и фиксируем проигрыш
		for i := range r.revealed {
			r.revealed[i] = true
		}
		return r.machine.Transition(PhaseLost)
	}

	// Fair-odds аппроксимация гипергеометрической вероятности:
	// счетчики берутся до декремента за только что раскрытую ячейку
	remaining := gridSize - r.safeOpen
	remainingSafe := remaining - r.mineCount
	r.mult *= float64(remaining) / float64(remainingSafe)

	r.revealed[idx] = true
	r.safeOpen++

	// Все безопасные ячейки открыты - остается только кешаут,
	// выполняем его за игрока
	if r.safeOpen == gridSize-r.mineCount {
		return r.machine.Transition(PhaseCashed)
	}
	return nil
}

func (r *round) View() model.GameView {
	r.mu.Lock()
	defer r.mu.Unlock()

	st := &model.MinesState{
		MineCount:    r.mineCount,
		Revealed:     r.revealed,
		SafeRevealed: r.safeOpen,
		Multiplier:   r.mult,
	}
	// Раскладка мин видна только после завершения
	if r.machine.Terminal() {
		for idx := range r.mines {
			st.Mines = append(st.Mines, idx)
		}
	}
	return model.GameView{Mines: st}
}

func (r *round) Settlement() model.Settlement {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.machine.Phase() != PhaseCashed {
		return model.Settlement{Outcome: model.OutcomeLose}
	}
	return model.Settlement{
		Outcome:    model.OutcomeWin,
		Payout:     int64(math.Floor(float64(r.wager) * r.mult)),
		Multiplier: r.mult,
	}
}
