package crash

import (
	"fmt"
	"math"
	"sync"
	"time"

	"casino_engine/internal/game"
	"casino_engine/internal/model"
	"casino_engine/pkg/rng"
)

// Фазы цикла стола
const (
	PhaseRunning model.Phase = "running"
	PhaseCrashed model.Phase = "crashed"
	// PhaseCashed - терминальная фаза ставки, успевшей закешаутиться
	PhaseCashed model.Phase = "cashed"
)

// Пауза между разбитием и открытием следующего приема ставок
const resetPause = 3 * time.Second

// ErrBettingClosed - ставка вне фазы приема. При размещении внутри
// транзакции списание откатывается целиком
var ErrBettingClosed = fmt.Errorf("%w: crash betting is closed", model.ErrInvalidTransition)

// Config - параметры стола
type Config struct {
	// Countdown - длительность приема ставок
	Countdown time.Duration
	// GrowthRate - скорость роста кривой: multiplier(t) = exp(rate*t)
	GrowthRate float64
}

// CrashPoint - формула точки разбития: max(1.00, 0.99/(1-u)).
// Тяжелый хвост; ~1% раундов разбивается мгновенно на 1.00x,
// преимущество дома заложено конструкцией формулы
func CrashPoint(u float64) float64 {
	return math.Max(1.0, 0.99/(1.0-u))
}

// cycle - один оборот стола: свой сид (коммитится до приема ставок),
// своя точка разбития, свой список ставок
type cycle struct {
	seed       string
	commit     string
	nonce      uint64
	phase      model.Phase
	crashPoint float64
	started    time.Time
	rounds     []*round
}

// Table - общий стол краша. Единственная мультиплеерная игра:
// одна кривая, много независимых ставок и кешаутов против нее.
// Кешаут и переход в crashed линеаризуются мьютексом стола
type Table struct {
	mu    sync.Mutex
	cfg   Config
	sched game.Scheduler
	seeds rng.SeedSource
	nonce uint64
	cur   *cycle
}

func NewTable(cfg Config, sched game.Scheduler, seeds rng.SeedSource) *Table {
	return &Table{cfg: cfg, sched: sched, seeds: seeds}
}

// Start открывает первый прием ставок
func (t *Table) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.openBettingLocked()
}

func (t *Table) openBettingLocked() error {
	seed, err := t.seeds.NewSeed()
	if err != nil {
		// Без энтропии прием не открываем: ставки будут отклоняться
		// до следующей попытки
		t.cur = nil
		t.sched.After(resetPause, t.retryOpen)
		return fmt.Errorf("%w: %v", model.ErrEntropyUnavailable, err)
	}
	t.nonce++
	t.cur = &cycle{
		seed:   seed,
		commit: rng.SeedHash(seed),
		nonce:  t.nonce,
		phase:  model.PhaseBetting,
	}
	cyc := t.cur
	t.sched.After(t.cfg.Countdown, func() { t.startRunning(cyc) })
	return nil
}

func (t *Table) retryOpen() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cur == nil {
		_ = t.openBettingLocked()
	}
}

// startRunning разыгрывает точку разбития и взводит таймер ровно на
// момент, когда кривая ее достигнет
func (t *Table) startRunning(cyc *cycle) {
	t.mu.Lock()
	if t.cur != cyc || cyc.phase != model.PhaseBetting {
		t.mu.Unlock()
		return
	}
	st := rng.NewStream(cyc.seed, "", cyc.nonce)
	cyc.crashPoint = CrashPoint(st.Uniform())
	cyc.phase = PhaseRunning
	cyc.started = t.sched.Now()

	crashIn := time.Duration(math.Log(cyc.crashPoint) / t.cfg.GrowthRate * float64(time.Second))
	t.sched.After(crashIn, func() { t.crash(cyc) })
	t.mu.Unlock()
}

// crash переводит цикл в crashed и рассчитывает всех, кто не успел.
// Колбеки завершения зовутся без мьютекса стола
func (t *Table) crash(cyc *cycle) {
	t.mu.Lock()
	if cyc.phase != PhaseRunning {
		t.mu.Unlock()
		return
	}
	cyc.phase = PhaseCrashed

	var lost []*round
	for _, r := range cyc.rounds {
		if r.state == stateActive {
			r.state = stateLost
			lost = append(lost, r)
		}
	}
	t.sched.After(resetPause, t.nextCycle)
	t.mu.Unlock()

	for _, r := range lost {
		if r.onTerminal != nil {
			r.onTerminal()
		}
	}
}

func (t *Table) nextCycle() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cur != nil && t.cur.phase != PhaseCrashed {
		return
	}
	_ = t.openBettingLocked()
}

// multiplierLocked - текущий множитель кривой. Вызывается под t.mu
func (t *Table) multiplierLocked(cyc *cycle, now time.Time) float64 {
	elapsed := now.Sub(cyc.started).Seconds()
	return math.Exp(t.cfg.GrowthRate * elapsed)
}

// Join принимает ставку в текущий цикл. Валидно только в фазе приема
func (t *Table) Join(wager int64, onTerminal func()) (game.Round, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cur == nil {
		return nil, fmt.Errorf("%w: table is not accepting bets", model.ErrEntropyUnavailable)
	}
	if t.cur.phase != model.PhaseBetting {
		return nil, ErrBettingClosed
	}
	r := &round{table: t, cycle: t.cur, wager: wager, onTerminal: onTerminal}
	t.cur.rounds = append(t.cur.rounds, r)
	return r, nil
}

// Состояния ставки внутри цикла
type roundState int

const (
	stateActive roundState = iota
	stateCashed
	stateLost
)

// round - ставка одного игрока против общей кривой
type round struct {
	table      *Table
	cycle      *cycle
	wager      int64
	state      roundState
	mult       float64
	onTerminal func()
}

func Validate(_ int64, _ model.BetParams) error {
	return nil
}

// Definition регистрирует стол в движке: фабрика делегирует Join
func Definition(t *Table) game.Definition {
	return game.Definition{
		Type:     model.GameCrash,
		Validate: Validate,
		New: func(env game.Env, wager int64, _ model.BetParams) (game.Round, error) {
			return t.Join(wager, env.OnTerminal)
		},
	}
}

func (r *round) Phase() model.Phase {
	r.table.mu.Lock()
	defer r.table.mu.Unlock()
	switch r.state {
	case stateCashed:
		return PhaseCashed
	case stateLost:
		return PhaseCrashed
	default:
		return r.cycle.phase
	}
}

func (r *round) Terminal() bool {
	r.table.mu.Lock()
	defer r.table.mu.Unlock()
	return r.state != stateActive
}

func (r *round) Commit() string {
	return r.cycle.commit
}

// Seed раскрывает сид цикла только после разбития: раньше он
// предсказывал бы точку разбития всем участникам
func (r *round) Seed() string {
	r.table.mu.Lock()
	defer r.table.mu.Unlock()
	if r.cycle.phase != PhaseCrashed {
		return ""
	}
	return r.cycle.seed
}

// Act: единственное действие - кешаут, и он гонится с разбитием.
// Под мьютексом стола исход строго одно из двух: успели до момента
// разбития - фиксация множителя, в момент или после - проигрыш
func (r *round) Act(action model.Action, _ model.ActionParams) error {
	if action != model.ActionCashOut {
		return fmt.Errorf("%w: unknown action %q", model.ErrInvalidTransition, action)
	}

	t := r.table
	t.mu.Lock()
	defer t.mu.Unlock()

	if r.state != stateActive {
		return fmt.Errorf("%w: bet is already settled", model.ErrInvalidTransition)
	}
	if r.cycle.phase != PhaseRunning {
		return fmt.Errorf("%w: curve is not running", model.ErrInvalidTransition)
	}

	m := t.multiplierLocked(r.cycle, t.sched.Now())
	if m >= r.cycle.crashPoint {
		// Кешаут пришел в момент разбития или позже: отклоняется
		// проигрышем, таймер разбития эту ставку уже не тронет
		r.state = stateLost
		return nil
	}
	r.state = stateCashed
	r.mult = m
	return nil
}

func (r *round) View() model.GameView {
	t := r.table
	t.mu.Lock()
	defer t.mu.Unlock()

	st := &model.CrashState{TablePhase: r.cycle.phase}
	switch {
	case r.state == stateCashed:
		st.Multiplier = r.mult
	case r.state == stateActive && r.cycle.phase == PhaseRunning:
		st.Multiplier = t.multiplierLocked(r.cycle, t.sched.Now())
	}
	if r.cycle.phase == PhaseCrashed {
		st.CrashPoint = r.cycle.crashPoint
	}
	return model.GameView{Crash: st}
}

func (r *round) Settlement() model.Settlement {
	r.table.mu.Lock()
	defer r.table.mu.Unlock()

	if r.state != stateCashed {
		return model.Settlement{Outcome: model.OutcomeLose}
	}
	return model.Settlement{
		Outcome:    model.OutcomeWin,
		Payout:     int64(math.Floor(float64(r.wager) * r.mult)),
		Multiplier: r.mult,
	}
}
