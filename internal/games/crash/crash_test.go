package crash

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"casino_engine/internal/game"
	"casino_engine/internal/model"
	"casino_engine/pkg/rng"
)

var testCfg = Config{Countdown: 5 * time.Second, GrowthRate: 0.07}

// queueSeeds - фиксированная очередь сидов для стола
type queueSeeds struct {
	seeds []string
	next  int
}

func (q *queueSeeds) NewSeed() (string, error) {
	if q.next >= len(q.seeds) {
		return "", fmt.Errorf("seed queue exhausted")
	}
	s := q.seeds[q.next]
	q.next++
	return s, nil
}

// cycleCrashPoint воспроизводит дро цикла тем же потоком, что и стол
func cycleCrashPoint(seed string, nonce uint64) float64 {
	return CrashPoint(rng.NewStream(seed, "", nonce).Uniform())
}

// pickSeed перебирает кандидатов, пока точка разбития первого цикла
// не окажется не ниже minCP. Детерминированно для фиксированного prefix
func pickSeed(t *testing.T, prefix string, minCP float64) string {
	t.Helper()
	for i := 0; i < 4096; i++ {
		seed := fmt.Sprintf("%s-%d", prefix, i)
		if cycleCrashPoint(seed, 1) >= minCP {
			return seed
		}
	}
	t.Fatalf("no candidate seed with crash point >= %v", minCP)
	return ""
}

// pickInstantSeed ищет сид, на котором формула упирается в клэмп 1.00
func pickInstantSeed(t *testing.T) string {
	t.Helper()
	for i := 0; i < 4096; i++ {
		seed := fmt.Sprintf("instant-%d", i)
		if cycleCrashPoint(seed, 1) == 1.0 {
			return seed
		}
	}
	t.Fatal("no candidate seed with instant crash")
	return ""
}

func newTable(t *testing.T, seeds ...string) (*Table, *game.ManualScheduler) {
	t.Helper()
	sched := game.NewManualScheduler()
	tbl := NewTable(testCfg, sched, &queueSeeds{seeds: seeds})
	require.NoError(t, tbl.Start())
	return tbl, sched
}

func TestCrashPointFormula(t *testing.T) {
	// хвост формулы и клэмп снизу
	require.Equal(t, 1.0, CrashPoint(0))
	require.Equal(t, 1.0, CrashPoint(0.005))
	require.InDelta(t, 1.98, CrashPoint(0.5), 1e-9)
	require.InDelta(t, 9.9, CrashPoint(0.9), 1e-9)
	require.Less(t, CrashPoint(0.3), CrashPoint(0.7))
}

func TestJoinOnlyDuringBetting(t *testing.T) {
	seed := pickSeed(t, "join", 1.5)
	tbl, sched := newTable(t, seed)

	_, err := tbl.Join(100, nil)
	require.NoError(t, err)

	// каунтдаун истек, кривая пошла
	sched.Advance(testCfg.Countdown)
	_, err = tbl.Join(100, nil)
	require.ErrorIs(t, err, ErrBettingClosed)
	require.ErrorIs(t, err, model.ErrInvalidTransition)
}

func TestCashOutLocksCurveMultiplier(t *testing.T) {
	seed := pickSeed(t, "cashout", 2.0)
	cp := cycleCrashPoint(seed, 1)
	tbl, sched := newTable(t, seed)

	r, err := tbl.Join(1000, nil)
	require.NoError(t, err)
	require.Equal(t, rng.SeedHash(seed), r.Commit())

	sched.Advance(testCfg.Countdown)
	require.Equal(t, PhaseRunning, r.Phase())
	// сид до разбития не раскрывается даже участнику
	require.Empty(t, r.Seed())

	// кешаут на половине пути до точки разбития
	crashAt := time.Duration(math.Log(cp) / testCfg.GrowthRate * float64(time.Second))
	sched.Advance(crashAt / 2)
	require.NoError(t, r.Act(model.ActionCashOut, model.ActionParams{}))

	require.True(t, r.Terminal())
	require.Equal(t, PhaseCashed, r.Phase())

	elapsed := (crashAt / 2).Seconds()
	wantMult := math.Exp(testCfg.GrowthRate * elapsed)
	st := r.Settlement()
	require.Equal(t, model.OutcomeWin, st.Outcome)
	require.InDelta(t, wantMult, st.Multiplier, 1e-9)
	require.Equal(t, int64(math.Floor(1000*st.Multiplier)), st.Payout)
	require.Less(t, st.Multiplier, cp)

	// повторный кешаут невалиден
	err = r.Act(model.ActionCashOut, model.ActionParams{})
	require.ErrorIs(t, err, model.ErrInvalidTransition)
}

func TestUncashedBetsLoseAtCrash(t *testing.T) {
	seed := pickSeed(t, "uncashed", 2.0)
	cp := cycleCrashPoint(seed, 1)
	tbl, sched := newTable(t, seed, "next-cycle")

	terminalCalls := 0
	cashed, err := tbl.Join(500, func() { t.Fatal("cashed bet must not fire onTerminal") })
	require.NoError(t, err)
	held, err := tbl.Join(500, func() { terminalCalls++ })
	require.NoError(t, err)

	sched.Advance(testCfg.Countdown)
	sched.Advance(time.Second)
	require.NoError(t, cashed.Act(model.ActionCashOut, model.ActionParams{}))

	// до самого разбития
	crashAt := time.Duration(math.Log(cp) / testCfg.GrowthRate * float64(time.Second))
	sched.Advance(crashAt)

	require.True(t, held.Terminal())
	require.Equal(t, PhaseCrashed, held.Phase())
	require.Equal(t, 1, terminalCalls)

	st := held.Settlement()
	require.Equal(t, model.OutcomeLose, st.Outcome)
	require.Zero(t, st.Payout)

	// кешаут после разбития отклоняется, выигрышем не становится
	err = held.Act(model.ActionCashOut, model.ActionParams{})
	require.ErrorIs(t, err, model.ErrInvalidTransition)
	require.Equal(t, model.OutcomeLose, held.Settlement().Outcome)

	// сид цикла раскрыт обоим участникам
	require.Equal(t, seed, held.Seed())
	require.Equal(t, seed, cashed.Seed())
	view := held.View()
	require.InDelta(t, cp, view.Crash.CrashPoint, 1e-9)
}

func TestLateCashOutOnBoundaryLoses(t *testing.T) {
	// Гонка кешаута с таймером разбития: кривая уже на точке разбития,
	// но таймер еще не отработал. Кешаут обязан разрешиться проигрышем
	seed := pickSeed(t, "boundary", 1.5)
	tbl, sched := newTable(t, seed)

	r, err := tbl.Join(100, nil)
	require.NoError(t, err)
	sched.Advance(testCfg.Countdown)

	tbl.mu.Lock()
	tbl.cur.crashPoint = 1.0 + 1e-12
	tbl.mu.Unlock()
	sched.Advance(time.Millisecond)

	require.NoError(t, r.Act(model.ActionCashOut, model.ActionParams{}))
	require.True(t, r.Terminal())
	require.Equal(t, model.OutcomeLose, r.Settlement().Outcome)
}

func TestInstantCrashAtClamp(t *testing.T) {
	// u в хвосте клэмпа: разбитие на 1.00x сразу после каунтдауна
	seed := pickInstantSeed(t)
	tbl, sched := newTable(t, seed, "after-instant")

	terminal := false
	r, err := tbl.Join(100, func() { terminal = true })
	require.NoError(t, err)

	sched.Advance(testCfg.Countdown)
	require.True(t, r.Terminal())
	require.True(t, terminal)
	require.Equal(t, model.OutcomeLose, r.Settlement().Outcome)
	require.InDelta(t, 1.0, r.View().Crash.CrashPoint, 1e-9)
}

func TestNextCycleOpensWithFreshSeed(t *testing.T) {
	first := pickSeed(t, "cycle-a", 1.2)
	tbl, sched := newTable(t, first, "cycle-b")

	sched.Advance(testCfg.Countdown)
	cp := cycleCrashPoint(first, 1)
	crashAt := time.Duration(math.Log(cp) / testCfg.GrowthRate * float64(time.Second))
	sched.Advance(crashAt)
	sched.Advance(resetPause)

	// новый цикл принимает ставки под новым коммитом
	r, err := tbl.Join(100, nil)
	require.NoError(t, err)
	require.Equal(t, rng.SeedHash("cycle-b"), r.Commit())
	require.Equal(t, model.PhaseBetting, r.Phase())
}

func TestEntropyFailureClosesBetting(t *testing.T) {
	sched := game.NewManualScheduler()
	tbl := NewTable(testCfg, sched, &queueSeeds{})

	err := tbl.Start()
	require.ErrorIs(t, err, model.ErrEntropyUnavailable)

	_, err = tbl.Join(100, nil)
	require.ErrorIs(t, err, model.ErrEntropyUnavailable)
}

func TestSecondCycleDrawUsesOwnNonce(t *testing.T) {
	// один и тот же сид в двух циклах дает разные точки разбития
	require.NotEqual(t, cycleCrashPoint("same-seed", 1), cycleCrashPoint("same-seed", 2))
}

func TestDefinitionDelegatesJoin(t *testing.T) {
	seed := pickSeed(t, "def", 1.2)
	tbl, _ := newTable(t, seed)

	def := Definition(tbl)
	require.Equal(t, model.GameCrash, def.Type)
	require.NoError(t, def.Validate(100, model.BetParams{}))

	r, err := def.New(game.Env{}, 100, model.BetParams{})
	require.NoError(t, err)
	require.Equal(t, model.PhaseBetting, r.Phase())
}

var _ rng.SeedSource = (*queueSeeds)(nil)
