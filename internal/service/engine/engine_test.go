package engine

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"casino_engine/internal/events"
	"casino_engine/internal/game"
	"casino_engine/internal/games/blackjack"
	"casino_engine/internal/games/crash"
	"casino_engine/internal/games/dice"
	"casino_engine/internal/games/mines"
	"casino_engine/internal/games/roulette"
	"casino_engine/internal/games/slots"
	"casino_engine/internal/ledger"
	"casino_engine/internal/model"
	"casino_engine/internal/repository/mem_user_repo"
	"casino_engine/pkg/rng"
)

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

type captureSink struct {
	events []model.OutcomeEvent
}

func (c *captureSink) Publish(ev model.OutcomeEvent) {
	c.events = append(c.events, ev)
}

type fixture struct {
	serv   *serv
	ledger *ledger.Ledger
	sched  *game.ManualScheduler
	sink   *captureSink
	crash  *crash.Table
	player int
}

const startBalance = 10_000

var bjCfg = blackjack.Config{DealerTick: time.Second, TurnTimeout: 30 * time.Second}
var crashCfg = crash.Config{Countdown: 5 * time.Second, GrowthRate: 0.07}

// newFixture собирает движок на памяти: все шесть игр, ручной
// планировщик и фиксированная очередь сидов
func newFixture(t *testing.T, seeds ...string) *fixture {
	t.Helper()

	repo := mem_user_repo.NewUserRepository()
	playerID, err := repo.CreateUser(context.Background(), &model.User{
		Name: "p", Login: "p", Balance: startBalance,
	})
	require.NoError(t, err)

	led := ledger.New(repo, ledger.PassthroughManager{})
	sched := game.NewManualScheduler()
	sink := &captureSink{}

	// У стола краша своя очередь сидов, чтобы сиды ставок из
	// аргументов не смещались циклами стола
	table := crash.NewTable(crashCfg, sched, &queueSeeds{seeds: []string{"cycle-1", "cycle-2", "cycle-3"}})
	require.NoError(t, table.Start())

	registry := make(game.Registry)
	registry.Register(dice.Definition())
	registry.Register(slots.Definition())
	registry.Register(roulette.Definition())
	registry.Register(mines.Definition())
	registry.Register(blackjack.Definition(bjCfg))
	registry.Register(crash.Definition(table))

	s := NewEngineService(Deps{
		Registry:  registry,
		Ledger:    led,
		Seeds:     &queueSeeds{seeds: seeds},
		Scheduler: sched,
		Sink:      events.NewFanout(sink),
		MaxBet:    5_000,
	}).(*serv)

	return &fixture{serv: s, ledger: led, sched: sched, sink: sink, crash: table, player: playerID}
}

func (f *fixture) balance(t *testing.T) int64 {
	t.Helper()
	b, err := f.ledger.Balance(context.Background(), f.player)
	require.NoError(t, err)
	return b
}

func TestPlaceBetValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "s1")

	_, err := f.serv.PlaceBet(ctx, f.player, "poker", 100, model.BetParams{})
	require.ErrorIs(t, err, model.ErrInvalidParams)

	_, err = f.serv.PlaceBet(ctx, f.player, model.GameDice, 0, model.BetParams{Prediction: 50})
	require.ErrorIs(t, err, model.ErrInvalidParams)

	_, err = f.serv.PlaceBet(ctx, f.player, model.GameDice, 100_000, model.BetParams{Prediction: 50})
	require.ErrorIs(t, err, model.ErrInvalidParams)

	_, err = f.serv.PlaceBet(ctx, f.player, model.GameDice, 100, model.BetParams{Prediction: 99})
	require.ErrorIs(t, err, model.ErrInvalidParams)

	// Валидация до денег: баланс не тронут
	require.Equal(t, int64(startBalance), f.balance(t))
}

func TestInstantGameSettlesOnPlacement(t *testing.T) {
	ctx := context.Background()
	seed := "dice-seed"
	f := newFixture(t, seed)

	res, err := f.serv.PlaceBet(ctx, f.player, model.GameDice, 1000, model.BetParams{
		ClientSeed: "c", Prediction: 50,
	})
	require.NoError(t, err)
	require.Equal(t, rng.SeedHash(seed), res.CommitHash)

	st, err := f.serv.GetRoundState(ctx, res.RoundID)
	require.NoError(t, err)
	require.Equal(t, model.PhaseFinished, st.Phase)
	require.Equal(t, seed, st.ServerSeed)

	// Дельта баланса ровно payout - wager
	require.Equal(t, int64(startBalance)-1000+st.Payout, f.balance(t))
	require.Equal(t, res.Balance, f.balance(t))

	// Исход воспроизводим из сидов
	roll := rng.NewStream(seed, "c", 0).Uniform() * 100
	if roll > 50 {
		require.Equal(t, model.OutcomeWin, st.Outcome)
		require.Equal(t, int64(1960), st.Payout)
	} else {
		require.Equal(t, model.OutcomeLose, st.Outcome)
		require.Zero(t, st.Payout)
	}

	// Ровно одно событие, сид раскрыт
	require.Len(t, f.sink.events, 1)
	require.Equal(t, seed, f.sink.events[0].ServerSeed)

	// Слот свободен: вторая ставка проходит проверку слота и падает
	// уже на исчерпанной очереди сидов
	_, err = f.serv.PlaceBet(ctx, f.player, model.GameDice, 100, model.BetParams{Prediction: 50})
	require.ErrorIs(t, err, model.ErrEntropyUnavailable)
}

func TestInsufficientFunds(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "s1", "s2")

	// Оставляем на счету меньше ставки
	require.NoError(t, f.ledger.Debit(ctx, f.player, startBalance-100))

	_, err := f.serv.PlaceBet(ctx, f.player, model.GameSlots, 4_999, model.BetParams{})
	require.ErrorIs(t, err, model.ErrInsufficientFunds)
	require.Equal(t, int64(100), f.balance(t))

	// Слот освобожден, сумма по карману проходит
	_, err = f.serv.PlaceBet(ctx, f.player, model.GameSlots, 100, model.BetParams{})
	require.NoError(t, err)
}

func TestOneRoundPerGameSlot(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "m1", "m2", "r1")

	res, err := f.serv.PlaceBet(ctx, f.player, model.GameMines, 500, model.BetParams{MineCount: 3})
	require.NoError(t, err)

	// Второй минер до завершения первого не принимается
	_, err = f.serv.PlaceBet(ctx, f.player, model.GameMines, 500, model.BetParams{MineCount: 3})
	require.ErrorIs(t, err, model.ErrInvalidTransition)
	// Слот другой игры свободен
	_, err = f.serv.PlaceBet(ctx, f.player, model.GameRoulette, 100, model.BetParams{Color: "red"})
	require.NoError(t, err)

	// Кешаут освобождает слот минера
	_, err = f.serv.Act(ctx, f.player, res.RoundID, model.ActionCashOut, model.ActionParams{})
	require.NoError(t, err)
	_, err = f.serv.PlaceBet(ctx, f.player, model.GameMines, 500, model.BetParams{MineCount: 3})
	require.NoError(t, err)
}

func TestMinesRoundTrip(t *testing.T) {
	ctx := context.Background()
	seed := "mines-seed"
	f := newFixture(t, seed)

	res, err := f.serv.PlaceBet(ctx, f.player, model.GameMines, 1000, model.BetParams{
		ClientSeed: "c", MineCount: 5,
	})
	require.NoError(t, err)

	// Раскладку знаем из сидов: открываем первую безопасную ячейку
	minesAt := make(map[int]bool, 5)
	for _, idx := range rng.NewStream(seed, "c", 0).Perm(25)[:5] {
		minesAt[idx] = true
	}
	safe := -1
	for i := 0; i < 25; i++ {
		if !minesAt[i] {
			safe = i
			break
		}
	}

	st, err := f.serv.Act(ctx, f.player, res.RoundID, model.ActionReveal, model.ActionParams{CellIndex: safe})
	require.NoError(t, err)
	require.Empty(t, st.Outcome)
	require.Empty(t, st.ServerSeed)

	st, err = f.serv.Act(ctx, f.player, res.RoundID, model.ActionCashOut, model.ActionParams{})
	require.NoError(t, err)
	require.Equal(t, model.OutcomeWin, st.Outcome)
	// Первый сейф при пяти минах: 25/20
	require.InDelta(t, 1.25, st.Multiplier, 1e-9)
	require.Equal(t, int64(1250), st.Payout)
	require.Equal(t, seed, st.ServerSeed)
	require.Equal(t, int64(startBalance)-1000+1250, f.balance(t))

	// Повторное действие на рассчитанном раунде: отказ без второй выплаты
	_, err = f.serv.Act(ctx, f.player, res.RoundID, model.ActionCashOut, model.ActionParams{})
	require.ErrorIs(t, err, model.ErrInvalidTransition)
	require.Equal(t, int64(startBalance)-1000+1250, f.balance(t))
	require.Len(t, f.sink.events, 1)
}

func TestBlackjackScheduledSettlement(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "bj-seed")

	res, err := f.serv.PlaceBet(ctx, f.player, model.GameBlackjack, 1000, model.BetParams{ClientSeed: "c"})
	require.NoError(t, err)

	st, err := f.serv.GetRoundState(ctx, res.RoundID)
	require.NoError(t, err)
	require.Equal(t, blackjack.PhasePlayerTurn, st.Phase)
	require.True(t, st.View.Blackjack.HoleHidden)

	_, err = f.serv.Act(ctx, f.player, res.RoundID, model.ActionStand, model.ActionParams{})
	require.NoError(t, err)

	// Дилер добирает тиками планировщика до завершения
	f.sched.Advance(time.Minute)

	st, err = f.serv.GetRoundState(ctx, res.RoundID)
	require.NoError(t, err)
	require.Equal(t, model.PhaseFinished, st.Phase)
	require.NotEmpty(t, st.Outcome)
	require.Equal(t, int64(startBalance)-1000+st.Payout, f.balance(t))
	require.Len(t, f.sink.events, 1)

	// Действия на рассчитанном раунде отклоняются
	_, err = f.serv.Act(ctx, f.player, res.RoundID, model.ActionHit, model.ActionParams{})
	require.ErrorIs(t, err, model.ErrInvalidTransition)
}

func TestCrashRoundThroughEngine(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "unused-crash-bet-seed")

	res, err := f.serv.PlaceBet(ctx, f.player, model.GameCrash, 1000, model.BetParams{})
	require.NoError(t, err)
	require.Equal(t, int64(startBalance)-1000, f.balance(t))

	// Не кешаутимся вовсе: после разбития ставка проигрывает
	f.sched.Advance(crashCfg.Countdown)
	f.sched.Advance(10 * time.Minute)

	st, err := f.serv.GetRoundState(ctx, res.RoundID)
	require.NoError(t, err)
	require.Equal(t, model.OutcomeLose, st.Outcome)
	require.Zero(t, st.Payout)
	require.Equal(t, int64(startBalance)-1000, f.balance(t))
	require.Len(t, f.sink.events, 1)
	require.Equal(t, "cycle-1", f.sink.events[0].ServerSeed)
}

func TestEntropyFailureRejectsBet(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t) // пустая очередь сидов

	_, err := f.serv.PlaceBet(ctx, f.player, model.GameDice, 100, model.BetParams{Prediction: 50})
	require.ErrorIs(t, err, model.ErrEntropyUnavailable)
	require.Equal(t, int64(startBalance), f.balance(t))
}

func TestFactoryFailureRefundsDebit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "s1", "s2")

	f.serv.registry.Register(game.Definition{
		Type:     "broken",
		Validate: func(int64, model.BetParams) error { return nil },
		New: func(game.Env, int64, model.BetParams) (game.Round, error) {
			return nil, fmt.Errorf("boom")
		},
	})

	_, err := f.serv.PlaceBet(ctx, f.player, "broken", 1000, model.BetParams{})
	require.Error(t, err)
	require.Equal(t, int64(startBalance), f.balance(t))

	// Слот освобожден: следующая ставка проходит
	_, err = f.serv.PlaceBet(ctx, f.player, "broken", 1000, model.BetParams{})
	require.Error(t, err)
	require.Equal(t, int64(startBalance), f.balance(t))
}

func TestUnknownRound(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "s1")

	_, err := f.serv.GetRoundState(ctx, "nope")
	require.ErrorIs(t, err, model.ErrRoundNotFound)

	_, err = f.serv.Act(ctx, f.player, "nope", model.ActionHit, model.ActionParams{})
	require.ErrorIs(t, err, model.ErrRoundNotFound)

	// Раунд другого игрока неотличим от несуществующего
	res, err := f.serv.PlaceBet(ctx, f.player, model.GameSlots, 100, model.BetParams{})
	require.NoError(t, err)
	_, err = f.serv.Act(ctx, f.player+1, res.RoundID, model.ActionCashOut, model.ActionParams{})
	require.ErrorIs(t, err, model.ErrRoundNotFound)
}
