package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"casino_engine/internal/game"
	"casino_engine/internal/logger"
	"casino_engine/internal/model"
	"casino_engine/internal/monitoring"
)

// PlaceBet принимает ставку: валидация до денег, списание до дро.
// Падение фабрики после списания компенсируется возвратом ставки
func (s *serv) PlaceBet(ctx context.Context, playerID int, gameType model.GameType, wager int64, params model.BetParams) (*model.PlaceBetResult, error) {
	def, ok := s.registry[gameType]
	if !ok {
		return nil, fmt.Errorf("%w: unknown game %q", model.ErrInvalidParams, gameType)
	}

	// Валидация ставки
	if wager <= 0 {
		return nil, fmt.Errorf("%w: wager must be positive", model.ErrInvalidParams)
	}
	if s.maxBet > 0 && wager > s.maxBet {
		return nil, fmt.Errorf("%w: wager above limit %d", model.ErrInvalidParams, s.maxBet)
	}
	if err := def.Validate(wager, params); err != nil {
		return nil, err
	}

	// Резервируем игровой слот: одна незавершенная ставка на игру
	e := &entry{
		id:        uuid.NewString(),
		playerID:  playerID,
		game:      gameType,
		wager:     wager,
		createdAt: time.Now(),
	}
	key := slotKey{playerID: playerID, game: gameType}

	s.mtx.Lock()
	if _, busy := s.active[key]; busy {
		s.mtx.Unlock()
		return nil, fmt.Errorf("%w: %s round already in progress", model.ErrInvalidTransition, gameType)
	}
	s.active[key] = e.id
	s.rounds[e.id] = e
	s.mtx.Unlock()

	// Запись заперта до присвоения round: запланированный терминал
	// не обгонит создание
	e.mu.Lock()

	fail := func(cause error) error {
		e.mu.Unlock()
		s.mtx.Lock()
		delete(s.rounds, e.id)
		delete(s.active, key)
		s.mtx.Unlock()
		return cause
	}

	// Серверный сид до любых мутаций денег: без энтропии ставка
	// не принимается
	seed, err := s.seeds.NewSeed()
	if err != nil {
		return nil, fail(fmt.Errorf("%w: %v", model.ErrEntropyUnavailable, err))
	}

	// Списание ставки
	if err := s.ledger.Debit(ctx, playerID, wager); err != nil {
		return nil, fail(err)
	}

	env := game.Env{
		ServerSeed: seed,
		ClientSeed: params.ClientSeed,
		Scheduler:  s.sched,
		OnTerminal: func() { s.settleAsync(e) },
	}
	round, err := def.New(env, wager, params)
	if err != nil {
		// Компенсация списания: раунд не создан, деньги возвращаются
		if _, cerr := s.ledger.Credit(ctx, playerID, wager); cerr != nil {
			logger.Log.Error("bet refund failed",
				zap.Int("player_id", playerID), zap.Error(cerr))
		}
		return nil, fail(err)
	}
	e.round = round

	monitoring.RoundsStarted.WithLabelValues(string(gameType)).Inc()
	monitoring.WagerTotal.WithLabelValues(string(gameType)).Add(float64(wager))
	logger.Log.Info("bet placed",
		zap.String("round_id", e.id),
		zap.Int("player_id", playerID),
		zap.String("game", string(gameType)),
		zap.Int64("wager", wager),
	)

	// Моментальные игры рассчитываются прямо на приеме ставки
	if round.Terminal() {
		s.settleLocked(ctx, e)
	}
	e.mu.Unlock()

	balance, err := s.ledger.Balance(ctx, playerID)
	if err != nil {
		return nil, err
	}

	return &model.PlaceBetResult{
		RoundID:    e.id,
		CommitHash: round.Commit(),
		Balance:    balance,
	}, nil
}
